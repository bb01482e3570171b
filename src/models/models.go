package models

// RawTransaction is one activity record exactly as the data provider reports it.
// Adds and Drops map a player id to the roster id gaining or losing the player.
type RawTransaction struct {
	TransactionID string               `json:"transaction_id"`
	Type          string               `json:"type"`   // e.g. "trade", "waiver", "free_agent", "commissioner"
	Status        string               `json:"status"` // only "complete" records are processed
	Leg           int                  `json:"leg"`    // week of the season the transaction settled in
	Adds          map[string]int       `json:"adds"`
	Drops         map[string]int       `json:"drops"`
	RosterIDs     []int                `json:"roster_ids"`    // trades only
	DraftPicks    []DraftPick          `json:"draft_picks"`   // trades only
	WaiverBudget  []BudgetTransfer     `json:"waiver_budget"` // trades only
	Settings      *TransactionSettings `json:"settings"`
	Created       int64                `json:"created"` // provider timestamp, ms since epoch
}

// DraftPick is a future draft pick moving in a trade. OwnerID is the roster
// receiving the pick, PreviousOwnerID the roster giving it up, RosterID the
// roster whose original pick it is.
type DraftPick struct {
	Season          string `json:"season"`
	Round           int    `json:"round"`
	RosterID        int    `json:"roster_id"`
	OwnerID         int    `json:"owner_id"`
	PreviousOwnerID int    `json:"previous_owner_id"`
}

// BudgetTransfer is waiver budget changing hands inside a trade.
type BudgetTransfer struct {
	Sender   int `json:"sender"`
	Receiver int `json:"receiver"`
	Amount   int `json:"amount"`
}

// TransactionSettings carries the winning bid for budget-based waiver claims.
type TransactionSettings struct {
	WaiverBid int `json:"waiver_bid"`
}

// LeagueRoster is one roster slot in the league, as reported by the provider.
type LeagueRoster struct {
	RosterID int    `json:"roster_id"`
	OwnerID  string `json:"owner_id"`
}

// LeagueUser is one league member, as reported by the provider.
type LeagueUser struct {
	UserID      string            `json:"user_id"`
	DisplayName string            `json:"display_name"`
	Metadata    map[string]string `json:"metadata"` // may carry a "team_name" entry
}

// Player is the subset of provider player data needed to resolve display names.
type Player struct {
	PlayerID  string `json:"player_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Position  string `json:"position"`
	Team      string `json:"team"`
}
