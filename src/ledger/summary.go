package ledger

// AssetFlow counts how often one asset moved, per counterpart roster.
type AssetFlow struct {
	Total    int            `json:"total"`
	Partners map[string]int `json:"partners"`
}

// TradeSummary aggregates trade activity for one participant at one scope.
type TradeSummary struct {
	Total           int                   `json:"total"`
	Partners        map[string]int        `json:"partners"`
	PlayersAcquired map[string]*AssetFlow `json:"players_acquired"`
	PlayersSent     map[string]*AssetFlow `json:"players_sent"`
}

// AddSummary aggregates waiver/free-agent pickups.
type AddSummary struct {
	Total   int            `json:"total"`
	Players map[string]int `json:"players"`
}

// DropSummary aggregates releases.
type DropSummary struct {
	Total   int            `json:"total"`
	Players map[string]int `json:"players"`
}

// BudgetSpend tracks winning bids placed on one player.
type BudgetSpend struct {
	TimesWon   int `json:"times_won"`
	TotalSpent int `json:"total_spent"`
}

// BudgetFlow tracks budget moving in one direction through trades, per partner.
type BudgetFlow struct {
	Total    int            `json:"total"`
	Partners map[string]int `json:"partners"`
}

// BudgetSummary is the signed FAAB sub-ledger: bids spent on waivers reduce
// Net, budget acquired in trades raises it, budget traded away lowers it.
type BudgetSummary struct {
	Net        int                     `json:"net"`
	Players    map[string]*BudgetSpend `json:"players"`
	Acquired   BudgetFlow              `json:"acquired"`
	TradedAway BudgetFlow              `json:"traded_away"`
}

// Scope is one aggregation granularity (weekly, yearly or career) for one
// participant. TransactionIDs is populated on weekly scopes only; it is the
// dedup boundary for repeated ingestion of the same identifier.
type Scope struct {
	Trades         TradeSummary  `json:"trades"`
	Adds           AddSummary    `json:"adds"`
	Drops          DropSummary   `json:"drops"`
	Budget         BudgetSummary `json:"budget"`
	TransactionIDs []string      `json:"transaction_ids,omitempty"`
}

func NewScope() *Scope {
	return &Scope{
		Trades: TradeSummary{
			Partners:        make(map[string]int),
			PlayersAcquired: make(map[string]*AssetFlow),
			PlayersSent:     make(map[string]*AssetFlow),
		},
		Adds:  AddSummary{Players: make(map[string]int)},
		Drops: DropSummary{Players: make(map[string]int)},
		Budget: BudgetSummary{
			Players:    make(map[string]*BudgetSpend),
			Acquired:   BudgetFlow{Partners: make(map[string]int)},
			TradedAway: BudgetFlow{Partners: make(map[string]int)},
		},
	}
}

func cloneIntMap(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneFlows(m map[string]*AssetFlow) map[string]*AssetFlow {
	out := make(map[string]*AssetFlow, len(m))
	for k, f := range m {
		out[k] = &AssetFlow{Total: f.Total, Partners: cloneIntMap(f.Partners)}
	}
	return out
}

// Clone returns a deep copy sharing no maps or slices with the receiver.
func (s *Scope) Clone() *Scope {
	out := &Scope{
		Trades: TradeSummary{
			Total:           s.Trades.Total,
			Partners:        cloneIntMap(s.Trades.Partners),
			PlayersAcquired: cloneFlows(s.Trades.PlayersAcquired),
			PlayersSent:     cloneFlows(s.Trades.PlayersSent),
		},
		Adds:  AddSummary{Total: s.Adds.Total, Players: cloneIntMap(s.Adds.Players)},
		Drops: DropSummary{Total: s.Drops.Total, Players: cloneIntMap(s.Drops.Players)},
		Budget: BudgetSummary{
			Net:        s.Budget.Net,
			Players:    make(map[string]*BudgetSpend, len(s.Budget.Players)),
			Acquired:   BudgetFlow{Total: s.Budget.Acquired.Total, Partners: cloneIntMap(s.Budget.Acquired.Partners)},
			TradedAway: BudgetFlow{Total: s.Budget.TradedAway.Total, Partners: cloneIntMap(s.Budget.TradedAway.Partners)},
		},
	}
	for player, spend := range s.Budget.Players {
		cp := *spend
		out.Budget.Players[player] = &cp
	}
	if len(s.TransactionIDs) > 0 {
		out.TransactionIDs = append([]string(nil), s.TransactionIDs...)
	}
	return out
}

func (s *Scope) hasTransaction(txID string) bool {
	for _, id := range s.TransactionIDs {
		if id == txID {
			return true
		}
	}
	return false
}

func (s *Scope) forgetTransaction(txID string) {
	for i, id := range s.TransactionIDs {
		if id == txID {
			s.TransactionIDs = append(s.TransactionIDs[:i], s.TransactionIDs[i+1:]...)
			return
		}
	}
}

// applyTrade folds one trade, seen from the owning participant's side, into
// this scope. The trade total advances once per transaction, not per asset.
func (s *Scope) applyTrade(eff TradeEffect) {
	s.Trades.Total++
	for _, partner := range eff.Partners {
		s.Trades.Partners[partner]++
	}
	for asset, from := range eff.Acquired {
		flow := s.Trades.PlayersAcquired[asset]
		if flow == nil {
			flow = &AssetFlow{Partners: make(map[string]int)}
			s.Trades.PlayersAcquired[asset] = flow
		}
		flow.Total++
		flow.Partners[from]++
	}
	for asset, to := range eff.Sent {
		flow := s.Trades.PlayersSent[asset]
		if flow == nil {
			flow = &AssetFlow{Partners: make(map[string]int)}
			s.Trades.PlayersSent[asset] = flow
		}
		flow.Total++
		flow.Partners[to]++
	}
	for partner, amount := range eff.BudgetAcquired {
		s.Budget.Net += amount
		s.Budget.Acquired.Total += amount
		s.Budget.Acquired.Partners[partner] += amount
	}
	for partner, amount := range eff.BudgetSent {
		s.Budget.Net -= amount
		s.Budget.TradedAway.Total += amount
		s.Budget.TradedAway.Partners[partner] += amount
	}
}

// revertTrade is the exact inverse of applyTrade. Counters that reach zero
// are removed from their maps.
func (s *Scope) revertTrade(eff TradeEffect) {
	s.Trades.Total--
	for _, partner := range eff.Partners {
		s.Trades.Partners[partner]--
		if s.Trades.Partners[partner] == 0 {
			delete(s.Trades.Partners, partner)
		}
	}
	for asset, from := range eff.Acquired {
		if flow := s.Trades.PlayersAcquired[asset]; flow != nil {
			flow.Total--
			flow.Partners[from]--
			if flow.Partners[from] == 0 {
				delete(flow.Partners, from)
			}
			if flow.Total == 0 {
				delete(s.Trades.PlayersAcquired, asset)
			}
		}
	}
	for asset, to := range eff.Sent {
		if flow := s.Trades.PlayersSent[asset]; flow != nil {
			flow.Total--
			flow.Partners[to]--
			if flow.Partners[to] == 0 {
				delete(flow.Partners, to)
			}
			if flow.Total == 0 {
				delete(s.Trades.PlayersSent, asset)
			}
		}
	}
	for partner, amount := range eff.BudgetAcquired {
		s.Budget.Net -= amount
		s.Budget.Acquired.Total -= amount
		s.Budget.Acquired.Partners[partner] -= amount
		if s.Budget.Acquired.Partners[partner] == 0 {
			delete(s.Budget.Acquired.Partners, partner)
		}
	}
	for partner, amount := range eff.BudgetSent {
		s.Budget.Net += amount
		s.Budget.TradedAway.Total -= amount
		s.Budget.TradedAway.Partners[partner] -= amount
		if s.Budget.TradedAway.Partners[partner] == 0 {
			delete(s.Budget.TradedAway.Partners, partner)
		}
	}
}

// applyAddDrop folds a single add or drop of one asset into this scope.
// A winning waiver bid additionally charges the budget sub-ledger.
func (s *Scope) applyAddDrop(kind MoveKind, asset string, bid int) error {
	switch kind {
	case MoveAdd:
		s.Adds.Total++
		s.Adds.Players[asset]++
		if bid > 0 {
			s.Budget.Net -= bid
			spend := s.Budget.Players[asset]
			if spend == nil {
				spend = &BudgetSpend{}
				s.Budget.Players[asset] = spend
			}
			spend.TimesWon++
			spend.TotalSpent += bid
		}
	case MoveDrop:
		s.Drops.Total++
		s.Drops.Players[asset]++
	default:
		return ErrUnknownMoveKind
	}
	return nil
}

// revertAddDrop is the exact inverse of applyAddDrop.
func (s *Scope) revertAddDrop(kind MoveKind, asset string, bid int) error {
	switch kind {
	case MoveAdd:
		s.Adds.Total--
		s.Adds.Players[asset]--
		if s.Adds.Players[asset] == 0 {
			delete(s.Adds.Players, asset)
		}
		if bid > 0 {
			s.Budget.Net += bid
			if spend := s.Budget.Players[asset]; spend != nil {
				spend.TimesWon--
				spend.TotalSpent -= bid
				if spend.TimesWon == 0 && spend.TotalSpent == 0 {
					delete(s.Budget.Players, asset)
				}
			}
		}
	case MoveDrop:
		s.Drops.Total--
		s.Drops.Players[asset]--
		if s.Drops.Players[asset] == 0 {
			delete(s.Drops.Players, asset)
		}
	default:
		return ErrUnknownMoveKind
	}
	return nil
}
