package ledger

// WeekKey addresses one weekly scope within a season.
type WeekKey struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// ParticipantRollup holds the three parallel aggregation scopes for one
// participant. Weekly and yearly scopes are created lazily on first
// contribution; Career spans the participant's whole history.
type ParticipantRollup struct {
	Name   string             `json:"name"`
	Weekly map[WeekKey]*Scope `json:"weekly"`
	Yearly map[int]*Scope     `json:"yearly"`
	Career *Scope             `json:"career"`
}

// Ledger is the rollup store for every participant. It is owned exclusively
// by the week session while a week is being processed.
type Ledger struct {
	Participants map[string]*ParticipantRollup `json:"participants"`
}

func NewLedger() *Ledger {
	return &Ledger{Participants: make(map[string]*ParticipantRollup)}
}

// Rollup returns the rollup for a participant, or nil if the participant has
// never contributed activity.
func (l *Ledger) Rollup(name string) *ParticipantRollup {
	return l.Participants[name]
}

// Clone returns a deep copy that stays stable while the live rollup keeps
// being mutated.
func (r *ParticipantRollup) Clone() *ParticipantRollup {
	out := &ParticipantRollup{
		Name:   r.Name,
		Weekly: make(map[WeekKey]*Scope, len(r.Weekly)),
		Yearly: make(map[int]*Scope, len(r.Yearly)),
		Career: r.Career.Clone(),
	}
	for key, sc := range r.Weekly {
		out.Weekly[key] = sc.Clone()
	}
	for year, sc := range r.Yearly {
		out.Yearly[year] = sc.Clone()
	}
	return out
}

func (l *Ledger) rollupFor(name string) *ParticipantRollup {
	r := l.Participants[name]
	if r == nil {
		r = &ParticipantRollup{
			Name:   name,
			Weekly: make(map[WeekKey]*Scope),
			Yearly: make(map[int]*Scope),
			Career: NewScope(),
		}
		l.Participants[name] = r
	}
	return r
}

// scopes returns the weekly, yearly and career scopes touched by activity in
// the given week, creating them on demand.
func (r *ParticipantRollup) scopes(year, week int) (*Scope, *Scope, *Scope) {
	key := WeekKey{Year: year, Week: week}
	weekly := r.Weekly[key]
	if weekly == nil {
		weekly = NewScope()
		r.Weekly[key] = weekly
	}
	yearly := r.Yearly[year]
	if yearly == nil {
		yearly = NewScope()
		r.Yearly[year] = yearly
	}
	return weekly, yearly, r.Career
}

// TradeEffect is one trade seen from a single participant's perspective.
// Acquired maps an asset gained to the roster it came from; Sent maps an
// asset given up to the roster it went to. Budget transfers are kept out of
// the player-asset maps and flow into the budget sub-ledger only.
type TradeEffect struct {
	Participant    string
	Partners       []string
	Acquired       map[string]string
	Sent           map[string]string
	BudgetAcquired map[string]int
	BudgetSent     map[string]int
}

// RecordTrade applies a trade effect to all three scopes. It returns false
// without touching anything when the identifier was already folded into the
// participant's weekly scope.
func (l *Ledger) RecordTrade(year, week int, eff TradeEffect, txID string) bool {
	r := l.rollupFor(eff.Participant)
	weekly, yearly, career := r.scopes(year, week)
	if weekly.hasTransaction(txID) {
		return false
	}
	weekly.applyTrade(eff)
	yearly.applyTrade(eff)
	career.applyTrade(eff)
	weekly.TransactionIDs = append(weekly.TransactionIDs, txID)
	return true
}

// RevertTrade issues the exact inverse of RecordTrade and removes the
// identifier from the weekly dedup list.
func (l *Ledger) RevertTrade(year, week int, eff TradeEffect, txID string) {
	r := l.Participants[eff.Participant]
	if r == nil {
		return
	}
	weekly, yearly, career := r.scopes(year, week)
	weekly.revertTrade(eff)
	yearly.revertTrade(eff)
	career.revertTrade(eff)
	weekly.forgetTransaction(txID)
}

// AddDropEntry is one half of an add/drop record: an asset and the kind of
// move applied to it.
type AddDropEntry struct {
	Kind  MoveKind
	Asset string
}

// AddDropEffect is one add/drop record's full effect for its single
// participant. A waiver claim may both add one asset and drop another; Bid is
// the winning budget bid attached to the add, zero when no bid system is in
// play.
type AddDropEffect struct {
	Participant string
	Entries     []AddDropEntry
	Bid         int
}

// RecordAddDrop applies an add/drop effect to all three scopes, guarded by
// the same per-identifier dedup rule as RecordTrade. Entries are validated
// before any scope is touched, so a contract violation leaves no partial
// writes behind.
func (l *Ledger) RecordAddDrop(year, week int, eff AddDropEffect, txID string) (bool, error) {
	for _, entry := range eff.Entries {
		if entry.Kind != MoveAdd && entry.Kind != MoveDrop {
			return false, ErrUnknownMoveKind
		}
	}
	r := l.rollupFor(eff.Participant)
	weekly, yearly, career := r.scopes(year, week)
	if weekly.hasTransaction(txID) {
		return false, nil
	}
	for _, entry := range eff.Entries {
		bid := 0
		if entry.Kind == MoveAdd {
			bid = eff.Bid
		}
		weekly.applyAddDrop(entry.Kind, entry.Asset, bid)
		yearly.applyAddDrop(entry.Kind, entry.Asset, bid)
		career.applyAddDrop(entry.Kind, entry.Asset, bid)
	}
	weekly.TransactionIDs = append(weekly.TransactionIDs, txID)
	return true, nil
}

// RevertAddDrop undoes a single add or drop half of a previously recorded
// effect at all three scopes. The identifier is kept in the weekly dedup list
// unless forget is set; a partially unwound record still counts as processed.
func (l *Ledger) RevertAddDrop(year, week int, participant string, kind MoveKind, asset string, bid int, txID string, forget bool) error {
	if kind != MoveAdd && kind != MoveDrop {
		return ErrUnknownMoveKind
	}
	r := l.Participants[participant]
	if r == nil {
		return nil
	}
	weekly, yearly, career := r.scopes(year, week)
	weekly.revertAddDrop(kind, asset, bid)
	yearly.revertAddDrop(kind, asset, bid)
	career.revertAddDrop(kind, asset, bid)
	if forget {
		weekly.forgetTransaction(txID)
	}
	return nil
}
