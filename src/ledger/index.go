package ledger

// AssetMove records one asset changing hands inside a trade.
type AssetMove struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// AddDropDetail is the add or drop half of an indexed record: the single
// owning participant, the asset, and the winning bid when one was placed.
type AddDropDetail struct {
	Participant string `json:"participant"`
	Asset       string `json:"asset"`
	Bid         int    `json:"bid,omitempty"`
}

// Transaction is the canonical record of what happened under one provider
// identifier, independent of any per-participant rollup. It carries enough
// detail for audit, display and reversal comparison.
type Transaction struct {
	ID           string               `json:"id"`
	Season       int                  `json:"season"`
	Week         int                  `json:"week"`
	Commissioner bool                 `json:"commissioner"`
	Kinds        []MoveKind           `json:"kinds"`
	Participants map[string]struct{}  `json:"participants"`
	Assets       map[string]struct{}  `json:"assets"`
	Add          *AddDropDetail       `json:"add,omitempty"`
	Drop         *AddDropDetail       `json:"drop,omitempty"`
	Moves        map[string]AssetMove `json:"moves,omitempty"`
}

// Clone returns a deep copy safe to hand outside the index.
func (t *Transaction) Clone() *Transaction {
	out := *t
	out.Kinds = append([]MoveKind(nil), t.Kinds...)
	out.Participants = make(map[string]struct{}, len(t.Participants))
	for p := range t.Participants {
		out.Participants[p] = struct{}{}
	}
	out.Assets = make(map[string]struct{}, len(t.Assets))
	for a := range t.Assets {
		out.Assets[a] = struct{}{}
	}
	if t.Add != nil {
		cp := *t.Add
		out.Add = &cp
	}
	if t.Drop != nil {
		cp := *t.Drop
		out.Drop = &cp
	}
	if t.Moves != nil {
		out.Moves = make(map[string]AssetMove, len(t.Moves))
		for asset, mv := range t.Moves {
			out.Moves[asset] = mv
		}
	}
	return &out
}

func (t *Transaction) hasKind(kind MoveKind) bool {
	for _, k := range t.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (t *Transaction) addKind(kind MoveKind) {
	if !t.hasKind(kind) {
		t.Kinds = append(t.Kinds, kind)
	}
}

func (t *Transaction) removeKind(kind MoveKind) {
	for i, k := range t.Kinds {
		if k == kind {
			t.Kinds = append(t.Kinds[:i], t.Kinds[i+1:]...)
			return
		}
	}
}

// participantsEqual reports whether two records involve exactly the same set
// of participants.
func (t *Transaction) participantsEqual(other *Transaction) bool {
	if len(t.Participants) != len(other.Participants) {
		return false
	}
	for p := range t.Participants {
		if _, ok := other.Participants[p]; !ok {
			return false
		}
	}
	return true
}

// Index is the global, deduplicated transaction record store keyed by
// provider identifier.
type Index struct {
	byID  map[string]*Transaction
	order []string
}

func NewIndex() *Index {
	return &Index{byID: make(map[string]*Transaction)}
}

func (ix *Index) Len() int { return len(ix.byID) }

func (ix *Index) Get(id string) (*Transaction, bool) {
	t, ok := ix.byID[id]
	return t, ok
}

// All returns the indexed records in first-seen order.
func (ix *Index) All() []*Transaction {
	out := make([]*Transaction, 0, len(ix.byID))
	for _, id := range ix.order {
		if t, ok := ix.byID[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

func (ix *Index) ensure(id string, season, week int, commissioner bool) *Transaction {
	t := ix.byID[id]
	if t == nil {
		t = &Transaction{
			ID:           id,
			Season:       season,
			Week:         week,
			Commissioner: commissioner,
			Participants: make(map[string]struct{}),
			Assets:       make(map[string]struct{}),
		}
		ix.byID[id] = t
		ix.order = append(ix.order, id)
	}
	return t
}

// RecordAddDrop registers one add or drop half under an identifier, creating
// the record on first sight. Re-recording the same half for a different
// participant is a contract violation.
func (ix *Index) RecordAddDrop(id string, season, week int, commissioner bool, kind MoveKind, participant, asset string, bid int) error {
	if id == "" {
		return ErrMissingTransactionID
	}
	if kind != MoveAdd && kind != MoveDrop {
		return ErrUnknownMoveKind
	}
	t := ix.ensure(id, season, week, commissioner)
	detail := &AddDropDetail{Participant: participant, Asset: asset, Bid: bid}
	switch kind {
	case MoveAdd:
		if t.Add != nil && t.Add.Participant != participant {
			return ErrConflictingAddDrop
		}
		t.Add = detail
	case MoveDrop:
		if t.Drop != nil && t.Drop.Participant != participant {
			return ErrConflictingAddDrop
		}
		t.Drop = detail
	}
	t.addKind(kind)
	t.Participants[participant] = struct{}{}
	t.Assets[asset] = struct{}{}
	return nil
}

// RecordTrade merges one participant's perspective of a trade into the shared
// record for the identifier. Only the acquiring side registers an asset's
// movement, so every asset is recorded exactly once per transaction;
// recording the same asset a second time is a contract violation.
func (ix *Index) RecordTrade(id string, season, week int, commissioner bool, participant string, partners []string, acquired map[string]string, sent map[string]string) error {
	if id == "" {
		return ErrMissingTransactionID
	}
	t := ix.ensure(id, season, week, commissioner)
	if t.Moves == nil {
		t.Moves = make(map[string]AssetMove)
	}
	for asset, from := range acquired {
		if _, dup := t.Moves[asset]; dup {
			return ErrDuplicateAsset
		}
		t.Moves[asset] = AssetMove{From: from, To: participant}
		t.Assets[asset] = struct{}{}
	}
	for asset := range sent {
		t.Assets[asset] = struct{}{}
	}
	t.addKind(MoveTrade)
	t.Participants[participant] = struct{}{}
	for _, p := range partners {
		t.Participants[p] = struct{}{}
	}
	return nil
}

// RemoveKind strips one kind (and its detail) from a record. It reports
// whether the record's kind set became empty, in which case the record has
// already been deleted from the index.
func (ix *Index) RemoveKind(id string, kind MoveKind) bool {
	t := ix.byID[id]
	if t == nil {
		return true
	}
	var removedAsset string
	switch kind {
	case MoveAdd:
		if t.Add != nil {
			removedAsset = t.Add.Asset
			t.Add = nil
		}
	case MoveDrop:
		if t.Drop != nil {
			removedAsset = t.Drop.Asset
			t.Drop = nil
		}
	case MoveTrade:
		t.Moves = nil
	}
	t.removeKind(kind)
	if removedAsset != "" && !t.assetStillReferenced(removedAsset) {
		delete(t.Assets, removedAsset)
	}
	if len(t.Kinds) == 0 {
		ix.Delete(id)
		return true
	}
	return false
}

func (t *Transaction) assetStillReferenced(asset string) bool {
	if t.Add != nil && t.Add.Asset == asset {
		return true
	}
	if t.Drop != nil && t.Drop.Asset == asset {
		return true
	}
	_, ok := t.Moves[asset]
	return ok
}

// Delete removes a record entirely.
func (ix *Index) Delete(id string) {
	if _, ok := ix.byID[id]; !ok {
		return
	}
	delete(ix.byID, id)
	for i, oid := range ix.order {
		if oid == id {
			ix.order = append(ix.order[:i], ix.order[i+1:]...)
			return
		}
	}
}
