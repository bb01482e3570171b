package ledger

import (
	"fmt"
	"sort"

	"github.com/username/leaguefolio/src/logger"
	"github.com/username/leaguefolio/src/models"
	"github.com/username/leaguefolio/src/rosters"
)

// WeekSession is the explicit per-week processing context: the roster
// directory valid for the week, plus references to the season-long rollup
// ledger and global transaction index. The session owns both stores
// exclusively until the week's ingestion and reconciliation are done.
type WeekSession struct {
	Year int
	Week int

	Directory *rosters.Directory
	Ledger    *Ledger
	Index     *Index

	// weekIDs is the week's identifier list in insertion order. It drives
	// reconciliation and must be complete before Reconcile runs.
	weekIDs []string
}

func NewWeekSession(year, week int, directory *rosters.Directory, ledger *Ledger, index *Index) *WeekSession {
	return &WeekSession{
		Year:      year,
		Week:      week,
		Directory: directory,
		Ledger:    ledger,
		Index:     index,
	}
}

// WeekIDs returns the identifiers ingested this week, oldest first.
func (s *WeekSession) WeekIDs() []string {
	out := make([]string, len(s.weekIDs))
	copy(out, s.weekIDs)
	return out
}

// IngestReport summarizes one week's ingestion pass.
type IngestReport struct {
	Processed int     `json:"processed"`
	Skipped   int     `json:"skipped"`
	Failed    int     `json:"failed"`
	Errors    []error `json:"-"`
}

// kindHandlers maps a canonical kind to its ingestion handler. Handlers
// report whether the record actually touched the ledger; skips return
// (false, nil).
var kindHandlers = map[Kind]func(*WeekSession, models.RawTransaction, Classification) (bool, error){
	KindAddDrop: (*WeekSession).ingestAddDrop,
	KindTrade:   (*WeekSession).ingestTrade,
}

// Ingest classifies and applies a week's raw activity records in order. A
// contract violation aborts only the offending record; the rest of the week
// continues.
func (s *WeekSession) Ingest(records []models.RawTransaction) IngestReport {
	var rep IngestReport
	for _, raw := range records {
		cls, ok := Classify(raw)
		if !ok {
			rep.Skipped++
			continue
		}
		handler := kindHandlers[cls.Kind]
		applied, err := handler(s, raw, cls)
		if err != nil {
			rep.Failed++
			rep.Errors = append(rep.Errors, fmt.Errorf("transaction %s: %w", raw.TransactionID, err))
			logger.L.Error("Transaction ingestion aborted",
				"transactionID", raw.TransactionID, "kind", cls.Kind.String(), "error", err)
			continue
		}
		if applied {
			rep.Processed++
		} else {
			rep.Skipped++
		}
	}
	logger.L.Info("Week ingestion complete",
		"year", s.Year, "week", s.Week,
		"processed", rep.Processed, "skipped", rep.Skipped, "failed", rep.Failed)
	return rep
}

func (s *WeekSession) ingestAddDrop(raw models.RawTransaction, cls Classification) (bool, error) {
	if raw.TransactionID == "" {
		return false, ErrMissingTransactionID
	}

	rosterSet := make(map[int]struct{})
	for _, rid := range raw.Adds {
		rosterSet[rid] = struct{}{}
	}
	for _, rid := range raw.Drops {
		rosterSet[rid] = struct{}{}
	}
	if len(rosterSet) > 1 {
		return false, fmt.Errorf("%w: %d rosters involved", ErrMultipleParticipants, len(rosterSet))
	}
	// One add and one drop at most: the bid charge and the indexed detail are
	// both per direction, so a record with several adds or several drops has
	// no single faithful interpretation.
	if len(raw.Adds) > 1 || len(raw.Drops) > 1 {
		return false, fmt.Errorf("%w: %d adds, %d drops", ErrMultipleAssets, len(raw.Adds), len(raw.Drops))
	}
	if len(rosterSet) == 0 {
		logger.L.Debug("Skipping add/drop with no assets", "transactionID", raw.TransactionID)
		return false, nil
	}
	var rosterID int
	for rid := range rosterSet {
		rosterID = rid
	}
	participant, ok := s.Directory.ParticipantName(rosterID)
	if !ok {
		logger.L.Debug("Skipping add/drop for roster outside the league in session",
			"transactionID", raw.TransactionID, "rosterID", rosterID)
		return false, nil
	}

	eff := AddDropEffect{Participant: participant}
	for _, pid := range sortedKeys(raw.Adds) {
		eff.Entries = append(eff.Entries, AddDropEntry{Kind: MoveAdd, Asset: s.Directory.PlayerName(pid)})
	}
	for _, pid := range sortedKeys(raw.Drops) {
		eff.Entries = append(eff.Entries, AddDropEntry{Kind: MoveDrop, Asset: s.Directory.PlayerName(pid)})
	}
	if raw.Settings != nil && raw.Settings.WaiverBid > 0 && len(raw.Adds) > 0 {
		eff.Bid = raw.Settings.WaiverBid
	}

	recorded, err := s.Ledger.RecordAddDrop(s.Year, s.Week, eff, raw.TransactionID)
	if err != nil {
		return false, err
	}
	if !recorded {
		logger.L.Debug("Skipping already-processed transaction",
			"transactionID", raw.TransactionID, "participant", participant)
		return false, nil
	}

	for _, entry := range eff.Entries {
		bid := 0
		if entry.Kind == MoveAdd {
			bid = eff.Bid
		}
		if err := s.Index.RecordAddDrop(raw.TransactionID, s.Year, s.Week, cls.Commissioner, entry.Kind, participant, entry.Asset, bid); err != nil {
			return false, err
		}
	}
	s.weekIDs = append(s.weekIDs, raw.TransactionID)
	return true, nil
}

func (s *WeekSession) ingestTrade(raw models.RawTransaction, cls Classification) (bool, error) {
	if raw.TransactionID == "" {
		return false, ErrMissingTransactionID
	}
	if len(raw.RosterIDs) < 2 {
		return false, fmt.Errorf("%w: fewer than two rosters", ErrMalformedTrade)
	}
	if len(raw.Adds) == 0 && len(raw.Drops) == 0 && len(raw.DraftPicks) == 0 && len(raw.WaiverBudget) == 0 {
		return false, fmt.Errorf("%w: no assets moved", ErrMalformedTrade)
	}

	names := make(map[int]string, len(raw.RosterIDs))
	known := 0
	for _, rid := range raw.RosterIDs {
		if name, ok := s.Directory.ParticipantName(rid); ok {
			names[rid] = name
			known++
		} else {
			names[rid] = fmt.Sprintf("Roster %d", rid)
		}
	}
	if known == 0 {
		logger.L.Debug("Skipping trade with no rosters in the league in session",
			"transactionID", raw.TransactionID)
		return false, nil
	}
	// A pick's original owner or a budget counterparty may be a league roster
	// that is not itself party to the trade.
	nameFor := func(rid int) string {
		if name, ok := names[rid]; ok {
			return name
		}
		if name, ok := s.Directory.ParticipantName(rid); ok {
			return name
		}
		return fmt.Sprintf("Roster %d", rid)
	}

	// Build the full asset movement table first: player swaps, draft picks
	// and cash tokens, each asset exactly once.
	moves := make(map[string]AssetMove)
	for _, pid := range sortedKeys(raw.Adds) {
		toRoster := raw.Adds[pid]
		fromRoster, ok := raw.Drops[pid]
		if !ok {
			logger.L.Debug("Trade adds a player with no previous holder, ignoring asset",
				"transactionID", raw.TransactionID, "playerID", pid)
			continue
		}
		asset := s.Directory.PlayerName(pid)
		moves[asset] = AssetMove{From: nameFor(fromRoster), To: nameFor(toRoster)}
	}
	for _, pid := range sortedKeys(raw.Drops) {
		if _, ok := raw.Adds[pid]; !ok {
			logger.L.Debug("Trade drops a player with no new holder, ignoring asset",
				"transactionID", raw.TransactionID, "playerID", pid)
		}
	}
	for _, pick := range raw.DraftPicks {
		asset := PickAssetName(pick.Season, pick.Round, nameFor(pick.RosterID))
		if _, dup := moves[asset]; dup {
			return false, fmt.Errorf("%w: %s", ErrDuplicateAsset, asset)
		}
		moves[asset] = AssetMove{From: nameFor(pick.PreviousOwnerID), To: nameFor(pick.OwnerID)}
	}
	for _, wb := range raw.WaiverBudget {
		asset := CashAssetName(wb.Amount, nameFor(wb.Sender), nameFor(wb.Receiver))
		if _, dup := moves[asset]; dup {
			return false, fmt.Errorf("%w: %s", ErrDuplicateAsset, asset)
		}
		moves[asset] = AssetMove{From: nameFor(wb.Sender), To: nameFor(wb.Receiver)}
	}

	applied := false
	for _, rid := range raw.RosterIDs {
		participant, ok := s.Directory.ParticipantName(rid)
		if !ok {
			continue
		}
		partners := make([]string, 0, len(raw.RosterIDs)-1)
		for _, other := range raw.RosterIDs {
			if other != rid {
				partners = append(partners, nameFor(other))
			}
		}
		eff, indexAcquired := tradeEffectFor(participant, partners, moves)

		if !s.Ledger.RecordTrade(s.Year, s.Week, eff, raw.TransactionID) {
			logger.L.Debug("Skipping already-processed transaction",
				"transactionID", raw.TransactionID, "participant", participant)
			continue
		}
		if err := s.Index.RecordTrade(raw.TransactionID, s.Year, s.Week, cls.Commissioner, participant, partners, indexAcquired, eff.Sent); err != nil {
			return false, err
		}
		applied = true
	}
	if applied {
		s.weekIDs = append(s.weekIDs, raw.TransactionID)
	}
	return applied, nil
}

// tradeEffectFor projects the shared movement table onto one participant.
// Cash tokens route into the budget sub-ledger and stay out of the player
// maps; the returned index map carries every acquired asset including cash.
func tradeEffectFor(participant string, partners []string, moves map[string]AssetMove) (TradeEffect, map[string]string) {
	eff := TradeEffect{
		Participant:    participant,
		Partners:       partners,
		Acquired:       make(map[string]string),
		Sent:           make(map[string]string),
		BudgetAcquired: make(map[string]int),
		BudgetSent:     make(map[string]int),
	}
	indexAcquired := make(map[string]string)
	for asset, move := range moves {
		amount, isCash := ParseCashAsset(asset)
		switch {
		case move.To == participant && isCash:
			eff.BudgetAcquired[move.From] += amount
			indexAcquired[asset] = move.From
		case move.From == participant && isCash:
			eff.BudgetSent[move.To] += amount
		case move.To == participant:
			eff.Acquired[asset] = move.From
			indexAcquired[asset] = move.From
		case move.From == participant:
			eff.Sent[asset] = move.To
		}
	}
	return eff, indexAcquired
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
