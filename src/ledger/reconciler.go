package ledger

import (
	"github.com/username/leaguefolio/src/logger"
)

// ReconcileReport summarizes one reconciliation pass.
type ReconcileReport struct {
	TradePairsReversed   int
	AddDropPairsReversed int
	Ambiguities          int
	Remaining            int
}

// Reconcile runs once, after all of the week's ingestion calls complete. It
// walks the week's identifier queue oldest-first, pairs each identifier with
// the first later identifier whose net effect cancels it, and issues the
// exact inverse of the original ledger update for both halves. Fully unwound
// records are deleted from the index and the weekly identifier list;
// partially unwound records are shrunk and stay. Identifiers with no
// canceling partner are genuine activity and stay untouched.
func (s *WeekSession) Reconcile() ReconcileReport {
	var rep ReconcileReport

	queue := make([]string, len(s.weekIDs))
	copy(queue, s.weekIDs)

	i := 0
	for i < len(queue) {
		a, ok := s.Index.Get(queue[i])
		if !ok {
			queue = append(queue[:i], queue[i+1:]...)
			continue
		}

		matchIdx := -1
		matches := 0
		for j := i + 1; j < len(queue); j++ {
			b, ok := s.Index.Get(queue[j])
			if !ok {
				continue
			}
			if s.isAddDropInverse(a, b) || s.isTradeInverse(a, b) {
				matches++
				if matchIdx == -1 {
					matchIdx = j
				}
			}
		}
		if matches > 1 {
			// More than one structurally valid partner: queue order decides,
			// but the operator should look at this week.
			rep.Ambiguities++
			logger.L.Warn("Multiple reversal candidates for transaction; taking the oldest",
				"transactionID", a.ID, "candidates", matches)
		}
		if matchIdx == -1 {
			i++
			continue
		}

		b, _ := s.Index.Get(queue[matchIdx])
		switch {
		case s.isTradeInverse(a, b):
			s.unwindTradePair(a, b)
			rep.TradePairsReversed++
			logger.L.Info("Reversed trade pair",
				"year", s.Year, "week", s.Week, "first", a.ID, "second", b.ID)
		default:
			s.unwindAddDropPair(a, b)
			rep.AddDropPairsReversed++
			logger.L.Info("Reversed add/drop pair",
				"year", s.Year, "week", s.Week, "first", a.ID, "second", b.ID)
		}

		// Both halves are terminal now (Removed or Shrunk); drop them from
		// the work queue either way.
		queue = append(queue[:matchIdx], queue[matchIdx+1:]...)
		queue = append(queue[:i], queue[i+1:]...)
	}

	s.pruneWeekIDs()
	rep.Remaining = len(s.weekIDs)
	logger.L.Info("Week reconciliation complete",
		"year", s.Year, "week", s.Week,
		"tradePairs", rep.TradePairsReversed, "addDropPairs", rep.AddDropPairsReversed,
		"ambiguities", rep.Ambiguities, "remaining", rep.Remaining)
	return rep
}

// isAddDropInverse reports whether a and b form a commissioner add/drop
// inverse: the same single participant, one record adding an asset and the
// other dropping the same asset, with the commissioner flag on at least one
// side.
func (s *WeekSession) isAddDropInverse(a, b *Transaction) bool {
	if !a.participantsEqual(b) || len(a.Participants) != 1 {
		return false
	}
	if !a.Commissioner && !b.Commissioner {
		return false
	}
	if a.Add != nil && b.Drop != nil && a.Add.Asset == b.Drop.Asset {
		return true
	}
	if a.Drop != nil && b.Add != nil && a.Drop.Asset == b.Add.Asset {
		return true
	}
	return false
}

// isTradeInverse reports whether a and b are exact trade inverses: identical
// participant sets, identical asset sets, and every asset's movement in one
// record is the exact swap of its movement in the other.
func (s *WeekSession) isTradeInverse(a, b *Transaction) bool {
	if !a.hasKind(MoveTrade) || !b.hasKind(MoveTrade) {
		return false
	}
	if !a.participantsEqual(b) {
		return false
	}
	if len(a.Moves) == 0 || len(a.Moves) != len(b.Moves) {
		return false
	}
	for asset, moveA := range a.Moves {
		moveB, ok := b.Moves[asset]
		if !ok {
			return false
		}
		if moveA.From != moveB.To || moveA.To != moveB.From {
			return false
		}
	}
	return true
}

// unwindAddDropPair inverts each half of a commissioner add/drop pair
// independently: the add half decrements the owner's Add Summary, the drop
// half the Drop Summary, at all three scopes. Only the matched kind is
// removed from each record; a record whose kind set empties is deleted
// outright.
func (s *WeekSession) unwindAddDropPair(a, b *Transaction) {
	// Same orientation preference as isAddDropInverse: a-adds/b-drops wins
	// over the mirror.
	addSide, dropSide := a, b
	if !(a.Add != nil && b.Drop != nil && a.Add.Asset == b.Drop.Asset) {
		addSide, dropSide = b, a
	}

	add := addSide.Add
	drop := dropSide.Drop

	s.revertAddDropHalf(addSide, MoveAdd, add.Participant, add.Asset, add.Bid)
	s.revertAddDropHalf(dropSide, MoveDrop, drop.Participant, drop.Asset, drop.Bid)
}

func (s *WeekSession) revertAddDropHalf(t *Transaction, kind MoveKind, participant, asset string, bid int) {
	id := t.ID
	removed := s.Index.RemoveKind(id, kind)
	s.Ledger.RevertAddDrop(t.Season, t.Week, participant, kind, asset, bid, id, removed)
	if removed {
		s.removeWeekID(id)
	}
}

// unwindTradePair decrements every involved participant's Trade Summary (and
// any embedded budget transfers) at all three scopes by exactly the amounts
// the original ingestion added, then deletes both records.
func (s *WeekSession) unwindTradePair(a, b *Transaction) {
	s.revertTradeRecord(a)
	s.revertTradeRecord(b)
}

func (s *WeekSession) revertTradeRecord(t *Transaction) {
	for participant := range t.Participants {
		partners := make([]string, 0, len(t.Participants)-1)
		for other := range t.Participants {
			if other != participant {
				partners = append(partners, other)
			}
		}
		eff, _ := tradeEffectFor(participant, partners, t.Moves)
		s.Ledger.RevertTrade(t.Season, t.Week, eff, t.ID)
	}
	s.Index.Delete(t.ID)
	s.removeWeekID(t.ID)
}

func (s *WeekSession) removeWeekID(id string) {
	for i, wid := range s.weekIDs {
		if wid == id {
			s.weekIDs = append(s.weekIDs[:i], s.weekIDs[i+1:]...)
			return
		}
	}
}

// pruneWeekIDs drops identifiers whose index records no longer exist.
func (s *WeekSession) pruneWeekIDs() {
	kept := s.weekIDs[:0]
	for _, id := range s.weekIDs {
		if _, ok := s.Index.Get(id); ok {
			kept = append(kept, id)
		}
	}
	s.weekIDs = kept
}
