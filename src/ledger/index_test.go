package ledger

import (
	"errors"
	"testing"
)

func TestIndex_TradePerspectivesMergeIntoOneRecord(t *testing.T) {
	ix := NewIndex()

	err := ix.RecordTrade("t2", 2025, 3, false, "A", []string{"B"},
		map[string]string{"Player2": "B"}, map[string]string{"Player1": "B"})
	if err != nil {
		t.Fatalf("RecordTrade for A failed: %v", err)
	}
	err = ix.RecordTrade("t2", 2025, 3, false, "B", []string{"A"},
		map[string]string{"Player1": "A"}, map[string]string{"Player2": "A"})
	if err != nil {
		t.Fatalf("RecordTrade for B failed: %v", err)
	}

	if ix.Len() != 1 {
		t.Fatalf("index holds %d records, want 1", ix.Len())
	}
	rec, ok := ix.Get("t2")
	if !ok {
		t.Fatalf("record t2 missing")
	}
	if len(rec.Participants) != 2 {
		t.Fatalf("Participants = %v, want A and B", rec.Participants)
	}
	if len(rec.Assets) != 2 {
		t.Fatalf("Assets = %v, want Player1 and Player2", rec.Assets)
	}
	if len(rec.Kinds) != 1 || rec.Kinds[0] != MoveTrade {
		t.Fatalf("Kinds = %v, want [trade]", rec.Kinds)
	}
	if move := rec.Moves["Player2"]; move.From != "B" || move.To != "A" {
		t.Fatalf("Moves[Player2] = %+v", move)
	}
	if move := rec.Moves["Player1"]; move.From != "A" || move.To != "B" {
		t.Fatalf("Moves[Player1] = %+v", move)
	}
}

func TestIndex_SameAssetTwiceIsViolation(t *testing.T) {
	ix := NewIndex()
	if err := ix.RecordTrade("t1", 2025, 1, false, "A", []string{"B"},
		map[string]string{"Player1": "B"}, nil); err != nil {
		t.Fatalf("first RecordTrade failed: %v", err)
	}
	err := ix.RecordTrade("t1", 2025, 1, false, "B", []string{"A"},
		map[string]string{"Player1": "A"}, nil)
	if !errors.Is(err, ErrDuplicateAsset) {
		t.Fatalf("expected ErrDuplicateAsset, got %v", err)
	}
}

func TestIndex_AddDropRecordAndShrink(t *testing.T) {
	ix := NewIndex()
	if err := ix.RecordAddDrop("w1", 2025, 2, false, MoveAdd, "A", "Player1", 4); err != nil {
		t.Fatalf("RecordAddDrop add failed: %v", err)
	}
	if err := ix.RecordAddDrop("w1", 2025, 2, false, MoveDrop, "A", "Player2", 0); err != nil {
		t.Fatalf("RecordAddDrop drop failed: %v", err)
	}

	rec, _ := ix.Get("w1")
	if len(rec.Kinds) != 2 {
		t.Fatalf("Kinds = %v, want [add drop]", rec.Kinds)
	}
	if rec.Add == nil || rec.Add.Asset != "Player1" || rec.Add.Bid != 4 {
		t.Fatalf("Add detail = %+v", rec.Add)
	}

	// Shrinking one kind keeps the record alive.
	if empty := ix.RemoveKind("w1", MoveDrop); empty {
		t.Fatalf("record unexpectedly emptied after removing one of two kinds")
	}
	rec, _ = ix.Get("w1")
	if rec.Drop != nil {
		t.Fatalf("drop detail survived RemoveKind")
	}
	if _, ok := rec.Assets["Player2"]; ok {
		t.Fatalf("dropped asset still referenced in asset set")
	}
	if _, ok := rec.Assets["Player1"]; !ok {
		t.Fatalf("add asset lost from asset set")
	}

	// Removing the last kind deletes the record.
	if empty := ix.RemoveKind("w1", MoveAdd); !empty {
		t.Fatalf("record should be empty after removing its last kind")
	}
	if _, ok := ix.Get("w1"); ok {
		t.Fatalf("record still present after deletion")
	}
}

func TestIndex_ConflictingAddDropParticipant(t *testing.T) {
	ix := NewIndex()
	if err := ix.RecordAddDrop("w1", 2025, 2, false, MoveAdd, "A", "Player1", 0); err != nil {
		t.Fatalf("RecordAddDrop failed: %v", err)
	}
	err := ix.RecordAddDrop("w1", 2025, 2, false, MoveAdd, "B", "Player1", 0)
	if !errors.Is(err, ErrConflictingAddDrop) {
		t.Fatalf("expected ErrConflictingAddDrop, got %v", err)
	}
}

func TestIndex_TransactionCloneIsDetached(t *testing.T) {
	ix := NewIndex()
	ix.RecordTrade("t2", 2025, 3, false, "A", []string{"B"},
		map[string]string{"Player2": "B"}, map[string]string{"Player1": "B"})
	ix.RecordAddDrop("t2", 2025, 3, false, MoveAdd, "A", "Player3", 9)

	rec, _ := ix.Get("t2")
	snap := rec.Clone()

	ix.RemoveKind("t2", MoveAdd)
	ix.RemoveKind("t2", MoveTrade)

	if len(snap.Kinds) != 2 {
		t.Fatalf("snapshot Kinds = %v, want [trade add]", snap.Kinds)
	}
	if snap.Add == nil || snap.Add.Asset != "Player3" || snap.Add.Bid != 9 {
		t.Fatalf("snapshot add detail changed: %+v", snap.Add)
	}
	if move, ok := snap.Moves["Player2"]; !ok || move.From != "B" || move.To != "A" {
		t.Fatalf("snapshot moves changed: %+v", snap.Moves)
	}
	if len(snap.Participants) != 2 || len(snap.Assets) != 3 {
		t.Fatalf("snapshot sets changed: participants=%v assets=%v", snap.Participants, snap.Assets)
	}
}

func TestIndex_AllPreservesFirstSeenOrder(t *testing.T) {
	ix := NewIndex()
	ix.RecordAddDrop("w1", 2025, 1, false, MoveAdd, "A", "Player1", 0)
	ix.RecordAddDrop("w2", 2025, 1, false, MoveAdd, "B", "Player2", 0)
	ix.RecordAddDrop("w3", 2025, 1, false, MoveAdd, "A", "Player3", 0)
	ix.Delete("w2")

	all := ix.All()
	if len(all) != 2 || all[0].ID != "w1" || all[1].ID != "w3" {
		ids := make([]string, len(all))
		for i, rec := range all {
			ids[i] = rec.ID
		}
		t.Fatalf("All() order = %v, want [w1 w3]", ids)
	}
}
