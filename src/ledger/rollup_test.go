package ledger

import (
	"errors"
	"testing"
)

func TestRecordAddDrop_SimpleAdd(t *testing.T) {
	l := NewLedger()
	eff := AddDropEffect{
		Participant: "A",
		Entries:     []AddDropEntry{{Kind: MoveAdd, Asset: "Player1"}},
	}

	recorded, err := l.RecordAddDrop(2025, 3, eff, "t1")
	if err != nil {
		t.Fatalf("RecordAddDrop failed: %v", err)
	}
	if !recorded {
		t.Fatalf("expected first application to record")
	}

	weekly, yearly, career := scopesOf(t, l, "A", 2025, 3)
	for _, sc := range []*Scope{weekly, yearly, career} {
		if sc.Adds.Total != 1 {
			t.Fatalf("Adds.Total = %d, want 1", sc.Adds.Total)
		}
		if sc.Adds.Players["Player1"] != 1 {
			t.Fatalf("Adds.Players[Player1] = %d, want 1", sc.Adds.Players["Player1"])
		}
	}
	if got := len(weekly.TransactionIDs); got != 1 || weekly.TransactionIDs[0] != "t1" {
		t.Fatalf("weekly TransactionIDs = %v", weekly.TransactionIDs)
	}
	if len(yearly.TransactionIDs) != 0 || len(career.TransactionIDs) != 0 {
		t.Fatalf("only the weekly scope tracks processed identifiers")
	}
}

func TestRecordAddDrop_Idempotent(t *testing.T) {
	l := NewLedger()
	eff := AddDropEffect{
		Participant: "A",
		Entries:     []AddDropEntry{{Kind: MoveAdd, Asset: "Player1"}},
		Bid:         7,
	}

	if _, err := l.RecordAddDrop(2025, 1, eff, "t1"); err != nil {
		t.Fatalf("first RecordAddDrop failed: %v", err)
	}
	recorded, err := l.RecordAddDrop(2025, 1, eff, "t1")
	if err != nil {
		t.Fatalf("second RecordAddDrop failed: %v", err)
	}
	if recorded {
		t.Fatalf("expected idempotency guard to reject the second application")
	}

	weekly, yearly, career := scopesOf(t, l, "A", 2025, 1)
	for _, sc := range []*Scope{weekly, yearly, career} {
		if sc.Adds.Total != 1 {
			t.Fatalf("Adds.Total = %d after double apply, want 1", sc.Adds.Total)
		}
		if sc.Budget.Net != -7 {
			t.Fatalf("Budget.Net = %d after double apply, want -7", sc.Budget.Net)
		}
	}
	if len(weekly.TransactionIDs) != 1 {
		t.Fatalf("weekly TransactionIDs = %v, want one entry", weekly.TransactionIDs)
	}
}

func TestRecordAddDrop_BidChargesBudget(t *testing.T) {
	l := NewLedger()
	eff := AddDropEffect{
		Participant: "A",
		Entries: []AddDropEntry{
			{Kind: MoveAdd, Asset: "Player1"},
			{Kind: MoveDrop, Asset: "Player2"},
		},
		Bid: 23,
	}
	if _, err := l.RecordAddDrop(2025, 5, eff, "t1"); err != nil {
		t.Fatalf("RecordAddDrop failed: %v", err)
	}

	_, _, career := scopesOf(t, l, "A", 2025, 5)
	if career.Budget.Net != -23 {
		t.Fatalf("Budget.Net = %d, want -23", career.Budget.Net)
	}
	spend := career.Budget.Players["Player1"]
	if spend == nil || spend.TimesWon != 1 || spend.TotalSpent != 23 {
		t.Fatalf("Budget.Players[Player1] = %+v", spend)
	}
	if career.Drops.Total != 1 || career.Drops.Players["Player2"] != 1 {
		t.Fatalf("drop half not applied: %+v", career.Drops)
	}
	// The drop half never touches the budget.
	if _, ok := career.Budget.Players["Player2"]; ok {
		t.Fatalf("dropped player leaked into budget summary")
	}
}

func TestRecordAddDrop_UnknownKindIsFatal(t *testing.T) {
	l := NewLedger()
	eff := AddDropEffect{
		Participant: "A",
		Entries:     []AddDropEntry{{Kind: MoveTrade, Asset: "Player1"}},
	}
	_, err := l.RecordAddDrop(2025, 1, eff, "t1")
	if !errors.Is(err, ErrUnknownMoveKind) {
		t.Fatalf("expected ErrUnknownMoveKind, got %v", err)
	}
	// Validation happens before any write.
	if l.Rollup("A") != nil {
		weekly := l.Rollup("A").Weekly[WeekKey{Year: 2025, Week: 1}]
		if weekly != nil && weekly.Adds.Total != 0 {
			t.Fatalf("partial write after contract violation")
		}
	}
}

func TestRecordTrade_TwoTeamSwap(t *testing.T) {
	l := NewLedger()
	effA := TradeEffect{
		Participant: "A",
		Partners:    []string{"B"},
		Acquired:    map[string]string{"Player2": "B"},
		Sent:        map[string]string{"Player1": "B"},
	}
	effB := TradeEffect{
		Participant: "B",
		Partners:    []string{"A"},
		Acquired:    map[string]string{"Player1": "A"},
		Sent:        map[string]string{"Player2": "A"},
	}

	if !l.RecordTrade(2025, 2, effA, "t2") {
		t.Fatalf("RecordTrade for A did not record")
	}
	if !l.RecordTrade(2025, 2, effB, "t2") {
		t.Fatalf("RecordTrade for B did not record")
	}
	// Same identifier again for A: idempotency guard.
	if l.RecordTrade(2025, 2, effA, "t2") {
		t.Fatalf("expected idempotency guard to reject re-application")
	}

	weekly, yearly, career := scopesOf(t, l, "A", 2025, 2)
	for _, sc := range []*Scope{weekly, yearly, career} {
		if sc.Trades.Total != 1 {
			t.Fatalf("A Trades.Total = %d, want 1", sc.Trades.Total)
		}
		if sc.Trades.Partners["B"] != 1 {
			t.Fatalf("A Trades.Partners[B] = %d, want 1", sc.Trades.Partners["B"])
		}
		acq := sc.Trades.PlayersAcquired["Player2"]
		if acq == nil || acq.Total != 1 || acq.Partners["B"] != 1 {
			t.Fatalf("A PlayersAcquired[Player2] = %+v", acq)
		}
		sent := sc.Trades.PlayersSent["Player1"]
		if sent == nil || sent.Total != 1 || sent.Partners["B"] != 1 {
			t.Fatalf("A PlayersSent[Player1] = %+v", sent)
		}
	}
}

func TestRecordTrade_BudgetZeroSum(t *testing.T) {
	l := NewLedger()
	effA := TradeEffect{
		Participant:    "A",
		Partners:       []string{"B"},
		Acquired:       map[string]string{"Player2": "B"},
		BudgetSent:     map[string]int{"B": 15},
		Sent:           map[string]string{},
		BudgetAcquired: map[string]int{},
	}
	effB := TradeEffect{
		Participant:    "B",
		Partners:       []string{"A"},
		Sent:           map[string]string{"Player2": "A"},
		BudgetAcquired: map[string]int{"A": 15},
		Acquired:       map[string]string{},
		BudgetSent:     map[string]int{},
	}
	l.RecordTrade(2025, 4, effA, "t9")
	l.RecordTrade(2025, 4, effB, "t9")

	for name, want := range map[string]int{"A": -15, "B": 15} {
		weekly, yearly, career := scopesOf(t, l, name, 2025, 4)
		for _, sc := range []*Scope{weekly, yearly, career} {
			if sc.Budget.Net != want {
				t.Fatalf("%s Budget.Net = %d, want %d", name, sc.Budget.Net, want)
			}
		}
	}

	_, _, careerA := scopesOf(t, l, "A", 2025, 4)
	if careerA.Budget.TradedAway.Total != 15 || careerA.Budget.TradedAway.Partners["B"] != 15 {
		t.Fatalf("A TradedAway = %+v", careerA.Budget.TradedAway)
	}
	_, _, careerB := scopesOf(t, l, "B", 2025, 4)
	if careerB.Budget.Acquired.Total != 15 || careerB.Budget.Acquired.Partners["A"] != 15 {
		t.Fatalf("B Acquired = %+v", careerB.Budget.Acquired)
	}
	// Cash never lands in the player-asset maps.
	if len(careerA.Trades.PlayersSent) != 0 {
		t.Fatalf("cash token leaked into A's PlayersSent: %+v", careerA.Trades.PlayersSent)
	}
}

func TestRevertTrade_SparseCleanup(t *testing.T) {
	l := NewLedger()
	eff := TradeEffect{
		Participant: "A",
		Partners:    []string{"B"},
		Acquired:    map[string]string{"Player2": "B"},
		Sent:        map[string]string{"Player1": "B"},
		BudgetSent:  map[string]int{"B": 5},
	}
	l.RecordTrade(2025, 1, eff, "t1")
	l.RevertTrade(2025, 1, eff, "t1")

	weekly, yearly, career := scopesOf(t, l, "A", 2025, 1)
	for _, sc := range []*Scope{weekly, yearly, career} {
		if sc.Trades.Total != 0 {
			t.Fatalf("Trades.Total = %d after revert, want 0", sc.Trades.Total)
		}
		if len(sc.Trades.Partners) != 0 {
			t.Fatalf("zero-valued partner entry persisted: %+v", sc.Trades.Partners)
		}
		if len(sc.Trades.PlayersAcquired) != 0 || len(sc.Trades.PlayersSent) != 0 {
			t.Fatalf("zero-valued asset entries persisted")
		}
		if sc.Budget.Net != 0 || sc.Budget.TradedAway.Total != 0 || len(sc.Budget.TradedAway.Partners) != 0 {
			t.Fatalf("budget not restored: %+v", sc.Budget)
		}
	}
	if len(weekly.TransactionIDs) != 0 {
		t.Fatalf("identifier not removed from weekly list: %v", weekly.TransactionIDs)
	}
}

func TestParticipantRollupCloneIsDetached(t *testing.T) {
	l := NewLedger()
	eff := TradeEffect{
		Participant: "A",
		Partners:    []string{"B"},
		Acquired:    map[string]string{"Player2": "B"},
		Sent:        map[string]string{"Player1": "B"},
		BudgetSent:  map[string]int{"B": 5},
	}
	l.RecordTrade(2025, 1, eff, "t1")

	snap := l.Rollup("A").Clone()
	l.RevertTrade(2025, 1, eff, "t1")

	weekly := snap.Weekly[WeekKey{Year: 2025, Week: 1}]
	if weekly == nil || weekly.Trades.Total != 1 || weekly.Trades.Partners["B"] != 1 {
		t.Fatalf("snapshot changed by a later revert: %+v", weekly)
	}
	if acq := weekly.Trades.PlayersAcquired["Player2"]; acq == nil || acq.Total != 1 || acq.Partners["B"] != 1 {
		t.Fatalf("snapshot asset flow changed: %+v", acq)
	}
	if weekly.Budget.Net != -5 || weekly.Budget.TradedAway.Partners["B"] != 5 {
		t.Fatalf("snapshot budget changed: %+v", weekly.Budget)
	}
	if len(weekly.TransactionIDs) != 1 || weekly.TransactionIDs[0] != "t1" {
		t.Fatalf("snapshot identifier list changed: %v", weekly.TransactionIDs)
	}
	if snap.Career.Trades.Total != 1 {
		t.Fatalf("career snapshot changed: %+v", snap.Career.Trades)
	}
}

func TestScopeConsistency_AcrossWeeksAndYears(t *testing.T) {
	l := NewLedger()
	add := func(year, week int, txID string) {
		eff := AddDropEffect{Participant: "A", Entries: []AddDropEntry{{Kind: MoveAdd, Asset: "Player1"}}}
		if _, err := l.RecordAddDrop(year, week, eff, txID); err != nil {
			t.Fatalf("RecordAddDrop(%s) failed: %v", txID, err)
		}
	}
	add(2024, 1, "a1")
	add(2024, 2, "a2")
	add(2024, 2, "a3")
	add(2025, 1, "a4")

	r := l.Rollup("A")
	weeklySum := make(map[int]int)
	for key, sc := range r.Weekly {
		weeklySum[key.Year] += sc.Adds.Total
	}
	yearlySum := 0
	for year, sc := range r.Yearly {
		if sc.Adds.Total != weeklySum[year] {
			t.Fatalf("year %d: yearly total %d != sum of weekly totals %d", year, sc.Adds.Total, weeklySum[year])
		}
		yearlySum += sc.Adds.Total
	}
	if r.Career.Adds.Total != yearlySum {
		t.Fatalf("career total %d != sum of yearly totals %d", r.Career.Adds.Total, yearlySum)
	}
}
