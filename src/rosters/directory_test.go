package rosters

import (
	"testing"

	"github.com/username/leaguefolio/src/models"
)

func TestBuildDirectory_NameResolution(t *testing.T) {
	rosterList := []models.LeagueRoster{
		{RosterID: 1, OwnerID: "u1"},
		{RosterID: 2, OwnerID: "u2"},
		{RosterID: 3, OwnerID: "u-missing"},
	}
	users := []models.LeagueUser{
		{UserID: "u1", DisplayName: "alice", Metadata: map[string]string{"team_name": "The Aliens"}},
		{UserID: "u2", DisplayName: "bob"},
	}

	d := BuildDirectory(rosterList, users, nil)

	tests := []struct {
		rosterID int
		want     string
		wantOK   bool
	}{
		{1, "The Aliens", true}, // team name wins over display name
		{2, "bob", true},        // display name fallback
		{3, "Roster 3", true},   // no matching user
		{9, "", false},          // not in the league
	}
	for _, tt := range tests {
		got, ok := d.ParticipantName(tt.rosterID)
		if ok != tt.wantOK || got != tt.want {
			t.Fatalf("ParticipantName(%d) = %q, %v; want %q, %v", tt.rosterID, got, ok, tt.want, tt.wantOK)
		}
	}
	if d.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", d.Size())
	}
}

func TestDirectory_PlayerNameFallsBackToID(t *testing.T) {
	players := map[string]models.Player{
		"1234": {PlayerID: "1234", FirstName: "Jess", LastName: "Example"},
		"5678": {PlayerID: "5678"},
	}
	d := BuildDirectory(nil, nil, players)

	if got := d.PlayerName("1234"); got != "Jess Example" {
		t.Fatalf("PlayerName(1234) = %q", got)
	}
	if got := d.PlayerName("5678"); got != "5678" {
		t.Fatalf("PlayerName(5678) = %q, want raw id fallback", got)
	}
	if got := d.PlayerName("unknown"); got != "unknown" {
		t.Fatalf("PlayerName(unknown) = %q, want raw id fallback", got)
	}
}
