package ledger

import (
	"os"
	"testing"

	"github.com/username/leaguefolio/src/logger"
	"github.com/username/leaguefolio/src/models"
	"github.com/username/leaguefolio/src/rosters"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

// testDirectory builds a three-roster league: roster 1 is "Team Alpha",
// roster 2 "Team Beta", roster 3 "Team Gamma", with three named players.
func testDirectory() *rosters.Directory {
	rosterList := []models.LeagueRoster{
		{RosterID: 1, OwnerID: "u1"},
		{RosterID: 2, OwnerID: "u2"},
		{RosterID: 3, OwnerID: "u3"},
	}
	users := []models.LeagueUser{
		{UserID: "u1", DisplayName: "alpha_owner", Metadata: map[string]string{"team_name": "Team Alpha"}},
		{UserID: "u2", DisplayName: "beta_owner", Metadata: map[string]string{"team_name": "Team Beta"}},
		{UserID: "u3", DisplayName: "gamma_owner", Metadata: map[string]string{"team_name": "Team Gamma"}},
	}
	players := map[string]models.Player{
		"p1": {PlayerID: "p1", FirstName: "Player1", LastName: ""},
		"p2": {PlayerID: "p2", FirstName: "Player2", LastName: ""},
		"p3": {PlayerID: "p3", FirstName: "Player3", LastName: ""},
	}
	return rosters.BuildDirectory(rosterList, users, players)
}

func newTestSession(t *testing.T, year, week int) *WeekSession {
	t.Helper()
	return NewWeekSession(year, week, testDirectory(), NewLedger(), NewIndex())
}

// scopesOf fetches the weekly, yearly and career scopes for a participant,
// failing the test if the participant has no rollup.
func scopesOf(t *testing.T, l *Ledger, name string, year, week int) (*Scope, *Scope, *Scope) {
	t.Helper()
	r := l.Rollup(name)
	if r == nil {
		t.Fatalf("no rollup for participant %q", name)
	}
	weekly := r.Weekly[WeekKey{Year: year, Week: week}]
	yearly := r.Yearly[year]
	if weekly == nil || yearly == nil {
		t.Fatalf("missing weekly/yearly scope for %q year %d week %d", name, year, week)
	}
	return weekly, yearly, r.Career
}
