package rosters

import (
	"fmt"
	"strings"

	"github.com/username/leaguefolio/src/models"
)

// Directory maps the provider's numeric roster ids to participant display
// names, and player ids to player names, for the week being processed. It is
// rebuilt fresh each week; roster ownership can change mid-season.
type Directory struct {
	participants map[int]string
	players      map[string]string
}

// BuildDirectory joins the provider's roster and user listings. A user's
// team name takes precedence over their display name; rosters without a
// matching user get a stable placeholder.
func BuildDirectory(rostersList []models.LeagueRoster, users []models.LeagueUser, players map[string]models.Player) *Directory {
	usersByID := make(map[string]models.LeagueUser, len(users))
	for _, u := range users {
		usersByID[u.UserID] = u
	}

	d := &Directory{
		participants: make(map[int]string, len(rostersList)),
		players:      make(map[string]string, len(players)),
	}
	for _, r := range rostersList {
		name := fmt.Sprintf("Roster %d", r.RosterID)
		if u, ok := usersByID[r.OwnerID]; ok {
			if team := u.Metadata["team_name"]; team != "" {
				name = team
			} else if u.DisplayName != "" {
				name = u.DisplayName
			}
		}
		d.participants[r.RosterID] = name
	}
	for id, p := range players {
		full := strings.TrimSpace(p.FirstName + " " + p.LastName)
		if full == "" {
			full = id
		}
		d.players[id] = full
	}
	return d
}

// ParticipantName resolves a roster id to its display name. The second
// return value is false when the roster is not part of the league in session.
func (d *Directory) ParticipantName(rosterID int) (string, bool) {
	name, ok := d.participants[rosterID]
	return name, ok
}

// PlayerName resolves a player id to a display name, falling back to the raw
// id when the player listing does not cover it.
func (d *Directory) PlayerName(playerID string) string {
	if name, ok := d.players[playerID]; ok {
		return name
	}
	return playerID
}

// Size returns the number of rosters in session.
func (d *Directory) Size() int {
	return len(d.participants)
}
