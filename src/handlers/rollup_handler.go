package handlers

import (
	"errors"
	"net/http"

	"github.com/username/leaguefolio/src/services"
	"github.com/username/leaguefolio/src/utils"
)

type RollupHandler struct {
	seasonService services.SeasonService
}

func NewRollupHandler(seasonService services.SeasonService) *RollupHandler {
	return &RollupHandler{seasonService: seasonService}
}

// HandleGetRollups returns every participant's rollup, or a single
// participant's when ?participant= is given.
func (h *RollupHandler) HandleGetRollups(w http.ResponseWriter, r *http.Request) {
	participant := r.URL.Query().Get("participant")
	if participant == "" {
		h.sendWithETag(w, r, h.seasonService.Rollups())
		return
	}

	rollup, err := h.seasonService.ParticipantRollup(participant)
	if err != nil {
		if errors.Is(err, services.ErrUnknownParticipant) {
			utils.SendJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		utils.SendJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.sendWithETag(w, r, rollup)
}

func (h *RollupHandler) sendWithETag(w http.ResponseWriter, r *http.Request, data interface{}) {
	etag, err := utils.GenerateETag(data)
	if err == nil {
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
	}
	utils.SendJSON(w, data, http.StatusOK)
}
