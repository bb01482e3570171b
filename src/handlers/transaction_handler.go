package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/username/leaguefolio/src/ledger"
	"github.com/username/leaguefolio/src/logger"
	"github.com/username/leaguefolio/src/services"
	"github.com/username/leaguefolio/src/utils"
)

type TransactionHandler struct {
	seasonService services.SeasonService
}

func NewTransactionHandler(seasonService services.SeasonService) *TransactionHandler {
	return &TransactionHandler{seasonService: seasonService}
}

// HandleGetTransactions returns the global transaction index in first-seen
// order, optionally filtered by ?week=.
func (h *TransactionHandler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	all := h.seasonService.Transactions()

	weekStr := r.URL.Query().Get("week")
	if weekStr == "" {
		utils.SendJSON(w, all, http.StatusOK)
		return
	}
	week, err := strconv.Atoi(weekStr)
	if err != nil {
		utils.SendJSONError(w, "invalid week parameter", http.StatusBadRequest)
		return
	}
	filtered := make([]*ledger.Transaction, 0)
	for _, t := range all {
		if t.Week == week {
			filtered = append(filtered, t)
		}
	}
	utils.SendJSON(w, filtered, http.StatusOK)
}

// HandleSyncSeason runs a season sync through the requested week.
func (h *TransactionHandler) HandleSyncSeason(w http.ResponseWriter, r *http.Request) {
	throughWeek, err := strconv.Atoi(r.URL.Query().Get("through_week"))
	if err != nil || throughWeek < 1 {
		utils.SendJSONError(w, "through_week must be a positive integer", http.StatusBadRequest)
		return
	}

	result, err := h.seasonService.SyncSeason(r.Context(), throughWeek)
	if err != nil {
		if errors.Is(err, services.ErrLeagueNotConfigured) {
			utils.SendJSONError(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		logger.L.Error("Season sync failed", "error", err)
		utils.SendJSONError(w, "season sync failed", http.StatusBadGateway)
		return
	}
	utils.SendJSON(w, result, http.StatusOK)
}
