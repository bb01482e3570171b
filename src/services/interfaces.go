package services

import (
	"context"
	"errors"

	"github.com/username/leaguefolio/src/ledger"
)

var (
	ErrLeagueNotConfigured = errors.New("no league id configured")
	ErrProviderFetch       = errors.New("failed fetching data from provider")
	ErrUnknownParticipant  = errors.New("unknown participant")
)

// WeekSyncResult summarizes one week's ingestion and reconciliation.
type WeekSyncResult struct {
	Week      int                    `json:"week"`
	Ingest    ledger.IngestReport    `json:"ingest"`
	Reconcile ledger.ReconcileReport `json:"reconcile"`
	Failures  []string               `json:"failures,omitempty"`
}

// SeasonSyncResult is the outcome of a full season sync run.
type SeasonSyncResult struct {
	RunID  string           `json:"run_id"`
	Season int              `json:"season"`
	Weeks  []WeekSyncResult `json:"weeks"`
}

// SeasonService drives a season's processing and exposes the resulting
// rollup and index snapshots to the read-only query surface.
type SeasonService interface {
	SyncSeason(ctx context.Context, throughWeek int) (*SeasonSyncResult, error)
	SyncWeek(ctx context.Context, week int) (*WeekSyncResult, error)
	ParticipantRollup(name string) (*ledger.ParticipantRollup, error)
	Rollups() map[string]*ledger.ParticipantRollup
	Transactions() []*ledger.Transaction
}
