package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/username/leaguefolio/src/database"
	"github.com/username/leaguefolio/src/ledger"
	"github.com/username/leaguefolio/src/logger"
	"github.com/username/leaguefolio/src/models"
	"github.com/username/leaguefolio/src/provider"
	"github.com/username/leaguefolio/src/rosters"
)

const (
	ckPlayerListing = "provider_player_listing"

	scopeWeekly = "weekly"
	scopeYearly = "yearly"
	scopeCareer = "career"
)

type seasonServiceImpl struct {
	client      *provider.Client
	leagueID    string
	season      int
	reportCache *cache.Cache

	// mu guards ledger and index: syncing a week writes them while the read
	// accessors serve HTTP handlers concurrently.
	mu     sync.RWMutex
	ledger *ledger.Ledger
	index  *ledger.Index
}

func NewSeasonService(client *provider.Client, leagueID string, season int, reportCache *cache.Cache) SeasonService {
	return &seasonServiceImpl{
		client:      client,
		leagueID:    leagueID,
		season:      season,
		ledger:      ledger.NewLedger(),
		index:       ledger.NewIndex(),
		reportCache: reportCache,
	}
}

// SyncSeason processes weeks 1..throughWeek strictly in order. Each week is
// fully ingested and reconciled before the next begins.
func (s *seasonServiceImpl) SyncSeason(ctx context.Context, throughWeek int) (*SeasonSyncResult, error) {
	if s.leagueID == "" {
		return nil, ErrLeagueNotConfigured
	}
	runID := uuid.NewString()
	startedAt := time.Now()
	logger.L.Info("Season sync START", "runID", runID, "season", s.season, "throughWeek", throughWeek)

	result := &SeasonSyncResult{RunID: runID, Season: s.season}
	for week := 1; week <= throughWeek; week++ {
		weekResult, err := s.syncWeek(ctx, week, runID)
		if err != nil {
			return nil, fmt.Errorf("season %d week %d: %w", s.season, week, err)
		}
		result.Weeks = append(result.Weeks, *weekResult)
	}

	s.recordSyncRun(result, runID, throughWeek, startedAt)
	logger.L.Info("Season sync END", "runID", runID, "season", s.season, "duration", time.Since(startedAt))
	return result, nil
}

func (s *seasonServiceImpl) SyncWeek(ctx context.Context, week int) (*WeekSyncResult, error) {
	if s.leagueID == "" {
		return nil, ErrLeagueNotConfigured
	}
	return s.syncWeek(ctx, week, uuid.NewString())
}

func (s *seasonServiceImpl) syncWeek(ctx context.Context, week int, runID string) (*WeekSyncResult, error) {
	directory, err := s.buildDirectory(ctx)
	if err != nil {
		return nil, err
	}
	feed, err := s.client.GetTransactions(ctx, s.leagueID, week)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFetch, err)
	}

	session := ledger.NewWeekSession(s.season, week, directory, s.ledger, s.index)

	s.mu.Lock()
	ingest := session.Ingest(feed)
	reconcile := session.Reconcile()
	err = s.persistWeek(week, runID)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	result := &WeekSyncResult{Week: week, Ingest: ingest, Reconcile: reconcile}
	for _, ingestErr := range ingest.Errors {
		result.Failures = append(result.Failures, ingestErr.Error())
	}
	return result, nil
}

// buildDirectory assembles the week's roster directory from the provider's
// roster, user and player listings.
func (s *seasonServiceImpl) buildDirectory(ctx context.Context) (*rosters.Directory, error) {
	rosterList, err := s.client.GetLeagueRosters(ctx, s.leagueID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFetch, err)
	}
	users, err := s.client.GetLeagueUsers(ctx, s.leagueID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFetch, err)
	}
	players, err := s.playerListing(ctx)
	if err != nil {
		return nil, err
	}
	return rosters.BuildDirectory(rosterList, users, players), nil
}

func (s *seasonServiceImpl) playerListing(ctx context.Context) (map[string]models.Player, error) {
	if cached, found := s.reportCache.Get(ckPlayerListing); found {
		return cached.(map[string]models.Player), nil
	}
	players, err := s.client.GetPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderFetch, err)
	}
	s.reportCache.Set(ckPlayerListing, players, cache.DefaultExpiration)
	return players, nil
}

// persistWeek snapshots the rollup scopes touched by the week and rewrites
// the week's slice of the transaction index. Reconciliation deletes index
// records, so the week's rows are replaced wholesale.
func (s *seasonServiceImpl) persistWeek(week int, runID string) error {
	dbTx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.Prepare(`INSERT OR REPLACE INTO rollup_snapshots (season, week, participant, scope, payload, sync_run_id) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing snapshot statement: %w", err)
	}
	defer stmt.Close()

	for name, rollup := range s.ledger.Participants {
		weekly := rollup.Weekly[ledger.WeekKey{Year: s.season, Week: week}]
		if weekly != nil {
			if err := writeSnapshot(stmt, s.season, week, name, scopeWeekly, weekly, runID); err != nil {
				return err
			}
		}
		if yearly := rollup.Yearly[s.season]; yearly != nil {
			if err := writeSnapshot(stmt, s.season, week, name, scopeYearly, yearly, runID); err != nil {
				return err
			}
		}
		if err := writeSnapshot(stmt, s.season, week, name, scopeCareer, rollup.Career, runID); err != nil {
			return err
		}
	}

	if _, err := dbTx.Exec(`DELETE FROM ledger_transactions WHERE season = ? AND week = ?`, s.season, week); err != nil {
		return fmt.Errorf("error clearing week's index rows: %w", err)
	}
	txStmt, err := dbTx.Prepare(`INSERT INTO ledger_transactions (transaction_id, season, week, commissioner, kinds, payload, sync_run_id) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing index statement: %w", err)
	}
	defer txStmt.Close()

	for _, t := range s.index.All() {
		if t.Season != s.season || t.Week != week {
			continue
		}
		payload, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("error marshaling transaction %s: %w", t.ID, err)
		}
		kinds := make([]string, len(t.Kinds))
		for i, k := range t.Kinds {
			kinds[i] = string(k)
		}
		if _, err := txStmt.Exec(t.ID, t.Season, t.Week, t.Commissioner, strings.Join(kinds, ","), string(payload), runID); err != nil {
			return fmt.Errorf("error inserting transaction %s: %w", t.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("error committing week snapshot: %w", err)
	}
	return nil
}

func writeSnapshot(stmt *sql.Stmt, season, week int, participant, scope string, sc *ledger.Scope, runID string) error {
	payload, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("error marshaling %s scope for %s: %w", scope, participant, err)
	}
	if _, err := stmt.Exec(season, week, participant, scope, string(payload), runID); err != nil {
		return fmt.Errorf("error inserting %s snapshot for %s: %w", scope, participant, err)
	}
	return nil
}

func (s *seasonServiceImpl) recordSyncRun(result *SeasonSyncResult, runID string, throughWeek int, startedAt time.Time) {
	var processed, skipped, failed, reversed int
	for _, w := range result.Weeks {
		processed += w.Ingest.Processed
		skipped += w.Ingest.Skipped
		failed += w.Ingest.Failed
		reversed += w.Reconcile.TradePairsReversed + w.Reconcile.AddDropPairsReversed
	}
	_, err := database.DB.Exec(
		`INSERT INTO sync_runs (run_id, season, through_week, processed, skipped, failed, reversed_pairs, started_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, s.season, throughWeek, processed, skipped, failed, reversed, startedAt)
	if err != nil {
		logger.L.Error("Failed recording sync run", "runID", runID, "error", err)
	}
}

// The read accessors return point-in-time deep copies: handlers marshal them
// after the lock is released, so they must share nothing with the live state.

func (s *seasonServiceImpl) ParticipantRollup(name string) (*ledger.ParticipantRollup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rollup := s.ledger.Rollup(name)
	if rollup == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParticipant, name)
	}
	return rollup.Clone(), nil
}

func (s *seasonServiceImpl) Rollups() map[string]*ledger.ParticipantRollup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*ledger.ParticipantRollup, len(s.ledger.Participants))
	for name, rollup := range s.ledger.Participants {
		out[name] = rollup.Clone()
	}
	return out
}

func (s *seasonServiceImpl) Transactions() []*ledger.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.index.All()
	out := make([]*ledger.Transaction, len(all))
	for i, t := range all {
		out[i] = t.Clone()
	}
	return out
}
