package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mclarke-dev/momentum-sim/internal/models"
	"github.com/mclarke-dev/momentum-sim/internal/providers"
)

// RefresherService keeps reference data warm and prunes stale scenarios on a
// cron schedule.
type RefresherService struct {
	cron          *cron.Cron
	db            *gorm.DB
	cache         *CacheService
	provider      *providers.OpenDataProvider
	hub           *WebSocketHub
	retentionDays int
	interval      string
}

func NewRefresherService(db *gorm.DB, cache *CacheService, provider *providers.OpenDataProvider, hub *WebSocketHub, interval string, retentionDays int) *RefresherService {
	if interval == "" {
		interval = "0 */6 * * *" // Every 6 hours
	}
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &RefresherService{
		cron:          cron.New(),
		db:            db,
		cache:         cache,
		provider:      provider,
		hub:           hub,
		retentionDays: retentionDays,
		interval:      interval,
	}
}

// Start registers the cron jobs and launches the scheduler.
func (s *RefresherService) Start() error {
	if _, err := s.cron.AddFunc(s.interval, s.refreshReferenceData); err != nil {
		return fmt.Errorf("schedule reference refresh: %w", err)
	}
	if _, err := s.cron.AddFunc("0 3 * * *", s.pruneScenarios); err != nil {
		return fmt.Errorf("schedule scenario pruning: %w", err)
	}

	s.cron.Start()
	logrus.Infof("Refresher started: reference data on %q, scenario pruning daily at 03:00", s.interval)
	return nil
}

// Stop halts the scheduler, waiting for running jobs to finish.
func (s *RefresherService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logrus.Info("Refresher stopped")
}

// RefreshNow runs a reference-data fetch immediately. Used at startup so the
// first cross-match request does not pay the upstream latency.
func (s *RefresherService) RefreshNow() {
	s.refreshReferenceData()
}

func (s *RefresherService) refreshReferenceData() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	matches, err := s.provider.FetchMatches(ctx)
	if err != nil {
		logrus.Errorf("Reference data refresh failed: %v", err)
		return
	}

	if err := s.cache.SetWithRetry(ctx, ReferenceMatchesKey, matches, 24*time.Hour, 3); err != nil {
		logrus.Errorf("Failed to cache reference matches: %v", err)
		return
	}
	logrus.Infof("Reference data refreshed: %d matches cached", len(matches))

	if s.hub != nil {
		if err := s.hub.Broadcast("reference_refreshed", map[string]interface{}{
			"matches":      len(matches),
			"refreshed_at": time.Now().UTC(),
		}); err != nil {
			logrus.Warnf("Failed to announce reference refresh: %v", err)
		}
	}
}

func (s *RefresherService) pruneScenarios() {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)

	result := s.db.Where("created_at < ?", cutoff).Delete(&models.Scenario{})
	if result.Error != nil {
		logrus.Errorf("Scenario pruning failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		logrus.Infof("Pruned %d scenarios older than %d days", result.RowsAffected, s.retentionDays)
	}
}
