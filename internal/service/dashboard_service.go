package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/blood-drive-service/internal/domain"
	"github.com/spec-kit/blood-drive-service/internal/events"
	"github.com/spec-kit/blood-drive-service/internal/persistence"
	"github.com/spec-kit/blood-drive-service/internal/repository"
)

const (
	statsCacheKey     = "dashboard:stats"
	inventoryCacheKey = "dashboard:inventory"
)

// DashboardService computes read-only aggregates for the public dashboard
// and the admin console. Aggregates are recomputed from the store on read;
// a short-lived redis cache absorbs the public dashboard's polling and is
// invalidated on every committed transition.
type DashboardService struct {
	donors        repository.DonorRepository
	activity      repository.ActivityRepository
	cache         *persistence.Redis
	cacheTTL      time.Duration
	activityLimit int
	logger        *zap.Logger
}

// DashboardDependencies bundles collaborators for the service.
type DashboardDependencies struct {
	DonorRepo     repository.DonorRepository
	ActivityRepo  repository.ActivityRepository
	Cache         *persistence.Redis
	CacheTTL      time.Duration
	ActivityLimit int
}

// NewDashboardService constructs the service.
func NewDashboardService(deps DashboardDependencies, logger *zap.Logger) *DashboardService {
	limit := deps.ActivityLimit
	if limit <= 0 {
		limit = 10
	}
	return &DashboardService{
		donors:        deps.DonorRepo,
		activity:      deps.ActivityRepo,
		cache:         deps.Cache,
		cacheTTL:      deps.CacheTTL,
		activityLimit: limit,
		logger:        logger,
	}
}

// DashboardStats counts registrations by lifecycle status.
type DashboardStats struct {
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// Stats returns counts of registrations grouped by status.
func (s *DashboardService) Stats(ctx context.Context) (DashboardStats, error) {
	var stats DashboardStats
	if s.readCached(ctx, statsCacheKey, &stats) {
		return stats, nil
	}

	counts, err := s.donors.CountByStatus(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	stats = DashboardStats{
		Pending:   counts[domain.StatusPending],
		Approved:  counts[domain.StatusApproved],
		Rejected:  counts[domain.StatusRejected],
		Completed: counts[domain.StatusCompleted],
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected + stats.Completed

	s.writeCached(ctx, statsCacheKey, stats)
	return stats, nil
}

// Inventory returns collected units per blood group. All 8 canonical groups
// are always present, zero-filled; the dashboard grid depends on that.
func (s *DashboardService) Inventory(ctx context.Context) (map[domain.BloodGroup]int, error) {
	var inventory map[domain.BloodGroup]int
	if s.readCached(ctx, inventoryCacheKey, &inventory) {
		return inventory, nil
	}

	units, err := s.donors.UnitsByBloodGroup(ctx)
	if err != nil {
		return nil, err
	}
	inventory = make(map[domain.BloodGroup]int, 8)
	for _, group := range domain.BloodGroups() {
		inventory[group] = units[group]
	}

	s.writeCached(ctx, inventoryCacheKey, inventory)
	return inventory, nil
}

// RecentActivity returns the newest transition events, newest first. The
// feed is bounded and not paginated; it backs a live widget, not an audit
// view.
func (s *DashboardService) RecentActivity(ctx context.Context, limit int) ([]domain.ActivityEvent, error) {
	if limit <= 0 {
		limit = s.activityLimit
	}
	return s.activity.ListRecent(ctx, limit)
}

// TrendDay is one day of the completion trend, zero-filled.
type TrendDay struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
}

// Trend returns the daily completion counts over the trailing window.
func (s *DashboardService) Trend(ctx context.Context, days int) ([]TrendDay, error) {
	if days <= 0 {
		days = 7
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -(days - 1))

	points, err := s.donors.CompletionsByDay(ctx, from)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]int, len(points))
	for _, point := range points {
		byDay[point.Day.UTC().Format("2006-01-02")] = point.Completed
	}

	trend := make([]TrendDay, 0, days)
	for day := from; !day.After(today); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		trend = append(trend, TrendDay{Date: date, Completed: byDay[date]})
	}
	return trend, nil
}

// RegisterInvalidation subscribes cache invalidation to lifecycle events so
// cached aggregates never outlive a committed transition by more than the
// dispatch itself.
func (s *DashboardService) RegisterInvalidation(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	invalidate := func(ctx context.Context, _ events.Event) error {
		s.invalidate(ctx)
		return nil
	}
	dispatcher.Subscribe(events.EventDonorRegistered, invalidate)
	dispatcher.Subscribe(events.EventDonorStatusChanged, invalidate)
	dispatcher.Subscribe(events.EventDonationCompleted, invalidate)
}

func (s *DashboardService) cacheEnabled() bool {
	return s.cache != nil && s.cache.Client != nil && s.cacheTTL > 0
}

func (s *DashboardService) readCached(ctx context.Context, key string, target any) bool {
	if !s.cacheEnabled() {
		return false
	}
	payload, err := s.cache.Client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(payload, target); err != nil {
		s.logger.Warn("discarding malformed cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *DashboardService) writeCached(ctx context.Context, key string, value any) {
	if !s.cacheEnabled() {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *DashboardService) invalidate(ctx context.Context) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.Client.Del(ctx, statsCacheKey, inventoryCacheKey).Err(); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}
