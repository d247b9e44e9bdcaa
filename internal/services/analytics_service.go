package services

import (
	"context"
	"time"

	"github.com/ibercasa/ibercasa/internal/cache"
	"github.com/ibercasa/ibercasa/internal/models"
	pgrepo "github.com/ibercasa/ibercasa/internal/repositories/postgres"
	"github.com/ibercasa/ibercasa/internal/utils"
)

const (
	analyticsCacheKey = "analytics:summary"
	analyticsCacheTTL = 60 * time.Second

	recentWindow = 7 * 24 * time.Hour
)

type AnalyticsTotals struct {
	Interactions       int64 `json:"interactions"`
	Queries            int64 `json:"queries"`
	Users              int64 `json:"users"`
	RecentInteractions int64 `json:"recent_interactions"`
}

type AnalyticsPerformance struct {
	AverageResponseTime float64 `json:"average_response_time"`
}

type AnalyticsSummary struct {
	Totals           AnalyticsTotals      `json:"totals"`
	InteractionTypes []models.TypeCount   `json:"interaction_types"`
	PropertyTypes    []models.TypeCount   `json:"property_types"`
	Performance      AnalyticsPerformance `json:"performance"`
}

type InteractionPage struct {
	Items   []models.UserInteraction `json:"items"`
	Total   int64                    `json:"total"`
	HasMore bool                     `json:"has_more"`
}

type QueryLogPage struct {
	Items   []models.QueryLog `json:"items"`
	Total   int64             `json:"total"`
	HasMore bool              `json:"has_more"`
}

type PreferencePage struct {
	Items   []models.UserPreference `json:"items"`
	Total   int64                   `json:"total"`
	HasMore bool                    `json:"has_more"`
}

// AnalyticsService is the read-only side of the telemetry store. No
// mutation; every aggregation tolerates an empty store.
type AnalyticsService interface {
	GetAnalytics(ctx context.Context) (*AnalyticsSummary, error)
	ListInteractions(ctx context.Context, limit, offset int, interactionType string) (*InteractionPage, error)
	ListQueryLogs(ctx context.Context, limit, offset int, queryType string) (*QueryLogPage, error)
	ListPreferences(ctx context.Context, limit, offset int) (*PreferencePage, error)
}

type analyticsService struct {
	interactions pgrepo.InteractionRepository
	queryLogs    pgrepo.QueryLogRepository
	preferences  pgrepo.PreferenceRepository
	cache        cache.Cache // optional; nil disables caching
}

func NewAnalyticsService(
	interactions pgrepo.InteractionRepository,
	queryLogs pgrepo.QueryLogRepository,
	preferences pgrepo.PreferenceRepository,
	c cache.Cache,
) AnalyticsService {
	return &analyticsService{
		interactions: interactions,
		queryLogs:    queryLogs,
		preferences:  preferences,
		cache:        c,
	}
}

func (s *analyticsService) GetAnalytics(ctx context.Context) (*AnalyticsSummary, error) {
	const op = "AnalyticsService.GetAnalytics"

	if s.cache != nil {
		var cached AnalyticsSummary
		if hit, err := s.cache.GetJSON(ctx, analyticsCacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	totalInteractions, err := s.interactions.CountAll(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count interactions", err)
	}
	totalQueries, err := s.queryLogs.CountAll(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count queries", err)
	}
	totalUsers, err := s.preferences.CountAll(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count preferences", err)
	}
	recent, err := s.interactions.CountSince(ctx, time.Now().UTC().Add(-recentWindow))
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to count recent interactions", err)
	}
	byType, err := s.interactions.CountByType(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to group interactions", err)
	}
	byProperty, err := s.interactions.CountByPropertyType(ctx, 10)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to group property types", err)
	}
	avg, err := s.interactions.AvgResponseTime(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to average response time", err)
	}

	out := &AnalyticsSummary{
		Totals: AnalyticsTotals{
			Interactions:       totalInteractions,
			Queries:            totalQueries,
			Users:              totalUsers,
			RecentInteractions: recent,
		},
		InteractionTypes: byType,
		PropertyTypes:    byProperty,
		Performance:      AnalyticsPerformance{AverageResponseTime: avg},
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, analyticsCacheKey, out, analyticsCacheTTL)
	}
	return out, nil
}

func (s *analyticsService) ListInteractions(ctx context.Context, limit, offset int, interactionType string) (*InteractionPage, error) {
	const op = "AnalyticsService.ListInteractions"

	limit, offset = normalizePage(limit, offset)
	rows, total, err := s.interactions.List(ctx, limit, offset, interactionType)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list interactions", err)
	}
	return &InteractionPage{Items: rows, Total: total, HasMore: hasMore(limit, offset, total)}, nil
}

func (s *analyticsService) ListQueryLogs(ctx context.Context, limit, offset int, queryType string) (*QueryLogPage, error) {
	const op = "AnalyticsService.ListQueryLogs"

	limit, offset = normalizePage(limit, offset)
	rows, total, err := s.queryLogs.List(ctx, limit, offset, queryType)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list query logs", err)
	}
	return &QueryLogPage{Items: rows, Total: total, HasMore: hasMore(limit, offset, total)}, nil
}

func (s *analyticsService) ListPreferences(ctx context.Context, limit, offset int) (*PreferencePage, error) {
	const op = "AnalyticsService.ListPreferences"

	limit, offset = normalizePage(limit, offset)
	rows, total, err := s.preferences.List(ctx, limit, offset)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list preferences", err)
	}
	return &PreferencePage{Items: rows, Total: total, HasMore: hasMore(limit, offset, total)}, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func hasMore(limit, offset int, total int64) bool {
	return int64(offset+limit) < total
}
