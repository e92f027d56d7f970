package usecases

import (
	"context"
	"encoding/json"
	"time"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/ports"
)

// StatsService serves the dashboard snapshot.
type StatsService struct {
	stats ports.StatsRepository
	cache ports.CacheService
}

// NewStatsService creates a new StatsService.
func NewStatsService(stats ports.StatsRepository, cache ports.CacheService) *StatsService {
	return &StatsService{stats: stats, cache: cache}
}

// RanchStats returns the aggregate counts shown on the dashboard.
func (s *StatsService) RanchStats(ctx context.Context) (*domain.RanchStats, error) {
	cacheKey := "zones:stats"
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var stats domain.RanchStats
			if err := json.Unmarshal(data, &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.stats.RanchStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 30*time.Second)
		}
	}

	return stats, nil
}
