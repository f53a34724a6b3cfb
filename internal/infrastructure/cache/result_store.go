package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/mohammadpnp/alumni-sync/internal/domain/alumni"
)

const (
	keyPrefix = "alumni-sync"

	// Kept outside the per-system namespace so no system id can map onto it.
	allSystemsStatsKey = keyPrefix + ":stats-all"
)

type statsHash struct {
	TotalImports      int64 `redis:"total_imports"`
	TotalRecords      int64 `redis:"total_records"`
	SuccessfulImports int64 `redis:"successful_imports"`
	FailedImports     int64 `redis:"failed_imports"`
	SkippedRecords    int64 `redis:"skipped_records"`
	TotalDurationMs   int64 `redis:"total_duration_ms"`
	LastImportAt      int64 `redis:"last_import_at"`
}

// ResultStore keeps a JSON snapshot of every finished run for ttl and
// aggregates per external system counters that never expire.
type ResultStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewResultStore(client *redis.Client, ttl time.Duration) *ResultStore {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &ResultStore{client: client, ttl: ttl}
}

func (s *ResultStore) Record(ctx context.Context, result domain.ImportResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal import result: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, resultKey(result.BatchID), payload, s.ttl)
		for _, key := range []string{statsKey(result.ExternalSystemID), allSystemsStatsKey} {
			pipe.HIncrBy(ctx, key, "total_imports", 1)
			pipe.HIncrBy(ctx, key, "total_records", int64(result.TotalRecords))
			pipe.HIncrBy(ctx, key, "successful_imports", int64(result.SuccessfulImports))
			pipe.HIncrBy(ctx, key, "failed_imports", int64(result.FailedImports))
			pipe.HIncrBy(ctx, key, "skipped_records", int64(result.SkippedRecords))
			pipe.HIncrBy(ctx, key, "total_duration_ms", result.ProcessingDuration.Milliseconds())
			pipe.HSet(ctx, key, "last_import_at", result.ProcessedAt.UnixMilli())
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record import result %s: %w", result.BatchID, err)
	}
	return nil
}

func (s *ResultStore) Get(ctx context.Context, batchID string) (domain.ImportResult, error) {
	payload, err := s.client.Get(ctx, resultKey(batchID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.ImportResult{}, domain.ErrResultNotFound
		}
		return domain.ImportResult{}, fmt.Errorf("get import result %s: %w", batchID, err)
	}

	var result domain.ImportResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return domain.ImportResult{}, fmt.Errorf("decode import result %s: %w", batchID, err)
	}
	return result, nil
}

// Statistics aggregates every recorded run of externalSystemID, or of all
// systems when it is blank.
func (s *ResultStore) Statistics(ctx context.Context, externalSystemID string) (domain.ImportStatistics, error) {
	var hash statsHash
	if err := s.client.HGetAll(ctx, statisticsKey(externalSystemID)).Scan(&hash); err != nil {
		return domain.ImportStatistics{}, fmt.Errorf("get import statistics: %w", err)
	}

	stats := domain.ImportStatistics{
		ExternalSystemID:  strings.TrimSpace(externalSystemID),
		TotalImports:      hash.TotalImports,
		TotalRecords:      hash.TotalRecords,
		SuccessfulImports: hash.SuccessfulImports,
		FailedImports:     hash.FailedImports,
		SkippedRecords:    hash.SkippedRecords,
	}
	if hash.TotalRecords > 0 {
		stats.SuccessRate = float64(hash.SuccessfulImports) / float64(hash.TotalRecords) * 100
	}
	if hash.TotalImports > 0 {
		stats.AverageProcessingTime = time.Duration(hash.TotalDurationMs/hash.TotalImports) * time.Millisecond
	}
	if hash.LastImportAt > 0 {
		last := time.UnixMilli(hash.LastImportAt).UTC()
		stats.LastImportDate = &last
	}

	return stats, nil
}

func resultKey(batchID string) string {
	return keyPrefix + ":result:" + batchID
}

func statsKey(system string) string {
	return keyPrefix + ":stats:" + system
}

// statisticsKey picks the cross-system hash for a blank system id.
func statisticsKey(externalSystemID string) string {
	if system := strings.TrimSpace(externalSystemID); system != "" {
		return statsKey(system)
	}
	return allSystemsStatsKey
}
