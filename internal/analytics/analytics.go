// Package analytics keeps a bounded log of answered queries for the staff
// dashboard. Redis holds the log so it survives restarts; without Redis the
// recorder degrades to a no-op and the rest of the gateway is unaffected.
package analytics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/student-support/internal/domain"
)

const defaultMaxEntries = 1000

// QueryRecord is one answered query.
type QueryRecord struct {
	ID         string          `json:"id"`
	SubjectID  string          `json:"subject_id"`
	Query      string          `json:"query"`
	Category   domain.Category `json:"category"`
	Confidence float64         `json:"confidence"`
	Automated  bool            `json:"automated"`
	Escalated  bool            `json:"escalated"`
	TicketID   string          `json:"ticket_id,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Snapshot aggregates the logged queries.
type Snapshot struct {
	TotalQueries   int                     `json:"total_queries"`
	Escalated      int                     `json:"escalated"`
	Automated      int                     `json:"automated"`
	EscalationRate float64                 `json:"escalation_rate"`
	AvgConfidence  float64                 `json:"avg_confidence"`
	ByCategory     map[domain.Category]int `json:"by_category"`
}

// Recorder writes and reads the query log.
type Recorder struct {
	client *redis.Client
	key    string
	max    int64
	logger *zap.Logger
}

// NewRecorder builds a Recorder over the given Redis client. A nil client is
// allowed and turns recording into a no-op.
func NewRecorder(client *redis.Client, key string, max int, logger *zap.Logger) *Recorder {
	if key == "" {
		key = "analytics:queries"
	}
	if max <= 0 {
		max = defaultMaxEntries
	}
	return &Recorder{client: client, key: key, max: int64(max), logger: logger}
}

// RecordQuery appends a record to the log and trims it to the configured
// bound. Failures are logged, never surfaced: analytics must not break the
// query path.
func (r *Recorder) RecordQuery(ctx context.Context, record QueryRecord) {
	if r == nil || r.client == nil {
		return
	}
	raw, err := json.Marshal(record)
	if err != nil {
		r.logger.Warn("analytics marshal failed", zap.Error(err))
		return
	}
	pipe := r.client.Pipeline()
	pipe.LPush(ctx, r.key, raw)
	pipe.LTrim(ctx, r.key, 0, r.max-1)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("analytics record failed", zap.Error(err))
	}
}

// RecentQueries returns up to limit records, newest first.
func (r *Recorder) RecentQueries(ctx context.Context, limit int) ([]QueryRecord, error) {
	if r == nil || r.client == nil {
		return nil, nil
	}
	if limit <= 0 || int64(limit) > r.max {
		limit = int(r.max)
	}
	raws, err := r.client.LRange(ctx, r.key, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}
	records := make([]QueryRecord, 0, len(raws))
	for _, raw := range raws {
		var record QueryRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			r.logger.Warn("analytics entry corrupt", zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Stats aggregates the current log contents.
func (r *Recorder) Stats(ctx context.Context) (*Snapshot, error) {
	if r == nil || r.client == nil {
		return &Snapshot{ByCategory: map[domain.Category]int{}}, nil
	}
	records, err := r.RecentQueries(ctx, int(r.max))
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{ByCategory: make(map[domain.Category]int)}
	var confidenceSum float64
	for _, record := range records {
		snapshot.TotalQueries++
		snapshot.ByCategory[record.Category]++
		confidenceSum += record.Confidence
		if record.Escalated {
			snapshot.Escalated++
		}
		if record.Automated {
			snapshot.Automated++
		}
	}
	if snapshot.TotalQueries > 0 {
		snapshot.EscalationRate = float64(snapshot.Escalated) / float64(snapshot.TotalQueries)
		snapshot.AvgConfidence = confidenceSum / float64(snapshot.TotalQueries)
	}
	return snapshot, nil
}
