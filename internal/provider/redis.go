package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/student-support/internal/domain"
)

// redisProvider serves sub-records stored as JSON values under
// "<prefix><provider>:<subjectID>". Used when a campus system syncs its
// extract into Redis instead of exposing a live connector.
type redisProvider struct {
	client *redis.Client
	id     domain.ProviderID
	prefix string
}

// NewRedis builds a Redis-backed provider for one of the known systems.
func NewRedis(client *redis.Client, id domain.ProviderID, prefix string) (RecordProvider, error) {
	switch id {
	case domain.ProviderAdmissions, domain.ProviderAcademic, domain.ProviderFinancial,
		domain.ProviderHousing, domain.ProviderLibrary:
	default:
		return nil, fmt.Errorf("unknown provider id %q", id)
	}
	if prefix == "" {
		prefix = "records:"
	}
	return &redisProvider{client: client, id: id, prefix: prefix}, nil
}

func (p *redisProvider) ID() domain.ProviderID { return p.id }

func (p *redisProvider) FetchRecord(ctx context.Context, subjectID string) (domain.SubRecord, error) {
	key := p.prefix + string(p.id) + ":" + subjectID
	raw, err := p.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRecordAbsent
	}
	if err != nil {
		return nil, fmt.Errorf("redis fetch %s: %w", key, err)
	}
	return decodeRecord(p.id, raw)
}

func decodeRecord(id domain.ProviderID, raw []byte) (domain.SubRecord, error) {
	switch id {
	case domain.ProviderAdmissions:
		var rec domain.IdentityRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, err
		}
		return rec, nil
	case domain.ProviderAcademic:
		var rec domain.AcademicRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, err
		}
		return rec, nil
	case domain.ProviderFinancial:
		var rec domain.AidRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, err
		}
		return rec, nil
	case domain.ProviderHousing:
		var rec domain.HousingRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, err
		}
		return rec, nil
	case domain.ProviderLibrary:
		var rec domain.LibraryRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, err
		}
		return rec, nil
	}
	return nil, fmt.Errorf("unknown provider id %q", id)
}
