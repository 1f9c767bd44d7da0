package dto

import (
	"time"

	"github.com/spec-kit/student-support/internal/domain"
)

// ProfileResponse is the unified student profile plus aggregation metadata.
type ProfileResponse struct {
	Identity domain.IdentityRecord `json:"identity"`
	Academic domain.AcademicRecord `json:"academic"`
	Aid      domain.AidRecord      `json:"financial_aid"`
	Housing  domain.HousingRecord  `json:"housing"`
	Library  domain.LibraryRecord  `json:"library"`
	Meta     ProfileMetaResponse   `json:"metadata"`
}

// ProfileMetaResponse reports which systems answered the fan-out.
type ProfileMetaResponse struct {
	ProvidersQueried   []domain.ProviderID `json:"systems_queried"`
	ProvidersResponded []domain.ProviderID `json:"systems_responded"`
	AggregatedAt       time.Time           `json:"aggregated_at"`
	Freshness          string              `json:"freshness"`
}
