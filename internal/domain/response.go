package domain

import "time"

// Category is a classification result, one of the configured ordered label
// set. It carries no identity beyond its name.
type Category string

const (
	// CategoryEscalation overrides every other match and always hands off
	// to a human.
	CategoryEscalation Category = "escalation"
	// CategoryGeneral is the fallback when no configured category matches.
	CategoryGeneral Category = "general"
)

// GeneratedResponse is a synthesized answer to one query. Produced fresh per
// request and never mutated.
type GeneratedResponse struct {
	Text       string    `json:"text"`
	Category   Category  `json:"category"`
	Confidence float64   `json:"confidence"`
	Automated  bool      `json:"automated"`
	Timestamp  time.Time `json:"timestamp"`
	Sources    []string  `json:"sources"`
}
