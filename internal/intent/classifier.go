// Package intent resolves a message to a category by deterministic keyword
// matching. No scoring: escalation triggers win outright, then the first
// configured category with a matching keyword, then the general fallback.
package intent

import (
	"strings"

	"github.com/spec-kit/student-support/internal/domain"
	"github.com/spec-kit/student-support/internal/knowledge"
)

// Classifier matches messages against a configured category catalog.
type Classifier struct {
	base *knowledge.Base
}

// NewClassifier builds a classifier over the given catalog.
func NewClassifier(base *knowledge.Base) *Classifier {
	return &Classifier{base: base}
}

// Classify resolves the category for a message. Category order in the
// catalog is part of the contract: overlapping keyword sets resolve to the
// earliest category.
func (c *Classifier) Classify(message string) domain.Category {
	lowered := strings.ToLower(message)

	for _, trigger := range c.base.EscalationKeywords {
		if strings.Contains(lowered, trigger) {
			return domain.CategoryEscalation
		}
	}

	for _, category := range c.base.Categories {
		for _, keyword := range category.Keywords {
			if strings.Contains(lowered, keyword) {
				return category.Name
			}
		}
	}

	return domain.CategoryGeneral
}
