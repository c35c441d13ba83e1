package service

import (
	"context"
	"fmt"

	"cmbs_reminder/internal/domain"
	"cmbs_reminder/internal/repository"
	"cmbs_reminder/internal/store"
)

// Contextualizer assembles the combined view for one task: the task itself,
// its property and loan reference records when referenced, and a synthesized
// market note. Read-only over the store.
type Contextualizer struct {
	refs *repository.ReferenceRepository
}

func NewContextualizer(refs *repository.ReferenceRepository) *Contextualizer {
	return &Contextualizer{refs: refs}
}

// Gather builds the CombinedContext for a task. A dangling property or loan
// reference is tolerated: the field stays nil and gathering continues.
// Store failures other than not-found propagate.
func (c *Contextualizer) Gather(ctx context.Context, task domain.Task) (*domain.CombinedContext, error) {
	combined := &domain.CombinedContext{Task: task}

	if task.PropertyID != "" {
		prop, err := c.refs.GetProperty(ctx, task.PropertyID)
		if err != nil && err != store.ErrNotFound {
			return nil, fmt.Errorf("load property %s: %w", task.PropertyID, err)
		}
		combined.Property = prop
	}

	if task.LoanID != "" {
		loan, err := c.refs.GetLoan(ctx, task.LoanID)
		if err != nil && err != store.ErrNotFound {
			return nil, fmt.Errorf("load loan %s: %w", task.LoanID, err)
		}
		combined.Loan = loan
	}

	if combined.Property != nil {
		combined.MarketNewsSummary = MarketNote(combined.Property.PropertyType)
	}
	return combined, nil
}

// MarketNote maps a property type to a one-line market observation. This is
// a fixed rule table, deterministic by contract; unrecognized types get no
// note.
func MarketNote(propertyType string) string {
	switch propertyType {
	case "Office":
		return "Recent reports indicate rising office vacancies in downtown areas, impacting rent growth potential."
	case "Retail":
		return "Retail sector showing resilience with increased foot traffic in suburban malls."
	default:
		return ""
	}
}
