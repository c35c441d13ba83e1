package repository

import (
	"context"

	"cmbs_reminder/internal/domain"
	"cmbs_reminder/internal/store"
)

const (
	propertyType = "property"
	loanType     = "loan"
)

// ReferenceRepository holds the read-mostly property and loan records the
// contextualizer resolves task references against.
type ReferenceRepository struct {
	records *store.Records
}

func NewReferenceRepository(records *store.Records) *ReferenceRepository {
	return &ReferenceRepository{records: records}
}

func (r *ReferenceRepository) PutProperty(ctx context.Context, p *domain.PropertyContext) error {
	return r.records.Set(ctx, propertyType, p.ID, p)
}

func (r *ReferenceRepository) GetProperty(ctx context.Context, id string) (*domain.PropertyContext, error) {
	var p domain.PropertyContext
	if err := r.records.Get(ctx, propertyType, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ReferenceRepository) PutLoan(ctx context.Context, l *domain.LoanContext) error {
	return r.records.Set(ctx, loanType, l.ID, l)
}

func (r *ReferenceRepository) GetLoan(ctx context.Context, id string) (*domain.LoanContext, error) {
	var l domain.LoanContext
	if err := r.records.Get(ctx, loanType, id, &l); err != nil {
		return nil, err
	}
	return &l, nil
}
