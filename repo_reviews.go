package scholar

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Reviews stores user reviews of scholarships.
type Reviews interface {
	repository.Repository[*Review]

	ListAll(ctx context.Context) ([]*Review, error)
	ListByScholarship(ctx context.Context, scholarshipID uuid.UUID) ([]*Review, error)
}

type reviews struct {
	repository.Repository[*Review]
	db *bun.DB
}

var _ Reviews = (*reviews)(nil)

func NewReviewsRepository(db *bun.DB) Reviews {
	repo := repository.NewRepository[*Review](db, repository.ModelHandlers[*Review]{
		NewRecord: func() *Review { return &Review{} },
		GetID: func(r *Review) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Review, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
	})

	return &reviews{
		Repository: repo,
		db:         db,
	}
}

func (r *reviews) ListAll(ctx context.Context) ([]*Review, error) {
	var records []*Review
	err := r.db.NewSelect().
		Model(&records).
		Order("review_date DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *reviews) ListByScholarship(ctx context.Context, scholarshipID uuid.UUID) ([]*Review, error) {
	var records []*Review
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.scholarship_id = ?", scholarshipID).
		Order("review_date DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}
