package scholar

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Applications stores submitted scholarship applications.
type Applications interface {
	repository.Repository[*AppliedScholarship]

	ListByEmail(ctx context.Context, email string) ([]*AppliedScholarship, error)
}

type applications struct {
	repository.Repository[*AppliedScholarship]
	db *bun.DB
}

var _ Applications = (*applications)(nil)

func NewApplicationsRepository(db *bun.DB) Applications {
	repo := repository.NewRepository[*AppliedScholarship](db, repository.ModelHandlers[*AppliedScholarship]{
		NewRecord: func() *AppliedScholarship { return &AppliedScholarship{} },
		GetID: func(a *AppliedScholarship) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *AppliedScholarship, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
	})

	return &applications{
		Repository: repo,
		db:         db,
	}
}

func (r *applications) ListByEmail(ctx context.Context, email string) ([]*AppliedScholarship, error) {
	var records []*AppliedScholarship
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_email = ?", NormalizeEmail(email)).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}
