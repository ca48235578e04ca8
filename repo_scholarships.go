package scholar

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Scholarships exposes the scholarship catalog queries.
type Scholarships interface {
	repository.Repository[*Scholarship]

	ListAll(ctx context.Context) ([]*Scholarship, error)
	// FindByIDTx loads a scholarship through tx. Lookups that run inside a
	// transaction must use this instead of GetByID: the pool-backed read
	// blocks behind the open transaction on single-connection databases.
	FindByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Scholarship, error)
	// Search matches text case-insensitively against the university name,
	// subject category, and subject name.
	Search(ctx context.Context, text string) ([]*Scholarship, error)
	// TopByFees orders by application fee ascending, then post date
	// descending. limit <= 0 returns the full catalog.
	TopByFees(ctx context.Context, limit int) ([]*Scholarship, error)
}

type scholarships struct {
	repository.Repository[*Scholarship]
	db *bun.DB
}

var _ Scholarships = (*scholarships)(nil)

func NewScholarshipsRepository(db *bun.DB) Scholarships {
	repo := repository.NewRepository[*Scholarship](db, repository.ModelHandlers[*Scholarship]{
		NewRecord: func() *Scholarship { return &Scholarship{} },
		GetID: func(s *Scholarship) uuid.UUID {
			if s == nil {
				return uuid.Nil
			}
			return s.ID
		},
		SetID: func(s *Scholarship, id uuid.UUID) {
			if s != nil {
				s.ID = id
			}
		},
	})

	return &scholarships{
		Repository: repo,
		db:         db,
	}
}

func (r *scholarships) ListAll(ctx context.Context) ([]*Scholarship, error) {
	var records []*Scholarship
	err := r.db.NewSelect().
		Model(&records).
		Order("post_date DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *scholarships) FindByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*Scholarship, error) {
	record := &Scholarship{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *scholarships) Search(ctx context.Context, text string) ([]*Scholarship, error) {
	pattern := "%" + text + "%"

	var records []*Scholarship
	err := r.db.NewSelect().
		Model(&records).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				WhereOr("?TableAlias.university_name LIKE ?", pattern).
				WhereOr("?TableAlias.subject_category LIKE ?", pattern).
				WhereOr("?TableAlias.subject_name LIKE ?", pattern)
		}).
		Order("post_date DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *scholarships) TopByFees(ctx context.Context, limit int) ([]*Scholarship, error) {
	var records []*Scholarship
	q := r.db.NewSelect().
		Model(&records).
		Order("application_fees ASC").
		Order("post_date DESC")

	if limit > 0 {
		q = q.Limit(limit)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return records, nil
}
