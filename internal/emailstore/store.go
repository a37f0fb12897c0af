package emailstore

import (
	"context"

	"github.com/uptrace/bun"
)

// SeenEmail is a processed email identifier. Rows are only ever inserted;
// the set grows forever, which is fine for small string ids.
type SeenEmail struct {
	bun.BaseModel `bun:"table:seen_emails"`

	ID string `bun:",pk"`
}

// Store is the persistent record of already-processed emails. It is the gate
// that makes redelivery of a message a no-op.
type Store struct {
	db *bun.DB
}

func New(db *bun.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*SeenEmail)(nil)).
		IfNotExists().
		Exec(ctx)

	return err
}

func (s *Store) HasSeen(ctx context.Context, id string) (bool, error) {
	return s.db.NewSelect().
		Model((*SeenEmail)(nil)).
		Where("id = ?", id).
		Exists(ctx)
}

// MarkSeen is idempotent: marking the same id again is a no-op.
func (s *Store) MarkSeen(ctx context.Context, id string) error {
	_, err := s.db.NewInsert().
		Model(&SeenEmail{ID: id}).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)

	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
