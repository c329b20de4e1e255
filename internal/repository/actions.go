package repository

import (
	"context"

	"github.com/jmehdipour/phone-engine/internal/model"
	"github.com/jmoiron/sqlx"
)

// ActionsRepository defines persistence for the contact_actions table.
type ActionsRepository interface {
	InsertQueued(ctx context.Context, tx *sqlx.Tx, a model.ContactAction) error
	BatchUpdateStatus(ctx context.Context, tx *sqlx.Tx, ids []string, status model.ActionStatus) error
}

type ActionsRepositoryImpl struct {
	db *sqlx.DB
}

func NewActionsRepository(db *sqlx.DB) *ActionsRepositoryImpl {
	return &ActionsRepositoryImpl{db: db}
}

var _ ActionsRepository = (*ActionsRepositoryImpl)(nil)

// InsertQueued inserts a new contact action with status=queued.
func (r *ActionsRepositoryImpl) InsertQueued(ctx context.Context, tx *sqlx.Tx, a model.ContactAction) error {
	const q = `
		INSERT INTO contact_actions
		    (id, client_id, listing_ref, phone, dial_code, intent, status, created_at, updated_at)
		VALUES
		    (?,  ?,         ?,           ?,     ?,         ?,      'queued', NOW(),  NOW())
	`
	return withTx(ctx, r.db, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q,
			a.ID, a.ClientID, a.ListingRef, a.Phone, a.DialCode, a.Intent,
		)
		return err
	})
}

// BatchUpdateStatus updates status for many actions using a single statement.
func (r *ActionsRepositoryImpl) BatchUpdateStatus(ctx context.Context, tx *sqlx.Tx, ids []string, status model.ActionStatus) error {
	if len(ids) == 0 {
		return nil
	}
	const base = `UPDATE contact_actions SET status = ?, updated_at = NOW() WHERE id IN (?)`
	query, args, err := sqlx.In(base, status.String(), ids)
	if err != nil {
		return err
	}
	query = r.db.Rebind(query)

	return withTx(ctx, r.db, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	})
}
