package repository

import (
	"context"

	"github.com/jmehdipour/phone-engine/internal/model"
	"github.com/jmoiron/sqlx"
)

// ActionFilter narrows a report query; zero values mean "any".
type ActionFilter struct {
	Phone  string
	Intent string
	Status model.ActionStatus
	Limit  int
	Offset int
}

// CHActionsRepository lists contact actions from ClickHouse (final view).
type CHActionsRepository interface {
	ListByClient(ctx context.Context, clientID int64, f ActionFilter) ([]model.ContactAction, error)
}

type chActionsRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewCHActionsRepository(ch *sqlx.DB) CHActionsRepository {
	return &chActionsRepository{ch: ch}
}

func (r *chActionsRepository) ListByClient(ctx context.Context, clientID int64, f ActionFilter) ([]model.ContactAction, error) {
	q, args := buildListQuery(clientID, f)

	var rows []model.ContactAction
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func buildListQuery(clientID int64, f ActionFilter) (string, []any) {
	if f.Limit <= 0 || f.Limit > 1000 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := `
		SELECT id, client_id, listing_ref, phone, dial_code, intent, status, created_at, updated_at
		FROM phoneeng.contact_actions_latest
		WHERE client_id = ?`
	args := []any{clientID}

	if f.Status != "" {
		q += " AND status = ?"
		args = append(args, f.Status.String())
	}
	if f.Intent != "" {
		q += " AND intent = ?"
		args = append(args, f.Intent)
	}
	if f.Phone != "" {
		q += " AND phone = ?"
		args = append(args, f.Phone)
	}

	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)
	return q, args
}
