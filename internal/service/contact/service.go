package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmehdipour/phone-engine/internal/action"
	"github.com/jmehdipour/phone-engine/internal/metrics"
	"github.com/jmehdipour/phone-engine/internal/model"
	"github.com/jmehdipour/phone-engine/internal/phone"
	"github.com/jmehdipour/phone-engine/internal/repository"
	"github.com/jmehdipour/phone-engine/internal/util"
	"github.com/jmoiron/sqlx"
)

const (
	DefaultTopic = "phone.actions"
	aggregate    = "contact_action"
)

var ErrInvalidIntent = errors.New("invalid intent")

// Request is one contact tap coming from the marketplace UI.
type Request struct {
	ClientID   int64
	Phone      string
	Intent     string
	Message    string
	ListingRef string
}

// Service dispatches a contact action and atomically persists it together
// with its outbox event.
type Service struct {
	db       *sqlx.DB
	actions  repository.ActionsRepository
	outbox   repository.OutboxRepository
	engine   *phone.Engine
	dispatch *action.Dispatcher
	topic    string
}

func New(
	db *sqlx.DB,
	actionsRepo repository.ActionsRepository,
	outboxRepo repository.OutboxRepository,
	engine *phone.Engine,
	dispatch *action.Dispatcher,
	topic string,
) *Service {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Service{
		db:       db,
		actions:  actionsRepo,
		outbox:   outboxRepo,
		engine:   engine,
		dispatch: dispatch,
		topic:    topic,
	}
}

// Record dispatches req and writes `contact_actions` and `outbox` within a
// single transaction. Returns the stored action and the dispatch effect.
func (s *Service) Record(ctx context.Context, req Request) (model.ContactAction, action.Effect, error) {
	act, payload, eff, err := s.prepare(ctx, req)
	if err != nil {
		return model.ContactAction{}, eff, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.ContactAction{}, eff, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.actions.InsertQueued(ctx, tx, act); err != nil {
		return model.ContactAction{}, eff, fmt.Errorf("insert contact action: %w", err)
	}

	if err := s.outbox.Insert(ctx, tx, model.OutboxEvent{
		Aggregate:   aggregate,
		AggregateID: act.ID,
		Topic:       s.topic,
		Payload:     payload,
	}); err != nil {
		return model.ContactAction{}, eff, fmt.Errorf("insert outbox: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.ContactAction{}, eff, err
	}

	metrics.ContactActionsTotal.WithLabelValues("queued", act.Intent).Inc()
	return act, eff, nil
}

// prepare runs the dispatch and builds the row and envelope payload.
func (s *Service) prepare(ctx context.Context, req Request) (model.ContactAction, []byte, action.Effect, error) {
	intent, ok := action.ParseIntent(req.Intent)
	if !ok {
		return model.ContactAction{}, nil, action.Effect{}, fmt.Errorf("%q: %w", req.Intent, ErrInvalidIntent)
	}

	eff, err := s.dispatch.Dispatch(ctx, req.Phone, intent, req.Message)
	if err != nil {
		return model.ContactAction{}, nil, eff, fmt.Errorf("dispatch %s: %w", intent, err)
	}

	// the dispatcher already canonicalized; copy of a digitless string is
	// still dispatched but there is nothing to record
	if eff.Number == "" {
		return model.ContactAction{}, nil, eff, phone.ErrEmptyInput
	}
	number := eff.Number

	id := util.NewID()
	act := model.ContactAction{
		ID:         id,
		ClientID:   req.ClientID,
		ListingRef: req.ListingRef,
		Phone:      number,
		DialCode:   eff.DialCode,
		Intent:     intent.String(),
		Status:     model.ActionQueued,
	}

	payload, err := json.Marshal(model.Envelope{
		ID:       id,
		ClientID: req.ClientID,
		Event: model.ContactEvent{
			Phone:      number,
			Masked:     s.engine.Mask(req.Phone),
			Intent:     intent.String(),
			ListingRef: req.ListingRef,
			Message:    req.Message,
			URI:        eff.URI,
		},
	})
	if err != nil {
		return model.ContactAction{}, nil, eff, fmt.Errorf("marshal envelope: %w", err)
	}
	return act, payload, eff, nil
}
