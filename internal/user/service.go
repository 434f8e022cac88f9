package user

import (
	"context"

	"github.com/auth-platform/user-service/internal/observability"
)

// EventPublisher publishes a domain event for a completed user mutation.
// The correlation id is taken from the context and is mandatory.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, userID int64) error
}

// Event types emitted by the service, used as broker routing keys.
const (
	EventCreated = "user.created"
	EventUpdated = "user.updated"
	EventDeleted = "user.deleted"
)

// Service implements user CRUD on top of a Store and emits one domain event
// per successful mutation. Event emission is a post-commit hook: it runs
// only after the store reports success, on a context detached from the
// request lifecycle, and its failures are logged rather than surfaced.
type Service struct {
	store     Store
	publisher EventPublisher
	logger    *observability.Logger
	tracer    *observability.Tracer
}

// NewService creates a new user service.
func NewService(store Store, publisher EventPublisher, logger *observability.Logger, tracer *observability.Tracer) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger.WithComponent("user-service"),
		tracer:    tracer,
	}
}

// Create validates the input, persists a new user, and emits user.created.
func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.StartSpan(ctx, "user.create")
	defer span.End()

	u, err := s.store.Create(ctx, in)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	s.publishEvent(ctx, EventCreated, u.ID)
	return u, nil
}

// Get returns a single user by id.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	ctx, span := s.tracer.StartStoreOperation(ctx, "get", id)
	defer span.End()

	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	return u, nil
}

// List returns one page of users ordered by id ascending.
func (s *Service) List(ctx context.Context, page PageRequest) (*PageResult, error) {
	page, err := page.Normalize()
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.StartSpan(ctx, "user.list")
	defer span.End()

	result, err := s.store.List(ctx, page)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	return result, nil
}

// Update applies a partial field set and emits user.updated on success.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.StartStoreOperation(ctx, "update", id)
	defer span.End()

	u, err := s.store.Update(ctx, id, in)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	s.publishEvent(ctx, EventUpdated, u.ID)
	return u, nil
}

// Delete removes a user and emits user.deleted on success.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.StartStoreOperation(ctx, "delete", id)
	defer span.End()

	if err := s.store.Delete(ctx, id); err != nil {
		observability.RecordError(span, err)
		return err
	}

	s.publishEvent(ctx, EventDeleted, id)
	return nil
}

// publishEvent emits a domain event after a committed mutation. The event
// carries the request's correlation id but runs on a propagated context so
// a client disconnect cannot suppress it. A publish failure is logged and
// dropped; the committed mutation stands.
func (s *Service) publishEvent(ctx context.Context, eventType string, userID int64) {
	pctx := observability.PropagateContext(ctx)
	if err := s.publisher.Publish(pctx, eventType, userID); err != nil {
		s.logger.WithContext(pctx).ErrorEvent().
			Err(err).
			Str("event_type", eventType).
			Int64("user_id", userID).
			Msg("failed to publish user event")
	}
}
