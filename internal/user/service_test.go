package user_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auth-platform/user-service/internal/memory"
	"github.com/auth-platform/user-service/internal/observability"
	"github.com/auth-platform/user-service/internal/user"
)

// recordingPublisher captures every published event for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

type publishedEvent struct {
	eventType string
	userID    int64
	traceID   string
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType string, userID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{
		eventType: eventType,
		userID:    userID,
		traceID:   observability.GetCorrelationID(ctx),
	})
	return nil
}

func (p *recordingPublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishedEvent, len(p.events))
	copy(out, p.events)
	return out
}

func newTestService(t *testing.T) (*user.Service, *memory.Store, *recordingPublisher) {
	t.Helper()
	store := memory.NewStore()
	pub := &recordingPublisher{}
	logger := observability.NewLoggerWithWriter(io.Discard, "error")
	tracer := observability.NewTracer("test")
	return user.NewService(store, pub, logger, tracer), store, pub
}

func tracedContext(id string) context.Context {
	return observability.WithCorrelationID(context.Background(), id)
}

func TestServiceCreate(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := tracedContext("trace-create")

	u, err := svc.Create(ctx, user.CreateInput{Name: "John", Surname: "Doe", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "John", u.Name)
	assert.Equal(t, "Doe", u.Surname)
	assert.True(t, u.CreatedAt.Equal(u.UpdatedAt), "created_at and updated_at must match at creation")

	events := pub.published()
	require.Len(t, events, 1)
	assert.Equal(t, user.EventCreated, events[0].eventType)
	assert.Equal(t, int64(1), events[0].userID)
	assert.Equal(t, "trace-create", events[0].traceID)
}

func TestServiceCreate_ValidationSkipsStoreAndEvents(t *testing.T) {
	svc, store, pub := newTestService(t)

	_, err := svc.Create(context.Background(), user.CreateInput{Name: "", Surname: "Doe", Password: "x"})
	require.Error(t, err)
	assert.True(t, user.IsValidation(err))
	assert.Empty(t, pub.published())

	result, err := store.List(context.Background(), user.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Zero(t, result.Total)
}

func TestServiceGet(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := tracedContext("trace-get")

	created, err := svc.Create(ctx, user.CreateInput{Name: "John", Surname: "Doe", Password: "secret"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "John", got.Name)

	_, err = svc.Get(ctx, 999)
	assert.True(t, user.IsNotFound(err))
}

func TestServiceList(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := tracedContext("trace-list")

	for i := 0; i < 15; i++ {
		_, err := svc.Create(ctx, user.CreateInput{Name: "User", Surname: "N", Password: "p"})
		require.NoError(t, err)
	}

	result, err := svc.List(ctx, user.PageRequest{Page: 2, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(15), result.Total)
	assert.Len(t, result.Users, 5)
	assert.Equal(t, int64(11), result.Users[0].ID)

	_, err = svc.List(ctx, user.PageRequest{Page: 0, PerPage: 10})
	assert.True(t, user.IsValidation(err))
}

func TestServiceUpdate(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := tracedContext("trace-update")

	created, err := svc.Create(ctx, user.CreateInput{Name: "John", Surname: "Doe", Password: "secret"})
	require.NoError(t, err)

	newName := "Jane"
	updated, err := svc.Update(ctx, created.ID, user.UpdateInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "Jane", updated.Name)
	assert.Equal(t, "Doe", updated.Surname, "unset fields must keep their values")
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	events := pub.published()
	require.Len(t, events, 2)
	assert.Equal(t, user.EventUpdated, events[1].eventType)
	assert.Equal(t, created.ID, events[1].userID)
	assert.Equal(t, "trace-update", events[1].traceID)
}

func TestServiceUpdate_NotFound(t *testing.T) {
	svc, _, pub := newTestService(t)
	name := "Jane"

	_, err := svc.Update(tracedContext("t"), 999, user.UpdateInput{Name: &name})
	assert.True(t, user.IsNotFound(err))
	assert.Empty(t, pub.published(), "no event for a failed mutation")
}

func TestServiceDelete(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := tracedContext("trace-delete")

	created, err := svc.Create(ctx, user.CreateInput{Name: "John", Surname: "Doe", Password: "secret"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, user.IsNotFound(err))

	events := pub.published()
	require.Len(t, events, 2)
	assert.Equal(t, user.EventDeleted, events[1].eventType)
	assert.Equal(t, created.ID, events[1].userID)
}

func TestServiceDelete_NotFoundEmitsNothing(t *testing.T) {
	svc, _, pub := newTestService(t)

	err := svc.Delete(tracedContext("t"), 999)
	assert.True(t, user.IsNotFound(err))
	assert.Empty(t, pub.published())
}

func TestServicePublishFailureDoesNotFailMutation(t *testing.T) {
	svc, store, pub := newTestService(t)
	pub.err = errors.New("broker unreachable")
	ctx := tracedContext("trace-broken-broker")

	u, err := svc.Create(ctx, user.CreateInput{Name: "John", Surname: "Doe", Password: "secret"})
	require.NoError(t, err, "publish failure must not fail the mutation")

	persisted, err := store.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "John", persisted.Name)

	require.NoError(t, svc.Delete(ctx, u.ID))
}
