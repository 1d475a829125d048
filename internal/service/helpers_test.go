package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/store-service/internal/auth"
	"github.com/spec-kit/store-service/internal/domain"
	"github.com/spec-kit/store-service/internal/events"
	"github.com/spec-kit/store-service/internal/repository/memory"
)

var (
	keyOnce sync.Once
	testKey *rsa.PrivateKey
	keyErr  error
)

func testTokenManager(t *testing.T, now time.Time) *auth.TokenManager {
	t.Helper()
	keyOnce.Do(func() {
		testKey, keyErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	require.NoError(t, keyErr)
	return auth.NewTokenManager(testKey, nil, "http://localhost:3000/api", 120, auth.WithClock(func() time.Time { return now }))
}

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newRecordingDispatcher() (events.Dispatcher, *recorder) {
	d := events.NewInMemoryDispatcher()
	rec := &recorder{}
	for _, et := range []events.EventType{
		events.EventUserRegistered,
		events.EventProductCreated,
		events.EventProductUpdated,
		events.EventProductDeleted,
	} {
		d.Subscribe(et, rec.handle)
	}
	return d, rec
}

// brokenUsers fails every lookup with a postgres error.
type brokenUsers struct {
	*memory.UserRepository
	err error
}

func (b brokenUsers) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, b.err
}

func pgFailure(detail string) error {
	return &pgconn.PgError{Code: "22001", Message: "value too long", Detail: detail}
}
