package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// sequentialCodes hands out the given codes in order, then numbered ones.
func sequentialCodes(codes ...string) func() string {
	i := 0
	return func() string {
		i++
		if i <= len(codes) {
			return codes[i-1]
		}
		return fmt.Sprintf("ZZ%04d", i)
	}
}

type fixture struct {
	app     *service.App
	gateway *repository.Gateway
	repo    *repository.MemorySnapshotRepository
	clock   *testClock
	ctx     context.Context
}

func newFixture(t *testing.T, opts service.Options) *fixture {
	t.Helper()
	f := &fixture{
		repo:  repository.NewMemorySnapshotRepository(),
		clock: &testClock{now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)},
		ctx:   context.Background(),
	}
	f.gateway = repository.NewGateway(f.repo, "", zaptest.NewLogger(t))
	if opts.Now == nil {
		opts.Now = f.clock.Now
	}
	if opts.NewCode == nil {
		opts.NewCode = sequentialCodes("AB12CD", "EF34GH", "JK56LM")
	}
	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t)
	}
	app, err := service.Open(f.ctx, f.gateway, opts)
	require.NoError(t, err)
	f.app = app
	return f
}

// reopen builds a fresh container over the same storage, like a page reload.
func (f *fixture) reopen(t *testing.T) *service.App {
	t.Helper()
	app, err := service.Open(f.ctx, f.gateway, service.Options{Now: f.clock.Now, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	return app
}

func registerRequest(username, email string) service.RegisterRequest {
	return service.RegisterRequest{
		Username:  username,
		Email:     email,
		Password:  "password1",
		FirstName: "Test",
		LastName:  "User",
	}
}

// mustRegister registers and leaves the new user logged in.
func (f *fixture) mustRegister(t *testing.T, username, boardCode string) model.User {
	t.Helper()
	u, err := f.app.Register(f.ctx, registerRequest(username, username+"@example.com"), boardCode)
	require.NoError(t, err)
	return u
}

// loginAs logs in a user created by mustRegister.
func (f *fixture) loginAs(t *testing.T, username string) {
	t.Helper()
	require.True(t, f.app.Login(f.ctx, username, "password1", ""))
}

func strPtr(s string) *string { return &s }
