// Package service is the single source of truth of the task board: one
// process-wide state container shared by the identity, board, task and
// notification components. Every mutation validates first, then changes the
// in-memory snapshot, then hands the whole snapshot to the persistence
// gateway.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskboard/internal/metrics"
	"taskboard/internal/model"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6

	defaultBaseURL = "http://localhost:5173/"
)

// Persister is the durable side of the container.
type Persister interface {
	Load(ctx context.Context) (*model.Snapshot, error)
	Save(ctx context.Context, snap *model.Snapshot)
	LastError() error
}

type Options struct {
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	// Now and NewCode are replaceable for tests.
	Now     func() time.Time
	NewCode func() string

	// BaseURL is the address shareable board links point at.
	BaseURL string

	// DedupWindow limits how long an unread notification suppresses an
	// equivalent one. Zero suppresses for as long as it stays unread.
	DedupWindow time.Duration

	// DeadlineWarning is how far ahead of a deadline assignees get warned.
	DeadlineWarning time.Duration

	Passwords PasswordPolicy
	SeedDemo  bool
}

// App is the state container. The zero value is not usable; call Open.
type App struct {
	mu    sync.Mutex
	state *model.Snapshot

	store    Persister
	logger   *zap.Logger
	metrics  *metrics.Metrics
	validate *validator.Validate

	now             func() time.Time
	newCode         func() string
	baseURL         string
	dedupWindow     time.Duration
	deadlineWarning time.Duration
	passwords       PasswordPolicy
}

// Open loads the last snapshot from store and returns a ready container.
func Open(ctx context.Context, store Persister, opts Options) (*App, error) {
	a := &App{
		store:           store,
		logger:          opts.Logger,
		metrics:         opts.Metrics,
		validate:        newValidator(),
		now:             opts.Now,
		newCode:         opts.NewCode,
		baseURL:         opts.BaseURL,
		dedupWindow:     opts.DedupWindow,
		deadlineWarning: opts.DeadlineWarning,
		passwords:       opts.Passwords,
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.newCode == nil {
		a.newCode = randomCode
	}
	if a.baseURL == "" {
		a.baseURL = defaultBaseURL
	}
	if a.deadlineWarning == 0 {
		a.deadlineWarning = 24 * time.Hour
	}
	if a.passwords == nil {
		a.passwords = PlainPasswords{}
	}

	snap, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("init state: %w", err)
	}
	a.state = snap

	dirty := a.restoreSession()
	if opts.SeedDemo && len(a.state.Users) == 0 {
		if err := a.seedDemo(); err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
		dirty = true
	}
	if dirty {
		a.commit(ctx)
	}

	a.logger.Info("state loaded",
		zap.Int("users", len(a.state.Users)),
		zap.Int("boards", len(a.state.Boards)),
		zap.Int("tasks", len(a.state.Tasks)),
	)
	return a, nil
}

// PersistenceWarning returns the last storage error, if the most recent
// write did not reach the backend.
func (a *App) PersistenceWarning() error {
	return a.store.LastError()
}

// Snapshot returns a deep copy of the whole state.
func (a *App) Snapshot() model.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := model.Snapshot{
		Users:         make([]model.User, len(a.state.Users)),
		Boards:        slices.Clone(a.state.Boards),
		Tasks:         make([]model.Task, len(a.state.Tasks)),
		Notifications: slices.Clone(a.state.Notifications),
		Session:       a.state.Session,
	}
	for i, u := range a.state.Users {
		out.Users[i] = cloneUser(u)
	}
	for i, t := range a.state.Tasks {
		out.Tasks[i] = t.Clone()
	}
	if c := a.state.SavedCredentials; c != nil {
		cp := *c
		out.SavedCredentials = &cp
	}
	return out
}

func (a *App) commit(ctx context.Context) {
	a.store.Save(ctx, a.state)
}

// restoreSession drops a persisted session that no longer satisfies the
// membership invariant. It reports whether anything changed.
func (a *App) restoreSession() bool {
	s := &a.state.Session
	if s.CurrentUserID == "" {
		if s.CurrentBoardID != "" {
			s.CurrentBoardID = ""
			return true
		}
		return false
	}
	u := a.userByID(s.CurrentUserID)
	if u == nil {
		*s = model.Session{}
		return true
	}
	if s.CurrentBoardID != "" && !u.IsMember(s.CurrentBoardID) {
		s.CurrentBoardID = a.firstBoardOf(u)
		return true
	}
	return false
}

// currentUser returns the logged-in user or ErrNotAuthenticated.
func (a *App) currentUser() (*model.User, error) {
	if a.state.Session.CurrentUserID == "" {
		return nil, ErrNotAuthenticated
	}
	u := a.userByID(a.state.Session.CurrentUserID)
	if u == nil {
		return nil, ErrNotAuthenticated
	}
	return u, nil
}

func (a *App) userByID(id string) *model.User {
	for i := range a.state.Users {
		if a.state.Users[i].ID == id {
			return &a.state.Users[i]
		}
	}
	return nil
}

func (a *App) userByUsername(username string) *model.User {
	for i := range a.state.Users {
		if a.state.Users[i].Username == username {
			return &a.state.Users[i]
		}
	}
	return nil
}

func (a *App) boardByID(id string) *model.Board {
	for i := range a.state.Boards {
		if a.state.Boards[i].ID == id {
			return &a.state.Boards[i]
		}
	}
	return nil
}

func (a *App) boardByCode(code string) *model.Board {
	code = normalizeCode(code)
	if code == "" {
		return nil
	}
	for i := range a.state.Boards {
		if a.state.Boards[i].Code == code {
			return &a.state.Boards[i]
		}
	}
	return nil
}

func (a *App) taskByID(id string) *model.Task {
	for i := range a.state.Tasks {
		if a.state.Tasks[i].ID == id {
			return &a.state.Tasks[i]
		}
	}
	return nil
}

// firstBoardOf returns the first board in u's membership list that still
// exists, or "".
func (a *App) firstBoardOf(u *model.User) string {
	for _, id := range u.BoardIDs {
		if a.boardByID(id) != nil {
			return id
		}
	}
	return ""
}

// memberIDs derives a board's membership from the users' board lists.
func (a *App) memberIDs(boardID string) map[string]bool {
	members := make(map[string]bool)
	for _, u := range a.state.Users {
		if u.IsMember(boardID) {
			members[u.ID] = true
		}
	}
	return members
}

// uniqueCode draws codes until one is not in use. A generator that keeps
// colliding is abandoned for the random one.
func (a *App) uniqueCode() string {
	for attempt := 0; ; attempt++ {
		gen := a.newCode
		if attempt >= 100 {
			gen = randomCode
		}
		code := normalizeCode(gen())
		if code != "" && a.boardByCode(code) == nil {
			return code
		}
	}
}

func (a *App) newID() string {
	return uuid.NewString()
}

func (a *App) timestamp() time.Time {
	return a.now().UTC()
}

func randomCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func cloneUser(u model.User) model.User {
	u.BoardIDs = slices.Clone(u.BoardIDs)
	return u
}
