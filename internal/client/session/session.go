// Package session holds the authoritative in-memory session state machine.
//
// The store owns the Session entirely: it is read by any number of
// observers but written only through startup reconciliation and the four
// session-mutating operations (login, social login, register, logout).
// Mutating operations are serialized; a call that arrives while another is
// in flight is rejected with ErrSessionBusy rather than queued.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/api"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/models"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/client/repositories/credentials"
	"github.com/nguyenvanhuy1998/ecommerce-app/internal/logging"
)

// Status is the tri-state session status. Initializing is the only state in
// which the UI must not yet render gated content or redirect.
type Status int

const (
	StatusInitializing Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

var (
	// ErrSessionBusy rejects a session-mutating call issued while another is
	// still in flight. The caller should disable the triggering control
	// while Loading is true instead of retrying.
	ErrSessionBusy = errors.New("session operation already in progress")

	// ErrAlreadySignedIn and ErrNotSignedIn flag contract violations:
	// login/register from Authenticated, logout from Unauthenticated.
	ErrAlreadySignedIn = errors.New("already signed in")
	ErrNotSignedIn     = errors.New("not signed in")

	// ErrNotReconciled flags a mutating call issued before startup
	// reconciliation has completed.
	ErrNotReconciled = errors.New("session not reconciled yet")
)

// Snapshot is an immutable view of the last committed session state.
// User is nil iff Token is empty iff Status != StatusAuthenticated.
type Snapshot struct {
	Status  Status
	User    *models.User
	Token   string
	Loading bool
}

// Authenticated reports whether the snapshot carries a signed-in session.
func (s Snapshot) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

// Store is the observable session state machine.
type Store struct {
	creds credentials.Store
	gw    api.Gateway
	log   logging.Logger

	mu      sync.Mutex
	status  Status
	user    *models.User
	token   string
	loading bool
	busy    bool

	reconciled bool

	subs    map[int]chan Snapshot
	nextSub int
}

// NewStore builds a Store in StatusInitializing. Reconcile must be called
// once at startup before any mutating operation.
func NewStore(creds credentials.Store, gw api.Gateway, log logging.Logger) *Store {
	return &Store{
		creds:  creds,
		gw:     gw,
		log:    log.With("component", "session"),
		status: StatusInitializing,
		subs:   map[int]chan Snapshot{},
	}
}

// Snapshot returns the last committed state. It never blocks on I/O.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers an observer. The returned channel receives a snapshot
// for every committed transition and loading-flag change, starting with the
// current state. A slow observer sees coalesced snapshots; intermediate ones
// may be dropped, the latest is never lost. The cancel func releases the
// subscription.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++

	ch := make(chan Snapshot, 1)
	ch <- s.snapshotLocked()
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// snapshotLocked and publishLocked require s.mu held.

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Status: s.status, Token: s.token, Loading: s.loading}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

func (s *Store) publishLocked() {
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Coalesce: replace the stale pending snapshot with the latest.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// Reconcile performs the one-shot startup transition out of
// StatusInitializing. A complete cached credential pair is trusted without a
// network round-trip; the first subsequent API call is responsible for
// discovering an expired token. Absence or a storage fault fails safe to
// StatusUnauthenticated (the fault is logged, never escalated to a crash).
func (s *Store) Reconcile(ctx context.Context) {
	s.mu.Lock()
	if s.reconciled {
		s.mu.Unlock()
		return
	}
	s.reconciled = true
	s.mu.Unlock()

	creds, err := s.creds.Load(ctx)
	if err != nil {
		s.log.Error(ctx, "credential load failed, starting signed out", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil || creds == nil {
		s.status = StatusUnauthenticated
	} else {
		s.status = StatusAuthenticated
		u := creds.User
		s.user = &u
		s.token = creds.Token
		s.gw.SetToken(creds.Token)
		s.log.Info(ctx, "session restored", "user_id", u.ID)
	}
	s.publishLocked()
}

// Login authenticates with email and password. On success the credentials
// are persisted and the session transitions to StatusAuthenticated. Expected
// failures (api.ErrInvalidCredentials, api.ErrUnavailable) are returned for
// the UI to render and are never retried here.
func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}

	res, err := s.gw.LoginWithPassword(ctx, email, password)
	return s.commitAuth(ctx, res, err)
}

// LoginWithProvider has the same contract as Login, parameterized by the
// social provider. A cancelled provider prompt is a silent no-op: the prior
// state is kept and no error is surfaced.
func (s *Store) LoginWithProvider(ctx context.Context, provider models.Provider) (*models.User, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}

	res, err := s.gw.LoginWithProvider(ctx, provider)
	if errors.Is(err, api.ErrProviderCancelled) {
		s.log.Debug(ctx, "provider login cancelled", "provider", provider)
		s.end()
		return nil, nil
	}
	return s.commitAuth(ctx, res, err)
}

// Register creates an account. A successful registration establishes an
// authenticated session immediately, exactly like Login.
func (s *Store) Register(ctx context.Context, data models.RegisterData) (*models.User, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}

	data.Name = strings.TrimSpace(data.Name)
	data.Email = strings.TrimSpace(data.Email)

	res, err := s.gw.Register(ctx, data)
	return s.commitAuth(ctx, res, err)
}

// Logout tears the session down. The remote invalidation is best effort:
// its failure is logged, not surfaced, and never blocks the local sign-out.
// A storage fault while clearing is returned (distinctly), but the session
// still ends StatusUnauthenticated.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	if !s.reconciled {
		s.mu.Unlock()
		return ErrNotReconciled
	}
	if s.busy {
		s.mu.Unlock()
		return ErrSessionBusy
	}
	if s.status != StatusAuthenticated {
		s.mu.Unlock()
		return ErrNotSignedIn
	}
	s.busy = true
	s.loading = true
	s.publishLocked()
	s.mu.Unlock()

	if err := s.gw.Logout(ctx); err != nil {
		s.log.Warn(ctx, "remote logout failed, signing out locally", "error", err)
	}

	clearErr := s.creds.Clear(ctx)
	if clearErr != nil {
		s.log.Error(ctx, "credential clear failed", "error", clearErr)
	}

	s.gw.SetToken("")

	s.mu.Lock()
	s.status = StatusUnauthenticated
	s.user = nil
	s.token = ""
	s.busy = false
	s.loading = false
	s.publishLocked()
	s.mu.Unlock()

	return clearErr
}

// HandleUnauthorized tears the session down after the gateway reports an
// expired or invalid token on a later API call (api.ErrTokenExpired). Unlike
// Logout it skips the remote call: the server already rejected the token.
// Calling it while signed out, or while another operation holds the
// mutating slot, is a no-op: an in-flight logout already performs the same
// teardown.
func (s *Store) HandleUnauthorized(ctx context.Context) error {
	s.mu.Lock()
	if s.status != StatusAuthenticated || s.busy {
		s.mu.Unlock()
		return nil
	}
	s.busy = true
	s.mu.Unlock()

	s.log.Info(ctx, "cached token rejected, signing out")

	clearErr := s.creds.Clear(ctx)
	if clearErr != nil {
		s.log.Error(ctx, "credential clear failed", "error", clearErr)
	}

	s.gw.SetToken("")

	s.mu.Lock()
	s.status = StatusUnauthenticated
	s.user = nil
	s.token = ""
	s.busy = false
	s.publishLocked()
	s.mu.Unlock()

	return clearErr
}

// begin acquires the single mutating slot and raises the loading flag.
func (s *Store) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// StatusInitializing means the reconciliation load has not committed
	// yet; accepting a mutation here would let its result be overwritten
	// when the load lands.
	if !s.reconciled || s.status == StatusInitializing {
		return ErrNotReconciled
	}
	if s.busy {
		return ErrSessionBusy
	}
	if s.status == StatusAuthenticated {
		return ErrAlreadySignedIn
	}

	s.busy = true
	s.loading = true
	s.publishLocked()
	return nil
}

// end releases the mutating slot without changing the committed state.
func (s *Store) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	s.loading = false
	s.publishLocked()
}

// commitAuth finishes a session-establishing operation: persists the
// credentials and commits StatusAuthenticated, or keeps the prior state on
// failure. A persistence fault after a successful gateway call still signs
// the user in for this process; only the cached copy is lost.
func (s *Store) commitAuth(ctx context.Context, res *models.AuthResult, err error) (*models.User, error) {
	if err != nil {
		s.end()
		return nil, err
	}

	if saveErr := s.creds.Save(ctx, res.Token, res.User); saveErr != nil {
		s.log.Error(ctx, "credential save failed, session will not survive restart", "error", saveErr)
	}

	s.mu.Lock()
	s.status = StatusAuthenticated
	u := res.User
	s.user = &u
	s.token = res.Token
	s.busy = false
	s.loading = false
	s.publishLocked()
	s.mu.Unlock()

	s.log.Info(ctx, "signed in", "user_id", res.User.ID)
	out := res.User
	return &out, nil
}
