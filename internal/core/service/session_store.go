package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/core/ports"
	"github.com/digitalgoods/storefront/internal/metrics"
	"github.com/digitalgoods/storefront/internal/pkg/notify"
	"github.com/digitalgoods/storefront/internal/pkg/settle"
)

var _ ports.SessionService = (*SessionStore)(nil)

// SessionStore holds the process-wide view of who is signed in. The user and
// admin slots are independent: either, both or neither may be present.
type SessionStore struct {
	auth  ports.AuthAPI
	admin ports.AdminAPI
	log   zerolog.Logger

	mu            sync.RWMutex
	user          *domain.RegularUser
	adminUser     *domain.AdminUser
	bootstrapping bool
	// generations are bumped on every write to a slot so that a probe that
	// started before the write does not overwrite it.
	userGen  uint64
	adminGen uint64

	// publishMu is held from a slot write until its snapshot has been
	// delivered, so listeners see snapshots in write order. Listeners must not
	// call back into a mutator synchronously.
	publishMu sync.Mutex

	bootOnce sync.Once
	ready    chan struct{}
	changes  notify.Topic[domain.SessionState]
}

func NewSessionStore(auth ports.AuthAPI, admin ports.AdminAPI, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		auth:          auth,
		admin:         admin,
		log:           log.With().Str("component", "session").Logger(),
		bootstrapping: true,
		ready:         make(chan struct{}),
	}
}

// Bootstrap restores both identities from the credentials the client already
// holds. Only the first call probes; concurrent and later calls wait for it and
// return the settled state.
func (s *SessionStore) Bootstrap(ctx context.Context) domain.SessionState {
	s.bootOnce.Do(func() { s.bootstrap(ctx) })
	return s.State()
}

func (s *SessionStore) bootstrap(ctx context.Context) {
	s.mu.RLock()
	userGen, adminGen := s.userGen, s.adminGen
	s.mu.RUnlock()

	userRes, adminRes := settle.Pair(ctx, s.auth.ProbeProfile, s.admin.ProbeProfile)
	s.recordProbe(domain.KindUser, userRes.Err)
	s.recordProbe(domain.KindAdmin, adminRes.Err)

	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	if userRes.Ok() && s.userGen == userGen {
		s.user = userRes.Value
	}
	if adminRes.Ok() && s.adminGen == adminGen {
		s.adminUser = adminRes.Value
	}
	s.bootstrapping = false
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	close(s.ready)
	s.log.Info().
		Bool("user", snapshot.HasUser()).
		Bool("admin", snapshot.IsAdmin()).
		Msg("session restored")
	s.changes.Publish(snapshot)
}

func (s *SessionStore) recordProbe(kind domain.IdentityKind, err error) {
	if err == nil {
		metrics.SessionProbesTotal.WithLabelValues(string(kind), "present").Inc()
		return
	}
	metrics.SessionProbesTotal.WithLabelValues(string(kind), "absent").Inc()
	// A 401 is the ordinary "not signed in" answer.
	if !domain.IsUnauthorized(err) {
		s.log.Debug().Err(err).Str("kind", string(kind)).Msg("session probe failed")
	}
}

// State returns a copy of the current session.
func (s *SessionStore) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Ready is closed once the boot probes have settled.
func (s *SessionStore) Ready() <-chan struct{} {
	return s.ready
}

// Subscribe registers fn for every state change.
func (s *SessionStore) Subscribe(fn func(domain.SessionState)) *notify.Subscription {
	return s.changes.Subscribe(fn)
}

func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	if _, err := s.auth.SignIn(ctx, email, password); err != nil {
		return err
	}
	// The sign-in answer is abbreviated; the profile carries the description.
	profile, err := s.auth.Profile(ctx)
	if err != nil {
		return err
	}
	s.setUser(profile, "signin")
	return nil
}

func (s *SessionStore) LoginAdmin(ctx context.Context, username, password string) error {
	admin, err := s.admin.SignIn(ctx, username, password)
	if err != nil {
		return err
	}
	s.setAdmin(admin, "signin")
	return nil
}

func (s *SessionStore) Signup(ctx context.Context, email, password, name string) error {
	if _, err := s.auth.SignUp(ctx, ports.SignUpInput{Email: email, Password: password, Name: name}); err != nil {
		return err
	}
	profile, err := s.auth.Profile(ctx)
	if err != nil {
		return err
	}
	s.setUser(profile, "signup")
	return nil
}

func (s *SessionStore) UpdateProfile(ctx context.Context, in ports.UpdateProfileInput) error {
	updated, err := s.auth.UpdateProfile(ctx, in)
	if err != nil {
		return err
	}
	s.setUser(updated, "refresh")
	return nil
}

// Logout ends one identity. With an empty kind the admin identity is ended if
// present, otherwise the user identity. The local slot is cleared even when
// the server call fails.
func (s *SessionStore) Logout(ctx context.Context, kind domain.IdentityKind) {
	if kind == "" {
		kind = domain.KindUser
		if s.State().IsAdmin() {
			kind = domain.KindAdmin
		}
	}
	if !kind.Valid() {
		s.log.Warn().Err(domain.ErrInvalidIdentityKind).Str("kind", string(kind)).Msg("logout ignored")
		return
	}

	var err error
	switch kind {
	case domain.KindAdmin:
		err = s.admin.Logout(ctx)
		s.setAdmin(nil, "signout")
	case domain.KindUser:
		err = s.auth.Logout(ctx)
		s.setUser(nil, "signout")
	}

	if err != nil {
		metrics.LogoutRemoteFailuresTotal.WithLabelValues(string(kind)).Inc()
		s.log.Warn().Err(err).Str("kind", string(kind)).Msg("remote logout failed, local session cleared")
	}
}

func (s *SessionStore) setUser(u *domain.RegularUser, transition string) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	s.user = u
	s.userGen++
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues(string(domain.KindUser), transition).Inc()
	s.changes.Publish(snapshot)
}

func (s *SessionStore) setAdmin(a *domain.AdminUser, transition string) {
	s.publishMu.Lock()
	defer s.publishMu.Unlock()

	s.mu.Lock()
	s.adminUser = a
	s.adminGen++
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues(string(domain.KindAdmin), transition).Inc()
	s.changes.Publish(snapshot)
}

func (s *SessionStore) snapshotLocked() domain.SessionState {
	st := domain.SessionState{
		User:          s.user,
		Admin:         s.adminUser,
		Bootstrapping: s.bootstrapping,
	}
	return st.Clone()
}
