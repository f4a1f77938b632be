package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/digitalgoods/storefront/internal/core/domain"
	"github.com/digitalgoods/storefront/internal/core/ports"
)

func newTestStore(auth *stubAuthAPI, admin *stubAdminAPI) *SessionStore {
	return NewSessionStore(auth, admin, zerolog.Nop())
}

func TestSessionStore_InitialStateIsBootstrapping(t *testing.T) {
	store := newTestStore(&stubAuthAPI{}, &stubAdminAPI{})

	st := store.State()
	if !st.Bootstrapping || st.Authenticated() {
		t.Fatalf("expected empty bootstrapping state, got %+v", st)
	}
	select {
	case <-store.Ready():
		t.Fatalf("ready must not be closed before bootstrap")
	default:
	}
}

func TestSessionStore_Bootstrap_UserProbeFailsAdminSucceeds(t *testing.T) {
	auth := &stubAuthAPI{}
	admin := &stubAdminAPI{probeFn: func(context.Context) (*domain.AdminUser, error) {
		return &domain.AdminUser{ID: "a1", Username: "root"}, nil
	}}
	store := newTestStore(auth, admin)

	st := store.Bootstrap(context.Background())

	if st.User != nil {
		t.Fatalf("expected user slot absent, got %+v", st.User)
	}
	if st.Admin == nil || st.Admin.Username != "root" {
		t.Fatalf("expected admin slot populated, got %+v", st.Admin)
	}
	if st.Bootstrapping {
		t.Fatalf("expected bootstrapping=false after bootstrap")
	}
	select {
	case <-store.Ready():
	default:
		t.Fatalf("ready must be closed after bootstrap")
	}
}

func TestSessionStore_Bootstrap_AdminProbeFailsUserSucceeds(t *testing.T) {
	auth := &stubAuthAPI{probeFn: func(context.Context) (*domain.RegularUser, error) {
		return &domain.RegularUser{ID: "u1", Email: "ann@example.com"}, nil
	}}
	admin := &stubAdminAPI{probeFn: func(context.Context) (*domain.AdminUser, error) {
		return nil, &domain.APIError{Message: "connection refused"}
	}}
	store := newTestStore(auth, admin)

	st := store.Bootstrap(context.Background())

	if st.User == nil || st.User.Email != "ann@example.com" {
		t.Fatalf("expected user slot populated, got %+v", st.User)
	}
	if st.Admin != nil {
		t.Fatalf("expected admin slot absent, got %+v", st.Admin)
	}
	if st.Bootstrapping {
		t.Fatalf("expected bootstrapping=false")
	}
}

func TestSessionStore_Bootstrap_NoCredentials(t *testing.T) {
	store := newTestStore(&stubAuthAPI{}, &stubAdminAPI{})

	st := store.Bootstrap(context.Background())
	if st.Authenticated() || st.Bootstrapping {
		t.Fatalf("expected settled anonymous state, got %+v", st)
	}
	if got := domain.DecideAdminAccess(st); got != domain.AccessRedirect {
		t.Fatalf("expected redirect decision, got %s", got)
	}
}

func TestSessionStore_Bootstrap_ProbesRunConcurrently(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 2)
	auth := &stubAuthAPI{probeFn: func(context.Context) (*domain.RegularUser, error) {
		started <- struct{}{}
		<-release
		return nil, errUnauthorized
	}}
	admin := &stubAdminAPI{probeFn: func(context.Context) (*domain.AdminUser, error) {
		started <- struct{}{}
		<-release
		return nil, errUnauthorized
	}}
	store := newTestStore(auth, admin)

	done := make(chan struct{})
	go func() {
		store.Bootstrap(context.Background())
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(time.Second):
			t.Fatalf("probe %d not started while the other was in flight", i+1)
		}
	}
	if !store.State().Bootstrapping {
		t.Fatalf("state must stay bootstrapping while probes are in flight")
	}
	close(release)
	<-done
}

func TestSessionStore_Bootstrap_RunsOnce(t *testing.T) {
	auth := &stubAuthAPI{}
	admin := &stubAdminAPI{}
	store := newTestStore(auth, admin)

	store.Bootstrap(context.Background())
	store.Bootstrap(context.Background())

	if n := auth.called("probe"); n != 1 {
		t.Fatalf("expected one user probe, got %d", n)
	}
	if n := admin.called("probe"); n != 1 {
		t.Fatalf("expected one admin probe, got %d", n)
	}
}

func TestSessionStore_Bootstrap_DoesNotOverwriteLoginInFlight(t *testing.T) {
	release := make(chan struct{})
	auth := &stubAuthAPI{
		profile: &domain.RegularUser{ID: "u1", Email: "ann@example.com"},
		probeFn: func(context.Context) (*domain.RegularUser, error) {
			<-release
			return nil, errUnauthorized
		},
	}
	store := newTestStore(auth, &stubAdminAPI{})

	done := make(chan struct{})
	go func() {
		store.Bootstrap(context.Background())
		close(done)
	}()

	if err := store.Login(context.Background(), "ann@example.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	close(release)
	<-done

	if !store.State().HasUser() {
		t.Fatalf("late probe result cleared a fresh login")
	}
}

func TestSessionStore_DualIdentityCoexists(t *testing.T) {
	auth := &stubAuthAPI{profile: &domain.RegularUser{ID: "u1", Email: "ann@example.com"}}
	admin := &stubAdminAPI{}
	store := newTestStore(auth, admin)
	store.Bootstrap(context.Background())

	if err := store.Login(context.Background(), "ann@example.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := store.LoginAdmin(context.Background(), "root", "toor"); err != nil {
		t.Fatalf("admin login: %v", err)
	}

	st := store.State()
	if !st.HasUser() || !st.IsAdmin() {
		t.Fatalf("expected both identities, got %+v", st)
	}

	store.Logout(context.Background(), domain.KindAdmin)

	st = store.State()
	if st.IsAdmin() {
		t.Fatalf("admin slot should be cleared")
	}
	if !st.HasUser() {
		t.Fatalf("user slot must survive admin logout")
	}
}

func TestSessionStore_LogoutInfersKind(t *testing.T) {
	tests := []struct {
		name       string
		withAdmin  bool
		wantAdmin  int
		wantUser   int
		stillUser  bool
		stillAdmin bool
	}{
		{name: "admin present", withAdmin: true, wantAdmin: 1, wantUser: 0, stillUser: true},
		{name: "user only", withAdmin: false, wantAdmin: 0, wantUser: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &stubAuthAPI{profile: &domain.RegularUser{ID: "u1"}}
			admin := &stubAdminAPI{}
			store := newTestStore(auth, admin)
			store.Bootstrap(context.Background())

			if err := store.Login(context.Background(), "ann@example.com", "secret1"); err != nil {
				t.Fatalf("login: %v", err)
			}
			if tt.withAdmin {
				if err := store.LoginAdmin(context.Background(), "root", "toor"); err != nil {
					t.Fatalf("admin login: %v", err)
				}
			}

			store.Logout(context.Background(), "")

			if got := admin.called("logout"); got != tt.wantAdmin {
				t.Fatalf("admin logout calls = %d, want %d", got, tt.wantAdmin)
			}
			if got := auth.called("logout"); got != tt.wantUser {
				t.Fatalf("user logout calls = %d, want %d", got, tt.wantUser)
			}
			st := store.State()
			if st.HasUser() != tt.stillUser || st.IsAdmin() != tt.stillAdmin {
				t.Fatalf("unexpected state after logout: %+v", st)
			}
		})
	}
}

func TestSessionStore_LogoutClearsLocallyWhenServerFails(t *testing.T) {
	auth := &stubAuthAPI{
		profile:   &domain.RegularUser{ID: "u1"},
		logoutErr: &domain.APIError{StatusCode: http.StatusInternalServerError, Message: "boom"},
	}
	store := newTestStore(auth, &stubAdminAPI{})
	store.Bootstrap(context.Background())

	if err := store.Login(context.Background(), "ann@example.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	store.Logout(context.Background(), domain.KindUser)

	if store.State().HasUser() {
		t.Fatalf("user slot must be cleared even when the server call fails")
	}
}

func TestSessionStore_LogoutUnknownKindIsIgnored(t *testing.T) {
	var buf bytes.Buffer
	auth := &stubAuthAPI{profile: &domain.RegularUser{ID: "u1"}}
	store := NewSessionStore(auth, &stubAdminAPI{}, zerolog.New(&buf))
	store.Bootstrap(context.Background())
	_ = store.Login(context.Background(), "ann@example.com", "secret1")

	store.Logout(context.Background(), domain.IdentityKind("guest"))

	if !store.State().HasUser() || auth.called("logout") != 0 {
		t.Fatalf("unknown kind must not touch any slot")
	}
	if !strings.Contains(buf.String(), domain.ErrInvalidIdentityKind.Error()) {
		t.Fatalf("expected the rejection to be logged, got %q", buf.String())
	}
}

func TestSessionStore_ExplicitUserLogoutKeepsAdmin(t *testing.T) {
	auth := &stubAuthAPI{profile: &domain.RegularUser{ID: "u1"}}
	admin := &stubAdminAPI{}
	store := newTestStore(auth, admin)
	store.Bootstrap(context.Background())

	if err := store.Login(context.Background(), "ann@example.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := store.LoginAdmin(context.Background(), "root", "toor"); err != nil {
		t.Fatalf("admin login: %v", err)
	}

	store.Logout(context.Background(), domain.KindUser)

	st := store.State()
	if st.HasUser() || !st.IsAdmin() {
		t.Fatalf("expected only the user slot cleared, got %+v", st)
	}
	if admin.called("logout") != 0 || auth.called("logout") != 1 {
		t.Fatalf("admin logout calls = %d, user logout calls = %d", admin.called("logout"), auth.called("logout"))
	}
}

func TestSessionStore_AdminLogoutSurvivesNetworkError(t *testing.T) {
	admin := &stubAdminAPI{logoutErr: &domain.APIError{Message: "network error", Cause: errors.New("connection refused")}}
	store := newTestStore(&stubAuthAPI{}, admin)
	store.Bootstrap(context.Background())

	if err := store.LoginAdmin(context.Background(), "root", "toor"); err != nil {
		t.Fatalf("admin login: %v", err)
	}

	store.Logout(context.Background(), domain.KindAdmin)

	if store.State().IsAdmin() {
		t.Fatalf("admin slot must be cleared when the server is unreachable")
	}
	if admin.called("logout") != 1 {
		t.Fatalf("expected one admin logout attempt, got %d", admin.called("logout"))
	}
}

func TestSessionStore_SubscribersSeeWritesInOrder(t *testing.T) {
	auth := &stubAuthAPI{profile: &domain.RegularUser{ID: "u1"}}
	store := newTestStore(auth, &stubAdminAPI{})
	store.Bootstrap(context.Background())

	entered := make(chan struct{})
	release := make(chan struct{})
	var (
		mu    sync.Mutex
		calls int
		last  domain.SessionState
	)
	store.Subscribe(func(st domain.SessionState) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()

		if first {
			close(entered)
			<-release
		}

		mu.Lock()
		last = st
		mu.Unlock()
	})

	loginDone := make(chan error, 1)
	go func() { loginDone <- store.Login(context.Background(), "ann@example.com", "secret1") }()
	<-entered

	logoutDone := make(chan struct{})
	go func() {
		store.Logout(context.Background(), domain.KindUser)
		close(logoutDone)
	}()

	// Let the logout race the listener still holding the login snapshot.
	time.Sleep(20 * time.Millisecond)
	close(release)

	if err := <-loginDone; err != nil {
		t.Fatalf("login: %v", err)
	}
	<-logoutDone

	mu.Lock()
	defer mu.Unlock()
	if store.State().HasUser() {
		t.Fatalf("store should be signed out")
	}
	if last.HasUser() {
		t.Fatalf("listener ended on a stale snapshot: %+v", last)
	}
	if calls != 2 {
		t.Fatalf("expected 2 notifications, got %d", calls)
	}
}

func TestSessionStore_SignupConflictLeavesSlotAbsent(t *testing.T) {
	conflict := &domain.APIError{StatusCode: http.StatusConflict, Message: "User with this email already exists"}
	auth := &stubAuthAPI{signUpErr: conflict, profile: &domain.RegularUser{ID: "u1"}}
	store := newTestStore(auth, &stubAdminAPI{})
	store.Bootstrap(context.Background())

	err := store.Signup(context.Background(), "ann@example.com", "secret1", "Ann")

	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 APIError, got %v", err)
	}
	if store.State().HasUser() {
		t.Fatalf("user slot must stay absent after a failed signup")
	}
	if auth.called("profile") != 0 {
		t.Fatalf("profile must not be fetched after a failed signup")
	}
}

func TestSessionStore_LoginFetchesFullProfile(t *testing.T) {
	auth := &stubAuthAPI{profile: &domain.RegularUser{ID: "u1", Email: "ann@example.com", Description: "collector"}}
	store := newTestStore(auth, &stubAdminAPI{})

	if err := store.Login(context.Background(), "ann@example.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if got := store.State().User; got == nil || got.Description != "collector" {
		t.Fatalf("expected full profile in slot, got %+v", got)
	}
	if auth.called("signin") != 1 || auth.called("profile") != 1 {
		t.Fatalf("expected signin followed by profile, got %v", auth.calls)
	}
}

func TestSessionStore_LoginErrorPropagates(t *testing.T) {
	auth := &stubAuthAPI{signInErr: errUnauthorized}
	store := newTestStore(auth, &stubAdminAPI{})

	err := store.Login(context.Background(), "ann@example.com", "wrong")
	if !domain.IsUnauthorized(err) {
		t.Fatalf("expected 401, got %v", err)
	}
	if store.State().HasUser() {
		t.Fatalf("failed login must not set the slot")
	}
}

func TestSessionStore_UpdateProfileReplacesSlot(t *testing.T) {
	auth := &stubAuthAPI{
		profile: &domain.RegularUser{ID: "u1", Name: "Ann"},
		updateFn: func(in ports.UpdateProfileInput) (*domain.RegularUser, error) {
			return &domain.RegularUser{ID: "u1", Name: *in.Name}, nil
		},
	}
	store := newTestStore(auth, &stubAdminAPI{})
	_ = store.Login(context.Background(), "ann@example.com", "secret1")

	name := "Annie"
	if err := store.UpdateProfile(context.Background(), ports.UpdateProfileInput{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := store.State().User.Name; got != "Annie" {
		t.Fatalf("expected server representation in slot, got %q", got)
	}
}

func TestSessionStore_SubscribersSeeChanges(t *testing.T) {
	store := newTestStore(&stubAuthAPI{}, &stubAdminAPI{})

	var seen []domain.SessionState
	sub := store.Subscribe(func(st domain.SessionState) { seen = append(seen, st) })

	store.Bootstrap(context.Background())
	_ = store.LoginAdmin(context.Background(), "root", "toor")
	sub.Unsubscribe()
	store.Logout(context.Background(), domain.KindAdmin)

	if len(seen) != 2 {
		t.Fatalf("expected 2 notifications before unsubscribe, got %d", len(seen))
	}
	if seen[0].Bootstrapping || seen[0].IsAdmin() {
		t.Fatalf("unexpected first notification: %+v", seen[0])
	}
	if !seen[1].IsAdmin() {
		t.Fatalf("expected admin in second notification: %+v", seen[1])
	}
}

func TestSessionStore_StateIsACopy(t *testing.T) {
	auth := &stubAuthAPI{profile: &domain.RegularUser{ID: "u1", Name: "Ann"}}
	store := newTestStore(auth, &stubAdminAPI{})
	_ = store.Login(context.Background(), "ann@example.com", "secret1")

	st := store.State()
	st.User.Name = "mutated"

	if store.State().User.Name != "Ann" {
		t.Fatalf("callers must not be able to mutate the store")
	}
}
