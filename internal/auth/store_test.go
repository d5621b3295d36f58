package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockdesk/internal/models"
)

func newTestStore(t *testing.T) (*Store, *fakeProvider, *MemoryRegistry) {
	t.Helper()
	idp := newFakeProvider()
	reg := NewMemoryRegistry()
	return NewStore(idp, reg, WithTTL(time.Hour)), idp, reg
}

func TestStore_Login_Success_StoresSession(t *testing.T) {
	store, _, reg := newTestStore(t)
	ctx := context.Background()
	h := newMapHolder()

	sess, err := store.Login(ctx, h, "admin", "Admin123!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Role != models.RoleAdmin || sess.Username != "admin" {
		t.Errorf("unexpected session: %+v", sess)
	}
	if got := h.Get(SessionKey); got != sess.ID {
		t.Errorf("holder sid = %v, want %s", got, sess.ID)
	}
	if _, err := reg.Get(ctx, sess.ID); err != nil {
		t.Errorf("session not in registry: %v", err)
	}

	cur, err := store.Current(ctx, h)
	if err != nil || cur == nil || cur.ID != sess.ID {
		t.Errorf("current = %+v, %v", cur, err)
	}
}

func TestStore_Login_BadCredentials_LeavesPriorSession(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	h := newMapHolder()

	prior, err := store.Login(ctx, h, "cash", "Cash123!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = store.Login(ctx, h, "admin", "wrong")
	if !IsAuthError(err) || !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected AuthError wrapping ErrInvalidCredentials, got %v", err)
	}

	cur, err := store.Current(ctx, h)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if cur == nil || cur.ID != prior.ID || cur.Role != models.RoleCashier {
		t.Errorf("prior session changed: %+v", cur)
	}
}

func TestStore_Login_ProviderFailure_IsNotAuthError(t *testing.T) {
	store, idp, _ := newTestStore(t)
	idp.down = true

	_, err := store.Login(context.Background(), newMapHolder(), "admin", "Admin123!")
	if err == nil || IsAuthError(err) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
}

func TestStore_Login_ReplacesAndRevokesPrevious(t *testing.T) {
	store, _, reg := newTestStore(t)
	ctx := context.Background()
	h := newMapHolder()

	first, _ := store.Login(ctx, h, "cash", "Cash123!")
	second, err := store.Login(ctx, h, "admin", "Admin123!")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if _, err := reg.Get(ctx, first.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("previous session still live: %v", err)
	}
	if h.Get(SessionKey) != second.ID {
		t.Errorf("holder not switched to new session")
	}
}

func TestStore_Login_SaveFails_KeepsPriorSession(t *testing.T) {
	store, _, reg := newTestStore(t)
	ctx := context.Background()
	h := newMapHolder()

	prior, err := store.Login(ctx, h, "cash", "Cash123!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	h.saveErr = errors.New("cookie too large")
	if _, err := store.Login(ctx, h, "admin", "Admin123!"); err == nil {
		t.Fatalf("expected save error")
	}
	h.saveErr = nil

	if _, err := reg.Get(ctx, prior.ID); err != nil {
		t.Errorf("prior session revoked: %v", err)
	}
	cur, err := store.Current(ctx, h)
	if err != nil || cur == nil || cur.ID != prior.ID {
		t.Errorf("current = %+v, %v; want prior session", cur, err)
	}
}

func TestStore_Logout_AlwaysClears(t *testing.T) {
	cases := []struct {
		name  string
		setup func(*Store, *mapHolder)
	}{
		{"no session", func(*Store, *mapHolder) {}},
		{"live session", func(s *Store, h *mapHolder) {
			_, _ = s.Login(context.Background(), h, "assist", "Assist123!")
		}},
		{"unknown sid", func(_ *Store, h *mapHolder) { h.Set(SessionKey, "gone") }},
		{"garbage value", func(_ *Store, h *mapHolder) { h.Set(SessionKey, 42) }},
		{"save fails", func(s *Store, h *mapHolder) {
			_, _ = s.Login(context.Background(), h, "admin", "Admin123!")
			h.saveErr = errors.New("cookie too large")
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, _, _ := newTestStore(t)
			ctx := context.Background()
			h := newMapHolder()
			tc.setup(store, h)

			store.Logout(ctx, h)

			if v := h.Get(SessionKey); v != nil {
				t.Errorf("holder still carries %v", v)
			}
			h.saveErr = nil
			cur, err := store.Current(ctx, h)
			if err != nil || cur != nil {
				t.Errorf("current after logout = %+v, %v", cur, err)
			}
		})
	}
}

func TestStore_Logout_RevokesRegistryEntry(t *testing.T) {
	store, _, reg := newTestStore(t)
	ctx := context.Background()
	h := newMapHolder()
	sess, _ := store.Login(ctx, h, "admin", "Admin123!")

	// a second holder with the same id, e.g. a bearer token
	other := NewTokenHolder(sess.ID)
	store.Logout(ctx, h)

	if _, err := reg.Get(ctx, sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("registry entry survived logout: %v", err)
	}
	if cur, _ := store.Current(ctx, other); cur != nil {
		t.Errorf("token holder still resolves: %+v", cur)
	}
}

func TestStore_Register_Success_SignsIn(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	h := newMapHolder()

	sess, err := store.Register(ctx, h, Registration{
		Username:        "newbie",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		FullName:        "New Bie",
		Role:            "cashier",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if sess.Role != models.RoleCashier || sess.DisplayName != "New Bie" {
		t.Errorf("unexpected session: %+v", sess)
	}
	if cur, _ := store.Current(ctx, h); cur == nil || cur.ID != sess.ID {
		t.Errorf("registered user not signed in")
	}
}

func TestStore_Register_Duplicate_IsAuthError(t *testing.T) {
	store, _, _ := newTestStore(t)
	h := newMapHolder()

	_, err := store.Register(context.Background(), h, Registration{
		Username: "cash", Password: "secret1", FullName: "Dup", Role: "cashier",
	})
	if !IsAuthError(err) || !errors.Is(err, ErrIdentifierTaken) {
		t.Fatalf("expected duplicate AuthError, got %v", err)
	}
	if h.Get(SessionKey) != nil {
		t.Errorf("failed registration touched the holder")
	}
}

func TestStore_Register_Malformed_IsValidationError(t *testing.T) {
	store, _, _ := newTestStore(t)

	_, err := store.Register(context.Background(), newMapHolder(), Registration{
		Username: "ab", Password: "123", FullName: "", Role: "admin",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, f := range []string{"username", "password", "full_name", "role"} {
		if _, ok := verr.Fields[f]; !ok {
			t.Errorf("missing field error for %s: %v", f, verr.Fields)
		}
	}
}

func TestStore_Current_Expired_ReturnsNil(t *testing.T) {
	idp := newFakeProvider()
	reg := NewMemoryRegistry()
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	reg.now = clock
	store := NewStore(idp, reg, WithTTL(time.Minute), WithClock(clock))
	ctx := context.Background()
	h := newMapHolder()

	if _, err := store.Login(ctx, h, "admin", "Admin123!"); err != nil {
		t.Fatalf("login: %v", err)
	}
	now = now.Add(2 * time.Minute)

	cur, err := store.Current(ctx, h)
	if err != nil || cur != nil {
		t.Fatalf("expired session resolved: %+v, %v", cur, err)
	}
	if h.Get(SessionKey) != nil {
		t.Errorf("stale sid kept in holder")
	}
}

type failingRegistry struct{ MemoryRegistry }

func (*failingRegistry) Get(context.Context, string) (*Session, error) {
	return nil, errors.New("registry unreachable")
}

func TestStore_Current_RegistryDown_ReturnsError(t *testing.T) {
	store := NewStore(newFakeProvider(), &failingRegistry{})
	h := newMapHolder()
	h.Set(SessionKey, "some-id")

	cur, err := store.Current(context.Background(), h)
	if err == nil || cur != nil {
		t.Fatalf("expected unresolved check, got %+v, %v", cur, err)
	}
	if h.Get(SessionKey) != "some-id" {
		t.Errorf("unresolved check must not drop the session id")
	}
}

func TestStore_Observers_SeeEachTransition(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	h := newMapHolder()

	var kinds []EventKind
	store.Subscribe(ObserverFunc(func(_ context.Context, ev Event) {
		kinds = append(kinds, ev.Kind)
	}))

	_, _ = store.Login(ctx, h, "admin", "wrong")
	_, _ = store.Login(ctx, h, "admin", "Admin123!")
	store.Logout(ctx, h)
	store.Logout(ctx, h)
	_, _ = store.Register(ctx, h, Registration{Username: "fresh", Password: "secret1", FullName: "F", Role: "assistant"})

	want := []EventKind{EventLogin, EventLogout, EventRegister}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, kinds[i], want[i])
		}
	}
}
