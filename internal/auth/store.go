package auth

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"stockdesk/internal/models"

	"github.com/google/uuid"
)

// SessionKey is the holder key carrying the session id.
const SessionKey = "sid"

const DefaultTTL = 12 * time.Hour

type EventKind string

const (
	EventLogin    EventKind = "login"
	EventRegister EventKind = "register"
	EventLogout   EventKind = "logout"
)

type Event struct {
	Kind    EventKind
	Session Session
	At      time.Time
}

// Observer is notified after the store changed a client's session.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

type ObserverFunc func(ctx context.Context, ev Event)

func (f ObserverFunc) Observe(ctx context.Context, ev Event) { f(ctx, ev) }

// Store is the single writer of client sessions.
type Store struct {
	idp      IdentityProvider
	registry Registry
	ttl      time.Duration
	roles    RoleSet
	now      func() time.Time

	mu        sync.RWMutex
	observers []Observer
}

type StoreOption func(*Store)

func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithRegistrationRoles limits which roles may be chosen at sign-up.
func WithRegistrationRoles(roles RoleSet) StoreOption {
	return func(s *Store) { s.roles = roles }
}

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func NewStore(idp IdentityProvider, registry Registry, opts ...StoreOption) *Store {
	s := &Store{
		idp:      idp,
		registry: registry,
		ttl:      DefaultTTL,
		roles:    DefaultRegistrationRoles(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) TTL() time.Duration { return s.ttl }

// RegistrationRoles lists the roles offered at sign-up.
func (s *Store) RegistrationRoles() []models.UserRole { return s.roles.Sorted() }

func (s *Store) Subscribe(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

func (s *Store) notify(ctx context.Context, kind EventKind, sess *Session) {
	s.mu.RLock()
	observers := append([]Observer(nil), s.observers...)
	s.mu.RUnlock()

	ev := Event{Kind: kind, Session: *sess, At: s.now()}
	for _, o := range observers {
		o.Observe(ctx, ev)
	}
}

// Login verifies the credentials and replaces the holder's session.
// A rejected login leaves the holder untouched.
func (s *Store) Login(ctx context.Context, h Holder, identifier, secret string) (*Session, error) {
	ident, err := s.idp.Authenticate(ctx, identifier, secret)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return nil, &AuthError{Op: "login", Err: err}
		}
		return nil, err
	}

	sess, err := s.start(ctx, h, ident)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, EventLogin, sess)
	return sess, nil
}

// Register validates and enrolls a new account, then signs it in.
func (s *Store) Register(ctx context.Context, h Holder, reg Registration) (*Session, error) {
	acct, err := reg.Validate(s.roles)
	if err != nil {
		return nil, err
	}

	ident, err := s.idp.Enroll(ctx, acct)
	if err != nil {
		if errors.Is(err, ErrIdentifierTaken) {
			return nil, &AuthError{Op: "register", Err: err}
		}
		return nil, err
	}

	sess, err := s.start(ctx, h, ident)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, EventRegister, sess)
	return sess, nil
}

func (s *Store) start(ctx context.Context, h Holder, ident *Identity) (*Session, error) {
	now := s.now()
	sess := &Session{
		ID:          uuid.NewString(),
		UserID:      ident.UserID,
		Username:    ident.Username,
		DisplayName: ident.DisplayName,
		Role:        ident.Role,
		IssuedAt:    now,
		ExpiresAt:   now.Add(s.ttl),
	}
	if err := s.registry.Put(ctx, sess, s.ttl); err != nil {
		return nil, err
	}

	prev, _ := h.Get(SessionKey).(string)
	h.Set(SessionKey, sess.ID)
	if err := h.Save(); err != nil {
		_ = s.registry.Delete(ctx, sess.ID)
		if prev != "" {
			h.Set(SessionKey, prev)
		} else {
			h.Clear()
		}
		return nil, err
	}

	// the previous session stays valid until the holder points elsewhere
	if prev != "" && prev != sess.ID {
		if err := s.registry.Delete(ctx, prev); err != nil {
			log.Printf("failed to revoke previous session: %v", err)
		}
	}
	return sess, nil
}

// Logout clears the holder's session. It never fails.
func (s *Store) Logout(ctx context.Context, h Holder) {
	var ended *Session
	if sid, ok := h.Get(SessionKey).(string); ok && sid != "" {
		if sess, err := s.registry.Get(ctx, sid); err == nil {
			ended = sess
		}
		if err := s.registry.Delete(ctx, sid); err != nil {
			log.Printf("failed to delete session: %v", err)
		}
	}

	h.Clear()
	if err := h.Save(); err != nil {
		log.Printf("failed to save cleared session: %v", err)
	}

	if ended != nil {
		s.notify(ctx, EventLogout, ended)
	}
}

// Current resolves the holder's session. (nil, nil) means signed out;
// an error means the check could not be completed.
func (s *Store) Current(ctx context.Context, h Holder) (*Session, error) {
	sid, ok := h.Get(SessionKey).(string)
	if !ok || sid == "" {
		return nil, nil
	}

	sess, err := s.registry.Get(ctx, sid)
	if errors.Is(err, ErrSessionNotFound) {
		s.forget(h)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if sess.Expired(s.now()) {
		_ = s.registry.Delete(ctx, sid)
		s.forget(h)
		return nil, nil
	}
	return sess, nil
}

func (s *Store) forget(h Holder) {
	h.Clear()
	if err := h.Save(); err != nil {
		log.Printf("failed to drop stale session: %v", err)
	}
}
