package auth

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/keyring"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotSignedIn        = errors.New("not signed in")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", constants.MinPasswordLength)
	ErrInvalidEmail       = errors.New("invalid email address")
)

// Listener receives auth state changes. session is nil after sign-out
// or when nobody is signed in.
type Listener func(event constants.AuthEvent, session *models.Session)

// Provider signs users up, in and out against the store and remembers the
// active session token in the OS keyring.
type Provider struct {
	store storage.Provider
	now   func() time.Time

	mu        sync.Mutex
	listeners map[int]Listener
	nextID    int
}

func New(store storage.Provider) *Provider {
	return &Provider{
		store:     store,
		now:       time.Now,
		listeners: make(map[int]Listener),
	}
}

// WithClock replaces the provider's clock; used by tests.
func (p *Provider) WithClock(now func() time.Time) *Provider {
	p.now = now
	return p
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// SignUp creates an account and signs it in.
func (p *Provider) SignUp(email, password string) (models.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return models.Session{}, err
	}
	if len(password) < constants.MinPasswordLength {
		return models.Session{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    p.now(),
	}
	if err := p.store.AddUser(user); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return models.Session{}, ErrEmailTaken
		}
		return models.Session{}, err
	}
	logger.Info("User signed up", "user_id", user.ID)

	return p.startSession(user)
}

// SignIn checks the password and starts a new session.
func (p *Provider) SignIn(email, password string) (models.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return models.Session{}, ErrInvalidCredentials
	}

	user, err := p.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Session{}, ErrInvalidCredentials
		}
		return models.Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.Session{}, ErrInvalidCredentials
	}

	return p.startSession(user)
}

func (p *Provider) startSession(user models.User) (models.Session, error) {
	now := p.now()
	if n, err := p.store.DeleteExpiredSessions(now); err != nil {
		logger.Warn("Failed to prune expired sessions", "error", err)
	} else if n > 0 {
		logger.Debug("Pruned expired sessions", "count", n)
	}

	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(constants.SessionTTL),
	}
	if err := p.store.AddSession(session); err != nil {
		return models.Session{}, err
	}
	if err := keyring.SetSessionToken(session.Token); err != nil {
		_ = p.store.DeleteSession(session.Token)
		return models.Session{}, err
	}

	logger.Info("User signed in", "user_id", user.ID)
	p.emit(constants.AuthSignedIn, &session)
	return session, nil
}

// SignOut ends the current session. Returns ErrNotSignedIn when there is none.
func (p *Provider) SignOut() error {
	token, err := keyring.GetSessionToken()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotSignedIn
		}
		return err
	}

	if err := p.store.DeleteSession(token); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	if err := keyring.DeleteSessionToken(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}

	logger.Info("User signed out")
	p.emit(constants.AuthSignedOut, nil)
	return nil
}

// CurrentSession returns the signed-in session. Stale or expired tokens are
// cleared and reported as ErrNotSignedIn.
func (p *Provider) CurrentSession() (models.Session, error) {
	token, err := keyring.GetSessionToken()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return models.Session{}, ErrNotSignedIn
		}
		return models.Session{}, err
	}

	session, err := p.store.GetSession(token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			_ = keyring.DeleteSessionToken()
			return models.Session{}, ErrNotSignedIn
		}
		return models.Session{}, err
	}

	if session.Expired(p.now()) {
		_ = p.store.DeleteSession(token)
		_ = keyring.DeleteSessionToken()
		return models.Session{}, fmt.Errorf("%w: session expired", ErrNotSignedIn)
	}
	return session, nil
}

// CurrentUser resolves the signed-in user.
func (p *Provider) CurrentUser() (models.User, error) {
	session, err := p.CurrentSession()
	if err != nil {
		return models.User{}, err
	}
	user, err := p.store.GetUser(session.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, ErrNotSignedIn
		}
		return models.User{}, err
	}
	return user, nil
}

// OnAuthStateChange registers fn and immediately reports the current state
// as AuthInitialSession. The returned function unsubscribes.
func (p *Provider) OnAuthStateChange(fn Listener) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	var current *models.Session
	if session, err := p.CurrentSession(); err == nil {
		current = &session
	}
	fn(constants.AuthInitialSession, current)

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Provider) emit(event constants.AuthEvent, session *models.Session) {
	p.mu.Lock()
	listeners := make([]Listener, 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.Unlock()

	for _, l := range listeners {
		var s *models.Session
		if session != nil {
			copied := *session
			s = &copied
		}
		l(event, s)
	}
}
