package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/meninadelaco/storefront/internal/catalog"
)

type account struct {
	user catalog.User
	hash []byte
}

// Mock is the stand-in authentication service: a fixed set of seeded
// accounts, bcrypt password checks, and signed JWT session tokens. The
// signed-in user is mirrored into the SessionCache so a restart does
// not drop the session.
type Mock struct {
	secret  []byte
	ttl     time.Duration
	cache   SessionCache
	latency time.Duration
	now     func() time.Time

	mu       sync.Mutex
	accounts map[string]account
	revoked  map[string]struct{} // jti
}

type MockOption func(*Mock)

func WithLatency(d time.Duration) MockOption {
	return func(m *Mock) { m.latency = d }
}

func WithClock(now func() time.Time) MockOption {
	return func(m *Mock) { m.now = now }
}

func NewMock(secret string, ttl time.Duration, cache SessionCache, opts ...MockOption) *Mock {
	m := &Mock{
		secret:   []byte(secret),
		ttl:      ttl,
		cache:    cache,
		now:      time.Now,
		accounts: make(map[string]account),
		revoked:  make(map[string]struct{}),
	}
	if m.cache == nil {
		m.cache = NewMemoryCache()
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Register seeds an account. The password is hashed immediately; the
// plaintext is not retained.
func (m *Mock) Register(u catalog.User, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	m.mu.Lock()
	m.accounts[strings.ToLower(u.Email)] = account{user: u, hash: hash}
	m.mu.Unlock()
	return nil
}

type sessionClaims struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

func (m *Mock) SignIn(ctx context.Context, email, password string) (Session, error) {
	if err := m.wait(ctx); err != nil {
		return Session{}, err
	}
	m.mu.Lock()
	acc, ok := m.accounts[strings.ToLower(email)]
	m.mu.Unlock()
	if !ok {
		return Session{}, authErr("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return Session{}, authErr("invalid credentials")
	}

	now := m.now().UTC()
	exp := now.Add(m.ttl)
	claims := sessionClaims{
		Email:   acc.user.Email,
		IsAdmin: acc.user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   acc.user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Session{}, err
	}

	_ = m.cache.Save(ctx, acc.user)
	return Session{Token: token, User: acc.user, ExpiresAt: exp}, nil
}

func (m *Mock) SignOut(ctx context.Context, token string) error {
	if claims, err := m.parse(token); err == nil {
		m.mu.Lock()
		m.revoked[claims.ID] = struct{}{}
		m.mu.Unlock()
	}
	return m.cache.Clear(ctx)
}

func (m *Mock) CurrentUser(ctx context.Context, token string) (*catalog.User, error) {
	if token == "" {
		// Restart path: only the cached mock session survives.
		return m.cache.Load(ctx)
	}
	claims, err := m.parse(token)
	if err != nil {
		return nil, authErr("invalid session token")
	}
	m.mu.Lock()
	_, revoked := m.revoked[claims.ID]
	m.mu.Unlock()
	if revoked {
		return nil, nil
	}
	return &catalog.User{ID: claims.Subject, Email: claims.Email, IsAdmin: claims.IsAdmin}, nil
}

func (m *Mock) GetSession(ctx context.Context, token string) (*Session, error) {
	u, err := m.CurrentUser(ctx, token)
	if err != nil || u == nil {
		return nil, err
	}
	claims, err := m.parse(token)
	if err != nil {
		return nil, authErr("invalid session token")
	}
	return &Session{Token: token, User: *u, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (m *Mock) parse(token string) (*sessionClaims, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, authErr("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}
	return &claims, nil
}

func (m *Mock) wait(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(m.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MemoryCache is the in-process SessionCache used when no redis is
// configured.
type MemoryCache struct {
	mu   sync.Mutex
	user *catalog.User
}

func NewMemoryCache() *MemoryCache { return &MemoryCache{} }

func (c *MemoryCache) Save(ctx context.Context, u catalog.User) error {
	c.mu.Lock()
	c.user = &u
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Load(ctx context.Context) (*catalog.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil, nil
	}
	u := *c.user
	return &u, nil
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.user = nil
	c.mu.Unlock()
	return nil
}
