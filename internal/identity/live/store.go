// Package live implements the session store against the configured
// backend: gorm for accounts and sessions, an optional Redis write-through
// cache for session lookups, and the document store's users collection
// for the profile record consumed by the view layer.
package live

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cadetops/corpshq/internal/docstore"
	"github.com/cadetops/corpshq/internal/identity/domain"
	"github.com/cadetops/corpshq/pkg/db"
	"github.com/cadetops/corpshq/pkg/stream"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	sessionTokenBytes = 32
	sessionTTL        = 7 * 24 * time.Hour
	sessionKeyPrefix  = "session:"

	minPasswordLength = 6
)

type Store struct {
	log   *zap.Logger
	db    *gorm.DB
	cache *redis.Client
	docs  docstore.Store
	genID *snowflake.Node

	mu           sync.Mutex
	current      *domain.Identity
	currentToken string
	bc           *stream.Broadcaster[*domain.Identity]
}

func New(log *zap.Logger, conn *gorm.DB, cache *redis.Client, docs docstore.Store, genID *snowflake.Node) *Store {
	return &Store{
		log:   log.Named("identity.live"),
		db:    conn,
		cache: cache,
		docs:  docs,
		genID: genID,
		bc:    stream.New[*domain.Identity](),
	}
}

// Migrate creates the identity tables. Live Postgres deployments run the
// SQL migrations instead; this path serves sqlite-backed tests.
func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(&User{}, &Session{})
}

func (s *Store) SignInWithPassword(ctx context.Context, email, password string) (*domain.Identity, error) {
	if s.db == nil {
		return nil, domain.ErrBackendUnavailable
	}

	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, domain.ErrInvalidCredential
	}

	var user User
	err = s.db.WithContext(ctx).Where("email = ?", normalized).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredential
		}
		return nil, err
	}

	if user.PasswordHash == nil || !verifyPassword(password, *user.PasswordHash) {
		return nil, domain.ErrInvalidCredential
	}

	return s.establishSession(ctx, &user)
}

func (s *Store) SignUpWithPassword(ctx context.Context, email, password, displayName string) (*domain.Identity, error) {
	if s.db == nil {
		return nil, domain.ErrBackendUnavailable
	}

	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, domain.ErrInvalidCredential
	}
	if len(password) < minPasswordLength {
		return nil, domain.ErrInvalidCredential
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(displayName)
	if name == "" {
		name = domain.DisplayNameFromEmail(normalized)
	}

	now := time.Now().UTC()
	user := User{
		ID:           s.genID.Generate(),
		Email:        normalized,
		PasswordHash: &hashed,
		DisplayName:  name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	// No pre-check: the unique email index is the arbiter, so two
	// concurrent sign-ups for the same address cannot both win.
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrUserExists
		}
		return nil, err
	}

	return s.establishSession(ctx, &user)
}

// SignInWithProvider requires the federated popup flow owned by the
// external identity service; this deployment has no such client, so the
// backend error bubbles up unchanged in spirit.
func (s *Store) SignInWithProvider(ctx context.Context, provider domain.Provider) (*domain.Identity, error) {
	_ = ctx
	return nil, fmt.Errorf("federated sign-in with %s: %w", provider, domain.ErrBackendUnavailable)
}

func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	token := s.currentToken
	s.mu.Unlock()

	if token == "" {
		return nil
	}

	hash := hashToken(token)
	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Model(&Session{}).
		Where("token_hash = ?", hash).
		Update("revoked_at", now).Error
	if err != nil {
		return err
	}
	s.cacheDelete(ctx, hash)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.currentToken = ""
	s.bc.Publish(nil)
	return nil
}

// RequestPasswordReset acknowledges the request; delivering the email is
// the identity backend's job and no mail channel is configured here.
func (s *Store) RequestPasswordReset(ctx context.Context, email string) error {
	_ = ctx
	s.log.Info("password reset requested", zap.String("email", email))
	return nil
}

func (s *Store) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInvalidSession
	}

	hash := hashToken(token)
	session, err := s.lookupSession(ctx, hash)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	err = s.db.WithContext(ctx).Model(&Session{}).
		Where("id = ?", session.ID).
		Update("last_seen_at", now).Error
	if err != nil {
		return nil, err
	}

	var user User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", session.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, err
	}
	return identityOf(&user), nil
}

func (s *Store) SessionToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentToken
}

func (s *Store) Subscribe() *stream.Subscription[*domain.Identity] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bc.Subscribe(s.current)
}

func (s *Store) establishSession(ctx context.Context, user *User) (*domain.Identity, error) {
	rawToken, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := Session{
		ID:         s.genID.Generate(),
		UserID:     user.ID,
		TokenHash:  hashToken(rawToken),
		ExpiresAt:  now.Add(sessionTTL),
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, err
	}
	s.cacheSet(ctx, &session)

	identity := identityOf(user)
	s.upsertUserDoc(ctx, identity)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = identity
	s.currentToken = rawToken
	s.bc.Publish(identity)

	snapshot := *identity
	return &snapshot, nil
}

// upsertUserDoc keeps the users collection record in step with the
// identity: created when absent, display name and photo merged otherwise,
// update timestamp always refreshed. Failures are logged, not fatal.
func (s *Store) upsertUserDoc(ctx context.Context, identity *domain.Identity) {
	err := s.docs.Set(ctx, domain.UsersCollection, identity.ID, docstore.Fields{
		"email":       identity.Email,
		"displayName": identity.DisplayName,
		"photoURL":    identity.PhotoURL,
	})
	if err != nil {
		s.log.Warn("failed to upsert user record", zap.String("user_id", identity.ID), zap.Error(err))
	}
}

func (s *Store) lookupSession(ctx context.Context, hash string) (*Session, error) {
	if cached := s.cacheGet(ctx, hash); cached != nil {
		return cached, nil
	}

	var session Session
	err := s.db.WithContext(ctx).Where("token_hash = ?", hash).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, err
	}
	return &session, nil
}

func (s *Store) cacheSet(ctx context.Context, session *Session) {
	if s.cache == nil {
		return
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, sessionKeyPrefix+session.TokenHash, raw, ttl).Err(); err != nil {
		s.log.Warn("session cache write failed", zap.Error(err))
	}
}

func (s *Store) cacheGet(ctx context.Context, hash string) *Session {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, sessionKeyPrefix+hash).Result()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("session cache read failed", zap.Error(err))
		}
		return nil
	}
	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil
	}
	return &session
}

func (s *Store) cacheDelete(ctx context.Context, hash string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, sessionKeyPrefix+hash).Err(); err != nil {
		s.log.Warn("session cache delete failed", zap.Error(err))
	}
}

func identityOf(user *User) *domain.Identity {
	return &domain.Identity{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		CreatedAt:   user.CreatedAt.UTC(),
		UpdatedAt:   user.UpdatedAt.UTC(),
	}
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
