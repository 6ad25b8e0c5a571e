package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vitornegrao/minha-landing-page/pkg/logging"
)

// DefaultSessionTTL is used when Config.TTL is zero.
const DefaultSessionTTL = 12 * time.Hour

// Config configures session issuance.
type Config struct {
	Secret string
	TTL    time.Duration
}

// Claims are the JWT claims of an admin session token. The token ID (jti)
// is the session ID.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Service is the admin session handle: it issues sessions on login,
// validates them per request and invalidates them on logout or expiry.
type Service struct {
	users    UserStore
	sessions SessionStore
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	logger   *logging.Logger
}

// NewService creates a session service. An empty secret disables login.
func NewService(users UserStore, sessions SessionStore, cfg Config, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Service{
		users:    users,
		sessions: sessions,
		secret:   []byte(cfg.Secret),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// TTL returns the session lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// Login checks credentials and issues a session for an admin user.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	if err := ValidateCredentials(email, password); err != nil {
		return nil, err
	}
	if len(s.secret) == 0 {
		return nil, fmt.Errorf("auth: session secret not configured")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.logger.Warn("admin login for unknown email", "email", NormalizeEmail(email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		s.logger.Warn("admin login with wrong password", "email", user.Email)
		return nil, ErrInvalidCredentials
	}
	if !user.IsAdmin() {
		s.logger.Warn("admin login without admin role", "email", user.Email, "role", user.Role)
		return nil, ErrForbidden
	}

	now := s.now().UTC().Truncate(time.Second)
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	token, err := s.sign(sess)
	if err != nil {
		return nil, err
	}
	sess.Token = token

	if err := s.sessions.Save(ctx, *sess); err != nil {
		return nil, err
	}
	s.logger.Info("admin session issued", "email", sess.Email, "session_id", sess.ID)
	return sess, nil
}

// Validate returns the live session behind token.
func (s *Service) Validate(ctx context.Context, token string) (*Session, error) {
	if token == "" || len(s.secret) == 0 {
		return nil, ErrSessionNotFound
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrSessionNotFound
	}
	if !parsed.Valid || claims.ID == "" {
		return nil, ErrSessionNotFound
	}
	if claims.Role != RoleAdmin {
		return nil, ErrForbidden
	}

	live, err := s.sessions.Exists(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !live {
		return nil, ErrSessionNotFound
	}

	sess := &Session{
		ID:        claims.ID,
		UserID:    claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
		Token:     token,
	}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}
	return sess, nil
}

// Logout revokes the session behind token. Unknown or expired tokens are
// not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	sess, err := s.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrForbidden) {
			return nil
		}
		return err
	}
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return err
	}
	s.logger.Info("admin session revoked", "email", sess.Email, "session_id", sess.ID)
	return nil
}

// CreateAdmin stores a new admin account with a hashed password.
func (s *Service) CreateAdmin(ctx context.Context, email, password string) (*User, error) {
	if err := ValidateCredentials(email, password); err != nil {
		return nil, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &User{Email: NormalizeEmail(email), PasswordHash: hash, Role: RoleAdmin}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) sign(sess *Session) (string, error) {
	claims := Claims{
		Email: sess.Email,
		Role:  sess.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   sess.UserID,
			IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign session: %w", err)
	}
	return signed, nil
}
