package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Daffa964/api-edutrash/internal/config"
	"github.com/Daffa964/api-edutrash/internal/domain"
	"github.com/Daffa964/api-edutrash/internal/jwt"
	pw "github.com/Daffa964/api-edutrash/internal/password"
	"github.com/Daffa964/api-edutrash/internal/repository"
)

const (
	maxUsernameLength = 64
	maxPasswordBytes  = 72
	maxEmailLength    = 254
)

// AuthService encapsulates registration and login.
type AuthService struct {
	users     repository.UserRepository
	hasher    *pw.Hasher
	tokens    *jwt.Issuer
	snowflake *snowflake.Node
	minPwLen  int
	logger    *zap.Logger
	tracer    trace.Tracer

	decoyOnce sync.Once
	decoy     string
}

// NewAuthService wires dependencies.
func NewAuthService(users repository.UserRepository, hasher *pw.Hasher, tokens *jwt.Issuer, snowflake *snowflake.Node, cfg config.Config, logger *zap.Logger) *AuthService {
	minPwLen := cfg.PasswordMinLength
	if minPwLen < 1 {
		minPwLen = 1
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		snowflake: snowflake,
		minPwLen:  minPwLen,
		logger:    logger,
		tracer:    otel.Tracer("github.com/Daffa964/api-edutrash/internal/service"),
	}
}

// WithTracer replaces the tracer used for service spans. A nil tracer is ignored.
func (s *AuthService) WithTracer(tracer trace.Tracer) *AuthService {
	if tracer != nil {
		s.tracer = tracer
	}
	return s
}

// Register creates an account. The email must not already be registered.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (UserView, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Register")
	defer span.End()

	username = strings.TrimSpace(username)
	normalized := normalizeEmail(email)
	if err := s.validateRegistration(username, normalized, password); err != nil {
		return UserView{}, err
	}

	if _, err := s.users.GetByEmail(ctx, normalized); err == nil {
		s.audit("register.duplicate_email", "email", normalized)
		return UserView{}, ErrDuplicateEmail
	} else if !errors.Is(err, pgx.ErrNoRows) {
		span.RecordError(err)
		return UserView{}, fmt.Errorf("check existing user: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		span.RecordError(err)
		return UserView{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, domain.User{
		ID:           s.snowflake.Generate().Int64(),
		Username:     username,
		Email:        normalized,
		PasswordHash: hashed,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			s.audit("register.duplicate_email", "email", normalized)
			return UserView{}, ErrDuplicateEmail
		}
		span.RecordError(err)
		return UserView{}, fmt.Errorf("create user: %w", err)
	}

	s.audit("register.success", "user_id", created.ID)
	return newUserView(created), nil
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	ctx, span := s.startSpan(ctx, "AuthService.Login")
	defer span.End()

	normalized := normalizeEmail(email)
	if normalized == "" || password == "" {
		return LoginResult{}, newValidationError("Email dan password wajib diisi.")
	}

	user, err := s.users.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.compareDecoy(password)
			s.audit("login.failure", "reason", "unknown_email")
			return LoginResult{}, ErrInvalidCredentials
		}
		span.RecordError(err)
		return LoginResult{}, fmt.Errorf("load user: %w", err)
	}

	valid, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		span.RecordError(err)
		return LoginResult{}, fmt.Errorf("verify password for user %d: %w", user.ID, err)
	}
	if !valid {
		s.audit("login.failure", "reason", "wrong_password", "user_id", user.ID)
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		span.RecordError(err)
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.audit("login.success", "user_id", user.ID)
	return LoginResult{Username: user.Username, Email: user.Email, Token: token}, nil
}

// GetUser loads a user from the store.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (UserView, error) {
	ctx, span := s.startSpan(ctx, "AuthService.GetUser")
	defer span.End()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserView{}, ErrUserNotFound
		}
		span.RecordError(err)
		return UserView{}, fmt.Errorf("load user: %w", err)
	}
	return newUserView(user), nil
}

// ValidateToken verifies a bearer token and returns its claims.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	_, span := s.startSpan(ctx, "AuthService.ValidateToken")
	defer span.End()

	claims, err := s.tokens.Verify(token)
	if err != nil {
		span.RecordError(err)
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *AuthService) validateRegistration(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return newValidationError("Username, email, dan password wajib diisi.")
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return newValidationError(fmt.Sprintf("Username maksimal %d karakter.", maxUsernameLength))
	}
	if len(email) > maxEmailLength {
		return newValidationError("Format email tidak valid.")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return newValidationError("Format email tidak valid.")
	}
	if utf8.RuneCountInString(password) < s.minPwLen {
		return newValidationError(fmt.Sprintf("Password minimal %d karakter.", s.minPwLen))
	}
	if len(password) > maxPasswordBytes {
		return newValidationError(fmt.Sprintf("Password maksimal %d byte.", maxPasswordBytes))
	}
	return nil
}

// compareDecoy spends the same hashing work as a real comparison so unknown
// emails are not distinguishable by response time.
func (s *AuthService) compareDecoy(password string) {
	s.decoyOnce.Do(func() {
		hash, err := s.hasher.Hash("decoy-password-for-unknown-accounts")
		if err == nil {
			s.decoy = hash
		}
	})
	if s.decoy != "" {
		_, _ = s.hasher.Verify(password, s.decoy)
	}
}

func (s *AuthService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

func (s *AuthService) audit(event string, attrs ...any) {
	logger := s.log()
	if logger == nil {
		return
	}
	fields := make([]zap.Field, 0, len(attrs)/2+2)
	fields = append(fields, zap.String("event", event), zap.Time("timestamp", time.Now().UTC()))
	for i := 0; i+1 < len(attrs); i += 2 {
		key, ok := attrs[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, attrs[i+1]))
	}
	logger.Info("audit", fields...)
}

func (s *AuthService) log() *zap.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return zap.L()
}

func newUserView(user domain.User) UserView {
	return UserView{ID: user.ID, Username: user.Username, Email: user.Email}
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
