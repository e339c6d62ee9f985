package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campuskart/config"
	"github.com/oksasatya/campuskart/internal/domain/entity"
	repo "github.com/oksasatya/campuskart/internal/domain/repository"
	"github.com/oksasatya/campuskart/pkg/helpers"
	"github.com/oksasatya/campuskart/pkg/mailer"
	tpl "github.com/oksasatya/campuskart/pkg/mailer/templates"
)

// AuthService owns registration, email verification and login.
type AuthService struct {
	Users  repo.UserRepository
	JWT    *helpers.JWTManager
	Mail   mailer.Notifier
	Cfg    *config.Config
	Logger *logrus.Logger

	now func() time.Time
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, mail mailer.Notifier, cfg *config.Config, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Mail: mail, Cfg: cfg, Logger: logger, now: time.Now}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Profile is the public view of a user.
type Profile struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phoneNumber,omitempty"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      Profile   `json:"user"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) institutional(email string) bool {
	return strings.HasSuffix(email, "@"+s.Cfg.EmailDomain)
}

// Register creates an unverified user and mails the verification link. When the
// mail cannot be dispatched the user still exists and the returned id is valid
// alongside ErrRegisteredUnnotified.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (int64, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !s.institutional(email) {
		return 0, ErrInvalidEmailDomain
	}
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.FirstName == "" || in.LastName == "" || in.Password == "" {
		return 0, ErrMissingFields
	}

	exists, err := s.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return 0, dependency("lookup user", err)
	}
	if exists {
		return 0, ErrEmailTaken
	}

	hash, err := helpers.HashPassword(in.Password, s.Cfg.BcryptCost)
	if err != nil {
		return 0, dependency("hash password", err)
	}
	token, err := helpers.GenVerificationToken()
	if err != nil {
		return 0, dependency("generate token", err)
	}
	expires := s.now().Add(s.Cfg.VerifyTokenTTL)

	u := &entity.User{FirstName: in.FirstName, LastName: in.LastName, Email: email, PasswordHash: hash}
	id, err := s.Users.CreateWithVerification(ctx, u, token, expires)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return 0, ErrEmailTaken
		}
		return 0, dependency("create user", err)
	}

	if err := s.sendVerification(ctx, u, token); err != nil {
		s.log().WithError(err).WithField("user_id", id).Error("verification email dispatch failed")
		return id, &Error{Kind: KindDependency, Message: ErrRegisteredUnnotified.Message, Err: err}
	}
	s.log().WithField("user_id", id).Info("user registered")
	return id, nil
}

func (s *AuthService) sendVerification(ctx context.Context, u *entity.User, token string) error {
	data := tpl.NewVerifyEmailData(s.Cfg, u.FirstName, u.Email, s.Cfg.VerifyURL(token), s.Cfg.VerifyTokenTTL)
	subject, text, html, err := tpl.Render(tpl.VerifyEmail, data)
	if err != nil {
		return err
	}
	return s.Mail.Send(ctx, u.Email, subject, text, html)
}

// Verify consumes a verification token. Unknown, already used and expired tokens all fail alike.
func (s *AuthService) Verify(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return Validation("verification token is required")
	}
	id, err := s.Users.MarkVerified(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidToken
		}
		return dependency("verify user", err)
	}
	s.log().WithField("user_id", id).Info("email verified")
	return nil
}

// ResendVerification issues a fresh token for an unverified account. Unknown or
// already verified addresses succeed silently.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return Validation("email is required")
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil
		}
		return dependency("lookup user", err)
	}
	if u.IsVerified {
		return nil
	}
	token, err := helpers.GenVerificationToken()
	if err != nil {
		return dependency("generate token", err)
	}
	if err := s.Users.SetVerificationToken(ctx, u.ID, token, s.now().Add(s.Cfg.VerifyTokenTTL)); err != nil {
		return dependency("store token", err)
	}
	if err := s.sendVerification(ctx, u, token); err != nil {
		return dependency("send verification email", err)
	}
	return nil
}

// Login checks credentials and issues a session token. Unknown email and wrong
// password are indistinguishable; an unverified account is reported only after
// the password matched.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, dependency("lookup user", err)
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsVerified {
		return nil, ErrEmailNotVerified
	}
	token, exp, err := s.JWT.GenerateSessionToken(u.ID)
	if err != nil {
		return nil, dependency("issue session token", err)
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: exp,
		User:      Profile{ID: u.ID, FirstName: u.FirstName, Email: u.Email},
	}, nil
}

// ResolveSession maps a session token onto a stored user.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.JWT.ParseSessionToken(token)
	if err != nil {
		return nil, &Error{Kind: KindAuthentication, Message: ErrUnauthenticated.Message, Err: err}
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, &Error{Kind: KindAuthentication, Message: ErrUnauthenticated.Message, Err: ErrUserNotFound}
		}
		return nil, dependency("lookup user", err)
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*Profile, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, dependency("lookup user", err)
	}
	return &Profile{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, Phone: u.PhoneNumber}, nil
}

// SweepExpiredTokens clears verification tokens whose window has passed.
func (s *AuthService) SweepExpiredTokens(ctx context.Context) (int64, error) {
	n, err := s.Users.ClearExpiredVerificationTokens(ctx, s.now())
	if err != nil {
		return 0, dependency("clear expired tokens", err)
	}
	return n, nil
}

// RunTokenSweeper clears expired verification tokens every interval until ctx is done.
func (s *AuthService) RunTokenSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	s.log().WithField("every", interval.String()).Debug("verification token sweeper started")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.SweepExpiredTokens(ctx)
			if err != nil {
				s.log().WithError(err).Error("token sweep failed")
				continue
			}
			if n > 0 {
				s.log().WithField("cleared", n).Info("expired verification tokens cleared")
			}
		}
	}
}

func (s *AuthService) log() *logrus.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logrus.StandardLogger()
}
