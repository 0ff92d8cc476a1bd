package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"devcamper/internal/auth"
	"devcamper/internal/cache"
	"devcamper/internal/mailer"
	"devcamper/internal/models"
	"devcamper/internal/repository"
	"devcamper/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// ResetTokenTTL is how long a forgot-password token stays valid.
const ResetTokenTTL = 10 * time.Minute

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,emailaddr"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=user publisher"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateDetailsInput struct {
	Name  *string `json:"name" validate:"omitnil,required,max=100"`
	Email *string `json:"email" validate:"omitnil,required,emailaddr"`
}

type UpdatePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

// Session is a freshly signed token and the account it belongs to.
type Session struct {
	Token  string
	Claims *auth.Claims
	User   *models.User
}

// AuthService registers accounts, checks credentials and issues tokens.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenIssuer
	mail       mailer.Mailer
	bcryptCost int
	now        func() time.Time
	logger     *slog.Logger
}

// AuthOption configures an AuthService.
type AuthOption func(*AuthService)

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) { s.bcryptCost = cost }
}

// WithClock overrides time.Now for reset-token expiry.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func WithAuthLogger(l *slog.Logger) AuthOption {
	return func(s *AuthService) { s.logger = l }
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenIssuer, mail mailer.Mailer, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:      users,
		tokens:     tokens,
		mail:       mail,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = loggerOrDefault(s.logger)
	return s
}

// HashPassword hashes a plain password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	token, claims, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &Session{Token: token, Claims: claims, User: user}, nil
}

// Register creates a user or publisher account. Admins are only created
// through the users endpoints or the admin command.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validate(in); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}

	hashed, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Role:     in.Role,
		Password: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.session(user)
}

// Login checks an email and password pair.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, models.NewValidationError("Please provide an email and password")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return s.session(user)
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return nil
	}
	if err := cache.Blacklist(ctx, claims.ID, claims.TTL(s.now())); err != nil {
		return models.NewInternalError(fmt.Errorf("blacklist token: %w", err))
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateDetails changes the caller's name and email.
func (s *AuthService) UpdateDetails(ctx context.Context, userID uint, in UpdateDetailsInput) (*models.User, error) {
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		in.Email = &email
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword replaces the caller's password and returns a new token.
func (s *AuthService) UpdatePassword(ctx context.Context, userID uint, in UpdatePasswordInput) (*Session, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)) != nil {
		return nil, models.NewUnauthorizedError("Password is incorrect")
	}

	hashed, err := s.HashPassword(in.NewPassword)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user.Password = hashed
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.session(user)
}

// HashResetToken returns the stored form of a reset token.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newResetToken() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// ForgotPassword stores a hashed reset token and emails the plain token as
// part of resetURL(token). When the email cannot be sent the token is cleared.
func (s *AuthService) ForgotPassword(ctx context.Context, email string, resetURL func(token string) string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return models.NewValidationError("Please add an email")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return &models.AppError{Code: models.CodeNotFound, Message: "There is no user with that email"}
	}

	token, err := newResetToken()
	if err != nil {
		return models.NewInternalError(err)
	}
	hash := HashResetToken(token)
	expire := s.now().Add(ResetTokenTTL)
	user.ResetPasswordToken = &hash
	user.ResetPasswordExpire = &expire
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	msg := mailer.Message{
		To:      user.Email,
		Subject: "Password reset token",
		Text: "You are receiving this email because you (or someone else) has requested the reset of a password. " +
			"Please make a PUT request to: \n\n" + resetURL(token),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "reset email not sent",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("error", err.Error()),
		)
		user.ResetPasswordToken = nil
		user.ResetPasswordExpire = nil
		if uerr := s.users.Update(ctx, user); uerr != nil {
			s.logger.ErrorContext(ctx, "reset token not cleared",
				slog.Uint64("user_id", uint64(user.ID)),
				slog.String("error", uerr.Error()),
			)
		}
		return &models.AppError{Code: models.CodeInternal, Message: "Email could not be sent", Err: err}
	}
	return nil
}

// ResetPassword sets a new password for the holder of an unexpired reset token.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) (*Session, error) {
	if err := validation.ValidatePassword(password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	user, err := s.users.GetByResetToken(ctx, HashResetToken(token), s.now())
	if err != nil {
		return nil, err
	}

	hashed, err := s.HashPassword(password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user.Password = hashed
	user.ResetPasswordToken = nil
	user.ResetPasswordExpire = nil
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.session(user)
}
