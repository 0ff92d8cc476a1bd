package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"devcamper/internal/auth"
	"devcamper/internal/mailer"
	"devcamper/internal/models"
	"devcamper/internal/repository"
	"devcamper/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type capturingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *capturingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newAuthService(t *testing.T, mail mailer.Mailer, opts ...AuthOption) (*AuthService, repository.UserRepository) {
	t.Helper()
	users := repository.NewUserRepository(testutil.NewSQLiteDB(t))
	tokens := auth.NewTokenIssuer("test-secret-that-is-long-enough-123456", time.Hour)
	opts = append([]AuthOption{WithBcryptCost(bcrypt.MinCost)}, opts...)
	return NewAuthService(users, tokens, mail, opts...), users
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthService(t, &capturingMailer{})
	ctx := context.Background()

	sess, err := svc.Register(ctx, RegisterInput{Name: "John Doe", Email: "John@Example.com ", Password: "123456", Role: models.RolePublisher})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "john@example.com", sess.User.Email)
	assert.Equal(t, models.RolePublisher, sess.Claims.Role)
	assert.NotEqual(t, "123456", sess.User.Password)

	_, err = svc.Register(ctx, RegisterInput{Name: "Copy", Email: "john@example.com", Password: "123456"})
	assert.True(t, models.IsCode(err, models.CodeDuplicate), "got %v", err)

	_, err = svc.Register(ctx, RegisterInput{Name: "Root", Email: "root@example.com", Password: "123456", Role: models.RoleAdmin})
	assert.True(t, models.IsCode(err, models.CodeValidation), "got %v", err)

	login, err := svc.Login(ctx, LoginInput{Email: "john@example.com", Password: "123456"})
	require.NoError(t, err)
	id, err := login.Claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, id)

	_, err = svc.Login(ctx, LoginInput{Email: "john@example.com", Password: "wrong1"})
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))
	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "123456"})
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))

	_, err = svc.Login(ctx, LoginInput{Email: "john@example.com"})
	require.Error(t, err)
	assert.Equal(t, "Please provide an email and password", err.Error())
}

func TestRegisterDefaultsToUserRole(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthService(t, &capturingMailer{})

	sess, err := svc.Register(context.Background(), RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, sess.User.Role)
}

func TestUpdateDetailsAndPassword(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthService(t, &capturingMailer{})
	ctx := context.Background()
	sess, err := svc.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	u, err := svc.UpdateDetails(ctx, sess.User.ID, UpdateDetailsInput{Name: ptr("Jane Smith")})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", u.Name)
	assert.Equal(t, "jane@example.com", u.Email)

	_, err = svc.UpdatePassword(ctx, sess.User.ID, UpdatePasswordInput{CurrentPassword: "nope", NewPassword: "secret2"})
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeUnauthorized))
	assert.Equal(t, "Password is incorrect", err.Error())

	next, err := svc.UpdatePassword(ctx, sess.User.ID, UpdatePasswordInput{CurrentPassword: "secret1", NewPassword: "secret2"})
	require.NoError(t, err)
	assert.NotEmpty(t, next.Token)

	_, err = svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "secret2"})
	require.NoError(t, err)
}

func TestForgotAndResetPassword(t *testing.T) {
	t.Parallel()
	mail := &capturingMailer{}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	svc, users := newAuthService(t, mail, WithClock(clock))
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	err = svc.ForgotPassword(ctx, "missing@example.com", func(string) string { return "" })
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	assert.Equal(t, "There is no user with that email", err.Error())

	var plain string
	require.NoError(t, svc.ForgotPassword(ctx, "jane@example.com", func(token string) string {
		plain = token
		return "http://localhost:5000/api/v1/auth/resetpassword/" + token
	}))
	require.Len(t, mail.sent, 1)
	assert.Len(t, plain, 40)
	assert.True(t, strings.HasSuffix(mail.sent[0].Text, plain))

	stored, err := users.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.ResetPasswordToken)
	assert.Equal(t, HashResetToken(plain), *stored.ResetPasswordToken)

	_, err = svc.ResetPassword(ctx, "not-the-token", "newpass1")
	assert.True(t, models.IsCode(err, models.CodeValidation))

	sess, err := svc.ResetPassword(ctx, plain, "newpass1")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)

	cleared, err := users.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Nil(t, cleared.ResetPasswordToken)
	assert.Nil(t, cleared.ResetPasswordExpire)

	_, err = svc.ResetPassword(ctx, plain, "another1")
	assert.Error(t, err, "a reset token works once")
}

func TestResetTokenExpires(t *testing.T) {
	t.Parallel()
	mail := &capturingMailer{}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	svc, _ := newAuthService(t, mail, WithClock(clock))
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	var plain string
	require.NoError(t, svc.ForgotPassword(ctx, "jane@example.com", func(token string) string {
		plain = token
		return token
	}))

	mu.Lock()
	now = now.Add(ResetTokenTTL + time.Second)
	mu.Unlock()

	_, err = svc.ResetPassword(ctx, plain, "newpass1")
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestForgotPasswordClearsTokenWhenEmailFails(t *testing.T) {
	t.Parallel()
	mail := &capturingMailer{err: errors.New("smtp down")}
	svc, users := newAuthService(t, mail)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	err = svc.ForgotPassword(ctx, "jane@example.com", func(token string) string { return token })
	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeInternal))
	assert.Contains(t, err.Error(), "Email could not be sent")

	u, err := users.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Nil(t, u.ResetPasswordToken)
	assert.Nil(t, u.ResetPasswordExpire)
}

func TestLogoutWithoutRedisIsNoop(t *testing.T) {
	t.Parallel()
	svc, _ := newAuthService(t, &capturingMailer{})
	sess, err := svc.Register(context.Background(), RegisterInput{Name: "Jane", Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)

	assert.NoError(t, svc.Logout(context.Background(), sess.Claims))
	assert.NoError(t, svc.Logout(context.Background(), nil))
}
