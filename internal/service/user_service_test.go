package service

import (
	"context"
	"testing"

	"devcamper/internal/events"
	"devcamper/internal/models"
	"devcamper/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserAdministration(t *testing.T) {
	t.Parallel()
	authSvc, users := newAuthService(t, &capturingMailer{})
	svc := NewUserService(users, authSvc, nil)
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, CreateUserInput{Name: "Kevin", Email: "kevin@example.com", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("123456")))

	_, err = svc.CreateUser(ctx, CreateUserInput{Name: "Bad", Email: "bad@example.com", Password: "123456", Role: "owner"})
	assert.True(t, models.IsCode(err, models.CodeValidation))

	updated, err := svc.UpdateUser(ctx, u.ID, UpdateUserInput{Role: ptr(models.RolePublisher), Password: ptr("654321")})
	require.NoError(t, err)
	assert.Equal(t, models.RolePublisher, updated.Role)
	_, err = authSvc.Login(ctx, LoginInput{Email: "kevin@example.com", Password: "654321"})
	require.NoError(t, err)

	admin, err := svc.SetRole(ctx, u.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	admins, err := svc.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, u.ID, admins[0].ID)

	_, err = svc.SetRole(ctx, u.ID, "root")
	assert.True(t, models.IsCode(err, models.CodeValidation))
	_, err = svc.SetRole(ctx, 999, models.RoleUser)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	list, total, err := svc.ListUsers(ctx, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteUser(ctx, Actor{UserID: 99, Role: models.RoleAdmin}, u.ID))
	_, err = svc.GetUserByID(ctx, u.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestDeleteUserRemovesOwnedBootcamps(t *testing.T) {
	t.Parallel()
	env := newTestEnvWithDB(t, testutil.NewSQLiteDBWithForeignKeys(t))
	ctx := context.Background()
	admin := env.user(t, "admin@example.com", models.RoleAdmin)
	pub := env.user(t, "pub@example.com", models.RolePublisher)
	reviewer := env.user(t, "r@example.com", models.RoleUser)

	b := env.bootcamp(t, pub, "Owned Bootcamp")
	_, err := env.courseSvc.CreateCourse(ctx, pub, b.ID, CreateCourseInput{
		Title: "Go", Description: "d", Weeks: "6", Tuition: ptr(1000.0), MinimumSkill: models.SkillBeginner,
	})
	require.NoError(t, err)
	_, err = env.reviewSvc.CreateReview(ctx, reviewer, b.ID, CreateReviewInput{Title: "t", Text: "x", Rating: 8})
	require.NoError(t, err)
	require.NoError(t, env.bootcamps.UpdatePhoto(ctx, b.ID, PhotoName(b.ID)))

	svc := NewUserService(env.users, nil, env.bootcampSvc)
	require.NoError(t, svc.DeleteUser(ctx, admin, pub.UserID))

	_, err = env.users.GetByID(ctx, pub.UserID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	_, err = env.bootcamps.GetByID(ctx, b.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	var courses, reviews int64
	require.NoError(t, env.db.Model(&models.Course{}).Count(&courses).Error)
	require.NoError(t, env.db.Model(&models.Review{}).Count(&reviews).Error)
	assert.Zero(t, courses)
	assert.Zero(t, reviews)

	assert.Contains(t, env.photos.Deleted, PhotoName(b.ID))
	assert.Contains(t, env.events.Types(), events.BootcampDeleted)

	assert.True(t, models.IsCode(svc.DeleteUser(ctx, admin, pub.UserID), models.CodeNotFound))
}

func TestDeleteUserWithoutRemoverRejectsBootcampOwner(t *testing.T) {
	t.Parallel()
	env := newTestEnvWithDB(t, testutil.NewSQLiteDBWithForeignKeys(t))
	ctx := context.Background()
	admin := env.user(t, "admin@example.com", models.RoleAdmin)
	pub := env.user(t, "pub@example.com", models.RolePublisher)
	b := env.bootcamp(t, pub, "Still Owned")

	svc := NewUserService(env.users, nil, nil)
	err := svc.DeleteUser(ctx, admin, pub.UserID)
	assert.True(t, models.IsCode(err, models.CodeValidation))

	_, err = env.bootcamps.GetByID(ctx, b.ID)
	require.NoError(t, err)
	_, err = env.users.GetByID(ctx, pub.UserID)
	require.NoError(t, err)
}
