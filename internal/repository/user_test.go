package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"devcamper/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name          string
		userID        uint
		mockBehavior  func()
		expectedEmail string
		expectedCode  string
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "name", "email", "role"}).
					AddRow(1, "Jane", "jane@example.com", models.RolePublisher)
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			expectedEmail: "jane@example.com",
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedCode: models.CodeNotFound,
		},
		{
			name:   "Database Error",
			userID: 2,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
					WithArgs(2, 1).
					WillReturnError(errors.New("connection timeout"))
			},
			expectedCode: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.expectedCode != "" {
				assert.True(t, models.IsCode(err, tt.expectedCode), "got %v", err)
				assert.Nil(t, user)
			} else if assert.NoError(t, err) {
				assert.Equal(t, tt.expectedEmail, user.Email)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail_Missing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs("nobody@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateDuplicateEmail(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Name: "A", Email: "a@example.com", Role: models.RoleUser, Password: "x"}))
	err := repo.Create(ctx, &models.User{Name: "B", Email: "a@example.com", Role: models.RoleUser, Password: "y"})
	assert.True(t, models.IsCode(err, models.CodeDuplicate), "got %v", err)
}

func TestUserRepository_GetByResetToken(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	token := "abc123"
	expire := now.Add(10 * time.Minute)
	u := &models.User{Name: "R", Email: "r@example.com", Role: models.RoleUser, Password: "x",
		ResetPasswordToken: &token, ResetPasswordExpire: &expire}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByResetToken(ctx, token, now)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.GetByResetToken(ctx, token, now.Add(11*time.Minute))
	assert.True(t, models.IsCode(err, models.CodeValidation))

	_, err = repo.GetByResetToken(ctx, "other", now)
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestUserRepository_RoleAndList(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	a := seedUser(t, db, "a@example.com", models.RoleUser)
	seedUser(t, db, "b@example.com", models.RolePublisher)

	require.NoError(t, repo.UpdateRole(ctx, a.ID, models.RoleAdmin))
	admins, err := repo.ListByRole(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, a.ID, admins[0].ID)

	err = repo.UpdateRole(ctx, 999, models.RoleAdmin)
	assert.True(t, models.IsCode(err, models.CodeNotFound))

	users, total, err := repo.List(ctx, Page{Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 1)

	require.NoError(t, repo.Delete(ctx, a.ID))
	assert.True(t, models.IsCode(repo.Delete(ctx, a.ID), models.CodeNotFound))
}
