package repository

import (
	"testing"

	"devcamper/internal/models"
	"devcamper/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

func setupSQLiteDB(t *testing.T) *gorm.DB {
	return testutil.NewSQLiteDB(t)
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	u := &models.User{Name: "Test " + role, Email: email, Role: role, Password: "hashed"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedBootcamp(t *testing.T, db *gorm.DB, name string, userID uint, lat, lng float64) *models.Bootcamp {
	b := &models.Bootcamp{
		Name:        name,
		Slug:        name,
		Description: "A bootcamp",
		Careers:     []string{models.CareerWebDevelopment},
		Location:    models.Location{Lat: lat, Lng: lng, Zipcode: "02118"},
		UserID:      userID,
		Photo:       models.DefaultPhoto,
	}
	require.NoError(t, db.Create(b).Error)
	return b
}

func seedCourse(t *testing.T, db *gorm.DB, bootcampID, userID uint, tuition float64) *models.Course {
	c := &models.Course{
		Title:        "Course",
		Description:  "desc",
		Weeks:        "8",
		Tuition:      tuition,
		MinimumSkill: models.SkillBeginner,
		BootcampID:   bootcampID,
		UserID:       userID,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedReview(t *testing.T, db *gorm.DB, bootcampID, userID uint, rating int) *models.Review {
	rv := &models.Review{Title: "Review", Text: "text", Rating: rating, BootcampID: bootcampID, UserID: userID}
	require.NoError(t, db.Create(rv).Error)
	return rv
}
