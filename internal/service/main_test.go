package service

import (
	"context"
	"testing"

	"devcamper/internal/geocoder"
	"devcamper/internal/models"
	"devcamper/internal/repository"
	"devcamper/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db         *gorm.DB
	users      repository.UserRepository
	bootcamps  repository.BootcampRepository
	courses    repository.CourseRepository
	reviews    repository.ReviewRepository
	aggregates *AggregateMaintainer
	retries    *testutil.EnqueuerStub
	events     *testutil.RecordingPublisher
	photos     *testutil.PhotoStoreStub

	bootcampSvc *BootcampService
	courseSvc   *CourseService
	reviewSvc   *ReviewService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithDB(t, testutil.NewSQLiteDB(t))
}

func newTestEnvWithDB(t *testing.T, db *gorm.DB) *testEnv {
	t.Helper()

	env := &testEnv{
		db:        db,
		users:     repository.NewUserRepository(db),
		bootcamps: repository.NewBootcampRepository(db),
		courses:   repository.NewCourseRepository(db),
		reviews:   repository.NewReviewRepository(db),
		retries:   &testutil.EnqueuerStub{},
		events:    &testutil.RecordingPublisher{},
		photos:    testutil.NewPhotoStoreStub(),
	}
	env.aggregates = NewAggregateMaintainer(repository.NewAggregateRepository(db),
		WithRetryQueue(env.retries, func() bool { return true }))

	geo := geocoder.NewResolver(geocoder.NewStatic(testutil.StaticLocations, true), geocoder.WithCacheTTL(0))
	env.bootcampSvc = NewBootcampService(env.bootcamps, geo, env.photos, env.events, nil)
	env.courseSvc = NewCourseService(env.courses, env.bootcamps, env.aggregates, env.events, nil)
	env.reviewSvc = NewReviewService(env.reviews, env.bootcamps, env.aggregates, env.events, nil)
	return env
}

func (e *testEnv) user(t *testing.T, email, role string) Actor {
	t.Helper()
	u := &models.User{Name: email, Email: email, Role: role, Password: "x"}
	require.NoError(t, e.users.Create(context.Background(), u))
	return Actor{UserID: u.ID, Role: u.Role}
}

func (e *testEnv) bootcamp(t *testing.T, owner Actor, name string) *models.Bootcamp {
	t.Helper()
	b, err := e.bootcampSvc.CreateBootcamp(context.Background(), owner, CreateBootcampInput{
		Name:        name,
		Description: "Full stack web development",
		Address:     "02118",
		Careers:     []string{models.CareerWebDevelopment},
	})
	require.NoError(t, err)
	return b
}

func (e *testEnv) reload(t *testing.T, id uint) *models.Bootcamp {
	t.Helper()
	b, err := e.bootcamps.GetByID(context.Background(), id)
	require.NoError(t, err)
	return b
}

func ptr[T any](v T) *T { return &v }
