// Package seed loads demo data for development and tests. Every write goes
// through the service layer so slugs, locations and averages stay consistent.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"devcamper/internal/events"
	"devcamper/internal/geocoder"
	"devcamper/internal/models"
	"devcamper/internal/repository"
	"devcamper/internal/service"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures a Seeder.
type Options struct {
	// BcryptCost defaults to bcrypt.DefaultCost. Tests pass bcrypt.MinCost.
	BcryptCost int
	// Geocoder resolves fake addresses. Defaults to the fixture table with
	// derived locations for unknown addresses.
	Geocoder geocoder.Provider
	Logger   *slog.Logger
}

// Seeder imports fixtures, generates fake data and wipes the database.
type Seeder struct {
	db        *gorm.DB
	fixtures  *Fixtures
	logger    *slog.Logger
	users     *service.UserService
	bootcamps *service.BootcampService
	courses   *service.CourseService
	reviews   *service.ReviewService
}

// Summary counts the rows a seeding run created or removed.
type Summary struct {
	Users     int
	Bootcamps int
	Courses   int
	Reviews   int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d users, %d bootcamps, %d courses, %d reviews", s.Users, s.Bootcamps, s.Courses, s.Reviews)
}

// NewSeeder wires the services a seeding run needs on top of db.
func NewSeeder(db *gorm.DB, opts Options) (*Seeder, error) {
	fixtures, err := LoadFixtures()
	if err != nil {
		return nil, err
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Geocoder == nil {
		opts.Geocoder = geocoder.NewStatic(fixtures.Locations(), true)
	}

	userRepo := repository.NewUserRepository(db)
	bootcampRepo := repository.NewBootcampRepository(db)
	aggregates := service.NewAggregateMaintainer(repository.NewAggregateRepository(db),
		service.WithAggregateLogger(opts.Logger))
	hasher := service.NewAuthService(userRepo, nil, nil,
		service.WithBcryptCost(opts.BcryptCost), service.WithAuthLogger(opts.Logger))
	publisher := events.NopPublisher{}
	bootcamps := service.NewBootcampService(bootcampRepo, geocoder.NewResolver(opts.Geocoder), nil, publisher, opts.Logger)

	return &Seeder{
		db:        db,
		fixtures:  fixtures,
		logger:    opts.Logger,
		users:     service.NewUserService(userRepo, hasher, bootcamps),
		bootcamps: bootcamps,
		courses:   service.NewCourseService(repository.NewCourseRepository(db), bootcampRepo, aggregates, publisher, opts.Logger),
		reviews:   service.NewReviewService(repository.NewReviewRepository(db), bootcampRepo, aggregates, publisher, opts.Logger),
	}, nil
}

// Import loads the embedded fixtures.
func (s *Seeder) Import(ctx context.Context) (Summary, error) {
	var sum Summary

	accounts := make(map[string]*models.User, len(s.fixtures.Users))
	for _, u := range s.fixtures.Users {
		user, err := s.users.CreateUser(ctx, service.CreateUserInput{
			Name:     u.Name,
			Email:    u.Email,
			Password: u.Password,
			Role:     u.Role,
		})
		if err != nil {
			return sum, fmt.Errorf("user %s: %w", u.Email, err)
		}
		accounts[u.Email] = user
		sum.Users++
	}

	camps := make(map[string]*models.Bootcamp, len(s.fixtures.Bootcamps))
	for _, b := range s.fixtures.Bootcamps {
		owner, ok := accounts[b.Owner]
		if !ok {
			return sum, fmt.Errorf("bootcamp %s: unknown owner %s", b.Name, b.Owner)
		}
		camp, err := s.bootcamps.CreateBootcamp(ctx, actorFor(owner), service.CreateBootcampInput{
			Name:          b.Name,
			Description:   b.Description,
			Website:       b.Website,
			Phone:         b.Phone,
			Email:         b.Email,
			Address:       b.Address,
			Careers:       b.Careers,
			Housing:       b.Housing,
			JobAssistance: b.JobAssistance,
			JobGuarantee:  b.JobGuarantee,
			AcceptGi:      b.AcceptGi,
		})
		if err != nil {
			return sum, fmt.Errorf("bootcamp %s: %w", b.Name, err)
		}
		camps[b.Name] = camp
		sum.Bootcamps++
	}

	for _, c := range s.fixtures.Courses {
		camp, ok := camps[c.Bootcamp]
		if !ok {
			return sum, fmt.Errorf("course %s: unknown bootcamp %s", c.Title, c.Bootcamp)
		}
		tuition := c.Tuition
		if _, err := s.courses.CreateCourse(ctx, service.Actor{UserID: camp.UserID, Role: models.RolePublisher}, camp.ID,
			service.CreateCourseInput{
				Title:                c.Title,
				Description:          c.Description,
				Weeks:                c.Weeks,
				Tuition:              &tuition,
				MinimumSkill:         c.MinimumSkill,
				ScholarshipAvailable: c.ScholarshipAvailable,
			}); err != nil {
			return sum, fmt.Errorf("course %s: %w", c.Title, err)
		}
		sum.Courses++
	}

	for _, r := range s.fixtures.Reviews {
		camp, ok := camps[r.Bootcamp]
		if !ok {
			return sum, fmt.Errorf("review %s: unknown bootcamp %s", r.Title, r.Bootcamp)
		}
		author, ok := accounts[r.Author]
		if !ok {
			return sum, fmt.Errorf("review %s: unknown author %s", r.Title, r.Author)
		}
		if _, err := s.reviews.CreateReview(ctx, actorFor(author), camp.ID, service.CreateReviewInput{
			Title:  r.Title,
			Text:   r.Text,
			Rating: r.Rating,
		}); err != nil {
			return sum, fmt.Errorf("review %s: %w", r.Title, err)
		}
		sum.Reviews++
	}

	s.logger.InfoContext(ctx, "fixtures imported", slog.String("summary", sum.String()))
	return sum, nil
}

// Destroy removes every review, course, bootcamp and user.
func (s *Seeder) Destroy(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		steps := []struct {
			model interface{}
			count *int
		}{
			{&models.Review{}, &sum.Reviews},
			{&models.Course{}, &sum.Courses},
			{&models.Bootcamp{}, &sum.Bootcamps},
			{&models.User{}, &sum.Users},
		}
		for _, step := range steps {
			res := all.Delete(step.model)
			if res.Error != nil {
				return res.Error
			}
			*step.count = int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	s.logger.InfoContext(ctx, "data destroyed", slog.String("summary", sum.String()))
	return sum, nil
}

func actorFor(u *models.User) service.Actor {
	return service.Actor{UserID: u.ID, Role: u.Role}
}
