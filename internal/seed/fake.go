package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"devcamper/internal/models"
	"devcamper/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

const fakePassword = "password123"

var fakeWeeks = []string{"4", "6", "8", "10", "12", "16"}

// Fake generates n publishers with one bootcamp each, a few courses per
// bootcamp and reviews from n reviewer accounts. seed makes runs repeatable.
func (s *Seeder) Fake(ctx context.Context, n int, seed int64) (Summary, error) {
	var sum Summary
	if n <= 0 {
		return sum, nil
	}
	f := gofakeit.New(seed)

	reviewers := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		u, err := s.fakeUser(ctx, f, i, models.RoleUser)
		if err != nil {
			return sum, err
		}
		reviewers = append(reviewers, u)
		sum.Users++
	}

	for i := 0; i < n; i++ {
		owner, err := s.fakeUser(ctx, f, n+i, models.RolePublisher)
		if err != nil {
			return sum, err
		}
		sum.Users++

		camp, err := s.bootcamps.CreateBootcamp(ctx, actorFor(owner), fakeBootcamp(f, i))
		if err != nil {
			return sum, fmt.Errorf("fake bootcamp %d: %w", i, err)
		}
		sum.Bootcamps++

		courses := f.Number(1, 4)
		for c := 0; c < courses; c++ {
			if _, err := s.courses.CreateCourse(ctx, actorFor(owner), camp.ID, fakeCourse(f)); err != nil {
				return sum, fmt.Errorf("fake course for %s: %w", camp.Name, err)
			}
			sum.Courses++
		}

		for _, reviewer := range reviewers {
			if !f.Bool() {
				continue
			}
			if _, err := s.reviews.CreateReview(ctx, actorFor(reviewer), camp.ID, service.CreateReviewInput{
				Title:  truncate(strings.TrimSuffix(f.Sentence(4), "."), 100),
				Text:   f.Sentence(18),
				Rating: f.Number(1, 10),
			}); err != nil {
				return sum, fmt.Errorf("fake review for %s: %w", camp.Name, err)
			}
			sum.Reviews++
		}
	}

	s.logger.InfoContext(ctx, "fake data generated", slog.String("summary", sum.String()))
	return sum, nil
}

func (s *Seeder) fakeUser(ctx context.Context, f *gofakeit.Faker, i int, role string) (*models.User, error) {
	first, last := f.FirstName(), f.LastName()
	email := fmt.Sprintf("%s.%s%d@example.com", mailbox(first), mailbox(last), i)
	u, err := s.users.CreateUser(ctx, service.CreateUserInput{
		Name:     first + " " + last,
		Email:    email,
		Password: fakePassword,
		Role:     role,
	})
	if err != nil {
		return nil, fmt.Errorf("fake user %s: %w", email, err)
	}
	return u, nil
}

func fakeBootcamp(f *gofakeit.Faker, i int) service.CreateBootcampInput {
	name := truncate(fmt.Sprintf("%s Bootcamp %d", f.Company(), i+1), 50)
	host := service.Slugify(name)

	careers := make([]string, 0, 3)
	for _, c := range models.Careers {
		if f.Number(0, 2) == 0 {
			careers = append(careers, c)
		}
	}
	if len(careers) == 0 {
		careers = append(careers, f.RandomString(models.Careers))
	}

	return service.CreateBootcampInput{
		Name:          name,
		Description:   truncate(f.Sentence(30), 350),
		Website:       "https://" + host + ".com",
		Phone:         f.Phone(),
		Email:         "enroll@" + host + ".com",
		Address:       fmt.Sprintf("%s %s %s %s", f.Street(), f.City(), f.StateAbr(), f.Zip()),
		Careers:       careers,
		Housing:       f.Bool(),
		JobAssistance: f.Bool(),
		JobGuarantee:  f.Bool(),
		AcceptGi:      f.Bool(),
	}
}

func fakeCourse(f *gofakeit.Faker) service.CreateCourseInput {
	tuition := float64(f.Number(20, 160) * 100)
	return service.CreateCourseInput{
		Title:                truncate(f.JobTitle()+" Program", 255),
		Description:          f.Sentence(20),
		Weeks:                f.RandomString(fakeWeeks),
		Tuition:              &tuition,
		MinimumSkill:         f.RandomString([]string{models.SkillBeginner, models.SkillIntermediate, models.SkillAdvanced}),
		ScholarshipAvailable: f.Bool(),
	}
}

// mailbox keeps the ASCII letters of a name, lowercased.
func mailbox(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n])
}
