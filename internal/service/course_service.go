package service

import (
	"context"
	"fmt"
	"log/slog"

	"devcamper/internal/events"
	"devcamper/internal/models"
	"devcamper/internal/repository"
	"devcamper/internal/tasks"
)

type CreateCourseInput struct {
	Title                string   `json:"title" validate:"required,max=255"`
	Description          string   `json:"description" validate:"required"`
	Weeks                string   `json:"weeks" validate:"required,max=20"`
	Tuition              *float64 `json:"tuition" validate:"required,gte=0"`
	MinimumSkill         string   `json:"minimum_skill" validate:"required,oneof=beginner intermediate advanced"`
	ScholarshipAvailable bool     `json:"scholarship_available"`
}

type UpdateCourseInput struct {
	Title                *string  `json:"title" validate:"omitnil,required,max=255"`
	Description          *string  `json:"description" validate:"omitnil,required"`
	Weeks                *string  `json:"weeks" validate:"omitnil,required,max=20"`
	Tuition              *float64 `json:"tuition" validate:"omitnil,gte=0"`
	MinimumSkill         *string  `json:"minimum_skill" validate:"omitnil,oneof=beginner intermediate advanced"`
	ScholarshipAvailable *bool    `json:"scholarship_available"`
}

// CourseService manages courses and keeps their bootcamp's average cost current.
type CourseService struct {
	courses    repository.CourseRepository
	bootcamps  repository.BootcampRepository
	aggregates *AggregateMaintainer
	events     events.Publisher
	logger     *slog.Logger
}

func NewCourseService(
	courses repository.CourseRepository,
	bootcamps repository.BootcampRepository,
	aggregates *AggregateMaintainer,
	publisher events.Publisher,
	logger *slog.Logger,
) *CourseService {
	return &CourseService{
		courses:    courses,
		bootcamps:  bootcamps,
		aggregates: aggregates,
		events:     publisher,
		logger:     loggerOrDefault(logger),
	}
}

func (s *CourseService) GetCourse(ctx context.Context, id uint) (*models.Course, error) {
	return s.courses.GetByID(ctx, id)
}

func (s *CourseService) ListCourses(ctx context.Context, limit, offset int) ([]models.Course, int64, error) {
	return s.courses.List(ctx, repository.Page{Limit: limit, Offset: offset})
}

// ListBootcampCourses returns every course of an existing bootcamp.
func (s *CourseService) ListBootcampCourses(ctx context.Context, bootcampID uint) ([]models.Course, error) {
	if _, err := s.bootcamps.GetByID(ctx, bootcampID); err != nil {
		return nil, err
	}
	return s.courses.ListByBootcamp(ctx, bootcampID)
}

// CreateCourse adds a course to a bootcamp the actor owns.
func (s *CourseService) CreateCourse(ctx context.Context, actor Actor, bootcampID uint, in CreateCourseInput) (*models.Course, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	b, err := s.bootcamps.GetByID(ctx, bootcampID)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(b.UserID) {
		return nil, models.NewForbiddenError(
			fmt.Sprintf("User %d is not authorized to add a course to bootcamp %d", actor.UserID, b.ID))
	}

	c := &models.Course{
		Title:                in.Title,
		Description:          in.Description,
		Weeks:                in.Weeks,
		Tuition:              *in.Tuition,
		MinimumSkill:         in.MinimumSkill,
		ScholarshipAvailable: in.ScholarshipAvailable,
		BootcampID:           b.ID,
		UserID:               actor.UserID,
	}
	if err := s.courses.Create(ctx, c); err != nil {
		return nil, err
	}

	s.aggregates.Refresh(ctx, c.BootcampID, tasks.KindCost)
	publish(ctx, s.events, s.logger, events.New(events.CourseCreated, c.ID, c.BootcampID, actor.UserID))
	return c, nil
}

// UpdateCourse applies a partial update. The average cost is recomputed only
// when the tuition changes.
func (s *CourseService) UpdateCourse(ctx context.Context, actor Actor, id uint, in UpdateCourseInput) (*models.Course, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(c.UserID) {
		return nil, forbidden(actor, "update", "course")
	}

	tuitionChanged := false
	if in.Title != nil {
		c.Title = *in.Title
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Weeks != nil {
		c.Weeks = *in.Weeks
	}
	if in.Tuition != nil && *in.Tuition != c.Tuition {
		c.Tuition = *in.Tuition
		tuitionChanged = true
	}
	if in.MinimumSkill != nil {
		c.MinimumSkill = *in.MinimumSkill
	}
	if in.ScholarshipAvailable != nil {
		c.ScholarshipAvailable = *in.ScholarshipAvailable
	}

	if err := s.courses.Update(ctx, c); err != nil {
		return nil, err
	}

	if tuitionChanged {
		s.aggregates.Refresh(ctx, c.BootcampID, tasks.KindCost)
	}
	publish(ctx, s.events, s.logger, events.New(events.CourseUpdated, c.ID, c.BootcampID, actor.UserID))
	return c, nil
}

// DeleteCourse removes a course and recomputes its bootcamp's average cost.
func (s *CourseService) DeleteCourse(ctx context.Context, actor Actor, id uint) error {
	c, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Owns(c.UserID) {
		return forbidden(actor, "delete", "course")
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}

	s.aggregates.Refresh(ctx, c.BootcampID, tasks.KindCost)
	publish(ctx, s.events, s.logger, events.New(events.CourseDeleted, c.ID, c.BootcampID, actor.UserID))
	return nil
}
