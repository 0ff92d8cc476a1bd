package service

import (
	"context"
	"log/slog"

	"devcamper/internal/events"
	"devcamper/internal/models"
	"devcamper/internal/repository"
	"devcamper/internal/tasks"
)

type CreateReviewInput struct {
	Title  string `json:"title" validate:"required,max=100"`
	Text   string `json:"text" validate:"required"`
	Rating int    `json:"rating" validate:"required,min=1,max=10"`
}

type UpdateReviewInput struct {
	Title  *string `json:"title" validate:"omitnil,required,max=100"`
	Text   *string `json:"text" validate:"omitnil,required"`
	Rating *int    `json:"rating" validate:"omitnil,min=1,max=10"`
}

// ReviewService manages reviews and keeps their bootcamp's average rating current.
type ReviewService struct {
	reviews    repository.ReviewRepository
	bootcamps  repository.BootcampRepository
	aggregates *AggregateMaintainer
	events     events.Publisher
	logger     *slog.Logger
}

func NewReviewService(
	reviews repository.ReviewRepository,
	bootcamps repository.BootcampRepository,
	aggregates *AggregateMaintainer,
	publisher events.Publisher,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		bootcamps:  bootcamps,
		aggregates: aggregates,
		events:     publisher,
		logger:     loggerOrDefault(logger),
	}
}

func (s *ReviewService) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	return s.reviews.GetByID(ctx, id)
}

func (s *ReviewService) ListReviews(ctx context.Context, limit, offset int) ([]models.Review, int64, error) {
	return s.reviews.List(ctx, repository.Page{Limit: limit, Offset: offset})
}

func (s *ReviewService) ListBootcampReviews(ctx context.Context, bootcampID uint) ([]models.Review, error) {
	if _, err := s.bootcamps.GetByID(ctx, bootcampID); err != nil {
		return nil, err
	}
	return s.reviews.ListByBootcamp(ctx, bootcampID)
}

// CreateReview stores the actor's review of a bootcamp. A second review of
// the same bootcamp by the same user fails with DUPLICATE.
func (s *ReviewService) CreateReview(ctx context.Context, actor Actor, bootcampID uint, in CreateReviewInput) (*models.Review, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	b, err := s.bootcamps.GetByID(ctx, bootcampID)
	if err != nil {
		return nil, err
	}

	rv := &models.Review{
		Title:      in.Title,
		Text:       in.Text,
		Rating:     in.Rating,
		BootcampID: b.ID,
		UserID:     actor.UserID,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}

	s.aggregates.Refresh(ctx, rv.BootcampID, tasks.KindRating)
	publish(ctx, s.events, s.logger, events.New(events.ReviewCreated, rv.ID, rv.BootcampID, actor.UserID))
	return rv, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, actor Actor, id uint, in UpdateReviewInput) (*models.Review, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	rv, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(rv.UserID) {
		return nil, forbidden(actor, "update", "review")
	}

	ratingChanged := false
	if in.Title != nil {
		rv.Title = *in.Title
	}
	if in.Text != nil {
		rv.Text = *in.Text
	}
	if in.Rating != nil && *in.Rating != rv.Rating {
		rv.Rating = *in.Rating
		ratingChanged = true
	}

	if err := s.reviews.Update(ctx, rv); err != nil {
		return nil, err
	}

	if ratingChanged {
		s.aggregates.Refresh(ctx, rv.BootcampID, tasks.KindRating)
	}
	publish(ctx, s.events, s.logger, events.New(events.ReviewUpdated, rv.ID, rv.BootcampID, actor.UserID))
	return rv, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, actor Actor, id uint) error {
	rv, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Owns(rv.UserID) {
		return forbidden(actor, "delete", "review")
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}

	s.aggregates.Refresh(ctx, rv.BootcampID, tasks.KindRating)
	publish(ctx, s.events, s.logger, events.New(events.ReviewDeleted, rv.ID, rv.BootcampID, actor.UserID))
	return nil
}
