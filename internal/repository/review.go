package repository

import (
	"context"
	"time"

	"devcamper/internal/models"
	"devcamper/internal/observability"

	"gorm.io/gorm"
)

var reviewColumns = []string{"title", "text", "rating", "updated_at"}

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	// Create returns a DUPLICATE AppError when the user already reviewed the bootcamp.
	Create(ctx context.Context, rv *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	ListByBootcamp(ctx context.Context, bootcampID uint) ([]models.Review, error)
	List(ctx context.Context, page Page) ([]models.Review, int64, error)
	Update(ctx context.Context, rv *models.Review) error
	Delete(ctx context.Context, id uint) error
}

type reviewRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewReviewRepository returns a new ReviewRepository implementation.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db, metrics: observability.NewDatabaseMetrics("reviews")}
}

func (r *reviewRepository) Create(ctx context.Context, rv *models.Review) error {
	defer r.metrics.TrackQuery("create")()
	return translateWriteError(r.db.WithContext(ctx).Omit("Bootcamp").Create(rv).Error)
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	defer r.metrics.TrackQuery("get")()
	var rv models.Review
	if err := r.db.WithContext(ctx).Preload("Bootcamp", withBootcampSummary).First(&rv, id).Error; err != nil {
		return nil, translateReadError(err, "Review", id)
	}
	return &rv, nil
}

func (r *reviewRepository) ListByBootcamp(ctx context.Context, bootcampID uint) ([]models.Review, error) {
	defer r.metrics.TrackQuery("list_by_bootcamp")()
	var out []models.Review
	if err := r.db.WithContext(ctx).Where("bootcamp_id = ?", bootcampID).Order("id").Find(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func (r *reviewRepository) List(ctx context.Context, page Page) ([]models.Review, int64, error) {
	defer r.metrics.TrackQuery("list")()
	page = page.normalized()
	var (
		out   []models.Review
		total int64
	)
	if err := r.db.WithContext(ctx).Model(&models.Review{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).
		Preload("Bootcamp", withBootcampSummary).
		Order("id").Limit(page.Limit).Offset(page.Offset).
		Find(&out).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return out, total, nil
}

func (r *reviewRepository) Update(ctx context.Context, rv *models.Review) error {
	defer r.metrics.TrackQuery("update")()
	rv.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.Review{ID: rv.ID}).Select(reviewColumns).Updates(rv)
	if res.Error != nil {
		return translateWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Review", rv.ID)
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	defer r.metrics.TrackQuery("delete")()
	res := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Review", id)
	}
	return nil
}
