package repository

import (
	"context"
	"time"

	"devcamper/internal/models"
	"devcamper/internal/observability"

	"gorm.io/gorm"
)

var courseColumns = []string{
	"title", "description", "weeks", "tuition", "minimum_skill", "scholarship_available", "updated_at",
}

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	Create(ctx context.Context, c *models.Course) error
	// GetByID loads the course with its bootcamp's name and description.
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	ListByBootcamp(ctx context.Context, bootcampID uint) ([]models.Course, error)
	List(ctx context.Context, page Page) ([]models.Course, int64, error)
	Update(ctx context.Context, c *models.Course) error
	Delete(ctx context.Context, id uint) error
}

type courseRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewCourseRepository returns a new CourseRepository implementation.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db, metrics: observability.NewDatabaseMetrics("courses")}
}

func withBootcampSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "description")
}

func (r *courseRepository) Create(ctx context.Context, c *models.Course) error {
	defer r.metrics.TrackQuery("create")()
	return translateWriteError(r.db.WithContext(ctx).Omit("Bootcamp").Create(c).Error)
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	defer r.metrics.TrackQuery("get")()
	var c models.Course
	if err := r.db.WithContext(ctx).Preload("Bootcamp", withBootcampSummary).First(&c, id).Error; err != nil {
		return nil, translateReadError(err, "Course", id)
	}
	return &c, nil
}

func (r *courseRepository) ListByBootcamp(ctx context.Context, bootcampID uint) ([]models.Course, error) {
	defer r.metrics.TrackQuery("list_by_bootcamp")()
	var out []models.Course
	if err := r.db.WithContext(ctx).Where("bootcamp_id = ?", bootcampID).Order("id").Find(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func (r *courseRepository) List(ctx context.Context, page Page) ([]models.Course, int64, error) {
	defer r.metrics.TrackQuery("list")()
	page = page.normalized()
	var (
		out   []models.Course
		total int64
	)
	if err := r.db.WithContext(ctx).Model(&models.Course{}).Count(&total).Error; err != nil {
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

func (r *courseRepository) Update(ctx context.Context, c *models.Course) error {
	defer r.metrics.TrackQuery("update")()
	c.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.Course{ID: c.ID}).Select(courseColumns).Updates(c)
	if res.Error != nil {
		return translateWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Course", c.ID)
	}
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	defer r.metrics.TrackQuery("delete")()
	res := r.db.WithContext(ctx).Delete(&models.Course{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Course", id)
	}
	return nil
}
