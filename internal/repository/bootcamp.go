package repository

import (
	"context"
	"errors"
	"time"

	"devcamper/internal/cache"
	"devcamper/internal/geocoder"
	"devcamper/internal/models"
	"devcamper/internal/observability"

	"gorm.io/gorm"
)

// bootcampColumns are the fields a Bootcamp update may write. Owner, photo
// and the derived averages have dedicated writers.
var bootcampColumns = []string{
	"name", "slug", "description", "website", "phone", "email",
	"location_lng", "location_lat", "location_formatted_address", "location_street",
	"location_city", "location_state", "location_zipcode", "location_country",
	"careers", "housing", "job_assistance", "job_guarantee", "accept_gi", "updated_at",
}

// BootcampFilter narrows a bootcamp listing. Nil fields do not filter.
type BootcampFilter struct {
	Career       string
	Housing      *bool
	JobGuarantee *bool
	UserID       *uint
	Page         Page
}

// CascadeResult reports how many rows a bootcamp delete removed per table.
type CascadeResult struct {
	Courses  int64
	Reviews  int64
	Bootcamp int64
}

// BootcampRepository defines persistence operations for bootcamps.
type BootcampRepository interface {
	Create(ctx context.Context, b *models.Bootcamp) error
	GetByID(ctx context.Context, id uint) (*models.Bootcamp, error)
	List(ctx context.Context, f BootcampFilter) ([]models.Bootcamp, int64, error)
	Update(ctx context.Context, b *models.Bootcamp) error
	UpdatePhoto(ctx context.Context, id uint, photo string) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
	// WithinBox returns the bootcamps whose stored location falls inside box.
	WithinBox(ctx context.Context, box geocoder.BoundingBox) ([]models.Bootcamp, error)
	// DeleteCascade removes the bootcamp and every course and review under it
	// in one transaction.
	DeleteCascade(ctx context.Context, id uint) (CascadeResult, error)
}

type bootcampRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
	log     *observability.RepoLogger
}

// NewBootcampRepository returns a new BootcampRepository implementation.
func NewBootcampRepository(db *gorm.DB) BootcampRepository {
	return &bootcampRepository{
		db:      db,
		metrics: observability.NewDatabaseMetrics("bootcamps"),
		log:     observability.NewRepoLogger("bootcamps"),
	}
}

func (r *bootcampRepository) Create(ctx context.Context, b *models.Bootcamp) error {
	defer r.metrics.TrackQuery("create")()
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return translateWriteError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"bootcamp_id": b.ID, "user_id": b.UserID})
	return nil
}

func (r *bootcampRepository) GetByID(ctx context.Context, id uint) (*models.Bootcamp, error) {
	defer r.metrics.TrackQuery("get")()
	var b models.Bootcamp
	err := cache.Aside(ctx, cache.BootcampKey(id), &b, cache.BootcampTTL, func() error {
		if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
			return translateReadError(err, "Bootcamp", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bootcampRepository) List(ctx context.Context, f BootcampFilter) ([]models.Bootcamp, int64, error) {
	defer r.metrics.TrackQuery("list")()
	page := f.Page.normalized()

	q := r.db.WithContext(ctx).Model(&models.Bootcamp{})
	if f.Career != "" {
		// careers is stored as a JSON array of strings
		q = q.Where("careers LIKE ?", `%"`+f.Career+`"%`)
	}
	if f.Housing != nil {
		q = q.Where("housing = ?", *f.Housing)
	}
	if f.JobGuarantee != nil {
		q = q.Where("job_guarantee = ?", *f.JobGuarantee)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var out []models.Bootcamp
	if err := q.Session(&gorm.Session{}).Order("created_at DESC").Order("id DESC").
		Limit(page.Limit).Offset(page.Offset).
		Find(&out).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return out, total, nil
}

func (r *bootcampRepository) Update(ctx context.Context, b *models.Bootcamp) error {
	defer r.metrics.TrackQuery("update")()
	b.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.Bootcamp{ID: b.ID}).Select(bootcampColumns).Updates(b)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "update")
		return translateWriteError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Bootcamp", b.ID)
	}
	cache.InvalidateBootcamp(ctx, b.ID)
	r.log.LogUpdate(ctx, map[string]interface{}{"bootcamp_id": b.ID})
	return nil
}

func (r *bootcampRepository) UpdatePhoto(ctx context.Context, id uint, photo string) error {
	defer r.metrics.TrackQuery("update_photo")()
	res := r.db.WithContext(ctx).Model(&models.Bootcamp{}).Where("id = ?", id).UpdateColumn("photo", photo)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Bootcamp", id)
	}
	cache.InvalidateBootcamp(ctx, id)
	return nil
}

func (r *bootcampRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Bootcamp{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *bootcampRepository) WithinBox(ctx context.Context, box geocoder.BoundingBox) ([]models.Bootcamp, error) {
	defer r.metrics.TrackQuery("within_box")()
	q := r.db.WithContext(ctx).
		Where("location_lat BETWEEN ? AND ?", box.MinLat, box.MaxLat)
	if box.CheckLng {
		q = q.Where("location_lng BETWEEN ? AND ?", box.MinLng, box.MaxLng)
	}
	var out []models.Bootcamp
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func (r *bootcampRepository) DeleteCascade(ctx context.Context, id uint) (CascadeResult, error) {
	defer r.metrics.TrackQuery("delete_cascade")()
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, r.db.Name(), "delete_cascade", "bootcamps")
	var res CascadeResult
	var err error
	defer func() { observability.EndSpan(span, err) }()
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		courses := tx.Where("bootcamp_id = ?", id).Delete(&models.Course{})
		if courses.Error != nil {
			return courses.Error
		}
		reviews := tx.Where("bootcamp_id = ?", id).Delete(&models.Review{})
		if reviews.Error != nil {
			return reviews.Error
		}
		bootcamp := tx.Delete(&models.Bootcamp{}, id)
		if bootcamp.Error != nil {
			return bootcamp.Error
		}
		if bootcamp.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		res = CascadeResult{
			Courses:  courses.RowsAffected,
			Reviews:  reviews.RowsAffected,
			Bootcamp: bootcamp.RowsAffected,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CascadeResult{}, models.NewNotFoundError("Bootcamp", id)
		}
		r.log.LogError(ctx, err, "delete_cascade")
		return CascadeResult{}, models.NewInternalError(err)
	}

	cache.InvalidateBootcamp(ctx, id)
	observability.CascadeDeletedRows.WithLabelValues("courses").Add(float64(res.Courses))
	observability.CascadeDeletedRows.WithLabelValues("reviews").Add(float64(res.Reviews))
	r.log.LogDelete(ctx, map[string]interface{}{
		"bootcamp_id": id,
		"courses":     res.Courses,
		"reviews":     res.Reviews,
	})
	return res, nil
}
