package repository

import (
	"context"
	"database/sql"

	"devcamper/internal/cache"
	"devcamper/internal/models"
	"devcamper/internal/observability"

	"gorm.io/gorm"
)

// AggregateRepository reads child averages and writes the derived bootcamp fields.
type AggregateRepository interface {
	// AverageTuition returns AVG(tuition) over the bootcamp's courses; Valid is
	// false when it has none.
	AverageTuition(ctx context.Context, bootcampID uint) (sql.NullFloat64, error)
	AverageRating(ctx context.Context, bootcampID uint) (sql.NullFloat64, error)
	// SetAverageCost writes average_cost (NULL when value is nil) and returns
	// the rows affected, zero when the bootcamp no longer exists.
	SetAverageCost(ctx context.Context, bootcampID uint, value *float64) (int64, error)
	SetAverageRating(ctx context.Context, bootcampID uint, value *float64) (int64, error)
}

type aggregateRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
	log     *observability.RepoLogger
}

// NewAggregateRepository returns a new AggregateRepository implementation.
func NewAggregateRepository(db *gorm.DB) AggregateRepository {
	return &aggregateRepository{
		db:      db,
		metrics: observability.NewDatabaseMetrics("bootcamps"),
		log:     observability.NewRepoLogger("bootcamps"),
	}
}

func (r *aggregateRepository) average(ctx context.Context, model interface{}, column string, bootcampID uint) (sql.NullFloat64, error) {
	var avg sql.NullFloat64
	row := r.db.WithContext(ctx).Model(model).
		Select("AVG("+column+")").
		Where("bootcamp_id = ?", bootcampID).
		Row()
	if err := row.Scan(&avg); err != nil {
		return sql.NullFloat64{}, models.NewInternalError(err)
	}
	return avg, nil
}

func (r *aggregateRepository) AverageTuition(ctx context.Context, bootcampID uint) (sql.NullFloat64, error) {
	defer r.metrics.TrackQuery("avg_tuition")()
	return r.average(ctx, &models.Course{}, "tuition", bootcampID)
}

func (r *aggregateRepository) AverageRating(ctx context.Context, bootcampID uint) (sql.NullFloat64, error) {
	defer r.metrics.TrackQuery("avg_rating")()
	return r.average(ctx, &models.Review{}, "rating", bootcampID)
}

func (r *aggregateRepository) set(ctx context.Context, column string, bootcampID uint, value *float64) (int64, error) {
	// an untyped nil makes the driver write NULL
	var v interface{}
	if value != nil {
		v = *value
	}
	res := r.db.WithContext(ctx).Model(&models.Bootcamp{}).
		Where("id = ?", bootcampID).
		UpdateColumn(column, v)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "set_"+column)
		return 0, models.NewInternalError(res.Error)
	}
	cache.InvalidateBootcamp(ctx, bootcampID)
	r.log.LogUpdate(ctx, map[string]interface{}{
		"bootcamp_id": bootcampID,
		"column":      column,
		"value":       v,
		"rows":        res.RowsAffected,
	})
	return res.RowsAffected, nil
}

func (r *aggregateRepository) SetAverageCost(ctx context.Context, bootcampID uint, value *float64) (int64, error) {
	defer r.metrics.TrackQuery("set_average_cost")()
	return r.set(ctx, "average_cost", bootcampID, value)
}

func (r *aggregateRepository) SetAverageRating(ctx context.Context, bootcampID uint, value *float64) (int64, error) {
	defer r.metrics.TrackQuery("set_average_rating")()
	return r.set(ctx, "average_rating", bootcampID, value)
}
