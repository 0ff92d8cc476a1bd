package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"devcamper/internal/events"
	"devcamper/internal/geocoder"
	"devcamper/internal/models"
	"devcamper/internal/observability"
	"devcamper/internal/repository"
	"devcamper/internal/storage"

	"github.com/gosimple/slug"
)

// Geocoder resolves free-text addresses and zipcodes.
type Geocoder interface {
	Resolve(ctx context.Context, query string) (models.Location, error)
	Center(ctx context.Context, query string) (geocoder.Point, error)
}

type CreateBootcampInput struct {
	Name          string   `json:"name" validate:"required,max=50"`
	Description   string   `json:"description" validate:"required,max=350"`
	Website       string   `json:"website" validate:"omitempty,website"`
	Phone         string   `json:"phone" validate:"omitempty,max=20"`
	Email         string   `json:"email" validate:"omitempty,emailaddr"`
	Address       string   `json:"address" validate:"required"`
	Careers       []string `json:"careers" validate:"required,min=1,dive,career"`
	Housing       bool     `json:"housing"`
	JobAssistance bool     `json:"job_assistance"`
	JobGuarantee  bool     `json:"job_guarantee"`
	AcceptGi      bool     `json:"accept_gi"`
}

// UpdateBootcampInput carries a partial update; nil fields are left alone.
type UpdateBootcampInput struct {
	Name          *string   `json:"name" validate:"omitnil,required,max=50"`
	Description   *string   `json:"description" validate:"omitnil,required,max=350"`
	Website       *string   `json:"website" validate:"omitnil,omitempty,website"`
	Phone         *string   `json:"phone" validate:"omitnil,max=20"`
	Email         *string   `json:"email" validate:"omitnil,omitempty,emailaddr"`
	Address       *string   `json:"address" validate:"omitnil,required"`
	Careers       *[]string `json:"careers" validate:"omitnil,min=1,dive,career"`
	Housing       *bool     `json:"housing"`
	JobAssistance *bool     `json:"job_assistance"`
	JobGuarantee  *bool     `json:"job_guarantee"`
	AcceptGi      *bool     `json:"accept_gi"`
}

type ListBootcampsInput struct {
	Career       string
	Housing      *bool
	JobGuarantee *bool
	Limit        int
	Offset       int
}

type BootcampService struct {
	repo     repository.BootcampRepository
	geocoder Geocoder
	photos   storage.PhotoStore
	events   events.Publisher
	logger   *slog.Logger
}

func NewBootcampService(
	repo repository.BootcampRepository,
	geo Geocoder,
	photos storage.PhotoStore,
	publisher events.Publisher,
	logger *slog.Logger,
) *BootcampService {
	return &BootcampService{
		repo:     repo,
		geocoder: geo,
		photos:   photos,
		events:   publisher,
		logger:   loggerOrDefault(logger),
	}
}

// Slugify derives the URL slug stored alongside a bootcamp name.
func Slugify(name string) string {
	return slug.Make(name)
}

func (s *BootcampService) GetBootcamp(ctx context.Context, id uint) (*models.Bootcamp, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BootcampService) ListBootcamps(ctx context.Context, in ListBootcampsInput) ([]models.Bootcamp, int64, error) {
	if in.Career != "" {
		if err := validateCareer(in.Career); err != nil {
			return nil, 0, err
		}
	}
	return s.repo.List(ctx, repository.BootcampFilter{
		Career:       in.Career,
		Housing:      in.Housing,
		JobGuarantee: in.JobGuarantee,
		Page:         repository.Page{Limit: in.Limit, Offset: in.Offset},
	})
}

func validateCareer(c string) error {
	for _, known := range models.Careers {
		if known == c {
			return nil
		}
	}
	return models.NewValidationError(fmt.Sprintf("careers must be one of: %s", strings.Join(models.Careers, ", ")))
}

// CreateBootcamp geocodes the address and stores a new bootcamp owned by the actor.
// A non-admin may publish only one bootcamp.
func (s *BootcampService) CreateBootcamp(ctx context.Context, actor Actor, in CreateBootcampInput) (*models.Bootcamp, error) {
	ctx, span := observability.GetTraceLayer().TraceAPIToServiceCall(ctx, "BootcampService", "CreateBootcamp")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	if err := validate(in); err != nil {
		return nil, err
	}

	if !actor.IsAdmin() {
		n, err := s.repo.CountByUser(ctx, actor.UserID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, models.NewValidationError(
				fmt.Sprintf("The user with ID %d has already published a bootcamp", actor.UserID))
		}
	}

	loc, err := s.geocoder.Resolve(ctx, in.Address)
	if err != nil {
		return nil, err
	}

	b := &models.Bootcamp{
		Name:          in.Name,
		Slug:          Slugify(in.Name),
		Description:   in.Description,
		Website:       in.Website,
		Phone:         in.Phone,
		Email:         in.Email,
		Location:      loc,
		Careers:       in.Careers,
		Photo:         models.DefaultPhoto,
		Housing:       in.Housing,
		JobAssistance: in.JobAssistance,
		JobGuarantee:  in.JobGuarantee,
		AcceptGi:      in.AcceptGi,
		UserID:        actor.UserID,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	publish(ctx, s.events, s.logger, events.New(events.BootcampCreated, b.ID, b.ID, actor.UserID))
	return b, nil
}

// UpdateBootcamp applies a partial update. A new address replaces the stored location.
func (s *BootcampService) UpdateBootcamp(ctx context.Context, actor Actor, id uint, in UpdateBootcampInput) (*models.Bootcamp, error) {
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}
	if err := validate(in); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Owns(b.UserID) {
		return nil, forbidden(actor, "update", "bootcamp")
	}

	if in.Name != nil && *in.Name != b.Name {
		b.Name = *in.Name
		b.Slug = Slugify(b.Name)
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	if in.Website != nil {
		b.Website = *in.Website
	}
	if in.Phone != nil {
		b.Phone = *in.Phone
	}
	if in.Email != nil {
		b.Email = *in.Email
	}
	if in.Careers != nil {
		b.Careers = *in.Careers
	}
	if in.Housing != nil {
		b.Housing = *in.Housing
	}
	if in.JobAssistance != nil {
		b.JobAssistance = *in.JobAssistance
	}
	if in.JobGuarantee != nil {
		b.JobGuarantee = *in.JobGuarantee
	}
	if in.AcceptGi != nil {
		b.AcceptGi = *in.AcceptGi
	}
	if in.Address != nil {
		loc, err := s.geocoder.Resolve(ctx, *in.Address)
		if err != nil {
			return nil, err
		}
		b.Location = loc
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	publish(ctx, s.events, s.logger, events.New(events.BootcampUpdated, b.ID, b.ID, actor.UserID))
	return b, nil
}

// DeleteBootcamp removes the bootcamp with all of its courses and reviews.
// Cache, photo and event cleanup after the commit are best-effort.
func (s *BootcampService) DeleteBootcamp(ctx context.Context, actor Actor, id uint) error {
	ctx, span := observability.GetTraceLayer().TraceAPIToServiceCall(ctx, "BootcampService", "DeleteBootcamp")
	defer span.End()

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Owns(b.UserID) {
		return forbidden(actor, "delete", "bootcamp")
	}

	if _, err := s.repo.DeleteCascade(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}

	if s.photos != nil {
		for _, name := range photoFiles(b.Photo) {
			if err := s.photos.Delete(ctx, name); err != nil {
				s.logger.WarnContext(ctx, "bootcamp photo not removed",
					slog.Uint64("bootcamp_id", uint64(id)),
					slog.String("photo", name),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	publish(ctx, s.events, s.logger, events.New(events.BootcampDeleted, id, id, actor.UserID))
	return nil
}

// DeleteBootcampsOwnedBy removes every bootcamp owned by userID through
// DeleteBootcamp so cache, photo and event cleanup run for each one.
func (s *BootcampService) DeleteBootcampsOwnedBy(ctx context.Context, actor Actor, userID uint) (int, error) {
	deleted := 0
	for {
		owned, _, err := s.repo.List(ctx, repository.BootcampFilter{UserID: &userID})
		if err != nil {
			return deleted, err
		}
		if len(owned) == 0 {
			return deleted, nil
		}
		for _, b := range owned {
			if err := s.DeleteBootcamp(ctx, actor, b.ID); err != nil {
				return deleted, err
			}
			deleted++
		}
	}
}

// BootcampsInRadius returns every bootcamp within miles of the zipcode's
// center, measured as a central angle of miles/3963 radians.
func (s *BootcampService) BootcampsInRadius(ctx context.Context, zipcode string, miles float64) ([]models.Bootcamp, error) {
	if math.IsNaN(miles) || math.IsInf(miles, 0) || miles < 0 {
		return nil, models.NewValidationError("Distance must be a non-negative number")
	}

	center, err := s.geocoder.Center(ctx, zipcode)
	if err != nil {
		return nil, err
	}

	circle := geocoder.Circle{Center: center, Radians: geocoder.MilesToRadians(miles)}
	candidates, err := s.repo.WithinBox(ctx, circle.Bounds())
	if err != nil {
		return nil, err
	}

	out := make([]models.Bootcamp, 0, len(candidates))
	for _, b := range candidates {
		if circle.Contains(geocoder.Point{Lat: b.Location.Lat, Lng: b.Location.Lng}) {
			out = append(out, b)
		}
	}
	return out, nil
}
