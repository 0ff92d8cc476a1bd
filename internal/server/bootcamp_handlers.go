package server

import (
	"io"
	"strconv"

	"devcamper/internal/models"
	"devcamper/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetBootcamps handles GET /api/v1/bootcamps
// @Summary List bootcamps
// @Tags bootcamps
// @Produce json
// @Param careers query string false "Career filter"
// @Param housing query bool false "Housing filter"
// @Param jobGuarantee query bool false "Job guarantee filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} envelope{data=[]models.Bootcamp}
// @Failure 400 {object} models.ErrorResponse
// @Router /bootcamps [get]
func (s *Server) GetBootcamps(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPaginationLimit)

	housing, err := parseOptionalBool(c, "housing")
	if err != nil {
		return respondError(c, err)
	}
	jobGuarantee, err := parseOptionalBool(c, "jobGuarantee")
	if err != nil {
		return respondError(c, err)
	}

	bootcamps, total, err := s.bootcampService.ListBootcamps(c.UserContext(), service.ListBootcampsInput{
		Career:       c.Query("careers"),
		Housing:      housing,
		JobGuarantee: jobGuarantee,
		Limit:        page.Limit,
		Offset:       page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}

	return respondPage(c, bootcamps, len(bootcamps), page, total)
}

// GetBootcamp handles GET /api/v1/bootcamps/:id
// @Summary Get a bootcamp
// @Tags bootcamps
// @Produce json
// @Param id path int true "Bootcamp ID"
// @Success 200 {object} envelope{data=models.Bootcamp}
// @Failure 404 {object} models.ErrorResponse
// @Router /bootcamps/{id} [get]
func (s *Server) GetBootcamp(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	bootcamp, err := s.bootcampService.GetBootcamp(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, bootcamp)
}

// CreateBootcamp handles POST /api/v1/bootcamps
// @Summary Create a bootcamp
// @Tags bootcamps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateBootcampInput true "Bootcamp"
// @Success 201 {object} envelope{data=models.Bootcamp}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /bootcamps [post]
func (s *Server) CreateBootcamp(c *fiber.Ctx) error {
	var req service.CreateBootcampInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	bootcamp, err := s.bootcampService.CreateBootcamp(c.UserContext(), actor(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, bootcamp)
}

// UpdateBootcamp handles PUT /api/v1/bootcamps/:id
// @Summary Update a bootcamp
// @Tags bootcamps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Bootcamp ID"
// @Param request body service.UpdateBootcampInput true "Changed fields"
// @Success 200 {object} envelope{data=models.Bootcamp}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /bootcamps/{id} [put]
func (s *Server) UpdateBootcamp(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.UpdateBootcampInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	bootcamp, err := s.bootcampService.UpdateBootcamp(c.UserContext(), actor(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, bootcamp)
}

// DeleteBootcamp handles DELETE /api/v1/bootcamps/:id
// @Summary Delete a bootcamp with its courses and reviews
// @Tags bootcamps
// @Produce json
// @Security BearerAuth
// @Param id path int true "Bootcamp ID"
// @Success 200 {object} envelope
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /bootcamps/{id} [delete]
func (s *Server) DeleteBootcamp(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.bootcampService.DeleteBootcamp(c.UserContext(), actor(c), id); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, fiber.Map{})
}

// GetBootcampsInRadius handles GET /api/v1/bootcamps/radius/:zipcode/:distance
// @Summary Bootcamps within a distance of a zipcode
// @Tags bootcamps
// @Produce json
// @Param zipcode path string true "Zipcode"
// @Param distance path number true "Distance in miles"
// @Success 200 {object} envelope{data=[]models.Bootcamp}
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /bootcamps/radius/{zipcode}/{distance} [get]
func (s *Server) GetBootcampsInRadius(c *fiber.Ctx) error {
	distance, err := strconv.ParseFloat(c.Params("distance"), 64)
	if err != nil {
		return respondError(c, models.NewValidationError("Distance must be a non-negative number"))
	}

	bootcamps, err := s.bootcampService.BootcampsInRadius(c.UserContext(), c.Params("zipcode"), distance)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, bootcamps, len(bootcamps))
}

// UploadBootcampPhoto handles PUT /api/v1/bootcamps/:id/photo
// @Summary Upload a bootcamp photo
// @Tags bootcamps
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Bootcamp ID"
// @Param file formData file true "Image file"
// @Success 200 {object} envelope{data=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /bootcamps/{id}/photo [put]
func (s *Server) UploadBootcampPhoto(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return respondError(c, models.NewValidationError("Please upload a file"))
	}
	f, err := fileHeader.Open()
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}
	defer func() { _ = f.Close() }()

	// read one byte past the limit so oversize files are still detected
	content, err := io.ReadAll(io.LimitReader(f, s.photoLimit()+1))
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	name, err := s.photoService.Upload(c.UserContext(), actor(c), id, service.UploadPhotoInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Content:     content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, name)
}

func (s *Server) photoLimit() int64 {
	if s.config.MaxFileUpload > 0 {
		return s.config.MaxFileUpload
	}
	return service.DefaultMaxPhotoBytes
}
