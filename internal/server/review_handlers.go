package server

import (
	"devcamper/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetReviews handles GET /api/v1/reviews
// @Summary List reviews
// @Tags reviews
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} envelope{data=[]models.Review}
// @Router /reviews [get]
func (s *Server) GetReviews(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPaginationLimit)

	reviews, total, err := s.reviewService.ListReviews(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, reviews, len(reviews), page, total)
}

// GetBootcampReviews handles GET /api/v1/bootcamps/:bootcampId/reviews
// @Summary List the reviews of a bootcamp
// @Tags reviews
// @Produce json
// @Param bootcampId path int true "Bootcamp ID"
// @Success 200 {object} envelope{data=[]models.Review}
// @Failure 404 {object} models.ErrorResponse
// @Router /bootcamps/{bootcampId}/reviews [get]
func (s *Server) GetBootcampReviews(c *fiber.Ctx) error {
	bootcampID, err := s.parseID(c, "bootcampId")
	if err != nil {
		return nil
	}

	reviews, err := s.reviewService.ListBootcampReviews(c.UserContext(), bootcampID)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, reviews, len(reviews))
}

// GetReview handles GET /api/v1/reviews/:id
// @Summary Get a review
// @Tags reviews
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} envelope{data=models.Review}
// @Failure 404 {object} models.ErrorResponse
// @Router /reviews/{id} [get]
func (s *Server) GetReview(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	review, err := s.reviewService.GetReview(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, review)
}

// CreateReview handles POST /api/v1/bootcamps/:bootcampId/reviews
// @Summary Review a bootcamp
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bootcampId path int true "Bootcamp ID"
// @Param request body service.CreateReviewInput true "Review"
// @Success 201 {object} envelope{data=models.Review}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /bootcamps/{bootcampId}/reviews [post]
func (s *Server) CreateReview(c *fiber.Ctx) error {
	bootcampID, err := s.parseID(c, "bootcampId")
	if err != nil {
		return nil
	}
	var req service.CreateReviewInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	review, err := s.reviewService.CreateReview(c.UserContext(), actor(c), bootcampID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, review)
}

// UpdateReview handles PUT /api/v1/reviews/:id
// @Summary Update a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Param request body service.UpdateReviewInput true "Changed fields"
// @Success 200 {object} envelope{data=models.Review}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /reviews/{id} [put]
func (s *Server) UpdateReview(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.UpdateReviewInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	review, err := s.reviewService.UpdateReview(c.UserContext(), actor(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, review)
}

// DeleteReview handles DELETE /api/v1/reviews/:id
// @Summary Delete a review
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 200 {object} envelope
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /reviews/{id} [delete]
func (s *Server) DeleteReview(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.reviewService.DeleteReview(c.UserContext(), actor(c), id); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, fiber.Map{})
}
