package server

import (
	"devcamper/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCourses handles GET /api/v1/courses
// @Summary List courses
// @Tags courses
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} envelope{data=[]models.Course}
// @Router /courses [get]
func (s *Server) GetCourses(c *fiber.Ctx) error {
	page := parsePagination(c, defaultPaginationLimit)

	courses, total, err := s.courseService.ListCourses(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return respondPage(c, courses, len(courses), page, total)
}

// GetBootcampCourses handles GET /api/v1/bootcamps/:bootcampId/courses
// @Summary List the courses of a bootcamp
// @Tags courses
// @Produce json
// @Param bootcampId path int true "Bootcamp ID"
// @Success 200 {object} envelope{data=[]models.Course}
// @Failure 404 {object} models.ErrorResponse
// @Router /bootcamps/{bootcampId}/courses [get]
func (s *Server) GetBootcampCourses(c *fiber.Ctx) error {
	bootcampID, err := s.parseID(c, "bootcampId")
	if err != nil {
		return nil
	}

	courses, err := s.courseService.ListBootcampCourses(c.UserContext(), bootcampID)
	if err != nil {
		return respondError(c, err)
	}
	return respondList(c, courses, len(courses))
}

// GetCourse handles GET /api/v1/courses/:id
// @Summary Get a course with its bootcamp name and description
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} envelope{data=models.Course}
// @Failure 404 {object} models.ErrorResponse
// @Router /courses/{id} [get]
func (s *Server) GetCourse(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	course, err := s.courseService.GetCourse(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, course)
}

// CreateCourse handles POST /api/v1/bootcamps/:bootcampId/courses
// @Summary Add a course to a bootcamp
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bootcampId path int true "Bootcamp ID"
// @Param request body service.CreateCourseInput true "Course"
// @Success 201 {object} envelope{data=models.Course}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /bootcamps/{bootcampId}/courses [post]
func (s *Server) CreateCourse(c *fiber.Ctx) error {
	bootcampID, err := s.parseID(c, "bootcampId")
	if err != nil {
		return nil
	}
	var req service.CreateCourseInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	course, err := s.courseService.CreateCourse(c.UserContext(), actor(c), bootcampID, req)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusCreated, course)
}

// UpdateCourse handles PUT /api/v1/courses/:id
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body service.UpdateCourseInput true "Changed fields"
// @Success 200 {object} envelope{data=models.Course}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /courses/{id} [put]
func (s *Server) UpdateCourse(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req service.UpdateCourseInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	course, err := s.courseService.UpdateCourse(c.UserContext(), actor(c), id, req)
	if err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, course)
}

// DeleteCourse handles DELETE /api/v1/courses/:id
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} envelope
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /courses/{id} [delete]
func (s *Server) DeleteCourse(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.courseService.DeleteCourse(c.UserContext(), actor(c), id); err != nil {
		return respondError(c, err)
	}
	return respondData(c, fiber.StatusOK, fiber.Map{})
}
