package server

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"devcamper/internal/middleware"
	"devcamper/internal/models"
	"devcamper/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	defaultPaginationLimit = 25
	maxPaginationLimit     = 100
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

type pageLink struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type pageInfo struct {
	Total  int64     `json:"total"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
	Next   *pageLink `json:"next,omitempty"`
	Prev   *pageLink `json:"prev,omitempty"`
}

func (p Pagination) info(total int64) *pageInfo {
	info := &pageInfo{Total: total, Limit: p.Limit, Offset: p.Offset}
	if int64(p.Offset+p.Limit) < total {
		info.Next = &pageLink{Offset: p.Offset + p.Limit, Limit: p.Limit}
	}
	if p.Offset > 0 {
		info.Prev = &pageLink{Offset: max(p.Offset-p.Limit, 0), Limit: p.Limit}
	}
	return info
}

// envelope is the success body shared by every API route.
type envelope struct {
	Success    bool      `json:"success"`
	Count      *int      `json:"count,omitempty"`
	Pagination *pageInfo `json:"pagination,omitempty"`
	Data       any       `json:"data"`
}

func respondData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(envelope{Success: true, Data: data})
}

func respondList(c *fiber.Ctx, data any, count int) error {
	return c.JSON(envelope{Success: true, Count: &count, Data: data})
}

func respondPage(c *fiber.Ctx, data any, count int, page Pagination, total int64) error {
	return c.JSON(envelope{Success: true, Count: &count, Pagination: page.info(total), Data: data})
}

// statusForError maps an AppError code to its HTTP status.
func statusForError(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeValidation, models.CodeDuplicate:
		return fiber.StatusBadRequest
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeForbidden:
		return fiber.StatusForbidden
	case models.CodeLookupFailed:
		return fiber.StatusUnprocessableEntity
	case models.CodeRateLimited:
		return fiber.StatusTooManyRequests
	case models.CodeUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err through statusForError. Errors that are not an
// AppError never reach the client verbatim.
func respondError(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		var appErr *models.AppError
		if !errors.As(err, &appErr) {
			err = models.NewInternalError(err)
		}
	}
	return models.RespondWithError(c, status, err)
}

// parseBody decodes the JSON body into dest.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
// The error message is derived from the parameter name (e.g. "id" -> "Invalid ID",
// "bootcampId" -> "Invalid bootcamp ID").
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseOptionalBool reads a true/false query parameter. An absent parameter yields nil.
func parseOptionalBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, models.NewValidationError(key + " must be true or false")
	}
	return &v, nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "bootcampId" -> "bootcamp ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	// Split on camelCase boundary before the trailing "Id" suffix.
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// actor identifies the authenticated caller for the service layer.
func actor(c *fiber.Ctx) service.Actor {
	return service.Actor{
		UserID: middleware.CurrentUserID(c),
		Role:   middleware.CurrentRole(c),
	}
}
