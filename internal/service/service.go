// Package service holds the business rules that sit between HTTP handlers and repositories.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"devcamper/internal/events"
	"devcamper/internal/models"
	"devcamper/internal/validation"
)

// Actor is the authenticated caller of a write operation.
type Actor struct {
	UserID uint
	Role   string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// Owns reports whether the actor may modify a resource owned by ownerID.
func (a Actor) Owns(ownerID uint) bool {
	return a.IsAdmin() || (a.UserID != 0 && a.UserID == ownerID)
}

func forbidden(a Actor, action, resource string) error {
	return models.NewForbiddenError(fmt.Sprintf("User %d is not authorized to %s this %s", a.UserID, action, resource))
}

func validate(in interface{}) error {
	if err := validation.Struct(in); err != nil {
		return models.NewValidationError(err.Error())
	}
	return nil
}

func publish(ctx context.Context, p events.Publisher, logger *slog.Logger, evt events.Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, evt); err != nil {
		logger.WarnContext(ctx, "event not published",
			slog.String("type", evt.Type),
			slog.Uint64("id", uint64(evt.ID)),
			slog.String("error", err.Error()),
		)
	}
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

// photoFiles lists the stored objects behind a bootcamp photo name.
func photoFiles(photo string) []string {
	if photo == "" || photo == models.DefaultPhoto {
		return nil
	}
	base := strings.TrimSuffix(photo, path.Ext(photo))
	return []string{photo, base + ".webp"}
}
