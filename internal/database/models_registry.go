package database

import "devcamper/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters for AutoMigrate: parents before children.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Bootcamp{},
		&models.Course{},
		&models.Review{},
	}
}
