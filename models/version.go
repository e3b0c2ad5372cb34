package models

import "time"

// Version is a release version owned by exactly one Service.
//
// The (service_uuid, number) pair is unique: the composite unique index is
// the source of truth for duplicate detection, so two concurrent adds of the
// same number cannot both commit.
type Version struct {
	// ID is the store-generated surrogate key. Not part of the API shape.
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"-"`

	// ServiceUUID references the owning service. Versions are never
	// reparented.
	ServiceUUID string `gorm:"size:36;not null;uniqueIndex:uniq_service_version" json:"-"`

	// Number is the release label, e.g. "1.0.3" (required, max 100 chars).
	// Uniqueness within the owning service is case-sensitive exact match.
	Number string `gorm:"size:100;not null;uniqueIndex:uniq_service_version" json:"number"`

	// ReleaseDate defaults to the creation time when not supplied.
	ReleaseDate time.Time `gorm:"not null" json:"release_date"`
}

// TableName maps the model to the service_versions table.
func (Version) TableName() string { return "service_versions" }
