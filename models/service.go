// Package models defines the persisted entities and query/page types for the
// Servium catalog.
//
// A Service and its Versions form one consistency boundary: the service owns
// its version rows exclusively, deleting the service cascades to them, and
// the version count exposed to clients is always derived from the version
// rows rather than stored.
package models

// Service is a catalog entry identified by an immutable UUID.
//
// The Versions slice is only populated when a single service is fetched with
// versions requested; list views carry the derived VersionCount instead so
// response size stays bounded.
//
// Example JSON representation:
//
//	{
//	  "uuid": "9e4f1c0a-7e2b-4c1d-9b1f-2f6a8c3d5e70",
//	  "name": "Locate Us",
//	  "description": "Find the nearest branch",
//	  "versions_count": 2
//	}
type Service struct {
	// UUID is the primary identity, generated on creation, never updated.
	UUID string `gorm:"primaryKey;size:36" json:"uuid"`

	// Name is the human-readable service name (required, max 150 chars).
	Name string `gorm:"size:150;not null" json:"name"`

	// Description is optional free text (max 500 chars).
	Description string `gorm:"size:500" json:"description"`

	// VersionCount is derived from the owned version rows. It is selected
	// by the list query and recomputed on single fetches; never migrated.
	VersionCount int `gorm:"->;-:migration" json:"versions_count"`

	// Versions are the owned release versions. The FK carries a cascade
	// constraint so the store can never hold orphan version rows.
	Versions []Version `gorm:"foreignKey:ServiceUUID;references:UUID;constraint:OnDelete:CASCADE" json:"versions,omitempty"`
}

// TableName maps the model to the services table.
func (Service) TableName() string { return "services" }
