package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"evalgo.org/servium/models"
)

// queryableFields maps the field names accepted from query parameters onto
// the columns they may sort or search. Anything outside this allow-list is
// rejected before a query is built; user input is never spliced into SQL.
var queryableFields = map[string]string{
	"uuid":        "uuid",
	"name":        "name",
	"description": "description",
}

// ListServices executes a validated query specification against the service
// collection and returns one page plus pagination metadata.
//
// Version counts are aggregated in the same query via a LEFT JOIN on the
// version rows; the full version collections are never loaded for a list
// view. The substring search is case-insensitive (LOWER on both sides, so
// behaviour does not depend on the store's collation). Ordering uses the
// requested field with a uuid tiebreak so pages are deterministic.
func (s *Storage) ListServices(opts models.ListOptions) (*models.Page, error) {
	sortCol, ok := queryableFields[opts.SortField]
	if !ok {
		return nil, fmt.Errorf("%w: sort_field %q", ErrUnknownField, opts.SortField)
	}

	filter := func(db *gorm.DB) *gorm.DB { return db }
	if opts.Search != "" {
		searchCol, ok := queryableFields[opts.SearchField]
		if !ok {
			return nil, fmt.Errorf("%w: search_field %q", ErrUnknownField, opts.SearchField)
		}
		pattern := "%" + strings.ToLower(opts.Search) + "%"
		filter = func(db *gorm.DB) *gorm.DB {
			return db.Where(fmt.Sprintf("LOWER(services.%s) LIKE ?", searchCol), pattern)
		}
	}

	// Total count of matching services, ignoring pagination.
	var itemCount int64
	if err := filter(s.db.Model(&models.Service{})).Count(&itemCount).Error; err != nil {
		return nil, fmt.Errorf("count services: %w", err)
	}

	direction := "ASC"
	if opts.Order == models.SortDesc {
		direction = "DESC"
	}

	var items []*models.Service
	err := filter(s.db.Model(&models.Service{})).
		Select("services.uuid, services.name, services.description, COUNT(service_versions.id) AS version_count").
		Joins("LEFT JOIN service_versions ON service_versions.service_uuid = services.uuid").
		Group("services.uuid").
		Order(fmt.Sprintf("services.%s %s, services.uuid ASC", sortCol, direction)).
		Limit(opts.Size).
		Offset(opts.Offset()).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	log.WithFields(log.Fields{
		"count":  itemCount,
		"search": opts.Search,
		"field":  opts.SearchField,
	}).Debug("listed services")

	return models.NewPage(items, opts.Page, opts.Size, int(itemCount)), nil
}

// GetService fetches a single service by uuid. The version count is always
// derived from the version rows; when includeVersions is set the versions
// are also loaded, newest release first. Returns ErrNotFound when the uuid
// resolves to nothing.
func (s *Storage) GetService(serviceUUID string, includeVersions bool) (*models.Service, error) {
	var svc models.Service
	if err := s.db.First(&svc, "uuid = ?", serviceUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, serviceUUID)
		}
		return nil, fmt.Errorf("get service: %w", err)
	}

	var versionCount int64
	if err := s.db.Model(&models.Version{}).Where("service_uuid = ?", serviceUUID).Count(&versionCount).Error; err != nil {
		return nil, fmt.Errorf("count versions: %w", err)
	}
	svc.VersionCount = int(versionCount)

	if includeVersions {
		err := s.db.Where("service_uuid = ?", serviceUUID).
			Order("release_date DESC").
			Find(&svc.Versions).Error
		if err != nil {
			return nil, fmt.Errorf("load versions: %w", err)
		}
	}

	return &svc, nil
}

// CreateService inserts a new service under a freshly generated uuid.
func (s *Storage) CreateService(name, description string) (*models.Service, error) {
	svc := &models.Service{
		UUID:        uuid.NewString(),
		Name:        name,
		Description: description,
	}

	if err := s.db.Create(svc).Error; err != nil {
		log.WithFields(log.Fields{
			"operation": "create_service",
			"name":      name,
		}).WithError(err).Error("store write failed")
		return nil, fmt.Errorf("create service: %w", err)
	}

	log.WithFields(log.Fields{"uuid": svc.UUID, "name": svc.Name}).Info("created service")
	return svc, nil
}

// PatchService overwrites only the supplied fields of an existing service.
// The read and the update run in one transaction, so either the full patch
// commits or subsequent reads see the prior state.
func (s *Storage) PatchService(serviceUUID string, name, description *string) (*models.Service, error) {
	var svc models.Service
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&svc, "uuid = ?", serviceUUID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, serviceUUID)
			}
			return fmt.Errorf("get service: %w", err)
		}

		updates := map[string]interface{}{}
		if name != nil {
			updates["name"] = *name
			svc.Name = *name
		}
		if description != nil {
			updates["description"] = *description
			svc.Description = *description
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&models.Service{}).Where("uuid = ?", serviceUUID).Updates(updates).Error; err != nil {
			return fmt.Errorf("patch service: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.WithFields(log.Fields{
				"operation": "patch_service",
				"uuid":      serviceUUID,
			}).WithError(err).Error("store write failed")
		}
		return nil, err
	}

	var versionCount int64
	if err := s.db.Model(&models.Version{}).Where("service_uuid = ?", serviceUUID).Count(&versionCount).Error; err != nil {
		return nil, fmt.Errorf("count versions: %w", err)
	}
	svc.VersionCount = int(versionCount)

	log.WithField("uuid", serviceUUID).Info("patched service")
	return &svc, nil
}

// DeleteService removes a service and all of its versions in a single
// transaction, so neither side of the aggregate is ever observed deleted
// without the other. Deleting an absent uuid is a successful no-op.
func (s *Storage) DeleteService(serviceUUID string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_uuid = ?", serviceUUID).Delete(&models.Version{}).Error; err != nil {
			return fmt.Errorf("delete versions: %w", err)
		}
		result := tx.Where("uuid = ?", serviceUUID).Delete(&models.Service{})
		if result.Error != nil {
			return fmt.Errorf("delete service: %w", result.Error)
		}
		log.WithFields(log.Fields{
			"uuid":     serviceUUID,
			"affected": result.RowsAffected,
		}).Info("deleted service")
		return nil
	})
	if err != nil {
		log.WithFields(log.Fields{
			"operation": "delete_service",
			"uuid":      serviceUUID,
		}).WithError(err).Error("store write failed")
	}
	return err
}
