package storage

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"evalgo.org/servium/models"
)

// AddVersion appends a release version to an existing service and returns
// the service with its versions loaded newest-first.
//
// Uniqueness of (service_uuid, number) is enforced by the store's composite
// unique index, not by a read-then-check scan: two concurrent adds of the
// same number serialize on the index and the loser surfaces as
// ErrDuplicateVersion. The release date defaults to the current time.
func (s *Storage) AddVersion(serviceUUID, number string, releaseDate *time.Time) (*models.Service, error) {
	var svc models.Service
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&svc, "uuid = ?", serviceUUID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrNotFound, serviceUUID)
			}
			return fmt.Errorf("get service: %w", err)
		}

		version := models.Version{
			ServiceUUID: serviceUUID,
			Number:      number,
			ReleaseDate: time.Now().UTC(),
		}
		if releaseDate != nil {
			version.ReleaseDate = *releaseDate
		}

		if err := tx.Create(&version).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s for service %s", ErrDuplicateVersion, number, serviceUUID)
			}
			return fmt.Errorf("create version: %w", err)
		}

		return tx.Where("service_uuid = ?", serviceUUID).
			Order("release_date DESC").
			Find(&svc.Versions).Error
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateVersion) {
			log.WithFields(log.Fields{"uuid": serviceUUID, "number": number}).Warn("duplicate version rejected")
		} else if !errors.Is(err, ErrNotFound) {
			log.WithFields(log.Fields{
				"operation": "add_version",
				"uuid":      serviceUUID,
			}).WithError(err).Error("store write failed")
		}
		return nil, err
	}

	svc.VersionCount = len(svc.Versions)

	log.WithFields(log.Fields{"uuid": serviceUUID, "number": number}).Info("added version")
	return &svc, nil
}

// RemoveVersion deletes the version row matching number under the given
// service scope. Removing an absent version (or a version of an absent
// service) is a successful no-op.
func (s *Storage) RemoveVersion(serviceUUID, number string) error {
	result := s.db.Where("service_uuid = ? AND number = ?", serviceUUID, number).
		Delete(&models.Version{})
	if result.Error != nil {
		log.WithFields(log.Fields{
			"operation": "remove_version",
			"uuid":      serviceUUID,
		}).WithError(result.Error).Error("store write failed")
		return fmt.Errorf("delete version: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		log.WithFields(log.Fields{"uuid": serviceUUID, "number": number}).Info("removed version")
	}
	return nil
}
