package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// createVersion handles POST /services/:uuid/versions
// @Summary Add a version to a service
// @Description Append a release version; the number must be unique within the service
// @Tags Versions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Service UUID"
// @Param version body CreateVersionRequest true "Version to add"
// @Success 201 {object} models.Service "Service including the new version"
// @Failure 400 {object} APIError "Invalid body or duplicate version number"
// @Failure 401 {object} APIError "Unauthorized"
// @Failure 403 {object} APIError "Write role required"
// @Failure 404 {object} APIError "Service not found"
// @Router /services/{uuid}/versions [post]
func (s *Server) createVersion(c echo.Context) error {
	uuid := c.Param("uuid")

	var req CreateVersionRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid request body", err.Error())
	}

	if fields, err := s.validator.Struct(req); err != nil {
		return BadRequestError("Invalid request body", err.Error())
	} else if fields != nil {
		return ValidationError("Invalid version", fields)
	}

	svc, err := s.storage.AddVersion(uuid, req.Number, req.ReleaseDate)
	if err != nil {
		return storageError(err, "add version")
	}

	return c.JSON(http.StatusCreated, svc)
}

// deleteVersion handles DELETE /services/:uuid/versions/:number
// @Summary Remove a version from a service
// @Description Delete the version matching the number under the service scope; idempotent
// @Tags Versions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Service UUID"
// @Param number path string true "Version number"
// @Success 200 {object} MessageResponse "Removed"
// @Failure 401 {object} APIError "Unauthorized"
// @Failure 403 {object} APIError "Write role required"
// @Router /services/{uuid}/versions/{number} [delete]
func (s *Server) deleteVersion(c echo.Context) error {
	uuid := c.Param("uuid")
	number := c.Param("number")

	if err := s.storage.RemoveVersion(uuid, number); err != nil {
		return storageError(err, "remove version")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "version removed", ID: uuid})
}
