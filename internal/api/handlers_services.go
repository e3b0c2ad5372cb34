package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// listServices handles GET /services
// @Summary List services
// @Description Get one page of catalog services with derived version counts
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param size query int false "Page size, 1-50 (default 10)"
// @Param sort_field query string false "Sort field (default name)"
// @Param order query string false "Sort order: ASC or DESC (default ASC)"
// @Param search query string false "Substring to match"
// @Param search_field query string false "Field to search (default name)"
// @Success 200 {object} models.Page "Page of services"
// @Failure 400 {object} APIError "Invalid query parameters"
// @Failure 401 {object} APIError "Unauthorized"
// @Router /services [get]
func (s *Server) listServices(c echo.Context) error {
	opts, err := parseListOptions(c)
	if err != nil {
		return err
	}

	page, err := s.storage.ListServices(opts)
	if err != nil {
		return storageError(err, "list services")
	}

	return c.JSON(http.StatusOK, page)
}

// getService handles GET /services/:uuid
// @Summary Get service by UUID
// @Description Get a single service; pass versions=true to include its versions newest-first
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Service UUID"
// @Param versions query bool false "Include the version collection"
// @Success 200 {object} models.Service "Service"
// @Failure 401 {object} APIError "Unauthorized"
// @Failure 404 {object} APIError "Service not found"
// @Router /services/{uuid} [get]
func (s *Server) getService(c echo.Context) error {
	uuid := c.Param("uuid")

	includeVersions := false
	if raw := c.QueryParam("versions"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return BadRequestError("Invalid versions flag", "versions must be a boolean")
		}
		includeVersions = parsed
	}

	svc, err := s.storage.GetService(uuid, includeVersions)
	if err != nil {
		return storageError(err, "get service")
	}

	return c.JSON(http.StatusOK, svc)
}

// createService handles POST /services
// @Summary Create a service
// @Description Create a new catalog service under a fresh UUID
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param service body CreateServiceRequest true "Service to create"
// @Success 201 {object} models.Service "Created service"
// @Failure 400 {object} APIError "Invalid request body"
// @Failure 401 {object} APIError "Unauthorized"
// @Failure 403 {object} APIError "Write role required"
// @Router /services [post]
func (s *Server) createService(c echo.Context) error {
	var req CreateServiceRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid request body", err.Error())
	}

	if fields, err := s.validator.Struct(req); err != nil {
		return BadRequestError("Invalid request body", err.Error())
	} else if fields != nil {
		return ValidationError("Invalid service", fields)
	}

	svc, err := s.storage.CreateService(req.Name, req.Description)
	if err != nil {
		return storageError(err, "create service")
	}

	return c.JSON(http.StatusCreated, svc)
}

// updateService handles PATCH /services/:uuid
// @Summary Patch a service
// @Description Overwrite only the supplied name/description fields
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Service UUID"
// @Param service body UpdateServiceRequest true "Fields to update"
// @Success 200 {object} models.Service "Updated service"
// @Failure 400 {object} APIError "Invalid request body"
// @Failure 401 {object} APIError "Unauthorized"
// @Failure 403 {object} APIError "Write role required"
// @Failure 404 {object} APIError "Service not found"
// @Router /services/{uuid} [patch]
func (s *Server) updateService(c echo.Context) error {
	uuid := c.Param("uuid")

	var req UpdateServiceRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid request body", err.Error())
	}

	if fields, err := s.validator.Struct(req); err != nil {
		return BadRequestError("Invalid request body", err.Error())
	} else if fields != nil {
		return ValidationError("Invalid service", fields)
	}

	svc, err := s.storage.PatchService(uuid, req.Name, req.Description)
	if err != nil {
		return storageError(err, "patch service")
	}

	return c.JSON(http.StatusOK, svc)
}

// deleteService handles DELETE /services/:uuid
// @Summary Delete a service
// @Description Delete a service and cascade to its versions; idempotent
// @Tags Services
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param uuid path string true "Service UUID"
// @Success 200 {object} MessageResponse "Deleted"
// @Failure 401 {object} APIError "Unauthorized"
// @Failure 403 {object} APIError "Write role required"
// @Router /services/{uuid} [delete]
func (s *Server) deleteService(c echo.Context) error {
	uuid := c.Param("uuid")

	if err := s.storage.DeleteService(uuid); err != nil {
		return storageError(err, "delete service")
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "service deleted", ID: uuid})
}
