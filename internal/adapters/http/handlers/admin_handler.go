package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/harshdark/Rapid-Rescue/internal/core/domain"
	"github.com/harshdark/Rapid-Rescue/internal/core/services"
	"github.com/harshdark/Rapid-Rescue/internal/pkg/pagination"
	"github.com/harshdark/Rapid-Rescue/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles admin dispatch endpoints
type AdminHandler struct {
	complaintService *services.ComplaintService
	officerService   *services.OfficerService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(complaintService *services.ComplaintService, officerService *services.OfficerService) *AdminHandler {
	return &AdminHandler{
		complaintService: complaintService,
		officerService:   officerService,
	}
}

// AssignRequest represents a manual assignment body
type AssignRequest struct {
	OfficerID uint `json:"officer_id"`
}

// CreateOfficerRequest represents officer provisioning body
type CreateOfficerRequest struct {
	Name      string   `json:"name"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	Phone     string   `json:"phone"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// SearchComplaints handles complaint search by reference-code substring
// @Summary Search complaints
// @Description Search complaints by reference-code substring; empty query lists all, newest first
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param ref query string false "Reference-code substring"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /admin/complaints [get]
func (h *AdminHandler) SearchComplaints(c *fiber.Ctx) error {
	ref := strings.ToUpper(strings.TrimSpace(c.Query("ref")))
	params := pagination.GetParams(c)

	complaints, total, err := h.complaintService.Search(c.Context(), ref, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to search complaints")
	}

	return response.Success(c, "Complaints retrieved successfully",
		pagination.NewResponse(complaints, params, total))
}

// AssignComplaint handles manual assignment of a complaint to an officer
// @Summary Assign complaint manually
// @Description Assign a complaint to a chosen available officer
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Param body body AssignRequest true "Officer"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /admin/complaints/{id}/assign [post]
func (h *AdminHandler) AssignComplaint(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid complaint ID")
	}

	var req AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.OfficerID == 0 {
		return response.BadRequest(c, "Officer ID is required")
	}

	actor := domain.SystemActor
	if username, ok := c.Locals("username").(string); ok && username != "" {
		actor = username
	}

	complaint, err := h.complaintService.AssignTo(c.Context(), uint(id), req.OfficerID, actor)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrComplaintNotFound):
			return response.NotFound(c, "Complaint not found")
		case errors.Is(err, domain.ErrOfficerNotFound):
			return response.NotFound(c, "Officer not found")
		case errors.Is(err, services.ErrComplaintAlreadyAssigned):
			return response.Conflict(c, "Complaint is already assigned")
		case errors.Is(err, services.ErrAssignmentUnavailable):
			return response.ServiceUnavailable(c, "Officer is not available")
		default:
			return response.InternalServerError(c, "Failed to assign complaint")
		}
	}

	return response.Success(c, "Complaint assigned successfully", fiber.Map{
		"ref_id":              complaint.RefID,
		"status":              complaint.Status,
		"assigned_officer_id": complaint.AssignedOfficerID,
	})
}

// CreateOfficer handles officer provisioning
// @Summary Create officer
// @Description Provision a new field officer account; new officers start available
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateOfficerRequest true "Officer data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/officers [post]
func (h *AdminHandler) CreateOfficer(c *fiber.Ctx) error {
	var req CreateOfficerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Username == "" {
		return response.BadRequest(c, "Username is required")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if len(req.Password) < 8 {
		return response.BadRequest(c, "Password must be at least 8 characters")
	}

	input := &services.CreateOfficerInput{
		Name:      strings.TrimSpace(req.Name),
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.TrimSpace(req.Email),
		Password:  req.Password,
		Phone:     strings.TrimSpace(req.Phone),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	officer, err := h.officerService.CreateOfficer(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEntry):
			return response.Conflict(c, "Username or email already exists")
		default:
			return response.InternalServerError(c, "Failed to create officer")
		}
	}

	return response.Created(c, "Officer created successfully", officer)
}

// ListOfficers handles the officer directory listing
// @Summary List officers
// @Description List all officers with availability and location
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/officers [get]
func (h *AdminHandler) ListOfficers(c *fiber.Ctx) error {
	officers, err := h.officerService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list officers")
	}

	out := make([]interface{}, 0, len(officers))
	for i := range officers {
		out = append(out, officers[i].ToResponse())
	}

	return response.Success(c, "Officers retrieved successfully", out)
}

// SetOfficerAvailability handles an availability override by the admin
// @Summary Set officer availability
// @Description Force an officer's availability flag
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Officer ID"
// @Param body body AvailabilityRequest true "Availability"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/officers/{id}/availability [put]
func (h *AdminHandler) SetOfficerAvailability(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid officer ID")
	}

	var req AvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.officerService.SetAvailability(c.Context(), uint(id), req.Available); err != nil {
		switch {
		case errors.Is(err, domain.ErrOfficerNotFound):
			return response.NotFound(c, "Officer not found")
		default:
			return response.InternalServerError(c, "Failed to update availability")
		}
	}

	return response.Success(c, "Availability updated successfully", fiber.Map{
		"available": req.Available,
	})
}

// SetOfficerLocation handles a location override by the admin
// @Summary Set officer location
// @Description Set an officer's coordinates
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Officer ID"
// @Param body body LocationRequest true "Coordinates"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/officers/{id}/location [put]
func (h *AdminHandler) SetOfficerLocation(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid officer ID")
	}

	var req LocationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Latitude == nil || req.Longitude == nil {
		return response.BadRequest(c, "Latitude and longitude are required")
	}

	input := &services.UpdateLocationInput{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	}
	if err := h.officerService.UpdateLocation(c.Context(), uint(id), input); err != nil {
		switch {
		case errors.Is(err, domain.ErrOfficerNotFound):
			return response.NotFound(c, "Officer not found")
		default:
			return response.InternalServerError(c, "Failed to update location")
		}
	}

	return response.Success(c, "Location updated successfully", nil)
}
