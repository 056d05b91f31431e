package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/harshdark/Rapid-Rescue/internal/core/domain"
	"github.com/harshdark/Rapid-Rescue/internal/core/services"
	"github.com/harshdark/Rapid-Rescue/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ComplaintHandler handles complaint endpoints
type ComplaintHandler struct {
	complaintService *services.ComplaintService
	statusService    *services.StatusService
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(complaintService *services.ComplaintService, statusService *services.StatusService) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaintService,
		statusService:    statusService,
	}
}

// SubmitRequest represents complaint submission body
type SubmitRequest struct {
	ReporterName string   `json:"reporter_name"`
	Email        string   `json:"email"`
	PhoneNumber  string   `json:"phone_number"`
	IncidentType string   `json:"incident_type"`
	Description  string   `json:"description"`
	Location     string   `json:"location"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	MapsLink     string   `json:"maps_link"`
	PhotoPath    *string  `json:"photo_path"`
}

// StatusRequest represents a status transition body
type StatusRequest struct {
	Status string `json:"status"`
}

// Submit handles complaint submission
// @Summary Submit a complaint
// @Description File a new complaint; auto-assigns the nearest available officer when coordinates are given
// @Tags Complaints
// @Accept json
// @Produce json
// @Param body body SubmitRequest true "Complaint data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /complaints [post]
func (h *ComplaintHandler) Submit(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if strings.TrimSpace(req.Description) == "" {
		return response.BadRequest(c, "Description is required")
	}

	// Reporter identity defaults to the logged-in user when present
	email := strings.TrimSpace(req.Email)
	if email == "" {
		if e, ok := c.Locals("email").(string); ok {
			email = e
		}
	}

	input := &services.CreateComplaintInput{
		ReporterName: strings.TrimSpace(req.ReporterName),
		Email:        email,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		IncidentType: strings.TrimSpace(req.IncidentType),
		Description:  strings.TrimSpace(req.Description),
		Location:     strings.TrimSpace(req.Location),
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		MapsLink:     strings.TrimSpace(req.MapsLink),
		PhotoPath:    req.PhotoPath,
	}

	result, err := h.complaintService.Create(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDescriptionRequired):
			return response.BadRequest(c, "Description is required")
		default:
			return response.InternalServerError(c, "Failed to submit complaint")
		}
	}

	return response.Created(c, "Complaint submitted successfully", result)
}

// Track handles public status lookup by reference code
// @Summary Track a complaint
// @Description Look up a complaint's status by its reference code
// @Tags Complaints
// @Accept json
// @Produce json
// @Param ref path string true "Reference code"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /complaints/track/{ref} [get]
func (h *ComplaintHandler) Track(c *fiber.Ctx) error {
	ref := c.Params("ref")
	if ref == "" {
		return response.BadRequest(c, "Reference code is required")
	}

	complaint, err := h.complaintService.Track(c.Context(), ref)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrComplaintNotFound):
			return response.NotFound(c, "Complaint not found")
		default:
			return response.InternalServerError(c, "Failed to track complaint")
		}
	}

	return response.Success(c, "Complaint retrieved successfully", fiber.Map{
		"ref_id":     complaint.RefID,
		"status":     complaint.Status,
		"created_at": complaint.CreatedAt,
	})
}

// My handles the caller's complaint list
// @Summary List my complaints
// @Description List complaints filed with the caller's email, newest first
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /complaints/my [get]
func (h *ComplaintHandler) My(c *fiber.Ctx) error {
	email, ok := c.Locals("email").(string)
	if !ok || email == "" {
		return response.Unauthorized(c, "Unauthorized")
	}

	complaints, err := h.complaintService.ListByEmail(c.Context(), email)
	if err != nil {
		return response.InternalServerError(c, "Failed to list complaints")
	}

	return response.Success(c, "Complaints retrieved successfully", complaints)
}

// Get handles complaint detail lookup (officer/admin)
// @Summary Get complaint detail
// @Description Get a complaint by its internal ID
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /complaints/{id} [get]
func (h *ComplaintHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid complaint ID")
	}

	complaint, err := h.complaintService.GetByID(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrComplaintNotFound):
			return response.NotFound(c, "Complaint not found")
		default:
			return response.InternalServerError(c, "Failed to get complaint")
		}
	}

	return response.Success(c, "Complaint retrieved successfully", complaint)
}

// History handles complaint audit trail lookup (officer/admin)
// @Summary Get complaint history
// @Description Get the full status history of a complaint in chronological order
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /complaints/{id}/history [get]
func (h *ComplaintHandler) History(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid complaint ID")
	}

	history, err := h.complaintService.History(c.Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrComplaintNotFound):
			return response.NotFound(c, "Complaint not found")
		default:
			return response.InternalServerError(c, "Failed to get complaint history")
		}
	}

	return response.Success(c, "Complaint history retrieved successfully", history)
}

// UpdateStatus handles a status transition (officer/admin)
// @Summary Update complaint status
// @Description Set a new status; terminal statuses release the assigned officer
// @Tags Complaints
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Complaint ID"
// @Param body body StatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /complaints/{id}/status [post]
func (h *ComplaintHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid complaint ID")
	}

	var req StatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actor := domain.SystemActor
	if username, ok := c.Locals("username").(string); ok && username != "" {
		actor = username
	}

	complaint, err := h.statusService.Transition(c.Context(), uint(id), req.Status, actor)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrStatusRequired):
			return response.BadRequest(c, "Status is required")
		case errors.Is(err, services.ErrComplaintNotFound):
			return response.NotFound(c, "Complaint not found")
		case errors.Is(err, services.ErrStatusConflict):
			return response.Conflict(c, "Complaint was updated concurrently, please retry")
		default:
			return response.InternalServerError(c, "Failed to update status")
		}
	}

	return response.Success(c, "Status updated successfully", fiber.Map{
		"ref_id": complaint.RefID,
		"status": complaint.Status,
	})
}
