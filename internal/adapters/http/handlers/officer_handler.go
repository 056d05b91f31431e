package handlers

import (
	"errors"

	"github.com/harshdark/Rapid-Rescue/internal/core/domain"
	"github.com/harshdark/Rapid-Rescue/internal/core/services"
	"github.com/harshdark/Rapid-Rescue/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// OfficerHandler handles officer self-service endpoints
type OfficerHandler struct {
	complaintService *services.ComplaintService
	officerService   *services.OfficerService
}

// NewOfficerHandler creates a new officer handler
func NewOfficerHandler(complaintService *services.ComplaintService, officerService *services.OfficerService) *OfficerHandler {
	return &OfficerHandler{
		complaintService: complaintService,
		officerService:   officerService,
	}
}

// AvailabilityRequest represents an availability toggle body
type AvailabilityRequest struct {
	Available bool `json:"available"`
}

// LocationRequest represents a location report body
type LocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Assigned lists the complaints assigned to the calling officer
// @Summary List assigned complaints
// @Description List complaints currently assigned to the calling officer, newest first
// @Tags Officers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /officer/assigned [get]
func (h *OfficerHandler) Assigned(c *fiber.Ctx) error {
	officerID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	complaints, err := h.complaintService.ListByAssignedOfficer(c.Context(), officerID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list assigned complaints")
	}

	return response.Success(c, "Assigned complaints retrieved successfully", complaints)
}

// SetAvailability toggles the calling officer's availability
// @Summary Set own availability
// @Description Mark the calling officer available or busy
// @Tags Officers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AvailabilityRequest true "Availability"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /officer/availability [put]
func (h *OfficerHandler) SetAvailability(c *fiber.Ctx) error {
	officerID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req AvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.officerService.SetAvailability(c.Context(), officerID, req.Available); err != nil {
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

// UpdateLocation records the calling officer's current coordinates
// @Summary Report own location
// @Description Update the calling officer's coordinates used for nearest-officer assignment
// @Tags Officers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LocationRequest true "Coordinates"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /officer/location [put]
func (h *OfficerHandler) UpdateLocation(c *fiber.Ctx) error {
	officerID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
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
	if err := h.officerService.UpdateLocation(c.Context(), officerID, input); err != nil {
		switch {
		case errors.Is(err, domain.ErrOfficerNotFound):
			return response.NotFound(c, "Officer not found")
		default:
			return response.InternalServerError(c, "Failed to update location")
		}
	}

	return response.Success(c, "Location updated successfully", nil)
}
