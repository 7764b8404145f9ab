package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"scouthub/internal/adapters/http/middleware"
	"scouthub/internal/core/domain"
	"scouthub/internal/core/services"
	"scouthub/internal/pkg/pagination"
	"scouthub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MentorHandler handles mentor endpoints
type MentorHandler struct {
	mentorService *services.MentorService
}

// NewMentorHandler creates a new mentor handler
func NewMentorHandler(mentorService *services.MentorService) *MentorHandler {
	return &MentorHandler{mentorService: mentorService}
}

// CreateMentorRequest represents mentor registration body
type CreateMentorRequest struct {
	MemberID   string `json:"member_id"`
	Name       string `json:"name"`
	BirthPlace string `json:"birth_place"`
	BirthDate  string `json:"birth_date"`
	Gender     string `json:"gender"`
	Address    string `json:"address"`
}

// Create registers a mentor under the calling troop
func (h *MentorHandler) Create(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateMentorRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.MemberID == "" {
		return response.BadRequest(c, "Member ID is required")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}

	input := &services.CreateMentorInput{
		MemberID:   strings.TrimSpace(req.MemberID),
		Name:       strings.TrimSpace(req.Name),
		BirthPlace: strings.TrimSpace(req.BirthPlace),
		Gender:     strings.TrimSpace(req.Gender),
		Address:    req.Address,
	}
	if req.BirthDate != "" {
		birthDate, err := time.Parse(dateLayout, req.BirthDate)
		if err != nil {
			return response.BadRequest(c, "Birth date must be formatted YYYY-MM-DD")
		}
		input.BirthDate = &birthDate
	}

	mentor, err := h.mentorService.Create(c.Context(), actor, input)
	if err != nil {
		return h.mapError(c, err, "Failed to register mentor")
	}

	return response.Created(c, "Mentor registered successfully", mentor)
}

// List lists mentors inside the caller's scope
func (h *MentorHandler) List(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	input := &services.ListMentorsInput{
		UnitCode: strings.TrimSpace(c.Query("unit_code")),
		Search:   strings.TrimSpace(c.Query("search")),
		Offset:   params.Offset,
		Limit:    params.Limit,
	}

	mentors, total, err := h.mentorService.List(c.Context(), actor, input)
	if err != nil {
		return h.mapError(c, err, "Failed to list mentors")
	}

	return response.Success(c, "Mentors loaded", pagination.NewResponse(mentors, params, total))
}

// GetByID returns one mentor
func (h *MentorHandler) GetByID(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid mentor ID")
	}

	mentor, err := h.mentorService.GetByID(c.Context(), actor, uint(id))
	if err != nil {
		return h.mapError(c, err, "Failed to load mentor")
	}

	return response.Success(c, "Mentor loaded", mentor)
}

// Delete removes a mentor
func (h *MentorHandler) Delete(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid mentor ID")
	}

	if err := h.mentorService.Delete(c.Context(), actor, uint(id)); err != nil {
		return h.mapError(c, err, "Failed to delete mentor")
	}

	return response.Success(c, "Mentor deleted successfully", nil)
}

func (h *MentorHandler) mapError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrMentorNotFound):
		return response.NotFound(c, "Mentor not found")
	case errors.Is(err, services.ErrHomeUnitNotFound), errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, services.ErrMentorIDTaken):
		return response.Conflict(c, "Mentor identifier already registered")
	case errors.Is(err, services.ErrUnscopedRole), errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	default:
		return response.InternalServerError(c, fallback)
	}
}
