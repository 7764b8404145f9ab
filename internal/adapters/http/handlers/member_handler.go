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

// MemberHandler handles member endpoints
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// CreateMemberRequest represents direct member registration body
type CreateMemberRequest struct {
	MemberID   string `json:"member_id"`
	Name       string `json:"name"`
	BirthPlace string `json:"birth_place"`
	BirthDate  string `json:"birth_date"`
	Gender     string `json:"gender"`
	Address    string `json:"address"`
	Level      string `json:"level"`
}

// Create registers a member under the calling troop
func (h *MemberHandler) Create(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.MemberID == "" {
		return response.BadRequest(c, "Member ID is required")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.Level == "" {
		return response.BadRequest(c, "Level is required")
	}

	input := &services.CreateMemberInput{
		MemberID:   strings.TrimSpace(req.MemberID),
		Name:       strings.TrimSpace(req.Name),
		BirthPlace: strings.TrimSpace(req.BirthPlace),
		Gender:     strings.TrimSpace(req.Gender),
		Address:    req.Address,
		Level:      strings.TrimSpace(req.Level),
	}
	if req.BirthDate != "" {
		birthDate, err := time.Parse(dateLayout, req.BirthDate)
		if err != nil {
			return response.BadRequest(c, "Birth date must be formatted YYYY-MM-DD")
		}
		input.BirthDate = &birthDate
	}

	member, err := h.memberService.Create(c.Context(), actor, input)
	if err != nil {
		return h.mapError(c, err, "Failed to register member")
	}

	return response.Created(c, "Member registered successfully", member)
}

// List lists members inside the caller's scope
func (h *MemberHandler) List(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	input := &services.ListMembersInput{
		UnitCode: strings.TrimSpace(c.Query("unit_code")),
		Search:   strings.TrimSpace(c.Query("search")),
		Offset:   params.Offset,
		Limit:    params.Limit,
	}

	members, total, err := h.memberService.List(c.Context(), actor, input)
	if err != nil {
		return h.mapError(c, err, "Failed to list members")
	}

	return response.Success(c, "Members loaded", pagination.NewResponse(members, params, total))
}

// GetByID returns one member with its level history
func (h *MemberHandler) GetByID(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.memberService.GetByID(c.Context(), actor, uint(id))
	if err != nil {
		return h.mapError(c, err, "Failed to load member")
	}

	return response.Success(c, "Member loaded", member)
}

// UpdateMemberRequest represents member edit body
type UpdateMemberRequest struct {
	Name           *string `json:"name"`
	BirthPlace     *string `json:"birth_place"`
	BirthDate      *string `json:"birth_date"`
	Gender         *string `json:"gender"`
	Address        *string `json:"address"`
	ActivityStatus *string `json:"activity_status"`
}

// Update edits a member's demographics or activity status
func (h *MemberHandler) Update(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	var req UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input := &services.UpdateMemberInput{
		Name:           req.Name,
		BirthPlace:     req.BirthPlace,
		Gender:         req.Gender,
		Address:        req.Address,
		ActivityStatus: req.ActivityStatus,
	}
	if req.BirthDate != nil {
		birthDate, err := time.Parse(dateLayout, *req.BirthDate)
		if err != nil {
			return response.BadRequest(c, "Birth date must be formatted YYYY-MM-DD")
		}
		input.BirthDate = &birthDate
	}

	member, err := h.memberService.Update(c.Context(), actor, uint(id), input)
	if err != nil {
		return h.mapError(c, err, "Failed to update member")
	}

	return response.Success(c, "Member updated successfully", member)
}

// ChangeLevelRequest represents a level-change body
type ChangeLevelRequest struct {
	Level         string `json:"level"`
	EffectiveDate string `json:"effective_date"`
}

// ChangeLevel appends an entry to the member's level history
func (h *MemberHandler) ChangeLevel(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	var req ChangeLevelRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Level == "" {
		return response.BadRequest(c, "Level is required")
	}

	input := &services.ChangeLevelInput{
		Level: strings.TrimSpace(req.Level),
	}
	if req.EffectiveDate != "" {
		effective, err := time.Parse(dateLayout, req.EffectiveDate)
		if err != nil {
			return response.BadRequest(c, "Effective date must be formatted YYYY-MM-DD")
		}
		input.EffectiveDate = &effective
	}

	member, err := h.memberService.ChangeLevel(c.Context(), actor, uint(id), input)
	if err != nil {
		return h.mapError(c, err, "Failed to change member level")
	}

	return response.Success(c, "Member level changed", member)
}

// Delete removes a member
func (h *MemberHandler) Delete(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	if err := h.memberService.Delete(c.Context(), actor, uint(id)); err != nil {
		return h.mapError(c, err, "Failed to delete member")
	}

	return response.Success(c, "Member deleted successfully", nil)
}

func (h *MemberHandler) mapError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrMemberNotFound):
		return response.NotFound(c, "Member not found")
	case errors.Is(err, services.ErrHomeUnitNotFound), errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, services.ErrMemberIDTaken):
		return response.Conflict(c, "Member identifier already assigned")
	case errors.Is(err, services.ErrUnscopedRole), errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	default:
		return response.InternalServerError(c, fallback)
	}
}
