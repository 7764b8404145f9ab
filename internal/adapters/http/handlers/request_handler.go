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

// RequestHandler handles membership-request endpoints
type RequestHandler struct {
	admissionService *services.AdmissionService
}

// NewRequestHandler creates a new membership-request handler
func NewRequestHandler(admissionService *services.AdmissionService) *RequestHandler {
	return &RequestHandler{admissionService: admissionService}
}

const dateLayout = "2006-01-02"

// Create submits a membership request with its supporting document
// (multipart form-data, Troop only)
func (h *RequestHandler) Create(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "Invalid multipart form")
	}

	input := &services.CreateRequestInput{
		ApplicantName: strings.TrimSpace(c.FormValue("applicant_name")),
		BirthPlace:    strings.TrimSpace(c.FormValue("birth_place")),
		Gender:        strings.TrimSpace(c.FormValue("gender")),
		Level:         strings.TrimSpace(c.FormValue("level")),
	}
	if input.ApplicantName == "" {
		return response.BadRequest(c, "Applicant name is required")
	}
	if input.Level == "" {
		return response.BadRequest(c, "Level is required")
	}

	if raw := c.FormValue("birth_date"); raw != "" {
		birthDate, err := time.Parse(dateLayout, raw)
		if err != nil {
			return response.BadRequest(c, "Birth date must be formatted YYYY-MM-DD")
		}
		input.BirthDate = &birthDate
	}

	if files := form.File["document"]; len(files) > 0 {
		upload, err := readUpload(files[0])
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		input.Document = upload
	}

	req, err := h.admissionService.Create(c.Context(), actor, input)
	if err != nil {
		return h.mapError(c, err, "Failed to create membership request")
	}

	return response.Created(c, "Membership request submitted", req.ToResponse())
}

// List lists membership requests visible to the caller
func (h *RequestHandler) List(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	input := &services.ListRequestsInput{
		Status:   strings.TrimSpace(c.Query("status")),
		UnitCode: strings.TrimSpace(c.Query("unit_code")),
		Offset:   params.Offset,
		Limit:    params.Limit,
	}

	requests, total, err := h.admissionService.List(c.Context(), actor, input)
	if err != nil {
		return h.mapError(c, err, "Failed to list membership requests")
	}

	return response.Success(c, "Membership requests loaded", pagination.NewResponse(requests, params, total))
}

// GetByID returns one membership request with its document URL
func (h *RequestHandler) GetByID(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	req, err := h.admissionService.GetByID(c.Context(), actor, uint(id))
	if err != nil {
		return h.mapError(c, err, "Failed to load membership request")
	}

	return response.Success(c, "Membership request loaded", req)
}

// Update edits a pending membership request (multipart form-data,
// owning Troop only); a new document replaces the old one.
func (h *RequestHandler) Update(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.BadRequest(c, "Invalid multipart form")
	}

	input := &services.EditRequestInput{
		ApplicantName: formField(form, "applicant_name"),
		BirthPlace:    formField(form, "birth_place"),
		Gender:        formField(form, "gender"),
		Level:         formField(form, "level"),
	}

	if raw := formField(form, "birth_date"); raw != nil {
		birthDate, err := time.Parse(dateLayout, *raw)
		if err != nil {
			return response.BadRequest(c, "Birth date must be formatted YYYY-MM-DD")
		}
		input.BirthDate = &birthDate
	}

	if files := form.File["document"]; len(files) > 0 {
		upload, err := readUpload(files[0])
		if err != nil {
			return response.BadRequest(c, err.Error())
		}
		input.Document = upload
	}

	req, err := h.admissionService.Edit(c.Context(), actor, uint(id), input)
	if err != nil {
		return h.mapError(c, err, "Failed to update membership request")
	}

	return response.Success(c, "Membership request updated", req.ToResponse())
}

// DecideRequest represents the decision body
type DecideRequest struct {
	Status   string `json:"status"`
	MemberID string `json:"member_id"`
	Note     string `json:"note"`
}

// Decide accepts or rejects a pending request (owning Branch only)
func (h *RequestHandler) Decide(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	var req DecideRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Status == "" {
		return response.BadRequest(c, "Status is required")
	}

	input := &services.DecideInput{
		Status:   strings.TrimSpace(req.Status),
		MemberID: strings.TrimSpace(req.MemberID),
		Note:     req.Note,
	}

	decided, err := h.admissionService.Decide(c.Context(), actor, uint(id), input)
	if err != nil {
		return h.mapError(c, err, "Failed to decide membership request")
	}

	return response.Success(c, "Membership request decided", decided.ToResponse())
}

// Delete removes a membership request (owning Troop only)
func (h *RequestHandler) Delete(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	if err := h.admissionService.Delete(c.Context(), actor, uint(id)); err != nil {
		return h.mapError(c, err, "Failed to delete membership request")
	}

	return response.Success(c, "Membership request deleted", nil)
}

func (h *RequestHandler) mapError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrRequestNotFound):
		return response.NotFound(c, "Membership request not found")
	case errors.Is(err, services.ErrHomeUnitNotFound), errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, services.ErrRequestDecided):
		return response.Conflict(c, "Membership request already decided")
	case errors.Is(err, services.ErrMemberIDTaken):
		return response.Conflict(c, "Member identifier already assigned")
	case errors.Is(err, services.ErrNotRequestOwner):
		return response.Forbidden(c, "Membership request belongs to another unit")
	case errors.Is(err, services.ErrUnscopedRole), errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNoteTooLong),
		errors.Is(err, services.ErrBadDocumentType),
		errors.Is(err, services.ErrDocumentTooLarge),
		errors.Is(err, services.ErrUnknownDecision),
		errors.Is(err, services.ErrMemberIDRequired),
		errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrDocumentCleanup):
		return response.InternalServerError(c, "Request decided but document cleanup failed")
	default:
		return response.InternalServerError(c, fallback)
	}
}
