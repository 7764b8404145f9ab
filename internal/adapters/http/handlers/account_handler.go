package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"scouthub/internal/adapters/http/middleware"
	"scouthub/internal/core/domain"
	"scouthub/internal/core/services"
	"scouthub/internal/pkg/pagination"
	"scouthub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AccountHandler handles account provisioning endpoints
type AccountHandler struct {
	accountService *services.AccountService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccountRequest represents provisioning request body
type CreateAccountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	UnitCode string `json:"unit_code"`
	UnitName string `json:"unit_name"`
	Address  string `json:"address"`
}

// Create provisions an account one tier below the caller
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Username == "" {
		return response.BadRequest(c, "Username is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}
	if req.UnitCode == "" {
		return response.BadRequest(c, "Unit code is required")
	}
	if req.UnitName == "" {
		return response.BadRequest(c, "Unit name is required")
	}

	input := &services.CreateAccountInput{
		Username: strings.TrimSpace(req.Username),
		Password: req.Password,
		UnitCode: strings.TrimSpace(req.UnitCode),
		UnitName: strings.TrimSpace(req.UnitName),
		Address:  req.Address,
	}

	account, err := h.accountService.Create(c.Context(), actor, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCannotProvision):
			return response.Forbidden(c, "Your role may not provision accounts")
		case errors.Is(err, services.ErrUsernameTaken):
			return response.Conflict(c, "Username already taken")
		case errors.Is(err, services.ErrUnitTaken):
			return response.Conflict(c, "Unit code or name already taken")
		case errors.Is(err, services.ErrBadUsername), errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to provision account")
		}
	}

	return response.Created(c, "Account provisioned successfully", account.ToResponse())
}

// List lists the accounts the caller has provisioned
func (h *AccountHandler) List(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)
	accounts, total, err := h.accountService.List(c.Context(), actor, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list accounts")
	}

	return response.Success(c, "Accounts loaded", pagination.NewResponse(accounts, params, total))
}

// Update edits a subordinate account. Accepts JSON or multipart
// form-data; the unit photo can only arrive through multipart.
func (h *AccountHandler) Update(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	input, err := h.parseUpdate(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	account, err := h.accountService.Update(c.Context(), actor, uint(id), input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			return response.NotFound(c, "Account not found")
		case errors.Is(err, services.ErrNotAccountCreator), errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You may only edit accounts you created, one tier down")
		case errors.Is(err, services.ErrUsernameTaken):
			return response.Conflict(c, "Username already taken")
		case errors.Is(err, services.ErrUnitTaken):
			return response.Conflict(c, "Unit code or name already taken")
		case errors.Is(err, services.ErrBadUsername), errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to update account")
		}
	}

	return response.Success(c, "Account updated successfully", account.ToResponse())
}

// Delete removes a subordinate account and its unit
func (h *AccountHandler) Delete(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	if err := h.accountService.Delete(c.Context(), actor, uint(id)); err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			return response.NotFound(c, "Account not found")
		case errors.Is(err, services.ErrNotAccountCreator), errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You may only delete accounts you created, one tier down")
		default:
			return response.InternalServerError(c, "Failed to delete account")
		}
	}

	return response.Success(c, "Account deleted successfully", nil)
}

func (h *AccountHandler) parseUpdate(c *fiber.Ctx) (*services.UpdateAccountInput, error) {
	input := &services.UpdateAccountInput{}

	if !strings.HasPrefix(c.Get("Content-Type"), "multipart/form-data") {
		var req struct {
			Username *string `json:"username"`
			Password *string `json:"password"`
			UnitCode *string `json:"unit_code"`
			UnitName *string `json:"unit_name"`
			Address  *string `json:"address"`
		}
		if err := c.BodyParser(&req); err != nil {
			return nil, errors.New("invalid request body")
		}
		input.Username = req.Username
		input.Password = req.Password
		input.UnitCode = req.UnitCode
		input.UnitName = req.UnitName
		input.Address = req.Address
		return input, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.New("invalid multipart form")
	}

	input.Username = formField(form, "username")
	input.Password = formField(form, "password")
	input.UnitCode = formField(form, "unit_code")
	input.UnitName = formField(form, "unit_name")
	input.Address = formField(form, "address")

	if files := form.File["photo"]; len(files) > 0 {
		upload, err := readUpload(files[0])
		if err != nil {
			return nil, err
		}
		input.Photo = upload
	}

	return input, nil
}

// formField returns a pointer only when the field was present, so
// absent fields are left untouched downstream.
func formField(form *multipart.Form, name string) *string {
	values, ok := form.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := strings.TrimSpace(values[0])
	return &v
}

// readUpload loads a multipart file into an in-memory upload
func readUpload(header *multipart.FileHeader) (*services.Upload, error) {
	file, err := header.Open()
	if err != nil {
		return nil, errors.New("failed to open uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.New("failed to read uploaded file")
	}

	return &services.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
