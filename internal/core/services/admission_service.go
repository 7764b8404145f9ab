package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"scouthub/internal/adapters/persistence/models"
	"scouthub/internal/adapters/persistence/repositories"
	"scouthub/internal/adapters/storage"
	"scouthub/internal/core/domain"
	"scouthub/internal/pkg/identifier"
	"scouthub/internal/pkg/validate"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Admission service errors
var (
	ErrRequestNotFound  = errors.New("membership request not found")
	ErrRequestDecided   = errors.New("membership request already decided")
	ErrNotRequestOwner  = errors.New("request belongs to another unit")
	ErrMemberIDTaken    = errors.New("member identifier already assigned")
	ErrNoteTooLong      = errors.New("note exceeds the word limit")
	ErrBadDocumentType  = errors.New("unsupported document type")
	ErrDocumentTooLarge = errors.New("document exceeds the size limit")
	ErrDocumentCleanup  = errors.New("request decided but document cleanup failed")
	ErrUnknownDecision  = errors.New("unknown decision status")
	ErrMemberIDRequired = errors.New("member identifier is required to accept")
)

const (
	noteWordLimit   = 300
	maxDocumentSize = 2 << 20 // 2 MiB

	txTimeout = 5 * time.Second
)

// allowed supporting-document content types
var documentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

// AdmissionService drives the membership-request workflow
type AdmissionService struct {
	requestRepo repositories.RequestRepository
	scope       *ScopeService
	store       ObjectStore
	log         *logrus.Logger
}

// NewAdmissionService creates a new admission service
func NewAdmissionService(
	requestRepo repositories.RequestRepository,
	scope *ScopeService,
	store ObjectStore,
	log *logrus.Logger,
) *AdmissionService {
	return &AdmissionService{
		requestRepo: requestRepo,
		scope:       scope,
		store:       store,
		log:         log,
	}
}

// CreateRequestInput represents create request input
type CreateRequestInput struct {
	ApplicantName string     `json:"applicant_name" validate:"required,max=100"`
	BirthPlace    string     `json:"birth_place,omitempty" validate:"max=100"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	Gender        string     `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE"`
	Level         string     `json:"level" validate:"required"`
	Document      *Upload    `json:"-"`
}

// Create creates a new membership request (Troop actors only). The
// owning branch code is resolved once, here, so deciding later never
// re-walks the tree.
func (s *AdmissionService) Create(ctx context.Context, actor Actor, input *CreateRequestInput) (*models.MembershipRequest, error) {
	if actor.Role != domain.RoleTroop {
		return nil, fmt.Errorf("%w: only a troop account may submit requests", domain.ErrForbidden)
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	level, ok := domain.ParseLevel(input.Level)
	if !ok {
		return nil, fmt.Errorf("%w: unknown level %q", domain.ErrInvalidInput, input.Level)
	}
	if err := checkDocument(input.Document); err != nil {
		return nil, err
	}

	branchCode, err := s.scope.ResolveBranchCode(ctx, actor.UnitCode)
	if err != nil {
		return nil, err
	}

	req := &models.MembershipRequest{
		UnitCode:         actor.UnitCode,
		TargetBranchCode: branchCode,
		ApplicantName:    input.ApplicantName,
		BirthPlace:       input.BirthPlace,
		BirthDate:        input.BirthDate,
		Gender:           input.Gender,
		Level:            level,
		Status:           domain.RequestPending,
	}

	if input.Document != nil {
		path := storage.ObjectPath(storage.NamespaceDocuments, input.Document.Filename)
		if _, err := s.store.Put(ctx, path, input.Document.Data, input.Document.ContentType); err != nil {
			return nil, fmt.Errorf("%w: document upload failed: %v", domain.ErrInternalServer, err)
		}
		req.DocumentPath = path
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		if req.DocumentPath != "" {
			if derr := s.store.Delete(ctx, req.DocumentPath); derr != nil {
				s.log.WithError(derr).WithField("path", req.DocumentPath).
					Warn("orphaned document left in storage after failed request create")
			}
		}
		return nil, err
	}

	return req, nil
}

// EditRequestInput represents edit request input
type EditRequestInput struct {
	ApplicantName *string    `json:"applicant_name,omitempty" validate:"omitempty,max=100"`
	BirthPlace    *string    `json:"birth_place,omitempty" validate:"omitempty,max=100"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	Gender        *string    `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE"`
	Level         *string    `json:"level,omitempty"`
	Document      *Upload    `json:"-"`
}

// Edit updates a pending request owned by the acting troop. Replacing
// the document deletes the previous artifact first, best-effort: a
// failed delete is logged and the new upload proceeds.
func (s *AdmissionService) Edit(ctx context.Context, actor Actor, id uint, input *EditRequestInput) (*models.MembershipRequest, error) {
	req, err := s.ownedRequest(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if req.Status.Terminal() {
		return nil, ErrRequestDecided
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if err := checkDocument(input.Document); err != nil {
		return nil, err
	}

	if input.ApplicantName != nil {
		req.ApplicantName = *input.ApplicantName
	}
	if input.BirthPlace != nil {
		req.BirthPlace = *input.BirthPlace
	}
	if input.BirthDate != nil {
		req.BirthDate = input.BirthDate
	}
	if input.Gender != nil {
		req.Gender = *input.Gender
	}
	if input.Level != nil {
		level, ok := domain.ParseLevel(*input.Level)
		if !ok {
			return nil, fmt.Errorf("%w: unknown level %q", domain.ErrInvalidInput, *input.Level)
		}
		req.Level = level
	}

	if input.Document != nil {
		if req.DocumentPath != "" {
			if err := s.store.Delete(ctx, req.DocumentPath); err != nil {
				s.log.WithError(err).WithField("path", req.DocumentPath).
					Warn("failed to delete replaced document")
			}
		}
		path := storage.ObjectPath(storage.NamespaceDocuments, input.Document.Filename)
		if _, err := s.store.Put(ctx, path, input.Document.Data, input.Document.ContentType); err != nil {
			return nil, fmt.Errorf("%w: document upload failed: %v", domain.ErrInternalServer, err)
		}
		req.DocumentPath = path
	}

	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// DecideInput represents the decision body
type DecideInput struct {
	Status   string `json:"status" validate:"required"`
	MemberID string `json:"member_id,omitempty"`
	Note     string `json:"note,omitempty"`
}

// Decide transitions a pending request to Accepted or Rejected. Only
// the branch the request targets may decide it, and a decided request
// stays decided.
func (s *AdmissionService) Decide(ctx context.Context, actor Actor, id uint, input *DecideInput) (*models.MembershipRequest, error) {
	if actor.Role != domain.RoleBranch {
		return nil, fmt.Errorf("%w: only a branch account may decide requests", domain.ErrForbidden)
	}

	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if req.TargetBranchCode != actor.UnitCode {
		return nil, fmt.Errorf("%w: request targets branch %s", domain.ErrForbidden, req.TargetBranchCode)
	}
	if req.Status.Terminal() {
		return nil, ErrRequestDecided
	}
	if wordCount(input.Note) > noteWordLimit {
		return nil, ErrNoteTooLong
	}

	switch domain.RequestStatus(input.Status) {
	case domain.RequestAccepted:
		return s.accept(ctx, req, input)
	case domain.RequestRejected:
		req.Status = domain.RequestRejected
		req.Note = input.Note
		if err := s.requestRepo.Update(ctx, req); err != nil {
			return nil, err
		}
		return req, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDecision, input.Status)
	}
}

// accept runs the two phases of acceptance: (1) the atomic store
// transaction minting the member, its first level-history entry, and
// the request flip; (2) the best-effort document cleanup. A phase 2
// failure is surfaced as ErrDocumentCleanup so the caller can report it
// without implying the member was rolled back.
func (s *AdmissionService) accept(ctx context.Context, req *models.MembershipRequest, input *DecideInput) (*models.MembershipRequest, error) {
	if strings.TrimSpace(input.MemberID) == "" {
		return nil, ErrMemberIDRequired
	}
	memberID, err := identifier.CanonicalMemberID(input.MemberID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	member := &models.Member{
		MemberID:       memberID,
		Name:           req.ApplicantName,
		BirthPlace:     req.BirthPlace,
		BirthDate:      req.BirthDate,
		Gender:         req.Gender,
		Level:          req.Level,
		ActivityStatus: domain.ActivityActive,
		UnitCode:       req.UnitCode,
	}
	history := &models.MemberLevelHistory{
		Level:         req.Level,
		EffectiveDate: now,
	}

	req.Status = domain.RequestAccepted
	req.Note = input.Note
	req.MemberIDAssigned = &memberID

	txCtx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()
	if err := s.requestRepo.Accept(txCtx, req, member, history); err != nil {
		// undo the in-memory flip so callers never see a half-applied request
		req.Status = domain.RequestPending
		req.MemberIDAssigned = nil
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrMemberIDTaken, memberID)
		}
		return nil, err
	}

	if req.DocumentPath != "" {
		path := req.DocumentPath
		if err := s.store.Delete(ctx, path); err != nil {
			s.log.WithError(err).WithField("path", path).
				Error("accepted request's document could not be removed")
			return req, ErrDocumentCleanup
		}
		req.DocumentPath = ""
		if err := s.requestRepo.Update(ctx, req); err != nil {
			s.log.WithError(err).WithField("request_id", req.ID).
				Error("accepted request's document reference could not be cleared")
			return req, ErrDocumentCleanup
		}
	}

	return req, nil
}

// Delete removes a request owned by the acting troop. An attached
// document is deleted best-effort first; failure is logged and the row
// delete proceeds.
func (s *AdmissionService) Delete(ctx context.Context, actor Actor, id uint) error {
	req, err := s.ownedRequest(ctx, actor, id)
	if err != nil {
		return err
	}

	if req.DocumentPath != "" {
		if err := s.store.Delete(ctx, req.DocumentPath); err != nil {
			s.log.WithError(err).WithField("path", req.DocumentPath).
				Warn("failed to delete document of removed request")
		}
	}

	return s.requestRepo.Delete(ctx, req.ID)
}

// GetByID gets a request visible to the actor
func (s *AdmissionService) GetByID(ctx context.Context, actor Actor, id uint) (*models.RequestResponse, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	switch actor.Role {
	case domain.RoleSystemAdmin:
	case domain.RoleBranch:
		if req.TargetBranchCode != actor.UnitCode {
			return nil, fmt.Errorf("%w: request targets another branch", domain.ErrForbidden)
		}
	default:
		scope, err := s.scope.Resolve(ctx, actor.Role, actor.UnitCode)
		if err != nil {
			return nil, err
		}
		if !scope.Contains(req.UnitCode) {
			return nil, fmt.Errorf("%w: request outside your units", domain.ErrForbidden)
		}
	}

	return s.toResponse(req), nil
}

// ListRequestsInput represents request listing filters
type ListRequestsInput struct {
	Status   string
	UnitCode string
	Offset   int
	Limit    int
}

// List lists requests inside the actor's scope. Branch actors see the
// requests addressed to them; troop and sub-branch actors the ones
// their units submitted; SystemAdmin everything.
func (s *AdmissionService) List(ctx context.Context, actor Actor, input *ListRequestsInput) ([]*models.RequestResponse, int64, error) {
	var status *domain.RequestStatus
	if input.Status != "" {
		st := domain.RequestStatus(input.Status)
		if !st.Terminal() && st != domain.RequestPending {
			return nil, 0, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, input.Status)
		}
		status = &st
	}

	var (
		reqs  []*models.MembershipRequest
		total int64
		err   error
	)

	if actor.Role == domain.RoleBranch {
		reqs, total, err = s.requestRepo.ListByTargetBranch(ctx, actor.UnitCode, status, input.Offset, input.Limit)
	} else {
		scope, serr := s.scope.Resolve(ctx, actor.Role, actor.UnitCode)
		if serr != nil {
			return nil, 0, serr
		}
		reqs, total, err = s.requestRepo.ListByUnitCodes(ctx, scope.Narrow(input.UnitCode).Codes(), status, input.Offset, input.Limit)
	}
	if err != nil {
		return nil, 0, err
	}

	out := make([]*models.RequestResponse, len(reqs))
	for i, req := range reqs {
		out[i] = s.toResponse(req)
	}
	return out, total, nil
}

// ownedRequest fetches a request and enforces troop ownership
func (s *AdmissionService) ownedRequest(ctx context.Context, actor Actor, id uint) (*models.MembershipRequest, error) {
	if actor.Role != domain.RoleTroop {
		return nil, fmt.Errorf("%w: only the submitting troop may do this", domain.ErrForbidden)
	}

	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if req.UnitCode != actor.UnitCode {
		return nil, ErrNotRequestOwner
	}
	return req, nil
}

func (s *AdmissionService) toResponse(req *models.MembershipRequest) *models.RequestResponse {
	resp := req.ToResponse()
	if req.DocumentPath != "" {
		resp.DocumentURL = s.store.PublicURL(req.DocumentPath)
	}
	return resp
}

// checkDocument validates an optional supporting document upload
func checkDocument(doc *Upload) error {
	if doc == nil {
		return nil
	}
	if !documentTypes[strings.ToLower(doc.ContentType)] {
		return fmt.Errorf("%w: %s", ErrBadDocumentType, doc.ContentType)
	}
	if len(doc.Data) > maxDocumentSize {
		return ErrDocumentTooLarge
	}
	return nil
}

// wordCount counts whitespace-separated words
func wordCount(s string) int {
	return len(strings.Fields(s))
}
