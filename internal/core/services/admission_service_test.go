package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"scouthub/internal/core/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func admissionFixture(t *testing.T) (*AdmissionService, *fakeRequestRepo, *fakeStore) {
	t.Helper()
	repo := newFakeRequestRepo()
	store := newFakeStore()
	svc := NewAdmissionService(repo, NewScopeService(scopeFixture()), store, quietLogger())
	return svc, repo, store
}

func troopActor() Actor {
	return Actor{AccountID: 10, Role: domain.RoleTroop, UnitCode: "12.345-01.001"}
}

func branchActor() Actor {
	return Actor{AccountID: 1, Role: domain.RoleBranch, UnitCode: "12.34"}
}

func pdfUpload() *Upload {
	return &Upload{Filename: "birth-cert.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4")}
}

func TestAdmissionCreate(t *testing.T) {
	svc, repo, store := admissionFixture(t)

	req, err := svc.Create(context.Background(), troopActor(), &CreateRequestInput{
		ApplicantName: "Budi Santoso",
		Level:         "PENGGALANG_RAMU",
		Document:      pdfUpload(),
	})
	require.NoError(t, err)

	assert.Equal(t, "12.345-01.001", req.UnitCode)
	assert.Equal(t, "12.34", req.TargetBranchCode, "branch is resolved once at creation")
	assert.Equal(t, domain.RequestPending, req.Status)
	require.NotEmpty(t, req.DocumentPath)
	assert.True(t, strings.HasPrefix(req.DocumentPath, "documents/"))
	assert.Contains(t, store.objects, req.DocumentPath)

	stored, err := repo.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.DocumentPath, stored.DocumentPath)
}

func TestAdmissionCreateRejections(t *testing.T) {
	svc, _, _ := admissionFixture(t)
	ctx := context.Background()

	t.Run("non-troop actor", func(t *testing.T) {
		_, err := svc.Create(ctx, branchActor(), &CreateRequestInput{
			ApplicantName: "Budi",
			Level:         "PANDEGA",
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("unknown level", func(t *testing.T) {
		_, err := svc.Create(ctx, troopActor(), &CreateRequestInput{
			ApplicantName: "Budi",
			Level:         "EAGLE",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unsupported document type", func(t *testing.T) {
		_, err := svc.Create(ctx, troopActor(), &CreateRequestInput{
			ApplicantName: "Budi",
			Level:         "PANDEGA",
			Document:      &Upload{Filename: "x.gif", ContentType: "image/gif", Data: []byte("GIF89a")},
		})
		assert.ErrorIs(t, err, ErrBadDocumentType)
	})

	t.Run("document over the size limit", func(t *testing.T) {
		_, err := svc.Create(ctx, troopActor(), &CreateRequestInput{
			ApplicantName: "Budi",
			Level:         "PANDEGA",
			Document:      &Upload{Filename: "x.pdf", ContentType: "application/pdf", Data: make([]byte, maxDocumentSize+1)},
		})
		assert.ErrorIs(t, err, ErrDocumentTooLarge)
	})
}

func TestAdmissionCreateCleansOrphanOnFailure(t *testing.T) {
	svc, repo, store := admissionFixture(t)
	repo.createErr = context.DeadlineExceeded

	_, err := svc.Create(context.Background(), troopActor(), &CreateRequestInput{
		ApplicantName: "Budi",
		Level:         "PANDEGA",
		Document:      pdfUpload(),
	})
	require.Error(t, err)
	assert.Empty(t, store.objects, "uploaded document is removed when the row insert fails")
}

func TestAdmissionDecideAccept(t *testing.T) {
	svc, repo, store := admissionFixture(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, troopActor(), &CreateRequestInput{
		ApplicantName: "Budi Santoso",
		Level:         "PENEGAK_BANTARA",
		Document:      pdfUpload(),
	})
	require.NoError(t, err)

	decided, err := svc.Decide(ctx, branchActor(), req.ID, &DecideInput{
		Status:   "ACCEPTED",
		MemberID: "12345678901234",
		Note:     "welcome",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RequestAccepted, decided.Status)
	require.NotNil(t, decided.MemberIDAssigned)
	assert.Equal(t, "1234.56.789.01234", *decided.MemberIDAssigned)

	member, ok := repo.members["1234.56.789.01234"]
	require.True(t, ok, "member minted from the request")
	assert.Equal(t, "Budi Santoso", member.Name)
	assert.Equal(t, domain.LevelPenegakBantara, member.Level)
	assert.Equal(t, domain.ActivityActive, member.ActivityStatus)
	assert.Equal(t, "12.345-01.001", member.UnitCode)

	require.Len(t, repo.histories, 1)
	assert.Equal(t, domain.LevelPenegakBantara, repo.histories[0].Level)

	assert.Empty(t, store.objects, "document removed after commit")
	stored, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.DocumentPath)
}

func TestAdmissionDecideReject(t *testing.T) {
	svc, repo, _ := admissionFixture(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, troopActor(), &CreateRequestInput{
		ApplicantName: "Budi",
		Level:         "PANDEGA",
	})
	require.NoError(t, err)

	decided, err := svc.Decide(ctx, branchActor(), req.ID, &DecideInput{
		Status: "REJECTED",
		Note:   "incomplete paperwork",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RequestRejected, decided.Status)
	assert.Equal(t, "incomplete paperwork", decided.Note)
	assert.Empty(t, repo.members, "no member minted on rejection")
}

func TestAdmissionDecideGuards(t *testing.T) {
	svc, _, _ := admissionFixture(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, troopActor(), &CreateRequestInput{
		ApplicantName: "Budi",
		Level:         "PANDEGA",
	})
	require.NoError(t, err)

	t.Run("non-branch actor", func(t *testing.T) {
		_, err := svc.Decide(ctx, troopActor(), req.ID, &DecideInput{Status: "REJECTED"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("another branch", func(t *testing.T) {
		other := Actor{AccountID: 2, Role: domain.RoleBranch, UnitCode: "56.78"}
		_, err := svc.Decide(ctx, other, req.ID, &DecideInput{Status: "REJECTED"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("missing request", func(t *testing.T) {
		_, err := svc.Decide(ctx, branchActor(), 999, &DecideInput{Status: "REJECTED"})
		assert.ErrorIs(t, err, ErrRequestNotFound)
	})

	t.Run("unknown decision", func(t *testing.T) {
		_, err := svc.Decide(ctx, branchActor(), req.ID, &DecideInput{Status: "MAYBE"})
		assert.ErrorIs(t, err, ErrUnknownDecision)
	})

	t.Run("note over the word limit", func(t *testing.T) {
		_, err := svc.Decide(ctx, branchActor(), req.ID, &DecideInput{
			Status: "REJECTED",
			Note:   strings.Repeat("word ", noteWordLimit+1),
		})
		assert.ErrorIs(t, err, ErrNoteTooLong)
	})

	t.Run("accept without member id", func(t *testing.T) {
		_, err := svc.Decide(ctx, branchActor(), req.ID, &DecideInput{Status: "ACCEPTED"})
		assert.ErrorIs(t, err, ErrMemberIDRequired)
	})

	t.Run("re-deciding a decided request", func(t *testing.T) {
		_, err := svc.Decide(ctx, branchActor(), req.ID, &DecideInput{Status: "REJECTED"})
		require.NoError(t, err)
		_, err = svc.Decide(ctx, branchActor(), req.ID, &DecideInput{Status: "ACCEPTED", MemberID: "12345678901234"})
		assert.ErrorIs(t, err, ErrRequestDecided)
	})
}

func TestAdmissionAcceptDuplicateMemberID(t *testing.T) {
	svc, repo, _ := admissionFixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, troopActor(), &CreateRequestInput{ApplicantName: "Budi", Level: "PANDEGA"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, troopActor(), &CreateRequestInput{ApplicantName: "Siti", Level: "PANDEGA"})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, branchActor(), first.ID, &DecideInput{Status: "ACCEPTED", MemberID: "12345678901234"})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, branchActor(), second.ID, &DecideInput{Status: "ACCEPTED", MemberID: "1234.56.789.01234"})
	assert.ErrorIs(t, err, ErrMemberIDTaken)

	stored, err := repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestPending, stored.Status, "losing request stays pending")
	assert.Nil(t, stored.MemberIDAssigned)
	assert.Len(t, repo.members, 1, "only one member minted")
}

func TestAdmissionAcceptCleanupFailure(t *testing.T) {
	svc, repo, store := admissionFixture(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, troopActor(), &CreateRequestInput{
		ApplicantName: "Budi",
		Level:         "PANDEGA",
		Document:      pdfUpload(),
	})
	require.NoError(t, err)

	store.failDelete = true
	decided, err := svc.Decide(ctx, branchActor(), req.ID, &DecideInput{Status: "ACCEPTED", MemberID: "12345678901234"})
	assert.ErrorIs(t, err, ErrDocumentCleanup)

	// the transaction committed: member exists and the request is decided
	require.NotNil(t, decided)
	assert.Equal(t, domain.RequestAccepted, decided.Status)
	assert.Len(t, repo.members, 1)
	stored, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestAccepted, stored.Status)
}

func TestAdmissionEdit(t *testing.T) {
	svc, _, store := admissionFixture(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, troopActor(), &CreateRequestInput{
		ApplicantName: "Budi",
		Level:         "PANDEGA",
		Document:      pdfUpload(),
	})
	require.NoError(t, err)
	oldPath := req.DocumentPath

	name := "Budi Santoso"
	level := "PENEGAK_LAKSANA"
	edited, err := svc.Edit(ctx, troopActor(), req.ID, &EditRequestInput{
		ApplicantName: &name,
		Level:         &level,
		Document:      &Upload{Filename: "new.png", ContentType: "image/png", Data: []byte("png")},
	})
	require.NoError(t, err)

	assert.Equal(t, "Budi Santoso", edited.ApplicantName)
	assert.Equal(t, domain.LevelPenegakLaksana, edited.Level)
	assert.NotEqual(t, oldPath, edited.DocumentPath)
	assert.Contains(t, store.deleted, oldPath, "replaced document removed first")

	t.Run("other troop cannot edit", func(t *testing.T) {
		other := Actor{AccountID: 11, Role: domain.RoleTroop, UnitCode: "12.345-02.001"}
		_, err := svc.Edit(ctx, other, req.ID, &EditRequestInput{ApplicantName: &name})
		assert.ErrorIs(t, err, ErrNotRequestOwner)
	})

	t.Run("decided request cannot be edited", func(t *testing.T) {
		_, err := svc.Decide(ctx, branchActor(), req.ID, &DecideInput{Status: "REJECTED"})
		require.NoError(t, err)
		_, err = svc.Edit(ctx, troopActor(), req.ID, &EditRequestInput{ApplicantName: &name})
		assert.ErrorIs(t, err, ErrRequestDecided)
	})
}

func TestAdmissionGetByIDVisibility(t *testing.T) {
	svc, _, store := admissionFixture(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, troopActor(), &CreateRequestInput{
		ApplicantName: "Budi",
		Level:         "PANDEGA",
		Document:      pdfUpload(),
	})
	require.NoError(t, err)

	t.Run("owning troop sees it with a document URL", func(t *testing.T) {
		got, err := svc.GetByID(ctx, troopActor(), req.ID)
		require.NoError(t, err)
		assert.Equal(t, store.PublicURL(req.DocumentPath), got.DocumentURL)
	})

	t.Run("target branch sees it", func(t *testing.T) {
		_, err := svc.GetByID(ctx, branchActor(), req.ID)
		assert.NoError(t, err)
	})

	t.Run("system admin sees it", func(t *testing.T) {
		_, err := svc.GetByID(ctx, Actor{Role: domain.RoleSystemAdmin}, req.ID)
		assert.NoError(t, err)
	})

	t.Run("sibling troop does not", func(t *testing.T) {
		other := Actor{AccountID: 11, Role: domain.RoleTroop, UnitCode: "12.345-02.001"}
		_, err := svc.GetByID(ctx, other, req.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("another branch does not", func(t *testing.T) {
		other := Actor{AccountID: 2, Role: domain.RoleBranch, UnitCode: "56.78"}
		_, err := svc.GetByID(ctx, other, req.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestAdmissionList(t *testing.T) {
	svc, _, _ := admissionFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, troopActor(), &CreateRequestInput{ApplicantName: "Budi", Level: "PANDEGA"})
	require.NoError(t, err)
	otherTroop := Actor{AccountID: 11, Role: domain.RoleTroop, UnitCode: "12.345-02.001"}
	_, err = svc.Create(ctx, otherTroop, &CreateRequestInput{ApplicantName: "Siti", Level: "PANDEGA"})
	require.NoError(t, err)

	t.Run("troop sees only its own", func(t *testing.T) {
		out, total, err := svc.List(ctx, troopActor(), &ListRequestsInput{})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, out, 1)
		assert.Equal(t, "12.345-01.001", out[0].UnitCode)
	})

	t.Run("branch sees everything addressed to it", func(t *testing.T) {
		_, total, err := svc.List(ctx, branchActor(), &ListRequestsInput{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("sub-branch narrowed by an in-scope unit filter", func(t *testing.T) {
		sub := Actor{AccountID: 5, Role: domain.RoleSubBranch, UnitCode: "12.34.02"}
		out, total, err := svc.List(ctx, sub, &ListRequestsInput{UnitCode: "12.345-02.001"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, out, 1)
		assert.Equal(t, "12.345-02.001", out[0].UnitCode)
	})

	t.Run("out-of-scope unit filter is ignored", func(t *testing.T) {
		sub := Actor{AccountID: 5, Role: domain.RoleSubBranch, UnitCode: "12.34.01"}
		out, total, err := svc.List(ctx, sub, &ListRequestsInput{UnitCode: "12.345-02.001"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, out, 1)
		assert.Equal(t, "12.345-01.001", out[0].UnitCode)
	})

	t.Run("unknown status filter", func(t *testing.T) {
		_, _, err := svc.List(ctx, branchActor(), &ListRequestsInput{Status: "LIMBO"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
