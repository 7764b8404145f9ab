package services

import (
	"context"
	"testing"
	"time"

	"scouthub/internal/adapters/persistence/models"
	"scouthub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memberFixture(t *testing.T) (*MemberService, *fakeMemberRepo) {
	t.Helper()
	repo := newFakeMemberRepo()
	svc := NewMemberService(repo, NewScopeService(scopeFixture()))
	return svc, repo
}

func TestMemberCreate(t *testing.T) {
	svc, repo := memberFixture(t)
	ctx := context.Background()

	member, err := svc.Create(ctx, troopActor(), &CreateMemberInput{
		MemberID: "12345678901234",
		Name:     "Budi Santoso",
		Level:    "SIAGA_MULA",
	})
	require.NoError(t, err)

	assert.Equal(t, "1234.56.789.01234", member.MemberID)
	assert.Equal(t, domain.ActivityActive, member.ActivityStatus)
	assert.Equal(t, "12.345-01.001", member.UnitCode)

	history, err := repo.ListHistory(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, history, 1, "first level-history row written with the member")
	assert.Equal(t, domain.LevelSiagaMula, history[0].Level)

	t.Run("same identifier is a conflict", func(t *testing.T) {
		_, err := svc.Create(ctx, troopActor(), &CreateMemberInput{
			MemberID: "1234.56.789.01234",
			Name:     "Someone Else",
			Level:    "SIAGA_MULA",
		})
		assert.ErrorIs(t, err, ErrMemberIDTaken)
	})

	t.Run("non-troop may not create", func(t *testing.T) {
		_, err := svc.Create(ctx, branchActor(), &CreateMemberInput{
			MemberID: "22345678901234",
			Name:     "Someone",
			Level:    "SIAGA_MULA",
		})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestMemberChangeLevel(t *testing.T) {
	svc, repo := memberFixture(t)
	ctx := context.Background()

	member, err := svc.Create(ctx, troopActor(), &CreateMemberInput{
		MemberID: "12345678901234",
		Name:     "Budi",
		Level:    "SIAGA_MULA",
	})
	require.NoError(t, err)

	effective := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	updated, err := svc.ChangeLevel(ctx, troopActor(), member.ID, &ChangeLevelInput{
		Level:         "SIAGA_BANTU",
		EffectiveDate: &effective,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LevelSiagaBantu, updated.Level)

	history, err := repo.ListHistory(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, history, 2, "ledger is append-only")
	assert.Equal(t, effective, history[1].EffectiveDate)

	t.Run("unknown level", func(t *testing.T) {
		_, err := svc.ChangeLevel(ctx, troopActor(), member.ID, &ChangeLevelInput{Level: "WOLF"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestMemberScoping(t *testing.T) {
	svc, repo := memberFixture(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateWithHistory(ctx,
		&models.Member{MemberID: "1111.11.111.11111", Name: "Budi", Level: domain.LevelPandega, ActivityStatus: domain.ActivityActive, UnitCode: "12.345-01.001"},
		&models.MemberLevelHistory{Level: domain.LevelPandega, EffectiveDate: time.Now()}))
	require.NoError(t, repo.CreateWithHistory(ctx,
		&models.Member{MemberID: "2222.22.222.22222", Name: "Siti", Level: domain.LevelPandega, ActivityStatus: domain.ActivityActive, UnitCode: "12.345-02.001"},
		&models.MemberLevelHistory{Level: domain.LevelPandega, EffectiveDate: time.Now()}))

	t.Run("troop lists only its own", func(t *testing.T) {
		out, total, err := svc.List(ctx, troopActor(), &ListMembersInput{})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, out, 1)
		assert.Equal(t, "Budi", out[0].Name)
	})

	t.Run("branch lists the whole subtree", func(t *testing.T) {
		_, total, err := svc.List(ctx, branchActor(), &ListMembersInput{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("system admin is unscoped", func(t *testing.T) {
		_, total, err := svc.List(ctx, Actor{Role: domain.RoleSystemAdmin}, &ListMembersInput{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("out-of-scope detail is forbidden", func(t *testing.T) {
		_, err := svc.GetByID(ctx, troopActor(), 2)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("out-of-scope delete is forbidden", func(t *testing.T) {
		err := svc.Delete(ctx, troopActor(), 2)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestMemberUpdate(t *testing.T) {
	svc, _ := memberFixture(t)
	ctx := context.Background()

	member, err := svc.Create(ctx, troopActor(), &CreateMemberInput{
		MemberID: "12345678901234",
		Name:     "Budi",
		Level:    "SIAGA_MULA",
	})
	require.NoError(t, err)

	status := "INACTIVE"
	address := "Jl. Tunas 7"
	updated, err := svc.Update(ctx, troopActor(), member.ID, &UpdateMemberInput{
		ActivityStatus: &status,
		Address:        &address,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityInactive, updated.ActivityStatus)
	assert.Equal(t, "Jl. Tunas 7", updated.Address)

	t.Run("missing member", func(t *testing.T) {
		name := "Nobody"
		_, err := svc.Update(ctx, troopActor(), 999, &UpdateMemberInput{Name: &name})
		assert.ErrorIs(t, err, ErrMemberNotFound)
	})
}
