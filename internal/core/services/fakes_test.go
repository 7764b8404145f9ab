package services

import (
	"context"
	"strings"

	"scouthub/internal/adapters/persistence/models"
	"scouthub/internal/core/domain"

	"gorm.io/gorm"
)

// fakeUnitRepo is an in-memory UnitRepository keyed by tier+code
type fakeUnitRepo struct {
	units      map[string]*models.Unit
	takenNames map[string]bool
}

func newFakeUnitRepo(units ...*models.Unit) *fakeUnitRepo {
	r := &fakeUnitRepo{
		units:      make(map[string]*models.Unit),
		takenNames: make(map[string]bool),
	}
	for _, u := range units {
		r.add(u)
	}
	return r
}

func unitKey(tier domain.Tier, code string) string {
	return string(tier) + "/" + code
}

func (r *fakeUnitRepo) add(u *models.Unit) {
	r.units[unitKey(u.Tier, u.Code)] = u
}

func (r *fakeUnitRepo) GetByCode(ctx context.Context, tier domain.Tier, code string) (*models.Unit, error) {
	if u, ok := r.units[unitKey(tier, code)]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUnitRepo) ListChildCodes(ctx context.Context, tier domain.Tier, parentCode string) ([]string, error) {
	var codes []string
	for _, u := range r.units {
		if u.Tier == tier && u.ParentCode == parentCode {
			codes = append(codes, u.Code)
		}
	}
	return codes, nil
}

func (r *fakeUnitRepo) ExistsCodeOrName(ctx context.Context, tier domain.Tier, code, name string, excludeID uint) (bool, error) {
	if r.takenNames[name] {
		return true, nil
	}
	u, ok := r.units[unitKey(tier, code)]
	if !ok {
		return false, nil
	}
	return u.ID != excludeID, nil
}

func (r *fakeUnitRepo) Update(ctx context.Context, unit *models.Unit) error {
	r.add(unit)
	return nil
}

// fakeStore is an in-memory ObjectStore with optional failure switches
type fakeStore struct {
	objects    map[string][]byte
	failPut    bool
	failDelete bool
	putErr     error
	deleted    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if s.failPut {
		if s.putErr != nil {
			return "", s.putErr
		}
		return "", context.DeadlineExceeded
	}
	s.objects[path] = data
	return s.PublicURL(path), nil
}

func (s *fakeStore) Delete(ctx context.Context, path string) error {
	s.deleted = append(s.deleted, path)
	if s.failDelete {
		return context.DeadlineExceeded
	}
	delete(s.objects, path)
	return nil
}

func (s *fakeStore) PublicURL(path string) string {
	return "https://cdn.test/" + path
}

// fakeRequestRepo is an in-memory RequestRepository. Accept enforces
// canonical member-identifier uniqueness the way the store's unique
// index does, failing the whole operation with gorm.ErrDuplicatedKey.
type fakeRequestRepo struct {
	requests  map[uint]*models.MembershipRequest
	members   map[string]*models.Member
	histories []*models.MemberLevelHistory
	nextID    uint
	createErr error
	acceptErr error
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		requests: make(map[uint]*models.MembershipRequest),
		members:  make(map[string]*models.Member),
		nextID:   1,
	}
}

func (r *fakeRequestRepo) Create(ctx context.Context, req *models.MembershipRequest) error {
	if r.createErr != nil {
		return r.createErr
	}
	req.ID = r.nextID
	r.nextID++
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *fakeRequestRepo) GetByID(ctx context.Context, id uint) (*models.MembershipRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *fakeRequestRepo) Update(ctx context.Context, req *models.MembershipRequest) error {
	if _, ok := r.requests[req.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *fakeRequestRepo) Delete(ctx context.Context, id uint) error {
	delete(r.requests, id)
	return nil
}

func (r *fakeRequestRepo) ListByUnitCodes(ctx context.Context, unitCodes []string, status *domain.RequestStatus, offset, limit int) ([]*models.MembershipRequest, int64, error) {
	var out []*models.MembershipRequest
	for _, req := range r.requests {
		if unitCodes != nil && !containsCode(unitCodes, req.UnitCode) {
			continue
		}
		if status != nil && req.Status != *status {
			continue
		}
		clone := *req
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRequestRepo) ListByTargetBranch(ctx context.Context, branchCode string, status *domain.RequestStatus, offset, limit int) ([]*models.MembershipRequest, int64, error) {
	var out []*models.MembershipRequest
	for _, req := range r.requests {
		if req.TargetBranchCode != branchCode {
			continue
		}
		if status != nil && req.Status != *status {
			continue
		}
		clone := *req
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRequestRepo) Accept(ctx context.Context, req *models.MembershipRequest, member *models.Member, history *models.MemberLevelHistory) error {
	if r.acceptErr != nil {
		return r.acceptErr
	}
	if _, taken := r.members[member.MemberID]; taken {
		return gorm.ErrDuplicatedKey
	}
	memberClone := *member
	r.members[member.MemberID] = &memberClone
	history.MemberRowID = memberClone.ID
	r.histories = append(r.histories, history)
	reqClone := *req
	r.requests[req.ID] = &reqClone
	return nil
}

func containsCode(codes []string, code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// fakeAccountRepo is an in-memory AccountRepository
type fakeAccountRepo struct {
	accounts map[uint]*models.Account
	nextID   uint
}

func newFakeAccountRepo(accounts ...*models.Account) *fakeAccountRepo {
	r := &fakeAccountRepo{accounts: make(map[uint]*models.Account), nextID: 1}
	for _, a := range accounts {
		if a.ID >= r.nextID {
			r.nextID = a.ID + 1
		}
		r.accounts[a.ID] = a
	}
	return r
}

func (r *fakeAccountRepo) CreateWithUnit(ctx context.Context, account *models.Account, unit *models.Unit) error {
	for _, a := range r.accounts {
		if a.Unit != nil && a.Unit.Tier == unit.Tier && a.Unit.Code == unit.Code {
			return gorm.ErrDuplicatedKey
		}
	}
	account.ID = r.nextID
	r.nextID++
	unit.ID = account.ID
	account.Unit = unit
	account.UnitID = &unit.ID
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	if a, ok := r.accounts[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAccountRepo) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	for _, a := range r.accounts {
		if a.Username == username {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAccountRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	for _, a := range r.accounts {
		if strings.EqualFold(a.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAccountRepo) ListByCreator(ctx context.Context, creatorID uint, offset, limit int) ([]*models.Account, int64, error) {
	var out []*models.Account
	for _, a := range r.accounts {
		if a.CreatedByID != nil && *a.CreatedByID == creatorID {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeAccountRepo) UpdateWithUnit(ctx context.Context, account *models.Account, unit *models.Unit) error {
	if unit != nil {
		account.Unit = unit
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) DeleteWithUnit(ctx context.Context, account *models.Account) error {
	delete(r.accounts, account.ID)
	return nil
}

// fakeMemberRepo is an in-memory MemberRepository
type fakeMemberRepo struct {
	members   map[uint]*models.Member
	histories map[uint][]*models.MemberLevelHistory
	nextID    uint
}

func newFakeMemberRepo(members ...*models.Member) *fakeMemberRepo {
	r := &fakeMemberRepo{
		members:   make(map[uint]*models.Member),
		histories: make(map[uint][]*models.MemberLevelHistory),
		nextID:    1,
	}
	for _, m := range members {
		if m.ID >= r.nextID {
			r.nextID = m.ID + 1
		}
		r.members[m.ID] = m
	}
	return r
}

func (r *fakeMemberRepo) CreateWithHistory(ctx context.Context, member *models.Member, history *models.MemberLevelHistory) error {
	for _, m := range r.members {
		if m.MemberID == member.MemberID {
			return gorm.ErrDuplicatedKey
		}
	}
	member.ID = r.nextID
	r.nextID++
	r.members[member.ID] = member
	history.MemberRowID = member.ID
	r.histories[member.ID] = append(r.histories[member.ID], history)
	return nil
}

func (r *fakeMemberRepo) GetByID(ctx context.Context, id uint) (*models.Member, error) {
	if m, ok := r.members[id]; ok {
		return m, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMemberRepo) Update(ctx context.Context, member *models.Member) error {
	r.members[member.ID] = member
	return nil
}

func (r *fakeMemberRepo) Delete(ctx context.Context, id uint) error {
	delete(r.members, id)
	return nil
}

func (r *fakeMemberRepo) ExistsByMemberID(ctx context.Context, memberID string) (bool, error) {
	for _, m := range r.members {
		if m.MemberID == memberID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMemberRepo) List(ctx context.Context, unitCodes []string, search string, offset, limit int) ([]*models.Member, int64, error) {
	var out []*models.Member
	for _, m := range r.members {
		if unitCodes != nil && !containsCode(unitCodes, m.UnitCode) {
			continue
		}
		if search != "" && !strings.Contains(m.Name, search) {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *fakeMemberRepo) AppendLevel(ctx context.Context, member *models.Member, history *models.MemberLevelHistory) error {
	r.members[member.ID] = member
	history.MemberRowID = member.ID
	r.histories[member.ID] = append(r.histories[member.ID], history)
	return nil
}

func (r *fakeMemberRepo) ListHistory(ctx context.Context, memberRowID uint) ([]*models.MemberLevelHistory, error) {
	return r.histories[memberRowID], nil
}
