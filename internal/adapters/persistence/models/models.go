package models

import (
	"time"

	"scouthub/internal/core/domain"

	"gorm.io/gorm"
)

// Unit represents the units table: one row per organizational unit.
// A Troop's ParentCode points at a SubBranch, a SubBranch's at a Branch;
// a Branch has none. Codes are stored canonical only.
type Unit struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Tier       domain.Tier    `gorm:"size:20;not null;uniqueIndex:idx_units_tier_code;uniqueIndex:idx_units_tier_name" json:"tier"`
	Code       string         `gorm:"size:20;not null;uniqueIndex:idx_units_tier_code" json:"code"`
	Name       string         `gorm:"size:100;not null;uniqueIndex:idx_units_tier_name" json:"name"`
	ParentCode string         `gorm:"size:20;index" json:"parent_code,omitempty"`
	Address    string         `gorm:"type:text" json:"address,omitempty"`
	PhotoPath  string         `gorm:"size:255" json:"-"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Unit) TableName() string {
	return "units"
}

// Account represents the accounts table
type Account struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Password    string         `gorm:"size:255;not null" json:"-"`
	Role        domain.Role    `gorm:"size:20;not null" json:"role"`
	UnitID      *uint          `gorm:"index" json:"unit_id,omitempty"`
	CreatedByID *uint          `gorm:"index" json:"created_by_id,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Unit *Unit `gorm:"foreignKey:UnitID" json:"unit,omitempty"`
}

func (Account) TableName() string {
	return "accounts"
}

// AccountResponse DTO
type AccountResponse struct {
	ID          uint        `json:"id"`
	Username    string      `json:"username"`
	Role        domain.Role `json:"role"`
	CreatedByID *uint       `json:"created_by_id,omitempty"`
	Unit        *Unit       `json:"unit,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (a *Account) ToResponse() *AccountResponse {
	return &AccountResponse{
		ID:          a.ID,
		Username:    a.Username,
		Role:        a.Role,
		CreatedByID: a.CreatedByID,
		Unit:        a.Unit,
		CreatedAt:   a.CreatedAt,
	}
}

// MembershipRequest represents the membership_requests table.
// TargetBranchCode is resolved once at creation time by walking
// Troop -> SubBranch -> Branch, so deciding never re-walks the tree.
type MembershipRequest struct {
	ID               uint                 `gorm:"primaryKey" json:"id"`
	UnitCode         string               `gorm:"size:20;not null;index" json:"unit_code"`
	TargetBranchCode string               `gorm:"size:20;not null;index" json:"target_branch_code"`
	ApplicantName    string               `gorm:"size:100;not null" json:"applicant_name"`
	BirthPlace       string               `gorm:"size:100" json:"birth_place,omitempty"`
	BirthDate        *time.Time           `gorm:"type:date" json:"birth_date,omitempty"`
	Gender           string               `gorm:"size:10" json:"gender,omitempty"`
	Level            domain.Level         `gorm:"size:30;not null" json:"level"`
	DocumentPath     string               `gorm:"size:255" json:"-"`
	Status           domain.RequestStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	Note             string               `gorm:"type:text" json:"note,omitempty"`
	MemberIDAssigned *string              `gorm:"size:30" json:"member_id_assigned,omitempty"`
	CreatedAt        time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt       `gorm:"index" json:"-"`
}

func (MembershipRequest) TableName() string {
	return "membership_requests"
}

// RequestResponse DTO; DocumentURL is filled in by the service layer
type RequestResponse struct {
	ID               uint                 `json:"id"`
	UnitCode         string               `json:"unit_code"`
	TargetBranchCode string               `json:"target_branch_code"`
	ApplicantName    string               `json:"applicant_name"`
	BirthPlace       string               `json:"birth_place,omitempty"`
	BirthDate        *time.Time           `json:"birth_date,omitempty"`
	Gender           string               `json:"gender,omitempty"`
	Level            domain.Level         `json:"level"`
	DocumentURL      string               `json:"document_url,omitempty"`
	Status           domain.RequestStatus `json:"status"`
	Note             string               `json:"note,omitempty"`
	MemberIDAssigned *string              `json:"member_id_assigned,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

func (r *MembershipRequest) ToResponse() *RequestResponse {
	return &RequestResponse{
		ID:               r.ID,
		UnitCode:         r.UnitCode,
		TargetBranchCode: r.TargetBranchCode,
		ApplicantName:    r.ApplicantName,
		BirthPlace:       r.BirthPlace,
		BirthDate:        r.BirthDate,
		Gender:           r.Gender,
		Level:            r.Level,
		Status:           r.Status,
		Note:             r.Note,
		MemberIDAssigned: r.MemberIDAssigned,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

// Member represents the members table. MemberID is the canonical
// punctuated identifier, unique across all members.
type Member struct {
	ID             uint                  `gorm:"primaryKey" json:"id"`
	MemberID       string                `gorm:"uniqueIndex;size:30;not null" json:"member_id"`
	Name           string                `gorm:"size:100;not null" json:"name"`
	BirthPlace     string                `gorm:"size:100" json:"birth_place,omitempty"`
	BirthDate      *time.Time            `gorm:"type:date" json:"birth_date,omitempty"`
	Gender         string                `gorm:"size:10" json:"gender,omitempty"`
	Address        string                `gorm:"type:text" json:"address,omitempty"`
	Level          domain.Level          `gorm:"size:30;not null" json:"level"`
	ActivityStatus domain.ActivityStatus `gorm:"size:20;not null;default:'ACTIVE'" json:"activity_status"`
	UnitCode       string                `gorm:"size:20;not null;index" json:"unit_code"`
	CreatedAt      time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt        `gorm:"index" json:"-"`

	LevelHistory []MemberLevelHistory `gorm:"foreignKey:MemberRowID" json:"level_history,omitempty"`
}

func (Member) TableName() string {
	return "members"
}

// MemberLevelHistory is the append-only per-member level ledger.
// The latest entry by EffectiveDate is the member's current level.
type MemberLevelHistory struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	MemberRowID   uint         `gorm:"not null;index" json:"member_row_id"`
	Level         domain.Level `gorm:"size:30;not null" json:"level"`
	EffectiveDate time.Time    `gorm:"not null" json:"effective_date"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (MemberLevelHistory) TableName() string {
	return "member_level_histories"
}

// Mentor represents the mentors table. MemberID uniqueness is enforced
// within mentors only; a member may carry the same identifier.
type Mentor struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	MemberID   string         `gorm:"uniqueIndex;size:30;not null" json:"member_id"`
	Name       string         `gorm:"size:100;not null" json:"name"`
	BirthPlace string         `gorm:"size:100" json:"birth_place,omitempty"`
	BirthDate  *time.Time     `gorm:"type:date" json:"birth_date,omitempty"`
	Gender     string         `gorm:"size:10" json:"gender,omitempty"`
	Address    string         `gorm:"type:text" json:"address,omitempty"`
	UnitCode   string         `gorm:"size:20;not null;index" json:"unit_code"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Mentor) TableName() string {
	return "mentors"
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Unit{},
		&Account{},
		&MembershipRequest{},
		&Member{},
		&MemberLevelHistory{},
		&Mentor{},
	)
}
