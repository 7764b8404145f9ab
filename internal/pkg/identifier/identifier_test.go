package identifier

import (
	"strings"
	"testing"

	"scouthub/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalMemberID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"14 plain digits", "12345678901234", "1234.56.789.01234"},
		{"15 digits", "123456789012345", "1234.56.789.012345"},
		{"16 digits", "1234567890123456", "1234.56.789.0123456"},
		{"already punctuated", "1234.56.789.01234", "1234.56.789.01234"},
		{"mixed separators", "1234-56 789/01234", "1234.56.789.01234"},
		{"letters stripped", "no1234mor56e789dig01234its", "1234.56.789.01234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalMemberID(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalMemberIDRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"13 digits", "1234567890123"},
		{"17 digits", "12345678901234567"},
		{"no digits at all", "abc.def-ghi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CanonicalMemberID(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCanonicalMemberIDGrouping(t *testing.T) {
	// every valid length canonicalizes to groups of 4,2,3,remainder
	for n := 14; n <= 16; n++ {
		raw := strings.Repeat("7", n)
		got, err := CanonicalMemberID(raw)
		require.NoError(t, err)

		groups := strings.Split(got, ".")
		require.Len(t, groups, 4)
		assert.Len(t, groups[0], 4)
		assert.Len(t, groups[1], 2)
		assert.Len(t, groups[2], 3)
		assert.Len(t, groups[3], n-9)
	}
}

func TestCanonicalUnitCode(t *testing.T) {
	tests := []struct {
		name string
		tier domain.Tier
		raw  string
		want string
	}{
		{"branch", domain.TierBranch, "1234", "12.34"},
		{"branch punctuated", domain.TierBranch, "12.34", "12.34"},
		{"sub-branch", domain.TierSubBranch, "123456", "12.34.56"},
		{"troop", domain.TierTroop, "1234567890", "12.345-67.890"},
		{"troop punctuated", domain.TierTroop, "12.345-67.890", "12.345-67.890"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalUnitCode(tt.tier, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalUnitCodeRejects(t *testing.T) {
	tests := []struct {
		name string
		tier domain.Tier
		raw  string
	}{
		{"branch too short", domain.TierBranch, "123"},
		{"branch too long", domain.TierBranch, "12345"},
		{"sub-branch shaped code for branch tier", domain.TierBranch, "123456"},
		{"sub-branch wrong length", domain.TierSubBranch, "1234"},
		{"troop wrong length", domain.TierTroop, "123456"},
		{"no scheme for unknown tier", domain.Tier("SYSTEM_ADMIN"), "1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CanonicalUnitCode(tt.tier, tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
