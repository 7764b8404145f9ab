package identifier

import (
	"fmt"
	"strings"

	"scouthub/internal/core/domain"
)

// Member identifier shape: 14-16 digits grouped 4.2.3.remainder
const (
	memberIDMinDigits = 14
	memberIDMaxDigits = 16
)

// digits strips every non-digit character from raw
func digits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CanonicalMemberID normalizes a raw member identifier into its canonical
// punctuated form. Two different raw strings can canonicalize to the same
// value, so callers must canonicalize before any comparison, uniqueness
// check, or write.
func CanonicalMemberID(raw string) (string, error) {
	d := digits(raw)
	if len(d) < memberIDMinDigits || len(d) > memberIDMaxDigits {
		return "", fmt.Errorf("%w: member identifier must contain %d-%d digits, got %d",
			domain.ErrInvalidInput, memberIDMinDigits, memberIDMaxDigits, len(d))
	}

	groups := []string{d[0:4], d[4:6], d[6:9]}
	if rest := d[9:]; rest != "" {
		groups = append(groups, rest)
	}
	return strings.Join(groups, "."), nil
}

// CanonicalUnitCode normalizes a raw organizational-unit code for the
// target tier. The tier is an input, never inferred from the digit count.
func CanonicalUnitCode(tier domain.Tier, raw string) (string, error) {
	d := digits(raw)
	switch tier {
	case domain.TierBranch:
		if len(d) != 4 {
			return "", fmt.Errorf("%w: branch code must be 4 digits (DD.DD), got %d", domain.ErrInvalidInput, len(d))
		}
		return d[0:2] + "." + d[2:4], nil
	case domain.TierSubBranch:
		if len(d) != 6 {
			return "", fmt.Errorf("%w: sub-branch code must be 6 digits (DD.DD.DD), got %d", domain.ErrInvalidInput, len(d))
		}
		return d[0:2] + "." + d[2:4] + "." + d[4:6], nil
	case domain.TierTroop:
		if len(d) != 10 {
			return "", fmt.Errorf("%w: troop code must be 10 digits (DD.DDD-DD.DDD), got %d", domain.ErrInvalidInput, len(d))
		}
		return d[0:2] + "." + d[2:5] + "-" + d[5:7] + "." + d[7:10], nil
	default:
		return "", fmt.Errorf("%w: tier %q has no unit code scheme", domain.ErrInvalidInput, tier)
	}
}
