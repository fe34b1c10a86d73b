package app

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taktplan/internal/domain"
)

// CopyFromPlannedToken is the boundary spelling of domain.CopyFromPlanned.
const CopyFromPlannedToken = "planned"

// ParseDateValue decodes a bulk-update date argument. The token "planned"
// selects copy-from-planned; anything else must be a YYYY-MM-DD date.
func ParseDateValue(s string) (domain.DateValue, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, CopyFromPlannedToken) {
		return domain.CopyFromPlanned(), nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return domain.DateValue{}, fmt.Errorf("date value %q: expected YYYY-MM-DD or %q: %w",
			s, CopyFromPlannedToken, domain.ErrValidation)
	}
	return domain.Literal(d), nil
}
