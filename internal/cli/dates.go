package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var dateParser = newDateParser()

func newDateParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// parseDateArg accepts YYYY-MM-DD or a natural-language date such as
// "next monday" or "in 2 weeks", resolved against now.
func parseDateArg(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date: %w", domain.ErrValidation)
	}
	if d, err := time.Parse(domain.DateLayout, s); err == nil {
		return d, nil
	}
	r, err := dateParser.Parse(s, now)
	if err != nil || r == nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or e.g. \"next monday\"): %w", s, domain.ErrValidation)
	}
	return domain.DateOf(r.Time), nil
}

// parseDateFlag parses an optional date flag; empty yields nil.
func parseDateFlag(name, value string, now time.Time) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	d, err := parseDateArg(value, now)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return &d, nil
}
