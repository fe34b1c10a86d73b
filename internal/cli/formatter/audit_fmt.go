package formatter

import (
	"time"

	"github.com/alexanderramin/taktplan/internal/domain"
)

const maxDetailWidth = 80

// FormatAuditList renders audit records newest first.
func FormatAuditList(recs []*domain.AuditRecord, now time.Time) string {
	if len(recs) == 0 {
		return Dim("No audit records.")
	}
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		result := StyleGreen.Render("ok")
		if !r.OK {
			result = StyleRed.Render("failed")
		}
		details := r.Details
		if runes := []rune(details); len(runes) > maxDetailWidth {
			details = string(runes[:maxDetailWidth-1]) + "…"
		}
		rows = append(rows, []string{
			HumanTimestamp(r.CreatedAt, now),
			r.Actor,
			r.Action,
			result,
			Dim(details),
		})
	}
	return RenderTable([]string{"WHEN", "ACTOR", "ACTION", "RESULT", "DETAILS"}, rows)
}
