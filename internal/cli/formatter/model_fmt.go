package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/alexanderramin/taktplan/internal/scheduler"
)

// FormatModelList renders process models with their step counts and total
// sequential length in working days.
func FormatModelList(models []*domain.ProcessModel) string {
	if len(models) == 0 {
		return Dim("No process models.")
	}
	rows := make([][]string, 0, len(models))
	for _, m := range models {
		rows = append(rows, []string{
			TruncID(m.ID),
			Bold(m.Name),
			strconv.Itoa(len(m.Steps)),
			strconv.Itoa(TotalDays(m)),
		})
	}
	return RenderTable([]string{"ID", "NAME", "STEPS", "DAYS"}, rows, 2, 3)
}

// TotalDays is the model's length in working days when planned from a
// single anchor, from the first start to the latest end.
func TotalDays(m *domain.ProcessModel) int {
	slots := scheduler.PlanSteps(m, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if len(slots) == 0 {
		return 0
	}
	end := slots[0].End
	for _, s := range slots[1:] {
		if s.End.After(end) {
			end = s.End
		}
	}
	return scheduler.CountWorkdays(slots[0].Start, end)
}

// FormatModel renders a model's ordered steps. tradeNames maps trade id to
// name.
func FormatModel(m *domain.ProcessModel, tradeNames map[string]string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n\n", Bold(m.Name), Dim(Plural(len(m.Steps), "step", "steps"))))

	rows := make([][]string, 0, len(m.Steps))
	for _, s := range m.OrderedSteps() {
		trade := Dim("–")
		if s.TradeID != nil {
			trade = tradeNames[*s.TradeID]
		}
		mode := ""
		if s.Parallel {
			mode = StyleYellow.Render("parallel")
		}
		rows = append(rows, []string{strconv.Itoa(s.SortKey()), s.Activity, trade, strconv.Itoa(s.EffectiveDuration()), mode})
	}
	b.WriteString(RenderTable([]string{"#", "ACTIVITY", "TRADE", "DAYS", ""}, rows, 0, 3))
	return b.String()
}

// FormatTradeList renders the trade taxonomy.
func FormatTradeList(trades []*domain.Trade) string {
	if len(trades) == 0 {
		return Dim("No trades.")
	}
	rows := make([][]string, 0, len(trades))
	for _, t := range trades {
		rows = append(rows, []string{t.Name, derefOr(&t.Color, Dim("–"))})
	}
	return RenderTable([]string{"TRADE", "COLOR"}, rows)
}
