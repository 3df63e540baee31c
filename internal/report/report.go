package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"polyroot/internal/optimizer"
)

var (
	okStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	warnStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

// Line — сводка результата в одну строку
func Line(res optimizer.Result) string {
	return res.String()
}

// Styled — та же сводка с цветным статусом для терминала
func Styled(res optimizer.Result) string {
	var st lipgloss.Style
	switch res.Status {
	case optimizer.StatusConverged:
		st = okStyle
	case optimizer.StatusMaxIter, optimizer.StatusStopped:
		st = warnStyle
	default:
		st = failStyle
	}
	return fmt.Sprintf("%-8s %s %s",
		res.Method, st.Render(string(res.Status)),
		dimStyle.Render(fmt.Sprintf("root=%s iterations=%d residual=%s converged=%t",
			FormatFloat(res.Root), res.Iterations, FormatFloat(res.Residual), res.Converged)))
}

// WriteTrace печатает итерации в формате find -v
func WriteTrace(w io.Writer, res optimizer.Result) error {
	for _, it := range res.Trace {
		if _, err := fmt.Fprintf(w, "[iter %d]\ttrying %f, where f(x) = %f\n", it.K-1, it.X, it.FX); err != nil {
			return err
		}
	}
	return nil
}

// TraceHeader — заголовок CSV с итерациями
var TraceHeader = []string{"k", "x", "f(x)", "f'(x)", "step", "a", "b"}

// WriteTraceCSV — экспорт итераций в CSV
func WriteTraceCSV(w io.Writer, trace []optimizer.Iter) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TraceHeader); err != nil {
		return err
	}
	for _, it := range trace {
		if err := cw.Write([]string{
			strconv.Itoa(it.K),
			FormatFloat(it.X),
			FormatFloat(it.FX),
			FormatFloat(it.DFX),
			FormatFloat(it.Step),
			FormatFloat(it.A),
			FormatFloat(it.B),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatFloat — компактная запись без потери точности
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
