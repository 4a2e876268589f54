package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/trapmap/internal/domain"
)

// Console implementa ports.Notifier escribiendo el informe a un writer.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// NotifyAnalysis imprime el resultado en el modo configurado.
func (c *Console) NotifyAnalysis(_ context.Context, analysis domain.TrapAnalysis) error {
	if c.table {
		c.printFull(analysis)
	} else {
		c.printCompact(analysis)
	}
	return nil
}

// printCompact resume el análisis en una línea.
func (c *Console) printCompact(a domain.TrapAnalysis) {
	now := time.Now().Format("15:04:05")

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s → riesgo %.2f, %d mercados, %d trampas",
		now, a.Match, a.RiskLevel, len(a.Markets), len(a.Traps))

	for i, trap := range a.Traps {
		if i >= 3 {
			fmt.Fprintf(&sb, " | +%d más", len(a.Traps)-3)
			break
		}
		fmt.Fprintf(&sb, " | [!]%s %s sev%.2f",
			compactName(trap.Market, 20), trap.TrapType, trap.Severity)
	}
	if a.CrossMarket.Correlated {
		fmt.Fprintf(&sb, " | corr:%.2f", a.CrossMarket.Strength)
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime la tabla de mercados más trampas y recomendaciones.
func (c *Console) printFull(a domain.TrapAnalysis) {
	fmt.Fprintf(c.out, "\n%s — riesgo global %.2f (analizado %s)\n",
		a.Match, a.RiskLevel, a.AnalyzedAt.Format("2006-01-02 15:04"))

	c.printMarkets(a)
	c.printRecommendations(a)
}

func (c *Console) printMarkets(a domain.TrapAnalysis) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Mercado", "Estado", "Trampa", "Sev", "Conf", "Seguridad", "Señales")

	for _, name := range sortedMarketNames(a.Markets) {
		ma := a.Markets[name]
		trap := "-"
		if ma.TrapDetected {
			trap = string(ma.TrapType)
		}
		table.Append(
			name,
			ma.State.Icon()+" "+ma.State.String(),
			trap,
			fmt.Sprintf("%.2f", ma.TrapSeverity),
			fmt.Sprintf("%.2f", ma.Confidence),
			fmt.Sprintf("%.2f", ma.SafetyScore),
			fmt.Sprintf("%d", len(ma.Signals)),
		)
	}
	table.Render()
}

func (c *Console) printRecommendations(a domain.TrapAnalysis) {
	if a.CrossMarket.Correlated {
		fmt.Fprintf(c.out, "Correlación entre mercados: fuerza %.2f, grupos %v\n",
			a.CrossMarket.Strength, a.CrossMarket.Groups)
	}
	for _, rec := range a.Recommendations {
		if len(rec.Markets) > 0 {
			fmt.Fprintf(c.out, "  [%s] %s (%s) conf %.2f\n",
				rec.Type, rec.Description, strings.Join(rec.Markets, ", "), rec.Confidence)
		} else {
			fmt.Fprintf(c.out, "  [%s] %s conf %.2f\n", rec.Type, rec.Description, rec.Confidence)
		}
	}
}

func sortedMarketNames(markets map[string]domain.MarketAnalysis) []string {
	names := make([]string, 0, len(markets))
	for name := range markets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// compactName acorta un nombre de mercado para el modo de una línea.
func compactName(name string, max int) string {
	if len(name) <= max {
		return name
	}
	return name[:max-1] + "…"
}
