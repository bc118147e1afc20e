package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/erazemk/almoxarifado/internal/model"
	"github.com/erazemk/almoxarifado/internal/store"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

func newSummaryCmd(a *app) *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Mostra o resumo do estoque, ferramentas e retiradas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			database, err := a.openDB(ctx)
			if err != nil {
				return err
			}
			defer database.Close()

			if !cmd.Flags().Changed("threshold") {
				prefs, err := store.LoadPreferences(ctx, database)
				if err != nil {
					return err
				}
				threshold = prefs.LowStockThreshold
			}
			if threshold < 0 {
				return fmt.Errorf("threshold must not be negative")
			}

			summary, err := store.LoadSummary(ctx, database, threshold)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary))
			return nil
		},
	}

	cmd.Flags().IntVarP(&threshold, "threshold", "t", model.DefaultLowStockThreshold, "limite de estoque baixo")
	return cmd
}

func renderSummary(s model.Summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Almoxarifado") + "\n\n")
	writeCategory(&b, "Estoque", s.Stock)
	writeCategory(&b, "Ferramentas", s.Tools)

	b.WriteString("\n" + titleStyle.Render("Retiradas") + "\n")
	fmt.Fprintf(&b, "%s %d\n", labelStyle.Render("total:"), s.Withdrawals.Total)
	pending := okStyle.Render(fmt.Sprint(s.Withdrawals.Pending))
	if s.Withdrawals.Pending > 0 {
		pending = warnStyle.Render(fmt.Sprint(s.Withdrawals.Pending))
	}
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("pendentes:"), pending)

	fmt.Fprintf(&b, "\n%s", labelStyle.Render(fmt.Sprintf("estoque baixo: quantidade ≤ %d", s.Threshold)))
	return panelStyle.Render(b.String())
}

func writeCategory(b *strings.Builder, title string, t model.CategoryTotals) {
	b.WriteString(titleStyle.Render(title) + "\n")
	fmt.Fprintf(b, "%s %d\n", labelStyle.Render("itens:"), t.Count)
	fmt.Fprintf(b, "%s %d\n", labelStyle.Render("unidades:"), t.Quantity)
	low := okStyle.Render(fmt.Sprint(t.Low))
	if t.Low > 0 {
		low = warnStyle.Render(fmt.Sprint(t.Low))
	}
	fmt.Fprintf(b, "%s %s\n", labelStyle.Render("em baixa:"), low)
}

// passwordNotice frames a generated operator password so it stands out in
// the startup output.
func passwordNotice(password string) string {
	body := titleStyle.Render("Senha do operador") + "\n" +
		warnStyle.Render(password) + "\n" +
		labelStyle.Render("Guarde esta senha, ela não será mostrada novamente.")
	return panelStyle.Render(body)
}
