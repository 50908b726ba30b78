package report

import (
	"fmt"
	"strings"

	"vesta/internal/domain"
)

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	start := len(s) % 3
	if start > 0 {
		b.WriteString(s[:start])
	}
	for i := start; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPct formats a percent value as "+X.XX%" / "-X.XX%".
func FormatPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// FormatSharpe formats a Sharpe ratio with two decimals.
func FormatSharpe(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Render produces the human-readable narrative summary: header counts,
// top-10 tables per metric, per-strategy aggregates, and the top-5
// recommended combinations by report score.
func (r *Report) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Performance Report %s\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Ranked %s of %s symbol/strategy rows (zero-trade rows excluded)\n\n",
		FormatInt(r.Rankings.RankedRows), FormatInt(r.Rankings.TotalRows))

	writeTable(&b, "Top by Total Return", r.Rankings.ByReturn, 10,
		func(row *domain.BacktestResult) string { return FormatPct(row.TotalReturn) })
	writeTable(&b, "Top by Win Rate", r.Rankings.ByWinRate, 10,
		func(row *domain.BacktestResult) string { return FormatPct(row.WinRate) })
	writeTable(&b, "Top by Sharpe Ratio", r.Rankings.BySharpe, 10,
		func(row *domain.BacktestResult) string { return FormatSharpe(row.SharpeRatio) })

	b.WriteString("Per-Strategy Aggregates\n")
	for _, agg := range r.Aggregates {
		fmt.Fprintf(&b, "  %-18s symbols=%d trades=%s (mean %.1f)\n",
			agg.Strategy, agg.Symbols, FormatInt(agg.TotalTrades), agg.MeanTrades)
		fmt.Fprintf(&b, "    return  mean=%s median=%s std=%.2f min=%s max=%s\n",
			FormatPct(agg.Return.Mean), FormatPct(agg.Return.Median),
			agg.Return.Std, FormatPct(agg.Return.Min), FormatPct(agg.Return.Max))
		fmt.Fprintf(&b, "    winrate mean=%s median=%s std=%.2f min=%s max=%s\n",
			FormatPct(agg.WinRate.Mean), FormatPct(agg.WinRate.Median),
			agg.WinRate.Std, FormatPct(agg.WinRate.Min), FormatPct(agg.WinRate.Max))
		fmt.Fprintf(&b, "    sharpe  mean=%s median=%s std=%.2f min=%s max=%s\n",
			FormatSharpe(agg.Sharpe.Mean), FormatSharpe(agg.Sharpe.Median),
			agg.Sharpe.Std, FormatSharpe(agg.Sharpe.Min), FormatSharpe(agg.Sharpe.Max))
	}
	b.WriteString("\n")

	b.WriteString("Recommended (top 5 by report score)\n")
	for i, row := range r.Rankings.ByScore {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "  %d. %s / %s  score=%.2f return=%s winrate=%s sharpe=%s trades=%d\n",
			i+1, row.Strategy, row.Symbol, Score(&row),
			FormatPct(row.TotalReturn), FormatPct(row.WinRate),
			FormatSharpe(row.SharpeRatio), row.TradeCount)
	}

	return b.String()
}

func writeTable(b *strings.Builder, title string, rows []domain.BacktestResult, n int, metric func(*domain.BacktestResult) string) {
	fmt.Fprintf(b, "%s\n", title)
	if len(rows) == 0 {
		b.WriteString("  (no rows)\n\n")
		return
	}
	for i := range rows {
		if i >= n {
			break
		}
		row := &rows[i]
		fmt.Fprintf(b, "  %2d. %-10s %-18s %10s  trades=%d\n",
			i+1, row.Symbol, row.Strategy, metric(row), row.TradeCount)
	}
	b.WriteString("\n")
}
