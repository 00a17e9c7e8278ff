package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"AssetAnalyzer/internal/analyzer"
	"AssetAnalyzer/internal/catalog"
	"AssetAnalyzer/internal/timeframe"
)

// FormatAnalysis renders a pipeline result as a Telegram HTML message.
func FormatAnalysis(res *analyzer.Result) string {
	var b strings.Builder

	req := res.Request
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> (%s) | %s · %s\n",
		html.EscapeString(req.Name), html.EscapeString(req.Ticker), req.Period, req.Interval))
	if res.Timeframe.Advisory != "" {
		b.WriteString(res.Timeframe.Advisory + "\n")
	}
	b.WriteString("\n")

	switch res.Status {
	case analyzer.StatusNoData:
		b.WriteString("⚠️ No data was found for this ticker/period/interval. Try another combination.")
		return b.String()
	case analyzer.StatusResampleEmpty:
		b.WriteString("⚠️ Could not build the 4h timeframe.")
		return b.String()
	case analyzer.StatusOK:
	default:
		b.WriteString("❌ Analysis did not complete.")
		return b.String()
	}

	frame := res.Frame
	last := frame.Row(frame.Len() - 1)
	b.WriteString(fmt.Sprintf("Last close: %s (%s)\n", formatPrice(last.Bar.Close), last.Bar.Time.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Bars: %s", humanize.Comma(int64(frame.Len()))))
	if res.Timeframe.Resample {
		b.WriteString(fmt.Sprintf(" (from %s × %s)", humanize.Comma(int64(res.RawBars)), res.Timeframe.Interval))
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("MA21: %s | MA200: %s\n", formatPrice(last.MA21), formatPrice(last.MA200)))
	b.WriteString(fmt.Sprintf("EMA17: %s | EMA72: %s | EMA305: %s\n",
		formatPrice(last.EMA17), formatPrice(last.EMA72), formatPrice(last.EMA305)))
	b.WriteString(fmt.Sprintf("RSI14: %s\n", formatPrice(last.RSI)))
	b.WriteString(fmt.Sprintf("MACD: %s | Signal: %s\n", formatPrice(last.MACD), formatPrice(last.Signal)))
	b.WriteString(fmt.Sprintf("Financial volume: %s\n\n", formatVolume(last.FinancialVolume)))

	b.WriteString("📐 <b>Fibonacci</b>\n")
	for _, lvl := range res.Fibonacci {
		b.WriteString(fmt.Sprintf("  %s: %s\n", lvl.Label, formatPrice(lvl.Price)))
	}

	b.WriteString("\n📍 <b>RSI diagnosis</b>\n")
	b.WriteString(fmt.Sprintf("%s: %s", html.EscapeString(req.Name), res.Diagnosis.Label.Text()))
	return b.String()
}

// FormatError renders a failed run.
func FormatError(req analyzer.Request, err error) string {
	name := req.Name
	if name == "" {
		name = req.Ticker
	}
	return fmt.Sprintf("❌ <b>%s</b>: %s", html.EscapeString(name), html.EscapeString(err.Error()))
}

// FormatAssets lists the catalog grouped by category.
func FormatAssets() string {
	var b strings.Builder
	b.WriteString("📋 <b>Assets</b>\n")
	for _, c := range catalog.Categories() {
		b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", html.EscapeString(c.Name)))
		for _, a := range c.Assets {
			b.WriteString(fmt.Sprintf("  %s: <code>%s</code>\n", html.EscapeString(a.Name), a.Ticker))
		}
	}
	return b.String()
}

// FormatHelp describes the bot commands.
func FormatHelp() string {
	periods := make([]string, len(timeframe.Periods))
	for i, p := range timeframe.Periods {
		periods[i] = string(p)
	}
	intervals := make([]string, len(timeframe.Intervals))
	for i, iv := range timeframe.Intervals {
		intervals[i] = string(iv)
	}
	return fmt.Sprintf("Available commands:\n"+
		"• /analyze &lt;ticker&gt; [period] [interval]\n"+
		"• /assets\n"+
		"• /help\n\n"+
		"Periods: %s\nIntervals: %s\nDefaults: %s · %s",
		strings.Join(periods, ", "), strings.Join(intervals, ", "),
		timeframe.DefaultPeriod, timeframe.DefaultInterval)
}

var markup = strings.NewReplacer("<b>", "", "</b>", "", "<code>", "", "</code>", "")

// PlainText strips the HTML markup used by the formatters, for terminals.
func PlainText(s string) string {
	return html.UnescapeString(markup.Replace(s))
}

// formatPrice rounds to two decimals. Undefined values render as "-".
func formatPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

func formatVolume(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return humanize.CommafWithDigits(math.Round(v), 0)
}
