package ui

import (
	"fmt"
	"io"

	"github.com/yamakage/souji/internal/cleaner"
	"github.com/yamakage/souji/internal/engine"
	"github.com/yamakage/souji/internal/scan"
)

// SizeLabel renders an item's size, showing "?" for sizes the backing
// engine did not report.
func SizeLabel(item cleaner.Item) string {
	if !item.SizeKnown {
		return "?"
	}
	return scan.FormatSize(item.Size)
}

// safetyLabel renders an item's tier, or "" when classification is not
// meaningful for its cleaner.
func safetyLabel(item cleaner.Item) string {
	if item.Safety == nil {
		return ""
	}
	switch *item.Safety {
	case cleaner.Safe:
		return safeStyle.Render("✓ safe")
	case cleaner.NeedsReview:
		return reviewStyle.Render("⚠ needs review")
	default:
		return unknownStyle.Render("? unknown")
	}
}

// PrintScanHeader announces a scan's outcome: how many items, how large.
func PrintScanHeader(w io.Writer, c cleaner.Cleaner, res *cleaner.ScanResult) {
	if len(res.Items) == 0 {
		fmt.Fprintln(w, successStyle.Render("✨ nothing to clean"))
		return
	}
	fmt.Fprintf(w, "%s %s\n\n",
		titleStyle.Render(fmt.Sprintf("%s %s:", c.Icon(), c.Name())),
		fmt.Sprintf("%d item(s), %s total",
			len(res.Items), sizeStyle.Render(scan.FormatSize(res.TotalBytes()))))
}

// PrintItems lists scan results one per line.
func PrintItems(w io.Writer, items []cleaner.Item) {
	for i, item := range items {
		line := fmt.Sprintf("  %s %s - %s",
			dimStyle.Render(fmt.Sprintf("%d.", i+1)),
			pathStyle.Render(item.Name),
			sizeStyle.Render(SizeLabel(item)))
		if label := safetyLabel(item); label != "" {
			line += "  " + label
		}
		fmt.Fprintln(w, line)
	}
}

// PrintDiagnoseLine renders one kind's findings in a diagnose sweep.
func PrintDiagnoseLine(w io.Writer, name, token string, items int, bytes int64, warnings int) {
	line := fmt.Sprintf("  %s %s %s in %d item(s)",
		pathStyle.Render(fmt.Sprintf("%-22s", name)),
		dimStyle.Render(fmt.Sprintf("(%s)", token)),
		sizeStyle.Render(scan.FormatSize(bytes)), items)
	if warnings > 0 {
		line += "  " + warnStyle.Render(fmt.Sprintf("⚠ %d unreadable", warnings))
	}
	fmt.Fprintln(w, line)
}

// PrintDiagnoseError renders a kind whose scan failed outright.
func PrintDiagnoseError(w io.Writer, name, msg string) {
	fmt.Fprintf(w, "  %s %s\n",
		pathStyle.Render(fmt.Sprintf("%-22s", name)),
		errorStyle.Render("✗ "+msg))
}

// PrintSummary renders the end-of-run summary, including per-item
// failures and warning counts.
func PrintSummary(w io.Writer, mode engine.Mode, s *engine.Summary) {
	fmt.Fprintln(w)
	switch mode {
	case engine.ModeSearch:
		fmt.Fprintf(w, "%s found %d item(s), %s reclaimable\n",
			dimStyle.Render("ℹ"), s.Found, sizeStyle.Render(scan.FormatSize(s.BytesFound)))
		fmt.Fprintln(w, dimStyle.Render("  use --delete to remove, --interactive to confirm each item"))
	default:
		fmt.Fprintf(w, "%s deleted %d of %d item(s), freed %s\n",
			successStyle.Render("✅"), s.Deleted, s.Found,
			sizeStyle.Render(scan.FormatSize(s.BytesFreed)))
		if s.Skipped > 0 {
			fmt.Fprintf(w, "%s skipped %d item(s)\n", dimStyle.Render("•"), s.Skipped)
		}
		if s.Quit {
			fmt.Fprintln(w, dimStyle.Render("• stopped early at your request"))
		}
	}

	for _, f := range s.Failures {
		fmt.Fprintf(w, "%s %s: %v\n", errorStyle.Render("✗"), f.Item.Name, f.Err)
	}
	if s.Warnings > 0 {
		fmt.Fprintf(w, "%s %d path(s) could not be measured\n",
			warnStyle.Render("⚠"), s.Warnings)
	}
}
