package textreport

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/flightboard/pkg/aggregate"
	"github.com/Sumatoshi-tech/flightboard/pkg/report"
)

const missingCell = "n/a"

// Options configure text output.
type Options struct {
	// MaxRows caps the rows printed per table; zero prints every row.
	MaxRows int
	// NoColor disables colored headings.
	NoColor bool
}

// Write encodes out in format.
func Write(w io.Writer, out report.Output, format Format, o Options) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, out)
	case FormatYAML:
		return WriteYAML(w, out)
	case FormatText, "":
		return WriteText(w, out, o)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteText prints a heading per slot followed by its table. Extra tables
// follow the slots.
func WriteText(w io.Writer, out report.Output, o Options) error {
	title := color.New(color.FgHiMagenta, color.Bold)
	heading := color.New(color.FgCyan)
	faint := color.New(color.Faint)

	if o.NoColor {
		for _, c := range []*color.Color{title, heading, faint} {
			c.DisableColor()
		}
	}

	var b strings.Builder

	title.Fprintf(&b, "%s %d\n", out.Selection.Kind.Label(), out.Selection.Year)
	faint.Fprintf(&b, "%s flight records\n", humanize.Comma(int64(out.Records)))

	for i, slot := range out.Slots {
		b.WriteString("\n")

		if slot.Empty() {
			faint.Fprintf(&b, "[%d] empty\n", i+1)

			continue
		}

		heading.Fprintf(&b, "[%d] %s\n", i+1, slot.Chart.Title)
		b.WriteString(formatTable(*slot.Table, o.MaxRows))
		b.WriteString("\n")
	}

	for _, extra := range out.Extra {
		b.WriteString("\n")
		heading.Fprintf(&b, "[+] %s\n", extra.View)
		b.WriteString(formatTable(extra, o.MaxRows))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	if err != nil {
		return fmt.Errorf("writing text report: %w", err)
	}

	return nil
}

// formatTable renders a table with go-pretty.
func formatTable(t aggregate.Table, maxRows int) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false

	header := make(table.Row, 0, len(t.Keys)+1)
	for _, k := range t.Keys {
		header = append(header, string(k))
	}

	header = append(header, fmt.Sprintf("%s(%s)", t.Reducer, t.Value))
	tbl.AppendHeader(header)

	rows := t.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	for _, r := range rows {
		row := make(table.Row, 0, len(r.Keys)+1)
		for _, k := range r.Keys {
			row = append(row, k)
		}

		row = append(row, formatValue(r.Value))
		tbl.AppendRow(row)
	}

	footer := fmt.Sprintf("Total: %s rows", humanize.Comma(int64(t.Len())))
	if len(rows) < t.Len() {
		footer = fmt.Sprintf("Showing %d of %s rows", len(rows), humanize.Comma(int64(t.Len())))
	}

	tbl.AppendFooter(table.Row{footer})

	return tbl.Render()
}

func formatValue(v aggregate.Value) string {
	if !v.Valid {
		return missingCell
	}

	return humanize.FormatFloat("#,###.##", v.Float)
}
