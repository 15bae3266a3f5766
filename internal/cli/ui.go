package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/vectorcad/pkg/entity"
	"github.com/matzehuels/vectorcad/pkg/interaction"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBorder = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Tables
// =============================================================================

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// entityTable lists entities with their kind and bounds.
func entityTable(ents []entity.Entity) string {
	t := newTable("ID", "Kind", "X", "Y", "W", "H", "Flags")
	for _, e := range ents {
		row := []string{strconv.FormatUint(uint64(e.ID), 10), e.Kind().String(), "", "", "", "", flagString(e.Flags)}
		if e.Geometry != nil {
			b := e.Geometry.Bounds()
			row[2], row[3] = num(b.Min.X), num(b.Min.Y)
			row[4], row[5] = num(b.Max.X-b.Min.X), num(b.Max.Y-b.Min.Y)
		}
		t.Row(row...)
	}
	return t.Render()
}

// resultTable lists commit results with their payloads.
func resultTable(results []interaction.Result) string {
	t := newTable("ID", "Op", "P0", "P1", "P2", "P3")
	for _, r := range results {
		t.Row(strconv.FormatUint(uint64(r.ID), 10), r.Op.String(),
			num(r.Payload[0]), num(r.Payload[1]), num(r.Payload[2]), num(r.Payload[3]))
	}
	return t.Render()
}

// logTable lists transform log entries.
func logTable(entries []interaction.LogEntry, ids []entity.ID) string {
	t := newTable("#", "Type", "Mode", "IDs", "Screen", "Modifiers")
	for i, e := range entries {
		var idCol string
		if e.Type == interaction.LogBegin && e.IDOffset+e.IDCount <= len(ids) {
			idCol = fmt.Sprint(ids[e.IDOffset : e.IDOffset+e.IDCount])
		}
		t.Row(strconv.Itoa(i), e.Type.String(), e.Mode.String(), idCol,
			num(e.Screen.X)+", "+num(e.Screen.Y), e.Modifiers.String())
	}
	return t.Render()
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func flagString(f entity.Flags) string {
	switch {
	case f&entity.FlagVisible == 0:
		return "hidden"
	case f&entity.FlagLocked != 0:
		return "locked"
	default:
		return "-"
	}
}
