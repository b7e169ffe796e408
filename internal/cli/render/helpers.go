package render

import (
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	addressStyle     = color.New(color.FgWhite)
	timestampStyle   = color.New(color.Faint)
	tagsStyle        = color.New(color.FgCyan)
	verifiedStyle    = color.New(color.FgGreen)
	notVerifiedStyle = color.New(color.FgRed)
	pendingStyle     = color.New(color.FgYellow)
	headerStyle      = color.New(color.Bold, color.FgHiWhite)
	chainHeader      = color.New(color.BgCyan, color.FgBlack)
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[mGKHF]`)

// TableData is a list of rendered rows
type TableData [][]string

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// chainTitle turns a chain-selectors name like "ethereum-testnet-sepolia"
// into "Ethereum Testnet Sepolia"
func chainTitle(name string) string {
	if name == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
}

// renderTable renders rows as a borderless left aligned table
func renderTable(data TableData) string {
	if len(data) == 0 {
		return ""
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}

	widths := columnWidths(data)
	configs := make([]table.ColumnConfig, len(widths))
	for i, width := range widths {
		configs[i] = table.ColumnConfig{
			Number:   i + 1,
			Align:    text.AlignLeft,
			WidthMin: width,
		}
	}
	t.SetColumnConfigs(configs)

	for _, row := range data {
		tableRow := make(table.Row, len(row))
		for i, cell := range row {
			tableRow[i] = cell
		}
		t.AppendRow(tableRow)
	}

	return t.Render()
}

func stripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func columnWidths(data TableData) []int {
	var widths []int
	for _, row := range data {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if w := len([]rune(stripAnsiCodes(cell))); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}
