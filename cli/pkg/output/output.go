// Package output renders CLI results: status lines, JSON, and plain tables.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// NoColor disables ANSI colors (for piping or dumb terminals).
var NoColor = false

const (
	reset  = "\033[0m"
	green  = "\033[32;1m"
	red    = "\033[31;1m"
	cyan   = "\033[36m"
	yellow = "\033[33m"
)

func colored(code, s string) string {
	if NoColor {
		return s
	}
	return code + s + reset
}

func Success(format string, a ...interface{}) {
	fmt.Println(colored(green, "✓ "+fmt.Sprintf(format, a...)))
}

func Error(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, colored(red, "✗ "+fmt.Sprintf(format, a...)))
}

func Info(format string, a ...interface{}) {
	fmt.Println(colored(cyan, fmt.Sprintf(format, a...)))
}

func Warn(format string, a ...interface{}) {
	fmt.Println(colored(yellow, "⚠ "+fmt.Sprintf(format, a...)))
}

// JSON pretty-prints v to stdout.
func JSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table is a fixed-width text table.
type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *Table) Render() {
	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	for i, header := range t.headers {
		fmt.Printf("%-*s  ", widths[i], header)
	}
	fmt.Println()

	for i := range t.headers {
		fmt.Print(strings.Repeat("-", widths[i]) + "  ")
	}
	fmt.Println()

	for _, row := range t.rows {
		for i, cell := range row {
			fmt.Printf("%-*s  ", widths[i], cell)
		}
		fmt.Println()
	}
}
