// Package output renders frames for people and pipes.
//
//   - table: aligned ASCII table (olekukonko/tablewriter)
//   - csv:   header row plus one line per record
//   - json:  JSON Lines, one object per record
//
// Every formatter writes the named index, when present, as the first column.
package output

import (
	"fmt"
	"io"
	"math/big"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/vvka-141/bqkit/internal/frame"
	"github.com/vvka-141/bqkit/pkg/bqkit"
)

// Formatter writes a frame in one output format.
type Formatter interface {
	// Format writes f in the formatter's specific format
	Format(f *frame.Frame) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Names lists the accepted ForName values.
var Names = []string{"table", "csv", "json"}

// ForName returns the formatter called name writing to w.
func ForName(name string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "table":
		return NewTableFormatter(w), nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "json", "jsonl":
		return NewJSONFormatter(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q (expected %s): %w", name, strings.Join(Names, ", "), bqkit.ErrInvalidConfig)
}

// formatValue converts a value to its display string.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case civil.DateTime:
		return x.String()
	case civil.Date:
		return x.String()
	case *big.Rat:
		return x.FloatString(9)
	default:
		return fmt.Sprint(x)
	}
}
