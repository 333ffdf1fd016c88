package grid

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/treegrid/internal/markup"
)

// Formatter turns a cell value into cell markup.
type Formatter interface {
	// Format renders value according to format. The result is inserted
	// into the cell verbatim, so implementations must escape text.
	Format(value any, format string) (string, error)

	// Supports reports whether format is known. Columns with unknown
	// formats are rejected when the grid is built.
	Supports(format string) bool
}

// Formats understood by TextFormatter.
const (
	FormatRaw      = "raw"
	FormatText     = "text"
	FormatNText    = "ntext"
	FormatInteger  = "integer"
	FormatDecimal  = "decimal"
	FormatPercent  = "percent"
	FormatBoolean  = "boolean"
	FormatDate     = "date"
	FormatDatetime = "datetime"
	FormatEmail    = "email"
	FormatURL      = "url"
)

var knownFormats = map[string]bool{
	FormatRaw: true, FormatText: true, FormatNText: true, FormatInteger: true,
	FormatDecimal: true, FormatPercent: true, FormatBoolean: true, FormatDate: true,
	FormatDatetime: true, FormatEmail: true, FormatURL: true,
}

// TextFormatter is the default Formatter. Numbers are grouped and messages
// localized for its language.
type TextFormatter struct {
	// NullDisplay is the markup rendered for nil values.
	NullDisplay string

	// BooleanFormat holds the false and true labels.
	BooleanFormat [2]string

	DateFormat     string
	DatetimeFormat string
	Location       *time.Location

	// Decimals is the number of fraction digits of the decimal format.
	Decimals int

	p printer
}

// NewTextFormatter returns a formatter for the given BCP 47 language.
func NewTextFormatter(lang string) *TextFormatter {
	p := newPrinter(parseLanguage(lang))
	return &TextFormatter{
		NullDisplay:    markup.Tag("span", markup.Encode(p.notSet()), markup.Attrs{"class": "not-set"}),
		BooleanFormat:  [2]string{p.no(), p.yes()},
		DateFormat:     "2006-01-02",
		DatetimeFormat: "2006-01-02 15:04:05",
		Location:       time.UTC,
		Decimals:       2,
		p:              p,
	}
}

// Supports reports whether format is one of the Format constants. The empty
// format is treated as text.
func (f *TextFormatter) Supports(format string) bool {
	return format == "" || knownFormats[format]
}

// Format implements Formatter.
func (f *TextFormatter) Format(value any, format string) (string, error) {
	if value == nil {
		return f.NullDisplay, nil
	}
	p := f.p
	if p.Printer == nil {
		p = newPrinter(parseLanguage(""))
	}
	switch format {
	case "", FormatText:
		return markup.Encode(toString(value)), nil
	case FormatRaw:
		return toString(value), nil
	case FormatNText:
		return strings.ReplaceAll(markup.Encode(toString(value)), "\n", "<br>\n"), nil
	case FormatInteger:
		n, err := toFloat(value)
		if err != nil {
			return "", err
		}
		return p.Sprintf("%d", int64(math.Round(n))), nil
	case FormatDecimal:
		n, err := toFloat(value)
		if err != nil {
			return "", err
		}
		return p.Sprintf("%.*f", f.Decimals, n), nil
	case FormatPercent:
		n, err := toFloat(value)
		if err != nil {
			return "", err
		}
		return p.Sprintf("%d%%", int64(math.Round(n*100))), nil
	case FormatBoolean:
		if truthy(value) {
			return markup.Encode(f.BooleanFormat[1]), nil
		}
		return markup.Encode(f.BooleanFormat[0]), nil
	case FormatDate, FormatDatetime:
		t, err := toTime(value)
		if err != nil {
			return "", err
		}
		layout := f.DateFormat
		if format == FormatDatetime {
			layout = f.DatetimeFormat
		}
		if f.Location != nil {
			t = t.In(f.Location)
		}
		return markup.Encode(t.Format(layout)), nil
	case FormatEmail:
		s := toString(value)
		return markup.Tag("a", markup.Encode(s), markup.Attrs{"href": "mailto:" + s}), nil
	case FormatURL:
		s := toString(value)
		href := s
		if u, err := url.Parse(s); err != nil || u.Scheme == "" {
			href = "http://" + s
		}
		return markup.Tag("a", markup.Encode(s), markup.Attrs{"href": href}), nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return t.String()
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(t)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case int:
		return float64(t), nil
	case int8:
		return float64(t), nil
	case int16:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint:
		return float64(t), nil
	case uint8:
		return float64(t), nil
	case uint16:
		return float64(t), nil
	case uint32:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case float32:
		return float64(t), nil
	case float64:
		return t, nil
	case json.Number:
		return t.Float64()
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(t)
		return err == nil && b
	default:
		n, err := toFloat(v)
		return err == nil && n != 0
	}
}

func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		if t == nil {
			return time.Time{}, fmt.Errorf("nil time")
		}
		return *t, nil
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("not a time: %q", t)
	default:
		n, err := toFloat(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("not a time: %T", v)
		}
		return time.Unix(int64(n), 0), nil
	}
}
