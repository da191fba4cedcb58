// Package transform implements the per-column transformation language applied
// while remapping extracted rows into the output schema. Rules are compiled
// once when the mapping configuration is loaded; applying a compiled rule
// never fails, it logs and passes the original value through instead.
package transform

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"rehub/dealsub/internal/dateutils"
	"rehub/dealsub/internal/logging"
	"rehub/dealsub/internal/procerror"

	"github.com/shopspring/decimal"
)

// Kind identifies one transformation behavior.
type Kind int

const (
	// KindNone is the identity transformation.
	KindNone Kind = iota
	// KindToFloat strips non-numeric characters and parses a float.
	KindToFloat
	// KindToInt parses a number and truncates it to an integer.
	KindToInt
	// KindToCurrency strips currency formatting and parses a float.
	KindToCurrency
	// KindPickNumeric extracts the first run of digits (optional decimal).
	KindPickNumeric
	// KindPickAlpha extracts the first run of letters.
	KindPickAlpha
	// KindNormalizeUPC strips separators and zero-pads all-digit codes to 12.
	KindNormalizeUPC
	// KindParseDate formats date values with the rule's format parameter.
	KindParseDate
	// KindMapDealType stringifies the value, defaulting to "TPR".
	KindMapDealType
	// KindPriceMultiplier extracts the leading integer before "for".
	KindPriceMultiplier
	// KindLiteral always returns the rule's text parameter.
	KindLiteral
	// KindCoalesce returns the value if truthy, else nil.
	KindCoalesce
	// KindCalc is an unimplemented calculation hook; passthrough.
	KindCalc
	// KindUnknown is an unrecognized rule; passthrough, warned at load.
	KindUnknown
)

// Rule is a compiled transformation rule.
type Rule struct {
	Kind Kind
	// Raw is the rule string as written in the mapping configuration.
	Raw string
	// Format holds the date layout for KindParseDate.
	Format string
	// Text holds the literal for KindLiteral.
	Text string

	logger logging.Logger
}

var (
	numericRun = regexp.MustCompile(`(\d+(?:\.\d+)?)`)
	alphaRun   = regexp.MustCompile(`([A-Za-z]+)`)
	priceMult  = regexp.MustCompile(`(?i)(\d+)\s*for`)
	upcSep     = regexp.MustCompile(`[\s-]`)
	nonNumeric = regexp.MustCompile(`[^0-9.-]`)
)

// Compile turns a rule string from the mapping configuration into a Rule.
// Unknown rules are warned once here and compile to a passthrough, so a typo
// in the configuration surfaces at load time rather than silently per value.
func Compile(raw string, logger logging.Logger) Rule {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	rule := Rule{Raw: raw, logger: logger}

	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "" || trimmed == "none":
		rule.Kind = KindNone
	case trimmed == "to_number:float":
		rule.Kind = KindToFloat
	case trimmed == "to_number:int":
		rule.Kind = KindToInt
	case trimmed == "to_number:currency":
		rule.Kind = KindToCurrency
	case strings.Contains(trimmed, "Pick the Numeric values"):
		rule.Kind = KindPickNumeric
	case strings.Contains(trimmed, "Pick Alpha values"):
		rule.Kind = KindPickAlpha
	case trimmed == "normalize_upc":
		rule.Kind = KindNormalizeUPC
	case strings.HasPrefix(trimmed, "parse_date:"):
		rule.Kind = KindParseDate
		rule.Format = dateLayout(strings.TrimPrefix(trimmed, "parse_date:"))
	case trimmed == "map_deal_type":
		rule.Kind = KindMapDealType
	case trimmed == "parse_price_mult":
		rule.Kind = KindPriceMultiplier
	case strings.HasPrefix(trimmed, "literal:"):
		rule.Kind = KindLiteral
		rule.Text = strings.TrimPrefix(trimmed, "literal:")
	case strings.HasPrefix(trimmed, "coalesce:"):
		rule.Kind = KindCoalesce
	case strings.HasPrefix(trimmed, "calc:"):
		rule.Kind = KindCalc
	default:
		rule.Kind = KindUnknown
		logger.Warn("Unknown transformation rule, values will pass through",
			logging.Field{Key: logging.FieldRule, Value: raw})
	}

	return rule
}

// Apply runs the rule against a value. It never fails: a rule that cannot be
// applied is logged as a warning and the original value is returned.
func (r Rule) Apply(value any) any {
	result, err := r.apply(value)
	if err != nil {
		logger := r.logger
		if logger == nil {
			logger = logging.NewLogrusAdapter("info", "text")
		}
		terr := &procerror.TransformationError{Rule: r.Raw, Value: Stringify(value), Err: err}
		logger.WithError(terr).Warn("Transformation failed, passing original value through")
		return value
	}
	return result
}

func (r Rule) apply(value any) (any, error) {
	switch r.Kind {
	case KindNone, KindCalc, KindUnknown:
		return value, nil

	case KindToFloat, KindToCurrency:
		return parseCleanedFloat(value)

	case KindToInt:
		if !Truthy(value) {
			return nil, nil
		}
		d, err := decimal.NewFromString(strings.TrimSpace(Stringify(value)))
		if err != nil {
			return nil, fmt.Errorf("parsing integer: %w", err)
		}
		return int(d.IntPart()), nil

	case KindPickNumeric:
		if !Truthy(value) {
			return value, nil
		}
		if m := numericRun.FindString(Stringify(value)); m != "" {
			return m, nil
		}
		return value, nil

	case KindPickAlpha:
		if !Truthy(value) {
			return value, nil
		}
		if m := alphaRun.FindString(Stringify(value)); m != "" {
			return m, nil
		}
		return value, nil

	case KindNormalizeUPC:
		cleaned := upcSep.ReplaceAllString(Stringify(value), "")
		if cleaned != "" && isAllDigits(cleaned) {
			return zeroPad(cleaned, 12), nil
		}
		return cleaned, nil

	case KindParseDate:
		if t, ok := value.(time.Time); ok {
			return t.Format(r.Format), nil
		}
		if s, ok := value.(string); ok {
			if t, err := dateutils.ParseDateString(s); err == nil {
				return t.Format(r.Format), nil
			}
		}
		return value, nil

	case KindMapDealType:
		if !Truthy(value) {
			return "TPR", nil
		}
		return Stringify(value), nil

	case KindPriceMultiplier:
		if m := priceMult.FindStringSubmatch(Stringify(value)); m != nil {
			d, err := decimal.NewFromString(m[1])
			if err != nil {
				return nil, fmt.Errorf("parsing multiplier: %w", err)
			}
			return int(d.IntPart()), nil
		}
		return 1, nil

	case KindLiteral:
		return r.Text, nil

	case KindCoalesce:
		if Truthy(value) {
			return value, nil
		}
		return nil, nil
	}

	return value, nil
}

// parseCleanedFloat strips everything but digits, '.' and '-' and parses the
// remainder. Empty input yields nil.
func parseCleanedFloat(value any) (any, error) {
	if !Truthy(value) {
		return nil, nil
	}
	cleaned := nonNumeric.ReplaceAllString(Stringify(value), "")
	if cleaned == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("parsing number from '%s': %w", cleaned, err)
	}
	return d.InexactFloat64(), nil
}

// Truthy mirrors the falsiness rules values observe throughout projection:
// nil, empty strings, zero numbers and false are empty.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case time.Time:
		return !v.IsZero()
	default:
		return true
	}
}

// Stringify renders a value the way projected cells are rendered downstream:
// nil becomes the empty string, strings pass through, everything else prints
// with its default format.
func Stringify(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// dateLayout translates the strftime-style directives used in the mapping
// configuration into a Go time layout. Formats already written as Go layouts
// pass through untouched.
func dateLayout(format string) string {
	if format == "" {
		return dateutils.DateLayoutISO
	}
	if !strings.Contains(format, "%") {
		return format
	}
	replacer := strings.NewReplacer(
		"%Y", "2006",
		"%y", "06",
		"%m", "01",
		"%d", "02",
		"%H", "15",
		"%M", "04",
		"%S", "05",
	)
	return replacer.Replace(format)
}
