package tooltip

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Kind selects how a property value is rendered.
type Kind string

// Supported kinds.
const (
	// KindText renders the value verbatim.
	KindText Kind = "text"
	// KindFixed renders a number with Decimals places.
	KindFixed Kind = "fixed"
	// KindPercent renders a fraction as a percentage (0.1234 -> 12.34%).
	KindPercent Kind = "percent"
	// KindPercentPoints renders a value that is already a percentage (12.34 -> 12.34%).
	KindPercentPoints Kind = "percent_points"
	// KindUnit renders a number verbatim, or rounded when Decimals > 0.
	KindUnit Kind = "unit"
	// KindGrouped renders a number with thousands separators.
	KindGrouped Kind = "grouped"
)

const percentFactor = 100

// Rule describes one tooltip row.
type Rule struct {
	Field    string `json:"field"`
	Label    string `json:"label"`
	Kind     Kind   `json:"kind"`
	Decimals int    `json:"decimals"`
	Prefix   string `json:"prefix,omitempty"`
	Suffix   string `json:"suffix,omitempty"`
}

func (r Rule) validate() error {
	switch {
	case strings.TrimSpace(r.Field) == "":
		return fmt.Errorf("%w: empty field", ErrInvalidRule)
	case r.Decimals < 0:
		return fmt.Errorf("%w: %s: negative decimals", ErrInvalidRule, r.Field)
	}
	switch r.Kind {
	case KindText, KindFixed, KindPercent, KindPercentPoints, KindUnit, KindGrouped:
		return nil
	}
	return fmt.Errorf("%w: %s: unknown kind %q", ErrInvalidRule, r.Field, r.Kind)
}

func (r Rule) numeric() bool { return r.Kind != KindText }

// render formats a finite number for the rule's kind.
func (r Rule) render(v float64) string {
	var s string
	switch r.Kind {
	case KindFixed:
		s = strconv.FormatFloat(v, 'f', r.Decimals, 64)
	case KindPercent:
		s = strconv.FormatFloat(v*percentFactor, 'f', r.Decimals, 64) + "%"
	case KindPercentPoints:
		s = strconv.FormatFloat(v, 'f', r.Decimals, 64) + "%"
	case KindGrouped:
		if r.Decimals > 0 {
			s = humanize.CommafWithDigits(v, r.Decimals)
		} else {
			s = humanize.Commaf(v)
		}
	default:
		if r.Decimals > 0 {
			s = strconv.FormatFloat(v, 'f', r.Decimals, 64)
		} else {
			s = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return r.Prefix + s + r.Suffix
}

// ParseKind normalizes a kind name from configuration.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return KindText, nil
	}
	if err := (Rule{Field: "_", Kind: k}).validate(); err != nil {
		return "", err
	}
	return k, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
