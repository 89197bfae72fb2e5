// Package tooltip turns a hovered feature into labelled display rows.
package tooltip

import (
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/okian/zipheat/internal/domain/feature"
)

// DefaultPlaceholder is shown for fields a feature does not carry.
const DefaultPlaceholder = "n/a"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidRule = errors.New("invalid tooltip rule")
	ErrNoRules     = errors.New("tooltip needs at least one rule")
)

// Row is one label/value pair. Missing is set when the value is the
// placeholder.
type Row struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Missing bool   `json:"missing,omitempty"`
}

// Spec is the tooltip content for one feature.
type Spec struct {
	ID   string `json:"id"`
	Rows []Row  `json:"rows"`
}

// Missing returns the number of placeholder rows.
func (s *Spec) Missing() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, r := range s.Rows {
		if r.Missing {
			n++
		}
	}
	return n
}

var rowsHTML = template.Must(template.New("tooltip").Parse(
	`{{range .}}<div><b>{{.Label}}</b></div><div>{{.Value}}</div>{{end}}`))

// HTML renders the rows as escaped markup for the map engine. A nil spec
// renders as the empty string.
func (s *Spec) HTML() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	if err := rowsHTML.Execute(&b, s.Rows); err != nil {
		return ""
	}
	return b.String()
}

// Option applies a configuration option to a Formatter.
type Option func(*Formatter)

// WithPlaceholder sets the text used for missing fields.
func WithPlaceholder(p string) Option {
	return func(f *Formatter) {
		f.placeholder = p
	}
}

// Formatter renders features through a fixed table of rules. It holds no
// mutable state and is safe for concurrent use.
type Formatter struct {
	rules       []Rule
	placeholder string
}

// NewFormatter validates the rules and builds a Formatter. Rules keep their
// order; a rule without a label uses its field name.
func NewFormatter(rules []Rule, opts ...Option) (*Formatter, error) {
	if len(rules) == 0 {
		return nil, ErrNoRules
	}
	f := &Formatter{
		rules:       make([]Rule, len(rules)),
		placeholder: DefaultPlaceholder,
	}
	for i, r := range rules {
		if r.Kind == "" {
			r.Kind = KindText
		}
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		if r.Label == "" {
			r.Label = r.Field
		}
		f.rules[i] = r
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Rules returns a copy of the rule table.
func (f *Formatter) Rules() []Rule {
	return append([]Rule(nil), f.rules...)
}

// Format returns the tooltip for feat, or nil when feat is nil (nothing
// hovered). Every rule yields a row: a field the feature lacks, or a numeric
// rule over a value that is not a finite number, yields the placeholder.
func (f *Formatter) Format(feat *feature.Feature) *Spec {
	if feat == nil {
		return nil
	}
	spec := &Spec{ID: feat.ID, Rows: make([]Row, len(f.rules))}
	for i, r := range f.rules {
		spec.Rows[i] = f.row(r, feat)
	}
	return spec
}

func (f *Formatter) row(r Rule, feat *feature.Feature) Row {
	missing := Row{Label: r.Label, Value: f.placeholder, Missing: true}
	if !r.numeric() {
		s, ok := feat.Text(r.Field)
		if !ok {
			return missing
		}
		return Row{Label: r.Label, Value: r.Prefix + s + r.Suffix}
	}
	v, ok := feat.Number(r.Field)
	if !ok || !finite(v) {
		return missing
	}
	return Row{Label: r.Label, Value: r.render(v)}
}
