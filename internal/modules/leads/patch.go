package leads

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"leadboard/internal/domain"
	"leadboard/internal/pkg/sheet"
	"leadboard/internal/pkg/validator"
)

// Patch holds coerced column values keyed by column name. Values are
// string, *float64 or *int depending on the column kind.
type Patch map[string]any

// ParsePatch coerces a decoded JSON body. Null values and unknown keys are
// ignored; values of the wrong shape are reported per field.
func ParsePatch(raw map[string]any) (Patch, map[string]string) {
	p := make(Patch, len(raw))
	errs := map[string]string{}
	for name, v := range raw {
		if v == nil {
			continue
		}
		kind, ok := domain.ColumnKindOf(name)
		if !ok {
			continue
		}
		val, err := coerce(kind, v)
		if err != "" {
			errs[name] = err
			continue
		}
		p[name] = val
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return p, nil
}

func coerce(kind domain.ColumnKind, v any) (any, string) {
	switch kind {
	case domain.KindFloat:
		f, ok := v.(float64)
		if !ok {
			return nil, "number"
		}
		return &f, ""
	case domain.KindInt:
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) {
			return nil, "integer"
		}
		n := int(f)
		return &n, ""
	case domain.KindDate:
		s, ok := v.(string)
		if !ok {
			return nil, "datetime=2006-01-02"
		}
		s = strings.TrimSpace(s)
		if s != "" && !validator.Var(s, "datetime=2006-01-02") {
			return nil, "datetime=2006-01-02"
		}
		return s, ""
	default:
		switch t := v.(type) {
		case string:
			return strings.TrimSpace(t), ""
		case float64:
			// numeric identifiers such as phone numbers
			return strconv.FormatFloat(t, 'f', -1, 64), ""
		}
		return nil, "string"
	}
}

// Apply writes p onto l and returns the columns whose value changed.
func (p Patch) Apply(l *domain.Lead) map[string]domain.FieldChange {
	changes := map[string]domain.FieldChange{}
	for _, name := range p.names() {
		old := sheet.Value(l.Get(name))
		l.Set(name, p[name])
		now := sheet.Value(l.Get(name))
		if old != now {
			changes[name] = domain.FieldChange{Old: old, New: now}
		}
	}
	return changes
}

func (p Patch) names() []string {
	out := make([]string, 0, len(p))
	for k := range p {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
