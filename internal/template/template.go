// Package template implements the spec §4.9 template renderer: a
// template value is a list of literal-text and placeholder parts, and
// rendering substitutes each placeholder by walking an injected Pack.
package template

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tongosu/ddonilang/internal/ast"
	"github.com/tongosu/ddonilang/internal/numeric"
	"github.com/tongosu/ddonilang/internal/value"
)

// Payload is the concrete value.TemplatePayload built from a parsed
// TemplateLit.
type Payload struct {
	Parts []ast.TemplatePart
}

// New wraps parts as a value.Template.
func New(parts []ast.TemplatePart) value.Template {
	return value.Template{P: Payload{Parts: parts}}
}

// CanonText implements value.TemplatePayload: a stable textual encoding
// used wherever a Template participates in canonicalization.
func (p Payload) CanonText() string {
	var b strings.Builder
	for _, part := range p.Parts {
		if part.Path == nil {
			b.WriteString(part.Text)
			continue
		}
		b.WriteByte('{')
		b.WriteString(strings.Join(part.Path, "."))
		if part.Format != nil {
			b.WriteByte(':')
			b.WriteString(formatSpecText(part.Format))
		}
		b.WriteByte('}')
	}
	return b.String()
}

func formatSpecText(f *ast.TemplateFormat) string {
	var b strings.Builder
	if f.HasUnit {
		b.WriteByte('@')
		b.WriteString(f.Unit)
	}
	if f.HasPrec {
		b.WriteByte('.')
		b.WriteString(strconv.Itoa(int(f.Precision)))
	}
	if f.HasWidth {
		b.WriteByte('w')
		b.WriteString(strconv.Itoa(f.Width))
		if f.ZeroPad {
			b.WriteByte('0')
		}
	}
	return b.String()
}

// rootOf returns a path's first segment, the Pack field the template
// requires be present in the injected pack (spec §4.9's "distinct
// placeholder roots" rule).
func rootOf(path []string) string { return path[0] }

// Render substitutes every placeholder in tpl by walking pack (spec
// §4.9). The injected pack's key set must exactly equal the set of
// distinct placeholder roots.
func Render(tpl value.Template, pack *value.Pack) (string, error) {
	payload, ok := tpl.P.(Payload)
	if !ok {
		return "", errMsg("템플릿 내부 표현이 올바르지 않습니다")
	}

	roots := map[string]bool{}
	for _, part := range payload.Parts {
		if part.Path != nil {
			roots[rootOf(part.Path)] = true
		}
	}
	packFields := pack.FieldNames()
	if len(packFields) != len(roots) {
		return "", errMsg("템플릿 치환 팩의 키 집합이 일치하지 않습니다")
	}
	for _, f := range packFields {
		if !roots[f] {
			return "", errMsg("템플릿에 없는 필드가 주어졌습니다: %s", f)
		}
	}

	var b strings.Builder
	for _, part := range payload.Parts {
		if part.Path == nil {
			b.WriteString(part.Text)
			continue
		}
		v, err := walkPath(pack, part.Path)
		if err != nil {
			return "", err
		}
		s, err := renderValue(v, part.Format)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func walkPath(pack *value.Pack, path []string) (value.Value, error) {
	var cur value.Value = pack
	for i, seg := range path {
		p, ok := cur.(*value.Pack)
		if !ok {
			return nil, errMsg("경로의 중간 값이 차림이 아닙니다: %s", strings.Join(path[:i+1], "."))
		}
		v, ok := p.Get(seg)
		if !ok {
			return nil, errMsg("PACK_FIELD_MISSING:%s", seg)
		}
		if _, isNone := v.(value.None); isNone {
			return nil, errMsg("PACK_FIELD_NONE:%s", seg)
		}
		cur = v
	}
	return cur, nil
}

func renderValue(v value.Value, format *ast.TemplateFormat) (string, error) {
	if format == nil {
		return displayString(v), nil
	}
	f, dim, isScalar := scalarOf(v)
	if !isScalar {
		return "", errMsg("형식 지정은 수치 값에만 적용됩니다")
	}
	if format.HasUnit {
		spec, ok := numeric.LookupUnitSpec(format.Unit)
		if !ok {
			return "", errMsg("알 수 없는 단위 기호입니다: %s", format.Unit)
		}
		if !spec.Dim.Equal(dim) {
			return "", &numeric.ErrUnitMismatch{Left: dim, Right: spec.Dim}
		}
	}
	prec := uint8(6)
	if format.HasPrec {
		prec = format.Precision
	}
	s := formatFixed(f, prec)
	if format.HasWidth {
		s = padNumeric(s, format.Width, format.ZeroPad)
	}
	if format.HasUnit {
		s += "@" + format.Unit
	}
	return s, nil
}

func scalarOf(v value.Value) (numeric.Fixed64, numeric.UnitDim, bool) {
	switch t := v.(type) {
	case value.Num:
		return t.V, numeric.Dimensionless, true
	case value.Unit:
		return t.V.Value, t.V.Dim, true
	default:
		return numeric.Fixed64{}, numeric.UnitDim{}, false
	}
}

// formatFixed renders f to prec decimal digits with banker's rounding
// at the precision boundary (spec §4.9).
func formatFixed(f numeric.Fixed64, prec uint8) string {
	rounded := f.RoundToPrecision(prec)
	return rounded.DecimalString(prec)
}

func padNumeric(s string, width int, zeroPad bool) string {
	if len(s) >= width {
		return s
	}
	pad := width - len(s)
	if !zeroPad {
		return strings.Repeat(" ", pad) + s
	}
	neg := strings.HasPrefix(s, "-")
	digits := s
	sign := ""
	if neg {
		sign = "-"
		digits = s[1:]
	}
	return sign + strings.Repeat("0", pad) + digits
}

func displayString(v value.Value) string {
	switch t := v.(type) {
	case value.Str:
		return string(t)
	case value.Bool:
		if t {
			return "참"
		}
		return "거짓"
	case value.Num:
		return t.V.String()
	case value.Unit:
		return t.V.Value.String() + t.V.Dim.String()
	default:
		return value.Canon(v)
	}
}

func errMsg(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
