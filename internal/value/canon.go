package value

import "strings"

// Canon computes the canonical string form of v (spec §3, §4.2). This
// string is the sole input to Set/Map key equality, to value ordering
// tie-breaks, and to the content hash of any state snapshot that embeds
// v.
func Canon(v Value) string {
	switch t := v.(type) {
	case None:
		return "없음"
	case Bool:
		if bool(t) {
			return "참"
		}
		return "거짓"
	case Num:
		return t.V.String()
	case Unit:
		sym := t.V.Dim.String()
		if sym == "" {
			sym = "_"
		}
		return t.V.Value.String() + "@" + sym
	case Str:
		return "\"" + escapeString(string(t)) + "\""
	case Handle:
		return "자원:" + t.Hex
	case List:
		var b strings.Builder
		b.WriteByte('[')
		for i, item := range t.Items {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(Canon(item))
		}
		b.WriteByte(']')
		return b.String()
	case Set:
		var b strings.Builder
		b.WriteByte('{')
		for i, item := range t.Items() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(Canon(item))
		}
		b.WriteByte('}')
		return b.String()
	case Map:
		var b strings.Builder
		b.WriteByte('{')
		for i, e := range t.Entries() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(Canon(e.Key))
			b.WriteByte(':')
			b.WriteString(Canon(e.Value))
		}
		b.WriteByte('}')
		return b.String()
	case *Pack:
		var b strings.Builder
		b.WriteByte('<')
		for i, name := range t.FieldNames() {
			if i > 0 {
				b.WriteByte(',')
			}
			fv, _ := t.Get(name)
			b.WriteString(escapeString(name))
			b.WriteByte('=')
			b.WriteString(Canon(fv))
		}
		b.WriteByte('>')
		return b.String()
	case Formula:
		return "수식(" + t.P.CanonText() + ")"
	case Template:
		return "틀(" + t.P.CanonText() + ")"
	case Lambda:
		return "람다#" + itoa(t.ID)
	default:
		return "?"
	}
}

// escapeString applies the §3 string-escape rules: backslash, double
// quote, newline, tab, carriage return only.
func escapeString(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
