package gameclient

import "strings"

// Field is one name/value pair of a request body.
type Field struct {
	Name  string
	Value string
}

// F is shorthand for Field{name, value}.
func F(name, value string) Field {
	return Field{Name: name, Value: value}
}

// Only these seven characters are escaped. Other control characters are
// passed through unchanged.
var jsonEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\b", `\b`,
	"\f", `\f`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// EscapeJSONString escapes value for use inside a JSON string literal.
func EscapeJSONString(value string) string {
	return jsonEscaper.Replace(value)
}

// UnescapeJSONString reverses EscapeJSONString. Unknown escape sequences are
// kept as written.
func UnescapeJSONString(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if ch != '\\' || i+1 == len(value) {
			b.WriteByte(ch)
			continue
		}
		next := value[i+1]
		switch next {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(ch)
			continue
		}
		i++
	}
	return b.String()
}

// BuildBody renders fields as a flat JSON object of string values, in the order
// given: {"username": "a", "password": "b"}.
func BuildBody(fields ...Field) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('"')
		b.WriteString(f.Name)
		b.WriteString(`": "`)
		b.WriteString(EscapeJSONString(f.Value))
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}
