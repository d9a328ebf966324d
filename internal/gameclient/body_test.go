package gameclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeJSONString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "north", "north"},
		{"backslash", `a\b`, `a\\b`},
		{"quote", `say "hi"`, `say \"hi\"`},
		{"backspace", "a\bb", `a\bb`},
		{"form feed", "a\fb", `a\fb`},
		{"newline", "line1\nline2", `line1\nline2`},
		{"carriage return", "a\rb", `a\rb`},
		{"tab", "a\tb", `a\tb`},
		{"escaped quote stays distinct", `\"`, `\\\"`},
		{"other control chars pass through", "a\x01b\x1fc", "a\x01b\x1fc"},
		{"unicode untouched", "épée", "épée"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeJSONString(tt.input))
		})
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		`C:\games\mids`,
		`"quoted"`,
		"\b\f\n\r\t",
		`\n is not a newline`,
		"mixed \\ \" \b \f \n \r \t end",
		`\\\\`,
		"trailing backslash \\",
	}
	for _, in := range inputs {
		assert.Equal(t, in, UnescapeJSONString(EscapeJSONString(in)), "input %q", in)
	}
}

func TestUnescapeJSONString_UnknownSequences(t *testing.T) {
	assert.Equal(t, `\u0041`, UnescapeJSONString(`\u0041`))
	assert.Equal(t, `ends with \`, UnescapeJSONString(`ends with \`))
}

func TestBuildBody(t *testing.T) {
	assert.Equal(t, `{"username": "testUser", "password": "pass123"}`,
		BuildBody(F("username", "testUser"), F("password", "pass123")))
	assert.Equal(t, `{"direction": "north"}`, BuildBody(F("direction", "north")))
	assert.Equal(t, `{"action": "reading \"the\" book"}`, BuildBody(F("action", `reading "the" book`)))
	assert.Equal(t, `{"password": "x", "username": "y"}`, BuildBody(F("password", "x"), F("username", "y")))
	assert.Equal(t, `{}`, BuildBody())
}
