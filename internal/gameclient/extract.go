package gameclient

import (
	"regexp"
	"strings"
	"sync"
)

// NotFound is returned by Extract when the key does not occur in the body.
const NotFound = "Could not parse JSON"

var (
	patternCache sync.Map // key -> *regexp.Regexp
)

// valuePattern matches "key" : value, where value is the shortest quoted
// string, bracketed array or braced object. Matching is case-insensitive and
// does not cross line breaks inside the value.
func valuePattern(key string) *regexp.Regexp {
	if re, ok := patternCache.Load(key); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?i)"` + regexp.QuoteMeta(key) + `"\s*:\s*(".*?"|\[.*?\]|\{.*?\})`)
	patternCache.Store(key, re)
	return re
}

// Lookup finds the first value for key in a JSON-like body. Strings are returned
// without their quotes and with \" turned back into "; no other escape is
// decoded. Arrays and objects are returned as raw text.
func Lookup(body, key string) (string, bool) {
	m := valuePattern(key).FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	value := m[1]
	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		return strings.ReplaceAll(value[1:len(value)-1], `\"`, `"`), true
	}
	return value, true
}

// Extract is Lookup that reports a miss as the NotFound sentinel.
func Extract(body, key string) string {
	if v, ok := Lookup(body, key); ok {
		return v
	}
	return NotFound
}
