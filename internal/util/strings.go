// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

// Package util provides string-shape and nested-path helpers shared by the parsers.
package util

import (
	"encoding/json"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// title upper-cases the first letter of every word. Casers are stateful,
// so one is created per call.
func title(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

// Words splits s into words on non-alphanumeric runes, lower-to-upper
// transitions, acronym ends ("HTTPServer" -> "HTTP", "Server") and
// letter/digit boundaries that follow an upper-case run.
func Words(s string) []string {
	runes := []rune(s)
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 {
			prev := runes[i-1]
			switch {
			case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
				flush()
			case unicode.IsUpper(r) && unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			case unicode.IsDigit(r) && unicode.IsUpper(prev):
				flush()
			case unicode.IsLetter(r) && unicode.IsDigit(prev):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()

	return words
}

// SnakeCase converts s to snake_case. Already snake-cased input is returned unchanged.
func SnakeCase(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "_")
}

// CamelCase removes "-", "_" and whitespace separators, upper-casing the
// following character, and lower-cases the first character.
func CamelCase(s string) string {
	var sb strings.Builder
	upper := false
	for _, r := range s {
		if r == '-' || r == '_' || unicode.IsSpace(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return ToLowerCamelCase(sb.String())
}

// ToLowerCamelCase lower-cases the first character of s.
func ToLowerCamelCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// StartCase converts s to space separated Title Case words ("orderStatus" -> "Order Status").
func StartCase(s string) string {
	return title(strings.Join(Words(s), " "))
}

// FormatOperationID derives an operation ID from a handler reference:
// non-alphanumeric characters separate words, every word is Pascal-cased,
// the words are joined and the result camel-cased.
//
//	"#controllers/users_controller.index" -> "controllersUsersControllerIndex"
func FormatOperationID(ref string) string {
	var sb strings.Builder
	for _, w := range Words(ref) {
		sb.WriteString(title(w))
	}
	return ToLowerCamelCase(sb.String())
}

var (
	bracketMu       sync.Mutex
	bracketPatterns = map[string]*regexp.Regexp{}
)

func bracketPattern(keyword string) *regexp.Regexp {
	bracketMu.Lock()
	defer bracketMu.Unlock()

	re, ok := bracketPatterns[keyword]
	if !ok {
		re = regexp.MustCompile(regexp.QuoteMeta(keyword) + `\(([^()]*)\)`)
		bracketPatterns[keyword] = re
	}
	return re
}

// GetBetweenBrackets returns the content of the first "keyword(...)" group
// in value. Spaces are removed for every keyword except "example", and a
// matched "paginated" keyword always yields "true". It returns "" when
// the keyword is absent.
func GetBetweenBrackets(value, keyword string) string {
	m := bracketPattern(keyword).FindStringSubmatch(value)
	if m == nil {
		return ""
	}
	if keyword == "paginated" {
		return "true"
	}
	content := m[1]
	if keyword != "example" {
		content = strings.ReplaceAll(content, " ", "")
	}
	return content
}

// IsJSONString reports whether s is a valid JSON text.
func IsJSONString(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && json.Valid([]byte(s))
}

// ExtractInnerType extracts the inner type from a generic or array type.
// For example: "HasMany<typeof Post>" returns "typeof Post", "User[]" returns "User".
func ExtractInnerType(t string) string {
	if strings.HasSuffix(t, "[]") {
		return strings.TrimSuffix(t, "[]")
	}

	start := strings.Index(t, "<")
	end := strings.LastIndex(t, ">")
	if start != -1 && end != -1 && end > start {
		return strings.TrimSpace(t[start+1 : end])
	}

	return t
}

// IsIdentifier reports whether s is a plain identifier (letters, digits, "_", "$").
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
