// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"regexp"
	"strings"

	"github.com/apisynth/apisynth/internal/util"
	"github.com/apisynth/apisynth/pkg/types"
)

var enumHeaderPattern = regexp.MustCompile(`^(?:export\s+)?(?:declare\s+)?(?:const\s+)?enum\s+(\w+)`)

// ParseEnums scans enum declarations into string enum schemas. A line
// comment directly above the enum keyword becomes the description.
func ParseEnums(data string) *types.OrderedMap[*types.Schema] {
	out := types.NewOrderedMap[*types.Schema]()
	var current *types.Schema
	description := ""

	for _, raw := range strings.Split(strings.ReplaceAll(data, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if current == nil {
			if strings.HasPrefix(line, "//") {
				description = strings.TrimSpace(strings.TrimPrefix(line, "//"))
				continue
			}
			match := enumHeaderPattern.FindStringSubmatch(line)
			if match == nil {
				description = ""
				continue
			}

			name := match[1]
			if description == "" {
				description = util.StartCase(name) + " enumeration"
			}
			current = &types.Schema{Type: "string", Enum: []any{}, Description: description}
			out.Set(name, current)
			description = ""

			body, closed := inlineBody(line)
			addEnumMembers(current, body)
			if closed {
				current = nil
			}
			continue
		}

		if isCommentLine(line) {
			continue
		}
		body, closed := line, false
		if idx := strings.Index(line, "}"); idx != -1 {
			body, closed = line[:idx], true
		}
		addEnumMembers(current, body)
		if closed {
			current = nil
		}
	}

	return out
}

// addEnumMembers appends the members of a comma or line separated body.
func addEnumMembers(s *types.Schema, body string) {
	for _, member := range strings.Split(body, ",") {
		member = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(member), "{"))
		if member == "" || strings.HasPrefix(member, "//") {
			continue
		}
		key, value, found := strings.Cut(member, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if found {
			s.Enum = append(s.Enum, enumValue(value))
		} else {
			s.Enum = append(s.Enum, strings.Trim(key, `'"`))
		}
	}
}

// enumValue strips quotes and commas from a member initializer.
func enumValue(v string) string {
	return strings.TrimSpace(strings.NewReplacer(`'`, "", `"`, "", "`", "", ",", "").Replace(v))
}
