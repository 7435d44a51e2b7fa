// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

// Package example synthesizes deterministic example values for schema
// fields, validator rules and type references.
package example

import (
	"strings"

	"github.com/google/uuid"

	"github.com/apisynth/apisynth/internal/util"
	"github.com/apisynth/apisynth/pkg/types"
)

// Fixed example literals shared across the synthesizers.
const (
	Text     = "Lorem Ipsum"
	Date     = "2021-03-23"
	DateTime = "2021-03-23T16:13:08.489+01:00"
	Email    = "johndoe@example.com"
	URL      = "https://example.com"
	Phone    = "+12125551234"
	IP       = "127.0.0.1"
)

// UUID is a stable name-based UUID so repeated runs emit identical documents.
var UUID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://example.com/apisynth")).String()

// ByType returns an example for a declared type or format name, or nil
// when the name is unknown. Matching is case-insensitive.
func ByType(typeName string) any {
	switch strings.ToLower(strings.TrimSpace(typeName)) {
	case "string":
		return Text
	case "number", "integer", "int", "int32", "int64":
		return 1
	case "float", "double", "decimal":
		return 1.5
	case "boolean", "bool":
		return true
	case "date":
		return Date
	case "datetime", "date-time", "timestamp":
		return DateTime
	case "email":
		return Email
	case "uuid":
		return UUID
	case "url", "uri":
		return URL
	case "ipv4", "ip", "ipaddress":
		return IP
	case "password":
		return "S3cur3P4s5word!"
	case "object":
		return types.NewOrderedMap[any]()
	case "array":
		return []any{}
	default:
		return nil
	}
}

// ByField returns an example derived from a field name. It never returns
// nil: unknown names fall back to a placeholder string.
func ByField(field string) any {
	f := strings.ToLower(util.SnakeCase(field))

	switch f {
	case "id", "_id":
		return 1
	case "uuid", "guid":
		return UUID
	case "email", "email_address":
		return Email
	case "password", "password_confirmation":
		return "S3cur3P4s5word!"
	case "name", "full_name", "fullname":
		return "John Doe"
	case "first_name", "firstname":
		return "John"
	case "last_name", "lastname", "surname":
		return "Doe"
	case "username", "user_name", "login":
		return "johndoe"
	case "phone", "mobile", "phone_number", "telephone":
		return Phone
	case "url", "website", "link", "homepage":
		return URL
	case "avatar", "image", "picture", "photo":
		return URL + "/avatar.png"
	case "price", "amount", "total", "cost":
		return 9.99
	case "quantity", "count", "age":
		return 1
	case "description", "bio", "content", "body":
		return "Lorem ipsum dolor sit amet"
	case "title", "subject":
		return Text
	case "status", "state":
		return "active"
	case "token", "access_token", "refresh_token":
		return "oat_MTA.Ny1hbkx3ZzJxRjR5YnhZbXlQUlB3"
	case "date", "birthday", "birthdate":
		return Date
	case "ip", "ip_address":
		return IP
	case "country":
		return "US"
	case "city":
		return "New York"
	case "zip", "zip_code", "postal_code":
		return "10001"
	case "slug":
		return "lorem-ipsum"
	}

	switch {
	case strings.HasSuffix(f, "_id"):
		return 1
	case strings.HasPrefix(f, "is_"), strings.HasPrefix(f, "has_"), strings.HasPrefix(f, "can_"):
		return true
	case strings.HasSuffix(f, "_at"):
		return DateTime
	case strings.HasSuffix(f, "_date"), strings.HasSuffix(f, "_on"):
		return Date
	case strings.HasSuffix(f, "_url"), strings.HasSuffix(f, "_link"):
		return URL
	case strings.HasSuffix(f, "_email"):
		return Email
	case strings.HasSuffix(f, "_count"), strings.HasSuffix(f, "_number"):
		return 1
	case strings.HasSuffix(f, "_uuid"):
		return UUID
	}

	return Text
}

// ByValidatorRule returns an example satisfying a validator rule name, or
// nil when the rule carries no example.
func ByValidatorRule(rule string) any {
	switch strings.ToLower(rule) {
	case "email":
		return Email
	case "url", "activeurl":
		return URL
	case "uuid":
		return UUID
	case "date":
		return Date
	case "datetime":
		return DateTime
	case "ipaddress", "ip":
		return IP
	case "mobile", "phone":
		return Phone
	case "alpha":
		return "Lorem"
	case "alphanumeric":
		return "Lorem123"
	case "hexcode":
		return "#ff0000"
	case "creditcard":
		return "4111111111111111"
	case "postalcode":
		return "10001"
	case "passport":
		return "X1234567"
	case "jwt":
		return "eyJhbGciOiJIUzI1NiJ9.e30.ZRrHA1JJJW8opsbCGfG_HACGpVUMN_a9IV7pAx_Zmeo"
	case "ascii", "string", "trim", "escape":
		return Text
	case "number", "integer", "withoutdecimals", "positive":
		return 1
	case "decimal":
		return 1.5
	case "boolean", "accepted":
		return true
	default:
		return nil
	}
}

// ForProperty returns the example a declaration parser attaches to a
// property of the given declared type: string-like and untyped properties
// use the field name, everything else the type with the field name as
// fallback.
func ForProperty(field, typ, format string) any {
	if format != "" {
		if v := ByType(format); v != nil {
			return v
		}
	}
	if typ == "" || strings.EqualFold(typ, "string") {
		return ByField(field)
	}
	if v := ByType(typ); v != nil {
		return v
	}
	return ByField(field)
}
