// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package vine

import (
	"encoding/base64"
	"fmt"
	"math"
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/apisynth/apisynth/internal/schema"
	"github.com/apisynth/apisynth/pkg/types"
)

var (
	alphaPattern        = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphaNumericPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	mobilePattern       = regexp.MustCompile(`^\+?[1-9][0-9]{6,14}$`)
	hexCodePattern      = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	mobileSeparators    = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// TryValidate validates payload and returns one message per failing field.
// Each field stops at its first failure: presence, then type, then rules in
// declaration order. messages overrides the message text per rule name.
func (v *Validator) TryValidate(payload any, messages map[string]string) []schema.ValidationMessage {
	r := &run{refs: v.desc.Refs, messages: messages}
	root := v.desc.Schema
	if root == nil {
		return nil
	}
	if payload == nil {
		payload = types.NewOrderedMap[any]()
	}
	r.field(root, payload, true, "")
	return r.out
}

type run struct {
	refs     map[string]schema.RuleOptions
	messages map[string]string
	out      []schema.ValidationMessage
}

func (r *run) fail(field, rule string) {
	msg, ok := r.messages[rule]
	if !ok {
		name := field
		if name == "" {
			name = "payload"
		}
		msg = fmt.Sprintf("The %s field failed the %s validation", name, rule)
	}
	r.out = append(r.out, schema.ValidationMessage{Field: field, Rule: rule, Message: msg})
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func (r *run) field(n *schema.ValidatorNode, value any, present bool, path string) {
	if !present || value == nil {
		if (present && n.AllowNull) || n.IsOptional {
			return
		}
		r.fail(path, "required")
		return
	}

	switch n.Type {
	case "object":
		obj, ok := asObject(value)
		if !ok {
			r.fail(path, "object")
			return
		}
		if !r.rules(n, value, path) {
			return
		}
		for _, p := range n.Properties {
			v, has := obj(p.FieldName)
			r.field(p, v, has, join(path, p.FieldName))
		}
	case "array":
		arr, ok := value.([]any)
		if !ok {
			r.fail(path, "array")
			return
		}
		if !r.rules(n, value, path) || n.Each == nil {
			return
		}
		for i, el := range arr {
			r.field(n.Each, el, true, join(path, strconv.Itoa(i)))
		}
	default:
		if rule, ok := checkType(n.Subtype, value); !ok {
			r.fail(path, rule)
			return
		}
		r.rules(n, value, path)
	}
}

// rules runs n's rules in order and reports whether all passed.
func (r *run) rules(n *schema.ValidatorNode, value any, path string) bool {
	for _, ref := range n.Validations {
		opts, ok := r.refs[ref.RuleFnID]
		if !ok {
			continue
		}
		if !checkRule(opts, value) {
			r.fail(path, opts.Rule)
			return false
		}
	}
	return true
}

func asObject(value any) (func(string) (any, bool), bool) {
	switch obj := value.(type) {
	case *types.OrderedMap[any]:
		if obj == nil {
			return nil, false
		}
		return obj.Get, true
	case map[string]any:
		return func(k string) (any, bool) {
			v, ok := obj[k]
			return v, ok
		}, true
	}
	return nil, false
}

// checkType checks a literal's value against its subtype and returns the
// failing rule name.
func checkType(subtype string, value any) (string, bool) {
	switch subtype {
	case "string":
		_, ok := value.(string)
		return "string", ok
	case "number":
		_, ok := asNumber(value)
		return "number", ok
	case "boolean":
		_, ok := value.(bool)
		return "boolean", ok
	case "date":
		return "date", isDate(value)
	}
	return "", true
}

// asNumber accepts numbers and numeric strings.
func asNumber(value any) (float64, bool) {
	switch n := value.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	case bool:
		return 0, false
	}
	return toFloat(value)
}

func isDate(value any) bool {
	switch d := value.(type) {
	case time.Time:
		return true
	case string:
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, d); err == nil {
				return true
			}
		}
	}
	return false
}

// checkRule evaluates one rule. Rules that do not apply to the value's kind
// and rules without a static meaning pass.
func checkRule(opts schema.RuleOptions, value any) bool {
	s, isString := value.(string)
	arr, isArray := value.([]any)

	switch opts.Rule {
	case "enum", "in":
		return contains(opts.Choices, value)
	case "notIn":
		return !contains(opts.Choices, value)
	case "minLength", "maxLength", "fixedLength":
		var n int
		switch {
		case isString:
			n = utf8.RuneCountInString(s)
		case isArray:
			n = len(arr)
		default:
			return true
		}
		return within(float64(n), opts)
	case "notEmpty":
		return !isArray || len(arr) > 0
	case "distinct":
		if !isArray {
			return true
		}
		seen := make(map[string]bool, len(arr))
		for _, el := range arr {
			key := fmt.Sprintf("%T:%v", el, el)
			if seen[key] {
				return false
			}
			seen[key] = true
		}
		return true
	case "min", "max", "range":
		f, ok := asNumber(value)
		return !ok || within(f, opts)
	case "positive":
		f, ok := asNumber(value)
		return !ok || f >= 0
	case "negative":
		f, ok := asNumber(value)
		return !ok || f < 0
	case "withoutDecimals":
		f, ok := asNumber(value)
		return !ok || f == math.Trunc(f)
	case "accepted":
		switch v := value.(type) {
		case bool:
			return v
		case string:
			switch v {
			case "on", "1", "yes", "true":
				return true
			}
			return false
		}
		f, ok := toFloat(value)
		return ok && f == 1
	}

	if !isString {
		return true
	}
	switch opts.Rule {
	case "email":
		addr, err := mail.ParseAddress(s)
		return err == nil && addr.Address == s
	case "url":
		u, err := url.ParseRequestURI(s)
		return err == nil && u.Scheme != "" && u.Host != ""
	case "uuid":
		_, err := uuid.Parse(s)
		return err == nil
	case "ipAddress":
		return net.ParseIP(s) != nil
	case "mobile":
		return mobilePattern.MatchString(mobileSeparators.Replace(s))
	case "alpha":
		return alphaPattern.MatchString(s)
	case "alphaNumeric":
		return alphaNumericPattern.MatchString(s)
	case "hexCode":
		return hexCodePattern.MatchString(s)
	case "creditCard":
		return luhn(s)
	case "jwt":
		return isJWT(s)
	case "regex":
		re, err := regexp.Compile(opts.Pattern)
		return err != nil || re.MatchString(s)
	}
	return true
}

func within(n float64, opts schema.RuleOptions) bool {
	if opts.Min != nil && n < *opts.Min {
		return false
	}
	if opts.Max != nil && n > *opts.Max {
		return false
	}
	return true
}

func contains(choices []any, value any) bool {
	for _, c := range choices {
		if cf, ok := toFloat(c); ok {
			if vf, ok := toFloat(value); ok && cf == vf {
				return true
			}
			continue
		}
		switch cv := c.(type) {
		case string:
			if s, ok := value.(string); ok && s == cv {
				return true
			}
		case bool:
			if b, ok := value.(bool); ok && b == cv {
				return true
			}
		}
	}
	return false
}

func luhn(s string) bool {
	digits := strings.NewReplacer(" ", "", "-", "").Replace(s)
	if len(digits) < 12 || len(digits) > 19 {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func isJWT(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts[:2] {
		if _, err := base64.RawURLEncoding.DecodeString(p); err != nil {
			return false
		}
	}
	return true
}
