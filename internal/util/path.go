// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package util

import (
	"strconv"
	"strings"

	"github.com/apisynth/apisynth/pkg/types"
)

// SplitPath splits a nested path into segments. Both dot notation and
// bracket indices are accepted: "a.b[0].c" and "a.b.0.c" are equivalent.
func SplitPath(path string) []string {
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")
	var out []string
	for _, seg := range strings.Split(path, ".") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// Get returns the value at path inside a tree of *types.OrderedMap[any],
// map[string]any and []any values.
func Get(root any, path string) (any, bool) {
	cur := root
	for _, seg := range SplitPath(path) {
		next, ok := child(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Has reports whether path resolves inside root.
func Has(root any, path string) bool {
	_, ok := Get(root, path)
	return ok
}

// Set stores value at path, creating intermediate objects as needed, and
// returns the (possibly replaced) root. Numeric segments index into
// existing arrays; out-of-range indices grow the array with nil values.
func Set(root any, path string, value any) any {
	segs := SplitPath(path)
	if len(segs) == 0 {
		return value
	}
	return setIn(root, segs, value)
}

func setIn(node any, segs []string, value any) any {
	seg := segs[0]
	last := len(segs) == 1

	if arr, ok := node.([]any); ok {
		if i, err := strconv.Atoi(seg); err == nil && i >= 0 {
			for len(arr) <= i {
				arr = append(arr, nil)
			}
			if last {
				arr[i] = value
			} else {
				arr[i] = setIn(arr[i], segs[1:], value)
			}
			return arr
		}
	}

	switch n := node.(type) {
	case *types.OrderedMap[any]:
		if n == nil {
			n = types.NewOrderedMap[any]()
		}
		if last {
			n.Set(seg, value)
		} else {
			existing, _ := n.Get(seg)
			n.Set(seg, setIn(existing, segs[1:], value))
		}
		return n
	case map[string]any:
		if last {
			n[seg] = value
		} else {
			n[seg] = setIn(n[seg], segs[1:], value)
		}
		return n
	default:
		obj := types.NewOrderedMap[any]()
		if last {
			obj.Set(seg, value)
		} else {
			obj.Set(seg, setIn(nil, segs[1:], value))
		}
		return obj
	}
}

// Unset removes the value at path and reports whether something was removed.
// Array elements are set to nil rather than spliced out.
func Unset(root any, path string) bool {
	segs := SplitPath(path)
	if len(segs) == 0 {
		return false
	}
	parent := root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := child(parent, seg)
		if !ok {
			return false
		}
		parent = next
	}

	key := segs[len(segs)-1]
	switch n := parent.(type) {
	case *types.OrderedMap[any]:
		return n.Delete(key)
	case map[string]any:
		if _, ok := n[key]; !ok {
			return false
		}
		delete(n, key)
		return true
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(n) {
			return false
		}
		n[i] = nil
		return true
	}
	return false
}

func child(node any, seg string) (any, bool) {
	switch n := node.(type) {
	case *types.OrderedMap[any]:
		return n.Get(seg)
	case map[string]any:
		v, ok := n[seg]
		return v, ok
	case []any:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= len(n) {
			return nil, false
		}
		return n[i], true
	}
	return nil, false
}
