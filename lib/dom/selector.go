// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package dom

import (
	"fmt"
	"strings"
)

// selector is a parsed simple selector: an optional tag with any
// number of id, class, and attribute constraints. Combinators
// (descendant, child, sibling) are not supported; the controller only
// ever needs compound simple selectors.
type selector struct {
	tag     string
	id      string
	classes []string
	attrs   []attrConstraint
}

type attrConstraint struct {
	name  string
	value string
	// exact is false for bare [name] presence checks.
	exact bool
}

func parseSelector(s string) (*selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty selector")
	}
	sel := &selector{}
	i := 0
	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			name, n := readName(s[i:])
			if name == "" {
				return nil, fmt.Errorf("selector %q: empty id", s)
			}
			sel.id = name
			i += n
		case '.':
			i++
			name, n := readName(s[i:])
			if name == "" {
				return nil, fmt.Errorf("selector %q: empty class", s)
			}
			sel.classes = append(sel.classes, name)
			i += n
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("selector %q: unterminated attribute", s)
			}
			body := s[i+1 : i+end]
			i += end + 1
			name, value, hasValue := strings.Cut(body, "=")
			name = strings.TrimSpace(name)
			if name == "" {
				return nil, fmt.Errorf("selector %q: empty attribute name", s)
			}
			c := attrConstraint{name: name}
			if hasValue {
				c.exact = true
				c.value = strings.Trim(strings.TrimSpace(value), `"'`)
			}
			sel.attrs = append(sel.attrs, c)
		default:
			if sel.tag != "" || sel.id != "" || len(sel.classes) > 0 || len(sel.attrs) > 0 {
				return nil, fmt.Errorf("selector %q: unexpected %q", s, s[i])
			}
			name, n := readName(s[i:])
			if name == "" {
				return nil, fmt.Errorf("selector %q: unexpected %q", s, s[i])
			}
			sel.tag = strings.ToLower(name)
			i += n
		}
	}
	return sel, nil
}

// readName consumes a CSS identifier: letters, digits, hyphen,
// underscore.
func readName(s string) (string, int) {
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z',
			c >= '0' && c <= '9', c == '-', c == '_':
			i++
		default:
			return s[:i], i
		}
	}
	return s, len(s)
}

// matches reports whether the node satisfies every constraint.
// Callers must hold the document lock.
func (sel *selector) matches(n *Node) bool {
	if sel.tag != "" && n.tag != sel.tag {
		return false
	}
	if sel.id != "" && n.id != sel.id {
		return false
	}
	for _, class := range sel.classes {
		if _, ok := n.classes[class]; !ok {
			return false
		}
	}
	for _, c := range sel.attrs {
		v, ok := n.attrs[c.name]
		if !ok {
			return false
		}
		if c.exact && v != c.value {
			return false
		}
	}
	return true
}
