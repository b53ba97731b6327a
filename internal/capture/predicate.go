// Copyright (c) 2026 The Tracebridge Authors.
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"regexp"
	"strings"

	"github.com/tracebridge/tracebridge/model"
)

// Captured is either a captured span or a captured event, as seen by a
// Predicate.
type Captured interface {
	// CallSite returns the item's call-site descriptor, which may be nil
	// when metadata was never registered.
	CallSite() *model.CallSite
	// Value returns the field recorded under name, if any.
	Value(name string) (model.Value, bool)
	// Parent returns the enclosing span, or nil.
	Parent() *Span
}

// Predicate decides whether a captured span or event matches a query.
// Predicates run outside the store lock, so they may safely query the
// store they are scanning, including starting nested scans.
type Predicate func(Captured) bool

// And matches when every given predicate matches, short-circuiting on the
// first miss. With no arguments it matches everything.
func And(preds ...Predicate) Predicate {
	return func(c Captured) bool {
		for _, p := range preds {
			if !p(c) {
				return false
			}
		}
		return true
	}
}

// Or matches when any given predicate matches, short-circuiting on the
// first hit. With no arguments it matches nothing.
func Or(preds ...Predicate) Predicate {
	return func(c Captured) bool {
		for _, p := range preds {
			if p(c) {
				return true
			}
		}
		return false
	}
}

// Name matches items whose call-site name equals name exactly.
func Name(name string) Predicate {
	return func(c Captured) bool {
		site := c.CallSite()
		return site != nil && site.Name == name
	}
}

// NameMatching matches items whose call-site name matches re.
func NameMatching(re *regexp.Regexp) Predicate {
	return func(c Captured) bool {
		site := c.CallSite()
		return site != nil && re.MatchString(site.Name)
	}
}

// Target matches items whose call-site target equals target exactly.
func Target(target string) Predicate {
	return func(c Captured) bool {
		site := c.CallSite()
		return site != nil && site.Target == target
	}
}

// TargetMatching matches items whose call-site target matches re.
func TargetMatching(re *regexp.Regexp) Predicate {
	return func(c Captured) bool {
		site := c.CallSite()
		return site != nil && re.MatchString(site.Target)
	}
}

// Level matches items recorded at exactly level.
func Level(level model.Level) Predicate {
	return func(c Captured) bool {
		site := c.CallSite()
		return site != nil && site.Level == level
	}
}

// LevelAtLeast matches items at level or more severe. ERROR is the most
// severe level and TRACE the least.
func LevelAtLeast(level model.Level) Predicate {
	return func(c Captured) bool {
		site := c.CallSite()
		return site != nil && site.Level <= level
	}
}

// MessageContains matches events whose message contains needle. Spans and
// events without a message never match.
func MessageContains(needle string) Predicate {
	return func(c Captured) bool {
		event, ok := c.(*Event)
		if !ok {
			return false
		}
		msg, ok := event.Message()
		return ok && strings.Contains(msg, needle)
	}
}

// Field matches items carrying a field with the given name whose value
// equals want. An absent field never matches.
func Field(name string, want model.Value) Predicate {
	return func(c Captured) bool {
		v, ok := c.Value(name)
		return ok && v.Equal(want)
	}
}

// FieldMatching matches items carrying a field with the given name whose
// value satisfies match.
func FieldMatching(name string, match func(model.Value) bool) Predicate {
	return func(c Captured) bool {
		v, ok := c.Value(name)
		return ok && match(v)
	}
}

// HasParent matches items whose direct parent span satisfies pred. Roots
// never match.
func HasParent(pred Predicate) Predicate {
	return func(c Captured) bool {
		parent := c.Parent()
		return parent != nil && pred(parent)
	}
}

// HasAncestor matches items with any ancestor span, at any distance,
// satisfying pred.
func HasAncestor(pred Predicate) Predicate {
	return func(c Captured) bool {
		for parent := c.Parent(); parent != nil; parent = parent.Parent() {
			if pred(parent) {
				return true
			}
		}
		return false
	}
}
