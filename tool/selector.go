package tool

import "strings"

// Rule pairs a tool name with a predicate over the query text. Rules are
// evaluated independently, so one query can select several tools, and the
// table can be reordered or extended without touching control flow.
type Rule struct {
	Tool  string
	Match func(query string) bool
}

// DefaultRules returns the built-in keyword rule table.
//
// The "time" rule is a plain substring match and is known to fire on words
// that merely contain "time" ("sometimes", "timestamp"). That imprecision is
// inherited deliberately and kept as a documented limitation rather than
// silently tightened.
func DefaultRules() []Rule {
	return []Rule{
		{Tool: "web_search", Match: func(q string) bool {
			return strings.Contains(q, "search") ||
				strings.Contains(q, "find") ||
				strings.Contains(q, "look up")
		}},
		{Tool: "calculator", Match: func(q string) bool {
			return strings.Contains(q, "calculate") ||
				strings.Contains(q, "math") ||
				hasArithmeticOperator(q)
		}},
		{Tool: "weather", Match: func(q string) bool {
			return strings.Contains(q, "weather")
		}},
		{Tool: "time", Match: func(q string) bool {
			return strings.Contains(q, "time")
		}},
	}
}

// hasArithmeticOperator reports whether q contains one of + - * / with a
// digit on at least one side (spaces ignored), so hyphenated words like
// "state-of-the-art" do not count as subtraction.
func hasArithmeticOperator(q string) bool {
	isDigit := func(c byte) bool { return c >= '0' && c <= '9' }
	for i := 0; i < len(q); i++ {
		c := q[i]
		if c != '+' && c != '-' && c != '*' && c != '/' {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if q[j] == ' ' {
				continue
			}
			if isDigit(q[j]) {
				return true
			}
			break
		}
		for j := i + 1; j < len(q); j++ {
			if q[j] == ' ' {
				continue
			}
			if isDigit(q[j]) {
				return true
			}
			break
		}
	}
	return false
}

// SelectorOptions configure a Selector.
type SelectorOptions struct {
	Rules []Rule
}

// Selector maps a query plus reasoning hints to an ordered, deduplicated
// set of registered tool names. The returned order is the registry's
// registration order, independent of which rule or hint matched first.
type Selector struct {
	registry *Registry
	rules    []Rule
}

// NewSelector constructs a Selector over the given registry with the default
// rule table unless overridden.
func NewSelector(registry *Registry, optFns ...func(o *SelectorOptions)) *Selector {
	opts := SelectorOptions{Rules: DefaultRules()}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Selector{registry: registry, rules: opts.Rules}
}

// Scan evaluates only the rule table against query (lowercased) and returns
// matching tool names in rule order. It ignores the registry, which makes it
// usable as the reasoner's deterministic keyword scan.
func (s *Selector) Scan(query string) []string {
	lower := strings.ToLower(query)
	var matched []string
	for _, rule := range s.rules {
		if rule.Match(lower) {
			matched = append(matched, rule.Tool)
		}
	}
	return matched
}

// Select returns the tools to invoke for query, combining the rule table
// with the reasoning hints, restricted to registered tools, deduplicated and
// ordered by registration order.
func (s *Selector) Select(query string, hints []string) []string {
	wanted := make(map[string]struct{})
	for _, name := range s.Scan(query) {
		wanted[name] = struct{}{}
	}
	for _, name := range hints {
		wanted[name] = struct{}{}
	}

	var selected []string
	for _, name := range s.registry.Names() {
		if _, ok := wanted[name]; ok {
			selected = append(selected, name)
		}
	}
	return selected
}
