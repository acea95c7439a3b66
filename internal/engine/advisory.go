package engine

import "strings"

// Advisory is one (predicate, message) pair of a calculator's warning or
// recommendation rule set. Rules are declared in a fixed slice and evaluated
// in order, which makes each rule set independently enumerable and testable.
type Advisory struct {
	When    bool
	Message string
}

// SelectAdvisories returns the messages whose predicate holds, preserving
// declaration order.
func SelectAdvisories(rules []Advisory) []string {
	var out []string
	for _, r := range rules {
		if r.When {
			out = append(out, r.Message)
		}
	}
	return out
}

// JoinAdvisories renders the selected messages as a single result field,
// one message per line. No rule firing yields the empty string.
func JoinAdvisories(rules []Advisory) string {
	return strings.Join(SelectAdvisories(rules), "\n")
}
