package extract

import "strings"

// ColumnUnset marks a semantic role that could not be mapped to any column.
// Downstream extraction treats it as "feature unavailable": every value read
// through it is absent, never an error.
const ColumnUnset = -1

// Layout maps the semantic roles of a payout sheet to column indices.
// Resolved once per file; headers are assumed constant across its rows.
type Layout struct {
	Order      int // combined order + comment text cell
	Payout     int
	Worker     int
	Diagnostic int
	Inspection int
	Comment    int
}

type ruleKind int

const (
	ruleExact ruleKind = iota
	ruleSubstring
	rulePosition
)

// columnRule is one step of a role's layered lookup: exact label match,
// then keyword fragment, then — for roles with a stable spot in the
// historical template — a positional guess.
type columnRule struct {
	kind  ruleKind
	label string
	index int
}

func exact(label string) columnRule    { return columnRule{kind: ruleExact, label: label} }
func fragment(label string) columnRule { return columnRule{kind: ruleSubstring, label: label} }
func position(index int) columnRule    { return columnRule{kind: rulePosition, index: index} }

// Rule order encodes header priority: the combined "order and comments"
// label beats a bare "order" label, which beats keyword fragments.
var (
	orderRules = []columnRule{
		exact("заказ и комментарии"), exact("заказ и комментарий"),
		exact("order and comments"),
		exact("заказ"), exact("order"),
		fragment("заказ"), fragment("order"),
		position(1),
	}
	payoutRules = []columnRule{
		exact("итог"), exact("итого"), exact("сумма"), exact("к выплате"),
		exact("total"), exact("amount"),
		fragment("итог"), fragment("сумм"), fragment("выплат"),
		fragment("total"), fragment("amount"),
	}
	workerRules = []columnRule{
		exact("монтажник"), exact("мастер"), exact("исполнитель"),
		exact("worker"), exact("technician"),
		fragment("монтаж"), fragment("мастер"), fragment("фио"),
		fragment("worker"), fragment("technician"),
		position(0),
	}
	diagnosticRules = []columnRule{
		exact("диагностика"), exact("diagnostic"), exact("diagnostics"),
		fragment("диагн"), fragment("diagn"),
	}
	inspectionRules = []columnRule{
		exact("выезд"), exact("inspection"), exact("dispatch"),
		fragment("выезд"), fragment("inspect"), fragment("dispatch"),
	}
	commentRules = []columnRule{
		exact("комментарий"), exact("комментарии"),
		exact("comment"), exact("comments"),
		fragment("коммент"),
	}
)

// LocateColumns resolves the semantic roles against one header row. A role
// with no matching rule stays ColumnUnset.
func LocateColumns(header []string) Layout {
	labels := make([]string, len(header))
	for i, h := range header {
		labels[i] = Normalize(h)
	}
	return Layout{
		Order:      resolveColumn(labels, orderRules),
		Payout:     resolveColumn(labels, payoutRules),
		Worker:     resolveColumn(labels, workerRules),
		Diagnostic: resolveColumn(labels, diagnosticRules),
		Inspection: resolveColumn(labels, inspectionRules),
		Comment:    resolveColumn(labels, commentRules),
	}
}

func resolveColumn(labels []string, rules []columnRule) int {
	for _, r := range rules {
		switch r.kind {
		case ruleExact:
			for i, lb := range labels {
				if lb == r.label {
					return i
				}
			}
		case ruleSubstring:
			for i, lb := range labels {
				if lb != "" && strings.Contains(lb, r.label) {
					return i
				}
			}
		case rulePosition:
			if r.index >= 0 && r.index < len(labels) {
				return r.index
			}
		}
	}
	return ColumnUnset
}

// IsHeaderArtifact reports whether a worker-column value is actually a header
// label that leaked into the data rows.
func IsHeaderArtifact(s string) bool {
	n := Normalize(s)
	if n == "" {
		return false
	}
	for _, rules := range [][]columnRule{workerRules, orderRules, payoutRules, commentRules} {
		for _, r := range rules {
			if r.kind == ruleExact && r.label == n {
				return true
			}
		}
	}
	return false
}
