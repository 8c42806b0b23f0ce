package engine

// End is the routing target that terminates the run
const End = "__end__"

// Predicate inspects the state produced by the node just executed. It must
// be pure: no collaborator calls, no state mutation.
type Predicate func(state *State) bool

// HasPendingToolCalls is the canonical branching predicate for tool loops.
// The pending set is the single source of truth for "needs another tool
// round"; message content is never inspected.
func HasPendingToolCalls(state *State) bool {
	return len(state.PendingToolCalls) > 0
}

type ruleKind int

const (
	ruleAlways ruleKind = iota
	ruleIf
	ruleTerminate
)

// Rule decides the next node after one node completes. Exactly one rule
// applies per node; the graph builder rejects duplicates.
type Rule struct {
	kind      ruleKind
	next      string
	predicate Predicate
	then      string
	els       string
}

// Always routes unconditionally to the given node, or terminates for End
func Always(next string) Rule {
	return Rule{kind: ruleAlways, next: next}
}

// If routes to then when the predicate holds against the just-produced
// state, otherwise to els. Either target may be End.
func If(predicate Predicate, then, els string) Rule {
	return Rule{kind: ruleIf, predicate: predicate, then: then, els: els}
}

// Terminate ends the run after the node completes
func Terminate() Rule {
	return Rule{kind: ruleTerminate}
}

// targets returns the node ids the rule may route to, End excluded
func (r Rule) targets() []string {
	var ids []string
	switch r.kind {
	case ruleAlways:
		if r.next != End {
			ids = append(ids, r.next)
		}
	case ruleIf:
		if r.then != End {
			ids = append(ids, r.then)
		}
		if r.els != End {
			ids = append(ids, r.els)
		}
	}
	return ids
}

// route evaluates the rule against the state, returning the next node id or
// ok=false to terminate. Predicates are evaluated exactly once per step.
func (r Rule) route(state *State) (string, bool) {
	switch r.kind {
	case ruleAlways:
		if r.next == End {
			return "", false
		}
		return r.next, true
	case ruleIf:
		next := r.els
		if r.predicate(state) {
			next = r.then
		}
		if next == End {
			return "", false
		}
		return next, true
	default:
		return "", false
	}
}
