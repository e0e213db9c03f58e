package shadow

import "strings"

// #region matcher

// TriggerMatcher decides whether a plan trigger fires for a runtime
// event. Matching is advisory: the caller decides whether to activate.
type TriggerMatcher interface {
	Matches(trigger, event string, ctx map[string]any) bool
}

// SubstringMatcher is the default matcher: case-insensitive substring
// containment against the event, or exact key presence in the context.
type SubstringMatcher struct{}

func (SubstringMatcher) Matches(trigger, event string, ctx map[string]any) bool {
	if strings.Contains(strings.ToLower(event), strings.ToLower(trigger)) {
		return true
	}
	_, ok := ctx[trigger]
	return ok
}

// #endregion matcher
