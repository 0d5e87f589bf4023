package taskview

import "strings"

// Matches reports whether the task would belong in a view governed by this
// filter. It reproduces the server's filter semantics field by field, which
// is what lets a mutation patch cached views without a round trip:
//
//   - status/priority: exact match, or no constraint.
//   - tags: the task must carry every filter tag (AND).
//   - query: case-insensitive substring over title + description.
//   - due range: inclusive; a task with no due date never matches a range.
//
// Pagination fields are ignored; membership is about criteria, not pages.
func (f Filter) Matches(t Task) bool {
	n := f.Normalize()

	if n.Status != nil && t.Status != *n.Status {
		return false
	}
	if n.Priority != nil && t.Priority != *n.Priority {
		return false
	}

	if len(n.Tags) > 0 {
		have := make(map[string]struct{}, len(t.Tags))
		for _, tag := range t.Tags {
			have[strings.ToLower(tag)] = struct{}{}
		}
		for _, want := range n.Tags {
			if _, ok := have[strings.ToLower(want)]; !ok {
				return false
			}
		}
	}

	if n.Query != "" {
		haystack := strings.ToLower(t.Title + " " + t.Description)
		if !strings.Contains(haystack, strings.ToLower(n.Query)) {
			return false
		}
	}

	if n.DueFrom != nil || n.DueTo != nil {
		if t.DueDate == nil {
			return false
		}
		if n.DueFrom != nil && t.DueDate.Before(*n.DueFrom) {
			return false
		}
		if n.DueTo != nil && t.DueDate.After(*n.DueTo) {
			return false
		}
	}

	return true
}
