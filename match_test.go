package taskview

import (
	"testing"
	"time"
)

func TestMatches(t *testing.T) {
	due := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	task := Task{
		ID:          idA,
		Title:       "Ship quarterly report",
		Description: "Numbers for Finance",
		Status:      StatusInProgress,
		Priority:    PriorityHigh,
		DueDate:     &due,
		Tags:        []string{"finance", "Reports"},
	}
	noDue := task
	noDue.DueDate = nil

	day := 24 * time.Hour
	cases := []struct {
		name string
		task Task
		f    Filter
		want bool
	}{
		{"empty filter matches", task, Filter{}, true},
		{"status exact", task, Filter{Status: ptr(StatusInProgress)}, true},
		{"status mismatch", task, Filter{Status: ptr(StatusDone)}, false},
		{"priority exact", task, Filter{Priority: ptr(PriorityHigh)}, true},
		{"priority mismatch", task, Filter{Priority: ptr(PriorityLow)}, false},
		{"single tag", task, Filter{Tags: []string{"finance"}}, true},
		{"tag case-insensitive", task, Filter{Tags: []string{"REPORTS"}}, true},
		{"tags are AND", task, Filter{Tags: []string{"finance", "legal"}}, false},
		{"all tags present", task, Filter{Tags: []string{"finance", "reports"}}, true},
		{"query in title", task, Filter{Query: "QUARTERLY"}, true},
		{"query in description", task, Filter{Query: "numbers for"}, true},
		{"query spans nothing", task, Filter{Query: "missing"}, false},
		{"due range inclusive lower", task, Filter{DueFrom: &due}, true},
		{"due range inclusive upper", task, Filter{DueTo: &due}, true},
		{"due before range", task, Filter{DueFrom: ptr(due.Add(day))}, false},
		{"due after range", task, Filter{DueTo: ptr(due.Add(-day))}, false},
		{"no due date never matches range", noDue, Filter{DueFrom: ptr(due.Add(-day))}, false},
		{"no due date with no range", noDue, Filter{}, true},
		{"pagination ignored", task, Filter{Page: 4, PageSize: 10}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.f.Matches(tc.task); got != tc.want {
				t.Fatalf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}
