package taskview

import (
	"reflect"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestNormalizeCanonicalForm(t *testing.T) {
	st := StatusTodo
	f := Filter{
		Page:   0,
		Tags:   []string{" infra ", "Build", "build", ""},
		Query:  "  weekly \t report ",
		Status: &st,
	}
	n := f.Normalize()

	if n.Page != 1 {
		t.Fatalf("page not defaulted: %d", n.Page)
	}
	if n.Query != "weekly report" {
		t.Fatalf("query not collapsed: %q", n.Query)
	}
	if !reflect.DeepEqual(n.Tags, []string{"Build", "infra"}) {
		t.Fatalf("tags not deduped/sorted: %v", n.Tags)
	}
}

func TestNormalizeDropsEmptyOptionals(t *testing.T) {
	empty := Status("")
	f := Filter{Status: &empty, Tags: []string{"  "}}
	n := f.Normalize()
	if n.Status != nil {
		t.Fatalf("empty status should normalize to absent")
	}
	if len(n.Tags) != 0 {
		t.Fatalf("blank tags should be dropped: %v", n.Tags)
	}

	// Absent and explicitly-empty specs share a canonical form.
	if f.canonical() != (Filter{}).canonical() {
		t.Fatalf("empty optionals changed the cache key:\n%q\n%q", f.canonical(), (Filter{}).canonical())
	}
}

func TestNormalizeClampsPageSize(t *testing.T) {
	n := Filter{PageSize: 500}.Normalize()
	if n.PageSize != MaxPageSize {
		t.Fatalf("pageSize not clamped: %d", n.PageSize)
	}
}

func TestCanonicalOrderIndependent(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	pr := PriorityHigh
	a := Filter{Tags: []string{"x", "y"}, Priority: &pr, DueFrom: &from, PageSize: 50}
	b := Filter{PageSize: 50, DueFrom: &from, Priority: &pr, Tags: []string{"y", "x"}}
	if a.canonical() != b.canonical() {
		t.Fatalf("canonical differs for equivalent specs:\n%q\n%q", a.canonical(), b.canonical())
	}
	if a.storageKey("tasks", "u1") != b.storageKey("tasks", "u1") {
		t.Fatalf("storage keys differ for equivalent specs")
	}
}

func TestNormalizeIdempotentProperty(t *testing.T) {
	statuses := []*Status{nil, ptr(StatusTodo), ptr(StatusInProgress), ptr(StatusDone), ptr(Status(""))}
	priorities := []*Priority{nil, ptr(PriorityLow), ptr(PriorityMedium), ptr(PriorityHigh)}

	rapid.Check(t, func(rt *rapid.T) {
		f := Filter{
			Page:     rapid.IntRange(-3, 9).Draw(rt, "page"),
			PageSize: rapid.IntRange(-5, 300).Draw(rt, "pageSize"),
			Status:   rapid.SampledFrom(statuses).Draw(rt, "status"),
			Priority: rapid.SampledFrom(priorities).Draw(rt, "priority"),
			Tags:     rapid.SliceOfN(rapid.StringMatching(`[A-Za-z ]{0,8}`), 0, 6).Draw(rt, "tags"),
			Query:    rapid.StringMatching(`[a-z ]{0,16}`).Draw(rt, "query"),
		}

		n := f.Normalize()
		if !reflect.DeepEqual(n, n.Normalize()) {
			rt.Fatalf("Normalize not idempotent:\n%+v\n%+v", n, n.Normalize())
		}
		if f.canonical() != n.canonical() {
			rt.Fatalf("canonical differs pre/post normalization")
		}
	})
}

func ptr[T any](v T) *T { return &v }
