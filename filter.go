package taskview

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/unkn0wn-root/taskview/internal/util"
)

// Filter selects one view of the task collection: a page plus optional
// criteria. The zero value means "first page, server default page size, no
// criteria". Two filters that normalize equally address the same cached
// view no matter how they were spelled.
type Filter struct {
	Page     int // 0 => 1
	PageSize int // 0 => server default (20)

	Status   *Status
	Priority *Priority
	Tags     []string
	Query    string
	DueFrom  *time.Time
	DueTo    *time.Time
}

// Normalize returns the canonical form: tags deduped and sorted
// case-insensitively, query whitespace trimmed and collapsed, empty
// optionals dropped. Idempotent: Normalize(Normalize(f)) == Normalize(f).
func (f Filter) Normalize() Filter {
	out := f

	if out.Page < 1 {
		out.Page = 1
	}
	if out.PageSize < 0 {
		out.PageSize = 0
	}
	if out.PageSize > MaxPageSize {
		out.PageSize = MaxPageSize
	}

	out.Query = collapseSpace(f.Query)

	out.Tags = nil
	seen := make(map[string]struct{}, len(f.Tags))
	for _, t := range f.Tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[strings.ToLower(t)]; dup {
			continue
		}
		seen[strings.ToLower(t)] = struct{}{}
		out.Tags = append(out.Tags, t)
	}
	sort.Slice(out.Tags, func(i, j int) bool {
		return strings.ToLower(out.Tags[i]) < strings.ToLower(out.Tags[j])
	})

	if out.Status != nil && *out.Status == "" {
		out.Status = nil
	}
	if out.Priority != nil && *out.Priority == "" {
		out.Priority = nil
	}
	return out
}

// canonical renders a deterministic query-string encoding of the normalized
// filter. url.Values.Encode sorts by key, so insertion order never matters.
func (f Filter) canonical() string {
	n := f.Normalize()
	q := url.Values{}
	q.Set("page", strconv.Itoa(n.Page))
	if n.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(n.PageSize))
	}
	if n.Status != nil {
		q.Set("status", string(*n.Status))
	}
	if n.Priority != nil {
		q.Set("priority", string(*n.Priority))
	}
	for _, t := range n.Tags {
		q.Add("tag", t)
	}
	if n.Query != "" {
		q.Set("q", n.Query)
	}
	if n.DueFrom != nil {
		q.Set("dueFrom", n.DueFrom.UTC().Format(time.RFC3339Nano))
	}
	if n.DueTo != nil {
		q.Set("dueTo", n.DueTo.UTC().Format(time.RFC3339Nano))
	}
	return q.Encode()
}

// storageKey isolates views by namespace and identity scope:
// view:<ns>:<scope>:<hash16>
func (f Filter) storageKey(ns, scope string) string {
	return util.ViewKey("view:"+ns+":"+scope, f.canonical())
}

// query renders the filter as request parameters for GET /tasks.
func (f Filter) query() url.Values {
	n := f.Normalize()
	q := url.Values{}
	q.Set("page", strconv.Itoa(n.Page))
	if n.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(n.PageSize))
	}
	if n.Status != nil {
		q.Set("status", string(*n.Status))
	}
	if n.Priority != nil {
		q.Set("priority", string(*n.Priority))
	}
	for _, t := range n.Tags {
		q.Add("tag", t)
	}
	if n.Query != "" {
		q.Set("q", n.Query)
	}
	if n.DueFrom != nil {
		q.Set("dueFrom", n.DueFrom.UTC().Format(time.RFC3339Nano))
	}
	if n.DueTo != nil {
		q.Set("dueTo", n.DueTo.UTC().Format(time.RFC3339Nano))
	}
	return q
}

// firstPage reports whether this filter addresses page 1, where optimistic
// creates are prepended.
func (f Filter) firstPage() bool { return f.Page <= 1 }

// effectivePageSize is the page size used when truncating after an
// optimistic prepend. Falls back to the server default.
func (f Filter) effectivePageSize() int {
	if f.PageSize > 0 {
		return f.PageSize
	}
	return DefaultPageSize
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
