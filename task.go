package taskview

import "time"

// Status is the task lifecycle state as the server reports it.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

func (s Status) valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Priority ranks a task. The server accepts exactly these three values.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a single task record. ID is immutable once created. Tags are
// order-insensitive for equality; the server returns them sorted
// case-insensitively. Pending marks a locally synthesized or locally
// patched record awaiting server confirmation; the server never sets it.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Pending     bool       `json:"pending,omitempty"`
}

// clone returns a deep copy so cached snapshots never alias caller slices.
func (t Task) clone() Task {
	out := t
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	return out
}

// ListView is one cached page+filter projection of the task collection.
// Total is the server's count of all records matching the view's filter at
// the last successful fetch, not len(Items).
type ListView struct {
	Items    []Task `json:"items"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Total    int    `json:"total"`
}

func (v ListView) clone() ListView {
	out := v
	if v.Items != nil {
		out.Items = make([]Task, len(v.Items))
		for i := range v.Items {
			out.Items[i] = v.Items[i].clone()
		}
	}
	return out
}

// indexOf returns the position of the task with the given id, or -1.
func (v ListView) indexOf(id string) int {
	for i := range v.Items {
		if v.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// CreateInput is the payload for creating a task. Omitted optionals take
// server defaults (status TODO, priority MEDIUM, no tags).
type CreateInput struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// Patch is a partial update. Nil fields are left untouched; at least one
// field must be set.
type Patch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *Status    `json:"status,omitempty"`
	Priority    *Priority  `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        *[]string  `json:"tags,omitempty"`
}

func (p Patch) empty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.DueDate == nil && p.Tags == nil
}

// apply overlays the patch onto a copy of t.
func (p Patch) apply(t Task) Task {
	out := t.clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.DueDate != nil {
		d := *p.DueDate
		out.DueDate = &d
	}
	if p.Tags != nil {
		out.Tags = append([]string(nil), *p.Tags...)
	}
	return out
}
