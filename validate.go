package taskview

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Schema validation is the sole gate through which malformed data is
// rejected: outgoing payloads before any network call, incoming bodies
// before they reach callers or the cache. All functions are pure; failures
// enumerate every violated field.

// ValidateID rejects identifiers that are not UUID-shaped.
func ValidateID(id string) *Error {
	if _, err := uuid.Parse(id); err != nil {
		return validationErr("invalid task id",
			FieldViolation{Field: "id", Reason: "must be a UUID"})
	}
	return nil
}

// ValidateCreate checks a create payload.
func ValidateCreate(in CreateInput) *Error {
	var vs []FieldViolation
	if strings.TrimSpace(in.Title) == "" {
		vs = append(vs, FieldViolation{Field: "title", Reason: "must not be empty"})
	}
	if in.Status != nil && !in.Status.valid() {
		vs = append(vs, FieldViolation{Field: "status", Reason: "unknown value"})
	}
	if in.Priority != nil && !in.Priority.valid() {
		vs = append(vs, FieldViolation{Field: "priority", Reason: "unknown value"})
	}
	vs = append(vs, validateTags(in.Tags)...)
	if len(vs) > 0 {
		return validationErr("invalid create payload", vs...)
	}
	return nil
}

// ValidatePatch checks an update payload. A patch with zero changed fields
// is rejected before it can reach the transport.
func ValidatePatch(p Patch) *Error {
	if p.empty() {
		return validationErr("invalid update payload",
			FieldViolation{Field: "patch", Reason: "no fields changed"})
	}
	var vs []FieldViolation
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		vs = append(vs, FieldViolation{Field: "title", Reason: "must not be empty"})
	}
	if p.Status != nil && !p.Status.valid() {
		vs = append(vs, FieldViolation{Field: "status", Reason: "unknown value"})
	}
	if p.Priority != nil && !p.Priority.valid() {
		vs = append(vs, FieldViolation{Field: "priority", Reason: "unknown value"})
	}
	if p.Tags != nil {
		vs = append(vs, validateTags(*p.Tags)...)
	}
	if len(vs) > 0 {
		return validationErr("invalid update payload", vs...)
	}
	return nil
}

// ValidateTask checks a server-supplied record. Used on response bodies, so
// callers classify a failure as serialization, not validation.
func ValidateTask(t Task) *Error {
	var vs []FieldViolation
	if _, err := uuid.Parse(t.ID); err != nil {
		vs = append(vs, FieldViolation{Field: "id", Reason: "must be a UUID"})
	}
	if strings.TrimSpace(t.Title) == "" {
		vs = append(vs, FieldViolation{Field: "title", Reason: "must not be empty"})
	}
	if !t.Status.valid() {
		vs = append(vs, FieldViolation{Field: "status", Reason: "unknown value"})
	}
	if !t.Priority.valid() {
		vs = append(vs, FieldViolation{Field: "priority", Reason: "unknown value"})
	}
	if t.CreatedAt.IsZero() {
		vs = append(vs, FieldViolation{Field: "createdAt", Reason: "missing"})
	}
	if t.UpdatedAt.IsZero() {
		vs = append(vs, FieldViolation{Field: "updatedAt", Reason: "missing"})
	} else if !t.CreatedAt.IsZero() && t.UpdatedAt.Before(t.CreatedAt) {
		vs = append(vs, FieldViolation{Field: "updatedAt", Reason: "earlier than createdAt"})
	}
	vs = append(vs, validateTags(t.Tags)...)
	if len(vs) > 0 {
		return validationErr("invalid task record", vs...)
	}
	return nil
}

// ValidateView checks a list response: each record, plus the envelope
// invariants len(items) <= pageSize and a non-negative total.
func ValidateView(v ListView) *Error {
	var vs []FieldViolation
	if v.Page < 1 {
		vs = append(vs, FieldViolation{Field: "page", Reason: "must be >= 1"})
	}
	if v.PageSize < 1 {
		vs = append(vs, FieldViolation{Field: "pageSize", Reason: "must be >= 1"})
	} else if len(v.Items) > v.PageSize {
		vs = append(vs, FieldViolation{Field: "items", Reason: "longer than pageSize"})
	}
	if v.Total < 0 {
		vs = append(vs, FieldViolation{Field: "total", Reason: "must be >= 0"})
	}
	for i := range v.Items {
		if err := ValidateTask(v.Items[i]); err != nil {
			for _, fv := range err.Violations {
				vs = append(vs, FieldViolation{
					Field:  "items[" + strconv.Itoa(i) + "]." + fv.Field,
					Reason: fv.Reason,
				})
			}
		}
	}
	if len(vs) > 0 {
		return validationErr("invalid list response", vs...)
	}
	return nil
}

func validateTags(tags []string) []FieldViolation {
	var vs []FieldViolation
	for _, t := range tags {
		if strings.TrimSpace(t) == "" {
			vs = append(vs, FieldViolation{Field: "tags", Reason: "empty label"})
			break
		}
	}
	return vs
}

