package taskview

import (
	"testing"
	"time"
)

func violated(e *Error, field string) bool {
	if e == nil {
		return false
	}
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

func TestValidateCreate(t *testing.T) {
	if err := ValidateCreate(CreateInput{Title: "Ship report"}); err != nil {
		t.Fatalf("minimal create should pass: %v", err)
	}

	bad := Status("SOMEDAY")
	err := ValidateCreate(CreateInput{
		Title:  "   ",
		Status: &bad,
		Tags:   []string{"ok", " "},
	})
	if err == nil || err.Kind != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	// Every violated field is enumerated, not just the first.
	for _, f := range []string{"title", "status", "tags"} {
		if !violated(err, f) {
			t.Fatalf("missing violation for %q in %v", f, err.Violations)
		}
	}
}

func TestValidatePatchRejectsEmpty(t *testing.T) {
	err := ValidatePatch(Patch{})
	if err == nil || err.Kind != KindValidation || !violated(err, "patch") {
		t.Fatalf("zero-field patch must be rejected locally: %v", err)
	}

	title := "new title"
	if err := ValidatePatch(Patch{Title: &title}); err != nil {
		t.Fatalf("one-field patch should pass: %v", err)
	}

	blank := "  "
	if err := ValidatePatch(Patch{Title: &blank}); err == nil || !violated(err, "title") {
		t.Fatalf("whitespace title must be rejected: %v", err)
	}
}

func TestValidateID(t *testing.T) {
	if err := ValidateID(idA); err != nil {
		t.Fatalf("uuid should pass: %v", err)
	}
	if err := ValidateID("42"); err == nil || err.Kind != KindValidation {
		t.Fatalf("non-uuid id must fail validation: %v", err)
	}
}

func TestValidateTaskTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	good := sampleTask(idA, "ok")
	if err := ValidateTask(good); err != nil {
		t.Fatalf("valid task rejected: %v", err)
	}

	bad := good
	bad.CreatedAt = now
	bad.UpdatedAt = now.Add(-time.Minute)
	if err := ValidateTask(bad); err == nil || !violated(err, "updatedAt") {
		t.Fatalf("updatedAt < createdAt must be rejected: %v", err)
	}
}

func TestValidateView(t *testing.T) {
	v := ListView{
		Items:    []Task{sampleTask(idA, "a"), sampleTask(idB, "b")},
		Page:     1,
		PageSize: 1,
		Total:    2,
	}
	err := ValidateView(v)
	if err == nil || !violated(err, "items") {
		t.Fatalf("items > pageSize must be rejected: %v", err)
	}

	v.PageSize = 20
	v.Items[1].ID = "not-a-uuid"
	err = ValidateView(v)
	if err == nil || !violated(err, "items[1].id") {
		t.Fatalf("per-item violations must be qualified by index: %v", err)
	}
}
