package validator

import "testing"

type sample struct {
	Date  string `json:"date" validate:"required,date"`
	Start string `json:"startTime" validate:"required,hhmm"`
	Email string `json:"email" validate:"required,email"`
}

func TestCustomTagsAndJSONNames(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&sample{Date: "2025-01-10", Start: "09:00", Email: "a@example.com"}); err != nil {
		t.Fatalf("valid input rejected: %v", err)
	}

	err := v.Validate(&sample{Date: "2025-1-10", Start: "9am", Email: "nope"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	fields := v.FormatValidationErrors(err)
	for _, key := range []string{"date", "startTime", "email"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("missing error for %s in %v", key, fields)
		}
	}
	if fields["startTime"] != "startTime must be a time in HH:MM format" {
		t.Fatalf("unexpected message %q", fields["startTime"])
	}
}

func TestVar(t *testing.T) {
	v := NewValidator()
	if err := v.Var("2025-02-30", "date"); err == nil {
		t.Fatal("impossible date accepted")
	}
	if err := v.Var("23:59", "hhmm"); err != nil {
		t.Fatalf("valid time rejected: %v", err)
	}
}
