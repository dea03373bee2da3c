package errors

import (
	"testing"
)

func TestFieldErrors(t *testing.T) {
	if Field("Owner", nil, "ignored") != nil {
		t.Fatal("nil error must not be wrapped")
	}

	var errs error
	errs = AppendField(errs, "Owner", ErrEmpty)
	errs = AppendField(errs, "Balance", nil)
	errs = AppendField(errs, "Legs.1.Required", Wrap(ErrCurrency, "ticker"))

	if !ErrEmpty.Is(errs) || !ErrCurrency.Is(errs) {
		t.Fatalf("field errors lost: %s", errs)
	}

	if got := FieldErrors(errs, "Owner"); len(got) != 1 || !ErrEmpty.Is(got[0]) {
		t.Fatalf("unexpected Owner errors: %v", got)
	}
	if got := FieldErrors(errs, "Balance"); len(got) != 0 {
		t.Fatalf("want no Balance errors, got %v", got)
	}
	if got := FieldErrors(errs, "Legs.1.Required"); len(got) != 1 || !ErrCurrency.Is(got[0]) {
		t.Fatalf("unexpected Legs.1.Required errors: %v", got)
	}

	if code := abciCode(errs); code != ErrEmpty.ABCICode() {
		t.Fatalf("want code of the first error, got %d", code)
	}
}
