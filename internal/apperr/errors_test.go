package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(NotFound("missing")); got != KindNotFound {
		t.Errorf("KindOf = %v, want KindNotFound", got)
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Errorf("plain error KindOf = %v, want KindUnknown", got)
	}

	// Classification survives wrapping
	wrapped := fmt.Errorf("creating booking: %w", Conflict("slot taken"))
	if got := KindOf(wrapped); got != KindConflict {
		t.Errorf("wrapped KindOf = %v, want KindConflict", got)
	}
}

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("taken"), http.StatusConflict},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Forbidden("no role"), http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := StatusCode(tc.err); got != tc.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestErrorMessageFormatting(t *testing.T) {
	err := Validation("field %s is required", "occasion")
	if err.Error() != "field occasion is required" {
		t.Errorf("Error() = %q", err.Error())
	}
}
