package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	base := New(NotFound, "Challan not found.")
	wrapped := fmt.Errorf("lookup: %w", base)

	if got := KindOf(wrapped); got != NotFound {
		t.Fatalf("KindOf = %q, want %q", got, NotFound)
	}
	if got := MessageOf(wrapped); got != "Challan not found." {
		t.Fatalf("MessageOf = %q", got)
	}
}

func TestPlainErrorsAreInternal(t *testing.T) {
	err := errors.New("connection reset")
	if KindOf(err) != Internal {
		t.Fatalf("plain error should map to internal")
	}
	if MessageOf(err) == err.Error() {
		t.Fatalf("internal causes must not leak to callers")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		Unauthenticated:    http.StatusUnauthorized,
		InvalidArgument:    http.StatusBadRequest,
		NotFound:           http.StatusNotFound,
		FailedPrecondition: http.StatusPreconditionFailed,
		AlreadyExists:      http.StatusConflict,
		Internal:           http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := HTTPStatus(kind); got != want {
			t.Errorf("HTTPStatus(%s) = %d, want %d", kind, got, want)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(Internal, "Failed to store photo.", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("wrapped error should match its cause")
	}
}
