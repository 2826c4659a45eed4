package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindInternal, http.StatusInternalServerError},
		{KindUnknown, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if got := New(tc.kind, "boom").HTTPStatus(); got != tc.want {
			t.Errorf("kind %d: got status %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestMessageHidesCause(t *testing.T) {
	cause := errors.New("pq: connection reset")
	err := Wrap(KindInternal, "query leads", cause)
	if err.Error() != "query leads" {
		t.Errorf("got %q, cause must not leak into the message", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("cause should stay reachable through errors.Is")
	}
}

func TestGetKindUnwraps(t *testing.T) {
	wrapped := fmt.Errorf("dispatch offer: %w", NotFound("offer not found"))
	if GetKind(wrapped) != KindNotFound {
		t.Error("kind should survive fmt.Errorf wrapping")
	}
	if !Is(wrapped, KindNotFound) {
		t.Error("Is should match through the chain")
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Error("plain errors should map to KindUnknown")
	}
}

func TestConstructors(t *testing.T) {
	cases := []struct {
		err  *Error
		kind Kind
	}{
		{Validation("bad email"), KindValidation},
		{NotFound("lead not found"), KindNotFound},
		{Conflict("duplicate domain"), KindConflict},
		{Unauthorized("invalid credentials"), KindUnauthorized},
		{Internal("queue unavailable"), KindInternal},
	}
	for _, tc := range cases {
		if tc.err.Kind != tc.kind {
			t.Errorf("%q: got kind %d, want %d", tc.err.Message, tc.err.Kind, tc.kind)
		}
	}
}
