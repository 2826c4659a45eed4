package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIsPermanent(t *testing.T) {
	cause := errors.New("smtp send: 550 5.1.1 no such user")
	perm := &PermanentError{Err: cause}

	if !IsPermanent(perm) {
		t.Error("expected a PermanentError to classify as permanent")
	}
	if !IsPermanent(fmt.Errorf("dispatch: %w", perm)) {
		t.Error("classification should survive wrapping")
	}
	if !errors.Is(perm, cause) {
		t.Error("cause should stay reachable through errors.Is")
	}
	if perm.Error() != cause.Error() {
		t.Errorf("got %q, want the cause message", perm.Error())
	}

	if IsPermanent(errors.New("dial tcp: connection refused")) {
		t.Error("transport errors must stay retryable")
	}
	if IsPermanent(nil) {
		t.Error("nil is not a delivery failure")
	}
}

func TestBrevoSendClassifiesRejections(t *testing.T) {
	cases := []struct {
		name      string
		status    int
		permanent bool
	}{
		{"invalid recipient", http.StatusBadRequest, true},
		{"bad api key", http.StatusUnauthorized, false},
		{"throttled", http.StatusTooManyRequests, false},
		{"provider outage", http.StatusInternalServerError, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"code":"rejected"}`, tc.status)
			}))
			defer srv.Close()

			sender := &BrevoSender{
				apiKey:    "key",
				fromName:  "Brick Offers",
				fromEmail: "offers@example.com",
				endpoint:  srv.URL,
				client:    &http.Client{Timeout: time.Second},
			}
			err := sender.Send(context.Background(), Message{
				ToEmail: "nobody@example.com",
				Subject: "hello",
				HTML:    "<p>hi</p>",
			})
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := IsPermanent(err); got != tc.permanent {
				t.Errorf("status %d: IsPermanent = %v, want %v", tc.status, got, tc.permanent)
			}
		})
	}
}
