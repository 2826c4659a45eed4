package service

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusDraft, StatusQueued},
		{StatusQueued, StatusSent},
		{StatusQueued, StatusBounced},
		{StatusQueued, StatusFailed},
		{StatusSent, StatusOpened},
		{StatusSent, StatusClicked},
		{StatusSent, StatusBounced},
		{StatusOpened, StatusClicked},
	}
	for _, tc := range allowed {
		if !CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to string }{
		{StatusDraft, StatusSent},
		{StatusSent, StatusQueued},
		{StatusClicked, StatusOpened},
		{StatusBounced, StatusSent},
		{StatusFailed, StatusQueued},
		{StatusOpened, StatusSent},
	}
	for _, tc := range denied {
		if CanTransition(tc.from, tc.to) {
			t.Errorf("expected %s -> %s to be denied", tc.from, tc.to)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, status := range []string{StatusClicked, StatusBounced, StatusFailed} {
		if !IsTerminal(status) {
			t.Errorf("expected %s to be terminal", status)
		}
	}
	for _, status := range []string{StatusDraft, StatusQueued, StatusSent, StatusOpened} {
		if IsTerminal(status) {
			t.Errorf("expected %s to be non-terminal", status)
		}
	}
}
