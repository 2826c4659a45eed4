package service

// Offer statuses. Draft offers are editable; queued offers are waiting for a
// dispatch worker; the rest follow recipient behavior. Bounced and failed
// are terminal.
const (
	StatusDraft   = "draft"
	StatusQueued  = "queued"
	StatusSent    = "sent"
	StatusOpened  = "opened"
	StatusClicked = "clicked"
	StatusBounced = "bounced"
	StatusFailed  = "failed"
)

// transitions lists the allowed status moves. Opened and clicked arrive from
// tracking callbacks and may race, so clicked is reachable straight from
// sent (the pixel can be blocked while the link still works). Bounced is
// reachable from queued when the provider rejects the recipient at send
// time, and from sent for bounces reported after delivery.
var transitions = map[string][]string{
	StatusDraft:   {StatusQueued},
	StatusQueued:  {StatusSent, StatusBounced, StatusFailed},
	StatusSent:    {StatusOpened, StatusClicked, StatusBounced},
	StatusOpened:  {StatusClicked},
	StatusClicked: {},
	StatusBounced: {},
	StatusFailed:  {},
}

// CanTransition reports whether an offer may move from one status to another.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func IsTerminal(status string) bool {
	return len(transitions[status]) == 0
}
