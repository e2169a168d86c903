// internal/models/lifecycle.go
package models

// AdAction names a lifecycle transition.
type AdAction string

const (
	AdActionSubmit   AdAction = "submit"
	AdActionApprove  AdAction = "approve"
	AdActionReject   AdAction = "reject"
	AdActionActivate AdAction = "activate"
	AdActionPromote  AdAction = "promote"
	AdActionExpire   AdAction = "expire"
)

type transition struct {
	from []AdStatus
	to   AdStatus
}

var transitions = map[AdAction]transition{
	AdActionSubmit:   {from: []AdStatus{AdStatusDraft}, to: AdStatusPendingApproval},
	AdActionApprove:  {from: []AdStatus{AdStatusPendingApproval}, to: AdStatusApproved},
	AdActionReject:   {from: []AdStatus{AdStatusPendingApproval}, to: AdStatusRejected},
	AdActionActivate: {from: []AdStatus{AdStatusApproved}, to: AdStatusActive},
	AdActionPromote:  {from: []AdStatus{AdStatusApproved}, to: AdStatusActive},
	AdActionExpire:   {from: []AdStatus{AdStatusApproved, AdStatusActive}, to: AdStatusExpired},
}

// NextStatus returns the status reached by applying action to current, or
// false when the transition is not in the table.
func NextStatus(current AdStatus, action AdAction) (AdStatus, bool) {
	t, ok := transitions[action]
	if !ok {
		return "", false
	}
	for _, from := range t.from {
		if from == current {
			return t.to, true
		}
	}
	return "", false
}

// RequiredStatuses lists the statuses from which action is legal.
func RequiredStatuses(action AdAction) []AdStatus {
	t, ok := transitions[action]
	if !ok {
		return nil
	}
	out := make([]AdStatus, len(t.from))
	copy(out, t.from)
	return out
}

// Verb is the past-tense form used in user-facing messages.
func (a AdAction) Verb() string {
	switch a {
	case AdActionSubmit:
		return "submitted for approval"
	case AdActionApprove:
		return "approved"
	case AdActionReject:
		return "rejected"
	case AdActionActivate, AdActionPromote:
		return "activated"
	case AdActionExpire:
		return "expired"
	}
	return string(a)
}
