package models

// Status is the investigation state of a record. Every record starts as
// StatusUnderInvestigation; only admins move it from there, and the owner
// may edit content fields only while it is in the initial state.
type Status string

const (
	StatusUnderInvestigation Status = "under investigation"
	StatusResolved           Status = "resolved"
	StatusRejected           Status = "rejected"
)

var validStatuses = []Status{StatusUnderInvestigation, StatusResolved, StatusRejected}

func (s Status) IsValid() bool {
	for _, v := range validStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsInitial reports whether the owner may still edit content fields.
func (s Status) IsInitial() bool {
	return s == StatusUnderInvestigation
}
