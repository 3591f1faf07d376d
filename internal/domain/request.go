package domain

import "time"

// RequestStatus enumerates lifecycle states for service requests.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusDenied   RequestStatus = "denied"
)

// RequestStatuses lists every valid status in display order.
var RequestStatuses = []RequestStatus{RequestStatusPending, RequestStatusApproved, RequestStatusDenied}

// Valid reports whether s is one of the enumerated statuses.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusDenied:
		return true
	}
	return false
}

// DateLayout is the wire and export format of a submission date.
const DateLayout = "2006-01-02"

// Request is a submitted service ticket.
//
// Only Status may change after creation, and only through UpdateStatus on
// the store. SubmissionDate is the calendar day picked by the submitter and
// carries no relation to CreatedAt.
type Request struct {
	ID              int64
	FullName        string
	StudentID       string
	Email           string
	ServiceType     string
	Description     string
	SubmissionDate  time.Time
	Status          RequestStatus
	CreatedAt       time.Time
	SubmitterUserID *int64
}

// RequestStats is recomputed from the store on every call.
type RequestStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Approved   int `json:"approved"`
	Denied     int `json:"denied"`
	TodayCount int `json:"todayCount"`
}
