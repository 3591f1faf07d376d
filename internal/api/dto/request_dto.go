package dto

import (
	"time"

	"github.com/spec-kit/service-requests/internal/domain"
)

// SubmitRequestRequest is the body of POST /api/requests.
type SubmitRequestRequest struct {
	FullName       string `json:"fullName"`
	StudentID      string `json:"studentId"`
	Email          string `json:"email"`
	ServiceType    string `json:"serviceType"`
	Description    string `json:"description"`
	SubmissionDate string `json:"submissionDate"`
}

// UpdateStatusRequest is the body of PATCH /api/requests/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// RequestResponse is the wire shape of a stored request.
type RequestResponse struct {
	ID             int64     `json:"id"`
	FullName       string    `json:"fullName"`
	StudentID      string    `json:"studentId"`
	Email          string    `json:"email"`
	ServiceType    string    `json:"serviceType"`
	Description    string    `json:"description"`
	SubmissionDate string    `json:"submissionDate"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// StatusResponse acknowledges a status update.
type StatusResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// RequestListResponse wraps one page of requests.
type RequestListResponse struct {
	Data  []RequestResponse `json:"data"`
	Total int               `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// NewRequestResponse maps a domain request to its wire shape.
func NewRequestResponse(req *domain.Request) RequestResponse {
	return RequestResponse{
		ID:             req.ID,
		FullName:       req.FullName,
		StudentID:      req.StudentID,
		Email:          req.Email,
		ServiceType:    req.ServiceType,
		Description:    req.Description,
		SubmissionDate: req.SubmissionDate.Format(domain.DateLayout),
		Status:         string(req.Status),
		CreatedAt:      req.CreatedAt.UTC(),
	}
}

// NewRequestResponses maps a slice, never returning nil.
func NewRequestResponses(reqs []domain.Request) []RequestResponse {
	out := make([]RequestResponse, 0, len(reqs))
	for i := range reqs {
		out = append(out, NewRequestResponse(&reqs[i]))
	}
	return out
}
