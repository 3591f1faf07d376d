// Package export renders service requests into portable tabular forms.
package export

import (
	"time"

	"github.com/spec-kit/service-requests/internal/domain"
)

// Columns is the header row shared by the CSV and workbook exports.
var Columns = []string{
	"Full Name",
	"Student/Employee ID",
	"Email",
	"Service Type",
	"Description",
	"Submission Date",
	"Status",
	"Created At",
}

// Row renders req in Columns order.
func Row(req domain.Request) []string {
	return []string{
		req.FullName,
		req.StudentID,
		req.Email,
		req.ServiceType,
		req.Description,
		req.SubmissionDate.Format(domain.DateLayout),
		string(req.Status),
		req.CreatedAt.UTC().Format(time.RFC3339),
	}
}
