package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/service-requests/internal/domain"
	"github.com/spec-kit/service-requests/internal/export"
)

func TestWriteCSV(t *testing.T) {
	records := []domain.Request{
		{
			ID:             2,
			FullName:       "Ben Diaz",
			StudentID:      "2021-002",
			Email:          "ben@uni.edu",
			ServiceType:    "Transcript",
			Description:    "Needs copies, \"certified\"\nfor abroad",
			SubmissionDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Status:         domain.RequestStatusApproved,
			CreatedAt:      time.Date(2026, 3, 2, 8, 30, 0, 0, time.FixedZone("PHT", 8*3600)),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, export.Columns, rows[0])
	assert.Equal(t, []string{
		"Ben Diaz",
		"2021-002",
		"ben@uni.edu",
		"Transcript",
		"Needs copies, \"certified\"\nfor abroad",
		"2026-03-01",
		"approved",
		"2026-03-02T00:30:00Z",
	}, rows[1])
}

func TestWriteCSV_EmptyStillHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, nil))
	assert.Equal(t, "Full Name,Student/Employee ID,Email,Service Type,Description,Submission Date,Status,Created At\n", buf.String())
}

func TestCSVFilename(t *testing.T) {
	assert.Equal(t, "requests-2026-03-02.csv", export.CSVFilename(time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)))
}
