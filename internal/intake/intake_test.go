package intake_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/service-requests/internal/domain"
	"github.com/spec-kit/service-requests/internal/intake"
	apperrors "github.com/spec-kit/service-requests/pkg/util/errorutil"
)

var serviceTypes = []string{"ID Replacement", "Transcript"}

func validInput() intake.Input {
	return intake.Input{
		FullName:       "  Ana Cruz ",
		StudentID:      " 2021-00042 ",
		Email:          " ana@uni.edu ",
		ServiceType:    "Transcript",
		Description:    "  Need two certified copies.  ",
		SubmissionDate: "2026-03-02",
	}
}

func validationMessages(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	require.Equal(t, apperrors.CodeValidationFailed, de.Code)
	msgs, ok := de.Details["errors"].([]string)
	require.True(t, ok)
	return msgs
}

func TestValidator_Normalize_Success(t *testing.T) {
	v := intake.NewValidator(serviceTypes, true)

	req, err := v.Normalize(validInput())
	require.NoError(t, err)

	assert.Equal(t, "Ana Cruz", req.FullName)
	assert.Equal(t, "2021-00042", req.StudentID)
	assert.Equal(t, "ana@uni.edu", req.Email)
	assert.Equal(t, "Transcript", req.ServiceType)
	assert.Equal(t, "Need two certified copies.", req.Description)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), req.SubmissionDate)
	assert.Equal(t, domain.RequestStatusPending, req.Status)
}

func TestValidator_Normalize_CollectsAllErrors(t *testing.T) {
	v := intake.NewValidator(serviceTypes, true)

	_, err := v.Normalize(intake.Input{
		FullName:    " A ",
		Email:       "not-an-email",
		ServiceType: "Parking Permit",
		Description: "short",
	})

	assert.Equal(t, []string{
		"Name must be at least 2 characters.",
		"Student/Employee ID is required.",
		"Please enter a valid email.",
		"Unknown request type.",
		"Submission date is required.",
		"Please provide at least 10 characters.",
	}, validationMessages(t, err))
}

func TestValidator_Normalize_RequiredMessages(t *testing.T) {
	v := intake.NewValidator(serviceTypes, true)

	_, err := v.Normalize(intake.Input{FullName: "   ", Description: "\t"})

	assert.Equal(t, []string{
		"Full name is required.",
		"Student/Employee ID is required.",
		"Email is required.",
		"Please select a request type.",
		"Submission date is required.",
		"Description is required.",
	}, validationMessages(t, err))
}

func TestValidator_Normalize_DescriptionBoundary(t *testing.T) {
	v := intake.NewValidator(serviceTypes, true)

	testCases := []struct {
		name        string
		description string
		wantErr     bool
	}{
		{name: "error: nine characters after trimming", description: "  " + strings.Repeat("x", 9) + "  ", wantErr: true},
		{name: "success: ten characters after trimming", description: "  " + strings.Repeat("x", 10) + "  ", wantErr: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			in.Description = tc.description
			_, err := v.Normalize(in)
			if tc.wantErr {
				assert.Equal(t, []string{"Please provide at least 10 characters."}, validationMessages(t, err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidator_Normalize_SubmissionDate(t *testing.T) {
	clock := func() time.Time { return time.Date(2026, 3, 2, 23, 30, 0, 0, time.FixedZone("X", -5*3600)) }

	t.Run("success: defaults to today in UTC when optional", func(t *testing.T) {
		v := intake.NewValidator(serviceTypes, false, intake.WithClock(clock))
		in := validInput()
		in.SubmissionDate = ""

		req, err := v.Normalize(in)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), req.SubmissionDate)
	})

	t.Run("error: malformed date", func(t *testing.T) {
		v := intake.NewValidator(serviceTypes, false)
		in := validInput()
		in.SubmissionDate = "03/02/2026"

		_, err := v.Normalize(in)
		assert.Equal(t, []string{"Submission date must be in YYYY-MM-DD format."}, validationMessages(t, err))
	})
}

func TestValidator_ServiceTypes(t *testing.T) {
	v := intake.NewValidator([]string{" Transcript", "ID Replacement", "Transcript", ""}, true)

	assert.Equal(t, []string{"Transcript", "ID Replacement"}, v.ServiceTypes())
	assert.True(t, v.IsServiceType("ID Replacement"))
	assert.False(t, v.IsServiceType("id replacement"))
}
