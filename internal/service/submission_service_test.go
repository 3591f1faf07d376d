package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spec-kit/service-requests/internal/domain"
	"github.com/spec-kit/service-requests/internal/events"
	"github.com/spec-kit/service-requests/internal/intake"
	"github.com/spec-kit/service-requests/internal/repository"
	"github.com/spec-kit/service-requests/internal/workbook"
	apperrors "github.com/spec-kit/service-requests/pkg/util/errorutil"
)

func newSubmissionService(repo repository.RequestRepository, dispatcher events.Dispatcher) *SubmissionService {
	return NewSubmissionService(SubmissionDependencies{
		RequestRepo: repo,
		Validator:   newValidator(),
		Dispatcher:  dispatcher,
	})
}

func TestSubmissionService_Submit_PendingWithUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRequestRepository(nil)
	svc := newSubmissionService(repo, nil)

	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		req, err := svc.Submit(ctx, testUser, validInput("Ana Cruz", "Transcript"))
		require.NoError(t, err)
		assert.Equal(t, domain.RequestStatusPending, req.Status)
		assert.False(t, seen[req.ID], "id %d reused", req.ID)
		seen[req.ID] = true
		require.NotNil(t, req.SubmitterUserID)
		assert.Equal(t, testUser.ID, *req.SubmitterUserID)
	}
}

func TestSubmissionService_Submit_IDReplacementScenario(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRequestRepository(nil)
	svc := newSubmissionService(repo, nil)
	query := NewQueryService(QueryDependencies{RequestRepo: repo, Validator: newValidator()})

	created, err := svc.Submit(ctx, testUser, validInput("Ana Cruz", "ID Replacement"))
	require.NoError(t, err)

	page, err := query.Query(ctx, RequestQuery{Status: "pending", ServiceType: "ID Replacement"})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, created.ID, page.Records[0].ID)
	assert.Equal(t, domain.RequestStatusPending, page.Records[0].Status)
}

func TestSubmissionService_Submit_Rejections(t *testing.T) {
	testCases := []struct {
		name     string
		actor    *domain.Actor
		mutate   func(*intake.Input)
		wantCode string
	}{
		{name: "error: no identity", actor: nil, wantCode: apperrors.CodeUnauthorized},
		{name: "error: admin cannot submit", actor: testAdmin, wantCode: apperrors.CodeForbidden},
		{name: "error: nine character description", actor: testUser, wantCode: apperrors.CodeValidationFailed,
			mutate: func(in *intake.Input) { in.Description = "123456789" }},
		{name: "error: unknown service type", actor: testUser, wantCode: apperrors.CodeValidationFailed,
			mutate: func(in *intake.Input) { in.ServiceType = "Parking" }},
		{name: "error: another student's ID", actor: testUser, wantCode: apperrors.CodeValidationFailed,
			mutate: func(in *intake.Input) { in.StudentID = "2019-99999" }},
		{name: "error: another account's email", actor: testUser, wantCode: apperrors.CodeValidationFailed,
			mutate: func(in *intake.Input) { in.Email = "someone.else@uni.edu" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &countingRepo{RequestRepository: repository.NewMemoryRequestRepository(nil)}
			svc := newSubmissionService(repo, nil)

			in := validInput("Ana Cruz", "Transcript")
			if tc.mutate != nil {
				tc.mutate(&in)
			}
			_, err := svc.Submit(context.Background(), tc.actor, in)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, tc.wantCode), "got %v", err)
			assert.Zero(t, repo.creates, "nothing reaches the store")
		})
	}
}

func TestSubmissionService_Submit_IdentityMessages(t *testing.T) {
	svc := newSubmissionService(repository.NewMemoryRequestRepository(nil), nil)
	in := validInput("Ana Cruz", "Transcript")
	in.StudentID = "2019-99999"
	in.Email = "other@uni.edu"

	_, err := svc.Submit(context.Background(), testUser, in)
	require.Error(t, err)
	assert.Equal(t, []string{
		"Student/Employee ID must match your account.",
		"Email must match your account.",
	}, apperrors.ToDomainError(err).Details["errors"])

	in.StudentID = " 2021-00042 "
	in.Email = "STUDENT@uni.edu"
	_, err = svc.Submit(context.Background(), testUser, in)
	assert.NoError(t, err, "trimmed ID and differently cased email still match")
}

func TestSubmissionService_Submit_TenCharacterDescription(t *testing.T) {
	svc := newSubmissionService(repository.NewMemoryRequestRepository(nil), nil)
	in := validInput("Ana Cruz", "Transcript")
	in.Description = "1234567890"

	req, err := svc.Submit(context.Background(), testUser, in)
	require.NoError(t, err)
	assert.Equal(t, "1234567890", req.Description)
}

func TestSubmissionService_Submit_PublishesAndSyncsWorkbook(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "submissions.xlsx")
	dispatcher := events.NewInMemoryDispatcher()
	appender := workbook.NewAppender(path)
	dispatcher.Subscribe(events.EventRequestSubmitted, func(ctx context.Context, e events.Event) error {
		return appender.Append(ctx, e.Payload.(events.RequestSubmittedPayload).Request)
	})

	var published []events.Event
	dispatcher.Subscribe(events.EventRequestSubmitted, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	svc := newSubmissionService(repository.NewMemoryRequestRepository(nil), dispatcher)
	_, err := svc.Submit(ctx, testUser, validInput("Ana Cruz", "Transcript"))
	require.NoError(t, err)
	_, err = svc.Submit(ctx, testUser, validInput("Ben Diaz", "Transcript"))
	require.NoError(t, err)

	require.Len(t, published, 2)
	assert.NotEmpty(t, published[0].ID)
	assert.Equal(t, testUser.ID, published[0].Actor.ID)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck
	rows, err := f.GetRows(workbook.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3, "one header plus two data rows")
	assert.Equal(t, "Full Name", rows[0][0])
	assert.Equal(t, "Ana Cruz", rows[1][0])
	assert.Equal(t, "Ben Diaz", rows[2][0])
}

func TestSubmissionService_Submit_SubscriberFailureKeepsRecord(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryRequestRepository(nil)
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventRequestSubmitted, func(context.Context, events.Event) error {
		return errors.New("disk full")
	})

	svc := newSubmissionService(repo, dispatcher)
	req, err := svc.Submit(ctx, testUser, validInput("Ana Cruz", "Transcript"))
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Cruz", stored.FullName)
}

type failingCreateRepo struct {
	repository.RequestRepository
}

func (failingCreateRepo) Create(context.Context, *domain.Request) error {
	return errors.New("connection reset")
}

func TestSubmissionService_Submit_StorageFault(t *testing.T) {
	svc := newSubmissionService(failingCreateRepo{RequestRepository: repository.NewMemoryRequestRepository(nil)}, nil)

	_, err := svc.Submit(context.Background(), testUser, validInput("Ana Cruz", "Transcript"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInternal))
}

func TestSubmissionService_ServiceTypes(t *testing.T) {
	svc := newSubmissionService(repository.NewMemoryRequestRepository(time.Now), nil)
	assert.Equal(t, testServiceTypes, svc.ServiceTypes())
}
