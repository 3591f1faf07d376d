package service

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/service-requests/internal/domain"
	"github.com/spec-kit/service-requests/internal/intake"
	"github.com/spec-kit/service-requests/internal/repository"
)

var testServiceTypes = []string{"ID Replacement", "Transcript", "Enrollment Verification"}

var (
	testUser  = &domain.Actor{Type: domain.SubjectTypeUser, ID: 7, FullName: "Ana Cruz", StudentID: "2021-00042", Email: "student@uni.edu"}
	testAdmin = &domain.Actor{Type: domain.SubjectTypeAdmin, ID: 1, Username: "admin"}
)

// countingRepo records which store operations were reached.
type countingRepo struct {
	repository.RequestRepository
	mu      sync.Mutex
	updates int
	creates int
}

func (c *countingRepo) Create(ctx context.Context, req *domain.Request) error {
	c.mu.Lock()
	c.creates++
	c.mu.Unlock()
	return c.RequestRepository.Create(ctx, req)
}

func (c *countingRepo) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) (bool, error) {
	c.mu.Lock()
	c.updates++
	c.mu.Unlock()
	return c.RequestRepository.UpdateStatus(ctx, id, status)
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func newValidator() *intake.Validator {
	return intake.NewValidator(testServiceTypes, true)
}

func validInput(name, serviceType string) intake.Input {
	return intake.Input{
		FullName:       name,
		StudentID:      "2021-00042",
		Email:          "student@uni.edu",
		ServiceType:    serviceType,
		Description:    "Please process my request soon.",
		SubmissionDate: "2026-03-02",
	}
}
