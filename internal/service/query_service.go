package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spec-kit/service-requests/internal/domain"
	"github.com/spec-kit/service-requests/internal/intake"
	"github.com/spec-kit/service-requests/internal/repository"
	apperrors "github.com/spec-kit/service-requests/pkg/util/errorutil"
)

// DefaultPageSize applies when a query does not ask for a page size.
const DefaultPageSize = 50

// filterAll disables the status or service type predicate.
const filterAll = "all"

// RequestQuery is the admin listing filter. Empty strings and "all" mean no filter.
type RequestQuery struct {
	Search      string
	Status      string
	ServiceType string
	Page        int
	PageSize    int
}

// RequestPage is one page of matching requests plus the total match count.
type RequestPage struct {
	Records  []domain.Request
	Total    int
	Page     int
	PageSize int
}

// QueryService serves the admin listing, detail and export views.
type QueryService struct {
	requests  repository.RequestRepository
	validator *intake.Validator
}

// QueryDependencies bundles collaborators for the query service.
type QueryDependencies struct {
	RequestRepo repository.RequestRepository
	Validator   *intake.Validator
}

// NewQueryService constructs the service.
func NewQueryService(deps QueryDependencies) *QueryService {
	return &QueryService{requests: deps.RequestRepo, validator: deps.Validator}
}

// Query returns one page of requests matching q, newest first.
func (s *QueryService) Query(ctx context.Context, q RequestQuery) (*RequestPage, error) {
	filter, err := s.buildFilter(q)
	if err != nil {
		return nil, err
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	if page-1 > math.MaxInt/size {
		// The window starts past any representable offset, so it holds nothing.
		filter.Limit = 1
		_, total, err := s.requests.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("list requests: %w", err)
		}
		return &RequestPage{Records: []domain.Request{}, Total: total, Page: page, PageSize: size}, nil
	}
	filter.Limit = size
	filter.Offset = (page - 1) * size

	records, total, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	if records == nil {
		records = []domain.Request{}
	}
	return &RequestPage{Records: records, Total: total, Page: page, PageSize: size}, nil
}

// ExportAll returns every request matching q in listing order. Paging fields are ignored.
func (s *QueryService) ExportAll(ctx context.Context, q RequestQuery) ([]domain.Request, error) {
	filter, err := s.buildFilter(q)
	if err != nil {
		return nil, err
	}
	records, _, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("export requests: %w", err)
	}
	if records == nil {
		records = []domain.Request{}
	}
	return records, nil
}

// GetByID returns a single request.
func (s *QueryService) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("request", map[string]any{"id": id})
		}
		return nil, fmt.Errorf("load request: %w", err)
	}
	return req, nil
}

func (s *QueryService) buildFilter(q RequestQuery) (repository.RequestFilter, error) {
	var (
		filter repository.RequestFilter
		errs   []string
	)

	if term := strings.TrimSpace(q.Search); term != "" {
		filter.SearchTerm = &term
	}

	if raw := strings.TrimSpace(q.Status); raw != "" && !strings.EqualFold(raw, filterAll) {
		status := domain.RequestStatus(raw)
		if status.Valid() {
			filter.Status = &status
		} else {
			errs = append(errs, invalidStatusMessage)
		}
	}

	if raw := strings.TrimSpace(q.ServiceType); raw != "" && !strings.EqualFold(raw, filterAll) {
		if s.validator == nil || s.validator.IsServiceType(raw) {
			filter.ServiceType = &raw
		} else {
			errs = append(errs, "Unknown request type.")
		}
	}

	if len(errs) > 0 {
		return repository.RequestFilter{}, apperrors.NewValidationErrors(errs)
	}
	return filter, nil
}
