package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/service-requests/internal/api/dto"
	"github.com/spec-kit/service-requests/internal/auth"
	"github.com/spec-kit/service-requests/internal/export"
	"github.com/spec-kit/service-requests/internal/intake"
	"github.com/spec-kit/service-requests/internal/service"
	"github.com/spec-kit/service-requests/internal/workbook"
	apperrors "github.com/spec-kit/service-requests/pkg/util/errorutil"
)

const workbookFilename = "submissions.xlsx"

// RequestsHandler serves submission and admin request endpoints.
type RequestsHandler struct {
	submissions *service.SubmissionService
	lifecycle   *service.LifecycleService
	query       *service.QueryService
	workbook    *workbook.Appender
	now         func() time.Time
}

// RequestsHandlerDeps bundles the handler's collaborators.
type RequestsHandlerDeps struct {
	Submissions *service.SubmissionService
	Lifecycle   *service.LifecycleService
	Query       *service.QueryService
	Workbook    *workbook.Appender
	Clock       func() time.Time
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(deps RequestsHandlerDeps) *RequestsHandler {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &RequestsHandler{
		submissions: deps.Submissions,
		lifecycle:   deps.Lifecycle,
		query:       deps.Query,
		workbook:    deps.Workbook,
		now:         now,
	}
}

// Submit POST /api/requests.
func (h *RequestsHandler) Submit(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.SubmitRequestRequest
	if err := decodeStrict(c, &req); err != nil {
		return err
	}

	created, err := h.submissions.Submit(c.UserContext(), principal.Actor(), intake.Input{
		FullName:       req.FullName,
		StudentID:      req.StudentID,
		Email:          req.Email,
		ServiceType:    req.ServiceType,
		Description:    req.Description,
		SubmissionDate: req.SubmissionDate,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRequestResponse(created)})
}

// ServiceTypes GET /api/service-types.
func (h *RequestsHandler) ServiceTypes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.submissions.ServiceTypes()})
}

// List GET /api/requests.
func (h *RequestsHandler) List(c *fiber.Ctx) error {
	page, err := h.query.Query(c.UserContext(), parseRequestQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.RequestListResponse{
		Data:  dto.NewRequestResponses(page.Records),
		Total: page.Total,
		Page:  page.Page,
		Limit: page.PageSize,
	})
}

// Get GET /api/requests/:id.
func (h *RequestsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	req, err := h.query.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(req)})
}

// UpdateStatus PATCH /api/requests/:id/status.
func (h *RequestsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	id, err := parseID(c)
	if err != nil {
		return err
	}
	var body dto.UpdateStatusRequest
	if err := decodeStrict(c, &body); err != nil {
		return err
	}
	status, err := service.ParseStatus(body.Status)
	if err != nil {
		return err
	}

	updated, err := h.lifecycle.UpdateStatus(c.UserContext(), principal.Actor(), id, status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatusResponse{ID: updated.ID, Status: string(updated.Status)}})
}

// Stats GET /api/requests/stats.
func (h *RequestsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.lifecycle.ComputeStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// ExportCSV GET /api/requests/export/csv.
func (h *RequestsHandler) ExportCSV(c *fiber.Ctx) error {
	q := parseRequestQuery(c)
	records, err := h.query.ExportAll(c.UserContext(), q)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, records); err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Set(fiber.HeaderContentType, export.ContentTypeCSV)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, export.CSVFilename(h.now())))
	return c.Send(buf.Bytes())
}

// ExportWorkbook GET /api/requests/export/xlsx.
func (h *RequestsHandler) ExportWorkbook(c *fiber.Ctx) error {
	data, err := h.workbook.ReadAll(c.UserContext())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperrors.NewNotFound("workbook", nil)
		}
		return apperrors.NewInternalError(err)
	}
	c.Set(fiber.HeaderContentType, workbook.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, workbookFilename))
	return c.Send(data)
}

func parseRequestQuery(c *fiber.Ctx) service.RequestQuery {
	return service.RequestQuery{
		Search:      c.Query("search"),
		Status:      c.Query("status"),
		ServiceType: c.Query("serviceType"),
		Page:        c.QueryInt("page", 1),
		PageSize:    c.QueryInt("limit", service.DefaultPageSize),
	}
}
