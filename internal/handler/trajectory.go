package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abengl/fleet-management-api/internal/middleware"
	"github.com/abengl/fleet-management-api/internal/service"
)

// TrajectoryQueries is the read side of service.TrajectoryService.
type TrajectoryQueries interface {
	GetTrajectories(ctx context.Context, taxiID *uint64, date string, page, limit int) ([]service.TrajectoryRecord, error)
	GetLatestTrajectories(ctx context.Context, page, limit int) ([]service.LatestPositionRecord, error)
	ListTaxis(ctx context.Context, plate string, page, limit int) ([]service.TaxiRecord, error)
}

// Exporter is the part of service.ExportService used over HTTP.
type Exporter interface {
	Workbook(ctx context.Context, taxiID *uint64, date string) ([]byte, error)
	Request(ctx context.Context, to string, taxiID *uint64, date string, requestedBy uint64) error
}

// TrajectoryHandler serves taxi and trajectory queries and exports.
type TrajectoryHandler struct {
	Queries TrajectoryQueries
	Exports Exporter
}

func NewTrajectoryHandler(q TrajectoryQueries, e Exporter) *TrajectoryHandler {
	return &TrajectoryHandler{Queries: q, Exports: e}
}

type exportEmailReq struct {
	Email  string  `json:"email"`
	TaxiID *uint64 `json:"taxiId"`
	Date   string  `json:"date"`
}

// ListTaxis: GET /v1/taxis?plate=&page=&limit=
func (h *TrajectoryHandler) ListTaxis(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return writeServiceError(c, err)
	}
	taxis, err := h.Queries.ListTaxis(c.Request().Context(), c.QueryParam("plate"), page, limit)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, taxis)
}

// List: GET /v1/trajectories?taxiId=&date=&page=&limit=
func (h *TrajectoryHandler) List(c echo.Context) error {
	taxiID, err := optionalID(c.QueryParam("taxiId"), "taxiId")
	if err != nil {
		return writeServiceError(c, err)
	}
	page, limit, err := pageParams(c)
	if err != nil {
		return writeServiceError(c, err)
	}
	rows, err := h.Queries.GetTrajectories(c.Request().Context(), taxiID, c.QueryParam("date"), page, limit)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// Latest: GET /v1/trajectories/latest?page=&limit=
func (h *TrajectoryHandler) Latest(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return writeServiceError(c, err)
	}
	rows, err := h.Queries.GetLatestTrajectories(c.Request().Context(), page, limit)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// ExportDownload: GET /v1/trajectories/export?taxiId=&date= returns the
// workbook as an attachment.
func (h *TrajectoryHandler) ExportDownload(c echo.Context) error {
	taxiID, err := optionalID(c.QueryParam("taxiId"), "taxiId")
	if err != nil {
		return writeServiceError(c, err)
	}
	date := c.QueryParam("date")
	data, err := h.Exports.Workbook(c.Request().Context(), taxiID, date)
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, service.ExcelAttachmentName(*taxiID, date)))
	return c.Blob(http.StatusOK, service.SpreadsheetMIME, data)
}

// ExportEmail: POST /v1/trajectories/export/email queues the export for
// delivery by email and answers 202.
func (h *TrajectoryHandler) ExportEmail(c echo.Context) error {
	var req exportEmailReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	uid, _ := middleware.CurrentUserID(c)
	if err := h.Exports.Request(c.Request().Context(), req.Email, req.TaxiID, req.Date, uid); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusAccepted, echo.Map{"status": "queued"})
}
