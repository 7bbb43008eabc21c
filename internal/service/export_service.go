package service

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abengl/fleet-management-api/internal/export"
	"github.com/abengl/fleet-management-api/internal/queue"
)

// ExportSource provides validated, unpaginated trajectory data.
type ExportSource interface {
	ValidateQuery(ctx context.Context, taxiID *uint64, date string) (time.Time, error)
	GetExportData(ctx context.Context, taxiID *uint64, date string) ([]ExportRecord, error)
}

// ExcelMailer emails a spreadsheet.
type ExcelMailer interface {
	SendWithExcelAttachment(ctx context.Context, to string, taxiID uint64, date string, spreadsheet []byte) error
}

// ExportPublisher enqueues export requests.
type ExportPublisher interface {
	PublishExportRequested(ctx context.Context, ev queue.ExportRequestedEvent) error
}

// ExportService builds trajectory spreadsheets and routes them to email,
// either directly (Deliver) or through the export queue (Request).
type ExportService struct {
	source    ExportSource
	mailer    ExcelMailer
	publisher ExportPublisher
	timeout   time.Duration
	log       logrus.FieldLogger
}

func NewExportService(source ExportSource, mailer ExcelMailer, publisher ExportPublisher, timeout time.Duration, log logrus.FieldLogger) *ExportService {
	if source == nil || mailer == nil || publisher == nil {
		panic("nil dependency passed to NewExportService")
	}
	return &ExportService{source: source, mailer: mailer, publisher: publisher, timeout: timeout, log: log}
}

// Workbook returns the .xlsx export of the taxi's samples on the date.
func (s *ExportService) Workbook(ctx context.Context, taxiID *uint64, date string) ([]byte, error) {
	records, err := s.source.GetExportData(ctx, taxiID, date)
	if err != nil {
		return nil, err
	}
	rows := make([]export.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, export.Row{TaxiID: r.TaxiID, Plate: r.Plate, Date: r.Date, Latitude: r.Latitude, Longitude: r.Longitude})
	}
	return export.Workbook(rows)
}

// Request validates an export-by-email request and enqueues it.
func (s *ExportService) Request(ctx context.Context, to string, taxiID *uint64, date string, requestedBy uint64) error {
	if _, err := mail.ParseAddress(to); err != nil {
		return fmt.Errorf("%w: invalid email address %q", ErrInvalidParameter, to)
	}
	if _, err := s.source.ValidateQuery(ctx, taxiID, date); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	ev := queue.ExportRequestedEvent{
		Email:       to,
		TaxiID:      *taxiID,
		Date:        date,
		RequestedBy: requestedBy,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.publisher.PublishExportRequested(ctx, ev); err != nil {
		return outboundErr(fmt.Errorf("enqueue export: %w", err))
	}
	s.log.WithFields(logrus.Fields{"taxi_id": ev.TaxiID, "date": date, "requested_by": requestedBy}).Info("export queued")
	return nil
}

// Deliver builds the workbook for ev and emails it. It is the export
// queue's message handler.
func (s *ExportService) Deliver(ctx context.Context, ev queue.ExportRequestedEvent) error {
	taxiID := ev.TaxiID
	data, err := s.Workbook(ctx, &taxiID, ev.Date)
	if err != nil {
		return err
	}
	if err := s.mailer.SendWithExcelAttachment(ctx, ev.Email, ev.TaxiID, ev.Date, data); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"taxi_id": ev.TaxiID, "date": ev.Date, "bytes": len(data)}).Info("export delivered")
	return nil
}
