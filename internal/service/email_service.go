package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// SpreadsheetMIME is the content type of .xlsx attachments.
const SpreadsheetMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	staticAttachmentMIME = "text/plain"
	subjectTimeLayout    = "2006-01-02 15:04:05"
)

// MailTransport delivers composed messages. *gomail.Dialer satisfies it.
type MailTransport interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailService composes and sends transactional email. Sends are not
// retried; each call waits at most timeout for the transport.
type EmailService struct {
	transport        MailTransport
	from             string
	staticAttachment string
	timeout          time.Duration
	now              func() time.Time
	log              logrus.FieldLogger
}

func NewEmailService(transport MailTransport, from, staticAttachment string, timeout time.Duration, log logrus.FieldLogger) *EmailService {
	if transport == nil {
		panic("nil transport passed to NewEmailService")
	}
	return &EmailService{
		transport:        transport,
		from:             from,
		staticAttachment: staticAttachment,
		timeout:          timeout,
		now:              time.Now,
		log:              log,
	}
}

// SendPlainText sends a fixed plain-text message.
func (s *EmailService) SendPlainText(ctx context.Context, to string) error {
	m := s.newMessage(to, "Fleet Management API "+s.stamp())
	m.SetBody("text/plain", "Test email: plain email text sent.")
	return s.send(ctx, m)
}

// SendWithStaticAttachment sends a fixed message with the configured local
// file attached.
func (s *EmailService) SendWithStaticAttachment(ctx context.Context, to string) error {
	data, err := os.ReadFile(s.staticAttachment)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAttachmentUnavailable, err)
	}
	m := s.newMessage(to, "Fleet Management API "+s.stamp())
	m.SetBody("text/plain", "Test email: email with attachment sent.")
	attachBytes(m, filepath.Base(s.staticAttachment), staticAttachmentMIME, data)
	return s.send(ctx, m)
}

// SendWithExcelAttachment sends a report email summarizing the export and
// attaching the spreadsheet as trajectories_<taxiId>_<date>.xlsx.
func (s *EmailService) SendWithExcelAttachment(ctx context.Context, to string, taxiID uint64, date string, spreadsheet []byte) error {
	m := s.newMessage(to, "Fleet Management API Report "+s.stamp())
	m.SetBody("text/html", ExcelReportBody(taxiID, date, len(spreadsheet)))
	attachBytes(m, ExcelAttachmentName(taxiID, date), SpreadsheetMIME, spreadsheet)
	return s.send(ctx, m)
}

// ExcelReportBody renders the HTML summary of an export email.
func ExcelReportBody(taxiID uint64, date string, sizeBytes int) string {
	return "<p>Hello, the following attachment includes a report of:</p>" +
		"<table border='1'>" +
		"<tr><th>Taxi ID</th><th>Date</th><th>File Size</th></tr>" +
		fmt.Sprintf("<tr><td>%d</td><td>%s</td><td>%.2f KB</td></tr>", taxiID, date, float64(sizeBytes)/1024.0) +
		"</table>"
}

// ExcelAttachmentName is the file name of an export attachment.
func ExcelAttachmentName(taxiID uint64, date string) string {
	return fmt.Sprintf("trajectories_%d_%s.xlsx", taxiID, date)
}

func (s *EmailService) stamp() string {
	return s.now().Format(subjectTimeLayout)
}

func (s *EmailService) newMessage(to, subject string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	return m
}

func attachBytes(m *gomail.Message, name, mime string, data []byte) {
	m.Attach(name,
		gomail.SetHeader(map[string][]string{"Content-Type": {mime + `; name="` + name + `"`}}),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}),
	)
}

// send hands m to the transport and stops waiting once the timeout or ctx
// expires. gomail's dialer only bounds the connect (10s); a server that
// stalls mid-conversation keeps the DialAndSend goroutine alive until it
// drops the connection.
func (s *EmailService) send(ctx context.Context, m *gomail.Message) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.transport.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			if terr := outboundErr(err); terr != err {
				return terr
			}
			s.log.WithError(err).WithField("to", m.GetHeader("To")).Warn("mail delivery failed")
			return fmt.Errorf("%w: %v", ErrMailTransport, err)
		}
		s.log.WithField("to", m.GetHeader("To")).Info("mail sent")
		return nil
	case <-ctx.Done():
		return outboundErr(ctx.Err())
	}
}
