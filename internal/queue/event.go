// Package queue carries trajectory export requests over RabbitMQ.
package queue

// ExportRequestedEvent asks the export worker to build the spreadsheet for
// one taxi and day and email it to Email.
type ExportRequestedEvent struct {
	Email       string `json:"email"`
	TaxiID      uint64 `json:"taxi_id"`
	Date        string `json:"date"`
	RequestedBy uint64 `json:"requested_by"`
	RequestedAt string `json:"requested_at"`
}
