// Package service holds the application logic between the HTTP handlers
// and the repositories: authentication, trajectory queries, email
// notifications and trajectory exports.
package service

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error kinds returned by the services. Callers match them with errors.Is;
// the wrapped message carries the detail shown to clients.
var (
	ErrInvalidParameter      = errors.New("invalid parameter")
	ErrInvalidFormat         = errors.New("invalid format")
	ErrNotFound              = errors.New("not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidRole           = errors.New("invalid role")
	ErrDuplicateEmail        = errors.New("duplicate email")
	ErrMailTransport         = errors.New("mail transport error")
	ErrAttachmentUnavailable = errors.New("attachment unavailable")
	ErrTimeout               = errors.New("timeout")
)

// outboundErr maps deadline and network timeouts to ErrTimeout and leaves
// other errors untouched.
func outboundErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
