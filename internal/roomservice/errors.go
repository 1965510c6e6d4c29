package roomservice

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNotLoggedIn is returned when an operation requires a live session.
var ErrNotLoggedIn = errors.New("not logged in")

// ServiceError is the structured form of a room-service rejection.
type ServiceError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
	Endpoint   string `json:"endpoint,omitempty"`
	Host       string `json:"host,omitempty"`
}

func (e *ServiceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: [%d] %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Legacy error-string shape, e.g.
// "M_LIMIT_EXCEEDED: ServiceError: [429] Too Many Requests (http://localhost:8008/login)".
var legacyErrorPattern = regexp.MustCompile(
	`^([A-Z_]+):\s*([^:]+):\s*\[(\d+)\]\s*([^(]+)\s*\((https?://([^/]+)(.*?))\)$`,
)

// ParseServiceError parses the legacy string representation of a remote
// error. It returns nil when the string does not match the expected shape;
// callers then fall back to the raw message.
func ParseServiceError(raw string) *ServiceError {
	match := legacyErrorPattern.FindStringSubmatch(raw)
	if match == nil {
		return nil
	}
	status, _ := strconv.Atoi(match[3])
	return &ServiceError{
		Code:       match[1],
		Message:    strings.TrimSpace(match[4]),
		StatusCode: status,
		Host:       match[6],
		Endpoint:   match[7],
	}
}

// TranslateError normalizes a room-service rejection for the given
// operation. Structured errors pass through; legacy strings are parsed
// best-effort; anything else is wrapped with the operation name.
func TranslateError(op string, err error) error {
	if err == nil {
		return nil
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return fmt.Errorf("%s failed: %w", op, svcErr)
	}
	if parsed := ParseServiceError(err.Error()); parsed != nil {
		return fmt.Errorf("%s failed: %w", op, parsed)
	}
	return fmt.Errorf("%s failed: %w", op, err)
}
