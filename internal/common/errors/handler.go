// internal/common/errors/handler.go
package errors

import (
	stderrors "errors"
	"time"
)

// ErrorHandler turns stage errors into log lines and exit statuses.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleStageError logs err and returns the exit status the run should end with.
func (h *ErrorHandler) HandleStageError(stage string, err error) int {
	if err == nil {
		return 0
	}
	stdErr := h.normalizeError(err)
	fields := map[string]interface{}{
		"stage":         stage,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	if stdErr.Fatal {
		h.logger.Error("stage failed", fields)
	} else {
		h.logger.Warn("stage reported a warning", fields)
	}
	return ExitCode(stdErr)
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Fatal:     true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}
