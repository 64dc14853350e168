package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"

	"github.com/Muhammadkaif97/cpn-calculator/internal/contact"
	"github.com/Muhammadkaif97/cpn-calculator/internal/scoring"
)

// ErrorCategory defines the type of error for proper handling
type ErrorCategory string

const (
	CategoryValidation          ErrorCategory = "validation"
	CategoryMissingPrerequisite ErrorCategory = "missing_prerequisite"
	CategoryRejected            ErrorCategory = "rejected"
	CategoryConflict            ErrorCategory = "conflict"
	CategoryNetwork             ErrorCategory = "network"
	CategoryTimeout             ErrorCategory = "timeout"
	CategoryRateLimit           ErrorCategory = "rate_limit"
	CategoryInternal            ErrorCategory = "internal"
	CategoryConfiguration       ErrorCategory = "configuration"
)

// User-facing messages.
const (
	MsgMissingScore    = "Calculate your CPN before requesting suggestions."
	MsgContactFailed   = "Oops! There was a problem submitting your form."
	MsgContactInFlight = "A submission is already in progress."
	MsgInternal        = "Internal server error"
)

// AppError wraps an errbuilder error with the HTTP context it is reported under.
type AppError struct {
	*errbuilder.ErrBuilder
	Category   ErrorCategory `json:"category"`
	HTTPStatus int           `json:"http_status"`
	Timestamp  time.Time     `json:"timestamp"`
	RequestID  string        `json:"request_id,omitempty"`
	StackTrace string        `json:"stack_trace,omitempty"`
	// Messages are the individual user-facing messages, in order, when there is more than one.
	Messages []string `json:"errors,omitempty"`
}

// ErrorResponse is the JSON body sent for every failed request.
type ErrorResponse struct {
	Error     string        `json:"error"`
	Category  ErrorCategory `json:"category"`
	Errors    []string      `json:"errors,omitempty"`
	RequestID string        `json:"request_id,omitempty"`
}

func (e *AppError) Error() string {
	codeStr := "UNKNOWN_ERROR"
	switch e.Category {
	case CategoryValidation:
		codeStr = "VALIDATION_ERROR"
	case CategoryMissingPrerequisite:
		codeStr = "MISSING_PREREQUISITE"
	case CategoryRejected:
		codeStr = "SUBMISSION_REJECTED"
	case CategoryConflict:
		codeStr = "SUBMISSION_IN_FLIGHT"
	case CategoryNetwork:
		codeStr = "NETWORK_ERROR"
	case CategoryTimeout:
		codeStr = "TIMEOUT_ERROR"
	case CategoryRateLimit:
		codeStr = "RATE_LIMIT_EXCEEDED"
	case CategoryInternal:
		codeStr = "INTERNAL_ERROR"
	case CategoryConfiguration:
		codeStr = "CONFIGURATION_ERROR"
	}

	return fmt.Sprintf("[%s] %s", codeStr, e.ErrBuilder.Msg)
}

// Unwrap returns the underlying cause
func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

// Response renders the error body for the client.
func (e *AppError) Response() ErrorResponse {
	return ErrorResponse{
		Error:     e.ErrBuilder.Msg,
		Category:  e.Category,
		Errors:    e.Messages,
		RequestID: e.RequestID,
	}
}

// NewAppError creates an AppError from errbuilder with additional context
func NewAppError(builder *errbuilder.ErrBuilder, category ErrorCategory, httpStatus int) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: httpStatus,
		Timestamp:  time.Now(),
	}
}

// NewValidationError reports input that cannot be processed. The message is shown verbatim.
func NewValidationError(field, message string) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)

	if field != "" {
		errorMap := errbuilder.ErrorMap{}
		errorMap.Set(field, errors.New(message))
		builder = builder.WithDetails(errbuilder.NewErrDetails(errorMap))
	}

	return NewAppError(builder, CategoryValidation, http.StatusBadRequest)
}

// NewValidationErrorWithMap reports several invalid fields at once. order fixes the
// sequence of Messages.
func NewValidationErrorWithMap(validationErrors map[string]string, order []string) *AppError {
	errMap := errbuilder.ErrorMap{}
	messages := make([]string, 0, len(validationErrors))

	for _, field := range order {
		message, ok := validationErrors[field]
		if !ok {
			continue
		}
		errMap.Set(field, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(message))
		messages = append(messages, message)
	}

	msg := "Multiple validation errors"
	if len(messages) == 1 {
		msg = messages[0]
	}

	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg).
		WithDetails(errbuilder.NewErrDetails(errMap))

	appErr := NewAppError(builder, CategoryValidation, http.StatusBadRequest)
	appErr.Messages = messages
	return appErr
}

// NewMissingPrerequisiteError reports an operation requested before its input exists.
func NewMissingPrerequisiteError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryMissingPrerequisite, http.StatusPreconditionFailed)
}

// NewRejectedError reports a submission the upstream endpoint refused, with its reasons.
func NewRejectedError(messages []string, cause error) *AppError {
	errorMap := errbuilder.ErrorMap{}
	for i, m := range messages {
		errorMap.Set(fmt.Sprintf("upstream_%d", i), errors.New(m))
	}

	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(strings.Join(messages, ", ")).
		WithDetails(errbuilder.NewErrDetails(errorMap))

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	appErr := NewAppError(builder, CategoryRejected, http.StatusUnprocessableEntity)
	appErr.Messages = messages
	return appErr
}

// NewConflictError reports work already in progress for the same client.
func NewConflictError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeResourceExhausted).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryConflict, http.StatusConflict)
}

// NewNetworkError creates a network error using errbuilder
func NewNetworkError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryNetwork, http.StatusBadGateway)
}

// NewTimeoutError creates a timeout error using errbuilder
func NewTimeoutError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeDeadlineExceeded).
		WithMsg(message)

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryTimeout, http.StatusGatewayTimeout)
}

// NewRateLimitError creates a rate limit error using errbuilder
func NewRateLimitError(retryAfter string) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("retry_after", errors.New(retryAfter))

	builder := errbuilder.New().
		WithCode(errbuilder.CodeResourceExhausted).
		WithMsg("Rate limit exceeded").
		WithDetails(errbuilder.NewErrDetails(errorMap))

	return NewAppError(builder, CategoryRateLimit, http.StatusTooManyRequests)
}

// NewInternalError creates an internal server error using errbuilder
func NewInternalError(message string, cause error) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("internal_details", errors.New(message))

	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(MsgInternal).
		WithDetails(errbuilder.NewErrDetails(errorMap))

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	appErr := NewAppError(builder, CategoryInternal, http.StatusInternalServerError)

	if gin.Mode() == gin.DebugMode || gin.Mode() == gin.TestMode {
		appErr.StackTrace = captureStackTrace()
	}

	return appErr
}

// NewConfigurationError creates a configuration error using errbuilder
func NewConfigurationError(message string, cause error) *AppError {
	errorMap := errbuilder.ErrorMap{}
	errorMap.Set("config_details", errors.New(message))

	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg("Configuration error").
		WithDetails(errbuilder.NewErrDetails(errorMap))

	if cause != nil {
		builder = builder.WithCause(cause)
	}

	return NewAppError(builder, CategoryConfiguration, http.StatusInternalServerError)
}

func captureStackTrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// ErrorHandler is a Gin middleware that turns the last error attached to the context
// into a structured response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			appErr := ToAppError(c.Errors.Last().Err)
			Respond(c, appErr)
		}
	}
}

// Respond logs err and writes it to the client, unless a response has already been sent.
func Respond(c *gin.Context, appErr *AppError) {
	if appErr.RequestID == "" {
		appErr.RequestID = requestID(c)
	}
	LogError(c, appErr)

	if c.Writer.Written() {
		return
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.Response())
}

// RecoveryHandler provides panic recovery with structured error responses
func RecoveryHandler() gin.HandlerFunc {
	return gin.RecoveryWithWriter(nil, func(c *gin.Context, err interface{}) {
		appErr := NewInternalError(
			fmt.Sprintf("Panic recovered: %v", err),
			fmt.Errorf("%v", err),
		)
		appErr.StackTrace = captureStackTrace()

		Respond(c, appErr)
	})
}

// ToAppError maps domain errors onto the HTTP taxonomy. Unknown errors become internal.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var ve *scoring.ValidationError
	if errors.As(err, &ve) {
		appErr := NewValidationError(ve.Field, ve.Message)
		appErr.ErrBuilder = appErr.ErrBuilder.WithCause(err)
		return appErr
	}

	var missing *scoring.MissingScoreError
	if errors.As(err, &missing) {
		return NewMissingPrerequisiteError(missing.UserMessage(), err)
	}

	var fe *contact.FieldErrors
	if errors.As(err, &fe) {
		fields := make(map[string]string, len(fe.Fields))
		order := make([]string, 0, len(fe.Fields))
		for _, f := range fe.Fields {
			fields[f.Field] = f.Message
			order = append(order, f.Field)
		}
		return NewValidationErrorWithMap(fields, order)
	}

	var rejected *contact.RejectedError
	if errors.As(err, &rejected) {
		return NewRejectedError(rejected.Messages, err)
	}

	if errors.Is(err, contact.ErrInFlight) {
		return NewConflictError(MsgContactInFlight, err)
	}

	var te *contact.TransportError
	if errors.As(err, &te) {
		return NewNetworkError(MsgContactFailed, err)
	}

	if ebErr, ok := err.(*errbuilder.ErrBuilder); ok {
		return NewAppError(ebErr, CategoryInternal, http.StatusInternalServerError)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError("Request deadline exceeded", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewTimeoutError("Request cancelled", err)
	}

	return NewInternalError("An unexpected error occurred", err)
}

func requestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// LogError logs an error with appropriate level and context
func LogError(c *gin.Context, err *AppError) {
	errorMsg := err.ErrBuilder.Msg
	errorDetails := err.ErrBuilder.Details

	logEntry := slog.With(
		"error_category", err.Category,
		"error_code", err.ErrBuilder.ErrCode(),
		"http_status", err.HTTPStatus,
		"ip", c.ClientIP(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"request_id", requestID(c),
	)

	switch err.Category {
	case CategoryValidation, CategoryMissingPrerequisite, CategoryRejected, CategoryConflict, CategoryRateLimit:
		if len(errorDetails.Errors) > 0 {
			logEntry.Warn(errorMsg, "details", errorDetails.Errors)
		} else {
			logEntry.Warn(errorMsg)
		}
	case CategoryNetwork, CategoryTimeout:
		if cause := err.ErrBuilder.Unwrap(); cause != nil {
			logEntry.Info(errorMsg, "cause", cause)
		} else {
			logEntry.Info(errorMsg)
		}
	default:
		if cause := err.ErrBuilder.Unwrap(); cause != nil {
			logEntry.Error(errorMsg, "cause", cause)
		} else {
			logEntry.Error(errorMsg)
		}
	}

	if err.StackTrace != "" && (gin.Mode() == gin.DebugMode || gin.Mode() == gin.TestMode) {
		logEntry.Debug("stack_trace", "trace", err.StackTrace)
	}
}

// SafeClose closes a resource and logs any error.
func SafeClose(closer interface{ Close() error }, resourceName string) {
	if closer == nil {
		return
	}

	if err := closer.Close(); err != nil {
		slog.Warn("Failed to close resource",
			"resource", resourceName,
			"error", err)
	}
}
