// Package apperror defines the coded errors shared by every layer of distflow.
//
// An *Error carries a stable ErrorCode that callers match with errors.Is or
// Is, and that the transports translate: HTTPStatus for the API, ExitCode
// for the command line. Plain Go errors that reach a transport are treated
// as INTERNAL_ERROR.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode стабильный машиночитаемый код ошибки
type ErrorCode string

const (
	// Построение сети
	CodeInvalidEdge      ErrorCode = "INVALID_EDGE"
	CodeDuplicateEdge    ErrorCode = "DUPLICATE_EDGE"
	CodeDuplicateNode    ErrorCode = "DUPLICATE_NODE"
	CodeNegativeCapacity ErrorCode = "NEGATIVE_CAPACITY"
	CodeInvalidCapacity  ErrorCode = "INVALID_CAPACITY"
	CodeInvalidNodeRole  ErrorCode = "INVALID_NODE_ROLE"
	CodeUnknownNode      ErrorCode = "UNKNOWN_NODE"
	CodeReservedNodeID   ErrorCode = "RESERVED_NODE_ID"

	// Расширение сети
	CodeNoTerminalOrStore ErrorCode = "NO_TERMINAL_OR_STORE"

	// Решение
	CodeUnboundedFlow ErrorCode = "UNBOUNDED_FLOW"

	// Проверка рассчитанного потока
	CodeCapacityOverflow      ErrorCode = "CAPACITY_OVERFLOW"
	CodeConservationViolation ErrorCode = "CONSERVATION_VIOLATION"
	CodeNegativeFlow          ErrorCode = "NEGATIVE_FLOW"
	CodeFlowImbalance         ErrorCode = "FLOW_IMBALANCE"
	CodeFlowNotMaximal        ErrorCode = "FLOW_NOT_MAXIMAL"

	// Вход и конфигурация
	CodeInvalidInput    ErrorCode = "INVALID_INPUT"
	CodeInvalidStrategy ErrorCode = "INVALID_STRATEGY"
	CodeInvalidFormat   ErrorCode = "INVALID_FORMAT"
	CodeNilInput        ErrorCode = "NIL_INPUT"

	CodeRateLimited ErrorCode = "RATE_LIMITED"
	CodeInternal    ErrorCode = "INTERNAL_ERROR"
)

// httpStatus коды, не попавшие сюда, отдаются как 500
var httpStatus = map[ErrorCode]int{
	CodeInvalidEdge:       http.StatusBadRequest,
	CodeDuplicateEdge:     http.StatusBadRequest,
	CodeDuplicateNode:     http.StatusBadRequest,
	CodeNegativeCapacity:  http.StatusBadRequest,
	CodeInvalidCapacity:   http.StatusBadRequest,
	CodeInvalidNodeRole:   http.StatusBadRequest,
	CodeUnknownNode:       http.StatusBadRequest,
	CodeReservedNodeID:    http.StatusBadRequest,
	CodeNoTerminalOrStore: http.StatusBadRequest,
	CodeInvalidInput:      http.StatusBadRequest,
	CodeInvalidStrategy:   http.StatusBadRequest,
	CodeInvalidFormat:     http.StatusBadRequest,
	CodeNilInput:          http.StatusBadRequest,
	CodeUnboundedFlow:     http.StatusUnprocessableEntity,
	CodeRateLimited:       http.StatusTooManyRequests,
}

// Error ошибка приложения
type Error struct {
	Code    ErrorCode
	Message string
	// Field имя входного поля, к которому относится ошибка
	Field   string
	Details map[string]any
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(string(e.Code))
	b.WriteString("] ")
	b.WriteString(e.Message)
	if e.Field != "" {
		b.WriteString(" (field: ")
		b.WriteString(e.Field)
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки приложения по коду, чтобы errors.Is работал с Err*
func (e *Error) Is(target error) bool {
	var other *Error
	return errors.As(target, &other) && other.Code == e.Code
}

// HTTPStatus статус ответа API для кода ошибки
func (e *Error) HTTPStatus() int {
	if status, ok := httpStatus[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ExitCode код завершения CLI: 2 плохой вход, 3 нерешаемая сеть, иначе 1
func (e *Error) ExitCode() int {
	switch e.HTTPStatus() {
	case http.StatusBadRequest:
		return 2
	case http.StatusUnprocessableEntity:
		return 3
	default:
		return 1
	}
}

// WithDetails добавляет пару в Details
func (e *Error) WithDetails(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithField задаёт Field
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// New создаёт ошибку с кодом
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message, Details: map[string]any{}}
}

// Newf как New, с форматированием
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// NewWithField создаёт ошибку, привязанную к полю входа
func NewWithField(code ErrorCode, message, field string) *Error {
	return New(code, message).WithField(field)
}

// Wrap оборачивает cause; errors.Is/As видят обе ошибки
func Wrap(cause error, code ErrorCode, message string) *Error {
	e := New(code, message)
	e.Cause = cause
	return e
}

func asError(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// Is сообщает, есть ли в цепочке err ошибка приложения с кодом code
func Is(err error, code ErrorCode) bool {
	appErr, ok := asError(err)
	return ok && appErr.Code == code
}

// Code код первой ошибки приложения в цепочке, иначе CodeInternal
func Code(err error) ErrorCode {
	if appErr, ok := asError(err); ok {
		return appErr.Code
	}
	return CodeInternal
}

// HTTPStatus статус для произвольной ошибки; чужие ошибки дают 500
func HTTPStatus(err error) int {
	if appErr, ok := asError(err); ok {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// ExitCode код завершения для произвольной ошибки; nil даёт 0
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if appErr, ok := asError(err); ok {
		return appErr.ExitCode()
	}
	return 1
}

// Sentinel values for errors.Is; matching is by code.
var (
	ErrInvalidEdge       = New(CodeInvalidEdge, "edge references an unknown node")
	ErrDuplicateEdge     = New(CodeDuplicateEdge, "edge already exists")
	ErrNegativeCapacity  = New(CodeNegativeCapacity, "capacity must not be negative")
	ErrNoTerminalOrStore = New(CodeNoTerminalOrStore, "terminal and store sets must both be non-empty")
	ErrUnboundedFlow     = New(CodeUnboundedFlow, "source reaches sink through unbounded edges only")
	ErrNilNetwork        = New(CodeNilInput, "network is nil")
)

// ValidationErrors накапливает нарушения нескольких проверок,
// чтобы сообщить обо всех сразу
type ValidationErrors struct {
	Errors []*Error
}

// NewValidationErrors создаёт пустой набор
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{}
}

// Add добавляет нарушение
func (v *ValidationErrors) Add(err *Error) {
	v.Errors = append(v.Errors, err)
}

// AddError добавляет нарушение с кодом
func (v *ValidationErrors) AddError(code ErrorCode, message string) {
	v.Add(New(code, message))
}

// Merge переносит нарушения other
func (v *ValidationErrors) Merge(other *ValidationErrors) {
	if other != nil {
		v.Errors = append(v.Errors, other.Errors...)
	}
}

// IsValid true, если нарушений нет
func (v *ValidationErrors) IsValid() bool {
	return len(v.Errors) == 0
}

// Err сворачивает набор в одну ошибку с кодом первого нарушения;
// остальные перечислены в Details["errors"]. Пустой набор даёт nil.
func (v *ValidationErrors) Err() error {
	switch len(v.Errors) {
	case 0:
		return nil
	case 1:
		return v.Errors[0]
	}
	first := v.Errors[0]
	return Wrap(first, first.Code, fmt.Sprintf("%s (and %d more)", first.Message, len(v.Errors)-1)).
		WithDetails("errors", v.ErrorMessages())
}

// ErrorMessages тексты всех нарушений по порядку
func (v *ValidationErrors) ErrorMessages() []string {
	out := make([]string, 0, len(v.Errors))
	for _, err := range v.Errors {
		out = append(out, err.Error())
	}
	return out
}
