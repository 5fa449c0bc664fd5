package response

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Error 带 HTTP 状态码、业务码和原始错误链的错误类型
// 同一类错误共享业务码，errors.Is 按业务码匹配
type Error struct {
	Status  int    `json:"-"`
	Code    int32  `json:"code"`
	Message string `json:"error"`
	Origin  string `json:"origin,omitempty"`
	cause   error
	stack   pkgerrors.StackTrace
}

func newError(status int, code int32, msg string) *Error {
	return &Error{
		Status:  status,
		Code:    code,
		Message: msg,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("code:%d, msg:%s", e.Code, e.Message)
}

// GetCode 实现 sentry.CodedError 接口，返回 HTTP 状态码用于判断是否上报
func (e *Error) GetCode() int32 {
	return int32(e.Status)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// StackTrace 实现 pkg/errors 的 stackTracer 接口
func (e *Error) StackTrace() pkgerrors.StackTrace {
	if e.stack != nil {
		return e.stack
	}
	if e.cause != nil {
		type stackTracer interface {
			StackTrace() pkgerrors.StackTrace
		}
		if st, ok := e.cause.(stackTracer); ok {
			return st.StackTrace()
		}
	}
	return nil
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func (e *Error) clone() *Error {
	c := *e
	return &c
}

// WithMessage 同类错误的具体提示，业务码不变
func (e *Error) WithMessage(msg string) *Error {
	c := e.clone()
	c.Message = msg
	return c
}

// WithOrigin 保留原始错误链，Origin 仅在 debug 模式返回给前端
func (e *Error) WithOrigin(err error) *Error {
	if err == nil {
		return e
	}

	wrapped := ensureStack(err)
	c := e.clone()
	c.Origin = fmt.Sprintf("%+v", wrapped)
	c.cause = wrapped

	type stackTracer interface {
		StackTrace() pkgerrors.StackTrace
	}
	if st, ok := wrapped.(stackTracer); ok {
		c.stack = st.StackTrace()
	}
	return c
}

func ensureStack(err error) error {
	type stackTracer interface {
		StackTrace() pkgerrors.StackTrace
	}
	if _, ok := err.(stackTracer); ok {
		return err
	}
	return pkgerrors.WithStack(err)
}

// 错误分类
var (
	ErrValidation      = newError(http.StatusBadRequest, 40001, "Invalid request")
	ErrConflict        = newError(http.StatusBadRequest, 40002, "Already exists")
	ErrAuthentication  = newError(http.StatusUnauthorized, 40101, "Authentication required")
	ErrForbidden       = newError(http.StatusForbidden, 40301, "Access denied")
	ErrNotFound        = newError(http.StatusNotFound, 40401, "Not found")
	ErrPayloadTooLarge = newError(http.StatusRequestEntityTooLarge, 41301, "Request body too large")
	ErrInternal        = newError(http.StatusInternalServerError, 50001, "Internal server error")
	ErrDatabase        = newError(http.StatusInternalServerError, 50002, "Database error")
	ErrStorage         = newError(http.StatusInternalServerError, 50003, "Storage error")
)

// 具体错误
var (
	ErrInvalidTeacherPIN  = ErrAuthentication.WithMessage("Invalid teacher PIN")
	ErrInvalidCredentials = ErrAuthentication.WithMessage("Invalid credentials")
	ErrIncorrectPIN       = ErrAuthentication.WithMessage("Incorrect PIN")
	ErrTeacherRequired    = ErrAuthentication.WithMessage("Teacher login required")
	ErrStudentRequired    = ErrAuthentication.WithMessage("Student section access required")
	ErrTeacherExists      = ErrConflict.WithMessage("Teacher name already exists")
	ErrInvalidSection     = ErrValidation.WithMessage("Invalid section")
	ErrActivityNotFound   = ErrNotFound.WithMessage("Activity not found")
	ErrFileNotFound       = ErrNotFound.WithMessage("File not found")
)
