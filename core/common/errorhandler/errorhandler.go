package errorhandler

import (
	"encoding/json"
	"fmt"
	"runtime"
	"strings"

	error2 "github.com/nyan233/littlescope/core/protocol/error"
)

// DefaultErrHandler 不带栈追踪的默认错误处理器
var DefaultErrHandler = New()

type marshalStack struct {
	Stack stack `json:"stack"`
}

type stack []string

func (s stack) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i := len(s) - 1; i >= 0; i-- {
		sb.WriteByte('"')
		sb.WriteString(s[i])
		sb.WriteByte('"')
		if i != 0 {
			sb.WriteByte(',')
		}
	}
	sb.WriteByte(']')
	return []byte(sb.String()), nil
}

type lStackTraceError struct {
	LCode    int           `json:"code"`
	LMessage string        `json:"message"`
	LMores   []interface{} `json:"mores"`
	LStack   stack         `json:"stack"`
	cause    error
}

func error2StackTraceError(err error2.LErrorDesc) *lStackTraceError {
	return &lStackTraceError{
		LCode:    err.Code(),
		LMessage: err.Message(),
		LMores:   append([]interface{}(nil), err.Mores()...),
		LStack:   make([]string, 0, 8),
	}
}

func warpStackTraceError(err *lStackTraceError, mores ...interface{}) *lStackTraceError {
	return &lStackTraceError{
		LCode:    err.LCode,
		LMessage: err.LMessage,
		LMores:   append(append([]interface{}(nil), err.LMores...), mores...),
		LStack:   append(stack(nil), err.LStack...),
		cause:    err.cause,
	}
}

func (l *lStackTraceError) Code() int {
	return l.LCode
}

func (l *lStackTraceError) Message() string {
	return l.LMessage
}

func (l *lStackTraceError) AppendMore(more interface{}) {
	l.LMores = append(l.LMores, more)
}

func (l *lStackTraceError) Mores() []interface{} {
	return l.LMores
}

func (l *lStackTraceError) Unwrap() error {
	return l.cause
}

func (l *lStackTraceError) Is(target error) bool {
	return error2.Is(l, target)
}

func (l *lStackTraceError) MarshalMores() ([]byte, error) {
	mores := l.Mores()
	mores = append(mores, &marshalStack{Stack: l.LStack})
	return json.Marshal(mores)
}

func (l *lStackTraceError) UnmarshalMores(bytes []byte) error {
	return json.Unmarshal(bytes, &l.LMores)
}

func (l *lStackTraceError) Error() string {
	type PrintError struct {
		Code    error2.Code   `json:"code"`
		Message string        `json:"message"`
		Mores   []interface{} `json:"mores"`
	}
	mores := l.Mores()
	mores = append(mores, &marshalStack{Stack: l.LStack})
	bytes, err := json.Marshal(&PrintError{
		Code:    error2.Code(l.Code()),
		Message: l.Message(),
		Mores:   mores,
	})
	if err != nil {
		panic("json.Marshal failed : " + err.Error())
	}
	return string(bytes)
}

type JsonErrorHandler struct {
	openStackTrace bool
}

func NewStackTrace() error2.LErrors {
	return &JsonErrorHandler{
		openStackTrace: true,
	}
}

func New() error2.LErrors {
	return new(JsonErrorHandler)
}

func (j JsonErrorHandler) LNewErrorDesc(code int, message string, mores ...interface{}) error2.LErrorDesc {
	if !j.openStackTrace {
		return error2.LNewStdError(code, message, mores...)
	}
	err := error2StackTraceError(error2.LNewStdError(code, message, mores...))
	// runtime.Caller即使有重复的代码也不能抽到公共函数中, skip参数对性能的影响很大
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		err.LStack = append(err.LStack, "???.go:???")
	} else {
		err.LStack = append(err.LStack, fmt.Sprintf("%s:%d", file, line))
	}
	return err
}

func (j JsonErrorHandler) LWarpErrorDesc(desc error2.LErrorDesc, mores ...interface{}) error2.LErrorDesc {
	if !j.openStackTrace {
		return error2.LWarpStdError(desc, mores...)
	}
	err, _ := desc.(*lStackTraceError)
	if err == nil {
		err = error2StackTraceError(error2.LWarpStdError(desc, mores...))
	} else {
		err = warpStackTraceError(err, mores...)
	}
	// runtime.Caller即使有重复的代码也不能抽到公共函数中, skip参数对性能的影响很大
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		err.LStack = append(err.LStack, "???.go:???")
	} else {
		err.LStack = append(err.LStack, fmt.Sprintf("%s:%d", file, line))
	}
	return err
}

func (j JsonErrorHandler) LCauseErrorDesc(desc error2.LErrorDesc, cause error, mores ...interface{}) error2.LErrorDesc {
	if !j.openStackTrace {
		return error2.LCauseStdError(desc, cause, mores...)
	}
	err, _ := desc.(*lStackTraceError)
	if err == nil {
		err = error2StackTraceError(error2.LWarpStdError(desc, mores...))
	} else {
		err = warpStackTraceError(err, mores...)
	}
	err.cause = cause
	if cause != nil {
		err.LMores = append(err.LMores, cause.Error())
	}
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		err.LStack = append(err.LStack, "???.go:???")
	} else {
		err.LStack = append(err.LStack, fmt.Sprintf("%s:%d", file, line))
	}
	return err
}
