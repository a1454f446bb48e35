package error

import (
	"encoding/json"
)

type LStdError struct {
	LCode    Code          `json:"code"`
	LMessage string        `json:"message"`
	LMores   []interface{} `json:"mores"`
	// 被调用的过程返回的原始错误, 只在InvocationTargetFailure中出现
	cause error
}

func LNewStdError(code int, message string, mores ...interface{}) LErrorDesc {
	return &LStdError{
		LCode:    Code(code),
		LMessage: message,
		LMores:   mores,
	}
}

func LWarpStdError(desc LErrorDesc, mores ...interface{}) LErrorDesc {
	err := &LStdError{
		LCode:    Code(desc.Code()),
		LMessage: desc.Message(),
		LMores:   append(append([]interface{}(nil), desc.Mores()...), mores...),
	}
	if std, ok := desc.(*LStdError); ok {
		err.cause = std.cause
	}
	return err
}

func LCauseStdError(desc LErrorDesc, cause error, mores ...interface{}) LErrorDesc {
	err := LWarpStdError(desc, mores...).(*LStdError)
	err.cause = cause
	if cause != nil {
		err.LMores = append(err.LMores, cause.Error())
	}
	return err
}

func (L *LStdError) Code() int {
	return int(L.LCode)
}

func (L *LStdError) Message() string {
	return L.LMessage
}

func (L *LStdError) AppendMore(more interface{}) {
	L.LMores = append(L.LMores, more)
}

func (L *LStdError) Mores() []interface{} {
	return L.LMores
}

func (L *LStdError) Unwrap() error {
	return L.cause
}

func (L *LStdError) Is(target error) bool {
	return Is(L, target)
}

func (L *LStdError) Error() string {
	bytes, err := json.Marshal(L)
	if err != nil {
		panic("json.Marshal failed : " + err.Error())
	}
	return string(bytes)
}

func (L *LStdError) MarshalMores() ([]byte, error) {
	return json.Marshal(L.LMores)
}

func (L *LStdError) UnmarshalMores(bytes []byte) error {
	return json.Unmarshal(bytes, &L.LMores)
}
