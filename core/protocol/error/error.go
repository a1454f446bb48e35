package error

// LErrorDesc littlescope中所有返回给调用者的错误都实现该接口
// Code用于区分错误的种类, errors.Is比较的也是Code
type LErrorDesc interface {
	Code() int
	Message() string
	AppendMore(more interface{})
	Mores() []interface{}
	MarshalMores() ([]byte, error)
	UnmarshalMores([]byte) error
	error
}

type LErrors interface {
	// LNewErrorDesc 用于生产littlescope中的标准错误
	LNewErrorDesc(code int, message string, mores ...interface{}) LErrorDesc
	// LWarpErrorDesc 用于包装littlescope中的标准错误
	LWarpErrorDesc(desc LErrorDesc, mores ...interface{}) LErrorDesc
	// LCauseErrorDesc 在标准错误上挂载一个原始错误, 原始错误可以通过errors.Unwrap取出
	LCauseErrorDesc(desc LErrorDesc, cause error, mores ...interface{}) LErrorDesc
}

type LNewErrorDesc func(code int, message string, mores ...interface{}) LErrorDesc

type LWarpErrorDesc func(desc LErrorDesc, mores ...interface{}) LErrorDesc

// Is 比较两个错误的Code, 两者都必须实现LErrorDesc
func Is(err, target error) bool {
	e1, ok := err.(LErrorDesc)
	if !ok {
		return false
	}
	e2, ok := target.(LErrorDesc)
	if !ok {
		return false
	}
	return e1.Code() == e2.Code()
}
