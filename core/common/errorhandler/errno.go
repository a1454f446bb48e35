package errorhandler

import (
	error2 "github.com/nyan233/littlescope/core/protocol/error"
)

// 这些错误只用于errors.Is比较, 实际返回的错误由LErrors包装并带有更多信息
var (
	Success                = DefaultErrHandler.LNewErrorDesc(error2.Success, "OK")
	ErrTypeNotFound        = DefaultErrHandler.LNewErrorDesc(error2.TypeNotFound, "type definition could not be resolved")
	ErrConstructorNotFound = DefaultErrHandler.LNewErrorDesc(error2.ConstructorNotFound, "no constructor matches the signature")
	ErrMissingInstance     = DefaultErrHandler.LNewErrorDesc(error2.MissingInstance, "instance member used without an instance")
	ErrArgumentCount       = DefaultErrHandler.LNewErrorDesc(error2.ArgumentCountMismatch, "argument count mismatch")
	ErrArgumentType        = DefaultErrHandler.LNewErrorDesc(error2.ArgumentTypeMismatch, "argument type mismatch")
	ErrIncompatibleAssign  = DefaultErrHandler.LNewErrorDesc(error2.IncompatibleAssignment, "value cannot be assigned to the field")
	ErrUnsupportedBinding  = DefaultErrHandler.LNewErrorDesc(error2.UnsupportedBinding, "only zero-parameter instance methods can be bound")
	ErrUnsupportedGeneric  = DefaultErrHandler.LNewErrorDesc(error2.UnsupportedGenericInvocation, "generic methods cannot be invoked")
	ErrInvocationTarget    = DefaultErrHandler.LNewErrorDesc(error2.InvocationTargetFailure, "invocation target failed")
	ErrInvalidDefinition   = DefaultErrHandler.LNewErrorDesc(error2.InvalidDefinition, "invalid type definition")
)
