package invoker

import (
	"fmt"
	"reflect"
	"runtime"

	"github.com/nyan233/littlescope/core/common/errorhandler"
	"github.com/nyan233/littlescope/core/common/metadata"
	"github.com/nyan233/littlescope/core/common/value"
	perror "github.com/nyan233/littlescope/core/protocol/error"
	reflect2 "github.com/nyan233/littlescope/internal/reflect"
)

// Invoker 根据描述符动态地构造实例, 读写字段与调用方法
// Invoker本身没有可变状态, 可以被多个goroutine共享, 但是它不会为同一个实例上的并发修改提供任何同步
// 所有的错误都直接返回给调用者, 不会被记录或者吞掉
type Invoker struct {
	eHandle perror.LErrors
}

var std = New(nil)

// New eHandle == nil时使用errorhandler.DefaultErrHandler
func New(eHandle perror.LErrors) *Invoker {
	if eHandle == nil {
		eHandle = errorhandler.DefaultErrHandler
	}
	return &Invoker{eHandle: eHandle}
}

// PanicError 被调用的构造器/方法中发生的panic, 作为InvocationTargetFailure的原因
type PanicError struct {
	Value interface{}
	Stack string
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", p.Value)
}

// Unwrap panic的值本身是error时可以被errors.Is/As找到
func (p *PanicError) Unwrap() error {
	err, _ := p.Value.(error)
	return err
}

// marshalArgs 按照参数声明把args转换为调用使用的reflect.Value
// fillDefault为true时缺少的尾部参数使用声明的默认值, 只要其中一个没有默认值就是参数个数错误
func (i *Invoker) marshalArgs(member string, params []metadata.Parameter, args []value.Value, fillDefault bool) ([]reflect.Value, error) {
	if len(args) > len(params) || (len(args) < len(params) && !fillDefault) {
		return nil, i.eHandle.LWarpErrorDesc(errorhandler.ErrArgumentCount, member,
			fmt.Sprintf("want %d, got %d", len(params), len(args)))
	}
	callArgs := make([]reflect.Value, 0, len(params))
	for index, param := range params {
		var arg value.Value
		if index < len(args) {
			arg = args[index]
		} else if param.HasDefault() {
			arg = param.Default
		} else {
			return nil, i.eHandle.LWarpErrorDesc(errorhandler.ErrArgumentCount, member,
				fmt.Sprintf("parameter %s has no default value", param.Name))
		}
		rv, ok := value.Convert(arg, param.Type)
		if !ok {
			return nil, i.eHandle.LWarpErrorDesc(errorhandler.ErrArgumentType, member, param.String(),
				fmt.Sprintf("got %s", describe(arg)))
		}
		callArgs = append(callArgs, rv)
	}
	return callArgs, nil
}

// receiver 在instance中找到want类型的接收器
// instance为nil(包括类型化的nil指针)时返回MissingInstance, 类型不符时返回ArgumentTypeMismatch
func (i *Invoker) receiver(member string, instance interface{}, want reflect.Type) (reflect.Value, error) {
	rv := reflect2.RealType(reflect.ValueOf(instance))
	if !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil()) {
		return reflect.Value{}, i.eHandle.LWarpErrorDesc(errorhandler.ErrMissingInstance, member)
	}
	recv, ok := reflect2.Receiver(rv, want)
	if !ok {
		return reflect.Value{}, i.eHandle.LWarpErrorDesc(errorhandler.ErrArgumentType, member,
			"instance", fmt.Sprintf("want %s, got %s", want, rv.Type()))
	}
	return recv, nil
}

// call 调用fn, 最后一个非nil的error返回值与panic都被包装为InvocationTargetFailure
// 返回的结果中不包含error
func (i *Invoker) call(member string, fn reflect.Value, args []reflect.Value, returnsErr bool) (results []reflect.Value, err error) {
	defer i.callRecover(member, &err)
	results = fn.Call(args)
	if !returnsErr {
		return results, nil
	}
	last := results[len(results)-1]
	results = results[:len(results)-1]
	if !last.IsNil() {
		return nil, i.eHandle.LCauseErrorDesc(errorhandler.ErrInvocationTarget, last.Interface().(error), member)
	}
	return results, nil
}

func (i *Invoker) callRecover(member string, err *error) {
	e := recover()
	if e == nil {
		return
	}
	var stack [4096]byte
	size := runtime.Stack(stack[:], false)
	*err = i.eHandle.LCauseErrorDesc(errorhandler.ErrInvocationTarget, &PanicError{
		Value: e,
		Stack: string(stack[:size]),
	}, member)
}

func describe(v value.Value) string {
	if v.Type() == nil {
		return v.Kind().String()
	}
	return v.Kind().String() + "(" + v.Type().String() + ")"
}
