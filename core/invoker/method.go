package invoker

import (
	"reflect"

	"github.com/nyan233/littlescope/core/common/errorhandler"
	"github.com/nyan233/littlescope/core/common/metadata"
	"github.com/nyan233/littlescope/core/common/value"
)

// Invoke 调用方法, 静态方法忽略instance
// 实参少于声明的参数时, 缺少的尾部参数使用默认值
// void方法返回无效的Value
func (i *Invoker) Invoke(md *metadata.MethodDescriptor, instance interface{}, args ...value.Value) (value.Value, error) {
	member := md.Owner + "." + md.Name
	if md.Generic {
		return value.Value{}, i.eHandle.LWarpErrorDesc(errorhandler.ErrUnsupportedGeneric, member)
	}
	callArgs := make([]reflect.Value, 0, len(md.Params)+1)
	if !md.Static {
		recv, err := i.receiver(member, instance, md.Receiver)
		if err != nil {
			return value.Value{}, err
		}
		callArgs = append(callArgs, recv)
	}
	params, err := i.marshalArgs(member, md.Params, args, true)
	if err != nil {
		return value.Value{}, err
	}
	results, err := i.call(member, md.Func, append(callArgs, params...), md.ReturnsErr)
	if err != nil {
		return value.Value{}, err
	}
	if len(results) == 0 {
		return value.Value{}, nil
	}
	return value.FromReflect(results[0]), nil
}

func Invoke(md *metadata.MethodDescriptor, instance interface{}, args ...value.Value) (value.Value, error) {
	return std.Invoke(md, instance, args...)
}
