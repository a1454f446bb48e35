package invoker

import (
	"fmt"
	"reflect"

	"github.com/nyan233/littlescope/core/common/errorhandler"
	"github.com/nyan233/littlescope/core/common/metadata"
	"github.com/nyan233/littlescope/core/common/value"
)

// FindConstructor 按照参数类型的顺序精确匹配构造器, 找不到时返回false, 这不是一个错误
func FindConstructor(td *metadata.TypeDescriptor, sig ...reflect.Type) (*metadata.ConstructorDescriptor, bool) {
	if td == nil {
		return nil, false
	}
	for _, ctor := range td.Constructors {
		if metadata.SameSignature(ctor.Signature(), sig) {
			return ctor, true
		}
	}
	return nil, false
}

// RequireConstructor 与FindConstructor相同, 但是找不到时返回ConstructorNotFound
func (i *Invoker) RequireConstructor(td *metadata.TypeDescriptor, sig ...reflect.Type) (*metadata.ConstructorDescriptor, error) {
	ctor, ok := FindConstructor(td, sig...)
	if ok {
		return ctor, nil
	}
	names := make([]string, 0, len(sig))
	for _, typ := range sig {
		// nil类型不会匹配任何构造器
		names = append(names, fmt.Sprint(typ))
	}
	var owner string
	if td != nil {
		owner = td.Name
	}
	return nil, i.eHandle.LWarpErrorDesc(errorhandler.ErrConstructorNotFound, owner, names)
}

// Construct 使用args调用构造器, 参数个数必须与声明的个数相同
// 构造器返回值类型时会被复制到一个新分配的变量中, 返回的实例总是指针
func (i *Invoker) Construct(ctor *metadata.ConstructorDescriptor, args ...value.Value) (interface{}, error) {
	member := ctor.Owner + "." + ctor.MemberName()
	callArgs, err := i.marshalArgs(member, ctor.Params, args, false)
	if err != nil {
		return nil, err
	}
	results, err := i.call(member, ctor.Func, callArgs, ctor.ReturnsErr)
	if err != nil {
		return nil, err
	}
	instance := results[0]
	if instance.Kind() != reflect.Ptr {
		ptr := reflect.New(instance.Type())
		ptr.Elem().Set(instance)
		instance = ptr
	}
	return instance.Interface(), nil
}

func RequireConstructor(td *metadata.TypeDescriptor, sig ...reflect.Type) (*metadata.ConstructorDescriptor, error) {
	return std.RequireConstructor(td, sig...)
}

func Construct(ctor *metadata.ConstructorDescriptor, args ...value.Value) (interface{}, error) {
	return std.Construct(ctor, args...)
}
