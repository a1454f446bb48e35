package invoker

import (
	"fmt"

	"github.com/nyan233/littlescope/core/common/errorhandler"
	"github.com/nyan233/littlescope/core/common/metadata"
	"github.com/nyan233/littlescope/core/common/value"
)

// Binding 一个无参数的实例方法与它的实例, 之后可以不带任何参数地调用
// Binding只持有实例的引用, 实例之后的修改对Binding可见
type Binding struct {
	invoker  *Invoker
	method   *metadata.MethodDescriptor
	instance interface{}
}

// Bind 只有无参数的实例方法可以被绑定, 否则返回UnsupportedBinding
// 实例在绑定时就会被检查, 之后的Invoke不会再返回MissingInstance
func (i *Invoker) Bind(md *metadata.MethodDescriptor, instance interface{}) (*Binding, error) {
	member := md.Owner + "." + md.Name
	if md.Static || len(md.Params) != 0 {
		return nil, i.eHandle.LWarpErrorDesc(errorhandler.ErrUnsupportedBinding, member,
			fmt.Sprintf("static=%v parameters=%d", md.Static, len(md.Params)))
	}
	if md.Generic {
		return nil, i.eHandle.LWarpErrorDesc(errorhandler.ErrUnsupportedGeneric, member)
	}
	if _, err := i.receiver(member, instance, md.Receiver); err != nil {
		return nil, err
	}
	return &Binding{
		invoker:  i,
		method:   md,
		instance: instance,
	}, nil
}

func (b *Binding) Method() *metadata.MethodDescriptor {
	return b.method
}

func (b *Binding) Target() interface{} {
	return b.instance
}

func (b *Binding) Invoke() (value.Value, error) {
	return b.invoker.Invoke(b.method, b.instance)
}

// Func 把Binding当作一个普通的闭包使用
func (b *Binding) Func() func() (value.Value, error) {
	return b.Invoke
}

func Bind(md *metadata.MethodDescriptor, instance interface{}) (*Binding, error) {
	return std.Bind(md, instance)
}
