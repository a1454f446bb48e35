package invoker

import (
	"math"
	"reflect"

	"github.com/nyan233/littlescope/core/common/errorhandler"
	"github.com/nyan233/littlescope/core/common/metadata"
	"github.com/nyan233/littlescope/core/common/value"
	reflect2 "github.com/nyan233/littlescope/internal/reflect"
)

// field 找到字段对应的可读写的reflect.Value, 静态字段忽略instance
func (i *Invoker) field(fd *metadata.FieldDescriptor, instance interface{}) (reflect.Value, error) {
	if fd.Static {
		return fd.Var, nil
	}
	recv, err := i.receiver(fd.Owner+"."+fd.Name, instance, fd.Receiver)
	if err != nil {
		return reflect.Value{}, err
	}
	// 未导出的字段通过反射只能读, 并且不能转换为interface{}
	return reflect2.Writable(recv.Elem().FieldByIndex(fd.Index)), nil
}

// GetField 读取字段当前的值
func (i *Invoker) GetField(fd *metadata.FieldDescriptor, instance interface{}) (value.Value, error) {
	fv, err := i.field(fd, instance)
	if err != nil {
		return value.Value{}, err
	}
	return value.FromReflect(fv), nil
}

// SetField 把v写入字段, v的值不能被字段的类型无损表示时返回IncompatibleAssignment
// 写入本身没有任何同步, 对同一个实例的并发读写需要调用者自己加锁
func (i *Invoker) SetField(fd *metadata.FieldDescriptor, instance interface{}, v value.Value) error {
	fv, err := i.field(fd, instance)
	if err != nil {
		return err
	}
	rv, err := value.Coerce(v, fd.Type)
	if err != nil {
		return i.eHandle.LCauseErrorDesc(errorhandler.ErrIncompatibleAssign, err,
			fd.Owner+"."+fd.Name, fd.Type.String(), describe(v))
	}
	fv.Set(rv)
	return nil
}

// AddField 读取字段, 加上delta之后写回, 返回写入的值
// 这是GetField与SetField的组合, 不是原子的: 两个goroutine交错执行时其中一次增加可能会丢失
func (i *Invoker) AddField(fd *metadata.FieldDescriptor, instance interface{}, delta value.Value) (value.Value, error) {
	current, err := i.GetField(fd, instance)
	if err != nil {
		return value.Value{}, err
	}
	sum, err := add(current, delta)
	if err != nil {
		return value.Value{}, i.eHandle.LCauseErrorDesc(errorhandler.ErrIncompatibleAssign, err,
			fd.Owner+"."+fd.Name, describe(current), describe(delta))
	}
	if err := i.SetField(fd, instance, sum); err != nil {
		return value.Value{}, err
	}
	return i.GetField(fd, instance)
}

// add 在64位上计算a+delta, 结果再由SetField检查能否放入字段
func add(a, delta value.Value) (value.Value, error) {
	switch a.Kind() {
	case value.KindUint:
		x, _ := a.AsUint64()
		if d, ok := delta.AsUint64(); ok {
			if x+d < x {
				return value.Value{}, value.ErrOverflow
			}
			return value.Uint64(x + d), nil
		}
		if d, ok := delta.AsInt64(); ok {
			if d >= 0 {
				if x+uint64(d) < x {
					return value.Value{}, value.ErrOverflow
				}
				return value.Uint64(x + uint64(d)), nil
			}
			if uint64(-(d+1))+1 > x {
				return value.Value{}, value.ErrSignMismatch
			}
			return value.Uint64(x - (uint64(-(d+1)) + 1)), nil
		}
	case value.KindInt:
		x, _ := a.AsInt64()
		if d, ok := delta.AsInt64(); ok {
			if (d > 0 && x > math.MaxInt64-d) || (d < 0 && x < math.MinInt64-d) {
				return value.Value{}, value.ErrOverflow
			}
			return value.Int(x + d), nil
		}
		if d, ok := delta.AsUint64(); ok {
			if d > math.MaxInt64 || x > math.MaxInt64-int64(d) {
				return value.Value{}, value.ErrOverflow
			}
			return value.Int(x + int64(d)), nil
		}
	}
	return value.Value{}, value.ErrKindMismatch
}

func GetField(fd *metadata.FieldDescriptor, instance interface{}) (value.Value, error) {
	return std.GetField(fd, instance)
}

func SetField(fd *metadata.FieldDescriptor, instance interface{}, v value.Value) error {
	return std.SetField(fd, instance, v)
}

func AddField(fd *metadata.FieldDescriptor, instance interface{}, delta value.Value) (value.Value, error) {
	return std.AddField(fd, instance, delta)
}
