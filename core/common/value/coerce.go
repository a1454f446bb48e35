package value

import (
	"errors"
	"math"
	"reflect"
)

var (
	ErrOverflow     = errors.New("value overflows the target type")
	ErrSignMismatch = errors.New("negative value assigned to an unsigned type")
	ErrKindMismatch = errors.New("value kind does not match the target type")
)

// Assignable 调用参数使用的静态规则: 只看v的类型而不看v的值
// 整数只允许放宽, 比如uint32 -> uint64, uint32 -> int64, 枚举只能赋值给完全相同的枚举类型
func Assignable(v Value, typ reflect.Type) bool {
	if typ == nil {
		return false
	}
	if typ.Kind() == reflect.Interface {
		return v.kind != KindInvalid && (v.typ == nil || v.typ.Implements(typ))
	}
	switch v.kind {
	case KindInvalid:
		return false
	case KindString:
		return typ.Kind() == reflect.String && !IsEnum(typ) && (typ == v.typ || v.typ == stringType)
	case KindInt:
		return !IsEnum(typ) && isSigned(typ) && typ.Bits() >= v.typ.Bits()
	case KindUint:
		if IsEnum(typ) {
			return false
		}
		return (isUnsigned(typ) && typ.Bits() >= v.typ.Bits()) || (isSigned(typ) && typ.Bits() > v.typ.Bits())
	case KindEnum:
		return typ == v.typ
	case KindRef:
		if v.typ == nil {
			return nillable(typ)
		}
		return v.typ.AssignableTo(typ)
	default:
		return false
	}
}

// Convert 在Assignable成立的前提下生成typ类型的reflect.Value
func Convert(v Value, typ reflect.Type) (reflect.Value, bool) {
	if !Assignable(v, typ) {
		return reflect.Value{}, false
	}
	return v.reflect(typ), true
}

// Coerce 字段赋值使用的规则: 只要v的值能被typ无损表示就成功, 否则返回原因
// 比如uint64(1600)可以被写入uint32字段, 而int(-1)不能被写入任何无符号字段
func Coerce(v Value, typ reflect.Type) (reflect.Value, error) {
	if typ == nil {
		return reflect.Value{}, ErrKindMismatch
	}
	if typ.Kind() == reflect.Interface || IsEnum(typ) {
		if !Assignable(v, typ) {
			return reflect.Value{}, ErrKindMismatch
		}
		return v.reflect(typ), nil
	}
	switch v.kind {
	case KindInvalid:
		return reflect.Value{}, ErrKindMismatch
	case KindString:
		if typ.Kind() != reflect.String {
			return reflect.Value{}, ErrKindMismatch
		}
		rv := reflect.New(typ).Elem()
		rv.SetString(v.str)
		return rv, nil
	case KindInt:
		n := int64(v.num)
		rv := reflect.New(typ).Elem()
		switch {
		case isSigned(typ):
			if rv.OverflowInt(n) {
				return reflect.Value{}, ErrOverflow
			}
			rv.SetInt(n)
		case isUnsigned(typ):
			if n < 0 {
				return reflect.Value{}, ErrSignMismatch
			}
			if rv.OverflowUint(uint64(n)) {
				return reflect.Value{}, ErrOverflow
			}
			rv.SetUint(uint64(n))
		default:
			return reflect.Value{}, ErrKindMismatch
		}
		return rv, nil
	case KindUint:
		rv := reflect.New(typ).Elem()
		switch {
		case isUnsigned(typ):
			if rv.OverflowUint(v.num) {
				return reflect.Value{}, ErrOverflow
			}
			rv.SetUint(v.num)
		case isSigned(typ):
			if v.num > math.MaxInt64 || rv.OverflowInt(int64(v.num)) {
				return reflect.Value{}, ErrOverflow
			}
			rv.SetInt(int64(v.num))
		default:
			return reflect.Value{}, ErrKindMismatch
		}
		return rv, nil
	case KindEnum, KindRef:
		if !Assignable(v, typ) {
			return reflect.Value{}, ErrKindMismatch
		}
		return v.reflect(typ), nil
	default:
		return reflect.Value{}, ErrKindMismatch
	}
}

// reflect 调用者已经确认v可以被赋值给typ
func (v Value) reflect(typ reflect.Type) reflect.Value {
	switch v.kind {
	case KindString:
		if typ.Kind() == reflect.Interface {
			return reflect.ValueOf(v.Interface())
		}
		rv := reflect.New(typ).Elem()
		rv.SetString(v.str)
		return rv
	case KindInt, KindUint:
		if typ.Kind() == reflect.Interface {
			return reflect.ValueOf(v.Interface())
		}
		return v.number(typ)
	case KindEnum:
		return v.number(v.typ)
	case KindRef:
		if v.ref == nil {
			return reflect.Zero(typ)
		}
		return reflect.ValueOf(v.ref)
	default:
		return reflect.Value{}
	}
}

func nillable(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
