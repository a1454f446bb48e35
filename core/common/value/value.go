package value

import (
	"fmt"
	"reflect"
	"strconv"

	"golang.org/x/exp/constraints"
)

// Kind Value中负载的标签, 集合是封闭的, 所有对Value的处理都必须覆盖全部的Kind
type Kind uint8

const (
	KindInvalid Kind = iota // 没有值, void方法的返回值
	KindString
	KindInt
	KindUint
	KindEnum // 序号+枚举类型
	KindRef  // 其它所有引用/值, 不透明
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindEnum:
		return "enum"
	case KindRef:
		return "ref"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value 运行时带标签的值, 标签与负载永远一致, 零值表示没有值
// Value是不可变的, 可以按值传递
type Value struct {
	kind Kind
	// 负载原本的Go类型, 比如uint32/FactoryType/*Factory
	typ reflect.Type
	str string
	// KindInt/KindEnum以补码形式保存, KindUint直接保存
	num uint64
	ref interface{}
}

var stringType = reflect.TypeOf("")

func String(s string) Value {
	return Value{kind: KindString, typ: stringType, str: s}
}

func Int[T constraints.Signed](v T) Value {
	return Value{kind: KindInt, typ: reflect.TypeOf(v), num: uint64(int64(v))}
}

func Uint[T constraints.Unsigned](v T) Value {
	return Value{kind: KindUint, typ: reflect.TypeOf(v), num: uint64(v)}
}

func Uint64(v uint64) Value {
	return Uint(v)
}

// Enum 枚举值, T没有通过DeclareEnum声明时返回false
func Enum[T constraints.Integer](v T) (Value, bool) {
	typ := reflect.TypeOf(v)
	if !IsEnum(typ) {
		return Value{}, false
	}
	return FromReflect(reflect.ValueOf(v)), true
}

// Ref 不透明的引用, x == nil时表示一个空引用
// 字符串与整数不是引用, 它们得到与Of相同的标签
func Ref(x interface{}) Value {
	if x == nil {
		return Value{kind: KindRef}
	}
	typ := reflect.TypeOf(x)
	if typ.Kind() == reflect.String || isSigned(typ) || isUnsigned(typ) {
		return FromReflect(reflect.ValueOf(x))
	}
	return Value{kind: KindRef, typ: typ, ref: x}
}

// Of 根据x的动态类型选择标签, 已声明的枚举类型得到KindEnum
func Of(x interface{}) Value {
	if x == nil {
		return Ref(nil)
	}
	if v, ok := x.(Value); ok {
		return v
	}
	return FromReflect(reflect.ValueOf(x))
}

// FromReflect 与Of相同, 但是直接接受reflect.Value, 用于字段读取和方法返回值
func FromReflect(rv reflect.Value) Value {
	if !rv.IsValid() {
		return Ref(nil)
	}
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Ref(nil)
		}
		rv = rv.Elem()
	}
	typ := rv.Type()
	if IsEnum(typ) {
		switch {
		case isSigned(typ):
			return Value{kind: KindEnum, typ: typ, num: uint64(rv.Int())}
		case isUnsigned(typ):
			return Value{kind: KindEnum, typ: typ, num: rv.Uint()}
		}
	}
	switch {
	case typ.Kind() == reflect.String:
		return Value{kind: KindString, typ: typ, str: rv.String()}
	case isSigned(typ):
		return Value{kind: KindInt, typ: typ, num: uint64(rv.Int())}
	case isUnsigned(typ):
		return Value{kind: KindUint, typ: typ, num: rv.Uint()}
	default:
		return Value{kind: KindRef, typ: typ, ref: rv.Interface()}
	}
}

func (v Value) Kind() Kind {
	return v.kind
}

// Type 负载的Go类型, 空引用与无效值返回nil
func (v Value) Type() reflect.Type {
	return v.typ
}

func (v Value) IsValid() bool {
	return v.kind != KindInvalid
}

// IsNil 无效值与空引用都被认为是nil
func (v Value) IsNil() bool {
	switch v.kind {
	case KindInvalid:
		return true
	case KindRef:
		if v.ref == nil {
			return true
		}
		rv := reflect.ValueOf(v.ref)
		switch rv.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
			return rv.IsNil()
		}
		return false
	default:
		return false
	}
}

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

func (v Value) AsInt64() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return int64(v.num), true
}

func (v Value) AsUint64() (uint64, bool) {
	if v.kind != KindUint {
		return 0, false
	}
	return v.num, true
}

// Ordinal 枚举值的序号
func (v Value) Ordinal() (int64, bool) {
	if v.kind != KindEnum {
		return 0, false
	}
	return int64(v.num), true
}

// Interface 重建出原本类型的Go值, 无效值返回nil
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindInvalid:
		return nil
	case KindString:
		if v.typ == stringType {
			return v.str
		}
		rv := reflect.New(v.typ).Elem()
		rv.SetString(v.str)
		return rv.Interface()
	case KindInt, KindUint, KindEnum:
		return v.number(v.typ).Interface()
	case KindRef:
		return v.ref
	default:
		panic("value: unknown kind " + v.kind.String())
	}
}

// number 把数字负载写入一个typ类型的新值中, typ必须是整数类型, 调用者负责检查溢出
func (v Value) number(typ reflect.Type) reflect.Value {
	rv := reflect.New(typ).Elem()
	if isSigned(typ) {
		rv.SetInt(int64(v.num))
		return rv
	}
	rv.SetUint(v.num)
	return rv
}

func (v Value) String() string {
	switch v.kind {
	case KindInvalid:
		return "<invalid>"
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(int64(v.num), 10)
	case KindUint:
		return strconv.FormatUint(v.num, 10)
	case KindEnum, KindRef:
		if v.kind == KindRef && v.ref == nil {
			return "<nil>"
		}
		return fmt.Sprint(v.Interface())
	default:
		return "kind(" + strconv.Itoa(int(v.kind)) + ")"
	}
}

// Equal 标签, 类型与负载都相同时两个值相等, Ref使用==比较
func Equal(a, b Value) bool {
	if a.kind != b.kind || a.typ != b.typ {
		return false
	}
	switch a.kind {
	case KindInvalid:
		return true
	case KindString:
		return a.str == b.str
	case KindInt, KindUint, KindEnum:
		return a.num == b.num
	case KindRef:
		if a.typ != nil && !a.typ.Comparable() {
			return false
		}
		return a.ref == b.ref
	default:
		return false
	}
}

func isSigned(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}
