package reflect

import (
	"reflect"
	"unsafe"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Writable 返回一个可读写的v, 未导出的字段通过reflect.Value只能读不能写
// v必须是可寻址的, 比如通过指针Elem()拿到的结构体字段
func Writable(v reflect.Value) reflect.Value {
	if v.CanSet() {
		return v
	}
	return reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr())).Elem()
}

// Receiver 在instance中找到类型为want的接收器
// want是*T时instance本身是*T直接返回, 否则沿着匿名嵌入的字段广度优先地寻找T或者*T
//
//	Example
//	type Base struct{}; type Derived struct{ Base }
//	Receiver(reflect.ValueOf(&Derived{}), reflect.TypeOf(&Base{})) -> &derived.Base
func Receiver(instance reflect.Value, want reflect.Type) (reflect.Value, bool) {
	instance = RealType(instance)
	if !instance.IsValid() || want == nil {
		return reflect.Value{}, false
	}
	if instance.Type() == want {
		if instance.Kind() == reflect.Ptr && instance.IsNil() {
			return reflect.Value{}, false
		}
		return instance, true
	}
	if instance.Kind() == reflect.Ptr && !instance.IsNil() && instance.Elem().Type() == want {
		return instance.Elem(), true
	}
	if instance.Kind() != reflect.Ptr || instance.IsNil() || instance.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	queue := []reflect.Value{instance.Elem()}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		typ := cur.Type()
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			if !field.Anonymous {
				continue
			}
			fv := cur.Field(i)
			switch {
			case field.Type == want:
				if want.Kind() == reflect.Ptr && fv.IsNil() {
					return reflect.Value{}, false
				}
				return Writable(fv), true
			case want.Kind() == reflect.Ptr && field.Type == want.Elem():
				return Writable(fv).Addr(), true
			case field.Type.Kind() == reflect.Struct:
				queue = append(queue, fv)
			case field.Type.Kind() == reflect.Ptr && field.Type.Elem().Kind() == reflect.Struct && !fv.IsNil():
				queue = append(queue, fv.Elem())
			}
		}
	}
	return reflect.Value{}, false
}

// RealType 剥去所有的interface包装
func RealType(value reflect.Value) reflect.Value {
	if value.Kind() != reflect.Interface {
		return value
	}
	if value.IsNil() {
		return reflect.Value{}
	}
	return RealType(reflect.ValueOf(value.Interface()))
}

// FuncInputTypeList 返回函数的输入参数类型列表, start用于跳过接收器
func FuncInputTypeList(typ reflect.Type, start int) []reflect.Type {
	if typ.Kind() != reflect.Func || start >= typ.NumIn() {
		return nil
	}
	result := make([]reflect.Type, 0, typ.NumIn()-start)
	for i := start; i < typ.NumIn(); i++ {
		result = append(result, typ.In(i))
	}
	return result
}

// FuncOutputTypeList 返回函数的返回值类型列表, 最后一个error返回值会被单独报告
func FuncOutputTypeList(typ reflect.Type) (results []reflect.Type, hasErr bool) {
	if typ.Kind() != reflect.Func {
		return nil, false
	}
	n := typ.NumOut()
	if n > 0 && typ.Out(n-1) == errorType {
		hasErr = true
		n--
	}
	for i := 0; i < n; i++ {
		results = append(results, typ.Out(i))
	}
	return results, hasErr
}

// InterDataPointer 获得val对应eface-data指针的值, 可以用来判断两个接口是否引用同一个对象
func InterDataPointer(val interface{}) unsafe.Pointer {
	return (*[2]unsafe.Pointer)(unsafe.Pointer(&val))[1]
}
