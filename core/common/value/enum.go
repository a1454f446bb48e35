package value

import (
	"reflect"

	"github.com/nyan233/littlescope/core/container"
)

// 已声明的枚举类型, 由registry在注册枚举定义时写入, 只增不删
var enumTypes = container.NewRCUMap[reflect.Type, struct{}]()

// DeclareEnum 声明typ是一个枚举类型, 之后Of/FromReflect会为该类型的值打上KindEnum标签
// typ必须是整数类型
func DeclareEnum(typ reflect.Type) bool {
	if typ == nil || !(isSigned(typ) || isUnsigned(typ)) {
		return false
	}
	enumTypes.StoreIfAbsent(typ, struct{}{})
	return true
}

func IsEnum(typ reflect.Type) bool {
	if typ == nil {
		return false
	}
	_, ok := enumTypes.LoadOk(typ)
	return ok
}
