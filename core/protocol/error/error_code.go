package error

// 定义littlescope内部会使用到的错误码

type Code int

func (c Code) String() string {
	return mappingStr[c]
}

func (c Code) MarshalJSON() ([]byte, error) {
	return []byte("\"" + c.String() + "\""), nil
}

const (
	Success                      = 200  // 成功返回
	Unknown                      = 300  // 无法识别的错误
	TypeNotFound                 = 1404 // 类型定义无法被解析
	ConstructorNotFound          = 2404 // 没有与签名匹配的构造器
	MissingInstance              = 1410 // 调用实例方法时没有提供实例
	ArgumentCountMismatch        = 1040 // 参数个数与声明的参数不符
	ArgumentTypeMismatch         = 1041 // 参数的类型不能赋值给声明的参数类型
	IncompatibleAssignment       = 1042 // 字段赋值时无法转换到字段的类型
	UnsupportedBinding           = 1501 // 只有无参数的实例方法才能被绑定
	UnsupportedGenericInvocation = 1502 // 不支持泛型方法的调用
	InvocationTargetFailure      = 500  // 被调用的构造器/方法本身失败了
	InvalidDefinition            = 1060 // 类型定义本身不合法(重复的成员, 未声明的可见性等)
)

var mappingStr = map[Code]string{
	Success:                      "Success",
	Unknown:                      "Unknown",
	TypeNotFound:                 "TypeNotFound",
	ConstructorNotFound:          "ConstructorNotFound",
	MissingInstance:              "MissingInstance",
	ArgumentCountMismatch:        "ArgumentCountMismatch",
	ArgumentTypeMismatch:         "ArgumentTypeMismatch",
	IncompatibleAssignment:       "IncompatibleAssignment",
	UnsupportedBinding:           "UnsupportedBinding",
	UnsupportedGenericInvocation: "UnsupportedGenericInvocation",
	InvocationTargetFailure:      "InvocationTargetFailure",
	InvalidDefinition:            "InvalidDefinition",
}
