package registry

import (
	"reflect"

	"github.com/nyan233/littlescope/core/common/metadata"
	"github.com/nyan233/littlescope/core/common/value"
	"golang.org/x/exp/constraints"
)

// Definition 一个类型编译期的形状, 由类型的作者提供
// Go的反射看不到构造器, 参数名, 默认值和protected/internal这样的可见性, 所以它们需要被显式地声明
//
//	Example
//	&Definition{
//		Type:  TypeOf[Factory](),
//		Class: true,
//		Constructors: []ConstructorDef{{Visibility: metadata.Public, Params: Params("name"), Func: NewFactory}},
//		Fields:       []FieldDef{{Name: "EmployeeCount", Visibility: metadata.Public}},
//		Methods:      []MethodDef{{Name: "DisplayStats", Visibility: metadata.Public, Func: (*Factory).DisplayStats}},
//	}
type Definition struct {
	// 类型的名字, 为空时使用Go类型的名字
	Name string
	// 被描述的Go命名类型, 类是结构体, 枚举是整数类型
	Type  reflect.Type
	Class bool
	// 基类型的名字, 只是一个弱引用, 在查询时才会被解析
	Base string

	Constructors []ConstructorDef
	Fields       []FieldDef
	Methods      []MethodDef
	Enums        []EnumDef
}

type ParamDef struct {
	Name string
	// 零值表示没有默认值
	Default value.Value
}

type ConstructorDef struct {
	Visibility metadata.Visibility
	Params     []ParamDef
	// func(args...) *T 或者 func(args...) (*T, error)
	Func interface{}
}

type FieldDef struct {
	Name string
	// Go结构体中的字段名, 为空时与Name相同, 未导出的字段也可以
	Field      string
	Visibility metadata.Visibility
	Static     bool
	// 静态字段必须提供: 指向包级变量的指针
	Var interface{}
}

type MethodDef struct {
	Name       string
	Visibility metadata.Visibility
	Static     bool
	Generic    bool
	Params     []ParamDef
	// 实例方法的第一个参数是接收器, 一般直接使用方法表达式: (*T).Method
	Func interface{}
}

type EnumDef struct {
	// 为空时使用Definition.Type
	Type       reflect.Type
	Visibility metadata.Visibility
	Names      []string
	Ordinals   []int64
}

// TypeOf 返回T本身的reflect.Type, T为接口时也一样
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Params 只有名字没有默认值的参数列表
func Params(names ...string) []ParamDef {
	params := make([]ParamDef, 0, len(names))
	for _, name := range names {
		params = append(params, ParamDef{Name: name})
	}
	return params
}

// Enum 按照声明顺序描述一个枚举类型的成员, names与members一一对应
func Enum[T constraints.Integer](vis metadata.Visibility, names []string, members ...T) EnumDef {
	ordinals := make([]int64, 0, len(members))
	for _, m := range members {
		ordinals = append(ordinals, int64(m))
	}
	return EnumDef{
		Type:       TypeOf[T](),
		Visibility: vis,
		Names:      names,
		Ordinals:   ordinals,
	}
}

func (d *Definition) typeName() string {
	if d.Name != "" {
		return d.Name
	}
	if d.Type != nil {
		return d.Type.Name()
	}
	return ""
}
