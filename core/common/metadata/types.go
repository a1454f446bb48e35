package metadata

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/uuid"
	"github.com/nyan233/littlescope/core/common/value"
)

// 描述符在registry构建完成之后就是不可变的, 调用者不应该修改其中的任何字段

// Member 查询返回的成员, 具体类型为*ConstructorDescriptor/*FieldDescriptor/*MethodDescriptor/*EnumDescriptor
type Member interface {
	MemberName() string
	MemberKind() MemberKind
	MemberVisibility() Visibility
	IsStatic() bool
	// DeclaringType 声明该成员的类型的名字
	DeclaringType() string
}

type Parameter struct {
	Position int
	Name     string
	Type     reflect.Type
	// 零值表示没有默认值
	Default value.Value
}

func (p Parameter) HasDefault() bool {
	return p.Default.IsValid()
}

func (p Parameter) String() string {
	s := fmt.Sprintf("%d %s %s", p.Position, typeName(p.Type), p.Name)
	if p.HasDefault() {
		s += " = " + p.Default.String()
	}
	return s
}

type ConstructorDescriptor struct {
	Owner      string
	Visibility Visibility
	Params     []Parameter
	// func(args...) *T 或者 func(args...) (*T, error)
	Func       reflect.Value
	ReturnsErr bool
}

func (c *ConstructorDescriptor) MemberName() string           { return ".ctor" }
func (c *ConstructorDescriptor) MemberKind() MemberKind       { return MemberConstructor }
func (c *ConstructorDescriptor) MemberVisibility() Visibility { return c.Visibility }
func (c *ConstructorDescriptor) IsStatic() bool               { return false }
func (c *ConstructorDescriptor) DeclaringType() string        { return c.Owner }

// Signature 构造器的身份就是它的参数类型列表
func (c *ConstructorDescriptor) Signature() []reflect.Type {
	return signature(c.Params)
}

func (c *ConstructorDescriptor) String() string {
	parts := make([]string, 0, len(c.Params))
	for _, p := range c.Params {
		parts = append(parts, p.Type.String()+" "+p.Name)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

type FieldDescriptor struct {
	Owner      string
	Name       string
	Type       reflect.Type
	Visibility Visibility
	Static     bool
	// 实例字段: 接收器类型(*T)与字段在T中的索引路径
	Receiver reflect.Type
	Index    []int
	// 静态字段: 指向包级变量的指针
	Var reflect.Value
}

func (f *FieldDescriptor) MemberName() string           { return f.Name }
func (f *FieldDescriptor) MemberKind() MemberKind       { return MemberField }
func (f *FieldDescriptor) MemberVisibility() Visibility { return f.Visibility }
func (f *FieldDescriptor) IsStatic() bool               { return f.Static }
func (f *FieldDescriptor) DeclaringType() string        { return f.Owner }

type MethodDescriptor struct {
	Owner      string
	Name       string
	Visibility Visibility
	Static     bool
	// 只是一个标记, 泛型方法不能被调用
	Generic bool
	Params  []Parameter
	// nil表示没有返回值
	Return reflect.Type
	// 实例方法的第一个参数是接收器
	Func       reflect.Value
	Receiver   reflect.Type
	ReturnsErr bool
}

func (m *MethodDescriptor) MemberName() string           { return m.Name }
func (m *MethodDescriptor) MemberKind() MemberKind       { return MemberMethod }
func (m *MethodDescriptor) MemberVisibility() Visibility { return m.Visibility }
func (m *MethodDescriptor) IsStatic() bool               { return m.Static }
func (m *MethodDescriptor) DeclaringType() string        { return m.Owner }

func (m *MethodDescriptor) Signature() []reflect.Type {
	return signature(m.Params)
}

// ReturnTypeName 没有返回值时为void
func (m *MethodDescriptor) ReturnTypeName() string {
	if m.Return == nil {
		return "void"
	}
	return m.Return.String()
}

// EnumDescriptor 枚举类型的成员名字, 按声明顺序而不是值的顺序排列
type EnumDescriptor struct {
	Owner      string
	Type       reflect.Type
	Visibility Visibility
	Names      []string
	// 与Names一一对应
	Ordinals []int64
}

func (e *EnumDescriptor) MemberName() string           { return e.Type.Name() }
func (e *EnumDescriptor) MemberKind() MemberKind       { return MemberEnum }
func (e *EnumDescriptor) MemberVisibility() Visibility { return e.Visibility }
func (e *EnumDescriptor) IsStatic() bool               { return true }
func (e *EnumDescriptor) DeclaringType() string        { return e.Owner }

// NameOf 某个值自己的名字, 不是已声明的成员时返回false
func (e *EnumDescriptor) NameOf(ordinal int64) (string, bool) {
	for i, o := range e.Ordinals {
		if o == ordinal {
			return e.Names[i], true
		}
	}
	return "", false
}

type TypeDescriptor struct {
	Name    string
	PkgPath string
	Type    reflect.Type
	Class   bool
	// 基类型的名字, 只用于查找, 基类型的描述符属于registry
	Base string
	ID   uuid.UUID

	Constructors []*ConstructorDescriptor
	Fields       []*FieldDescriptor
	Methods      []*MethodDescriptor
	Enums        []*EnumDescriptor
}

func (t *TypeDescriptor) FullName() string {
	if t.PkgPath == "" {
		return t.Name
	}
	return t.PkgPath + "." + t.Name
}

func (t *TypeDescriptor) Field(name string) (*FieldDescriptor, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Method 按名字与参数类型查找, sig为nil时返回第一个同名的方法
func (t *TypeDescriptor) Method(name string, sig ...reflect.Type) (*MethodDescriptor, bool) {
	for _, m := range t.Methods {
		if m.Name != name {
			continue
		}
		if sig == nil || sameSignature(m.Signature(), sig) {
			return m, true
		}
	}
	return nil, false
}

// Enum 当该类型本身是一个枚举时返回它自己的成员列表
func (t *TypeDescriptor) Enum() (*EnumDescriptor, bool) {
	for _, e := range t.Enums {
		if e.Type == t.Type {
			return e, true
		}
	}
	return nil, false
}

func signature(params []Parameter) []reflect.Type {
	sig := make([]reflect.Type, 0, len(params))
	for _, p := range params {
		sig = append(sig, p.Type)
	}
	return sig
}

func sameSignature(a, b []reflect.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// SameSignature 两个参数类型列表按顺序完全相同
func SameSignature(a, b []reflect.Type) bool {
	return sameSignature(a, b)
}

func typeName(typ reflect.Type) string {
	if typ == nil {
		return "<nil>"
	}
	if typ.Name() != "" {
		return typ.Name()
	}
	return typ.String()
}
