package metadata

// BindingFlags 查询成员时使用的过滤条件
// Static/Instance与Public/NonPublic都是包含集合: 两个维度各自至少要有一个标志, 否则结果为空
type BindingFlags uint8

const (
	BindDeclaredOnly BindingFlags = 1 << iota
	BindStatic
	BindInstance
	BindPublic
	BindNonPublic

	BindAll = BindDeclaredOnly | BindStatic | BindInstance | BindPublic | BindNonPublic
)

func (f BindingFlags) Has(flag BindingFlags) bool {
	return f&flag == flag
}

// BaseResolver 根据名字找到基类型的描述符, 用于遍历继承链
type BaseResolver func(name string) (*TypeDescriptor, bool)

// Query 按照flags过滤td的成员
// 顺序: 构造器, 字段, 方法, 嵌套枚举, 每一类内部保持声明顺序
// 没有BindDeclaredOnly时会沿着继承链追加基类型中非private的实例成员, 构造器与静态成员不会被继承
func Query(td *TypeDescriptor, flags BindingFlags, base BaseResolver) []Member {
	if td == nil || flags&(BindStatic|BindInstance) == 0 || flags&(BindPublic|BindNonPublic) == 0 {
		return nil
	}
	result := make([]Member, 0, len(td.Constructors)+len(td.Fields)+len(td.Methods)+len(td.Enums))
	result = appendMembers(result, td, flags, false)
	if flags.Has(BindDeclaredOnly) || base == nil || !flags.Has(BindInstance) {
		return result
	}
	seen := map[string]bool{td.Name: true}
	for name := td.Base; name != "" && !seen[name]; {
		seen[name] = true
		baseTd, ok := base(name)
		if !ok {
			break
		}
		result = appendMembers(result, baseTd, flags, true)
		name = baseTd.Base
	}
	return result
}

func appendMembers(result []Member, td *TypeDescriptor, flags BindingFlags, inherited bool) []Member {
	accept := func(m Member) bool {
		if inherited && (m.IsStatic() || m.MemberVisibility() == Private || m.MemberKind() == MemberConstructor) {
			return false
		}
		return Match(m, flags)
	}
	for _, c := range td.Constructors {
		if accept(c) {
			result = append(result, c)
		}
	}
	for _, f := range td.Fields {
		if accept(f) {
			result = append(result, f)
		}
	}
	for _, m := range td.Methods {
		if accept(m) {
			result = append(result, m)
		}
	}
	for _, e := range td.Enums {
		if accept(e) {
			result = append(result, e)
		}
	}
	return result
}

// Match 判断单个成员是否满足flags中的绑定与可见性条件, 不考虑BindDeclaredOnly
func Match(m Member, flags BindingFlags) bool {
	if m.IsStatic() {
		if !flags.Has(BindStatic) {
			return false
		}
	} else if !flags.Has(BindInstance) {
		return false
	}
	if m.MemberVisibility() == Public {
		return flags.Has(BindPublic)
	}
	return flags.Has(BindNonPublic)
}

// Fields 只保留字段
func Fields(members []Member) []*FieldDescriptor {
	var fields []*FieldDescriptor
	for _, m := range members {
		if f, ok := m.(*FieldDescriptor); ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// Methods 只保留方法
func Methods(members []Member) []*MethodDescriptor {
	var methods []*MethodDescriptor
	for _, m := range members {
		if md, ok := m.(*MethodDescriptor); ok {
			methods = append(methods, md)
		}
	}
	return methods
}

// Constructors 只保留构造器
func Constructors(members []Member) []*ConstructorDescriptor {
	var ctors []*ConstructorDescriptor
	for _, m := range members {
		if c, ok := m.(*ConstructorDescriptor); ok {
			ctors = append(ctors, c)
		}
	}
	return ctors
}
