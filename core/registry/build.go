package registry

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/nyan233/littlescope/core/common/errorhandler"
	"github.com/nyan233/littlescope/core/common/metadata"
	"github.com/nyan233/littlescope/core/common/value"
	reflect2 "github.com/nyan233/littlescope/internal/reflect"
)

// build 根据定义生成描述符, 只包含直接在该类型上声明的成员, 成员的顺序与定义中的顺序一致
// 同一个定义构建多次得到的描述符在结构上是相等的
func (r *Registry) build(def *Definition) (*metadata.TypeDescriptor, error) {
	name := def.typeName()
	typ := def.Type
	if typ.Name() == "" {
		return nil, r.invalid(name, "type must be a named type", typ.String())
	}
	if def.Class && typ.Kind() != reflect.Struct {
		return nil, r.invalid(name, "class must be a struct type", typ.String())
	}
	if def.Base == name {
		return nil, r.invalid(name, "type cannot be its own base")
	}
	td := &metadata.TypeDescriptor{
		Name:    name,
		PkgPath: typ.PkgPath(),
		Type:    typ,
		Class:   def.Class,
		Base:    def.Base,
	}
	td.ID = uuid.NewSHA1(r.config.Load().Namespace, []byte(td.FullName()))
	for i := range def.Constructors {
		ctor, err := r.buildConstructor(td, &def.Constructors[i])
		if err != nil {
			return nil, err
		}
		for _, exist := range td.Constructors {
			if metadata.SameSignature(exist.Signature(), ctor.Signature()) {
				return nil, r.invalid(name, "duplicate constructor signature", ctor.String())
			}
		}
		td.Constructors = append(td.Constructors, ctor)
	}
	for i := range def.Fields {
		field, err := r.buildField(td, &def.Fields[i])
		if err != nil {
			return nil, err
		}
		if _, ok := td.Field(field.Name); ok {
			return nil, r.invalid(name, "duplicate field", field.Name)
		}
		td.Fields = append(td.Fields, field)
	}
	for i := range def.Methods {
		method, err := r.buildMethod(td, &def.Methods[i])
		if err != nil {
			return nil, err
		}
		if _, ok := td.Method(method.Name, method.Signature()...); ok {
			return nil, r.invalid(name, "duplicate method signature", method.Name)
		}
		td.Methods = append(td.Methods, method)
	}
	for i := range def.Enums {
		enum, err := r.buildEnum(td, &def.Enums[i])
		if err != nil {
			return nil, err
		}
		td.Enums = append(td.Enums, enum)
	}
	return td, nil
}

func (r *Registry) buildConstructor(td *metadata.TypeDescriptor, def *ConstructorDef) (*metadata.ConstructorDescriptor, error) {
	if !def.Visibility.Valid() {
		return nil, r.invalid(td.Name, "constructor visibility is not declared")
	}
	fn := reflect.ValueOf(def.Func)
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, r.invalid(td.Name, "constructor func is not a function")
	}
	if fn.Type().IsVariadic() {
		return nil, r.invalid(td.Name, "variadic constructor is not supported", fn.Type().String())
	}
	outs, hasErr := reflect2.FuncOutputTypeList(fn.Type())
	if len(outs) != 1 || (outs[0] != reflect.PointerTo(td.Type) && outs[0] != td.Type) {
		return nil, r.invalid(td.Name, "constructor must return the constructed type", fn.Type().String())
	}
	params, err := r.buildParams(td.Name, ".ctor", reflect2.FuncInputTypeList(fn.Type(), 0), def.Params)
	if err != nil {
		return nil, err
	}
	return &metadata.ConstructorDescriptor{
		Owner:      td.Name,
		Visibility: def.Visibility,
		Params:     params,
		Func:       fn,
		ReturnsErr: hasErr,
	}, nil
}

func (r *Registry) buildField(td *metadata.TypeDescriptor, def *FieldDef) (*metadata.FieldDescriptor, error) {
	if def.Name == "" {
		return nil, r.invalid(td.Name, "field name is empty")
	}
	if !def.Visibility.Valid() {
		return nil, r.invalid(td.Name, "field visibility is not declared", def.Name)
	}
	fd := &metadata.FieldDescriptor{
		Owner:      td.Name,
		Name:       def.Name,
		Visibility: def.Visibility,
		Static:     def.Static,
	}
	if def.Static {
		ptr := reflect.ValueOf(def.Var)
		if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
			return nil, r.invalid(td.Name, "static field must point to a variable", def.Name)
		}
		fd.Var = ptr.Elem()
		fd.Type = ptr.Type().Elem()
		return fd, nil
	}
	if !td.Class {
		return nil, r.invalid(td.Name, "instance field on a non-class type", def.Name)
	}
	goName := def.Field
	if goName == "" {
		goName = def.Name
	}
	sf, ok := td.Type.FieldByName(goName)
	// 嵌入类型中的字段是继承来的, 不属于该类型自己声明的成员
	if !ok || len(sf.Index) != 1 {
		return nil, r.invalid(td.Name, "no declared struct field", goName)
	}
	fd.Type = sf.Type
	fd.Index = sf.Index
	fd.Receiver = reflect.PointerTo(td.Type)
	return fd, nil
}

func (r *Registry) buildMethod(td *metadata.TypeDescriptor, def *MethodDef) (*metadata.MethodDescriptor, error) {
	if def.Name == "" {
		return nil, r.invalid(td.Name, "method name is empty")
	}
	if !def.Visibility.Valid() {
		return nil, r.invalid(td.Name, "method visibility is not declared", def.Name)
	}
	fn := reflect.ValueOf(def.Func)
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, r.invalid(td.Name, "method func is not a function", def.Name)
	}
	if fn.Type().IsVariadic() {
		return nil, r.invalid(td.Name, "variadic method is not supported", def.Name)
	}
	md := &metadata.MethodDescriptor{
		Owner:      td.Name,
		Name:       def.Name,
		Visibility: def.Visibility,
		Static:     def.Static,
		Generic:    def.Generic,
		Func:       fn,
	}
	start := 0
	if !def.Static {
		if fn.Type().NumIn() == 0 {
			return nil, r.invalid(td.Name, "instance method has no receiver", def.Name)
		}
		recv := fn.Type().In(0)
		if recv != td.Type && recv != reflect.PointerTo(td.Type) {
			return nil, r.invalid(td.Name, "receiver type mismatch", def.Name, recv.String())
		}
		md.Receiver = recv
		start = 1
	}
	outs, hasErr := reflect2.FuncOutputTypeList(fn.Type())
	if len(outs) > 1 {
		return nil, r.invalid(td.Name, "method returns more than one value", def.Name)
	}
	if len(outs) == 1 {
		md.Return = outs[0]
	}
	md.ReturnsErr = hasErr
	params, err := r.buildParams(td.Name, def.Name, reflect2.FuncInputTypeList(fn.Type(), start), def.Params)
	if err != nil {
		return nil, err
	}
	md.Params = params
	return md, nil
}

func (r *Registry) buildParams(owner, member string, types []reflect.Type, defs []ParamDef) ([]metadata.Parameter, error) {
	if len(types) != len(defs) {
		return nil, r.invalid(owner, "declared parameters do not match the function",
			member, fmt.Sprintf("declared %d, func has %d", len(defs), len(types)))
	}
	params := make([]metadata.Parameter, 0, len(defs))
	for i, def := range defs {
		if def.Default.IsValid() && !value.Assignable(def.Default, types[i]) {
			return nil, r.invalid(owner, "default value does not fit the parameter", member, def.Name)
		}
		// 有默认值的参数之后不能再出现必须的参数
		if i > 0 && params[i-1].HasDefault() && !def.Default.IsValid() {
			return nil, r.invalid(owner, "required parameter after optional parameter", member, def.Name)
		}
		params = append(params, metadata.Parameter{
			Position: i,
			Name:     def.Name,
			Type:     types[i],
			Default:  def.Default,
		})
	}
	return params, nil
}

func (r *Registry) buildEnum(td *metadata.TypeDescriptor, def *EnumDef) (*metadata.EnumDescriptor, error) {
	typ := def.Type
	if typ == nil {
		typ = td.Type
	}
	if !value.DeclareEnum(typ) {
		return nil, r.invalid(td.Name, "enum must be an integer type", typ.String())
	}
	if !def.Visibility.Valid() {
		return nil, r.invalid(td.Name, "enum visibility is not declared", typ.Name())
	}
	if len(def.Names) != len(def.Ordinals) {
		return nil, r.invalid(td.Name, "enum names and members do not match", typ.Name())
	}
	seen := make(map[string]bool, len(def.Names))
	for _, n := range def.Names {
		if n == "" || seen[n] {
			return nil, r.invalid(td.Name, "enum member name is empty or duplicated", typ.Name(), n)
		}
		seen[n] = true
	}
	return &metadata.EnumDescriptor{
		Owner:      td.Name,
		Type:       typ,
		Visibility: def.Visibility,
		Names:      append([]string(nil), def.Names...),
		Ordinals:   append([]int64(nil), def.Ordinals...),
	}, nil
}

func (r *Registry) invalid(owner string, reason string, mores ...interface{}) error {
	return r.eHandle.LWarpErrorDesc(errorhandler.ErrInvalidDefinition, append([]interface{}{owner, reason}, mores...)...)
}
