package metadata

import (
	"reflect"
	"testing"

	"github.com/nyan233/littlescope/core/common/value"
	"github.com/stretchr/testify/assert"
)

func newTestDescriptors() (base, derived *TypeDescriptor) {
	uint64Type := reflect.TypeOf(uint64(0))
	stringType := reflect.TypeOf("")
	base = &TypeDescriptor{
		Name:  "Entity",
		Class: true,
		Constructors: []*ConstructorDescriptor{
			{Owner: "Entity", Visibility: Public},
		},
		Fields: []*FieldDescriptor{
			{Owner: "Entity", Name: "Id", Type: uint64Type, Visibility: Protected},
			{Owner: "Entity", Name: "secret", Type: stringType, Visibility: Private},
			{Owner: "Entity", Name: "Created", Type: uint64Type, Visibility: Public, Static: true},
		},
		Methods: []*MethodDescriptor{
			{Owner: "Entity", Name: "Touch", Visibility: Public},
		},
	}
	derived = &TypeDescriptor{
		Name:  "Factory",
		Class: true,
		Base:  "Entity",
		Constructors: []*ConstructorDescriptor{
			{Owner: "Factory", Visibility: Public, Params: []Parameter{
				{Position: 0, Name: "name", Type: stringType},
				{Position: 1, Name: "employeeCount", Type: uint64Type},
			}},
		},
		Fields: []*FieldDescriptor{
			{Owner: "Factory", Name: "Name", Type: stringType, Visibility: Public},
			{Owner: "Factory", Name: "FactoriesCount", Type: uint64Type, Visibility: Protected, Static: true},
			{Owner: "Factory", Name: "id", Type: uint64Type, Visibility: Private},
		},
		Methods: []*MethodDescriptor{
			{Owner: "Factory", Name: "GetTotal", Visibility: Public, Static: true, Return: uint64Type},
			{Owner: "Factory", Name: "Rename", Visibility: Internal, Params: []Parameter{
				{Position: 0, Name: "name", Type: stringType, Default: value.String("unnamed")},
			}},
		},
	}
	return base, derived
}

func names(members []Member) []string {
	result := make([]string, 0, len(members))
	for _, m := range members {
		result = append(result, m.DeclaringType()+"."+m.MemberName())
	}
	return result
}

func TestQuery(t *testing.T) {
	base, derived := newTestDescriptors()
	resolver := func(name string) (*TypeDescriptor, bool) {
		if name == base.Name {
			return base, true
		}
		return nil, false
	}
	all := Query(derived, BindAll, resolver)
	assert.Equal(t, []string{
		"Factory..ctor", "Factory.Name", "Factory.FactoriesCount", "Factory.id", "Factory.GetTotal", "Factory.Rename",
	}, names(all))
	// 幂等
	assert.Equal(t, all, Query(derived, BindAll, resolver))

	assert.Equal(t, []string{"Factory.FactoriesCount", "Factory.GetTotal"},
		names(Query(derived, BindDeclaredOnly|BindStatic|BindPublic|BindNonPublic, resolver)))
	assert.Equal(t, []string{"Factory..ctor", "Factory.Name"},
		names(Query(derived, BindDeclaredOnly|BindInstance|BindPublic, resolver)))
	assert.Equal(t, []string{"Factory.id", "Factory.Rename"},
		names(Query(derived, BindDeclaredOnly|BindInstance|BindNonPublic, resolver)))

	// 空的过滤条件得到空的结果
	assert.Empty(t, Query(derived, 0, resolver))
	assert.Empty(t, Query(derived, BindDeclaredOnly|BindStatic, resolver))
	assert.Empty(t, Query(derived, BindPublic|BindNonPublic, resolver))
	assert.Empty(t, Query(nil, BindAll, resolver))

	// 继承: 基类型非private的实例成员, 不包括构造器和静态成员
	inherited := Query(derived, BindInstance|BindStatic|BindPublic|BindNonPublic, resolver)
	assert.Equal(t, []string{
		"Factory..ctor", "Factory.Name", "Factory.FactoriesCount", "Factory.id", "Factory.GetTotal", "Factory.Rename",
		"Entity.Id", "Entity.Touch",
	}, names(inherited))
}

func TestQueryBaseCycle(t *testing.T) {
	a := &TypeDescriptor{Name: "A", Base: "B", Fields: []*FieldDescriptor{{Owner: "A", Name: "a", Visibility: Public}}}
	b := &TypeDescriptor{Name: "B", Base: "A", Fields: []*FieldDescriptor{{Owner: "B", Name: "b", Visibility: Public}}}
	resolver := func(name string) (*TypeDescriptor, bool) {
		switch name {
		case "A":
			return a, true
		case "B":
			return b, true
		}
		return nil, false
	}
	assert.Equal(t, []string{"A.a", "B.b"}, names(Query(a, BindInstance|BindPublic, resolver)))
}

func TestFilterHelpers(t *testing.T) {
	_, derived := newTestDescriptors()
	all := Query(derived, BindAll, nil)
	assert.Len(t, Fields(all), 3)
	assert.Len(t, Methods(all), 2)
	ctors := Constructors(all)
	assert.Len(t, ctors, 1)
	assert.Equal(t, "(string name, uint64 employeeCount)", ctors[0].String())
	assert.Equal(t, []reflect.Type{reflect.TypeOf(""), reflect.TypeOf(uint64(0))}, ctors[0].Signature())

	f, ok := derived.Field("id")
	assert.True(t, ok)
	assert.Equal(t, Private, f.Visibility)
	_, ok = derived.Field("ID")
	assert.False(t, ok)

	m, ok := derived.Method("Rename", reflect.TypeOf(""))
	assert.True(t, ok)
	assert.Equal(t, "void", m.ReturnTypeName())
	assert.Equal(t, "0 string name = unnamed", m.Params[0].String())
	_, ok = derived.Method("Rename", reflect.TypeOf(uint64(0)))
	assert.False(t, ok)
	m, ok = derived.Method("GetTotal")
	assert.True(t, ok)
	assert.Equal(t, "uint64", m.ReturnTypeName())
}

func TestVisibilityAndEnum(t *testing.T) {
	assert.False(t, Visibility(0).Valid())
	assert.True(t, Internal.Valid())
	assert.Equal(t, "protected", Protected.String())
	assert.Equal(t, "Field", MemberField.String())

	e := &EnumDescriptor{
		Names:    []string{"Unknown", "Chemical", "Automotive", "Electronics"},
		Ordinals: []int64{0, 1, 2, 3},
	}
	name, ok := e.NameOf(3)
	assert.True(t, ok)
	assert.Equal(t, "Electronics", name)
	_, ok = e.NameOf(9)
	assert.False(t, ok)
}
