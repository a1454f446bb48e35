package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/nyan233/littlescope/core/common/errorhandler"
	"github.com/nyan233/littlescope/core/common/logger"
	"github.com/nyan233/littlescope/core/common/metadata"
	"github.com/nyan233/littlescope/core/common/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testKind uint8

const (
	kindUnknown testKind = iota
	kindChemical
	kindAutomotive
	kindElectronics
)

type testEntity struct {
	Id uint64
}

func (e *testEntity) Touch() {}

type testPlant struct {
	testEntity
	Name          string
	EmployeeCount uint64
	kind          testKind
}

var testPlantCount uint32

func newTestPlant(name string, employeeCount uint64, kind testKind) *testPlant {
	testPlantCount++
	return &testPlant{Name: name, EmployeeCount: employeeCount, kind: kind}
}

func (p *testPlant) Kind() testKind { return p.kind }

func (p *testPlant) rename(name string, suffix string) string {
	p.Name = name + suffix
	return p.Name
}

func totalPlants() uint32 { return testPlantCount }

func kindDefinition() *Definition {
	return &Definition{
		Name: "TestKind",
		Type: TypeOf[testKind](),
		Enums: []EnumDef{
			Enum(metadata.Internal, []string{"Unknown", "Chemical", "Automotive", "Electronics"},
				kindUnknown, kindChemical, kindAutomotive, kindElectronics),
		},
	}
}

func entityDefinition() *Definition {
	return &Definition{
		Name:  "TestEntity",
		Type:  TypeOf[testEntity](),
		Class: true,
		Fields: []FieldDef{
			{Name: "Id", Visibility: metadata.Protected},
		},
		Methods: []MethodDef{
			{Name: "Touch", Visibility: metadata.Public, Func: (*testEntity).Touch},
		},
	}
}

func plantDefinition() *Definition {
	return &Definition{
		Name:  "TestPlant",
		Type:  TypeOf[testPlant](),
		Class: true,
		Base:  "TestEntity",
		Constructors: []ConstructorDef{
			{Visibility: metadata.Public, Params: Params("name", "employeeCount", "kind"), Func: newTestPlant},
		},
		Fields: []FieldDef{
			{Name: "Name", Visibility: metadata.Public},
			{Name: "EmployeeCount", Visibility: metadata.Public},
			{Name: "PlantsCount", Visibility: metadata.Protected, Static: true, Var: &testPlantCount},
			{Name: "Kind", Field: "kind", Visibility: metadata.Protected},
		},
		Methods: []MethodDef{
			{Name: "GetTotalPlantsCount", Visibility: metadata.Public, Static: true, Func: totalPlants},
			{Name: "GetKind", Visibility: metadata.Public, Func: (*testPlant).Kind},
			{Name: "Rename", Visibility: metadata.Private, Func: (*testPlant).rename, Params: []ParamDef{
				{Name: "name"},
				{Name: "suffix", Default: value.String(" Inc")},
			}},
		},
	}
}

func newTestRegistry(t *testing.T, opts ...Option) *Registry {
	r := New(append([]Option{WithOpenLogger(false)}, opts...)...)
	require.NoError(t, r.Define(kindDefinition(), entityDefinition(), plantDefinition()))
	return r
}

func TestBuild(t *testing.T) {
	r := newTestRegistry(t)
	td, err := r.Resolve("TestPlant", false)
	require.NoError(t, err)
	assert.True(t, td.Class)
	assert.Equal(t, "TestPlant", td.Name)
	assert.Equal(t, "TestEntity", td.Base)
	assert.Equal(t, uuid.NewSHA1(DefaultNamespace, []byte(td.FullName())), td.ID)
	assert.Equal(t, uuid.Version(5), td.ID.Version())

	require.Len(t, td.Constructors, 1)
	assert.Equal(t, []reflect.Type{reflect.TypeOf(""), reflect.TypeOf(uint64(0)), TypeOf[testKind]()},
		td.Constructors[0].Signature())
	assert.Equal(t, "kind", td.Constructors[0].Params[2].Name)

	var fieldNames []string
	for _, f := range td.Fields {
		fieldNames = append(fieldNames, f.Name)
	}
	// 继承来的Id不在其中
	assert.Equal(t, []string{"Name", "EmployeeCount", "PlantsCount", "Kind"}, fieldNames)
	kind, _ := td.Field("Kind")
	assert.Equal(t, TypeOf[testKind](), kind.Type)
	assert.Equal(t, metadata.Protected, kind.Visibility)
	count, _ := td.Field("PlantsCount")
	assert.True(t, count.Static)
	assert.Equal(t, reflect.TypeOf(uint32(0)), count.Type)

	rename, ok := td.Method("Rename")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(""), rename.Return)
	assert.True(t, rename.Params[1].HasDefault())
	assert.False(t, rename.Params[0].HasDefault())
	total, _ := td.Method("GetTotalPlantsCount")
	assert.True(t, total.Static)
	assert.Nil(t, total.Receiver)

	// 构建是幂等的, 并且只发布一个描述符
	again, err := r.Resolve("testplant", true)
	require.NoError(t, err)
	assert.Same(t, td, again)
	assert.Equal(t, int64(1), r.builds.Load())

	fresh := newTestRegistry(t)
	rebuilt, err := fresh.Resolve("TestPlant", false)
	require.NoError(t, err)
	assert.NotSame(t, td, rebuilt)
	assert.Equal(t, td.ID, rebuilt.ID)
	assert.Equal(t, names(r.Query(td, metadata.BindAll)), names(fresh.Query(rebuilt, metadata.BindAll)))
}

func names(members []metadata.Member) []string {
	result := make([]string, 0, len(members))
	for _, m := range members {
		result = append(result, m.MemberKind().String()+" "+m.MemberName())
	}
	return result
}

func TestQueryDeclaredOnly(t *testing.T) {
	r := newTestRegistry(t)
	td, err := r.Resolve("TestPlant", false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Constructor .ctor",
		"Field Name", "Field EmployeeCount", "Field PlantsCount", "Field Kind",
		"Method GetTotalPlantsCount", "Method GetKind", "Method Rename",
	}, names(r.Query(td, metadata.BindAll)))
	inherited := r.Query(td, metadata.BindInstance|metadata.BindPublic|metadata.BindNonPublic)
	assert.Equal(t, []string{
		"Constructor .ctor",
		"Field Name", "Field EmployeeCount", "Field Kind",
		"Method GetKind", "Method Rename",
		"Field Id", "Method Touch",
	}, names(inherited))
	assert.Empty(t, r.Query(td, 0))

	base, ok := r.Base(td)
	require.True(t, ok)
	assert.Equal(t, "TestEntity", base.Name)
	_, ok = r.Base(base)
	assert.False(t, ok)
}

func TestResolveErrors(t *testing.T) {
	r := newTestRegistry(t)
	_, err := r.Resolve("testplant", false)
	assert.True(t, errors.Is(err, errorhandler.ErrTypeNotFound))
	_, err = r.Resolve("Missing", true)
	assert.True(t, errors.Is(err, errorhandler.ErrTypeNotFound))
	_, err = r.Build(nil)
	assert.True(t, errors.Is(err, errorhandler.ErrTypeNotFound))
	_, err = r.TypeOf(nil)
	assert.True(t, errors.Is(err, errorhandler.ErrTypeNotFound))
	_, err = r.TypeOf(&struct{}{})
	assert.True(t, errors.Is(err, errorhandler.ErrTypeNotFound))

	td, err := r.TypeOf(newTestPlant("Intel", 1500, kindElectronics))
	require.NoError(t, err)
	assert.Equal(t, "TestPlant", td.Name)
}

func TestEnumNames(t *testing.T) {
	r := newTestRegistry(t)
	names, err := r.NamesOf(TypeOf[testKind]())
	require.NoError(t, err)
	assert.Equal(t, []string{"Unknown", "Chemical", "Automotive", "Electronics"}, names)
	// 返回的是副本
	names[0] = "changed"
	again, _ := r.NamesOf(TypeOf[testKind]())
	assert.Equal(t, "Unknown", again[0])

	name, ok := r.NameOf(TypeOf[testKind](), value.Of(kindAutomotive))
	assert.True(t, ok)
	assert.Equal(t, "Automotive", name)
	_, ok = r.NameOf(TypeOf[testKind](), value.Of(testKind(9)))
	assert.False(t, ok)
	_, ok = r.NameOf(TypeOf[testKind](), value.Uint(uint8(1)))
	assert.False(t, ok)

	// 注册之后这个类型的值会被打上枚举标签
	assert.Equal(t, value.KindEnum, value.Of(kindChemical).Kind())

	_, err = r.NamesOf(reflect.TypeOf(uint16(0)))
	assert.True(t, errors.Is(err, errorhandler.ErrTypeNotFound))
}

func TestConcurrentBuild(t *testing.T) {
	r := newTestRegistry(t)
	const n = 32
	results := make([]*metadata.TypeDescriptor, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			td, err := r.Resolve("TestPlant", false)
			assert.NoError(t, err)
			results[i] = td
		}(i)
	}
	wg.Wait()
	for _, td := range results {
		assert.Same(t, results[0], td)
	}
	assert.Equal(t, int64(1), r.builds.Load())
}

// 两个函数内声明的同名类型, 包路径与类型名都相同
func nodeDefinitionA(methods int) *Definition {
	type node struct{ left, right int }
	def := &Definition{Name: "NodeA", Type: TypeOf[node](), Class: true}
	for i := 0; i < methods; i++ {
		def.Methods = append(def.Methods, MethodDef{
			Name:       fmt.Sprintf("M%d", i),
			Visibility: metadata.Public,
			Func:       func(*node) {},
		})
	}
	return def
}

func nodeDefinitionB() *Definition {
	type node struct{ key string }
	return &Definition{Name: "NodeB", Type: TypeOf[node](), Class: true}
}

func TestConcurrentBuildSameGoName(t *testing.T) {
	for round := 0; round < 20; round++ {
		r := New(WithOpenLogger(false))
		defA, defB := nodeDefinitionA(3000), nodeDefinitionB()
		require.Equal(t, defA.Type.PkgPath()+defA.Type.Name(), defB.Type.PkgPath()+defB.Type.Name())
		require.NotEqual(t, defA.Type, defB.Type)
		require.NoError(t, r.Define(defA, defB))
		var (
			wg         sync.WaitGroup
			tdA, tdB   *metadata.TypeDescriptor
			errA, errB error
		)
		start := make(chan struct{})
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			tdA, errA = r.Resolve("NodeA", false)
		}()
		go func() {
			defer wg.Done()
			<-start
			tdB, errB = r.Resolve("NodeB", false)
		}()
		close(start)
		wg.Wait()
		require.NoError(t, errA)
		require.NoError(t, errB)
		assert.Equal(t, defA.Type, tdA.Type)
		assert.Equal(t, "NodeA", tdA.Name)
		assert.Len(t, tdA.Methods, 3000)
		assert.Equal(t, defB.Type, tdB.Type)
		assert.Equal(t, "NodeB", tdB.Name)
		assert.Empty(t, tdB.Methods)
		assert.Equal(t, int64(2), r.builds.Load())
	}
}

func TestInvalidDefinition(t *testing.T) {
	type badStruct struct {
		testEntity
		name string
	}
	testData := []struct {
		Name string
		Def  *Definition
	}{
		{"UnsetVisibility", &Definition{Type: TypeOf[badStruct](), Class: true,
			Fields: []FieldDef{{Name: "name"}}}},
		{"InheritedField", &Definition{Type: TypeOf[badStruct](), Class: true,
			Fields: []FieldDef{{Name: "Id", Visibility: metadata.Public}}}},
		{"DuplicateField", &Definition{Type: TypeOf[badStruct](), Class: true,
			Fields: []FieldDef{{Name: "name", Visibility: metadata.Public}, {Name: "name", Visibility: metadata.Private}}}},
		{"StaticWithoutVar", &Definition{Type: TypeOf[badStruct](), Class: true,
			Fields: []FieldDef{{Name: "Count", Visibility: metadata.Public, Static: true}}}},
		{"DuplicateConstructor", &Definition{Type: TypeOf[testPlant](), Class: true,
			Constructors: []ConstructorDef{
				{Visibility: metadata.Public, Params: Params("a", "b", "c"), Func: newTestPlant},
				{Visibility: metadata.Private, Params: Params("x", "y", "z"), Func: newTestPlant},
			}}},
		{"ConstructorParams", &Definition{Type: TypeOf[testPlant](), Class: true,
			Constructors: []ConstructorDef{{Visibility: metadata.Public, Params: Params("a"), Func: newTestPlant}}}},
		{"ConstructorReturn", &Definition{Type: TypeOf[testPlant](), Class: true,
			Constructors: []ConstructorDef{{Visibility: metadata.Public, Func: totalPlants}}}},
		{"DuplicateMethod", &Definition{Type: TypeOf[testPlant](), Class: true,
			Methods: []MethodDef{
				{Name: "GetKind", Visibility: metadata.Public, Func: (*testPlant).Kind},
				{Name: "GetKind", Visibility: metadata.Public, Func: (*testPlant).Kind},
			}}},
		{"ReceiverMismatch", &Definition{Type: TypeOf[testPlant](), Class: true,
			Methods: []MethodDef{{Name: "Touch", Visibility: metadata.Public, Func: (*testEntity).Touch}}}},
		{"RequiredAfterOptional", &Definition{Type: TypeOf[testPlant](), Class: true,
			Methods: []MethodDef{{Name: "Rename", Visibility: metadata.Public, Func: (*testPlant).rename,
				Params: []ParamDef{{Name: "name", Default: value.String("x")}, {Name: "suffix"}}}}}},
		{"DefaultTypeMismatch", &Definition{Type: TypeOf[testPlant](), Class: true,
			Methods: []MethodDef{{Name: "Rename", Visibility: metadata.Public, Func: (*testPlant).rename,
				Params: []ParamDef{{Name: "name"}, {Name: "suffix", Default: value.Uint64(1)}}}}}},
		{"EnumNotInteger", &Definition{Type: TypeOf[badStruct](),
			Enums: []EnumDef{{Visibility: metadata.Public}}}},
		{"ClassNotStruct", &Definition{Type: TypeOf[testKind](), Class: true}},
		{"VariadicConstructor", &Definition{Type: TypeOf[testPlant](), Class: true,
			Constructors: []ConstructorDef{{Visibility: metadata.Public, Params: Params("names"),
				Func: func(names ...string) *testPlant { return nil }}}}},
		{"VariadicMethod", &Definition{Type: TypeOf[testPlant](), Class: true,
			Methods: []MethodDef{{Name: "Tag", Visibility: metadata.Public, Params: Params("tags"),
				Func: func(p *testPlant, tags ...string) int { return len(tags) }}}}},
		{"Unnamed", &Definition{Name: "Unnamed", Type: reflect.TypeOf(struct{}{})}},
	}
	for _, data := range testData {
		t.Run(data.Name, func(t *testing.T) {
			r := New(WithOpenLogger(false))
			_, err := r.Build(data.Def)
			assert.True(t, errors.Is(err, errorhandler.ErrInvalidDefinition), "%v", err)
		})
	}
}

func TestDefineConflict(t *testing.T) {
	r := newTestRegistry(t)
	// 同一个定义重复注册是无害的
	def := kindDefinition()
	fresh := New(WithOpenLogger(false))
	require.NoError(t, fresh.Define(def, def))
	require.NoError(t, fresh.Define(def))
	assert.Equal(t, []string{"TestKind"}, fresh.Types())

	err := r.Define(&Definition{Name: "Other", Type: TypeOf[testEntity]()})
	assert.True(t, errors.Is(err, errorhandler.ErrInvalidDefinition))
	err = r.Define(&Definition{Name: "testkind", Type: reflect.TypeOf(int8(0))})
	assert.True(t, errors.Is(err, errorhandler.ErrInvalidDefinition))
	assert.Equal(t, []string{"TestEntity", "TestKind", "TestPlant"}, r.Types())
}

func TestOptions(t *testing.T) {
	ns := uuid.NewSHA1(uuid.NameSpaceDNS, []byte("example.com"))
	r := New(WithLogger(logger.NilLogger{}), WithStackTrace(), WithNamespace(ns))
	require.NoError(t, r.Define(kindDefinition()))
	td, err := r.Resolve("TestKind", false)
	require.NoError(t, err)
	assert.Equal(t, uuid.NewSHA1(ns, []byte(td.FullName())), td.ID)
	assert.False(t, td.Class)
	enum, ok := td.Enum()
	require.True(t, ok)
	assert.Equal(t, metadata.Internal, enum.Visibility)

	_, err = r.Resolve("Missing", false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errorhandler.ErrTypeNotFound))
	assert.Contains(t, err.Error(), "stack")

	r = New(DirectConfig(Config{}))
	assert.Equal(t, logger.DefaultLogger, r.logger)
	assert.Equal(t, errorhandler.DefaultErrHandler, r.eHandle)
	assert.Same(t, Default(), Default())
}
