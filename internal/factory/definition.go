package factory

import (
	"github.com/nyan233/littlescope/core/common/metadata"
	"github.com/nyan233/littlescope/core/registry"
)

var typeDefinition = &registry.Definition{
	Name: "FactoryType",
	Type: registry.TypeOf[FactoryType](),
	Enums: []registry.EnumDef{
		registry.Enum(metadata.Internal, factoryTypeNames[:], Unknown, Chemical, Automotive, Electronics),
	},
}

var factoryDefinition = &registry.Definition{
	Name:  "Factory",
	Type:  registry.TypeOf[Factory](),
	Class: true,
	Constructors: []registry.ConstructorDef{
		{
			Visibility: metadata.Public,
			Params:     registry.Params("name", "employeeCount", "type"),
			Func:       NewFactory,
		},
	},
	Fields: []registry.FieldDef{
		{Name: "Name", Field: "name", Visibility: metadata.Public},
		{Name: "EmployeeCount", Visibility: metadata.Public},
		{Name: "FactoriesCount", Visibility: metadata.Protected, Static: true, Var: &factoriesCount},
		{Name: "Type", Field: "factoryType", Visibility: metadata.Protected},
		{Name: "Id", Field: "id", Visibility: metadata.Private},
	},
	Methods: []registry.MethodDef{
		{Name: "GetTotalFactoriesCount", Visibility: metadata.Public, Static: true, Func: GetTotalFactoriesCount},
		{Name: "DisplayStats", Visibility: metadata.Public, Func: (*Factory).DisplayStats},
		{Name: "GetFactoryType", Visibility: metadata.Public, Func: (*Factory).GetFactoryType},
		{Name: "Reprofile", Visibility: metadata.Private, Func: (*Factory).reprofile, Params: registry.Params("newType")},
	},
}

// Definitions Factory与FactoryType的类型定义, 每次返回的都是同一组定义
func Definitions() []*registry.Definition {
	return []*registry.Definition{typeDefinition, factoryDefinition}
}

// Define 把Factory与FactoryType注册到r中
func Define(r *registry.Registry) error {
	return r.Define(Definitions()...)
}
