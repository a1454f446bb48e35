package main

import (
	"bytes"
	"io"
	"reflect"

	"github.com/nyan233/littlescope/core/common/metadata"
	"github.com/nyan233/littlescope/core/common/value"
	"github.com/nyan233/littlescope/core/invoker"
	"github.com/nyan233/littlescope/core/registry"
	"github.com/nyan233/littlescope/internal/factory"
	"github.com/spf13/cobra"
)

const declaredAll = metadata.BindDeclaredOnly | metadata.BindStatic | metadata.BindInstance |
	metadata.BindNonPublic | metadata.BindPublic

type DescribeOptions struct {
	// 反射地增加EmployeeCount时使用的增量
	Delta uint64
}

func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DescribeOptions{}
	cmd := &cobra.Command{
		Use:   "describe [type]",
		Short: "Build a type's descriptor and drive a demo instance through it",
		Long: `Build the descriptor of a registered type (Factory by default), print its identity,
constructors, members, fields and methods, and exercise a demo instance constructed
reflectively: the employee count is bumped through the field accessor, Reprofile is
invoked, and DisplayStats is called through a binding.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			typeName := "factory"
			if len(args) == 1 {
				typeName = args[0]
			}
			return runDescribe(rootOpts, opts, typeName, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().Uint64Var(&opts.Delta, "delta", 100, "employee count increase applied through the field accessor")
	return cmd
}

func runDescribe(rootOpts *RootOptions, opts *DescribeOptions, typeName string, out, logOut io.Writer) error {
	s, err := newSession(rootOpts, logOut)
	if err != nil {
		return err
	}
	rep, err := s.describe(typeName, opts.Delta)
	if err != nil {
		return err
	}
	if rootOpts.Format == "yaml" {
		return renderYAML(out, rep)
	}
	return renderText(out, rep)
}

type report struct {
	Type         string         `yaml:"type"`
	IsClass      bool           `yaml:"isClass"`
	GUID         string         `yaml:"guid"`
	Base         string         `yaml:"base,omitempty"`
	Enum         string         `yaml:"enum,omitempty"`
	EnumNames    []string       `yaml:"enumNames,omitempty"`
	Constructors []string       `yaml:"constructors"`
	Members      []memberReport `yaml:"members"`
	Fields       []fieldReport  `yaml:"fields"`
	Methods      []methodReport `yaml:"methods"`
}

type memberReport struct {
	Kind       string `yaml:"kind"`
	Name       string `yaml:"name"`
	DeclaredIn string `yaml:"declaredIn"`
}

type fieldReport struct {
	Visibility string `yaml:"visibility"`
	Static     bool   `yaml:"static"`
	Type       string `yaml:"type"`
	Name       string `yaml:"name"`
	// 只有被修改的字段才有
	Owner    string `yaml:"owner,omitempty"`
	Delta    uint64 `yaml:"delta,omitempty"`
	Previous string `yaml:"previous,omitempty"`
	Current  string `yaml:"current,omitempty"`
}

type methodReport struct {
	Name       string   `yaml:"name"`
	Static     bool     `yaml:"static"`
	Generic    bool     `yaml:"generic"`
	Parameters []string `yaml:"parameters"`
	ReturnType string   `yaml:"returnType"`
	// Reprofile
	Owner  string `yaml:"owner,omitempty"`
	Was    string `yaml:"was,omitempty"`
	Result string `yaml:"result,omitempty"`
	// DisplayStats
	Output string `yaml:"output,omitempty"`
}

var demoSignature = []reflect.Type{
	reflect.TypeOf(""),
	reflect.TypeOf(uint64(0)),
	registry.TypeOf[factory.FactoryType](),
}

func (s *session) describe(typeName string, delta uint64) (*report, error) {
	td, err := s.registry.Resolve(typeName, true)
	if err != nil {
		return nil, err
	}
	rep := &report{
		Type:    td.Name,
		IsClass: td.Class,
		GUID:    td.ID.String(),
	}
	if base, ok := s.registry.Base(td); ok {
		rep.Base = base.FullName()
	}
	// 只有带有(string, uint64, FactoryType)构造器的类型才会创建演示用的实例
	var instance *factory.Factory
	if ctor, ok := invoker.FindConstructor(td, demoSignature...); ok {
		obj, err := s.invoker.Construct(ctor, value.String("Intel"), value.Uint64(1500), value.Of(factory.Electronics))
		if err != nil {
			return nil, err
		}
		instance, _ = obj.(*factory.Factory)
	}
	if err := s.describeEnum(rep, td, instance); err != nil {
		return nil, err
	}

	for _, ctor := range td.Constructors {
		rep.Constructors = append(rep.Constructors, ctor.String())
	}
	members := s.registry.Query(td, declaredAll)
	for _, m := range members {
		rep.Members = append(rep.Members, memberReport{
			Kind:       m.MemberKind().String(),
			Name:       m.MemberName(),
			DeclaredIn: m.DeclaringType(),
		})
	}
	for _, fd := range metadata.Fields(members) {
		fr, err := s.describeField(fd, instance, delta)
		if err != nil {
			return nil, err
		}
		rep.Fields = append(rep.Fields, fr)
	}
	for _, md := range metadata.Methods(members) {
		mr, err := s.describeMethod(md, instance)
		if err != nil {
			return nil, err
		}
		rep.Methods = append(rep.Methods, mr)
	}
	return rep, nil
}

// describeEnum 枚举类型打印自己的成员, 类打印实例中第一个枚举字段的类型的成员
func (s *session) describeEnum(rep *report, td *metadata.TypeDescriptor, instance *factory.Factory) error {
	enumType := td.Type
	if _, ok := td.Enum(); !ok {
		enumType = nil
		if instance == nil {
			return nil
		}
		for _, fd := range td.Fields {
			if fd.Static {
				continue
			}
			v, err := s.invoker.GetField(fd, instance)
			if err != nil {
				return err
			}
			if v.Kind() == value.KindEnum {
				enumType = v.Type()
				break
			}
		}
		if enumType == nil {
			return nil
		}
	}
	names, err := s.registry.NamesOf(enumType)
	if err != nil {
		return err
	}
	rep.Enum = enumType.Name()
	rep.EnumNames = names
	return nil
}

func (s *session) describeField(fd *metadata.FieldDescriptor, instance *factory.Factory, delta uint64) (fieldReport, error) {
	fr := fieldReport{
		Visibility: fd.Visibility.String(),
		Static:     fd.Static,
		Type:       fd.Type.String(),
		Name:       fd.Name,
	}
	if fd.Name != "EmployeeCount" || instance == nil {
		return fr, nil
	}
	previous, err := s.invoker.GetField(fd, instance)
	if err != nil {
		return fr, err
	}
	current, err := s.invoker.AddField(fd, instance, value.Uint64(delta))
	if err != nil {
		return fr, err
	}
	fr.Owner = instance.Name()
	fr.Delta = delta
	fr.Previous = previous.String()
	fr.Current = current.String()
	return fr, nil
}

func (s *session) describeMethod(md *metadata.MethodDescriptor, instance *factory.Factory) (methodReport, error) {
	mr := methodReport{
		Name:       md.Name,
		Static:     md.Static,
		Generic:    md.Generic,
		Parameters: make([]string, 0, len(md.Params)),
		ReturnType: md.ReturnTypeName(),
	}
	for _, p := range md.Params {
		mr.Parameters = append(mr.Parameters, p.String())
	}
	if instance == nil {
		return mr, nil
	}
	switch md.Name {
	case "Reprofile":
		mr.Owner = instance.Name()
		mr.Was = instance.GetFactoryType().String()
		result, err := s.invoker.Invoke(md, instance, value.Of(factory.Chemical))
		if err != nil {
			return mr, err
		}
		mr.Result = result.String()
	case "DisplayStats":
		binding, err := s.invoker.Bind(md, instance)
		if err != nil {
			return mr, err
		}
		var buf bytes.Buffer
		instance.SetOutput(&buf)
		if _, err := binding.Func()(); err != nil {
			return mr, err
		}
		mr.Output = buf.String()
	}
	return mr, nil
}
