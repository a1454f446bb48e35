package registry

import (
	"reflect"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/nyan233/littlescope/core/common/errorhandler"
	"github.com/nyan233/littlescope/core/common/logger"
	"github.com/nyan233/littlescope/core/common/metadata"
	"github.com/nyan233/littlescope/core/common/value"
	"github.com/nyan233/littlescope/core/container"
	perror "github.com/nyan233/littlescope/core/protocol/error"
	reflect2 "github.com/nyan233/littlescope/internal/reflect"
	"golang.org/x/sync/singleflight"
)

// Registry 类型描述符的注册表
// 描述符在类型第一次被查询时才会构建, 之后不可变并且在进程的整个生命周期内被缓存, 没有显式的失效
// 同一个类型并发的首次构建会被合并, 每个类型只会发布一个描述符
type Registry struct {
	// 所有已注册的定义, 名字 -> 定义
	definitions container.RCUMap[string, *Definition]
	// Go类型 -> 名字
	names container.RCUMap[reflect.Type, string]
	// 已构建的描述符, 以Go类型作为类型的身份
	descriptors container.RCUMap[reflect.Type, *metadata.TypeDescriptor]
	// 所有已构建的枚举, 包括嵌套在类中声明的枚举
	enums container.RCUMap[reflect.Type, *metadata.EnumDescriptor]
	// 合并同一个类型的并发构建
	group singleflight.Group
	// 保证Define的检查与写入是原子的
	defineMu sync.Mutex
	// 构建的次数, 只用于测试
	builds  atomic.Int64
	logger  logger.LLogger
	eHandle perror.LErrors
	config  atomic.Pointer[Config]
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default 进程级别的注册表, 第一次使用时创建
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

func New(opts ...Option) *Registry {
	r := new(Registry)
	r.definitions = *container.NewRCUMap[string, *Definition]()
	r.names = *container.NewRCUMap[reflect.Type, string]()
	r.descriptors = *container.NewRCUMap[reflect.Type, *metadata.TypeDescriptor]()
	r.enums = *container.NewRCUMap[reflect.Type, *metadata.EnumDescriptor]()
	applyConfig(r, opts)
	return r
}

func applyConfig(r *Registry, opts []Option) {
	rc := &Config{}
	WithDefault().apply(rc)
	for _, opt := range opts {
		opt.apply(rc)
	}
	r.config.Store(rc)
	if rc.Logger != nil {
		r.logger = rc.Logger
	} else {
		r.logger = logger.DefaultLogger
	}
	if rc.ErrHandler != nil {
		r.eHandle = rc.ErrHandler
	} else {
		r.eHandle = errorhandler.DefaultErrHandler
	}
}

// Define 注册类型定义, 不会构建描述符
// 同一个定义重复注册是无害的, 名字(不区分大小写)或者Go类型与已有的定义冲突时返回InvalidDefinition
// 定义中声明的枚举类型会被立即声明, 之后value.Of会为这些类型的值打上枚举标签
func (r *Registry) Define(defs ...*Definition) error {
	r.defineMu.Lock()
	defer r.defineMu.Unlock()
	for _, def := range defs {
		if def == nil || def.Type == nil {
			return r.eHandle.LWarpErrorDesc(errorhandler.ErrTypeNotFound, "nil definition")
		}
		name := def.typeName()
		if exist, ok := r.definitions.LoadOk(name); ok && exist == def {
			continue
		}
		var conflict string
		r.definitions.Range(func(key string, val *Definition) bool {
			if strings.EqualFold(key, name) || val.Type == def.Type {
				conflict = key
				return false
			}
			return true
		})
		if conflict != "" {
			return r.invalid(name, "conflicts with an existing definition", conflict)
		}
		for _, enum := range def.Enums {
			typ := enum.Type
			if typ == nil {
				typ = def.Type
			}
			value.DeclareEnum(typ)
		}
		r.definitions.Store(name, def)
		r.names.Store(def.Type, name)
		r.logger.Info("LScope: define type %s (%s)", name, def.Type.String())
	}
	return nil
}

// Build 构建def的描述符, def没有注册时会先注册
// 已经构建过的类型直接返回缓存中的描述符
func (r *Registry) Build(def *Definition) (*metadata.TypeDescriptor, error) {
	if def == nil || def.Type == nil {
		return nil, r.eHandle.LWarpErrorDesc(errorhandler.ErrTypeNotFound, "nil definition")
	}
	if td, ok := r.descriptors.LoadOk(def.Type); ok {
		return td, nil
	}
	if err := r.Define(def); err != nil {
		return nil, err
	}
	return r.load(def)
}

func (r *Registry) load(def *Definition) (*metadata.TypeDescriptor, error) {
	if td, ok := r.descriptors.LoadOk(def.Type); ok {
		return td, nil
	}
	// 注册的名字在注册表内是唯一的, Go类型的名字不是(比如函数内声明的同名类型)
	v, err, _ := r.group.Do(def.typeName(), func() (interface{}, error) {
		// 上一轮的构建可能刚刚发布
		if td, ok := r.descriptors.LoadOk(def.Type); ok {
			return td, nil
		}
		r.builds.Add(1)
		td, err := r.build(def)
		if err != nil {
			return nil, err
		}
		actual, stored := r.descriptors.StoreIfAbsent(def.Type, td)
		if stored {
			kvs := make([]container.RCUMapElement[reflect.Type, *metadata.EnumDescriptor], 0, len(td.Enums))
			for _, enum := range td.Enums {
				kvs = append(kvs, container.RCUMapElement[reflect.Type, *metadata.EnumDescriptor]{
					Key:   enum.Type,
					Value: enum,
				})
			}
			r.enums.StoreMulti(kvs)
			r.logger.Debug("LScope: built descriptor %s id=%s members=%d",
				td.FullName(), td.ID, len(td.Constructors)+len(td.Fields)+len(td.Methods)+len(td.Enums))
		}
		return actual, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*metadata.TypeDescriptor), nil
}

// Resolve 按名字解析类型, ignoreCase为true时不区分大小写, 找不到时返回TypeNotFound
func (r *Registry) Resolve(name string, ignoreCase bool) (*metadata.TypeDescriptor, error) {
	def, ok := r.definitions.LoadOk(name)
	if !ok && ignoreCase {
		r.definitions.Range(func(key string, val *Definition) bool {
			if strings.EqualFold(key, name) {
				def, ok = val, true
				return false
			}
			return true
		})
	}
	if !ok {
		return nil, r.eHandle.LWarpErrorDesc(errorhandler.ErrTypeNotFound, name)
	}
	return r.load(def)
}

// Lookup 按Go类型解析, typ为指针时使用它指向的类型
func (r *Registry) Lookup(typ reflect.Type) (*metadata.TypeDescriptor, error) {
	if typ == nil {
		return nil, r.eHandle.LWarpErrorDesc(errorhandler.ErrTypeNotFound, "nil type")
	}
	if td, ok := r.descriptors.LoadOk(typ); ok {
		return td, nil
	}
	name, ok := r.names.LoadOk(typ)
	if !ok && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
		name, ok = r.names.LoadOk(typ)
	}
	if !ok {
		return nil, r.eHandle.LWarpErrorDesc(errorhandler.ErrTypeNotFound, typ.String())
	}
	return r.Resolve(name, false)
}

// TypeOf 实例的动态类型的描述符
func (r *Registry) TypeOf(instance interface{}) (*metadata.TypeDescriptor, error) {
	rv := reflect2.RealType(reflect.ValueOf(instance))
	if !rv.IsValid() {
		return nil, r.eHandle.LWarpErrorDesc(errorhandler.ErrTypeNotFound, "nil instance")
	}
	return r.Lookup(rv.Type())
}

// Base 解析td的基类型, 没有基类型或者基类型没有注册时返回false
func (r *Registry) Base(td *metadata.TypeDescriptor) (*metadata.TypeDescriptor, bool) {
	if td == nil || td.Base == "" {
		return nil, false
	}
	base, err := r.Resolve(td.Base, false)
	if err != nil {
		return nil, false
	}
	return base, true
}

// Query 按照flags过滤td的成员, 没有BindDeclaredOnly时包括从基类型继承来的成员
func (r *Registry) Query(td *metadata.TypeDescriptor, flags metadata.BindingFlags) []metadata.Member {
	return metadata.Query(td, flags, func(name string) (*metadata.TypeDescriptor, bool) {
		base, err := r.Resolve(name, false)
		return base, err == nil
	})
}

// Enum 枚举类型的描述符, 所属的类型会在需要时被构建
func (r *Registry) Enum(enumType reflect.Type) (*metadata.EnumDescriptor, error) {
	if enumType == nil {
		return nil, r.eHandle.LWarpErrorDesc(errorhandler.ErrTypeNotFound, "nil enum type")
	}
	if enum, ok := r.enums.LoadOk(enumType); ok {
		return enum, nil
	}
	// 枚举可能声明在其它类型中, 构建所有声明了它的定义
	var owners []*Definition
	r.definitions.Range(func(key string, def *Definition) bool {
		for _, enum := range def.Enums {
			if enum.Type == enumType || (enum.Type == nil && def.Type == enumType) {
				owners = append(owners, def)
				break
			}
		}
		return true
	})
	sort.Slice(owners, func(i, j int) bool {
		return owners[i].typeName() < owners[j].typeName()
	})
	for _, def := range owners {
		if _, err := r.load(def); err != nil {
			return nil, err
		}
	}
	if enum, ok := r.enums.LoadOk(enumType); ok {
		return enum, nil
	}
	return nil, r.eHandle.LWarpErrorDesc(errorhandler.ErrTypeNotFound, enumType.String(), "not an enum")
}

// NamesOf 枚举类型声明的所有成员的名字, 按照声明顺序, 与某个具体的值无关
func (r *Registry) NamesOf(enumType reflect.Type) ([]string, error) {
	enum, err := r.Enum(enumType)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), enum.Names...), nil
}

// NameOf 某个枚举值自己的名字, v不是enumType的已声明成员时返回false
func (r *Registry) NameOf(enumType reflect.Type, v value.Value) (string, bool) {
	ordinal, ok := v.Ordinal()
	if !ok || v.Type() != enumType {
		return "", false
	}
	enum, err := r.Enum(enumType)
	if err != nil {
		return "", false
	}
	return enum.NameOf(ordinal)
}

// Types 所有已注册的类型的名字, 按名字排序
func (r *Registry) Types() []string {
	names := make([]string, 0, r.definitions.Len())
	r.definitions.Range(func(key string, _ *Definition) bool {
		names = append(names, key)
		return true
	})
	sort.Strings(names)
	return names
}
