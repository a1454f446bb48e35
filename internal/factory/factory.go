package factory

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
)

type FactoryType uint8

const (
	Unknown FactoryType = iota
	Chemical
	Automotive
	Electronics
)

var factoryTypeNames = [...]string{"Unknown", "Chemical", "Automotive", "Electronics"}

func (t FactoryType) String() string {
	if int(t) < len(factoryTypeNames) {
		return factoryTypeNames[t]
	}
	return "FactoryType(" + strconv.Itoa(int(t)) + ")"
}

var (
	// 已经创建的工厂的数量, 同时也是下一个工厂的Id
	// NewFactory在锁内修改它, 通过反射直接读写这个变量不会持有锁
	factoriesCount uint32
	factoriesMu    sync.Mutex
)

type Factory struct {
	name          string
	EmployeeCount uint64
	factoryType   FactoryType
	id            uint64
	out           io.Writer
}

// NewFactory 每次调用都会增加工厂的总数, 可以被并发调用
func NewFactory(name string, employeeCount uint64, typ FactoryType) *Factory {
	f := &Factory{
		name:          name,
		EmployeeCount: employeeCount,
		factoryType:   Unknown,
		out:           os.Stdout,
	}
	f.reprofile(typ)
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	f.id = uint64(factoriesCount)
	factoriesCount++
	return f
}

func GetTotalFactoriesCount() uint32 {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	return factoriesCount
}

func (f *Factory) Name() string {
	return f.name
}

func (f *Factory) Id() uint64 {
	return f.id
}

// SetOutput DisplayStats的输出位置, 默认是os.Stdout
func (f *Factory) SetOutput(w io.Writer) {
	f.out = w
}

func (f *Factory) DisplayStats() {
	fmt.Fprintf(f.out, "'%s' stats ============\n", f.name)
	fmt.Fprintf(f.out, "Id in DB: %d\n", f.id)
	fmt.Fprintf(f.out, "Type: %s\n", f.factoryType)
	fmt.Fprintf(f.out, "Employee count: %d\n", f.EmployeeCount)
	fmt.Fprintln(f.out, "=========================")
}

func (f *Factory) GetFactoryType() FactoryType {
	return f.factoryType
}

// reprofile 修改工厂的类型, 返回修改之前的类型
func (f *Factory) reprofile(newType FactoryType) FactoryType {
	old := f.factoryType
	f.factoryType = newType
	return old
}
