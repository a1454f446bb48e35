package container

import (
	"sync"
	"sync/atomic"
)

type RCUMapElement[Key comparable, Val any] struct {
	Key   Key
	Value Val
}

// RCUMap 这个Map的实现只适合少量key-value, 或者几乎无写的场景
// 在大量key-value时拷贝数据的开销很大
// 类型描述符的缓存只会在第一次构建时写入, 之后只读, 正好符合这个场景
type RCUMap[Key comparable, Val any] struct {
	mu      sync.Mutex // 串行写入操作, 读取操作不需要上锁
	pointer atomic.Pointer[map[Key]Val]
}

func NewRCUMap[K comparable, V any]() *RCUMap[K, V] {
	m := new(RCUMap[K, V])
	tmp := make(map[K]V, 16)
	m.pointer.Store(&tmp)
	return m
}

func (R *RCUMap[Key, Val]) LoadOk(key Key) (Val, bool) {
	snapshot := R.pointer.Load()
	val, ok := (*snapshot)[key]
	return val, ok
}

func (R *RCUMap[Key, Val]) Range(fn func(key Key, val Val) bool) {
	snapshot := R.pointer.Load()
	for k, v := range *snapshot {
		if !fn(k, v) {
			break
		}
	}
}

func (R *RCUMap[Key, Val]) Store(key Key, val Val) {
	R.StoreMulti([]RCUMapElement[Key, Val]{{Key: key, Value: val}})
}

func (R *RCUMap[Key, Val]) StoreMulti(kvs []RCUMapElement[Key, Val]) {
	if len(kvs) == 0 {
		return
	}
	R.mu.Lock()
	defer R.mu.Unlock()
	copyMap := R.copy()
	for _, kv := range kvs {
		copyMap[kv.Key] = kv.Value
	}
	R.pointer.Store(&copyMap)
}

// StoreIfAbsent 只有key不存在时才写入, 返回最终保存在map中的值
// stored == false时说明已经有其它写入者先发布了这个key
func (R *RCUMap[Key, Val]) StoreIfAbsent(key Key, val Val) (actual Val, stored bool) {
	R.mu.Lock()
	defer R.mu.Unlock()
	if old, ok := (*R.pointer.Load())[key]; ok {
		return old, false
	}
	copyMap := R.copy()
	copyMap[key] = val
	R.pointer.Store(&copyMap)
	return val, true
}

func (R *RCUMap[Key, Val]) Len() int {
	return len(*R.pointer.Load())
}

func (R *RCUMap[Key, Val]) copy() map[Key]Val {
	snapshot := *R.pointer.Load()
	copyMap := make(map[Key]Val, len(snapshot)+1)
	for k, v := range snapshot {
		copyMap[k] = v
	}
	return copyMap
}
