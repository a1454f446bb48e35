package reflect

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBase struct {
	id uint64
}

type testMiddle struct {
	testBase
}

type testDerived struct {
	*testMiddle
	name string
}

type testOther struct{}

func TestWritable(t *testing.T) {
	b := &testBase{id: 1}
	field := reflect.ValueOf(b).Elem().FieldByName("id")
	assert.False(t, field.CanSet())
	w := Writable(field)
	w.SetUint(2)
	assert.Equal(t, uint64(2), b.id)
}

func TestReceiver(t *testing.T) {
	d := &testDerived{testMiddle: &testMiddle{testBase{id: 7}}, name: "d"}
	rv, ok := Receiver(reflect.ValueOf(d), reflect.TypeOf(d))
	require.True(t, ok)
	assert.Equal(t, reflect.ValueOf(d).Pointer(), rv.Pointer())

	rv, ok = Receiver(reflect.ValueOf(d), reflect.TypeOf(&testBase{}))
	require.True(t, ok)
	base := rv.Interface().(*testBase)
	assert.Same(t, &d.testMiddle.testBase, base)

	rv, ok = Receiver(reflect.ValueOf(d), reflect.TypeOf(&testMiddle{}))
	require.True(t, ok)
	assert.Same(t, d.testMiddle, rv.Interface().(*testMiddle))

	_, ok = Receiver(reflect.ValueOf(d), reflect.TypeOf(&testOther{}))
	assert.False(t, ok)
	_, ok = Receiver(reflect.ValueOf((*testDerived)(nil)), reflect.TypeOf(d))
	assert.False(t, ok)
	_, ok = Receiver(reflect.ValueOf(&testDerived{}), reflect.TypeOf(&testBase{}))
	assert.False(t, ok)

	var i interface{} = d
	rv, ok = Receiver(reflect.ValueOf(&i).Elem(), reflect.TypeOf(d))
	require.True(t, ok)
	assert.Equal(t, InterDataPointer(i), InterDataPointer(rv.Interface()))
}

func TestFuncTypeList(t *testing.T) {
	type Func1 func(ctx context.Context, a1 string, a2 uint64) (uint32, error)
	typ := reflect.TypeOf((Func1)(nil))
	ins := FuncInputTypeList(typ, 1)
	assert.Equal(t, []reflect.Type{reflect.TypeOf(""), reflect.TypeOf(uint64(0))}, ins)
	assert.Nil(t, FuncInputTypeList(typ, 3))
	outs, hasErr := FuncOutputTypeList(typ)
	assert.True(t, hasErr)
	assert.Equal(t, []reflect.Type{reflect.TypeOf(uint32(0))}, outs)
	outs, hasErr = FuncOutputTypeList(reflect.TypeOf(func() {}))
	assert.False(t, hasErr)
	assert.Empty(t, outs)
}
