package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuiltinTypesCoverEveryFixedIdentifier(t *testing.T) {
	names := map[string]bool{}
	for _, ty := range BuiltinTypes() {
		names[ty.Name()] = true
	}
	for _, want := range []string{
		Int8Name, Int16Name, Int32Name, Int64Name, SizeName,
		UInt8Name, UInt16Name, UInt32Name, UInt64Name, USizeName,
		FloatName, DoubleName, BoolName, StrName, UnitName, NotingName,
	} {
		assert.True(t, names[want], "missing builtin %q", want)
	}
}

func TestIsIntegerAndIsFloatClassifyBuiltins(t *testing.T) {
	assert.True(t, Int32().IsInteger())
	assert.False(t, Int32().IsFloat())
	assert.True(t, Double().IsFloat())
	assert.False(t, Double().IsInteger())
	assert.True(t, Bool().IsBool())
	assert.False(t, Str().IsBool())
}

func TestPointerAndReferenceWrapInnerType(t *testing.T) {
	p := Pointer(Int32())
	assert.True(t, p.IsPointer())
	assert.False(t, p.IsReference())
	assert.Equal(t, Int32Name, p.Name())

	r := Reference(Str())
	assert.True(t, r.IsReference())
	assert.Equal(t, StrName, r.Name())
}

func TestArrayNameDelegatesToElementType(t *testing.T) {
	arr := Array(Int32(), 4)
	assert.Equal(t, Int32Name, arr.Name())
}

func TestNamePanicsOnSelfAndFunctionTypes(t *testing.T) {
	assert.Panics(t, func() { Self().Name() })
	assert.Panics(t, func() { Func(nil, Unit()).Name() })
}

func TestEqualComparesNamedTypesStructurally(t *testing.T) {
	pkg := ResolvedPackage(Package{Names: []string{"geometry"}})
	a := Named(pkg, "Point", Int32())
	b := Named(pkg, "Point", Int32())
	c := Named(pkg, "Point", Int64())

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestEqualDistinguishesValueKinds(t *testing.T) {
	assert.False(t, Pointer(Int32()).Equal(Reference(Int32())))
	assert.True(t, Tuple(Int32(), Str()).Equal(Tuple(Int32(), Str())))
	assert.False(t, Tuple(Int32()).Equal(Tuple(Int32(), Str())))
}

func TestEqualComparesSelfTypesIgnoringPayload(t *testing.T) {
	assert.True(t, Self().Equal(Self()))
	assert.False(t, Self().Equal(Unit()))
}

func TestEqualComparesFunctionArgsAndReturnIncludingLabels(t *testing.T) {
	f1 := Func([]ArgType{{Label: "x", Type: Int32()}}, Bool())
	f2 := Func([]ArgType{{Label: "x", Type: Int32()}}, Bool())
	f3 := Func([]ArgType{{Label: "y", Type: Int32()}}, Bool())

	assert.True(t, f1.Equal(f2))
	assert.False(t, f1.Equal(f3))
}

func TestArgTypesEqualIgnoresLabels(t *testing.T) {
	a := []ArgType{{Label: "x", Type: Int32()}}
	b := []ArgType{{Label: "y", Type: Int32()}}
	assert.True(t, ArgTypesEqual(a, b))

	c := []ArgType{{Label: "y", Type: Bool()}}
	assert.False(t, ArgTypesEqual(a, c))
}

func TestMetaOfWrapsTypeAndName(t *testing.T) {
	m := MetaOf(Int32())
	assert.Equal(t, Int32Name, m.Name())
	assert.Equal(t, "Type(int32)", m.String())
}

func TestStringRendersEachTypeShape(t *testing.T) {
	assert.Equal(t, "Self", Self().String())
	assert.Equal(t, "int32", Int32().String())
}

func TestPackageAppendDoesNotMutateReceiver(t *testing.T) {
	base := Package{Names: []string{"geometry"}}
	child := base.Append("shapes")

	assert.Equal(t, "geometry", base.String())
	assert.Equal(t, "geometry::shapes", child.String())
}

func TestPackageEqualComparesSegmentsInOrder(t *testing.T) {
	a := Package{Names: []string{"a", "b"}}
	b := Package{Names: []string{"a", "b"}}
	c := Package{Names: []string{"b", "a"}}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestTypedPackageEqualComparesKindAndPackage(t *testing.T) {
	pkg := Package{Names: []string{"geometry"}}
	assert.True(t, RawPackage(pkg).Equal(RawPackage(pkg)))
	assert.False(t, RawPackage(pkg).Equal(ResolvedPackage(pkg)))
}
