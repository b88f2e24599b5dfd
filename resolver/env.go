package resolver

import (
	"github.com/wiz-lang/wizc/arena"
	"github.com/wiz-lang/wizc/types"
)

// EnvValue is the tagged union a name environment frame binds a name to
// (spec §4.4.1): an overload set of values, a single type, or a namespace.
type EnvValue struct {
	Values    []ValueBinding // non-empty for EnvValue::Value
	Type      arena.DeclarationId
	IsType    bool
	Namespace arena.DeclarationId
	IsNS      bool
}

type ValueBinding struct {
	ID   arena.DeclarationId
	Type types.Type
}

func valueEnv(bindings ...ValueBinding) EnvValue { return EnvValue{Values: bindings} }
func typeEnv(id arena.DeclarationId) EnvValue    { return EnvValue{Type: id, IsType: true} }
func nsEnv(id arena.DeclarationId) EnvValue      { return EnvValue{Namespace: id, IsNS: true} }

// frame is one lexical scope's name bindings.
type frame map[string]EnvValue

// Env is the name-environment stack of spec §4.4.1. The bottom frame
// starts empty and nothing fills it: a name bound in no frame is looked up
// in the arena's root namespace instead (resolveNameExpr,
// resolveFreeCall); scopes push on function body entry, block entry,
// lambda entry, and type-parameter introduction.
type Env struct {
	frames []frame
}

func NewEnv() *Env { return &Env{frames: []frame{{}}} }

func (e *Env) Push() { e.frames = append(e.frames, frame{}) }

func (e *Env) Pop() {
	if len(e.frames) > 1 {
		e.frames = e.frames[:len(e.frames)-1]
	}
}

func (e *Env) top() frame { return e.frames[len(e.frames)-1] }

// Bind inserts name into the innermost frame, shadowing any outer binding
// (spec §8 "Name lookup ... obeys innermost-first").
func (e *Env) Bind(name string, v EnvValue) { e.top()[name] = v }

// BindUse merges a `use X::*` wildcard import's children into the current
// frame, or a single `use X::name [as alias]` binding.
func (e *Env) BindUse(name string, v EnvValue) { e.Bind(name, v) }

// Lookup walks frames innermost-first.
func (e *Env) Lookup(name string) (EnvValue, bool) {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if v, ok := e.frames[i][name]; ok {
			return v, true
		}
	}
	return EnvValue{}, false
}

// AddOverload appends a value binding to an existing Value entry in the
// innermost frame, or creates one, so multiple RegisterValue/RegisterFunction
// calls under one name accumulate into a single overload set visible to
// lookups (mirrors the arena's own multi-id children map).
func (e *Env) AddOverload(name string, b ValueBinding) {
	existing, ok := e.top()[name]
	if ok && existing.Values != nil {
		existing.Values = append(existing.Values, b)
		e.top()[name] = existing
		return
	}
	e.Bind(name, valueEnv(b))
}
