package rpal

import "strings"

// stackEntry is one element of the CSE machine's value stack: either a
// runtime Value or an Env(n) marker recording the environment id active
// when a closure's body was entered, per spec §3 and §4.4.
type stackEntry struct {
	isEnv bool
	envID int
	value Value
}

// ctrlEntry is one element of the machine's runtime control stack: either a
// static controlItem from the compiled program, or a dynamically-injected
// Env(n) marker signaling where a closure's environment activation ends.
type ctrlEntry struct {
	isEnvMarker bool
	envID       int
	item        controlItem
}

// Machine is a CSE machine bound to a compiled program and a primitive
// environment. Call Run to evaluate the program to completion.
type Machine struct {
	prog    *program
	envs    *envStore
	control []ctrlEntry
	stack   []stackEntry
	curEnv  int
	out     strings.Builder
}

// NewMachine builds a machine over prog with env 0 seeded from primitives.
func NewMachine(prog *program, primitives map[string]Value) *Machine {
	envs := newEnvStore()
	root := envs.newFrame(-1, primitives)
	return NewMachineInEnv(prog, envs, root)
}

// NewMachineInEnv builds a machine over prog that evaluates fragment 0
// under an already-existing environment frame, rather than seeding a fresh
// one. This lets a caller such as rpalsh's Session run successive programs
// against one carried-forward envStore, so bindings made by one line stay
// visible to later lines.
func NewMachineInEnv(prog *program, envs *envStore, env int) *Machine {
	m := &Machine{prog: prog, envs: envs, curEnv: env}
	m.pushFragment(0, env)
	m.stack = append(m.stack, stackEntry{isEnv: true, envID: env})
	return m
}

// pushFragment schedules fragment idx for execution under environment
// envID: an Env(envID) marker is pushed first (so it is reached only after
// the fragment's items have all run), then the items themselves in reverse
// so the first item ends up on top of the control stack.
func (m *Machine) pushFragment(idx int, envID int) {
	m.control = append(m.control, ctrlEntry{isEnvMarker: true, envID: envID})
	items := m.prog.fragments[idx]
	for i := len(items) - 1; i >= 0; i-- {
		m.control = append(m.control, ctrlEntry{item: items[i]})
	}
}

func (m *Machine) popControl() ctrlEntry {
	n := len(m.control)
	e := m.control[n-1]
	m.control = m.control[:n-1]
	return e
}

func (m *Machine) pushValue(v Value) {
	m.stack = append(m.stack, stackEntry{value: v})
}

func (m *Machine) popValue() (Value, error) {
	n := len(m.stack)
	if n == 0 {
		return Value{}, newRuntimeError(MalformedStandardization, "value stack underflow")
	}
	e := m.stack[n-1]
	m.stack = m.stack[:n-1]
	if e.isEnv {
		return Value{}, newRuntimeError(MalformedStandardization, "expected a value, found an environment marker")
	}
	return e.value, nil
}

// Run executes the machine to completion and returns the result value and
// the accumulated output buffer (spec §4.4's "Output").
func (m *Machine) Run() (Value, string, error) {
	for len(m.control) > 0 {
		entry := m.popControl()

		if entry.isEnvMarker {
			if err := m.restoreEnv(entry.envID); err != nil {
				return Value{}, "", err
			}
			continue
		}

		if err := m.step(entry.item); err != nil {
			return Value{}, "", err
		}
	}

	if len(m.stack) != 1 {
		return Value{}, "", newRuntimeError(MalformedStandardization, "machine terminated with %d items on the stack, expected 1", len(m.stack))
	}
	result, err := m.popValue()
	if err != nil {
		return Value{}, "", err
	}
	return result, m.out.String(), nil
}

// restoreEnv implements the Env(n) control rule: the value produced under
// the activated environment sits above its Env(n) marker on the value
// stack; pull the marker out from underneath it and restore E_cur to the
// next-enclosing marker still on the stack.
func (m *Machine) restoreEnv(envID int) error {
	result, err := m.popValue()
	if err != nil {
		return err
	}
	n := len(m.stack)
	if n == 0 || !m.stack[n-1].isEnv || m.stack[n-1].envID != envID {
		return newRuntimeError(MalformedStandardization, "environment marker %d not found where expected", envID)
	}
	m.stack = m.stack[:n-1]
	m.pushValue(result)

	m.curEnv = 0
	for i := len(m.stack) - 1; i >= 0; i-- {
		if m.stack[i].isEnv {
			m.curEnv = m.stack[i].envID
			break
		}
	}
	return nil
}

func (m *Machine) step(item controlItem) error {
	switch item.kind {
	case itemValue:
		m.pushValue(item.value)
		return nil

	case itemName:
		v, ok := m.envs.lookup(m.curEnv, item.name)
		if !ok {
			return newRuntimeError(UnboundIdentifier, "%s is not bound", item.name)
		}
		m.pushValue(v)
		return nil

	case itemLambda:
		m.pushValue(Value{kind: vClosure, closure: &closure{fragIndex: item.fragIndex, binder: item.binder, env: m.curEnv}})
		return nil

	case itemGamma:
		return m.stepGamma()

	case itemTau:
		vals := make([]Value, item.n)
		for i := item.n - 1; i >= 0; i-- {
			v, err := m.popValue()
			if err != nil {
				return err
			}
			vals[i] = v
		}
		m.pushValue(NewTuple(vals))
		return nil

	case itemAug:
		return m.stepAug()

	case itemBeta:
		b, err := m.popValue()
		if err != nil {
			return err
		}
		if !b.IsBool() {
			return newRuntimeError(TypeError, "conditional requires a boolean, got %s", b.TypeName())
		}
		// The chosen branch runs in the current environment, so its items
		// are scheduled without an Env marker of their own.
		frag := item.fragAlt
		if b.Bool() {
			frag = item.fragIndex
		}
		items := m.prog.fragments[frag]
		for i := len(items) - 1; i >= 0; i-- {
			m.control = append(m.control, ctrlEntry{item: items[i]})
		}
		return nil

	case itemYStar:
		// Y* is never applied directly; it is only meaningful as the rator
		// of the Gamma that follows it, which special-cases this sentinel.
		m.pushValue(yStarSentinel)
		return nil

	case itemOp:
		return m.stepOp(item.op)

	default:
		return newRuntimeError(MalformedStandardization, "unknown control item")
	}
}

// yStarSentinel is the value pushed for a bare Y* item; Gamma recognizes
// it by kind and builds an Eta around the closure it is applied to.
var yStarSentinel = Value{kind: vBuiltin, builtin: &builtin{name: "Y*"}}

func isYStar(v Value) bool {
	return v.kind == vBuiltin && v.builtin != nil && v.builtin.name == "Y*"
}

func (m *Machine) stepGamma() error {
	rator, err := m.popValue()
	if err != nil {
		return err
	}
	rand, err := m.popValue()
	if err != nil {
		return err
	}

	switch {
	case isYStar(rator):
		if rand.kind != vClosure {
			return newRuntimeError(TypeError, "Y* requires a function operand, got %s", rand.TypeName())
		}
		c := rand.closure
		m.pushValue(Value{kind: vEta, eta: c})
		return nil

	case rator.kind == vEta:
		// Unrolling one level of recursion takes two applications: the
		// closure applied to its own Eta first (binding the recursive
		// name to itself again), then the resulting value applied to the
		// original operand. Each application runs a full env-marker
		// cycle, so both are scheduled on the control stack rather than
		// resolved by a direct recursive call: the inner Gamma below
		// this one must finish (and restore E_cur) before the outer one
		// sees its result.
		m.pushValue(rand)
		m.pushValue(rator)
		m.pushValue(Value{kind: vClosure, closure: rator.eta})
		m.control = append(m.control, ctrlEntry{item: controlItem{kind: itemGamma}})
		m.control = append(m.control, ctrlEntry{item: controlItem{kind: itemGamma}})
		return nil

	case rator.kind == vClosure:
		return m.applyClosure(rator.closure, rand)

	case rator.kind == vTuple:
		if !rand.IsInt() {
			return newRuntimeError(TypeError, "tuple index must be an integer, got %s", rand.TypeName())
		}
		i := rand.Int()
		if i < 1 || i > len(rator.tuple) {
			return newRuntimeError(IndexOutOfBounds, "tuple index %d out of bounds for arity %d", i, len(rator.tuple))
		}
		m.pushValue(rator.tuple[i-1])
		return nil

	case rator.kind == vBuiltin:
		result, err := applyBuiltin(m, rator.builtin, rand)
		if err != nil {
			return err
		}
		m.pushValue(result)
		return nil

	default:
		return newRuntimeError(TypeError, "cannot apply a value of type %s", rator.TypeName())
	}
}

func (m *Machine) applyClosure(c *closure, rand Value) error {
	bindings, err := bindParameters(c.binder, rand)
	if err != nil {
		return err
	}
	newID := m.envs.newFrame(c.env, bindings)
	m.stack = append(m.stack, stackEntry{isEnv: true, envID: newID})
	m.pushFragment(c.fragIndex, newID)
	m.curEnv = newID
	return nil
}

// bindParameters binds rand to shape (an <ID:x> leaf, a ","-tuple or
// tau-tuple of ids, or "()"), per spec §4.4's Gamma rule. The tau form
// arises from the 'and' standardization rule, whose left-hand side is a
// tau(X1..Xn) binder rather than a ","-tuple, but destructures identically.
func bindParameters(shape *node, rand Value) (map[string]Value, error) {
	if name, ok := idName(shape); ok {
		return map[string]Value{name: rand}, nil
	}
	if shape.label == labelEmptyParens {
		if !rand.IsDummy() {
			return nil, newRuntimeError(TypeError, "expected dummy argument for '()' binder, got %s", rand.TypeName())
		}
		return map[string]Value{}, nil
	}
	if shape.label == labelComma || shape.label == labelTau {
		if !rand.IsTuple() || len(rand.Tuple()) != len(shape.children) {
			got := 0
			if rand.IsTuple() {
				got = len(rand.Tuple())
			}
			return nil, newRuntimeError(TypeError, "expected a %d-tuple argument, got %s of arity %d", len(shape.children), rand.TypeName(), got)
		}
		bindings := make(map[string]Value, len(shape.children))
		for i, idNode := range shape.children {
			name, _ := idName(idNode)
			bindings[name] = rand.Tuple()[i]
		}
		return bindings, nil
	}
	return nil, malformed(shape, "unrecognized binder shape")
}

func (m *Machine) stepAug() error {
	element, err := m.popValue()
	if err != nil {
		return err
	}
	accum, err := m.popValue()
	if err != nil {
		return err
	}
	if !accum.IsTuple() {
		return newRuntimeError(TypeError, "aug's left operand must be a tuple (or nil), got %s", accum.TypeName())
	}
	combined := append(append([]Value{}, accum.Tuple()...), element)
	m.pushValue(NewTuple(combined))
	return nil
}

func (m *Machine) stepOp(op string) error {
	switch op {
	case labelNeg:
		a, err := m.popValue()
		if err != nil {
			return err
		}
		if !a.IsInt() {
			return newRuntimeError(TypeError, "neg requires an integer, got %s", a.TypeName())
		}
		m.pushValue(NewInt(-a.Int()))
		return nil

	case labelNot:
		a, err := m.popValue()
		if err != nil {
			return err
		}
		if !a.IsBool() {
			return newRuntimeError(TypeError, "not requires a boolean, got %s", a.TypeName())
		}
		m.pushValue(NewBoolVal(!a.Bool()))
		return nil
	}

	b, err := m.popValue()
	if err != nil {
		return err
	}
	a, err := m.popValue()
	if err != nil {
		return err
	}

	switch op {
	case labelPlus, labelMinus, labelMul, labelDiv, labelPow:
		if !a.IsInt() || !b.IsInt() {
			return newRuntimeError(TypeError, "%s requires two integers, got %s and %s", op, a.TypeName(), b.TypeName())
		}
		return m.arith(op, a.Int(), b.Int())

	case labelOr:
		if !a.IsBool() || !b.IsBool() {
			return newRuntimeError(TypeError, "or requires two booleans, got %s and %s", a.TypeName(), b.TypeName())
		}
		m.pushValue(NewBoolVal(a.Bool() || b.Bool()))
		return nil

	case labelAmp:
		if !a.IsBool() || !b.IsBool() {
			return newRuntimeError(TypeError, "& requires two booleans, got %s and %s", a.TypeName(), b.TypeName())
		}
		m.pushValue(NewBoolVal(a.Bool() && b.Bool()))
		return nil

	case labelGr, labelGe, labelLs, labelLe:
		if !a.IsInt() || !b.IsInt() {
			return newRuntimeError(TypeError, "%s requires two integers, got %s and %s", op, a.TypeName(), b.TypeName())
		}
		return m.compare(op, a.Int(), b.Int())

	case labelEq:
		m.pushValue(NewBoolVal(equalStructural(a, b)))
		return nil
	case labelNe:
		m.pushValue(NewBoolVal(!equalStructural(a, b)))
		return nil

	default:
		return newRuntimeError(MalformedStandardization, "unknown operator %q", op)
	}
}

func (m *Machine) arith(op string, a, b int) error {
	switch op {
	case labelPlus:
		m.pushValue(NewInt(a + b))
	case labelMinus:
		m.pushValue(NewInt(a - b))
	case labelMul:
		m.pushValue(NewInt(a * b))
	case labelDiv:
		if b == 0 {
			return newRuntimeError(DivisionByZero, "division by zero")
		}
		m.pushValue(NewInt(a / b)) // Go's int division truncates toward zero
	case labelPow:
		if b < 0 {
			return newRuntimeError(TypeError, "** requires a non-negative exponent, got %d", b)
		}
		result := 1
		for i := 0; i < b; i++ {
			result *= a
		}
		m.pushValue(NewInt(result))
	}
	return nil
}

func (m *Machine) compare(op string, a, b int) error {
	var result bool
	switch op {
	case labelGr:
		result = a > b
	case labelGe:
		result = a >= b
	case labelLs:
		result = a < b
	case labelLe:
		result = a <= b
	}
	m.pushValue(NewBoolVal(result))
	return nil
}
