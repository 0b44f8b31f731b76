package rpal

// Session is a persistent top-level environment for rpalsh's
// read-eval-print loop. Unlike Interpret, which evaluates one source
// string against a fresh primitive environment and discards it, a Session
// carries its envStore and current frame id forward across calls to
// EvalLine, so a definition made on one line is visible to every line
// after it.
type Session struct {
	envs *envStore
	env  int
}

// NewSession starts a session with env 0 seeded from the primitive
// catalog, the same root every Interpret call uses.
func NewSession() *Session {
	envs := newEnvStore()
	root := envs.newFrame(-1, Primitives())
	return &Session{envs: envs, env: root}
}

// EvalLine evaluates one line of input against the session's current
// environment. A line matching the D production (spec §4.2's grammar for
// 'let'/'where' right-hand sides: a plain binding, a 'rec', an 'and'
// block, or a 'within' chain) extends the session's environment with the
// binding(s) it introduces and evaluates to Dummy; every later call to
// EvalLine sees them. Any other line is parsed as a complete expression
// (E) and evaluated against the current environment without changing it,
// exactly as Interpret would, except that names bound by earlier
// definition lines are in scope.
func (s *Session) EvalLine(line string) (Result, error) {
	tokens, err := Lex(line)
	if err != nil {
		return Result{}, err
	}

	if def, ok := tryParseDefinition(tokens); ok {
		return s.evalDefinition(def)
	}

	root, err := Parse(tokens)
	if err != nil {
		return Result{}, err
	}
	std, err := Standardize(root)
	if err != nil {
		return Result{}, err
	}
	prog, err := Flatten(std)
	if err != nil {
		return Result{}, err
	}
	v, out, err := NewMachineInEnv(prog, s.envs, s.env).Run()
	if err != nil {
		return Result{}, err
	}
	return Result{Output: out, Value: v}, nil
}

// tryParseDefinition attempts to parse tokens as a complete D production.
// A line only counts as a definition if it parses that way cleanly to end
// of input; any trailing-token or grammar mismatch falls back to treating
// the line as an ordinary expression, which is what most rpalsh input is.
func tryParseDefinition(tokens []token) (*node, bool) {
	def, err := ParseDefinition(tokens)
	if err != nil {
		return nil, false
	}
	return def, true
}

func (s *Session) evalDefinition(raw *node) (Result, error) {
	std, err := Standardize(raw)
	if err != nil {
		return Result{}, err
	}
	if std.label != labelEquals || len(std.children) != 2 {
		return Result{}, malformed(std, "definition did not standardize to a single '=' binding")
	}
	binder, rhs := std.children[0], std.children[1]

	prog, err := Flatten(rhs)
	if err != nil {
		return Result{}, err
	}
	v, out, err := NewMachineInEnv(prog, s.envs, s.env).Run()
	if err != nil {
		return Result{}, err
	}

	bindings, err := bindParameters(binder, v)
	if err != nil {
		return Result{}, err
	}
	s.env = s.envs.newFrame(s.env, bindings)

	return Result{Output: out, Value: NewDummy()}, nil
}
