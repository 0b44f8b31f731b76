package rpal

// Standardize rewrites a raw AST into the canonical operator set
// (gamma, lambda, ->, tau, aug, Y*, =) per spec §4.3. It is a single
// post-order pass: every node is standardized after its children, then the
// rewrite rule (if any) matching its own label is applied.
func Standardize(n *node) (*node, error) {
	children := make([]*node, len(n.children))
	for i, c := range n.children {
		sc, err := Standardize(c)
		if err != nil {
			return nil, err
		}
		children[i] = sc
	}
	n = &node{label: n.label, children: children, tok: n.tok}

	switch n.label {
	case labelLet:
		// let(=(X,E), P) -> gamma(lambda(X, P), E)
		eq := n.children[0]
		p := n.children[1]
		if eq.label != labelEquals || len(eq.children) != 2 {
			return nil, malformed(n, "let's first child must be a standardized '='")
		}
		x, e := eq.children[0], eq.children[1]
		lambda := newNode(labelLambda, n.tok, x, p)
		return newNode(labelGamma, n.tok, lambda, e), nil

	case labelWhere:
		// where(P, =(X,E)) -> gamma(lambda(X, P), E)
		p := n.children[0]
		eq := n.children[1]
		if eq.label != labelEquals || len(eq.children) != 2 {
			return nil, malformed(n, "where's second child must be a standardized '='")
		}
		x, e := eq.children[0], eq.children[1]
		lambda := newNode(labelLambda, n.tok, x, p)
		return newNode(labelGamma, n.tok, lambda, e), nil

	case labelFunctionForm:
		// function_form(F, V1..Vn, E) -> =(F, lambda(V1, lambda(V2, ..., lambda(Vn, E))))
		if len(n.children) < 3 {
			return nil, malformed(n, "function_form requires a name, at least one binder, and a body")
		}
		f := n.children[0]
		binders := n.children[1 : len(n.children)-1]
		e := n.children[len(n.children)-1]
		return newNode(labelEquals, n.tok, f, curryLambda(binders, e, n.tok)), nil

	case labelLambda:
		// lambda(V1..Vn, E), n>=2 -> lambda(V1, lambda(V2, ..., lambda(Vn, E)))
		if len(n.children) < 2 {
			return n, nil
		}
		binders := n.children[:len(n.children)-1]
		e := n.children[len(n.children)-1]
		return curryLambda(binders, e, n.tok), nil

	case labelWithin:
		// within(=(X1,E1), =(X2,E2)) -> =(X2, gamma(lambda(X1, E2), E1))
		eq1 := n.children[0]
		eq2 := n.children[1]
		if eq1.label != labelEquals || eq2.label != labelEquals {
			return nil, malformed(n, "within requires two standardized '=' children")
		}
		x1, e1 := eq1.children[0], eq1.children[1]
		x2, e2 := eq2.children[0], eq2.children[1]
		lambda := newNode(labelLambda, n.tok, x1, e2)
		return newNode(labelEquals, n.tok, x2, newNode(labelGamma, n.tok, lambda, e1)), nil

	case labelAnd:
		// and(=(X1,E1),...,=(Xn,En)) -> =(tau(X1..Xn), tau(E1..En))
		xs := make([]*node, len(n.children))
		es := make([]*node, len(n.children))
		for i, eq := range n.children {
			if eq.label != labelEquals || len(eq.children) != 2 {
				return nil, malformed(n, "'and' requires standardized '=' children")
			}
			xs[i] = eq.children[0]
			es[i] = eq.children[1]
		}
		return newNode(labelEquals, n.tok, newNode(labelTau, n.tok, xs...), newNode(labelTau, n.tok, es...)), nil

	case labelRec:
		// rec(=(X, E)) -> =(X, gamma(Y*, lambda(X, E)))
		eq := n.children[0]
		if eq.label != labelEquals || len(eq.children) != 2 {
			return nil, malformed(n, "rec requires a standardized '=' child")
		}
		x, e := eq.children[0], eq.children[1]
		lambda := newNode(labelLambda, n.tok, x, e)
		yStar := newNode(labelYStar, n.tok)
		return newNode(labelEquals, n.tok, x, newNode(labelGamma, n.tok, yStar, lambda)), nil

	case labelAt:
		// @(E1, N, E2) -> gamma(gamma(N, E1), E2)
		e1, id, e2 := n.children[0], n.children[1], n.children[2]
		inner := newNode(labelGamma, n.tok, id, e1)
		return newNode(labelGamma, n.tok, inner, e2), nil

	default:
		return n, nil
	}
}

// curryLambda right-nests a multi-binder lambda into single-binder lambdas:
// lambda(v1, lambda(v2, ..., lambda(vn, body))).
func curryLambda(binders []*node, body *node, tok token) *node {
	result := body
	for i := len(binders) - 1; i >= 0; i-- {
		result = newNode(labelLambda, tok, binders[i], result)
	}
	return result
}

func malformed(n *node, msg string) RuntimeError {
	return newRuntimeError(MalformedStandardization, "%s (at %q)", msg, n.label)
}
