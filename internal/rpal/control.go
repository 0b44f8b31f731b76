package rpal

// itemKind tags a controlItem, per spec §3's "Control structure" and §4.4's
// flattening table.
type itemKind int

const (
	itemValue itemKind = iota // a literal value
	itemName                  // an identifier reference
	itemLambda                // a binder shape plus the index of its body fragment
	itemGamma                 // function application
	itemTau                   // tuple construction, arity n
	itemAug                   // tuple augmentation
	itemBeta                  // conditional dispatch (subsumes the Cond marker)
	itemYStar                 // the recursion fixed-point primitive
	itemOp                    // a primitive operator token (+, -, gr, not, ...)
)

// controlItem is one element of a flattened control fragment.
type controlItem struct {
	kind itemKind

	value Value // itemValue

	name string // itemName

	fragIndex int   // itemLambda: body fragment; itemBeta: "then" fragment
	fragAlt   int   // itemBeta: "else" fragment
	binder    *node // itemLambda: binder shape (<ID:x>, ","- or tau-tuple, or "()")

	n int // itemTau: arity

	op string // itemOp: operator label (+, -, *, /, **, neg, or, &, not, gr, ge, ls, le, eq, ne)
}

// program is the set of control fragments produced by flattening a
// standardized tree. Fragment 0 is the whole program; fragments are
// immutable once built and referenced by index, per spec §4.4 and §5.
type program struct {
	fragments [][]controlItem
}

func (p *program) addFragment() int {
	idx := len(p.fragments)
	p.fragments = append(p.fragments, nil)
	return idx
}

// Flatten compiles a standardized tree into a program of control fragments,
// per spec §4.4's "Flattening (control generation)".
func Flatten(root *node) (*program, error) {
	p := &program{fragments: [][]controlItem{nil}}
	items, err := flattenInto(p, root)
	if err != nil {
		return nil, err
	}
	p.fragments[0] = items
	return p, nil
}

var unaryOps = map[string]bool{labelNeg: true, labelNot: true}

var binaryOps = map[string]bool{
	labelPlus: true, labelMinus: true, labelMul: true, labelDiv: true, labelPow: true,
	labelOr: true, labelAmp: true,
	labelGr: true, labelGe: true, labelLs: true, labelLe: true, labelEq: true, labelNe: true,
}

func flattenInto(p *program, n *node) ([]controlItem, error) {
	switch {
	case isIDLeaf(n):
		name, _ := idName(n)
		return []controlItem{{kind: itemName, name: name}}, nil

	case isIntLeaf(n):
		lexeme, _ := intLiteral(n)
		iv, err := parseDecimalInt(lexeme)
		if err != nil {
			return nil, malformed(n, "bad integer literal")
		}
		return []controlItem{{kind: itemValue, value: NewInt(iv)}}, nil

	case isStrLeaf(n):
		body, _ := strLiteral(n)
		return []controlItem{{kind: itemValue, value: NewString(body)}}, nil

	case n.label == labelTrue:
		return []controlItem{{kind: itemValue, value: NewBoolVal(true)}}, nil
	case n.label == labelFalse:
		return []controlItem{{kind: itemValue, value: NewBoolVal(false)}}, nil
	case n.label == labelNil:
		return []controlItem{{kind: itemValue, value: NewNil()}}, nil
	case n.label == labelDummy:
		return []controlItem{{kind: itemValue, value: NewDummy()}}, nil

	case n.label == labelGamma:
		// gamma(f, x): x is evaluated first so f (the operator) ends on top
		// of the stack when Gamma dispatches.
		if len(n.children) != 2 {
			return nil, malformed(n, "gamma requires exactly 2 children")
		}
		xItems, err := flattenInto(p, n.children[1])
		if err != nil {
			return nil, err
		}
		fItems, err := flattenInto(p, n.children[0])
		if err != nil {
			return nil, err
		}
		items := append(append([]controlItem{}, xItems...), fItems...)
		return append(items, controlItem{kind: itemGamma}), nil

	case n.label == labelLambda:
		if len(n.children) != 2 {
			return nil, malformed(n, "standardized lambda requires exactly 2 children")
		}
		binder, body := n.children[0], n.children[1]
		fragIdx := p.addFragment()
		bodyItems, err := flattenInto(p, body)
		if err != nil {
			return nil, err
		}
		p.fragments[fragIdx] = bodyItems
		return []controlItem{{kind: itemLambda, fragIndex: fragIdx, binder: binder}}, nil

	case n.label == labelArrow:
		if len(n.children) != 3 {
			return nil, malformed(n, "'->' requires exactly 3 children")
		}
		cond, thenBranch, elseBranch := n.children[0], n.children[1], n.children[2]

		ktIdx := p.addFragment()
		thenItems, err := flattenInto(p, thenBranch)
		if err != nil {
			return nil, err
		}
		p.fragments[ktIdx] = thenItems

		kfIdx := p.addFragment()
		elseItems, err := flattenInto(p, elseBranch)
		if err != nil {
			return nil, err
		}
		p.fragments[kfIdx] = elseItems

		condItems, err := flattenInto(p, cond)
		if err != nil {
			return nil, err
		}
		items := append(append([]controlItem{}, condItems...), controlItem{kind: itemBeta, fragIndex: ktIdx, fragAlt: kfIdx})
		return items, nil

	case n.label == labelTau:
		var items []controlItem
		for _, c := range n.children {
			ci, err := flattenInto(p, c)
			if err != nil {
				return nil, err
			}
			items = append(items, ci...)
		}
		return append(items, controlItem{kind: itemTau, n: len(n.children)}), nil

	case n.label == labelAug:
		if len(n.children) != 2 {
			return nil, malformed(n, "aug requires exactly 2 children")
		}
		aItems, err := flattenInto(p, n.children[0])
		if err != nil {
			return nil, err
		}
		bItems, err := flattenInto(p, n.children[1])
		if err != nil {
			return nil, err
		}
		items := append(append([]controlItem{}, aItems...), bItems...)
		return append(items, controlItem{kind: itemAug}), nil

	case n.label == labelYStar:
		return []controlItem{{kind: itemYStar}}, nil

	case unaryOps[n.label]:
		if len(n.children) != 1 {
			return nil, malformed(n, "unary operator requires exactly 1 child")
		}
		operand, err := flattenInto(p, n.children[0])
		if err != nil {
			return nil, err
		}
		return append(operand, controlItem{kind: itemOp, op: n.label}), nil

	case binaryOps[n.label]:
		if len(n.children) != 2 {
			return nil, malformed(n, "binary operator requires exactly 2 children")
		}
		left, err := flattenInto(p, n.children[0])
		if err != nil {
			return nil, err
		}
		right, err := flattenInto(p, n.children[1])
		if err != nil {
			return nil, err
		}
		items := append(append([]controlItem{}, left...), right...)
		return append(items, controlItem{kind: itemOp, op: n.label}), nil

	default:
		return nil, malformed(n, "node is not in standardized form")
	}
}

func isIDLeaf(n *node) bool {
	_, ok := idName(n)
	return ok
}
func isIntLeaf(n *node) bool {
	_, ok := intLiteral(n)
	return ok
}
func isStrLeaf(n *node) bool {
	_, ok := strLiteral(n)
	return ok
}

func parseDecimalInt(s string) (int, error) {
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return 0, newRuntimeError(MalformedStandardization, "bad integer literal %q", s)
		}
		n = n*10 + int(ch-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}
