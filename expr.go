package gridsheet

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

var (
	// ErrUnsupportedSyntax is returned for expressions outside the formula grammar.
	ErrUnsupportedSyntax = errors.New("unsupported formula syntax")
	// ErrUnknownFunction is returned for identifiers and calls other than SUM and AVERAGE.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrDivideByZero is returned when a division has a zero divisor.
	ErrDivideByZero = errors.New("division by zero")
	// ErrEmptyAverage is returned for AVERAGE over no values.
	ErrEmptyAverage = errors.New("average of empty list")
)

// value is either a number or a list of numbers.
type value struct {
	num    float64
	list   []float64
	isList bool
}

func scalar(n float64) value { return value{num: n} }

// node is the restricted formula AST: numbers, lists, the four arithmetic
// operators, unary sign and the whitelisted aggregate calls.
type node interface {
	eval() (value, error)
}

type numberNode float64

func (n numberNode) eval() (value, error) { return scalar(float64(n)), nil }

type listNode []node

func (n listNode) eval() (value, error) {
	out := make([]float64, 0, len(n))
	for _, item := range n {
		v, err := item.eval()
		if err != nil {
			return value{}, err
		}
		if v.isList {
			return value{}, fmt.Errorf("%w: nested list", ErrUnsupportedSyntax)
		}
		out = append(out, v.num)
	}
	return value{list: out, isList: true}, nil
}

type negateNode struct{ operand node }

func (n negateNode) eval() (value, error) {
	v, err := evalScalar(n.operand)
	if err != nil {
		return value{}, err
	}
	return scalar(-v), nil
}

type binaryNode struct {
	op          string
	left, right node
}

func (n binaryNode) eval() (value, error) {
	l, err := evalScalar(n.left)
	if err != nil {
		return value{}, err
	}
	r, err := evalScalar(n.right)
	if err != nil {
		return value{}, err
	}
	switch n.op {
	case "+":
		return scalar(l + r), nil
	case "-":
		return scalar(l - r), nil
	case "*":
		return scalar(l * r), nil
	case "/":
		if r == 0 {
			return value{}, ErrDivideByZero
		}
		return scalar(l / r), nil
	}
	return value{}, fmt.Errorf("%w: operator %q", ErrUnsupportedSyntax, n.op)
}

// aggregate is one of the whitelisted functions, applied to the flattened arguments.
type aggregate func(nums []float64) (float64, error)

var functions = map[string]aggregate{
	"SUM": func(nums []float64) (float64, error) {
		total := 0.0
		for _, n := range nums {
			total += n
		}
		return total, nil
	},
	"AVERAGE": func(nums []float64) (float64, error) {
		if len(nums) == 0 {
			return 0, ErrEmptyAverage
		}
		total := 0.0
		for _, n := range nums {
			total += n
		}
		return total / float64(len(nums)), nil
	},
}

type callNode struct {
	name string
	fn   aggregate
	args []node
}

func (n callNode) eval() (value, error) {
	var nums []float64
	for _, arg := range n.args {
		v, err := arg.eval()
		if err != nil {
			return value{}, err
		}
		if v.isList {
			nums = append(nums, v.list...)
		} else {
			nums = append(nums, v.num)
		}
	}
	res, err := n.fn(nums)
	if err != nil {
		return value{}, fmt.Errorf("%s: %w", n.name, err)
	}
	return scalar(res), nil
}

func evalScalar(n node) (float64, error) {
	v, err := n.eval()
	if err != nil {
		return 0, err
	}
	if v.isList {
		return 0, fmt.Errorf("%w: list used as a number", ErrUnsupportedSyntax)
	}
	return v.num, nil
}

var digitsRegex = regexp.MustCompile(`[0-9]+`)

// widenIntegers appends ".0" to standalone integer literals that overflow
// int64 so the parser reads them as floats. Digits inside a fraction,
// exponent or identifier are left alone.
func widenIntegers(expression string) string {
	var b []byte
	last := 0
	for _, loc := range digitsRegex.FindAllStringIndex(expression, -1) {
		start, end := loc[0], loc[1]
		switch {
		case start > 0 && isWordByte(expression[start-1]),
			end < len(expression) && isWordByte(expression[end]),
			start > 1 && (expression[start-1] == '+' || expression[start-1] == '-') &&
				(expression[start-2] == 'e' || expression[start-2] == 'E'):
			continue
		}
		if _, err := strconv.ParseInt(expression[start:end], 10, 64); err == nil {
			continue
		}
		b = append(b, expression[last:end]...)
		b = append(b, ".0"...)
		last = end
	}
	if b == nil {
		return expression
	}
	return string(append(b, expression[last:]...))
}

// compile parses a fully substituted expression with the expr-lang parser and
// lowers the result into the restricted AST. Nothing outside the grammar survives.
func compile(expression string) (node, error) {
	tree, err := parser.Parse(widenIntegers(expression))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedSyntax, err)
	}
	return lower(tree.Node)
}

func lower(n ast.Node) (node, error) {
	switch n := n.(type) {
	case *ast.IntegerNode:
		return numberNode(float64(n.Value)), nil
	case *ast.FloatNode:
		return numberNode(n.Value), nil
	case *ast.UnaryNode:
		operand, err := lower(n.Node)
		if err != nil {
			return nil, err
		}
		switch n.Operator {
		case "-":
			return negateNode{operand: operand}, nil
		case "+":
			return operand, nil
		}
		return nil, fmt.Errorf("%w: unary %q", ErrUnsupportedSyntax, n.Operator)
	case *ast.BinaryNode:
		switch n.Operator {
		case "+", "-", "*", "/":
		default:
			return nil, fmt.Errorf("%w: operator %q", ErrUnsupportedSyntax, n.Operator)
		}
		left, err := lower(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := lower(n.Right)
		if err != nil {
			return nil, err
		}
		return binaryNode{op: n.Operator, left: left, right: right}, nil
	case *ast.ArrayNode:
		items := make(listNode, 0, len(n.Nodes))
		for _, item := range n.Nodes {
			lowered, err := lower(item)
			if err != nil {
				return nil, err
			}
			items = append(items, lowered)
		}
		return items, nil
	case *ast.CallNode:
		ident, ok := n.Callee.(*ast.IdentifierNode)
		if !ok {
			return nil, fmt.Errorf("%w: call target", ErrUnsupportedSyntax)
		}
		fn, ok := functions[ident.Value]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, ident.Value)
		}
		args := make([]node, 0, len(n.Arguments))
		for _, arg := range n.Arguments {
			lowered, err := lower(arg)
			if err != nil {
				return nil, err
			}
			args = append(args, lowered)
		}
		return callNode{name: ident.Value, fn: fn, args: args}, nil
	case *ast.IdentifierNode:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, n.Value)
	case *ast.BuiltinNode:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, n.Name)
	case nil:
		return nil, fmt.Errorf("%w: empty expression", ErrUnsupportedSyntax)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedSyntax, n)
}

// run evaluates the expression to a single finite number.
func run(expression string) (float64, error) {
	root, err := compile(expression)
	if err != nil {
		return 0, err
	}
	res, err := evalScalar(root)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(res) || math.IsInf(res, 0) {
		return 0, fmt.Errorf("%w: non-finite result", ErrUnsupportedSyntax)
	}
	return res, nil
}
