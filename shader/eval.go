package shader

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/naga/ir"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/mhdeeb/geo-art/geom"
)

// ErrUnsupported is returned by an Evaluator for IR it cannot interpret,
// such as loops or matrix math. Such expressions still compile for the GPU.
var ErrUnsupported = errors.New("shader: unsupported by CPU evaluator")

const maxCallDepth = 32

// Evaluator computes color expressions on the CPU by interpreting the naga
// IR of a probe module. Results follow f32 arithmetic. Derivatives
// evaluate to zero.
//
// An Evaluator is immutable and safe for concurrent use.
type Evaluator struct {
	exprs  Expressions
	module *ir.Module
	entry  [len(Channels)]ir.FunctionHandle
}

// NewEvaluator compiles exprs for CPU evaluation.
func NewEvaluator(exprs Expressions) (*Evaluator, error) {
	for _, c := range Channels {
		if err := Validate(exprs.Get(c)); err != nil {
			return nil, &ExprError{Channel: c, Expr: exprs.Get(c), Err: err}
		}
	}
	module, err := lower(composeProbe(exprs))
	if err != nil {
		return nil, attribute(Point, exprs, err)
	}
	e := &Evaluator{exprs: exprs, module: module}
	for i, c := range Channels {
		h, ok := findFunction(module, c.probe())
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", ErrCompile, c.probe())
		}
		e.entry[i] = h
	}
	return e, nil
}

// Expressions returns the expressions e was built from.
func (e *Evaluator) Expressions() Expressions { return e.exprs }

// Channel evaluates channel c at the space-time point p (x, y, z, t).
func (e *Evaluator) Channel(c Channel, p geom.Vec4) (float64, error) {
	if c < C1 || c > Alpha {
		return 0, fmt.Errorf("shader: invalid channel %d", c)
	}
	args := []value{
		scalar(ir.ScalarFloat, p.X),
		scalar(ir.ScalarFloat, p.Y),
		scalar(ir.ScalarFloat, p.Z),
		scalar(ir.ScalarFloat, p.W),
	}
	v, err := e.call(e.entry[c-C1], args, 0)
	if err != nil {
		return 0, fmt.Errorf("channel %s: %w", c, err)
	}
	return v.c[0], nil
}

// Channels evaluates all four channels at p, in the order c1, c2, c3, alpha.
func (e *Evaluator) Channels(p geom.Vec4) ([4]float64, error) {
	var out [4]float64
	for i, c := range Channels {
		v, err := e.Channel(c, p)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

// Color evaluates the color at p the way the material fragment stage does.
// RGB clamps each channel, HSV wraps the hue and clamps saturation and
// value, and Solid returns solid. Alpha is clamped to [0, 1].
func (e *Evaluator) Color(ct ColorType, solid colorful.Color, p geom.Vec4) (colorful.Color, float64, error) {
	ch, err := e.Channels(p)
	if err != nil {
		return colorful.Color{}, 0, err
	}
	alpha := clamp01(ch[3])
	switch ct {
	case RGB:
		return colorful.Color{R: clamp01(ch[0]), G: clamp01(ch[1]), B: clamp01(ch[2])}, alpha, nil
	case HSV:
		return colorful.Hsv(fract(ch[0])*360, clamp01(ch[1]), clamp01(ch[2])), alpha, nil
	case Solid:
		return solid, alpha, nil
	}
	return colorful.Color{}, 0, fmt.Errorf("%w: %d", ErrInvalidColorType, ct)
}

func findFunction(m *ir.Module, name string) (ir.FunctionHandle, bool) {
	for i := range m.Functions {
		if m.Functions[i].Name == name {
			return ir.FunctionHandle(i), true
		}
	}
	return 0, false
}

// value is a scalar or vector of up to four components. Integers and
// booleans are carried in float64, which is exact for 32-bit values.
type value struct {
	kind ir.ScalarKind
	n    int
	c    [4]float64
}

func scalar(kind ir.ScalarKind, x float64) value {
	v := value{kind: kind, n: 1}
	v.c[0] = round(kind, x)
	return v
}

func splat(v value, n int) value {
	if v.n != 1 || n == 1 {
		return v
	}
	out := value{kind: v.kind, n: n}
	for i := range n {
		out.c[i] = v.c[0]
	}
	return out
}

// round narrows x to the precision of kind.
func round(kind ir.ScalarKind, x float64) float64 {
	switch kind {
	case ir.ScalarFloat:
		return float64(float32(x))
	case ir.ScalarSint:
		return float64(int32(clampInt(x, math.MinInt32, math.MaxInt32)))
	case ir.ScalarUint:
		return float64(uint32(clampInt(x, 0, math.MaxUint32)))
	case ir.ScalarBool:
		if x != 0 {
			return 1
		}
		return 0
	}
	return x
}

func clampInt(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Trunc(math.Max(lo, math.Min(hi, x)))
}

func isFloat(k ir.ScalarKind) bool {
	return k == ir.ScalarFloat || k == ir.ScalarAbstractFloat
}

type frame struct {
	fn    *ir.Function
	exprs []ir.Expression
	args  []value
	vals  []value
	done  []bool
	depth int
}

func (e *Evaluator) call(h ir.FunctionHandle, args []value, depth int) (value, error) {
	if depth > maxCallDepth {
		return value{}, fmt.Errorf("%w: call depth", ErrUnsupported)
	}
	if int(h) >= len(e.module.Functions) {
		return value{}, fmt.Errorf("%w: function %d", ErrCompile, h)
	}
	fn := &e.module.Functions[h]
	if len(fn.LocalVars) > 0 {
		return value{}, fmt.Errorf("%w: local variables in %s", ErrUnsupported, fn.Name)
	}
	f := &frame{
		fn:    fn,
		exprs: fn.Expressions,
		args:  args,
		vals:  make([]value, len(fn.Expressions)),
		done:  make([]bool, len(fn.Expressions)),
		depth: depth,
	}
	v, returned, err := e.block(f, fn.Body)
	if err != nil {
		return value{}, err
	}
	if !returned {
		return value{}, fmt.Errorf("%w: %s has no return", ErrUnsupported, fn.Name)
	}
	return v, nil
}

func (e *Evaluator) block(f *frame, body []ir.Statement) (value, bool, error) {
	for _, st := range body {
		switch s := st.Kind.(type) {
		case ir.StmtEmit:
			// Expressions are evaluated on demand.
		case ir.StmtBlock:
			if v, ret, err := e.block(f, s.Block); err != nil || ret {
				return v, ret, err
			}
		case ir.StmtIf:
			cond, err := e.eval(f, s.Condition)
			if err != nil {
				return value{}, false, err
			}
			branch := s.Reject
			if cond.c[0] != 0 {
				branch = s.Accept
			}
			if v, ret, err := e.block(f, branch); err != nil || ret {
				return v, ret, err
			}
		case ir.StmtCall:
			args := make([]value, len(s.Arguments))
			for i, a := range s.Arguments {
				v, err := e.eval(f, a)
				if err != nil {
					return value{}, false, err
				}
				args[i] = v
			}
			v, err := e.call(s.Function, args, f.depth+1)
			if err != nil {
				return value{}, false, err
			}
			if s.Result != nil {
				f.vals[*s.Result] = v
				f.done[*s.Result] = true
			}
		case ir.StmtReturn:
			if s.Value == nil {
				return value{}, true, nil
			}
			v, err := e.eval(f, *s.Value)
			return v, true, err
		default:
			return value{}, false, fmt.Errorf("%w: statement %T", ErrUnsupported, st.Kind)
		}
	}
	return value{}, false, nil
}

func (e *Evaluator) eval(f *frame, h ir.ExpressionHandle) (value, error) {
	if int(h) >= len(f.exprs) {
		return value{}, fmt.Errorf("%w: expression %d out of range", ErrCompile, h)
	}
	if f.done != nil && f.done[h] {
		return f.vals[h], nil
	}
	v, err := e.expr(f, f.exprs[h].Kind)
	if err != nil {
		return value{}, err
	}
	if f.done != nil {
		f.vals[h] = v
		f.done[h] = true
	}
	return v, nil
}

func (e *Evaluator) expr(f *frame, kind ir.ExpressionKind) (value, error) {
	switch x := kind.(type) {
	case ir.Literal:
		return literal(x.Value)
	case ir.ExprConstant:
		return e.constant(x.Constant)
	case ir.ExprZeroValue:
		k, n, err := e.shape(x.Type)
		if err != nil {
			return value{}, err
		}
		return value{kind: k, n: n}, nil
	case ir.ExprCompose:
		k, n, err := e.shape(x.Type)
		if err != nil {
			return value{}, err
		}
		out := value{kind: k, n: n}
		i := 0
		for _, ch := range x.Components {
			v, err := e.eval(f, ch)
			if err != nil {
				return value{}, err
			}
			for j := 0; j < v.n && i < n; j++ {
				out.c[i] = round(k, v.c[j])
				i++
			}
		}
		return out, nil
	case ir.ExprSplat:
		v, err := e.eval(f, x.Value)
		if err != nil {
			return value{}, err
		}
		return splat(v, int(x.Size)), nil
	case ir.ExprSwizzle:
		v, err := e.eval(f, x.Vector)
		if err != nil {
			return value{}, err
		}
		out := value{kind: v.kind, n: int(x.Size)}
		for i := range out.n {
			out.c[i] = v.c[x.Pattern[i]]
		}
		return out, nil
	case ir.ExprAccessIndex:
		v, err := e.eval(f, x.Base)
		if err != nil {
			return value{}, err
		}
		if int(x.Index) >= v.n {
			return value{}, fmt.Errorf("%w: index %d of %d-vector", ErrUnsupported, x.Index, v.n)
		}
		return scalar(v.kind, v.c[x.Index]), nil
	case ir.ExprFunctionArgument:
		if int(x.Index) >= len(f.args) {
			return value{}, fmt.Errorf("%w: argument %d", ErrCompile, x.Index)
		}
		return f.args[x.Index], nil
	case ir.ExprCallResult:
		return value{}, fmt.Errorf("%w: call result read before call", ErrCompile)
	case ir.ExprUnary:
		v, err := e.eval(f, x.Expr)
		if err != nil {
			return value{}, err
		}
		return unary(x.Op, v)
	case ir.ExprBinary:
		l, err := e.eval(f, x.Left)
		if err != nil {
			return value{}, err
		}
		r, err := e.eval(f, x.Right)
		if err != nil {
			return value{}, err
		}
		return binary(x.Op, l, r)
	case ir.ExprSelect:
		cond, err := e.eval(f, x.Condition)
		if err != nil {
			return value{}, err
		}
		acc, err := e.eval(f, x.Accept)
		if err != nil {
			return value{}, err
		}
		rej, err := e.eval(f, x.Reject)
		if err != nil {
			return value{}, err
		}
		n := max(acc.n, rej.n)
		acc, rej, cond = splat(acc, n), splat(rej, n), splat(cond, n)
		out := value{kind: acc.kind, n: n}
		for i := range n {
			if cond.c[i] != 0 {
				out.c[i] = acc.c[i]
			} else {
				out.c[i] = rej.c[i]
			}
		}
		return out, nil
	case ir.ExprDerivative:
		v, err := e.eval(f, x.Expr)
		if err != nil {
			return value{}, err
		}
		return value{kind: v.kind, n: v.n}, nil
	case ir.ExprRelational:
		v, err := e.eval(f, x.Argument)
		if err != nil {
			return value{}, err
		}
		return relational(x.Fun, v), nil
	case ir.ExprMath:
		args := []ir.ExpressionHandle{x.Arg}
		for _, a := range []*ir.ExpressionHandle{x.Arg1, x.Arg2, x.Arg3} {
			if a != nil {
				args = append(args, *a)
			}
		}
		vals := make([]value, len(args))
		for i, a := range args {
			v, err := e.eval(f, a)
			if err != nil {
				return value{}, err
			}
			vals[i] = v
		}
		return mathFunc(x.Fun, vals)
	case ir.ExprAs:
		v, err := e.eval(f, x.Expr)
		if err != nil {
			return value{}, err
		}
		return convert(v, x.Kind, x.Convert != nil)
	}
	return value{}, fmt.Errorf("%w: expression %T", ErrUnsupported, kind)
}

func (e *Evaluator) constant(h ir.ConstantHandle) (value, error) {
	if int(h) >= len(e.module.Constants) {
		return value{}, fmt.Errorf("%w: constant %d", ErrCompile, h)
	}
	k := e.module.Constants[h]
	if int(k.Init) < len(e.module.GlobalExpressions) {
		g := &frame{exprs: e.module.GlobalExpressions}
		return e.eval(g, k.Init)
	}
	sv, ok := k.Value.(ir.ScalarValue)
	if !ok {
		return value{}, fmt.Errorf("%w: composite constant %s", ErrUnsupported, k.Name)
	}
	width := uint8(4)
	if int(k.Type) < len(e.module.Types) {
		if st, ok := e.module.Types[k.Type].Inner.(ir.ScalarType); ok {
			width = st.Width
		}
	}
	return scalarBits(sv, width), nil
}

func scalarBits(sv ir.ScalarValue, width uint8) value {
	switch sv.Kind {
	case ir.ScalarFloat, ir.ScalarAbstractFloat:
		if width == 4 {
			return scalar(ir.ScalarFloat, float64(math.Float32frombits(uint32(sv.Bits))))
		}
		return scalar(ir.ScalarFloat, math.Float64frombits(sv.Bits))
	case ir.ScalarSint, ir.ScalarAbstractInt:
		if width == 4 {
			return scalar(ir.ScalarSint, float64(int32(uint32(sv.Bits))))
		}
		return scalar(ir.ScalarSint, float64(int64(sv.Bits)))
	case ir.ScalarUint:
		return scalar(ir.ScalarUint, float64(sv.Bits))
	}
	return scalar(ir.ScalarBool, float64(sv.Bits))
}

func (e *Evaluator) shape(h ir.TypeHandle) (ir.ScalarKind, int, error) {
	if int(h) >= len(e.module.Types) {
		return 0, 0, fmt.Errorf("%w: type %d", ErrCompile, h)
	}
	switch t := e.module.Types[h].Inner.(type) {
	case ir.ScalarType:
		return t.Kind, 1, nil
	case ir.VectorType:
		return t.Scalar.Kind, int(t.Size), nil
	}
	return 0, 0, fmt.Errorf("%w: type %T", ErrUnsupported, e.module.Types[h].Inner)
}

func literal(lv ir.LiteralValue) (value, error) {
	switch l := lv.(type) {
	case ir.LiteralF32:
		return scalar(ir.ScalarFloat, float64(l)), nil
	case ir.LiteralF64:
		return scalar(ir.ScalarFloat, float64(l)), nil
	case ir.LiteralF16:
		return scalar(ir.ScalarFloat, float64(l)), nil
	case ir.LiteralAbstractFloat:
		return scalar(ir.ScalarFloat, float64(l)), nil
	case ir.LiteralI32:
		return scalar(ir.ScalarSint, float64(l)), nil
	case ir.LiteralI64:
		return scalar(ir.ScalarSint, float64(l)), nil
	case ir.LiteralAbstractInt:
		return scalar(ir.ScalarSint, float64(l)), nil
	case ir.LiteralU32:
		return scalar(ir.ScalarUint, float64(l)), nil
	case ir.LiteralU64:
		return scalar(ir.ScalarUint, float64(l)), nil
	case ir.LiteralBool:
		if l {
			return scalar(ir.ScalarBool, 1), nil
		}
		return scalar(ir.ScalarBool, 0), nil
	}
	return value{}, fmt.Errorf("%w: literal %T", ErrUnsupported, lv)
}

func unary(op ir.UnaryOperator, v value) (value, error) {
	out := value{kind: v.kind, n: v.n}
	for i := range v.n {
		switch op {
		case ir.UnaryNegate:
			out.c[i] = round(v.kind, -v.c[i])
		case ir.UnaryLogicalNot:
			out.c[i] = boolf(v.c[i] == 0)
		case ir.UnaryBitwiseNot:
			if v.kind == ir.ScalarUint {
				out.c[i] = float64(^uint32(v.c[i]))
			} else {
				out.c[i] = float64(^int32(v.c[i]))
			}
		default:
			return value{}, fmt.Errorf("%w: unary op %d", ErrUnsupported, op)
		}
	}
	return out, nil
}

func binary(op ir.BinaryOperator, l, r value) (value, error) {
	n := max(l.n, r.n)
	l, r = splat(l, n), splat(r, n)
	kind := l.kind
	switch op {
	case ir.BinaryEqual, ir.BinaryNotEqual, ir.BinaryLess, ir.BinaryLessEqual,
		ir.BinaryGreater, ir.BinaryGreaterEqual, ir.BinaryLogicalAnd, ir.BinaryLogicalOr:
		kind = ir.ScalarBool
	}
	out := value{kind: kind, n: n}
	for i := range n {
		a, b := l.c[i], r.c[i]
		var x float64
		switch op {
		case ir.BinaryAdd:
			x = a + b
		case ir.BinarySubtract:
			x = a - b
		case ir.BinaryMultiply:
			x = a * b
		case ir.BinaryDivide:
			switch {
			case isFloat(l.kind):
				x = a / b
			case b == 0:
				x = a
			default:
				x = math.Trunc(a / b)
			}
		case ir.BinaryModulo:
			if !isFloat(l.kind) && b == 0 {
				x = 0
			} else {
				x = math.Mod(a, b)
			}
		case ir.BinaryEqual:
			x = boolf(a == b)
		case ir.BinaryNotEqual:
			x = boolf(a != b)
		case ir.BinaryLess:
			x = boolf(a < b)
		case ir.BinaryLessEqual:
			x = boolf(a <= b)
		case ir.BinaryGreater:
			x = boolf(a > b)
		case ir.BinaryGreaterEqual:
			x = boolf(a >= b)
		case ir.BinaryLogicalAnd:
			x = boolf(a != 0 && b != 0)
		case ir.BinaryLogicalOr:
			x = boolf(a != 0 || b != 0)
		case ir.BinaryAnd:
			x = bitwise(l.kind, a, b, func(p, q int64) int64 { return p & q })
		case ir.BinaryInclusiveOr:
			x = bitwise(l.kind, a, b, func(p, q int64) int64 { return p | q })
		case ir.BinaryExclusiveOr:
			x = bitwise(l.kind, a, b, func(p, q int64) int64 { return p ^ q })
		case ir.BinaryShiftLeft:
			x = bitwise(l.kind, a, b, func(p, q int64) int64 { return p << (q & 31) })
		case ir.BinaryShiftRight:
			x = bitwise(l.kind, a, b, func(p, q int64) int64 { return p >> (q & 31) })
		default:
			return value{}, fmt.Errorf("%w: binary op %d", ErrUnsupported, op)
		}
		out.c[i] = round(kind, x)
	}
	return out, nil
}

func bitwise(kind ir.ScalarKind, a, b float64, f func(p, q int64) int64) float64 {
	if kind == ir.ScalarBool {
		return float64(f(int64(a), int64(b)) & 1)
	}
	return float64(f(int64(a), int64(b)))
}

func relational(fun ir.RelationalFunction, v value) value {
	switch fun {
	case ir.RelationalAll:
		all := true
		for i := range v.n {
			all = all && v.c[i] != 0
		}
		return scalar(ir.ScalarBool, boolf(all))
	case ir.RelationalAny:
		anyTrue := false
		for i := range v.n {
			anyTrue = anyTrue || v.c[i] != 0
		}
		return scalar(ir.ScalarBool, boolf(anyTrue))
	}
	out := value{kind: ir.ScalarBool, n: v.n}
	for i := range v.n {
		if fun == ir.RelationalIsNan {
			out.c[i] = boolf(math.IsNaN(v.c[i]))
		} else {
			out.c[i] = boolf(math.IsInf(v.c[i], 0))
		}
	}
	return out
}

func convert(v value, to ir.ScalarKind, numeric bool) (value, error) {
	out := value{kind: to, n: v.n}
	for i := range v.n {
		x := v.c[i]
		if !numeric {
			bits, err := toBits(v.kind, x)
			if err != nil {
				return value{}, err
			}
			switch to {
			case ir.ScalarFloat:
				x = float64(math.Float32frombits(bits))
			case ir.ScalarSint:
				x = float64(int32(bits))
			case ir.ScalarUint:
				x = float64(bits)
			default:
				return value{}, fmt.Errorf("%w: bitcast to kind %d", ErrUnsupported, to)
			}
		}
		out.c[i] = round(to, x)
	}
	return out, nil
}

func toBits(kind ir.ScalarKind, x float64) (uint32, error) {
	switch kind {
	case ir.ScalarFloat, ir.ScalarAbstractFloat:
		return math.Float32bits(float32(x)), nil
	case ir.ScalarSint, ir.ScalarAbstractInt:
		return uint32(int32(x)), nil
	case ir.ScalarUint:
		return uint32(x), nil
	}
	return 0, fmt.Errorf("%w: bitcast from kind %d", ErrUnsupported, kind)
}

func mathFunc(fun ir.MathFunction, args []value) (value, error) {
	a := args[0]
	switch fun {
	case ir.MathDot:
		if len(args) < 2 {
			break
		}
		return scalar(a.kind, dot(a, args[1])), nil
	case ir.MathLength:
		return scalar(ir.ScalarFloat, math.Sqrt(dot(a, a))), nil
	case ir.MathDistance:
		if len(args) < 2 {
			break
		}
		d, _ := binary(ir.BinarySubtract, a, args[1])
		return scalar(ir.ScalarFloat, math.Sqrt(dot(d, d))), nil
	case ir.MathNormalize:
		l := math.Sqrt(dot(a, a))
		out := value{kind: a.kind, n: a.n}
		for i := range a.n {
			out.c[i] = round(a.kind, a.c[i]/l)
		}
		return out, nil
	case ir.MathCross:
		if len(args) < 2 || a.n != 3 {
			break
		}
		b := args[1]
		out := value{kind: a.kind, n: 3}
		out.c[0] = round(a.kind, a.c[1]*b.c[2]-a.c[2]*b.c[1])
		out.c[1] = round(a.kind, a.c[2]*b.c[0]-a.c[0]*b.c[2])
		out.c[2] = round(a.kind, a.c[0]*b.c[1]-a.c[1]*b.c[0])
		return out, nil
	}

	f, ok := componentFuncs[fun]
	if !ok {
		return value{}, fmt.Errorf("%w: math function %d", ErrUnsupported, fun)
	}
	n := 1
	for _, v := range args {
		n = max(n, v.n)
	}
	for i := range args {
		args[i] = splat(args[i], n)
	}
	out := value{kind: a.kind, n: n}
	xs := make([]float64, len(args))
	for i := range n {
		for j := range args {
			xs[j] = args[j].c[i]
		}
		y, err := f(xs)
		if err != nil {
			return value{}, err
		}
		out.c[i] = round(a.kind, y)
	}
	return out, nil
}

func dot(a, b value) float64 {
	var s float64
	for i := range min(a.n, b.n) {
		s += a.c[i] * b.c[i]
	}
	return s
}

var errArity = fmt.Errorf("%w: wrong argument count", ErrCompile)

func unaryFunc(g func(float64) float64) func([]float64) (float64, error) {
	return func(xs []float64) (float64, error) { return g(xs[0]), nil }
}

func binaryFunc(g func(a, b float64) float64) func([]float64) (float64, error) {
	return func(xs []float64) (float64, error) {
		if len(xs) < 2 {
			return 0, errArity
		}
		return g(xs[0], xs[1]), nil
	}
}

func ternaryFunc(g func(a, b, c float64) float64) func([]float64) (float64, error) {
	return func(xs []float64) (float64, error) {
		if len(xs) < 3 {
			return 0, errArity
		}
		return g(xs[0], xs[1], xs[2]), nil
	}
}

var componentFuncs = map[ir.MathFunction]func([]float64) (float64, error){
	ir.MathAbs:         unaryFunc(math.Abs),
	ir.MathMin:         binaryFunc(math.Min),
	ir.MathMax:         binaryFunc(math.Max),
	ir.MathClamp:       ternaryFunc(func(x, lo, hi float64) float64 { return math.Min(math.Max(x, lo), hi) }),
	ir.MathSaturate:    unaryFunc(clamp01),
	ir.MathCos:         unaryFunc(math.Cos),
	ir.MathCosh:        unaryFunc(math.Cosh),
	ir.MathSin:         unaryFunc(math.Sin),
	ir.MathSinh:        unaryFunc(math.Sinh),
	ir.MathTan:         unaryFunc(math.Tan),
	ir.MathTanh:        unaryFunc(math.Tanh),
	ir.MathAcos:        unaryFunc(math.Acos),
	ir.MathAsin:        unaryFunc(math.Asin),
	ir.MathAtan:        unaryFunc(math.Atan),
	ir.MathAtan2:       binaryFunc(math.Atan2),
	ir.MathAsinh:       unaryFunc(math.Asinh),
	ir.MathAcosh:       unaryFunc(math.Acosh),
	ir.MathAtanh:       unaryFunc(math.Atanh),
	ir.MathRadians:     unaryFunc(func(x float64) float64 { return x * math.Pi / 180 }),
	ir.MathDegrees:     unaryFunc(func(x float64) float64 { return x * 180 / math.Pi }),
	ir.MathCeil:        unaryFunc(math.Ceil),
	ir.MathFloor:       unaryFunc(math.Floor),
	ir.MathRound:       unaryFunc(math.RoundToEven),
	ir.MathFract:       unaryFunc(fract),
	ir.MathTrunc:       unaryFunc(math.Trunc),
	ir.MathExp:         unaryFunc(math.Exp),
	ir.MathExp2:        unaryFunc(math.Exp2),
	ir.MathLog:         unaryFunc(math.Log),
	ir.MathLog2:        unaryFunc(math.Log2),
	ir.MathPow:         binaryFunc(math.Pow),
	ir.MathSign:        unaryFunc(sign),
	ir.MathFma:         ternaryFunc(math.FMA),
	ir.MathMix:         ternaryFunc(func(x, y, t float64) float64 { return x*(1-t) + y*t }),
	ir.MathStep:        binaryFunc(func(edge, x float64) float64 { return boolf(x >= edge) }),
	ir.MathSmoothStep:  ternaryFunc(smoothstep),
	ir.MathSqrt:        unaryFunc(math.Sqrt),
	ir.MathInverseSqrt: unaryFunc(func(x float64) float64 { return 1 / math.Sqrt(x) }),
}

func smoothstep(lo, hi, x float64) float64 {
	t := clamp01((x - lo) / (hi - lo))
	return t * t * (3 - 2*t)
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func fract(x float64) float64 { return x - math.Floor(x) }

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Min(math.Max(x, 0), 1)
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
