package filterlang

import (
	"bytes"

	"github.com/go-marc21/marc21toolkit/internal/record"
	"github.com/go-marc21/marc21toolkit/internal/textmetric"
)

// evalCtx threads the record under test and, inside a ScopeExpr's Inner
// expression, the single field that bare subfield comparisons bind to.
type evalCtx struct {
	rec   *record.Record
	field *record.Field
}

// Eval runs expr against rec and reports whether rec matches.
func Eval(expr Expr, rec *record.Record) bool {
	return evalNode(evalCtx{rec: rec}, expr)
}

func evalNode(ctx evalCtx, expr Expr) bool {
	switch e := expr.(type) {
	case *OrExpr:
		return evalNode(ctx, e.Left) || evalNode(ctx, e.Right)
	case *AndExpr:
		return evalNode(ctx, e.Left) && evalNode(ctx, e.Right)
	case *NotExpr:
		return !evalNode(ctx, e.X)
	case *ExistsExpr:
		if len(ctx.rec.DataFields(e.Sel.TagPattern, e.Sel.IndPattern)) > 0 {
			return true
		}
		for _, f := range ctx.rec.Fields() {
			t, p := f.Tag, e.Sel.TagPattern
			if f.Control && e.Sel.IndPattern == "" && (p[0] == '.' || p[0] == t[0]) && (p[1] == '.' || p[1] == t[1]) && (p[2] == '.' || p[2] == t[2]) {
				return true
			}
		}
		return false
	case *ScopeExpr:
		for _, f := range ctx.rec.DataFields(e.Sel.TagPattern, e.Sel.IndPattern) {
			f := f
			if evalNode(evalCtx{rec: ctx.rec, field: &f}, e.Inner) {
				return true
			}
		}
		return false
	case *CompareExpr:
		return evalCompare(ctx, e)
	default:
		return false
	}
}

// evalCompare implements both the ordinary existential operators and the
// dual-quantifier negation semantics documented in DESIGN.md: a negated
// operator is true iff the LHS has at least one binding AND every binding
// fails the corresponding positive predicate. This is deliberately NOT
// plain logical negation of the positive form, which would incorrectly
// match records where the LHS has zero bindings at all.
func evalCompare(ctx evalCtx, e *CompareExpr) bool {
	if e.Op.numeric() {
		return evalNumeric(ctx, e)
	}

	bindings := lhsBindings(ctx, e.LHS)
	positive := basePositive(e.Op)

	if e.Op.negated() {
		if len(bindings) == 0 {
			return false
		}
		for _, v := range bindings {
			if predicate(positive, v, e) {
				return false
			}
		}
		return true
	}

	for _, v := range bindings {
		if predicate(positive, v, e) {
			return true
		}
	}
	return false
}

func evalNumeric(ctx evalCtx, e *CompareExpr) bool {
	n := ctx.rec.Leader().Length
	rhs := e.RHS.(NumLit).Value
	switch e.Op {
	case OpGt:
		return n > rhs
	case OpGe:
		return n >= rhs
	case OpLt:
		return n < rhs
	case OpLe:
		return n <= rhs
	default:
		return false
	}
}

func basePositive(op Op) Op {
	switch op {
	case OpNe:
		return OpEq
	case OpNotSubstring:
		return OpSubstring
	case OpNotRegex:
		return OpRegex
	case OpNotPrefix:
		return OpPrefix
	case OpNotSuffix:
		return OpSuffix
	case OpNotSimilar:
		return OpSimilar
	case OpNotIn:
		return OpIn
	default:
		return op
	}
}

func predicate(op Op, value []byte, e *CompareExpr) bool {
	switch op {
	case OpEq:
		return bytes.Equal(value, e.RHS.(StringLit).Value)
	case OpSubstring:
		for _, s := range e.RHS.(ListLit).Strings {
			if bytes.Contains(value, s.Value) {
				return true
			}
		}
		return false
	case OpRegex:
		return e.Regex.Re.Match(value)
	case OpPrefix:
		for _, s := range e.RHS.(ListLit).Strings {
			if bytes.HasPrefix(value, s.Value) {
				return true
			}
		}
		return false
	case OpSuffix:
		for _, s := range e.RHS.(ListLit).Strings {
			if bytes.HasSuffix(value, s.Value) {
				return true
			}
		}
		return false
	case OpSimilar:
		return textmetric.Similarity(value, e.RHS.(StringLit).Value) > e.Threshold
	case OpIn:
		_, ok := e.RHS.(ListLit).Index[string(value)]
		return ok
	default:
		return false
	}
}

// lhsBindings returns every value the LHS binds to against the current
// record (and, inside a scope, the current field). An empty/nil result
// means the selector had no matching field, control field, or subfield at
// all (spec §9 "dual-quantifier" semantics turn on this distinction).
func lhsBindings(ctx evalCtx, lhs LHS) [][]byte {
	switch l := lhs.(type) {
	case LeaderSlotLHS:
		v, ok := ctx.rec.Leader().Slot(l.Slot)
		if !ok {
			return nil
		}
		return [][]byte{v}
	case ControlFieldLHS:
		v, ok := ctx.rec.ControlField(l.Tag)
		if !ok {
			return nil
		}
		return [][]byte{v}
	case SubfieldLHS:
		var out [][]byte
		for _, f := range ctx.rec.DataFields(l.Sel.TagPattern, l.Sel.IndPattern) {
			out = append(out, f.SubfieldValues(l.SubfieldSel)...)
		}
		return out
	case ImplicitSubfieldLHS:
		if ctx.field == nil {
			return nil
		}
		return ctx.field.SubfieldValues(l.SubfieldSel)
	default:
		return nil
	}
}
