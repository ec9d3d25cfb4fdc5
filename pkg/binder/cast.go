// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package binder

import (
	"fmt"

	"github.com/daviszhen/typecheck/pkg/common"
	"github.com/daviszhen/typecheck/pkg/util"
)

// CastKind separates CAST from TRY_CAST. The try variant always
// type-checks and yields NULL where the strict one would fail at
// runtime.
type CastKind int

const (
	CastStrict CastKind = iota
	CastTry
)

func (kind CastKind) Name() string {
	switch kind {
	case CastStrict:
		return "CAST"
	case CastTry:
		return "TRY_CAST"
	default:
		panic(fmt.Sprintf("usp cast kind %d", int(kind)))
	}
}

// CastFunction is a stateless operator. Per-call state flows through
// the CallBinding, so the two shared instances below serve every
// concurrent validation.
type CastFunction struct {
	_kind CastKind
}

var (
	CastFun    = &CastFunction{_kind: CastStrict}
	TryCastFun = &CastFunction{_kind: CastTry}
)

func (fun *CastFunction) Kind() CastKind {
	return fun._kind
}

func (fun *CastFunction) Safe() bool {
	return fun._kind == CastTry
}

func (fun *CastFunction) Name() string {
	return fun._kind.Name()
}

// OperandCount is fixed. Exactly the expression and the target type.
func (fun *CastFunction) OperandCount() int {
	return 2
}

// SignatureTemplate feeds generic error formatting that does not know
// the AS rendering.
func (fun *CastFunction) SignatureTemplate(operandsCount int) string {
	util.AssertFunc(operandsCount == 2)
	return "{0}({1} AS {2})"
}

// DeriveCastType computes the type of "CAST(expression AS target)".
// The target type wins; nullability comes from the source, forced on
// for a try cast.
func DeriveCastType(src, dst common.DataType, safe bool) common.DataType {
	return dst.WithNullable(src.Nullable || safe)
}

// InferReturnType derives the call's type and, for untyped null
// literals and dynamic parameters, records it as the operand's own
// type. That write is the only side effect here: those nodes carry no
// type until the cast supplies one.
func (fun *CastFunction) InferReturnType(bind *CallBinding) common.DataType {
	util.AssertFunc(bind.OperandCount() == 2)
	ret := DeriveCastType(bind.OperandType(0), bind.OperandType(1), fun.Safe())

	op0 := bind.Operand(0)
	if bind.Validator().IsNullLiteral(op0) || bind.Validator().IsUnresolvedParam(op0) {
		bind.Validator().SetNodeType(op0, ret)
	}
	return ret
}

type CastErrKind int

const (
	CastErrIllegal CastErrKind = iota
	CastErrCharset
)

// CastError is a static validation failure. Not retryable.
type CastError struct {
	Kind CastErrKind
	From string
	To   string
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cannot cast value of type %s to %s", e.From, e.To)
}

// CheckOperandTypes validates the cast call. With throwOnFailure the
// failure comes back as a *CastError; without it the bool alone
// reports it, which lets overload resolution probe without failing.
func (fun *CastFunction) CheckOperandTypes(bind *CallBinding, throwOnFailure bool) (bool, error) {
	util.AssertFunc(bind.OperandCount() == 2)
	left := bind.Operand(0)
	//null literals and parameters get their type from the cast itself,
	//there is nothing to validate yet
	if bind.Validator().IsNullLiteral(left) || bind.Validator().IsUnresolvedParam(left) {
		return true, nil
	}
	srcTyp := bind.OperandType(0)
	dstTyp := bind.OperandType(1)
	if !common.CanCastFrom(dstTyp, srcTyp) {
		if throwOnFailure {
			return false, &CastError{
				Kind: CastErrIllegal,
				From: srcTyp.String(),
				To:   dstTyp.String(),
			}
		}
		return false, nil
	}
	if common.CharsetMismatch(srcTyp, dstTyp) {
		if throwOnFailure {
			//full type strings so the character set difference is
			//visible in the message
			return false, &CastError{
				Kind: CastErrCharset,
				From: srcTyp.FullString(),
				To:   dstTyp.FullString(),
			}
		}
		return false, nil
	}
	return true, nil
}

// Monotonicity classifies whether this cast preserves the ordering of
// its operand. Consumed by order-sensitive rewrites.
func (fun *CastFunction) Monotonicity(bind *CallBinding) Monotonicity {
	util.AssertFunc(bind.OperandCount() == 2)
	return CastMonotonicity(
		bind.OperandType(0),
		bind.OperandType(1),
		bind.OperandMonotonicity(0))
}

// Unparse renders the canonical text. The INTERVAL keyword appears
// only when the target is an interval qualifier.
func (fun *CastFunction) Unparse(ctx *FormatCtx, call *Expr) {
	util.AssertFunc(len(call.Children) == 2)
	ctx.Write(fun.Name())
	ctx.Write("(")
	call.Children[0].Format(ctx)
	ctx.Write(" AS ")
	if call.Children[1].IsIntervalQualifier() {
		ctx.Write("INTERVAL ")
	}
	call.Children[1].Format(ctx)
	ctx.Write(")")
}

func castFunctionFor(kind CastKind) (*CastFunction, ET_SubTyp) {
	switch kind {
	case CastStrict:
		return CastFun, ET_Cast
	case CastTry:
		return TryCastFun, ET_TryCast
	default:
		panic(fmt.Sprintf("usp cast kind %d", int(kind)))
	}
}

// AddCastToType wraps expr with a cast call to dstTyp, checks it and
// derives its type. Identical types short-circuit.
func AddCastToType(valid *Validator, expr *Expr, dstTyp common.DataType, kind CastKind) (*Expr, error) {
	fun, subTyp := castFunctionFor(kind)

	srcTyp, has := valid.NodeType(expr)
	if !has {
		srcTyp = expr.DataTyp
	}
	if srcTyp.Equal(dstTyp) {
		return expr, nil
	}

	args := []*Expr{
		expr,
		{
			Typ:     ET_TypeSpec,
			DataTyp: dstTyp,
		},
	}
	bind := NewCallBinding(args, valid)
	if ok, err := fun.CheckOperandTypes(bind, true); !ok {
		return nil, err
	}
	retTyp := fun.InferReturnType(bind)

	ret := &Expr{
		Typ:      ET_Func,
		SubTyp:   subTyp,
		DataTyp:  retTyp,
		Children: args,
		Mono:     fun.Monotonicity(bind),
		FunImpl: &Function{
			_name:    fun.Name(),
			_args:    []common.DataType{srcTyp, dstTyp},
			_retType: retTyp,
			_funcTyp: ScalarFuncType,
			_cast:    fun,
		},
	}
	valid.SetNodeType(ret, retTyp)
	foldCast(valid, ret)
	return ret, nil
}

// foldCast evaluates a cast of a constant at bind time. A failing try
// cast folds to a typed NULL; a failing strict cast stays unfolded and
// is left for the runtime.
func foldCast(valid *Validator, call *Expr) {
	src := call.Children[0]
	if src.Const == nil {
		return
	}
	folded, err := common.CastValue(*src.Const, call.Children[1].DataTyp, call.SubTyp == ET_TryCast)
	if err != nil {
		return
	}
	call.Const = &folded
}
