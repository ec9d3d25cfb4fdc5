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
	"github.com/daviszhen/typecheck/pkg/common"
	"github.com/daviszhen/typecheck/pkg/util"
)

type FuncType int

const (
	ScalarFuncType FuncType = 0
)

// Function is the resolved implementation attached to a bound call.
type Function struct {
	_name    string
	_args    []common.DataType
	_retType common.DataType
	_funcTyp FuncType
	_cast    *CastFunction
}

func (fun *Function) Name() string {
	return fun._name
}

func (fun *Function) RetType() common.DataType {
	return fun._retType
}

func (fun *Function) CastImpl() *CastFunction {
	util.AssertFunc(fun._cast != nil)
	return fun._cast
}

func (fun *Function) Copy() *Function {
	return &Function{
		_name:    fun._name,
		_args:    util.CopyTo(fun._args),
		_retType: fun._retType,
		_funcTyp: fun._funcTyp,
		_cast:    fun._cast,
	}
}

// CallBinding carries the full context of one call through checking.
// Operators hold no per-call state of their own.
type CallBinding struct {
	_operands []*Expr
	_valid    *Validator
}

func NewCallBinding(operands []*Expr, valid *Validator) *CallBinding {
	util.AssertFunc(valid != nil)
	return &CallBinding{
		_operands: operands,
		_valid:    valid,
	}
}

func (bind *CallBinding) OperandCount() int {
	return len(bind._operands)
}

func (bind *CallBinding) Operand(i int) *Expr {
	return bind._operands[i]
}

// OperandType prefers the validator's resolved type. Type-spec
// operands denote a type instead of having one.
func (bind *CallBinding) OperandType(i int) common.DataType {
	op := bind._operands[i]
	if op.Typ == ET_TypeSpec {
		return op.DataTyp
	}
	if typ, has := bind._valid.NodeType(op); has {
		return typ
	}
	return op.DataTyp
}

func (bind *CallBinding) OperandMonotonicity(i int) Monotonicity {
	return bind._operands[i].Mono
}

func (bind *CallBinding) Validator() *Validator {
	return bind._valid
}
