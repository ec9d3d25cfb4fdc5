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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xlab/treeprint"

	"github.com/daviszhen/typecheck/pkg/common"
)

func Test_exprFormat(t *testing.T) {
	assert.Equal(t, "t.a", intColumn(false).String())
	assert.Equal(t, "a", (&Expr{Typ: ET_Column, Name: "a"}).String())
	assert.Equal(t, "'hi'", (&Expr{Typ: ET_SConst, Svalue: "hi"}).String())
	assert.Equal(t, "42", (&Expr{Typ: ET_IConst, Ivalue: 42}).String())
	assert.Equal(t, "NULL", nullLiteral().String())
	assert.Equal(t, "$3", (&Expr{Typ: ET_Param, ParamIdx: 3}).String())
	assert.Equal(t, "INTEGER",
		(&Expr{Typ: ET_TypeSpec, DataTyp: common.IntegerType()}).String())
	//interval type specs print the unit alone
	assert.Equal(t, "MONTH",
		(&Expr{Typ: ET_TypeSpec, DataTyp: common.IntervalType("month")}).String())
}

func Test_exprCopy(t *testing.T) {
	valid := NewValidator()
	ret, err := AddCastToType(valid, intColumn(true), common.VarcharType(), CastTry)
	require.NoError(t, err)

	cp := ret.copy()
	require.NotSame(t, ret, cp)
	require.NotSame(t, ret.Children[0], cp.Children[0])
	assert.Equal(t, ret.String(), cp.String())
	assert.Equal(t, ret.DataTyp, cp.DataTyp)
	assert.Equal(t, ret.Mono, cp.Mono)

	cps := copyExprs(ret, ret.Children[0])
	require.Equal(t, 2, len(cps))
	assert.Equal(t, ret.String(), cps[0].String())

	fn := ret.FunImpl.Copy()
	assert.Equal(t, ret.FunImpl.Name(), fn.Name())
	assert.Equal(t, ret.FunImpl.RetType(), fn.RetType())
}

func Test_exprPrint(t *testing.T) {
	valid := NewValidator()
	ret, err := AddCastToType(valid, intColumn(false), common.VarcharType(), CastStrict)
	require.NoError(t, err)

	tree := treeprint.New()
	ret.Print(tree, "")
	out := tree.String()
	assert.Contains(t, out, "cast")
	assert.Contains(t, out, "t.a")
	assert.Contains(t, out, "VARCHAR")
}
