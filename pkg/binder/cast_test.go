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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviszhen/typecheck/pkg/common"
)

func intColumn(nullable bool) *Expr {
	return &Expr{
		Typ:     ET_Column,
		DataTyp: common.IntegerType().WithNullable(nullable),
		Table:   "t",
		Name:    "a",
	}
}

func nullLiteral() *Expr {
	return &Expr{
		Typ:     ET_NConst,
		DataTyp: common.NullType(),
		Mono:    Constant,
	}
}

func Test_castMetadata(t *testing.T) {
	assert.Equal(t, "CAST", CastFun.Name())
	assert.Equal(t, "TRY_CAST", TryCastFun.Name())
	assert.False(t, CastFun.Safe())
	assert.True(t, TryCastFun.Safe())
	assert.Equal(t, 2, CastFun.OperandCount())
	assert.Equal(t, "{0}({1} AS {2})", CastFun.SignatureTemplate(2))
	assert.Panics(t, func() {
		CastFun.SignatureTemplate(3)
	})
}

func Test_deriveCastType(t *testing.T) {
	src := common.IntegerType()
	dst := common.BigintType()

	//non-null source, strict cast: result keeps NOT NULL
	ret := DeriveCastType(src, dst, false)
	assert.Equal(t, common.TID_BIGINT, ret.Id)
	assert.False(t, ret.Nullable)

	//nullable source forces a nullable result
	ret = DeriveCastType(src.WithNullable(true), dst, false)
	assert.True(t, ret.Nullable)

	//safe cast forces a nullable result whatever the source
	ret = DeriveCastType(src, dst, true)
	assert.True(t, ret.Nullable)

	//the target's own attributes survive
	coll := common.MakeCollation("utf8", "en")
	ret = DeriveCastType(src, common.VarcharType2(10).WithCollation(coll), false)
	assert.Equal(t, 10, ret.Width)
	assert.Equal(t, coll, ret.Coll)
}

func Test_addCastNullability(t *testing.T) {
	valid := NewValidator()

	ret, err := AddCastToType(valid, intColumn(false), common.BigintType(), CastStrict)
	require.NoError(t, err)
	assert.False(t, ret.DataTyp.Nullable)

	ret, err = AddCastToType(valid, intColumn(true), common.BigintType(), CastStrict)
	require.NoError(t, err)
	assert.True(t, ret.DataTyp.Nullable)

	ret, err = AddCastToType(valid, intColumn(false), common.BigintType(), CastTry)
	require.NoError(t, err)
	assert.True(t, ret.DataTyp.Nullable)
}

func Test_castNullLiteral(t *testing.T) {
	valid := NewValidator()
	lit := nullLiteral()
	assert.True(t, valid.IsNullLiteral(lit))

	ret, err := AddCastToType(valid, lit, common.IntegerType(), CastStrict)
	require.NoError(t, err)
	assert.Equal(t, common.TID_INTEGER, ret.DataTyp.Id)
	assert.True(t, ret.DataTyp.Nullable)

	//the cast wrote the derived type back onto the literal
	assert.False(t, valid.IsNullLiteral(lit))
	typ, has := valid.NodeType(lit)
	require.True(t, has)
	assert.Equal(t, common.TID_INTEGER, typ.Id)
}

func Test_castDynamicParam(t *testing.T) {
	valid := NewValidator()
	param := &Expr{
		Typ:      ET_Param,
		DataTyp:  common.UnknownType(),
		ParamIdx: 1,
	}
	assert.True(t, valid.IsUnresolvedParam(param))

	ret, err := AddCastToType(valid, param, common.VarcharType2(10), CastStrict)
	require.NoError(t, err)
	assert.Equal(t, common.TID_VARCHAR, ret.DataTyp.Id)

	assert.False(t, valid.IsUnresolvedParam(param))
	typ, has := valid.NodeType(param)
	require.True(t, has)
	assert.Equal(t, common.TID_VARCHAR, typ.Id)
	assert.Equal(t, 10, typ.Width)
}

func Test_castIdentityShortCircuit(t *testing.T) {
	valid := NewValidator()
	col := intColumn(false)
	ret, err := AddCastToType(valid, col, common.IntegerType(), CastStrict)
	require.NoError(t, err)
	assert.Same(t, col, ret)
}

func Test_castIllegal(t *testing.T) {
	valid := NewValidator()
	dateCol := &Expr{
		Typ:     ET_Column,
		DataTyp: common.DateType(),
		Table:   "t",
		Name:    "d",
	}
	_, err := AddCastToType(valid, dateCol, common.BooleanType(), CastStrict)
	require.Error(t, err)

	castErr := &CastError{}
	require.True(t, errors.As(err, &castErr))
	assert.Equal(t, CastErrIllegal, castErr.Kind)
	//short type strings, no attributes
	assert.Equal(t, "cannot cast value of type DATE to BOOLEAN", err.Error())

	//the try variant rejects the same pairs
	_, err = AddCastToType(valid, dateCol, common.BooleanType(), CastTry)
	require.Error(t, err)
}

func Test_castCharsetMismatch(t *testing.T) {
	valid := NewValidator()
	src := &Expr{
		Typ:     ET_Column,
		DataTyp: common.VarcharType().WithCollation(common.MakeCollation("utf8", "en")),
		Table:   "t",
		Name:    "s",
	}
	dst := common.VarcharType().WithCollation(common.MakeCollation("latin1", "de"))

	_, err := AddCastToType(valid, src, dst, CastStrict)
	require.Error(t, err)

	castErr := &CastError{}
	require.True(t, errors.As(err, &castErr))
	assert.Equal(t, CastErrCharset, castErr.Kind)
	//full type strings so the charsets show up
	assert.Contains(t, err.Error(), "CHARACTER SET \"utf8\"")
	assert.Contains(t, err.Error(), "CHARACTER SET \"latin1\"")
}

func Test_checkOperandTypesNoThrow(t *testing.T) {
	valid := NewValidator()
	args := []*Expr{
		{Typ: ET_Column, DataTyp: common.DateType()},
		{Typ: ET_TypeSpec, DataTyp: common.BooleanType()},
	}
	bind := NewCallBinding(args, valid)

	ok, err := CastFun.CheckOperandTypes(bind, false)
	assert.False(t, ok)
	assert.NoError(t, err)

	ok, err = CastFun.CheckOperandTypes(bind, true)
	assert.False(t, ok)
	assert.Error(t, err)
}

func Test_castErrorOrdering(t *testing.T) {
	//an illegal pair never reports a charset conflict, whatever the
	//collations say
	valid := NewValidator()
	args := []*Expr{
		{Typ: ET_Column, DataTyp: common.DateType()},
		{Typ: ET_TypeSpec, DataTyp: common.BooleanType()},
	}
	_, err := CastFun.CheckOperandTypes(NewCallBinding(args, valid), true)
	require.Error(t, err)
	castErr := &CastError{}
	require.True(t, errors.As(err, &castErr))
	assert.Equal(t, CastErrIllegal, castErr.Kind)
}

func Test_castUnparse(t *testing.T) {
	valid := NewValidator()

	ret, err := AddCastToType(valid, intColumn(false), common.VarcharType(), CastStrict)
	require.NoError(t, err)
	assert.Equal(t, "CAST(t.a AS VARCHAR)", ret.String())

	ret, err = AddCastToType(valid, intColumn(false), common.BigintType(), CastTry)
	require.NoError(t, err)
	assert.Equal(t, "TRY_CAST(t.a AS BIGINT)", ret.String())

	//interval targets render with the INTERVAL keyword before the unit
	ret, err = AddCastToType(valid, intColumn(false), common.IntervalType("year"), CastStrict)
	require.NoError(t, err)
	assert.Equal(t, "CAST(t.a AS INTERVAL YEAR)", ret.String())

	ret, err = AddCastToType(valid, nullLiteral(), common.DecimalType(10, 2), CastStrict)
	require.NoError(t, err)
	assert.Equal(t, "CAST(NULL AS DECIMAL(10,2))", ret.String())
}

func Test_castFold(t *testing.T) {
	valid := NewValidator()
	strVal := common.StringValue(common.VarcharType(), "12")
	strConst := &Expr{
		Typ:     ET_SConst,
		DataTyp: common.VarcharType(),
		Svalue:  "12",
		Mono:    Constant,
		Const:   &strVal,
	}
	ret, err := AddCastToType(valid, strConst, common.IntegerType(), CastStrict)
	require.NoError(t, err)
	require.NotNil(t, ret.Const)
	assert.Equal(t, int64(12), ret.Const.I64)
	assert.Equal(t, common.TID_INTEGER, ret.Const.Typ.Id)

	//a failing strict cast stays unfolded for the runtime to report
	badVal := common.StringValue(common.VarcharType(), "abc")
	badConst := &Expr{
		Typ:     ET_SConst,
		DataTyp: common.VarcharType(),
		Svalue:  "abc",
		Mono:    Constant,
		Const:   &badVal,
	}
	ret, err = AddCastToType(valid, badConst, common.IntegerType(), CastStrict)
	require.NoError(t, err)
	assert.Nil(t, ret.Const)

	//the try variant folds it to a typed NULL
	ret, err = AddCastToType(valid, badConst, common.IntegerType(), CastTry)
	require.NoError(t, err)
	require.NotNil(t, ret.Const)
	assert.True(t, ret.Const.IsNull)
	assert.Equal(t, common.TID_INTEGER, ret.Const.Typ.Id)
}
