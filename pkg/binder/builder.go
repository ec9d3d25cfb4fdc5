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
	"strconv"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v5"

	"github.com/daviszhen/typecheck/pkg/catalog"
	"github.com/daviszhen/typecheck/pkg/common"
	"github.com/daviszhen/typecheck/pkg/parser"
)

// Builder turns parsed select targets into typed expression trees.
// Cast nodes in the input go through the cast function so the result
// carries derived types and monotonicity.
type Builder struct {
	_cat    *catalog.Catalog
	_valid  *Validator
	_tables []*catalog.Table
}

func NewBuilder(cat *catalog.Catalog) *Builder {
	return &Builder{
		_cat:   cat,
		_valid: NewValidator(),
	}
}

func (b *Builder) Validator() *Validator {
	return b._valid
}

// BindSelect binds every target expression of a single SELECT. The
// FROM tables must exist in the catalog.
func (b *Builder) BindSelect(stmt *pg_query.RawStmt) ([]*Expr, error) {
	b._tables = b._tables[:0]
	for _, name := range parser.SelectTables(stmt) {
		table, has := b._cat.Table(name)
		if !has {
			return nil, fmt.Errorf("no such table %s", name)
		}
		b._tables = append(b._tables, table)
	}

	sel := stmt.GetStmt().GetSelectStmt()
	if sel == nil {
		return nil, fmt.Errorf("not a select statement")
	}
	ret := make([]*Expr, 0, len(sel.TargetList))
	for _, target := range sel.TargetList {
		res := target.GetResTarget()
		if res == nil || res.Val == nil {
			return nil, fmt.Errorf("select target without expression")
		}
		expr, err := b.bindExpr(res.Val)
		if err != nil {
			return nil, err
		}
		expr.Alias = res.Name
		ret = append(ret, expr)
	}
	return ret, nil
}

func (b *Builder) bindExpr(expr *pg_query.Node) (ret *Expr, err error) {
	switch realExpr := expr.GetNode().(type) {
	case *pg_query.Node_ColumnRef:
		ret, err = b.bindColumnRef(realExpr.ColumnRef)
	case *pg_query.Node_AConst:
		ret, err = b.bindAConst(realExpr.AConst)
	case *pg_query.Node_ParamRef:
		ret = &Expr{
			Typ:      ET_Param,
			DataTyp:  common.UnknownType(),
			ParamIdx: int(realExpr.ParamRef.Number),
		}
	case *pg_query.Node_TypeCast:
		ret, err = b.bindTypeCast(realExpr.TypeCast)
	case *pg_query.Node_FuncCall:
		ret, err = b.bindFuncCall(realExpr.FuncCall)
	default:
		return nil, fmt.Errorf("unsupported expression node %T", realExpr)
	}
	return ret, err
}

func getTableColumn(expr *pg_query.ColumnRef) (string, string) {
	cnt := len(expr.Fields)
	if cnt == 1 {
		return "", expr.Fields[0].GetString_().GetSval()
	} else if cnt == 2 {
		return expr.Fields[0].GetString_().GetSval(), expr.Fields[1].GetString_().GetSval()
	}
	panic(fmt.Sprintf("unexpected number of columns: %d %v", cnt, expr.String()))
}

func (b *Builder) bindColumnRef(ref *pg_query.ColumnRef) (*Expr, error) {
	tableName, colName := getTableColumn(ref)
	var table *catalog.Table
	var col *catalog.Column
	for _, cand := range b._tables {
		if tableName != "" && cand.Name() != tableName {
			continue
		}
		found, has := cand.Column(colName)
		if !has {
			continue
		}
		if col != nil {
			return nil, fmt.Errorf("ambiguous column %s", colName)
		}
		table, col = cand, found
	}
	if col == nil {
		if tableName != "" {
			return nil, fmt.Errorf("no such column %s.%s", tableName, colName)
		}
		return nil, fmt.Errorf("no such column %s", colName)
	}

	mono := NotMonotonic
	if col.Ordered {
		mono = Increasing
	}
	return &Expr{
		Typ:     ET_Column,
		DataTyp: col.Typ,
		Table:   table.Name(),
		Name:    col.Name,
		Mono:    mono,
	}, nil
}

func (b *Builder) bindAConst(expr *pg_query.A_Const) (*Expr, error) {
	if expr.Isnull {
		return &Expr{
			Typ:     ET_NConst,
			DataTyp: common.NullType(),
			Mono:    Constant,
		}, nil
	}
	var ret *Expr
	switch realExpr := expr.GetVal().(type) {
	case *pg_query.A_Const_Sval:
		sval := realExpr.Sval.Sval
		val := common.StringValue(common.VarcharType(), sval)
		ret = &Expr{
			Typ:     ET_SConst,
			DataTyp: common.VarcharType(),
			Svalue:  sval,
			Const:   &val,
		}
	case *pg_query.A_Const_Fval:
		fval, err := strconv.ParseFloat(realExpr.Fval.Fval, 64)
		if err != nil {
			return nil, err
		}
		val := common.FloatValue(common.DoubleType(), fval)
		ret = &Expr{
			Typ:     ET_FConst,
			DataTyp: common.DoubleType(),
			Fvalue:  fval,
			Const:   &val,
		}
	case *pg_query.A_Const_Ival:
		ival := int64(realExpr.Ival.Ival)
		val := common.IntegerValue(common.IntegerType(), ival)
		ret = &Expr{
			Typ:     ET_IConst,
			DataTyp: common.IntegerType(),
			Ivalue:  ival,
			Const:   &val,
		}
	case *pg_query.A_Const_Boolval:
		bval := realExpr.Boolval.Boolval
		val := common.BoolValue(bval)
		ret = &Expr{
			Typ:     ET_BConst,
			DataTyp: common.BooleanType(),
			Bvalue:  bval,
			Const:   &val,
		}
	default:
		return nil, fmt.Errorf("unsupported constant %T", realExpr)
	}
	ret.Mono = Constant
	return ret, nil
}

func (b *Builder) bindTypeCast(expr *pg_query.TypeCast) (*Expr, error) {
	child, err := b.bindExpr(expr.Arg)
	if err != nil {
		return nil, err
	}
	resultTyp, err := resolveTypeName(expr.TypeName)
	if err != nil {
		return nil, err
	}
	return AddCastToType(b._valid, child, resultTyp, CastStrict)
}

func getFuncName(expr *pg_query.FuncCall) string {
	for _, node := range expr.Funcname {
		sval := node.GetString_().GetSval()
		if sval == "pg_catalog" {
			continue
		}
		return sval
	}
	panic("no function name")
}

// try_cast(expr, 'typename') is the safe form. It never raises at run
// time and instead widens the result to nullable.
func (b *Builder) bindFuncCall(expr *pg_query.FuncCall) (*Expr, error) {
	name := getFuncName(expr)
	switch name {
	case "try_cast", "safe_cast":
	default:
		return nil, fmt.Errorf("unsupported function %s", name)
	}
	if len(expr.Args) != 2 {
		return nil, fmt.Errorf("%s needs an expression and a type name", name)
	}
	child, err := b.bindExpr(expr.Args[0])
	if err != nil {
		return nil, err
	}
	typName := expr.Args[1].GetAConst().GetSval().GetSval()
	if typName == "" {
		return nil, fmt.Errorf("%s needs a string type name", name)
	}
	resultTyp, err := parseTypeName(typName)
	if err != nil {
		return nil, err
	}
	return AddCastToType(b._valid, child, resultTyp, CastTry)
}

// interval field masks from the postgres grammar
const (
	intervalMaskMonth  = 1 << 1
	intervalMaskYear   = 1 << 2
	intervalMaskDay    = 1 << 3
	intervalMaskHour   = 1 << 10
	intervalMaskMinute = 1 << 11
	intervalMaskSecond = 1 << 12
)

func intervalUnit(mask int64) (string, error) {
	switch mask {
	case intervalMaskYear:
		return "year", nil
	case intervalMaskMonth:
		return "month", nil
	case intervalMaskDay:
		return "day", nil
	case intervalMaskHour:
		return "hour", nil
	case intervalMaskMinute:
		return "minute", nil
	case intervalMaskSecond:
		return "second", nil
	default:
		return "", fmt.Errorf("unsupported interval qualifier mask %d", mask)
	}
}

func resolveTypeName(typName *pg_query.TypeName) (common.DataType, error) {
	name := ""
	for _, node := range typName.Names {
		if node.GetString_().GetSval() == "pg_catalog" {
			continue
		}
		name = node.GetString_().GetSval()
	}

	mods := make([]int64, 0, len(typName.Typmods))
	for _, mod := range typName.Typmods {
		mods = append(mods, int64(mod.GetAConst().GetIval().GetIval()))
	}

	switch name {
	case "bool", "boolean":
		return common.BooleanType(), nil
	case "int1", "tinyint":
		return common.TinyintType(), nil
	case "int2", "smallint":
		return common.SmallintType(), nil
	case "int4", "int", "integer":
		return common.IntegerType(), nil
	case "int8", "bigint":
		return common.BigintType(), nil
	case "float4", "real", "float":
		return common.FloatType(), nil
	case "float8", "double precision", "double":
		return common.DoubleType(), nil
	case "numeric", "decimal":
		width, scale := 18, 3
		if len(mods) >= 1 {
			width = int(mods[0])
		}
		if len(mods) >= 2 {
			scale = int(mods[1])
		}
		return common.DecimalType(width, scale), nil
	case "varchar", "text":
		if len(mods) >= 1 {
			return common.VarcharType2(int(mods[0])), nil
		}
		return common.VarcharType(), nil
	case "bpchar", "char":
		width := 1
		if len(mods) >= 1 {
			width = int(mods[0])
		}
		return common.CharType(width), nil
	case "bytea", "blob":
		return common.BlobType(), nil
	case "date":
		return common.DateType(), nil
	case "time":
		return common.TimeType(), nil
	case "timestamp":
		return common.TimestampType(), nil
	case "interval":
		unit := "month"
		if len(mods) >= 1 {
			var err error
			unit, err = intervalUnit(mods[0])
			if err != nil {
				return common.DataType{}, err
			}
		}
		return common.IntervalType(unit), nil
	default:
		return common.DataType{}, fmt.Errorf("unsupported type name %v", name)
	}
}

// parseTypeName resolves a textual type name like "decimal(10,2)" or
// "interval year". try_cast carries its target as a string argument.
func parseTypeName(s string) (common.DataType, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if unit, ok := strings.CutPrefix(s, "interval"); ok {
		unit = strings.TrimSpace(unit)
		if unit == "" {
			unit = "month"
		}
		switch unit {
		case "year", "month", "day", "hour", "minute", "second":
			return common.IntervalType(unit), nil
		default:
			return common.DataType{}, fmt.Errorf("unsupported interval qualifier %s", unit)
		}
	}

	base := s
	mods := make([]int64, 0, 2)
	if open := strings.Index(s, "("); open >= 0 {
		close_ := strings.LastIndex(s, ")")
		if close_ < open {
			return common.DataType{}, fmt.Errorf("malformed type name %s", s)
		}
		base = strings.TrimSpace(s[:open])
		for _, part := range strings.Split(s[open+1:close_], ",") {
			mod, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return common.DataType{}, fmt.Errorf("malformed type name %s", s)
			}
			mods = append(mods, mod)
		}
	}

	typName := &pg_query.TypeName{
		Names: []*pg_query.Node{
			{
				Node: &pg_query.Node_String_{
					String_: &pg_query.String{Sval: base},
				},
			},
		},
	}
	for _, mod := range mods {
		typName.Typmods = append(typName.Typmods, &pg_query.Node{
			Node: &pg_query.Node_AConst{
				AConst: &pg_query.A_Const{
					Val: &pg_query.A_Const_Ival{
						Ival: &pg_query.Integer{Ival: int32(mod)},
					},
				},
			},
		})
	}
	return resolveTypeName(typName)
}
