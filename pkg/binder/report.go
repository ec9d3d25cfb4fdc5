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
	pg_query "github.com/pganalyze/pg_query_go/v5"
	"github.com/xlab/treeprint"

	"github.com/daviszhen/typecheck/pkg/catalog"
	"github.com/daviszhen/typecheck/pkg/common"
	"github.com/daviszhen/typecheck/pkg/parser"
	"github.com/daviszhen/typecheck/pkg/util"
)

// TargetReport is the check result for one select target.
type TargetReport struct {
	Expr *Expr
	Text string
	Typ  common.DataType
	Mono Monotonicity
}

func (rep *TargetReport) Tree() string {
	tree := treeprint.New()
	rep.Expr.Print(tree, "")
	return tree.String()
}

// CheckStmt binds one SELECT against the catalog. One report per
// select target. Assertion panics surface as errors here, at the
// statement boundary.
func CheckStmt(cat *catalog.Catalog, stmt *pg_query.RawStmt) (reps []TargetReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			reps = nil
			err = util.ConvertPanicError(r)
		}
	}()
	bld := NewBuilder(cat)
	exprs, err := bld.BindSelect(stmt)
	if err != nil {
		return nil, err
	}
	reps = make([]TargetReport, 0, len(exprs))
	for _, expr := range exprs {
		typ := expr.DataTyp
		if recorded, has := bld.Validator().NodeType(expr); has {
			typ = recorded
		}
		reps = append(reps, TargetReport{
			Expr: expr,
			Text: expr.String(),
			Typ:  typ,
			Mono: expr.Mono,
		})
	}
	return reps, nil
}

// CheckSQL parses and binds every statement in sql. One report slice
// per statement.
func CheckSQL(cat *catalog.Catalog, sql string) ([][]TargetReport, error) {
	stmts, err := parser.Parse(sql)
	if err != nil {
		return nil, err
	}
	ret := make([][]TargetReport, 0, len(stmts))
	for _, stmt := range stmts {
		reps, err := CheckStmt(cat, stmt)
		if err != nil {
			return nil, err
		}
		ret = append(ret, reps)
	}
	return ret, nil
}
