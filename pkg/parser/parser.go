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

package parser

import (
	"errors"

	pg_query "github.com/pganalyze/pg_query_go/v5"
)

func Parse(s string) ([]*pg_query.RawStmt, error) {
	result, err := pg_query.Parse(s)
	if err != nil {
		return nil, err
	}
	return result.Stmts, nil
}

// SelectTargets pulls the target expressions out of a parsed SELECT.
// The type checker works on these, not on whole plans.
func SelectTargets(stmt *pg_query.RawStmt) ([]*pg_query.Node, error) {
	sel := stmt.GetStmt().GetSelectStmt()
	if sel == nil {
		return nil, errors.New("not a select statement")
	}
	exprs := make([]*pg_query.Node, 0, len(sel.TargetList))
	for _, target := range sel.TargetList {
		res := target.GetResTarget()
		if res == nil || res.Val == nil {
			return nil, errors.New("select target without expression")
		}
		exprs = append(exprs, res.Val)
	}
	return exprs, nil
}

// SelectTables lists the plain table names in the FROM clause. Joins
// and subqueries are out of scope for expression checking.
func SelectTables(stmt *pg_query.RawStmt) []string {
	sel := stmt.GetStmt().GetSelectStmt()
	if sel == nil {
		return nil
	}
	names := make([]string, 0)
	for _, from := range sel.FromClause {
		rv := from.GetRangeVar()
		if rv != nil {
			names = append(names, rv.Relname)
		}
	}
	return names
}
