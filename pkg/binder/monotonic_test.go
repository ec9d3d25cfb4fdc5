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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/daviszhen/typecheck/pkg/common"
	"github.com/daviszhen/typecheck/pkg/util"
)

func Test_nonMonotonicTable(t *testing.T) {
	pairs := NonMonotonicCastPairs()
	assert.Equal(t, 12, len(pairs))

	want := map[util.Pair[common.TypeFamily, common.TypeFamily]]int{
		{First: common.TF_EXACT_NUMERIC, Second: common.TF_CHARACTER}:  0,
		{First: common.TF_NUMERIC, Second: common.TF_CHARACTER}:        0,
		{First: common.TF_APPROX_NUMERIC, Second: common.TF_CHARACTER}: 0,
		{First: common.TF_INTERVAL, Second: common.TF_CHARACTER}:       0,
		{First: common.TF_CHARACTER, Second: common.TF_EXACT_NUMERIC}:  0,
		{First: common.TF_CHARACTER, Second: common.TF_NUMERIC}:        0,
		{First: common.TF_CHARACTER, Second: common.TF_APPROX_NUMERIC}: 0,
		{First: common.TF_CHARACTER, Second: common.TF_INTERVAL}:       0,
		{First: common.TF_DATETIME, Second: common.TF_TIME}:            0,
		{First: common.TF_TIMESTAMP, Second: common.TF_TIME}:           0,
		{First: common.TF_TIME, Second: common.TF_DATETIME}:            0,
		{First: common.TF_TIME, Second: common.TF_TIMESTAMP}:           0,
	}
	for _, pair := range pairs {
		_, has := want[pair]
		assert.True(t, has, "%s -> %s", pair.First, pair.Second)
		delete(want, pair)
	}
	assert.Empty(t, want)
}

func Test_castMonotonicity(t *testing.T) {
	//ordering-breaking pairs drop to not monotonic
	broken := [][2]common.DataType{
		{common.IntegerType(), common.VarcharType()},
		{common.DecimalType(10, 2), common.VarcharType()},
		{common.DoubleType(), common.VarcharType()},
		{common.IntervalType("year"), common.VarcharType()},
		{common.VarcharType(), common.IntegerType()},
		{common.VarcharType(), common.DecimalType(10, 2)},
		{common.VarcharType(), common.DoubleType()},
		{common.VarcharType(), common.IntervalType("year")},
		{common.TimestampType(), common.TimeType()},
		{common.DateType(), common.TimeType()},
		{common.TimeType(), common.DateType()},
		{common.TimeType(), common.TimestampType()},
	}
	for _, pair := range broken {
		assert.Equal(t, NotMonotonic,
			CastMonotonicity(pair[0], pair[1], StrictlyIncreasing),
			"%s -> %s", pair[0], pair[1])
	}

	//ordering-preserving pairs pass the operand through untouched
	preserved := [][2]common.DataType{
		{common.IntegerType(), common.BigintType()},
		{common.IntegerType(), common.DecimalType(10, 2)},
		{common.IntegerType(), common.DoubleType()},
		{common.DateType(), common.TimestampType()},
		{common.TimestampType(), common.DateType()},
		{common.VarcharType(), common.CharType(10)},
		{common.IntegerType(), common.IntervalType("year")},
	}
	for _, pair := range preserved {
		for _, mono := range []Monotonicity{
			Constant, Increasing, StrictlyIncreasing,
			Decreasing, StrictlyDecreasing, NotMonotonic,
		} {
			assert.Equal(t, mono,
				CastMonotonicity(pair[0], pair[1], mono),
				"%s -> %s %s", pair[0], pair[1], mono)
		}
	}
}

func Test_castMonotonicityCollation(t *testing.T) {
	utf8 := common.VarcharType().WithCollation(common.MakeCollation("utf8", "en"))
	sv := common.VarcharType().WithCollation(common.MakeCollation("utf8", "sv"))

	//a collation change reorders values even inside one family
	assert.Equal(t, NotMonotonic, CastMonotonicity(utf8, sv, StrictlyIncreasing))
	assert.Equal(t, NotMonotonic, CastMonotonicity(utf8, common.VarcharType(), Increasing))

	//identical collations defer to the family table, then the operand
	assert.Equal(t, Increasing, CastMonotonicity(utf8, utf8.WithNullable(true), Increasing))
}

func Test_unstrict(t *testing.T) {
	assert.Equal(t, Increasing, StrictlyIncreasing.Unstrict())
	assert.Equal(t, Decreasing, StrictlyDecreasing.Unstrict())
	assert.Equal(t, Increasing, Increasing.Unstrict())
	assert.Equal(t, Constant, Constant.Unstrict())
	assert.Equal(t, NotMonotonic, NotMonotonic.Unstrict())
}

func Test_castMonotonicityConcurrent(t *testing.T) {
	//shared operators, shared table, one validator per goroutine
	g := errgroup.Group{}
	g.SetLimit(8)
	for i := 0; i < 64; i++ {
		g.Go(func() error {
			valid := NewValidator()
			col := &Expr{
				Typ:     ET_Column,
				DataTyp: common.IntegerType(),
				Table:   "t",
				Name:    "a",
				Mono:    Increasing,
			}
			ret, err := AddCastToType(valid, col, common.VarcharType(), CastStrict)
			if err != nil {
				return err
			}
			if ret.Mono != NotMonotonic {
				return fmt.Errorf("want not_monotonic, got %s", ret.Mono)
			}
			ret, err = AddCastToType(valid, col, common.BigintType(), CastStrict)
			if err != nil {
				return err
			}
			if ret.Mono != Increasing {
				return fmt.Errorf("want increasing, got %s", ret.Mono)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}
