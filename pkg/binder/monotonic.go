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

	"github.com/tidwall/btree"

	"github.com/daviszhen/typecheck/pkg/common"
	"github.com/daviszhen/typecheck/pkg/util"
)

type Monotonicity int

const (
	NotMonotonic Monotonicity = iota
	Constant
	Increasing
	StrictlyIncreasing
	Decreasing
	StrictlyDecreasing
)

func (m Monotonicity) String() string {
	switch m {
	case NotMonotonic:
		return "not_monotonic"
	case Constant:
		return "constant"
	case Increasing:
		return "increasing"
	case StrictlyIncreasing:
		return "strictly_increasing"
	case Decreasing:
		return "decreasing"
	case StrictlyDecreasing:
		return "strictly_decreasing"
	default:
		panic(fmt.Sprintf("usp monotonicity %d", int(m)))
	}
}

// Unstrict maps the strict directions to their plain forms.
func (m Monotonicity) Unstrict() Monotonicity {
	switch m {
	case StrictlyIncreasing:
		return Increasing
	case StrictlyDecreasing:
		return Decreasing
	default:
		return m
	}
}

type familyPair struct {
	from common.TypeFamily
	to   common.TypeFamily
}

func familyPairLess(a, b familyPair) bool {
	if a.from != b.from {
		return a.from < b.from
	}
	return a.to < b.to
}

// nonMonotonicCasts holds every family pair whose cast breaks the
// operand's ordering even though both sides order fine on their own.
// Built once, read-only afterwards, shared without locking.
var nonMonotonicCasts *btree.BTreeG[familyPair]

func init() {
	nonMonotonicCasts = btree.NewBTreeG[familyPair](familyPairLess)
	pairs := []familyPair{
		{common.TF_EXACT_NUMERIC, common.TF_CHARACTER},
		{common.TF_NUMERIC, common.TF_CHARACTER},
		{common.TF_APPROX_NUMERIC, common.TF_CHARACTER},
		{common.TF_INTERVAL, common.TF_CHARACTER},
		{common.TF_CHARACTER, common.TF_EXACT_NUMERIC},
		{common.TF_CHARACTER, common.TF_NUMERIC},
		{common.TF_CHARACTER, common.TF_APPROX_NUMERIC},
		{common.TF_CHARACTER, common.TF_INTERVAL},
		{common.TF_DATETIME, common.TF_TIME},
		{common.TF_TIMESTAMP, common.TF_TIME},
		{common.TF_TIME, common.TF_DATETIME},
		{common.TF_TIME, common.TF_TIMESTAMP},
	}
	for _, p := range pairs {
		nonMonotonicCasts.Set(p)
	}
}

// NonMonotonicCastPairs snapshots the table, in order.
func NonMonotonicCastPairs() []util.Pair[common.TypeFamily, common.TypeFamily] {
	ret := make([]util.Pair[common.TypeFamily, common.TypeFamily], 0, nonMonotonicCasts.Len())
	nonMonotonicCasts.Scan(func(p familyPair) bool {
		ret = append(ret, util.Pair[common.TypeFamily, common.TypeFamily]{
			First:  p.from,
			Second: p.to,
		})
		return true
	})
	return ret
}

// isNonMonotonicCast also tries the umbrella families, so an entry
// like NUMERIC->CHARACTER covers every numeric source.
func isNonMonotonicCast(from, to common.TypeFamily) bool {
	for _, f := range [2]common.TypeFamily{from, from.Umbrella()} {
		for _, t := range [2]common.TypeFamily{to, to.Umbrella()} {
			if _, has := nonMonotonicCasts.Get(familyPair{from: f, to: t}); has {
				return true
			}
		}
	}
	return false
}

// CastMonotonicity decides whether a cast is transparent to ordering.
// A collation change reorders values no matter what the families say,
// so it is checked first.
func CastMonotonicity(from, to common.DataType, operand Monotonicity) Monotonicity {
	if !from.Coll.Equal(to.Coll) {
		return NotMonotonic
	}
	if isNonMonotonicCast(from.Family(), to.Family()) {
		return NotMonotonic
	}
	return operand
}
