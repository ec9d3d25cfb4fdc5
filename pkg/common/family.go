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

package common

import "fmt"

// TypeFamily is the coarse classification cast legality works on.
// TF_NUMERIC and TF_DATETIME are umbrella families: TF_NUMERIC covers
// the exact and approximate numerics, TF_DATETIME covers date, time
// and timestamp.
type TypeFamily int

const (
	TF_INVALID TypeFamily = iota
	TF_NULL
	TF_ANY
	TF_BOOLEAN
	TF_EXACT_NUMERIC
	TF_APPROX_NUMERIC
	TF_NUMERIC
	TF_CHARACTER
	TF_BINARY
	TF_DATE
	TF_TIME
	TF_TIMESTAMP
	TF_DATETIME
	TF_INTERVAL
)

var familyNames = map[TypeFamily]string{
	TF_INVALID:        "INVALID",
	TF_NULL:           "NULL",
	TF_ANY:            "ANY",
	TF_BOOLEAN:        "BOOLEAN",
	TF_EXACT_NUMERIC:  "EXACT_NUMERIC",
	TF_APPROX_NUMERIC: "APPROX_NUMERIC",
	TF_NUMERIC:        "NUMERIC",
	TF_CHARACTER:      "CHARACTER",
	TF_BINARY:         "BINARY",
	TF_DATE:           "DATE",
	TF_TIME:           "TIME",
	TF_TIMESTAMP:      "TIMESTAMP",
	TF_DATETIME:       "DATETIME",
	TF_INTERVAL:       "INTERVAL",
}

func (tf TypeFamily) String() string {
	if name, has := familyNames[tf]; has {
		return name
	}
	panic(fmt.Sprintf("usp type family %d", int(tf)))
}

var typeFamilies = map[TypeId]TypeFamily{
	TID_NULL:      TF_NULL,
	TID_UNKNOWN:   TF_ANY,
	TID_ANY:       TF_ANY,
	TID_BOOLEAN:   TF_BOOLEAN,
	TID_TINYINT:   TF_EXACT_NUMERIC,
	TID_SMALLINT:  TF_EXACT_NUMERIC,
	TID_INTEGER:   TF_EXACT_NUMERIC,
	TID_BIGINT:    TF_EXACT_NUMERIC,
	TID_DECIMAL:   TF_NUMERIC,
	TID_FLOAT:     TF_APPROX_NUMERIC,
	TID_DOUBLE:    TF_APPROX_NUMERIC,
	TID_CHAR:      TF_CHARACTER,
	TID_VARCHAR:   TF_CHARACTER,
	TID_BLOB:      TF_BINARY,
	TID_DATE:      TF_DATE,
	TID_TIME:      TF_TIME,
	TID_TIMESTAMP: TF_TIMESTAMP,
	TID_INTERVAL:  TF_INTERVAL,
}

func (dt DataType) Family() TypeFamily {
	if fam, has := typeFamilies[dt.Id]; has {
		return fam
	}
	return TF_INVALID
}

// Umbrella lifts a family to its umbrella family. Families without an
// umbrella lift to themselves.
func (tf TypeFamily) Umbrella() TypeFamily {
	switch tf {
	case TF_EXACT_NUMERIC, TF_APPROX_NUMERIC:
		return TF_NUMERIC
	case TF_DATE, TF_TIME, TF_TIMESTAMP:
		return TF_DATETIME
	default:
		return tf
	}
}

// castableFrom lists, per target family, the source families a CAST
// may convert out of. Identity pairs are listed so that lookup alone
// decides.
var boolCastFrom = map[TypeFamily]int{
	TF_BOOLEAN:   0,
	TF_CHARACTER: 0,
}

var exactNumericCastFrom = map[TypeFamily]int{
	TF_EXACT_NUMERIC:  0,
	TF_APPROX_NUMERIC: 0,
	TF_NUMERIC:        0,
	TF_CHARACTER:      0,
	TF_INTERVAL:       0,
	TF_BOOLEAN:        0,
}

var approxNumericCastFrom = map[TypeFamily]int{
	TF_EXACT_NUMERIC:  0,
	TF_APPROX_NUMERIC: 0,
	TF_NUMERIC:        0,
	TF_CHARACTER:      0,
	TF_BOOLEAN:        0,
}

var characterCastFrom = map[TypeFamily]int{
	TF_BOOLEAN:        0,
	TF_EXACT_NUMERIC:  0,
	TF_APPROX_NUMERIC: 0,
	TF_NUMERIC:        0,
	TF_CHARACTER:      0,
	TF_BINARY:         0,
	TF_DATE:           0,
	TF_TIME:           0,
	TF_TIMESTAMP:      0,
	TF_DATETIME:       0,
	TF_INTERVAL:       0,
}

var binaryCastFrom = map[TypeFamily]int{
	TF_BINARY:    0,
	TF_CHARACTER: 0,
}

var dateCastFrom = map[TypeFamily]int{
	TF_DATE:      0,
	TF_TIMESTAMP: 0,
	TF_DATETIME:  0,
	TF_CHARACTER: 0,
}

var timeCastFrom = map[TypeFamily]int{
	TF_TIME:      0,
	TF_TIMESTAMP: 0,
	TF_DATETIME:  0,
	TF_CHARACTER: 0,
}

var timestampCastFrom = map[TypeFamily]int{
	TF_TIMESTAMP: 0,
	TF_DATE:      0,
	TF_TIME:      0,
	TF_DATETIME:  0,
	TF_CHARACTER: 0,
}

var datetimeCastFrom = map[TypeFamily]int{
	TF_DATE:      0,
	TF_TIME:      0,
	TF_TIMESTAMP: 0,
	TF_DATETIME:  0,
	TF_CHARACTER: 0,
}

var intervalCastFrom = map[TypeFamily]int{
	TF_INTERVAL:      0,
	TF_EXACT_NUMERIC: 0,
	TF_NUMERIC:       0,
	TF_CHARACTER:     0,
}

var castFromFamilies = map[TypeFamily]map[TypeFamily]int{
	TF_BOOLEAN:        boolCastFrom,
	TF_EXACT_NUMERIC:  exactNumericCastFrom,
	TF_NUMERIC:        exactNumericCastFrom,
	TF_APPROX_NUMERIC: approxNumericCastFrom,
	TF_CHARACTER:      characterCastFrom,
	TF_BINARY:         binaryCastFrom,
	TF_DATE:           dateCastFrom,
	TF_TIME:           timeCastFrom,
	TF_TIMESTAMP:      timestampCastFrom,
	TF_DATETIME:       datetimeCastFrom,
	TF_INTERVAL:       intervalCastFrom,
}

// CanCastFrom reports whether a value of type from can be produced as
// type to. The decision is family level: exact widths, scales and
// collations do not matter here.
func CanCastFrom(to, from DataType) bool {
	fromFam := from.Family()
	toFam := to.Family()
	if fromFam == TF_NULL || fromFam == TF_ANY {
		// NULL and untyped parameters become anything
		return true
	}
	if toFam == TF_ANY {
		return true
	}
	if fromFam == toFam {
		return true
	}
	allowed, has := castFromFamilies[toFam]
	if !has {
		return false
	}
	if _, ok := allowed[fromFam]; ok {
		return true
	}
	return false
}

// CharsetMismatch reports whether two types carry conflicting character
// sets. Non-character pairs never mismatch, so the check is safe to run
// unconditionally after castability passes.
func CharsetMismatch(a, b DataType) bool {
	if !a.IsCharacter() || !b.IsCharacter() {
		return false
	}
	if len(a.Coll.Charset) == 0 || len(b.Coll.Charset) == 0 {
		return false
	}
	return a.Coll.Charset != b.Coll.Charset
}
