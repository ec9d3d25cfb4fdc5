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

import (
	"fmt"
	"strings"
)

type TypeId int

const (
	TID_INVALID   TypeId = 0
	TID_NULL      TypeId = 1
	TID_UNKNOWN   TypeId = 2
	TID_ANY       TypeId = 3
	TID_BOOLEAN   TypeId = 10
	TID_TINYINT   TypeId = 11
	TID_SMALLINT  TypeId = 12
	TID_INTEGER   TypeId = 13
	TID_BIGINT    TypeId = 14
	TID_DATE      TypeId = 15
	TID_TIME      TypeId = 16
	TID_TIMESTAMP TypeId = 17
	TID_DECIMAL   TypeId = 18
	TID_FLOAT     TypeId = 19
	TID_DOUBLE    TypeId = 20
	TID_CHAR      TypeId = 21
	TID_VARCHAR   TypeId = 22
	TID_BLOB      TypeId = 23
	TID_INTERVAL  TypeId = 24
)

var typeNames = map[TypeId]string{
	TID_INVALID:   "INVALID",
	TID_NULL:      "NULL",
	TID_UNKNOWN:   "UNKNOWN",
	TID_ANY:       "ANY",
	TID_BOOLEAN:   "BOOLEAN",
	TID_TINYINT:   "TINYINT",
	TID_SMALLINT:  "SMALLINT",
	TID_INTEGER:   "INTEGER",
	TID_BIGINT:    "BIGINT",
	TID_DATE:      "DATE",
	TID_TIME:      "TIME",
	TID_TIMESTAMP: "TIMESTAMP",
	TID_DECIMAL:   "DECIMAL",
	TID_FLOAT:     "FLOAT",
	TID_DOUBLE:    "DOUBLE",
	TID_CHAR:      "CHAR",
	TID_VARCHAR:   "VARCHAR",
	TID_BLOB:      "BLOB",
	TID_INTERVAL:  "INTERVAL",
}

func (id TypeId) String() string {
	if name, has := typeNames[id]; has {
		return name
	}
	panic(fmt.Sprintf("usp type id %d", int(id)))
}

// DataType is a resolved SQL type. Width/Scale only matter for
// DECIMAL/VARCHAR/CHAR, Unit only for INTERVAL qualifiers, Coll only
// for character types. Immutable by convention: methods return copies.
type DataType struct {
	Id       TypeId
	Width    int
	Scale    int
	Unit     string
	Nullable bool
	Coll     Collation
}

func MakeType(id TypeId) DataType {
	return DataType{Id: id}
}

func InvalidType() DataType {
	return MakeType(TID_INVALID)
}

func NullType() DataType {
	ret := MakeType(TID_NULL)
	ret.Nullable = true
	return ret
}

func UnknownType() DataType {
	ret := MakeType(TID_UNKNOWN)
	ret.Nullable = true
	return ret
}

func BooleanType() DataType {
	return MakeType(TID_BOOLEAN)
}

func TinyintType() DataType {
	return MakeType(TID_TINYINT)
}

func SmallintType() DataType {
	return MakeType(TID_SMALLINT)
}

func IntegerType() DataType {
	return MakeType(TID_INTEGER)
}

func BigintType() DataType {
	return MakeType(TID_BIGINT)
}

func FloatType() DataType {
	return MakeType(TID_FLOAT)
}

func DoubleType() DataType {
	return MakeType(TID_DOUBLE)
}

func DecimalType(width, scale int) DataType {
	ret := MakeType(TID_DECIMAL)
	ret.Width = width
	ret.Scale = scale
	return ret
}

func VarcharType() DataType {
	return MakeType(TID_VARCHAR)
}

func VarcharType2(width int) DataType {
	ret := MakeType(TID_VARCHAR)
	ret.Width = width
	return ret
}

func CharType(width int) DataType {
	ret := MakeType(TID_CHAR)
	ret.Width = width
	return ret
}

func BlobType() DataType {
	return MakeType(TID_BLOB)
}

func DateType() DataType {
	return MakeType(TID_DATE)
}

func TimeType() DataType {
	return MakeType(TID_TIME)
}

func TimestampType() DataType {
	return MakeType(TID_TIMESTAMP)
}

// IntervalType builds an interval qualifier type. unit is one of
// year, month, day.
func IntervalType(unit string) DataType {
	ret := MakeType(TID_INTERVAL)
	ret.Unit = strings.ToLower(unit)
	return ret
}

func (dt DataType) WithNullable(nullable bool) DataType {
	ret := dt
	ret.Nullable = nullable
	return ret
}

func (dt DataType) WithCollation(coll Collation) DataType {
	ret := dt
	ret.Coll = coll
	return ret
}

func (dt DataType) IsInterval() bool {
	return dt.Id == TID_INTERVAL
}

func (dt DataType) IsCharacter() bool {
	switch dt.Id {
	case TID_CHAR, TID_VARCHAR:
		return true
	default:
		return false
	}
}

var numericIds = map[TypeId]int{
	TID_TINYINT:  0,
	TID_SMALLINT: 0,
	TID_INTEGER:  0,
	TID_BIGINT:   0,
	TID_FLOAT:    0,
	TID_DOUBLE:   0,
	TID_DECIMAL:  0,
}

func (dt DataType) IsNumeric() bool {
	if _, has := numericIds[dt.Id]; has {
		return true
	}
	return false
}

var integralIds = map[TypeId]int{
	TID_TINYINT:  0,
	TID_SMALLINT: 0,
	TID_INTEGER:  0,
	TID_BIGINT:   0,
}

func (dt DataType) IsIntegral() bool {
	if _, has := integralIds[dt.Id]; has {
		return true
	}
	return false
}

// Equal ignores nullability. Width/Scale only count where they are
// part of the type.
func (dt DataType) Equal(o DataType) bool {
	if dt.Id != o.Id {
		return false
	}
	switch dt.Id {
	case TID_DECIMAL:
		return dt.Width == o.Width && dt.Scale == o.Scale
	case TID_CHAR, TID_VARCHAR:
		return dt.Width == o.Width && dt.Coll == o.Coll
	case TID_INTERVAL:
		return dt.Unit == o.Unit
	default:
	}
	return true
}

// String is the short form. It names the type and its parameters but
// hides charset/collation and nullability.
func (dt DataType) String() string {
	switch dt.Id {
	case TID_DECIMAL:
		return fmt.Sprintf("DECIMAL(%d,%d)", dt.Width, dt.Scale)
	case TID_CHAR, TID_VARCHAR:
		if dt.Width > 0 {
			return fmt.Sprintf("%s(%d)", dt.Id, dt.Width)
		}
		return dt.Id.String()
	case TID_INTERVAL:
		if len(dt.Unit) != 0 {
			return fmt.Sprintf("INTERVAL %s", strings.ToUpper(dt.Unit))
		}
		return "INTERVAL"
	default:
		return dt.Id.String()
	}
}

// FullString adds charset/collation attributes and nullability. Error
// messages about character set conflicts use it so the mismatch shows
// up in the text.
func (dt DataType) FullString() string {
	sb := strings.Builder{}
	sb.WriteString(dt.String())
	if dt.IsCharacter() && dt.Coll.Valid() {
		sb.WriteString(fmt.Sprintf(" CHARACTER SET \"%s\"", dt.Coll.Charset))
		sb.WriteString(fmt.Sprintf(" COLLATE \"%s\"", dt.Coll.Locale))
	}
	if !dt.Nullable {
		sb.WriteString(" NOT NULL")
	}
	return sb.String()
}
