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
	"math"
	"strconv"
	"strings"
	"time"

	dec "github.com/govalues/decimal"
)

// Value is a constant scalar. Only the slot matching Typ is meaningful.
type Value struct {
	Typ    DataType
	IsNull bool
	I64    int64
	F64    float64
	Str    string
	Bool   bool
	Dec    dec.Decimal
	// interval slots
	Unit   string
	Months int32
	Days   int32
}

func NullValue(typ DataType) Value {
	return Value{Typ: typ.WithNullable(true), IsNull: true}
}

func IntegerValue(typ DataType, v int64) Value {
	return Value{Typ: typ, I64: v}
}

func FloatValue(typ DataType, v float64) Value {
	return Value{Typ: typ, F64: v}
}

func StringValue(typ DataType, v string) Value {
	return Value{Typ: typ, Str: v}
}

func BoolValue(v bool) Value {
	return Value{Typ: BooleanType(), Bool: v}
}

func DecimalValue(typ DataType, v dec.Decimal) Value {
	return Value{Typ: typ, Dec: v}
}

func (v Value) String() string {
	if v.IsNull {
		return "NULL"
	}
	switch v.Typ.Id {
	case TID_TINYINT, TID_SMALLINT, TID_INTEGER, TID_BIGINT:
		return strconv.FormatInt(v.I64, 10)
	case TID_FLOAT, TID_DOUBLE:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case TID_DECIMAL:
		return v.Dec.String()
	case TID_CHAR, TID_VARCHAR:
		return v.Str
	case TID_BOOLEAN:
		return strconv.FormatBool(v.Bool)
	case TID_DATE, TID_TIME, TID_TIMESTAMP:
		return v.Str
	case TID_INTERVAL:
		return fmt.Sprintf("%d %s", v.I64, v.Unit)
	default:
		return fmt.Sprintf("?%v?", v.Typ)
	}
}

var intRanges = map[TypeId][2]int64{
	TID_TINYINT:  {math.MinInt8, math.MaxInt8},
	TID_SMALLINT: {math.MinInt16, math.MaxInt16},
	TID_INTEGER:  {math.MinInt32, math.MaxInt32},
	TID_BIGINT:   {math.MinInt64, math.MaxInt64},
}

func fitsInt(id TypeId, v int64) bool {
	r, has := intRanges[id]
	if !has {
		return false
	}
	return v >= r[0] && v <= r[1]
}

// CastValue converts a constant to dst. try selects null-on-failure
// over an error. The derived nullability rule still applies: a try
// cast result is always nullable.
func CastValue(v Value, dst DataType, try bool) (Value, error) {
	resTyp := dst.WithNullable(v.Typ.Nullable || try)
	if v.IsNull {
		return NullValue(resTyp), nil
	}
	ret, ok := castValue(v, resTyp)
	if !ok {
		if try {
			return NullValue(resTyp), nil
		}
		return Value{}, fmt.Errorf("cannot cast value '%s' of type %s to %s",
			v.String(), v.Typ.String(), dst.String())
	}
	return ret, nil
}

func castValue(v Value, dst DataType) (Value, bool) {
	//decimal identity still rescales, the others relabel
	if v.Typ.Id == dst.Id && dst.Id != TID_DECIMAL {
		ret := v
		ret.Typ = dst
		return ret, true
	}
	switch dst.Id {
	case TID_TINYINT, TID_SMALLINT, TID_INTEGER, TID_BIGINT:
		return castToIntegral(v, dst)
	case TID_FLOAT, TID_DOUBLE:
		return castToFloat(v, dst)
	case TID_DECIMAL:
		return castToDecimal(v, dst)
	case TID_CHAR, TID_VARCHAR:
		ret := StringValue(dst, v.String())
		return ret, true
	case TID_BOOLEAN:
		return castToBoolean(v, dst)
	case TID_DATE:
		return castToDate(v, dst)
	case TID_TIMESTAMP:
		return castToTimestamp(v, dst)
	case TID_INTERVAL:
		return castToInterval(v, dst)
	default:
		return Value{}, false
	}
}

func castToIntegral(v Value, dst DataType) (Value, bool) {
	var i64 int64
	switch v.Typ.Id {
	case TID_TINYINT, TID_SMALLINT, TID_INTEGER, TID_BIGINT:
		i64 = v.I64
	case TID_FLOAT, TID_DOUBLE:
		if math.IsNaN(v.F64) || math.IsInf(v.F64, 0) {
			return Value{}, false
		}
		i64 = int64(math.RoundToEven(v.F64))
	case TID_DECIMAL:
		w, _, ok := v.Dec.Int64(0)
		if !ok {
			return Value{}, false
		}
		i64 = w
	case TID_CHAR, TID_VARCHAR:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		if err != nil {
			return Value{}, false
		}
		i64 = parsed
	case TID_BOOLEAN:
		if v.Bool {
			i64 = 1
		}
	default:
		return Value{}, false
	}
	if !fitsInt(dst.Id, i64) {
		return Value{}, false
	}
	return IntegerValue(dst, i64), true
}

func castToFloat(v Value, dst DataType) (Value, bool) {
	var f64 float64
	switch v.Typ.Id {
	case TID_TINYINT, TID_SMALLINT, TID_INTEGER, TID_BIGINT:
		f64 = float64(v.I64)
	case TID_FLOAT, TID_DOUBLE:
		f64 = v.F64
	case TID_DECIMAL:
		val, ok := v.Dec.Float64()
		if !ok {
			return Value{}, false
		}
		f64 = val
	case TID_CHAR, TID_VARCHAR:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return Value{}, false
		}
		f64 = parsed
	default:
		return Value{}, false
	}
	if dst.Id == TID_FLOAT {
		f64 = float64(float32(f64))
	}
	return FloatValue(dst, f64), true
}

func castToDecimal(v Value, dst DataType) (Value, bool) {
	var nDec dec.Decimal
	var err error
	switch v.Typ.Id {
	case TID_TINYINT, TID_SMALLINT, TID_INTEGER, TID_BIGINT:
		nDec, err = dec.NewFromInt64(v.I64, 0, dst.Scale)
	case TID_FLOAT, TID_DOUBLE:
		nDec, err = dec.ParseExact(strconv.FormatFloat(v.F64, 'f', dst.Scale, 64), dst.Scale)
	case TID_DECIMAL:
		w, f, ok := v.Dec.Int64(dst.Scale)
		if ok {
			nDec, err = dec.NewFromInt64(w, f, dst.Scale)
		} else {
			nDec, err = dec.ParseExact(v.Dec.String(), dst.Scale)
		}
	case TID_CHAR, TID_VARCHAR:
		nDec, err = dec.ParseExact(strings.TrimSpace(v.Str), dst.Scale)
	default:
		return Value{}, false
	}
	if err != nil {
		return Value{}, false
	}
	if nDec.Prec() > dst.Width {
		return Value{}, false
	}
	return DecimalValue(dst, nDec), true
}

func castToBoolean(v Value, dst DataType) (Value, bool) {
	switch v.Typ.Id {
	case TID_BOOLEAN:
		return BoolValue(v.Bool), true
	case TID_CHAR, TID_VARCHAR:
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "true", "t", "1":
			ret := BoolValue(true)
			ret.Typ = dst
			return ret, true
		case "false", "f", "0":
			ret := BoolValue(false)
			ret.Typ = dst
			return ret, true
		default:
			return Value{}, false
		}
	default:
		return Value{}, false
	}
}

func castToDate(v Value, dst DataType) (Value, bool) {
	switch v.Typ.Id {
	case TID_CHAR, TID_VARCHAR:
		ti, err := time.Parse(time.DateOnly, strings.TrimSpace(v.Str))
		if err != nil {
			return Value{}, false
		}
		ret := StringValue(dst, ti.Format(time.DateOnly))
		ret.I64 = ti.Unix()
		return ret, true
	case TID_TIMESTAMP:
		ti := time.Unix(v.I64, 0).UTC()
		ret := StringValue(dst, ti.Format(time.DateOnly))
		ret.I64 = ti.Truncate(24 * time.Hour).Unix()
		return ret, true
	default:
		return Value{}, false
	}
}

func castToTimestamp(v Value, dst DataType) (Value, bool) {
	switch v.Typ.Id {
	case TID_CHAR, TID_VARCHAR:
		s := strings.TrimSpace(v.Str)
		ti, err := time.Parse(time.DateTime, s)
		if err != nil {
			ti, err = time.Parse(time.DateOnly, s)
			if err != nil {
				return Value{}, false
			}
		}
		ret := StringValue(dst, ti.Format(time.DateTime))
		ret.I64 = ti.Unix()
		return ret, true
	case TID_DATE, TID_TIME:
		ret := v
		ret.Typ = dst
		return ret, true
	default:
		return Value{}, false
	}
}

func castToInterval(v Value, dst DataType) (Value, bool) {
	switch v.Typ.Id {
	case TID_TINYINT, TID_SMALLINT, TID_INTEGER, TID_BIGINT:
		ret := IntegerValue(dst, v.I64)
		ret.Unit = dst.Unit
		return ret, true
	case TID_CHAR, TID_VARCHAR:
		seps := strings.Split(strings.TrimSpace(v.Str), " ")
		if len(seps) != 2 {
			return Value{}, false
		}
		cnt, err := strconv.ParseInt(seps[0], 10, 64)
		if err != nil {
			return Value{}, false
		}
		unit := strings.ToLower(seps[1])
		switch unit {
		case "year", "month", "day":
		default:
			return Value{}, false
		}
		ret := IntegerValue(dst, cnt)
		ret.Unit = unit
		return ret, true
	default:
		return Value{}, false
	}
}
