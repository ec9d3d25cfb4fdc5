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

package catalog

import (
	"fmt"

	pqLocal "github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	pqReader "github.com/xitongsys/parquet-go/reader"

	"github.com/daviszhen/typecheck/pkg/common"
)

// FromParquet builds a table definition from the schema of a parquet
// file. Only flat schemas are supported. Group nodes other than the
// root raise an error.
func FromParquet(name, path string) (*Table, error) {
	file, err := pqLocal.NewLocalFileReader(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rdr, err := pqReader.NewParquetColumnReader(file, 1)
	if err != nil {
		return nil, err
	}
	defer rdr.ReadStop()

	elems := rdr.Footer.Schema
	if len(elems) == 0 {
		return nil, fmt.Errorf("parquet file %s has empty schema", path)
	}

	cols := make([]*Column, 0, len(elems)-1)
	for _, elem := range elems[1:] {
		if elem.NumChildren != nil && *elem.NumChildren > 0 {
			return nil, fmt.Errorf("nested column %s in %s", elem.Name, path)
		}
		typ, err := parquetElemToType(elem)
		if err != nil {
			return nil, err
		}
		cols = append(cols, &Column{
			Name: elem.Name,
			Typ:  typ,
		})
	}
	return NewTable(name, cols), nil
}

func parquetElemToType(elem *parquet.SchemaElement) (common.DataType, error) {
	nullable := elem.RepetitionType == nil ||
		*elem.RepetitionType == parquet.FieldRepetitionType_OPTIONAL

	var typ common.DataType
	switch elem.GetType() {
	case parquet.Type_BOOLEAN:
		typ = common.BooleanType()
	case parquet.Type_INT32:
		typ = common.IntegerType()
		if elem.ConvertedType != nil {
			switch *elem.ConvertedType {
			case parquet.ConvertedType_DATE:
				typ = common.DateType()
			case parquet.ConvertedType_TIME_MILLIS:
				typ = common.TimeType()
			case parquet.ConvertedType_DECIMAL:
				typ = common.DecimalType(int(elem.GetPrecision()), int(elem.GetScale()))
			case parquet.ConvertedType_INT_8:
				typ = common.TinyintType()
			case parquet.ConvertedType_INT_16:
				typ = common.SmallintType()
			}
		}
	case parquet.Type_INT64:
		typ = common.BigintType()
		if elem.ConvertedType != nil {
			switch *elem.ConvertedType {
			case parquet.ConvertedType_TIMESTAMP_MILLIS,
				parquet.ConvertedType_TIMESTAMP_MICROS:
				typ = common.TimestampType()
			case parquet.ConvertedType_DECIMAL:
				typ = common.DecimalType(int(elem.GetPrecision()), int(elem.GetScale()))
			}
		}
	case parquet.Type_FLOAT:
		typ = common.FloatType()
	case parquet.Type_DOUBLE:
		typ = common.DoubleType()
	case parquet.Type_BYTE_ARRAY, parquet.Type_FIXED_LEN_BYTE_ARRAY:
		typ = common.BlobType()
		if elem.ConvertedType != nil {
			switch *elem.ConvertedType {
			case parquet.ConvertedType_UTF8:
				if elem.TypeLength != nil {
					typ = common.VarcharType2(int(elem.GetTypeLength()))
				} else {
					typ = common.VarcharType()
				}
			case parquet.ConvertedType_DECIMAL:
				typ = common.DecimalType(int(elem.GetPrecision()), int(elem.GetScale()))
			}
		}
	default:
		return common.DataType{}, fmt.Errorf("unsupported parquet type %s for column %s",
			elem.GetType(), elem.Name)
	}
	return typ.WithNullable(nullable), nil
}
