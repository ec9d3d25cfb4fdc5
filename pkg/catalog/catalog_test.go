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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviszhen/typecheck/pkg/common"
)

func Test_tableLookup(t *testing.T) {
	table := NewTable("orders", []*Column{
		{Name: "o_orderkey", Typ: common.IntegerType(), Ordered: true},
		{Name: "o_comment", Typ: common.VarcharType2(79).WithNullable(true)},
	})
	assert.Equal(t, "orders", table.Name())
	assert.Equal(t, 2, len(table.Columns()))

	col, has := table.Column("o_orderkey")
	require.True(t, has)
	assert.Equal(t, common.TID_INTEGER, col.Typ.Id)
	assert.True(t, col.Ordered)

	col, has = table.Column("o_comment")
	require.True(t, has)
	assert.Equal(t, 79, col.Typ.Width)
	assert.False(t, col.Ordered)

	_, has = table.Column("nope")
	assert.False(t, has)
}

func Test_catalog(t *testing.T) {
	cat := NewCatalog()
	table := NewTable("orders", []*Column{
		{Name: "o_orderkey", Typ: common.IntegerType()},
	})
	require.NoError(t, cat.Add(table))

	got, has := cat.Table("orders")
	require.True(t, has)
	assert.Same(t, table, got)

	_, has = cat.Table("lineitem")
	assert.False(t, has)

	//duplicate registration is an error
	err := cat.Add(NewTable("orders", nil))
	assert.Error(t, err)
}
