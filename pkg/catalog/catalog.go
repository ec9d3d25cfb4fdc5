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

	"github.com/tidwall/btree"

	"github.com/daviszhen/typecheck/pkg/common"
)

type Column struct {
	Name string
	Typ  common.DataType
	// Ordered marks a column the storage keeps sorted. The binder
	// seeds its monotonicity from it.
	Ordered bool
}

type colEntry struct {
	_name string
	_pos  int
}

func colEntryLess(a, b *colEntry) bool {
	return a._name < b._name
}

type Table struct {
	_name    string
	_cols    []*Column
	_nameIdx *btree.BTreeG[*colEntry]
}

func NewTable(name string, cols []*Column) *Table {
	ret := &Table{
		_name:    name,
		_cols:    cols,
		_nameIdx: btree.NewBTreeG[*colEntry](colEntryLess),
	}
	for i, col := range cols {
		ret._nameIdx.Set(&colEntry{_name: col.Name, _pos: i})
	}
	return ret
}

func (table *Table) Name() string {
	return table._name
}

func (table *Table) Columns() []*Column {
	return table._cols
}

func (table *Table) Column(name string) (*Column, bool) {
	ent, has := table._nameIdx.Get(&colEntry{_name: name})
	if !has {
		return nil, false
	}
	return table._cols[ent._pos], true
}

type Catalog struct {
	_tables map[string]*Table
}

func NewCatalog() *Catalog {
	return &Catalog{
		_tables: make(map[string]*Table),
	}
}

func (cat *Catalog) Add(table *Table) error {
	if _, has := cat._tables[table._name]; has {
		return fmt.Errorf("table %s already registered", table._name)
	}
	cat._tables[table._name] = table
	return nil
}

func (cat *Catalog) Table(name string) (*Table, bool) {
	table, has := cat._tables[name]
	return table, has
}
