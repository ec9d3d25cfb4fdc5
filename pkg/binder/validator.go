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
	"unsafe"

	treemap "github.com/liyue201/gostl/ds/map"

	"github.com/daviszhen/typecheck/pkg/common"
	"github.com/daviszhen/typecheck/pkg/util"
)

// Validator keeps the resolved type of every checked node. Operators
// stay stateless; this is the one place per-node state lives.
type Validator struct {
	lock  *util.ReentryLock
	types *treemap.Map[*Expr, common.DataType]
}

func NewValidator() *Validator {
	cmp := func(a, b *Expr) int {
		pa := uintptr(unsafe.Pointer(a))
		pb := uintptr(unsafe.Pointer(b))
		if pa < pb {
			return -1
		} else if pa > pb {
			return 1
		}
		return 0
	}
	return &Validator{
		lock:  util.NewReentryLock(),
		types: treemap.New[*Expr, common.DataType](cmp),
	}
}

func (valid *Validator) SetNodeType(e *Expr, typ common.DataType) {
	util.AssertFunc(e != nil)
	valid.lock.Lock()
	defer valid.lock.Unlock()
	valid.types.Insert(e, typ)
}

func (valid *Validator) NodeType(e *Expr) (common.DataType, bool) {
	valid.lock.Lock()
	defer valid.lock.Unlock()
	typ, err := valid.types.Get(e)
	if err != nil {
		return common.InvalidType(), false
	}
	return typ, true
}

// IsNullLiteral is true for a NULL constant whose type has not been
// supplied by any context yet.
func (valid *Validator) IsNullLiteral(e *Expr) bool {
	if e == nil || e.Typ != ET_NConst {
		return false
	}
	_, has := valid.NodeType(e)
	return !has
}

// IsUnresolvedParam is true for a dynamic parameter that no context
// has typed yet.
func (valid *Validator) IsUnresolvedParam(e *Expr) bool {
	if e == nil || e.Typ != ET_Param {
		return false
	}
	_, has := valid.NodeType(e)
	return !has
}
