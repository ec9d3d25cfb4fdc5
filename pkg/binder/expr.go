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
	"strings"

	"github.com/huandu/go-clone"
	"github.com/xlab/treeprint"

	"github.com/daviszhen/typecheck/pkg/common"
)

type ET int

const (
	ET_Column ET = iota

	ET_IConst //integer
	ET_FConst //float
	ET_SConst //string
	ET_BConst //bool
	ET_DecConst
	ET_NConst //null literal, untyped until context supplies a type
	ET_Param  //dynamic parameter $n

	ET_Func
	ET_TypeSpec //target type operand of a cast
)

type ET_SubTyp int

const (
	ET_Invalid ET_SubTyp = iota
	ET_SubFunc
	ET_Cast
	ET_TryCast
)

func (et ET_SubTyp) String() string {
	switch et {
	case ET_SubFunc:
		return "function"
	case ET_Cast:
		return "cast"
	case ET_TryCast:
		return "try_cast"
	default:
		panic(fmt.Sprintf("usp %v", int(et)))
	}
}

type Expr struct {
	Typ     ET
	SubTyp  ET_SubTyp
	DataTyp common.DataType

	Children []*Expr

	Table    string // column
	Name     string // column
	Alias    string
	Svalue   string
	Ivalue   int64
	Fvalue   float64
	Bvalue   bool
	ParamIdx int
	Mono     Monotonicity

	Const   *common.Value //folded constant
	FunImpl *Function
}

func (e *Expr) copy() *Expr {
	if e == nil {
		return nil
	}
	return clone.Clone(e).(*Expr)
}

// IsIntervalQualifier is true for a type-spec operand that names an
// interval unit. The renderer keys the INTERVAL keyword off it.
func (e *Expr) IsIntervalQualifier() bool {
	return e.Typ == ET_TypeSpec && e.DataTyp.IsInterval()
}

func (e *Expr) Format(ctx *FormatCtx) {
	if e == nil {
		ctx.Write("")
		return
	}
	switch e.Typ {
	case ET_Column:
		if len(e.Table) != 0 {
			ctx.Writef("%s.%s", e.Table, e.Name)
		} else {
			ctx.Write(e.Name)
		}
	case ET_SConst:
		ctx.Writef("'%s'", e.Svalue)
	case ET_IConst:
		ctx.Writef("%d", e.Ivalue)
	case ET_FConst:
		ctx.Writef("%v", e.Fvalue)
	case ET_BConst:
		ctx.Writef("%v", e.Bvalue)
	case ET_DecConst:
		ctx.Write(e.Svalue)
	case ET_NConst:
		ctx.Write("NULL")
	case ET_Param:
		ctx.Writef("$%d", e.ParamIdx)
	case ET_TypeSpec:
		if e.DataTyp.IsInterval() {
			//the unit only. the cast renderer writes the INTERVAL keyword
			ctx.Write(strings.ToUpper(e.DataTyp.Unit))
		} else {
			ctx.Write(e.DataTyp.String())
		}
	case ET_Func:
		switch e.SubTyp {
		case ET_Cast, ET_TryCast:
			e.FunImpl.CastImpl().Unparse(ctx, e)
		default:
			ctx.Write(e.FunImpl.Name())
			ctx.Write("(")
			for i, child := range e.Children {
				if i > 0 {
					ctx.Write(", ")
				}
				child.Format(ctx)
			}
			ctx.Write(")")
		}
	default:
		panic(fmt.Sprintf("usp expr type %d", e.Typ))
	}
}

func (e *Expr) String() string {
	ctx := &FormatCtx{}
	e.Format(ctx)
	return ctx.String()
}

func (e *Expr) Print(tree treeprint.Tree, meta string) {
	if e == nil {
		return
	}
	head := appendMeta(meta, e.DataTyp.String())
	switch e.Typ {
	case ET_Column:
		tree.AddMetaNode(head, fmt.Sprintf("(%s.%s)", e.Table, e.Name))
	case ET_SConst:
		tree.AddMetaNode(head, fmt.Sprintf("(%s)", e.Svalue))
	case ET_IConst:
		tree.AddMetaNode(head, fmt.Sprintf("(%d)", e.Ivalue))
	case ET_FConst:
		tree.AddMetaNode(head, fmt.Sprintf("(%v)", e.Fvalue))
	case ET_BConst:
		tree.AddMetaNode(head, fmt.Sprintf("(%v)", e.Bvalue))
	case ET_DecConst:
		tree.AddMetaNode(head, fmt.Sprintf("(%s %d %d)", e.Svalue, e.DataTyp.Width, e.DataTyp.Scale))
	case ET_NConst:
		tree.AddMetaNode(head, "(null)")
	case ET_Param:
		tree.AddMetaNode(head, fmt.Sprintf("($%d)", e.ParamIdx))
	case ET_TypeSpec:
		tree.AddMetaNode(head, "(type)")
	case ET_Func:
		branch := tree.AddMetaBranch(head, e.SubTyp.String())
		for _, child := range e.Children {
			child.Print(branch, "")
		}
	default:
		panic(fmt.Sprintf("usp expr type %d", e.Typ))
	}
}

func appendMeta(meta, typ string) string {
	if len(meta) == 0 {
		return typ
	}
	return meta + " " + typ
}

func copyExprs(exprs ...*Expr) []*Expr {
	ret := make([]*Expr, 0)
	for _, expr := range exprs {
		ret = append(ret, expr.copy())
	}
	return ret
}
