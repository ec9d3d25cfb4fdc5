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
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collation ties a character type to a charset and a locale-aware
// comparator. The zero value means "no collation" and compares equal
// only to itself.
type Collation struct {
	Charset string
	Locale  string
}

var NoCollation = Collation{}

func MakeCollation(charset, locale string) Collation {
	return Collation{Charset: charset, Locale: locale}
}

func (c Collation) Valid() bool {
	return c != NoCollation
}

// Equal is identity on charset+locale. Two collators built from the
// same locale sort the same way, so name equality is enough.
func (c Collation) Equal(o Collation) bool {
	return c == o
}

// Collator returns the locale comparator. nil for "no collation".
func (c Collation) Collator() *collate.Collator {
	if !c.Valid() {
		return nil
	}
	return collate.New(language.Make(c.Locale))
}

// Compare orders two strings under this collation. Falls back to byte
// order when there is no collation.
func (c Collation) Compare(a, b string) int {
	coll := c.Collator()
	if coll == nil {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
	return coll.CompareString(a, b)
}

func (c Collation) String() string {
	if !c.Valid() {
		return ""
	}
	return c.Charset + "$" + c.Locale
}
