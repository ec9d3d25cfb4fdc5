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

package util

type ServerOptions struct {
	Addr string `toml:"addr"`
}

type SchemaSource struct {
	Table  string `toml:"table"`
	Path   string `toml:"path"`
	Format string `toml:"format"`
}

type CheckOptions struct {
	Path        string `toml:"path"`
	Concurrency int    `toml:"concurrency"`
	PrintTree   bool   `toml:"printTree"`
}

type DebugOptions struct {
	ShowRaw   bool `toml:"showRaw"`
	PrintPlan bool `toml:"printPlan"`
}

type Config struct {
	Server  ServerOptions  `toml:"server"`
	Schemas []SchemaSource `toml:"schemas"`
	Check   CheckOptions   `toml:"check"`
	Debug   DebugOptions   `toml:"debug"`
}
