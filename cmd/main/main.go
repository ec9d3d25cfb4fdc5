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

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	wire "github.com/jeroenrinzema/psql-wire"
	"github.com/lib/pq/oid"
	"go.uber.org/zap"

	"github.com/daviszhen/typecheck/pkg/binder"
	"github.com/daviszhen/typecheck/pkg/catalog"
	"github.com/daviszhen/typecheck/pkg/util"
)

var runCfg util.Config
var gCat *catalog.Catalog

var defCfgFilePaths = []string{".", "etc"}
var cfgFileName = "typecheck.toml"

func loadConfig() {
	has := false
	for _, dirPath := range defCfgFilePaths {
		fpath := filepath.Join(dirPath, cfgFileName)
		if util.FileIsValid(fpath) {
			_, err := toml.DecodeFile(fpath, &runCfg)
			if err != nil {
				util.Error("load config file failed",
					zap.String("fpath", fpath),
					zap.Error(err))
				continue
			}
			has = true
			break
		}
	}
	if !has {
		util.Error("typecheck.toml does not exist")
		os.Exit(1)
	}
	if runCfg.Server.Addr == "" {
		runCfg.Server.Addr = "127.0.0.1:5432"
	}
}

func loadCatalog() {
	gCat = catalog.NewCatalog()
	for _, src := range runCfg.Schemas {
		var table *catalog.Table
		var err error
		switch src.Format {
		case "parquet":
			table, err = catalog.FromParquet(src.Table, src.Path)
		default:
			err = fmt.Errorf("unsupported schema format %s", src.Format)
		}
		if err != nil {
			util.Error("load schema failed",
				zap.String("table", src.Table),
				zap.String("path", src.Path),
				zap.Error(err))
			os.Exit(1)
		}
		if err = gCat.Add(table); err != nil {
			util.Error("register table failed",
				zap.String("table", src.Table),
				zap.Error(err))
			os.Exit(1)
		}
		util.Info("loaded schema",
			zap.String("table", src.Table),
			zap.Int("columns", len(table.Columns())))
	}
}

func main() {
	loadConfig()
	loadCatalog()
	util.Info("listening", zap.String("addr", runCfg.Server.Addr))
	wire.ListenAndServe(runCfg.Server.Addr, handler)
}

func handler(ctx context.Context, query string) (wire.PreparedStatements, error) {
	util.Info("incoming SQL :", zap.String("query", query))
	reports, err := binder.CheckSQL(gCat, query)
	if err != nil {
		util.Warn("check failed",
			zap.String("query", query),
			zap.Error(err))
		return nil, err
	}

	exec := ExecCtx{
		cfg:     &runCfg,
		reports: reports,
	}
	return wire.Prepared(
		wire.NewStatement(exec.handleX,
			wire.WithColumns(reportColumns()),
		),
	), nil
}

func reportColumns() wire.Columns {
	names := []string{"expression", "type", "nullable", "monotonicity"}
	cols := make(wire.Columns, 0, len(names))
	for range names {
		cols = append(cols, wire.Column{
			Oid:   oid.T_varchar,
			Width: 256,
		})
	}
	return cols
}

type ExecCtx struct {
	cfg     *util.Config
	reports [][]binder.TargetReport
}

func (exec *ExecCtx) handleX(ctx context.Context, writer wire.DataWriter, parameters []wire.Parameter) error {
	for _, stmt := range exec.reports {
		for _, rep := range stmt {
			err := writer.Row([]any{
				rep.Text,
				rep.Typ.String(),
				fmt.Sprintf("%v", rep.Typ.Nullable),
				rep.Mono.String(),
			})
			if err != nil {
				return err
			}
		}
	}
	return writer.Complete("")
}
