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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"go.uber.org/zap"

	"github.com/daviszhen/typecheck/pkg/binder"
	"github.com/daviszhen/typecheck/pkg/catalog"
	"github.com/daviszhen/typecheck/pkg/parser"
	"github.com/daviszhen/typecheck/pkg/util"
)

func init() {
	cobra.OnInitialize(loadConfig)
	initCheckCmd()
}

var testerCfg = &util.Config{}

///root cmd

var info = "tester"
var RootCmd = &cobra.Command{
	Use:          "tester",
	Short:        info,
	Long:         info,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("use tester --help or -h")
	},
}

func initDebugOptions() {
	testerCfg.Debug.ShowRaw = viper.GetBool("debug.showRaw")
	testerCfg.Debug.PrintPlan = viper.GetBool("debug.printPlan")
}

//check cmd

var checkInfo = "type check sql file"
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: checkInfo,
	Long:  checkInfo,
	RunE: func(cmd *cobra.Command, args []string) error {
		initCheckCfg()
		return runCheck(testerCfg)
	},
}

func initCheckCfg() {
	initDebugOptions()
	testerCfg.Check.Path = viper.GetString("check.path")
	testerCfg.Check.Concurrency = viper.GetInt("check.concurrency")
	testerCfg.Check.PrintTree = viper.GetBool("check.printTree")

	schemas := make([]util.SchemaSource, 0)
	if err := viper.UnmarshalKey("schemas", &schemas); err == nil {
		testerCfg.Schemas = schemas
	}
}

func initCheckCmd() {
	RootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&testerCfg.Check.Path, "sql_path", "", "sql file to check")
	checkCmd.Flags().IntVar(&testerCfg.Check.Concurrency, "concurrency", 4, "statements checked in parallel")
	checkCmd.Flags().BoolVar(&testerCfg.Check.PrintTree, "print_tree", true, "print typed expression trees")

	viper.BindPFlag("check.path", checkCmd.Flags().Lookup("sql_path"))
	viper.BindPFlag("check.concurrency", checkCmd.Flags().Lookup("concurrency"))
	viper.BindPFlag("check.printTree", checkCmd.Flags().Lookup("print_tree"))
}

func runCheck(cfg *util.Config) error {
	cat := catalog.NewCatalog()
	for _, src := range cfg.Schemas {
		if src.Format != "parquet" {
			return fmt.Errorf("unsupported schema format %s", src.Format)
		}
		table, err := catalog.FromParquet(src.Table, src.Path)
		if err != nil {
			return err
		}
		if err = cat.Add(table); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(cfg.Check.Path)
	if err != nil {
		return err
	}
	stmts, err := parser.Parse(string(data))
	if err != nil {
		return err
	}

	conc := cfg.Check.Concurrency
	if conc <= 0 {
		conc = 1
	}
	outs := make([]string, len(stmts))
	g := &errgroup.Group{}
	g.SetLimit(conc)
	for i, stmt := range stmts {
		g.Go(func() error {
			reps, err := binder.CheckStmt(cat, stmt)
			if err != nil {
				return fmt.Errorf("statement %d: %w", i+1, err)
			}
			sb := strings.Builder{}
			for _, rep := range reps {
				fmt.Fprintf(&sb, "%s\t%s\tnullable=%v\t%s\n",
					rep.Text,
					rep.Typ.String(),
					rep.Typ.Nullable,
					rep.Mono)
				if cfg.Check.PrintTree {
					sb.WriteString(rep.Tree())
				}
			}
			outs[i] = sb.String()
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return err
	}
	for _, out := range outs {
		fmt.Print(out)
	}
	return nil
}

var defCfgFilePaths = []string{".", "etc"}
var cfgFileName = "typecheck.toml"

func loadConfig() {
	has := false
	for _, dirPath := range defCfgFilePaths {
		fpath := filepath.Join(dirPath, cfgFileName)
		if util.FileIsValid(fpath) {
			viper.SetConfigFile(fpath)
			err := viper.ReadInConfig()
			if err != nil {
				util.Error("viper load config file failed",
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
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
