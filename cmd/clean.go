// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"log"

	clr "github.com/LemoBits/Beebyte-mono-deobfuscator"
	"github.com/spf13/cobra"
)

func runClean(cmd *cobra.Command, args []string) {
	inPath := args[0]
	outPath := args[1]

	logPath, _ := cmd.Flags().GetString("log")

	module, err := clr.Load(inPath)
	if err != nil {
		log.Printf("error while loading assembly %s: %s", inPath, err)
		return
	}

	roots := map[string]struct{}{}
	if logPath != "" {
		roots, err = clr.LoadRoots(logPath)
		if err != nil {
			log.Printf("error while loading execution log %s: %s", logPath, err)
			return
		}
	}

	summary, err := clr.Clean(module, roots, nil)
	if err != nil {
		log.Printf("error while cleaning assembly %s: %s", inPath, err)
		return
	}

	if err := clr.Save(outPath, module); err != nil {
		log.Printf("error while writing assembly %s: %s", outPath, err)
		return
	}

	out, _ := json.MarshalIndent(summary, "", "\t")
	fmt.Println(prettyPrint(out))
}

func newCleanCmd() *cobra.Command {
	cleanCmd := &cobra.Command{
		Use:   "clean <in> <out>",
		Short: "Fold strings, strip dead code, and rename dead symbols",
		Long:  "Runs the full pipeline against an assembly and writes the rewritten result",
		Args:  cobra.ExactArgs(2),
		Run:   runClean,
	}
	cleanCmd.Flags().StringP("log", "l", "", "Execution-log file of method full-names (newline-delimited)")
	return cleanCmd
}
