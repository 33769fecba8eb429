// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"

	clr "github.com/LemoBits/Beebyte-mono-deobfuscator"
	"github.com/spf13/cobra"
)

func prettyPrint(buff []byte) string {
	var prettyJSON bytes.Buffer
	err := json.Indent(&prettyJSON, buff, "", "\t")
	if err != nil {
		log.Println("JSON parse error: ", err)
		return string(buff)
	}
	return prettyJSON.String()
}

func runInspect(cmd *cobra.Command, args []string) {
	filename := args[0]

	module, err := clr.Load(filename)
	if err != nil {
		log.Printf("error while loading assembly %s: %s", filename, err)
		return
	}

	wantAnomalies, _ := cmd.Flags().GetBool("anomalies")
	if wantAnomalies {
		anomalies, _ := json.Marshal(module.Anomalies)
		fmt.Println(prettyPrint(anomalies))
		return
	}

	wantTypes, _ := cmd.Flags().GetBool("types")
	if wantTypes {
		names := make([]string, 0, len(module.AllTypes()))
		for _, t := range module.AllTypes() {
			names = append(names, t.FullName)
		}
		listing, _ := json.Marshal(names)
		fmt.Println(prettyPrint(listing))
		return
	}

	whole, _ := json.Marshal(module)
	fmt.Println(prettyPrint(whole))
}

func newInspectCmd() *cobra.Command {
	inspectCmd := &cobra.Command{
		Use:   "inspect <assembly>",
		Short: "Dumps an assembly's JSON-backed object model",
		Long:  "Dumps the loaded assembly, or a narrower view of it selected by flag",
		Args:  cobra.ExactArgs(1),
		Run:   runInspect,
	}
	inspectCmd.Flags().Bool("anomalies", false, "Dump only the anomalies recorded against the module")
	inspectCmd.Flags().Bool("types", false, "Dump only the full-names of every type in the module")
	return inspectCmd
}
