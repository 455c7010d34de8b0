package main

import (
	"fmt"

	"github.com/spf13/cobra"

	editor "quill/internal/service/blocks"
)

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a document to markdown",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(cmd, args)
		if err != nil {
			return err
		}
		out := editor.Compile(doc)
		if out == "" {
			return nil
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
}
