package main

import (
	"fmt"

	"github.com/spf13/cobra"

	editor "quill/internal/service/blocks"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Report structural problems in a document",
	Long:  `Validate prints one line per problem and exits non-zero when any is found.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(cmd, args)
		if err != nil {
			return err
		}
		issues := editor.Validate(doc)
		for _, issue := range issues {
			fmt.Fprintln(cmd.OutOrStdout(), issue.String())
		}
		if len(issues) > 0 {
			return fmt.Errorf("%d issue(s) found", len(issues))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
