package main

import (
	"fmt"

	"github.com/spf13/cobra"

	editor "quill/internal/service/blocks"
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render a document to sanitized HTML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(cmd, args)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), editor.NewRenderer().Render(doc))
		return err
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
