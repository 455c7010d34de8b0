package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	editor "quill/internal/service/blocks"
)

var opsFile string

var applyCmd = &cobra.Command{
	Use:   "apply [file]",
	Short: "Apply a batch of editor operations and print the new document",
	Long: `Apply reads operations from --ops (a JSON array, the body the editor
posts to /operations) and applies them atomically to the input document.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(cmd, args)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(opsFile)
		if err != nil {
			return fmt.Errorf("read operations: %w", err)
		}
		var ops []editor.Operation
		if err := json.Unmarshal(data, &ops); err != nil {
			return fmt.Errorf("parse operations: %w", err)
		}

		doc, err = editor.ApplyAll(doc, ops)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringVar(&opsFile, "ops", "", "Operations JSON file")
	applyCmd.MarkFlagRequired("ops")
}
