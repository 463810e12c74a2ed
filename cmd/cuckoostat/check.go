package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cuckoo "github.com/bradenaw/cuckoofilter"
)

func newCheckCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "check <key>",
		Short: "Report whether a persisted filter might contain key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if filePath == "" {
				return fmt.Errorf("--file is required")
			}
			data, err := os.ReadFile(filePath)
			if err != nil {
				return fmt.Errorf("read %s: %w", filePath, err)
			}
			fl, err := cuckoo.UnmarshalBinaryState(data)
			if err != nil {
				return fmt.Errorf("load filter: %w", err)
			}

			key := []byte(args[0])
			if fl.Contains(key) {
				fmt.Fprintln(cmd.OutOrStdout(), "maybe")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "no")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "path to a filter persisted with 'build --out'")
	return cmd
}
