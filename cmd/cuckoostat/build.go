package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cuckoo "github.com/bradenaw/cuckoofilter"
	"github.com/bradenaw/cuckoofilter/internal/obslog"
)

func newBuildCmd() *cobra.Command {
	var (
		capacity    uint64
		bitsPerItem uint
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a filter from newline-delimited keys on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if !cmd.Flags().Changed("capacity") {
				capacity = cfg.Capacity
			}
			if !cmd.Flags().Changed("bits-per-item") {
				bitsPerItem = cfg.BitsPerItem
			}

			log := obslog.New("build", verbose)

			fl := cuckoo.New(capacity, bitsPerItem)
			fl.SetLogger(log)

			scanner := bufio.NewScanner(os.Stdin)
			n := 0
			for scanner.Scan() {
				key := scanner.Bytes()
				if len(key) == 0 {
					continue
				}
				if err := fl.Add(append([]byte(nil), key...)); err != nil {
					log.Printf("stopped after %d keys: %v", n, err)
					break
				}
				n++
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}

			printInfo(cmd, fl.Info())

			if outPath != "" {
				data, err := fl.MarshalBinary()
				if err != nil {
					return fmt.Errorf("marshal filter: %w", err)
				}
				if err := os.WriteFile(outPath, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", outPath, err)
				}
				log.Printf("wrote %d bytes to %s", len(data), outPath)
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&capacity, "capacity", 100000, "expected number of items")
	cmd.Flags().UintVar(&bitsPerItem, "bits-per-item", 16, "fingerprint width in bits [5,32]")
	cmd.Flags().StringVar(&outPath, "out", "", "optional path to persist the built filter")

	return cmd
}

func printInfo(cmd *cobra.Command, info cuckoo.Stats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "size                 %d\n", info.Size)
	fmt.Fprintf(out, "capacity             %d\n", info.Capacity)
	fmt.Fprintf(out, "num_buckets          %d\n", info.NumBuckets)
	fmt.Fprintf(out, "bits_per_item        %d\n", info.BitsPerItem)
	fmt.Fprintf(out, "bits_per_tag         %d\n", info.BitsPerTag)
	fmt.Fprintf(out, "load_factor          %.4f\n", info.LoadFactor)
	fmt.Fprintf(out, "bits_per_key         %.4f\n", info.BitsPerKey)
	fmt.Fprintf(out, "hashtable_size_bytes %d\n", info.HashtableSizeBytes)
}
