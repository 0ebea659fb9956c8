package main

import (
	"fmt"
	"os"

	"github.com/neelance/sourcemap"
	"github.com/spf13/cobra"
)

// inspectCmd decodes a .map file and prints its mappings in a readable
// form. Decoding goes through an independent source map implementation, so
// it double-checks what this module encodes.
func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE.map",
		Short: "decode a source map and print its mappings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			m, err := sourcemap.ReadFrom(f)
			if err != nil {
				return fmt.Errorf("failed to decode %q: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version %d, %d sources, %d names, %d mappings\n",
				m.Version, len(m.Sources), len(m.Names), m.Len())
			for _, mapping := range m.DecodedMappings() {
				if mapping.OriginalFile == "" {
					fmt.Fprintf(out, "  %d:%d -> <generated>\n",
						mapping.GeneratedLine, mapping.GeneratedColumn)
					continue
				}
				fmt.Fprintf(out, "  %d:%d -> %s:%d:%d",
					mapping.GeneratedLine, mapping.GeneratedColumn,
					mapping.OriginalFile, mapping.OriginalLine, mapping.OriginalColumn)
				if mapping.OriginalName != "" {
					fmt.Fprintf(out, " (%s)", mapping.OriginalName)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}
