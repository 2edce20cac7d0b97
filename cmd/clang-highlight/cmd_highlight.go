package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gangfan/clang-highlight/cpp/highlight"
)

func newHighlightCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "highlight <file>",
		Short: "Highlight a C++ file to the terminal or as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			doc := highlight.FromSource(data, args[0])

			var encoder highlight.Encoder
			switch outputFormat {
			case "term":
				encoder = highlight.NewTermEncoder(os.Stdout)
			case "html":
				encoder = highlight.NewHTMLEncoder(os.Stdout)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(doc); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "term", "output format (term, html)")

	return cmd
}
