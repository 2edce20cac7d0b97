package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gangfan/clang-highlight/cpp/fuzzy"
	"github.com/gangfan/clang-highlight/cpp/lexer"
)

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Fuzzy-parse a C++ file and dump the AST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			buf := fuzzy.Annotate(lexer.Tokenize(data, args[0]))
			tu := fuzzy.Parse(buf)

			switch outputFormat {
			case "tree":
				fmt.Print(fuzzy.DumpString(tu))
			case "json":
				enc := fuzzy.NewASTJSONEncoder(os.Stdout)
				if err := enc.Encode(tu); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
				fmt.Println()
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json)")

	return cmd
}
