package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hashtagchobi/chobi-site/internal/loader"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <area>",
	Short: "Fetches one content area and prints it as JSON",
	Long: `dump loads a content area through the same store and cache as the server
and prints the result. "all" loads every area concurrently.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		a, err := newApp(ctx, appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		sources := contentSources(a.content)

		var result any
		if args[0] == "all" {
			list := make([]loader.Source, 0, len(sources))
			for _, name := range sourceNames(sources) {
				list = append(list, sources[name])
			}
			result, err = loader.All(ctx, list...)
		} else {
			src, ok := sources[args[0]]
			if !ok {
				return fmt.Errorf("unknown area %q (known: all, %s)", args[0], strings.Join(sourceNames(sources), ", "))
			}
			result, err = src.Fetch(ctx)
		}
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
