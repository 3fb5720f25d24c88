package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// groundtruthLoadCmd represents the groundtruth load command
var groundtruthLoadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Load a ground truth document",
	Long: `Load a ground truth document into the database.

The document names the video it belongs to and lists the objects visible
in it. Unless the document sets "replace: false", existing ground truth of
the video is replaced. Reads from stdin when no file or "-" is given.

Example:
  vructl groundtruth load crossing.yml
  cat crossing.yml | vructl groundtruth load`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		database, err := connectForCLI()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to DB: %v\n", err)
			os.Exit(1)
		}
		loader := newGroundTruthLoader(database)

		var result any
		if len(args) == 0 || args[0] == "-" {
			result, err = loader.LoadFromReader(cmd.InOrStdin())
		} else {
			result, err = loader.LoadFile(args[0])
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load ground truth: %v\n", err)
			os.Exit(1)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	},
}

func init() {
	groundtruthCmd.AddCommand(groundtruthLoadCmd)
}
