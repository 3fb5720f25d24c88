package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vrulab/vru-validation/pkg/groundtruth"
)

// groundtruthWatchCmd represents the groundtruth watch command
var groundtruthWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Reload a ground truth document whenever it changes",
	Long: `Watch a ground truth document and load it every time it is saved.

The file is loaded once on start. Stop with Ctrl-C.

Example:
  vructl groundtruth watch crossing.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		database, err := connectForCLI()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to DB: %v\n", err)
			os.Exit(1)
		}

		reload := func(path string) error {
			res, err := newGroundTruthLoader(database).LoadFile(path)
			if err != nil {
				return err
			}
			log.Printf("Loaded %d ground truth objects for video %s", res.Objects, res.VideoID)
			return nil
		}

		if err := reload(args[0]); err != nil {
			log.Printf("Initial load failed: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log.Printf("Watching %s for changes...", args[0])
		if err := groundtruth.Watch(ctx, args[0], reload); err != nil {
			fmt.Fprintf(os.Stderr, "Watch failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	groundtruthCmd.AddCommand(groundtruthWatchCmd)
}
