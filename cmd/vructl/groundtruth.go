package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/vrulab/vru-validation/pkg/audit"
	"github.com/vrulab/vru-validation/pkg/db"
	"github.com/vrulab/vru-validation/pkg/groundtruth"
	gormstore "github.com/vrulab/vru-validation/pkg/server/store/gorm"
)

// groundtruthCmd represents the groundtruth command
var groundtruthCmd = &cobra.Command{
	Use:   "groundtruth",
	Short: "Manage ground truth",
	Long:  `Load ground truth documents into the database.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'groundtruth' requires a subcommand (load, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(groundtruthCmd)
}

func connectForCLI() (*gorm.DB, error) {
	if db.URL() == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}
	audit.SetStore(audit.NewStore(database))
	return database, nil
}

func newGroundTruthLoader(database *gorm.DB) *groundtruth.Loader {
	return groundtruth.NewLoader(
		gormstore.NewVideosStore(database),
		gormstore.NewGroundTruthStore(database),
	)
}
