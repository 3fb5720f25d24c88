package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vrulab/vru-validation/pkg/server/endpoints"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "vructl",
	Short:   "VRU detection validation platform",
	Long:    `Run and administer the VRU detection validation server.`,
	Version: version,
}

func Execute() {
	endpoints.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
