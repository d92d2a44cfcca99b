package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the unidrive application
var rootCmd = &cobra.Command{
	Use:   "unidrive",
	Short: "Browse multiple Google Drive accounts as one surface",
	Long: `unidrive aggregates several Google Drive accounts into a single
navigable view. It links accounts through OAuth, fetches each account's
file listing and classifies it into a folder tree that supports lazy
expansion, cross-account copy and sharing.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "unidrive version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newVersionCmd())
}
