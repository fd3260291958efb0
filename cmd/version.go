package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (injected at build time via ldflags)
var (
	AppVersion = "development"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("Sellerchat %s\n", AppVersion)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

		// Check API key from environment (don't display full content)
		geminiKey := os.Getenv("GEMINI_API_KEY")
		if geminiKey != "" && len(geminiKey) > 8 {
			fmt.Printf("GEMINI_API_KEY: %s...%s (configured)\n",
				geminiKey[:4],
				geminiKey[len(geminiKey)-4:])
		} else {
			fmt.Println("GEMINI_API_KEY: Not set")
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
