// Package cmd contains the sellerchat command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sellerchat",
	Short: "Sellerchat - AI assistant backend for marketplace sellers",
	Long: `Sellerchat is the backend for an AI chat assistant that guides
marketplace sellers through internal standard operating procedures.

It serves a streaming chat API backed by a tool-calling agent: SOP
retrieval from S3, reference image galleries, structured step guides,
weather lookups, theme switching, and fact capture.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
