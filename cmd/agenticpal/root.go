package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "agenticpal",
	Short: "Conversational productivity assistant",
	Long: "agenticpal plans and executes calendar, task, and email operations " +
		"from natural-language messages, asking for confirmation before " +
		"anything destructive.",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
}
