package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "docustream",
	Short: "DocuStream consolidates documents into a single artifact",
	Long: `DocuStream merges text files, PDFs and Word documents into one output
artifact (txt, pdf or docx), with content deduplication, credential
redaction and token-budget accounting for LLM context windows.`,
	SilenceUsage: true,
}

// logger is shared by all subcommands; Execute installs it.
var logger = zap.NewNop()

// Execute wires the logger into the command tree and runs it.
func Execute(l *zap.Logger) error {
	if l != nil {
		logger = l
	}
	return RootCmd.Execute()
}
