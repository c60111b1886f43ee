package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studyforge/studyforge/internal/build"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "studyforge",
		Short: "A self-hosted flashcard generation service",
		Long:  "StudyForge — generate flashcards from your own content with your own LLM provider.",
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newGenKeyCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("studyforge %s (%s@%s)\n", build.Version, build.Branch, build.Commit)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
