package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/studyplanner/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "studyplanner",
		Short: "Study Planner API Server",
		Long:  `Study Planner keeps subjects, tasks, exams and lectures in a file-backed local store, derives the study calendar from them, and optionally mirrors everything to a hosted backend.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
