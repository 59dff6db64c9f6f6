package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriChat/internal/app"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "rorichat",
	Short: "Chat with Gemini from the terminal",
	Long:  `RoriChat is a terminal chat client for Google's Gemini models.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior: run the chat application
		runChat()
	},
}

func runChat() {
	application, err := app.NewApplication(app.Options{Verbose: verbose})
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer application.Stop()

	if err := application.Start(); err != nil {
		log.Printf("Application error: %v", err)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	// Add subcommands
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(useCmd)
	rootCmd.AddCommand(modelsCmd)
}
