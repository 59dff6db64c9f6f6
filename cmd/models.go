package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriChat/internal/config"
	"github.com/Rorical/RoriChat/internal/models"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available models",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		active := cfg.ModelInfo()
		fmt.Println("Available Models:")
		for _, m := range models.Registry {
			marker := ""
			apiModel := m.APIModel
			if m.ID == active.ID {
				marker = " (active)"
				apiModel = active.APIModel
			}
			fmt.Printf("  %s%s\n", m.ID, marker)
			fmt.Printf("    Name: %s\n", m.Name)
			fmt.Printf("    API Model: %s\n", apiModel)
			fmt.Printf("    Transport: %s\n", cfg.Gemini.Transport)
		}
	},
}
