package cmd

import (
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/RoriChat/internal/config"
	"github.com/Rorical/RoriChat/internal/models"
)

var useCmd = &cobra.Command{
	Use:   "use [model-id]",
	Short: "Select a model and start the chat app",
	Long:  `Select the model to chat with, save it as the default and start the chat application.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		var id models.ModelID
		if len(args) > 0 {
			id = models.ModelID(args[0])
		} else {
			prompt := promptui.Select{
				Label: "Select model",
				Items: models.ModelNames(),
			}
			idx, _, err := prompt.Run()
			if err != nil {
				log.Fatalf("Selection failed: %v", err)
			}
			id = models.Registry[idx].ID
		}

		if err := cfg.SetModel(id); err != nil {
			log.Fatalf("Failed to select model: %v", err)
		}
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		runChat()
	},
}
