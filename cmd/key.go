package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/RoriChat/internal/config"
	"github.com/Rorical/RoriChat/internal/credential"
	"github.com/Rorical/RoriChat/internal/genclient"
)

var skipVerify bool

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the stored Gemini API key",
	Long:  `Manage the Gemini API key kept in the configured credential store.`,
}

var setKeyCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Verify and store an API key",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, store := openStore()
		defer store.Close()

		var key string
		if len(args) > 0 {
			key = args[0]
		} else {
			apiKeyPrompt := promptui.Prompt{
				Label: "API Key",
				Mask:  '*',
				Validate: func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("API key cannot be empty")
					}
					return nil
				},
			}
			var err error
			key, err = apiKeyPrompt.Run()
			if err != nil {
				log.Fatalf("Prompt failed: %v", err)
			}
		}
		key = strings.TrimSpace(key)
		if key == "" {
			log.Fatalf("API key cannot be empty")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if !skipVerify {
			client, err := genclient.New(cfg)
			if err != nil {
				log.Fatalf("Failed to create generation client: %v", err)
			}
			handle, err := genclient.Validate(ctx, client, key)
			if err != nil {
				log.Fatalf("API key rejected: %v", err)
			}
			handle.Close()
		}

		if err := store.Set(ctx, credential.KeyName, key); err != nil {
			log.Fatalf("Failed to store API key: %v", err)
		}
		fmt.Printf("API key stored in %s backend\n", cfg.Credentials.Backend)
	},
}

var showKeyCmd = &cobra.Command{
	Use:   "show",
	Short: "Show whether an API key is stored",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, store := openStore()
		defer store.Close()

		key, ok, err := store.Get(cmd.Context(), credential.KeyName)
		if err != nil {
			log.Fatalf("Failed to read API key: %v", err)
		}

		fmt.Printf("Backend: %s\n", cfg.Credentials.Backend)
		if cfg.Credentials.Backend != config.BackendRedis {
			fmt.Printf("Location: %s\n", cfg.CredentialsPath())
		}
		if !ok {
			fmt.Println("API Key: Not set")
			return
		}
		fmt.Printf("API Key: Set (%s)\n", maskKey(key))
	},
}

var clearKeyCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, store := openStore()
		defer store.Close()

		confirmPrompt := promptui.Prompt{
			Label:     "Remove the stored API key? (y/N)",
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			fmt.Println("Cancelled")
			return
		}

		if err := store.Set(cmd.Context(), credential.KeyName, ""); err != nil {
			log.Fatalf("Failed to clear API key: %v", err)
		}
		fmt.Println("API key removed")
	},
}

func openStore() (*config.Config, credential.Store) {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	store, err := credential.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to open credential store: %v", err)
	}
	return cfg, store
}

// maskKey keeps the last four characters visible.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}

func init() {
	setKeyCmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "store the key without probing the API")

	keyCmd.AddCommand(setKeyCmd)
	keyCmd.AddCommand(showKeyCmd)
	keyCmd.AddCommand(clearKeyCmd)
}
