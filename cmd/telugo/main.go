package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhiram9652/language-translation/internal/api"
	"github.com/abhiram9652/language-translation/internal/cli"
	"github.com/abhiram9652/language-translation/internal/gui"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run function
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(flags *cli.Flags) error {
	logger, err := cli.NewLogger(flags.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	// Handle --text: translate one phrase and print the result, no GUI
	// and no history (saving requires a signed-in GUI session).
	if flags.Text != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client := api.NewClient(&api.Config{
			BaseURL:           viper.GetString("api.base_url"),
			TranslateEndpoint: viper.GetString("api.translate_endpoint"),
			Logger:            logger,
		})
		translated, err := client.Translate(ctx, flags.Text)
		if err != nil {
			return err
		}
		fmt.Println(translated)
		return nil
	}

	// No input provided - launch GUI mode by default
	app := gui.New(&gui.Config{
		BaseURL:           viper.GetString("api.base_url"),
		TranslateEndpoint: viper.GetString("api.translate_endpoint"),
		OpenAIKey:         cli.GetOpenAIKey(),
		SpeechProvider:    viper.GetString("speech.provider"),
		CaptureLanguage:   viper.GetString("speech.capture_language"),
		ChunkSeconds:      viper.GetInt("speech.chunk_seconds"),
		EnableCache:       !flags.NoCache,
		OpenAIModel:       viper.GetString("speech.openai_model"),
		OpenAIVoice:       viper.GetString("speech.openai_voice"),
		OpenAISpeed:       viper.GetFloat64("speech.openai_speed"),
		OpenAIInstruction: viper.GetString("speech.openai_instruction"),
		Logger:            logger,
	})
	app.Run()
	return nil
}
