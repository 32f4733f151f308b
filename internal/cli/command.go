package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/abhiram9652/language-translation/internal"
	"github.com/abhiram9652/language-translation/internal/api"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "telugo",
		Short: "English to Telugu speech translator",
		Long: `telugo translates English speech and text to Telugu.

Speak into the microphone or type English text, translate it, listen
to the Telugu result and keep a per-account history of translations.

Examples:
  telugo                   # Launch the interactive GUI (default)
  telugo --text "Hello"    # Translate one phrase and print the result`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.telugo.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.Text, "text", "t", "", "Translate the given English text and print the Telugu result")
	cmd.Flags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.Flags().StringVar(&flags.BaseURL, "api-url", api.DefaultBaseURL, "Backend API base URL")
	cmd.Flags().StringVar(&flags.TranslateEndpoint, "translate-endpoint", api.DefaultTranslateEndpoint, "Translation service endpoint")
	cmd.Flags().StringVar(&flags.SpeechProvider, "speech-provider", flags.SpeechProvider, "Speech playback provider (openai or espeak)")
	cmd.Flags().StringVar(&flags.CaptureLanguage, "capture-language", flags.CaptureLanguage, "Spoken input language code")
	cmd.Flags().IntVar(&flags.ChunkSeconds, "chunk-seconds", flags.ChunkSeconds, "Microphone capture chunk length in seconds")
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "Disable the synthesized audio cache")

	// OpenAI flags
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	cmd.Flags().Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0, may be ignored by gpt-4o-mini-tts)")
	cmd.Flags().StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for gpt-4o-mini-tts model")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("api.base_url", cmd.Flags().Lookup("api-url"))
	viper.BindPFlag("api.translate_endpoint", cmd.Flags().Lookup("translate-endpoint"))
	viper.BindPFlag("speech.provider", cmd.Flags().Lookup("speech-provider"))
	viper.BindPFlag("speech.capture_language", cmd.Flags().Lookup("capture-language"))
	viper.BindPFlag("speech.chunk_seconds", cmd.Flags().Lookup("chunk-seconds"))
	viper.BindPFlag("speech.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("speech.openai_voice", cmd.Flags().Lookup("openai-voice"))
	viper.BindPFlag("speech.openai_speed", cmd.Flags().Lookup("openai-speed"))
	viper.BindPFlag("speech.openai_instruction", cmd.Flags().Lookup("openai-instruction"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".telugo" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".telugo")
	}

	// Environment variables
	viper.SetEnvPrefix("TELUGO")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("speech.openai_key")
}

// NewLogger builds the application logger.
func NewLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
