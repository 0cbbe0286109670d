package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thisisbailin/spur/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spur [text]",
		Short: "Translate text and images from the command line",
		Long: `spur translates text between languages using a translation engine of
your choice: the Gemini API (via the spur relay), the OpenAI API, or an
on-device translation capability where one is bridged in.

Translations are saved to a local history that can be browsed, searched,
favorited and tagged.

Examples:
  spur "hello world"              # Translate into Chinese (default)
  spur --to ja "hello world"      # Translate into Japanese
  spur --theme academic "..."     # Academic style via Gemini
  spur --image shot.png           # OCR-translate an image
  spur --batch lines.txt          # Translate a file line by line
  spur --interactive              # Translate lines from stdin
  spur --history                  # Show recent translations`,
		Args:    cobra.ArbitraryArgs,
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.spur.yaml)")

	// Translation flags
	cmd.Flags().StringVarP(&flags.Engine, "engine", "e", flags.Engine, "Translation engine: ondevice, gemini, openai")
	cmd.Flags().StringVarP(&flags.From, "from", "f", flags.From, "Source language code (auto for detection)")
	cmd.Flags().StringVarP(&flags.To, "to", "t", flags.To, "Target language code")
	cmd.Flags().StringVar(&flags.Theme, "theme", flags.Theme, "Translation style theme: daily, academic, etymology (gemini only)")
	cmd.Flags().StringVar(&flags.ImagePath, "image", "", "Image file to OCR-translate (takes precedence over text)")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate inputs from file (one per line)")
	cmd.Flags().BoolVarP(&flags.Interactive, "interactive", "i", false, "Read inputs from stdin, translating line by line")
	cmd.Flags().StringVar(&flags.RelayURL, "relay-url", "", "Base URL of the spur relay service")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available Gemini models for the current API key")
	cmd.Flags().BoolVar(&flags.NoHistory, "no-history", false, "Do not record translations in history")

	// History flags
	cmd.Flags().BoolVar(&flags.ShowHistory, "history", false, "Show recent translation history")
	cmd.Flags().IntVar(&flags.HistoryLimit, "limit", flags.HistoryLimit, "Maximum history entries to show")
	cmd.Flags().StringVar(&flags.SearchQuery, "search", "", "Search history for a text fragment")
	cmd.Flags().BoolVar(&flags.ShowFavorites, "favorites", false, "Show favorited history entries")
	cmd.Flags().Int64Var(&flags.FavoriteID, "favorite", 0, "Toggle the favorite flag on a history entry")
	cmd.Flags().Int64Var(&flags.DeleteID, "delete", 0, "Delete a history entry")
	cmd.Flags().StringVar(&flags.TagSpec, "tag", "", "Tag a history entry, format ID=TAG")
	cmd.Flags().BoolVar(&flags.ClearHistory, "clear-history", false, "Delete all history entries")
	cmd.Flags().BoolVar(&flags.ArchiveHistory, "archive-history", false, "Move the history database aside and start fresh")

	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("translation.engine", cmd.Flags().Lookup("engine"))
	viper.BindPFlag("translation.from", cmd.Flags().Lookup("from"))
	viper.BindPFlag("translation.to", cmd.Flags().Lookup("to"))
	viper.BindPFlag("translation.theme", cmd.Flags().Lookup("theme"))
	viper.BindPFlag("relay.url", cmd.Flags().Lookup("relay-url"))
	viper.BindPFlag("history.limit", cmd.Flags().Lookup("limit"))
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

		// Search config in home directory with name ".spur" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".spur")
	}

	// Environment variables
	viper.SetEnvPrefix("SPUR")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetGeminiAPIKey retrieves the Gemini API key from environment or config.
// Only the relay service and the model lister need it; the CLI's gemini
// engine talks to the relay, which holds its own credential.
func GetGeminiAPIKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("relay.gemini_key")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("translation.openai_key")
}

// DefaultHistoryPath returns the default location of the history database.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "spur-history.db"
	}
	return filepath.Join(home, ".local", "state", "spur", "history.db")
}
