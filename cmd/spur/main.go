package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thisisbailin/spur/internal/archive"
	"github.com/thisisbailin/spur/internal/catalog"
	"github.com/thisisbailin/spur/internal/cli"
	"github.com/thisisbailin/spur/internal/history"
	"github.com/thisisbailin/spur/internal/models"
	"github.com/thisisbailin/spur/internal/processor"
	"github.com/thisisbailin/spur/internal/translation"
	"github.com/thisisbailin/spur/internal/translation/gemini"
	"github.com/thisisbailin/spur/internal/translation/ondevice"
	"github.com/thisisbailin/spur/internal/translation/openai"
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
		return runCommand(cmd, args, flags)
	}

	// Execute command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx := context.Background()

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetGeminiAPIKey())
		return lister.ListAvailableModels(ctx)
	}

	// Archiving moves the database file, so it runs before the store opens.
	if flags.ArchiveHistory {
		archivePath, err := archive.ArchiveHistory(cli.DefaultHistoryPath())
		if err != nil {
			return err
		}
		fmt.Printf("History archived to: %s\n", archivePath)
		return nil
	}

	store, err := openHistoryStore()
	if err != nil {
		return err
	}
	defer store.Close()

	// Handle history browsing and editing flags
	if handled, err := runHistoryCommand(flags, store); handled {
		return err
	}

	manager, geminiProvider := buildManager(flags)
	proc := processor.New(flags, manager, geminiProvider, store)

	switch {
	case flags.ImagePath != "":
		result, err := proc.TranslateImage(ctx, flags.ImagePath)
		if err != nil {
			return err
		}
		fmt.Println(result.TranslatedText)
		return nil

	case flags.BatchFile != "":
		return proc.ProcessBatch(ctx)

	case flags.Interactive:
		return proc.RunInteractive(ctx, os.Stdin)

	case len(args) > 0:
		return proc.ProcessSingleText(ctx, strings.Join(args, " "))

	default:
		return cmd.Help()
	}
}

// buildManager assembles the provider registry. The gemini engine is the
// default; the on-device engine is registered through the unavailable
// factory until a platform bridge provides sessions; the openai engine is
// registered only when a key is configured.
func buildManager(flags *cli.Flags) (*translation.Manager, *gemini.Provider) {
	relayURL := flags.RelayURL
	if relayURL == "" {
		relayURL = viper.GetString("relay.url")
	}
	geminiProvider := gemini.NewProvider(&gemini.Config{BaseURL: relayURL})

	manager := translation.NewManager(geminiProvider)
	manager.RegisterProvider(ondevice.NewProvider(ondevice.UnavailableFactory{}))
	if key := cli.GetOpenAIKey(); key != "" {
		manager.RegisterProvider(openai.NewProvider(key))
	}
	return manager, geminiProvider
}

func openHistoryStore() (*history.Store, error) {
	path := cli.DefaultHistoryPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

// runHistoryCommand dispatches the history flags. It reports whether one of
// them was present, in which case no translation runs.
func runHistoryCommand(flags *cli.Flags, store *history.Store) (bool, error) {
	switch {
	case flags.ClearHistory:
		if err := store.ClearAll(); err != nil {
			return true, err
		}
		fmt.Println("History cleared.")
		return true, nil

	case flags.DeleteID != 0:
		if err := store.Delete(flags.DeleteID); err != nil {
			return true, err
		}
		fmt.Printf("Deleted history entry %d.\n", flags.DeleteID)
		return true, nil

	case flags.FavoriteID != 0:
		favorite, err := store.ToggleFavorite(flags.FavoriteID)
		if err != nil {
			return true, err
		}
		if favorite {
			fmt.Printf("Entry %d marked as favorite.\n", flags.FavoriteID)
		} else {
			fmt.Printf("Entry %d unmarked as favorite.\n", flags.FavoriteID)
		}
		return true, nil

	case flags.TagSpec != "":
		id, tag, err := parseTagSpec(flags.TagSpec)
		if err != nil {
			return true, err
		}
		if err := store.AddTag(id, tag); err != nil {
			return true, err
		}
		fmt.Printf("Tagged entry %d with %q.\n", id, tag)
		return true, nil

	case flags.SearchQuery != "":
		records, err := store.Search(flags.SearchQuery)
		if err != nil {
			return true, err
		}
		printRecords(records)
		return true, nil

	case flags.ShowFavorites:
		records, err := store.Favorites()
		if err != nil {
			return true, err
		}
		printRecords(records)
		return true, nil

	case flags.ShowHistory:
		records, err := store.Recent(flags.HistoryLimit)
		if err != nil {
			return true, err
		}
		printRecords(records)
		return true, nil
	}
	return false, nil
}

// parseTagSpec splits the --tag argument, format ID=TAG.
func parseTagSpec(spec string) (int64, string, error) {
	idStr, tag, ok := strings.Cut(spec, "=")
	if !ok || tag == "" {
		return 0, "", fmt.Errorf("invalid tag spec %q, expected ID=TAG", spec)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid history entry id %q", idStr)
	}
	return id, tag, nil
}

func printRecords(records []*history.Record) {
	if len(records) == 0 {
		fmt.Println("No history entries.")
		return
	}
	for _, r := range records {
		marker := " "
		if r.IsFavorite {
			marker = "*"
		}
		fmt.Printf("%s %4d  %s  [%s] %s -> %s\n", marker, r.ID,
			r.Timestamp.Local().Format("2006-01-02 15:04"),
			r.ProviderID, languageName(r.SourceLanguage), languageName(r.TargetLanguage))
		fmt.Printf("        %s\n", r.OriginalText)
		fmt.Printf("        %s\n", r.TranslatedText)
		if len(r.Tags) > 0 {
			fmt.Printf("        tags: %s\n", strings.Join(r.Tags, ", "))
		}
	}
}

func languageName(code string) string {
	if code == catalog.AutoDetect {
		return "auto"
	}
	return catalog.LanguageFor(code).Name
}
