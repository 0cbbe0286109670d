package processor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/thisisbailin/spur/internal/batch"
	"github.com/thisisbailin/spur/internal/catalog"
	"github.com/thisisbailin/spur/internal/cli"
	"github.com/thisisbailin/spur/internal/history"
	"github.com/thisisbailin/spur/internal/translation"
	"github.com/thisisbailin/spur/internal/translation/gemini"
)

// ErrSuperseded is returned when a translation completes after a newer
// request has already been submitted; its result must be discarded.
var ErrSuperseded = errors.New("translation superseded by a newer request")

// Processor drives translations according to the parsed flags.
type Processor struct {
	flags   *cli.Flags
	manager *translation.Manager
	gemini  *gemini.Provider
	store   *history.Store
	out     io.Writer

	mu         sync.Mutex
	seq        uint64
	lastInput  string
	lastResult *translation.Result
}

// New creates a processor around an assembled manager. The gemini provider
// is passed separately because OCR image staging is specific to it. store
// may be nil to disable history recording.
func New(flags *cli.Flags, manager *translation.Manager, geminiProvider *gemini.Provider, store *history.Store) *Processor {
	return &Processor{
		flags:   flags,
		manager: manager,
		gemini:  geminiProvider,
		store:   store,
		out:     os.Stdout,
	}
}

// SetOutput redirects user-facing output, mainly for tests.
func (p *Processor) SetOutput(w io.Writer) { p.out = w }

// Translate runs one input through the configured engine and theme, records
// the result in history and returns it. Submitting the same trimmed input
// again while its result is current is a no-op returning the prior result
// without a provider call.
func (p *Processor) Translate(ctx context.Context, input string) (*translation.Result, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, translation.ErrInvalidInput
	}

	p.mu.Lock()
	if trimmed == p.lastInput && p.lastResult != nil {
		result := p.lastResult
		p.mu.Unlock()
		return result, nil
	}
	p.seq++
	mySeq := p.seq
	p.mu.Unlock()

	engine := catalog.EngineID(p.flags.Engine)
	if !p.manager.SwitchProvider(engine) {
		return nil, translation.Failedf("unknown translation engine: %s", p.flags.Engine)
	}
	theme := catalog.ThemeID(p.flags.Theme)
	p.manager.SetTheme(theme)

	text, from, to, recordTheme := p.composeRequest(trimmed, engine, theme)

	result, err := p.manager.Translate(ctx, text, from, to)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seq != mySeq {
		// A newer submission has started; this completion is stale.
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}

	p.lastInput = trimmed
	p.lastResult = result
	p.saveToHistory(result, recordTheme)
	return result, nil
}

// composeRequest applies the themed-request policy: a non-default theme on
// the gemini engine pre-composes the prompt and pins the target language to
// Chinese, whatever target was selected.
func (p *Processor) composeRequest(trimmed string, engine catalog.EngineID, theme catalog.ThemeID) (text, from, to, recordTheme string) {
	if engine == catalog.EngineGemini && theme != catalog.ThemeDaily {
		text = fmt.Sprintf("将以下文本%s翻译成中文：\n\n%s", gemini.ThemeInstruction(theme), trimmed)
		return text, "en", "zh_CN", string(theme)
	}
	return trimmed, p.flags.From, p.flags.To, ""
}

// saveToHistory records a successful result. History failures are reported
// but never fail the translation. Caller holds p.mu.
func (p *Processor) saveToHistory(result *translation.Result, recordTheme string) {
	if p.store == nil || p.flags.NoHistory {
		return
	}
	record := history.RecordFrom(result, recordTheme)
	if err := p.store.Insert(record); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save history record: %v\n", err)
	}
}

// TranslateImage stages an image file for OCR translation through the
// gemini engine and runs the call.
func (p *Processor) TranslateImage(ctx context.Context, path string) (*translation.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// OCR goes through the gemini engine regardless of the selected one.
	p.flags.Engine = string(catalog.EngineGemini)
	p.gemini.SetImage(img)

	// The staged image takes precedence over the text argument; the file
	// path stands in as the recorded original text.
	return p.Translate(ctx, path)
}

// ProcessSingleText translates one input and prints the result.
func (p *Processor) ProcessSingleText(ctx context.Context, input string) error {
	result, err := p.Translate(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintln(p.out, result.TranslatedText)
	return nil
}

// ProcessBatch translates every line of the batch file, reporting per-line
// failures without aborting the run.
func (p *Processor) ProcessBatch(ctx context.Context) error {
	entries, err := batch.ReadBatchFile(p.flags.BatchFile)
	if err != nil {
		return err
	}

	errorCount := 0
	for i, entry := range entries {
		result, err := p.Translate(ctx, entry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error translating line %d (%s): %v\n", i+1, entry, err)
			errorCount++
			continue
		}
		fmt.Fprintf(p.out, "%s\t%s\n", entry, result.TranslatedText)
	}

	if errorCount > 0 {
		return fmt.Errorf("%d of %d inputs failed", errorCount, len(entries))
	}
	return nil
}

// RunInteractive reads inputs line by line from r until EOF, translating
// each. Failures are printed and the loop keeps going so the user can
// retry.
func (p *Processor) RunInteractive(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	fmt.Fprintf(p.out, "spur interactive mode (engine: %s, target: %s). Ctrl-D to exit.\n",
		p.flags.Engine, p.flags.To)
	fmt.Fprint(p.out, "> ")

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Fprint(p.out, "> ")
			continue
		}

		result, err := p.Translate(ctx, line)
		if err != nil {
			fmt.Fprintf(p.out, "翻译错误: %v\n> ", err)
			continue
		}
		fmt.Fprintf(p.out, "%s\n> ", result.TranslatedText)
	}
	fmt.Fprintln(p.out)
	return scanner.Err()
}

// LastResult returns the most recent successful result, if any.
func (p *Processor) LastResult() *translation.Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastResult
}
