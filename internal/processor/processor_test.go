package processor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/thisisbailin/spur/internal/catalog"
	"github.com/thisisbailin/spur/internal/cli"
	"github.com/thisisbailin/spur/internal/history"
	"github.com/thisisbailin/spur/internal/translation"
	"github.com/thisisbailin/spur/internal/translation/gemini"
)

type fakeProvider struct {
	id     catalog.EngineID
	result string
	err    error
	gate   chan struct{}

	mu       sync.Mutex
	calls    int
	lastText string
	lastFrom string
	lastTo   string
	called   chan struct{}
}

func newFakeProvider(id catalog.EngineID, result string) *fakeProvider {
	return &fakeProvider{id: id, result: result, called: make(chan struct{}, 8)}
}

func (f *fakeProvider) Translate(ctx context.Context, text, from, to string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.lastText = text
	f.lastFrom = from
	f.lastTo = to
	gate := f.gate
	f.mu.Unlock()
	f.called <- struct{}{}
	if gate != nil {
		<-gate
	}
	return f.result, f.err
}

func (f *fakeProvider) CheckAvailability(ctx context.Context, source, target string) bool {
	return true
}

func (f *fakeProvider) ID() catalog.EngineID { return f.id }

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestProcessor(t *testing.T, provider translation.Provider, store *history.Store) (*Processor, *cli.Flags) {
	t.Helper()
	flags := cli.NewFlags()
	manager := translation.NewManager(provider)
	p := New(flags, manager, nil, store)
	p.SetOutput(&bytes.Buffer{})
	return p, flags
}

func TestProcessorTranslate(t *testing.T) {
	provider := newFakeProvider(catalog.EngineGemini, "你好")
	p, _ := newTestProcessor(t, provider, nil)

	result, err := p.Translate(context.Background(), "  hello  ")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if result.TranslatedText != "你好" {
		t.Errorf("TranslatedText = %q, want 你好", result.TranslatedText)
	}
	if result.OriginalText != "hello" {
		t.Errorf("OriginalText = %q, want trimmed input", result.OriginalText)
	}
	if provider.lastFrom != "auto" || provider.lastTo != "zh_CN" {
		t.Errorf("languages = %q -> %q, want auto -> zh_CN", provider.lastFrom, provider.lastTo)
	}
}

func TestProcessorBlankInput(t *testing.T) {
	provider := newFakeProvider(catalog.EngineGemini, "x")
	p, _ := newTestProcessor(t, provider, nil)

	if _, err := p.Translate(context.Background(), "   "); !errors.Is(err, translation.ErrInvalidInput) {
		t.Errorf("blank input error = %v, want ErrInvalidInput", err)
	}
	if provider.callCount() != 0 {
		t.Errorf("provider called %d times for blank input", provider.callCount())
	}
}

func TestProcessorRepeatSubmissionSuppressed(t *testing.T) {
	provider := newFakeProvider(catalog.EngineGemini, "你好")
	p, _ := newTestProcessor(t, provider, nil)

	first, err := p.Translate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("first Translate() error = %v", err)
	}
	second, err := p.Translate(context.Background(), " hello ")
	if err != nil {
		t.Fatalf("repeat Translate() error = %v", err)
	}
	if provider.callCount() != 1 {
		t.Errorf("provider called %d times, want 1 (repeat suppressed)", provider.callCount())
	}
	if first != second {
		t.Error("repeat submission returned a different result")
	}

	if _, err := p.Translate(context.Background(), "world"); err != nil {
		t.Fatalf("new input Translate() error = %v", err)
	}
	if provider.callCount() != 2 {
		t.Errorf("provider called %d times after new input, want 2", provider.callCount())
	}
}

func TestProcessorUnknownEngine(t *testing.T) {
	provider := newFakeProvider(catalog.EngineGemini, "x")
	p, flags := newTestProcessor(t, provider, nil)
	flags.Engine = "babelfish"

	_, err := p.Translate(context.Background(), "hello")
	if !translation.IsFailed(err) {
		t.Errorf("unknown engine error = %v, want Failed", err)
	}
}

func TestProcessorThemedRequestPinsChinese(t *testing.T) {
	provider := newFakeProvider(catalog.EngineGemini, "学术译文")
	p, flags := newTestProcessor(t, provider, nil)
	flags.Theme = "academic"
	flags.From = "auto"
	flags.To = "ja"

	result, err := p.Translate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	want := "将以下文本以学术和专业的语言风格翻译成中文：\n\nhello"
	if provider.lastText != want {
		t.Errorf("composed text = %q, want %q", provider.lastText, want)
	}
	if provider.lastFrom != "en" || provider.lastTo != "zh_CN" {
		t.Errorf("themed languages = %q -> %q, want en -> zh_CN", provider.lastFrom, provider.lastTo)
	}
	if result.TranslatedText != "学术译文" {
		t.Errorf("TranslatedText = %q", result.TranslatedText)
	}
}

func TestProcessorThemeIgnoredOffGemini(t *testing.T) {
	provider := newFakeProvider(catalog.EngineOnDevice, "译文")
	p, flags := newTestProcessor(t, provider, nil)
	flags.Engine = "ondevice"
	flags.Theme = "etymology"
	flags.To = "fr"

	if _, err := p.Translate(context.Background(), "hello"); err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if provider.lastText != "hello" {
		t.Errorf("text = %q, want raw input on non-gemini engine", provider.lastText)
	}
	if provider.lastTo != "fr" {
		t.Errorf("target = %q, want fr", provider.lastTo)
	}
}

func TestProcessorSavesHistory(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	provider := newFakeProvider(catalog.EngineGemini, "你好")
	p, flags := newTestProcessor(t, provider, store)
	flags.Theme = "academic"

	if _, err := p.Translate(context.Background(), "hello"); err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	records, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d history records, want 1", len(records))
	}
	if records[0].TranslatedText != "你好" {
		t.Errorf("recorded translation = %q", records[0].TranslatedText)
	}
	if records[0].Theme != "academic" {
		t.Errorf("recorded theme = %q, want academic", records[0].Theme)
	}
}

func TestProcessorNoHistoryFlag(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	provider := newFakeProvider(catalog.EngineGemini, "你好")
	p, flags := newTestProcessor(t, provider, store)
	flags.NoHistory = true

	if _, err := p.Translate(context.Background(), "hello"); err != nil {
		t.Fatalf("Translate() error = %v", err)
	}

	records, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d history records with --no-history, want 0", len(records))
	}
}

func TestProcessorStaleCompletionDiscarded(t *testing.T) {
	provider := newFakeProvider(catalog.EngineGemini, "译文")
	gate := make(chan struct{})
	provider.gate = gate
	p, _ := newTestProcessor(t, provider, nil)

	type outcome struct {
		result *translation.Result
		err    error
	}
	firstDone := make(chan outcome, 1)
	go func() {
		r, err := p.Translate(context.Background(), "first")
		firstDone <- outcome{r, err}
	}()
	<-provider.called // first request is in flight

	// Second submission supersedes the first while it is still running.
	provider.mu.Lock()
	provider.gate = nil
	provider.mu.Unlock()
	if _, err := p.Translate(context.Background(), "second"); err != nil {
		t.Fatalf("second Translate() error = %v", err)
	}
	<-provider.called

	close(gate)
	got := <-firstDone
	if !errors.Is(got.err, ErrSuperseded) {
		t.Errorf("stale completion error = %v, want ErrSuperseded", got.err)
	}
	if got.result != nil {
		t.Error("stale completion returned a result")
	}
	if last := p.LastResult(); last == nil || last.OriginalText != "second" {
		t.Errorf("LastResult() = %+v, want result for second input", last)
	}
}

func TestProcessorTranslateImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ocr" {
			t.Errorf("image request hit %s, want /ocr", r.URL.Path)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"图中文字"}]}}]}`))
	}))
	defer server.Close()

	geminiProvider := gemini.NewProvider(&gemini.Config{BaseURL: server.URL})
	flags := cli.NewFlags()
	flags.Engine = "ondevice" // OCR must override the selected engine
	manager := translation.NewManager(geminiProvider)
	p := New(flags, manager, geminiProvider, nil)
	p.SetOutput(&bytes.Buffer{})

	imgPath := filepath.Join(t.TempDir(), "shot.png")
	f, err := os.Create(imgPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	result, err := p.TranslateImage(context.Background(), imgPath)
	if err != nil {
		t.Fatalf("TranslateImage() error = %v", err)
	}
	if result.TranslatedText != "图中文字" {
		t.Errorf("TranslatedText = %q", result.TranslatedText)
	}
	if geminiProvider.HasPendingImage() {
		t.Error("staged image not consumed")
	}
	if flags.Engine != "gemini" {
		t.Errorf("engine after OCR = %q, want gemini", flags.Engine)
	}
}

func TestProcessBatch(t *testing.T) {
	batchPath := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(batchPath, []byte("hello\n\n# comment\nworld\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	provider := newFakeProvider(catalog.EngineGemini, "译文")
	p, flags := newTestProcessor(t, provider, nil)
	flags.BatchFile = batchPath
	var out bytes.Buffer
	p.SetOutput(&out)

	if err := p.ProcessBatch(context.Background()); err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d output lines, want 2: %q", len(lines), out.String())
	}
	if lines[0] != "hello\t译文" {
		t.Errorf("line 1 = %q", lines[0])
	}
}

func TestProcessBatchReportsFailures(t *testing.T) {
	batchPath := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(batchPath, []byte("hello\nworld\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	provider := newFakeProvider(catalog.EngineGemini, "")
	provider.err = translation.ErrNetwork
	p, flags := newTestProcessor(t, provider, nil)
	flags.BatchFile = batchPath

	err := p.ProcessBatch(context.Background())
	if err == nil {
		t.Fatal("ProcessBatch() succeeded despite provider failures")
	}
	if !strings.Contains(err.Error(), "2 of 2") {
		t.Errorf("error = %v, want failure count", err)
	}
}

func TestRunInteractive(t *testing.T) {
	provider := newFakeProvider(catalog.EngineGemini, "你好")
	p, _ := newTestProcessor(t, provider, nil)
	var out bytes.Buffer
	p.SetOutput(&out)

	input := strings.NewReader("hello\n\n")
	if err := p.RunInteractive(context.Background(), input); err != nil {
		t.Fatalf("RunInteractive() error = %v", err)
	}
	if !strings.Contains(out.String(), "你好") {
		t.Errorf("interactive output missing translation: %q", out.String())
	}
	if provider.callCount() != 1 {
		t.Errorf("provider called %d times, want 1 (blank line skipped)", provider.callCount())
	}
}
