// Package main implements the entry point for the kioku vocabulary
// tracker: a terminal front end over the vocabulary store, learn
// sessions, spreadsheet sync, and example sentence generation.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kioku-app/kioku/internal/config"
	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/events"
	"github.com/kioku-app/kioku/internal/generation"
	"github.com/kioku-app/kioku/internal/platform/gemini"
	"github.com/kioku-app/kioku/internal/platform/logger"
	"github.com/kioku-app/kioku/internal/platform/sentence"
	"github.com/kioku-app/kioku/internal/platform/sheets"
	"github.com/kioku-app/kioku/internal/platform/sqlitekv"
	"github.com/kioku-app/kioku/internal/service/examples"
	"github.com/kioku-app/kioku/internal/service/learn"
	"github.com/kioku-app/kioku/internal/service/sheetsync"
	"github.com/kioku-app/kioku/internal/store"
)

// app bundles the wired components the command loop works with.
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	kv         *sqlitekv.Store
	vocab      *store.Vocabulary
	reconciler *sheetsync.Reconciler
	examples   *examples.Service
}

func main() {
	a, err := initializeApp(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer func() { _ = a.kv.Close() }()

	if err := a.run(context.Background()); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

// initializeApp loads configuration and wires the application
// components together. Returns the assembled app and any
// initialization error.
func initializeApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	kv, err := sqlitekv.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(appLogger)
	vocab := store.NewVocabulary(kv, emitter, appLogger)
	if err := vocab.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}

	sheetClient := sheets.NewClient(cfg.Sheets, appLogger)
	reconciler := sheetsync.NewReconciler(cfg.Sheets, sheetClient, vocab, kv, appLogger)
	emitter.RegisterHandler(reconciler)
	if err := reconciler.Restore(ctx); err != nil {
		return nil, fmt.Errorf("failed to restore sync state: %w", err)
	}

	templates, err := sentence.NewProvider(appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to build sentence templates: %w", err)
	}

	// The AI tier is optional: without an API key the example service
	// goes straight to templates.
	var ai generation.SentenceProvider
	if cfg.LLM.GeminiAPIKey != "" {
		provider, err := gemini.NewProvider(ctx, appLogger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to build gemini provider: %w", err)
		}
		ai = provider
	}
	exampleSvc := examples.NewService(vocab, ai, templates, templates, appLogger)

	appLogger.Info("application initialized",
		"words", vocab.Len(),
		"sheets_connected", cfg.Sheets.Connected(),
		"ai_enabled", ai != nil)

	return &app{
		cfg:        cfg,
		logger:     appLogger,
		kv:         kv,
		vocab:      vocab,
		reconciler: reconciler,
		examples:   exampleSvc,
	}, nil
}

// run reads commands from stdin until quit or EOF.
func (a *app) run(ctx context.Context) error {
	fmt.Println("kioku - Japanese vocabulary tracker")
	fmt.Println(`Type "help" for commands.`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			printHelp()
		case "list":
			a.cmdList()
		case "add":
			a.cmdAdd(ctx, args)
		case "remove":
			a.cmdRemove(ctx, args)
		case "learn":
			a.cmdLearn(ctx, scanner)
		case "gen":
			a.cmdGenerate(ctx, args)
		case "sync":
			a.cmdSync(ctx)
		case "load":
			a.cmdLoad(ctx)
		case "export":
			a.cmdExport(ctx)
		case "status":
			a.cmdStatus(ctx)
		case "quit", "exit":
			return nil
		default:
			fmt.Printf("unknown command %q\n", cmd)
		}
	}
}

func printHelp() {
	fmt.Print(`commands:
  list                       show all words
  add <kanji> <reading> <meaning...>
  remove <id-prefix>
  learn                      start a flashcard session
  gen <id-prefix> [fresh]    example sentence for a word
  sync                       save to the spreadsheet
  load                       load from the spreadsheet
  export                     write the CSV backup
  status                     counts and sync state
  quit
`)
}

func (a *app) cmdList() {
	words := a.vocab.Words()
	if len(words) == 0 {
		fmt.Println("no words yet")
		return
	}
	for _, word := range words {
		fmt.Printf("%s  %s (%s) - %s [%s]\n",
			shortID(word.ID), word.Kanji, word.Reading, word.Meaning, word.Status)
	}
}

func (a *app) cmdAdd(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Println("usage: add <kanji> <reading> <meaning...>")
		return
	}
	word, err := a.vocab.Add(ctx, args[0], args[1], strings.Join(args[2:], " "))
	if err != nil {
		fmt.Printf("add failed: %v\n", err)
		return
	}
	fmt.Printf("added %s  %s\n", shortID(word.ID), word.Kanji)
}

func (a *app) cmdRemove(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("usage: remove <id-prefix>")
		return
	}
	word, ok := a.findWord(args[0])
	if !ok {
		fmt.Println("no word with that id")
		return
	}
	if err := a.vocab.Remove(ctx, word.ID); err != nil {
		fmt.Printf("remove failed: %v\n", err)
		return
	}
	fmt.Printf("removed %s\n", word.Kanji)
}

// cmdLearn drives one flashcard session through the filter selection,
// reveal, and judge steps.
func (a *app) cmdLearn(ctx context.Context, scanner *bufio.Scanner) {
	session := learn.NewSession(a.vocab, a.vocab, a.logger)

	for session.Phase() == learn.PhaseSelectingFilters {
		fmt.Printf("filters: %s  (%d cards)\n", formatFilters(session.Filters()), session.FilteredCount())
		fmt.Print("toggle [f]orget/[l]earning/[k]now, [s]tart, [q]uit: ")
		if !scanner.Scan() {
			return
		}
		switch strings.TrimSpace(scanner.Text()) {
		case "f":
			session.ToggleFilter(domain.StatusOftenForget)
		case "l":
			session.ToggleFilter(domain.StatusLearning)
		case "k":
			session.ToggleFilter(domain.StatusKnowWell)
		case "s":
			if err := session.Start(); err != nil {
				fmt.Printf("cannot start: %v\n", err)
				continue
			}
		case "q":
			return
		}
	}

	for session.Phase() == learn.PhaseInSession {
		word, ok := session.Current()
		if !ok {
			break
		}
		fmt.Printf("[%d/%d] %s\n", session.CursorPos()+1, session.DeckSize(), word.Kanji)
		fmt.Print("[r]eveal, [c]orrect, [i]ncorrect, [s]kip, [q]uit: ")
		if !scanner.Scan() {
			return
		}

		var outcome domain.Outcome
		switch strings.TrimSpace(scanner.Text()) {
		case "r":
			session.Reveal()
			fmt.Printf("  %s - %s\n", word.Reading, word.Meaning)
			continue
		case "c":
			outcome = domain.OutcomeCorrect
		case "i":
			outcome = domain.OutcomeIncorrect
		case "s":
			outcome = domain.OutcomeSkip
		case "q":
			return
		default:
			continue
		}

		if err := session.Judge(ctx, outcome); err != nil {
			fmt.Printf("status update failed, continuing: %v\n", err)
		}
	}

	stats := session.Stats()
	fmt.Printf("session complete: %d correct, %d incorrect, %d skipped of %d\n",
		stats.Correct, stats.Incorrect, stats.Skipped, stats.Total)
}

func (a *app) cmdGenerate(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Println("usage: gen <id-prefix> [fresh]")
		return
	}
	word, ok := a.findWord(args[0])
	if !ok {
		fmt.Println("no word with that id")
		return
	}

	opts := generation.Options{Fresh: len(args) > 1 && args[1] == "fresh"}
	result, err := a.examples.ForWord(ctx, word.ID, opts)
	if err != nil {
		fmt.Printf("generation failed: %v\n", err)
		return
	}
	fmt.Printf("[%s] %s\n", result.Source, result.Text)
}

func (a *app) cmdSync(ctx context.Context) {
	result, err := a.reconciler.SyncToRemote(ctx)
	switch {
	case err == nil && result.CSVFallback:
		fmt.Printf("write not authorized: exported %d words to CSV instead\n", result.Saved)
	case err == nil:
		fmt.Printf("saved %d words to the spreadsheet\n", result.Saved)
	case errors.Is(err, sheetsync.ErrNotConnected):
		fmt.Println("spreadsheet not configured (set KIOKU_SHEETS_API_KEY and KIOKU_SHEETS_SPREADSHEET_ID)")
	default:
		fmt.Printf("sync failed: %v\n", err)
	}
}

func (a *app) cmdLoad(ctx context.Context) {
	result, err := a.reconciler.LoadFromRemote(ctx)
	if err != nil {
		var setupErr *sheetsync.SetupError
		if errors.As(err, &setupErr) {
			fmt.Printf("spreadsheet needs setup: %v\n", setupErr)
			return
		}
		fmt.Printf("load failed: %v\n", err)
		return
	}
	if result.Loaded == 0 {
		fmt.Println("remote is empty, kept local vocabulary")
		return
	}
	fmt.Printf("loaded %d words from the spreadsheet\n", result.Loaded)
}

func (a *app) cmdExport(ctx context.Context) {
	if err := a.reconciler.ExportCSV(ctx); err != nil {
		fmt.Printf("export failed: %v\n", err)
		return
	}
	fmt.Println("CSV export written")
}

func (a *app) cmdStatus(ctx context.Context) {
	counts := a.vocab.StatusCounts()
	fmt.Printf("words: %d (often_forget %d, learning %d, know_well %d)\n",
		a.vocab.Len(),
		counts[domain.StatusOftenForget],
		counts[domain.StatusLearning],
		counts[domain.StatusKnowWell])
	fmt.Printf("sync: %s, last sync %s\n",
		a.reconciler.Reevaluate(ctx),
		a.reconciler.FormatLastSync(time.Now()))
}

// findWord resolves a word by id prefix, the short form printed by
// list.
func (a *app) findWord(prefix string) (*domain.Word, bool) {
	for _, word := range a.vocab.Words() {
		if strings.HasPrefix(word.ID.String(), prefix) {
			return word, true
		}
	}
	return nil, false
}

func formatFilters(filters map[domain.Status]bool) string {
	parts := make([]string, 0, len(domain.AllStatuses))
	for _, status := range domain.AllStatuses {
		mark := " "
		if filters[status] {
			mark = "x"
		}
		parts = append(parts, fmt.Sprintf("[%s] %s", mark, status))
	}
	return strings.Join(parts, "  ")
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
