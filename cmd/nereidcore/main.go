// cmd/nereidcore is a smoke-test harness over the core library: it loads
// or creates a session, runs a handful of tool calls, and prints a render.
// It is not the interactive shell and does not speak MCP; those remain
// external collaborators per SPEC_FULL.md §1.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/julianshen/nereid-core/internal/agenttools"
	"github.com/julianshen/nereid-core/internal/catalog"
	"github.com/julianshen/nereid-core/internal/config"
	"github.com/julianshen/nereid-core/internal/model"
	"github.com/julianshen/nereid-core/internal/opsengine"
	"github.com/julianshen/nereid-core/internal/persist"
	"github.com/julianshen/nereid-core/internal/render"
)

var (
	durableWrites bool
	mcpHTTPPort   int
	mcpFlag       bool
	demoFlag      bool
	catalogFlag   bool
	configPath    string
)

// fallbackTermWidth is used when the terminal width cannot be sampled (not
// a tty, or running under a test harness).
const fallbackTermWidth = 80

func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallbackTermWidth
	}
	return w
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "nereidcore [session-dir]",
		Short: "Load a nereid session and render its active diagram",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return run(args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().BoolVar(&durableWrites, "durable-writes", false, "fsync every write for crash safety")
	rootCmd.Flags().IntVar(&mcpHTTPPort, "mcp-http-port", 0, "port an external MCP transport should bind (not served by this binary)")
	rootCmd.Flags().BoolVar(&mcpFlag, "mcp", false, "reserved for an external stdio MCP transport")
	rootCmd.Flags().BoolVar(&demoFlag, "demo", false, "run against an in-memory demo session instead of a session directory")
	rootCmd.Flags().BoolVar(&catalogFlag, "catalog", false, "record this session in the local catalog")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if demoFlag && len(args) > 0 {
		fmt.Fprintln(os.Stderr, "Error: --demo and a session-dir argument are mutually exclusive")
		os.Exit(2)
	}
	if mcpFlag && mcpHTTPPort != 0 {
		fmt.Fprintln(os.Stderr, "Error: --mcp and --mcp-http-port are mutually exclusive transports")
		os.Exit(2)
	}

	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	var sess *model.Session
	var sessionDir string
	switch {
	case demoFlag:
		sess = demoSession()
	case len(args) == 1:
		sessionDir = args[0]
		loaded, err := persist.Load(sessionDir)
		if err != nil {
			return fmt.Errorf("loading session: %w", err)
		}
		sess = loaded
	default:
		sess = model.NewSession()
	}

	ws := agenttools.NewWorkspace(sess, opsengine.NewEngine())
	if sessionDir != "" {
		ws.PersistRoot = sessionDir
		ws.Durable = durableWrites || cfg.Persist.DurableWrites
	}

	if catalogFlag {
		if err := recordInCatalog(cfg, sessionDir, sess); err != nil {
			return fmt.Errorf("recording catalog entry: %w", err)
		}
	}

	summary, ok := agenttools.DiagramCurrent(ws)
	if !ok {
		ids := agenttools.DiagramList(ws)
		if len(ids) == 0 {
			fmt.Println("session has no diagrams")
			return nil
		}
		summary = ids[0]
	}

	opts := render.DefaultOptions()
	opts.ColumnWidth = widthFor(cfg, termWidth())
	opts.ShowNotes = cfg.Render.ShowNotes
	if cfg.Render.RowSpacing > 0 {
		opts.RowSpacing = cfg.Render.RowSpacing
	}

	text, err := agenttools.DiagramRenderText(ws, summary.DiagramID, opts)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", summary.DiagramID, err)
	}
	fmt.Println(text)
	return nil
}

// widthFor picks the renderer's per-column width: the configured column
// width when it is narrower than available, otherwise available. It bounds
// a single column, so a diagram with several columns can still be wider
// than the terminal.
func widthFor(cfg *config.Config, available int) int {
	if cfg.Render.ColumnWidth > 0 && cfg.Render.ColumnWidth < available {
		return cfg.Render.ColumnWidth
	}
	return available
}

// recordInCatalog touches sessionDir's entry in the local catalog. A demo
// session (empty sessionDir) has nothing to index and is a no-op.
func recordInCatalog(cfg *config.Config, sessionDir string, sess *model.Session) error {
	if sessionDir == "" {
		return nil
	}
	path := cfg.Persist.CatalogPath
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	cat, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer cat.Close()

	abs, err := filepath.Abs(sessionDir)
	if err != nil {
		return err
	}
	return cat.Touch(abs, sess.SessionID, filepath.Base(abs))
}

func demoSession() *model.Session {
	sess := model.NewSession()
	d := model.NewSequenceDiagram("demo", "Login flow")
	_ = d.ReplaceSequence(&model.SequenceAST{
		Participants: []model.Participant{
			{ID: "p:1", MermaidIdent: "User"},
			{ID: "p:2", MermaidIdent: "Server"},
		},
		Messages: []model.Message{
			{ID: "m:1", FromID: "p:1", ToID: "p:2", Kind: model.MessageSync, Text: "login", OrderKey: model.FirstOrderKey()},
			{ID: "m:2", FromID: "p:2", ToID: "p:1", Kind: model.MessageReturn, Text: "ok", OrderKey: model.OrderKeyBetween(model.FirstOrderKey(), "")},
		},
	})
	_ = sess.AddDiagram(d)
	sess.ActiveDiagramID = "demo"
	return sess
}
