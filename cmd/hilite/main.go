// Command hilite views, inspects, and exports decorated documents.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/dshills/hilite/internal/annotate"
	"github.com/dshills/hilite/internal/codec"
	"github.com/dshills/hilite/internal/config"
	"github.com/dshills/hilite/internal/engine/document"
	"github.com/dshills/hilite/internal/engine/span"
	"github.com/dshills/hilite/internal/export"
	"github.com/dshills/hilite/internal/listview"
	initlua "github.com/dshills/hilite/internal/plugin/lua"
	"github.com/dshills/hilite/internal/style"
	"github.com/dshills/hilite/internal/tui"
)

const version = "0.1.0"

// CLI defines the command-line interface for hilite.
var CLI struct {
	Config string `name:"config" short:"c" help:"Config file path" type:"path"`

	View    ViewCmd    `cmd:"" help:"View a decorated document in the terminal"`
	List    ListCmd    `cmd:"" help:"Print the decoration index"`
	Export  ExportCmd  `cmd:"" help:"Render a document to standalone HTML"`
	Strip   StripCmd   `cmd:"" help:"Remove decoration metadata from a document"`
	Check   CheckCmd   `cmd:"" help:"Verify a document's decoration token"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// appEnv is the shared command environment: configuration, palette,
// kind registry (builtins plus init-script kinds), and codec.
type appEnv struct {
	cfg config.Config
	pal style.Palette
	reg *style.Registry
	cod *codec.Codec
}

func setup() (*appEnv, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, err
	}

	pal := cfg.StylePalette()
	reg := style.NewRegistry(pal)
	if cfg.InitScript != "" {
		if err := initlua.RunInit(cfg.InitScript, reg, pal); err != nil {
			return nil, err
		}
	}

	return &appEnv{
		cfg: cfg,
		pal: pal,
		reg: reg,
		cod: &codec.Codec{CompressAt: cfg.CompressAt},
	}, nil
}

// configPath resolves the config file: the --config flag when given,
// otherwise the per-user default location.
func configPath() string {
	if CLI.Config != "" {
		return CLI.Config
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "hilite", "config.toml")
}

// open reads the document at path and loads its persisted span set.
func (e *appEnv) open(path string) (*document.Document, *span.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	doc, err := document.FromReader(f, document.WithFontSize(e.cfg.FontSize))
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	store := span.NewStore()
	if err := e.cod.Load(doc, store); err != nil {
		return nil, nil, fmt.Errorf("loading decorations from %s: %w", path, err)
	}
	return doc, store, nil
}

// ViewCmd opens the terminal viewer.
type ViewCmd struct {
	Path string `arg:"" help:"Document file" type:"existingfile"`
}

func (c *ViewCmd) Run() error {
	env, err := setup()
	if err != nil {
		return err
	}
	doc, store, err := env.open(c.Path)
	if err != nil {
		return err
	}

	app := tui.New(doc, store, env.pal, annotate.NewSession())

	// Palette edits in the config file show up live.
	if path := configPath(); path != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			_ = config.Watch(ctx, path, func(cfg config.Config) {
				app.Reload(cfg.StylePalette())
			}, nil)
		}()
	}

	return app.Run()
}

// ListCmd prints one line per span: position, kind, excerpt, note.
type ListCmd struct {
	Path string `arg:"" help:"Document file" type:"existingfile"`
}

func (c *ListCmd) Run() error {
	env, err := setup()
	if err != nil {
		return err
	}
	doc, store, err := env.open(c.Path)
	if err != nil {
		return err
	}

	for _, e := range listview.Entries(doc, store) {
		fmt.Printf("%5d  %-13s %s", e.Line, e.Kind, e.DisplayText)
		if e.Note != "" {
			fmt.Printf("  [%s]", e.Note)
		}
		fmt.Println()
	}
	return nil
}

// ExportCmd renders the decorated document as a standalone HTML page.
type ExportCmd struct {
	Path string `arg:"" help:"Document file" type:"existingfile"`
	Out  string `short:"o" help:"Output file (default stdout)" type:"path"`
}

func (c *ExportCmd) Run() error {
	env, err := setup()
	if err != nil {
		return err
	}
	doc, store, err := env.open(c.Path)
	if err != nil {
		return err
	}

	page := export.Render(doc, store)
	if c.Out == "" {
		fmt.Print(page)
		return nil
	}
	return os.WriteFile(c.Out, []byte(page), 0o644)
}

// StripCmd removes the decoration token and directive, leaving the
// plain text.
type StripCmd struct {
	Path string `arg:"" help:"Document file" type:"existingfile"`
	Out  string `short:"o" help:"Output file (default: rewrite in place)" type:"path"`
}

func (c *StripCmd) Run() error {
	env, err := setup()
	if err != nil {
		return err
	}
	doc, store, err := env.open(c.Path)
	if err != nil {
		return err
	}

	// Saving an empty span set removes both metadata lines.
	store.RemoveAll()
	if err := env.cod.Save(doc, store); err != nil {
		return err
	}

	out := c.Out
	if out == "" {
		out = c.Path
	}
	return os.WriteFile(out, []byte(doc.Text()), 0o644)
}

// CheckCmd decodes the token without touching the file and reports
// the span count, or the corruption fault.
type CheckCmd struct {
	Path string `arg:"" help:"Document file" type:"existingfile"`
}

func (c *CheckCmd) Run() error {
	env, err := setup()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return err
	}

	text := string(data)
	start, end, ok := codec.LocateToken(text)
	if !ok {
		fmt.Println("no decoration token")
		return nil
	}

	spans, err := env.cod.Deserialize(text[start:end])
	if err != nil {
		return fmt.Errorf("%s: %w", c.Path, err)
	}
	fmt.Printf("%d spans, token %d bytes\n", len(spans), end-start)
	return nil
}

// VersionCmd prints the tool version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("hilite version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("hilite"),
		kong.Description("Text decoration viewer and toolkit"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
