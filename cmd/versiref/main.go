// Command versiref parses, formats, converts and indexes Bible
// references. It reads references in one style ("John 3:16"), renders
// them in another ("Gv 3,16"), scans running text for references, and
// stores scan results in a SQLite occurrence index.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/versiref/core/ref"
	"github.com/FocuswithJustin/versiref/core/refparse"
	"github.com/FocuswithJustin/versiref/core/style"
	"github.com/FocuswithJustin/versiref/core/versification"
	"github.com/FocuswithJustin/versiref/internal/input"
	"github.com/FocuswithJustin/versiref/internal/logging"
	"github.com/FocuswithJustin/versiref/internal/refindex"
	"github.com/FocuswithJustin/versiref/internal/sqlite"
)

const version = "0.1.0"

// CLI defines the command-line interface for versiref.
var CLI struct {
	// Global flags
	Style         string `short:"s" default:"en-sbl_abbreviations" help:"Reference style: a standard name set or a JSON definition file"`
	Versification string `default:"eng" help:"Versification standard"`
	Strict        bool   `help:"Accept only the style's own range separator"`
	LogLevel      string `name:"log-level" enum:"debug,info,warn,error" default:"warn" help:"Log level"`
	LogJSON       bool   `name:"log-json" help:"Write logs as JSON"`

	Parse    ParseCmd    `cmd:"" help:"Parse a reference and print its structure"`
	Format   FormatCmd   `cmd:"" help:"Format a reference given as a dotted OSIS-style ID"`
	Convert  ConvertCmd  `cmd:"" help:"Convert references from one style to another"`
	Validate ValidateCmd `cmd:"" help:"Check a reference against the versification"`
	Scan     ScanCmd     `cmd:"" help:"Scan text or files for references"`
	Index    IndexGroup  `cmd:"" help:"Occurrence index operations"`
	Version  VersionCmd  `cmd:"" help:"Print version information"`
}

// IndexGroup contains occurrence index operations.
type IndexGroup struct {
	Add         IndexAddCmd         `cmd:"" help:"Scan files and store their references in the index"`
	Books       IndexBooksCmd       `cmd:"" help:"Print occurrence counts per book"`
	Occurrences IndexOccurrencesCmd `cmd:"" help:"Print stored occurrences of a book"`
	Runs        IndexRunsCmd        `cmd:"" help:"List indexing runs"`
}

func loadStyle(name string) (*style.Style, error) {
	if strings.HasSuffix(name, ".json") {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading style definition: %w", err)
		}
		return style.FromDefinition(data)
	}
	return style.FromStandard(name)
}

func loadParser() (*versification.Versification, *refparse.Parser, error) {
	st, err := loadStyle(CLI.Style)
	if err != nil {
		return nil, nil, err
	}
	v, err := versification.FromStandard(CLI.Versification)
	if err != nil {
		return nil, nil, err
	}
	var opts []refparse.Option
	if CLI.Strict {
		opts = append(opts, refparse.Strict())
	}
	return v, refparse.New(st, v, opts...), nil
}

// readSource loads one scan source, extracting text from XML when the
// path looks like XML or --xml is set.
func readSource(path string, forceXML bool) (string, error) {
	data, err := input.ReadFile(path)
	if err != nil {
		return "", err
	}
	if forceXML || input.IsXML(path) {
		return input.ExtractXMLText(data)
	}
	return string(data), nil
}

// ParseCmd parses a single reference and prints its structure.
type ParseCmd struct {
	OSIS bool     `help:"Print the dotted ID instead of JSON"`
	Text []string `arg:"" help:"Reference text"`
}

func (c *ParseCmd) Run() error {
	v, parser, err := loadParser()
	if err != nil {
		return err
	}

	text := strings.Join(c.Text, " ")
	r, err := parser.ParseSimple(text)
	if err != nil {
		logging.ParseFailure(text, err)
		return err
	}
	if !r.IsValid(v) {
		logging.Warn("reference is outside the versification", "text", text)
	}

	if c.OSIS {
		id, err := r.IDString()
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	}
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// FormatCmd renders a dotted ID ("JHN.3.16" or "JHN.3.16-JHN.3.18") in
// the selected style.
type FormatCmd struct {
	ID string `arg:"" help:"Dotted reference ID"`
}

func (c *FormatCmd) Run() error {
	st, err := loadStyle(CLI.Style)
	if err != nil {
		return err
	}
	v, err := versification.FromStandard(CLI.Versification)
	if err != nil {
		return err
	}
	r, err := ref.ParseID(c.ID)
	if err != nil {
		return err
	}
	out, err := r.Format(st, v)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// ConvertCmd parses references in the global style and reformats them
// in a target style.
type ConvertCmd struct {
	To   string   `required:"" help:"Target style: a standard name set or a JSON definition file"`
	Text []string `arg:"" help:"Reference text"`
}

func (c *ConvertCmd) Run() error {
	v, parser, err := loadParser()
	if err != nil {
		return err
	}
	target, err := loadStyle(c.To)
	if err != nil {
		return err
	}

	text := strings.Join(c.Text, " ")
	r, err := parser.ParseSimple(text)
	if err != nil {
		logging.ParseFailure(text, err)
		return err
	}
	out, err := r.Format(target, v)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// ValidateCmd checks that a reference stays inside the versification.
type ValidateCmd struct {
	Text []string `arg:"" help:"Reference text"`
}

func (c *ValidateCmd) Run() error {
	v, parser, err := loadParser()
	if err != nil {
		return err
	}
	text := strings.Join(c.Text, " ")
	r, err := parser.ParseSimple(text)
	if err != nil {
		return err
	}
	if !r.IsValid(v) {
		return fmt.Errorf("reference %q is not valid under versification %s", text, CLI.Versification)
	}
	fmt.Printf("%s is valid\n", text)
	return nil
}

// scanMatch is the JSON shape of one scan result.
type scanMatch struct {
	Source string              `json:"source,omitempty"`
	Start  int                 `json:"start"`
	End    int                 `json:"end"`
	Ref    *ref.SimpleBibleRef `json:"ref"`
}

// ScanCmd scans files (or stdin) for references.
type ScanCmd struct {
	XML    bool     `help:"Treat input as XML and scan only its text content"`
	Ranges bool     `help:"Split multi-range references into one match per range"`
	JSON   bool     `help:"Print matches as JSON"`
	Paths  []string `arg:"" optional:"" help:"Files to scan (stdin when omitted)" type:"existingfile"`
}

func (c *ScanCmd) Run() error {
	_, parser, err := loadParser()
	if err != nil {
		return err
	}

	sources := c.Paths
	if len(sources) == 0 {
		sources = []string{"-"}
	}

	var all []scanMatch
	for _, path := range sources {
		var text string
		if path == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			text = string(data)
			if c.XML {
				if text, err = input.ExtractXMLText(data); err != nil {
					return err
				}
			}
		} else {
			if text, err = readSource(path, c.XML); err != nil {
				return err
			}
		}

		start := time.Now()
		var matches []refparse.Match
		if c.Ranges {
			matches = parser.ScanStringRanges(text)
		} else {
			matches = parser.ScanString(text)
		}
		logging.ScanEvent(path, len(matches), time.Since(start))

		for _, m := range matches {
			sm := scanMatch{Start: m.Start, End: m.End, Ref: m.Ref}
			if path != "-" {
				sm.Source = path
			}
			all = append(all, sm)
		}
	}

	if c.JSON {
		out, err := json.MarshalIndent(all, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	for _, sm := range all {
		if sm.Source != "" {
			fmt.Printf("%s:%d-%d\t%s\n", sm.Source, sm.Start, sm.End, sm.Ref.OriginalText)
		} else {
			fmt.Printf("%d-%d\t%s\n", sm.Start, sm.End, sm.Ref.OriginalText)
		}
	}
	return nil
}

// IndexAddCmd scans files and stores their references in the index.
type IndexAddCmd struct {
	DB    string   `default:"refs.db" help:"Index database path"`
	XML   bool     `help:"Treat inputs as XML and scan only their text content"`
	Paths []string `arg:"" help:"Files to index" type:"existingfile"`
}

func (c *IndexAddCmd) Run() error {
	_, parser, err := loadParser()
	if err != nil {
		return err
	}
	ix, err := refindex.Open(c.DB)
	if err != nil {
		return err
	}
	defer ix.Close()

	ctx := context.Background()
	runID, err := ix.BeginRun(ctx, CLI.Style, CLI.Versification)
	if err != nil {
		return err
	}
	ctx = logging.WithRunID(ctx, runID)

	total := 0
	for _, path := range c.Paths {
		data, err := input.ReadFile(path)
		if err != nil {
			return err
		}
		text := string(data)
		if c.XML || input.IsXML(path) {
			if text, err = input.ExtractXMLText(data); err != nil {
				return err
			}
		}
		stored, err := ix.IndexSource(ctx, runID, path, data, parser.ScanString(text))
		if err != nil {
			return err
		}
		total += stored
	}
	fmt.Printf("run %s: stored %d occurrences from %d files\n", runID, total, len(c.Paths))
	return nil
}

// IndexBooksCmd prints occurrence counts per book.
type IndexBooksCmd struct {
	DB string `default:"refs.db" help:"Index database path"`
}

func (c *IndexBooksCmd) Run() error {
	ix, err := refindex.Open(c.DB)
	if err != nil {
		return err
	}
	defer ix.Close()

	counts, err := ix.CountByBook(context.Background())
	if err != nil {
		return err
	}
	books := make([]string, 0, len(counts))
	for b := range counts {
		books = append(books, b)
	}
	sort.Strings(books)
	for _, b := range books {
		fmt.Printf("%s\t%d\n", b, counts[b])
	}
	return nil
}

// IndexOccurrencesCmd prints stored occurrences of one book.
type IndexOccurrencesCmd struct {
	DB   string `default:"refs.db" help:"Index database path"`
	Book string `arg:"" help:"Paratext book ID, e.g. JHN"`
}

func (c *IndexOccurrencesCmd) Run() error {
	ix, err := refindex.Open(c.DB)
	if err != nil {
		return err
	}
	defer ix.Close()

	occs, err := ix.OccurrencesForBook(context.Background(), strings.ToUpper(c.Book))
	if err != nil {
		return err
	}
	for _, o := range occs {
		fmt.Printf("%s:%d-%d\t%s\n", o.Source, o.StartOffset, o.EndOffset, o.OriginalText)
	}
	return nil
}

// IndexRunsCmd lists indexing runs.
type IndexRunsCmd struct {
	DB string `default:"refs.db" help:"Index database path"`
}

func (c *IndexRunsCmd) Run() error {
	ix, err := refindex.Open(c.DB)
	if err != nil {
		return err
	}
	defer ix.Close()

	runs, err := ix.Runs(context.Background())
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Printf("%s\t%s\t%s\t%s\n",
			r.ID, r.CreatedAt.Format(time.RFC3339), r.Style, r.Versification)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("versiref version %s\n", version)
	info := sqlite.GetInfo()
	fmt.Printf("sqlite driver: %s (%s)\n", info.DriverName, info.DriverType)
	return nil
}

func logLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "info":
		return logging.LevelInfo
	case "error":
		return logging.LevelError
	default:
		return logging.LevelWarn
	}
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("versiref"),
		kong.Description("Bible reference parsing, formatting and indexing"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	format := logging.FormatText
	if CLI.LogJSON {
		format = logging.FormatJSON
	}
	logging.InitLogger(logLevel(CLI.LogLevel), format)

	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
