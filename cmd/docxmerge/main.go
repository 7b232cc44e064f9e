package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge"
	"github.com/benjaminschreck/go-docxmerge/pkg/docxmerge/source"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "docxmerge version %s\n", version)
		return 0
	case "render":
		opts, err := parseRenderFlags(args[1:], stderr)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return 0
			}
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
		if err := render(context.Background(), opts); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: docxmerge <command> [arguments]")
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  render -template T.docx -data D.json -output O.docx   Render a template with data")
	fmt.Fprintln(w, "  version                                              Show version information")
}

// queryFlags collects repeated -sql name=query arguments.
type queryFlags []source.Query

func (q *queryFlags) String() string {
	names := make([]string, len(*q))
	for i, query := range *q {
		names[i] = query.Name
	}
	return strings.Join(names, ",")
}

func (q *queryFlags) Set(value string) error {
	name, sql, ok := strings.Cut(value, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.TrimSpace(sql) == "" {
		return fmt.Errorf("expected name=query, got %q", value)
	}
	*q = append(*q, source.Query{Name: name, SQL: sql})
	return nil
}

type renderOptions struct {
	template string
	data     string
	output   string
	xlsx     string
	queries  queryFlags
	dbType   string
	dsn      string
	redis    string
	redisKey string
	logLevel string
}

func parseRenderFlags(args []string, stderr io.Writer) (*renderOptions, error) {
	opts := &renderOptions{}
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.template, "template", "", "template DOCX file")
	fs.StringVar(&opts.data, "data", "", "JSON data file")
	fs.StringVar(&opts.output, "output", "", "output DOCX file")
	fs.StringVar(&opts.xlsx, "xlsx", "", "workbook whose sheets are added as tables")
	fs.Var(&opts.queries, "sql", "name=query whose result is added as a table (repeatable)")
	fs.StringVar(&opts.dbType, "db-type", source.DriverPostgres, "database type for -sql: pgsql or mysql")
	fs.StringVar(&opts.dsn, "dsn", "", "database connection string for -sql")
	fs.StringVar(&opts.redis, "redis", "", "redis address holding a JSON data object")
	fs.StringVar(&opts.redisKey, "redis-key", "", "redis key of the JSON data object")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error, off")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, opts.validate()
}

func (o *renderOptions) validate() error {
	if o.template == "" {
		return errors.New("-template is required")
	}
	if o.output == "" {
		return errors.New("-output is required")
	}
	for _, input := range []string{o.template, o.data, o.xlsx} {
		if input != "" && samePath(input, o.output) {
			return fmt.Errorf("output %s would overwrite input %s", o.output, input)
		}
	}
	if len(o.queries) > 0 && o.dsn == "" {
		return errors.New("-sql requires -dsn")
	}
	if (o.redis == "") != (o.redisKey == "") {
		return errors.New("-redis and -redis-key must be used together")
	}
	if o.logLevel != "" {
		config := docxmerge.DefaultConfig()
		config.LogLevel = o.logLevel
		if err := config.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func (o *renderOptions) loaders() []source.Loader {
	var loaders []source.Loader
	if o.data != "" {
		loaders = append(loaders, source.JSONFile{Path: o.data})
	}
	if o.xlsx != "" {
		loaders = append(loaders, source.XLSX{Path: o.xlsx})
	}
	if len(o.queries) > 0 {
		loaders = append(loaders, source.SQL{Driver: o.dbType, DSN: o.dsn, Queries: o.queries})
	}
	if o.redis != "" {
		loaders = append(loaders, source.Redis{Addr: o.redis, Key: o.redisKey})
	}
	return loaders
}

func render(ctx context.Context, opts *renderOptions) error {
	config := docxmerge.GetGlobalConfig()
	if opts.logLevel != "" {
		config.LogLevel = opts.logLevel
		docxmerge.SetGlobalConfig(config)
	}
	logger := docxmerge.GetLogger()
	defer logger.Sync()

	data, err := source.Merge(ctx, opts.loaders()...)
	if err != nil {
		return fmt.Errorf("loading data: %w", err)
	}

	engine := docxmerge.NewWithOptions(docxmerge.WithConfig(config), docxmerge.WithCache(0))
	defer engine.Close()

	tmpl, err := engine.PrepareFile(opts.template)
	if err != nil {
		return err
	}
	defer tmpl.Close()

	out, err := tmpl.Render(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, out, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", opts.output, err)
	}
	logger.WithFields(docxmerge.Fields{"template": opts.template, "output": opts.output}).
		Info("rendered %d bytes", len(out))
	return nil
}
