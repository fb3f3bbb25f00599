package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/tarmac/internal"
	"github.com/starford/tarmac/internal/api"
	"github.com/starford/tarmac/internal/history"
	"github.com/starford/tarmac/internal/ingest"
	"github.com/starford/tarmac/internal/mcpserver"
	"github.com/starford/tarmac/internal/models"
	"github.com/starford/tarmac/internal/query"
	"github.com/starford/tarmac/internal/store"
	pkgconfig "github.com/starford/tarmac/pkg/config"
)

func main() {
	cmd := &cli.Command{
		Name:  "tarmac",
		Usage: "Flight-schedule parser, JSON store, and query tool",
		Commands: []*cli.Command{
			parseCmd(),
			queryCmd(),
			serveCmd(),
			mcpCmd(),
			runsCmd(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func parseCmd() *cli.Command {
	return &cli.Command{
		Name:  "parse",
		Usage: "Validate schedule CSV files and rebuild the JSON database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Parse a single CSV file",
			},
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Parse all .csv files in a folder and combine results",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Value:   "db.json",
				Usage:   "Write valid flights to this JSON file",
			},
			&cli.StringFlag{
				Name:  "errors",
				Value: "errors.txt",
				Usage: "Write rejected rows to this file",
			},
			&cli.BoolFlag{
				Name:    "show",
				Aliases: []string{"s"},
				Usage:   "Print raw CSV content lines before parsing",
			},
			&cli.StringFlag{
				Name:    "history",
				Sources: cli.EnvVars("TARMAC_HISTORY"),
				Usage:   "Record this run in a SQLite ledger at the given path",
			},
		},
		Action: runParse,
	}
}

func runParse(ctx context.Context, cmd *cli.Command) error {
	var paths []string
	if in := cmd.String("input"); in != "" {
		paths = append(paths, in)
	}
	if dir := cmd.String("dir"); dir != "" {
		found, err := ingest.DiscoverDir(dir)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return cli.Exit("either provide -i file.csv or -d folder/", 2)
	}

	if cmd.Bool("show") {
		ingest.Show(os.Stdout, os.Stderr, paths)
	}

	flights, rowErrs := ingest.Files(paths)
	fmt.Printf("Parsed: %d valid flights, %d errors\n", len(flights), len(rowErrs))

	out := cmd.String("out")
	if err := store.SaveDB(out, flights); err != nil {
		return err
	}
	fmt.Printf("Saved DB to %s\n", out)

	if len(rowErrs) > 0 {
		errPath := cmd.String("errors")
		if err := store.SaveErrors(errPath, rowErrs); err != nil {
			return err
		}
		fmt.Printf("Saved errors to %s\n", errPath)
	}

	if ledgerPath := cmd.String("history"); ledgerPath != "" {
		if err := recordRun(ledgerPath, paths, flights, rowErrs); err != nil {
			return err
		}
	}
	return nil
}

func recordRun(ledgerPath string, paths []string, flights []models.Flight, rowErrs []models.RowError) error {
	db, err := history.Open(ledgerPath)
	if err != nil {
		return err
	}
	defer db.Close()

	msgs := make([]string, len(rowErrs))
	for i, e := range rowErrs {
		msgs[i] = e.String()
	}

	run := history.NewRun(paths, len(flights), len(rowErrs))
	if err := db.RecordRun(run, msgs); err != nil {
		return err
	}
	fmt.Printf("Recorded run %s in %s\n", run.ID, ledgerPath)
	return nil
}

func queryCmd() *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "Run declarative queries against a JSON database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "db",
				Aliases:  []string{"j"},
				Required: true,
				Usage:    "JSON database produced by parse",
			},
			&cli.StringFlag{
				Name:     "queries",
				Aliases:  []string{"q"},
				Required: true,
				Usage:    "JSON file containing the queries to run",
			},
			&cli.StringFlag{
				Name:  "query-results",
				Value: "query_results.json",
				Usage: "Where to write the query results JSON",
			},
		},
		Action: runQuery,
	}
}

func runQuery(ctx context.Context, cmd *cli.Command) error {
	flights, err := store.LoadDB(cmd.String("db"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error loading DB: %v", err), 2)
	}
	fmt.Printf("Loaded %d flights from %s\n", len(flights), cmd.String("db"))

	specs, err := query.LoadSpecs(cmd.String("queries"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error running queries: %v", err), 3)
	}
	batch, err := query.Run(flights, specs)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error running queries: %v", err), 3)
	}

	resultsPath := cmd.String("query-results")
	if err := store.WriteJSON(resultsPath, batch); err != nil {
		return err
	}
	fmt.Printf("Wrote query results to %s\n", resultsPath)
	return nil
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the flight store over HTTP with live reload",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("TARMAC_CONFIG_FILE"),
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Expose the flight store to LLM tools over MCP stdio",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"j"},
				Value:   "db.json",
				Usage:   "JSON database to serve",
			},
		},
		Action: runMCP,
	}
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	svc := api.NewService(cmd.String("db"), nil)
	if _, err := svc.Reload(); err != nil {
		return cli.Exit(fmt.Sprintf("Error loading DB: %v", err), 2)
	}
	return mcpserver.New(svc).ServeStdio()
}

func runsCmd() *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "List recorded ingest runs from the history ledger",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "history",
				Sources:  cli.EnvVars("TARMAC_HISTORY"),
				Required: true,
				Usage:    "Path to the SQLite ledger",
			},
			&cli.IntFlag{
				Name:  "limit",
				Value: 20,
				Usage: "Maximum number of runs to list",
			},
			&cli.StringFlag{
				Name:  "run",
				Usage: "Print the rejection messages of one run instead",
			},
		},
		Action: runRuns,
	}
}

func runRuns(ctx context.Context, cmd *cli.Command) error {
	db, err := history.Open(cmd.String("history"))
	if err != nil {
		return err
	}
	defer db.Close()

	if id := cmd.String("run"); id != "" {
		msgs, err := db.RunErrors(id)
		if err != nil {
			return err
		}
		for _, m := range msgs {
			fmt.Println(m)
		}
		return nil
	}

	runs, err := db.ListRuns(int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Printf("%s  %s  valid=%d errors=%d  %s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"),
			r.ValidCount, r.ErrorCount, strings.Join(r.Sources, ","))
	}
	return nil
}
