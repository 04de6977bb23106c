// Command calc-engine runs ROI calculations and manages benchmark data from
// the command line.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"logistics_roi/pkg/core/benchmark"
	"logistics_roi/pkg/core/intake"
	"logistics_roi/pkg/core/report"
	"logistics_roi/pkg/core/roi"
	"logistics_roi/pkg/core/store"
)

func main() {
	godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func inputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "input",
		Aliases:  []string{"i"},
		Usage:    "ROI request JSON file, - for stdin",
		Required: true,
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "calc-engine",
		Usage: "logistics platform ROI calculator",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "benchmarks",
				Value:   "config/benchmarks.yaml",
				Usage:   "benchmark YAML, used when DATABASE_URL is unset or unreachable",
				EnvVars: []string{"BENCHMARKS_FILE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "calculate",
				Usage:  "compute ROI and print the result as JSON",
				Flags:  []cli.Flag{inputFlag(), &cli.BoolFlag{Name: "pretty", Usage: "indent the JSON output"}},
				Action: runCalculate,
			},
			{
				Name:   "check",
				Usage:  "validate an ROI request without computing it",
				Flags:  []cli.Flag{inputFlag()},
				Action: runCheck,
			},
			{
				Name:  "report",
				Usage: "render the ROI report to a file",
				Flags: []cli.Flag{
					inputFlag(),
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path, defaults to ROI_<company>.pdf"},
					&cli.BoolFlag{Name: "html", Usage: "write HTML instead of PDF"},
				},
				Action: runReport,
			},
			{
				Name:  "benchmarks",
				Usage: "inspect or publish benchmark profiles",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "list the configured industries",
						Flags:  []cli.Flag{&cli.BoolFlag{Name: "yaml", Usage: "print the full table as YAML"}},
						Action: runBenchmarksList,
					},
					{
						Name:   "sync",
						Usage:  "upsert the benchmark YAML into Postgres (DATABASE_URL)",
						Action: runBenchmarksSync,
					},
				},
			},
		},
	}
}

func readInput(c *cli.Context) (roi.Input, error) {
	path := c.String("input")

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(c.App.Reader)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return roi.Input{}, fmt.Errorf("failed to read input: %w", err)
	}
	return intake.Decode(data)
}

func calculate(c *cli.Context) (roi.Input, roi.Result, error) {
	input, err := readInput(c)
	if err != nil {
		return roi.Input{}, roi.Result{}, err
	}

	table, _, err := store.LoadBenchmarks(c.Context, c.String("benchmarks"))
	if err != nil {
		return roi.Input{}, roi.Result{}, err
	}
	result := roi.NewCalculator(benchmark.NewResolver(table)).Run(input)
	if !result.Finite() {
		return roi.Input{}, roi.Result{}, fmt.Errorf("inputs are too large to compute")
	}
	return input, result, nil
}

func runCalculate(c *cli.Context) error {
	_, result, err := calculate(c)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	if c.Bool("pretty") {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

func runCheck(c *cli.Context) error {
	input, err := readInput(c)
	if err != nil {
		var verr *intake.ValidationError
		if errors.As(err, &verr) {
			for _, f := range verr.Fields {
				fmt.Fprintf(c.App.Writer, "  %s: %s\n", f.Field, f.Message)
			}
		}
		return err
	}
	fmt.Fprintf(c.App.Writer, "OK: %s (%s)\n", input.CompanyName, input.Industry)
	return nil
}

func runReport(c *cli.Context) error {
	input, result, err := calculate(c)
	if err != nil {
		return err
	}

	out := c.String("out")
	var data []byte
	if c.Bool("html") {
		page, err := report.HTML(input, result)
		if err != nil {
			return err
		}
		data = []byte(page)
		if out == "" {
			out = report.Filename(input.CompanyName)
			out = out[:len(out)-len(filepath.Ext(out))] + ".html"
		}
	} else {
		data, err = report.PDF(input, result)
		if err != nil {
			return err
		}
		if out == "" {
			out = report.Filename(input.CompanyName)
		}
	}

	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s (%d bytes)\n", out, len(data))
	return nil
}

func runBenchmarksList(c *cli.Context) error {
	table, source, err := store.LoadBenchmarks(c.Context, c.String("benchmarks"))
	if err != nil {
		return err
	}

	if c.Bool("yaml") {
		data, err := benchmark.MarshalYAML(table)
		if err != nil {
			return err
		}
		_, err = c.App.Writer.Write(data)
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "INDUSTRY\tPLATFORM COST\tIMPLEMENTATION\tTURNS\n")
	for _, p := range append(table.Profiles(), table.Default()) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\n", p.Industry,
			report.FormatCurrency(p.AnnualPlatformCost), report.FormatCurrency(p.ImplementationCost), p.InventoryTurns())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "\n%d industries (source: %s)\n", table.Len(), source)
	return nil
}

func runBenchmarksSync(c *cli.Context) error {
	table, err := benchmark.LoadYAML(c.String("benchmarks"))
	if err != nil {
		return err
	}

	ctx := c.Context
	if err := store.InitDB(ctx); err != nil {
		return err
	}
	defer store.Close()

	repo := store.NewBenchmarkRepo(store.GetPool())
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := repo.Upsert(ctx, table); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Synced %d industries plus default\n", table.Len())
	return nil
}
