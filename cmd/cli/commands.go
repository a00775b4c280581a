package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"csvviz/adapters/csvfile"
	"csvviz/adapters/excel"
	"csvviz/app"
	"csvviz/domain/column"
	"csvviz/domain/core"
	"csvviz/internal"
	domainStats "csvviz/domain/stats"
	"csvviz/internal/testkit"
	"csvviz/ports"
)

// pathFiles is a read-only ports.FileStore over local paths.
type pathFiles struct{}

func (pathFiles) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	return "", fmt.Errorf("the command line reads files in place")
}

func (pathFiles) Open(ctx context.Context, fileID string) (io.ReadCloser, error) {
	f, err := os.Open(fileID)
	if os.IsNotExist(err) {
		return nil, &core.FileNotFoundError{FileID: fileID}
	}
	return f, err
}

func (pathFiles) List(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (pathFiles) Delete(ctx context.Context, fileID string) error {
	return fmt.Errorf("the command line never deletes input files")
}

// pathReader picks a table reader from the file extension. Workbooks go to
// the xlsx reader, everything else is parsed as CSV.
type pathReader struct {
	csv  ports.TableReader
	xlsx ports.TableReader
}

func newPathReader(logger *internal.Logger) pathReader {
	return pathReader{
		csv:  csvfile.NewReader().WithLogger(logger),
		xlsx: excel.NewWorkbookReader().WithLogger(logger),
	}
}

func (r pathReader) ReadTable(ctx context.Context, fileID string, src io.Reader) (*column.Table, error) {
	if strings.EqualFold(filepath.Ext(fileID), ".xlsx") {
		return r.xlsx.ReadTable(ctx, fileID, src)
	}
	return r.csv.ReadTable(ctx, fileID, src)
}

func (a *App) newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns <file.csv>",
		Short: "List the columns of a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			names, err := svc.ListColumns(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.opts.asJSON {
				return a.printJSON(names)
			}
			for _, name := range names {
				_, _ = fmt.Fprintln(a.stdout, name)
			}
			return nil
		},
	}
}

func (a *App) newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <file.csv> <column>",
		Short: "Show a column's kind and the charts it accepts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			desc, err := svc.DescribeColumn(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if a.opts.asJSON {
				return a.printJSON(desc)
			}

			charts := make([]string, len(desc.Allowed))
			for i, t := range desc.Allowed {
				charts[i] = t.String()
				if t == desc.Default {
					charts[i] += " (default)"
				}
			}
			if len(charts) == 0 {
				charts = []string{"none"}
			}
			_, _ = fmt.Fprintf(a.stdout, "Column: %s\nKind:   %s\nCharts: %s\n",
				desc.Column, desc.Kind, strings.Join(charts, ", "))
			return nil
		},
	}
}

type renderOptions struct {
	chart string
	xlsx  string
}

func (a *App) newRenderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render <file.csv> <column>",
		Short: "Render one column and print its statistics",
		Long: `Render one column as a PNG chart and print its statistics.

Without --chart the column's default chart is drawn: a histogram for numbers,
a trend line for dates and a bar chart for labels.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.chart, "chart", "c", "", "histogram, boxplot, scatter, bar, pie or trend")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "Also write the statistics to this workbook")
	return cmd
}

func (a *App) render(ctx context.Context, path, name string, opts *renderOptions) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	res, err := svc.RenderAndSummarize(ctx, path, name, opts.chart)
	if err != nil {
		return err
	}
	if opts.xlsx != "" {
		if err := a.writeWorkbook(opts.xlsx, res.Record); err != nil {
			return err
		}
	}

	if a.opts.asJSON {
		return a.printJSON(res)
	}
	_, _ = fmt.Fprintf(a.stdout, "%s: %s\n\n", res.Spec.Title, filepath.Join(a.opts.outDir, res.Artifact))
	a.printRecord(res.Record)
	return nil
}

func (a *App) writeWorkbook(path string, rec domainStats.Record) error {
	logger, err := a.logger()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}
	if err := excel.NewSummaryExporter().WithLogger(logger).Export(f, rec); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *App) printRecord(rec domainStats.Record) {
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	for _, e := range rec.Entries() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", e.Name, e.Value)
	}
	for _, f := range rec.Frequencies {
		_, _ = fmt.Fprintf(tw, "  %s\t%d\n", f.Value, f.Count)
	}
	_ = tw.Flush()
	_, _ = fmt.Fprintln(a.stdout, rec.MissingInfo())
}

type reportLine struct {
	Column   string `json:"column"`
	Chart    string `json:"chart,omitempty"`
	Artifact string `json:"artifact,omitempty"`
	Missing  string `json:"missing,omitempty"`
	Skipped  string `json:"skipped,omitempty"`
}

func (a *App) newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <file.csv>",
		Short: "Render every column with its default chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			entries, err := svc.RenderAll(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			lines := a.reportLines(entries)
			if a.opts.asJSON {
				return a.printJSON(lines)
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "COLUMN\tCHART\tOUTPUT\tMISSING")
			for _, l := range lines {
				if l.Skipped != "" {
					_, _ = fmt.Fprintf(tw, "%s\t-\tskipped: %s\t-\n", l.Column, l.Skipped)
					continue
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.Column, l.Chart, l.Artifact, l.Missing)
			}
			return tw.Flush()
		},
	}
}

func (a *App) reportLines(entries []app.ReportEntry) []reportLine {
	lines := make([]reportLine, len(entries))
	for i, e := range entries {
		if e.Err != nil {
			lines[i] = reportLine{Column: e.Column, Skipped: e.Err.Error()}
			continue
		}
		lines[i] = reportLine{
			Column:   e.Column,
			Chart:    e.Result.Spec.Type.String(),
			Artifact: filepath.Join(a.opts.outDir, e.Result.Artifact),
			Missing:  domainStats.FormatPercentage(e.Result.Record.MissingPercentage),
		}
	}
	return lines
}

type sampleOptions struct {
	orders      int
	missingRate float64
	seed        int64
	file        string
}

func (a *App) newSampleCmd() *cobra.Command {
	opts := &sampleOptions{}

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a synthetic orders CSV to try the other commands on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := testkit.DefaultShoppingConfig()
			cfg.OrderCount = opts.orders
			cfg.MissingRate = opts.missingRate
			cfg.Seed = opts.seed
			if cfg.OrderCount <= 0 {
				return fmt.Errorf("--orders must be positive")
			}

			out := a.stdout
			if opts.file != "" {
				f, err := os.Create(opts.file)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return testkit.NewShoppingDataGenerator(cfg).WriteCSV(out)
		},
	}

	cmd.Flags().IntVarP(&opts.orders, "orders", "n", 200, "Number of rows")
	cmd.Flags().Float64Var(&opts.missingRate, "missing-rate", 0.05, "Chance that a cell is left blank")
	cmd.Flags().Int64Var(&opts.seed, "generator-seed", time.Now().UnixNano(), "Generator seed")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Write to this file instead of stdout")
	return cmd
}

func (a *App) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
