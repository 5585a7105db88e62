// Command calvindump prints the structure of a Calvin file and can export
// or summarize a single numeric column.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sbinet/npyio"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/HenrikBengtsson/affxparser-sub002/calvin"
	"github.com/HenrikBengtsson/affxparser-sub002/internal/config"
	"github.com/HenrikBengtsson/affxparser-sub002/internal/logging"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "calvindump: %v\n", err)
		os.Exit(1)
	}
}

type dumpFlags struct {
	config  string
	table   string
	rows    int
	npy     string
	column  string
	stats   bool
	logFile string
	verbose bool
}

func parseFlags(args []string) (*dumpFlags, string, error) {
	var df dumpFlags
	fs := flag.NewFlagSet("calvindump", flag.ContinueOnError)
	fs.StringVar(&df.config, "config", "", "YAML configuration file")
	fs.StringVar(&df.table, "table", "", "table to print, as group/table")
	fs.IntVar(&df.rows, "rows", 0, "rows to print (default dump.max_rows)")
	fs.StringVar(&df.npy, "npy", "", "write -column of -table to this .npy file")
	fs.StringVar(&df.column, "column", "", "column name for -npy and -stats")
	fs.BoolVar(&df.stats, "stats", false, "print summary statistics of -column")
	fs.StringVar(&df.logFile, "log-file", "", "write logs to this rotating file")
	fs.BoolVar(&df.verbose, "v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: calvindump [flags] file.dat")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, "", errors.New("expected exactly one file")
	}
	if (df.npy != "" || df.stats) && (df.table == "" || df.column == "") {
		return nil, "", errors.New("-npy and -stats need -table and -column")
	}
	return &df, fs.Arg(0), nil
}

func run(args []string, out io.Writer) error {
	df, path, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(df.config)
	if err != nil {
		return err
	}
	if df.logFile != "" {
		cfg.Log.File = df.logFile
	}
	if df.verbose {
		cfg.Log.Level = "debug"
	}
	if df.rows <= 0 {
		df.rows = cfg.Dump.MaxRows
	}
	log, err := logging.New(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	f, err := calvin.Open(path, calvin.WithLogger(log))
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	log.Debug("opened file", zap.String("path", path), zap.String("type", f.FileTypeID()))

	if df.table == "" {
		return dumpHeader(out, f)
	}

	t, err := f.OpenTablePath(df.table)
	if err != nil {
		return err
	}
	defer t.Close()

	if df.npy == "" && !df.stats {
		return dumpRows(out, t, df.rows)
	}
	x, err := readColumn(t, df.column)
	if err != nil {
		return err
	}
	if df.npy != "" {
		if err := writeNpy(df.npy, x); err != nil {
			return err
		}
		log.Info("exported column",
			zap.String("table", df.table),
			zap.String("column", df.column),
			zap.Int("rows", len(x)),
			zap.String("npy", df.npy))
	}
	if df.stats {
		printStats(out, df.column, x)
	}
	return nil
}

func dumpHeader(w io.Writer, f *calvin.File) error {
	fmt.Fprintf(w, "=== %s (%d bytes) ===\n\n", f.Path(), f.Size())
	err := calvin.Walk(f, func(path string, obj any) error {
		switch h := obj.(type) {
		case *calvin.GenericDataHeader:
			printMeta(w, h, "")
		case *calvin.GroupHeader:
			fmt.Fprintf(w, "\nGroup %q: %d tables\n", h.Name, len(h.Tables()))
		case *calvin.TableHeader:
			fmt.Fprintf(w, "  Table %q: %d rows, header @%d, data @%d\n",
				path, h.RowCount(), h.HeaderStart(), h.DataStart())
			for i, c := range h.Columns() {
				fmt.Fprintf(w, "    [%d] %s %s\n", i, c.Name, c.Type)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "\nParameters:")
	return calvin.WalkParams(f, func(info calvin.ParamInfo) error {
		fmt.Fprintf(w, "  %s = %s\n", info.Path, info.Param)
		return nil
	})
}

func printMeta(w io.Writer, h *calvin.GenericDataHeader, indent string) {
	fmt.Fprintf(w, "%sType:     %s\n", indent, h.FileTypeID)
	fmt.Fprintf(w, "%sID:       %s\n", indent, h.FileID)
	fmt.Fprintf(w, "%sCreated:  %s\n", indent, h.CreationTime)
	fmt.Fprintf(w, "%sLocale:   %s\n", indent, h.Locale)
	for i, p := range h.Parents() {
		fmt.Fprintf(w, "%sParent %d:\n", indent, i)
		printMeta(w, p, indent+"  ")
	}
}

func dumpRows(w io.Writer, t *calvin.Table, n int) error {
	n = min(n, t.RowCount())
	names := make([]string, 0, t.ColumnCount())
	for _, c := range t.Columns() {
		names = append(names, c.Name)
	}
	fmt.Fprintln(w, strings.Join(names, "\t"))

	rows, err := t.Rows(0, n)
	if err != nil {
		return err
	}
	for _, r := range rows {
		cells := make([]string, len(r))
		for i, v := range r {
			cells[i] = fmt.Sprint(v)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if n < t.RowCount() {
		fmt.Fprintf(w, "... %d more rows\n", t.RowCount()-n)
	}
	return nil
}

func readColumn(t *calvin.Table, name string) ([]float64, error) {
	col := t.Header().ColumnIndex(name)
	if col < 0 {
		return nil, fmt.Errorf("column %q: %w", name, calvin.ErrNotFound)
	}
	return t.Float64Column(col)
}

func writeNpy(path string, x []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := npyio.Write(f, x); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func printStats(w io.Writer, name string, x []float64) {
	if len(x) == 0 {
		fmt.Fprintf(w, "%s: no rows\n", name)
		return
	}
	mean, std := stat.MeanStdDev(x, nil)
	fmt.Fprintf(w, "%s: n=%d min=%g max=%g mean=%g sd=%g\n",
		name, len(x), floats.Min(x), floats.Max(x), mean, std)
}
