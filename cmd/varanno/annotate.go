package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/varanno/internal/annotate"
	"github.com/inodb/varanno/internal/duckdb"
	"github.com/inodb/varanno/internal/exac"
	"github.com/inodb/varanno/internal/output"
	"github.com/inodb/varanno/internal/vcf"
)

func newAnnotateCmd() *cobra.Command {
	var (
		outputFile string
		progress   bool
	)

	cmd := &cobra.Command{
		Use:   "annotate [flags] <input-file>",
		Short: "Annotate variants in a VCF file",
		Long: `Annotate every record of a VCF-style table and write one tab-separated
row per annotated variant. Records that cannot be annotated are skipped and
listed in the summary printed to stderr (use --strict to abort instead).`,
		Example: `  varanno annotate input.vcf
  varanno annotate -o annotated.tsv input.vcf
  varanno annotate --offline --strict input.vcf
  varanno annotate --workers 8 --db runs.duckdb -o annotated.tsv input.vcf
  cat input.vcf | varanno annotate -`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return &usageError{fmt.Errorf("input file argument required")}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnnotate(cmd, args[0], outputFile, progress)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	flags.BoolVar(&progress, "progress", false, "Show a progress bar over the input file")
	flags.Int("workers", 1, "Number of records annotated concurrently (output order is preserved)")
	flags.Bool("strict", false, "Abort on the first record that cannot be annotated")
	flags.Bool("offline", false, "Skip the frequency service and use INFO AF for every record")
	flags.String("frequency-url", exac.DefaultBaseURL, "Base URL of the ExAC frequency service")
	flags.String("db", "", "Also store annotated rows in this DuckDB database")

	viper.BindPFlag("annotate.workers", flags.Lookup("workers"))
	viper.BindPFlag("annotate.strict", flags.Lookup("strict"))
	viper.BindPFlag("frequency.offline", flags.Lookup("offline"))
	viper.BindPFlag("frequency.url", flags.Lookup("frequency-url"))
	viper.BindPFlag("output.db", flags.Lookup("db"))

	return cmd
}

func runAnnotate(cmd *cobra.Command, inputPath, outputFile string, progress bool) error {
	logger, err := newLogger(viper.GetBool("log.verbose"))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	parser, closeInput, err := openInput(inputPath, progress)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w (check that the file path is correct)", err)
		}
		return err
	}
	defer closeInput()

	var source annotate.FrequencySource
	if viper.GetBool("frequency.offline") {
		logger.Info("offline mode, allele frequencies come from INFO AF")
	} else {
		url := viper.GetString("frequency.url")
		logger.Debug("using frequency service", zap.String("url", url))
		source = exac.NewClient(url)
	}

	resolver := annotate.NewFrequencyResolver(source)
	resolver.SetLogger(logger)

	ann := annotate.NewAnnotator(resolver)
	ann.SetWorkers(viper.GetInt("annotate.workers"))
	ann.SetStrict(viper.GetBool("annotate.strict"))
	ann.SetLogger(logger)

	var out io.Writer = cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var writer annotate.AnnotationWriter = output.NewTabWriter(out)

	var run *duckdb.RunWriter
	if dbPath := viper.GetString("output.db"); dbPath != "" {
		store, err := duckdb.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open results store: %w", err)
		}
		defer store.Close()

		run, err = store.BeginRun(inputPath)
		if err != nil {
			return err
		}
		logger.Info("storing annotated rows",
			zap.String("db", dbPath),
			zap.String("run_id", run.RunID()))
		writer = output.NewMultiWriter(writer, run)
	}

	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	summary, err := ann.AnnotateAll(cmd.Context(), parser, writer)
	if summary != nil {
		summary.WriteSummary(cmd.ErrOrStderr())
	}
	if err != nil {
		return err
	}

	if run != nil {
		if err := run.Finish(summary); err != nil {
			return err
		}
	}

	return nil
}

// openInput creates a parser for path, optionally reporting read progress.
func openInput(path string, progress bool) (*vcf.Parser, func(), error) {
	if !progress || path == "-" {
		parser, err := vcf.NewParser(path)
		if err != nil {
			return nil, nil, err
		}
		return parser, func() { parser.Close() }, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open variant file: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("could not get file info: %w", err)
	}

	bar := pb.Full.Start64(fi.Size())
	bar.Set(pb.Bytes, true)

	parser, err := vcf.NewParserFromReader(bar.NewProxyReader(f))
	if err != nil {
		bar.Finish()
		f.Close()
		return nil, nil, err
	}
	return parser, func() {
		bar.Finish()
		f.Close()
	}, nil
}
