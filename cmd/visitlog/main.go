package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/visitlog/visitlog/internal/config"
	"github.com/visitlog/visitlog/internal/domain/visit"
	"github.com/visitlog/visitlog/internal/platform/console"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "visitlog",
		Short: "Clinic visit record keeper",
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(statsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the session logger. All diagnostics go to stderr so the
// interactive menu owns stdout.
func newLogger(cfg *config.Config) zerolog.Logger {
	var out io.Writer = os.Stderr
	if cfg.IsDev() {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return zerolog.New(out).With().
		Timestamp().
		Str("session_id", uuid.NewString()).
		Logger()
}

func newStore(cfg *config.Config, fs afero.Fs, logger zerolog.Logger) *visit.Store {
	return visit.NewStore(fs, filepath.Join(cfg.DataDir, cfg.DataFile), logger)
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the interactive visit tracker",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			fs := afero.NewOsFs()

			if n, err := visit.CountFiles(fs, cfg.DataDir); err != nil {
				logger.Warn().Err(err).Msg("count data dir files")
			} else {
				logger.Info().Str("dir", cfg.DataDir).Int("files", n).Msg("data directory")
			}

			store := newStore(cfg, fs, logger)
			col, err := store.Load()
			if err != nil {
				logger.Warn().Err(err).Msg("load failed, starting empty")
				col = visit.NewCollection()
			}

			return console.New(col, store, logger).Run()
		},
	}
}

// reportOptions select and order records for the non-interactive listing.
type reportOptions struct {
	sortKey     string
	minDuration int // -1 disables the duration filter
	doctor      string
	emergencies bool
}

// buildReport applies the report filters and sort to a collection. Filters
// run before the sort, and each step produces a new collection.
func buildReport(col *visit.Collection, opts reportOptions) (*visit.Collection, error) {
	out := col
	if opts.doctor != "" {
		filtered := visit.NewCollection()
		for r := range out.ByDoctor(opts.doctor) {
			filtered.Add(r)
		}
		out = filtered
	}
	if opts.emergencies {
		filtered := visit.NewCollection()
		for e := range out.Emergencies() {
			filtered.Add(e)
		}
		out = filtered
	}
	if opts.minDuration >= 0 {
		out = out.FilterByDuration(opts.minDuration)
	}

	switch opts.sortKey {
	case "":
	case "patient":
		out = out.SortByPatientName()
	case "duration":
		out = out.SortByDuration()
	default:
		return nil, fmt.Errorf("unknown sort key %q (use patient or duration)", opts.sortKey)
	}
	return out, nil
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a filtered, sorted record listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			sortKey, _ := cmd.Flags().GetString("sort")
			minDuration, _ := cmd.Flags().GetInt("min-duration")
			doctor, _ := cmd.Flags().GetString("doctor")
			emergencies, _ := cmd.Flags().GetBool("emergencies")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			col, err := newStore(cfg, afero.NewOsFs(), logger).Load()
			if err != nil {
				return err
			}

			out, err := buildReport(col, reportOptions{
				sortKey:     sortKey,
				minDuration: minDuration,
				doctor:      doctor,
				emergencies: emergencies,
			})
			if err != nil {
				return err
			}

			fmt.Println(console.RenderTable(out))
			return nil
		},
	}
	cmd.Flags().String("sort", "", "Sort key: patient or duration")
	cmd.Flags().Int("min-duration", -1, "Only records longer than N minutes")
	cmd.Flags().String("doctor", "", "Only records for this doctor (exact match)")
	cmd.Flags().Bool("emergencies", false, "Only emergency records")
	return cmd
}

// printSummary writes the aggregate statistics in a fixed, sorted order.
func printSummary(w io.Writer, s *visit.Summary) {
	fmt.Fprintf(w, "Records:         %d\n", s.TotalRecords)
	fmt.Fprintf(w, "Total duration:  %d min\n", s.TotalDurationMins)
	fmt.Fprintf(w, "Avg duration:    %.1f min\n", s.AvgDurationMins)
	fmt.Fprintf(w, "Emergencies:     %d\n", s.EmergencyCount)

	doctors := make([]string, 0, len(s.ByDoctor))
	for d := range s.ByDoctor {
		doctors = append(doctors, d)
	}
	sort.Strings(doctors)
	for _, d := range doctors {
		fmt.Fprintf(w, "  doctor %-20s %d\n", d, s.ByDoctor[d])
	}

	labels := make([]string, 0, len(s.ByUrgency))
	for l := range s.ByUrgency {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	for _, l := range labels {
		fmt.Fprintf(w, "  urgency %-19s %d\n", l, s.ByUrgency[l])
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print aggregate statistics over the data file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			col, err := newStore(cfg, afero.NewOsFs(), logger).Load()
			if err != nil {
				return err
			}

			printSummary(os.Stdout, visit.Summarize(col))
			return nil
		},
	}
}
