package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"schooldash/adapters/export"
	"schooldash/domain/school"
	"schooldash/internal"
	"schooldash/internal/config"
	"schooldash/internal/container"
	"schooldash/internal/pipeline"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// controlFlags are the dashboard widgets exposed as flags
type controlFlags struct {
	sizeMin int
	sizeMax int
	schools []string
}

func (f *controlFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.sizeMin, "size-min", 0, "Smallest enrollment to include")
	cmd.Flags().IntVar(&f.sizeMax, "size-max", 0, "Largest enrollment to include")
	cmd.Flags().StringSliceVar(&f.schools, "school", nil, "School to include (repeatable, default all)")
}

func (f *controlFlags) controls(cmd *cobra.Command) (school.Controls, error) {
	var c school.Controls
	minSet, maxSet := cmd.Flags().Changed("size-min"), cmd.Flags().Changed("size-max")
	if minSet != maxSet {
		return c, fmt.Errorf("--size-min and --size-max must be given together")
	}
	if minSet {
		c.Size = &school.SizeRange{Min: f.sizeMin, Max: f.sizeMax}
	}
	if cmd.Flags().Changed("school") {
		c.Schools = f.schools
		c.SchoolsSet = true
	}
	return c, nil
}

func main() {
	var schoolFile, frplFile string

	rootCmd := &cobra.Command{
		Use:           "schooldash-cli",
		Short:         "Inspect the school demographics and poverty tables from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&schoolFile, "schools", "", "School enrollment table (overrides SCHOOL_DATA_FILE)")
	rootCmd.PersistentFlags().StringVar(&frplFile, "frpl", "", "FRPL table (overrides FRPL_DATA_FILE)")

	build := func() (*container.Container, error) {
		_ = godotenv.Load()
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		if schoolFile != "" {
			cfg.Data.SchoolFile = schoolFile
		}
		if frplFile != "" {
			cfg.Data.FrplFile = frplFile
		}
		logger := internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level), "console")
		return container.New(cfg, logger)
	}

	rootCmd.AddCommand(
		newSummaryCmd(build),
		newOptionsCmd(build),
		newExportCmd(build),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type builder func() (*container.Container, error)

func run(cmd *cobra.Command, build builder, flags *controlFlags) (*pipeline.Result, error) {
	controls, err := flags.controls(cmd)
	if err != nil {
		return nil, err
	}
	c, err := build()
	if err != nil {
		return nil, err
	}
	return c.Controller.Run(cmd.Context(), controls)
}

func newSummaryCmd(build builder) *cobra.Command {
	flags := &controlFlags{}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print total population per race/ethnicity",
		Long: `Print the summed population per race/ethnicity for the filtered schools.

Example: schooldash-cli summary --size-min 200 --size-max 800`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := run(cmd, build, flags)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), res)
		},
	}
	flags.register(cmd)
	return cmd
}

func newOptionsCmd(build builder) *cobra.Command {
	flags := &controlFlags{}
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the schools selectable within a size range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := run(cmd, build, flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			w := res.Widgets
			if !w.HasBounds {
				fmt.Fprintln(out, "no schools loaded")
				return nil
			}
			fmt.Fprintf(out, "enrollment bounds: %d..%d (filter %d..%d)\n", w.SizeBounds.Min, w.SizeBounds.Max, w.Size.Min, w.Size.Max)
			for _, name := range w.Options {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newExportCmd(build builder) *cobra.Command {
	flags := &controlFlags{}
	var format, outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the long-form population table as CSV or Arrow",
		Long: `Write one row per (school, race/ethnicity) for the filtered schools.

Example: schooldash-cli export --format arrow --out population.arrow`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			res, err := run(cmd, build, flags)
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				file, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", outPath, err)
				}
				defer file.Close()
				out = file
			}
			return export.Write(out, f, res.Population)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv or arrow")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}

func printSummary(out io.Writer, res *pipeline.Result) error {
	if res.Empty() {
		fmt.Fprintln(out, "no schools match the filters")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "race_ethnicity\tpopulation")
	for _, t := range res.Summary {
		fmt.Fprintf(tw, "%s\t%d\n", t.RaceEthnicity, t.Population)
	}
	fmt.Fprintf(tw, "\t\n%d schools\t\n", len(res.Joined))
	return tw.Flush()
}
