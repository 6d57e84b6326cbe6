package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/pattern"
	"github.com/matzehuels/labyrinth/pkg/pattern/catalog"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
	"github.com/matzehuels/labyrinth/pkg/render/nodelink"
)

// catalogCommand creates the catalog command group.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and generate pattern catalogs",
	}

	cmd.AddCommand(c.catalogStatsCommand())
	cmd.AddCommand(c.catalogGenerateCommand())
	cmd.AddCommand(c.catalogDotCommand())

	return cmd
}

// catalogStatsCommand creates the "catalog stats" subcommand.
func (c *CLI) catalogStatsCommand() *cobra.Command {
	var showExcluded bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the configured pattern catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := c.newRegistry()
			if err != nil {
				return err
			}
			writeRegistryStats(cmd.OutOrStdout(), reg, showExcluded)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showExcluded, "excluded", false, "list the patterns that were not registered")
	return cmd
}

func writeRegistryStats(w io.Writer, reg *pattern.Registry, showExcluded bool) {
	st := reg.Stats()
	universal := make([]string, len(st.Universal))
	for i, s := range st.Universal {
		universal[i] = strconv.Itoa(s)
	}
	if len(universal) == 0 {
		universal = []string{"none"}
	}

	writeTable(w, []string{"", ""}, [][]string{
		{"size", strconv.Itoa(st.Size)},
		{"base patterns", strconv.Itoa(st.Base)},
		{"registered", strconv.Itoa(st.Registered)},
		{"excluded", strconv.Itoa(st.Excluded)},
		{"universal", strings.Join(universal, ", ")},
		{"min central", strconv.Itoa(st.MinCentral)},
		{"empty pairs", strconv.Itoa(st.EmptyCombos)},
		{"fingerprint", reg.Fingerprint()},
	})

	if !showExcluded {
		return
	}
	for _, ex := range reg.Excluded() {
		fmt.Fprintf(w, "%s %s\n", StyleNumber.Render(fmt.Sprintf("#%d", ex.Index)), StyleDim.Render(ex.Reason))
	}
}

// catalogGenerateCommand creates the "catalog generate" subcommand.
func (c *CLI) catalogGenerateCommand() *cobra.Command {
	var (
		size    int
		perPair int
		format  string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Enumerate Hamiltonian-path patterns into a catalog file",
		Long: `Enumerate the Hamiltonian paths of a size x size grid that enter on the
west edge, keeping at most --per-pair paths for every start and end cell.

The embedded catalog was produced with --size 5 --per-pair 6. Larger sizes
take a long time; interrupt with Ctrl-C.`,
		Example: `  labyrinth catalog generate -o patterns.json
  labyrinth catalog generate --size 7 --per-pair 2 -f yaml -o patterns7.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidatePatternSize(size); err != nil {
				return err
			}
			var write func(io.Writer, pattern.Catalog) error
			switch format {
			case "json":
				write = pattern.WriteJSON
			case "yaml":
				write = pattern.WriteYAML
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "format must be json or yaml, got %q", format)
			}

			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))
			spin := newSpinner(ctx, fmt.Sprintf("Enumerating %dx%d patterns", size, size))
			spin.Start()
			cat, err := pattern.Enumerate(ctx, size, perPair)
			if err != nil {
				spin.StopWithError("Enumeration stopped")
				return err
			}
			spin.Stop()
			prog.done(fmt.Sprintf("Enumerated %d patterns", len(cat.Patterns)))

			reg, err := cat.Registry(pattern.WithLogger(c.Logger))
			if err != nil {
				c.Logger.Warn("catalog does not form a usable registry", "error", errors.UserMessage(err))
			}

			if output == "" {
				return write(cmd.OutOrStdout(), cat)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := write(f, cat); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			printSuccess("Wrote %d patterns", len(cat.Patterns))
			printFile(output)
			if reg != nil {
				printInfo("Registry %s: %d patterns", reg.Fingerprint(), reg.Len())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", catalog.Size, "pattern side length (odd, at least 5)")
	cmd.Flags().IntVar(&perPair, "per-pair", catalog.PerPair, "paths kept per start/end cell pair (0 keeps all)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// catalogDotCommand creates the "catalog dot" subcommand.
func (c *CLI) catalogDotCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:     "dot <pattern>",
		Short:   "Draw one registered pattern as DOT or SVG",
		Example: "  labyrinth catalog dot 42 -f svg -o pattern42.svg",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(format, pipeline.TileFormats); err != nil {
				return err
			}
			reg, err := c.newRegistry()
			if err != nil {
				return err
			}
			p, err := strconv.Atoi(args[0])
			if err != nil || p < 0 || p >= reg.Len() {
				return errors.New(errors.ErrCodeInvalidInput, "pattern must be an index in [0, %d), got %q", reg.Len(), args[0])
			}

			dot := nodelink.PatternDOT(reg, p)
			res := &pipeline.Result{Data: []byte(dot), Format: format}
			if format == pipeline.FormatSVG {
				if res.Data, err = nodelink.RenderSVG(cmd.Context(), dot); err != nil {
					return err
				}
			}
			return writeArtifact(cmd, output, res)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatDOT, "output format: dot or svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
