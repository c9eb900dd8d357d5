package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"fb-dialect/internal/dialect"
	"fb-dialect/internal/schema"
)

var (
	tables    []string
	workers   int
	format    string
	withViews bool
)

// report is what inspect prints.
type report struct {
	Server     string          `json:"server" yaml:"server"`
	Generation string          `json:"generation" yaml:"generation"`
	Tables     []*schema.Table `json:"tables" yaml:"tables"`
	TempTables []string        `json:"temp_tables,omitempty" yaml:"temp_tables,omitempty"`
	Views      []view          `json:"views,omitempty" yaml:"views,omitempty"`
	Sequences  []string        `json:"sequences,omitempty" yaml:"sequences,omitempty"`
}

type view struct {
	Name       string `json:"name" yaml:"name"`
	Definition string `json:"definition" yaml:"definition"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Reflect tables, views and sequences and print them",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start := time.Now()

		names := targetTables()
		if len(names) == 0 {
			var err error
			if names, err = schema.NewInspector(DB, Dialect).TableNames(ctx); err != nil {
				return err
			}
		}
		log.Printf("Reflecting %d tables...", len(names))

		progress := uiprogress.New()
		progress.SetOut(os.Stderr)
		progress.Start()
		bar := progress.AddBar(max(len(names), 1)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Reflecting: "
		})

		in := schema.NewInspector(DB, Dialect, schema.WithProgress(func(string) { bar.Incr() }))
		reflected, err := in.Analyze(ctx, names, workerCount(cmd))
		progress.Stop()
		if err != nil {
			return err
		}

		rep, err := buildReport(ctx, in, reflected, withViews)
		if err != nil {
			return err
		}
		if err := writeReport(cmd.OutOrStdout(), rep, viper.GetString("settings.format")); err != nil {
			return err
		}
		log.Printf("Inspect Done! Time Elapsed: %s", time.Since(start))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Specific tables to reflect (comma-separated)")
	inspectCmd.Flags().IntVar(&workers, "workers", 0, "Number of tables reflected concurrently (overrides config)")
	inspectCmd.Flags().StringVar(&format, "format", "", "Output format: yaml, json or text")
	inspectCmd.Flags().BoolVar(&withViews, "views", true, "Include views, temporary tables and sequences")

	viper.BindPFlag("settings.format", inspectCmd.Flags().Lookup("format"))
	viper.SetDefault("settings.format", "yaml")
	viper.SetDefault("settings.workers", 4)
}

// targetTables applies the precedence flag > config > all. Names are
// canonical: orders means ORDERS in the catalog, Orders is case sensitive.
func targetTables() []dialect.Identifier {
	names := tables
	if len(names) == 0 {
		names = viper.GetStringSlice("settings.tables")
	}
	ids := make([]dialect.Identifier, 0, len(names))
	for _, name := range names {
		ids = append(ids, dialect.Canonical(strings.TrimSpace(name)))
	}
	return ids
}

func nameList(ids []dialect.Identifier) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, id.Name)
	}
	return names
}

func workerCount(cmd *cobra.Command) int {
	if cmd.Flags().Changed("workers") && workers > 0 {
		return workers
	}
	return viper.GetInt("settings.workers")
}

func buildReport(ctx context.Context, in *schema.Inspector, reflected []*schema.Table, extras bool) (*report, error) {
	info := Dialect.ServerInfo()
	rep := &report{
		Server:     info.String(),
		Generation: Dialect.Generation().String(),
		Tables:     reflected,
	}
	if !extras {
		return rep, nil
	}

	temps, err := in.TempTableNames(ctx)
	if err != nil {
		return nil, err
	}
	rep.TempTables = nameList(temps)
	sequences, err := in.SequenceNames(ctx)
	if err != nil {
		return nil, err
	}
	rep.Sequences = nameList(sequences)
	views, err := in.ViewNames(ctx)
	if err != nil {
		return nil, err
	}
	for _, name := range views {
		src, _, err := in.ViewDefinition(ctx, name)
		if err != nil {
			return nil, err
		}
		rep.Views = append(rep.Views, view{Name: name.Name, Definition: strings.TrimSpace(src)})
	}
	return rep, nil
}

func writeReport(w io.Writer, rep *report, format string) error {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "text":
		return writeText(w, rep)
	}
	return fmt.Errorf("unknown output format %q (want yaml, json or text)", format)
}

func writeText(w io.Writer, rep *report) error {
	fmt.Fprintf(w, "Server: %s (%s)\n", rep.Server, rep.Generation)
	fmt.Fprintln(w, "--------------------------------------------------")
	for i, t := range rep.Tables {
		fmt.Fprintf(w, "[%02d] %s (Dependencies: %v)\n", i+1, t.Name, t.Dependencies)
		for _, c := range t.Columns {
			var flags []string
			if !c.Nullable {
				flags = append(flags, "NOT NULL")
			}
			if c.Default != nil {
				flags = append(flags, "DEFAULT "+*c.Default)
			}
			if c.Computed != nil {
				flags = append(flags, "COMPUTED "+c.Computed.SQLText)
			}
			if c.Sequence != nil {
				flags = append(flags, "SEQUENCE "+c.Sequence.Name)
			}
			fmt.Fprintf(w, "    %-24s %-16s %s\n", c.Name, c.Type, strings.Join(flags, " "))
		}
	}
	for _, v := range rep.Views {
		fmt.Fprintf(w, "[view] %s\n", v.Name)
	}
	for _, s := range rep.Sequences {
		fmt.Fprintf(w, "[sequence] %s\n", s)
	}
	_, err := fmt.Fprintf(w, "Total Tables: %d\n", len(rep.Tables))
	return err
}
