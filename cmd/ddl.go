package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"fb-dialect/internal/ast"
	"fb-dialect/internal/dialect"
	"fb-dialect/internal/schema"
)

var withSequences bool

var ddlCmd = &cobra.Command{
	Use:   "ddl",
	Short: "Render CREATE statements for the reflected schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		in := schema.NewInspector(DB, Dialect)

		log.Println("Analyzing schema...")
		reflected, err := in.Analyze(ctx, targetTables(), workerCount(cmd))
		if err != nil {
			return err
		}

		var sequences []dialect.Identifier
		if withSequences {
			if sequences, err = in.SequenceNames(ctx); err != nil {
				return err
			}
		}

		stmts, err := renderDDL(Dialect, reflected, sequences)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, s := range stmts {
			fmt.Fprintf(out, "%s;\n\n", s)
		}
		log.Printf("Rendered %d statements for %d tables", len(stmts), len(reflected))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(ddlCmd)

	ddlCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Specific tables to render (comma-separated)")
	ddlCmd.Flags().IntVar(&workers, "workers", 0, "Number of tables reflected concurrently (overrides config)")
	ddlCmd.Flags().BoolVar(&withSequences, "sequences", true, "Render CREATE SEQUENCE for every generator")
}

// renderDDL renders sequences first, then tables in the given order, each
// followed by its comment.
func renderDDL(d *dialect.Dialect, tables []*schema.Table, sequences []dialect.Identifier) ([]string, error) {
	var stmts []string
	for _, name := range sequences {
		s, err := d.Compile(&ast.CreateSequence{Sequence: &ast.Sequence{Name: name.Name, Quote: name.Quote}})
		if err != nil {
			return nil, fmt.Errorf("failed to render sequence %s: %w", name, err)
		}
		stmts = append(stmts, s)
	}
	for _, t := range tables {
		def := t.Definition()
		s, err := d.Compile(&ast.CreateTable{Table: def})
		if err != nil {
			return nil, fmt.Errorf("failed to render table %s: %w", t.Name, err)
		}
		stmts = append(stmts, s)
		if t.Comment == "" {
			continue
		}
		c, err := d.CommentOnTable(def)
		if err != nil {
			return nil, fmt.Errorf("failed to render comment of %s: %w", t.Name, err)
		}
		stmts = append(stmts, c)
	}
	return stmts, nil
}
