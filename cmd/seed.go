package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fb-dialect/internal/engine"
	"fb-dialect/internal/schema"
)

var (
	count  int
	seed   int64
	clean  bool
	dryRun bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the reflected tables with generated rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Flag > Config > Default
		targetCount := viper.GetInt("settings.default_count")
		if count > 0 {
			targetCount = count
		}

		log.Println("Analyzing schema...")
		in := schema.NewInspector(DB, Dialect)
		targets, err := in.Analyze(ctx, targetTables(), workerCount(cmd))
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			return fmt.Errorf("no tables to seed")
		}

		if dryRun {
			log.Println("[SIMULATION] Dry-Run Mode Active: No data will be written.")
			for i, t := range targets {
				fmt.Printf("[%02d] %s (Dependencies: %v)\n", i+1, t.Name, t.Dependencies)
			}
			return nil
		}

		p := engine.NewPumper(DB, Dialect, engine.NewGenerator(seed))
		if clean {
			if err := p.Clean(ctx, targets); err != nil {
				return err
			}
		}

		log.Printf("Starting seed with count=%d per table...", targetCount)
		start := time.Now()

		progress := uiprogress.New()
		progress.SetOut(os.Stderr)
		progress.Start()
		bar := progress.AddBar(max(targetCount*len(targets), 1)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return "Processing: "
		})

		results, err := p.Pump(ctx, targets, targetCount, func() { bar.Incr() })
		progress.Stop()
		if err != nil {
			return err
		}

		fmt.Println("\nSummary Report (Dependency Order):")
		total := 0
		for i, r := range results {
			icon := "✓"
			if r.Status != engine.StatusOK {
				icon = "!"
			}
			fmt.Printf("[%s] [%02d/%02d] %-20s : %d rows (Target: %d) - %s\n",
				icon, i+1, len(results), r.Table, r.Actual, r.Target, r.Status)
			if r.Err != "" {
				fmt.Printf("    └ Error: %s\n", r.Err)
			}
			total += r.Actual
		}
		fmt.Println("--------------------------------------------------")
		fmt.Printf("Total Operations: %d\n", total)
		log.Printf("Seed Done! Time Elapsed: %s", time.Since(start))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVar(&count, "count", 0, "Number of records to generate per table (overrides config)")
	seedCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed, 0 picks one")
	seedCmd.Flags().BoolVar(&clean, "clean", false, "Delete existing rows before seeding")
	seedCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the seeding order without writing to the database")
	seedCmd.Flags().StringSliceVarP(&tables, "tables", "t", []string{}, "Specific tables to seed (comma-separated)")
	seedCmd.Flags().IntVar(&workers, "workers", 0, "Number of tables reflected concurrently (overrides config)")

	viper.BindPFlag("settings.default_count", seedCmd.Flags().Lookup("count"))
	viper.SetDefault("settings.default_count", 100)
}
