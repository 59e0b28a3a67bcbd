package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/opencloze/opencloze/internal/ledger"
	"github.com/opencloze/opencloze/internal/statistics"
)

type periodFlag statistics.Period

func (p *periodFlag) Set(val string) error {
	for _, period := range statistics.Periods {
		if val == string(period) {
			*p = periodFlag(period)
			return nil
		}
	}
	return fmt.Errorf("invalid period: %s", val)
}

func (p periodFlag) String() string {
	return string(p)
}

func (p *periodFlag) Type() string {
	return "period"
}

var _ pflag.Value = (*periodFlag)(nil)

func newStatsCommand() *cobra.Command {
	period := periodFlag(statistics.PeriodDaily)
	var languageName string
	var setName string
	var fromDate string
	var toDate string

	command := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregated practice history from the progress ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			progressLedger, err := newLedger(cfg)
			if err != nil {
				return err
			}

			entries, err := progressLedger.ReadAll()
			if err != nil {
				return fmt.Errorf("progressLedger.ReadAll() > %w", err)
			}

			filter := statistics.EntryFilter{Language: languageName, Set: setName}
			if fromDate != "" {
				filter.From, err = time.Parse(ledger.DateFormat, fromDate)
				if err != nil {
					return fmt.Errorf("invalid --from date %q, want YYYY-MM-DD", fromDate)
				}
			}
			if toDate != "" {
				filter.To, err = time.Parse(ledger.DateFormat, toDate)
				if err != nil {
					return fmt.Errorf("invalid --to date %q, want YYYY-MM-DD", toDate)
				}
			}
			entries = statistics.FilterEntries(entries, filter)
			if len(entries) == 0 {
				fmt.Println("No rounds recorded yet.")
				return nil
			}

			rows, err := statistics.Aggregate(entries, statistics.Period(period))
			if err != nil {
				return err
			}

			fmt.Printf("%-10s %-10s %-12s %7s %10s %7s %7s %9s %9s\n",
				"PERIOD", "LANGUAGE", "SET", "ROUNDS", "SENTENCES", "WRONG", "RATIO", "MINUTES", "PROGRESS")
			for _, row := range rows {
				fmt.Printf("%-10s %-10s %-12s %7d %10d %7d %7.2f %9.1f %8.1f%%\n",
					row.Bucket, row.Language, row.Set, row.Rounds, row.NSentences,
					row.NWrong, row.WrongRatio(), row.Seconds/60, row.MaxProgress*100)
			}
			return nil
		},
	}
	command.Flags().Var(&period, "period", "bucket size: daily, weekly, monthly, or yearly")
	command.Flags().StringVar(&languageName, "language", "", "restrict to one language")
	command.Flags().StringVar(&setName, "set", "", "restrict to one set")
	command.Flags().StringVar(&fromDate, "from", "", "earliest date to include, YYYY-MM-DD")
	command.Flags().StringVar(&toDate, "to", "", "latest date to include, YYYY-MM-DD")

	return command
}
