package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/moodlog/internal/api"
	"github.com/pbaille/moodlog/internal/aggregate"
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/export"
	"github.com/pbaille/moodlog/internal/mood"
)

func trendCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show the daily mood trend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if days <= 0 {
				days = a.cfg.Insights.WindowDays
			}
			points, err := a.svc.Trend(ctx, userID, days)
			if err != nil {
				return err
			}

			for _, p := range points {
				bar := strings.Repeat("#", int(p.AverageValence*4+0.5))
				fmt.Printf("%s  %4.1f  %-13s  %-32s  %d\n", p.Date, p.AverageValence, mood.Band(p.AverageValence), bar, p.EntryCount)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 0, "window size in days (default from config)")
	return cmd
}

func distCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dist",
		Short: "Show how often each mood occurs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			counts, err := a.svc.Distribution(ctx, userID, domain.EntryFilter{})
			if err != nil {
				return err
			}
			if len(counts) == 0 {
				fmt.Println("No entries yet.")
				return nil
			}
			for _, c := range counts {
				fmt.Printf("%-9s %4d  %5.1f%%\n", c.Mood, c.Count, c.Percent)
			}
			return nil
		},
	}
}

func calendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendar",
		Short: "Show the predominant mood of each day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			days, err := a.svc.Calendar(ctx, userID)
			if err != nil {
				return err
			}

			keys := make([]aggregate.Day, 0, len(days))
			for d := range days {
				keys = append(keys, d)
			}
			sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

			for _, d := range keys {
				fmt.Printf("%s  %s\n", d, days[d])
			}
			return nil
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show journal statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.svc.Statistics(ctx, userID)
			if err != nil {
				return err
			}

			fmt.Printf("Total entries:      %d\n", st.TotalEntries)
			fmt.Printf("This week:          %d\n", st.ThisWeekEntries)
			fmt.Printf("Most frequent mood: %s\n", st.MostFrequentMood)
			fmt.Printf("Streak:             %d day(s)\n", st.Streak)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.svc.List(ctx, userID, domain.EntryFilter{Newest: true})
			if err != nil {
				return err
			}

			var w io.Writer = os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				w = f
			}

			if err := export.WriteCSV(w, entries, a.svc.Location()); err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintf(os.Stderr, "Exported %d entries to %s\n", len(entries), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			server := api.New(a.svc, a.log, api.Options{
				Addr:           addr,
				AllowedOrigins: a.cfg.Server.AllowedOrigins,
				WindowDays:     a.cfg.Insights.WindowDays,
			})
			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "server address (default from config)")
	return cmd
}
