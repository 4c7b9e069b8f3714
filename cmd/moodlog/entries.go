package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbaille/moodlog/internal/aggregate"
	"github.com/pbaille/moodlog/internal/domain"
	"github.com/pbaille/moodlog/internal/journal"
	"github.com/pbaille/moodlog/internal/mood"
)

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [text]",
		Short: "Write a journal entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Print("Classifying... ")
			created, err := a.svc.Create(ctx, userID, strings.Join(args, " "))
			if err != nil {
				fmt.Println("failed")
				return err
			}
			fmt.Println("done")

			fmt.Printf("Added entry: %s\n", shortID(created.Entry.ID))
			printAnalysis(created.Analysis)
			return nil
		},
	}
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [text]",
		Short: "Classify text without saving it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			analysis := a.svc.Analyze(ctx, strings.Join(args, " "))
			printAnalysis(analysis)
			for _, s := range analysis.AllScores {
				fmt.Printf("  %-9s %3.0f%%\n", s.Mood, s.Confidence*100)
			}
			return nil
		},
	}
}

func printAnalysis(a journal.Analysis) {
	fmt.Printf("Mood: %s (%.0f%%)\n", a.Mood, a.DisplayConfidence()*100)
	if a.Warning != "" {
		fmt.Printf("(%s, saved as neutral)\n", a.Warning)
	}
	if s := mood.Suggestion(a.Mood); s != "" {
		fmt.Printf("Suggestion: %s\n", s)
	}
}

func listCmd() *cobra.Command {
	var (
		limit    int
		offset   int
		moodName string
		from, to string
		sortBy   string
		oldest   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			sort, err := domain.ParseSortField(sortBy)
			if err != nil {
				return fmt.Errorf("--sort: %w", err)
			}
			f := domain.EntryFilter{Limit: limit, Offset: offset, Sort: sort, Newest: !oldest}
			if moodName != "" {
				f.Mood = mood.Normalize(moodName)
			}
			loc := a.svc.Location()
			if from != "" {
				d, err := aggregate.ParseDay(from)
				if err != nil {
					return fmt.Errorf("--from: %w", err)
				}
				f.From = d.Start(loc)
			}
			if to != "" {
				d, err := aggregate.ParseDay(to)
				if err != nil {
					return fmt.Errorf("--to: %w", err)
				}
				f.To = d.Start(loc).AddDate(0, 0, 1)
			}

			entries, err := a.svc.List(ctx, userID, f)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No entries yet. Use 'moodlog add' to create one.")
				return nil
			}
			printEntries(entries, a)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 8, "number of entries to show")
	cmd.Flags().IntVar(&offset, "offset", 0, "entries to skip")
	cmd.Flags().StringVarP(&moodName, "mood", "m", "", "only entries with this mood")
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "created_at", "order by created_at, mood, text or confidence")
	cmd.Flags().BoolVar(&oldest, "oldest", false, "ascending order (oldest first for created_at)")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show entry details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := resolveID(ctx, a, args[0])
			if err != nil {
				return err
			}
			entry, err := a.svc.Get(ctx, userID, id)
			if err != nil {
				return err
			}

			loc := a.svc.Location()
			fmt.Printf("ID:         %s\n", entry.ID)
			fmt.Printf("Created:    %s\n", entry.CreatedAt.In(loc).Format("2006-01-02 15:04:05"))
			if !entry.UpdatedAt.Equal(entry.CreatedAt) {
				fmt.Printf("Edited:     %s\n", entry.UpdatedAt.In(loc).Format("2006-01-02 15:04:05"))
			}
			fmt.Printf("Mood:       %s\n", entry.Mood)
			fmt.Printf("Confidence: %.0f%%\n", mood.Round2(entry.Confidence)*100)
			fmt.Printf("Text:\n%s\n", entry.Text)
			return nil
		},
	}
}

func editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [id] [text]",
		Short: "Replace an entry's text (the mood is kept)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := resolveID(ctx, a, args[0])
			if err != nil {
				return err
			}
			entry, err := a.svc.Update(ctx, userID, id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Printf("Updated entry: %s\n", shortID(entry.ID))
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			id, err := resolveID(ctx, a, args[0])
			if err != nil {
				return err
			}
			if err := a.svc.Delete(ctx, userID, id); err != nil {
				return err
			}
			fmt.Printf("Deleted entry: %s\n", shortID(id))
			return nil
		},
	}
}

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.svc.Search(ctx, userID, args[0])
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("No matching entries found.")
				return nil
			}
			printEntries(entries, a)
			return nil
		},
	}
}

func dayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "Show the entries written on a day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			day := aggregate.DayOf(a.svc.Now(), a.svc.Location())
			if len(args) == 1 {
				if day, err = aggregate.ParseDay(args[0]); err != nil {
					return err
				}
			}

			entries, err := a.svc.EntriesOn(ctx, userID, day)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Printf("No entries on %s.\n", day)
				return nil
			}
			printEntries(entries, a)
			return nil
		},
	}
}

// resolveID expands an id prefix to a full entry id.
func resolveID(ctx context.Context, a *app, prefix string) (string, error) {
	entries, err := a.svc.List(ctx, userID, domain.EntryFilter{Newest: true})
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if strings.HasPrefix(e.ID, prefix) {
			return e.ID, nil
		}
	}
	return "", fmt.Errorf("entry not found: %s", prefix)
}

func printEntries(entries []domain.Entry, a *app) {
	loc := a.svc.Location()
	for _, e := range entries {
		fmt.Printf("%s  %s  %-8s  %s\n",
			shortID(e.ID),
			e.CreatedAt.In(loc).Format("2006-01-02 15:04"),
			e.Mood,
			truncate(e.Text, 50),
		)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
