package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/linkscout/internal/config"
	"github.com/nao1215/linkscout/internal/database"
)

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored crawl result from the local history database",
		Long: `Export re-emits a previously saved crawl result without re-crawling.

Select a crawl by session ID (--session) or take the most recent crawl of
a seed URL (--seed). With neither selector, export lists the stored
sessions instead.

Examples:
  # List stored crawl sessions
  linkscout export

  # Export the latest crawl of a site as CSV
  linkscout export --seed https://example.com

  # Export a specific session as Markdown, filtered by keyword
  linkscout export --session 42 -f markdown -k github`,
		RunE: runExportCmd,
	}

	cmd.Flags().Int64P("session", "s", 0,
		"Session ID of the stored crawl to export")
	cmd.Flags().String("seed", "",
		"Export the most recent crawl of this seed URL")
	cmd.Flags().StringP("keyword", "k", "",
		"Only export external links containing this substring (case-sensitive)")
	cmd.Flags().StringP("format", "f", "csv",
		"Report format: table, csv, json, or markdown")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runExportCmd executes the export command.
func runExportCmd(cmd *cobra.Command, _ []string) error {
	sessionID, err := cmd.Flags().GetInt64("session")
	if err != nil {
		return err
	}
	seed, err := cmd.Flags().GetString("seed")
	if err != nil {
		return err
	}
	keyword, err := cmd.Flags().GetString("keyword")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	outputFile, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.Options{})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// No selector given: list what is stored.
	if sessionID == 0 && seed == "" {
		return listSessions(ctx, cmd, db)
	}

	if sessionID == 0 {
		sessionID, err = db.LatestSessionID(ctx, seed)
		if err != nil {
			return fmt.Errorf("failed to look up sessions for %s: %w", seed, err)
		}
		if sessionID == 0 {
			return fmt.Errorf("no stored crawl found for seed: %s", seed)
		}
	}

	result, err := db.GetResult(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session %d: %w", sessionID, err)
	}
	if result == nil {
		return fmt.Errorf("no stored crawl found for session: %d", sessionID)
	}

	// The keyword filter runs in SQL so large link sets never leave the
	// database unfiltered.
	if keyword != "" {
		result.ExternalLinks, err = db.ExternalLinks(ctx, sessionID, keyword)
		if err != nil {
			return fmt.Errorf("failed to filter session %d: %w", sessionID, err)
		}
	}

	output, closer, err := openOutput(outputFile)
	if err != nil {
		return err
	}
	defer closer()

	writer, err := newReportWriter(format, output)
	if err != nil {
		return err
	}

	_, err = writer.Write(result)
	return err
}

// listSessions prints the stored crawl sessions, newest first.
func listSessions(ctx context.Context, cmd *cobra.Command, db *database.CrawlDB) error {
	sessions, err := db.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	out := cmd.OutOrStdout()
	if out == nil {
		out = os.Stdout
	}

	if len(sessions) == 0 {
		fmt.Fprintln(out, "No stored crawl sessions. Run 'linkscout crawl <url>' first.")
		return nil
	}

	fmt.Fprintf(out, "%-6s %-40s %-10s %7s %9s  %s\n",
		"ID", "SEED", "STATE", "PAGES", "EXTERNAL", "STARTED")
	for _, s := range sessions {
		fmt.Fprintf(out, "%-6d %-40s %-10s %7d %9d  %s\n",
			s.ID, s.Seed, s.State, s.PagesVisited, s.ExternalCount,
			s.StartedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
