package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gzhole/termshield/internal/config"
	"github.com/gzhole/termshield/internal/logger"
	"github.com/gzhole/termshield/internal/risk"
)

var (
	logFilterKind    string
	logFilterBlocked bool
	logLast          int
	logSummary       bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View and filter the audit log",
	Long: `View the TermShield audit log with filtering and summary options.

Examples:
  termshield log                  # Show all entries
  termshield log --last 20        # Show last 20 entries
  termshield log --kind scan      # Show only secret scans
  termshield log --blocked        # Show only blocked commands
  termshield log --summary        # Show summary stats`,
	Args: cobra.NoArgs,
	RunE: logCommand,
}

func init() {
	logCmd.Flags().StringVar(&logFilterKind, "kind", "", "Filter by kind (validate, scan)")
	logCmd.Flags().BoolVar(&logFilterBlocked, "blocked", false, "Show only blocked commands")
	logCmd.Flags().IntVar(&logLast, "last", 0, "Show last N entries")
	logCmd.Flags().BoolVar(&logSummary, "summary", false, "Show summary statistics")
	rootCmd.AddCommand(logCmd)
}

func logCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logPath != "" {
		cfg.LogPath = logPath
	}

	events, err := readAuditLog(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintln(out, "No audit log entries found.")
		return nil
	}

	if logSummary {
		printSummary(out, events)
		return nil
	}

	filtered := filterEvents(events)
	if logLast > 0 && logLast < len(filtered) {
		filtered = filtered[len(filtered)-logLast:]
	}
	printEvents(out, filtered)
	return nil
}

func readAuditLog(path string) ([]logger.AuditEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var events []logger.AuditEvent
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var event logger.AuditEvent
		if err := json.Unmarshal(line, &event); err != nil {
			continue // skip malformed lines
		}
		events = append(events, event)
	}
	return events, scanner.Err()
}

func filterEvents(events []logger.AuditEvent) []logger.AuditEvent {
	if logFilterKind == "" && !logFilterBlocked {
		return events
	}

	var filtered []logger.AuditEvent
	for _, e := range events {
		if logFilterKind != "" && !strings.EqualFold(e.Kind, logFilterKind) {
			continue
		}
		if logFilterBlocked && !e.Blocked {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

func printEvents(w io.Writer, events []logger.AuditEvent) {
	p := newPainter(w)
	for _, e := range events {
		ts := formatTimestamp(e.Timestamp)
		switch e.Kind {
		case logger.KindScan:
			icon := levelIcon(risk.Safe)
			if len(e.Findings) > 0 {
				icon = levelIcon(risk.High)
			}
			fmt.Fprintf(w, "%s %s scan %s: %d secret(s)\n", icon, ts, e.Source, len(e.Findings))
			for _, f := range e.Findings {
				fmt.Fprintf(w, "     %s %s %s\n", f.Type, p.render(dangerousStyle, f.RedactedValue), p.render(dimStyle, f.PatternID))
			}
		default:
			level, _ := risk.ParseLevel(e.RiskLevel)
			blocked := ""
			if e.Blocked {
				blocked = " [BLOCKED]"
			}
			fmt.Fprintf(w, "%s %s %s %s%s\n", levelIcon(level), ts, p.level(level, e.RiskLevel), e.Command, blocked)
			if len(e.Matches) > 0 {
				fmt.Fprintf(w, "     Patterns: %s\n", strings.Join(e.Matches, ", "))
			}
		}
		if e.Error != "" {
			fmt.Fprintf(w, "     Error: %s\n", e.Error)
		}
		fmt.Fprintln(w)
	}
}

func printSummary(w io.Writer, all []logger.AuditEvent) {
	levels := map[string]int{}
	validations, scans, blockedCount, secretCount, errorCount := 0, 0, 0, 0, 0
	var blocked []logger.AuditEvent

	for _, e := range all {
		switch e.Kind {
		case logger.KindScan:
			scans++
			secretCount += len(e.Findings)
		default:
			validations++
			levels[e.RiskLevel]++
		}
		if e.Blocked {
			blockedCount++
			blocked = append(blocked, e)
		}
		if e.Error != "" {
			errorCount++
		}
	}

	bar := strings.Repeat("\xe2\x95\x90", 43)
	fmt.Fprintln(w, bar)
	fmt.Fprintln(w, "  TermShield Audit Summary")
	fmt.Fprintln(w, bar)
	fmt.Fprintf(w, "  Total events:    %d\n", len(all))
	fmt.Fprintf(w, "  Validations:     %d\n", validations)
	for l := risk.Safe; l <= risk.Dangerous; l++ {
		fmt.Fprintf(w, "    %-15s %d\n", l.String()+":", levels[l.String()])
	}
	fmt.Fprintf(w, "  Blocked:         %d\n", blockedCount)
	fmt.Fprintf(w, "  Scans:           %d\n", scans)
	fmt.Fprintf(w, "  Secrets found:   %d\n", secretCount)
	fmt.Fprintf(w, "  Errors:          %d\n", errorCount)
	fmt.Fprintln(w, bar)
	fmt.Fprintf(w, "  First event:     %s\n", formatTimestamp(all[0].Timestamp))
	fmt.Fprintf(w, "  Last event:      %s\n", formatTimestamp(all[len(all)-1].Timestamp))

	if len(blocked) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Blocked commands:")
		if len(blocked) > 10 {
			blocked = blocked[len(blocked)-10:]
		}
		for _, e := range blocked {
			fmt.Fprintf(w, "    %s %s\n", formatTimestamp(e.Timestamp), e.Command)
		}
	}
	fmt.Fprintln(w)
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
