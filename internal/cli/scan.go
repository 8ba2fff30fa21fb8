package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/gzhole/termshield/internal/logger"
	"github.com/gzhole/termshield/internal/risk"
	"github.com/gzhole/termshield/internal/secrets"
)

var (
	scanFile      string
	scanClipboard bool
	scanRedact    bool
	scanJSON      bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find secrets in text from stdin, a file or the clipboard",
	Long: `Scan text for API keys, cloud credentials, private keys, connection
strings with passwords and other high-entropy values. Only redacted values
are ever printed or logged.

Exit status is 1 when secrets are found.

Examples:
  kubectl logs api | termshield scan
  termshield scan --file .env --json
  termshield scan --clipboard --redact | pbcopy`,
	Args: cobra.NoArgs,
	RunE: scanCommand,
}

func init() {
	scanCmd.Flags().StringVarP(&scanFile, "file", "f", "", "Scan this file instead of stdin")
	scanCmd.Flags().BoolVar(&scanClipboard, "clipboard", false, "Scan the system clipboard instead of stdin")
	scanCmd.Flags().BoolVar(&scanRedact, "redact", false, "Print the text with every secret redacted")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Print findings as JSON")
	scanCmd.MarkFlagsMutuallyExclusive("file", "clipboard")
	scanCmd.MarkFlagsMutuallyExclusive("redact", "json")
	rootCmd.AddCommand(scanCmd)
}

func scanCommand(cmd *cobra.Command, args []string) error {
	text, source, err := scanInput(cmd)
	if err != nil {
		return err
	}

	e, err := loadEngine()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var findings []secrets.DetectedSecret
	if scanRedact {
		var redacted string
		redacted, findings = e.scanner.RedactText(text)
		if _, err := io.WriteString(out, redacted); err != nil {
			return err
		}
		printFindings(cmd.ErrOrStderr(), findings)
	} else {
		findings = e.scanner.Scan(text)
		if scanJSON {
			if findings == nil {
				findings = []secrets.DetectedSecret{}
			}
			if err := writeJSON(out, findings); err != nil {
				return err
			}
		} else {
			printFindings(out, findings)
		}
	}

	e.audit(logger.ScanEvent(source, findings))

	if len(findings) > 0 {
		return &exitError{code: 1}
	}
	return nil
}

func scanInput(cmd *cobra.Command) (text, source string, err error) {
	switch {
	case scanFile != "":
		data, err := os.ReadFile(scanFile)
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", scanFile, err)
		}
		return string(data), scanFile, nil
	case scanClipboard:
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", "", fmt.Errorf("reading clipboard: %w", err)
		}
		return text, "clipboard", nil
	default:
		text, err := readStdin(cmd)
		return text, "stdin", err
	}
}

func printFindings(w io.Writer, findings []secrets.DetectedSecret) {
	p := newPainter(w)
	if len(findings) == 0 {
		fmt.Fprintf(w, "%s  %s\n", levelIcon(risk.Safe), p.render(safeStyle, "no secrets found"))
		return
	}
	for _, f := range findings {
		fmt.Fprintf(w, "%s:%d  %-22s %s  %s\n",
			p.render(headerStyle, fmt.Sprintf("%d", f.Location.Line)),
			f.Location.Column,
			f.Type,
			p.render(dangerousStyle, f.RedactedValue),
			p.render(dimStyle, f.PatternID))
		if f.Context != "" {
			fmt.Fprintf(w, "      %s\n", p.render(dimStyle, f.Context))
		}
	}
	fmt.Fprintf(w, "\n%d secret(s) found\n", len(findings))
}
