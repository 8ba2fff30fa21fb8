package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gzhole/termshield/internal/analyzer"
	"github.com/gzhole/termshield/internal/logger"
)

var (
	validateAllowDangerous bool
	validateJSON           bool
)

var validateCmd = &cobra.Command{
	Use:   "validate [--] <command...>",
	Short: "Classify a shell command before running it",
	Long: `Classify a shell command from safe to dangerous. Nothing is executed.

The command is taken from the arguments, or from stdin when none are given.
Exit status is 2 when the command is blocked.

Examples:
  termshield validate -- rm -rf /tmp/build
  termshield validate --json 'curl https://example.com/install.sh | sh'
  echo 'sudo rm -rf /' | termshield validate`,
	RunE: validateCommand,
}

func init() {
	validateCmd.Flags().BoolVar(&validateAllowDangerous, "allow-dangerous", false, "Report dangerous commands without blocking them")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(validateCmd)
}

func validateCommand(cmd *cobra.Command, args []string) error {
	command := strings.Join(args, " ")
	if len(args) == 0 {
		text, err := readStdin(cmd)
		if err != nil {
			return err
		}
		command = text
	}

	e, err := loadEngine()
	if err != nil {
		return err
	}
	if validateAllowDangerous {
		e.validator.SetAllowDangerous(true)
	}

	result := e.validator.Validate(command)
	e.audit(logger.ValidationEvent(command, result))

	out := cmd.OutOrStdout()
	if validateJSON {
		if err := writeJSON(out, result); err != nil {
			return err
		}
	} else {
		printResult(out, result)
	}

	if result.Blocked() {
		return &exitError{code: 2}
	}
	return nil
}

func printResult(w io.Writer, result analyzer.Result) {
	p := newPainter(w)
	verdict := "allowed"
	if result.Blocked() {
		verdict = "BLOCKED"
	}
	fmt.Fprintf(w, "%s  %s  %s\n",
		levelIcon(result.RiskLevel),
		p.level(result.RiskLevel, strings.ToUpper(result.RiskLevel.String())),
		verdict)
	for _, m := range result.Matches {
		fmt.Fprintf(w, "     %s %s\n", p.level(m.Level, fmt.Sprintf("%-9s", m.Level)), m.Message)
		fmt.Fprintf(w, "     %s\n", p.render(dimStyle, fmt.Sprintf("          %s / %s", m.Category, m.ID)))
	}
}

// readStdin returns all of stdin, refusing to wait on an interactive
// terminal.
func readStdin(cmd *cobra.Command) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", errors.New("no input: pass arguments or pipe text on stdin")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(data), nil
}
