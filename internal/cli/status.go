package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show TermShield status: config, patterns, packs, audit log",
	Long: `Show which configuration is in effect, how many patterns and packs are
loaded, and where the audit log is written.

  termshield status`,
	Args: cobra.NoArgs,
	RunE: statusCommand,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusCommand(cmd *cobra.Command, args []string) error {
	e, err := loadEngine()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	bar := strings.Repeat("\xe2\x95\x90", 55)
	section := func(title string) {
		fmt.Fprintf(out, "\xe2\x94\x80\xe2\x94\x80\xe2\x94\x80 %s %s\n", title, strings.Repeat("\xe2\x94\x80", 50-len(title)))
	}

	fmt.Fprintln(out, bar)
	fmt.Fprintln(out, "  TermShield Status")
	fmt.Fprintln(out, bar)
	fmt.Fprintln(out)

	binPath, err := os.Executable()
	if err != nil {
		binPath = "unknown"
	}
	fmt.Fprintf(out, "  Binary:    %s (%s)\n", binPath, Version)
	fmt.Fprintf(out, "  Config:    %s\n", e.cfg.ConfigDir)
	fmt.Fprintln(out)

	section("Settings")
	checkFile(out, "Config file", e.cfg.Path, "using built-in defaults (no config file)")
	vc, sc := e.validator.Config(), e.scanner.Config()
	fmt.Fprintf(out, "  %s Classifier: %s", onOff(vc.Enabled), enabledWord(vc.Enabled))
	if vc.AllowDangerous {
		fmt.Fprint(out, ", dangerous commands allowed")
	}
	fmt.Fprintf(out, ", %d protected path(s)\n", len(vc.ProtectedPaths))
	fmt.Fprintf(out, "  %s Scanner: %s, min entropy %.1f, max %d secrets\n",
		onOff(sc.Enabled), enabledWord(sc.Enabled), sc.MinEntropy, sc.MaxSecrets)
	fmt.Fprintln(out)

	section("Patterns")
	fmt.Fprintf(out, "  Risk patterns:   %d\n", len(e.lib.Risk))
	fmt.Fprintf(out, "  Secret patterns: %d\n", len(e.lib.Secrets))
	if len(e.packs) > 0 {
		enabled := 0
		for _, info := range e.packs {
			if info.Enabled && info.Error == "" {
				enabled++
			}
		}
		fmt.Fprintf(out, "  \xe2\x9c\x85 Pattern packs: %d installed, %d active\n", len(e.packs), enabled)
	} else {
		fmt.Fprintf(out, "  \xe2\xac\x9a  No pattern packs installed (%s)\n", e.cfg.PacksDir)
	}
	fmt.Fprintln(out)

	section("Audit Log")
	checkAuditLog(out, e.cfg.LogPath)
	fmt.Fprintln(out)
	return nil
}

func checkFile(w io.Writer, name, path, missing string) {
	if fileExists(path) {
		fmt.Fprintf(w, "  \xe2\x9c\x85 %s: %s\n", name, path)
		return
	}
	fmt.Fprintf(w, "  \xe2\xac\x9a  %s: %s\n", name, missing)
}

func checkAuditLog(w io.Writer, path string) {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(w, "  \xe2\xac\x9a  No audit log yet (%s)\n", path)
		return
	}
	fmt.Fprintf(w, "  \xe2\x9c\x85 Audit log: %s (%d KB)\n", path, info.Size()/1024)
}

func onOff(on bool) string {
	if on {
		return "\xe2\x9c\x85"
	}
	return "\xe2\x9d\x8c"
}

func enabledWord(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
