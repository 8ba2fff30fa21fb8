package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gzhole/termshield/internal/patterns"
)

var patternsJSON bool

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List detection patterns and manage pattern packs",
	Long: `List the risk and secret patterns in use, built-in and from packs.

Packs are YAML files in ~/.termshield/packs/ that add patterns. A pack whose
file name starts with "_" is installed but disabled.

Examples:
  termshield patterns                     # List all patterns
  termshield patterns packs               # List installed packs
  termshield patterns disable k8s-secrets # Disable a pack
  termshield patterns show k8s-secrets    # Print a pack file`,
	Args: cobra.NoArgs,
	RunE: patternsList,
}

var patternsPacksCmd = &cobra.Command{
	Use:   "packs",
	Short: "List installed pattern packs",
	Args:  cobra.NoArgs,
	RunE:  packsList,
}

var patternsEnableCmd = &cobra.Command{
	Use:   "enable <pack-name>",
	Short: "Enable a disabled pattern pack",
	Args:  cobra.ExactArgs(1),
	RunE:  packEnable,
}

var patternsDisableCmd = &cobra.Command{
	Use:   "disable <pack-name>",
	Short: "Disable a pattern pack (prefix with underscore)",
	Args:  cobra.ExactArgs(1),
	RunE:  packDisable,
}

var patternsShowCmd = &cobra.Command{
	Use:   "show <pack-name>",
	Short: "Print a pattern pack file",
	Args:  cobra.ExactArgs(1),
	RunE:  packShow,
}

func init() {
	patternsCmd.PersistentFlags().BoolVar(&patternsJSON, "json", false, "Print as JSON")
	patternsCmd.AddCommand(patternsPacksCmd)
	patternsCmd.AddCommand(patternsEnableCmd)
	patternsCmd.AddCommand(patternsDisableCmd)
	patternsCmd.AddCommand(patternsShowCmd)
	rootCmd.AddCommand(patternsCmd)
}

type riskRow struct {
	ID       string `json:"id"`
	Pass     string `json:"pass"`
	Category string `json:"category"`
	Level    string `json:"level"`
	Message  string `json:"message"`
}

type secretRow struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	FixedFormat bool   `json:"fixed_format"`
	Description string `json:"description,omitempty"`
}

func patternsList(cmd *cobra.Command, args []string) error {
	e, err := loadEngine()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if patternsJSON {
		listing := struct {
			Risk    []riskRow   `json:"risk"`
			Secrets []secretRow `json:"secrets"`
		}{}
		for _, rp := range e.lib.Risk {
			listing.Risk = append(listing.Risk, riskRow{rp.ID, rp.Pass.String(), string(rp.Category), rp.Level.String(), rp.Message})
		}
		for _, sp := range e.lib.Secrets {
			listing.Secrets = append(listing.Secrets, secretRow{sp.ID, string(sp.Type), sp.FixedFormat, sp.Description})
		}
		return writeJSON(out, listing)
	}

	p := newPainter(out)
	fmt.Fprintf(out, "%s (%d)\n", p.render(headerStyle, "Risk patterns"), len(e.lib.Risk))
	var pass patterns.Pass
	for _, rp := range e.lib.Risk {
		if rp.Pass != pass {
			pass = rp.Pass
			fmt.Fprintf(out, "  %s\n", p.render(dimStyle, pass.String()))
		}
		fmt.Fprintf(out, "    %s %-28s %s\n", p.level(rp.Level, fmt.Sprintf("%-9s", rp.Level)), rp.ID, rp.Message)
	}

	fmt.Fprintf(out, "\n%s (%d)\n", p.render(headerStyle, "Secret patterns"), len(e.lib.Secrets))
	for _, sp := range e.lib.Secrets {
		kind := "entropy"
		if sp.FixedFormat {
			kind = "fixed"
		}
		fmt.Fprintf(out, "    %-28s %-22s %-8s %s\n", sp.ID, sp.Type, p.render(dimStyle, kind), sp.Description)
	}

	if len(e.packs) > 0 {
		fmt.Fprintf(out, "\n%d pack(s) in %s\n", len(e.packs), e.cfg.PacksDir)
	}
	return nil
}

func packsList(cmd *cobra.Command, args []string) error {
	e, err := loadEngine()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if patternsJSON {
		infos := e.packs
		if infos == nil {
			infos = []patterns.PackInfo{}
		}
		return writeJSON(out, infos)
	}

	if len(e.packs) == 0 {
		fmt.Fprintln(out, "No pattern packs installed.")
		fmt.Fprintf(out, "\nTo install packs, copy YAML files to: %s\n", e.cfg.PacksDir)
		return nil
	}

	p := newPainter(out)
	fmt.Fprintln(out, "Installed Pattern Packs:")
	fmt.Fprintln(out, strings.Repeat("\xe2\x94\x80", 60))
	for _, info := range e.packs {
		status := "\xe2\x9c\x85" // check mark
		if !info.Enabled || info.Error != "" {
			status = "\xe2\x9d\x8c" // cross mark
		}
		fmt.Fprintf(out, "  %s  %-25s %s\n", status, info.Name, info.Description)
		if info.Version != "" {
			fmt.Fprintf(out, "       v%s by %s  (%d risk, %d secret)\n", info.Version, info.Author, info.RiskCount, info.SecretCount)
		}
		if info.Error != "" {
			fmt.Fprintf(out, "       %s\n", p.render(dangerousStyle, info.Error))
		}
	}
	fmt.Fprintln(out, strings.Repeat("\xe2\x94\x80", 60))
	fmt.Fprintf(out, "\nPacks directory: %s\n", e.cfg.PacksDir)
	return nil
}

func packsDir() (string, error) {
	e, err := loadEngine()
	if err != nil {
		return "", err
	}
	return e.cfg.PacksDir, nil
}

// findPack returns the file for name, enabled or not.
func findPack(dir, name string) (path string, enabled bool, err error) {
	for _, ext := range []string{".yaml", ".yml"} {
		if p := filepath.Join(dir, name+ext); fileExists(p) {
			return p, true, nil
		}
		if p := filepath.Join(dir, "_"+name+ext); fileExists(p) {
			return p, false, nil
		}
	}
	return "", false, fmt.Errorf("pack '%s' not found in %s", name, dir)
}

func packEnable(cmd *cobra.Command, args []string) error {
	return setPackEnabled(cmd.OutOrStdout(), args[0], true)
}

func packDisable(cmd *cobra.Command, args []string) error {
	return setPackEnabled(cmd.OutOrStdout(), args[0], false)
}

func setPackEnabled(out io.Writer, name string, enable bool) error {
	name = strings.TrimPrefix(name, "_")
	dir, err := packsDir()
	if err != nil {
		return err
	}
	path, enabled, err := findPack(dir, name)
	if err != nil {
		return err
	}

	state := "disabled"
	if enable {
		state = "enabled"
	}
	if enabled == enable {
		fmt.Fprintf(out, "Pack '%s' is already %s.\n", name, state)
		return nil
	}

	target := filepath.Join(dir, "_"+filepath.Base(path))
	mark := "\xe2\x9d\x8c" // cross mark
	if enable {
		target = filepath.Join(dir, strings.TrimPrefix(filepath.Base(path), "_"))
		mark = "\xe2\x9c\x85" // check mark
	}
	if err := os.Rename(path, target); err != nil {
		return fmt.Errorf("failed to %s pack: %w", strings.TrimSuffix(state, "d"), err)
	}
	fmt.Fprintf(out, "%s Pack '%s' %s.\n", mark, name, state)
	return nil
}

func packShow(cmd *cobra.Command, args []string) error {
	dir, err := packsDir()
	if err != nil {
		return err
	}
	path, _, err := findPack(dir, strings.TrimPrefix(args[0], "_"))
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
