// Package main provides the seedscan CLI tool for deriving Bitcoin addresses
// from BIP39 mnemonics and scanning random mnemonics for funded addresses.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/complex-gh/seedscan/internal/config"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-tty"
	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/muesli/termenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	maxWidth = 72
)

var (
	baseStyle  = lipgloss.NewStyle().Margin(0, 0, 1, 2) //nolint:mnd
	red        = lipgloss.Color(completeColor("#FF4444", "196", "9"))
	green      = lipgloss.Color(completeColor("#44DD66", "42", "10"))
	errorStyle = baseStyle.
			Foreground(red).
			Background(lipgloss.AdaptiveColor{Light: completeColor("#FFEBEB", "255", "7"), Dark: completeColor("#2B1A1A", "235", "8")}).
			Padding(1, 2) //nolint:mnd
	foundStyle = baseStyle.
			Foreground(green).
			Bold(true).
			Padding(1, 2) //nolint:mnd

	configFile    string
	askPassphrase bool
	isChange      bool
	rangeStart    uint32
	rangeCount    uint32

	rootCmd = &cobra.Command{
		Use:   "seedscan [iterations] [address]",
		Short: "Scan random BIP39 mnemonics for funded Bitcoin addresses",
		Long: `Scan random BIP39 mnemonics for funded Bitcoin addresses.

Every iteration generates a fresh mnemonic, derives the first receive
address of each script type (BIP44 P2PKH, BIP49 P2SH-P2WPKH, BIP84 P2WPKH
and BIP86 P2TR) and looks up its balance on an Esplora API.

When an address is given, its balance is looked up before the scan starts.

Settings are read from flags, SEEDSCAN_* environment variables and an
optional config file, in that order of precedence.`,
		Example: `  seedscan
  seedscan 100
  seedscan 100 bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu
  seedscan 10 --network testnet --words 24
  seedscan 1000 --concurrency 4 --rate 5 --metrics-addr :9100
  SEEDSCAN_ENDPOINT=http://localhost:3002 seedscan 10 --network regtest`,
		Args:         cobra.MaximumNArgs(2), //nolint:mnd
		SilenceUsage: true,
		RunE:         runScan,
	}

	manCmd = &cobra.Command{
		Use:          "man",
		Args:         cobra.NoArgs,
		Short:        "generate man pages",
		Hidden:       true,
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			manPage, err := mcobra.NewManPage(1, rootCmd)
			if err != nil {
				//nolint: wrapcheck
				return err
			}
			manPage = manPage.WithSection("Copyright", "(C) 2025-2026 complex.\n"+
				"Released under MIT license.")
			fmt.Println(manPage.Build(roff.NewDocument()))
			return nil
		},
	}

	// completionCmd generates shell completion scripts for bash, zsh, fish, and powershell.
	completionCmd = &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion script",
		Long: `Generate shell completion script for seedscan.

Load it into the current shell, for example:

  $ source <(seedscan completion bash)
  $ seedscan completion fish | source

or write it to your shell's completion directory to load it in every
session.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		SilenceUsage:          true,
		RunE: func(_ *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unknown shell: %s", args[0])
			}
		},
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to a YAML, JSON or TOML config file")
	flags.StringP(config.NetworkKey, "n", "mainnet", "Bitcoin network (mainnet, testnet, signet, regtest)")
	flags.IntP(config.WordsKey, "w", 12, "Mnemonic word count (12, 15, 18, 21, 24)") //nolint:mnd
	flags.StringP(config.LanguageKey, "l", "english", "Mnemonic language")
	flags.BoolVar(&askPassphrase, "ask-passphrase", false, "Prompt for a BIP39 passphrase")
	flags.String(config.LogLevelKey, "info", "Log level (trace, debug, info, warn, error)")

	rootCmd.Flags().StringSlice(config.EndpointKey, nil, "Esplora API base URL, repeatable (default: public instances of the network)")
	rootCmd.Flags().Duration(config.TimeoutKey, 10*time.Second, "Timeout of a single balance lookup") //nolint:mnd
	rootCmd.Flags().Int(config.ConcurrencyKey, 1, "Balance lookups in flight per iteration")
	rootCmd.Flags().Int(config.RateKey, 0, "Maximum provider requests per second, 0 for no limit")
	rootCmd.Flags().String(config.MetricsAddrKey, "", "Listen address of the Prometheus /metrics endpoint")

	rangeCmd.Flags().BoolVar(&isChange, "change", false, "Derive change addresses instead of receive addresses")
	rangeCmd.Flags().Uint32Var(&rangeStart, "start", 0, "First address index")
	rangeCmd.Flags().Uint32Var(&rangeCount, "count", 10, "Number of addresses") //nolint:mnd

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(deriveCmd)
	rootCmd.AddCommand(rangeCmd)
	rootCmd.AddCommand(scriptHashCmd)
	rootCmd.AddCommand(manCmd)
	rootCmd.AddCommand(completionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1) //nolint:gocritic
	}
}

// loadConfig resolves the configuration for cmd and applies the log level.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags(), configFile)
	if err != nil {
		return nil, err
	}
	log.SetLevel(cfg.LogLevel)
	return cfg, nil
}

// passphrase returns the BIP39 passphrase, prompting for it when
// --ask-passphrase is set.
func passphrase() (string, error) {
	if !askPassphrase {
		return "", nil
	}
	defer fmt.Fprintf(os.Stderr, "\n")
	pass, err := readPassword("Enter the BIP39 passphrase: ")
	if err != nil {
		return "", err
	}
	return string(pass), nil
}

// readMnemonic reads the mnemonic from a stdin pipe, or from a hidden prompt
// when stdin is a terminal.
func readMnemonic() (string, error) {
	if fi, err := os.Stdin.Stat(); err == nil && (fi.Mode()&os.ModeNamedPipe) != 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("could not read mnemonic: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	defer fmt.Fprintf(os.Stderr, "\n")
	b, err := readPassword("Enter the mnemonic: ")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// getWidth returns the terminal width, capped at maxWidth.
func getWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd())) //nolint: gosec
	if err != nil || w > maxWidth {
		return maxWidth
	}
	return w
}

func renderBlock(w io.Writer, s lipgloss.Style, width int, str string) {
	_, _ = io.WriteString(w, s.Width(width).Render(str))
	_, _ = io.WriteString(w, "\n")
}

// printStyled writes str inside a styled block when stdout is a terminal and
// as a plain line otherwise.
func printStyled(s lipgloss.Style, str string) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Println(str)
		return
	}
	b := strings.Builder{}
	renderBlock(&b, s, getWidth(), str)
	fmt.Print(b.String())
}

func completeColor(truecolor, ansi256, ansi string) string {
	//nolint: exhaustive
	switch lipgloss.ColorProfile() {
	case termenv.TrueColor:
		return truecolor
	case termenv.ANSI256:
		return ansi256
	}
	return ansi
}

func readPassword(msg string) ([]byte, error) {
	_, _ = fmt.Fprint(os.Stderr, msg)
	t, err := tty.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open tty: %w", err)
	}
	defer t.Close()                                     //nolint: errcheck
	pass, err := term.ReadPassword(int(t.Input().Fd())) //nolint: gosec
	if err != nil {
		return nil, fmt.Errorf("could not read passphrase: %w", err)
	}
	return pass, nil
}
