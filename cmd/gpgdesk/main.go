package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"github.com/studiowebux/gpgdesk/internal/cli"
	"github.com/studiowebux/gpgdesk/internal/config"
	"github.com/studiowebux/gpgdesk/internal/executor"
	"github.com/studiowebux/gpgdesk/internal/history"
	"github.com/studiowebux/gpgdesk/internal/keybinds"
	"github.com/studiowebux/gpgdesk/internal/logging"
	"github.com/studiowebux/gpgdesk/internal/tui"
)

var (
	version = "0.1.0"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gpgdesk",
	Short: "Remote GPG key management",
	Long: `gpgdesk drives a remote signer and key ring: generate a key pair,
store a private key in the key ring and unlock it for signing.

Run without arguments to start the TUI, or use a subcommand for scripts.

Examples:
  gpgdesk                                        # Start interactive TUI
  gpgdesk generate -i "Jane Doe jane@example.com"  # Print a new armored key
  gpgdesk generate -i "..." --submit --unlock    # Generate, store and unlock
  gpgdesk add --key-file key.asc --out pub.asc   # Store an existing key
  gpgdesk unlock --fingerprint F00D              # Unlock a stored key
  gpgdesk history -p staging                     # Show the request log
  gpgdesk keybinds                               # List the key bindings`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(false)
		if err != nil {
			return err
		}
		defer a.close()
		return a.runTUI()
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a key pair on the remote signer",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagUnlock && !flagSubmit {
			return errors.New("--unlock requires --submit")
		}
		passphrase, err := passphraseFlag(cmd, true)
		if err != nil {
			return err
		}

		a, err := setup(true)
		if err != nil {
			return err
		}
		defer a.close()

		return a.runner(cmd).Generate(cmd.Context(), cli.GenerateOptions{
			Identity:     flagIdentity,
			Passphrase:   passphrase,
			Bits:         flagBits,
			Submit:       flagSubmit,
			Unlock:       flagUnlock,
			PublicKeyOut: flagOut,
		})
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Store an armored private key in the remote key ring",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("unlock-passphrase") && !flagUnlock {
			return errors.New("--unlock-passphrase requires --unlock")
		}
		key, err := cli.ReadKeyFile(flagKeyFile, cmd.InOrStdin())
		if err != nil {
			return err
		}

		// stdin already carried the key, there is nothing left to prompt on
		passphrase := flagPassphrase
		if flagKeyFile != "-" {
			if passphrase, err = passphraseFlag(cmd, false); err != nil {
				return err
			}
		}

		a, err := setup(true)
		if err != nil {
			return err
		}
		defer a.close()

		opts := cli.AddOptions{
			ArmoredKey:   key,
			Passphrase:   passphrase,
			Unlock:       flagUnlock,
			PublicKeyOut: flagOut,
		}
		if cmd.Flags().Changed("unlock-passphrase") {
			opts.UnlockPassphrase = &flagUnlockPassphrase
		}
		return a.runner(cmd).Add(cmd.Context(), opts)
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Unlock a key held by the remote signer",
	RunE: func(cmd *cobra.Command, args []string) error {
		passphrase, err := passphraseFlag(cmd, false)
		if err != nil {
			return err
		}

		a, err := setup(true)
		if err != nil {
			return err
		}
		defer a.close()

		return a.runner(cmd).Unlock(cmd.Context(), cli.UnlockOptions{
			Fingerprint: flagFingerprint,
			Passphrase:  passphrase,
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear the local request log",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(true)
		if err != nil {
			return err
		}
		defer a.close()

		if a.history == nil {
			return errors.New("request log is disabled (historyEnabled: false)")
		}
		if flagClear {
			return cli.ClearHistory(cmd.OutOrStdout(), a.history)
		}
		profile := a.profile.Name
		if flagAllProfiles {
			profile = ""
		}
		return cli.PrintHistory(cmd.OutOrStdout(), a.history, profile, flagLimit)
	},
}

var keybindsCmd = &cobra.Command{
	Use:   "keybinds",
	Short: "List the effective key bindings, or write the defaults to keybinds.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		if !flagWrite {
			registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
			if err != nil {
				return err
			}
			cli.PrintBindings(cmd.OutOrStdout(), registry)
			return nil
		}

		if _, err := os.Stat(config.KeybindsFile); err == nil && !flagForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", config.KeybindsFile)
		}
		if err := keybinds.SaveConfig(keybinds.ExportDefaults(), config.KeybindsFile); err != nil {
			return fmt.Errorf("failed to write keybinds: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Key bindings written to %s\n", config.KeybindsFile)
		return nil
	},
}

// Flags
var (
	flagProfile     string
	flagDebug       bool
	flagIdentity    string
	flagPassphrase  string
	flagBits        string
	flagSubmit      bool
	flagUnlock      bool
	flagOut         string
	flagKeyFile     string
	flagFingerprint string
	flagClear       bool
	flagLimit       int
	flagAllProfiles bool
	flagWrite       bool
	flagForce       bool

	flagUnlockPassphrase string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagProfile, "profile", "p", "", "Profile to use (defaults to activeProfile)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log requests to stderr at debug level")

	generateCmd.Flags().StringVarP(&flagIdentity, "identity", "i", "", "Key identity, e.g. \"Name Surname email\"")
	generateCmd.Flags().StringVar(&flagPassphrase, "passphrase", "", "Key passphrase (prompted when omitted)")
	generateCmd.Flags().StringVarP(&flagBits, "bits", "b", "", "Key size in bits (profile default when omitted)")
	generateCmd.Flags().BoolVar(&flagSubmit, "submit", false, "Store the generated key in the key ring")
	generateCmd.Flags().BoolVar(&flagUnlock, "unlock", false, "Unlock the stored key (requires --submit)")
	generateCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Write the public key to this file")
	generateCmd.MarkFlagRequired("identity")

	addCmd.Flags().StringVarP(&flagKeyFile, "key-file", "k", "", "Armored private key file, - for stdin")
	addCmd.Flags().StringVar(&flagPassphrase, "passphrase", "", "Key passphrase (prompted when omitted)")
	addCmd.Flags().BoolVar(&flagUnlock, "unlock", false, "Unlock the key once stored")
	addCmd.Flags().StringVar(&flagUnlockPassphrase, "unlock-passphrase", "", "Passphrase for the unlock step (defaults to the seeded one, which is empty for add)")
	addCmd.Flags().StringVarP(&flagOut, "out", "o", "", "Write the public key to this file")
	addCmd.MarkFlagRequired("key-file")

	unlockCmd.Flags().StringVarP(&flagFingerprint, "fingerprint", "f", "", "Fingerprint of the key to unlock")
	unlockCmd.Flags().StringVar(&flagPassphrase, "passphrase", "", "Key passphrase (prompted when omitted)")
	unlockCmd.MarkFlagRequired("fingerprint")

	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every entry")
	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 50, "Maximum entries to show (0 for all)")
	historyCmd.Flags().BoolVar(&flagAllProfiles, "all", false, "Show entries of every profile")

	keybindsCmd.Flags().BoolVar(&flagWrite, "write", false, "Write the default bindings to keybinds.yaml")
	keybindsCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing keybinds.yaml (with --write)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(keybindsCmd)
}

// passphraseFlag returns --passphrase when given, otherwise prompts for it
func passphraseFlag(cmd *cobra.Command, confirm bool) (string, error) {
	if cmd.Flags().Changed("passphrase") {
		return flagPassphrase, nil
	}
	if confirm {
		return cli.ReadPassphraseTwice("Passphrase")
	}
	return cli.ReadPassphrase("Passphrase")
}

// app holds what every command needs once configuration is loaded
type app struct {
	cfg     *config.Config
	profile config.Profile
	client  *executor.Client
	history *history.Manager
	logger  log.Logger
	closers []io.Closer
}

// setup loads configuration, opens the log file and the request log and
// builds the HTTP client for the selected profile
func setup(headless bool) (*app, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, err
	}
	profile, err := cfg.Profile(flagProfile)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, profile: profile}

	switch {
	case flagDebug && headless:
		a.logger = logging.New(os.Stderr, "debug")
	default:
		logger, closer, err := logging.NewFile(config.LogFile, cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		a.logger = logger
		a.closers = append(a.closers, closer)
	}

	if cfg.IsHistoryEnabled() {
		mgr, err := history.NewManager(config.DatabasePath)
		if err != nil {
			// The request log is optional; keep working without it
			level.Warn(a.logger).Log("msg", "request log unavailable", "err", err)
		} else {
			a.history = mgr
			a.closers = append(a.closers, mgr)
		}
	}

	a.client, err = executor.New(profile, a.logger)
	if err != nil {
		a.close()
		return nil, err
	}

	level.Debug(a.logger).Log("msg", "configuration loaded", "config", config.GetConfigFilePath(), "profile", profile.Name)
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
}

// runner builds a headless runner writing to the command's output streams
func (a *app) runner(cmd *cobra.Command) *cli.Runner {
	var recorder cli.Recorder
	if a.history != nil {
		recorder = a.history
	}
	return cli.NewRunner(a.client, recorder, a.profile.Name, a.profile.DefaultBits, cmd.OutOrStdout(), cmd.ErrOrStderr(), a.logger)
}

func (a *app) runTUI() error {
	registry, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}

	opts := tui.Options{
		Client:         a.client,
		Keybinds:       registry,
		Logger:         a.logger,
		Profile:        a.profile.Name,
		DefaultBits:    a.profile.DefaultBits,
		MessageTimeout: 5 * time.Second,
	}
	if a.history != nil {
		opts.History = a.history
	}
	return tui.Run(opts)
}
