package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/iw2rmb/tilde/buffer"
	"github.com/iw2rmb/tilde/editor"
	"github.com/iw2rmb/tilde/internal/config"
	"github.com/iw2rmb/tilde/internal/log"
	"github.com/iw2rmb/tilde/internal/store"
	"github.com/iw2rmb/tilde/internal/term"
	"github.com/iw2rmb/tilde/internal/watcher"
)

// saveQuietPeriod is how long the watcher ignores events after our own save.
const saveQuietPeriod = 100 * time.Millisecond

type rootOptions struct {
	cfgFile string
	debug   bool
	plain   bool
	noWatch bool
}

func newRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "tilde [file]",
		Short:         "A small terminal text editor",
		Long:          `tilde edits one text file in the terminal. Ctrl-S saves, Ctrl-Q quits.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runEditor(cmd.Context(), opts, version, name)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "",
		"config file (default: ~/.config/tilde/config.yaml)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false,
		"write a debug log (path from log.path)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false,
		"use the raw terminal front end instead of Bubble Tea")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false,
		"do not report changes made to the file by other programs")

	cmd.AddCommand(newConfigCmd(opts))
	return cmd
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(viper.New(), opts.cfgFile)
	if err != nil {
		return config.Config{}, err
	}
	if opts.debug {
		cfg.Log.Enabled = true
	}
	if opts.plain {
		cfg.Frontend = config.FrontendPlain
	}
	if opts.noWatch {
		cfg.Watch.Enabled = false
	}
	return cfg, nil
}

func runEditor(ctx context.Context, opts *rootOptions, version, name string) (err error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if cfg.Log.Enabled {
		cleanup, logErr := log.Init(cfg.Log.Path)
		if logErr != nil {
			return logErr
		}
		defer cleanup()
		log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
	}
	log.Info(log.CatEditor, "starting", "version", version, "frontend", cfg.Frontend, "file", name)

	var w *watcher.Watcher
	var changes <-chan struct{}
	if name != "" && cfg.Watch.Enabled {
		w, changes = startWatcher(name, cfg.Watch.Debounce)
		if w != nil {
			defer func() { _ = w.Stop() }()
		}
	}

	st := store.NewOS(store.WithCommitHook(func(string) {
		if w != nil {
			w.Suppress(saveQuietPeriod)
		}
	}))

	profile := colorProfile(cfg.Theme.Profile)
	edCfg := editorConfig(cfg, version, profile)
	session := editor.NewSession(edCfg, st)
	session.Open(name)

	if cfg.Frontend == config.FrontendPlain {
		return runPlain(ctx, session, changes)
	}
	return runTea(ctx, session, edCfg, changes)
}

func startWatcher(name string, debounce time.Duration) (*watcher.Watcher, <-chan struct{}) {
	w, err := watcher.New(watcher.Config{Path: name, DebounceDur: debounce})
	if err != nil {
		log.ErrorErr(log.CatWatch, "watcher disabled", err)
		return nil, nil
	}
	changes, err := w.Start()
	if err != nil {
		log.ErrorErr(log.CatWatch, "watcher disabled", err)
		_ = w.Stop()
		return nil, nil
	}
	return w, changes
}

// editorConfig maps the loaded configuration onto the editor.
func editorConfig(cfg config.Config, version string, profile termenv.Profile) editor.Config {
	ec := editor.DefaultConfig()
	ec.QuitTimes = cfg.Editor.QuitTimes
	ec.StatusTimeout = cfg.Editor.StatusTimeout
	ec.Version = version

	if cfg.Editor.Highlight {
		ec.Palette = editor.NewPalette(profile, map[buffer.Class]string{
			buffer.ClassNumber: cfg.Theme.Number,
		})
	} else {
		ec.Classifier = buffer.NewClassifier()
	}
	return ec
}

func colorProfile(name string) termenv.Profile {
	switch strings.ToLower(name) {
	case "ascii":
		return termenv.Ascii
	case "ansi":
		return termenv.ANSI
	case "ansi256":
		return termenv.ANSI256
	case "truecolor":
		return termenv.TrueColor
	default:
		return termenv.EnvColorProfile()
	}
}

func runTea(ctx context.Context, session *editor.Session, cfg editor.Config, changes <-chan struct{}) error {
	// Query the background color before the program owns stdin.
	_ = lipgloss.HasDarkBackground()

	m := editor.New(cfg, session).WithChanges(changes)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running editor: %w", err)
	}
	return nil
}

func runPlain(ctx context.Context, session *editor.Session, changes <-chan struct{}) (err error) {
	t, err := term.Open(os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := t.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	session.WatchChanges(changes)
	err = session.Run(ctx, t, t)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
