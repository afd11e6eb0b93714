// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"pkt.systems/pslog"

	"github.com/jeranaias/grok-cli/internal/config"
	"github.com/jeranaias/grok-cli/internal/model"
	"github.com/jeranaias/grok-cli/internal/render"
	"github.com/jeranaias/grok-cli/internal/termimg"
	"github.com/jeranaias/grok-cli/internal/ui/styles"
	"github.com/jeranaias/grok-cli/internal/update"
	"github.com/jeranaias/grok-cli/internal/util"
	"github.com/jeranaias/grok-cli/internal/xai"
)

// rootOptions holds flags shared by the root command and subcommands.
type rootOptions struct {
	apiKey     string
	configPath string
	debug      bool
	version    bool
}

// NewRootCommand builds the grok command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "grok",
		Short: "Chat with Grok in the terminal",
		Long: `Chat with Grok in the terminal.

Replies are formatted for the terminal and math in fenced latex blocks is
shown as inline images on terminals with sixel, iTerm2 or kitty graphics.

Type "clear" or "cls" to clear the screen. Press Ctrl+C or Ctrl+D to exit.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.debug {
				logger := pslog.NewWithOptions(cmd.ErrOrStderr(), pslog.Options{
					Mode:     pslog.ModeConsole,
					MinLevel: pslog.DebugLevel,
				})
				cmd.SetContext(pslog.ContextWithLogger(cmd.Context(), logger))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if opts.version {
				return runVersion(cmd.Context(), cmd.OutOrStdout(), cfg)
			}
			return runChat(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ~/.grok/config.toml)")
	root.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "log debug details to stderr")
	// SECURITY: Flag values show up in process listings; XAI_API_KEY is preferred.
	root.Flags().StringVarP(&opts.apiKey, "key", "k", "", "xAI API key for this run (default $XAI_API_KEY)")
	root.Flags().BoolVarP(&opts.version, "version", "v", false, "print version and check for updates")

	root.AddCommand(newConfigCommand(opts))
	return root
}

// configFile returns the config path in effect.
func (o *rootOptions) configFile() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.ConfigPath()
}

// loadConfig loads the config in effect, applies the --key override and
// sets the color profile.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFromPath(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if o.apiKey != "" {
		cfg.Backend.APIKey = o.apiKey
	}
	lipgloss.SetColorProfile(ColorProfile(cfg.UI.Color))
	return cfg, nil
}

// =============================================================================
// CHAT
// =============================================================================

// runChat runs the session and, unless disabled, an update check beside
// it. Notices are printed after the session ends.
func runChat(ctx context.Context, out io.Writer, cfg *config.Config) error {
	client := newClient(cfg)
	if !client.IsConfigured() {
		return xai.ErrNotConfigured
	}

	historyPath, err := config.HistoryPath()
	if err != nil {
		historyPath = ""
	}
	input := NewChatCLI(historyPath)
	defer input.Close()

	session := NewChatSession(input, client, newPipeline(out, cfg), out)
	session.Options = model.GenerationOptions{
		Temperature: cfg.Backend.Temperature,
		MaxTokens:   cfg.Backend.MaxTokens,
	}
	session.Spinner = cfg.UI.Spinner && IsStdoutTTY()
	if cfg.UI.Banner {
		session.Banner = banner(client.Model())
	}

	pslog.Ctx(ctx).Debug("session starting",
		"session", session.ID,
		"model", client.Model(),
		"key", client.KeyFingerprint(),
		"update_check", cfg.Update.Enabled,
	)

	var check noticeCheck
	if cfg.Update.Enabled {
		check = func(ctx context.Context) ([]string, error) {
			return checkUpdates(ctx, cfg, false)
		}
	}
	return runSession(ctx, out, session, check)
}

// noticeCheck produces notices to show once the session has ended.
type noticeCheck func(ctx context.Context) ([]string, error)

// runSession runs session and, when check is non-nil, check beside it.
// The first prompt never waits for the check. Notices are printed after
// all session output; a failed check yields none and leaves the session
// running.
func runSession(ctx context.Context, out io.Writer, session *ChatSession, check noticeCheck) error {
	var notices []string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return session.Run(gctx)
	})
	if check != nil {
		g.Go(func() error {
			n, err := check(gctx)
			if err != nil {
				pslog.Ctx(ctx).Debug("notice check failed", "err", logField(err))
				return nil
			}
			notices = n
			return nil
		})
	}
	err := g.Wait()

	printNotices(out, notices)
	return err
}

// newClient builds the backend client from config.
func newClient(cfg *config.Config) *xai.Client {
	return xai.NewClient(cfg.Backend.APIKey).
		WithBaseURL(cfg.Backend.BaseURL).
		WithModel(cfg.Backend.Model).
		WithTimeout(time.Duration(cfg.Backend.TimeoutMinutes) * time.Minute).
		WithMaxRetries(cfg.Backend.MaxRetries)
}

// newPipeline builds the reply renderer for out. Inline images are only
// enabled when stdout is a terminal with a graphics protocol.
func newPipeline(out io.Writer, cfg *config.Config) *render.Pipeline {
	protocol, err := termimg.ParseProtocol(cfg.Render.Protocol)
	if err != nil {
		protocol = termimg.ProtocolAuto
	}
	protocol = termimg.Resolve(protocol, IsStdoutTTY(), os.Getenv)

	renderer := render.NewLatexRenderer(cfg.Render.Endpoint, render.Options{
		Size:       cfg.Render.Size,
		DPI:        cfg.Render.DPI,
		Background: cfg.Render.Background,
		Foreground: cfg.Render.Foreground,
	}, cfg.Render.RequestsPerSecond)

	return render.NewPipeline(out, renderer, termimg.NewEncoder(protocol))
}

// banner returns the ready line shown before the first prompt, underlined
// by a rule as wide as the line.
func banner(modelName string) string {
	ready := "Ready v" + trimV(CurrentVersion())
	tag := "(" + modelName + ")"
	width := util.StringWidth(AssistantMarker + ready + " " + tag)
	return AssistantMarker + welcomeStyle.Render(ready) + " " + infoStyle.Render(tag) +
		"\n" + styles.RenderMuted(util.Rule(bannerRule, width))
}

func trimV(v string) string {
	if len(v) > 1 && v[0] == 'v' && v[1] >= '0' && v[1] <= '9' {
		return v[1:]
	}
	return v
}

// =============================================================================
// VERSION
// =============================================================================

// runVersion prints version information and runs a forced update check.
func runVersion(ctx context.Context, w io.Writer, cfg *config.Config) error {
	ShowVersion(w)

	if update.Canonical(CurrentVersion()) == "" {
		fmt.Fprintln(w, infoStyle.Render("Development build; update checks compare release versions only."))
		return nil
	}

	notices, err := checkUpdates(ctx, cfg, true)
	if err != nil {
		fmt.Fprintln(w, styles.RenderWarning("Could not check for updates: "+err.Error()))
		return nil
	}
	if len(notices) == 0 {
		fmt.Fprintln(w, styles.RenderSuccess("grok is up to date"))
		return nil
	}
	printNotices(w, notices)
	return nil
}
