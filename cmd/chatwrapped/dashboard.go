package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/janekbaraniewski/chatwrapped/internal/appupdate"
	"github.com/janekbaraniewski/chatwrapped/internal/config"
	"github.com/janekbaraniewski/chatwrapped/internal/tui"
	"github.com/janekbaraniewski/chatwrapped/internal/version"
	"github.com/janekbaraniewski/chatwrapped/internal/watch"
)

const startupUpdateCheckTimeout = 1500 * time.Millisecond

type updateCheckFunc func(context.Context, appupdate.CheckOptions) (appupdate.Result, error)

func runTUI(rt session, watchDir string) error {
	if err := tui.LoadThemes(config.ConfigDir()); err != nil {
		rt.log.Warn().Err(err).Msg("some themes could not be loaded")
	}
	if !tui.SetThemeByName(rt.cfg.Theme) {
		rt.log.Debug().Str("theme", rt.cfg.Theme).Msg("unknown theme, keeping default")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var watcher *watch.Watcher
	if strings.TrimSpace(watchDir) != "" {
		w, err := watch.New(watchDir, watch.DefaultSettle, rt.log)
		if err != nil {
			return err
		}
		defer w.Close()
		watcher = w
		watchDir = w.Dir()
	}

	model := tui.NewModel(ctx, rt.controller(), tui.Options{
		BaseURL:  rt.baseURL,
		WatchDir: watchDir,
	})
	program := tea.NewProgram(model, tea.WithAltScreen())

	if watcher != nil {
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				rt.log.Warn().Err(err).Msg("drop folder watcher stopped")
			}
		}()
		go forwardDrops(ctx, watcher, program.Send)
	}

	go runStartupUpdateCheck(ctx, version.Version, startupUpdateCheckTimeout, rt.log, appupdate.Check, func(msg tui.AppUpdateMsg) {
		program.Send(msg)
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
			program.Quit()
		case <-ctx.Done():
		}
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// forwardDrops hands files settled in the drop folder to the program as if the
// user had dropped them.
func forwardDrops(ctx context.Context, w *watch.Watcher, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-w.Files():
			send(tui.FileDroppedMsg{Transcript: t})
		}
	}
}

func runStartupUpdateCheck(
	ctx context.Context,
	currentVersion string,
	timeout time.Duration,
	log zerolog.Logger,
	check updateCheckFunc,
	send func(tui.AppUpdateMsg),
) {
	result, err := check(ctx, appupdate.CheckOptions{
		CurrentVersion: strings.TrimSpace(currentVersion),
		Timeout:        timeout,
	})
	if err != nil {
		log.Debug().Err(err).Msg("update check failed")
		return
	}
	if !result.UpdateAvailable {
		return
	}
	send(tui.AppUpdateMsg{
		CurrentVersion: result.CurrentVersion,
		LatestVersion:  result.LatestVersion,
		UpgradeHint:    result.UpgradeHint,
	})
}
