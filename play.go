package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/llehouerou/engage/internal/app"
	"github.com/llehouerou/engage/internal/config"
	"github.com/llehouerou/engage/internal/console"
	"github.com/llehouerou/engage/internal/cue"
	"github.com/llehouerou/engage/internal/engagement"
	"github.com/llehouerou/engage/internal/errmsg"
	"github.com/llehouerou/engage/internal/logging"
	"github.com/llehouerou/engage/internal/mpris"
	"github.com/llehouerou/engage/internal/notify"
	"github.com/llehouerou/engage/internal/player"
	"github.com/llehouerou/engage/internal/session"
	"github.com/llehouerou/engage/internal/state"
	"github.com/llehouerou/engage/internal/stderr"
)

type playFlags struct {
	mediaPath string
	plain     bool
}

func newPlayCmd(configPath *string) *cobra.Command {
	var f playFlags
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play media and pause for an engagement rating at a fixed interval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd, *configPath, f)
		},
	}
	cmd.Flags().StringVarP(&f.mediaPath, "video_file", "v", "", "path to the media file")
	cmd.Flags().BoolVar(&f.plain, "plain", false, "line-oriented control instead of the full-screen player")
	return cmd
}

func runPlay(cmd *cobra.Command, configPath string, f playFlags) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logCfg := cfg.GetLogConfig()
	logger, logFile, err := logging.New(logging.Options{
		Level:  logCfg.Level,
		File:   logCfg.File,
		Stderr: f.plain,
		Prefix: "engage",
	})
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer logFile.Close()

	// C audio backends write to fd 2, which would corrupt the TUI.
	if !f.plain {
		capture, err := stderr.Start(func(line string) {
			logger.Warn("stderr", "line", line)
		})
		if err != nil {
			logger.Warn("stderr capture unavailable", "err", err)
		}
		defer capture.Stop()
	}

	engine, err := player.Open(f.mediaPath, player.Options{
		Volume:   cfg.GetAudioConfig().Volume,
		Duration: cfg.MediaLength(),
	})
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpLoadMedia, f.mediaPath, err))
	}
	defer engine.Close()

	var store state.Interface
	if mgr, err := openStore(cfg); err != nil {
		logger.Warn(errmsg.Format(errmsg.OpStoreOpen, err))
	} else if mgr != nil {
		store = mgr
		defer mgr.Close()
	}

	startPlaying := cfg.StartPlaying
	if startPlaying {
		if err := engine.Play(); err != nil {
			logger.Warn("starting paused", "err", err)
			startPlaying = false
		}
	}

	cues, popup := buildCues(cfg, logger)

	// The recorder needs the controller's start time, so the controller
	// appends through this indirection.
	var rec *session.Recorder
	sink := engagement.SinkFunc(func(e engagement.Event) error {
		return rec.Sink().Append(e)
	})
	ctl := engagement.New(engine, cues, sink, engagement.Options{
		PromptInterval: cfg.PromptEvery(),
		StartPlaying:   startPlaying,
		Logger:         logger,
	})
	rec, err = session.Begin(cfg.RecordDir, store, ctl.Start(), f.mediaPath, logger)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpRecordCreate, err))
	}
	logger.Info("session started", "record", rec.Path(), "media", f.mediaPath, "interval", ctl.Interval())

	if cfg.MPRISEnabled() {
		if adapter, err := mpris.New(ctl, engine, logger); err != nil {
			logger.Warn("mpris unavailable", "err", err)
		} else {
			defer adapter.Close()
		}
	}

	onRated := func() {}
	if popup != nil {
		popup.SetPending(func() bool { return ctl.Snapshot().Locked() })
		onRated = popup.Dismiss
	}

	if f.plain {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		err = console.Run(ctx, ctl, engine, cmd.InOrStdin(), cmd.OutOrStdout(), console.Options{
			TickInterval: cfg.TickEvery(),
			OnRated:      onRated,
			Logger:       logger,
		})
	} else {
		model := app.New(ctl, engine, app.Options{
			TickInterval: cfg.TickEvery(),
			OnRated:      onRated,
			Logger:       logger,
		})
		_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	}

	engine.Stop()
	ctl.Close()
	cues.Wait()
	finishSession(cmd.OutOrStdout(), rec, logger)
	return err
}

// buildCues assembles the configured prompt cues. The popup is returned
// separately so a rating can dismiss it.
func buildCues(cfg *config.Config, logger *log.Logger) (*cue.Multi, *cue.Popup) {
	cueCfg := cfg.GetCueConfig()

	var beeper *cue.Beeper
	if cueCfg.ToneEnabled() {
		beeper = cue.NewBeeper(cue.BeeperOptions{
			FrequencyHz: cueCfg.FrequencyHz,
			Length:      cueCfg.Length(),
			Logger:      logger,
		})
	}

	var popup *cue.Popup
	if cueCfg.PopupEnabled() {
		notifier, err := notify.New()
		switch {
		case err != nil:
			logger.Warn("desktop notifications unavailable", "err", err)
		case notifier == notify.Discard:
			logger.Info("no notification service, popup cue disabled")
		default:
			popup = cue.NewPopup(notifier, logger)
		}
	}

	// Typed nils must not reach NewMulti as non-nil interfaces.
	var cues []engagement.Cue
	if beeper != nil {
		cues = append(cues, beeper)
	}
	if popup != nil {
		cues = append(cues, popup)
	}
	return cue.NewMulti(cues...), popup
}

func finishSession(out io.Writer, rec *session.Recorder, logger *log.Logger) {
	if err := rec.Finish(time.Now()); err != nil {
		logger.Error(errmsg.Format(errmsg.OpStoreFinish, err))
	}
	counts, err := rec.Summary()
	if err != nil {
		logger.Warn("summarize record", "err", err)
		fmt.Fprintf(out, "Session record: %s\n", rec.Path())
		return
	}
	fmt.Fprintf(out, "Session record: %s (%d play, %d pause, %d engagement)\n",
		rec.Path(),
		counts[engagement.KindPlay],
		counts[engagement.KindPause],
		counts[engagement.KindEngagement])
}
