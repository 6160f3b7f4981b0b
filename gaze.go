package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/engage/internal/errmsg"
	"github.com/llehouerou/engage/internal/gaze"
	"github.com/llehouerou/engage/internal/logging"
	"github.com/llehouerou/engage/internal/state"
)

type gazeFlags struct {
	bridge string
	rate   float64
	out    string
}

func newGazeCmd(configPath *string) *cobra.Command {
	var f gazeFlags
	cmd := &cobra.Command{
		Use:   "gaze",
		Short: "Record eye-tracker samples until q is entered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGaze(cmd, *configPath, f)
		},
	}
	cmd.Flags().StringVar(&f.bridge, "bridge", "", "tracker bridge command (overrides [gaze] bridge)")
	cmd.Flags().Float64Var(&f.rate, "rate", 0, "samples per second (overrides [gaze] rate_hz)")
	cmd.Flags().StringVar(&f.out, "out", "", "output directory (overrides [gaze] output_dir)")
	return cmd
}

func runGaze(cmd *cobra.Command, configPath string, f gazeFlags) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	gazeCfg := cfg.GetGazeConfig()
	argv := gazeCfg.Bridge
	if f.bridge != "" {
		argv = strings.Fields(f.bridge)
	}
	if len(argv) == 0 || argv[0] == "" {
		return errors.New("no tracker bridge configured: set [gaze] bridge or pass --bridge")
	}
	rate := gazeCfg.RateHz
	if f.rate > 0 {
		rate = f.rate
	}
	outDir := gazeCfg.OutputDir
	if f.out != "" {
		outDir = f.out
	}

	logCfg := cfg.GetLogConfig()
	logger, logFile, err := logging.New(logging.Options{
		Level:  logCfg.Level,
		File:   logCfg.File,
		Stderr: true,
		Prefix: "gaze",
	})
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracker, err := gaze.StartBridge(ctx, argv, logger)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpGazeStart, err))
	}
	defer tracker.Close()

	sampler := gaze.NewSession(tracker, gaze.Options{RateHz: rate, Logger: logger})
	sampler.Start(ctx)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Recording gaze at %g Hz. Enter q to stop.\n", rate)
	waitForStop(ctx, cmd.InOrStdin(), tracker.Done())
	sampler.Stop()

	var store gazeStore
	if mgr, err := openStore(cfg); err != nil {
		logger.Warn(errmsg.Format(errmsg.OpStoreOpen, err))
	} else if mgr != nil {
		store = mgr
		defer mgr.Close()
	}

	run, err := saveGazeRun(store, outDir, sampler, logger)
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpGazeSave, err))
	}

	fmt.Fprintf(out, "Saved %s samples (%s lost) to %s\n",
		humanize.Comma(int64(run.Summary.Samples)),
		humanize.Comma(int64(run.Summary.Lost)),
		run.DataPath)
	return nil
}

// gazeStore is the part of the session store a gaze run needs.
type gazeStore interface {
	BeginSession(kind state.SessionKind, mediaPath, recordPath string, start time.Time) (string, error)
	FinishSession(id string, end time.Time) error
	RecordGazeRun(sessionID string, summary gaze.Summary, dataPath string) error
}

// saveGazeRun writes the samples to outDir and records the run in store
// when one is available. A failed save still closes the store session.
func saveGazeRun(store gazeStore, outDir string, sampler *gaze.Session, logger *log.Logger) (gaze.Run, error) {
	summary := sampler.Summary()
	var sessionID string
	if store != nil {
		id, err := store.BeginSession(state.KindGaze, "", "", summary.Started)
		if err != nil {
			logger.Warn("gaze history disabled", "err", err)
		} else {
			sessionID = id
		}
	}

	run, err := gaze.SaveRun(outDir, sampler, sessionID)
	if err != nil {
		if sessionID != "" {
			end := summary.Stopped
			if end.IsZero() {
				end = time.Now()
			}
			if ferr := store.FinishSession(sessionID, end); ferr != nil {
				logger.Warn(errmsg.Format(errmsg.OpStoreFinish, ferr))
			}
		}
		return gaze.Run{}, err
	}
	if sessionID != "" {
		if err := store.RecordGazeRun(sessionID, run.Summary, run.DataPath); err != nil {
			logger.Warn(errmsg.Format(errmsg.OpStoreFinish, err))
		}
	}
	return run, nil
}

// waitForStop blocks until a line reading "q" arrives on in, ctx is done or
// the tracker exits.
func waitForStop(ctx context.Context, in io.Reader, trackerDone <-chan struct{}) {
	quit := make(chan struct{})
	go func() {
		defer close(quit)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			if strings.EqualFold(strings.TrimSpace(sc.Text()), "q") {
				return
			}
		}
		// Without a terminal, keep recording until a signal arrives.
		<-ctx.Done()
	}()

	select {
	case <-quit:
	case <-ctx.Done():
	case <-trackerDone:
	}
}
