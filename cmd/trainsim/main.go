// Command trainsim runs the training simulation without the dashboard and
// prints one [epoch] line per tick.
//
//	trainsim [speed]
//
// Settings come from the same AI_INSIGHTS_* variables as the dashboard; the
// optional argument overrides AI_INSIGHTS_SPEED.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Menatic/AI-insights/pkg/config"
	"github.com/Menatic/AI-insights/pkg/runlog"
	"github.com/Menatic/AI-insights/pkg/sim"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func parseSpeed(arg string) (int, error) {
	sp, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(arg), "x"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", sim.ErrUnsupportedSpeed, arg)
	}
	return sp, nil
}

func run(ctx context.Context, args []string, getenv config.Getenv, out, errOut io.Writer) error {
	cfg, err := config.LoadFrom(getenv)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		if cfg.Speed, err = parseSpeed(args[0]); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logger := newLogger(errOut, cfg.Debug())
	defer func() { _ = logger.Sync() }()

	s := sim.New(cfg.Sim(), sim.NewSource(cfg.Seed))
	sched := sim.NewScheduler(s, sim.SystemClock{})

	var rl *runlog.Writer
	if cfg.RunLogDir != "" {
		rl, err = runlog.Open(cfg.RunLogDir, s.RunID(), time.Now())
		if err != nil {
			logger.Warnw("run log unavailable", "error", err)
		} else {
			logger.Infow("run log opened", "path", rl.LogPath, "metrics", rl.MetricsPath)
		}
	}
	defer func() {
		if err := rl.Close(); err != nil {
			logger.Errorw("run log close failed", "error", err)
		}
	}()

	emit := func(line string) {
		fmt.Fprintln(out, line)
		rl.Line(line)
	}
	s.Subscribe(func(ev sim.Event) {
		logger.Infow(ev.Message(), "event", ev.Kind.String(), "run", runlog.ShortID(ev.RunID), "epoch", ev.Epoch, "speed", ev.Speed)
		rl.Line(runlog.EventLine(ev))
	})
	sched.OnTick(func(due time.Time, st sim.State) {
		emit(runlog.EpochLine(st))
		rl.Epoch(due, st)
	})
	sched.OnStep(func(n int) {
		if n > 1 {
			logger.Debugw("caught up", "ticks", n, "epoch", s.Epoch())
		}
	})

	hp := sim.DefaultHyperparameters()
	emit(fmt.Sprintf("run: %s", s.RunID()))
	emit(fmt.Sprintf("config: epochs=%d time_budget=%s speed=%dx interval=%s", cfg.MaxEpochs, sim.FormatRemaining(cfg.TimeBudget), cfg.Speed, s.Interval()))
	emit(fmt.Sprintf("hyperparameters: batch=%d lr=%g optimizer=%s regularization=%s momentum=%g", hp.BatchSize, hp.LearningRate, hp.Optimizer, hp.Regularization, hp.Momentum))

	err = sched.Run(ctx)
	st := s.State()
	switch {
	case err == nil:
		acc, loss := st.LatestAccuracy(), st.LatestLoss()
		emit(fmt.Sprintf("[done] epochs=%d acc=%.2f val_acc=%.2f loss=%.4f val_loss=%.4f time_remaining=%s",
			st.Epoch, acc.Training, acc.Validation, loss.Training, loss.Validation, sim.FormatRemaining(st.TimeRemaining)))
		emit(confusionLine(st.Confusion))
		sc := st.Confusion.Scores()
		emit(fmt.Sprintf("[scores] accuracy=%.4f recall=%s precision=%s", sc.Accuracy, joinRates(sc.Recall), joinRates(sc.Precision)))
		if rl != nil {
			if err := rl.Curves(st); err != nil {
				logger.Warnw("curves unavailable", "error", err)
			} else {
				logger.Infow("curves written", "path", rl.CurvesPath)
			}
		}
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		emit(fmt.Sprintf("[stopped] epoch %d/%d", st.Epoch, st.MaxEpochs))
		logger.Infow("interrupted", "reason", err.Error())
		return nil
	default:
		return err
	}
}

func confusionLine(cm sim.Matrix) string {
	rows := make([]string, 0, sim.Classes)
	for r := 0; r < sim.Classes; r++ {
		cells := make([]string, sim.Classes)
		for c := range cells {
			cells[c] = strconv.Itoa(cm[r][c])
		}
		rows = append(rows, strings.Join(cells, ","))
	}
	return "[confusion] " + strings.Join(rows, " | ")
}

func joinRates(rates [sim.Classes]float64) string {
	parts := make([]string, len(rates))
	for i, r := range rates {
		parts[i] = strconv.FormatFloat(r, 'f', 3, 64)
	}
	return strings.Join(parts, ",")
}

// newLogger writes console-encoded logs to w; debug enables per-step detail.
func newLogger(w io.Writer, debug bool) *zap.SugaredLogger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), level)
	return zap.New(core).Sugar().Named("trainsim")
}
