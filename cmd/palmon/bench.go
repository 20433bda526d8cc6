package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/wippyai/palrtos"
	palerrors "github.com/wippyai/palrtos/errors"
	"github.com/wippyai/palrtos/timer"
)

type benchArgs struct {
	interval    time.Duration
	duration    time.Duration
	kind        string
	interactive bool
}

func newBenchCmd(root *rootArgs) *cobra.Command {
	args := &benchArgs{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run one timer and report how accurately it fires",
		Example: `  palmon bench --interval 10ms --duration 2s
  palmon bench --interval 500ms --kind periodic -i
  palmon bench --interval 50ms --kind oneshot`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := parseKind(args.kind)
			if err != nil {
				return err
			}
			if args.interval < time.Millisecond {
				return fmt.Errorf("interval %s is below 1ms", args.interval)
			}
			if args.interactive && !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("interactive mode needs a terminal")
			}

			cfg, err := root.config()
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			b, err := startBench(cfg, kind, args.interval)
			if err != nil {
				return err
			}
			defer b.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			if args.interactive {
				if err := runInteractive(ctx, b, args.duration); err != nil {
					return err
				}
			} else if err := b.run(ctx, args.duration); err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), b)
			return nil
		},
	}

	cmd.Flags().DurationVar(&args.interval, "interval", 10*time.Millisecond, "Timer interval (millisecond resolution)")
	cmd.Flags().DurationVar(&args.duration, "duration", 2*time.Second, "How long to run the timer")
	cmd.Flags().StringVar(&args.kind, "kind", "periodic", "Timer kind (periodic, oneshot)")
	cmd.Flags().BoolVarP(&args.interactive, "interactive", "i", false, "Show a live view")

	return cmd
}

func parseKind(s string) (timer.Kind, error) {
	switch strings.ToLower(s) {
	case "periodic":
		return timer.Periodic, nil
	case "oneshot", "one-shot":
		return timer.OneShot, nil
	}
	return 0, fmt.Errorf("unknown timer kind %q", s)
}

// bench runs one timer through the handle API. The callback timestamps each
// fire and hands a token to a collector thread through a semaphore, so the
// delivered count shows fires a waiting thread actually observed.
type bench struct {
	rtos      *palrtos.RTOS
	stats     *fireStats
	interval  time.Duration
	timer     palrtos.TimerID
	sem       palrtos.SemaphoreID
	kind      timer.Kind
	fine      bool
	delivered int32
	dropped   int32
}

func startBench(cfg palrtos.Config, kind timer.Kind, interval time.Duration) (*bench, error) {
	r, err := palrtos.New(cfg)
	if err != nil {
		return nil, err
	}

	b := &bench{
		rtos:     r,
		stats:    newFireStats(interval),
		interval: interval,
		kind:     kind,
	}

	if b.sem, err = r.SemaphoreCreate(0); err != nil {
		_ = r.Close()
		return nil, err
	}
	if b.timer, err = r.TimerCreate(b.onFire, nil, kind); err != nil {
		_ = r.Close()
		return nil, err
	}
	if err = r.TimerStart(b.timer, uint32(interval/time.Millisecond)); err != nil {
		_ = r.Close()
		return nil, err
	}

	b.fine = kind == timer.Periodic && uint32(interval/time.Millisecond) <= r.Timers().Threshold()
	return b, nil
}

func (b *bench) onFire(any) {
	b.stats.record(time.Now())
	if err := b.rtos.SemaphoreRelease(b.sem); err != nil {
		b.rtos.AtomicIncrement(&b.dropped, 1)
	}
}

// run lets the timer fire for d or until ctx is done, then stops it.
func (b *bench) run(ctx context.Context, d time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.collect(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		return b.rtos.TimerStop(b.timer)
	})
	return g.Wait()
}

func (b *bench) collect(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	wait := uint32(b.interval/time.Millisecond) * 2
	if wait < 10 {
		wait = 10
	}
	for ctx.Err() == nil {
		_, err := b.rtos.SemaphoreWait(b.sem, wait)
		switch {
		case err == nil:
			b.rtos.AtomicIncrement(&b.delivered, 1)
		case errors.Is(err, palerrors.ErrTimeout):
		default:
			return err
		}
	}
	return nil
}

func (b *bench) counts() (delivered, dropped int32) {
	return b.rtos.AtomicIncrement(&b.delivered, 0), b.rtos.AtomicIncrement(&b.dropped, 0)
}

func (b *bench) strategy() string {
	if b.fine {
		return "fine-grained thread"
	}
	return "kernel timer"
}

func (b *bench) close() {
	_ = b.rtos.TimerDelete(&b.timer)
	_ = b.rtos.SemaphoreDelete(&b.sem)
	_ = b.rtos.Close()
}

func printSummary(w io.Writer, b *bench) {
	s := b.stats.summary()
	delivered, dropped := b.counts()

	fmt.Fprintf(w, "timer:     %s %s via %s\n", b.kind, b.interval, b.strategy())
	fmt.Fprintf(w, "fires:     %d (delivered %d, dropped %d)\n", s.Fires, delivered, dropped)
	if s.Fires < 2 {
		return
	}
	fmt.Fprintf(w, "period:    mean %s, jitter %s\n", s.Mean, s.Jitter)
	fmt.Fprintf(w, "range:     %s .. %s\n", s.Min, s.Max)
	fmt.Fprintf(w, "drift:     %s over %s\n", s.Drift, s.Elapsed)
}
