// Package scheduler runs the periodic database keep-alive ping.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"skillmatch/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

const (
	jobDBPing    = "db_ping"
	pingTimeout  = 10 * time.Second
	leaseKey     = "scheduler:lease:" + jobDBPing
	leaseTimeout = time.Minute
)

// Pinger is anything that can prove its table is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Lease lets only one replica run a tick. Nil means always run.
type Lease interface {
	SetIfNotExists(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
}

type Recorder interface {
	JobRun(job string, err error)
}

type Target struct {
	Name   string
	Pinger Pinger
}

// DBPing touches every target table so a hosted database on a free tier is
// not paused for inactivity.
type DBPing struct {
	targets []Target
	logger  *slog.Logger
}

func NewDBPing(log *slog.Logger, targets ...Target) *DBPing {
	return &DBPing{targets: targets, logger: logger.OrDiscard(log)}
}

// Run pings every target and joins the failures.
func (p *DBPing) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	var errs []error
	for _, t := range p.targets {
		start := time.Now()
		if err := t.Pinger.Ping(ctx); err != nil {
			p.logger.Error("db ping failed", slog.String("table", t.Name), slog.Any("err", err))
			errs = append(errs, fmt.Errorf("ping %s: %w", t.Name, err))
			continue
		}
		p.logger.Debug("db ping ok", slog.String("table", t.Name), slog.Duration("took", time.Since(start)))
	}
	return errors.Join(errs...)
}

type Scheduler struct {
	cron     *cron.Cron
	spec     string
	ping     *DBPing
	lease    Lease
	recorder Recorder
	logger   *slog.Logger
}

func New(spec string, ping *DBPing, lease Lease, recorder Recorder, log *slog.Logger) *Scheduler {
	log = logger.OrDiscard(log).With(slog.String("component", "scheduler"))
	return &Scheduler{
		cron: cron.New(cron.WithLogger(
			cron.VerbosePrintfLogger(slog.NewLogLogger(log.Handler(), slog.LevelDebug)),
		)),
		spec:     spec,
		ping:     ping,
		lease:    lease,
		recorder: recorder,
		logger:   log,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.tick(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("cron started", slog.String("spec", s.spec))
	return nil
}

// Stop waits for a running tick to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("cron stop timed out")
	}
	s.logger.Info("cron stopped")
}

func (s *Scheduler) tick(ctx context.Context) {
	if s.lease != nil {
		owner, _ := os.Hostname()
		ok, err := s.lease.SetIfNotExists(ctx, leaseKey, owner, leaseTimeout)
		if err != nil {
			s.logger.Warn("scheduler lease failed, running anyway", slog.Any("err", err))
		} else if !ok {
			s.logger.Debug("another replica holds the lease", slog.String("job", jobDBPing))
			return
		}
	}

	err := s.ping.Run(ctx)
	if s.recorder != nil {
		s.recorder.JobRun(jobDBPing, err)
	}
	if err == nil {
		s.logger.Info("db ping completed")
	}
}
