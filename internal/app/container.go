package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"skillmatch/internal/config"
	"skillmatch/internal/database"
	dbpostgres "skillmatch/internal/database/postgres"
	"skillmatch/internal/infrastructure/cache"
	"skillmatch/internal/infrastructure/metrics"
	"skillmatch/internal/infrastructure/storage"
	"skillmatch/internal/infrastructure/storage/minio"
	"skillmatch/internal/pkg/jwt"
	"skillmatch/internal/pkg/logger"
	"skillmatch/internal/repository"
	"skillmatch/internal/scheduler"
	"skillmatch/internal/usecase"
	"skillmatch/internal/ws"
)

// Container owns every long-lived dependency of the server process.
type Container struct {
	Config  config.Config
	Logger  *slog.Logger
	DB      database.DB
	Cache   *cache.Redis
	Metrics *metrics.Metrics
	Uploads storage.Uploads
	JWT     *jwt.HMACService

	Sessions      *usecase.Sessions
	Auth          *usecase.Auth
	Profiles      *usecase.Profiles
	Skills        *usecase.Skills
	Jobs          *usecase.Jobs
	Candidates    *usecase.Candidates
	Swipes        *usecase.Swipes
	Matches       *usecase.Matches
	Conversations *usecase.Conversations

	Hub       *ws.Hub
	DBPing    *scheduler.DBPing
	Scheduler *scheduler.Scheduler
}

func NewContainer(ctx context.Context, cfg config.Config, log *slog.Logger) (*Container, error) {
	log = logger.OrDiscard(log)

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(connCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config:  cfg,
		Logger:  log,
		DB:      db,
		Cache:   cache.NewRedis(connCtx, cfg.Redis, log),
		Metrics: metrics.New(),
		JWT:     jwt.NewHMACService(cfg.JWT),
	}

	if cfg.S3.Enabled() {
		up, err := minio.New(connCtx, cfg.S3, cfg.Upload)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("object storage: %w", err)
		}
		c.Uploads = up
	} else {
		log.Info("object storage not configured, uploads disabled")
		c.Uploads = storage.Disabled{}
	}

	c.wire()
	return c, nil
}

func (c *Container) wire() {
	cfg, log := c.Config, c.Logger

	users := repository.NewPostgresUserRepository(c.DB)
	profiles := repository.NewPostgresProfileRepository(c.DB)
	skills := repository.NewPostgresSkillRepository(c.DB)
	jobs := repository.NewPostgresJobRepository(c.DB)
	matches := repository.NewPostgresMatchRepository(c.DB)
	convs := repository.NewPostgresConversationRepository(c.DB)
	messages := repository.NewPostgresMessageRepository(c.DB)

	c.Hub = ws.NewHub(c.Metrics, log)
	notifier := ws.NewNotifier(c.Hub)

	c.Sessions = usecase.NewSessionService(profiles, c.Cache, cfg.Matching.SessionCacheTTL, log)
	c.Auth = usecase.NewAuthUsecase(users, c.JWT, log)
	c.Profiles = usecase.NewProfileUsecase(c.Sessions, profiles, c.Uploads, c.Cache, log)
	c.Skills = usecase.NewSkillUsecase(skills)
	c.Jobs = usecase.NewJobUsecase(c.Sessions, jobs, c.Cache, log)
	c.Candidates = usecase.NewCandidatesUsecase(c.Sessions, profiles, jobs, matches, c.Cache, usecase.CandidatesOptions{
		CacheTTL:          cfg.Matching.CandidateCacheTTL,
		EnrichConcurrency: cfg.Matching.EnrichConcurrency,
	}, log)
	c.Swipes = usecase.NewSwipeUsecase(c.Sessions, profiles, jobs, matches, c.Cache, notifier, c.Metrics, log)
	c.Matches = usecase.NewMatchesUsecase(c.Sessions, profiles, jobs, matches, log)
	c.Conversations = usecase.NewConversationUsecase(c.Sessions, profiles, matches, convs, messages, notifier, usecase.ConversationOptions{
		PageSize:         cfg.Matching.MessagePageSize,
		MaxMessageLength: cfg.Matching.MaxMessageLength,
	}, log)

	c.DBPing = scheduler.NewDBPing(log,
		scheduler.Target{Name: "profiles", Pinger: profiles},
		scheduler.Target{Name: "jobs", Pinger: jobs},
	)
	c.Scheduler = scheduler.New(cfg.Scheduler.DBPingSpec, c.DBPing, c.Cache, c.Metrics, log)
}

// CORSOrigins splits the comma separated CORS_ORIGINS setting.
func (c *Container) CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.Config.App.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
