package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"

	"github.com/raystack/guardian/config"
	"github.com/raystack/guardian/core/appeal"
	"github.com/raystack/guardian/core/grant"
	"github.com/raystack/guardian/core/policy"
	"github.com/raystack/guardian/core/provider"
	"github.com/raystack/guardian/core/resource"
	"github.com/raystack/guardian/internal/store/memory"
	"github.com/raystack/guardian/jobs"
	"github.com/raystack/guardian/pkg/audit"
	"github.com/raystack/guardian/pkg/lock"
	"github.com/raystack/guardian/pkg/log"
	"github.com/raystack/guardian/pkg/scheduler"
	"github.com/raystack/guardian/plugins/identities"
	"github.com/raystack/guardian/plugins/notifiers"
	httpprovider "github.com/raystack/guardian/plugins/providers/http"
	"github.com/raystack/guardian/plugins/providers/noop"
)

func main() {
	configFile := flag.String("config", "", "path to the config file")
	flag.Parse()

	if err := run(*configFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configFile string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.NewCtxLogger(cfg.LogLevel, []string{"correlation_id"})
	ctx := context.Background()

	services, err := initServices(cfg, logger)
	if err != nil {
		return err
	}

	if err := services.Grant.Start(ctx); err != nil {
		return fmt.Errorf("reconciling grant expirations: %w", err)
	}
	defer services.Grant.Stop()

	jobHandler := jobs.NewHandler(logger, services.Grant, services.Notifier)
	tasks, err := jobTasks(ctx, cfg.Jobs, jobHandler)
	if err != nil {
		return err
	}
	jobScheduler, err := scheduler.New(logger, tasks)
	if err != nil {
		return fmt.Errorf("initializing job scheduler: %w", err)
	}
	jobScheduler.Run()
	defer jobScheduler.Stop()

	logger.Info(ctx, "guardian started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info(ctx, "shutting down")
	return nil
}

type services struct {
	Resource *resource.Service
	Policy   *policy.Service
	Provider *provider.Service
	Grant    *grant.Service
	Appeal   *appeal.Service
	Notifier notifiers.Client
}

func initServices(cfg config.Config, logger log.Logger) (*services, error) {
	v := validator.New()

	auditRepository := memory.NewAuditRepository()
	auditLogger := audit.New(auditRepository)

	notifier, err := notifiers.NewClient(&cfg.Notifier, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing notifier: %w", err)
	}

	iamManager := identities.NewManager()

	resourceService := resource.NewService(resource.ServiceDeps{
		Repository:  memory.NewResourceRepository(),
		Logger:      logger,
		AuditLogger: auditLogger,
	})

	policyService := policy.NewService(policy.ServiceDeps{
		Repository:  memory.NewPolicyRepository(),
		IAMManager:  iamManager,
		Validator:   v,
		Logger:      logger,
		AuditLogger: auditLogger,
	})

	providerClients := []provider.Client{
		noop.NewProvider("noop", logger),
	}
	if cfg.Providers.HTTP != nil {
		httpClient, err := httpprovider.NewFromConfig(cfg.Providers.HTTP, logger)
		if err != nil {
			return nil, fmt.Errorf("initializing http provider: %w", err)
		}
		providerClients = append(providerClients, httpClient)
	}

	providerService := provider.NewService(provider.ServiceDeps{
		Repository:  memory.NewProviderRepository(),
		Clients:     providerClients,
		Validator:   v,
		Logger:      logger,
		AuditLogger: auditLogger,
	})

	appealLock := lock.NewKeyedMutex()

	grantService := grant.NewService(grant.ServiceDeps{
		Repository:      memory.NewGrantRepository(),
		ProviderService: providerService,
		Notifier:        notifier,
		Logger:          logger,
		AuditLogger:     auditLogger,
		AppealLock:      appealLock,
	})

	appealService := appeal.NewService(appeal.ServiceDeps{
		Repository:      memory.NewAppealRepository(),
		PolicyService:   policyService,
		ProviderService: providerService,
		ResourceService: resourceService,
		GrantService:    grantService,
		IAMManager:      iamManager,
		Notifier:        notifier,
		Logger:          logger,
		AuditLogger:     auditLogger,
		AppealLock:      appealLock,
	})
	grantService.SetAppealService(appealService)

	return &services{
		Resource: resourceService,
		Policy:   policyService,
		Provider: providerService,
		Grant:    grantService,
		Appeal:   appealService,
		Notifier: notifier,
	}, nil
}

func jobTasks(ctx context.Context, cfg config.Jobs, handler interface {
	RevokeExpiredGrants(context.Context, jobs.Config) error
	GrantExpirationReminder(context.Context, jobs.Config) error
}) ([]*scheduler.Task, error) {
	var tasks []*scheduler.Task

	revokeJob := cfg.RevokeExpiredGrants
	if revokeJob.Interval == "" {
		revokeJob.Interval = "*/20 * * * *"
	}
	if revokeJob.Enabled {
		tasks = append(tasks, &scheduler.Task{
			Name:    string(jobs.TypeRevokeExpiredGrants),
			CronTab: revokeJob.Interval,
			Func: func() error {
				return handler.RevokeExpiredGrants(ctx, revokeJob.Config)
			},
		})
	}

	reminderJob := cfg.ExpiringGrantNotification
	if reminderJob.Interval == "" {
		reminderJob.Interval = "0 9 * * *"
	}
	if reminderJob.Enabled {
		tasks = append(tasks, &scheduler.Task{
			Name:    string(jobs.TypeExpiringGrantNotification),
			CronTab: reminderJob.Interval,
			Func: func() error {
				return handler.GrantExpirationReminder(ctx, reminderJob.Config)
			},
		})
	}

	return tasks, nil
}
