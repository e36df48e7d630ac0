package bootstrap

import (
	"log"
	"time"

	"tapcard-be/internal/config"
	"tapcard-be/internal/controller"
	"tapcard-be/internal/pkg/billing"
	"tapcard-be/internal/pkg/logger"
	"tapcard-be/internal/pkg/mailer"
	"tapcard-be/internal/repository/memory"
	"tapcard-be/internal/repository/unitofwork"
	"tapcard-be/internal/service"
	"tapcard-be/pkg/entitlement"
	entEvents "tapcard-be/pkg/entitlement/events"
	"tapcard-be/pkg/entitlement/idempotency"
	"tapcard-be/pkg/entitlement/loader"
	"tapcard-be/pkg/entitlement/policy"
	pkgNats "tapcard-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// outcomeTTL bounds how long processed-operation outcomes replay from the
// fast path. The database terminal state remains authoritative afterwards.
const outcomeTTL = 24 * time.Hour

type Container struct {
	// Controllers
	EntitlementController controller.IEntitlementController
	AdminController       controller.IAdminController
	TenantController      controller.ITenantController

	// Background services, run by main.go
	ConsumerService *service.ConsumerService
	SweepService    service.ISweepService

	// Exposed for graceful shutdown
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.App.ClientURL,
	)

	// Event bus, with optional NATS mirroring
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	var natsPub *pkgNats.Publisher
	if cfg.App.NatsURL != "" {
		p, err := pkgNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] NATS unavailable, events stay in-process: %v", err)
		} else {
			natsPub = p
		}
	}
	publisher := entEvents.NewBusPublisher(pubSub, natsPub, sysLogger)

	// Decision cache: Redis when configured, in-process otherwise
	var decisionCache memory.DecisionCache
	if cfg.App.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Invalid REDIS_URL, falling back to memory cache: %v", err)
			decisionCache = memory.NewDecisionCache()
		} else {
			decisionCache = memory.NewRedisDecisionCache(redis.NewClient(opts))
		}
	} else {
		decisionCache = memory.NewDecisionCache()
	}

	// Resolver core
	policyEngine, err := policy.New()
	if err != nil {
		log.Fatalf("[FATAL] Permission policy table is not total: %v", err)
	}
	allowlist := entitlement.NewAllowlist(nil, cfg.Entitlement.SuperAdminEmails)
	subjectLoader := loader.New(uowFactory)

	guard := idempotency.New(outcomeTTL)
	billingGateway := billing.NewMidtransGateway(cfg.Billing.ServerKey, cfg.Billing.Production, sysLogger)

	// Services
	entitlementService := service.NewEntitlementService(subjectLoader, policyEngine, allowlist, decisionCache, publisher, sysLogger)
	cancellationService := service.NewCancellationService(uowFactory, entitlementService, guard, billingGateway, publisher, sysLogger)
	tenantService := service.NewTenantService(uowFactory, entitlementService, guard, billingGateway, publisher, sysLogger)
	sweepService := service.NewSweepService(uowFactory, entitlementService, guard, publisher, sysLogger, cfg.Entitlement.TrialReminderDays)
	consumerService := service.NewConsumerService(pubSub, uowFactory, emailService, sysLogger)

	return &Container{
		EntitlementController: controller.NewEntitlementController(entitlementService),
		AdminController:       controller.NewAdminController(cancellationService, entitlementService),
		TenantController:      controller.NewTenantController(tenantService),
		ConsumerService:       consumerService,
		SweepService:          sweepService,
		Logger:                sysLogger,
	}
}
