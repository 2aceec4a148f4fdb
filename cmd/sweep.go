package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/statusdesk/statusdesk/internal"
	"github.com/statusdesk/statusdesk/internal/configuration"
	configpg "github.com/statusdesk/statusdesk/internal/configuration/postgres"
	"github.com/statusdesk/statusdesk/internal/core/events"
	"github.com/statusdesk/statusdesk/internal/eligibility"
	"github.com/statusdesk/statusdesk/internal/status"
	statuspg "github.com/statusdesk/statusdesk/internal/status/postgres"
	"github.com/statusdesk/statusdesk/internal/statusrequest"
	requestpg "github.com/statusdesk/statusdesk/internal/statusrequest/postgres"
	userpg "github.com/statusdesk/statusdesk/internal/user/postgres"
	"github.com/statusdesk/statusdesk/pkg/logger"
)

// sweepCmd runs a single break-eligibility pass and exits. Useful from cron
// or for verifying rule changes without a running server.
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one break-eligibility sweep and exit",
	Run: func(cmd *cobra.Command, args []string) {
		runSweepOnce()
	},
}

func runSweepOnce() {
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}
	defer db.Close()

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open gorm over pgx connection: %v", err)
	}

	eventBus := events.NewEventBus(lg)

	userRepo := userpg.NewUserRepository(gormDB)
	statusRepo := statuspg.NewStatusRepository(gormDB)
	configRepo := configpg.NewConfigurationRepository(gormDB)
	requestRepo := requestpg.NewStatusRequestRepository(gormDB)

	statusService := status.NewService(statusRepo, lg)
	configService := configuration.NewService(configRepo, eventBus, lg)
	requestService := statusrequest.NewService(requestRepo, userRepo, statusService, configService, eventBus, lg)
	eligibilityService := eligibility.NewService(userRepo, configService, requestService, eventBus, lg)

	ctx, cancel := internal.WithTimeout(context.Background(), cfg.Sweep.Interval)
	defer cancel()

	if err := eligibilityService.Recompute(ctx); err != nil {
		log.Fatalf("sweep failed: %v", err)
	}

	fmt.Println("Sweep complete")
}
