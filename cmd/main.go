package main

import (
	"context"
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/career-wizard/internal/api"
	"github.com/maxaizer/career-wizard/internal/api/handlers"
	"github.com/maxaizer/career-wizard/internal/clients/gemini"
	"github.com/maxaizer/career-wizard/internal/config"
	"github.com/maxaizer/career-wizard/internal/logger"
	"github.com/maxaizer/career-wizard/internal/metrics"
	"github.com/maxaizer/career-wizard/internal/notifier"
	"github.com/maxaizer/career-wizard/internal/repositories"
	"github.com/maxaizer/career-wizard/internal/services"
	"github.com/maxaizer/career-wizard/internal/validation"
	log "github.com/sirupsen/logrus"
	"os/signal"
	"syscall"
	"time"
)

func createQuestionGenerator(ctx context.Context, cfg config.AIConfig) (*services.QuestionGenerator, func()) {
	if !cfg.Enabled() {
		log.Info("AI key is not set, interview question generation is disabled")
		return nil, func() {}
	}

	aiClient, err := gemini.NewClient(ctx, cfg.Key, cfg.Model)
	if err != nil {
		log.Fatalf("can't create AI client: %v", err)
	}
	aiClient.SetMinuteRateLimit(cfg.MaxRequestsPerMinute)
	aiClient.SetDayRateLimit(cfg.MaxRequestsPerDay)

	return services.NewQuestionGenerator(aiClient, cfg.QuestionsPerCategory), func() { _ = aiClient.Close() }
}

func runNotifier(ctx context.Context, cfg config.NotifierConfig, bus EventBus.Bus) func() {
	if !cfg.Enabled() {
		return func() {}
	}

	redisNotifier, client, err := notifier.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.Channel)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeRedis).Errorf("notifier disabled: %v", err)
		return func() {}
	}
	if err = redisNotifier.Subscribe(bus); err != nil {
		log.Fatalf("can't subscribe notifier: %v", err)
	}

	return func() {
		bus.WaitAsync()
		_ = client.Close()
	}
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(ctx, cfg.Logger)
	defer logger.Cleanup()

	metrics.Register()

	dbContext, err := repositories.Open(cfg.DB)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	if err = dbContext.Migrate(); err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}
	if err = dbContext.PopulatePlans(cfg.Plans); err != nil {
		log.Fatalf("can't populate plans: %v", err)
	}

	careersRepo := repositories.NewCareersRepository(dbContext.DB)
	organizations := repositories.NewCachedOrganizations(repositories.NewOrganizationsRepository(dbContext.DB))

	bus := EventBus.New()
	stopNotifier := runNotifier(ctx, cfg.Notifier, bus)
	defer stopNotifier()

	gate := services.NewConfirmationGate(validation.New())
	careers := services.NewCareers(careersRepo, organizations, gate, bus)

	generator, closeGenerator := createQuestionGenerator(ctx, cfg.AI)
	defer closeGenerator()

	stats, err := services.NewStatsCollector(careersRepo, cfg.Stats.Schedule)
	if err != nil {
		log.Fatalf("can't create stats collector: %v", err)
	}
	stats.Start()
	defer stats.Stop()

	// a nil *QuestionGenerator inside the interface would not compare equal to nil
	questionHandler := handlers.NewQuestionHandler(nil)
	if generator != nil {
		questionHandler = handlers.NewQuestionHandler(generator)
	}

	careerHandler := handlers.NewCareerHandler(careers, cfg.Server.RedirectDelay)
	router := api.NewRouter(careerHandler, questionHandler, cfg.Server.AllowedOrigins)
	server := api.NewServer(router, cfg.Server.Port)
	go server.Run()

	<-ctx.Done()

	log.Info("Shutting down services...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = server.Stop(shutdownCtx); err != nil {
		log.Errorf("http server shutdown: %v", err)
	}
	log.Info("Services stopped.")
}
