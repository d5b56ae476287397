package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/planfor/planner-api/internal/adapter/repo"
	"github.com/planfor/planner-api/internal/calendar"
	"github.com/planfor/planner-api/internal/http/handlers"
	"github.com/planfor/planner-api/internal/http/httpapi"
	"github.com/planfor/planner-api/internal/infra"
	"github.com/planfor/planner-api/internal/infra/credentials"
	"github.com/planfor/planner-api/internal/infra/geoip"
	"github.com/planfor/planner-api/internal/middleware"
	"github.com/planfor/planner-api/internal/planner"
	"github.com/planfor/planner-api/internal/providers/plangen"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	creds := credentials.NewStore(runner)

	generator, err := buildGenerator(ctx, cfg, creds)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure plan generator")
	}

	roadmaps := repo.NewRoadmapRepository(runner)
	users := repo.NewUserRepository(runner)

	var mirror planner.CalendarMirror
	var calendarAuth handlers.CalendarAuth
	if cfg.GoogleClientID != "" && cfg.GoogleSecret != "" {
		client := calendar.NewClient(calendar.ClientOptions{
			BaseURL:      cfg.CalendarBaseURL,
			TokenURL:     cfg.GoogleTokenURL,
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleSecret,
		})
		mirror = calendar.NewMirror(client, cfg.CalendarTimeZone, cfg.CalendarSyncMax, logger)
		calendarAuth = client
	} else {
		logger.Warn().Msg("google oauth not configured, calendar mirroring disabled")
	}

	planService, err := planner.NewService(planner.ServiceOptions{
		Generator: generator,
		Roadmaps:  roadmaps,
		Users:     users,
		Mirror:    mirror,
		Logger:    logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build planner service")
	}

	var countryLookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		defer func() {
			_ = resolver.Close()
		}()
		countryLookup = resolver.CountryCode
	}

	app := &handlers.App{
		SQL:          runner,
		Logger:       logger,
		JWTSecret:    cfg.JWTSecret,
		Planner:      planService,
		Roadmaps:     roadmaps,
		Users:        users,
		CalendarAuth: calendarAuth,
	}

	router := httpapi.NewRouter(httpapi.RouterOptions{
		App:             app,
		Logger:          logger,
		JWTSecret:       cfg.JWTSecret,
		AllowedOrigins:  cfg.AllowedOrigins,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   countryLookup,
		RateLimitPerMin: cfg.RateLimitPerMin,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// buildGenerator selects the plan provider. API keys come from the
// environment first, then from the credentials table.
func buildGenerator(ctx context.Context, cfg *infra.Config, creds *credentials.Store) (plangen.Generator, error) {
	switch cfg.PlannerProvider {
	case credentials.ProviderOpenAI:
		key := cfg.OpenAIAPIKey
		if key == "" {
			stored, err := creds.OpenAIAPIKey(ctx)
			if err != nil {
				return nil, err
			}
			key = stored
		}
		return plangen.NewOpenAIGenerator(plangen.OpenAIOptions{
			APIKey:       key,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
		})
	default:
		key := cfg.GeminiAPIKey
		if key == "" {
			stored, err := creds.GeminiAPIKey(ctx)
			if err != nil {
				return nil, err
			}
			key = stored
		}
		return plangen.NewGeminiGenerator(plangen.GeminiOptions{
			APIKey:  key,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
		})
	}
}
