package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"newsfeed-service/configs"
	"newsfeed-service/internal/cache"
	"newsfeed-service/internal/cachepolicy"
	"newsfeed-service/internal/events"
	"newsfeed-service/internal/feed"
	"newsfeed-service/internal/post"
	"newsfeed-service/internal/ratelimit"
	"newsfeed-service/internal/registry"
	"newsfeed-service/internal/shared/httpx"
	"newsfeed-service/internal/shared/mongox"
	"newsfeed-service/internal/shared/redisx"
	"newsfeed-service/internal/store"
	"newsfeed-service/internal/trending"
)

func initOTEL(ctx context.Context) func(context.Context) error {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "otel-collector:4318"
	}
	exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		log.Fatalf("otel exporter: %v", err)
	}
	res, _ := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("newsfeed-service"),
		attribute.String("deployment.environment", os.Getenv("ENV")),
	))
	ratio := 1.0
	if s := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); s != "" {
		if f, e := strconv.ParseFloat(s, 64); e == nil && f >= 0 && f <= 1 {
			ratio = f
		}
	}
	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(ratio))),
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown
}

func main() {
	cfg := configs.LoadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := initOTEL(ctx)
	defer func() {
		c, cancelShut := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShut()
		_ = shutdown(c)
	}()

	// Collaborators: document store + cache.
	db := mongox.Open(cfg)
	st := store.NewMongoStore(db)

	rdb := redisx.Open(cfg)
	defer func(rdb *redis.Client) { _ = rdb.Close() }(rdb)
	kv := cache.NewRedisCache(rdb)

	// Core services.
	policy := cachepolicy.New(kv)
	feedSvc := feed.NewService(st, kv,
		feed.WithCacheTTL(cfg.FeedCacheTTL),
		feed.WithMaxPageSize(cfg.MaxPageSize),
	)
	trendSvc := trending.NewService(st, kv,
		trending.WithCacheTTL(cfg.TrendingCacheTTL),
	)
	postSvc := post.NewService(st, kv, cfg.PostCacheTTL)

	// Real-time fan-out registry, injected where needed.
	reg := registry.New()

	// Mutation events drive eager single-post invalidation.
	consumer := events.NewConsumer(policy, reg)
	go func() {
		if err := consumer.Run(ctx, cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID); err != nil {
			log.Printf("events consumer stopped: %v", err)
		}
	}()

	limiter := ratelimit.New(rdb)
	invalidateLimit := func(next http.Handler) http.Handler {
		return limiter.LimitHTTP(30, time.Minute, func(r *http.Request) (string, error) {
			return httpx.UserFromCtx(r)
		}, next)
	}

	feedH := feed.NewHandler(feedSvc, cfg.DefaultPageSize, cfg.MaxPageSize)
	trendH := trending.NewHandler(trendSvc, 10)
	postH := post.NewHandler(postSvc)
	policyH := cachepolicy.NewHandler(policy)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	})

	// Public:
	mux.Handle("GET /users/{user_id}/feed", httpx.Wrap(feedH.GetUserFeed))
	mux.Handle("GET /trending", httpx.Wrap(trendH.GetTrending))
	mux.Handle("GET /posts/{post_id}", httpx.AuthOptional(httpx.Wrap(postH.GetPost)))

	// Protected:
	protect := func(pattern string, handler http.Handler) {
		mux.Handle(pattern, httpx.AuthMiddleware(handler))
	}
	protect("GET /feed", httpx.Wrap(feedH.GetHomeFeed))
	protect("POST /cache/posts/{post_id}/invalidate", invalidateLimit(httpx.Wrap(policyH.InvalidatePost)))

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           otelhttp.NewHandler(mux, "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt)
	go func() {
		<-exit
		log.Println("shutting down newsfeed-service...")
		cancel()
		c, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShut()
		_ = srv.Shutdown(c)
	}()

	log.Printf("newsfeed-service listening on %s", cfg.AppPort)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("HTTP server error: %v", err)
	}
}
