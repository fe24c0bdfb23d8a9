package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/traindiary/traindiary/internal/cache"
	"github.com/traindiary/traindiary/internal/config"
	"github.com/traindiary/traindiary/internal/db"
	"github.com/traindiary/traindiary/internal/diary"
	"github.com/traindiary/traindiary/internal/middleware"
	"github.com/traindiary/traindiary/internal/telemetry/metrics"
	"github.com/traindiary/traindiary/internal/telemetry/tracing"
	"github.com/traindiary/traindiary/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	diaryStores *diary.Stores

	redisClient *redis.Client

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	PostgresPassword        string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "diary", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "traindiary-backend", rdb)
	if err != nil {
		return nil, err
	}

	megabyte := 1024 * 1024
	sessionsCacheSize := params.Config.SessionsCacheSizeMegabytes * megabyte
	diaryStores := diary.NewStores(
		diary.NewRepo(dbPool),
		diary.WithSessionsCache(cache.NewSessionsCache(sessionsCacheSize)),
		diary.WithMetrics(metricsManager),
	)

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		diaryStores: diaryStores,
		versionInfo: params.VersionInfo,

		redisClient: rdb,

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("diary-router"))

	diaryHandler := diary.NewHandler(s.diaryStores)

	diaryRouter := r.PathPrefix("/diary/user/{userId}").Subrouter()
	diaryRouter.HandleFunc("/sessions", diaryHandler.HandleGetSessions).Methods("GET", "OPTIONS").Name("get-sessions")
	diaryRouter.HandleFunc("/plan", diaryHandler.HandleGetCurrentPlan).Methods("GET", "OPTIONS").Name("get-current-plan")
	diaryRouter.HandleFunc("/streak", diaryHandler.HandleGetStreak).Methods("GET", "OPTIONS").Name("get-streak")

	diaryRouter.HandleFunc("/goals", diaryHandler.HandleGetGoals).Methods("GET", "OPTIONS").Name("list-goals")
	diaryRouter.HandleFunc("/goals", diaryHandler.HandleAddGoal).Methods("POST", "OPTIONS").Name("new-goal")
	diaryRouter.HandleFunc("/goals", diaryHandler.HandleUpdateGoal).Methods("PUT", "OPTIONS").Name("update-goal")
	diaryRouter.HandleFunc("/goals/{id}", diaryHandler.HandleDeleteGoal).Methods("DELETE", "OPTIONS").Name("remove-goal")

	diaryRouter.HandleFunc("/reflections", diaryHandler.HandleGetReflections).Methods("GET", "OPTIONS").Name("list-reflections")
	diaryRouter.HandleFunc("/reflections", diaryHandler.HandleSaveReflection).Methods("POST", "OPTIONS").Name("save-reflection")
	diaryRouter.HandleFunc("/reflections/challenges", diaryHandler.HandleAddChallenge).Methods("POST", "OPTIONS").Name("new-challenge")
	diaryRouter.HandleFunc("/reflections/challenges", diaryHandler.HandleUpdateChallenge).Methods("PUT", "OPTIONS").Name("update-challenge")
	diaryRouter.HandleFunc("/reflections/challenges/{id}", diaryHandler.HandleRemoveChallenge).Methods("DELETE", "OPTIONS").Name("remove-challenge")

	diaryRouter.HandleFunc("/photos", diaryHandler.HandleGetPhotos).Methods("GET", "OPTIONS").Name("list-photos")
	diaryRouter.HandleFunc("/photos", diaryHandler.HandleAddPhoto).Methods("POST", "OPTIONS").Name("new-photo")
	diaryRouter.HandleFunc("/photos/{id}", diaryHandler.HandleDeletePhoto).Methods("DELETE", "OPTIONS").Name("remove-photo")

	r.HandleFunc("/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	diaryRouter.Use(middleware.RateLimit(
		reqRateLimiter,
		"diary-router",
		s.config.DiaryRateLimitAllowedPerMin,
		s.metricsManager,
	))

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("diary service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
