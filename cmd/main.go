package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"net/url"
	"os"
	"reflect"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/events"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	"github.com/aukilabs/medtouch/featureflag"
	medhttp "github.com/aukilabs/medtouch/http"
	"github.com/aukilabs/medtouch/smoketest"
	"github.com/aukilabs/medtouch/suite"
	mwebsocket "github.com/aukilabs/medtouch/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

var (
	// The Medtouch version number. Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "medtouch_info",
		Help:        "Medtouch information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// This will effectively disable obfuscation of the config struct. Without it, the keys would get obfuscated causing the cli package to generate garbled command-line options.
// https://github.com/burrowers/garble/issues/403
var _ = reflect.TypeOf(config{})

type config struct {
	Addr               string        `cli:""        env:"MEDTOUCH_ADDR"                 help:"Listening address for client connections."`
	AdminAddr          string        `cli:""        env:"MEDTOUCH_ADMIN_ADDR"           help:"Admin listening address."`
	PublicEndpoint     string        `cli:""        env:"MEDTOUCH_PUBLIC_ENDPOINT"      help:"The public endpoint where this Medtouch server is reachable."`
	LogLevel           string        `cli:""        env:"MEDTOUCH_LOG_LEVEL"            help:"Log level (debug|info|warning|error)."`
	LogIndent          bool          `cli:""        env:"MEDTOUCH_LOG_INDENT"           help:"Indent logs."`
	LayoutFile         string        `cli:""        env:"MEDTOUCH_LAYOUT_FILE"          help:"YAML file that describes the screen size and the chooser targets."`
	PollInterval       time.Duration `cli:",hidden" env:"MEDTOUCH_POLL_INTERVAL"        help:"The duration between each touch poll cycle."`
	ClientIdleTimeout  time.Duration `cli:",hidden" env:"MEDTOUCH_CLIENT_IDLE_TIMEOUT"  help:"Time until an idle client will be disconnected"`
	LogSummaryInterval time.Duration `cli:",hidden" env:"MEDTOUCH_LOG_SUMMARY_INTERVAL" help:"The duration between each log summary by connection."`
	ShutdownTimeout    time.Duration `cli:",hidden" env:"MEDTOUCH_SHUTDOWN_TIMEOUT"     help:"The time given to in-flight requests when the server stops."`
	Events             eventsConfig  `cli:",hidden" env:"-"                             help:"Event pusher configuration."`
	FeatureFlags       []string      `cli:",hidden" env:"MEDTOUCH_FEATURE_FLAGS"        help:"Comma separated feature flags"`
	Version            bool          `cli:""        env:"-"                             help:"Show version."`
	Help               bool          `cli:""        env:"-"                             help:"Show help."`
}

type eventsConfig struct {
	Endpoint      string        `cli:",hidden" env:"MEDTOUCH_EVENTS_ENDPOINT"       help:"Endpoint to where events are pushed."`
	FlushInterval time.Duration `cli:",hidden" env:"MEDTOUCH_EVENTS_FLUSH_INTERVAL" help:"The duration between each event flush."`
	BatchSize     int           `cli:",hidden" env:"MEDTOUCH_EVENTS_BATCH_SIZE"     help:"The maximum number of events sent at once."`
	QueueSize     int           `cli:",hidden" env:"MEDTOUCH_EVENTS_QUEUE_SIZE"     help:"The size of the queue where events are stored."`
}

func main() {
	conf := config{
		Addr:               ":4000",
		AdminAddr:          ":18190",
		PublicEndpoint:     "http://localhost:4000",
		LogLevel:           logs.InfoLevel.String(),
		PollInterval:       time.Millisecond * 10,
		ClientIdleTimeout:  time.Minute * 5,
		LogSummaryInterval: time.Minute,
		ShutdownTimeout:    time.Second * 10,
		Events: eventsConfig{
			FlushInterval: events.DefaultFlushInterval,
			BatchSize:     events.DefaultBatchSize,
			QueueSize:     events.DefaultQueueSize,
		},
	}

	// set the information gauge to 1, useful for SUM query
	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Starts the Medtouch server.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := validateConfig(conf); err != nil {
		logs.Fatal(err)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	if conf.Events.Endpoint != "" {
		eventsPusher := events.Pusher{
			Endpoint:      conf.Events.Endpoint,
			FlushInterval: conf.Events.FlushInterval,
			BatchSize:     conf.Events.BatchSize,
			QueueSize:     conf.Events.QueueSize,
			Transport:     metrics.HTTPTransport(http.DefaultTransport),
		}
		go eventsPusher.Start()
		defer eventsPusher.Close()

		eventsLogger := events.Logger{
			Pusher:           &eventsPusher,
			SDKType:          "medtouch",
			SDKVersionFamily: version,
		}
		logs.SetLogger(eventsLogger.Log)
	}

	layout, err := suite.LoadLayout(conf.LayoutFile)
	if err != nil {
		logs.Fatal(errors.New("loading layout failed").Wrap(err))
	}

	var navigators suite.Store

	// Client connections are hijacked, so server shutdown does not close them.
	clientsCtx, closeClients := context.WithCancel(ctx)
	defer closeClients()
	readinessCheck := func() bool {
		return ctx.Err() == nil
	}

	var service http.ServeMux
	service.Handle("/health", medhttp.HandleWithCORS(http.HandlerFunc(medhttp.HandleHealthCheck)))
	service.Handle("/ready", medhttp.HandleWithCORS(medhttp.HandleReadyCheck(readinessCheck)))
	service.Handle("/version", medhttp.HandleWithCORS(medhttp.HandleVersion(version)))

	service.Handle("/", medhttp.HandleWithCORS(websocket.Server{
		Handler: func(conn *websocket.Conn) {
			defer conn.Close()

			var th mwebsocket.Handler = &mwebsocket.TouchHandler{
				ClientPollInterval: conf.PollInterval,
				ClientIdleTimeout:  conf.ClientIdleTimeout,
				Layout:             layout,
				Navigators:         &navigators,
				FeatureFlags:       featureflag.New(conf.FeatureFlags),
			}
			h := mwebsocket.HandlerWithLogs(th, conf.LogSummaryInterval)
			h = mwebsocket.HandlerWithMetrics(h, conf.PublicEndpoint)
			defer h.Close()

			mwebsocket.Handle(clientsCtx, conn, h)
		},
	}))

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", medhttp.HandleHealthCheck)
	admin.HandleFunc("/ready", medhttp.HandleReadyCheck(readinessCheck))
	admin.HandleFunc("/screens", medhttp.HandleScreens(&navigators))
	admin.HandleFunc("/smoke-test", smoketest.HandleSmokeTest(ctx, smoketest.Options{
		Screen: layout.Screen,
		SendResult: func(_ context.Context, res smoketest.SmokeTestResults) error {
			logs.WithTag("status", res.Status).
				WithTag("duration", res.Duration).
				WithTag("scenarios", len(res.Results)).
				Info("smoke test done")
			return nil
		},
	}))
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	admin.HandleFunc("/debug/pprof/trace", pprof.Trace)
	admin.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	admin.Handle("/debug/pprof/heap", pprof.Handler("heap"))
	admin.Handle("/debug/pprof/threadcreate", pprof.Handler("threadcreate"))
	admin.Handle("/debug/pprof/block", pprof.Handler("block"))

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("endpoint", conf.PublicEndpoint).
		WithTag("screen", layout.Screen).
		WithTag("home", layout.Home).
		WithTag("feature_flags", conf.FeatureFlags).
		Info("starting medtouch server")

	serviceServer := &http.Server{
		Addr: conf.Addr,
		Handler: metrics.HTTPHandler(&service, medhttp.MetricsPathFormatter(
			"/",
			"/health",
			"/ready",
			"/version",
		)),
	}
	serviceServer.RegisterOnShutdown(closeClients)

	medhttp.ListenAndServe(ctx, conf.ShutdownTimeout,
		serviceServer,
		&http.Server{Addr: conf.AdminAddr, Handler: &admin},
	)
}

func validateConfig(conf config) error {
	if _, err := url.ParseRequestURI(conf.PublicEndpoint); err != nil {
		return errors.New("invalid public endpoint").Wrap(err)
	}

	if conf.PollInterval <= 0 {
		return errors.New("poll interval must be positive").
			WithTag("poll_interval", conf.PollInterval)
	}

	if conf.ClientIdleTimeout <= 0 {
		return errors.New("client idle timeout must be positive").
			WithTag("client_idle_timeout", conf.ClientIdleTimeout)
	}

	return nil
}
