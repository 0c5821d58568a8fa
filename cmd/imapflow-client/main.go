package main

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"crypto/tls"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/numbleroot/imapflow"
	"github.com/numbleroot/imapflow/config"
	"github.com/numbleroot/imapflow/metrics"
	"github.com/numbleroot/imapflow/sasl"
	"github.com/numbleroot/imapflow/scheduler"
	"github.com/numbleroot/imapflow/wire"
)

func initLogger(loglevel string) log.Logger {

	logger := log.NewJSONLogger(log.NewSyncWriter(os.Stdout))
	logger = log.With(logger,
		"ts", log.DefaultTimestampUTC,
		"caller", log.Caller(5),
	)

	switch strings.ToLower(loglevel) {
	case "info":
		logger = level.NewFilter(logger, level.AllowInfo())
	case "warn":
		logger = level.NewFilter(logger, level.AllowWarn())
	case "error":
		logger = level.NewFilter(logger, level.AllowError())
	default:
		logger = level.NewFilter(logger, level.AllowDebug())
	}

	return logger
}

func newSASLClient(method, username, password string) (sasl.Client, error) {
	switch strings.ToUpper(method) {
	case "PLAIN":
		return sasl.NewPlainClient("", username, password), nil
	case "SCRAM-SHA-256":
		return sasl.NewScramSHA256Client(username, password)
	default:
		return nil, fmt.Errorf("unsupported authenticate method %q", method)
	}
}

func main() {

	configFlag := flag.String("config", "config.toml", "Provide path to configuration file in TOML syntax.")
	loglevelFlag := flag.String("loglevel", "debug", "This flag sets the default logging level.")
	flag.Parse()

	logger := initLogger(*loglevelFlag)

	conf, err := config.LoadConfig(*configFlag)
	if err != nil {
		level.Error(logger).Log("msg", "failed to load config", "err", err)
		os.Exit(1)
	}

	env, err := config.LoadEnv()
	if err != nil {
		level.Warn(logger).Log("msg", "no .env file found, proceeding without one", "err", err)
		env = &config.Env{}
	}

	cClient := conf.Client
	addr := fmt.Sprintf("%s:%d", cClient.Host, cClient.Port)

	var conn net.Conn
	if cClient.TLS.CertFile != "" {
		conn, err = tls.Dial("tcp", addr, &tls.Config{ServerName: cClient.Host})
	} else {
		conn, err = net.Dial("tcp", addr)
	}
	if err != nil {
		level.Error(logger).Log("msg", "failed to connect", "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	stream := imapflow.NewConnStream(conn)

	flow, greeting, err := imapflow.ReceiveGreeting(stream, imapflow.DefaultClientOptions())
	if err != nil {
		level.Error(logger).Log("msg", "failed to receive greeting", "err", err)
		os.Exit(1)
	}
	level.Info(logger).Log("msg", "received greeting", "text", greeting.Text)

	clientMetrics := metrics.NewClientMetrics("client")
	core := scheduler.NewScheduler(flow)
	sched := scheduler.NewMetricsScheduler(scheduler.NewLoggingScheduler(core, logger), clientMetrics.Scheduler)

	saslClient, err := newSASLClient(cClient.AuthenticateMethod, cClient.Username, env.Password)
	if err != nil {
		level.Error(logger).Log("msg", "failed to build SASL client", "err", err)
		os.Exit(1)
	}

	task := scheduler.NewAuthenticateTask(saslClient)
	handle := scheduler.EnqueueTask(core, task)

	for {
		event, err := sched.Progress(stream)
		if err != nil {
			level.Error(logger).Log("msg", "scheduler progress failed", "err", err)
			os.Exit(1)
		}

		if event.Kind != scheduler.EventTaskFinished {
			level.Info(logger).Log("msg", "unsolicited response", "kind", event.UnsolicitedKind.String())
			continue
		}

		status, ok := handle.Resolve(event.Token)
		if !ok {
			continue
		}

		if status.Kind == wire.StatusOK {
			level.Info(logger).Log("msg", "authenticated")
		} else {
			level.Error(logger).Log("msg", "authentication failed", "text", status.Text)
		}
		return
	}
}
