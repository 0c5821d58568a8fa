package main

import (
	"crypto/tls"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/google/uuid"

	"github.com/numbleroot/imapflow"
	"github.com/numbleroot/imapflow/config"
	"github.com/numbleroot/imapflow/metrics"
	"github.com/numbleroot/imapflow/wire"
)

// initLogger builds a JSON go-kit logger filtered to loglevel, the
// same construction as the example client binary.
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

	cServer := conf.Server
	addr := fmt.Sprintf("%s:%d", cServer.ListenHost, cServer.ListenPort)

	var listener net.Listener
	if cServer.TLS.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(cServer.TLS.CertFile, cServer.TLS.KeyFile)
		if err != nil {
			level.Error(logger).Log("msg", "failed to load TLS certificate", "err", err)
			os.Exit(1)
		}
		listener, err = tls.Listen("tcp", addr, &tls.Config{Certificates: []tls.Certificate{cert}})
	} else {
		listener, err = net.Listen("tcp", addr)
	}
	if err != nil {
		level.Error(logger).Log("msg", "failed to listen", "err", err)
		os.Exit(1)
	}

	serverMetrics := metrics.NewServerMetrics("server")
	options := imapflow.DefaultServerOptions()
	if cServer.MaxLiteralSizeMiB > 0 {
		options.MaxLiteralSize = uint32(cServer.MaxLiteralSizeMiB) * 1024 * 1024
	}

	level.Info(logger).Log("msg", "listening", "addr", addr)

	for {
		conn, err := listener.Accept()
		if err != nil {
			level.Warn(logger).Log("msg", "failed to accept connection", "err", err)
			continue
		}

		connLogger := log.With(logger, "conn_id", uuid.New().String())
		go serveConn(connLogger, conn, options, cServer.Greeting, serverMetrics)
	}
}

func serveConn(logger log.Logger, conn net.Conn, options imapflow.ServerOptions, greetingText string, m *metrics.ServerMetrics) {
	defer conn.Close()

	stream := imapflow.NewConnStream(conn)
	flow := imapflow.NewServerFlow(options, wire.Greeting{Kind: wire.StatusOK, Text: greetingText})

	for {
		event, err := flow.Progress(stream)
		if err != nil {
			level.Warn(logger).Log("msg", "connection terminated", "err", err)
			return
		}

		switch event.Kind {
		case imapflow.ServerCommandReceived:
			m.CommandsReceived.With("command", event.Command.Name).Add(1)
			level.Debug(logger).Log("msg", "command received", "command", event.Command.Name)
			flow.EnqueueStatus(wire.Status{Scope: wire.StatusTagged, Tag: event.Command.Tag, Kind: wire.StatusOK, Text: "completed"})

		case imapflow.ServerCommandAuthenticateReceived:
			m.AuthenticateStarts.With("mechanism", event.Command.Mechanism).Add(1)
			level.Info(logger).Log("msg", "authenticate started", "mechanism", event.Command.Mechanism)
			flow.AuthenticateFinish(wire.Status{Scope: wire.StatusTagged, Tag: event.Command.Tag, Kind: wire.StatusOK, Text: "authenticated"})

		case imapflow.ServerAuthenticateDataReceived:
			level.Debug(logger).Log("msg", "authenticate data received")

		case imapflow.ServerResponseSent:
			m.ResponsesSent.Add(1)
		}
	}
}
