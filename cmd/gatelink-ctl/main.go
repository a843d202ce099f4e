// Command gatelink-ctl logs in to a GateLink gateway and runs control
// commands against it.
//
// Usage:
//
//	gatelink-ctl [flags] <command>
//
// Commands:
//
//	login       Run a login attempt and print the session token
//	info        Log in and print device information
//	reboot      Log in and reboot the gateway
//	discover    Browse for gateways via mDNS
//
// Flags:
//
//	-config string      Configuration file path (YAML)
//	-gateway string     Gateway base URL (default "http://192.168.8.1")
//	-username string    Login username (default "admin")
//	-password string    Login password (or GATELINK_PASSWORD)
//	-state-dir string   Directory for the persisted trusted gateway key
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-log-file string    Append protocol events to this file (CBOR)
//	-timeout duration   Per-request timeout
//	-interactive        Enable interactive command mode
//
// Examples:
//
//	# One-shot login
//	gatelink-ctl -gateway http://192.168.8.1 -password secret login
//
//	# Interactive session with persisted gateway key
//	gatelink-ctl -config ~/.gatelink.yaml -state-dir ~/.gatelink -interactive
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gatelink-protocol/gatelink-go/pkg/control"
	"github.com/gatelink-protocol/gatelink-go/pkg/discovery"
	"github.com/gatelink-protocol/gatelink-go/pkg/log"
	"github.com/gatelink-protocol/gatelink-go/pkg/login"
	"github.com/gatelink-protocol/gatelink-go/pkg/persistence"
	"github.com/gatelink-protocol/gatelink-go/pkg/transport"
)

// Config holds the resolved command-line configuration.
type Config struct {
	ConfigFile  string
	Gateway     string
	Username    string
	Password    string
	StateDir    string
	LogLevel    string
	LogFile     string
	Timeout     time.Duration
	Interactive bool
}

var config Config

func init() {
	flag.StringVar(&config.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&config.Gateway, "gateway", "", "Gateway base URL")
	flag.StringVar(&config.Username, "username", "", "Login username")
	flag.StringVar(&config.Password, "password", "", "Login password (or GATELINK_PASSWORD)")
	flag.StringVar(&config.StateDir, "state-dir", "", "Directory for the persisted trusted gateway key")
	flag.StringVar(&config.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&config.LogFile, "log-file", "", "Append protocol events to this file (CBOR)")
	flag.DurationVar(&config.Timeout, "timeout", 0, "Per-request timeout")
	flag.BoolVar(&config.Interactive, "interactive", false, "Enable interactive command mode")
}

func main() {
	flag.Parse()

	if config.ConfigFile != "" {
		if err := loadConfigFile(config.ConfigFile, &config); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	applyDefaults(&config)

	slogger := setupLogging(config.LogLevel)

	app, err := newApp(config, slogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if config.Interactive {
		if err := app.RunInteractive(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	args := flag.Args()
	if len(args) != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := app.RunCommand(ctx, args[0]); err != nil {
		var loginErr *login.Error
		if errors.As(err, &loginErr) {
			fmt.Fprintf(os.Stderr, "Login failed: %v\n", loginErr)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Gateway == "" {
		cfg.Gateway = "http://192.168.8.1"
	}
	if cfg.Username == "" {
		cfg.Username = "admin"
	}
	if cfg.Password == "" {
		cfg.Password = os.Getenv("GATELINK_PASSWORD")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

func setupLogging(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// app wires the transport, key store, and event log into the login
// orchestrator. One-shot commands and the interactive loop share it.
type app struct {
	config       Config
	slogger      *slog.Logger
	orchestrator *login.Orchestrator
	client       *transport.HTTPClient
	fileLog      *log.FileLogger

	session *login.Session
}

func newApp(cfg Config, slogger *slog.Logger) (*app, error) {
	client, err := transport.NewHTTPClient(transport.Config{
		BaseURL: cfg.Gateway,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	var keys persistence.KeyStore
	if cfg.StateDir != "" {
		keys = persistence.NewFileKeyStore(filepath.Join(cfg.StateDir, "trusted_key.json"))
	}

	loggers := []log.Logger{log.NewSlogAdapter(slogger)}
	var fileLog *log.FileLogger
	if cfg.LogFile != "" {
		fileLog, err = log.NewFileLogger(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		loggers = append(loggers, fileLog)
	}

	orchestrator, err := login.New(login.Config{
		Transport: client,
		Keys:      keys,
		Logger:    log.NewMultiLogger(loggers...),
		Gateway:   cfg.Gateway,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		config:       cfg,
		slogger:      slogger,
		orchestrator: orchestrator,
		client:       client,
		fileLog:      fileLog,
	}, nil
}

// Close releases the event log file, if any.
func (a *app) Close() {
	if a.fileLog != nil {
		_ = a.fileLog.Close()
	}
}

// RunCommand executes a single one-shot command.
func (a *app) RunCommand(ctx context.Context, command string) error {
	switch command {
	case "login":
		return a.cmdLogin(ctx)
	case "info":
		return a.cmdInfo(ctx)
	case "reboot":
		return a.cmdReboot(ctx)
	case "discover":
		return a.cmdDiscover(ctx)
	default:
		return fmt.Errorf("unknown command: %s (use: login, info, reboot, discover)", command)
	}
}

func (a *app) login(ctx context.Context) error {
	if a.config.Password == "" {
		return errors.New("no password given (use -password or GATELINK_PASSWORD)")
	}

	session, err := a.orchestrator.Login(ctx, login.Credentials{
		Username: a.config.Username,
		Password: a.config.Password,
	})
	if err != nil {
		return err
	}
	a.session = session

	a.slogger.Info("logged in",
		slog.String("gateway", a.config.Gateway),
		slog.String("attempt_id", session.AttemptID))
	return nil
}

func (a *app) cmdLogin(ctx context.Context) error {
	if err := a.login(ctx); err != nil {
		return err
	}
	fmt.Printf("Verified session with %s\n", a.config.Gateway)
	fmt.Printf("Token: %s\n", a.session.Token)
	return nil
}

// ensureSession logs in unless a verified session already exists.
func (a *app) ensureSession(ctx context.Context) error {
	if a.session != nil {
		return nil
	}
	return a.login(ctx)
}

func (a *app) cmdInfo(ctx context.Context) error {
	if err := a.ensureSession(ctx); err != nil {
		return err
	}

	ctrl, err := control.New(a.client, a.session)
	if err != nil {
		return err
	}
	info, err := ctrl.Information(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Device:   %s\n", info.DeviceName)
	fmt.Printf("Serial:   %s\n", info.SerialNumber)
	fmt.Printf("Hardware: %s\n", info.HardwareVersion)
	fmt.Printf("Software: %s\n", info.SoftwareVersion)
	return nil
}

func (a *app) cmdReboot(ctx context.Context) error {
	if err := a.ensureSession(ctx); err != nil {
		return err
	}

	ctrl, err := control.New(a.client, a.session)
	if err != nil {
		return err
	}
	if err := ctrl.Reboot(ctx); err != nil {
		return err
	}

	fmt.Println("Reboot accepted; the gateway will drop the connection.")
	return nil
}

func (a *app) cmdDiscover(ctx context.Context) error {
	fmt.Println("Browsing for gateways...")

	browser := discovery.NewBrowser(discovery.Config{})
	gateways, err := browser.Find(ctx)
	if err != nil {
		return err
	}
	if len(gateways) == 0 {
		fmt.Println("No gateways found")
		return nil
	}

	fmt.Printf("Found %d gateway(s):\n", len(gateways))
	for idx, gw := range gateways {
		fmt.Printf("  %d. %s at %s\n", idx+1, gw.InstanceName, gw.BaseURL())
	}
	return nil
}
