package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/themekeeper/app/config"
	"github.com/umputun/themekeeper/app/prefs"
	"github.com/umputun/themekeeper/app/server"
	"github.com/umputun/themekeeper/app/store"
)

var opts struct {
	DB         string `short:"d" long:"db" env:"THEMEKEEPER_DB" default:"themekeeper.db" description:"database URL (sqlite file or postgres://...)"`
	SiteConfig string `short:"c" long:"site-config" env:"THEMEKEEPER_SITE_CONFIG" default:"site.yml" description:"site config file"`

	Server struct {
		Address        string        `long:"address" env:"ADDRESS" default:":8080" description:"server listen address"`
		ReadTimeout    time.Duration `long:"read-timeout" env:"READ_TIMEOUT" default:"5s" description:"read timeout"`
		SessionTTL     time.Duration `long:"session-ttl" env:"SESSION_TTL" default:"30m" description:"idle time before a session is unmounted"`
		StorageTimeout time.Duration `long:"storage-timeout" env:"STORAGE_TIMEOUT" default:"2s" description:"timeout for preference storage calls"`
	} `group:"server" namespace:"server" env-namespace:"THEMEKEEPER_SERVER"`

	SystemPref struct {
		Enabled  bool          `long:"enabled" env:"ENABLED" description:"follow the host color scheme instead of browser hints"`
		Interval time.Duration `long:"interval" env:"INTERVAL" default:"10s" description:"host color scheme polling interval"`
	} `group:"system-pref" namespace:"system-pref" env-namespace:"THEMEKEEPER_SYSTEM_PREF"`

	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `long:"version" description:"show version and exit"`
}

var revision = "unknown"

func main() {
	fmt.Printf("themekeeper %s\n", revision)

	p := flags.NewParser(&opts, flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			p.WriteHelp(os.Stderr)
			os.Exit(2)
		}
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	if opts.Version {
		os.Exit(0)
	}

	setupLogs(opts.Debug)

	defer func() {
		if x := recover(); x != nil {
			log.Printf("[WARN] run time panic:\n%v", x)
			panic(x)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	signals(cancel)

	if err := run(ctx); err != nil {
		log.Printf("[ERROR] failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	site, err := config.Load(opts.SiteConfig)
	if err != nil {
		return fmt.Errorf("failed to load site config: %w", err)
	}
	if site.ThemeConfig.DisableDarkMode {
		log.Printf("[INFO] dark mode disabled by site config")
	}

	prefStore, err := store.New(opts.DB)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer prefStore.Close()

	var sys *prefs.System
	if opts.SystemPref.Enabled {
		sys = prefs.NewSystem(ctx, prefs.DetectOS, opts.SystemPref.Interval)
		go sys.Run(ctx)
	}

	srv, err := server.New(prefStore, sys, server.Config{
		Address:         opts.Server.Address,
		ReadTimeout:     opts.Server.ReadTimeout,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		Version:         revision,
		Site:            site,
		SessionTTL:      opts.Server.SessionTTL,
		StorageTimeout:  opts.Server.StorageTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	log.Printf("[INFO] starting themekeeper server on %s", opts.Server.Address)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func setupLogs(debug bool) {
	log.Setup(log.Msec)
	if debug {
		log.Setup(log.Debug, log.CallerFunc, log.CallerPkg, log.CallerFile)
	}
}

func signals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	go func() {
		stacktrace := make([]byte, 8192)
		for sig := range sigChan {
			switch sig {
			case syscall.SIGQUIT:
				length := runtime.Stack(stacktrace, true)
				fmt.Println(string(stacktrace[:length]))
			case syscall.SIGTERM, syscall.SIGINT:
				cancel()
			}
		}
	}()
	signal.Notify(sigChan, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
}
