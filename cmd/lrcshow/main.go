// lrcshow shows synchronized lyrics pushed by the lrcshow-rs daemon.
//
// Usage:
//
//	lrcshow [-mode tui|plain|i3bar] [-demo] [-verbose] [-quiet] [-log-file path]
//
// Settings can also come from the environment or a .env file in the
// working directory: LRCSHOW_MODE, LRCSHOW_LOG_FILE.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/lrcshow/internal/bus"
	"github.com/hammamikhairi/lrcshow/internal/display"
	"github.com/hammamikhairi/lrcshow/internal/domain"
	"github.com/hammamikhairi/lrcshow/internal/logger"
	"github.com/hammamikhairi/lrcshow/internal/provider"
	"github.com/hammamikhairi/lrcshow/internal/receiver"
	"github.com/hammamikhairi/lrcshow/internal/storage"
	"github.com/hammamikhairi/lrcshow/internal/window"
)

// Env var names.
const (
	EnvMode    = "LRCSHOW_MODE"
	EnvLogFile = "LRCSHOW_LOG_FILE"
)

// Render host modes.
const (
	modeTUI   = "tui"
	modePlain = "plain"
	modeI3bar = "i3bar"
)

// host is the part of every render host the receiver talks to.
type host interface {
	Notify()
}

func main() {
	_ = godotenv.Load()

	mode := flag.String("mode", envOr(EnvMode, modeTUI), "render host: tui, plain or i3bar")
	demo := flag.Bool("demo", false, "play built-in lyrics instead of connecting to the daemon")
	demoStep := flag.Duration("demo-interval", 400*time.Millisecond, "time per word in demo mode")
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", envOr(EnvLogFile, ".lrcshow-logs/lrcshow.log"), "file to write logs to (use \"stderr\" to log to console)")
	flag.Parse()

	switch *mode {
	case modeTUI, modePlain, modeI3bar:
	default:
		fmt.Fprintf(os.Stderr, "error: unknown mode %q (want tui, plain or i3bar)\n", *mode)
		os.Exit(2)
	}

	// Configure logger.
	logLevel := logger.LevelNormal
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Every host owns stdout, so logs go to a file unless asked otherwise.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Pick the provider.
	var (
		lyrics  domain.LyricsService
		signals domain.SignalSource
	)
	if *demo {
		mem := provider.NewMemory(log)
		go provider.RunDemo(ctx, mem, nil, *demoStep)
		lyrics, signals = mem, mem
		log.Info("demo mode (step=%s)", *demoStep)
	} else {
		client, err := bus.Dial(log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		defer client.Close()
		lyrics, signals = client, client
		log.Info("listening for %s", bus.ServiceName)
	}

	// Wire the core. The receiver starts on the first render, by which
	// time h is set.
	var h host
	state := storage.NewLyricsState(log)
	rcv := receiver.New(lyrics, signals, state, log,
		receiver.WithOnChange(func() { h.Notify() }),
	)
	defer rcv.Stop()
	view := window.NewView(state, window.NewFormatter(),
		window.WithStart(func() { rcv.Start(ctx) }),
	)

	var err error
	switch *mode {
	case modeTUI:
		ui := display.NewUI(view)
		h = ui
		go func() {
			<-ctx.Done()
			ui.Quit()
		}()
		err = ui.Run()
	case modePlain:
		p := display.NewPrinter(view, os.Stdout)
		h = p
		err = p.Run(ctx)
		fmt.Println()
	case modeI3bar:
		s := display.NewStatusBar(view, os.Stdout)
		h = s
		err = s.Run(ctx)
	}
	if err != nil {
		log.Error("%s host: %v", *mode, err)
		cancel()
		os.Exit(1)
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
