package prefs

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
)

// Detector reports whether the operating system prefers a dark color scheme.
type Detector func(ctx context.Context) (bool, error)

// ErrUnsupported is returned by DetectOS on platforms without a known setting.
var ErrUnsupported = errors.New("color scheme detection is not supported on this platform")

// System is a preference source polling the operating system setting.
type System struct {
	*Broadcaster
	detect   Detector
	interval time.Duration
}

// NewSystem makes a source and runs the first detection. A failed detection means light.
func NewSystem(ctx context.Context, detect Detector, interval time.Duration) *System {
	if detect == nil {
		detect = DetectOS
	}
	dark, err := detect(ctx)
	if err != nil {
		log.Printf("[WARN] can't detect system color scheme: %v", err)
		dark = false
	}
	return &System{Broadcaster: NewBroadcaster(dark), detect: detect, interval: interval}
}

// Run polls the detector until ctx is canceled.
func (s *System) Run(ctx context.Context) {
	log.Printf("[INFO] watching system color scheme, interval=%v", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[INFO] system color scheme watcher stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *System) check(ctx context.Context) {
	dark, err := s.detect(ctx)
	if err != nil {
		log.Printf("[DEBUG] can't detect system color scheme: %v", err)
		return
	}
	if s.Update(dark) {
		log.Printf("[INFO] system color scheme changed, prefers dark=%v", dark)
	}
}

// DetectOS queries the desktop setting: AppleInterfaceStyle on macOS, GNOME color-scheme on linux.
func DetectOS(ctx context.Context) (bool, error) {
	switch runtime.GOOS {
	case "darwin":
		out, err := exec.CommandContext(ctx, "defaults", "read", "-g", "AppleInterfaceStyle").Output()
		if err != nil {
			// the key doesn't exist in light mode
			return false, nil //nolint:nilerr // absence means light
		}
		return strings.EqualFold(strings.TrimSpace(string(out)), "dark"), nil
	case "linux":
		out, err := exec.CommandContext(ctx, "gsettings", "get", "org.gnome.desktop.interface", "color-scheme").Output()
		if err != nil {
			return false, fmt.Errorf("gsettings: %w", err)
		}
		return parseGnomeScheme(string(out)), nil
	default:
		return false, ErrUnsupported
	}
}

// parseGnomeScheme interprets gsettings output like 'prefer-dark'.
func parseGnomeScheme(out string) bool {
	return strings.Contains(strings.ToLower(out), "dark")
}
