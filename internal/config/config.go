package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/1broseidon/edgedock/internal/dock"
	"github.com/1broseidon/edgedock/internal/ticker"
)

// PanelConfig holds the docked panel dimensions in logical units.
type PanelConfig struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Velocity float64 `yaml:"velocity"` // 0 = width/5
}

// PolicyConfig holds debounce settings for one decision policy.
type PolicyConfig struct {
	Threshold uint32        `yaml:"threshold"` // consecutive samples before a transition
	Interval  time.Duration `yaml:"interval"`  // tick budget
}

// WindowMatch selects the managed window among the client list.
type WindowMatch struct {
	Class string `yaml:"class,omitempty"` // WM_CLASS class or instance, case-insensitive
	Title string `yaml:"title,omitempty"` // substring of _NET_WM_NAME / WM_NAME
}

// Config is the daemon configuration. It is read once at start.
type Config struct {
	// Policy selects how the panel appears: "continuous" slides it in
	// a fixed step per tick, "discrete" maps/unmaps it.
	Policy     string       `yaml:"policy"`
	Panel      PanelConfig  `yaml:"panel"`
	Continuous PolicyConfig `yaml:"continuous"`
	Discrete   PolicyConfig `yaml:"discrete"`
	Window     WindowMatch  `yaml:"window"`

	// Sampler selects pointer acquisition: "root" queries the pointer
	// globally, "window" queries it relative to the managed window.
	Sampler string `yaml:"sampler"`

	// ToggleHotkey is an optional global key sequence (e.g. "Mod4-grave")
	// that forces the panel shown or hidden.
	ToggleHotkey string `yaml:"toggle_hotkey,omitempty"`

	// StartupDelay is how long to wait after the initial placement before
	// the first tick, giving the window manager time to settle.
	StartupDelay time.Duration `yaml:"startup_delay"`
	// ScaleFactor divides physical pixels to get logical units.
	ScaleFactor float64 `yaml:"scale_factor"`

	LogLevel string `yaml:"log_level"`
	// Display overrides $DISPLAY for the X11 connection.
	Display string `yaml:"display,omitempty"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	g := dock.DefaultGeometry()
	return &Config{
		Policy: dock.PolicyContinuous,
		Panel: PanelConfig{
			Width:  g.Width,
			Height: g.Height,
		},
		Continuous: PolicyConfig{
			Threshold: dock.DefaultContinuousThreshold,
			Interval:  ticker.Interval60Hz,
		},
		Discrete: PolicyConfig{
			Threshold: dock.DefaultDiscreteThreshold,
			Interval:  ticker.Interval15Hz,
		},
		Window: WindowMatch{
			Class: "edgedock-panel",
		},
		Sampler:      "root",
		StartupDelay: time.Second,
		ScaleFactor:  1.0,
		LogLevel:     "info",
	}
}

// ValidationError reports an invalid value at a YAML path, with the file
// position when the value came from a config file.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.Policy {
	case dock.PolicyContinuous, dock.PolicyDiscrete:
	default:
		return &ValidationError{Path: "policy", Err: fmt.Errorf("policy must be one of: continuous, discrete")}
	}
	if c.Panel.Width <= 0 {
		return &ValidationError{Path: "panel.width", Err: fmt.Errorf("width must be > 0")}
	}
	if c.Panel.Height <= 0 {
		return &ValidationError{Path: "panel.height", Err: fmt.Errorf("height must be > 0")}
	}
	if c.Panel.Velocity < 0 {
		return &ValidationError{Path: "panel.velocity", Err: fmt.Errorf("velocity must be >= 0")}
	}
	if c.Panel.Velocity > c.Panel.Width {
		return &ValidationError{Path: "panel.velocity", Err: fmt.Errorf("velocity must not exceed width")}
	}
	policies := []struct {
		name string
		pc   PolicyConfig
	}{
		{dock.PolicyContinuous, c.Continuous},
		{dock.PolicyDiscrete, c.Discrete},
	}
	for _, p := range policies {
		if p.pc.Threshold == 0 {
			return &ValidationError{Path: p.name + ".threshold", Err: fmt.Errorf("threshold must be >= 1")}
		}
		if p.pc.Interval <= 0 {
			return &ValidationError{Path: p.name + ".interval", Err: fmt.Errorf("interval must be > 0")}
		}
	}
	if strings.TrimSpace(c.Window.Class) == "" && strings.TrimSpace(c.Window.Title) == "" {
		return &ValidationError{Path: "window", Err: fmt.Errorf("one of window.class or window.title is required")}
	}
	switch c.Sampler {
	case "root", "window":
	default:
		return &ValidationError{Path: "sampler", Err: fmt.Errorf("sampler must be one of: root, window")}
	}
	if c.StartupDelay < 0 {
		return &ValidationError{Path: "startup_delay", Err: fmt.Errorf("startup_delay must be >= 0")}
	}
	if c.ScaleFactor <= 0 {
		return &ValidationError{Path: "scale_factor", Err: fmt.Errorf("scale_factor must be > 0")}
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	return nil
}

// normalize fills derived defaults.
func (c *Config) normalize() {
	c.Policy = strings.ToLower(strings.TrimSpace(c.Policy))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.Sampler = strings.ToLower(strings.TrimSpace(c.Sampler))
	c.ToggleHotkey = strings.TrimSpace(c.ToggleHotkey)
	if c.Panel.Velocity == 0 {
		c.Panel.Velocity = c.Panel.Width / 5
	}
}

// Geometry returns the panel geometry for the state machine.
func (c *Config) Geometry() dock.Geometry {
	return dock.Geometry{
		Width:    c.Panel.Width,
		Height:   c.Panel.Height,
		Velocity: c.Panel.Velocity,
	}
}

// ActivePolicy returns the settings of the selected policy.
func (c *Config) ActivePolicy() PolicyConfig {
	if c.Policy == dock.PolicyDiscrete {
		return c.Discrete
	}
	return c.Continuous
}

// DecisionPolicy builds the selected policy.
func (c *Config) DecisionPolicy() (dock.DecisionPolicy, error) {
	return dock.NewPolicy(c.Policy, c.ActivePolicy().Threshold)
}

// SlogLevel maps log_level to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch s {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
