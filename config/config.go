// Package config defines the recognized options of a stimulus session and a
// YAML loader with defaults and validation. The session core owns no file
// format beyond this optional loader; hosts may equally construct a Config
// literal and pass it straight to protocol.New.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for Config.
const (
	DefaultWindowLength                = 1.0
	DefaultInterWindowInterval         = 0.0
	DefaultNumTrainingSelections       = 3
	DefaultNumTrainWindows             = 3
	DefaultPauseBeforeTraining         = 2.0
	DefaultTrainTargetPresentationTime = 3.0
	DefaultTrainBreak                  = 1.0
	DefaultGroupTag                    = "BCI"
)

// Config holds the recognized stimulus-session options. Duration fields are
// expressed in seconds to match the marker-pipeline convention; use the
// *Duration helpers when feeding the scheduler.
type Config struct {
	// WindowLength is the stimulus window length in seconds.
	WindowLength float64 `yaml:"window_length"`
	// InterWindowInterval is the pause between windows in seconds.
	InterWindowInterval float64 `yaml:"inter_window_interval"`
	// NumTrainingSelections is the number of distinct targets an automated
	// training session highlights.
	NumTrainingSelections int `yaml:"num_training_selections"`
	// NumTrainWindows is the number of windows per training stimulus run.
	NumTrainWindows int `yaml:"num_train_windows"`
	// PauseBeforeTraining is the initial pause of a training session in seconds.
	PauseBeforeTraining float64 `yaml:"pause_before_training"`
	// TrainTargetPersistent keeps the target highlighted through the
	// stimulus run instead of clearing it before the run starts.
	TrainTargetPersistent bool `yaml:"train_target_persistent"`
	// TrainTargetPresentationTime is how long a target is highlighted in seconds.
	TrainTargetPresentationTime float64 `yaml:"train_target_presentation_time"`
	// TrainBreak is the rest period between training targets in seconds.
	TrainBreak float64 `yaml:"train_break"`
	// ShamFeedback triggers the target's selection feedback after each
	// training run, independent of any real selection.
	ShamFeedback bool `yaml:"sham_feedback"`
	// GroupTag is the discovery tag used by the registry's tag population.
	GroupTag string `yaml:"group_tag"`
}

// Default returns a Config with sensible default values.
func Default() Config {
	return Config{
		WindowLength:                DefaultWindowLength,
		InterWindowInterval:         DefaultInterWindowInterval,
		NumTrainingSelections:       DefaultNumTrainingSelections,
		NumTrainWindows:             DefaultNumTrainWindows,
		PauseBeforeTraining:         DefaultPauseBeforeTraining,
		TrainTargetPresentationTime: DefaultTrainTargetPresentationTime,
		TrainBreak:                  DefaultTrainBreak,
		GroupTag:                    DefaultGroupTag,
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Load reads and parses a YAML config file. If the file doesn't exist,
// returns the default config. Applies defaults for any missing fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that all config values are usable by the session loops.
func (c *Config) Validate() error {
	if c.WindowLength <= 0 {
		return ValidationError{Field: "window_length", Message: "must be positive"}
	}
	if c.InterWindowInterval < 0 {
		return ValidationError{Field: "inter_window_interval", Message: "must not be negative"}
	}
	if c.NumTrainingSelections <= 0 {
		return ValidationError{Field: "num_training_selections", Message: "must be positive"}
	}
	if c.NumTrainWindows <= 0 {
		return ValidationError{Field: "num_train_windows", Message: "must be positive"}
	}
	if c.PauseBeforeTraining < 0 {
		return ValidationError{Field: "pause_before_training", Message: "must not be negative"}
	}
	if c.TrainTargetPresentationTime < 0 {
		return ValidationError{Field: "train_target_presentation_time", Message: "must not be negative"}
	}
	if c.TrainBreak < 0 {
		return ValidationError{Field: "train_break", Message: "must not be negative"}
	}
	if c.GroupTag == "" {
		return ValidationError{Field: "group_tag", Message: "must not be empty"}
	}
	return nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// WindowDuration returns the window length as a scheduler duration.
func (c *Config) WindowDuration() time.Duration { return seconds(c.WindowLength) }

// WindowPeriod returns window length plus inter-window interval, the period
// of the marker-emission loop and the unit of a training run's length.
func (c *Config) WindowPeriod() time.Duration {
	return seconds(c.WindowLength + c.InterWindowInterval)
}

// PauseBeforeTrainingDuration returns the initial training pause.
func (c *Config) PauseBeforeTrainingDuration() time.Duration {
	return seconds(c.PauseBeforeTraining)
}

// PresentationDuration returns the target-highlight duration.
func (c *Config) PresentationDuration() time.Duration {
	return seconds(c.TrainTargetPresentationTime)
}

// TrainBreakDuration returns the rest period between training targets.
func (c *Config) TrainBreakDuration() time.Duration { return seconds(c.TrainBreak) }

// TrainRunDuration returns the length of one training stimulus run.
func (c *Config) TrainRunDuration() time.Duration {
	return time.Duration(c.NumTrainWindows) * c.WindowPeriod()
}
