package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"pomotray/internal/core/model"
)

const configFileName = "config.yaml"

type yamlConfig struct {
	WorkMinutes             int      `yaml:"work_minutes"`
	BreakMinutes            int      `yaml:"break_minutes"`
	LongBreakMinutes        int      `yaml:"long_break_minutes"`
	IntervalsUntilLongBreak int      `yaml:"intervals_until_long_break"`
	SoundVolume             *float64 `yaml:"sound_volume"`
}

// LoadConfig reads the startup timer configuration from YAML. Absent file or
// absent fields fall back to defaults; out-of-range values are clamped. The
// file is never written back: in-session edits live only until exit.
func LoadConfig(appName string) (model.TimerConfig, error) {
	config := model.DefaultConfig()
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return config, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, fmt.Errorf("read config file: %w", err)
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return config, fmt.Errorf("parse config yaml: %w", err)
	}

	applyYamlConfig(&config, fileData)
	return config.Clamp(), nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, configFileName), nil
}

func applyYamlConfig(config *model.TimerConfig, fileData yamlConfig) {
	if fileData.WorkMinutes > 0 {
		config.WorkDuration = time.Duration(fileData.WorkMinutes) * time.Minute
	}
	if fileData.BreakMinutes > 0 {
		config.BreakDuration = time.Duration(fileData.BreakMinutes) * time.Minute
	}
	if fileData.LongBreakMinutes > 0 {
		config.LongBreakDuration = time.Duration(fileData.LongBreakMinutes) * time.Minute
	}
	if fileData.IntervalsUntilLongBreak > 0 {
		config.IntervalsUntilLongBreak = fileData.IntervalsUntilLongBreak
	}
	if fileData.SoundVolume != nil {
		config.SoundVolume = *fileData.SoundVolume
	}
}
