// Package config loads wl configuration from JSONC files and CLI overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	DataDir   string `json:"data_dir"`
	StateFile string `json:"state_file,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	UserName  string `json:"user_name,omitempty"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	DataDirAbs   string `json:"-"` // Absolute path to the data directory
	StateFileAbs string `json:"-"` // Absolute path to the view state file

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// FileName is the default project config file name.
const FileName = ".wl.json"

// DefaultStateFileName is the view state file inside the data directory.
const DefaultStateFileName = "state.json"

// Errors returned by [Load].
var (
	ErrFileNotFound = errors.New("config file not found")
	ErrFileRead     = errors.New("cannot read config file")
	ErrInvalid      = errors.New("invalid config file")
	ErrDataDirEmpty = errors.New("data-dir cannot be empty")
)

// Default returns the default configuration.
func Default() Config {
	return Config{
		DataDir: ".worklist",
	}
}

// globalPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/wl/config.json if set, otherwise ~/.config/wl/config.json.
// Returns empty string if home directory cannot be determined.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "wl", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "wl", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	DataDirOverride string            // --data-dir flag value; empty means no override
	Env             map[string]string // environment variables
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/wl/config.json or $XDG_CONFIG_HOME/wl/config.json)
// 3. Project config file at default location (.wl.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty)
// 5. CLI overrides.
//
// All paths in the returned Config are resolved to absolute paths.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	cfg := Default()

	globalCfg, loadedGlobal, err := loadGlobal(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = loadedGlobal
	cfg = merge(cfg, globalCfg)

	projectCfg, loadedProject, err := loadProject(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = loadedProject
	cfg = merge(cfg, projectCfg)

	if input.DataDirOverride != "" {
		cfg.DataDir = input.DataDirOverride
	}

	if cfg.DataDir == "" {
		return Config{}, ErrDataDirEmpty
	}

	cfg.EffectiveCwd = workDir
	cfg.DataDirAbs = absFrom(workDir, cfg.DataDir)

	if cfg.StateFile == "" {
		cfg.StateFileAbs = filepath.Join(cfg.DataDirAbs, DefaultStateFileName)
	} else {
		cfg.StateFileAbs = absFrom(workDir, cfg.StateFile)
	}

	return cfg, nil
}

func absFrom(workDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(workDir, path)
}

// loadGlobal loads the global user config file if it exists.
// Returns the config, the path if loaded, and any error.
func loadGlobal(env map[string]string) (Config, string, error) {
	path := globalPath(env)
	if path == "" {
		return Config{}, "", nil
	}

	return loadFile(path, false)
}

// loadProject loads the project config file (.wl.json) or an explicit config file.
// Returns the config, the path if loaded, and any error.
func loadProject(workDir, configPath string) (Config, string, error) {
	if configPath == "" {
		return loadFile(filepath.Join(workDir, FileName), false)
	}

	path := absFrom(workDir, configPath)

	// Check existence first to provide a clear "not found" error
	_, statErr := os.Stat(path)
	if statErr != nil {
		return Config{}, "", fmt.Errorf("%w: %s", ErrFileNotFound, configPath)
	}

	return loadFile(path, true)
}

// loadFile loads a config file. If mustExist is false, missing files return
// zero config and an empty path.
func loadFile(path string, mustExist bool) (Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if mustExist {
			return Config{}, "", fmt.Errorf("%w: %s", ErrFileRead, path)
		}

		return Config{}, "", nil
	}

	cfg, explicitEmpty, parseErr := parse(data)
	if parseErr != nil {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrInvalid, path, parseErr)
	}

	if explicitEmpty["data_dir"] {
		return Config{}, "", fmt.Errorf("%w %s: %w", ErrInvalid, path, ErrDataDirEmpty)
	}

	return cfg, path, nil
}

func parse(data []byte) (Config, map[string]bool, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, nil, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	// Check which fields were explicitly set to empty
	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	explicitEmpty := make(map[string]bool)

	if val, exists := raw["data_dir"]; exists {
		if str, ok := val.(string); ok && str == "" {
			explicitEmpty["data_dir"] = true
		}
	}

	return cfg, explicitEmpty, nil
}

func merge(base, overlay Config) Config {
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}

	if overlay.StateFile != "" {
		base.StateFile = overlay.StateFile
	}

	if overlay.UserID != "" {
		base.UserID = overlay.UserID
	}

	if overlay.UserName != "" {
		base.UserName = overlay.UserName
	}

	return base
}
