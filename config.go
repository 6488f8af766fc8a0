package photosort

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultSettingsFile is where the CLI looks for on-disk defaults.
const DefaultSettingsFile = "photosort.yaml"

// Settings are the on-disk defaults for a scan. Command-line flags override
// anything set here.
type Settings struct {
	Threshold        float64 `yaml:"threshold"`
	DryRun           bool    `yaml:"dry_run"`
	Verbose          bool    `yaml:"verbose"`
	Workers          int     `yaml:"workers"`
	Scorer           string  `yaml:"scorer"` // "heuristic" or "vision"
	DetectDuplicates bool    `yaml:"detect_duplicates"`
	FlagLocation     bool    `yaml:"flag_location"`

	Vision VisionSettings `yaml:"vision"`
}

// VisionSettings configure the vision scorer backend.
type VisionSettings struct {
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"` // environment variable holding the API key
}

// DefaultSettings returns the values used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{
		Threshold: DefaultThreshold,
		Workers:   1,
		Scorer:    "heuristic",
		Vision: VisionSettings{
			Model:     defaultVisionModel,
			APIKeyEnv: "OPENAI_API_KEY",
		},
	}
}

// LoadSettings reads a YAML settings file on top of DefaultSettings. The
// returned error wraps fs.ErrNotExist when the file is missing, so callers
// can treat an absent default file as "use defaults".
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}
