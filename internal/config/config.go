// Package config resolves the detection configuration from the process
// environment.
//
// Resolution order: built-in defaults, then a .env file in the working
// directory (if present), then real environment variables. Per-call JSON
// overrides at the MCP boundary sit on top of all of these.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/chromatools/chromakey-mcp/internal/chroma"
)

// Environment variable names for the four DetectionConfig fields.
const (
	EnvMinArea             = "CHROMAKEY_MIN_AREA"
	EnvMinSaturation       = "CHROMAKEY_MIN_SATURATION"
	EnvEdgeSample          = "CHROMAKEY_EDGE_SAMPLE"
	EnvConfidenceThreshold = "CHROMAKEY_CONFIDENCE_THRESHOLD"
)

// LoadDotenv reads the .env file from the current working directory and
// sets environment variables. A missing .env is not an error worth acting
// on; callers typically ignore the return and fall back to system env or
// defaults.
func LoadDotenv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// FromEnv returns the default detection configuration with any valid
// environment overrides applied.
//
// Each field is overridden independently. A variable that is unset,
// empty, unparsable, or outside [0, 1] leaves its field at the default:
// invalid input never clobbers a working configuration.
func FromEnv() chroma.DetectionConfig {
	cfg := chroma.DefaultConfig()
	overrideFraction(&cfg.MinAreaPercentage, EnvMinArea)
	overrideFraction(&cfg.MinSaturation, EnvMinSaturation)
	overrideFraction(&cfg.EdgeSamplePercentage, EnvEdgeSample)
	overrideFraction(&cfg.ConfidenceThreshold, EnvConfidenceThreshold)
	return cfg
}

// overrideFraction replaces *dst with the named variable's value when it
// parses as a float in [0, 1].
func overrideFraction(dst *float64, key string) {
	s := os.Getenv(key)
	if s == "" {
		return
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 1 {
		return
	}
	*dst = v
}
