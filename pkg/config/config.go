package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tailscale/hujson"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/revanced-tools/apk-resolver/pkg/httputil"
	"github.com/revanced-tools/apk-resolver/pkg/logme"
)

//go:embed schema.json
var schema string

// App is one entry of the download list.
type App struct {
	Name    string `json:"name"`
	Source  string `json:"source"`
	Version string `json:"version,omitempty"`
	Owner   string `json:"owner,omitempty"`
	Repo    string `json:"repo,omitempty"`
	// Package is the Android package name, used for icon lookups.
	Package string `json:"package,omitempty"`
}

type Config struct {
	PersonalAccessToken string            `json:"personalAccessToken"`
	OutputDir           string            `json:"outputDir"`
	DryRun              bool              `json:"dryRun"`
	ShowProgress        bool              `json:"showProgress"`
	TimeoutSeconds      int               `json:"timeoutSeconds"`
	APKMirrorAuth       string            `json:"apkmirrorAuth"`
	SkipApps            []string          `json:"skipApps"`
	UpToDown            map[string]string `json:"uptodown"`
	Apps                []App             `json:"apps"`
}

func Default() Config {
	return Config{
		OutputDir:      "apks",
		TimeoutSeconds: 120,
		SkipApps:       []string{"microg"},
		UpToDown:       map[string]string{},
	}
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads a YAML or JSON (comments and trailing commas allowed) file,
// validates it against the embedded schema and applies environment
// overrides on top.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	raw, err := decode(path, b)
	if err != nil {
		return Config{}, &httputil.ConfigurationError{Reason: "couldn't parse " + path, Err: err}
	}

	cfg, err := FromRaw(raw)
	if err != nil {
		return Config{}, err
	}
	ApplyEnv(&cfg, os.LookupEnv)
	return cfg, nil
}

// FromRaw validates a decoded document and lays it over Default.
func FromRaw(raw map[string]interface{}) (Config, error) {
	if err := Validate(raw); err != nil {
		return Config{}, err
	}

	cfg := Default()
	b, err := json.Marshal(raw)
	if err != nil {
		return Config{}, err
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, &httputil.ConfigurationError{Reason: "invalid configuration", Err: err}
	}
	return cfg, nil
}

func decode(path string, b []byte) (map[string]interface{}, error) {
	raw := map[string]interface{}{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		// using hujson first to allow comments in the configuration
		std, err := hujson.Standardize(b)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(std, &raw); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported configuration format %q", filepath.Ext(path))
	}
	return raw, nil
}

// Validate checks a decoded document against the configuration schema.
func Validate(raw map[string]interface{}) error {
	if raw == nil {
		raw = map[string]interface{}{}
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewGoLoader(raw),
	)
	if err != nil {
		return &httputil.ConfigurationError{Reason: "couldn't validate configuration", Err: err}
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return &httputil.ConfigurationError{Reason: strings.Join(problems, "; ")}
}

// ApplyEnv overrides the configuration from the environment.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	for _, key := range []string{"PERSONAL_ACCESS_TOKEN", "GITHUB_TOKEN"} {
		if v, ok := lookup(key); ok && v != "" {
			cfg.PersonalAccessToken = v
			break
		}
	}
	if v, ok := lookup("OUTPUT_DIR"); ok && v != "" {
		cfg.OutputDir = v
	}
	if v, ok := lookup("DRY_RUN"); ok {
		dryRun, err := strconv.ParseBool(v)
		if err != nil {
			logme.WarnFln("ignoring DRY_RUN=%q: %v", v, err)
		} else {
			cfg.DryRun = dryRun
		}
	}
}
