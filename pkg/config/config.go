package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/vru/config"
	ConfigFileName    = "vru.yml"
)

const (
	sourceDefault     = "default"
	sourceFile        = "file"
	sourceEnvironment = "environment"
)

// VRUConfig holds all server configuration settings
type VRUConfig struct {
	// APIListLimitMax caps the limit query parameter of list endpoints
	APIListLimitMax int `yaml:"api_list_limit_max" json:"api_list_limit_max"`

	// UploadDir is where uploaded videos are written
	UploadDir string `yaml:"upload_dir" json:"upload_dir"`

	// MaxUploadBytes is the largest accepted video upload
	MaxUploadBytes int64 `yaml:"max_upload_bytes" json:"max_upload_bytes"`

	// DetectorURL is the base URL of the YOLO inference service
	DetectorURL string `yaml:"detector_url" json:"detector_url"`

	// DetectorConfidence is the minimum confidence requested from the detector
	DetectorConfidence float64 `yaml:"detector_confidence" json:"detector_confidence"`

	// ProcessingWorkers is the number of concurrent detection jobs
	ProcessingWorkers int `yaml:"processing_workers" json:"processing_workers"`

	// DefaultToleranceMs is used for test sessions created without a tolerance
	DefaultToleranceMs int `yaml:"default_tolerance_ms" json:"default_tolerance_ms"`

	// CORSAllowedOrigins enables CORS for the listed origins
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" json:"cors_allowed_origins"`

	// JWTSecret enables HS256 bearer token checks on /api when set
	JWTSecret string `yaml:"jwt_secret" json:"-"`

	// MQTTBroker enables publishing events to MQTT when set
	MQTTBroker string `yaml:"mqtt_broker" json:"mqtt_broker"`

	// MQTTTopicPrefix prefixes every published topic
	MQTTTopicPrefix string `yaml:"mqtt_topic_prefix" json:"mqtt_topic_prefix"`

	// StatsCacheTTLSeconds is how long dashboard statistics are cached
	StatsCacheTTLSeconds int `yaml:"stats_cache_ttl_seconds" json:"stats_cache_ttl_seconds"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *VRUConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *VRUConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *VRUConfig {
	return &VRUConfig{
		APIListLimitMax:      1000,
		UploadDir:            "/var/lib/vru/uploads",
		MaxUploadBytes:       2 << 30,
		DetectorURL:          "http://localhost:8001",
		DetectorConfidence:   0.25,
		ProcessingWorkers:    2,
		DefaultToleranceMs:   100,
		CORSAllowedOrigins:   []string{},
		MQTTTopicPrefix:      "vru",
		StatsCacheTTLSeconds: 30,
		sources:              make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*VRUConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = sourceDefault
	}

	configPath := os.Getenv("VRU_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig VRUConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	if err := config.applyEnvConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

func attributeNames() []string {
	return []string{
		"api_list_limit_max", "upload_dir", "max_upload_bytes",
		"detector_url", "detector_confidence", "processing_workers",
		"default_tolerance_ms", "cors_allowed_origins", "jwt_secret",
		"mqtt_broker", "mqtt_topic_prefix", "stats_cache_ttl_seconds",
	}
}

func (c *VRUConfig) applyFileConfig(file *VRUConfig) {
	if file.APIListLimitMax != 0 {
		c.APIListLimitMax = file.APIListLimitMax
		c.sources["api_list_limit_max"] = sourceFile
	}
	if file.UploadDir != "" {
		c.UploadDir = file.UploadDir
		c.sources["upload_dir"] = sourceFile
	}
	if file.MaxUploadBytes != 0 {
		c.MaxUploadBytes = file.MaxUploadBytes
		c.sources["max_upload_bytes"] = sourceFile
	}
	if file.DetectorURL != "" {
		c.DetectorURL = file.DetectorURL
		c.sources["detector_url"] = sourceFile
	}
	if file.DetectorConfidence != 0 {
		c.DetectorConfidence = file.DetectorConfidence
		c.sources["detector_confidence"] = sourceFile
	}
	if file.ProcessingWorkers != 0 {
		c.ProcessingWorkers = file.ProcessingWorkers
		c.sources["processing_workers"] = sourceFile
	}
	if file.DefaultToleranceMs != 0 {
		c.DefaultToleranceMs = file.DefaultToleranceMs
		c.sources["default_tolerance_ms"] = sourceFile
	}
	if len(file.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = file.CORSAllowedOrigins
		c.sources["cors_allowed_origins"] = sourceFile
	}
	if file.JWTSecret != "" {
		c.JWTSecret = file.JWTSecret
		c.sources["jwt_secret"] = sourceFile
	}
	if file.MQTTBroker != "" {
		c.MQTTBroker = file.MQTTBroker
		c.sources["mqtt_broker"] = sourceFile
	}
	if file.MQTTTopicPrefix != "" {
		c.MQTTTopicPrefix = file.MQTTTopicPrefix
		c.sources["mqtt_topic_prefix"] = sourceFile
	}
	if file.StatsCacheTTLSeconds != 0 {
		c.StatsCacheTTLSeconds = file.StatsCacheTTLSeconds
		c.sources["stats_cache_ttl_seconds"] = sourceFile
	}
}

// envName maps an attribute to its VRU_* environment variable
func envName(attribute string) string {
	return "VRU_" + strings.ToUpper(attribute)
}

func (c *VRUConfig) applyEnvConfig() error {
	ints := map[string]*int{
		"api_list_limit_max":      &c.APIListLimitMax,
		"processing_workers":      &c.ProcessingWorkers,
		"default_tolerance_ms":    &c.DefaultToleranceMs,
		"stats_cache_ttl_seconds": &c.StatsCacheTTLSeconds,
	}
	for name, dest := range ints {
		if val := os.Getenv(envName(name)); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", envName(name), err)
			}
			*dest = i
			c.sources[name] = sourceEnvironment
		}
	}

	strs := map[string]*string{
		"upload_dir":        &c.UploadDir,
		"detector_url":      &c.DetectorURL,
		"jwt_secret":        &c.JWTSecret,
		"mqtt_broker":       &c.MQTTBroker,
		"mqtt_topic_prefix": &c.MQTTTopicPrefix,
	}
	for name, dest := range strs {
		if val := os.Getenv(envName(name)); val != "" {
			*dest = val
			c.sources[name] = sourceEnvironment
		}
	}

	if val := os.Getenv(envName("max_upload_bytes")); val != "" {
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envName("max_upload_bytes"), err)
		}
		c.MaxUploadBytes = i
		c.sources["max_upload_bytes"] = sourceEnvironment
	}
	if val := os.Getenv(envName("detector_confidence")); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envName("detector_confidence"), err)
		}
		c.DetectorConfidence = f
		c.sources["detector_confidence"] = sourceEnvironment
	}
	if val := os.Getenv(envName("cors_allowed_origins")); val != "" {
		c.CORSAllowedOrigins = splitAndTrim(val)
		c.sources["cors_allowed_origins"] = sourceEnvironment
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *VRUConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *VRUConfig) Source(name string) string {
	if c.sources == nil {
		return sourceDefault
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return sourceDefault
}

// StatsCacheTTL returns the dashboard cache lifetime
func (c *VRUConfig) StatsCacheTTL() time.Duration {
	return time.Duration(c.StatsCacheTTLSeconds) * time.Second
}

// AuthEnabled reports whether /api requires a bearer token
func (c *VRUConfig) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// ClampLimit applies APIListLimitMax to a requested page size.
// Zero or negative requests get the maximum.
func (c *VRUConfig) ClampLimit(requested int) int {
	if requested <= 0 || requested > c.APIListLimitMax {
		return c.APIListLimitMax
	}
	return requested
}

// Validate validates the configuration
func (c *VRUConfig) Validate() error {
	if c.APIListLimitMax <= 0 {
		return fmt.Errorf("api_list_limit_max must be positive, got %d", c.APIListLimitMax)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be positive, got %d", c.MaxUploadBytes)
	}
	if c.ProcessingWorkers <= 0 {
		return fmt.Errorf("processing_workers must be positive, got %d", c.ProcessingWorkers)
	}
	if c.DefaultToleranceMs <= 0 {
		return fmt.Errorf("default_tolerance_ms must be positive, got %d", c.DefaultToleranceMs)
	}
	if c.DetectorConfidence < 0 || c.DetectorConfidence > 1 {
		return fmt.Errorf("detector_confidence must be between 0 and 1, got %g", c.DetectorConfidence)
	}
	if c.StatsCacheTTLSeconds < 0 {
		return fmt.Errorf("stats_cache_ttl_seconds must not be negative, got %d", c.StatsCacheTTLSeconds)
	}
	if _, err := url.ParseRequestURI(c.DetectorURL); err != nil {
		return fmt.Errorf("invalid detector_url: %w", err)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *VRUConfig) Attributes() []Attribute {
	secret := ""
	if c.JWTSecret != "" {
		secret = "(redacted)"
	}
	return []Attribute{
		{Name: "api_list_limit_max", Value: strconv.Itoa(c.APIListLimitMax), Source: c.Source("api_list_limit_max")},
		{Name: "upload_dir", Value: c.UploadDir, Source: c.Source("upload_dir")},
		{Name: "max_upload_bytes", Value: strconv.FormatInt(c.MaxUploadBytes, 10), Source: c.Source("max_upload_bytes")},
		{Name: "detector_url", Value: c.DetectorURL, Source: c.Source("detector_url")},
		{Name: "detector_confidence", Value: strconv.FormatFloat(c.DetectorConfidence, 'g', -1, 64), Source: c.Source("detector_confidence")},
		{Name: "processing_workers", Value: strconv.Itoa(c.ProcessingWorkers), Source: c.Source("processing_workers")},
		{Name: "default_tolerance_ms", Value: strconv.Itoa(c.DefaultToleranceMs), Source: c.Source("default_tolerance_ms")},
		{Name: "cors_allowed_origins", Value: strings.Join(c.CORSAllowedOrigins, ","), Source: c.Source("cors_allowed_origins")},
		{Name: "jwt_secret", Value: secret, Source: c.Source("jwt_secret")},
		{Name: "mqtt_broker", Value: c.MQTTBroker, Source: c.Source("mqtt_broker")},
		{Name: "mqtt_topic_prefix", Value: c.MQTTTopicPrefix, Source: c.Source("mqtt_topic_prefix")},
		{Name: "stats_cache_ttl_seconds", Value: strconv.Itoa(c.StatsCacheTTLSeconds), Source: c.Source("stats_cache_ttl_seconds")},
	}
}

// FormatText returns a text representation of the configuration
func (c *VRUConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *VRUConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Default returns a configuration holding only default values
func Default() *VRUConfig {
	cfg := newDefault()
	for _, name := range attributeNames() {
		cfg.sources[name] = sourceDefault
	}
	return cfg
}
