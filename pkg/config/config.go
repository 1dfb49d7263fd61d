package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Defaults applied when a value is not configured.
const (
	DefaultNumberOfPositions = 5
	DefaultFormat            = "word"
	DefaultListenAddr        = ":3000"
	DefaultOutputDir         = "./profiles"
)

// Environment variables that override the config file.
const (
	EnvAPIKey             = "SMART_RECRUITERS_API_KEY"
	EnvAPIBaseURL         = "SMART_RECRUITERS_API_URL"
	EnvBasicAuthUsername  = "HTTP_BASIC_AUTH_USERNAME"
	EnvBasicAuthPassword  = "HTTP_BASIC_AUTH_PASSWORD"
	EnvSupportEmail       = "SUPPORT_EMAIL_ADDRESS"
	EnvBookmarkletBaseURL = "BOOKMARKLET_BASE_URL"
	EnvListenAddr         = "CVANON_LISTEN_ADDR"
	EnvJobTitleDictionary = "CVANON_JOB_TITLE_DICTIONARY"
)

// Config represents the application configuration.
type Config struct {
	SmartRecruitersAPIKey string          `json:"smart_recruiters_api_key,omitempty"`
	APIBaseURL            string          `json:"api_base_url,omitempty" validate:"omitempty,url"`
	BasicAuth             BasicAuthConfig `json:"basic_auth"`
	SupportEmailAddress   string          `json:"support_email_address,omitempty" validate:"omitempty,email"`
	BookmarkletBaseURL    string          `json:"bookmarklet_base_url,omitempty" validate:"omitempty,url"`
	JobTitleDictionary    string          `json:"job_title_dictionary,omitempty"`
	Pandoc                PandocConfig    `json:"pandoc"`
	Server                ServerConfig    `json:"server"`
	Defaults              DefaultConfig   `json:"defaults"`
}

// BasicAuthConfig holds the credentials the HTTP service accepts. Password
// may be plain text or a bcrypt hash.
type BasicAuthConfig struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// PandocConfig holds pandoc-related configuration.
type PandocConfig struct {
	ReferenceDoc string `json:"reference_doc,omitempty"`
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	ListenAddr string `json:"listen_addr,omitempty"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	NumberOfPositions int    `json:"number_of_positions,omitempty" validate:"gte=0,lte=50"`
	Format            string `json:"format,omitempty" validate:"omitempty,oneof=word json markdown"`
	OutputDir         string `json:"output_dir,omitempty"`
}

// DefaultPath returns $HOME/.cvanon/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".cvanon", "config.json")
	return path, err
}

// Load reads configuration from file with environment variable overrides. A
// .env file in the working directory is loaded first. Without an explicit
// path a missing default file is not an error: configuration then comes from
// the environment alone.
func Load(configPath string) (cfg Config, err error) {
	// Best-effort: load .env from current directory
	_ = godotenv.Load()

	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	var data []byte
	data, err = os.ReadFile(path)
	switch {
	case err == nil:
		err = json.Unmarshal(data, &cfg)
		if err != nil {
			err = errors.Wrapf(err, "failed to parse config file: %s", path)
			return cfg, err
		}
	case os.IsNotExist(err) && configPath == "":
		err = nil
	case os.IsNotExist(err):
		err = errors.Errorf("config file not found: %s (run 'cvanon init' to create)", path)
		return cfg, err
	default:
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		EnvAPIKey:             &c.SmartRecruitersAPIKey,
		EnvAPIBaseURL:         &c.APIBaseURL,
		EnvBasicAuthUsername:  &c.BasicAuth.Username,
		EnvBasicAuthPassword:  &c.BasicAuth.Password,
		EnvSupportEmail:       &c.SupportEmailAddress,
		EnvBookmarkletBaseURL: &c.BookmarkletBaseURL,
		EnvListenAddr:         &c.Server.ListenAddr,
		EnvJobTitleDictionary: &c.JobTitleDictionary,
	}

	for key, field := range overrides {
		if value := os.Getenv(key); value != "" {
			*field = value
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Defaults.NumberOfPositions == 0 {
		c.Defaults.NumberOfPositions = DefaultNumberOfPositions
	}
	if c.Defaults.Format == "" {
		c.Defaults.Format = DefaultFormat
	}
	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = DefaultOutputDir
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
}

// Validate checks field formats and that referenced files exist.
func (c *Config) Validate() (err error) {
	err = validator.New().Struct(c)
	if err != nil {
		err = errors.Wrap(err, "invalid config value")
		return err
	}

	if c.JobTitleDictionary != "" {
		_, err = os.Stat(c.JobTitleDictionary)
		if os.IsNotExist(err) {
			err = errors.Errorf("job title dictionary not found: %s", c.JobTitleDictionary)
			return err
		}
	}

	if c.Pandoc.ReferenceDoc != "" {
		_, err = os.Stat(c.Pandoc.ReferenceDoc)
		if os.IsNotExist(err) {
			err = errors.Errorf("pandoc reference document not found: %s", c.Pandoc.ReferenceDoc)
			return err
		}
	}

	err = nil
	return err
}

// ValidateAPI additionally requires the HR system API key.
func (c *Config) ValidateAPI() (err error) {
	err = c.Validate()
	if err != nil {
		return err
	}

	if c.SmartRecruitersAPIKey == "" {
		err = errors.Errorf("smart_recruiters_api_key is required (set in config or %s env var)", EnvAPIKey)
		return err
	}

	return err
}

// ValidateServer additionally requires everything the HTTP service needs.
func (c *Config) ValidateServer() (err error) {
	err = c.ValidateAPI()
	if err != nil {
		return err
	}

	required := []struct {
		value string
		name  string
		env   string
	}{
		{c.BasicAuth.Username, "basic_auth.username", EnvBasicAuthUsername},
		{c.BasicAuth.Password, "basic_auth.password", EnvBasicAuthPassword},
		{c.SupportEmailAddress, "support_email_address", EnvSupportEmail},
		{c.BookmarkletBaseURL, "bookmarklet_base_url", EnvBookmarkletBaseURL},
	}

	for _, r := range required {
		if r.value == "" {
			err = errors.Errorf("%s is required (set in config or %s env var)", r.name, r.env)
			return err
		}
	}

	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	// Check if file already exists
	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	defaultConfig := Config{
		SmartRecruitersAPIKey: "your-smart-token",
		BasicAuth: BasicAuthConfig{
			Username: "talent",
			Password: "change-me",
		},
		SupportEmailAddress: "support@example.com",
		BookmarkletBaseURL:  "http://localhost:3000",
		Server: ServerConfig{
			ListenAddr: DefaultListenAddr,
		},
		Defaults: DefaultConfig{
			NumberOfPositions: DefaultNumberOfPositions,
			Format:            DefaultFormat,
			OutputDir:         DefaultOutputDir,
		},
	}

	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
