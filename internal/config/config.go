package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Layout is how products are arranged on screen
type Layout string

const (
	LayoutGrid Layout = "grid"
	LayoutList Layout = "list"
)

// Host modes
const (
	HostHomeAssistant = "homeassistant"
	HostLocal         = "local"
)

// Columns is the grid column count. Zero means "auto": as many as fit.
type Columns int

// ColumnsAuto fits the column count to the terminal width
const ColumnsAuto Columns = 0

// MaxColumns bounds a fixed column count
const MaxColumns = 12

// IsAuto reports whether the column count follows the terminal width
func (c Columns) IsAuto() bool {
	return c == ColumnsAuto
}

// String returns "auto" or the number
func (c Columns) String() string {
	if c.IsAuto() {
		return "auto"
	}
	return strconv.Itoa(int(c))
}

// MarshalJSON writes "auto" or a number
func (c Columns) MarshalJSON() ([]byte, error) {
	if c.IsAuto() {
		return []byte(`"auto"`), nil
	}
	return []byte(strconv.Itoa(int(c))), nil
}

// UnmarshalJSON accepts "auto", a number or a numeric string
func (c *Columns) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*c = Columns(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("columns must be \"auto\" or a number")
	}
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "auto" {
		*c = ColumnsAuto
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("columns must be \"auto\" or a number, got %q", s)
	}
	*c = Columns(n)
	return nil
}

// HomeAssistantConfig is the connection to Home Assistant
type HomeAssistantConfig struct {
	URL   string `json:"url"`   // e.g. http://homeassistant.local:8123
	Token string `json:"token"` // Long-lived access token
}

// SharedFileConfig locates the shared custom-product catalog
type SharedFileConfig struct {
	Path      string `json:"path"`       // Web path served by Home Assistant
	Service   string `json:"service"`    // shell_command service that writes the file
	LocalPath string `json:"local_path"` // File used in local host mode
	Command   string `json:"command"`    // Optional command writing LocalPath
}

// Config holds the application configuration
type Config struct {
	TodoList       string              `json:"todo_list"` // To-do entity holding the shopping list
	Layout         Layout              `json:"layout"`
	Columns        Columns             `json:"columns"`
	PrimaryColor   string              `json:"primary_color"`
	SecondaryColor string              `json:"secondary_color"`
	RecentColor    string              `json:"recent_color"`
	Host           string              `json:"host"`
	HomeAssistant  HomeAssistantConfig `json:"homeassistant"`
	SharedFile     SharedFileConfig    `json:"shared_file"`
	CatalogPath    string              `json:"catalog_path"` // Optional YAML catalog replacing the built-in one
	StatePath      string              `json:"state_path"`   // SQLite database for local state
	LogPath        string              `json:"log_path"`
	FirstRun       bool                `json:"-"` // Is this the first run?

	// fromFile holds the values replaced by environment overrides, so Save
	// never writes them
	fromFile envFields
}

// envFields are the settings the environment can override. A nil field was
// not overridden.
type envFields struct {
	URL      *string
	Token    *string
	TodoList *string
}

// configFileName is the name of the config file
const configFileName = "shoplist.json"

// Default returns the default configuration
func Default() *Config {
	dir := ConfigDir()

	return &Config{
		TodoList:       "", // Required, no default
		Layout:         LayoutGrid,
		Columns:        ColumnsAuto,
		PrimaryColor:   "#667eea",
		SecondaryColor: "#764ba2",
		RecentColor:    "#ffebee",
		Host:           HostHomeAssistant,
		HomeAssistant: HomeAssistantConfig{
			URL: "http://homeassistant.local:8123",
		},
		SharedFile: SharedFileConfig{
			Path:      "/local/shopping_list_products.json",
			Service:   "save_shopping_products",
			LocalPath: filepath.Join(dir, "shopping_list_products.json"),
		},
		CatalogPath: "", // Empty = use the built-in catalog
		StatePath:   filepath.Join(dir, "state.db"),
		LogPath:     filepath.Join(dir, "shoplist.log"),
		FirstRun:    true,
	}
}

// ConfigDir returns the directory containing shoplist config files
func ConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "shoplist")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), configFileName)
}

// Load loads the configuration from path (ConfigPath when empty). A missing
// file yields the defaults with FirstRun set. Environment overrides are
// applied in both cases.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg.FirstRun = false
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves the configuration to path (ConfigPath when empty)
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	// Create config directory
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	out := *c
	if v := c.fromFile.URL; v != nil {
		out.HomeAssistant.URL = *v
	}
	if v := c.fromFile.Token; v != nil {
		out.HomeAssistant.Token = *v
	}
	if v := c.fromFile.TodoList; v != nil {
		out.TodoList = *v
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	// The file may hold an access token
	return os.WriteFile(path, data, 0600)
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("SHOPLIST_HA_URL"); url != "" {
		keepFileValue(&c.fromFile.URL, c.HomeAssistant.URL)
		c.HomeAssistant.URL = url
	}

	// HASS_TOKEN is what most Home Assistant tooling reads
	token := os.Getenv("SHOPLIST_HA_TOKEN")
	if token == "" {
		token = os.Getenv("HASS_TOKEN")
	}
	if token != "" {
		keepFileValue(&c.fromFile.Token, c.HomeAssistant.Token)
		c.HomeAssistant.Token = token
	}

	if entity := os.Getenv("SHOPLIST_TODO_LIST"); entity != "" {
		keepFileValue(&c.fromFile.TodoList, c.TodoList)
		c.TodoList = entity
	}
}

// keepFileValue records the value an override replaces, once
func keepFileValue(dst **string, v string) {
	if *dst == nil {
		*dst = &v
	}
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.TodoList) == "" {
		errs = append(errs, errors.New("todo_list is required"))
	}

	switch c.Layout {
	case LayoutGrid, LayoutList:
	default:
		errs = append(errs, fmt.Errorf("layout must be %q or %q, got %q", LayoutGrid, LayoutList, c.Layout))
	}

	if c.Columns < 0 || c.Columns > MaxColumns {
		errs = append(errs, fmt.Errorf("columns must be \"auto\" or between 1 and %d, got %d", MaxColumns, c.Columns))
	}

	colors := []struct{ name, value string }{
		{"primary_color", c.PrimaryColor},
		{"secondary_color", c.SecondaryColor},
		{"recent_color", c.RecentColor},
	}
	for _, color := range colors {
		if !hexColor.MatchString(color.value) {
			errs = append(errs, fmt.Errorf("%s must be a hex color like #667eea, got %q", color.name, color.value))
		}
	}

	switch c.Host {
	case HostHomeAssistant:
		if strings.TrimSpace(c.HomeAssistant.URL) == "" {
			errs = append(errs, errors.New("homeassistant.url is required"))
		}
		if strings.TrimSpace(c.HomeAssistant.Token) == "" {
			errs = append(errs, errors.New("homeassistant.token is required (or set SHOPLIST_HA_TOKEN)"))
		}
	case HostLocal:
	default:
		errs = append(errs, fmt.Errorf("host must be %q or %q, got %q", HostHomeAssistant, HostLocal, c.Host))
	}

	return errors.Join(errs...)
}
