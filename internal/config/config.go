// Package config loads TAPPER's runtime configuration from a YAML file,
// environment variables and built-in defaults, the same layered way
// EdgeFlow's config package does it with viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the appliance.
type Config struct {
	Device Device `mapstructure:"device"`
	MQTT   MQTT   `mapstructure:"mqtt"`
	Legacy bool   `mapstructure:"legacy"`
	WiFi   WiFi   `mapstructure:"wifi"`
	Logger Logger `mapstructure:"logger"`
}

// Device carries overrides for the device's self-reported identity.
type Device struct {
	// IDOverride, when set, replaces the MAC-address-derived device id.
	// Useful on the bench where a board has no wired network interface.
	IDOverride string `mapstructure:"id_override"`
}

// MQTT holds the broker connection settings.
type MQTT struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	TLS      TLS    `mapstructure:"tls"`

	KeepAlive   time.Duration `mapstructure:"keepalive"`
	ConnectWait time.Duration `mapstructure:"connect_wait"`
}

// TLS holds the broker's certificate material. Setting any one field enables
// TLS; leaving all three empty connects in plaintext. The client certificate
// is only loaded when both CertFile and KeyFile are set.
type TLS struct {
	CAFile   string `mapstructure:"cafile"`
	CertFile string `mapstructure:"certfile"`
	KeyFile  string `mapstructure:"keyfile"`
}

// Enabled reports whether TLS material has been configured.
func (t TLS) Enabled() bool {
	return t.CAFile != "" || t.CertFile != "" || t.KeyFile != ""
}

// WiFi holds provisioning settings delegated to the host's network-management
// daemon; not part of the core.
type WiFi struct {
	Network     string   `mapstructure:"network"`
	Passphrase  string   `mapstructure:"passphrase"`
	Mode        string   `mapstructure:"mode"`
	Address     string   `mapstructure:"address"`
	Gateway     string   `mapstructure:"gateway"`
	Nameservers []string `mapstructure:"nameservers"`
}

// Logger contains logging settings.
type Logger struct {
	Level      string `mapstructure:"level"`
	LogDir     string `mapstructure:"log_dir"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("tapper")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/tapper")
		v.AddConfigPath(".")
		v.AddConfigPath(getConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; using defaults.
	}

	v.SetEnvPrefix("TAPPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("device.id_override", "")

	v.SetDefault("mqtt.host", "localhost")
	v.SetDefault("mqtt.port", 1883)
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.keepalive", 60*time.Second)
	v.SetDefault("mqtt.connect_wait", 10*time.Second)

	v.SetDefault("legacy", false)

	v.SetDefault("wifi.mode", "dhcp")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.log_dir", "/var/log/tapper")
	v.SetDefault("logger.max_size_mb", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age_days", 3)
	v.SetDefault("logger.compress", true)
}

func getConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".tapper")
}
