package main

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"controlling_motor/internal/logger"
	"controlling_motor/internal/models"
	"controlling_motor/internal/service"
)

// appConfig is everything main needs, resolved from file, env and defaults.
type appConfig struct {
	Port          string
	LogLevel      string
	DBPath        string
	Auth          service.AuthConfig
	AdminUser     string
	AdminPassword string
	NATSURL       string
	NATSPrefix    string
	JournalPath   string
	Glitches      bool
	Seed          uint64
	Info          models.DeviceInfo
	Device        models.DeviceConfig
	BadDeviceKeys []string
	EphemeralKey  bool
}

const envPrefix = "MOTOR"

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", logger.InfoLevel)
	v.SetDefault("db.path", "app.db")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("auth.admin_user", "admin")
	v.SetDefault("auth.admin_password", "admin123")
	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject_prefix", "motor")
	v.SetDefault("journal.path", "")
	v.SetDefault("simulation.glitches", false)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("device.id", "")
	v.SetDefault("device.name", "motor-controller")
	v.SetDefault("device.hw", "sim")
	v.SetDefault("device.sw", "1.0.0")
	for k, val := range service.EncodeConfig(models.DefaultDeviceConfig()) {
		v.SetDefault("device."+k, val)
	}
}

// loadConfig reads configs/config.yml when present. MOTOR_* environment
// variables override file values, e.g. MOTOR_DB_PATH for db.path.
func loadConfig(v *viper.Viper) (appConfig, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.AddConfigPath("configs") // configs/config.yml
	v.SetConfigName("config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return appConfig{}, err
		}
	}

	cfg := appConfig{
		Port:     v.GetString("port"),
		LogLevel: v.GetString("log.level"),
		DBPath:   v.GetString("db.path"),
		Auth: service.AuthConfig{
			SigningKey: v.GetString("auth.signing_key"),
			TokenTTL:   v.GetDuration("auth.token_ttl"),
		},
		AdminUser:     v.GetString("auth.admin_user"),
		AdminPassword: v.GetString("auth.admin_password"),
		NATSURL:       v.GetString("nats.url"),
		NATSPrefix:    v.GetString("nats.subject_prefix"),
		JournalPath:   v.GetString("journal.path"),
		Glitches:      v.GetBool("simulation.glitches"),
		Seed:          v.GetUint64("simulation.seed"),
		Info: models.DeviceInfo{
			DeviceID:   v.GetString("device.id"),
			DeviceName: v.GetString("device.name"),
			SW:         v.GetString("device.sw"),
			HW:         v.GetString("device.hw"),
		},
	}
	if cfg.Auth.SigningKey == "" {
		cfg.Auth.SigningKey = uuid.NewString()
		cfg.EphemeralKey = true
	}
	if cfg.Info.DeviceID == "" {
		cfg.Info.DeviceID = uuid.NewString()
	}

	raw := map[string]any{}
	for k := range service.EncodeConfig(models.DefaultDeviceConfig()) {
		raw[k] = v.Get("device." + k)
	}
	patch, bad := service.ParseConfigPatch(raw)
	cfg.Device = models.DefaultDeviceConfig().Apply(patch)
	cfg.BadDeviceKeys = bad
	return cfg, nil
}
