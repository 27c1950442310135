package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"donorlink/internal/platform/config"
	"donorlink/internal/platform/logger"
)

// app carries what every subcommand needs once flags and config are resolved.
type app struct {
	v       *viper.Viper
	cfgFile string
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "donorlink",
		Short: "Browse and contact donation listings from the terminal",
		Long: `donorlink reads the medicine, equipment and blood donation collections,
filters them by a free-text query and reveals a donor's contact address.
Restricted medicines require a short eligibility screening first.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (DONORLINK_*)
3. Config file (--config, or ./donorlink.yaml)
4. Defaults`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.initConfig(); err != nil {
				return err
			}
			a.logger = logger.NewWithWriter(cmd.ErrOrStderr(), a.v.GetString("log_level"))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./donorlink.yaml)")
	flags.String("postgres-dsn", "", "PostgreSQL DSN for the donation store")
	flags.String("redis-url", "", "Redis URL for the donation cache")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	_ = a.v.BindPFlag("postgres_dsn", flags.Lookup("postgres-dsn"))
	_ = a.v.BindPFlag("redis_url", flags.Lookup("redis-url"))
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))

	root.AddCommand(
		newSeedCmd(a),
		newSearchCmd(a),
		newContactCmd(a),
		newTokenCmd(a),
	)
	return root
}

func (a *app) initConfig() error {
	setDefaults(a.v)
	a.v.SetEnvPrefix("DONORLINK")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", a.cfgFile, err)
		}
		return nil
	}
	a.v.SetConfigName("donorlink")
	a.v.SetConfigType("yaml")
	a.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		a.v.AddConfigPath(home + "/.donorlink")
	}
	if err := a.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// setDefaults seeds viper with the server's defaults so both binaries agree.
func setDefaults(v *viper.Viper) {
	d := config.FromEnv()
	v.SetDefault("log_level", "warn")
	v.SetDefault("postgres_dsn", d.PostgresDSN)
	v.SetDefault("redis_url", d.Redis.URL)
	v.SetDefault("redis.pool_size", d.Redis.PoolSize)
	v.SetDefault("redis.dial_timeout", d.Redis.DialTimeout)
	v.SetDefault("redis.read_timeout", d.Redis.ReadTimeout)
	v.SetDefault("redis.write_timeout", d.Redis.WriteTimeout)
	v.SetDefault("catalog.cache_ttl", d.Catalog.CacheTTL)
	v.SetDefault("catalog.fetch_timeout", d.Catalog.FetchTimeout)
	v.SetDefault("jwt_signing_key", d.JWTSigningKey)
	v.SetDefault("jwt_issuer", d.JWTIssuer)
	v.SetDefault("jwt_audience", d.JWTAudience)
}

// settings projects the resolved viper state onto the shared config type.
func settings(v *viper.Viper) config.Server {
	return config.Server{
		LogLevel:      v.GetString("log_level"),
		JWTSigningKey: v.GetString("jwt_signing_key"),
		JWTIssuer:     v.GetString("jwt_issuer"),
		JWTAudience:   v.GetString("jwt_audience"),
		PostgresDSN:   v.GetString("postgres_dsn"),
		Redis: config.RedisConfig{
			URL:          v.GetString("redis_url"),
			PoolSize:     v.GetInt("redis.pool_size"),
			DialTimeout:  v.GetDuration("redis.dial_timeout"),
			ReadTimeout:  v.GetDuration("redis.read_timeout"),
			WriteTimeout: v.GetDuration("redis.write_timeout"),
		},
		Catalog: config.CatalogConfig{
			CacheTTL:     v.GetDuration("catalog.cache_ttl"),
			FetchTimeout: v.GetDuration("catalog.fetch_timeout"),
		},
	}
}
