package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runShowConfig,
}

var initConfigCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	RunE:  runInitConfig,
}

func init() {
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(initConfigCmd)
}

func runShowConfig(cmd *cobra.Command, args []string) error {
	// Secrets are masked so the output is safe to paste into tickets.
	view := map[string]any{
		"server": map[string]any{
			"host":             cfg.Server.Host,
			"port":             cfg.Server.Port,
			"read_timeout":     cfg.Server.ReadTimeout.String(),
			"write_timeout":    cfg.Server.WriteTimeout.String(),
			"shutdown_timeout": cfg.Server.ShutdownTimeout.String(),
			"debug":            cfg.Server.Debug,
		},
		"database": map[string]any{
			"driver":            cfg.Database.Driver,
			"dsn":               cfg.Database.DSNMasked(),
			"max_open_conns":    cfg.Database.MaxOpenConns,
			"max_idle_conns":    cfg.Database.MaxIdleConns,
			"conn_max_lifetime": cfg.Database.ConnMaxLifetime.String(),
		},
		"logging": map[string]any{
			"level":  cfg.Logging.Level,
			"format": cfg.Logging.Format,
		},
		"security": map[string]any{
			"jwt_secret":      "***",
			"jwt_expiration":  cfg.Security.JWTExpiration.String(),
			"rate_limit":      cfg.Security.RateLimit,
			"allowed_origins": cfg.Security.AllowedOrigins,
		},
	}

	data, err := yaml.Marshal(view)
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	defaultConfig := `# Servium Configuration

server:
  host: 0.0.0.0
  port: 8090
  read_timeout: 30s
  write_timeout: 30s
  shutdown_timeout: 10s
  debug: false

database:
  driver: mysql
  dsn: servium:servium@tcp(localhost:3306)/servium?parseTime=true&charset=utf8mb4
  max_open_conns: 25
  max_idle_conns: 5
  conn_max_lifetime: 30m

logging:
  level: info
  format: json

security:
  jwt_secret: change-me-in-production
  jwt_expiration: 24h
  rate_limit: 100
  allowed_origins:
    - "*"
`

	if _, err := os.Stat("config.yaml"); err == nil {
		return fmt.Errorf("config.yaml already exists, refusing to overwrite")
	}

	if err := os.WriteFile("config.yaml", []byte(defaultConfig), 0644); err != nil {
		return err
	}

	fmt.Println("✓ Created config.yaml")
	return nil
}
