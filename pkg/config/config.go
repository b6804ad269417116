package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	Inventory InventoryConfig
	Backup    BackupConfig
	HTTP      HTTPConfig
	JWT       JWTConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, production
	Name        string
	LogLevel    string
	DefaultUser string // usuario responsable cuando la operación no indica uno
}

// InventoryConfig ubicación del libro de Excel y nombres de sus hojas.
type InventoryConfig struct {
	File           string
	ProductsSheet  string
	MovementsSheet string
}

// Dir devuelve el directorio del libro, donde también viven los backups.
func (c InventoryConfig) Dir() string {
	return filepath.Dir(c.File)
}

// BackupConfig retención y programación de backups automáticos.
type BackupConfig struct {
	Retention int    // backups a conservar; 0 = todos
	Schedule  string // expresión cron; vacío = sin backups automáticos
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig configuración de JWT. Secret vacío desactiva la autenticación de la API.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// Enabled indica si la API exige Bearer Token.
func (c JWTConfig) Enabled() bool {
	return c.Secret != ""
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. configFile vacío busca .env y config.env en el directorio actual.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("leer %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(".env")
		v.AddConfigPath(".")
		_ = v.ReadInConfig() // ignoramos error si no existe

		v.SetConfigName("config")
		v.AddConfigPath("./config")
		_ = v.MergeInConfig()
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:         v.GetString("APP_ENV"),
			Name:        v.GetString("APP_NAME"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			DefaultUser: v.GetString("DEFAULT_USER"),
		},
		Inventory: InventoryConfig{
			File:           v.GetString("INVENTORY_FILE"),
			ProductsSheet:  v.GetString("PRODUCTS_SHEET"),
			MovementsSheet: v.GetString("MOVEMENTS_SHEET"),
		},
		Backup: BackupConfig{
			Retention: getInt(v, "BACKUP_RETENTION"),
			Schedule:  strings.TrimSpace(v.GetString("BACKUP_SCHEDULE")),
		},
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: getInt(v, "HTTP_PORT"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES"),
			Issuer:     v.GetString("JWT_ISSUER"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "inventario")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DEFAULT_USER", "")
	v.SetDefault("INVENTORY_FILE", "Inventario2.0.xlsx")
	v.SetDefault("PRODUCTS_SHEET", "Inventario2.0")
	v.SetDefault("MOVEMENTS_SHEET", "Movimientos")
	v.SetDefault("BACKUP_RETENTION", 0)
	v.SetDefault("BACKUP_SCHEDULE", "")
	v.SetDefault("HTTP_HOST", "127.0.0.1")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION_MINUTES", 720)
	v.SetDefault("JWT_ISSUER", "inventario")
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Inventory.File) == "" {
		return fmt.Errorf("config: INVENTORY_FILE vacío")
	}
	if c.Inventory.ProductsSheet == "" || c.Inventory.MovementsSheet == "" {
		return fmt.Errorf("config: nombres de hoja vacíos")
	}
	if c.Inventory.ProductsSheet == c.Inventory.MovementsSheet {
		return fmt.Errorf("config: PRODUCTS_SHEET y MOVEMENTS_SHEET deben ser distintas")
	}
	if c.Backup.Retention < 0 {
		return fmt.Errorf("config: BACKUP_RETENTION no puede ser negativo")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: HTTP_PORT fuera de rango: %d", c.HTTP.Port)
	}
	if c.JWT.Enabled() && c.JWT.Expiration <= 0 {
		return fmt.Errorf("config: JWT_EXPIRATION_MINUTES debe ser positivo")
	}
	return nil
}

// getInt tolera valores string provenientes del archivo .env.
func getInt(v *viper.Viper, key string) int {
	switch raw := v.Get(key).(type) {
	case int:
		return raw
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return -1
		}
		return n
	default:
		return v.GetInt(key)
	}
}
