package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Port      string `mapstructure:"port"`
	JWTSecret string `mapstructure:"jwt_secret"`

	Database DatabaseConfig `mapstructure:"database"`
	Media    MediaConfig    `mapstructure:"media"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Supabase SupabaseConfig `mapstructure:"supabase"`

	// Glob of page templates handed to the HTML renderer. Empty disables
	// template loading; rendering is a collaborator, not part of the core.
	TemplateGlob string `mapstructure:"template_glob"`
}

// DatabaseConfig selects the gorm driver and its DSN
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // mysql, postgres or sqlite
	DSN    string `mapstructure:"dsn"`
}

// MediaConfig holds uploaded-image storage settings
type MediaConfig struct {
	Dir string `mapstructure:"dir"`
}

// SMTPConfig holds the comment-notification mail settings
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// SupabaseConfig switches image storage to a Supabase bucket when set
type SupabaseConfig struct {
	URL    string `mapstructure:"url"`
	Key    string `mapstructure:"key"`
	Bucket string `mapstructure:"bucket"`
}

// Load reads configuration from config.yaml and environment variables
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("port", "8080")
	viper.SetDefault("jwt_secret", "your-secret-key")
	viper.SetDefault("database.driver", "mysql")
	viper.SetDefault("database.dsn", "user:password@tcp(localhost:3306)/inkwell?charset=utf8mb4&parseTime=True&loc=Local")
	viper.SetDefault("media.dir", "./media")
	viper.SetDefault("smtp.port", 2525)
	viper.SetDefault("smtp.from", "noreply@inkwell.local")
	viper.SetDefault("template_glob", "templates/**/*.html")

	viper.AutomaticEnv()
	viper.BindEnv("port", "PORT")
	viper.BindEnv("jwt_secret", "JWT_SECRET")
	viper.BindEnv("database.driver", "DATABASE_DRIVER")
	viper.BindEnv("database.dsn", "DATABASE_URL")
	viper.BindEnv("media.dir", "MEDIA_DIR")
	viper.BindEnv("smtp.host", "SMTP_HOST")
	viper.BindEnv("smtp.port", "SMTP_PORT")
	viper.BindEnv("smtp.username", "SMTP_USERNAME")
	viper.BindEnv("smtp.password", "SMTP_PASSWORD")
	viper.BindEnv("smtp.from", "FROM_EMAIL")
	viper.BindEnv("supabase.url", "SUPABASE_URL")
	viper.BindEnv("supabase.key", "SUPABASE_KEY")
	viper.BindEnv("supabase.bucket", "SUPABASE_BUCKET")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		log.Println("No config file found, using defaults and environment variables")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
