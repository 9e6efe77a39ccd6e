package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	Database    Database    `mapstructure:",squash"`
	Meta        Meta        `mapstructure:",squash"`
	Auth        Auth        `mapstructure:",squash"`
	RefreshSync RefreshSync `mapstructure:",squash"`
	RateLimit   RateLimit   `mapstructure:",squash"`
	Admission   Admission   `mapstructure:",squash"`
	Storage     Storage     `mapstructure:",squash"`
	SecretKey   string      `mapstructure:"secret_key"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type Meta struct {
	BaseURL        string        `mapstructure:"meta_base_url"`
	URL            string        `mapstructure:"meta_url"`
	Version        string        `mapstructure:"meta_version"`
	RequestTimeout time.Duration `mapstructure:"meta_request_timeout"`
	PageLimit      int           `mapstructure:"meta_page_limit"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

// RefreshSync configura o caminho agendado (batch) de refresh
type RefreshSync struct {
	CronSchedule string `mapstructure:"refresh_sync_cron"`
	LookbackDays int    `mapstructure:"refresh_sync_lookback_days"`
	ChunkDays    int    `mapstructure:"refresh_sync_chunk_days"`
	Enabled      bool   `mapstructure:"refresh_sync_enabled"`
}

// RateLimit configura o controlador adaptativo de taxa
type RateLimit struct {
	// Mode aceita "conservative" ou "production"; o modo conservador pausa e
	// reduz lotes em limiares de utilização mais baixos
	Mode             string        `mapstructure:"rate_limit_mode"`
	RetryBaseDelay   time.Duration `mapstructure:"rate_limit_retry_base_delay"`
	RetryMaxDelay    time.Duration `mapstructure:"rate_limit_retry_max_delay"`
	RetryMaxAttempts int           `mapstructure:"rate_limit_retry_max_attempts"`
}

// Admission configura o controlador de admissão de jobs compartilhado entre processos
type Admission struct {
	// Ceiling é o máximo global de jobs concorrentes em todo o sistema
	Ceiling int `mapstructure:"admission_ceiling"`
	// BackgroundSkipThreshold é o limiar abaixo do teto a partir do qual o
	// caminho agendado cede vagas para o caminho interativo
	BackgroundSkipThreshold int           `mapstructure:"admission_background_skip_threshold"`
	ZombieTimeout           time.Duration `mapstructure:"admission_zombie_timeout"`
}

type Storage struct {
	BundleRoot string `mapstructure:"storage_bundle_root"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/ads_refresh")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("META_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("META_VERSION", "v22.0")
	viper.SetDefault("META_REQUEST_TIMEOUT", "30s") // nenhuma chamada pode pendurar além disso
	viper.SetDefault("META_PAGE_LIMIT", 500)

	viper.SetDefault("SECRET_KEY", "your_secret_key")
	viper.SetDefault("AUTH_SECRET", "your_auth_secret")

	// Defaults da sincronização agendada de refresh
	viper.SetDefault("REFRESH_SYNC_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("REFRESH_SYNC_LOOKBACK_DAYS", 90) // Janela de baseline de 90 dias
	viper.SetDefault("REFRESH_SYNC_CHUNK_DAYS", 30)    // Janelas maiores são fatiadas em blocos de 30 dias
	viper.SetDefault("REFRESH_SYNC_ENABLED", false)

	// Defaults do controlador de taxa
	viper.SetDefault("RATE_LIMIT_MODE", "production")
	viper.SetDefault("RATE_LIMIT_RETRY_BASE_DELAY", "2s")
	viper.SetDefault("RATE_LIMIT_RETRY_MAX_DELAY", "60s")
	viper.SetDefault("RATE_LIMIT_RETRY_MAX_ATTEMPTS", 5)

	// Defaults do controlador de admissão
	viper.SetDefault("ADMISSION_CEILING", 8)
	viper.SetDefault("ADMISSION_BACKGROUND_SKIP_THRESHOLD", 5)
	viper.SetDefault("ADMISSION_ZOMBIE_TIMEOUT", "45m")

	viper.SetDefault("STORAGE_BUNDLE_ROOT", "data/bundles")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Meta.URL = fmt.Sprintf("%s/%s", config.Meta.BaseURL, config.Meta.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../.env"),            // Diretório acima
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
