package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host                      string
		DebugHost                 string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Path string
	}

	DiscordConfig struct {
		Token   string
		GuildID string
	}

	// BotConfig holds the scheduled-job settings. Timezone names the IANA
	// location cron fires in; UTCOffset is the literal Eastern offset used
	// for day-boundary math (see core/compliance).
	BotConfig struct {
		Timezone       string
		UTCOffset      string
		MorningSpec    string
		AttendanceSpec string
		MiddaySpec     string
		EODSpec        string
		ArchiveSpec    string
		Lookback       time.Duration
		CurriculumPath string
	}

	OpenAIConfig struct {
		APIKey string
		Model  string
	}

	Config struct {
		AppName                   string
		Env                       string
		Build                     string
		Debug                     bool
		TestMode                  bool
		SecretKey                 []byte
		FrontendBaseURL           string
		DefaultFromEmail          mail.Address
		InstructorEmails          []string
		PasswordResetTimeoutDelta time.Duration

		Server   ServerConfig
		Database DatabaseConfig
		Discord  DiscordConfig
		Bot      BotConfig
		OpenAI   OpenAIConfig

		RollbarToken   string
		SendgridAPIKey string
	}
)

// NewConfig loads the configuration from the environment, with an optional
// config/.env.<env> file for local development. Env vars are prefixed with
// the current ENV (eg. DEV_SECRET_KEY).
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Attendabot")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "+*2ncq-1e&p$vv_0y%mwyz#f(4)5p&)-0^8k0t3rq4&@x7!dkh")
	v.SetDefault("frontendBaseUrl", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "attendabot@localhost")
	v.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)

	v.SetDefault("serverHost", "0.0.0.0:8000")
	v.SetDefault("serverDebugHost", "0.0.0.0:4000")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)

	v.SetDefault("databasePath", "attendabot.db")

	v.SetDefault("botTimezone", "America/New_York")
	v.SetDefault("botUtcOffset", "-05:00")
	v.SetDefault("botMorningSpec", "0 9 * * 1-6")
	v.SetDefault("botAttendanceSpec", "0 10 * * 1-6")
	v.SetDefault("botMiddaySpec", "0 14 * * 1-6")
	v.SetDefault("botEodSpec", "0 18 * * 1-6")
	v.SetDefault("botArchiveSpec", "*/30 * * * *")
	v.SetDefault("botLookback", 12*time.Hour)
	v.SetDefault("botCurriculumPath", "config/curriculum.json")

	v.SetDefault("openaiModel", "gpt-4o-mini")

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(".", "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		AppName:                   v.GetString("appName"),
		Env:                       env,
		Build:                     v.GetString("build"),
		Debug:                     v.GetBool("debug"),
		TestMode:                  v.GetBool("testMode"),
		SecretKey:                 []byte(v.GetString("secretKey")),
		FrontendBaseURL:           v.GetString("frontendBaseUrl"),
		DefaultFromEmail:          mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		InstructorEmails:          v.GetStringSlice("instructorEmails"),
		PasswordResetTimeoutDelta: v.GetDuration("passwordResetTimeoutDelta"),
		Server: ServerConfig{
			Host:                      v.GetString("serverHost"),
			DebugHost:                 v.GetString("serverDebugHost"),
			ShutdownTimeout:           v.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("databasePath"),
		},
		Discord: DiscordConfig{
			Token:   v.GetString("discordToken"),
			GuildID: v.GetString("discordGuildId"),
		},
		Bot: BotConfig{
			Timezone:       v.GetString("botTimezone"),
			UTCOffset:      v.GetString("botUtcOffset"),
			MorningSpec:    v.GetString("botMorningSpec"),
			AttendanceSpec: v.GetString("botAttendanceSpec"),
			MiddaySpec:     v.GetString("botMiddaySpec"),
			EODSpec:        v.GetString("botEodSpec"),
			ArchiveSpec:    v.GetString("botArchiveSpec"),
			Lookback:       v.GetDuration("botLookback"),
			CurriculumPath: v.GetString("botCurriculumPath"),
		},
		OpenAI: OpenAIConfig{
			APIKey: v.GetString("openaiApiKey"),
			Model:  v.GetString("openaiModel"),
		},
		RollbarToken:   v.GetString("rollbarToken"),
		SendgridAPIKey: v.GetString("sendgridApiKey"),
	}
}
