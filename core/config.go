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

type Config struct {
	Debug            bool
	TestMode         bool
	Env              string // DEV (default), TEST, QA, PROD
	Build            string
	AppName          string
	SecretKey        string
	WorkDir          string
	FrontendBaseURL  string
	DefaultFromEmail string
	SendgridAPIKey   string
	RollbarToken     string

	Server struct {
		Host               string
		Addr               string
		DebugAddr          string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	Storage struct {
		Engine   string // memory | bolt | postgres
		BoltPath string
	}

	Database struct {
		Engine     string
		Name       string
		User       string
		Password   string
		Host       string
		Port       string
		DisableTLS bool
	}

	AI struct {
		APIKey  string
		Model   string
		BaseURL string
		Timeout time.Duration
	}

	Docconv struct {
		TikaURL string
		Timeout time.Duration
	}
}

// NewConfig loads the app configuration from defaults, an optional
// config/.env.<env> file and environment variables (in increasing precedence).
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Darasa")
	v.SetDefault("secretKey", "w3@k-d3v-only-k3y_ch4ng3-m3-in-pr0d!")
	v.SetDefault("build", "dev")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")

	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("serverDebugAddr", ":8001")
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)

	v.SetDefault("storageEngine", "bolt")
	v.SetDefault("storageBoltPath", "darasa.db")

	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseName", "darasa")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", "5432")
	v.SetDefault("databaseDisableTLS", true)

	v.SetDefault("aiModel", "gemini-2.5-flash")
	v.SetDefault("aiBaseURL", "https://generativelanguage.googleapis.com")
	v.SetDefault("aiTimeout", 60*time.Second)

	v.SetDefault("tikaURL", "")
	v.SetDefault("docconvTimeout", 30*time.Second)

	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	wd := getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		Env:              env,
		Build:            v.GetString("build"),
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		WorkDir:          wd,
		FrontendBaseURL:  v.GetString("frontendBaseURL"),
		DefaultFromEmail: v.GetString("defaultFromEmail"),
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
	}
	conf.Server.Host = v.GetString("serverHost")
	conf.Server.Addr = v.GetString("serverAddr")
	conf.Server.DebugAddr = v.GetString("serverDebugAddr")
	conf.Server.ShutdownTimeout = v.GetDuration("serverShutdownTimeout")
	conf.Server.JWTExpirationDelta = v.GetDuration("jwtExpirationDelta")

	conf.Storage.Engine = v.GetString("storageEngine")
	conf.Storage.BoltPath = v.GetString("storageBoltPath")

	conf.Database.Engine = v.GetString("databaseEngine")
	conf.Database.Name = v.GetString("databaseName")
	conf.Database.User = v.GetString("databaseUser")
	conf.Database.Password = v.GetString("databasePassword")
	conf.Database.Host = v.GetString("databaseHost")
	conf.Database.Port = v.GetString("databasePort")
	conf.Database.DisableTLS = v.GetBool("databaseDisableTLS")

	conf.AI.APIKey = v.GetString("aiApiKey")
	conf.AI.Model = v.GetString("aiModel")
	conf.AI.BaseURL = v.GetString("aiBaseURL")
	conf.AI.Timeout = v.GetDuration("aiTimeout")

	conf.Docconv.TikaURL = v.GetString("tikaURL")
	conf.Docconv.Timeout = v.GetDuration("docconvTimeout")

	return conf
}

// DefaultFrom returns the default sender address with the app name attached.
func (c *Config) DefaultFrom() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.DefaultFromEmail}
}

// DatabaseAddress returns the host:port of the configured database.
func (c *Config) DatabaseAddress() string {
	return c.Database.Host + ":" + c.Database.Port
}

// getwd tries to find the project root (the dir holding go.mod).
// go-test changes the working directory to the test package being run during tests.
// see: https://stackoverflow.com/questions/23847003/golang-tests-and-working-directory
func getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}
	currDir := wd
	for {
		if _, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == string(os.PathSeparator) || newDir == currDir {
			return wd // fall back to the actual working directory
		}
		currDir = newDir
	}
}
