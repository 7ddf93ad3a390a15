package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort      string
	Environment     string
	DataSource      string
	SeedFile        string
	FirebaseProject string
	CredentialsPath string
	CredentialsJSON string
	DefaultLanguage string
	THBRate         float64
	SendRatePerMin  int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		DataSource:      getEnv("DATA_SOURCE", "memory"),
		SeedFile:        getEnv("SEED_FILE", ""),
		FirebaseProject: getEnv("FIREBASE_PROJECT_ID", ""),
		CredentialsPath: getEnv("FIRESTORE_CREDENTIALS_PATH", ""),
		CredentialsJSON: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON", ""),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		THBRate:         getEnvAsFloat64("THB_RATE", 35),
		SendRatePerMin:  int(getEnvAsInt64("SEND_RATE_PER_MIN", 10)),
	}

	return config, nil
}

func (c *Config) UseFirestore() bool {
	return c.DataSource == "firestore"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil && f > 0 {
			return f
		}
	}
	return defaultValue
}
