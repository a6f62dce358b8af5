package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	RegistryMemory = "memory"
	RegistryRedis  = "redis"
)

type Config struct {
	AppPort        string
	AppMode        string
	JWTSecret      string
	JWTExpiryHours int
	StoreDriver    string
	MongoURI       string
	MongoDB        string
	DBHost         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPort         string
	RegistryDriver string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	S3Region       string
	S3Bucket       string
	S3AccessKey    string
	S3SecretKey    string
	S3Endpoint     string
	S3PublicBase   string
	S3Prefix       string
	MaxImageBytes  int
	MaxBodyBytes   int
	CORSOrigins    []string
	SeedDevData    bool
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:        getEnv("APP_PORT", "5001"),
		AppMode:        getEnv("APP_MODE", "debug"),
		JWTSecret:      getEnv("JWT_SECRET", "change-me"),
		JWTExpiryHours: getEnvAsInt("JWT_EXPIRY_HOURS", 7*24),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "chat_db"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "direct_chat"),
		DBPort:         getEnv("DB_PORT", "5432"),
		RegistryDriver: strings.ToLower(getEnv("REGISTRY_DRIVER", RegistryMemory)),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Bucket:       getEnv("S3_BUCKET", ""),
		S3AccessKey:    getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnv("S3_SECRET_KEY", ""),
		S3Endpoint:     getEnv("S3_ENDPOINT", ""),
		S3PublicBase:   getEnv("S3_PUBLIC_BASE", ""),
		S3Prefix:       getEnv("S3_PREFIX", "chat-images"),
		MaxImageBytes:  getEnvAsInt("MAX_IMAGE_BYTES", 5<<20),
		MaxBodyBytes:   getEnvAsInt("MAX_BODY_BYTES", 10<<20),
		CORSOrigins:    getEnvAsList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		SeedDevData:    getEnvAsBool("SEED_DEV_DATA", false),
	}
}

// PostgresDSN builds a libpq style connection string for the pgx driver.
func (c *Config) PostgresDSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=disable TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
