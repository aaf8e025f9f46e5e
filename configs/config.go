package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver string
	DBSource string
	Port     string
	Lang     string
	LogLevel string

	JWTSecret     string
	JWTTTL        time.Duration
	AuthRequired  bool
	StaffEmail    string
	StaffPassword string

	RedisAddr       string
	RevenueCacheTTL time.Duration
	RabbitMQURL     string

	SeedMenu bool
}

// LoadConfig อ่าน .env (ถ้ามี) แล้วค่อยอ่าน environment
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}
	return FromEnv()
}

// FromEnv สร้าง config จาก environment อย่างเดียว (ใช้ในเทสต์ได้)
func FromEnv() *Config {
	return &Config{
		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBSource: getEnv("DB_SOURCE", "orders.db"),
		Port:     getEnv("PORT", "8000"),
		Lang:     getEnv("LANG_CODE", "ru"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		JWTSecret:     getEnv("JWT_SECRET", "changeme"),
		JWTTTL:        getDuration("JWT_TTL", 24*time.Hour),
		AuthRequired:  getBool("AUTH_REQUIRED", false),
		StaffEmail:    os.Getenv("STAFF_EMAIL"),
		StaffPassword: os.Getenv("STAFF_PASSWORD"),

		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RevenueCacheTTL: getDuration("REVENUE_CACHE_TTL", time.Minute),
		RabbitMQURL:     os.Getenv("RABBITMQ_URL"),

		SeedMenu: getBool("SEED_MENU", false),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		log.Printf("config: %s is not a bool, using %v", key, fallback)
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config: %s is not a duration, using %v", key, fallback)
		return fallback
	}
	return d
}
