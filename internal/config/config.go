package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Port                 string
	DBPath               string
	GoogleMapsAPIKey     string
	JWTSecret            string
	MaxResults           int     // 单次搜索返回的最大结果数
	DefaultMaxDistanceKm float64 // 未指定时的默认距离上限（公里）
	AutocompleteCountry  string  // 地址联想的国家限制（ISO 3166-1 alpha-2）
}

// Load 加载配置
func Load() *Config {
	// .env 文件不存在时静默跳过，直接读环境变量
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/studyspots.db"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	country := os.Getenv("AUTOCOMPLETE_COUNTRY")
	if country == "" {
		country = "th"
	}

	return &Config{
		Port:                 port,
		DBPath:               dbPath,
		GoogleMapsAPIKey:     os.Getenv("GOOGLE_MAPS_API_KEY"),
		JWTSecret:            jwtSecret,
		MaxResults:           envInt("MAX_RESULTS", 30),
		DefaultMaxDistanceKm: envFloat("DEFAULT_MAX_DISTANCE_KM", 10),
		AutocompleteCountry:  country,
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}
