package config

import (
	"os"
	"strconv"
)

// Config 应用配置
type Config struct {
	Port         int
	Debug        bool
	StoreDriver  string // memory / file / sqlite / mongo
	DataFile     string // file驱动的JSON数据文件
	SQLitePath   string
	MongoURI     string
	MongoDB      string
	JWTKey       string
	DeletePolicy string // soft / hard，对整个商品集合只选一次
}

// LoadConfig 从环境变量加载配置
func LoadConfig() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	return &Config{
		Port:         port,
		Debug:        getEnv("GIN_MODE", "debug") == "debug",
		StoreDriver:  getEnv("STORE_DRIVER", "sqlite"),
		DataFile:     getEnv("DATA_FILE", "./data/inventory.json"),
		SQLitePath:   getEnv("SQLITE_PATH", "./data/inventory.db"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:      getEnv("MONGO_DB", "inventory"),
		JWTKey:       getEnv("JWT_KEY", "your-secret-key"), // 实际环境应替换为安全密钥
		DeletePolicy: getEnv("DELETE_POLICY", "soft"),
	}
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
