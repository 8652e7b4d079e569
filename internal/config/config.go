package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Log       LogConfig
	Generator GeneratorConfig
	Blueprint BlueprintConfig
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port string
	Mode string
	// AllowedOrigins 允许访问 API 的前端来源
	AllowedOrigins []string
}

// DataConfig 数据存储配置
type DataConfig struct {
	RootPath  string
	Namespace string
	// Codec 工作区快照编码，json 或 msgpack
	Codec string
}

// LogConfig 日志配置
type LogConfig struct {
	Level string
	File  string
}

// GeneratorConfig 代码生成服务配置
type GeneratorConfig struct {
	BaseURL string
	Timeout time.Duration
}

// BlueprintConfig 启动时导入的蓝图，为空则跳过
type BlueprintConfig struct {
	FilePath string
}

// Load 加载配置
func Load() (*Config, error) {
	// 尝试加载 .env 文件，如果不存在也不报错
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Mode:           getEnv("SERVER_MODE", "debug"),
			AllowedOrigins: getEnvList("SERVER_ALLOWED_ORIGINS", []string{"*"}),
		},
		Data: DataConfig{
			RootPath:  getEnv("DATA_ROOT_PATH", "./data"),
			Namespace: getEnv("DATA_NAMESPACE", "default"),
			Codec:     strings.ToLower(getEnv("DATA_CODEC", "json")),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", "./logs/app.log"),
		},
		Generator: GeneratorConfig{
			BaseURL: strings.TrimRight(getEnv("GENERATOR_BASE_URL", "http://localhost:3001/api"), "/"),
			Timeout: time.Duration(getEnvInt("GENERATOR_TIMEOUT_SECONDS", 60)) * time.Second,
		},
		Blueprint: BlueprintConfig{
			FilePath: getEnv("BLUEPRINT_FILE_PATH", ""),
		},
	}

	if config.Data.Codec != "json" && config.Data.Codec != "msgpack" {
		return nil, fmt.Errorf("unsupported DATA_CODEC %q", config.Data.Codec)
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvList 逗号分隔的列表
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
