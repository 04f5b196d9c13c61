package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ===========================
// 應用程式配置
// ===========================

// Config 應用程式配置（環境變數載入）
type Config struct {
	// DatabasePath SQLite 資料庫檔案路徑
	DatabasePath string
	// ServerPort HTTP 服務埠
	ServerPort string
	// Environment 執行環境（development / production）
	Environment string
	// SweepIntervalMinutes 過期清掃間隔（0 = 不啟動背景清掃）
	SweepIntervalMinutes int
}

// Load 載入配置
//
// .env 檔為可選；環境變數缺省時使用預設值。
func Load() (*Config, error) {
	// .env 不存在時直接用環境變數
	_ = godotenv.Load()

	sweepInterval, err := strconv.Atoi(getEnv("SWEEP_INTERVAL_MINUTES", "60"))
	if err != nil {
		return nil, err
	}

	return &Config{
		DatabasePath:         getEnv("DATABASE_PATH", "loyalty.db"),
		ServerPort:           getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		SweepIntervalMinutes: sweepInterval,
	}, nil
}

// getEnv 讀取環境變數，空值時返回預設值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
