package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config carries everything the process needs at startup. Values come
// from environment variables with sensible local-development defaults.
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string

	// Anomaly rule tuning.
	SuspiciousAmount string
	HomeCountry      string
	DormantDays      int
	DailyTxLimit     int
}

func Load() *Config {
	v := viper.New()

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "password")
	v.SetDefault("db_name", "solubank")
	v.SetDefault("server_port", "8080")
	v.SetDefault("suspicious_amount", "10000")
	v.SetDefault("home_country", "maroc")
	v.SetDefault("dormant_days", 90)
	v.SetDefault("daily_tx_limit", 3)

	v.SetEnvPrefix("solubank")
	v.AutomaticEnv()

	return &Config{
		DBHost:     v.GetString("db_host"),
		DBPort:     v.GetString("db_port"),
		DBUser:     v.GetString("db_user"),
		DBPassword: v.GetString("db_password"),
		DBName:     v.GetString("db_name"),
		ServerPort: v.GetString("server_port"),

		SuspiciousAmount: v.GetString("suspicious_amount"),
		HomeCountry:      v.GetString("home_country"),
		DormantDays:      v.GetInt("dormant_days"),
		DailyTxLimit:     v.GetInt("daily_tx_limit"),
	}
}

func (c *Config) GetDBConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}
