package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const AVATAR_SIZE = 96

var Conf *viper.Viper

func init() {
	Conf = viper.New()
	Conf.SetTypeByDefaultValue(true)

	Conf.SetDefault("port", "8080")
	Conf.SetDefault("ginMode", "debug")
	Conf.SetDefault("dbName", "vk-webportal")
	Conf.SetDefault("feOrigins", "http://localhost:3000")
	Conf.SetDefault("storageBucket", "vk-webportal.appspot.com")
	Conf.SetDefault("corsMaxAge", 12*time.Hour)
	Conf.SetDefault("notifStreamHeartbeat", 30*time.Second)

	// load .env if it exists (ignore if it does not)
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Fatalf("config.godotenv: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(.env): %v", err)
	}
	Conf.AutomaticEnv()
}

func Port() string {
	return Conf.GetString("port")
}

func GinMode() string {
	return Conf.GetString("ginMode")
}

func DBName() string {
	return Conf.GetString("dbName")
}

// DBAddr returns the user:pass@host triple used to build the MySQL DSN.
func DBAddr() (user, pass, host string) {
	return Conf.GetString("db_user"), Conf.GetString("db_pass"), Conf.GetString("db_host")
}

func StorageBucket() string {
	return Conf.GetString("storageBucket")
}

// FEOrigins returns the allowed CORS origins, split on ";".
func FEOrigins() []string {
	return strings.Split(Conf.GetString("feOrigins"), ";")
}

func CORSMaxAge() time.Duration {
	return Conf.GetDuration("corsMaxAge")
}

func NotifStreamHeartbeat() time.Duration {
	return Conf.GetDuration("notifStreamHeartbeat")
}
