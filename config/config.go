package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	ServiceName string
	LoggerLevel string

	AppPort int

	StorageDriver    string
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	SessionDriver string
	SessionTTL    time.Duration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	TelegramBotToken string
	AdminIDs         []int64
	AdminUsername    string
	SupportUsername  string

	SMSAPIKey   string
	SMSTemplate string
	SMSBaseURL  string
	OTPLength   int

	PaymentCardNumber string
	PaymentCardHolder string

	AllowedCities   []string
	ResumeMinLength int

	FileStoreDriver string
	ReceiptsDir     string
	S3Endpoint      string
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string

	KafkaBrokers []string
	KafkaTopic   string

	DigestCron string
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "storebot"))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "debug"))
	cfg.AppPort = cast.ToInt(getOrReturnDefault("APP_PORT", 8080))

	cfg.StorageDriver = cast.ToString(getOrReturnDefault("STORAGE_DRIVER", "postgres"))
	cfg.PostgresHost = cast.ToString(getOrReturnDefault("POSTGRES_HOST", "localhost"))
	cfg.PostgresPort = cast.ToString(getOrReturnDefault("POSTGRES_PORT", "5432"))
	cfg.PostgresUser = cast.ToString(getOrReturnDefault("POSTGRES_USER", "postgres"))
	cfg.PostgresPassword = cast.ToString(getOrReturnDefault("POSTGRES_PASSWORD", "1234"))
	cfg.PostgresDB = cast.ToString(getOrReturnDefault("POSTGRES_DB", "storebot"))

	cfg.SessionDriver = cast.ToString(getOrReturnDefault("SESSION_DRIVER", "memory"))
	cfg.SessionTTL = cast.ToDuration(getOrReturnDefault("SESSION_TTL", "0s"))
	cfg.RedisHost = cast.ToString(getOrReturnDefault("REDIS_HOST", "localhost"))
	cfg.RedisPort = cast.ToString(getOrReturnDefault("REDIS_PORT", "6379"))
	cfg.RedisPassword = cast.ToString(getOrReturnDefault("REDIS_PASSWORD", ""))
	cfg.RedisDB = cast.ToInt(getOrReturnDefault("REDIS_DB", 0))

	cfg.TelegramBotToken = cast.ToString(getOrReturnDefault("TG_BOT_TOKEN", ""))
	cfg.AdminIDs = parseIDs(cast.ToString(getOrReturnDefault("ADMIN_IDS", "")))
	cfg.AdminUsername = cast.ToString(getOrReturnDefault("ADMIN_USERNAME", ""))
	cfg.SupportUsername = cast.ToString(getOrReturnDefault("SUPPORT_USERNAME", "Arshya_Alaee"))

	cfg.SMSAPIKey = cast.ToString(getOrReturnDefault("SMS_API_KEY", ""))
	cfg.SMSTemplate = cast.ToString(getOrReturnDefault("SMS_TEMPLATE", "verify"))
	cfg.SMSBaseURL = cast.ToString(getOrReturnDefault("SMS_BASE_URL", "https://api.kavenegar.com"))
	cfg.OTPLength = cast.ToInt(getOrReturnDefault("OTP_LENGTH", 4))

	cfg.PaymentCardNumber = cast.ToString(getOrReturnDefault("PAYMENT_CARD_NUMBER", "6219861812467917"))
	cfg.PaymentCardHolder = cast.ToString(getOrReturnDefault("PAYMENT_CARD_HOLDER", "بلو بانک - حسین گرجی"))

	cfg.AllowedCities = splitList(cast.ToString(getOrReturnDefault("ALLOWED_CITIES", "تهران")))
	cfg.ResumeMinLength = cast.ToInt(getOrReturnDefault("RESUME_MIN_LENGTH", 50))

	cfg.FileStoreDriver = cast.ToString(getOrReturnDefault("FILE_STORE_DRIVER", "local"))
	cfg.ReceiptsDir = cast.ToString(getOrReturnDefault("RECEIPTS_DIR", "receipts"))
	cfg.S3Endpoint = cast.ToString(getOrReturnDefault("S3_ENDPOINT", ""))
	cfg.S3Region = cast.ToString(getOrReturnDefault("S3_REGION", "auto"))
	cfg.S3Bucket = cast.ToString(getOrReturnDefault("S3_BUCKET", ""))
	cfg.S3AccessKey = cast.ToString(getOrReturnDefault("S3_ACCESS_KEY", ""))
	cfg.S3SecretKey = cast.ToString(getOrReturnDefault("S3_SECRET_KEY", ""))

	cfg.KafkaBrokers = splitList(cast.ToString(getOrReturnDefault("KAFKA_BROKERS", "")))
	cfg.KafkaTopic = cast.ToString(getOrReturnDefault("KAFKA_TOPIC", "storebot.notifications"))

	cfg.DigestCron = cast.ToString(getOrReturnDefault("DIGEST_CRON", "0 9 * * *"))

	return cfg
}

func (c Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser,
		c.PostgresPassword,
		c.PostgresHost,
		c.PostgresPort,
		c.PostgresDB,
	)
}

func (c Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseIDs(raw string) []int64 {
	var ids []int64
	for _, part := range splitList(raw) {
		if id := cast.ToInt64(part); id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
