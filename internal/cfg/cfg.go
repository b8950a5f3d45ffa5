package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
)

// Config — конфигурация процесса дашборда.
type Config struct {
	API     *APICfg
	Http    *HTTPConfig
	Session *SessionCfg
	Cache   *CacheCfg
	Redis   *RedisCfg
	Upload  *UploadCfg
	Search  *SearchCfg
	Log     *LogCfg
}

// BackendConfig — конфигурация mock API.
type BackendConfig struct {
	Http  *HTTPConfig
	Db    *PGDBCfg
	Kafka *KafkaCfg // nil, если KAFKA_BROKERS не задан
	Auth  *AuthCfg
	Log   *LogCfg
}

type APICfg struct {
	BaseURL    string        // Базовый адрес удалённого API
	Timeout    time.Duration // Таймаут одного запроса
	MaxRetries int           // Повторы идемпотентных GET при сетевых ошибках
	RetryBase  time.Duration
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type SessionCfg struct {
	CookieName string
	MaxAge     time.Duration
	BoltPath   string // Файл, в котором хранится cookie сессии между перезапусками
	Secure     bool
}

type CacheCfg struct {
	SnapshotEnabled bool // Сохранять записи кэша в Redis
	SnapshotTTL     time.Duration
	KeyPrefix       string
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
}

type UploadCfg struct {
	Provider   string // cloudinary | minio
	Cloudinary *CloudinaryCfg
	Minio      *MinIOCfg
	MaxSize    int64
}

type CloudinaryCfg struct {
	CloudName    string
	UploadPreset string
	Endpoint     string // https://api.cloudinary.com/v1_1
}

type MinIOCfg struct {
	MinioEndpoint     string // Адрес конечной точки MinIO
	BucketName        string // Бакет для изображений товаров
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
	PublicBaseURL     string // Адрес, по которому браузер получает объекты
}

type SearchCfg struct {
	Debounce          time.Duration
	PageSize          int
	CategoryPageSize  int
	ProductsLimit     int // лимит по умолчанию для списка товаров
	CategoriesLimit   int // лимит по умолчанию для списка категорий
	NotificationsSize int
}

type LogCfg struct {
	Level     string
	File      string
	MaxSizeMB int
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	MigrationsURL string // источник для golang-migrate, по умолчанию file://db/migrations
}

// DSN собирает строку подключения к PostgreSQL.
func (c *PGDBCfg) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

type AuthCfg struct {
	JWTSecret string
	TokenTTL  time.Duration
	Issuer    string
}

// Load загружает конфигурацию дашборда. Переменные из .env (если файл есть) не перекрывают уже заданные.
func Load(log logger.Logger) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	api, err := loadAPICfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log, "8080")
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	session, err := loadSessionCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cache, err := loadCacheCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var redis *RedisCfg
	if cache.SnapshotEnabled {
		redis, err = loadRedisCfg(log)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	upload, err := loadUploadCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	search, err := loadSearchCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	logCfg, err := loadLogCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		API:     api,
		Http:    http,
		Session: session,
		Cache:   cache,
		Redis:   redis,
		Upload:  upload,
		Search:  search,
		Log:     logCfg,
	}, nil
}

// LoadBackend загружает конфигурацию mock API.
func LoadBackend(log logger.Logger) (*BackendConfig, error) {
	if err := loadDotEnv(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log, "8090")
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var kafka *KafkaCfg
	if os.Getenv("KAFKA_BROKERS") != "" {
		kafka, err = loadKafkaCfg()
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	auth, err := loadAuthCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	logCfg, err := loadLogCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &BackendConfig{
		Http:  http,
		Db:    db,
		Kafka: kafka,
		Auth:  auth,
		Log:   logCfg,
	}, nil
}

func loadDotEnv() error {
	path := getEnvOrDefault("DOTENV_PATH", ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func loadAPICfg(log logger.Logger) (*APICfg, error) {
	const (
		defaultBaseURL    = "https://68f24e96b36f9750deec2e73.mockapi.io/api/v1"
		defaultTimeout    = 10 * time.Second
		defaultMaxRetries = 2
		defaultRetryBase  = 200 * time.Millisecond
	)

	timeout, err := parseDurationEnv("API_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid API_TIMEOUT")
		return nil, err
	}

	maxRetries, err := parseIntEnv("API_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid API_MAX_RETRIES")
		return nil, err
	}

	retryBase, err := parseDurationEnv("API_RETRY_BASE", defaultRetryBase)
	if err != nil {
		log.Errorf(err, "invalid API_RETRY_BASE")
		return nil, err
	}

	return &APICfg{
		BaseURL:    strings.TrimRight(getEnvOrDefault("API_BASE_URL", defaultBaseURL), "/"),
		Timeout:    timeout,
		MaxRetries: maxRetries,
		RetryBase:  retryBase,
	}, nil
}

func loadHTTPConfig(log logger.Logger, defaultPort string) (*HTTPConfig, error) {
	const (
		defaultReadTimeout = 5 * time.Second
		// PUT/DELETE ждут решения пользователя в диалоге подтверждения
		defaultWriteTimeout = 5 * time.Minute
		defaultIdleTimeout  = 60 * time.Second
	)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         getEnvOrDefault("HTTP_PORT", defaultPort),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadSessionCfg(log logger.Logger) (*SessionCfg, error) {
	const (
		defaultCookieName = "token"
		defaultMaxAge     = 7 * 24 * time.Hour
		defaultBoltPath   = "session.db"
	)

	maxAge, err := parseDurationEnv("SESSION_MAX_AGE", defaultMaxAge)
	if err != nil {
		log.Errorf(err, "invalid SESSION_MAX_AGE")
		return nil, err
	}

	secure, err := parseBoolEnv("SESSION_COOKIE_SECURE", false)
	if err != nil {
		log.Errorf(err, "invalid SESSION_COOKIE_SECURE")
		return nil, err
	}

	return &SessionCfg{
		CookieName: getEnvOrDefault("SESSION_COOKIE_NAME", defaultCookieName),
		MaxAge:     maxAge,
		BoltPath:   getEnvOrDefault("SESSION_BOLT_PATH", defaultBoltPath),
		Secure:     secure,
	}, nil
}

func loadCacheCfg(log logger.Logger) (*CacheCfg, error) {
	const defaultSnapshotTTL = 10 * time.Minute

	enabled, err := parseBoolEnv("CACHE_SNAPSHOT_ENABLED", false)
	if err != nil {
		log.Errorf(err, "invalid CACHE_SNAPSHOT_ENABLED")
		return nil, err
	}

	ttl, err := parseDurationEnv("CACHE_SNAPSHOT_TTL", defaultSnapshotTTL)
	if err != nil {
		log.Errorf(err, "invalid CACHE_SNAPSHOT_TTL")
		return nil, err
	}

	return &CacheCfg{
		SnapshotEnabled: enabled,
		SnapshotTTL:     ttl,
		KeyPrefix:       getEnvOrDefault("CACHE_KEY_PREFIX", "dashboard:"),
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
	}, nil
}

func loadUploadCfg(log logger.Logger) (*UploadCfg, error) {
	const (
		defaultProvider   = "cloudinary"
		defaultEndpoint   = "https://api.cloudinary.com/v1_1"
		defaultMaxSize    = 10 << 20
		defaultMinio      = "minio:9000"
		defaultBucketName = "product-images"
	)

	provider := strings.ToLower(getEnvOrDefault("UPLOAD_PROVIDER", defaultProvider))
	if provider != "cloudinary" && provider != "minio" {
		err := e.Wrap(provider, e.ErrUnsupportedUploader)
		log.Errorf(err, "invalid UPLOAD_PROVIDER")
		return nil, err
	}

	maxSize, err := parseIntEnv("UPLOAD_MAX_SIZE", defaultMaxSize)
	if err != nil {
		log.Errorf(err, "invalid UPLOAD_MAX_SIZE")
		return nil, err
	}

	useSSL, err := parseBoolEnv("MINIO_USE_SSL", false)
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	endpoint := getEnvOrDefault("MINIO_ENDPOINT", defaultMinio)
	scheme := "http"
	if useSSL {
		scheme = "https"
	}

	return &UploadCfg{
		Provider: provider,
		MaxSize:  int64(maxSize),
		Cloudinary: &CloudinaryCfg{
			CloudName:    getEnv("CLOUDINARY_CLOUD_NAME"),
			UploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET"),
			Endpoint:     strings.TrimRight(getEnvOrDefault("CLOUDINARY_ENDPOINT", defaultEndpoint), "/"),
		},
		Minio: &MinIOCfg{
			MinioEndpoint:     endpoint,
			BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucketName),
			MinioRootUser:     getEnv("MINIO_ROOT_USER"),
			MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
			MinioUseSSL:       useSSL,
			PublicBaseURL:     strings.TrimRight(getEnvOrDefault("MINIO_PUBLIC_URL", scheme+"://"+endpoint), "/"),
		},
	}, nil
}

func loadSearchCfg(log logger.Logger) (*SearchCfg, error) {
	const (
		defaultDebounce          = 350 * time.Millisecond
		defaultPageSize          = 9
		defaultCategoryPageSize  = 9
		defaultProductsLimit     = 10
		defaultCategoriesLimit   = 20
		defaultNotificationsSize = 50
	)

	debounce, err := parseDurationEnv("SEARCH_DEBOUNCE", defaultDebounce)
	if err != nil {
		log.Errorf(err, "invalid SEARCH_DEBOUNCE")
		return nil, err
	}

	pageSize, err := parseIntEnv("PAGE_SIZE", defaultPageSize)
	if err != nil {
		log.Errorf(err, "invalid PAGE_SIZE")
		return nil, err
	}

	return &SearchCfg{
		Debounce:          debounce,
		PageSize:          pageSize,
		CategoryPageSize:  defaultCategoryPageSize,
		ProductsLimit:     defaultProductsLimit,
		CategoriesLimit:   defaultCategoriesLimit,
		NotificationsSize: defaultNotificationsSize,
	}, nil
}

func loadLogCfg() (*LogCfg, error) {
	const defaultMaxSizeMB = 50

	maxSize, err := parseIntEnv("LOG_MAX_SIZE_MB", defaultMaxSizeMB)
	if err != nil {
		return nil, e.Wrap("LOG_MAX_SIZE_MB", err)
	}

	return &LogCfg{
		Level:     getEnvOrDefault("LOG_LEVEL", "info"),
		File:      getEnv("LOG_FILE"),
		MaxSizeMB: maxSize,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode = "disable"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:          getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:          getEnvOrDefault("POSTGRES_PORT", defaultPort),
		MigrationsURL: getEnvOrDefault("MIGRATIONS_URL", "file://db/migrations"),
		User:          user,
		Password:      password,
		DBName:        dbName,
		SSLMode:       getEnvOrDefault("SSL_MODE", defaultSSLMode),
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultTopic             = "product-changes"
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	brokers := strings.Split(getEnv("KAFKA_BROKERS"), ",")

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

func loadAuthCfg(log logger.Logger) (*AuthCfg, error) {
	const (
		defaultTokenTTL = 7 * 24 * time.Hour
		defaultIssuer   = "product-dashboard-mockapi"
	)

	secret := getEnv("JWT_SECRET")
	if secret == "" {
		err := fmt.Errorf("JWT_SECRET is required")
		log.Errorf(err, "missing JWT_SECRET")
		return nil, err
	}

	ttl, err := parseDurationEnv("JWT_TTL", defaultTokenTTL)
	if err != nil {
		log.Errorf(err, "invalid JWT_TTL")
		return nil, err
	}

	return &AuthCfg{
		JWTSecret: secret,
		TokenTTL:  ttl,
		Issuer:    getEnvOrDefault("JWT_ISSUER", defaultIssuer),
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return b, nil
}
