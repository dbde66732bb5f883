package service

type Config struct {
	DatabaseUri             string  `envconfig:"DATABASE_URI" required:"true"`
	DatabaseMaxConns        int     `envconfig:"DATABASE_MAX_CONNS" default:"10"`
	DatabaseMaxIdleConns    int     `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	DatabaseConnMaxLifetime int     `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // 30 minutes
	SentryDSN               string  `envconfig:"SENTRY_DSN"`
	SentryTracesSampleRate  float64 `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
	LogFilePath             string  `envconfig:"LOG_FILE_PATH"`
	JWTSecret               []byte  `envconfig:"JWT_SECRET" required:"true"`
	JWTAccessTokenExpiry    int     `envconfig:"JWT_ACCESS_EXPIRY" default:"172800"` // in seconds, default 2 days
	AdminToken              string  `envconfig:"ADMIN_TOKEN"`
	// CronToken guards the reconcile trigger and the payment feed ingest.
	// Leaving it empty keeps those endpoints open for trusted-network
	// schedulers, matching how the service has historically been deployed.
	CronToken          string `envconfig:"CRON_TOKEN"`
	Host               string `envconfig:"HOST" default:"localhost:3000"`
	Port               int    `envconfig:"PORT" default:"3000"`
	DefaultRateLimit   int    `envconfig:"DEFAULT_RATE_LIMIT" default:"10"`
	StrictRateLimit    int    `envconfig:"STRICT_RATE_LIMIT" default:"10"`
	BurstRateLimit     int    `envconfig:"BURST_RATE_LIMIT" default:"1"`
	EnablePrometheus   bool   `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort     int    `envconfig:"PROMETHEUS_PORT" default:"9092"`
	WebhookUrl         string `envconfig:"WEBHOOK_URL"`

	SmsGatewayUrl    string `envconfig:"SMS_GATEWAY_URL"`
	SmsGatewayApiKey string `envconfig:"SMS_GATEWAY_API_KEY"`
	SmsSenderID      string `envconfig:"SMS_SENDER_ID" default:"MessHub"`

	StudentsJSONPath string `envconfig:"STUDENTS_JSON_PATH" default:"students.json"`

	RabbitMQUri                string `envconfig:"RABBITMQ_URI"`
	RabbitMQSettlementExchange string `envconfig:"RABBITMQ_SETTLEMENT_EXCHANGE" default:"messhub_settlement"`

	Branding BrandingConfig
}

type BrandingConfig struct {
	Title string `envconfig:"BRANDING_TITLE" default:"MessHub - hostel & mess ledger"`
	Desc  string `envconfig:"BRANDING_DESC" default:"Rent tracking and payment reconciliation for hostels"`
	Url   string `envconfig:"BRANDING_URL" default:"https://messhub.example.com"`
}
