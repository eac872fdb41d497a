package models

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Redis    RedisConfig
	NSQ      NSQConfig
	Dispatch DispatchConfig
	Pricing  PricingConfig
	Rides    RidesConfig
	Logger   LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NSQConfig contains NSQ connection configuration
type NSQConfig struct {
	NSQDAddress      string
	LookupdAddresses []string
}

// DispatchConfig contains dispatch loop configuration
type DispatchConfig struct {
	SearchRadiusKm float64 // radius in kilometers for vehicle lookups
	BackoffSeconds int     // wait between empty lookups
	MaxAttempts    int     // empty lookups before the ride is auto-cancelled; 0 disables
}

// PricingConfig contains the parameters of the price function
type PricingConfig struct {
	BaseFare  float64
	PerKmRate float64
	Currency  string
}

// RidesConfig contains ride retention configuration
type RidesConfig struct {
	RetentionHours int // TTL applied to finished and cancelled rides
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}
