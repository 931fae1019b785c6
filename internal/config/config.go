package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database
	Auth        Auth

	Storage  Storage  `envPrefix:"STORAGE_"`
	RabbitMQ RabbitMQ `envPrefix:"RABBITMQ_"`
	Cache    Cache    `envPrefix:"CACHE_"`
	Outbox   Outbox   `envPrefix:"OUTBOX_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

type Database struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite"` // sqlite | mysql
	URL    string `env:"DATABASE_URL" envDefault:"somthing.db"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET,required"`
}

type Storage struct {
	Dir       string `env:"DIR" envDefault:"storage"`
	PublicURL string `env:"PUBLIC_URL" envDefault:"http://localhost:8080/storage"`
}

type RabbitMQ struct {
	URL              string `env:"URL"`
	ActivityExchange string `env:"ACTIVITY_EXCHANGE" envDefault:"admin_activity"`
}

type Cache struct {
	TTL time.Duration `env:"TTL" envDefault:"5m"`
}

type Outbox struct {
	Interval  time.Duration `env:"INTERVAL" envDefault:"30s"`
	BatchSize int           `env:"BATCH" envDefault:"50"`
}
