package config

import "time"

type JobsConfig struct {
	InventoryQueue       string        `yaml:"inventory_queue"`
	WorkerEnabled        bool          `yaml:"worker_enabled"`
	PollTimeout          time.Duration `yaml:"poll_timeout"`
	DefaultLowStockLevel int           `yaml:"default_low_stock_level"`
	CommissionRate       float64       `yaml:"commission_rate"`
}

type KeepAliveConfig struct {
	URL      string        `yaml:"url"`
	Schedule string        `yaml:"schedule"`
	Timeout  time.Duration `yaml:"timeout"`
}

func loadJobsConfig() *JobsConfig {
	return &JobsConfig{
		InventoryQueue:       getEnv("INVENTORY_QUEUE", "queue:inventory"),
		WorkerEnabled:        getEnvAsBool("INVENTORY_WORKER_ENABLED", true),
		PollTimeout:          getEnvAsDuration("INVENTORY_WORKER_POLL_TIMEOUT", 5*time.Second),
		DefaultLowStockLevel: getEnvAsInt("INVENTORY_LOW_STOCK_LEVEL", 5),
		// used until an admin stores platform_commission_rate in settings
		CommissionRate: getEnvAsFloat64("PLATFORM_COMMISSION_RATE", 0.1),
	}
}

func loadKeepAliveConfig() *KeepAliveConfig {
	return &KeepAliveConfig{
		URL:      getEnv("KEEPALIVE_URL", ""),
		Schedule: getEnv("KEEPALIVE_CRON", "@every 14m"),
		Timeout:  getEnvAsDuration("KEEPALIVE_TIMEOUT", 10*time.Second),
	}
}
