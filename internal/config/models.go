package config

// ServerConfig represents the configuration for the intake server
type ServerConfig struct {
	IntakeType    string
	ListenAddress string
	IngestUserID  string
	MaxBodySize   int
}

// StoreConfig represents the configuration for the backing store
type StoreConfig struct {
	Type        string
	PostgresDSN string
}

// RedisConfig represents the configuration for the Redis cache backend
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// GetServer returns the intake server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		IntakeType:    c.GetString("server.intake_type"),
		ListenAddress: c.GetString("server.listen_address"),
		IngestUserID:  c.GetString("server.ingest_user_id"),
		MaxBodySize:   c.GetInt("server.max_body_size"),
	}
}

// GetStore returns the store configuration
func (c *Config) GetStore() StoreConfig {
	return StoreConfig{
		Type:        c.GetString("store.type"),
		PostgresDSN: c.GetString("store.postgres_dsn"),
	}
}

// GetRedis returns the Redis cache configuration
func (c *Config) GetRedis() RedisConfig {
	return RedisConfig{
		Address:  c.GetString("cache.redis_address"),
		Password: c.GetString("cache.redis_password"),
		DB:       c.GetInt("cache.redis_db"),
	}
}
