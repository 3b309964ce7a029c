package database

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Options selects and configures a store driver.
type Options struct {
	Driver        string
	SQLitePath    string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisPrefix   string
}

// Open builds the KVStore named by opts.Driver.
func Open(opts Options, log *zap.Logger) (KVStore, error) {
	switch opts.Driver {
	case "", "sqlite":
		return NewSQLiteStore(opts.SQLitePath, log)
	case "postgres":
		db, err := ConnectDB(opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db, log)
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: opts.RedisAddr, Password: opts.RedisPassword})
		log.Info("✅ redis store ready", zap.String("addr", opts.RedisAddr))
		return NewRedisStore(client, opts.RedisPrefix), nil
	case "memory":
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
}
