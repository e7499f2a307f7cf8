package jobs

import (
	"context"
	"time"
)

// HoldExpirer переводит зависшие pending брони в expired
type HoldExpirer interface {
	ExpireStaleHolds(ctx context.Context, ttl time.Duration) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
