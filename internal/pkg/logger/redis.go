package logger

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisSlowThreshold 超过该耗时的命令按 Warn 记录
const redisSlowThreshold = 100 * time.Millisecond

// protectedCommands 参数中含凭据，不落日志
var protectedCommands = map[string]struct{}{
	"auth":  {},
	"hello": {},
}

type RedisLoggerHook struct{}

func NewRedisLogger() *RedisLoggerHook {
	return &RedisLoggerHook{}
}

// DialHook 记录建立连接失败的事件
func (s *RedisLoggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "Redis Dial Error",
				log.String("addr", addr),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err),
			)
		}
		return conn, err
	}
}

// ProcessHook 记录单条命令的错误和慢查询
func (s *RedisLoggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)

		fields := []any{
			log.String("command", cmd.Name()),
			log.String("args", commandArgs(cmd)),
			log.Duration("latency", elapsed),
		}

		switch {
		case err != nil && !ignorableRedisError(cmd.Name(), err):
			log.ErrorContext(ctx, "Redis Error", append(fields, log.Any("err", err))...)
		case err == nil && elapsed > redisSlowThreshold:
			log.WarnContext(ctx, "Redis Slow", fields...)
		}
		return err
	}
}

// ProcessPipelineHook 记录管道命令的错误
func (s *RedisLoggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			log.ErrorContext(ctx, "Redis Pipeline Error",
				log.Int("cmd_count", len(cmds)),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err))
		}
		return err
	}
}

func commandArgs(cmd redis.Cmder) string {
	if _, ok := protectedCommands[cmd.Name()]; ok {
		return "[PROTECTED]"
	}
	return fmt.Sprint(cmd.Args())
}

// ignorableRedisError key 不存在以及旧版本不支持 CLIENT SETINFO 不算错误
func ignorableRedisError(name string, err error) bool {
	if errors.Is(err, redis.Nil) || err.Error() == "ERR no such key" {
		return true
	}
	return name == "client" && strings.Contains(err.Error(), "setinfo")
}
