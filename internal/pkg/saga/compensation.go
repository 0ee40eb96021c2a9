package saga

import (
	"context"
	"fmt"
	log "log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTimeout 补偿动作脱离请求取消后的超时时间
const DefaultTimeout = 10 * time.Second

// Compensation 补偿动作：最多执行一次，panic 不会越过自身边界
type Compensation struct {
	name    string
	fn      func(ctx context.Context) error
	timeout time.Duration

	once sync.Once
	ran  atomic.Bool
	err  error
}

func NewCompensation(name string, fn func(ctx context.Context) error) *Compensation {
	return &Compensation{name: name, fn: fn, timeout: DefaultTimeout}
}

// WithTimeout 覆盖默认超时
func (c *Compensation) WithTimeout(d time.Duration) *Compensation {
	if d > 0 {
		c.timeout = d
	}
	return c
}

// Run 执行补偿；重复调用返回第一次的结果。
// 补偿运行在脱离请求取消的 context 上，请求超时后仍会尝试回收。
func (c *Compensation) Run(ctx context.Context) error {
	c.once.Do(func() {
		c.ran.Store(true)
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				c.err = fmt.Errorf("compensation %s panicked: %v", c.name, r)
			}
		}()
		c.err = c.fn(runCtx)
	})
	return c.err
}

// Ran 补偿是否已经执行过
func (c *Compensation) Ran() bool {
	return c.ran.Load()
}

func (c *Compensation) Name() string {
	return c.name
}

// Step 执行 action，失败时运行补偿。
// 补偿的错误只记录日志，调用方看到的始终是 action 的错误。
func Step[T any](ctx context.Context, action func(ctx context.Context) (T, error), comp *Compensation) (T, error) {
	v, err := action(ctx)
	if err == nil || comp == nil {
		return v, err
	}
	if cErr := comp.Run(ctx); cErr != nil {
		log.WarnContext(ctx, "compensation failed",
			"compensation", comp.name,
			"cause", err,
			"err", cErr,
		)
	}
	return v, err
}
