package hook

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/qs3c/alloc_server/internal/pkg/metrics"
	"github.com/qs3c/alloc_server/internal/repository"
)

var (
	ErrUnknownHook   = errors.New("unknown expire hook")
	ErrDuplicateHook = errors.New("expire hook already registered")
)

// Func 订阅进入 Expired 时执行的回调。
// stores 绑定在保存订阅的事务上，返回错误会回滚整个保存。
type Func func(ctx context.Context, stores *repository.Stores, subscriptionID int64) error

// Registry 回调名称到实现的映射
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

func (r *Registry) Register(name string, fn Func) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.funcs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateHook, name)
	}
	r.funcs[name] = fn
	return nil
}

// Names 已注册的回调名称
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type namedFunc struct {
	name string
	fn   Func
}

func (r *Registry) resolve(names []string) ([]namedFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resolved := make([]namedFunc, 0, len(names))
	for _, name := range names {
		fn, ok := r.funcs[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownHook, name)
		}
		resolved = append(resolved, namedFunc{name: name, fn: fn})
	}
	return resolved, nil
}

// Dispatcher 按配置顺序执行过期回调
type Dispatcher struct {
	hooks  []namedFunc
	logger *zap.Logger
}

// NewDispatcher 名称在启动时解析，未注册的名称返回 ErrUnknownHook
func NewDispatcher(registry *Registry, names []string, logger *zap.Logger) (*Dispatcher, error) {
	hooks, err := registry.resolve(names)
	if err != nil {
		return nil, err
	}
	return &Dispatcher{hooks: hooks, logger: logger}, nil
}

// Names 生效的回调，按执行顺序
func (d *Dispatcher) Names() []string {
	names := make([]string, len(d.hooks))
	for i, h := range d.hooks {
		names[i] = h.name
	}
	return names
}

// OnExpire 依次执行每个回调一次，遇到错误立即停止
func (d *Dispatcher) OnExpire(ctx context.Context, stores *repository.Stores, subscriptionID int64) error {
	for _, h := range d.hooks {
		err := h.fn(ctx, stores, subscriptionID)
		metrics.ExpireHookRuns.WithLabelValues(h.name, metrics.Result(err)).Inc()
		if err != nil {
			d.logger.Error("expire hook failed",
				zap.String("hook", h.name),
				zap.Int64("subscription_id", subscriptionID),
				zap.Error(err),
			)
			return fmt.Errorf("expire hook %s: %w", h.name, err)
		}
		d.logger.Debug("expire hook done",
			zap.String("hook", h.name),
			zap.Int64("subscription_id", subscriptionID),
		)
	}
	return nil
}
