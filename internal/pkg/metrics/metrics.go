package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubscriptionSaves 订阅写入次数，op: create, update, delete
	SubscriptionSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alloc",
		Name:      "subscription_saves_total",
		Help:      "Number of persisted subscription mutations.",
	}, []string{"op"})

	// ValidationFailures 校验拒绝次数，entity: subscription, attribute
	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alloc",
		Name:      "validation_failures_total",
		Help:      "Number of writes rejected by record validation.",
	}, []string{"entity"})

	// ExpireHookRuns 过期回调执行次数，result: ok, error
	ExpireHookRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alloc",
		Name:      "expire_hook_runs_total",
		Help:      "Number of expiry callback invocations.",
	}, []string{"hook", "result"})

	// UsageUpdates 用量更新次数
	UsageUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "alloc",
		Name:      "usage_updates_total",
		Help:      "Number of attribute usage updates.",
	}, []string{"result"})
)

// Result 把 error 转为 result 标签值
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
