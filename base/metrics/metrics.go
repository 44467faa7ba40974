/*Package metrics wraps datadog-go to record service metrics.
Naming convention of metric keys:
- Internal process time: *.time
- External latency: *.latency
- Error: *.err
- Counter of business events: plain noun, e.g. market.sale
*/
package metrics

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/x-xyz/nftmarket/base/env"
)

const (
	// TagValueNA is used for tags whose values are not available.
	TagValueNA = "n/a"
)

// Ender provides interface for BumpTime
type Ender interface {
	End()
}

// Service provides interface for metrics
type Service interface {
	BumpAvg(key string, val float64, tags ...string)
	BumpSum(key string, val float64, tags ...string)
	BumpHistogram(key string, val float64, tags ...string)

	BumpTime(key string, tags ...string) Ender
}

// Option is functional parameter for metrics option
type Option func(*opt)

type opt struct {
	// withPodName sends metrics tagged by pod, default true
	withPodName bool
}

// WithoutPodName drops the pod tag, use it when grouping by pod is not needed
func WithoutPodName() Option {
	return func(o *opt) {
		o.withPodName = false
	}
}

// New creates a metric client which prefixes every key with pkgName
func New(pkgName string, options ...Option) Service {
	o := opt{
		withPodName: true,
	}
	for _, option := range options {
		option(&o)
	}

	return &Metrics{
		pkgName: pkgName,
		datadog: DDMetrics{
			baseTags: func() []string {
				// "host:" removes the host tag added by the agent
				tags := []string{
					"host:",
					"env:" + envName(),
					"app:" + viper.GetString("app_name"),
				}
				if o.withPodName {
					tags = append(tags, "pod:"+env.PodName())
				}
				return tags
			},
		},
	}
}

// Metrics prefixes keys with the package name and guards every bump against panics.
type Metrics struct {
	pkgName string
	datadog DDMetrics
}

func (mt *Metrics) key(key string) string {
	return mt.pkgName + "." + key
}

func (mt *Metrics) recoverBump(typ, key string, tags []string) {
	if err := recover(); err != nil {
		mt.datadog.BumpSum(typ+".panic", 1, ddRate, "tag", mt.key(key)+"#"+strings.Join(tags, "#"))
	}
}

// BumpAvg bumps the average for the given key.
func (mt *Metrics) BumpAvg(key string, val float64, tags ...string) {
	defer mt.recoverBump("bumpavg", key, tags)
	mt.datadog.BumpAvg(mt.key(key), val, ddRate, tags...)
}

// BumpSum bumps the sum for the given key.
func (mt *Metrics) BumpSum(key string, val float64, tags ...string) {
	defer mt.recoverBump("bumpsum", key, tags)
	mt.datadog.BumpSum(mt.key(key), val, ddRate, tags...)
}

// BumpHistogram bumps the histogram for the given key.
func (mt *Metrics) BumpHistogram(key string, val float64, tags ...string) {
	defer mt.recoverBump("bumphistogram", key, tags)
	mt.datadog.BumpHistogram(mt.key(key), val, ddRate, tags...)
}

// BumpTime starts a timer, call End on the result to record it:
//
//     defer s.BumpTime("my.function").End()
func (mt *Metrics) BumpTime(key string, tags ...string) Ender {
	return &timeTracker{
		ddEnd: mt.datadog.BumpTime(mt.key(key), ddRate, tags...),
		panicHandler: func() {
			mt.datadog.BumpSum("bumptime.panic", 1, ddRate, "tag", mt.key(key)+"#"+strings.Join(tags, "#"))
		},
		started: time.Now(),
	}
}

type timeTracker struct {
	ddEnd        Ender
	panicHandler func()
	started      time.Time
}

func (t *timeTracker) End() {
	defer func() {
		if err := recover(); err != nil {
			t.panicHandler()
		}
	}()
	t.ddEnd.End()
}

func envName() string {
	if name := viper.GetString("env_name"); name != "" {
		return name
	}
	return env.EnvName()
}
