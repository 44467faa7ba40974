package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/viney-shih/goroutines"
	"github.com/x-xyz/nftmarket/base/backoff"
	"github.com/x-xyz/nftmarket/base/ctx"
	"github.com/x-xyz/nftmarket/domain"
)

const (
	defaultWorkers  = 4
	defaultAttempts = 3
	scheduleTimeout = time.Second
)

type Config struct {
	BotKey    string `mapstructure:"botKey"`
	ChannelId string `mapstructure:"channelId"`
	Workers   int    `mapstructure:"workers"`
	Attempts  int    `mapstructure:"attempts"`
}

// Service is a Notifier owning a worker pool, Close releases it
type Service interface {
	domain.Notifier
	Close()
}

type sender interface {
	ChannelMessageSend(channelID string, content string) (*discordgo.Message, error)
}

type impl struct {
	channelId  string
	session    sender
	pool       *goroutines.Pool
	attempts   int
	retryStart time.Duration
}

// New posts every message to the configured channel. With an empty bot key
// messages are only logged.
func New(cfg Config) (Service, error) {
	if cfg.BotKey == "" {
		return &logNotifier{}, nil
	}

	session, err := discordgo.New(fmt.Sprintf("Bot %s", cfg.BotKey))
	if err != nil {
		return nil, err
	}
	return newWithSender(cfg, session), nil
}

func newWithSender(cfg Config, s sender) *impl {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.Attempts <= 0 {
		cfg.Attempts = defaultAttempts
	}
	return &impl{
		channelId:  cfg.ChannelId,
		session:    s,
		pool:       goroutines.NewPool(cfg.Workers, goroutines.WithTaskQueueLength(256), goroutines.WithPreAllocWorkers(1)),
		attempts:   cfg.Attempts,
		retryStart: 500 * time.Millisecond,
	}
}

// Notify queues msg and returns, delivery failures are logged
func (im *impl) Notify(c ctx.Ctx, msg string) error {
	// the worker outlives the request, it keeps only the request's log fields
	logger := c.Logger
	err := im.pool.ScheduleWithTimeout(scheduleTimeout, func() {
		b := backoff.NewExponential(im.retryStart, 10*time.Second)
		if err := b.Retry(context.Background(), im.attempts, func() error {
			_, err := im.session.ChannelMessageSend(im.channelId, msg)
			return err
		}); err != nil {
			logger.WithField("err", err).WithField("channelId", im.channelId).Error("discord.ChannelMessageSend failed")
		}
	})
	if err != nil {
		c.WithField("err", err).Error("pool.ScheduleWithTimeout failed")
		return err
	}
	return nil
}

func (im *impl) Close() {
	im.pool.Release()
}

type logNotifier struct{}

func (*logNotifier) Notify(c ctx.Ctx, msg string) error {
	c.WithField("msg", msg).Info("notify")
	return nil
}

func (*logNotifier) Close() {}
