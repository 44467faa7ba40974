package discord

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/nftmarket/base/ctx"
)

var (
	mockCtx = ctx.Background()
)

type fakeSender struct {
	mu       sync.Mutex
	failures int
	sent     []string
	calls    int
	done     chan struct{}
}

func (f *fakeSender) ChannelMessageSend(channelID string, content string) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("rate limited")
	}
	f.sent = append(f.sent, channelID+":"+content)
	close(f.done)
	return &discordgo.Message{Content: content}, nil
}

type testsuite struct {
	suite.Suite
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestNotifyRetries() {
	s := &fakeSender{failures: 2, done: make(chan struct{})}
	im := newWithSender(Config{ChannelId: "sales", Attempts: 3}, s)
	im.retryStart = time.Millisecond
	defer im.Close()

	ts.NoError(im.Notify(mockCtx, "token 1 sold"))

	select {
	case <-s.done:
	case <-time.After(5 * time.Second):
		ts.FailNow("message not delivered")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ts.Equal(3, s.calls)
	ts.Equal([]string{"sales:token 1 sold"}, s.sent)
}

func (ts *testsuite) TestNotifyOutlivesRequest() {
	s := &fakeSender{failures: 1, done: make(chan struct{})}
	im := newWithSender(Config{ChannelId: "sales", Attempts: 2}, s)
	im.retryStart = 20 * time.Millisecond
	defer im.Close()

	c, cancel := ctx.WithCancel(mockCtx)
	ts.NoError(im.Notify(c, "token 2 sold"))
	cancel()

	select {
	case <-s.done:
	case <-time.After(5 * time.Second):
		ts.FailNow("message not delivered")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ts.Equal([]string{"sales:token 2 sold"}, s.sent)
}

func (ts *testsuite) TestNewWithoutBotKey() {
	n, err := New(Config{})
	ts.NoError(err)
	ts.IsType(&logNotifier{}, n)
	ts.NoError(n.Notify(mockCtx, "hello"))
	n.Close()
}
