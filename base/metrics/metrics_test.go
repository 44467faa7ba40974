package metrics

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type metricsSuite struct {
	suite.Suite
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(metricsSuite))
}

func (s *metricsSuite) TestParseTag() {
	s.Nil(parseTag(nil))
	s.Equal([]string{"op:buy", "kind:wrong_price"}, parseTag([]string{"op", "buy", "kind", "wrong_price"}))
	s.Panics(func() { parseTag([]string{"dangling"}) })
}

func (s *metricsSuite) TestBumpWithoutAgent() {
	m := New("market", WithoutPodName())
	s.NotPanics(func() {
		m.BumpSum("sale", 1, "op", "buy")
		m.BumpAvg("price", 1.5)
		m.BumpHistogram("size", 3)
		m.BumpTime("buy.time").End()
	})
	_, isLog := ddClients[0].(*LogClient)
	s.True(isLog)
}

func (s *metricsSuite) TestTagsDoNotAlias() {
	dm := &DDMetrics{ddTags: make([]string, 1, 8)}
	dm.ddTags[0] = "env:test"
	a := dm.tags([]string{"op", "buy"})
	b := dm.tags([]string{"op", "remove"})
	s.Equal([]string{"env:test", "op:buy"}, a)
	s.Equal([]string{"env:test", "op:remove"}, b)
}
