package ptr

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type pointerSuite struct {
	suite.Suite
}

func (s *pointerSuite) TestPointer() {
	p1 := String(`abc123`)
	p2 := Int32(4567)
	p3 := Bool(true)

	s.Equal(`abc123`, *p1)
	s.Equal(int32(4567), *p2)
	s.Equal(true, *p3)

	// each call yields a fresh pointer
	s.NotSame(Bool(false), Bool(false))
}

func TestPointerSuite(t *testing.T) {
	suite.Run(t, new(pointerSuite))
}
