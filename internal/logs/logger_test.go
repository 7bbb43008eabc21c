package logs

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	l := Init(Options{Level: "debug", Format: "json"})
	assert.Same(t, l, Logger)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	_, isJSON := l.Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)

	l = Init(Options{Level: "nonsense"})
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
}
