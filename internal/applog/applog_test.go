package applog

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetLevel_ChangesLoggerLevel(t *testing.T) {
	defer SetLevel(logrus.InfoLevel)

	SetLevel(logrus.DebugLevel)
	assert.Equal(t, logrus.DebugLevel, Logger().GetLevel())
}

func TestWithField_AttachesFieldToEntry(t *testing.T) {
	entry := WithField("comparison_id", "abc-123")
	assert.Equal(t, "abc-123", entry.Data["comparison_id"])
}
