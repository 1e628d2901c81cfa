package logger_test

import (
	"bytes"
	"testing"

	"github.com/kagenti/kagenti-installer/pkg/utils/logger"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextFormat(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	log, err := logger.New("debug", logger.FormatText, &out)
	require.NoError(t, err)

	log.WithField("component", "cert-manager").Debug("planning")

	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.Contains(t, out.String(), "component=cert-manager")
}

func TestNew_JSONFormat(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	log, err := logger.New("info", logger.FormatJSON, &out)
	require.NoError(t, err)

	log.Info("hello")

	assert.Contains(t, out.String(), `"msg":"hello"`)
}

func TestNew_InvalidInputs(t *testing.T) {
	t.Parallel()

	_, err := logger.New("loud", logger.FormatText, nil)
	require.Error(t, err)

	_, err = logger.New("info", "xml", nil)
	require.ErrorIs(t, err, logger.ErrInvalidFormat)
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	log := logger.Discard()

	assert.False(t, log.IsLevelEnabled(logrus.InfoLevel))
}
