package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	l := Setup("debug", true)
	require.Equal(t, logrus.DebugLevel, l.GetLevel())
	require.IsType(t, &logrus.JSONFormatter{}, l.Formatter)

	l = Setup("nonsense", false)
	require.Equal(t, logrus.InfoLevel, l.GetLevel())
	require.IsType(t, &logrus.TextFormatter{}, l.Formatter)
}
