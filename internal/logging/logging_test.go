package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"WARN", logrus.WarnLevel},
		{"", logrus.InfoLevel},
		{"loud", logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log := New(Options{Level: tt.level, Output: &bytes.Buffer{}})
			assert.Equal(t, tt.want, log.GetLevel())
		})
	}
}

func TestNew_ProductionLogsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Environment: "Production", Output: &buf})

	ForRequest(log, "req-1", "demo").Info("done")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "demo", line["forecast"])
	assert.Equal(t, "done", line["msg"])
}

func TestNew_DevelopmentLogsText(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Environment: "development", Output: &buf})
	log.Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestIsProduction(t *testing.T) {
	assert.True(t, IsProduction("staging"))
	assert.False(t, IsProduction("development"))
	assert.False(t, IsProduction(""))
}
