package adapters

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestZerologWrapper_LevelFiltersEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologWrapperTo(&buf, zerolog.InfoLevel)

	logger.Debug("hidden")
	logger.DebugWithFields("also hidden", map[string]interface{}{"k": "v"})
	assert.Empty(t, buf.String())

	logger.Info("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestZerologWrapper_FieldsAndErrorsAreSerialized(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologWrapperTo(&buf, zerolog.DebugLevel)

	logger.InfoWithFields("render submitted", map[string]interface{}{"job_id": "job-1"})
	assert.Contains(t, buf.String(), `"job_id":"job-1"`)
	assert.Contains(t, buf.String(), "render submitted")

	buf.Reset()
	logger.ErrorWithFields(fmt.Errorf("boom"), "pipeline failed", map[string]interface{}{"job_id": "job-2"})
	assert.Contains(t, buf.String(), `"error":"boom"`)
	assert.Contains(t, buf.String(), `"job_id":"job-2"`)

	buf.Reset()
	logger.Warn("degraded")
	assert.Contains(t, buf.String(), `"level":"warn"`)
}
