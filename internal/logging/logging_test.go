package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_RendersWorkflowCommands(t *testing.T) {
	t.Setenv("RUNNER_DEBUG", "")

	var buf bytes.Buffer
	log := New().To(&buf).Debug(true).Make()

	log.Debug().Str("item", "PVTI_1").Msg("checking item")
	log.Info().Msg("All linked pull requests merged")
	log.Warn().Msg("careful")
	log.Error().Err(errors.New("boom")).Msg("failed\nbadly 100%")

	assert.Equal(t,
		"::debug::checking item item=PVTI_1\n"+
			"All linked pull requests merged\n"+
			"::warning::careful\n"+
			"::error::failed%0Abadly 100%25 error=boom\n",
		buf.String(),
	)
}

func TestLogger_DebugDisabled(t *testing.T) {
	t.Setenv("RUNNER_DEBUG", "")

	var buf bytes.Buffer
	log := New().To(&buf).Make()

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	assert.Equal(t, "shown\n", buf.String())
}

func TestLogger_RunnerDebug(t *testing.T) {
	t.Setenv("RUNNER_DEBUG", "1")

	var buf bytes.Buffer
	log := New().To(&buf).Make()
	log.Debug().Msg("visible")

	assert.True(t, RunnerDebug())
	assert.Equal(t, "::debug::visible\n", buf.String())
}
