package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/memento/internal/clock"
	"github.com/roach88/memento/internal/engine"
	"github.com/roach88/memento/internal/store"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(AddResult{ID: 7})
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]any{"id": float64(7)}, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("UNKNOWN_ITEM", "item 9 not found", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNKNOWN_ITEM", resp.Error.Code)
	assert.Equal(t, "item 9 not found", resp.Error.Message)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("Added item 1")
	require.NoError(t, err)
	assert.Equal(t, "Added item 1\n", buf.String())
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	err := formatter.Error("INVALID_GRADE", "grade 5 is outside 1-4", map[string]string{"item": "3"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [INVALID_GRADE]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_EngineError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantExit int
	}{
		{"unknown item", store.ErrUnknownItem, "UNKNOWN_ITEM", ExitFailure},
		{"clock format", &clock.FormatError{Input: "yesterday"}, "CLOCK_FORMAT", ExitFailure},
		{"persistence", &store.PersistenceError{Op: "append history", Err: errors.New("disk I/O")}, "PERSISTENCE_FAILURE", ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "text", Writer: buf}

			err := formatter.EngineError("failed", tt.err)
			assert.Equal(t, tt.wantExit, GetExitCode(err))
			assert.ErrorIs(t, err, tt.err)
			assert.Contains(t, buf.String(), "Error ["+tt.wantCode+"]")
		})
	}
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			errBuf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    buf,
				ErrWriter: errBuf,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("imported ids %v", []int64{1, 2})

			assert.Empty(t, buf.String(), "verbose output never goes to stdout in JSON mode")
			if tt.wantLog {
				assert.Contains(t, errBuf.String(), "imported ids [1 2]")
			} else {
				assert.Empty(t, errBuf.String())
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flags")))

	wrapped := WrapExitError(ExitFailure, "review failed", engine.ErrStopSession)
	assert.Equal(t, "review failed: session stopped", wrapped.Error())
	assert.ErrorIs(t, wrapped, engine.ErrStopSession)
}
