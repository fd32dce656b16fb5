package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONObject(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("plain object", func(t *testing.T) {
		var p payload
		require.NoError(t, ParseJSONObject(`{"name":"alice"}`, &p))
		assert.Equal(t, "alice", p.Name)
	})

	t.Run("fenced object", func(t *testing.T) {
		var p payload
		require.NoError(t, ParseJSONObject("```json\n{\"name\":\"bob\"}\n```", &p))
		assert.Equal(t, "bob", p.Name)
	})

	t.Run("prose around object", func(t *testing.T) {
		var p payload
		require.NoError(t, ParseJSONObject(`Sure! Here is the result: {"name":"carol"} Hope that helps.`, &p))
		assert.Equal(t, "carol", p.Name)
	})

	t.Run("no object at all", func(t *testing.T) {
		var p payload
		err := ParseJSONObject("I could not analyze this resume.", &p)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}

func TestCleanJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSON("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSON(`  {"a":1}  `))
}

func TestRetry(t *testing.T) {
	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		got, err := Retry(context.Background(), 3, func() (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("transient")
			}
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		_, err := Retry(context.Background(), 2, func() (int, error) {
			return 0, ErrBackendUnavailable
		})
		assert.ErrorIs(t, err, ErrBackendUnavailable)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		_, err := Retry(ctx, 5, func() (int, error) {
			calls++
			return 0, errors.New("transient")
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}
