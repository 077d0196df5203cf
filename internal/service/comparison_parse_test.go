package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModelPayload(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		payload, err := parseModelPayload(`{"summary":"ok","products":[{"name":"A","price":"10 JOD","store":"X"}]}`)
		require.NoError(t, err)
		assert.Equal(t, "ok", payload.Summary)
		require.Len(t, payload.Products, 1)
		assert.Equal(t, "A", payload.Products[0].Name)
	})

	t.Run("fenced json", func(t *testing.T) {
		payload, err := parseModelPayload("Here you go:\n```json\n{\"summary\":\"s\",\"products\":[]}\n```\nEnjoy.")
		require.NoError(t, err)
		assert.Equal(t, "s", payload.Summary)
	})

	t.Run("fence without language tag", func(t *testing.T) {
		payload, err := parseModelPayload("```\n{\"summary\":\"bare\",\"products\":[]}\n```")
		require.NoError(t, err)
		assert.Equal(t, "bare", payload.Summary)
	})

	t.Run("json wrapped in prose", func(t *testing.T) {
		payload, err := parseModelPayload(`Sure! Based on my search: {"summary":"wrapped","products":[]} Hope this helps.`)
		require.NoError(t, err)
		assert.Equal(t, "wrapped", payload.Summary)
	})

	t.Run("numeric price tolerated", func(t *testing.T) {
		payload, err := parseModelPayload(`{"products":[{"name":"A","price":129.99,"rating":"4.5"}]}`)
		require.NoError(t, err)
		require.Len(t, payload.Products, 1)
		assert.Equal(t, "129.99", string(payload.Products[0].Price))
		assert.Equal(t, 4.5, float64(payload.Products[0].Rating))
	})

	t.Run("no json at all", func(t *testing.T) {
		_, err := parseModelPayload("I could not find any products for this query.")
		assert.Error(t, err)
	})

	t.Run("broken json", func(t *testing.T) {
		_, err := parseModelPayload(`{"summary":"x","products":[{`)
		assert.Error(t, err)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := parseModelPayload("")
		assert.Error(t, err)
	})
}
