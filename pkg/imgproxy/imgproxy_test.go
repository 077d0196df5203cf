package imgproxy

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	t.Run("wraps http urls", func(t *testing.T) {
		out := URL("https://cdn.example.com/img.jpg?v=1")
		u, err := url.Parse(out)
		require.NoError(t, err)
		assert.Equal(t, "wsrv.nl", u.Host)
		q := u.Query()
		assert.Equal(t, "https://cdn.example.com/img.jpg?v=1", q.Get("url"))
		assert.Equal(t, "400", q.Get("w"))
		assert.Equal(t, "400", q.Get("h"))
		assert.Equal(t, "contain", q.Get("fit"))
		assert.NotEmpty(t, q.Get("default"))
	})

	t.Run("data urls pass through", func(t *testing.T) {
		in := "data:image/png;base64,iVBORw0KGgo="
		assert.Equal(t, in, URL(in))
	})

	t.Run("empty stays empty", func(t *testing.T) {
		assert.Equal(t, "", URL(""))
	})

	t.Run("short urls dropped", func(t *testing.T) {
		assert.Equal(t, "", URL("img.jpg"))
		assert.Equal(t, "", URL("http://a.b"))
	})
}
