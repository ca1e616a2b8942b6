package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontendPersistsWindowGeometry(t *testing.T) {
	page, err := assets.ReadFile("frontend/dist/index.html")
	require.NoError(t, err)
	html := string(page)

	t.Run("resize", func(t *testing.T) {
		assert.Contains(t, html, `addEventListener("resize"`)
	})

	t.Run("move", func(t *testing.T) {
		assert.Contains(t, html, "window.screenX")
		assert.Contains(t, html, "window.screenY")
		assert.Contains(t, html, "setInterval(")
	})

	assert.Equal(t, 2, strings.Count(html, "app.SaveWindowState()"))
}
