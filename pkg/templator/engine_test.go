package templator

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_LoadTemplateFS(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/greeting.tpl": {Data: []byte(`hello {{join .Names ","}}`)},
	}

	e := NewEngine()
	require.NoError(t, e.LoadTemplateFS("greeting", fsys, "templates/greeting.tpl"))
	assert.True(t, e.HasTemplate("greeting"))

	out, err := e.RenderToBytes("greeting", map[string]any{"Names": []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, "hello a,b", string(out))
}

func TestEngine_LoadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.tpl")
	require.NoError(t, os.WriteFile(path, []byte(`<{{.}}>`), 0o644))

	e := NewEngine()
	require.NoError(t, e.LoadTemplate("custom", path))

	out, err := e.RenderToBytes("custom", "x&y")
	require.NoError(t, err)
	assert.Equal(t, "<x&y>", string(out))
}

func TestEngine_Errors(t *testing.T) {
	e := NewEngine()

	assert.Error(t, e.LoadTemplate("missing", filepath.Join(t.TempDir(), "nope.tpl")))
	assert.False(t, e.HasTemplate("missing"))

	_, err := e.RenderToBytes("missing", nil)
	assert.EqualError(t, err, "template missing not found")
}
