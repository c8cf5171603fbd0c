package suite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/medtouch/models"
	"github.com/aukilabs/medtouch/screens/chooser"
	"github.com/stretchr/testify/require"
)

func writeLayout(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)
	return path
}

func TestDefaultLayout(t *testing.T) {
	layout := DefaultLayout()
	require.NoError(t, layout.validate())
	require.Equal(t, chooser.Name, layout.Home)
	require.Equal(t, models.DefaultScreenSize, layout.Screen)
	require.Len(t, layout.Chooser.Targets, 4)
}

func TestLoadLayout(t *testing.T) {
	t.Run("empty path returns the default layout", func(t *testing.T) {
		layout, err := LoadLayout("")
		require.NoError(t, err)
		require.Equal(t, DefaultLayout(), layout)
	})

	t.Run("missing file returns the default layout", func(t *testing.T) {
		layout, err := LoadLayout(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		require.Equal(t, DefaultLayout(), layout)
	})

	t.Run("file overrides the default layout", func(t *testing.T) {
		path := writeLayout(t, `
screen:
  width: 640
  height: 480
home: touchtest
`)

		layout, err := LoadLayout(path)
		require.NoError(t, err)
		require.Equal(t, models.ScreenSize{Width: 640, Height: 480}, layout.Screen)
		require.Equal(t, "touchtest", layout.Home)
		require.Equal(t, DefaultLayout().Chooser, layout.Chooser)
	})

	t.Run("chooser targets are loaded", func(t *testing.T) {
		path := writeLayout(t, `
chooser:
  reveal:
    name: blue
    center: {x: 100, y: 100}
    radius: 50
  targets:
    - name: green
      center: {x: 200, y: 200}
      radius: 20
      screen: slice
`)

		layout, err := LoadLayout(path)
		require.NoError(t, err)
		require.Equal(t, chooser.Config{
			Reveal: chooser.Target{Name: "blue", Center: models.Point{X: 100, Y: 100}, Radius: 50},
			Targets: []chooser.Target{
				{Name: "green", Center: models.Point{X: 200, Y: 200}, Radius: 20, Screen: "slice"},
			},
		}, layout.Chooser)
	})

	t.Run("malformed file returns an error", func(t *testing.T) {
		path := writeLayout(t, "screen: [")

		_, err := LoadLayout(path)
		require.Error(t, err)
		require.True(t, errors.IsType(err, ErrTypeInvalidLayout))
	})

	t.Run("unknown home screen returns an error", func(t *testing.T) {
		path := writeLayout(t, "home: nowhere")

		_, err := LoadLayout(path)
		require.Error(t, err)
		require.True(t, errors.IsType(err, ErrTypeUnknownScreen))
	})

	t.Run("empty screen returns an error", func(t *testing.T) {
		path := writeLayout(t, "screen: {width: 0, height: 480}")

		_, err := LoadLayout(path)
		require.Error(t, err)
		require.True(t, errors.IsType(err, ErrTypeInvalidLayout))
	})
}
