package suite

import (
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/medtouch/models"
	"github.com/aukilabs/medtouch/screens/chooser"
	"github.com/aukilabs/medtouch/screens/touchtest"
	"github.com/aukilabs/medtouch/screens/viewer"
	"gopkg.in/yaml.v3"
)

// Layout describes the screens of the suite.
type Layout struct {
	// The size of the surface reports are mapped onto.
	Screen models.ScreenSize `json:"screen" yaml:"screen"`

	// The screen shown on start and after a demo ends.
	Home string `json:"home" yaml:"home"`

	// The chooser pick targets.
	Chooser chooser.Config `json:"chooser" yaml:"chooser"`
}

// DefaultLayout returns the layout of the demo render window: a reveal target
// in the middle and a demo target in each corner around it.
func DefaultLayout() Layout {
	return Layout{
		Screen: models.DefaultScreenSize,
		Home:   chooser.Name,
		Chooser: chooser.Config{
			Reveal: chooser.Target{
				Name:   "blue",
				Center: models.Point{X: 340, Y: 230},
				Radius: 90,
			},
			Targets: []chooser.Target{
				{
					Name:   "green",
					Center: models.Point{X: 460, Y: 350},
					Radius: 30,
					Screen: viewer.SliceName,
				},
				{
					Name:   "red",
					Center: models.Point{X: 460, Y: 110},
					Radius: 30,
					Screen: viewer.IsosurfaceName,
				},
				{
					Name:   "yellow",
					Center: models.Point{X: 220, Y: 350},
					Radius: 30,
					Screen: touchtest.Name,
				},
				{
					Name:   "purple",
					Center: models.Point{X: 220, Y: 110},
					Radius: 30,
					Screen: chooser.Name,
				},
			},
		},
	}
}

// LoadLayout loads a layout from a YAML file. Fields missing from the file keep
// their default value. An empty path or a missing file returns the default
// layout.
func LoadLayout(path string) (Layout, error) {
	layout := DefaultLayout()
	if path == "" {
		return layout, nil
	}

	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logs.WithTag("path", path).Warn(errors.New("layout file not found, using default layout"))
		return layout, nil
	}
	if err != nil {
		return Layout{}, errors.New("reading layout file failed").
			WithTag("path", path).
			Wrap(err)
	}

	if err := yaml.Unmarshal(b, &layout); err != nil {
		return Layout{}, errors.New("decoding layout file failed").
			WithType(ErrTypeInvalidLayout).
			WithTag("path", path).
			Wrap(err)
	}

	if err := layout.validate(); err != nil {
		return Layout{}, err
	}
	return layout, nil
}

func (l Layout) validate() error {
	if l.Screen.Width <= 0 || l.Screen.Height <= 0 {
		return errors.New("screen size must be positive").
			WithType(ErrTypeInvalidLayout).
			WithTag("width", l.Screen.Width).
			WithTag("height", l.Screen.Height)
	}

	if !isScreenName(l.Home) {
		return errors.New("unknown home screen").
			WithType(ErrTypeUnknownScreen).
			WithTag("screen", l.Home)
	}

	for _, t := range l.Chooser.Targets {
		if !isScreenName(t.Screen) {
			return errors.New("unknown target screen").
				WithType(ErrTypeUnknownScreen).
				WithTag("target", t.Name).
				WithTag("screen", t.Screen)
		}
	}
	return nil
}

func isScreenName(name string) bool {
	switch name {
	case chooser.Name, viewer.SliceName, viewer.IsosurfaceName, touchtest.Name:
		return true
	default:
		return false
	}
}
