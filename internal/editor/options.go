package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Mode restricts what pointer input and API calls may change.
type Mode string

const (
	// ModeEdit allows everything.
	ModeEdit Mode = "edit"
	// ModeFixed allows zoom only.
	ModeFixed Mode = "fixed"
	// ModeView allows pan and zoom.
	ModeView Mode = "view"
)

// ParseMode accepts edit, fixed and view.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeEdit, ModeFixed, ModeView:
		return m, nil
	}
	return "", fmt.Errorf("unknown editor mode %q", s)
}

// Layout is the headless geometry of nodes and ports in canvas units.
type Layout struct {
	NodeWidth   float64 `validate:"gt=0"`
	MinHeight   float64 `validate:"gt=0"`
	PortTop     float64 `validate:"gte=0"`
	PortSpacing float64 `validate:"gt=0"`
	PortRadius  float64 `validate:"gt=0"`
}

// Options configure an editor before Start.
type Options struct {
	Curvature                float64 `validate:"gte=0"`
	Reroute                  bool
	RerouteFixCurvature      bool
	RerouteCurvature         float64 `validate:"gte=0"`
	RerouteCurvatureStartEnd float64 `validate:"gte=0"`
	RerouteWidth             float64 `validate:"gt=0"`
	LinePath                 float64 `validate:"gt=0"`
	ForceFirstInput          bool
	DraggableInputs          bool
	Mode                     Mode    `validate:"oneof=edit fixed view"`
	ZoomMin                  float64 `validate:"gt=0"`
	ZoomMax                  float64 `validate:"gtefield=ZoomMin"`
	ZoomStep                 float64 `validate:"gt=0"`
	UseUUID                  bool
	Layout                   Layout
}

// DefaultOptions returns the stock settings.
func DefaultOptions() Options {
	return Options{
		Curvature:                0.5,
		RerouteCurvature:         0.5,
		RerouteCurvatureStartEnd: 0.5,
		RerouteWidth:             6,
		LinePath:                 5,
		DraggableInputs:          true,
		Mode:                     ModeEdit,
		ZoomMin:                  0.5,
		ZoomMax:                  1.6,
		ZoomStep:                 0.1,
		Layout: Layout{
			NodeWidth:   160,
			MinHeight:   40,
			PortTop:     20,
			PortSpacing: 25,
			PortRadius:  10,
		},
	}
}

var validate = validator.New()

// Validate reports every invalid field at once.
func (o Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (%s)", e.Namespace(), e.Tag(), e.Param()))
	}
	return fmt.Errorf("editor options errors:\n  - %s", strings.Join(msgs, "\n  - "))
}
