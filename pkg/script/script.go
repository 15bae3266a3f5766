// Package script reads gesture scripts and plays them against a session.
//
// A script is a TOML file holding an ordered list of steps. Each step is one
// call a host application would make: selecting entities, starting,
// updating, committing or cancelling a gesture, undoing, redoing, or
// replaying the transform log.
//
//	name = "drag two boxes"
//
//	[view]
//	scale = 1.0
//
//	[[step]]
//	op = "begin"
//	mode = "move"
//	ids = [1, 2]
//	x = 10.0
//	y = -10.0
//
//	[[step]]
//	op = "update"
//	x = 40.0
//	y = -10.0
//	modifiers = "shift"
//
//	[[step]]
//	op = "commit"
//
// Coordinates are screen pixels. Steps without their own view use the
// script's view, and a script without a view uses [geom.Identity].
package script

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/vectorcad/pkg/entity"
	"github.com/matzehuels/vectorcad/pkg/errors"
	"github.com/matzehuels/vectorcad/pkg/geom"
	"github.com/matzehuels/vectorcad/pkg/interaction"
)

// Op names a step.
type Op string

const (
	OpSelect Op = "select"
	OpBegin  Op = "begin"
	OpUpdate Op = "update"
	OpCommit Op = "commit"
	OpCancel Op = "cancel"
	OpUndo   Op = "undo"
	OpRedo   Op = "redo"
	OpReplay Op = "replay"
)

var knownOps = map[Op]bool{
	OpSelect: true, OpBegin: true, OpUpdate: true, OpCommit: true,
	OpCancel: true, OpUndo: true, OpRedo: true, OpReplay: true,
}

// Script is a decoded gesture script.
type Script struct {
	Name  string     `toml:"name"`
	View  *geom.View `toml:"view"`
	Steps []Step     `toml:"step"`
}

// Step is one scripted call. Fields a given op does not use are ignored.
type Step struct {
	Op         Op          `toml:"op"`
	Mode       string      `toml:"mode"`
	IDs        []entity.ID `toml:"ids"`
	SpecificID entity.ID   `toml:"specific_id"`
	Handle     int         `toml:"handle"`
	X          float64     `toml:"x"`
	Y          float64     `toml:"y"`
	Modifiers  string      `toml:"modifiers"`
	View       *geom.View  `toml:"view"`
}

// Screen returns the step's pointer position.
func (s Step) Screen() r2.Vec { return r2.Vec{X: s.X, Y: s.Y} }

// Decode reads a script from r and validates it.
//
// Decode returns an error with code [errors.ErrCodeInvalidScript] if the
// TOML is malformed, contains keys a script does not have, or a step is
// invalid.
func Decode(r io.Reader) (*Script, error) {
	var sc Script
	md, err := toml.NewDecoder(r).Decode(&sc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "decode script")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidScript, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads and validates the script at path.
func Load(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	sc, err := Decode(f)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

// Validate checks every step.
func (sc *Script) Validate() error {
	if len(sc.Steps) == 0 {
		return errors.New(errors.ErrCodeInvalidScript, "script has no steps")
	}
	for i, st := range sc.Steps {
		if err := st.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "step %d", i)
		}
	}
	return nil
}

func (st Step) validate() error {
	if !knownOps[st.Op] {
		return errors.New(errors.ErrCodeInvalidScript, "unknown op %q", st.Op)
	}
	if err := errors.ValidateFinite("x/y", st.X, st.Y); err != nil {
		return err
	}
	if _, err := interaction.ParseModifiers(st.Modifiers); err != nil {
		return err
	}
	switch st.Op {
	case OpBegin:
		if st.Mode == "" {
			return errors.New(errors.ErrCodeInvalidScript, "begin needs a mode")
		}
		if _, err := interaction.ParseMode(st.Mode); err != nil {
			return err
		}
	case OpSelect:
		if st.IDs == nil {
			return errors.New(errors.ErrCodeInvalidScript, "select needs ids")
		}
	}
	return nil
}

// viewFor returns the view a step runs under.
func (sc *Script) viewFor(st Step) geom.View {
	switch {
	case st.View != nil:
		return *st.View
	case sc.View != nil:
		return *sc.View
	default:
		return geom.Identity
	}
}

// Params converts a begin step into session parameters.
func (sc *Script) Params(st Step) interaction.BeginParams {
	mode, _ := interaction.ParseMode(st.Mode)
	mods, _ := interaction.ParseModifiers(st.Modifiers)
	return interaction.BeginParams{
		IDs:        st.IDs,
		Mode:       mode,
		SpecificID: st.SpecificID,
		Handle:     st.Handle,
		Screen:     st.Screen(),
		View:       sc.viewFor(st),
		Modifiers:  mods,
	}
}
