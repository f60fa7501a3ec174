// Package output builds termenv outputs with the color profile rig uses everywhere.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// Profile returns the color profile for an output.
// NO_COLOR always wins. Interactive outputs use the detected terminal profile;
// non-interactive ones (CI logs) fall back to plain ANSI.
func Profile(interactive bool) termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if interactive {
		return termenv.EnvColorProfile()
	}
	return termenv.ANSI
}

// New creates an interactive termenv.Output writing to w, or to stderr when w is nil.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	return newOutput(w, true, opts...)
}

// NewPlain creates a non-interactive termenv.Output for CI logs.
func NewPlain(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	return newOutput(w, false, opts...)
}

func newOutput(w io.Writer, interactive bool, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	opts = append(opts,
		termenv.WithProfile(Profile(interactive)),
		termenv.WithTTY(true),
	)
	return termenv.NewOutput(w, opts...)
}
