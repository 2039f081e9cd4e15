// Package graph compiles timelines into an ordered ffmpeg filter graph.
//
// Labels are allocated by a typed builder as opaque handles and rendered to
// their textual form only at emission time, so duplicate or mistyped pin
// names cannot occur by construction.
package graph

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Pin identifies one pin of the in-progress filter graph.
type Pin struct {
	name string
}

// Map renders the pin the way -map and filter inputs expect it.
func (p Pin) Map() string {
	return "[" + p.name + "]"
}

func (p Pin) Zero() bool {
	return p.name == ""
}

// SourcePin refers to one stream of a cataloged input; medium is 'v' or 'a'.
func SourcePin(inputIndex int, medium byte) Pin {
	return Pin{name: fmt.Sprintf("%d:%c", inputIndex, medium)}
}

// Builder accumulates filter chains and allocates collision-free labels.
type Builder struct {
	chains []string
	next   int
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) newPin() Pin {
	p := Pin{name: "n" + strconv.Itoa(b.next)}
	b.next++
	return p
}

// Chain emits one filter chain reading the given input pins and producing
// one freshly-labeled output pin.
func (b *Builder) Chain(filter string, inputs ...Pin) Pin {
	out := b.newPin()
	var sb strings.Builder
	for _, in := range inputs {
		sb.WriteString(in.Map())
	}
	sb.WriteString(filter)
	sb.WriteString(out.Map())
	b.chains = append(b.chains, sb.String())
	return out
}

// Stages returns the emitted chains in order.
func (b *Builder) Stages() []string {
	return b.chains
}

// String renders the joined filter graph.
func (b *Builder) String() string {
	return strings.Join(b.chains, ";")
}

// secs formats a duration in seconds with microsecond precision and no
// trailing zeros, keeping emitted graphs deterministic and readable.
func secs(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}
