package view

import (
	"math"

	"github.com/matzehuels/jsontree/pkg/observability"
)

// Zoom bounds and step.
const (
	MinZoom     = 0.5
	MaxZoom     = 2.0
	ZoomStep    = 0.1
	DefaultZoom = 1.0
)

// Zoom returns the current zoom factor.
func (s *State) Zoom() float64 { return s.zoom }

// ZoomIn raises the zoom by one step, up to MaxZoom.
func (s *State) ZoomIn() float64 { return s.setZoom(s.zoom + ZoomStep) }

// ZoomOut lowers the zoom by one step, down to MinZoom.
func (s *State) ZoomOut() float64 { return s.setZoom(s.zoom - ZoomStep) }

// ResetZoom restores the default zoom.
func (s *State) ResetZoom() float64 { return s.setZoom(DefaultZoom) }

// setZoom clamps z and rounds it to one decimal so repeated steps do not
// accumulate floating point drift.
func (s *State) setZoom(z float64) float64 {
	z = math.Round(z*10) / 10
	z = min(max(z, MinZoom), MaxZoom)
	if z != s.zoom {
		s.zoom = z
		observability.View().OnZoom(z)
	}
	return s.zoom
}
