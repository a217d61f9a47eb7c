package markers

import (
	"github.com/sirupsen/logrus"

	"github.com/ranihwanifactory/2026newyear/internal/models"
)

// ConsoleSurface renders overlays as log lines. It stands in for a real
// map SDK in the demo binary and is always immediately ready.
type ConsoleSurface struct{}

func NewConsoleSurface() *ConsoleSurface {
	return &ConsoleSurface{}
}

func (s *ConsoleSurface) Ready() bool { return true }

func (s *ConsoleSurface) Attach(loc models.Location, label string, onSelect func()) (Overlay, error) {
	logrus.WithFields(logrus.Fields{
		"lat":   loc.Lat,
		"lng":   loc.Lng,
		"label": label,
	}).Info("🐎 marker")
	return consoleOverlay{}, nil
}

type consoleOverlay struct{}

func (consoleOverlay) Detach() {}
