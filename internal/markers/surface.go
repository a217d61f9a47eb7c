package markers

import (
	"github.com/ranihwanifactory/2026newyear/internal/models"
)

// Surface is the external map rendering collaborator. Initialization is
// asynchronous: Ready reports whether the surface can accept overlays yet.
type Surface interface {
	Ready() bool
	// Attach anchors an overlay at the location with the given label.
	// onSelect fires when the overlay is tapped.
	Attach(loc models.Location, label string, onSelect func()) (Overlay, error)
}

// Overlay is one attached visual marker. Detach releases it; an overlay
// is never reused after Detach.
type Overlay interface {
	Detach()
}
