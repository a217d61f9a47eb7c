package markers

import (
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ranihwanifactory/2026newyear/internal/models"
)

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultMaxAttempts  = 20

	labelRunes = 10
)

// Clock abstracts timer waits so the poll loop is testable without real
// timers.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Controller keeps the surface's overlay set equal to the current record
// set. Reconciliation is a full rebuild: all overlays are detached, then
// one overlay is attached per record with usable coordinates. Records
// arriving before the surface is ready are buffered and rendered in one
// pass on the transition to Ready.
type Controller struct {
	surface     Surface
	onSelect    func(models.Wish)
	clock       Clock
	interval    time.Duration
	maxAttempts int
	done        chan struct{}
	closeOnce   sync.Once

	mu          sync.Mutex
	readiness   Readiness
	overlays    []Overlay
	pending     []models.Wish
	havePending bool
}

func NewController(surface Surface, onSelect func(models.Wish)) *Controller {
	return &Controller{
		surface:     surface,
		onSelect:    onSelect,
		clock:       realClock{},
		interval:    defaultPollInterval,
		maxAttempts: defaultMaxAttempts,
		done:        make(chan struct{}),
	}
}

// Start runs the readiness poll in the background until the machine
// reaches a terminal phase or the controller is closed.
func (c *Controller) Start() {
	go func() {
		for {
			phase := c.Tick()
			if phase == Ready || phase == Failed {
				return
			}
			select {
			case <-c.clock.After(c.interval):
			case <-c.done:
				return
			}
		}
	}()
}

// Tick advances the readiness machine one step. On the transition to
// Ready any buffered record set is rendered immediately.
func (c *Controller) Tick() Phase {
	c.mu.Lock()
	before := c.readiness.Phase
	c.readiness = NextReadiness(c.readiness, c.surface.Ready(), c.maxAttempts)
	after := c.readiness.Phase

	if after == Ready && before != Ready && c.havePending {
		c.renderLocked(c.pending)
	}
	c.mu.Unlock()

	if after == Failed && before != Failed {
		logrus.WithField("attempts", c.maxAttempts).Error("Map surface failed to load")
	}
	return after
}

// SetRecords replaces the record set to display. Before the surface is
// ready the set is buffered; afterwards the overlays are rebuilt at once.
func (c *Controller) SetRecords(wishes []models.Wish) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = wishes
	c.havePending = true
	if c.readiness.Phase == Ready {
		c.renderLocked(wishes)
	}
}

// Phase reports the current readiness phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readiness.Phase
}

// Close stops polling and detaches every overlay.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
	c.mu.Lock()
	old := c.overlays
	c.overlays = nil
	c.mu.Unlock()
	for _, overlay := range old {
		overlay.Detach()
	}
}

// renderLocked rebuilds the overlay set. Old overlays are detached
// unconditionally before any new one is attached, so overlays never leak
// across updates.
func (c *Controller) renderLocked(wishes []models.Wish) {
	for _, overlay := range c.overlays {
		overlay.Detach()
	}
	c.overlays = c.overlays[:0]

	for _, wish := range wishes {
		if !usableLocation(wish.Location) {
			continue
		}
		wish := wish
		overlay, err := c.surface.Attach(wish.Location, markerLabel(wish.Content), func() {
			if c.onSelect != nil {
				c.onSelect(wish)
			}
		})
		if err != nil {
			logrus.WithError(err).WithField("wishID", wish.ID).Warn("Failed to attach overlay")
			continue
		}
		c.overlays = append(c.overlays, overlay)
	}
}

// usableLocation rejects unset and out-of-range coordinates.
func usableLocation(loc models.Location) bool {
	if loc.IsZero() {
		return false
	}
	if math.IsNaN(loc.Lat) || math.IsNaN(loc.Lng) {
		return false
	}
	return loc.Lat >= -90 && loc.Lat <= 90 && loc.Lng >= -180 && loc.Lng <= 180
}

// markerLabel truncates wish content the way the map bubble displays it.
func markerLabel(content string) string {
	runes := []rune(content)
	if len(runes) > labelRunes {
		return string(runes[:labelRunes]) + "..."
	}
	return content
}
