package cue

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/engage/internal/notify"
)

const (
	popupTitle    = "Engagement check"
	popupBody     = "Rate 1-5 to continue"
	popupCategory = "x-engage.prompt"
)

// Popup shows the prompt as a desktop notification. Each prompt replaces
// the previous one.
type Popup struct {
	notifier notify.Notifier
	logger   *log.Logger

	mu      sync.Mutex
	lastID  uint32
	pending func() bool
}

// NewPopup wraps a notifier.
func NewPopup(n notify.Notifier, logger *log.Logger) *Popup {
	return &Popup{notifier: n, logger: loggerOrDefault(logger)}
}

// SetPending installs a check run before each popup. The popup is only
// shown while pending reports true, so a prompt that did not lock the
// player leaves no notification behind. pending may take the controller
// lock: Multi calls PlayCue on its own goroutine.
func (p *Popup) SetPending(pending func() bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = pending
}

// PlayCue implements engagement.Cue.
func (p *Popup) PlayCue() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pending != nil && !p.pending() {
		p.logger.Debug("cue popup skipped, no rating pending")
		return
	}

	id, err := p.notifier.Notify(notify.Notification{
		Title:      popupTitle,
		Body:       popupBody,
		Icon:       "dialog-question",
		Category:   popupCategory,
		Timeout:    0,
		ReplacesID: p.lastID,
		Urgency:    notify.UrgencyCritical,
	})
	if err != nil {
		p.logger.Debug("cue popup", "err", err)
		return
	}
	p.lastID = id
}

// Dismiss closes the last prompt notification, if any.
func (p *Popup) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastID == 0 {
		return
	}
	if err := p.notifier.Close(p.lastID); err != nil {
		p.logger.Debug("dismiss popup", "err", err)
	}
	p.lastID = 0
}
