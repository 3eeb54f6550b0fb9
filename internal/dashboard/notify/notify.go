// Package notify es el canal de avisos del dashboard: un solo aviso visible a
// la vez, que se oculta solo después de AutoHide.
package notify

import (
	"sync"
	"time"

	"pawgrammers/internal/platform/clock"
)

const AutoHide = 3 * time.Second

type Severity int

const (
	Success Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "success"
}

type Notification struct {
	Message  string
	Severity Severity
	Visible  bool
}

// Notifier es lo que necesita el controller para avisar.
type Notifier interface {
	Notify(message string, severity Severity)
}

type Channel struct {
	mu    sync.Mutex
	sched clock.Scheduler
	cur   Notification
	gen   uint64
	timer clock.Timer
}

func New(sched clock.Scheduler) *Channel {
	if sched == nil {
		sched = clock.Real{}
	}
	return &Channel{sched: sched}
}

// Notify reemplaza el aviso actual y reinicia el auto-ocultado.
func (c *Channel) Notify(message string, severity Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
	}
	c.gen++
	gen := c.gen
	c.cur = Notification{Message: message, Severity: severity, Visible: true}
	c.timer = c.sched.AfterFunc(AutoHide, func() { c.hide(gen) })
}

// Current devuelve el último aviso; Visible indica si sigue en pantalla.
func (c *Channel) Current() Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cur
}

// Dismiss oculta el aviso actual antes de tiempo.
func (c *Channel) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.cur.Visible = false
}

// un timer viejo que ya arrancó no debe ocultar un aviso más nuevo
func (c *Channel) hide(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return
	}
	c.cur.Visible = false
	c.timer = nil
}
