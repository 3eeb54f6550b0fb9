// Package clock abstrae los timers diferidos para poder testear animaciones y
// auto-ocultado sin esperar tiempo real. Por debajo usa clockwork.
package clock

import (
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer es una tarea diferida cancelable.
type Timer interface {
	Stop() bool
}

// Scheduler programa f para que corra después de d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

var wall = clockwork.NewRealClock()

// Real usa el reloj de pared.
type Real struct{}

func (Real) AfterFunc(d time.Duration, f func()) Timer { return wall.AfterFunc(d, f) }
func (Real) Now() time.Time                            { return wall.Now() }

// Fake es un Scheduler manual sobre clockwork.FakeClock: los timers corren
// sólo al llamar Advance, en orden de vencimiento y en la goroutine que
// llama Advance.
type Fake struct {
	fc clockwork.FakeClock

	mu     sync.Mutex
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	f     *Fake
	seq   int
	at    time.Time
	fn    func()
	inner clockwork.Timer
	// lo cierra clockwork cuando el timer vence
	due chan struct{}

	stopped bool
	fired   bool
}

func NewFake(start time.Time) *Fake {
	return &Fake{fc: clockwork.NewFakeClockAt(start)}
}

func (f *Fake) Now() time.Time { return f.fc.Now() }

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	t := &fakeTimer{f: f, seq: f.seq, at: f.fc.Now().Add(d), fn: fn, due: make(chan struct{})}
	t.inner = f.fc.AfterFunc(d, func() { close(t.due) })
	f.timers = append(f.timers, t)
	return t
}

// Advance mueve el reloj y dispara, en orden, los timers vencidos.
func (f *Fake) Advance(d time.Duration) {
	target := f.fc.Now().Add(d)

	for {
		f.mu.Lock()
		next := f.nextDueLocked(target)
		if next != nil {
			next.fired = true
		}
		f.mu.Unlock()

		if next == nil {
			f.step(target)
			return
		}
		f.step(next.at)
		<-next.due
		next.fn()
	}
}

func (f *Fake) step(to time.Time) {
	d := to.Sub(f.fc.Now())
	if d < 0 {
		d = 0
	}
	f.fc.Advance(d)
}

// Pending cuenta timers programados que todavía no corrieron ni fueron cancelados.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, t := range f.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (f *Fake) nextDueLocked(target time.Time) *fakeTimer {
	due := make([]*fakeTimer, 0)
	live := f.timers[:0]
	for _, t := range f.timers {
		if t.stopped || t.fired {
			continue
		}
		live = append(live, t)
		if !t.at.After(target) {
			due = append(due, t)
		}
	}
	f.timers = live
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	return due[0]
}

func (t *fakeTimer) Stop() bool {
	t.f.mu.Lock()
	defer t.f.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.inner.Stop()
	return true
}
