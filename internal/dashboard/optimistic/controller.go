// Package optimistic aplica altas y bajas de mascotas de forma optimista:
// cambia la lista local al instante, llama al server y después confirma
// (recargando) o deshace.
//
// Ninguna falla sale del controller: toda falla termina en rollback + aviso.
package optimistic

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pawgrammers/internal/dashboard/notify"
	"pawgrammers/internal/dashboard/petlist"
	"pawgrammers/internal/petstore"
	"pawgrammers/internal/platform/clock"
	"pawgrammers/internal/platform/logger"
)

const (
	// RemoveDelay: la baja local ocurre este tiempo después de la intención,
	// pase lo que pase con la llamada remota.
	RemoveDelay = 200 * time.Millisecond
	// ClearDelay: la marca de explosión se limpia este tiempo después de la intención.
	ClearDelay = 1100 * time.Millisecond

	TempPrefix = "tmp-"
)

// Textos de los avisos.
const (
	MsgAdded        = "Pet added"
	MsgAddFailed    = "Failed to add pet"
	MsgDeleted      = "Pet deleted"
	MsgDeleteFailed = "Failed to delete — restored"
	MsgUpdated      = "Pet updated"
	MsgUpdateFailed = "Failed to update"
	MsgLoadFailed   = "Failed to load pets"
)

// Store es la parte del cliente remoto que usa el controller.
type Store interface {
	List(ctx context.Context) ([]petstore.Pet, error)
	Create(ctx context.Context, f petstore.Fields) (petstore.Pet, error)
	Update(ctx context.Context, id string, f petstore.Fields) (petstore.Pet, error)
	Delete(ctx context.Context, id string) (petstore.DeleteResult, error)
}

type Kind int

const (
	KindAdd Kind = iota + 1
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindAdd:
		return "add"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Mutation es una mutación optimista en vuelo. TargetID es el id real
// (delete) o el temporal (add).
type Mutation struct {
	Kind      Kind
	TargetID  string
	StartedAt time.Time
}

// Outcome es el estado terminal de una mutación.
type Outcome int

const (
	Confirmed Outcome = iota + 1
	RolledBack
)

func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case RolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

type Options struct {
	Store    Store
	List     *petlist.State
	Notifier notify.Notifier
	Clock    clock.Scheduler
	Log      logger.Logger

	// NewTempID genera ids provisorios; por defecto "tmp-" + UUIDv7.
	NewTempID func() string
}

type Controller struct {
	store     Store
	list      *petlist.State
	notifier  notify.Notifier
	clock     clock.Scheduler
	log       logger.Logger
	newTempID func() string

	mu        sync.Mutex
	seq       uint64
	pending   map[string]pendingEntry
	exploding map[string]time.Time
	timers    map[timerKey]*scheduled
}

type pendingEntry struct {
	Mutation
	seq uint64
}

type timerKey struct {
	action string
	id     string
}

type scheduled struct {
	timer clock.Timer
}

func New(opts Options) *Controller {
	if opts.List == nil {
		opts.List = petlist.New()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Log == nil {
		opts.Log = logger.NewNop()
	}
	if opts.NewTempID == nil {
		opts.NewTempID = NewTempID
	}

	return &Controller{
		store:     opts.Store,
		list:      opts.List,
		notifier:  opts.Notifier,
		clock:     opts.Clock,
		log:       opts.Log.With(map[string]any{"component": "optimistic"}),
		newTempID: opts.NewTempID,
		pending:   make(map[string]pendingEntry),
		exploding: make(map[string]time.Time),
		timers:    make(map[timerKey]*scheduled),
	}
}

// NewTempID arma un id provisorio ordenado por tiempo. Nunca choca con ids
// del server por el prefijo.
func NewTempID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return TempPrefix + uuid.NewString()
	}
	return TempPrefix + id.String()
}

// IsTemp reporta si id es provisorio.
func IsTemp(id string) bool {
	return strings.HasPrefix(id, TempPrefix)
}

func (c *Controller) List() *petlist.State { return c.list }

// Refresh recarga la lista completa. Si falla avisa y deja la lista como estaba.
func (c *Controller) Refresh(ctx context.Context) error {
	if err := c.reload(ctx); err != nil {
		c.log.Warn("load pets failed", map[string]any{"error": err})
		c.notify(MsgLoadFailed+": "+petstore.FriendlyMessage(err), notify.Error)
		return err
	}
	return nil
}

// Add = BeginAdd + CompleteAdd. Bloquea hasta que la mutación se resuelve.
func (c *Controller) Add(ctx context.Context, f petstore.Fields) Outcome {
	tempID := c.BeginAdd(f)
	return c.CompleteAdd(ctx, tempID, f)
}

// BeginAdd pone el registro provisorio al principio de la lista y devuelve su id.
func (c *Controller) BeginAdd(f petstore.Fields) string {
	tempID := c.newTempID()

	c.track(KindAdd, tempID)
	c.list.Prepend(petstore.Pet{
		ID:         tempID,
		Name:       f.Name,
		Breed:      f.Breed,
		Age:        f.Age,
		PictureURL: f.PictureURL,
	})
	return tempID
}

// CompleteAdd crea en el server y reconcilia el registro provisorio tempID.
func (c *Controller) CompleteAdd(ctx context.Context, tempID string, f petstore.Fields) Outcome {
	ctx = context.WithoutCancel(ctx)
	seq := c.seqOf(tempID)
	defer c.settle(tempID, seq)

	created, err := c.store.Create(ctx, f)
	if err != nil {
		c.list.Remove(tempID)
		c.log.Warn("add rolled back", map[string]any{"temp_id": tempID, "error": err})
		c.notify(MsgAddFailed+": "+petstore.FriendlyMessage(err), notify.Error)
		return RolledBack
	}

	if err := c.reload(ctx); err != nil {
		// el alta existe en el server; se reemplaza sólo el provisorio
		c.log.Warn("reload after add failed", map[string]any{"id": created.ID, "error": err})
		if !c.list.Replace(tempID, created) {
			if _, ok := c.list.Get(created.ID); !ok {
				c.list.Prepend(created)
			}
		}
	}

	c.log.Info("pet added", map[string]any{"id": created.ID})
	c.notify(MsgAdded, notify.Success)
	return Confirmed
}

// Delete marca id como explotando, lo saca de la lista a los RemoveDelay y
// borra en el server. Si el server no confirma se recarga la lista.
// Un id provisorio todavía no existe en el server: no se toca nada.
func (c *Controller) Delete(ctx context.Context, id string) Outcome {
	if IsTemp(id) {
		c.log.Debug("delete of temp record ignored", map[string]any{"id": id})
		return RolledBack
	}
	ctx = context.WithoutCancel(ctx)
	snapshot, had := c.list.Get(id)

	seq := c.track(KindDelete, id)
	defer c.settle(id, seq)

	c.mu.Lock()
	c.exploding[id] = c.clock.Now()
	c.mu.Unlock()

	c.schedule(timerKey{"remove", id}, RemoveDelay, func() {
		c.list.Remove(id)
	})
	c.schedule(timerKey{"clear", id}, ClearDelay, func() {
		c.mu.Lock()
		delete(c.exploding, id)
		c.mu.Unlock()
		c.settle(id, seq)
	})

	res, err := c.store.Delete(ctx, id)
	if err == nil {
		err = res.Check()
	}
	if err != nil {
		c.cancel(timerKey{"remove", id})
		c.restore(ctx, snapshot, had)
		c.log.Warn("delete rolled back", map[string]any{"id": id, "error": err})
		c.notify(MsgDeleteFailed+": "+petstore.FriendlyMessage(err), notify.Error)
		return RolledBack
	}

	c.log.Info("pet deleted", map[string]any{"id": id})
	c.notify(MsgDeleted, notify.Success)
	return Confirmed
}

// Update edita sin optimismo: primero el server, después recarga.
func (c *Controller) Update(ctx context.Context, id string, f petstore.Fields) Outcome {
	ctx = context.WithoutCancel(ctx)

	updated, err := c.store.Update(ctx, id, f)
	if err != nil {
		c.log.Warn("update failed", map[string]any{"id": id, "error": err})
		c.notify(MsgUpdateFailed+": "+petstore.FriendlyMessage(err), notify.Error)
		return RolledBack
	}

	if err := c.reload(ctx); err != nil {
		c.log.Warn("reload after update failed", map[string]any{"id": id, "error": err})
		c.list.Replace(id, updated)
	}

	c.notify(MsgUpdated, notify.Success)
	return Confirmed
}

// Exploding reporta si id está en la ventana de animación de borrado.
func (c *Controller) Exploding(id string) bool {
	_, ok := c.ExplodingSince(id)
	return ok
}

// ExplodingSince devuelve cuándo empezó la animación de borrado de id.
func (c *Controller) ExplodingSince(id string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	at, ok := c.exploding[id]
	return at, ok
}

// Pending devuelve las mutaciones en vuelo, las más viejas primero.
func (c *Controller) Pending() []Mutation {
	c.mu.Lock()
	entries := make([]pendingEntry, 0, len(c.pending))
	for _, e := range c.pending {
		entries = append(entries, e)
	}
	c.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]Mutation, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Mutation)
	}
	return out
}

// Close cancela los timers pendientes.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, s := range c.timers {
		s.timer.Stop()
		delete(c.timers, k)
	}
}

func (c *Controller) reload(ctx context.Context) error {
	pets, err := c.store.List(ctx)
	if err != nil {
		return err
	}
	c.list.ReplaceAll(pets)
	return nil
}

// restore recarga después de un delete fallido. Si tampoco se puede
// recargar, vuelve a poner el registro que se había sacado.
func (c *Controller) restore(ctx context.Context, snapshot petstore.Pet, had bool) {
	err := c.reload(ctx)
	if err == nil {
		return
	}
	c.log.Warn("reload after failed delete failed", map[string]any{"id": snapshot.ID, "error": err})
	if !had {
		return
	}
	if _, ok := c.list.Get(snapshot.ID); !ok {
		c.list.Prepend(snapshot)
	}
}

func (c *Controller) notify(msg string, sev notify.Severity) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(msg, sev)
}

// track registra la mutación; una segunda sobre el mismo id la pisa.
func (c *Controller) track(kind Kind, id string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.pending[id] = pendingEntry{
		Mutation: Mutation{Kind: kind, TargetID: id, StartedAt: c.clock.Now()},
		seq:      c.seq,
	}
	return c.seq
}

func (c *Controller) seqOf(id string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[id].seq
}

// settle descarta la mutación sólo si sigue siendo la misma que se registró.
func (c *Controller) settle(id string, seq uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.pending[id]; ok && e.seq == seq {
		delete(c.pending, id)
	}
}

// schedule programa fn con clave; reprogramar la misma clave cancela la anterior.
func (c *Controller) schedule(key timerKey, d time.Duration, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.timers[key]; ok {
		prev.timer.Stop()
	}

	s := &scheduled{}
	s.timer = c.clock.AfterFunc(d, func() {
		c.mu.Lock()
		if c.timers[key] != s {
			c.mu.Unlock()
			return
		}
		delete(c.timers, key)
		c.mu.Unlock()

		fn()
	})
	c.timers[key] = s
}

func (c *Controller) cancel(key timerKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.timers[key]
	if !ok {
		return false
	}
	delete(c.timers, key)
	return s.timer.Stop()
}
