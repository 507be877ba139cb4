// internal/app/system/outbox/dispatcher.go
package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/roomhub/internal/app/system/notify"
	"go.uber.org/zap"
)

// deliverTimeout bounds a single collaborator call.
const deliverTimeout = 10 * time.Second

// Dispatcher is the background worker that drains the queue and calls
// the collaborators. Failures are logged and the intent is dropped.
type Dispatcher struct {
	queue    *Queue
	notifier notify.Notifier
	roster   notify.RosterSyncer
	log      *zap.Logger
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewDispatcher creates a dispatcher for the given queue and collaborators.
func NewDispatcher(queue *Queue, notifier notify.Notifier, roster notify.RosterSyncer, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		queue:    queue,
		notifier: notifier,
		roster:   roster,
		log:      logger,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background delivery loop.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
	d.log.Info("outbox dispatcher started")
}

// Stop signals the dispatcher to stop, drains any buffered intents,
// and waits for it to finish.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
	d.wg.Wait()
	d.log.Info("outbox dispatcher stopped")
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case <-d.stopCh:
			d.drain()
			return
		case in := <-d.queue.ch:
			d.deliver(in)
		}
	}
}

// drain delivers whatever is still buffered without blocking for more.
func (d *Dispatcher) drain() {
	for {
		select {
		case in := <-d.queue.ch:
			d.deliver(in)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(in Intent) {
	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()

	var err error
	switch in.Kind {
	case KindNotifyUser:
		err = d.notifier.NotifyUser(ctx, in.UserID, in.Title, in.Body, in.NoteKind, in.Payload)
	case KindNotifyRoom:
		err = d.notifier.NotifyRoom(ctx, in.RoomID, in.Title, in.Body, in.Payload)
	case KindSyncRoster:
		err = d.roster.SyncRoomRoster(ctx, in.RoomID, in.MemberIDs, in.RoomName)
	default:
		d.log.Warn("unknown outbox intent kind", zap.String("kind", in.Kind))
		return
	}
	if err != nil {
		// Best-effort by contract: log and move on.
		d.log.Warn("side-effect delivery failed",
			zap.String("intent_id", in.ID),
			zap.String("kind", in.Kind),
			zap.Error(err))
	}
}
