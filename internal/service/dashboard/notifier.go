package dashboard

import (
	"sync"
	"time"

	"github.com/facturaflow/dashboard/internal/domain/dashboard"
	"github.com/facturaflow/dashboard/internal/pkg/sse"
	"github.com/google/uuid"
)

// DefaultToastDuration applies when Show gets a non-positive duration
const DefaultToastDuration = 3 * time.Second

// Notifier owns the single toast element. Each Show schedules its own hide
// and earlier hides are not cancelled, so an old timer can hide a newer toast.
type Notifier struct {
	mu     sync.RWMutex
	toast  dashboard.Toast
	events EventPublisher
}

func NewNotifier(events EventPublisher) *Notifier {
	return &Notifier{events: events}
}

// Show displays message and hides the toast after duration
func (n *Notifier) Show(message string, duration time.Duration) dashboard.Toast {
	if duration <= 0 {
		duration = DefaultToastDuration
	}

	n.mu.Lock()
	n.toast = dashboard.Toast{
		ID:         uuid.NewString(),
		Message:    message,
		Visible:    true,
		DurationMs: duration.Milliseconds(),
	}
	shown := n.toast
	n.mu.Unlock()

	n.publish(EventNotificationShow, shown)
	time.AfterFunc(duration, n.hide)
	return shown
}

func (n *Notifier) hide() {
	n.mu.Lock()
	n.toast.Visible = false
	hidden := n.toast
	n.mu.Unlock()

	n.publish(EventNotificationHide, hidden)
}

func (n *Notifier) Current() dashboard.Toast {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.toast
}

func (n *Notifier) publish(name string, toast dashboard.Toast) {
	if n.events == nil {
		return
	}
	n.events.Broadcast(sse.Event{Event: name, Data: toast})
}
