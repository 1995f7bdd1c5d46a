package game

import "matatu_empire/internal/models"

// Notifier receives presentation events emitted by the engine: breakdowns,
// weather changes, triggered events, toast-worthy outcomes.
type Notifier interface {
	Notify(n models.Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(n models.Notification)

func (f NotifierFunc) Notify(n models.Notification) { f(n) }

// NopNotifier discards all notifications.
func NopNotifier() Notifier {
	return NotifierFunc(func(models.Notification) {})
}
