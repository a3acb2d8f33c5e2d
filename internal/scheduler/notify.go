package scheduler

import (
	"github.com/gen2brain/beeep"
)

// Notifier delivers a reminder to the user.
type Notifier interface {
	Notify(title, message string) error
}

// DesktopNotifier shows reminders as desktop notifications.
type DesktopNotifier struct{}

func (DesktopNotifier) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// SendNotification shows a desktop notification, ignoring delivery errors.
func SendNotification(title, message string) {
	_ = DesktopNotifier{}.Notify(title, message)
}
