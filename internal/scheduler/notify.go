package scheduler

import "github.com/gen2brain/beeep"

// Notifier delivers a reminder to the user.
type Notifier interface {
	Notify(title, message string) error
}

// Desktop sends native desktop notifications.
type Desktop struct{}

func (Desktop) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}
