// Package notify delivers desktop notifications through the running Fyne
// application. Delivery is best-effort; a denied or dropped notification is
// invisible to the caller.
package notify

import (
	"fyne.io/fyne/v2"
	"github.com/rs/zerolog/log"
)

// Notifier sends desktop notifications.
type Notifier struct {
	app fyne.App
}

// New creates a notifier bound to the application.
func New(app fyne.App) *Notifier {
	return &Notifier{app: app}
}

// Notify raises a desktop notification.
func (notifier *Notifier) Notify(title, body string) {
	if notifier.app == nil {
		return
	}
	log.Debug().Str("title", title).Msg("sending notification")
	notifier.app.SendNotification(fyne.NewNotification(title, body))
}
