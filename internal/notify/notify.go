// Package notify delivers phase-boundary notifications to the desktop
// through the freedesktop notification service on the session bus.
package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/alexander-akhmetov/pomodoro/internal/timer"
)

const (
	busName    = "org.freedesktop.Notifications"
	objectPath = "/org/freedesktop/Notifications"
	notifyCall = busName + ".Notify"

	appName = "pomodoro"
	appIcon = "alarm-symbolic"

	// expireDefault lets the notification server pick the timeout.
	expireDefault = int32(-1)
)

// Message is a rendered notification.
type Message struct {
	Summary string
	Body    string
	Sound   string
}

// Notifier delivers messages to the user.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Translator resolves message keys to text.
type Translator interface {
	T(key string) string
}

// Build renders a timer notification with the given translator.
func Build(n timer.Notification, tr Translator) Message {
	return Message{
		Summary: tr.T(n.TitleKey),
		Body:    tr.T(n.BodyKey),
		Sound:   n.SoundID,
	}
}

// Nop discards every message.
type Nop struct{}

func (Nop) Notify(context.Context, Message) error { return nil }

// DBus sends notifications over the session bus.
type DBus struct {
	conn *dbus.Conn
	obj  dbus.BusObject

	mu sync.Mutex
	// replaces is the id of the last notification so a new one replaces it
	// instead of stacking up.
	replaces uint32
}

// NewDBus connects to the session bus. It fails when no session bus is
// available (headless sessions, SSH without forwarding).
func NewDBus() (*DBus, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return &DBus{conn: conn, obj: conn.Object(busName, objectPath)}, nil
}

// Notify shows msg. The sound is passed as the "sound-name" hint.
// Concurrent calls are serialized so each one replaces the last.
func (d *DBus) Notify(ctx context.Context, msg Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	hints := map[string]dbus.Variant{}
	if msg.Sound != "" {
		hints["sound-name"] = dbus.MakeVariant(msg.Sound)
	}

	call := d.obj.CallWithContext(ctx, notifyCall, 0,
		appName, d.replaces, appIcon, msg.Summary, msg.Body, []string{}, hints, expireDefault)
	var id uint32
	if err := call.Store(&id); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	d.replaces = id
	return nil
}

// Close releases the bus connection.
func (d *DBus) Close() error {
	if d.conn == nil {
		return nil
	}
	return d.conn.Close()
}
