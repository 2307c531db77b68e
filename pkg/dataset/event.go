package dataset

// ChangeEvent describes a mutation of a series or dataset. Source is the
// object that changed; Cause carries the upstream event when a dataset
// re-broadcasts a change of one of its children.
type ChangeEvent struct {
	Source any
	Cause  *ChangeEvent
}

// Listener receives change events.
type Listener interface {
	Changed(event ChangeEvent)
}

// Notifier keeps a listener list and fires events to it in registration
// order. It is embedded by every series and dataset type.
//
// Notification can be switched off with SetNotify, which suppresses outgoing
// events but never the mutation itself, or muted for the duration of a
// synchronisation pass with Mute.
type Notifier struct {
	source    any
	listeners []Listener
	silenced  bool
	muted     int
}

// NewNotifier binds a notifier to the object reported as event source.
func NewNotifier(source any) Notifier {
	return Notifier{source: source}
}

// Bind sets the event source. Types embedding Notifier by value call it from
// their constructors.
func (n *Notifier) Bind(source any) {
	n.source = source
}

// AddChangeListener registers l. Registering the same listener twice
// delivers events to it twice.
func (n *Notifier) AddChangeListener(l Listener) {
	n.listeners = append(n.listeners, l)
}

// RemoveChangeListener removes the first registration of l.
func (n *Notifier) RemoveChangeListener(l Listener) {
	for i, existing := range n.listeners {
		if existing == l {
			n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)

			return
		}
	}
}

// HasListener reports whether l is registered.
func (n *Notifier) HasListener(l Listener) bool {
	for _, existing := range n.listeners {
		if existing == l {
			return true
		}
	}

	return false
}

// Notify reports whether outgoing events are enabled.
func (n *Notifier) Notify() bool {
	return !n.silenced
}

// SetNotify enables or disables outgoing events. Enabling fires one event so
// listeners catch up with changes made while silenced.
func (n *Notifier) SetNotify(notify bool) {
	if n.silenced == !notify {
		return
	}

	n.silenced = !notify
	if notify {
		n.Fire()
	}
}

// Mute suppresses events until the returned release function is called.
// Mutes nest; the typical use is
//
//	defer n.Mute()()
func (n *Notifier) Mute() (release func()) {
	n.muted++

	released := false

	return func() {
		if released {
			return
		}

		released = true
		n.muted--
	}
}

// Muted reports whether a Mute guard is active.
func (n *Notifier) Muted() bool {
	return n.muted > 0
}

// Fire sends a fresh event to all listeners.
func (n *Notifier) Fire() {
	n.FireEvent(ChangeEvent{Source: n.source})
}

// FireCaused sends an event whose cause is an upstream event.
func (n *Notifier) FireCaused(cause ChangeEvent) {
	n.FireEvent(ChangeEvent{Source: n.source, Cause: &cause})
}

// FireEvent sends event to all listeners unless notification is off or muted.
func (n *Notifier) FireEvent(event ChangeEvent) {
	if n.silenced || n.muted > 0 {
		return
	}

	// Listeners may detach themselves while being notified.
	snapshot := make([]Listener, len(n.listeners))
	copy(snapshot, n.listeners)

	for _, l := range snapshot {
		l.Changed(event)
	}
}
