package container

import "github.com/nk-arch/go-beans/framework/event"

// ── Listener detection ────────────────────────────────────────────────────────

// ListenerDetector is the reserved instance extension that subscribes every
// bean implementing event.Listener to the application's event bus as it is
// created. The kernel installs one copy early, before the extension phases
// run, and InstallInstanceExtensions re-installs the same copy so it is
// guaranteed to sit at the very end of the chain.
//
//	// Spring: ApplicationListenerDetector
type ListenerDetector struct {
	bus *event.Bus
}

// NewListenerDetector creates a detector bound to bus.
func NewListenerDetector(bus *event.Bus) *ListenerDetector {
	return &ListenerDetector{bus: bus}
}

func (d *ListenerDetector) BeforeInit(name string, instance any) (any, error) {
	return instance, nil
}

func (d *ListenerDetector) AfterInit(name string, instance any) (any, error) {
	if l, ok := instance.(event.Listener); ok {
		d.bus.Subscribe(l)
	}
	return instance, nil
}
