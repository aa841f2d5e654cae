package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"reflect"
	"time"

	"github.com/nk-arch/go-beans/framework/app"
	"github.com/nk-arch/go-beans/framework/container"
	"github.com/nk-arch/go-beans/framework/event"
	"github.com/nk-arch/go-beans/framework/routing"
)

// Greeter is an ordinary application bean.
type Greeter struct {
	Greeting string
}

func (g *Greeter) Greet(name string) string {
	return g.Greeting + ", " + name + "!"
}

// greeterExtension registers the greeter definition before any bean is
// built — the framework discovers it in the container and invokes it during
// the registry phase.
type greeterExtension struct{}

func (e *greeterExtension) ProcessRegistry(r container.DefinitionRegistry) error {
	return r.Register(&container.Definition{
		Name: "greeter",
		Type: reflect.TypeOf(&Greeter{}),
		Build: func(c *container.Container) (any, error) {
			return &Greeter{Greeting: "Hello"}, nil
		},
	})
}

func (e *greeterExtension) ProcessFactory(f container.ExtensionFactory) error { return nil }

// timingExtension measures construction time of every bean.
type timingExtension struct {
	log    *slog.Logger
	starts map[string]time.Time
}

func (t *timingExtension) BeforeInit(name string, instance any) (any, error) {
	t.starts[name] = time.Now()
	return instance, nil
}

func (t *timingExtension) AfterInit(name string, instance any) (any, error) {
	if start, ok := t.starts[name]; ok {
		t.log.Debug("bean initialized", "name", name, "took", time.Since(start))
		delete(t.starts, name)
	}
	return instance, nil
}

// bootListener is subscribed automatically: the listener detector spots any
// bean implementing event.Listener as it is created.
type bootListener struct {
	log *slog.Logger
}

func (l *bootListener) Handle(e event.Event) {
	l.log.Info("event received", "topic", e.Topic)
}

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	application := app.NewWithLogger(log) // loads .env automatically

	// Queue a registry extension alongside the framework's built-ins.
	application.RegisterExtension(&greeterExtension{})

	// A plain bean that happens to be an event listener.
	_ = application.Register(&container.Definition{
		Name: "boot-listener",
		Type: reflect.TypeOf(&bootListener{}),
		Build: func(c *container.Container) (any, error) {
			return &bootListener{log: log}, nil
		},
	})

	application.AddInstanceExtension(&timingExtension{log: log, starts: make(map[string]time.Time)})

	if err := application.Boot(); err != nil {
		log.Error("boot failed", "error", err)
		os.Exit(1)
	}

	router, err := application.Router()
	if err != nil {
		log.Error("router missing", "error", err)
		os.Exit(1)
	}

	router.Get("/greet/{name}", func(w http.ResponseWriter, req *http.Request) {
		greeter, err := container.ResolveAs[*Greeter](application.Container, "greeter")
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": greeter.Greet(routing.Param(req, "name")),
		})
	})

	if err := application.Run(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
