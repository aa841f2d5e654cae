// Package app provides the application kernel: the bootstrap sequence that
// takes a fresh container through the extension lifecycle and into serving.
package app

import (
	"log/slog"
	"net/http"

	"github.com/nk-arch/go-beans/framework/config"
	"github.com/nk-arch/go-beans/framework/container"
	"github.com/nk-arch/go-beans/framework/event"
	"github.com/nk-arch/go-beans/framework/extensions"
	"github.com/nk-arch/go-beans/framework/routing"
)

// Application is the top-level application container. It embeds the IoC
// Container so user code can call app.Register(), app.Resolve() directly.
type Application struct {
	*container.Container

	// Bus is the application event bus. Beans implementing event.Listener
	// are subscribed automatically as they are created.
	Bus *event.Bus

	log      *slog.Logger
	detector *container.ListenerDetector
	supplied []container.FactoryExtension
	booted   bool
}

// New creates an application with the framework's built-in extensions
// queued. Nothing runs until Boot.
func New(envFiles ...string) *Application {
	return NewWithLogger(slog.Default(), envFiles...)
}

// NewWithLogger is New with an explicit structured log sink.
func NewWithLogger(log *slog.Logger, envFiles ...string) *Application {
	if log == nil {
		log = slog.Default()
	}
	c := container.NewWithLogger(log)
	bus := event.NewBus()
	detector := container.NewListenerDetector(bus)

	// Installed ahead of the extension phases so beans built while the
	// chain is still assembling are already watched for listeners. The
	// install step re-adds the same detector at the very end of the chain.
	c.AddInstanceExtension(detector)

	return &Application{
		Container: c,
		Bus:       bus,
		log:       log,
		detector:  detector,
		supplied: []container.FactoryExtension{
			&extensions.ConfigExtension{EnvFiles: envFiles},
			&extensions.RouterExtension{},
		},
	}
}

// RegisterExtension queues a caller-supplied extension for the bootstrap
// phases. Supplied registry extensions run before any discovered in the
// container, in the order they were queued. Must be called before Boot.
func (a *Application) RegisterExtension(ext container.FactoryExtension) {
	a.supplied = append(a.supplied, ext)
}

// Boot runs the full bootstrap sequence: the registry and factory extension
// phases, instance-extension installation, then eager instantiation of all
// non-lazy singletons. Idempotent.
func (a *Application) Boot() error {
	if a.booted {
		return nil
	}
	if err := container.ApplyFactoryExtensions(a.Container, a.supplied, a.log); err != nil {
		return err
	}
	if err := container.InstallInstanceExtensions(a.Container, a.detector, a.log); err != nil {
		return err
	}
	if err := a.Container.Build(); err != nil {
		return err
	}
	a.booted = true
	a.Bus.Publish(event.Event{Topic: "app.booted", Payload: a})
	return nil
}

// Booted reports whether Boot has completed.
func (a *Application) Booted() bool { return a.booted }

// Config resolves *config.Config from the container.
func (a *Application) Config() (*config.Config, error) {
	return container.ResolveAs[*config.Config](a.Container, "config")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() (*routing.Router, error) {
	return container.ResolveAs[*routing.Router](a.Container, "router")
}

// Run boots the application (if needed) and starts the HTTP server.
func (a *Application) Run() error {
	if !a.booted {
		if err := a.Boot(); err != nil {
			return err
		}
	}
	cfg, err := a.Config()
	if err != nil {
		return err
	}
	router, err := a.Router()
	if err != nil {
		return err
	}
	addr := ":" + cfg.App.Port
	a.log.Info("http server listening", "app", cfg.App.Name, "addr", addr, "env", cfg.App.Env)
	return http.ListenAndServe(addr, router)
}
