// Package extensions holds the framework's built-in extensions. The kernel
// supplies them to the lifecycle ahead of any application extension, so core
// definitions exist before user code runs.
package extensions

import (
	"reflect"

	"github.com/nk-arch/go-beans/framework/config"
	"github.com/nk-arch/go-beans/framework/container"
	"github.com/nk-arch/go-beans/framework/routing"
)

// ── ConfigExtension ───────────────────────────────────────────────────────────

// ConfigExtension registers the typed application configuration, loaded from
// .env files, as the infrastructure definition "config".
//
// Registered definitions:
//   - "config" → *config.Config
//
// Spring equivalent:
//
//	// PropertySourcesPlaceholderConfigurer registration in context bootstrap
type ConfigExtension struct {
	EnvFiles []string
}

func (e *ConfigExtension) ProcessRegistry(r container.DefinitionRegistry) error {
	envFiles := e.EnvFiles
	return r.Register(&container.Definition{
		Name: "config",
		Type: reflect.TypeOf(&config.Config{}),
		Role: container.RoleInfrastructure,
		Build: func(c *container.Container) (any, error) {
			return config.Load(envFiles...), nil
		},
	})
}

func (e *ConfigExtension) ProcessFactory(f container.ExtensionFactory) error { return nil }

// ── RouterExtension ───────────────────────────────────────────────────────────

// RouterExtension registers the HTTP router.
//
// Registered definitions:
//   - "router" → *routing.Router
type RouterExtension struct{}

func (e *RouterExtension) ProcessRegistry(r container.DefinitionRegistry) error {
	return r.Register(&container.Definition{
		Name: "router",
		Type: reflect.TypeOf(&routing.Router{}),
		Role: container.RoleInfrastructure,
		Build: func(c *container.Container) (any, error) {
			return routing.New(), nil
		},
	})
}

func (e *RouterExtension) ProcessFactory(f container.ExtensionFactory) error { return nil }
