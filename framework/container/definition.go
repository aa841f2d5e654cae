package container

import (
	"errors"
	"reflect"
)

// ── Definitions ───────────────────────────────────────────────────────────────

// Factory builds a concrete value from the container.
// Resolving other beans from inside a Factory is allowed and expected —
// the container re-queries its registry on every lookup instead of trusting
// snapshots across instantiation boundaries.
type Factory func(c *Container) (any, error)

// Role classifies a definition for diagnostic purposes.
//
//	// Spring: BeanDefinition.ROLE_APPLICATION / ROLE_INFRASTRUCTURE
type Role int

const (
	// RoleApplication marks a user-facing bean (the default).
	RoleApplication Role = iota

	// RoleInfrastructure marks a bean reserved for the framework's own use.
	// Infrastructure beans are exempt from the eligibility check performed
	// while the instance-extension chain is still being assembled.
	RoleInfrastructure
)

// Definition describes a registered bean: the concrete type its factory
// produces, how to build it, and how the framework should treat it.
//
//	// Spring: registry.registerBeanDefinition("mailer", beanDefinition)
//	c.Register(&container.Definition{
//	    Name: "mailer",
//	    Type: reflect.TypeOf(&Mailer{}),
//	    Build: func(c *container.Container) (any, error) {
//	        cfg, err := container.ResolveAs[*config.Config](c, "config")
//	        if err != nil {
//	            return nil, err
//	        }
//	        return NewMailer(cfg), nil
//	    },
//	})
type Definition struct {
	// Name is the unique bean identifier. Aliases may point at it.
	Name string

	// Type is the concrete type the factory produces. It is what capability
	// queries (NamesByType, IsTypeMatch) introspect, so leaving it nil makes
	// the definition invisible to non-forcing queries until it is built.
	Type reflect.Type

	// Build constructs the instance. When nil, Type must be a struct or
	// pointer-to-struct kind and a zero value is allocated.
	Build Factory

	// Role classifies the bean; defaults to RoleApplication.
	Role Role

	// Lazy excludes the bean from eager pre-instantiation at bootstrap.
	// It is still created on first Resolve.
	Lazy bool
}

// clone returns a shallow copy, used for the merged-metadata cache so that
// merge-metadata extensions can annotate a definition without mutating the
// raw registered one.
func (d *Definition) clone() *Definition {
	cp := *d
	return &cp
}

// ── Errors ────────────────────────────────────────────────────────────────────

var (
	ErrDefinitionNameEmpty = errors.New("container: definition name is empty")
	ErrDefinitionNil       = errors.New("container: definition is nil")
	ErrDefinitionUnbuildable = errors.New("container: definition has neither a factory nor a buildable type")
	ErrInstanceNil         = errors.New("container: instance is nil")
	ErrSelfAlias           = errors.New("container: alias points at itself")
)

// ── Initializer ───────────────────────────────────────────────────────────────

// Initializer is an optional interface a bean may implement to run setup
// after construction. The container invokes Init between the BeforeInit and
// AfterInit passes of the installed extension chain; a returned error aborts
// the resolution.
//
//	// Spring: InitializingBean.afterPropertiesSet()
type Initializer interface {
	Init() error
}
