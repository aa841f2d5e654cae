// Package container provides a Spring-flavoured IoC (Inversion of Control)
// container for Go: named bean definitions, lazily created singletons, and a
// layered extension lifecycle that runs at bootstrap.
//
// # Overview
//
// The container manages the instantiation of your application's beans from
// registered definitions. What makes it more than a map of factories is the
// extension lifecycle: plugins that rewrite definitions, inspect finalized
// configuration, and hook around every bean's construction — mirroring the
// public behaviour of Spring's post-processor machinery as closely as Go's
// type system allows.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register definitions: c.Register(&container.Definition{...})
//  3. Run extension phases: container.ApplyFactoryExtensions(c, supplied, log)
//  4. Install instance extensions: container.InstallInstanceExtensions(c, detector, log)
//  5. Pre-instantiate singletons: c.Build()
//
// The kernel in framework/app performs this sequence; library users only
// need it when embedding the container directly.
//
// # Extensions
//
// Three extension classes run at three lifecycle points:
//
//	// Rewrites definitions before anything is built
//	// Spring: BeanDefinitionRegistryPostProcessor
//	type RegistryExtension interface {
//	    FactoryExtension
//	    ProcessRegistry(r DefinitionRegistry) error
//	}
//
//	// Inspects/mutates finalized configuration
//	// Spring: BeanFactoryPostProcessor
//	type FactoryExtension interface {
//	    ProcessFactory(f ExtensionFactory) error
//	}
//
//	// Hooks around every bean's construction
//	// Spring: BeanPostProcessor
//	type InstanceExtension interface {
//	    BeforeInit(name string, instance any) (any, error)
//	    AfterInit(name string, instance any) (any, error)
//	}
//
// Registry extensions may register further registry extensions from inside
// their own callback; the lifecycle keeps re-scanning until a fixed point.
//
// # Ordering
//
// Extensions are invoked tier by tier — all Prioritized ones first, then all
// Ordered ones, then the rest — and by ascending Order() inside a tier, with
// discovery order breaking ties. Candidates in the lower tiers are deferred
// by name and only built when their tier comes up, so instantiation order
// honors the same contract as invocation order.
//
// # Errors
//
// An extension callback or bean factory returning an error aborts bootstrap
// immediately; nothing is retried or rolled back. A bean created too early
// to see the full extension chain is merely reported through the structured
// log by the eligibility checker.
package container
