package container

import "reflect"

// ── Extension contracts ───────────────────────────────────────────────────────

// FactoryExtension inspects or mutates finalized bean configuration after all
// definitions have been loaded but before any regular bean is built. It may
// edit definition metadata; it must not register wholly new definitions —
// that is what RegistryExtension is for.
//
//	// Spring: BeanFactoryPostProcessor.postProcessBeanFactory(beanFactory)
type FactoryExtension interface {
	ProcessFactory(f ExtensionFactory) error
}

// RegistryExtension may add, remove, or replace definitions before factory
// extensions run. Registering further RegistryExtension definitions from
// inside ProcessRegistry is supported: the lifecycle keeps re-scanning until
// no unprocessed registry extensions remain.
//
//	// Spring: BeanDefinitionRegistryPostProcessor.postProcessBeanDefinitionRegistry(registry)
type RegistryExtension interface {
	FactoryExtension
	ProcessRegistry(r DefinitionRegistry) error
}

// InstanceExtension hooks around every bean the container creates. Either
// hook may return a replacement instance; returning nil keeps the current
// one. An error aborts the resolution and propagates to the caller.
//
//	// Spring: BeanPostProcessor.postProcessBeforeInitialization / AfterInitialization
type InstanceExtension interface {
	BeforeInit(name string, instance any) (any, error)
	AfterInit(name string, instance any) (any, error)
}

// MergeMetadataExtension additionally receives each bean's merged definition
// before the bean is built. Extensions with this capability are reserved for
// framework internals and are always installed after all plain instance
// extensions, regardless of their declared tier.
//
//	// Spring: MergedBeanDefinitionPostProcessor.postProcessMergedBeanDefinition(...)
type MergeMetadataExtension interface {
	InstanceExtension
	ProcessMergedDefinition(name string, def *Definition)
}

// ── Ordering contracts ────────────────────────────────────────────────────────

// Ordered declares an explicit numeric order. Lower values run earlier.
//
//	// Spring: Ordered.getOrder()
type Ordered interface {
	Order() int
}

// Prioritized marks an extension as belonging to the highest ordering tier:
// all Prioritized extensions run before all merely Ordered ones, which run
// before extensions declaring no order at all. Prioritized extensions are
// still ranked by Order among themselves.
//
//	// Spring: the PriorityOrdered marker interface
type Prioritized interface {
	Ordered
	Prioritized()
}

// ── Container views ───────────────────────────────────────────────────────────

// ExtensionFactory is the queryable view of a bean factory the lifecycle
// phases run against. *Container implements it; minimal factories may
// implement only this interface, in which case the registry-mutation tiers
// are skipped entirely.
type ExtensionFactory interface {
	// NamesByType lists definition names whose concrete type implements
	// iface, in registration order. allowEager controls whether definitions
	// that only learn their type by being built (nil Type) are forced;
	// the lifecycle always passes false so that matching never dictates
	// creation order.
	NamesByType(iface reflect.Type, allowEager bool) []string

	// IsTypeMatch reports whether the named definition's type implements
	// iface without ever forcing instantiation.
	IsTypeMatch(name string, iface reflect.Type) bool

	// Resolve returns the singleton for name, creating it on first use.
	Resolve(name string) (any, error)

	// AddInstanceExtension appends ext to the installed chain. Re-adding an
	// already-installed extension moves it to the end.
	AddInstanceExtension(ext InstanceExtension)

	// AddInstanceExtensions is the bulk variant of AddInstanceExtension.
	AddInstanceExtensions(exts []InstanceExtension)

	// InstanceExtensionCount returns the current installed-chain length.
	InstanceExtensionCount() int

	// ContainsDefinition reports whether a definition is registered for name.
	ContainsDefinition(name string) bool

	// DefinitionRole returns the role of the named definition.
	DefinitionRole(name string) (Role, bool)

	// ClearMetadataCache invalidates cached merged definition metadata.
	ClearMetadataCache()
}

// DefinitionRegistry is the optional registry-mutation capability of a bean
// factory. Factories lacking it degrade the lifecycle to direct invocation
// of the supplied extensions' factory callbacks.
type DefinitionRegistry interface {
	Register(def *Definition) error
	RemoveDefinition(name string)
	ContainsDefinition(name string) bool
}

// ComparatorSource is the optional capability of supplying a custom ordering
// comparator. A non-nil comparator fully replaces DefaultComparator.
type ComparatorSource interface {
	OrderingComparator() Comparator
}

// Capability types used for introspection queries.
var (
	factoryExtensionType  = reflect.TypeOf((*FactoryExtension)(nil)).Elem()
	registryExtensionType = reflect.TypeOf((*RegistryExtension)(nil)).Elem()
	instanceExtensionType = reflect.TypeOf((*InstanceExtension)(nil)).Elem()
	orderedType           = reflect.TypeOf((*Ordered)(nil)).Elem()
	prioritizedType       = reflect.TypeOf((*Prioritized)(nil)).Elem()
)
