package container

import (
	"fmt"
	"log/slog"
)

// ── Registry + factory extension phases ───────────────────────────────────────

// ApplyFactoryExtensions runs the registry-mutation and factory-mutation
// extension phases against a bean factory. It is called once at bootstrap
// with the extensions supplied by the caller; everything else is discovered
// from the factory's own definitions.
//
// WARNING: the multiple passes over definition names and the multiple
// holding lists are intentional. The tier contracts (Prioritized before
// Ordered before unordered) must hold not just for invocation order but for
// instantiation order — resolving every candidate up front would create
// beans in an order that violates the very contract being enforced. Each
// tier re-queries the factory instead of trusting a snapshot, because
// invoking an extension can register new definitions.
//
//	// Spring: PostProcessorRegistrationDelegate.invokeBeanFactoryPostProcessors(...)
func ApplyFactoryExtensions(factory ExtensionFactory, supplied []FactoryExtension, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	// Names already resolved in this bootstrap. Checked immediately before
	// every instantiation: a reentrant resolve inside an extension callback
	// may have created a pending extension already.
	processed := make(map[string]struct{})

	if registry, ok := factory.(DefinitionRegistry); ok {
		// Holds every registry extension invoked so far, in invocation
		// order, for the cumulative factory-mutation callbacks at the end.
		var registryExts []RegistryExtension
		// Supplied extensions without the registry capability, deferred to
		// the factory-mutation stage in original caller order.
		var regular []FactoryExtension

		// Supplied registry extensions run before any discovered ones, in
		// caller order, unsorted: externally supplied setup has first say
		// over raw registry content.
		for _, ext := range supplied {
			if re, ok := ext.(RegistryExtension); ok {
				log.Debug("registry extension invoked", "phase", "supplied", "extension", fmt.Sprintf("%T", re))
				if err := re.ProcessRegistry(registry); err != nil {
					return err
				}
				registryExts = append(registryExts, re)
			} else {
				regular = append(regular, ext)
			}
		}

		cmp := comparatorFor(factory)
		var current []RegistryExtension

		// First, the discovered registry extensions that are Prioritized.
		for _, name := range factory.NamesByType(registryExtensionType, false) {
			if factory.IsTypeMatch(name, prioritizedType) {
				ext, err := ResolveAs[RegistryExtension](factory, name)
				if err != nil {
					return err
				}
				current = append(current, ext)
				processed[name] = struct{}{}
			}
		}
		SortExtensions(current, cmp)
		registryExts = append(registryExts, current...)
		if err := invokeRegistryExtensions(current, registry, log, "priority"); err != nil {
			return err
		}
		current = current[:0]

		// Next, the Ordered ones. The query is re-run, not cached: the
		// priority tier may have registered new definitions.
		for _, name := range factory.NamesByType(registryExtensionType, false) {
			if _, done := processed[name]; done {
				continue
			}
			if factory.IsTypeMatch(name, orderedType) {
				ext, err := ResolveAs[RegistryExtension](factory, name)
				if err != nil {
					return err
				}
				current = append(current, ext)
				processed[name] = struct{}{}
			}
		}
		SortExtensions(current, cmp)
		registryExts = append(registryExts, current...)
		if err := invokeRegistryExtensions(current, registry, log, "ordered"); err != nil {
			return err
		}
		current = current[:0]

		// Finally, keep re-scanning until a round discovers nothing new.
		// Registry extensions may register further registry extensions;
		// termination is the extensions' responsibility — an extension that
		// always registers a fresh uniquely-named one will loop forever.
		for round, reiterate := 1, true; reiterate; round++ {
			reiterate = false
			for _, name := range factory.NamesByType(registryExtensionType, false) {
				if _, done := processed[name]; done {
					continue
				}
				ext, err := ResolveAs[RegistryExtension](factory, name)
				if err != nil {
					return err
				}
				current = append(current, ext)
				processed[name] = struct{}{}
				reiterate = true
			}
			log.Debug("registry extension scan", "round", round, "discovered", len(current))
			SortExtensions(current, cmp)
			registryExts = append(registryExts, current...)
			if err := invokeRegistryExtensions(current, registry, log, "reiteration"); err != nil {
				return err
			}
			current = current[:0]
		}

		// Factory-mutation callbacks: every registry extension processed so
		// far, in the exact cumulative order it was invoked for registry
		// mutation, then the supplied plain factory extensions in caller
		// order.
		for _, ext := range registryExts {
			if err := ext.ProcessFactory(factory); err != nil {
				return err
			}
		}
		for _, ext := range regular {
			if err := ext.ProcessFactory(factory); err != nil {
				return err
			}
		}
	} else {
		// Minimal factory without registry mutation: no ordering machinery,
		// just the supplied extensions' factory callbacks.
		log.Debug("factory has no definition registry, invoking supplied extensions directly")
		for _, ext := range supplied {
			if err := ext.ProcessFactory(factory); err != nil {
				return err
			}
		}
	}

	// One non-repeating pass over factory extensions not handled above.
	// Ordered and unordered candidates are deferred by name so that the
	// prioritized ones are built and run first.
	var (
		prioritized    []FactoryExtension
		orderedNames   []string
		unorderedNames []string
	)
	for _, name := range factory.NamesByType(factoryExtensionType, false) {
		if _, done := processed[name]; done {
			continue
		}
		switch {
		case factory.IsTypeMatch(name, prioritizedType):
			ext, err := ResolveAs[FactoryExtension](factory, name)
			if err != nil {
				return err
			}
			prioritized = append(prioritized, ext)
		case factory.IsTypeMatch(name, orderedType):
			orderedNames = append(orderedNames, name)
		default:
			unorderedNames = append(unorderedNames, name)
		}
	}

	cmp := comparatorFor(factory)
	SortExtensions(prioritized, cmp)
	if err := invokeFactoryExtensions(prioritized, factory, log, "priority"); err != nil {
		return err
	}

	ordered := make([]FactoryExtension, 0, len(orderedNames))
	for _, name := range orderedNames {
		ext, err := ResolveAs[FactoryExtension](factory, name)
		if err != nil {
			return err
		}
		ordered = append(ordered, ext)
	}
	SortExtensions(ordered, cmp)
	if err := invokeFactoryExtensions(ordered, factory, log, "ordered"); err != nil {
		return err
	}

	unordered := make([]FactoryExtension, 0, len(unorderedNames))
	for _, name := range unorderedNames {
		ext, err := ResolveAs[FactoryExtension](factory, name)
		if err != nil {
			return err
		}
		unordered = append(unordered, ext)
	}
	if err := invokeFactoryExtensions(unordered, factory, log, "unordered"); err != nil {
		return err
	}

	// The extensions may have rewritten raw definition data that earlier
	// merging assumed immutable.
	factory.ClearMetadataCache()
	return nil
}

// ── Instance-extension installation ───────────────────────────────────────────

// InstallInstanceExtensions resolves every declared instance extension and
// appends it to the factory's chain in tier order: sorted Prioritized, then
// sorted Ordered, then unordered. Extensions that also carry the
// merge-metadata capability are captured from every tier, re-sorted, and
// re-installed after the regular ones, so framework-internal lifecycle
// extensions always end up behind application-facing ones no matter what
// tier they declared. The reserved extension (typically the listener
// detector) is re-installed dead last.
//
// An eligibility checker is installed before anything is resolved, so beans
// created as a side effect of building an extension are flagged as too early
// to see the full chain.
//
//	// Spring: PostProcessorRegistrationDelegate.registerBeanPostProcessors(...)
func InstallInstanceExtensions(factory ExtensionFactory, reserved InstanceExtension, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	names := factory.NamesByType(instanceExtensionType, false)

	target := factory.InstanceExtensionCount() + 1 + len(names)
	factory.AddInstanceExtension(&eligibilityChecker{factory: factory, target: target, log: log})

	var (
		prioritized    []InstanceExtension
		internal       []InstanceExtension
		orderedNames   []string
		unorderedNames []string
	)
	for _, name := range names {
		switch {
		case factory.IsTypeMatch(name, prioritizedType):
			ext, err := ResolveAs[InstanceExtension](factory, name)
			if err != nil {
				return err
			}
			prioritized = append(prioritized, ext)
			if m, ok := ext.(MergeMetadataExtension); ok {
				internal = append(internal, m)
			}
		case factory.IsTypeMatch(name, orderedType):
			orderedNames = append(orderedNames, name)
		default:
			unorderedNames = append(unorderedNames, name)
		}
	}

	cmp := comparatorFor(factory)
	SortExtensions(prioritized, cmp)
	factory.AddInstanceExtensions(prioritized)

	ordered := make([]InstanceExtension, 0, len(orderedNames))
	for _, name := range orderedNames {
		ext, err := ResolveAs[InstanceExtension](factory, name)
		if err != nil {
			return err
		}
		ordered = append(ordered, ext)
		if m, ok := ext.(MergeMetadataExtension); ok {
			internal = append(internal, m)
		}
	}
	SortExtensions(ordered, cmp)
	factory.AddInstanceExtensions(ordered)

	unordered := make([]InstanceExtension, 0, len(unorderedNames))
	for _, name := range unorderedNames {
		ext, err := ResolveAs[InstanceExtension](factory, name)
		if err != nil {
			return err
		}
		unordered = append(unordered, ext)
		if m, ok := ext.(MergeMetadataExtension); ok {
			internal = append(internal, m)
		}
	}
	factory.AddInstanceExtensions(unordered)

	// Re-adding moves each to the end of the chain.
	SortExtensions(internal, cmp)
	factory.AddInstanceExtensions(internal)

	if reserved != nil {
		factory.AddInstanceExtension(reserved)
	}
	log.Debug("instance extensions installed", "declared", len(names), "chain", factory.InstanceExtensionCount())
	return nil
}

// ── Invocation helpers ────────────────────────────────────────────────────────

func invokeRegistryExtensions(exts []RegistryExtension, registry DefinitionRegistry, log *slog.Logger, tier string) error {
	for _, ext := range exts {
		log.Debug("registry extension invoked", "phase", tier, "extension", fmt.Sprintf("%T", ext))
		if err := ext.ProcessRegistry(registry); err != nil {
			return err
		}
	}
	return nil
}

func invokeFactoryExtensions(exts []FactoryExtension, factory ExtensionFactory, log *slog.Logger, tier string) error {
	for _, ext := range exts {
		log.Debug("factory extension invoked", "phase", tier, "extension", fmt.Sprintf("%T", ext))
		if err := ext.ProcessFactory(factory); err != nil {
			return err
		}
	}
	return nil
}

// ── Eligibility checker ───────────────────────────────────────────────────────

// eligibilityChecker reports beans that were created while the instance
// extension chain was still being assembled, i.e. beans that will never be
// processed by all installed extensions. The report is a diagnostic, never
// an error: it signals a design smell in how the container is being used,
// not a lifecycle failure.
//
//	// Spring: PostProcessorRegistrationDelegate.BeanPostProcessorChecker
type eligibilityChecker struct {
	factory ExtensionFactory
	target  int
	log     *slog.Logger
}

func (c *eligibilityChecker) BeforeInit(name string, instance any) (any, error) {
	return instance, nil
}

func (c *eligibilityChecker) AfterInit(name string, instance any) (any, error) {
	if _, isExtension := instance.(InstanceExtension); isExtension {
		return instance, nil
	}
	if c.isInfrastructure(name) {
		return instance, nil
	}
	if c.factory.InstanceExtensionCount() < c.target {
		c.log.Info("bean is not eligible for processing by all instance extensions",
			"name", name, "type", fmt.Sprintf("%T", instance))
	}
	return instance, nil
}

func (c *eligibilityChecker) isInfrastructure(name string) bool {
	if !c.factory.ContainsDefinition(name) {
		return false
	}
	role, ok := c.factory.DefinitionRole(name)
	return ok && role == RoleInfrastructure
}
