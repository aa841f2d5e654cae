package container

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"
)

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the bean factory: it stores named definitions, builds and
// caches singletons, and runs every created bean through the installed
// instance-extension chain.
//
// It supports:
//   - Register / RegisterInstance / RegisterAlias
//   - Resolve / ResolveAs (generic)
//   - Capability queries (NamesByType, IsTypeMatch) that never force creation
//   - An append-only instance-extension chain consulted for every bean
//   - Cached merged definition metadata with explicit invalidation
//
// All bootstrap-time mutation happens on the thread that starts the
// container; the mutex only guards the maps against stray concurrent reads,
// never across a factory invocation, so reentrant Resolve calls from inside
// factories work.
type Container struct {
	mu  sync.RWMutex
	log *slog.Logger

	// name → definition; names keeps registration order, which is the
	// discovery order used as the final ordering tie-break.
	definitions map[string]*Definition
	names       []string

	// name → resolved singleton instance
	instances map[string]any

	// alias → canonical name
	aliases map[string]string

	// name → merged definition (invalidated by ClearMetadataCache)
	merged map[string]*Definition

	// the installed instance-extension chain, in invocation order
	extensions []InstanceExtension

	// optional replacement for DefaultComparator
	comparator Comparator

	// stack of names currently being built (bootstrap thread only)
	building []string
}

// New creates an empty container logging through slog.Default().
func New() *Container {
	return NewWithLogger(slog.Default())
}

// NewWithLogger creates an empty container with an explicit structured log
// sink. The lifecycle entry points take their own logger; this one covers
// the container's own resolution events.
func NewWithLogger(log *slog.Logger) *Container {
	if log == nil {
		log = slog.Default()
	}
	return &Container{
		log:         log,
		definitions: make(map[string]*Definition),
		instances:   make(map[string]any),
		aliases:     make(map[string]string),
		merged:      make(map[string]*Definition),
	}
}

// ── Registration ──────────────────────────────────────────────────────────────

// Register adds or replaces a definition. Replacing is allowed — registry
// extensions rewrite definitions as a matter of course — and drops any stale
// merged metadata for the name.
func (c *Container) Register(def *Definition) error {
	if def == nil {
		return ErrDefinitionNil
	}
	if def.Name == "" {
		return ErrDefinitionNameEmpty
	}
	if def.Build == nil && !buildable(def.Type) {
		return ErrDefinitionUnbuildable
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.definitions[def.Name]; !exists {
		c.names = append(c.names, def.Name)
	}
	c.definitions[def.Name] = def
	delete(c.merged, def.Name)
	return nil
}

// RegisterInstance registers a pre-built value as a resolved singleton.
//
//	// Spring: beanFactory.registerSingleton("config", cfg)
func (c *Container) RegisterInstance(name string, instance any) error {
	if name == "" {
		return ErrDefinitionNameEmpty
	}
	if instance == nil {
		return ErrInstanceNil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.definitions[name]; !exists {
		c.names = append(c.names, name)
	}
	c.definitions[name] = &Definition{Name: name, Type: reflect.TypeOf(instance)}
	c.instances[name] = instance
	delete(c.merged, name)
	return nil
}

// RegisterAlias registers an alternative name for a definition.
func (c *Container) RegisterAlias(name, alias string) error {
	if name == alias {
		return ErrSelfAlias
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aliases[alias] = name
	return nil
}

// RemoveDefinition deletes a definition, its merged metadata, and any cached
// singleton for it.
func (c *Container) RemoveDefinition(name string) {
	key := c.canonical(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.definitions[key]; !exists {
		return
	}
	delete(c.definitions, key)
	delete(c.merged, key)
	delete(c.instances, key)
	for i, n := range c.names {
		if n == key {
			c.names = append(c.names[:i], c.names[i+1:]...)
			break
		}
	}
}

// ContainsDefinition reports whether a definition is registered for name.
func (c *Container) ContainsDefinition(name string) bool {
	key := c.canonical(name)
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.definitions[key]
	return ok
}

// DefinitionRole returns the role of the named definition.
func (c *Container) DefinitionRole(name string) (Role, bool) {
	key := c.canonical(name)
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.definitions[key]
	if !ok {
		return RoleApplication, false
	}
	return def.Role, true
}

// DefinitionNames returns all registered names in registration order.
func (c *Container) DefinitionNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// ── Capability queries ────────────────────────────────────────────────────────

// NamesByType lists definition names whose concrete type implements iface,
// in registration order. Definitions whose type is only known to their
// factory (nil Type, nothing resolved yet) are skipped unless allowEager is
// true, in which case they are built to find out.
func (c *Container) NamesByType(iface reflect.Type, allowEager bool) []string {
	c.mu.RLock()
	names := make([]string, len(c.names))
	copy(names, c.names)
	c.mu.RUnlock()

	var out []string
	for _, name := range names {
		t, known := c.typeOf(name)
		if !known && allowEager {
			if inst, err := c.Resolve(name); err == nil {
				t, known = reflect.TypeOf(inst), true
			}
		}
		if known && implementsType(t, iface) {
			out = append(out, name)
		}
	}
	return out
}

// IsTypeMatch reports whether the named definition's type implements iface.
// It never forces instantiation: a factory-only definition that has not been
// resolved yet does not match anything.
func (c *Container) IsTypeMatch(name string, iface reflect.Type) bool {
	t, known := c.typeOf(c.canonical(name))
	return known && implementsType(t, iface)
}

// typeOf returns the best known concrete type for a name: the resolved
// instance's type if one exists, the declared definition type otherwise.
func (c *Container) typeOf(name string) (reflect.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if inst, ok := c.instances[name]; ok {
		return reflect.TypeOf(inst), true
	}
	if def, ok := c.definitions[name]; ok && def.Type != nil {
		return def.Type, true
	}
	return nil, false
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Resolve returns the singleton for name, creating it on first use. Creation
// runs the full pipeline: merged-metadata extensions, BeforeInit chain,
// Initializer, AfterInit chain. Factories may resolve further beans; a
// resolution cycle is an error.
//
//	// Spring: beanFactory.getBean("mailer")
func (c *Container) Resolve(name string) (any, error) {
	key := c.canonical(name)

	c.mu.RLock()
	inst, ok := c.instances[key]
	c.mu.RUnlock()
	if ok {
		return inst, nil
	}

	c.mu.RLock()
	_, registered := c.definitions[key]
	c.mu.RUnlock()
	if !registered {
		return nil, fmt.Errorf("container: no definition registered for %q", key)
	}

	for _, n := range c.building {
		if n == key {
			return nil, fmt.Errorf("container: definition cycle detected: %s -> %s",
				strings.Join(c.building, " -> "), key)
		}
	}
	c.building = append(c.building, key)
	defer func() { c.building = c.building[:len(c.building)-1] }()

	merged, err := c.Merged(key)
	if err != nil {
		return nil, err
	}

	// Merge-metadata extensions see the definition before the bean exists.
	for _, ext := range c.InstanceExtensions() {
		if m, ok := ext.(MergeMetadataExtension); ok {
			m.ProcessMergedDefinition(key, merged)
		}
	}

	instance, err := c.build(key, merged)
	if err != nil {
		return nil, err
	}

	if instance, err = c.applyBeforeInit(key, instance); err != nil {
		return nil, err
	}
	if init, ok := instance.(Initializer); ok {
		if err := init.Init(); err != nil {
			return nil, fmt.Errorf("container: init of %q failed: %w", key, err)
		}
	}
	if instance, err = c.applyAfterInit(key, instance); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.instances[key] = instance
	c.mu.Unlock()
	c.log.Debug("bean created", "name", key, "type", fmt.Sprintf("%T", instance))
	return instance, nil
}

// ResolveAs resolves name from any extension-factory view and asserts the
// result to T.
//
//	router, err := container.ResolveAs[*routing.Router](c, "router")
func ResolveAs[T any](f ExtensionFactory, name string) (T, error) {
	var zero T
	v, err := f.Resolve(name)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("container: bean %q resolved to %T, not %T", name, v, zero)
	}
	return typed, nil
}

// Build eagerly instantiates every non-lazy definition in registration
// order. Idempotent: already-resolved singletons are returned from cache.
func (c *Container) Build() error {
	for _, name := range c.DefinitionNames() {
		c.mu.RLock()
		def, ok := c.definitions[name]
		c.mu.RUnlock()
		if !ok || def.Lazy {
			continue
		}
		if _, err := c.Resolve(name); err != nil {
			return err
		}
	}
	return nil
}

// build constructs the raw instance for a merged definition.
func (c *Container) build(name string, def *Definition) (any, error) {
	if def.Build != nil {
		instance, err := def.Build(c)
		if err != nil {
			return nil, fmt.Errorf("container: building %q: %w", name, err)
		}
		if instance == nil {
			return nil, fmt.Errorf("container: factory for %q produced nil", name)
		}
		return instance, nil
	}
	return newByType(def.Type)
}

func (c *Container) applyBeforeInit(name string, instance any) (any, error) {
	for _, ext := range c.InstanceExtensions() {
		next, err := ext.BeforeInit(name, instance)
		if err != nil {
			return nil, fmt.Errorf("container: BeforeInit of %q: %w", name, err)
		}
		if next != nil {
			instance = next
		}
	}
	return instance, nil
}

func (c *Container) applyAfterInit(name string, instance any) (any, error) {
	for _, ext := range c.InstanceExtensions() {
		next, err := ext.AfterInit(name, instance)
		if err != nil {
			return nil, fmt.Errorf("container: AfterInit of %q: %w", name, err)
		}
		if next != nil {
			instance = next
		}
	}
	return instance, nil
}

// ── Instance-extension chain ──────────────────────────────────────────────────

// AddInstanceExtension appends ext to the installed chain. Re-adding an
// extension already in the chain moves it to the end, which is how reserved
// extensions are forced to run last.
//
//	// Spring: beanFactory.addBeanPostProcessor(pp)
func (c *Container) AddInstanceExtension(ext InstanceExtension) {
	if ext == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appendExtension(ext)
}

// AddInstanceExtensions is the bulk variant of AddInstanceExtension.
func (c *Container) AddInstanceExtensions(exts []InstanceExtension) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ext := range exts {
		if ext != nil {
			c.appendExtension(ext)
		}
	}
}

// appendExtension must hold mu.Lock.
func (c *Container) appendExtension(ext InstanceExtension) {
	for i, existing := range c.extensions {
		if existing == ext {
			c.extensions = append(c.extensions[:i], c.extensions[i+1:]...)
			break
		}
	}
	c.extensions = append(c.extensions, ext)
}

// InstanceExtensionCount returns the current installed-chain length.
func (c *Container) InstanceExtensionCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.extensions)
}

// InstanceExtensions returns a snapshot of the installed chain in invocation
// order.
func (c *Container) InstanceExtensions() []InstanceExtension {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]InstanceExtension, len(c.extensions))
	copy(out, c.extensions)
	return out
}

// ── Merged definition metadata ────────────────────────────────────────────────

// Merged returns the cached merged definition for name, computing it on
// first access. Factory extensions may rewrite raw definitions, so callers
// holding merged copies must expect ClearMetadataCache to drop them.
func (c *Container) Merged(name string) (*Definition, error) {
	key := c.canonical(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.merged[key]; ok {
		return m, nil
	}
	def, ok := c.definitions[key]
	if !ok {
		return nil, fmt.Errorf("container: no definition registered for %q", key)
	}
	m := def.clone()
	c.merged[key] = m
	return m, nil
}

// ClearMetadataCache invalidates all cached merged definitions. The
// lifecycle calls this once its extensions have run, since they may have
// rewritten raw definition data that earlier merging assumed immutable.
func (c *Container) ClearMetadataCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.merged = make(map[string]*Definition)
}

// ── Ordering comparator ───────────────────────────────────────────────────────

// SetOrderingComparator installs a custom comparator for extension sorting.
// It replaces DefaultComparator entirely rather than composing with it.
func (c *Container) SetOrderingComparator(cmp Comparator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.comparator = cmp
}

// OrderingComparator returns the custom comparator, or nil when the default
// applies.
func (c *Container) OrderingComparator() Comparator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.comparator
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// canonical resolves an alias to its canonical name.
func (c *Container) canonical(name string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if target, ok := c.aliases[name]; ok {
		return target
	}
	return name
}

// buildable reports whether a zero value can be allocated for t.
func buildable(t reflect.Type) bool {
	if t == nil {
		return false
	}
	return t.Kind() == reflect.Struct ||
		(t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct)
}

// newByType allocates a zero value for struct and pointer-to-struct kinds;
// all created instances are pointers for consistency.
func newByType(t reflect.Type) (any, error) {
	switch {
	case t == nil:
		return nil, ErrDefinitionUnbuildable
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		return reflect.New(t.Elem()).Interface(), nil
	case t.Kind() == reflect.Struct:
		return reflect.New(t).Interface(), nil
	default:
		return nil, fmt.Errorf("container: cannot build a %v without a factory", t.Kind())
	}
}

// implementsType reports whether concrete type t satisfies iface.
func implementsType(t, iface reflect.Type) bool {
	if t == nil || iface == nil {
		return false
	}
	if iface.Kind() == reflect.Interface {
		return t.Implements(iface)
	}
	return t.AssignableTo(iface)
}
