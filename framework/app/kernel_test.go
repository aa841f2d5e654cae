package app_test

import (
	"bytes"
	"log/slog"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nk-arch/go-beans/framework/app"
	"github.com/nk-arch/go-beans/framework/container"
	"github.com/nk-arch/go-beans/framework/event"
)

func quietLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

// countingExt is a registry extension that counts its invocations and
// registers one bean.
type countingExt struct {
	registryRuns int
	factoryRuns  int
}

func (e *countingExt) ProcessRegistry(r container.DefinitionRegistry) error {
	e.registryRuns++
	return r.Register(&container.Definition{
		Name: "from-extension",
		Type: reflect.TypeOf(&struct{ V int }{}),
	})
}

func (e *countingExt) ProcessFactory(f container.ExtensionFactory) error {
	e.factoryRuns++
	return nil
}

type topicListener struct {
	topics []string
}

func (l *topicListener) Handle(e event.Event) {
	l.topics = append(l.topics, e.Topic)
}

func TestBoot_RunsExtensionPhases(t *testing.T) {
	t.Setenv("APP_NAME", "TestApp")

	a := app.NewWithLogger(quietLog())
	ext := &countingExt{}
	a.RegisterExtension(ext)

	require.NoError(t, a.Boot())
	assert.True(t, a.Booted())

	assert.Equal(t, 1, ext.registryRuns)
	assert.Equal(t, 1, ext.factoryRuns)
	assert.True(t, a.ContainsDefinition("from-extension"))

	cfg, err := a.Config()
	require.NoError(t, err)
	assert.Equal(t, "TestApp", cfg.App.Name)

	router, err := a.Router()
	require.NoError(t, err)
	assert.NotNil(t, router)
}

func TestBoot_Idempotent(t *testing.T) {
	a := app.NewWithLogger(quietLog())
	ext := &countingExt{}
	a.RegisterExtension(ext)

	require.NoError(t, a.Boot())
	require.NoError(t, a.Boot())

	assert.Equal(t, 1, ext.registryRuns)
}

func TestBoot_ListenerDetectorSitsLast(t *testing.T) {
	a := app.NewWithLogger(quietLog())
	require.NoError(t, a.Boot())

	chain := a.InstanceExtensions()
	require.NotEmpty(t, chain)
	assert.IsType(t, &container.ListenerDetector{}, chain[len(chain)-1])
}

func TestBoot_ListenerBeansAutoSubscribed(t *testing.T) {
	a := app.NewWithLogger(quietLog())

	l := &topicListener{}
	require.NoError(t, a.Register(&container.Definition{
		Name: "listener",
		Type: reflect.TypeOf(l),
		Build: func(*container.Container) (any, error) {
			return l, nil
		},
	}))

	require.NoError(t, a.Boot())

	// Eager instantiation created the bean, the detector subscribed it,
	// and the boot event reached it.
	assert.Contains(t, l.topics, "app.booted")

	a.Bus.Publish(event.Event{Topic: "custom"})
	assert.Contains(t, l.topics, "custom")
}

func TestBoot_EagerBuildsNonLazyBeans(t *testing.T) {
	a := app.NewWithLogger(quietLog())

	built := false
	require.NoError(t, a.Register(&container.Definition{
		Name: "eager",
		Type: reflect.TypeOf(&struct{ V int }{}),
		Build: func(*container.Container) (any, error) {
			built = true
			return &struct{ V int }{}, nil
		},
	}))

	require.NoError(t, a.Boot())
	assert.True(t, built)
}
