package event_test

import (
	"testing"

	"github.com/nk-arch/go-beans/framework/event"
)

type captureListener struct {
	topics []string
}

func (l *captureListener) Handle(e event.Event) {
	l.topics = append(l.topics, e.Topic)
}

func TestBus_PublishDeliversInSubscriptionOrder(t *testing.T) {
	bus := event.NewBus()
	var order []string

	first := &orderListener{name: "first", order: &order}
	second := &orderListener{name: "second", order: &order}
	bus.Subscribe(first)
	bus.Subscribe(second)

	bus.Publish(event.Event{Topic: "t"})

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("delivery order: got %v want [first second]", order)
	}
}

type orderListener struct {
	name  string
	order *[]string
}

func (l *orderListener) Handle(e event.Event) {
	*l.order = append(*l.order, l.name)
}

func TestBus_SubscribeTwiceIsNoOp(t *testing.T) {
	bus := event.NewBus()
	l := &captureListener{}

	bus.Subscribe(l)
	bus.Subscribe(l)
	if got := bus.ListenerCount(); got != 1 {
		t.Fatalf("ListenerCount: got %d want 1", got)
	}

	bus.Publish(event.Event{Topic: "once"})
	if len(l.topics) != 1 {
		t.Errorf("deliveries: got %d want 1", len(l.topics))
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := event.NewBus()
	l := &captureListener{}
	bus.Subscribe(l)
	bus.Unsubscribe(l)

	bus.Publish(event.Event{Topic: "gone"})

	if bus.ListenerCount() != 0 {
		t.Errorf("ListenerCount: got %d want 0", bus.ListenerCount())
	}
	if len(l.topics) != 0 {
		t.Errorf("unsubscribed listener still received %v", l.topics)
	}
}

func TestBus_NilListenerIgnored(t *testing.T) {
	bus := event.NewBus()
	bus.Subscribe(nil)
	if bus.ListenerCount() != 0 {
		t.Errorf("ListenerCount: got %d want 0", bus.ListenerCount())
	}
}
