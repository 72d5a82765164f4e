package pubsub_test

import (
	"testing"

	"github.com/SscSPs/smb_suite/internal/platform/pubsub"
	"github.com/stretchr/testify/assert"
)

func TestBroker_PublishReachesAllSubscribers(t *testing.T) {
	b := pubsub.NewBroker[int]("test", nil)
	var got1, got2 []int
	b.Subscribe(func(v int) { got1 = append(got1, v) })
	b.Subscribe(func(v int) { got2 = append(got2, v) })

	b.Publish(1)
	b.Publish(2)

	assert.Equal(t, []int{1, 2}, got1)
	assert.Equal(t, []int{1, 2}, got2)
}

func TestBroker_UnsubscribeStopsDeliveryAndIsIdempotent(t *testing.T) {
	b := pubsub.NewBroker[string]("test", nil)
	var got []string
	unsubscribe := b.Subscribe(func(v string) { got = append(got, v) })

	b.Publish("a")
	unsubscribe()
	unsubscribe()
	b.Publish("b")

	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, 0, b.Len())
}

func TestBroker_PanickingSubscriberDoesNotStopOthers(t *testing.T) {
	b := pubsub.NewBroker[int]("test", nil)
	var got []int
	b.Subscribe(func(int) { panic("boom") })
	b.Subscribe(func(v int) { got = append(got, v) })

	assert.NotPanics(t, func() { b.Publish(7) })
	assert.Equal(t, []int{7}, got)
}
