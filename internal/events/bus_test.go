package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusFanOut(t *testing.T) {
	bus := NewBus[any]()

	first := bus.Subscribe()
	second := bus.Subscribe()
	defer bus.Unsubscribe(second)

	bus.Publish(ProductCreated{ProductID: "65a8e27d8a9d8f5b2c3d4e5f"})

	assert.Equal(t, ProductCreated{ProductID: "65a8e27d8a9d8f5b2c3d4e5f"}, <-first)
	assert.Equal(t, ProductCreated{ProductID: "65a8e27d8a9d8f5b2c3d4e5f"}, <-second)

	bus.Unsubscribe(first)
	// Publishing after unsubscribe must not panic on the closed channel.
	bus.Publish(ProductDeleted{ProductID: "65a8e27d8a9d8f5b2c3d4e5f"})
}
