package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/eventair"
)

// Event keys for orchestration testing
const (
	workflowStarted     eventair.Key = "workflow.started"
	inventoryReserved   eventair.Key = "inventory.reserved"
	shipmentCreated     eventair.Key = "shipment.created"
	workflowCompleted   eventair.Key = "workflow.completed"
	workflowCompensated eventair.Key = "workflow.compensated"
)

var errOutOfStock = errors.New("out of stock")

// EventOrchestrator chains services through one shared emitter. Each step
// emits the next event from inside its listener, so a whole workflow runs
// inside the first Emit call.
type EventOrchestrator struct {
	events *eventair.Emitter
	stock  map[string]int
	steps  []string
}

func NewEventOrchestrator(stock map[string]int) *EventOrchestrator {
	o := &EventOrchestrator{
		events: eventair.New(eventair.Quiet()),
		stock:  stock,
	}
	o.setupEventHandlers()
	return o
}

func (o *EventOrchestrator) setupEventHandlers() {
	o.events.
		On(workflowStarted, eventair.NewListener(o.handleWorkflowStarted)).
		On(inventoryReserved, eventair.NewListener(o.handleInventoryReserved)).
		On(shipmentCreated, eventair.NewListener(o.handleShipmentCreated))
}

func (o *EventOrchestrator) handleWorkflowStarted(ctx context.Context, args ...any) error {
	product := args[0].(string)
	o.steps = append(o.steps, "started")

	if o.stock[product] == 0 {
		if err := o.events.Emit(ctx, workflowCompensated, product); err != nil {
			return err
		}
		return errOutOfStock
	}
	o.stock[product]--
	return o.events.Emit(ctx, inventoryReserved, product)
}

func (o *EventOrchestrator) handleInventoryReserved(ctx context.Context, args ...any) error {
	o.steps = append(o.steps, "reserved")
	return o.events.Emit(ctx, shipmentCreated, args...)
}

func (o *EventOrchestrator) handleShipmentCreated(ctx context.Context, args ...any) error {
	o.steps = append(o.steps, "shipped")
	return o.events.Emit(ctx, workflowCompleted, args...)
}

func TestEventOrchestration(t *testing.T) {
	o := NewEventOrchestrator(map[string]int{"widget": 1})
	ctx := context.Background()

	var completed []string
	o.events.Once(workflowCompleted, eventair.NewListener(func(ctx context.Context, args ...any) error {
		completed = append(completed, args[0].(string))
		o.steps = append(o.steps, "completed")
		return nil
	}))

	require.NoError(t, o.events.Emit(ctx, workflowStarted, "widget"))

	assert.Equal(t, []string{"started", "reserved", "shipped", "completed"}, o.steps)
	assert.Equal(t, []string{"widget"}, completed)
	assert.Zero(t, o.stock["widget"])
	assert.False(t, o.events.Has(workflowCompleted), "once subscription released")
}

func TestEventOrchestrationCompensation(t *testing.T) {
	o := NewEventOrchestrator(map[string]int{})
	ctx := context.Background()

	compensated := ""
	o.events.On(workflowCompensated, eventair.NewListener(func(ctx context.Context, args ...any) error {
		compensated = args[0].(string)
		return nil
	}))

	err := o.events.Emit(ctx, workflowStarted, "gadget")

	require.Error(t, err)
	assert.ErrorIs(t, err, errOutOfStock)
	assert.Equal(t, "gadget", compensated)
	assert.Equal(t, []string{"started"}, o.steps)
}

func TestEventOrchestrationNestedFailure(t *testing.T) {
	o := NewEventOrchestrator(map[string]int{"widget": 2})
	ctx := context.Background()
	errCarrier := errors.New("carrier unavailable")

	o.events.On(workflowCompleted, eventair.NewListener(func(ctx context.Context, args ...any) error {
		return errCarrier
	}))

	err := o.events.Emit(ctx, workflowStarted, "widget")

	// The innermost failure unwinds through every nested Emit
	require.Error(t, err)
	assert.ErrorIs(t, err, errCarrier)
	assert.Contains(t, err.Error(), `event "workflow.started"`)
	assert.Contains(t, err.Error(), `event "workflow.completed"`)
	assert.Equal(t, 1, o.stock["widget"])
}

func TestEventOrchestrationMetrics(t *testing.T) {
	o := NewEventOrchestrator(map[string]int{"widget": 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, o.events.Emit(ctx, workflowStarted, "widget"))
	}

	metrics := o.events.Metrics()
	// Each run emits started, reserved, shipped and an unheard completed
	assert.EqualValues(t, 12, metrics.Emitted)
	assert.EqualValues(t, 9, metrics.Dispatched)
	assert.EqualValues(t, 3, metrics.NotRegistered)
	assert.EqualValues(t, 3, metrics.RegisteredEvents)
}
