package dispatch

import (
	"context"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/constants"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/logger"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/models"
	nsqpkg "github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/nsq"
)

// Handler connects the dispatcher to its NSQ topics
type Handler struct {
	cfg        *models.Config
	dispatcher *Dispatcher
	consumers  []*nsqpkg.Consumer
}

// NewHandler creates a new dispatch handler
func NewHandler(cfg *models.Config, dispatcher *Dispatcher) *Handler {
	return &Handler{cfg: cfg, dispatcher: dispatcher}
}

// InitConsumers subscribes to ride and vehicle events. Each consumer runs on
// the shared dispatch channel so one service instance handles each message.
func (h *Handler) InitConsumers(ctx context.Context) error {
	requested, err := nsqpkg.NewConsumer(
		constants.TopicRideRequested, constants.ChannelDispatch,
		h.cfg.NSQ.NSQDAddress, h.handleRideRequested(ctx))
	if err != nil {
		return err
	}
	h.consumers = append(h.consumers, requested)

	available, err := nsqpkg.NewConsumer(
		constants.TopicVehicleAvailable, constants.ChannelDispatch,
		h.cfg.NSQ.NSQDAddress, h.handleVehicleAvailable)
	if err != nil {
		return err
	}
	h.consumers = append(h.consumers, available)

	cancelled, err := nsqpkg.NewConsumer(
		constants.TopicRideCancelled, constants.ChannelDispatch,
		h.cfg.NSQ.NSQDAddress, h.handleRideCancelled)
	if err != nil {
		return err
	}
	h.consumers = append(h.consumers, cancelled)

	if len(h.cfg.NSQ.LookupdAddresses) > 0 {
		for _, c := range h.consumers {
			if err := c.ConnectToLookupd(h.cfg.NSQ.LookupdAddresses); err != nil {
				return err
			}
		}
	}

	return nil
}

func (h *Handler) handleRideRequested(ctx context.Context) nsqpkg.MessageHandler {
	return func(message []byte) error {
		var event models.RideRequestedEvent
		if err := nsqpkg.UnmarshalMessage(message, &event); err != nil {
			return err
		}

		logger.Info("dispatch task received", logger.Fields{
			"ride_id":      event.RideID,
			"passenger_id": event.PassengerID,
		})
		h.dispatcher.DispatchAsync(ctx, event.RideID)
		return nil
	}
}

func (h *Handler) handleVehicleAvailable(message []byte) error {
	var event models.VehicleAvailableEvent
	if err := nsqpkg.UnmarshalMessage(message, &event); err != nil {
		return err
	}

	logger.Debug("vehicle available, waking dispatch loops", logger.Fields{
		"vehicle_id": event.VehicleID,
	})
	h.dispatcher.Wake()
	return nil
}

func (h *Handler) handleRideCancelled(message []byte) error {
	var event models.RideCancelledEvent
	if err := nsqpkg.UnmarshalMessage(message, &event); err != nil {
		return err
	}

	// Waking is enough: the loop re-reads the ride status and stops
	h.dispatcher.Wake()
	return nil
}

// Stop stops all consumers and waits for running loops to drain
func (h *Handler) Stop() {
	for _, c := range h.consumers {
		c.Stop()
	}
	h.dispatcher.WaitIdle()
}
