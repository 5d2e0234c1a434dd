package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/circlefund/internal/ledger"
	"github.com/mmynk/circlefund/internal/models"
	"github.com/mmynk/circlefund/pkg/api"
)

var _ api.AutomationServiceHandler = (*AutomationService)(nil)

// TriggerObserver is told the outcome of every trigger dispatched over RPC.
type TriggerObserver interface {
	TriggerCompleted(kind models.AutomationKind, success bool)
}

// AutomationService implements the Connect AutomationService.
type AutomationService struct {
	ledger   *ledger.Ledger
	observer TriggerObserver
}

// NewAutomationService creates a new AutomationService. observer may be nil.
func NewAutomationService(l *ledger.Ledger, observer TriggerObserver) *AutomationService {
	return &AutomationService{ledger: l, observer: observer}
}

// InitializeAutomationState creates the scheduler state with the caller as authority.
func (s *AutomationService) InitializeAutomationState(ctx context.Context, req *connect.Request[api.InitializeAutomationStateRequest]) (*connect.Response[api.AutomationStateResponse], error) {
	authority, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("InitializeAutomationState request received",
		"authority", authority,
		"queue_ref", req.Msg.QueueRef,
		"min_interval_seconds", req.Msg.MinIntervalSeconds,
	)

	state, err := s.ledger.InitializeAutomationState(ctx, authority, req.Msg.QueueRef, time.Duration(req.Msg.MinIntervalSeconds)*time.Second)
	if err != nil {
		return nil, toConnectError("InitializeAutomationState", err, "authority", authority)
	}

	slog.Info("InitializeAutomationState successful", "authority", authority)

	return connect.NewResponse(&api.AutomationStateResponse{State: state}), nil
}

// SetupCircleAutomation configures a circle's trigger schedules.
func (s *AutomationService) SetupCircleAutomation(ctx context.Context, req *connect.Request[api.SetupCircleAutomationRequest]) (*connect.Response[api.CircleAutomationResponse], error) {
	principal, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("SetupCircleAutomation request received",
		"circle_id", req.Msg.CircleID,
		"caller", principal,
		"auto_collect", req.Msg.AutoCollect,
		"auto_distribute", req.Msg.AutoDistribute,
		"auto_penalty", req.Msg.AutoPenalty,
	)

	automation, err := s.ledger.SetupCircleAutomation(ctx, req.Msg.CircleID, principal, ledger.AutomationParams{
		JobRef:         req.Msg.JobRef,
		AutoCollect:    req.Msg.AutoCollect,
		AutoDistribute: req.Msg.AutoDistribute,
		AutoPenalty:    req.Msg.AutoPenalty,
	})
	if err != nil {
		return nil, toConnectError("SetupCircleAutomation", err, "circle_id", req.Msg.CircleID, "caller", principal)
	}

	slog.Info("SetupCircleAutomation successful", "circle_id", req.Msg.CircleID)

	return connect.NewResponse(&api.CircleAutomationResponse{Automation: automation}), nil
}

type triggerFunc func(ctx context.Context, circleID, caller string) (*models.AutomationEvent, error)

func (s *AutomationService) trigger(ctx context.Context, kind models.AutomationKind, req *connect.Request[api.TriggerRequest], fn triggerFunc) (*connect.Response[api.TriggerResponse], error) {
	principal, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("Trigger request received", "kind", kind, "circle_id", req.Msg.CircleID, "caller", principal)

	event, err := fn(ctx, req.Msg.CircleID, principal)
	if err != nil {
		return nil, toConnectError("Trigger", err, "kind", kind, "circle_id", req.Msg.CircleID)
	}
	if s.observer != nil {
		s.observer.TriggerCompleted(kind, event.Success)
	}

	slog.Info("Trigger dispatched",
		"kind", kind,
		"circle_id", req.Msg.CircleID,
		"month", event.Month,
		"success", event.Success,
	)

	return connect.NewResponse(&api.TriggerResponse{Event: event}), nil
}

// TriggerCollection opens the next scheduled contribution month.
func (s *AutomationService) TriggerCollection(ctx context.Context, req *connect.Request[api.TriggerRequest]) (*connect.Response[api.TriggerResponse], error) {
	return s.trigger(ctx, models.AutomationCollection, req, s.ledger.TriggerCollection)
}

// TriggerDistribution pays out the next scheduled pot.
func (s *AutomationService) TriggerDistribution(ctx context.Context, req *connect.Request[api.TriggerRequest]) (*connect.Response[api.TriggerResponse], error) {
	return s.trigger(ctx, models.AutomationDistribution, req, s.ledger.TriggerDistribution)
}

// TriggerPenalty slashes members who missed the next scheduled month.
func (s *AutomationService) TriggerPenalty(ctx context.Context, req *connect.Request[api.TriggerRequest]) (*connect.Response[api.TriggerResponse], error) {
	return s.trigger(ctx, models.AutomationPenalty, req, s.ledger.TriggerPenalty)
}

// UpdateAutomationSettings toggles the scheduler and adjusts its minimum interval.
func (s *AutomationService) UpdateAutomationSettings(ctx context.Context, req *connect.Request[api.UpdateAutomationSettingsRequest]) (*connect.Response[api.AutomationStateResponse], error) {
	principal, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("UpdateAutomationSettings request received", "caller", principal, "enabled", req.Msg.Enabled)

	var minInterval *time.Duration
	if req.Msg.MinIntervalSeconds != nil {
		d := time.Duration(*req.Msg.MinIntervalSeconds) * time.Second
		minInterval = &d
	}

	state, err := s.ledger.UpdateAutomationSettings(ctx, principal, req.Msg.Enabled, minInterval)
	if err != nil {
		return nil, toConnectError("UpdateAutomationSettings", err, "caller", principal)
	}

	slog.Info("UpdateAutomationSettings successful", "enabled", state.Enabled, "min_interval", state.MinInterval)

	return connect.NewResponse(&api.AutomationStateResponse{State: state}), nil
}

// GetAutomationState retrieves the scheduler state.
func (s *AutomationService) GetAutomationState(ctx context.Context, req *connect.Request[api.GetAutomationStateRequest]) (*connect.Response[api.AutomationStateResponse], error) {
	slog.Info("GetAutomationState request received")

	state, err := s.ledger.GetAutomationState(ctx)
	if err != nil {
		return nil, toConnectError("GetAutomationState", err)
	}

	return connect.NewResponse(&api.AutomationStateResponse{State: state}), nil
}

// GetCircleAutomation retrieves a circle's schedules and pointers.
func (s *AutomationService) GetCircleAutomation(ctx context.Context, req *connect.Request[api.GetCircleAutomationRequest]) (*connect.Response[api.CircleAutomationResponse], error) {
	slog.Info("GetCircleAutomation request received", "circle_id", req.Msg.CircleID)

	automation, err := s.ledger.GetCircleAutomation(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError("GetCircleAutomation", err, "circle_id", req.Msg.CircleID)
	}

	return connect.NewResponse(&api.CircleAutomationResponse{Automation: automation}), nil
}

// ListAutomationEvents retrieves the trigger history of a circle.
func (s *AutomationService) ListAutomationEvents(ctx context.Context, req *connect.Request[api.ListAutomationEventsRequest]) (*connect.Response[api.ListAutomationEventsResponse], error) {
	slog.Info("ListAutomationEvents request received", "circle_id", req.Msg.CircleID)

	events, err := s.ledger.ListAutomationEvents(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, toConnectError("ListAutomationEvents", err, "circle_id", req.Msg.CircleID)
	}

	slog.Info("ListAutomationEvents successful", "circle_id", req.Msg.CircleID, "count", len(events))

	return connect.NewResponse(&api.ListAutomationEventsResponse{Events: events}), nil
}

// IsTimeFor reports whether a circle's next trigger of the given kind is due.
func (s *AutomationService) IsTimeFor(ctx context.Context, req *connect.Request[api.IsTimeForRequest]) (*connect.Response[api.IsTimeForResponse], error) {
	slog.Info("IsTimeFor request received", "circle_id", req.Msg.CircleID, "kind", req.Msg.Kind)

	due, err := s.ledger.IsTimeFor(ctx, req.Msg.CircleID, req.Msg.Kind)
	if err != nil {
		return nil, toConnectError("IsTimeFor", err, "circle_id", req.Msg.CircleID, "kind", req.Msg.Kind)
	}

	return connect.NewResponse(&api.IsTimeForResponse{Due: due}), nil
}
