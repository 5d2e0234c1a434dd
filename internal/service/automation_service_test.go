package service

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/circlefund/internal/models"
	"github.com/mmynk/circlefund/pkg/api"
)

func TestAutomationServiceRequiresToken(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	// Even reads on the operator service need a valid token.
	_, err := env.automation.GetAutomationState(ctx, connect.NewRequest(&api.GetAutomationStateRequest{}))
	wantCode(t, err, connect.CodeUnauthenticated)

	req := connect.NewRequest(&api.GetAutomationStateRequest{})
	req.Header().Set("Authorization", "Bearer not-a-token")
	_, err = env.automation.GetAutomationState(ctx, req)
	wantCode(t, err, connect.CodeUnauthenticated)

	resp, err := env.automation.GetAutomationState(ctx, as(t, env, "alice", &api.GetAutomationStateRequest{}))
	if err != nil {
		t.Fatalf("GetAutomationState failed: %v", err)
	}
	if resp.Msg.State.Authority != admin || !resp.Msg.State.Enabled || resp.Msg.State.MinInterval != 3600 {
		t.Errorf("bootstrapped state = %+v", resp.Msg.State)
	}
}

func TestAutomationService(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	c := newCircle(t, env, rotationCircle(), "alice", "bob")

	setup := &api.SetupCircleAutomationRequest{
		CircleID:       c.ID,
		JobRef:         "job-1",
		AutoCollect:    true,
		AutoDistribute: true,
		AutoPenalty:    true,
	}
	_, err := env.automation.SetupCircleAutomation(ctx, as(t, env, "bob", setup))
	wantCode(t, err, connect.CodePermissionDenied)

	configured, err := env.automation.SetupCircleAutomation(ctx, as(t, env, "alice", setup))
	if err != nil {
		t.Fatalf("SetupCircleAutomation failed: %v", err)
	}
	if len(configured.Msg.Automation.ContributionSchedule) != 2 {
		t.Errorf("ContributionSchedule = %v, want 2 slots", configured.Msg.Automation.ContributionSchedule)
	}

	due, err := env.automation.IsTimeFor(ctx, as(t, env, admin, &api.IsTimeForRequest{CircleID: c.ID, Kind: models.AutomationCollection}))
	if err != nil {
		t.Fatalf("IsTimeFor failed: %v", err)
	}
	if !due.Msg.Due {
		t.Error("collection slot 0 should be due at creation")
	}

	_, err = env.automation.TriggerCollection(ctx, as(t, env, "alice", &api.TriggerRequest{CircleID: c.ID}))
	wantCode(t, err, connect.CodePermissionDenied)

	event, err := env.automation.TriggerCollection(ctx, as(t, env, admin, &api.TriggerRequest{CircleID: c.ID}))
	if err != nil {
		t.Fatalf("TriggerCollection failed: %v", err)
	}
	if !event.Msg.Event.Success || event.Msg.Event.Month != 0 {
		t.Errorf("collection event = %+v", event.Msg.Event)
	}

	_, err = env.automation.TriggerCollection(ctx, as(t, env, admin, &api.TriggerRequest{CircleID: c.ID}))
	wantCode(t, err, connect.CodeFailedPrecondition)

	contribute(t, env, c, "alice")

	// Day 27: bob missed month 0.
	env.clock.Advance(27 * 24 * time.Hour)
	penalty, err := env.automation.TriggerPenalty(ctx, as(t, env, admin, &api.TriggerRequest{CircleID: c.ID}))
	if err != nil {
		t.Fatalf("TriggerPenalty failed: %v", err)
	}
	if !penalty.Msg.Event.Success {
		t.Errorf("penalty event = %+v", penalty.Msg.Event)
	}

	bob, err := env.circles.GetMember(ctx, connect.NewRequest(&api.GetMemberRequest{CircleID: c.ID, Principal: "bob"}))
	if err != nil {
		t.Fatalf("GetMember failed: %v", err)
	}
	if bob.Msg.Member.Penalties != 100_000 || bob.Msg.Member.ContributionsMissed != 1 {
		t.Errorf("bob = penalties %d missed %d", bob.Msg.Member.Penalties, bob.Msg.Member.ContributionsMissed)
	}

	events, err := env.automation.ListAutomationEvents(ctx, as(t, env, "bob", &api.ListAutomationEventsRequest{CircleID: c.ID}))
	if err != nil {
		t.Fatalf("ListAutomationEvents failed: %v", err)
	}
	// Schedule update, collection and penalty.
	if len(events.Msg.Events) != 3 {
		t.Errorf("ListAutomationEvents returned %d events, want 3", len(events.Msg.Events))
	}

	env.triggers.mu.Lock()
	runs := env.triggers.runs
	env.triggers.mu.Unlock()
	if len(runs[models.AutomationCollection]) != 1 || len(runs[models.AutomationPenalty]) != 1 {
		t.Errorf("observed triggers = %v, want one collection and one penalty", runs)
	}
}

func TestUpdateAutomationSettings(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	c := newCircle(t, env, rotationCircle(), "alice", "bob")

	if _, err := env.automation.SetupCircleAutomation(ctx, as(t, env, "alice", &api.SetupCircleAutomationRequest{
		CircleID:    c.ID,
		AutoCollect: true,
	})); err != nil {
		t.Fatalf("SetupCircleAutomation failed: %v", err)
	}

	_, err := env.automation.UpdateAutomationSettings(ctx, as(t, env, "alice", &api.UpdateAutomationSettingsRequest{Enabled: false}))
	wantCode(t, err, connect.CodePermissionDenied)

	interval := int64(60)
	state, err := env.automation.UpdateAutomationSettings(ctx, as(t, env, admin, &api.UpdateAutomationSettingsRequest{
		Enabled:            false,
		MinIntervalSeconds: &interval,
	}))
	if err != nil {
		t.Fatalf("UpdateAutomationSettings failed: %v", err)
	}
	if state.Msg.State.Enabled || state.Msg.State.MinInterval != 60 {
		t.Errorf("state = %+v, want disabled with 60s interval", state.Msg.State)
	}

	_, err = env.automation.TriggerCollection(ctx, as(t, env, admin, &api.TriggerRequest{CircleID: c.ID}))
	wantCode(t, err, connect.CodeFailedPrecondition)

	automation, err := env.automation.GetCircleAutomation(ctx, as(t, env, admin, &api.GetCircleAutomationRequest{CircleID: c.ID}))
	if err != nil {
		t.Fatalf("GetCircleAutomation failed: %v", err)
	}
	if automation.Msg.Automation.NextCollection != 0 {
		t.Errorf("NextCollection = %d, want 0 while disabled", automation.Msg.Automation.NextCollection)
	}
}
