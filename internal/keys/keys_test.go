package keys

import "testing"

func TestCircleIDDeterministic(t *testing.T) {
	a := CircleID("alice", 1_700_000_000_000_000_000)
	b := CircleID("alice", 1_700_000_000_000_000_000)
	if a != b {
		t.Errorf("CircleID not deterministic: %s vs %s", a, b)
	}
	if len(a) != 32 {
		t.Errorf("CircleID length = %d, want 32", len(a))
	}

	if CircleID("alice", 1) == CircleID("alice", 2) {
		t.Error("different creation times produced the same ID")
	}
	if CircleID("alice", 1) == CircleID("bob", 1) {
		t.Error("different creators produced the same ID")
	}
}

func TestDerivedIDs(t *testing.T) {
	if ProposalID("c1", 10) != ProposalID("c1", 10) {
		t.Error("ProposalID not deterministic")
	}
	if ProposalID("c1", 10) == ProposalID("c1", 11) {
		t.Error("ProposalID collides across voting starts")
	}
	if ProposalID("c1", 10) == AuctionID("c1", 10) {
		t.Error("proposal and auction IDs collide")
	}
}

func TestAccountKeys(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{Circle("c1"), "circle:c1"},
		{Escrow("c1"), "escrow:c1"},
		{Member("c1", "alice"), "member:c1:alice"},
		{TrustScore("alice"), "trust:alice"},
		{Proposal("c1"), "proposal:c1"},
		{Vote("p1", "bob"), "vote:p1:bob"},
		{Auction("c1"), "auction:c1"},
		{Bid("a1", "bob"), "bid:a1:bob"},
		{BidPrefix("a1"), "bid:a1:"},
		{CircleAutomation("c1"), "automation:c1"},
		{AutomationState(), "automation_state"},
		{Treasury(), "treasury"},
		{RevenueParams(), "revenue_params"},
		{RevenueReport(100, 200), "revenue_report:100:200"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("key = %q, want %q", tt.got, tt.want)
		}
	}
}
