package calculator

import (
	"testing"

	"github.com/mmynk/circlefund/internal/models"
)

func TestCirclePositions(t *testing.T) {
	entries := []models.LedgerEntry{
		{Principal: "alice", Kind: models.EntryStakeIn, Amount: 2_000_000},
		{Principal: "bob", Kind: models.EntryStakeIn, Amount: 2_000_000},
		{Principal: "alice", Kind: models.EntryContributionIn, Amount: 1_000_000},
		{Principal: "bob", Kind: models.EntryContributionIn, Amount: 1_000_000},
		{Principal: "alice", Kind: models.EntryPayout, Amount: 1_990_000},
		{Principal: "treasury", Kind: models.EntryFee, Amount: 10_000},
		{Principal: "bob", Kind: models.EntryPenalty, Amount: 50_000},
		{Principal: "bob", Kind: models.EntryStakeRefund, Amount: 1_950_000},
		{Principal: "alice", Kind: models.EntryManagementFee, Amount: 3_000},
	}

	positions, fees, err := CirclePositions(entries)
	if err != nil {
		t.Fatalf("CirclePositions() error = %v", err)
	}
	if fees != 13_000 {
		t.Errorf("fees = %d, want 13000", fees)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}

	alice, bob := positions[0], positions[1]
	if alice.Principal != "alice" || bob.Principal != "bob" {
		t.Fatalf("positions not sorted: %+v", positions)
	}
	if alice.NetPosition != -1_010_000 {
		t.Errorf("alice net = %d, want -1010000", alice.NetPosition)
	}
	if alice.Managed != 3_000 {
		t.Errorf("alice managed = %d, want 3000", alice.Managed)
	}
	if bob.Penalized != 50_000 {
		t.Errorf("bob penalized = %d, want 50000", bob.Penalized)
	}
	if bob.NetPosition != -1_050_000 {
		t.Errorf("bob net = %d, want -1050000", bob.NetPosition)
	}

	balance, err := EscrowBalance(entries)
	if err != nil {
		t.Fatalf("EscrowBalance() error = %v", err)
	}
	// 6,000,000 in; 1,990,000 + 10,000 + 50,000 + 1,950,000 + 3,000 out.
	if balance != 1_997_000 {
		t.Errorf("EscrowBalance = %d, want 1997000", balance)
	}
}

func TestEscrowBalanceRejectsOverdraw(t *testing.T) {
	entries := []models.LedgerEntry{
		{Principal: "alice", Kind: models.EntryStakeIn, Amount: 10},
		{Principal: "alice", Kind: models.EntryStakeRefund, Amount: 11},
	}
	if _, err := EscrowBalance(entries); err == nil {
		t.Error("expected error for journal paying out more than it took in")
	}
}
