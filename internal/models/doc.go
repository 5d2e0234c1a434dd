// Package models defines the account records held by the circlefund ledger.
//
// Every record is addressed by a deterministic key (see package keys) and is
// persisted as a whole on each write, so a record read back from the store is
// always a consistent snapshot of the last committed operation.
//
// # Accounts
//
//   - Circle and CircleEscrow: one pair per savings circle
//   - Member: one per (circle, principal)
//   - TrustScore: one per principal, independent of any circle
//   - GovernanceProposal and Vote: one active proposal slot per circle
//   - Auction and Bid: one active auction slot per circle
//   - AutomationState, Treasury, RevenueParams: global singletons
//   - CircleAutomation: one per circle that opted into scheduled triggers
//
// Journal rows (LedgerEntry, AutomationEvent) are append-only.
//
// # Units
//
// Amounts are uint64 in the smallest currency unit. Rates are basis points,
// where 10000 is 100%. Timestamps are Unix seconds.
package models
