package models

// TrustTier is the reputation bracket that sets a member's collateral.
type TrustTier string

const (
	TierNewcomer TrustTier = "newcomer"
	TierSilver   TrustTier = "silver"
	TierGold     TrustTier = "gold"
	TierPlatinum TrustTier = "platinum"
)

// SocialProof is an external identity attached to a trust score.
type SocialProof struct {
	ProofType  string `json:"proof_type"`
	Identifier string `json:"identifier"`
	Verified   bool   `json:"verified"`
	Timestamp  int64  `json:"timestamp"`
}

// TrustScore is a principal's reputation, independent of any circle.
// Score is always the sum of the four component scores.
type TrustScore struct {
	Authority           string        `json:"authority"`
	Score               uint16        `json:"score"`
	Tier                TrustTier     `json:"tier"`
	PaymentHistoryScore uint16        `json:"payment_history_score"`
	CompletionScore     uint16        `json:"completion_score"`
	DefiActivityScore   uint16        `json:"defi_activity_score"`
	SocialProofScore    uint16        `json:"social_proof_score"`
	CirclesCompleted    uint32        `json:"circles_completed"`
	CirclesJoined       uint32        `json:"circles_joined"`
	TotalContributions  uint64        `json:"total_contributions"`
	ContributionsMade   uint32        `json:"contributions_made"`
	MissedContributions uint32        `json:"missed_contributions"`
	SocialProofs        []SocialProof `json:"social_proofs"`
	LastUpdated         int64         `json:"last_updated"`
}

// FindProof returns the proof with the given type and identifier, or nil.
func (t *TrustScore) FindProof(proofType, identifier string) *SocialProof {
	for i := range t.SocialProofs {
		p := &t.SocialProofs[i]
		if p.ProofType == proofType && p.Identifier == identifier {
			return p
		}
	}
	return nil
}

// VerifiedProofs counts verified social proofs.
func (t *TrustScore) VerifiedProofs() int {
	n := 0
	for _, p := range t.SocialProofs {
		if p.Verified {
			n++
		}
	}
	return n
}
