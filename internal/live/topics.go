package live

import "github.com/google/uuid"

// Topic names a logical live-query feed. Writes publish the topics they
// affect; every subscription on that topic then re-runs its query and
// delivers a fresh snapshot.
type Topic string

// RequestsTopic covers the pending partner requests addressed to an email.
func RequestsTopic(email string) Topic {
	return Topic("requests:" + email)
}

// PartnershipsTopic covers the partnerships a participant email belongs to.
func PartnershipsTopic(email string) Topic {
	return Topic("partnerships:" + email)
}

// MessagesTopic covers all messages of one partnership, including read-flag
// changes.
func MessagesTopic(partnershipID uuid.UUID) Topic {
	return Topic("messages:" + partnershipID.String())
}

// Publisher is what writers use to invalidate feeds after a successful
// write. The Bus implements it directly; the RedisBridge implements it with
// cross-instance forwarding.
type Publisher interface {
	Publish(topics ...Topic)
}
