package chat

// Blocks reports block state between a sender and the partner of a direct conversation.
type Blocks struct {
	SenderBlockedPartner bool
	PartnerBlockedSender bool
}

func (b Blocks) Any() bool { return b.SenderBlockedPartner || b.PartnerBlockedSender }
