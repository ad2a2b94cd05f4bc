package enums

// RejectReason records why a chat-bot login payload was refused before an
// identity could be resolved.
type RejectReason string

const (
	RejectSignature RejectReason = "signature"
	RejectStale     RejectReason = "stale"
)
