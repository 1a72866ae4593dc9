package realtime

import "encoding/json"

// Event names carried in the envelope "type" field.
const (
	EventJoinRoom            = "join_room"
	EventTyping              = "typing"
	EventSendMessage         = "send_message"
	EventNewMessage          = "new_message"
	EventMessageNotification = "message_notification"
	EventUserConnected       = "user_connected"
	EventUserDisconnected    = "user_disconnected"
	EventWalletNotification  = "wallet_notification"
	EventError               = "error"
)

// Envelope is the wire shape of every frame in both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Encode marshals payload into an envelope of the given type.
func Encode(eventType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return json.Marshal(Envelope{Type: eventType, Payload: raw})
}

// ErrorPayload is sent to the originating session only. Nonce echoes the
// correlation token of a failed send so the client can mark its entry failed.
type ErrorPayload struct {
	Code  string `json:"code"`
	Error string `json:"error"`
	Nonce string `json:"nonce,omitempty"`
}
