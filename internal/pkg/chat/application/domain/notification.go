package chat

// NotificationTitle is the title of the notification a recipient gets for a new message.
func NotificationTitle(senderName string) string {
	return "New message from " + senderName
}

// Summary renders a message as notification body text. Media messages are
// shown as an icon and label rather than their raw content.
func Summary(m Message) string {
	switch m.Type {
	case MessageTypeImage:
		return "📷 Image"
	case MessageTypeFile:
		return "📎 File"
	case MessageTypeVideo:
		return "🎥 Video"
	case MessageTypeAudio:
		return "🎤 Audio"
	default:
		return m.Text
	}
}
