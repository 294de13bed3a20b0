package utils

import "strings"

// PhoneFromChatID extracts the bare phone number from a WhatsApp chat
// id like "34612345678@s.whatsapp.net". A plain phone number passes
// through unchanged.
func PhoneFromChatID(chatID string) string {
	phone := chatID
	if at := strings.Index(phone, "@"); at >= 0 {
		phone = phone[:at]
	}
	phone = strings.TrimPrefix(phone, "whatsapp:")
	return strings.TrimPrefix(phone, "+")
}
