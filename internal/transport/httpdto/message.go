package httpdto

// SendMessageRequest is the body of POST /api/messages/send/:id.
// Image is base64, optionally as a data URL.
type SendMessageRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

type DeleteMessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
