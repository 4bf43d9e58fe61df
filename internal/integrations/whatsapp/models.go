package whatsapp

// sendRequest тело запроса Cloud API на отправку текстового сообщения
type sendRequest struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             textMessage `json:"text"`
}

type textMessage struct {
	Body string `json:"body"`
}

// sendResponse ответ Cloud API
type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// ErrorResponse модель ошибки Cloud API
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}
