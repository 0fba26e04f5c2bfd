package model

// WebSocket message types
const (
	WSMessageTypeProgress = "progress"
	WSMessageTypeComplete = "complete"
	WSMessageTypeError    = "error"
	WSMessageTypePing     = "ping"
	WSMessageTypePong     = "pong"
)

// WSMessage is the minimal envelope used to sniff inbound messages.
type WSMessage struct {
	Type string `json:"type"`
}

// WSProgressMessage reports transfer progress to subscribers.
type WSProgressMessage struct {
	Type       string `json:"type"`
	TransferID int    `json:"transfer_id"`
	Status     string `json:"status"`
	Progress   int    `json:"progress"`
}

// WSCompleteMessage reports a finished transfer.
type WSCompleteMessage struct {
	Type       string      `json:"type"`
	TransferID int         `json:"transfer_id"`
	Result     interface{} `json:"result,omitempty"`
}

// WSErrorMessage reports a failed transfer.
type WSErrorMessage struct {
	Type       string  `json:"type"`
	TransferID int     `json:"transfer_id"`
	Error      WSError `json:"error"`
}

type WSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
