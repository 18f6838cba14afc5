package broadcast

import "github.com/gabapcia/blockpulse/internal/txfeed"

// Message is the envelope written on the push channel.
type Message struct {
	Event string               `json:"event"`
	Data  []txfeed.Transaction `json:"data"`
}
