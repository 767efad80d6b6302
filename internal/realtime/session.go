package realtime

// Session is one dashboard connection's membership handle in the Hub.
// The websocket client drains Receive and writes each message to the wire;
// tests can read Receive directly without a network connection.
type Session struct {
	send chan []byte
}

func NewSession(buffer int) *Session {
	return &Session{
		send: make(chan []byte, buffer),
	}
}

// Receive returns the channel of outbound messages for this session. The
// channel is closed when the Hub drops or disconnects the session.
func (s *Session) Receive() <-chan []byte {
	return s.send
}
