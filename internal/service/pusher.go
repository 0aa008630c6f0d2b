package service

// Pusher is the real-time gateway surface the services depend on. Pushes are
// fire-and-forget: an offline recipient is silently skipped.
type Pusher interface {
	SendToUser(userID string, event string, data interface{})
	Broadcast(room string, event string, data interface{})
}
