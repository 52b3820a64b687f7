package dto

// LiveMessage is the payload pushed to live update subscribers
type LiveMessage struct {
	Topic string `json:"topic"`
	Kind  string `json:"kind"`
	ID    string `json:"id"`
}
