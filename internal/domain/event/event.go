package event

type Type string

const (
	NotificationDelivered Type = "DELIVERED"
	NotificationFailed    Type = "FAILED"
	NotificationSkipped   Type = "SKIPPED"
)

type Event struct {
	Type    Type
	Payload any
}
