package event

const (
	PushNotiQueue = "push_noti_events"
	AuditQueue    = "audit_events"
)

// NotificationEventPushModel is the payload consumed by the notification
// dispatcher downstream.
type NotificationEventPushModel struct {
	LstUserIds []string `json:"lst_user_ids"`
	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Channel    string   `json:"channel"`
}

// AuditEventModel records a lifecycle action for the audit trail.
type AuditEventModel struct {
	UserID string `json:"user_id,omitempty"`
	Action string `json:"action"`
	Entity string `json:"entity"`
	Ref    string `json:"ref"`
}
