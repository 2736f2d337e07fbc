package domain

// Outbox collects the side effects of a workflow run. Workflows return it instead of
// writing audit rows and notifications inline; the caller chooses how to deliver it.
type Outbox struct {
	Activities    []ActivityLog  `json:"activities,omitempty"`
	Notifications []Notification `json:"notifications,omitempty"`
}

func (o *Outbox) Empty() bool {
	return o == nil || (len(o.Activities) == 0 && len(o.Notifications) == 0)
}

func (o *Outbox) Log(a ActivityLog) {
	o.Activities = append(o.Activities, a)
}

func (o *Outbox) Notify(n Notification) {
	if n.Status == "" {
		n.Status = NotificationUnread
	}
	o.Notifications = append(o.Notifications, n)
}

// Merge appends the events of other to o.
func (o *Outbox) Merge(other Outbox) {
	o.Activities = append(o.Activities, other.Activities...)
	o.Notifications = append(o.Notifications, other.Notifications...)
}

// Ref returns a pointer to a copy of id, for nullable columns.
func Ref(id int64) *int64 {
	return &id
}
