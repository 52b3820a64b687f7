package metrics

// IncrementPostCreated increments the forum post counter
func (m *Metrics) IncrementPostCreated() {
	m.safeExecute("IncrementPostCreated", func() {
		m.PostCreatedTotal.Inc()
	})
}

// IncrementReplyCreated increments the forum reply counter
func (m *Metrics) IncrementReplyCreated() {
	m.safeExecute("IncrementReplyCreated", func() {
		m.ReplyCreatedTotal.Inc()
	})
}

// RecordResourceUpload counts an upload and observes its size
func (m *Metrics) RecordResourceUpload(size int64) {
	m.safeExecute("RecordResourceUpload", func() {
		m.ResourceUploadedTotal.Inc()
		m.ResourceUploadBytes.Observe(float64(size))
	})
}

// AddNotificationsSent adds n written notifications
func (m *Metrics) AddNotificationsSent(n int) {
	m.safeExecute("AddNotificationsSent", func() {
		m.NotificationsSentTotal.Add(float64(n))
	})
}

// IncrementScreeningRequest counts a screening request by outcome
// (completed, failed, rejected)
func (m *Metrics) IncrementScreeningRequest(outcome string) {
	m.safeExecute("IncrementScreeningRequest", func() {
		m.ScreeningRequestsTotal.WithLabelValues(outcome).Inc()
	})
}

// LiveSubscriberConnected increments the live subscriber gauge
func (m *Metrics) LiveSubscriberConnected() {
	m.safeExecute("LiveSubscriberConnected", func() {
		m.LiveSubscribers.Inc()
	})
}

// LiveSubscriberDisconnected decrements the live subscriber gauge
func (m *Metrics) LiveSubscriberDisconnected() {
	m.safeExecute("LiveSubscriberDisconnected", func() {
		m.LiveSubscribers.Dec()
	})
}

// SetPostsTotal sets the total posts gauge
func (m *Metrics) SetPostsTotal(count int64) {
	m.safeExecute("SetPostsTotal", func() {
		m.PostsTotal.Set(float64(count))
	})
}

// SetResourcesTotal sets the resource gauge for one item type
func (m *Metrics) SetResourcesTotal(itemType string, count int64) {
	m.safeExecute("SetResourcesTotal", func() {
		m.ResourcesTotal.WithLabelValues(itemType).Set(float64(count))
	})
}

// SetUsersTotal sets the total users gauge
func (m *Metrics) SetUsersTotal(count int64) {
	m.safeExecute("SetUsersTotal", func() {
		m.UsersTotal.Set(float64(count))
	})
}
