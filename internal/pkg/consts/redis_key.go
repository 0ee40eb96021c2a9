package consts

const (
	MediaPendingKey = "media:pending"
)

const (
	MediaCleanupLock = "lock:media:cleanup"
)
