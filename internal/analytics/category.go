package analytics

// ===============================
// Client categories
// ===============================

const (
	CategoryVIP        = "vip"
	CategoryOccasional = "occasional"
	CategoryOneTime    = "one_time"
)

// CategorizeClient buckets a client by loyalty. Pure function of the
// visit count and lifetime spend inside the analyzed window.
func CategorizeClient(visits int64, spent float64) string {
	switch {
	case visits >= 5 && spent >= 300:
		return CategoryVIP
	case visits >= 2:
		return CategoryOccasional
	default:
		return CategoryOneTime
	}
}
