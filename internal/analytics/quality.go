package analytics

// ===============================
// Data quality score
// ===============================

const serviceCoverageTarget = 10

// QualityScore is a weighted sum of completeness ratios, clamped to
// [0, 100]. Each component is non-decreasing in its inputs.
type QualityScore struct {
	Score               float64 `json:"score"`
	EmailCompleteness   float64 `json:"email_completeness"`
	RevenueCompleteness float64 `json:"revenue_completeness"`
	ServiceCoverage     float64 `json:"service_coverage"`
}

// ComputeQuality weighs client-email completeness (40%), priced
// appointment completeness (40%) and active service coverage (20%,
// saturating at 10 services).
func ComputeQuality(
	clientsTotal, clientsWithEmail int64,
	appointmentsTotal, appointmentsPriced int64,
	activeServices int64,
) QualityScore {

	q := QualityScore{}

	if clientsTotal > 0 {
		q.EmailCompleteness = ratio(clientsWithEmail, clientsTotal)
	}
	if appointmentsTotal > 0 {
		q.RevenueCompleteness = ratio(appointmentsPriced, appointmentsTotal)
	}

	coverage := float64(activeServices) / serviceCoverageTarget
	if coverage > 1 {
		coverage = 1
	}
	q.ServiceCoverage = coverage

	q.Score = q.EmailCompleteness*40 + q.RevenueCompleteness*40 + q.ServiceCoverage*20

	if q.Score < 0 {
		q.Score = 0
	}
	if q.Score > 100 {
		q.Score = 100
	}

	return q
}

func ratio(part, total int64) float64 {
	if total <= 0 {
		return 0
	}
	r := float64(part) / float64(total)
	if r > 1 {
		return 1
	}
	return r
}
