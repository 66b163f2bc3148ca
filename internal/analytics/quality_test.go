package analytics

import "testing"

func TestComputeQualityEmptyTenant(t *testing.T) {
	q := ComputeQuality(0, 0, 0, 0, 0)
	if q.Score != 0 {
		t.Fatalf("empty tenant must score 0, got %.2f", q.Score)
	}
}

func TestComputeQualityFullMarks(t *testing.T) {
	q := ComputeQuality(50, 50, 200, 200, 10)
	if q.Score != 100 {
		t.Fatalf("complete data must score 100, got %.2f", q.Score)
	}
}

func TestComputeQualityWeights(t *testing.T) {
	// half the emails, all prices, 5 of 10 services
	q := ComputeQuality(10, 5, 100, 100, 5)

	if q.EmailCompleteness != 0.5 {
		t.Fatalf("expected email completeness 0.5, got %.2f", q.EmailCompleteness)
	}
	if q.RevenueCompleteness != 1 {
		t.Fatalf("expected revenue completeness 1, got %.2f", q.RevenueCompleteness)
	}
	if q.ServiceCoverage != 0.5 {
		t.Fatalf("expected service coverage 0.5, got %.2f", q.ServiceCoverage)
	}
	// 0.5*40 + 1*40 + 0.5*20
	if q.Score != 70 {
		t.Fatalf("expected score 70, got %.2f", q.Score)
	}
}

func TestComputeQualityCoverageSaturates(t *testing.T) {
	base := ComputeQuality(10, 10, 10, 10, 10)
	more := ComputeQuality(10, 10, 10, 10, 40)
	if more.Score != base.Score {
		t.Fatalf("coverage saturates at %d services: %.2f vs %.2f", serviceCoverageTarget, more.Score, base.Score)
	}
}

func TestComputeQualityMonotonic(t *testing.T) {
	prev := -1.0
	for emails := int64(0); emails <= 10; emails++ {
		q := ComputeQuality(10, emails, 10, 10, 5)
		if q.Score < prev {
			t.Fatalf("score must not decrease as email completeness grows: %.2f < %.2f", q.Score, prev)
		}
		prev = q.Score
	}
}
