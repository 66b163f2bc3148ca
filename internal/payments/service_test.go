package payments

import (
	"testing"

	"github.com/stripe/stripe-go/v79"
)

func TestMapIntentStatus(t *testing.T) {
	cases := []struct {
		in   stripe.PaymentIntentStatus
		want string
	}{
		{stripe.PaymentIntentStatusSucceeded, StatusCompleted},
		{stripe.PaymentIntentStatusCanceled, StatusFailed},
		{stripe.PaymentIntentStatusProcessing, StatusPending},
		{stripe.PaymentIntentStatusRequiresPaymentMethod, StatusPending},
	}

	for _, tc := range cases {
		if got := MapIntentStatus(tc.in); got != tc.want {
			t.Errorf("MapIntentStatus(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
