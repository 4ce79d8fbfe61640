package models

import "testing"

func TestCanTransitionTo(t *testing.T) {
	allowed := []struct {
		from, to OrderStatus
	}{
		{StatusPending, StatusPreparing},
		{StatusPending, StatusCancelled},
		{StatusPreparing, StatusOutForDelivery},
		{StatusPreparing, StatusCancelled},
		{StatusOutForDelivery, StatusDelivered},
		{StatusOutForDelivery, StatusCancelled},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	denied := []struct {
		from, to OrderStatus
	}{
		{StatusPending, StatusOutForDelivery}, // skipping a state
		{StatusPending, StatusDelivered},
		{StatusPreparing, StatusDelivered},
		{StatusPreparing, StatusPending}, // moving backward
		{StatusOutForDelivery, StatusPreparing},
		{StatusDelivered, StatusPending}, // out of a terminal state
		{StatusDelivered, StatusCancelled},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusDelivered},
		{StatusPending, StatusPending}, // no-op is not a transition
	}
	for _, tc := range denied {
		if tc.from.CanTransitionTo(tc.to) {
			t.Errorf("%s -> %s should be denied", tc.from, tc.to)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusPreparing, StatusOutForDelivery} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	for _, s := range []OrderStatus{StatusDelivered, StatusCancelled} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"Pending", "Preparing", "Out for Delivery", "Delivered", "Cancelled"} {
		status, err := ParseOrderStatus(valid)
		if err != nil {
			t.Errorf("ParseOrderStatus(%q) returned error: %v", valid, err)
		}
		if string(status) != valid {
			t.Errorf("ParseOrderStatus(%q) = %q", valid, status)
		}
	}

	// Confirmed and Ready appear nowhere in the enforced transition table and
	// must not parse.
	for _, invalid := range []string{"", "Confirmed", "Ready", "pending", "Done"} {
		if _, err := ParseOrderStatus(invalid); err == nil {
			t.Errorf("ParseOrderStatus(%q) should fail", invalid)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{0, "MK 0.00"},
		{500, "MK 500.00"},
		{5500, "MK 5,500.00"},
		{1234567.5, "MK 1,234,567.50"},
		{-250, "MK -250.00"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.amount); got != tc.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
