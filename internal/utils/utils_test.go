package utils

import (
	"context"
	"testing"
)

func TestFormatRupees(t *testing.T) {
	cases := map[int64]string{
		0:       "Rs. 0",
		950:     "Rs. 950",
		1500:    "Rs. 1,500",
		1234567: "Rs. 1,234,567",
		-2000:   "-Rs. 2,000",
	}
	for in, want := range cases {
		if got := FormatRupees(in); got != want {
			t.Fatalf("FormatRupees(%d) = %q want %q", in, got, want)
		}
	}
}

func TestTicketAmount(t *testing.T) {
	if got := TicketAmount(1500, 3); got != 4500 {
		t.Fatalf("got %d", got)
	}
	if got := TicketAmount(1500, 0); got != 0 {
		t.Fatalf("got %d", got)
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Fatalf("got %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("got %q", got)
	}
}
