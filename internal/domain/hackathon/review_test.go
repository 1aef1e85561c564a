package hackathon

import "testing"

func TestRequiresManualReview(t *testing.T) {
	tests := []struct {
		isFlagged    bool
		autoApproval bool
		want         bool
	}{
		{true, true, true},
		{true, false, true},
		{false, true, false},
		{false, false, true},
	}

	for _, tt := range tests {
		got := RequiresManualReview(tt.isFlagged, tt.autoApproval)
		if got != tt.want {
			t.Errorf("RequiresManualReview(%v, %v) = %v, want %v",
				tt.isFlagged, tt.autoApproval, got, tt.want)
		}

		// The companion is the exact negation across all inputs.
		if CanAutoApproveSubmission(tt.isFlagged, tt.autoApproval) == got {
			t.Errorf("CanAutoApproveSubmission(%v, %v) must negate RequiresManualReview",
				tt.isFlagged, tt.autoApproval)
		}
	}
}

func TestApprovalRate(t *testing.T) {
	tests := []struct {
		approved, total, want int
	}{
		{0, 0, 100},
		{0, 5, 0},
		{5, 5, 100},
		{3, 4, 75},
		{1, 3, 33},
		{-2, 5, 0},
		{7, 5, 100},
	}

	for _, tt := range tests {
		if got := ApprovalRate(tt.approved, tt.total); got != tt.want {
			t.Errorf("ApprovalRate(%d, %d) = %d, want %d", tt.approved, tt.total, got, tt.want)
		}
	}
}
