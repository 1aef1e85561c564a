package hackathon

// RequiresManualReview decides whether an organizer's submission must pass
// manual review. A flagged organizer always reviews manually, regardless of
// the hackathon's own auto-approval configuration. Stateless: recompute on
// every submission evaluation, never cache the result against the flag.
func RequiresManualReview(isFlagged, autoApprovalEnabled bool) bool {
	if isFlagged {
		return true
	}
	return !autoApprovalEnabled
}

// CanAutoApproveSubmission is the companion of RequiresManualReview with the
// flagged case hard-pinned to false.
func CanAutoApproveSubmission(isFlagged, autoApprovalEnabled bool) bool {
	if isFlagged {
		return false
	}
	return autoApprovalEnabled
}

// ApprovalRate returns the percentage of approved submissions. An organizer
// with no submissions has a clean record, so zero total yields 100.
func ApprovalRate(approved, total int) int {
	if total <= 0 {
		return 100
	}
	if approved < 0 {
		approved = 0
	}
	if approved > total {
		approved = total
	}
	return approved * 100 / total
}
