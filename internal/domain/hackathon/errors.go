package hackathon

import "errors"

var (
	ErrHackathonNotFound = errors.New("hackathon not found")
	ErrOrganizerNotFound = errors.New("organizer not found")
	ErrNotPendingReview  = errors.New("hackathon is not pending review")
)
