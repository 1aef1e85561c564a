package team

import "errors"

var ErrMembershipNotFound = errors.New("membership not found")
