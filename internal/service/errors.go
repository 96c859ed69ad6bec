package service

import "github.com/go-faster/errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrMixedPharmacy    = errors.New("cart contains medicines from more than one pharmacy")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("action not allowed for current role")
	ErrNotAssigned      = errors.New("order is not assigned to current delivery person")
)
