package sale

import "errors"

var (
	// ErrNotActive is returned by Deposit outside the ACTIVE window.
	ErrNotActive = errors.New("sale is not active")

	// ErrDepositRejected is returned when the buyer or global cap is already
	// exhausted so nothing of the deposit could be accepted.
	ErrDepositRejected = errors.New("deposit rejected")

	// ErrNotWithdrawable is returned by Withdraw before the sale resolves.
	ErrNotWithdrawable = errors.New("sale is not withdrawable")

	// ErrNotOwner is returned when a seller-only operation is called by
	// someone else.
	ErrNotOwner = errors.New("caller is not the seller")

	// ErrNotAdmin is returned when an admin-only operation is called by
	// someone other than the admin snapshotted at creation.
	ErrNotAdmin = errors.New("caller is not the admin")

	// ErrWrongState is returned when an operation is illegal in the current
	// state.
	ErrWrongState = errors.New("operation not allowed in current state")

	// ErrSaleNotFound is returned for unknown sale ids.
	ErrSaleNotFound = errors.New("sale not found")
)
