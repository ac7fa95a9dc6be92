package domain

import "errors"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusSuccessful PaymentStatus = "successful"
	PaymentStatusFailed     PaymentStatus = "failed"
)

var validPaymentStatuses = map[PaymentStatus]struct{}{
	PaymentStatusPending:    {},
	PaymentStatusSuccessful: {},
	PaymentStatusFailed:     {},
}

func ToPaymentStatus(s string) (PaymentStatus, error) {
	status := PaymentStatus(s)
	if _, ok := validPaymentStatuses[status]; ok {
		return status, nil
	}

	return "", errors.New("invalid payment status")
}
