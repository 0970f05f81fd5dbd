package payment

import (
	"errors"

	"github.com/payhive/paygate/app/repository"
	"github.com/payhive/paygate/internal/pkg/nicepay"
	"gorm.io/gorm"
)

// VerifyAmount checks an externally supplied amount against the
// authoritative amount stored at prepare time. This is the primary defense
// against a compromised client altering the charged amount in transit; no
// approval call may be issued when it fails.
func VerifyAmount(repo repository.PaymentRepository, orderID string, receivedAmount int64) error {
	p, err := repo.GetByOrderID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nicepay.NewPaymentNotFoundError(orderID)
		}
		return err
	}

	if p.Amount != receivedAmount {
		return nicepay.NewAmountMismatchError(orderID, p.Amount, receivedAmount)
	}
	return nil
}
