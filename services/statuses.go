package services

// Budget lifecycle statuses tracked by the backend.
const (
	StatusPendente   = "PENDENTE"
	StatusConfirmado = "CONFIRMADO"
	StatusDevolvido  = "DEVOLVIDO"
	StatusCancelado  = "CANCELADO"
)

// Payment statuses for finance entries.
const (
	PaymentPendente = "PENDENTE"
	PaymentPago     = "PAGO"
)

// BudgetStatuses lists the valid budget lifecycle statuses.
var BudgetStatuses = []string{StatusPendente, StatusConfirmado, StatusDevolvido, StatusCancelado}

// PaymentStatuses lists the valid payment statuses.
var PaymentStatuses = []string{PaymentPendente, PaymentPago}

// IsValidBudgetStatus reports whether s is a known budget status.
func IsValidBudgetStatus(s string) bool {
	for _, v := range BudgetStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsValidPaymentStatus reports whether s is a known payment status.
func IsValidPaymentStatus(s string) bool {
	for _, v := range PaymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}
