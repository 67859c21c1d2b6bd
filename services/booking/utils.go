package booking

import (
	"fmt"
)

func validateSessionDetails(req ConfirmPaymentRequest) error {
	if req.PaymentIntentID == "" {
		return fmt.Errorf("paymentIntentId is required")
	}
	d := req.SessionDetails
	if d.StudentID == "" {
		return fmt.Errorf("studentId is required")
	}
	if d.TutorID == "" {
		return fmt.Errorf("tutorId is required")
	}
	if len(d.Slots) == 0 {
		return fmt.Errorf("slots must contain at least one start time")
	}
	if d.Status == "" {
		return fmt.Errorf("status is required")
	}
	if d.Price <= 0 {
		return fmt.Errorf("price must be a positive amount")
	}
	if d.Date == "" {
		return fmt.Errorf("date is required")
	}
	return nil
}
