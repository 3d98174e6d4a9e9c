package billing

import "fmt"

// Updatable bill fields for the admin partial-update path. Gateway
// identifiers are only ever written by payment verification.
var updatableFields = map[string]bool{
	"rent":           true,
	"water_bill":     true,
	"maintenance":    true,
	"corpus":         true,
	"status":         true,
	"paid_date":      true,
	"payment_method": true,
}

// applyUpdates merges a partial JSON object onto rec. Unsupplied fields keep
// their prior values. Moving status away from paid clears paid_date and
// payment_method; moving it to paid does NOT stamp a date — the admin path
// records exactly what was supplied.
func applyUpdates(rec *PaymentRecord, raw map[string]any) error {
	for field, value := range raw {
		if !updatableFields[field] {
			return fmt.Errorf("field %q is not updatable", field)
		}
		switch field {
		case "rent", "water_bill", "maintenance", "corpus":
			n, ok := value.(float64)
			if !ok || n < 0 {
				return fmt.Errorf("%s must be a non-negative number", field)
			}
			switch field {
			case "rent":
				rec.Rent = n
			case "water_bill":
				rec.WaterBill = n
			case "maintenance":
				rec.Maintenance = n
			case "corpus":
				rec.Corpus = n
			}
		case "status":
			s, ok := value.(string)
			if !ok || (s != StatusPending && s != StatusPaid) {
				return fmt.Errorf("status must be %q or %q", StatusPending, StatusPaid)
			}
			rec.Status = s
		case "paid_date":
			s, err := optionalString(value, field)
			if err != nil {
				return err
			}
			rec.PaidDate = s
		case "payment_method":
			s, err := optionalString(value, field)
			if err != nil {
				return err
			}
			rec.PaymentMethod = s
		}
	}

	if rec.Status != StatusPaid {
		rec.PaidDate = nil
		rec.PaymentMethod = nil
	}
	return nil
}

func optionalString(value any, field string) (*string, error) {
	if value == nil {
		return nil, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%s must be a string or null", field)
	}
	if s == "" {
		return nil, nil
	}
	return &s, nil
}
