package billing

import "testing"

func pendingRecord() PaymentRecord {
	return PaymentRecord{
		ID:          1,
		UnitNumber:  "A-101",
		MonthYear:   "07/2026",
		Rent:        8000,
		WaterBill:   45.50,
		Maintenance: 500,
		Corpus:      200,
		Status:      StatusPending,
	}
}

func TestApplyUpdates_MergeKeepsUnsuppliedFields(t *testing.T) {
	rec := pendingRecord()
	if err := applyUpdates(&rec, map[string]any{"maintenance": float64(750)}); err != nil {
		t.Fatalf("applyUpdates: %v", err)
	}
	if rec.Maintenance != 750 {
		t.Errorf("maintenance = %v, want 750", rec.Maintenance)
	}
	if rec.Rent != 8000 || rec.Corpus != 200 {
		t.Error("untouched fields must keep prior values")
	}
}

func TestApplyUpdates_MarkingUnpaidClearsPaymentInfo(t *testing.T) {
	rec := pendingRecord()
	date := "2026-07-05"
	method := "cash"
	rec.Status = StatusPaid
	rec.PaidDate = &date
	rec.PaymentMethod = &method

	if err := applyUpdates(&rec, map[string]any{"status": StatusPending}); err != nil {
		t.Fatalf("applyUpdates: %v", err)
	}
	if rec.PaidDate != nil || rec.PaymentMethod != nil {
		t.Error("reverting to pending must clear paid_date and payment_method")
	}
}

func TestApplyUpdates_AdminPaidDoesNotAutoFillDate(t *testing.T) {
	rec := pendingRecord()
	if err := applyUpdates(&rec, map[string]any{"status": StatusPaid}); err != nil {
		t.Fatalf("applyUpdates: %v", err)
	}
	if rec.Status != StatusPaid {
		t.Errorf("status = %q, want paid", rec.Status)
	}
	if rec.PaidDate != nil {
		t.Errorf("paid_date should stay unset on the admin path, got %q", *rec.PaidDate)
	}
}

func TestApplyUpdates_RejectsUnknownAndInvalid(t *testing.T) {
	cases := []map[string]any{
		{"razorpay_order_id": "order_x"}, // gateway fields are not admin-editable
		{"rent": float64(-10)},
		{"status": "cancelled"},
		{"paid_date": float64(20260705)},
	}
	for _, raw := range cases {
		rec := pendingRecord()
		if err := applyUpdates(&rec, raw); err == nil {
			t.Errorf("expected rejection for %v", raw)
		}
	}
}

func TestTotalDue(t *testing.T) {
	rec := pendingRecord()
	if got := rec.TotalDue(); got != 8745.50 {
		t.Errorf("TotalDue = %v, want 8745.50", got)
	}
}
