package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/SocietyHub/SH-Backend/internal/billing"
	"github.com/SocietyHub/SH-Backend/internal/db"
	"github.com/SocietyHub/SH-Backend/internal/maintenance"
	"github.com/SocietyHub/SH-Backend/internal/period"
	"github.com/SocietyHub/SH-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// Handler holds the gateway client shared by the payment endpoints.
type Handler struct {
	Gateway  *Client
	Currency string
}

// TestHandler is a liveness probe for the payment API.
func TestHandler(w http.ResponseWriter, r *http.Request) {
	utils.Success(w, map[string]string{"message": "Payment API is working"})
}

// GetDetails looks up one bill by unit and month. The month token is the
// trailing wildcard because "MM/YYYY" spans two path segments.
func GetDetails(w http.ResponseWriter, r *http.Request) {
	unitNumber := chi.URLParam(r, "unitNumber")
	monthYear := chi.URLParam(r, "*")
	if !period.Valid(monthYear) {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "month token must be MM/YYYY")
		return
	}

	var rec billing.PaymentRecord
	err := db.DB.First(&rec, "unit_number = ? AND month_year = ?", unitNumber, monthYear).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Fail(w, http.StatusNotFound, utils.CodeNotFound, "Payment record not found")
		return
	}
	if err != nil {
		utils.StorageError(w, "record lookup", err)
		return
	}
	utils.Success(w, rec)
}

type createOrderRequest struct {
	PaymentID  uint   `json:"payment_id" validate:"required"`
	UnitNumber string `json:"unit_number" validate:"required"`
	MonthYear  string `json:"month_year"`
}

// CreateOrder loads the bill, sizes a gateway order in paise for its total
// due, and returns the handle the checkout widget needs.
func (h Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	if h.Gateway == nil {
		utils.Fail(w, http.StatusServiceUnavailable, utils.CodeUpstream, "Payment gateway is not configured")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.FailValidation(w, err)
		return
	}

	var rec billing.PaymentRecord
	err := db.DB.First(&rec, "id = ? AND unit_number = ?", req.PaymentID, req.UnitNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Fail(w, http.StatusNotFound, utils.CodeNotFound, "Payment record not found")
		return
	}
	if err != nil {
		utils.StorageError(w, "record lookup", err)
		return
	}

	totalDue := rec.TotalDue()
	paise := int64(math.Round(totalDue * 100))
	receipt := fmt.Sprintf("receipt_%d_%d", rec.ID, time.Now().Unix())

	order, err := h.Gateway.CreateOrder(r.Context(), paise, h.Currency, receipt, map[string]string{
		"unit_number": rec.UnitNumber,
		"payment_id":  fmt.Sprint(rec.ID),
		"month_year":  rec.MonthYear,
	})
	if err != nil {
		log.Printf("[payments] order creation failed for record %d: %v", rec.ID, err)
		utils.Fail(w, http.StatusBadGateway, utils.CodeUpstream, "Failed to create payment order")
		return
	}

	log.Printf("[payments] created order %s for %s %s (%s)",
		order.ID, rec.UnitNumber, rec.MonthYear, utils.FormatINR(totalDue))

	utils.Success(w, map[string]any{
		"order_id": order.ID,
		"amount":   order.Amount,
		"currency": order.Currency,
		"key_id":   h.Gateway.KeyID(),
	})
}

type verifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
	PaymentID         uint   `json:"payment_id" validate:"required"`
	UnitNumber        string `json:"unit_number" validate:"required"`
}

// Verify checks the callback signature and, on a match, marks the bill paid
// and refreshes the maintenance-fund ledger for its month.
func Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.FailValidation(w, err)
		return
	}

	secret := os.Getenv("RAZORPAY_KEY_SECRET")
	if secret == "" {
		log.Println("[payments] RAZORPAY_KEY_SECRET is not set; refusing verification")
		utils.Fail(w, http.StatusServiceUnavailable, utils.CodeUpstream, "Payment gateway is not configured")
		return
	}

	if !VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, secret) {
		utils.Fail(w, http.StatusBadRequest, utils.CodeInvalidSignature, "Invalid payment signature")
		return
	}

	var rec billing.PaymentRecord
	err := db.DB.First(&rec, "id = ? AND unit_number = ?", req.PaymentID, req.UnitNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Fail(w, http.StatusNotFound, utils.CodeNotFound, "Payment record not found")
		return
	}
	if err != nil {
		utils.StorageError(w, "record lookup", err)
		return
	}

	// Gateway confirmation always stamps today's date and the method.
	paidDate := time.Now().Format("2006-01-02")
	method := "Razorpay"
	rec.Status = billing.StatusPaid
	rec.PaidDate = &paidDate
	rec.PaymentMethod = &method
	rec.RazorpayOrderID = &req.RazorpayOrderID
	rec.RazorpayPaymentID = &req.RazorpayPaymentID

	if err := db.DB.Model(&rec).
		Select("status", "paid_date", "payment_method", "razorpay_order_id", "razorpay_payment_id").
		Updates(&rec).Error; err != nil {
		utils.StorageError(w, "mark paid", err)
		return
	}

	log.Printf("[payments] verified payment %s for %s %s (%s)",
		req.RazorpayPaymentID, rec.UnitNumber, rec.MonthYear, utils.FormatINR(rec.TotalDue()))

	// Fund money moved only if the bill carried maintenance or corpus.
	if rec.Maintenance > 0 || rec.Corpus > 0 {
		if _, err := maintenance.Refresh(rec.MonthYear); err != nil {
			// The ledger self-heals on the next refresh-collected call.
			log.Printf("[payments] ledger refresh for %s failed: %v", rec.MonthYear, err)
		}
	}

	utils.Success(w, rec)
}
