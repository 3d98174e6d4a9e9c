package units

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SocietyHub/SH-Backend/internal/db"
	"github.com/SocietyHub/SH-Backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type loginRequest struct {
	Unit string `json:"unit" validate:"required"`
	PIN  string `json:"pin" validate:"required"`
}

// LoginHandler checks a unit's PIN and returns its identity and role.
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}
	if err := utils.Validate.Struct(req); err != nil {
		utils.FailValidation(w, err)
		return
	}

	var login Login
	if err := db.DB.First(&login, "unit = ?", req.Unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(w, http.StatusNotFound, utils.CodeNotFound, "Unit not found")
			return
		}
		utils.StorageError(w, "login lookup", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(login.HashedPIN), []byte(req.PIN)); err != nil {
		utils.Fail(w, http.StatusUnauthorized, utils.CodeInvalidCredentials, "Invalid PIN")
		return
	}

	utils.Success(w, map[string]string{
		"unit": login.Unit,
		"role": login.Role,
	})
}

// GetUnit returns a single unit snapshot.
func GetUnit(w http.ResponseWriter, r *http.Request) {
	unitNumber := chi.URLParam(r, "unitNumber")

	var unit Unit
	if err := db.DB.First(&unit, "unit_number = ?", unitNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(w, http.StatusNotFound, utils.CodeNotFound, "Unit details not found")
			return
		}
		utils.StorageError(w, "unit lookup", err)
		return
	}

	utils.Success(w, unit)
}

// ListUnits returns every unit, ordered by unit number.
func ListUnits(w http.ResponseWriter, r *http.Request) {
	var all []Unit
	if err := db.DB.Order("unit_number").Find(&all).Error; err != nil {
		utils.StorageError(w, "list units", err)
		return
	}
	utils.Success(w, all)
}

// Residents may only touch their own roster and vehicle counts; admins may
// also reprice rent. Anything outside the allow-list is rejected rather
// than silently dropped.
var residentFields = map[string]bool{
	"tenant_names":     true,
	"num_tenants":      true,
	"num_cars":         true,
	"num_two_wheelers": true,
}

var adminFields = map[string]bool{
	"tenant_names":     true,
	"num_tenants":      true,
	"num_cars":         true,
	"num_two_wheelers": true,
	"rent":             true,
}

// SelfUpdateUnit handles resident self-service edits.
func SelfUpdateUnit(w http.ResponseWriter, r *http.Request) {
	updateUnit(w, r, residentFields)
}

// AdminUpdateUnit handles admin edits, which additionally cover rent.
func AdminUpdateUnit(w http.ResponseWriter, r *http.Request) {
	updateUnit(w, r, adminFields)
}

func updateUnit(w http.ResponseWriter, r *http.Request, allowed map[string]bool) {
	unitNumber := chi.URLParam(r, "unitNumber")

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}

	updates, err := buildUnitUpdates(raw, allowed)
	if err != nil {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, err.Error())
		return
	}
	if len(updates) == 0 {
		utils.Fail(w, http.StatusBadRequest, utils.CodeValidation, "No updatable fields supplied")
		return
	}

	res := db.DB.Model(&Unit{}).Where("unit_number = ?", unitNumber).Updates(updates)
	if res.Error != nil {
		utils.StorageError(w, "update unit", res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.Fail(w, http.StatusNotFound, utils.CodeNotFound, "Unit not found")
		return
	}

	var unit Unit
	if err := db.DB.First(&unit, "unit_number = ?", unitNumber).Error; err != nil {
		utils.StorageError(w, "reload unit", err)
		return
	}
	utils.Success(w, unit)
}
