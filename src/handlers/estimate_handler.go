package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/username/magifolio/backend/src/logger"
	"github.com/username/magifolio/backend/src/models"
	"github.com/username/magifolio/backend/src/services"
	"github.com/username/magifolio/backend/src/taxrules"
	"github.com/username/magifolio/backend/src/utils"
)

// EstimateHandler serves the MAGI calculation endpoints.
type EstimateHandler struct {
	service services.EstimateService
	rules   *taxrules.Table
}

func NewEstimateHandler(service services.EstimateService, rules *taxrules.Table) *EstimateHandler {
	return &EstimateHandler{service: service, rules: rules}
}

// calculateRequest is the wire form of the manual income inputs. Monetary
// fields arrive as strings so the client never loses precision to floats;
// absent fields default to zero.
type calculateRequest struct {
	FilingStatus string  `json:"filing_status"`
	TaxYear      int     `json:"tax_year"`
	TargetMAGI   *string `json:"target_magi"`

	Wages             *string `json:"wages"`
	BusinessIncome    *string `json:"business_income"`
	RentalIncome      *string `json:"rental_income"`
	RetirementIncome  *string `json:"retirement_income"`
	SocialSecurity    *string `json:"social_security"`
	OtherIncome       *string `json:"other_income"`
	TaxExemptInterest *string `json:"tax_exempt_interest"`

	UseStandardDeduction *bool   `json:"use_standard_deduction"`
	ItemizedDeductions   *string `json:"itemized_deductions"`

	StudentLoanInterest *string `json:"student_loan_interest"`
	IRAContributions    *string `json:"ira_contributions"`
	HSAContributions    *string `json:"hsa_contributions"`
	SelfEmploymentTax   *string `json:"self_employment_tax"`
	OtherAdjustments    *string `json:"other_adjustments"`
}

// parseMoneyField converts an optional string amount to a decimal. A nil
// field is silently zero; an empty or unparseable value is zero with a
// warning so the caller learns their input was ignored rather than getting
// a hard failure mid-form.
func parseMoneyField(field string, raw *string, warnings *[]models.Warning) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	s := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(*raw))
	if s == "" {
		*warnings = append(*warnings, models.Warning{
			Field:   field,
			Message: "empty value treated as 0",
		})
		return decimal.Zero
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		*warnings = append(*warnings, models.Warning{
			Field:   field,
			Message: fmt.Sprintf("could not parse %q, treated as 0", *raw),
		})
		return decimal.Zero
	}
	return v
}

func (h *EstimateHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Missing session", http.StatusUnauthorized)
		return
	}

	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	status := models.FilingStatus(req.FilingStatus)
	if !status.IsValid() {
		utils.SendJSONError(w, fmt.Sprintf("Invalid filing status %q", req.FilingStatus), http.StatusBadRequest)
		return
	}
	if req.TaxYear == 0 {
		utils.SendJSONError(w, "tax_year is required", http.StatusBadRequest)
		return
	}

	var warnings []models.Warning

	inputs := models.UserInputs{
		FilingStatus:      status,
		TaxYear:           req.TaxYear,
		Wages:             parseMoneyField("wages", req.Wages, &warnings),
		BusinessIncome:    parseMoneyField("business_income", req.BusinessIncome, &warnings),
		RentalIncome:      parseMoneyField("rental_income", req.RentalIncome, &warnings),
		RetirementIncome:  parseMoneyField("retirement_income", req.RetirementIncome, &warnings),
		SocialSecurity:    parseMoneyField("social_security", req.SocialSecurity, &warnings),
		OtherIncome:       parseMoneyField("other_income", req.OtherIncome, &warnings),
		TaxExemptInterest: parseMoneyField("tax_exempt_interest", req.TaxExemptInterest, &warnings),

		UseStandardDeduction: true,
		ItemizedDeductions:   parseMoneyField("itemized_deductions", req.ItemizedDeductions, &warnings),

		StudentLoanInterest: parseMoneyField("student_loan_interest", req.StudentLoanInterest, &warnings),
		IRAContributions:    parseMoneyField("ira_contributions", req.IRAContributions, &warnings),
		HSAContributions:    parseMoneyField("hsa_contributions", req.HSAContributions, &warnings),
		SelfEmploymentTax:   parseMoneyField("self_employment_tax", req.SelfEmploymentTax, &warnings),
		OtherAdjustments:    parseMoneyField("other_adjustments", req.OtherAdjustments, &warnings),
	}
	if req.UseStandardDeduction != nil {
		inputs.UseStandardDeduction = *req.UseStandardDeduction
	}
	if req.TargetMAGI != nil && strings.TrimSpace(*req.TargetMAGI) != "" {
		target := parseMoneyField("target_magi", req.TargetMAGI, &warnings)
		inputs.TargetMAGI = decimal.NullDecimal{Decimal: target, Valid: true}
	}

	result, err := h.service.Calculate(sessionID, inputs, warnings)
	if err != nil {
		if errors.Is(err, taxrules.ErrUnsupportedTaxYear) {
			utils.SendJSONError(w, fmt.Sprintf("No tax rules for year %d", req.TaxYear), http.StatusBadRequest)
			return
		}
		ctxLogger.Error("Calculation failed", "sessionID", sessionID, "error", err)
		utils.SendJSONError(w, "Failed to calculate estimate", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, result, http.StatusOK)
}

func (h *EstimateHandler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	sessionID, ok := GetSessionIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Missing session", http.StatusUnauthorized)
		return
	}

	result, err := h.service.GetLatestResult(sessionID)
	if err != nil {
		if errors.Is(err, services.ErrNoResult) {
			utils.SendJSONError(w, "No calculation result for this session", http.StatusNotFound)
			return
		}
		ctxLogger.Error("Failed to load latest result", "sessionID", sessionID, "error", err)
		utils.SendJSONError(w, "Failed to load result", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, result, http.StatusOK)
}

func (h *EstimateHandler) HandleGetFilingStatuses(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, map[string]any{"filing_statuses": models.FilingStatuses}, http.StatusOK)
}

func (h *EstimateHandler) HandleGetTaxYears(w http.ResponseWriter, r *http.Request) {
	utils.SendJSON(w, map[string]any{"tax_years": h.rules.Years()}, http.StatusOK)
}
