package businessflow

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alqaisi42/medexaTPA-sub003/app/dto"
	"github.com/alqaisi42/medexaTPA-sub003/models"
	"github.com/alqaisi42/medexaTPA-sub003/repository"
	"github.com/alqaisi42/medexaTPA-sub003/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// PricingRuleFlow defines admin operations for pricing rules, including
// spreadsheet bulk import/export.
type PricingRuleFlow interface {
	AdminCreatePricingRule(ctx context.Context, req *dto.AdminCreatePricingRuleRequest) (*dto.AdminCreatePricingRuleResponse, error)
	AdminUpdatePricingRule(ctx context.Context, req *dto.AdminUpdatePricingRuleRequest) (*dto.AdminUpdatePricingRuleResponse, error)
	AdminDeletePricingRule(ctx context.Context, id uint) (*dto.AdminDeletePricingRuleResponse, error)
	AdminGetPricingRule(ctx context.Context, id uint) (*dto.AdminGetPricingRuleResponse, error)
	AdminListPricingRules(ctx context.Context, filter models.PricingRuleFilter, limit, offset int) (*dto.AdminListPricingRulesResponse, error)
	AdminExportPricingRules(ctx context.Context, filter models.PricingRuleFilter) (string, []byte, error)
	AdminImportPricingRules(ctx context.Context, data []byte) (*dto.AdminImportPricingRulesResponse, error)
}

type PricingRuleFlowImpl struct {
	ruleRepo repository.PricingRuleRepository
	defRepo  repository.FactorDefinitionRepository
}

func NewPricingRuleFlow(ruleRepo repository.PricingRuleRepository, defRepo repository.FactorDefinitionRepository) PricingRuleFlow {
	return &PricingRuleFlowImpl{ruleRepo: ruleRepo, defRepo: defRepo}
}

// AdminCreatePricingRule validates and persists a new rule.
func (f *PricingRuleFlowImpl) AdminCreatePricingRule(ctx context.Context, req *dto.AdminCreatePricingRuleRequest) (*dto.AdminCreatePricingRuleResponse, error) {
	rule, err := f.buildRule(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := f.ruleRepo.Save(ctx, rule); err != nil {
		return nil, NewBusinessError("PRICING_RULE_SAVE_FAILED", "Failed to save pricing rule", err)
	}

	return &dto.AdminCreatePricingRuleResponse{
		Message: "Pricing rule created successfully",
		Rule:    ToPricingRuleDTO(*rule),
	}, nil
}

// AdminUpdatePricingRule replaces the full definition of an existing rule.
func (f *PricingRuleFlowImpl) AdminUpdatePricingRule(ctx context.Context, req *dto.AdminUpdatePricingRuleRequest) (*dto.AdminUpdatePricingRuleResponse, error) {
	existing, err := f.ruleRepo.ByID(ctx, req.ID)
	if err != nil {
		return nil, NewBusinessError("PRICING_RULE_LOAD_FAILED", "Failed to load pricing rule", err)
	}
	if existing == nil {
		return nil, NewBusinessError("PRICING_RULE_NOT_FOUND", "Pricing rule not found", ErrPricingRuleNotFound)
	}

	rule, err := f.buildRule(ctx, &req.AdminCreatePricingRuleRequest)
	if err != nil {
		return nil, err
	}
	rule.ID = existing.ID
	rule.UUID = existing.UUID
	rule.CreatedAt = existing.CreatedAt
	rule.UpdatedAt = utils.UTCNow()

	if err := f.ruleRepo.Update(ctx, rule); err != nil {
		return nil, NewBusinessError("PRICING_RULE_UPDATE_FAILED", "Failed to update pricing rule", err)
	}

	return &dto.AdminUpdatePricingRuleResponse{
		Message: "Pricing rule updated successfully",
		Rule:    ToPricingRuleDTO(*rule),
	}, nil
}

// AdminDeletePricingRule removes a rule by ID.
func (f *PricingRuleFlowImpl) AdminDeletePricingRule(ctx context.Context, id uint) (*dto.AdminDeletePricingRuleResponse, error) {
	existing, err := f.ruleRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("PRICING_RULE_LOAD_FAILED", "Failed to load pricing rule", err)
	}
	if existing == nil {
		return nil, NewBusinessError("PRICING_RULE_NOT_FOUND", "Pricing rule not found", ErrPricingRuleNotFound)
	}

	if err := f.ruleRepo.Delete(ctx, id); err != nil {
		return nil, NewBusinessError("PRICING_RULE_DELETE_FAILED", "Failed to delete pricing rule", err)
	}

	return &dto.AdminDeletePricingRuleResponse{
		Message: "Pricing rule deleted successfully",
	}, nil
}

// AdminGetPricingRule returns a single rule by ID.
func (f *PricingRuleFlowImpl) AdminGetPricingRule(ctx context.Context, id uint) (*dto.AdminGetPricingRuleResponse, error) {
	rule, err := f.ruleRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("PRICING_RULE_LOAD_FAILED", "Failed to load pricing rule", err)
	}
	if rule == nil {
		return nil, NewBusinessError("PRICING_RULE_NOT_FOUND", "Pricing rule not found", ErrPricingRuleNotFound)
	}

	return &dto.AdminGetPricingRuleResponse{
		Message: "Pricing rule retrieved successfully",
		Rule:    ToPricingRuleDTO(*rule),
	}, nil
}

// AdminListPricingRules returns rules matching the filter.
func (f *PricingRuleFlowImpl) AdminListPricingRules(ctx context.Context, filter models.PricingRuleFilter, limit, offset int) (*dto.AdminListPricingRulesResponse, error) {
	rules, err := f.ruleRepo.ByFilter(ctx, filter, "", limit, offset)
	if err != nil {
		return nil, NewBusinessError("PRICING_RULE_LIST_FAILED", "Failed to list pricing rules", err)
	}
	total, err := f.ruleRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("PRICING_RULE_COUNT_FAILED", "Failed to count pricing rules", err)
	}

	items := make([]dto.PricingRuleDTO, 0, len(rules))
	for _, r := range rules {
		items = append(items, ToPricingRuleDTO(*r))
	}

	return &dto.AdminListPricingRulesResponse{
		Message: "Pricing rules retrieved successfully",
		Items:   items,
		Total:   total,
	}, nil
}

// buildRule converts and validates an admin payload into a rule model.
func (f *PricingRuleFlowImpl) buildRule(ctx context.Context, req *dto.AdminCreatePricingRuleRequest) (*models.PricingRule, error) {
	method := models.PricingMethod(req.PricingMethod)
	if !method.Valid() {
		return nil, NewBusinessErrorf("PRICING_METHOD_INVALID", "Pricing method %q is not supported", ErrPricingMethodInvalid, req.PricingMethod)
	}

	conditions, err := parseConditions(req.Conditions)
	if err != nil {
		return nil, err
	}

	// Condition keys must reference declared factor definitions, or the rule
	// could never match.
	if len(conditions) > 0 {
		defs, err := f.defRepo.ListActive(ctx)
		if err != nil {
			return nil, NewBusinessError("FACTOR_DEFINITIONS_LOAD_FAILED", "Failed to load factor definitions", err)
		}
		known := make(map[string]struct{}, len(defs))
		for _, d := range defs {
			known[d.Key] = struct{}{}
		}
		for _, c := range conditions {
			if _, ok := known[c.FactorKey]; !ok {
				return nil, NewBusinessErrorf("CONDITION_FACTOR_KEY_UNKNOWN", "Condition factor key %q has no active definition", ErrConditionFactorKeyUnknown, c.FactorKey)
			}
		}
	}

	rule := &models.PricingRule{
		ProcedureID:         req.ProcedureID,
		PriceListID:         req.PriceListID,
		InsuranceDegreeID:   req.InsuranceDegreeID,
		Conditions:          conditions,
		PricingMethod:       method,
		FixedAmount:         req.FixedAmount,
		PointMultiplier:     req.PointMultiplier,
		MinPrice:            req.MinPrice,
		MaxPrice:            req.MaxPrice,
		NominalAmount:       req.NominalAmount,
		PercentageRate:      req.PercentageRate,
		ReferenceKind:       req.ReferenceKind,
		Deductible:          req.Deductible,
		Priority:            req.Priority,
		EffectiveFrom:       req.EffectiveFrom,
		EffectiveTo:         req.EffectiveTo,
		Covered:             req.Covered,
		CoverageReason:      req.CoverageReason,
		PreapprovalRequired: req.PreapprovalRequired,
		PreapprovalReason:   req.PreapprovalReason,
		CreatedAt:           utils.UTCNow(),
		UpdatedAt:           utils.UTCNow(),
	}
	if rule.Covered == nil {
		rule.Covered = utils.ToPtr(true)
	}
	if rule.PreapprovalRequired == nil {
		rule.PreapprovalRequired = utils.ToPtr(false)
	}

	if err := rule.ValidateWindow(); err != nil {
		return nil, NewBusinessError("EFFECTIVE_WINDOW_INVALID", err.Error(), ErrEffectiveWindowInverted)
	}
	if err := rule.ValidateMethodParams(); err != nil {
		return nil, NewBusinessError("PRICING_METHOD_PARAMS_INCOMPLETE", err.Error(), ErrMethodParamsIncomplete)
	}

	return rule, nil
}

// Spreadsheet column layout shared by export and import.
var ruleSheetHeader = []string{
	"procedure_id", "price_list_id", "insurance_degree_id", "pricing_method",
	"fixed_amount", "point_multiplier", "min_price", "max_price", "nominal_amount",
	"percentage_rate", "deductible", "priority", "effective_from", "effective_to",
	"covered", "preapproval_required", "conditions",
}

const ruleSheetName = "pricing_rules"

// AdminExportPricingRules writes matching rules into an xlsx workbook.
func (f *PricingRuleFlowImpl) AdminExportPricingRules(ctx context.Context, filter models.PricingRuleFilter) (string, []byte, error) {
	rules, err := f.ruleRepo.ByFilter(ctx, filter, "procedure_id ASC, priority DESC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("PRICING_RULE_LIST_FAILED", "Failed to list pricing rules for export", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	xl.SetSheetName(xl.GetSheetName(0), ruleSheetName)
	_ = xl.SetSheetRow(ruleSheetName, "A1", &ruleSheetHeader)

	for ri, rule := range rules {
		record := ruleToSheetRow(rule)
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(ruleSheetName, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	filename := fmt.Sprintf("pricing_rules_%s.xlsx", utils.UTCNowFormat("2006-01-02"))
	return filename, buf.Bytes(), nil
}

// AdminImportPricingRules parses an xlsx workbook and imports its valid
// rows. Invalid rows are reported per row number; they do not abort the
// import of the remaining rows.
func (f *PricingRuleFlowImpl) AdminImportPricingRules(ctx context.Context, data []byte) (*dto.AdminImportPricingRulesResponse, error) {
	xl, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, NewBusinessError("EXCEL_READ_ERROR", "Failed to parse Excel file", ErrImportFileInvalid)
	}
	defer func() { _ = xl.Close() }()

	sheet := xl.GetSheetName(0)
	rows, err := xl.GetRows(sheet)
	if err != nil {
		return nil, NewBusinessError("EXCEL_READ_ERROR", "Failed to read Excel rows", err)
	}
	if len(rows) <= 1 {
		return nil, NewBusinessError("IMPORT_FILE_EMPTY", "Import file has no data rows", ErrImportFileEmpty)
	}

	var toImport []*models.PricingRule
	var rowErrors []string
	for i, row := range rows[1:] {
		rowNum := i + 2
		rule, err := sheetRowToRule(row)
		if err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		if err := rule.ValidateWindow(); err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		if err := rule.ValidateMethodParams(); err != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		toImport = append(toImport, rule)
	}

	if err := f.ruleRepo.SaveBatch(ctx, toImport); err != nil {
		return nil, NewBusinessError("PRICING_RULE_SAVE_FAILED", "Failed to save imported pricing rules", err)
	}

	return &dto.AdminImportPricingRulesResponse{
		Message:   "Pricing rules imported",
		Imported:  len(toImport),
		RowErrors: rowErrors,
	}, nil
}

func ruleToSheetRow(rule *models.PricingRule) []string {
	conds := make([]string, 0, len(rule.Conditions))
	for _, c := range rule.Conditions {
		conds = append(conds, fmt.Sprintf("%s %s %s", c.FactorKey, c.Operator, c.ExpectedValue))
	}

	effectiveTo := ""
	if rule.EffectiveTo != nil {
		effectiveTo = rule.EffectiveTo.Format("2006-01-02")
	}

	return []string{
		strconv.FormatUint(uint64(rule.ProcedureID), 10),
		uintPtrString(rule.PriceListID),
		uintPtrString(rule.InsuranceDegreeID),
		string(rule.PricingMethod),
		decimalPtrString(rule.FixedAmount),
		decimalPtrString(rule.PointMultiplier),
		decimalPtrString(rule.MinPrice),
		decimalPtrString(rule.MaxPrice),
		decimalPtrString(rule.NominalAmount),
		decimalPtrString(rule.PercentageRate),
		decimalPtrString(rule.Deductible),
		strconv.Itoa(rule.Priority),
		rule.EffectiveFrom.Format("2006-01-02"),
		effectiveTo,
		strconv.FormatBool(utils.IsTrue(rule.Covered)),
		strconv.FormatBool(utils.IsTrue(rule.PreapprovalRequired)),
		strings.Join(conds, "; "),
	}
}

func sheetRowToRule(row []string) (*models.PricingRule, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	procedureID, err := strconv.ParseUint(cell(0), 10, 32)
	if err != nil || procedureID == 0 {
		return nil, fmt.Errorf("procedure_id %q is not a positive integer", cell(0))
	}

	priceListID, err := parseOptionalUint(cell(1))
	if err != nil {
		return nil, fmt.Errorf("price_list_id %q is not an integer", cell(1))
	}
	degreeID, err := parseOptionalUint(cell(2))
	if err != nil {
		return nil, fmt.Errorf("insurance_degree_id %q is not an integer", cell(2))
	}

	method := models.PricingMethod(cell(3))
	if !method.Valid() {
		return nil, fmt.Errorf("pricing_method %q is not supported", cell(3))
	}

	rule := &models.PricingRule{
		ProcedureID:       uint(procedureID),
		PriceListID:       priceListID,
		InsuranceDegreeID: degreeID,
		PricingMethod:     method,
		Conditions:        models.RuleConditions{},
		CreatedAt:         utils.UTCNow(),
		UpdatedAt:         utils.UTCNow(),
	}

	if rule.FixedAmount, err = parseOptionalDecimal(cell(4)); err != nil {
		return nil, fmt.Errorf("fixed_amount %q is not a number", cell(4))
	}
	if rule.PointMultiplier, err = parseOptionalDecimal(cell(5)); err != nil {
		return nil, fmt.Errorf("point_multiplier %q is not a number", cell(5))
	}
	if rule.MinPrice, err = parseOptionalDecimal(cell(6)); err != nil {
		return nil, fmt.Errorf("min_price %q is not a number", cell(6))
	}
	if rule.MaxPrice, err = parseOptionalDecimal(cell(7)); err != nil {
		return nil, fmt.Errorf("max_price %q is not a number", cell(7))
	}
	if rule.NominalAmount, err = parseOptionalDecimal(cell(8)); err != nil {
		return nil, fmt.Errorf("nominal_amount %q is not a number", cell(8))
	}
	if rule.PercentageRate, err = parseOptionalDecimal(cell(9)); err != nil {
		return nil, fmt.Errorf("percentage_rate %q is not a number", cell(9))
	}
	if rule.Deductible, err = parseOptionalDecimal(cell(10)); err != nil {
		return nil, fmt.Errorf("deductible %q is not a number", cell(10))
	}

	if c := cell(11); c != "" {
		priority, err := strconv.Atoi(c)
		if err != nil {
			return nil, fmt.Errorf("priority %q is not an integer", c)
		}
		rule.Priority = priority
	}

	effectiveFrom, err := time.Parse("2006-01-02", cell(12))
	if err != nil {
		return nil, fmt.Errorf("effective_from %q is not an ISO date", cell(12))
	}
	rule.EffectiveFrom = effectiveFrom

	if c := cell(13); c != "" {
		effectiveTo, err := time.Parse("2006-01-02", c)
		if err != nil {
			return nil, fmt.Errorf("effective_to %q is not an ISO date", c)
		}
		rule.EffectiveTo = &effectiveTo
	}

	rule.Covered = utils.ToPtr(cell(14) == "" || strings.EqualFold(cell(14), "true"))
	rule.PreapprovalRequired = utils.ToPtr(strings.EqualFold(cell(15), "true"))

	if c := cell(16); c != "" {
		conditions, err := parseConditionCells(c)
		if err != nil {
			return nil, err
		}
		rule.Conditions = conditions
	}

	return rule, nil
}

// parseConditionCells parses the "key op value; key op value" sheet format.
func parseConditionCells(s string) (models.RuleConditions, error) {
	parts := strings.Split(s, ";")
	out := make(models.RuleConditions, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		fields := strings.SplitN(p, " ", 3)
		if len(fields) != 3 {
			return nil, fmt.Errorf("condition %q is not in \"key op value\" form", p)
		}
		op := models.ConditionOperator(fields[1])
		if !op.Valid() {
			return nil, fmt.Errorf("condition operator %q is not supported", fields[1])
		}
		out = append(out, models.RuleCondition{
			FactorKey:     fields[0],
			Operator:      op,
			ExpectedValue: strings.TrimSpace(fields[2]),
		})
	}
	return out, nil
}

func uintPtrString(v *uint) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*v), 10)
}

func decimalPtrString(v *decimal.Decimal) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func parseOptionalUint(s string) (*uint, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, err
	}
	return utils.ToPtr(uint(v)), nil
}

func parseOptionalDecimal(s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
