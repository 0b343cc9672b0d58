package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cmmsmind/backend/internal/model"
	"github.com/cmmsmind/backend/internal/repository"
)

// Import actions.
const (
	importValidate = "validate"
	importCommit   = "import"
)

// csvColumns is the minimum column count of an asset row:
// code, name, category, location, purchaseCost, purchaseDate.
const csvColumns = 6

type importRequest struct {
	CSVData string `json:"csvData"`
	Action  string `json:"action"`
}

// ImportHandler bulk-loads assets from CSV text.
type ImportHandler struct {
	base
	assets repository.AssetRepository
}

func NewImportHandler(assets repository.AssetRepository, b base) *ImportHandler {
	return &ImportHandler{base: b, assets: assets}
}

// ImportAssets parses the posted CSV. The validate action only reports
// row errors; import also creates every valid row.
func (h *ImportHandler) ImportAssets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req importRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err)
		return
	}
	if strings.TrimSpace(req.CSVData) == "" {
		badRequest(w, r, errors.New("csvData is required"))
		return
	}
	if req.Action == "" {
		req.Action = importValidate
	}
	if req.Action != importValidate && req.Action != importCommit {
		badRequest(w, r, fmt.Errorf("action must be %s or %s", importValidate, importCommit))
		return
	}

	assets, result, err := parseAssetCSV(req.CSVData)
	if err != nil {
		badRequest(w, r, err)
		return
	}

	if req.Action == importCommit {
		created := make([]*model.Asset, 0, len(assets))
		for _, row := range assets {
			if err := h.assets.Create(ctx, row.asset); err != nil {
				if !errors.Is(err, repository.ErrAlreadyExists) {
					h.fail(w, r, err, "asset", row.asset.ID)
					return
				}
				result.Errors = append(result.Errors, model.ImportError{Row: row.line, Field: "code", Message: "Asset already exists"})
				continue
			}
			created = append(created, row.asset)
		}
		result.Imported = len(created)
		result.Failed = len(result.Errors)
		result.Success = result.Failed == 0
		result.Data = created
		h.logger.Info("assets imported", "imported", result.Imported, "failed", result.Failed)
	}

	writeJSON(w, http.StatusOK, result)
}

type importedAsset struct {
	line  int
	asset *model.Asset
}

// parseAssetCSV validates every row and builds assets for the valid ones.
// A first line mentioning code, name or category is taken as the header.
// Row numbers in errors are the physical line numbers of the input.
func parseAssetCSV(data string) ([]importedAsset, model.CSVImportResult, error) {
	result := model.CSVImportResult{Errors: []model.ImportError{}}

	reader := csv.NewReader(strings.NewReader(strings.TrimSpace(data)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var (
		assets   []importedAsset
		dataRows int
		first    = true
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, result, fmt.Errorf("malformed CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)

		if first {
			first = false
			if isHeader(record) {
				continue
			}
		}
		dataRows++

		asset, ierr := assetFromRecord(record, line)
		if ierr != nil {
			result.Errors = append(result.Errors, *ierr)
			continue
		}
		assets = append(assets, importedAsset{line: line, asset: asset})
	}

	if dataRows == 0 {
		return nil, result, errors.New("no data rows found in CSV")
	}

	result.Imported = len(assets)
	result.Failed = len(result.Errors)
	result.Success = result.Failed == 0
	return assets, result, nil
}

func isHeader(record []string) bool {
	line := strings.ToLower(strings.Join(record, ","))
	return strings.Contains(line, "code") || strings.Contains(line, "name") || strings.Contains(line, "category")
}

func assetFromRecord(record []string, line int) (*model.Asset, *model.ImportError) {
	fail := func(field, msg string) (*model.Asset, *model.ImportError) {
		return nil, &model.ImportError{Row: line, Field: field, Message: msg}
	}

	if len(record) < csvColumns {
		return fail("all", fmt.Sprintf("Expected at least %d columns, got %d", csvColumns, len(record)))
	}
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}
	code, name, category, location := record[0], record[1], record[2], record[3]

	switch {
	case code == "":
		return fail("code", "Code is required")
	case name == "":
		return fail("name", "Name is required")
	case category == "":
		return fail("category", "Category is required")
	case location == "":
		return fail("location", "Location is required")
	}

	cost, err := strconv.ParseFloat(record[4], 64)
	if err != nil || cost < 0 {
		return fail("purchaseCost", "Invalid purchase cost")
	}
	purchased, err := time.Parse(model.DateLayout, record[5])
	if err != nil {
		return fail("purchaseDate", "Invalid date format (expected YYYY-MM-DD)")
	}

	asset := model.AssetCreateRequest{
		Code:            code,
		Name:            name,
		Category:        category,
		Location:        location,
		Status:          model.AssetStatusActive,
		PurchaseDate:    model.DateOf(purchased),
		PurchaseCost:    cost,
		UsefulLifeYears: 10,
		ResidualValue:   cost * 0.1,
		Tags:            []string{"imported"},
	}.ToAsset()
	return asset, nil
}
