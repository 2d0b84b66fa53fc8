package handler

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v2"

	"github.com/locvowork/employee_directory/internal/domain"
	"github.com/locvowork/employee_directory/internal/service"
	"github.com/locvowork/employee_directory/internal/service/serviceutils"
)

const exportPageSize = 500

// ExportColumn configures one column of the directory export.
type ExportColumn struct {
	Field  string  `yaml:"field"`
	Header string  `yaml:"header"`
	Width  float64 `yaml:"width"`
}

// ExportConfig is the YAML-configurable layout of the Excel export.
type ExportConfig struct {
	Sheet   string         `yaml:"sheet"`
	Columns []ExportColumn `yaml:"columns"`
}

func defaultExportConfig() ExportConfig {
	return ExportConfig{
		Sheet: "Employees",
		Columns: []ExportColumn{
			{Field: "id", Header: "ID", Width: 38},
			{Field: "name", Header: "Name", Width: 24},
			{Field: "age", Header: "Age", Width: 8},
			{Field: "address", Header: "Address", Width: 32},
			{Field: "contacts", Header: "Contacts", Width: 40},
		},
	}
}

// LoadExportConfig reads an export layout from a YAML file. An empty
// path yields the built-in layout.
func LoadExportConfig(path string) (ExportConfig, error) {
	if path == "" {
		return defaultExportConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ExportConfig{}, fmt.Errorf("failed to read export config: %w", err)
	}

	var cfg ExportConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ExportConfig{}, fmt.Errorf("failed to parse export config: %w", err)
	}
	if cfg.Sheet == "" {
		cfg.Sheet = "Employees"
	}
	if len(cfg.Columns) == 0 {
		cfg.Columns = defaultExportConfig().Columns
	}
	return cfg, nil
}

type ExportHandler struct {
	svc *service.DirectoryService
	cfg ExportConfig
}

func NewExportHandler(svc *service.DirectoryService, cfg ExportConfig) *ExportHandler {
	return &ExportHandler{svc: svc, cfg: cfg}
}

// ExportEmployeesHandler streams the whole directory as an .xlsx file.
func (h *ExportHandler) ExportEmployeesHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var items []domain.EmployeeWithContacts
	for page := 1; ; page++ {
		result, err := h.svc.ListEmployees(ctx, page, exportPageSize)
		if err != nil {
			return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to list employees for export", err)
		}
		items = append(items, result.Items...)
		if len(result.Items) < exportPageSize {
			break
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := h.cfg.Sheet
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to name export sheet", err)
	}

	for i, col := range h.cfg.Columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to build export layout", err)
		}
		cell := fmt.Sprintf("%s1", name)
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to write export header", err)
		}
		if col.Width > 0 {
			if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
				return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to size export column", err)
			}
		}
	}

	for row, item := range items {
		for i, col := range h.cfg.Columns {
			name, _ := excelize.ColumnNumberToName(i + 1)
			cell := fmt.Sprintf("%s%d", name, row+2)
			if err := f.SetCellValue(sheet, cell, exportValue(item, col.Field)); err != nil {
				return serviceutils.ResponseError(c, http.StatusInternalServerError, "Failed to write export row", err)
			}
		}
	}

	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="employee_directory.xlsx"`)
	return f.Write(c.Response().Writer)
}

func exportValue(item domain.EmployeeWithContacts, field string) interface{} {
	switch field {
	case "id":
		return item.ID
	case "name":
		return item.Name
	case "age":
		return item.Age
	case "address":
		return item.Address
	case "contacts":
		parts := make([]string, 0, len(item.Contacts))
		for _, contact := range item.Contacts {
			parts = append(parts, fmt.Sprintf("%s: %s", contact.Type, contact.Value))
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}
