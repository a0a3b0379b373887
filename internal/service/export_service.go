package service

import (
	"bytes"
	"errors"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ── 导出错误定义 ──

var (
	ErrExportGenerateFail = errors.New("Het Excel-bestand kon niet worden gemaakt")
)

const (
	importSheet         = "Gebruikers"
	importHelpSheet     = "Uitleg"
	importTemplateName  = "gebruikers-import.xlsx"
	importHeaderFill    = "#1F6F5C"
	importHeaderFontHex = "#FFFFFF"
)

// ExportService 管理端表格下载
type ExportService interface {
	// ImportTemplate 空的用户导入模板，表头与 ParseImportFile 一致
	ImportTemplate() (*bytes.Buffer, string, error)
}

type exportService struct {
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(logger *zap.Logger) ExportService {
	return &exportService{logger: logger}
}

// ────────────────────── ImportTemplate ──────────────────────

func (s *exportService) ImportTemplate() (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(importSheet)
	if err != nil {
		s.logger.Error("create import sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		s.logger.Error("drop default sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: importHeaderFontHex},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{importHeaderFill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		s.logger.Error("create header style failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	header := []interface{}{"naam", "email", "rol"}
	example := []interface{}{"Eva de Vries", "eva.devries@example.nl", "student"}
	if err := f.SetSheetRow(importSheet, "A1", &header); err != nil {
		return nil, "", s.fail(err)
	}
	if err := f.SetSheetRow(importSheet, "A2", &example); err != nil {
		return nil, "", s.fail(err)
	}
	if err := f.SetCellStyle(importSheet, "A1", "C1", headerStyle); err != nil {
		return nil, "", s.fail(err)
	}
	if err := f.SetColWidth(importSheet, "A", "B", 32); err != nil {
		return nil, "", s.fail(err)
	}
	if err := f.SetColWidth(importSheet, "C", "C", 12); err != nil {
		return nil, "", s.fail(err)
	}

	roles := excelize.NewDataValidation(true)
	roles.Sqref = "C2:C1001"
	if err := roles.SetDropList([]string{"student", "admin"}); err != nil {
		return nil, "", s.fail(err)
	}
	if err := f.AddDataValidation(importSheet, roles); err != nil {
		return nil, "", s.fail(err)
	}

	if _, err := f.NewSheet(importHelpSheet); err != nil {
		return nil, "", s.fail(err)
	}
	help := [][]interface{}{
		{"Kolom", "Uitleg"},
		{"naam", "Volledige naam, verplicht"},
		{"email", "E-mailadres, verplicht en uniek"},
		{"rol", "student of admin; leeg betekent student"},
		{"", "Elke nieuwe gebruiker krijgt een tijdelijk wachtwoord dat na het importeren wordt getoond."},
	}
	for i, row := range help {
		cellName, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(importHelpSheet, cellName, &row); err != nil {
			return nil, "", s.fail(err)
		}
	}
	if err := f.SetColWidth(importHelpSheet, "B", "B", 80); err != nil {
		return nil, "", s.fail(err)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, "", s.fail(err)
	}
	return buf, importTemplateName, nil
}

func (s *exportService) fail(err error) error {
	s.logger.Error("build import template failed", zap.Error(err))
	return ErrExportGenerateFail
}
