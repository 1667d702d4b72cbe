package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/navikon/atlasbot/internal/models"
	"github.com/xuri/excelize/v2"
)

var ErrNoEmployees = errors.New("failed to generate report, 0 employees were provided")

// sheetNoDepartment collects employees whose department is unknown.
const sheetNoDepartment = "Без подразделения"

// Generator holds the state for the Excel export process.
type Generator struct {
	file *excelize.File
}

// NewGenerator creates a new directory export generator.
func NewGenerator() *Generator {
	return &Generator{
		file: excelize.NewFile(),
	}
}

// GenerateDirectoryExport renders the employee directory into an Excel
// workbook, one sheet per department, and returns the file contents.
// An empty directory is an error, not an empty workbook.
func GenerateDirectoryExport(employees []models.Employee) (*bytes.Buffer, error) {
	var err error

	if len(employees) == 0 {
		return nil, ErrNoEmployees
	}

	byDepartment := make(map[string][]models.Employee)
	for _, emp := range employees {
		dept := emp.Department
		if dept == "" {
			dept = sheetNoDepartment
		}
		byDepartment[dept] = append(byDepartment[dept], emp)
	}

	gen := NewGenerator()
	defer gen.file.Close()

	if err = gen.addSheets(byDepartment); err != nil {
		return nil, fmt.Errorf("failed to add sheets: %w", err)
	}

	// setup first sheet as active
	gen.file.SetActiveSheet(0)

	// delete default sheet
	if sheetIndex, _ := gen.file.GetSheetIndex("Sheet1"); sheetIndex != -1 {
		if err = gen.file.DeleteSheet("Sheet1"); err != nil {
			return nil, fmt.Errorf("failed to delete default sheet 'Sheet1': %w", err)
		}
	}

	buffer, err := gen.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write data from saved file: %w", err)
	}

	return buffer, nil
}

// addSheets creates one sheet per department and fills it with the
// employees of that department.
func (g *Generator) addSheets(byDepartment map[string][]models.Employee) error {
	var err error
	headerIndex := 2

	for department, employees := range byDepartment {
		sheetName := truncateSheetName(department)

		if _, err = g.file.NewSheet(sheetName); err != nil {
			return fmt.Errorf("failed to generate new sheet '%s': %w", sheetName, err)
		}

		if err = g.setupSheet(sheetName, len(employees)); err != nil {
			return fmt.Errorf("failed to setup sheet '%s': %w", sheetName, err)
		}

		for i, emp := range employees {
			if err = g.addRow(sheetName, i+headerIndex, emp); err != nil { // i+2, because the first row - header
				return fmt.Errorf("failed to add row '%d': %w", i+headerIndex, err)
			}
		}
	}
	return nil
}

// setupSheet initializes the specified sheet with headers, styles and
// column widths, and registers the data range as a table.
func (g *Generator) setupSheet(sheetName string, rowCount int) error {
	var err error

	// Style creating
	headerStyle, err := g.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create new style: %w", err)
	}

	// Headers creating
	rowHeight := 20
	headers := []string{"ID", "Имя", "Фамилия", "Должность", "E-Mail", "Телефон", "День рождения"}
	if err = g.file.SetRowHeight(sheetName, 1, float64(rowHeight)); err != nil {
		return fmt.Errorf("failed to set row height for headers: %w", err)
	}
	if err = g.file.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return fmt.Errorf("failed to set sheet row for headers: %w", err)
	}
	if err = g.file.SetCellStyle(sheetName, "A1", "G1", headerStyle); err != nil {
		return fmt.Errorf("failed to set cell style for headers: %w", err)
	}

	// Setup width column
	widths := map[string]float64{
		"A": 8, "B": 18, "C": 22, "D": 35, "E": 32, "F": 20, "G": 16, //nolint:mnd // const values for row width
	}
	for col, width := range widths {
		if err = g.file.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	// Add table
	if err = g.file.AddTable(sheetName, &excelize.Table{
		Range:     fmt.Sprintf("A1:G%d", rowCount+1),
		Name:      tableName(sheetName),
		StyleName: "TableStyleMedium9",
	}); err != nil {
		return fmt.Errorf("failed to add table: %w", err)
	}

	return nil
}

// addRow adds one employee to the sheet at the given row number.
func (g *Generator) addRow(sheetName string, rowNum int, emp models.Employee) error {
	birthday := ""
	if emp.HasBirthday() {
		birthday = fmt.Sprintf("%d.%d", *emp.BirthdayDay, *emp.BirthdayMonth)
	}

	rowData := []interface{}{
		emp.ID,
		emp.FirstName,
		emp.LastName,
		emp.Position,
		emp.Email,
		emp.Phone,
		birthday,
	}
	cell, _ := excelize.CoordinatesToCellName(1, rowNum)

	if err := g.file.SetSheetRow(sheetName, cell, &rowData); err != nil {
		return fmt.Errorf("failed to set sheet row: %w", err)
	}

	return nil
}

// tableName derives a legal Excel table name from a sheet name: table names
// may only contain letters, digits, underscores and periods.
func tableName(sheetName string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' {
			return r
		}
		return -1
	}, sheetName)

	return "table_" + cleaned
}

// truncateSheetName truncates the given sheet name to the 31-rune limit
// Excel imposes on sheet names.
func truncateSheetName(name string) string {
	if utf8.RuneCountInString(name) > 31 {
		runes := []rune(name)
		return string(runes[:31])
	}
	return name
}
