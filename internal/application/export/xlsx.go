package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ContentType MIME de los libros .xlsx.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const maxColWidth = 50

// Workbook serializa filas a un libro .xlsx de una hoja: la primera fila es
// la cabecera fija de la entidad y sigue una fila por registro, en el orden
// recibido. El ancho de cada columna se ajusta al contenido con tope.
func Workbook(sheet string, headers []string, rows [][]any) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("renombrar hoja: %w", err)
	}

	widths := make([]float64, len(headers))

	head := make([]any, len(headers))
	for i, h := range headers {
		head[i] = h
		widths[i] = float64(len([]rune(h)))
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return nil, fmt.Errorf("cabecera: %w", err)
	}

	for n, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("fila %d: %w", n+2, err)
		}
		for i, v := range row {
			if i >= len(widths) {
				break
			}
			if w := float64(len([]rune(fmt.Sprint(v)))); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for i := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		w := widths[i] + 2
		if w > maxColWidth {
			w = maxColWidth
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}

// Filename arma el nombre del adjunto con marca de tiempo de la exportación,
// ej. movimientos_inventario_20250131_154500.xlsx.
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.Format("20060102_150405"))
}
