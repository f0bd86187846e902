// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/estim-games/estim-api/internal/config"
	"github.com/estim-games/estim-api/internal/domain/cart"
	"github.com/google/uuid"
)

var receiptTmpl = template.Must(template.New("receipt").Parse(receiptTemplate))

// Service renders cart receipts as PDF
type Service struct {
	storeName string
	dpi       uint
	now       func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		storeName: cfg.PDF.StoreName,
		dpi:       cfg.PDF.DPI,
		now:       time.Now,
	}
}

// ReceiptData is the data passed to the receipt template
type ReceiptData struct {
	StoreName     string
	ReceiptNumber string
	IssuedAt      string
	Lines         []ReceiptLine
	Total         string
}

// ReceiptLine is one row of the receipt
type ReceiptLine struct {
	Title     string
	UnitPrice string
	AddedAt   string
}

// GenerateReceipt renders the cart as a PDF document
func (s *Service) GenerateReceipt(c *cart.Cart) (*bytes.Buffer, error) {
	htmlContent, err := s.generateHTML(s.receiptData(c))
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(s.dpi)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) receiptData(c *cart.Cart) ReceiptData {
	issued := s.now().UTC()

	data := ReceiptData{
		StoreName:     s.storeName,
		ReceiptNumber: fmt.Sprintf("RCPT-%s-%s", issued.Format("20060102"), strings.ToUpper(uuid.NewString()[:8])),
		IssuedAt:      issued.Format("January 2, 2006 15:04 MST"),
		Lines:         make([]ReceiptLine, 0, c.Len()),
		Total:         c.Total().StringFixed(2),
	}

	for _, line := range c.Lines {
		data.Lines = append(data.Lines, ReceiptLine{
			Title:     line.Title,
			UnitPrice: line.UnitPrice.StringFixed(2),
			AddedAt:   line.AddedAt.UTC().Format("2006-01-02"),
		})
	}

	return data
}

func (s *Service) generateHTML(data ReceiptData) (string, error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.StoreName}} receipt {{.ReceiptNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 24px; color: #222; }
        h1 { margin: 0 0 4px 0; color: #4b2aad; }
        .meta { color: #666; font-size: 12px; margin-bottom: 24px; }
        table { width: 100%; border-collapse: collapse; }
        th, td { padding: 8px; border-bottom: 1px solid #ddd; text-align: left; }
        th { background: #f4f2fb; }
        .amount { text-align: right; }
        .total td { font-weight: bold; border-top: 2px solid #4b2aad; }
        .empty { color: #888; font-style: italic; }
    </style>
</head>
<body>
    <h1>{{.StoreName}}</h1>
    <div class="meta">Receipt {{.ReceiptNumber}} &middot; {{.IssuedAt}}</div>
    <table>
        <thead>
            <tr><th>Game</th><th>Added</th><th class="amount">Price</th></tr>
        </thead>
        <tbody>
        {{- range .Lines}}
            <tr><td>{{.Title}}</td><td>{{.AddedAt}}</td><td class="amount">${{.UnitPrice}}</td></tr>
        {{- else}}
            <tr><td colspan="3" class="empty">Your cart is empty</td></tr>
        {{- end}}
            <tr class="total"><td colspan="2">Total</td><td class="amount">${{.Total}}</td></tr>
        </tbody>
    </table>
</body>
</html>
`
