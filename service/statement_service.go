package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"installment-backoffice/models"
	"installment-backoffice/utils"
)

//go:embed templates/statement.html
var templateFiles embed.FS

// StatementService renders the repayment statement of an order as HTML and PDF
type StatementService struct {
	orders     OrderServiceInterface
	baseURL    string // Base URL the PDF renderer loads the HTML statement from
	chromePath string
	currency   string
	tmpl       *template.Template
	log        *zap.Logger
	now        func() time.Time
}

// Ensure StatementService implements StatementServiceInterface
var _ StatementServiceInterface = (*StatementService)(nil)

// NewStatementService creates a new StatementService
func NewStatementService(orders OrderServiceInterface, baseURL, chromePath, currency string, log *zap.Logger) (*StatementService, error) {
	funcs := template.FuncMap{
		"money": func(amount decimal.Decimal) string {
			return utils.FormatAmount(amount, currency)
		},
		"date": func(v any) string {
			switch t := v.(type) {
			case time.Time:
				return t.Format(models.DateLayout)
			case *time.Time:
				if t == nil {
					return ""
				}
				return t.Format(models.DateLayout)
			default:
				return ""
			}
		},
	}

	tmpl, err := template.New("statement.html").Funcs(funcs).ParseFS(templateFiles, "templates/statement.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse statement template: %w", err)
	}

	return &StatementService{
		orders:     orders,
		baseURL:    baseURL,
		chromePath: chromePath,
		currency:   currency,
		tmpl:       tmpl,
		log:        log.Named("service.statement"),
		now:        time.Now,
	}, nil
}

// detectChromePath returns the configured Chrome/Chromium binary, or the first
// one found in the usual install locations
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// RenderHTML renders the statement of an order
func (s *StatementService) RenderHTML(ctx context.Context, orderID string) (string, error) {
	detail, err := s.orders.GetDetail(ctx, orderID)
	if err != nil {
		return "", err
	}

	paid := decimal.Zero
	for _, p := range detail.Payments {
		paid = paid.Add(p.Amount)
	}
	outstanding := detail.TotalAmount.Sub(paid)
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	data := struct {
		*models.OrderDetail
		Paid        decimal.Decimal
		Outstanding decimal.Decimal
		GeneratedAt time.Time
	}{
		OrderDetail: detail,
		Paid:        paid,
		Outstanding: outstanding,
		GeneratedAt: s.now(),
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute statement template: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDF prints the HTML statement served at baseURL to PDF with headless Chrome
func (s *StatementService) GeneratePDF(ctx context.Context, orderID string) ([]byte, error) {
	// Fail fast on unknown orders before starting a browser
	if _, err := s.orders.GetDetail(ctx, orderID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	} else {
		s.log.Warn("GeneratePDF: no Chrome binary found, relying on chromedp lookup")
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := fmt.Sprintf("%s/admin/orders/%s/statement", s.baseURL, orderID)

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 8.27" x 11.69"
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		s.log.Error("GeneratePDF: chromedp failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	s.log.Info("GeneratePDF: statement printed", zap.String("order_id", orderID), zap.Int("bytes", len(pdfBuf)))
	return pdfBuf, nil
}
