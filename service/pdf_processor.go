package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

type PDFProcessor interface {
	ExtractText(pdfData []byte, password string) (string, error)
}

type pdfProcessor struct{}

func NewPDFProcessor() PDFProcessor {
	return &pdfProcessor{}
}

// ExtractText returns the text layer of a PDF, one line per row.
// Password-protected files are decrypted with pdfcpu first.
func (p *pdfProcessor) ExtractText(pdfData []byte, password string) (string, error) {
	if password != "" {
		decrypted, err := decryptPDF(pdfData, password)
		if err != nil {
			return "", err
		}
		pdfData = decrypted
	}

	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			for _, word := range row.Content {
				textBuilder.WriteString(word.S)
			}
			textBuilder.WriteString("\n")
		}
	}
	return textBuilder.String(), nil
}

func decryptPDF(pdfData []byte, password string) ([]byte, error) {
	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password

	var out bytes.Buffer
	if err := api.Decrypt(bytes.NewReader(pdfData), &out, conf); err != nil {
		return nil, fmt.Errorf("failed to decrypt pdf: %w", err)
	}
	return out.Bytes(), nil
}
