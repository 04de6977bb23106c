// Package report renders an ROI result as markdown, a standalone HTML page
// and a PDF with a benefit chart.
package report

import (
	"encoding/base64"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"logistics_roi/pkg/core/roi"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "report").Logger()

// Report is a rendered PDF ready for download.
type Report struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	PDFBase64 string `json:"pdf_base64"`
}

// Generate renders the PDF for result and base64-encodes it.
func Generate(input roi.Input, result roi.Result) (*Report, error) {
	data, err := PDF(input, result)
	if err != nil {
		return nil, err
	}

	rep := &Report{
		ID:        uuid.New().String(),
		Filename:  Filename(input.CompanyName),
		PDFBase64: base64.StdEncoding.EncodeToString(data),
	}
	logger.Info().Str("report_id", rep.ID).Str("filename", rep.Filename).Int("bytes", len(data)).Msg("[REPORT] PDF generated")
	return rep, nil
}
