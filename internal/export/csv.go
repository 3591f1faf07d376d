package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/spec-kit/service-requests/internal/domain"
)

// ContentTypeCSV is the media type served for CSV downloads.
const ContentTypeCSV = "text/csv; charset=utf-8"

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, records []domain.Request) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range records {
		if err := cw.Write(Row(records[i])); err != nil {
			return fmt.Errorf("write csv row %d: %w", records[i].ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVFilename names a download after the day it was produced.
func CSVFilename(now time.Time) string {
	return fmt.Sprintf("requests-%s.csv", now.UTC().Format(domain.DateLayout))
}
