package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/spec-kit/solar-ticketing/internal/domain"
)

var csvHeader = []string{
	"Created Date",
	"Ticket Number",
	"Site Name",
	"Equipment",
	"Category",
	"Description",
	"Priority",
	"Site Outage",
	"Status",
	"Requestor",
}

const exportDateLayout = "2006-01-02"

// WriteCSV serializes tickets to a UTF-8 CSV document, one row per
// ticket, with standard double-quote escaping.
func WriteCSV(tickets []domain.Ticket) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for i := range tickets {
		t := &tickets[i]
		row := []string{
			t.CreatedAt.Format(exportDateLayout),
			t.TicketNumber,
			t.SiteName,
			t.Equipment,
			string(t.Category),
			t.Description,
			string(t.Priority),
			string(t.SiteOutage),
			string(t.DisplayStatus()),
			requestor(t),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFilename builds tickets_export[_<start>][_to_<end>]_<today>.csv
// from the active date-range filter.
func ExportFilename(from, to *time.Time, today time.Time) string {
	name := "tickets_export"
	if from != nil {
		name += "_" + from.Format(exportDateLayout)
	}
	if to != nil {
		name += "_to_" + to.Format(exportDateLayout)
	}
	return name + "_" + today.Format(exportDateLayout) + ".csv"
}

func requestor(t *domain.Ticket) string {
	if t.CreatorName != "" {
		return t.CreatorName
	}
	if t.CreatorEmail != "" {
		return t.CreatorEmail
	}
	return t.OwnerID
}
