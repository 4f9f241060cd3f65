package smhi

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/askvader/api/internal/domain"
)

// ParseCSV extracts observation rows from an SMHI corrected-archive CSV.
// The file opens with a station metadata block of varying length; the
// observations start after the first line beginning with "Datum;Tid".
// Rows keep date, time, value and quality flag. Rows with an empty date
// or a value that does not parse as a number are dropped.
func ParseCSV(text string) []domain.Row {
	data := ""
	if strings.HasPrefix(text, "Datum;Tid") {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			data = text[i+1:]
		}
	} else if i := strings.Index(text, "\nDatum;Tid"); i >= 0 {
		rest := text[i+1:]
		if j := strings.IndexByte(rest, '\n'); j >= 0 {
			data = rest[j+1:]
		}
	}
	if data == "" {
		return nil
	}

	r := csv.NewReader(strings.NewReader(data))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows []domain.Row
	for {
		record, err := r.Read()
		if err != nil {
			break
		}
		if len(record) < 4 {
			continue
		}
		date := strings.TrimSpace(record[0])
		rawValue := strings.TrimSpace(record[2])
		if date == "" || rawValue == "" {
			continue
		}
		value, err := strconv.ParseFloat(rawValue, 64)
		if err != nil {
			continue
		}
		rows = append(rows, domain.Row{
			Date:    date,
			Time:    strings.TrimSpace(record[1]),
			Value:   value,
			Quality: strings.TrimSpace(record[3]),
		})
	}
	return rows
}
