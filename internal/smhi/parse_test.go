package smhi

import (
	"math"
	"testing"
)

const sampleCSV = `Stationsnamn;Stationsnummer;Stationsnät;Mäthöjd (meter över marken)
Stockholm A;98230;SMHIs stationsnät;2.0

Parameternamn;Beskrivning;Enhet
Total molnmängd;Hela himlavalvets molntäckning;procent

Datum;Tid (UTC);Total molnmängd;Kvalitet;;Tidsutsnitt: Data från ett urval
2015-06-01;06:00:00;75.0;G;;Kvalitetskoderna markerar
2015-06-01;12:00:00;50.0;Y;;
2015-06-02;06:00:00;25.0;G;;
`

// The metadata block before the Datum;Tid header varies in length and
// must be skipped entirely.
func TestParseCSV_SkipsMetadataBlock(t *testing.T) {
	rows := ParseCSV(sampleCSV)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	first := rows[0]
	if first.Date != "2015-06-01" {
		t.Errorf("expected date 2015-06-01, got %q", first.Date)
	}
	if first.Time != "06:00:00" {
		t.Errorf("expected time 06:00:00, got %q", first.Time)
	}
	if math.Abs(first.Value-75.0) > 1e-9 {
		t.Errorf("expected value 75.0, got %v", first.Value)
	}
	if first.Quality != "G" {
		t.Errorf("expected quality G, got %q", first.Quality)
	}
	if rows[1].Quality != "Y" {
		t.Errorf("expected quality Y, got %q", rows[1].Quality)
	}
}

// Rows with missing dates, missing values or unparsable values are
// dropped. Short rows are ignored.
func TestParseCSV_DropsBadRows(t *testing.T) {
	text := `Datum;Tid (UTC);Värde;Kvalitet
;06:00:00;75.0;G
2015-06-01;06:00:00;;G
2015-06-01;06:00:00;not-a-number;G
2015-06-01;06:00:00
2015-06-02;06:00:00;50.0;G
`
	rows := ParseCSV(text)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Date != "2015-06-02" {
		t.Errorf("expected the valid row to survive, got date %q", rows[0].Date)
	}
}

// A payload without a Datum;Tid header has no data section.
func TestParseCSV_NoHeader(t *testing.T) {
	if rows := ParseCSV("Stationsnamn;Stationsnummer\nStockholm A;98230\n"); len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}

// SMHI serves files with CRLF line endings; fields must come out
// without stray carriage returns.
func TestParseCSV_WindowsLineEndings(t *testing.T) {
	text := "Datum;Tid (UTC);Värde;Kvalitet\r\n2015-06-01;06:00:00;75.0;G\r\n"
	rows := ParseCSV(text)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Quality != "G" {
		t.Errorf("expected quality G, got %q", rows[0].Quality)
	}
}

// An empty payload parses to nothing.
func TestParseCSV_Empty(t *testing.T) {
	if rows := ParseCSV(""); len(rows) != 0 {
		t.Errorf("expected no rows, got %d", len(rows))
	}
}
