package export

import (
	"encoding/csv"
	"os"
	"sort"

	"github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/places"

	"github.com/rs/zerolog/log"
)

// utf8BOM lets spreadsheet applications detect the encoding of files that
// carry multilingual place names.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV flattens the records and writes them as a UTF-8 CSV file with a
// BOM. The header is the sorted union of all flattened keys, so column
// layout is deterministic regardless of which record carries which fields.
func WriteCSV(path string, records []places.Place) error {
	if len(records) == 0 {
		log.Warn().Str("path", path).Msg("No records to export, skipping CSV")
		return nil
	}

	flat := make([]map[string]string, len(records))
	keySet := make(map[string]struct{})
	for i, rec := range records {
		flat[i] = Flatten(rec)
		for k := range flat[i] {
			keySet[k] = struct{}{}
		}
	}

	header := make([]string, 0, len(keySet))
	for k := range keySet {
		header = append(header, k)
	}
	sort.Strings(header)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	if _, err := f.Write(utf8BOM); err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for _, rec := range flat {
		for i, k := range header {
			row[i] = rec[k]
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	log.Info().Str("path", path).Int("rows", len(flat)).Msg("CSV export written")
	return nil
}
