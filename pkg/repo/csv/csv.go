package repo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/ytanne/goipwatch/pkg/models"
)

var ErrCorruptStore = fmt.Errorf("corrupt record file")

var header = []string{"ip_address", "domain", "first_seen", "last_seen"}

type repo struct {
	path string
}

// NewCSVRepo persists records as a flat CSV table at path. The file
// is created on the first Save, a missing file loads as an empty set.
func NewCSVRepo(path string) *repo {
	return &repo{
		path: path,
	}
}

// Load reads the whole table into a map keyed by address. Any
// malformed row or unexpected header aborts the load.
func (r *repo) Load() (map[string]models.Record, error) {
	file, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]models.Record), nil
		}

		return nil, fmt.Errorf("%w - %s", ErrCorruptStore, err)
	}

	defer file.Close()

	reader := csv.NewReader(file)

	first, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w - missing header row", ErrCorruptStore)
	}

	if !equalRow(first, header) {
		return nil, fmt.Errorf("%w - unexpected header %v", ErrCorruptStore, first)
	}

	records := make(map[string]models.Record)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w - %s", ErrCorruptStore, err)
		}

		records[row[0]] = models.Record{
			Domain:    row[1],
			FirstSeen: row[2],
			LastSeen:  row[3],
		}
	}

	return records, nil
}

// Save overwrites the table with the given record set, one row per
// address in sorted order. The write is not atomic.
func (r *repo) Save(records map[string]models.Record) error {
	file, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", r.path, err)
	}

	writer := csv.NewWriter(file)

	if err := writer.Write(header); err != nil {
		file.Close()

		return fmt.Errorf("failed to write header: %w", err)
	}

	ips := make([]string, 0, len(records))
	for ip := range records {
		ips = append(ips, ip)
	}

	sort.Strings(ips)

	for _, ip := range ips {
		record := records[ip]

		err := writer.Write([]string{ip, record.Domain, record.FirstSeen, record.LastSeen})
		if err != nil {
			file.Close()

			return fmt.Errorf("failed to write row for %s: %w", ip, err)
		}
	}

	writer.Flush()

	if err := writer.Error(); err != nil {
		file.Close()

		return fmt.Errorf("failed to flush %s: %w", r.path, err)
	}

	return file.Close()
}

func equalRow(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
