package fetcher

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/ytanne/goipwatch/pkg/models"
)

var (
	ErrNetwork = fmt.Errorf("failed to reach source")
	ErrArchive = fmt.Errorf("failed to read archive")
	ErrParse   = fmt.Errorf("failed to parse json")
	ErrSchema  = fmt.Errorf("unexpected json shape")
)

const userAgent = "goipwatch/1.0"

type fetcher struct {
	url    string
	entry  string
	client *http.Client
}

// NewFetcher fetches the provider bundle at url and extracts the
// named archive entry. A single attempt per call, no retries.
func NewFetcher(url, entry string) *fetcher {
	return &fetcher{
		url:    url,
		entry:  entry,
		client: http.DefaultClient,
	}
}

// Fetch downloads the bundle and returns the flattened list of
// (address, domain) observations it publishes.
func (f *fetcher) Fetch(ctx context.Context) ([]models.Observation, error) {
	archived, err := f.download(ctx)
	if err != nil {
		return nil, err
	}

	data, err := readEntry(archived, f.entry)
	if err != nil {
		return nil, err
	}

	resolve, err := parseResolve(data)
	if err != nil {
		return nil, err
	}

	return Flatten(resolve), nil
}

func (f *fetcher) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w - %s", ErrNetwork, err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w - %s", ErrNetwork, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w - unexpected status %d from %s", ErrNetwork, resp.StatusCode, f.url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w - %s", ErrNetwork, err)
	}

	return body, nil
}

func readEntry(archived []byte, entry string) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(archived), int64(len(archived)))
	if err != nil {
		return nil, fmt.Errorf("%w - %s", ErrArchive, err)
	}

	file, err := reader.Open(entry)
	if err != nil {
		return nil, fmt.Errorf("%w - no %s entry", ErrArchive, entry)
	}

	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w - %s", ErrArchive, err)
	}

	return data, nil
}

func parseResolve(data []byte) (map[string][]string, error) {
	var raw json.RawMessage

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w - %s", ErrParse, err)
	}

	var top map[string]json.RawMessage

	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("%w - top level is not an object", ErrSchema)
	}

	entry, ok := top["resolve"]
	if !ok {
		return nil, fmt.Errorf("%w - no resolve key", ErrSchema)
	}

	// json.Unmarshal leaves the map untouched on an explicit null,
	// which must not look like an empty mapping.
	if string(entry) == "null" {
		return nil, fmt.Errorf("%w - resolve is null", ErrSchema)
	}

	resolve := make(map[string][]string)
	if err := json.Unmarshal(entry, &resolve); err != nil {
		return nil, fmt.Errorf("%w - resolve is not a domain to address list mapping", ErrSchema)
	}

	return resolve, nil
}

// Flatten turns the domain to address-list mapping into one
// observation per (address, domain) pair. Domains are walked in
// sorted order so repeated runs produce the same sequence; addresses
// listed under several domains appear once per domain.
func Flatten(resolve map[string][]string) []models.Observation {
	domains := make([]string, 0, len(resolve))
	for domain := range resolve {
		domains = append(domains, domain)
	}

	sort.Strings(domains)

	var observations []models.Observation

	for _, domain := range domains {
		for _, ip := range resolve[domain] {
			observations = append(observations, models.Observation{
				IP:     ip,
				Domain: domain,
			})
		}
	}

	return observations
}
