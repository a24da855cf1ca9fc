package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
	"github.com/ytanne/goipwatch/pkg/models"
)

func TestLoadMissingFile(t *testing.T) {
	r := NewCSVRepo(filepath.Join(t.TempDir(), "missing.csv"))

	records, err := r.Load()
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	r := NewCSVRepo(filepath.Join(t.TempDir(), "ips.csv"))

	records := map[string]models.Record{
		"1.2.3.4":  {Domain: "a.example.com", FirstSeen: "2024-03-01 10:00:00", LastSeen: "2024-03-02 10:00:00"},
		"10.0.0.1": {Domain: "b.example.com", FirstSeen: "2024-03-02 10:00:00", LastSeen: "2024-03-02 10:00:00"},
	}

	require.NoError(t, r.Save(records))

	loaded, err := r.Load()
	require.NoError(t, err)
	require.Equal(t, records, loaded)
}

func TestSaveOverwritesPreviousContent(t *testing.T) {
	r := NewCSVRepo(filepath.Join(t.TempDir(), "ips.csv"))

	require.NoError(t, r.Save(map[string]models.Record{
		"1.2.3.4": {Domain: "a.example.com", FirstSeen: "2024-03-01 10:00:00", LastSeen: "2024-03-01 10:00:00"},
		"5.6.7.8": {Domain: "b.example.com", FirstSeen: "2024-03-01 10:00:00", LastSeen: "2024-03-01 10:00:00"},
	}))

	require.NoError(t, r.Save(map[string]models.Record{
		"1.2.3.4": {Domain: "a.example.com", FirstSeen: "2024-03-01 10:00:00", LastSeen: "2024-03-02 10:00:00"},
	}))

	loaded, err := r.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
}

func TestLoadCorruptFile(t *testing.T) {
	tss := []struct {
		description string
		content     string
	}{
		{
			description: "unexpected header",
			content:     "address,domain,first,last\n",
		},
		{
			description: "short row",
			content:     "ip_address,domain,first_seen,last_seen\n1.2.3.4,a.example.com\n",
		},
		{
			description: "long row",
			content:     "ip_address,domain,first_seen,last_seen\n1.2.3.4,a.example.com,2024-03-01 10:00:00,2024-03-01 10:00:00,extra\n",
		},
		{
			description: "empty file",
			content:     "",
		},
		{
			description: "bad quoting mid file",
			content: "ip_address,domain,first_seen,last_seen\n" +
				"1.2.3.4,a.example.com,2024-03-01 10:00:00,2024-03-01 10:00:00\n" +
				"\"5.6.7.8,b.example.com,2024-03-01 10:00:00,2024-03-01 10:00:00\n" +
				"9.9.9.9,c.example.com,2024-03-01 10:00:00,2024-03-01 10:00:00\n",
		},
	}

	for _, ts := range tss {
		t.Run(ts.description, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ips.csv")
			require.NoError(t, os.WriteFile(path, []byte(ts.content), 0o644))

			_, err := NewCSVRepo(path).Load()
			require.ErrorIs(t, err, ErrCorruptStore)
		})
	}
}

func TestSaveGolden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ips.csv")

	records := map[string]models.Record{
		"185.156.46.10": {Domain: "nl.secureconnect.me", FirstSeen: "2024-03-01 10:00:00", LastSeen: "2024-03-02 10:00:00"},
		"37.120.244.6":  {Domain: "de.secureconnect.me", FirstSeen: "2024-03-02 10:00:00", LastSeen: "2024-03-02 10:00:00"},
		"89.45.90.3":    {Domain: "se.secureconnect.me", FirstSeen: "2024-03-01 10:00:00", LastSeen: "2024-03-01 10:00:00"},
	}

	require.NoError(t, NewCSVRepo(path).Save(records))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithNameSuffix(".golden"))
	g.Assert(t, "save", content)
}
