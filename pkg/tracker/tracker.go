package tracker

import (
	"time"

	"github.com/ytanne/goipwatch/pkg/models"
)

// Merge folds the observations into records in place and reports how
// many entries were added and how many were refreshed. The timestamp
// is captured once by the caller and stamped on every touched record.
//
// A known address only gets its last_seen moved forward; the stored
// domain and first_seen never change, even when the provider lists
// the address under a different domain. That keeps first_seen an
// honest "first observed" marker at the cost of a stale domain label
// for reassigned addresses.
func Merge(records map[string]models.Record, observations []models.Observation, now time.Time) (added, updated int) {
	stamp := now.Format(models.TimeLayout)

	for _, observation := range observations {
		record, ok := records[observation.IP]
		if ok {
			record.LastSeen = stamp
			records[observation.IP] = record
			updated++

			continue
		}

		records[observation.IP] = models.Record{
			Domain:    observation.Domain,
			FirstSeen: stamp,
			LastSeen:  stamp,
		}
		added++
	}

	return added, updated
}
