// Package aggregate filters the normalized table by device and computes the
// average engagement score per device.
package aggregate

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ezoic/adengage/dataset"
	"github.com/ezoic/adengage/engagement"
	scigoErrors "github.com/ezoic/adengage/pkg/errors"
	"github.com/ezoic/adengage/pkg/log"
)

// DefaultDevice is the device category the hypothesis is about.
const DefaultDevice = "Smartphone"

// DeviceMean is the average engagement score of one device category.
type DeviceMean struct {
	Device string
	Mean   float64
	// Count is the number of non-missing scores averaged.
	Count int
}

// DeviceMeans is ordered by Mean, highest first.
type DeviceMeans []DeviceMean

// Labels returns the device names in order.
func (m DeviceMeans) Labels() []string {
	out := make([]string, len(m))
	for i, dm := range m {
		out[i] = dm.Device
	}
	return out
}

// Values returns the means in order.
func (m DeviceMeans) Values() []float64 {
	out := make([]float64, len(m))
	for i, dm := range m {
		out[i] = dm.Mean
	}
	return out
}

// Lookup returns the entry for device.
func (m DeviceMeans) Lookup(device string) (DeviceMean, bool) {
	for _, dm := range m {
		if dm.Device == device {
			return dm, true
		}
	}
	return DeviceMean{}, false
}

// FilterDevice returns the rows whose device equals device exactly.
// Rows with a missing device never match.
func FilterDevice(t *dataset.Table, device string) (*dataset.Table, error) {
	devices, missing, err := t.Strings(dataset.DeviceColumn)
	if err != nil {
		return nil, err
	}
	var rows []int
	for i, d := range devices {
		if !missing[i] && d == device {
			rows = append(rows, i)
		}
	}

	log.GetLoggerWithName("aggregate").Debug("Rows filtered",
		log.OperationKey, log.OperationFilter,
		log.DeviceKey, device,
		log.RowsKey, len(rows),
	)
	return t.Subset(rows)
}

// ByDevice groups a normalized table by device and averages the engagement
// score of each group, ignoring missing scores. Groups without any score are
// left out. The result is sorted by mean, descending; equal means keep the
// order in which the devices first appear.
func ByDevice(t *dataset.Table) (_ DeviceMeans, err error) {
	defer scigoErrors.Recover(&err, "aggregate.ByDevice")

	devices, deviceMissing, err := t.Strings(dataset.DeviceColumn)
	if err != nil {
		return nil, err
	}
	scores, scoreMissing, err := engagement.Scores(t)
	if err != nil {
		return nil, err
	}

	var order []string
	groups := make(map[string][]float64)
	for i, d := range devices {
		if deviceMissing[i] {
			continue
		}
		if _, seen := groups[d]; !seen {
			order = append(order, d)
			groups[d] = nil
		}
		if !scoreMissing[i] {
			groups[d] = append(groups[d], float64(scores[i].Score()))
		}
	}

	means := make(DeviceMeans, 0, len(order))
	for _, d := range order {
		vals := groups[d]
		if len(vals) == 0 {
			continue
		}
		means = append(means, DeviceMean{Device: d, Mean: stat.Mean(vals, nil), Count: len(vals)})
	}
	sort.SliceStable(means, func(i, j int) bool {
		return means[i].Mean > means[j].Mean
	})

	log.GetLoggerWithName("aggregate").Info("Aggregation completed",
		log.OperationKey, log.OperationAggregate,
		log.PhaseKey, log.PhaseAnalysis,
		log.RowsKey, t.Nrow(),
		log.GroupsKey, len(means),
	)
	return means, nil
}
