package flights

import (
	"slices"
)

// Dataset is an immutable collection of flight records indexed by year.
// It is built once and can be shared by any number of readers without locking.
type Dataset struct {
	records []Record
	byYear  map[int][]int
	years   []int
}

// NewDataset copies records into a new Dataset and indexes them by year.
func NewDataset(records []Record) *Dataset {
	ds := &Dataset{
		records: slices.Clone(records),
		byYear:  make(map[int][]int),
	}

	for i := range ds.records {
		year := ds.records[i].Year
		if _, seen := ds.byYear[year]; !seen {
			ds.years = append(ds.years, year)
		}

		ds.byYear[year] = append(ds.byYear[year], i)
	}

	slices.Sort(ds.years)

	return ds
}

// Len returns the total number of records.
func (ds *Dataset) Len() int {
	if ds == nil {
		return 0
	}

	return len(ds.records)
}

// Years returns the sorted distinct years present in the dataset.
func (ds *Dataset) Years() []int {
	if ds == nil {
		return nil
	}

	return slices.Clone(ds.years)
}

// HasYear reports whether at least one record belongs to year.
func (ds *Dataset) HasYear(year int) bool {
	if ds == nil {
		return false
	}

	_, ok := ds.byYear[year]

	return ok
}

// FilterYear returns the records of the given year in dataset order.
// A year with no records yields an empty slice, not an error.
// The returned slice is a copy; callers may keep or modify it.
func (ds *Dataset) FilterYear(year int) []Record {
	if ds == nil {
		return []Record{}
	}

	idx := ds.byYear[year]
	out := make([]Record, 0, len(idx))

	for _, i := range idx {
		out = append(out, ds.records[i])
	}

	return out
}

// All returns a copy of every record in dataset order.
func (ds *Dataset) All() []Record {
	if ds == nil {
		return nil
	}

	return slices.Clone(ds.records)
}
