package engagement

import (
	"strconv"

	"github.com/go-gota/gota/series"

	"github.com/ezoic/adengage/dataset"
	scigoErrors "github.com/ezoic/adengage/pkg/errors"
	"github.com/ezoic/adengage/pkg/log"
)

// gota stores this record as a missing element in both string and int series.
const missingRecord = "NaN"

// Report summarises one Normalize call.
type Report struct {
	Rows int
	// MissingBefore counts cells that were already missing on input.
	MissingBefore int
	// Blank counts cells that became missing because only whitespace was left.
	Blank int
	// Unmapped holds values outside the enumeration; their rows become missing.
	Unmapped []*scigoErrors.MappingError
	// MissingAfter counts missing scores in the output.
	MissingAfter int
	// Counts holds the number of rows per level.
	Counts map[Level]int
}

// Normalize returns a copy of t whose engagement column is trimmed and
// title-cased, with an added integer score column. The input is not modified.
//
// Values outside {None, Low, Medium, High} after cleaning are reported as
// MappingErrors and stored as missing. Normalize is idempotent.
func Normalize(t *dataset.Table) (_ *dataset.Table, _ *Report, err error) {
	defer scigoErrors.Recover(&err, "engagement.Normalize")
	logger := log.GetLoggerWithName("engagement")

	raw, missing, err := t.Strings(dataset.EngagementColumn)
	if err != nil {
		return nil, nil, err
	}

	rep := &Report{Rows: len(raw), Counts: make(map[Level]int)}
	text := make([]string, len(raw))
	scores := make([]string, len(raw))

	for i, v := range raw {
		if missing[i] {
			rep.MissingBefore++
			text[i], scores[i] = missingRecord, missingRecord
			continue
		}
		cleaned, ok := Clean(v)
		if !ok {
			rep.Blank++
			text[i], scores[i] = missingRecord, missingRecord
			continue
		}
		level, perr := ParseLevel(cleaned)
		if perr != nil {
			rep.Unmapped = append(rep.Unmapped, scigoErrors.NewMappingError(i, v))
			text[i], scores[i] = missingRecord, missingRecord
			continue
		}
		rep.Counts[level]++
		text[i] = level.String()
		scores[i] = strconv.Itoa(level.Score())
	}
	rep.MissingAfter = rep.MissingBefore + rep.Blank + len(rep.Unmapped)

	out, err := t.WithColumn(series.New(text, series.String, dataset.EngagementColumn))
	if err != nil {
		return nil, nil, err
	}
	out, err = out.WithColumn(series.New(scores, series.Int, dataset.ScoreColumn))
	if err != nil {
		return nil, nil, err
	}

	for _, me := range rep.Unmapped {
		logger.Debug("Unmapped engagement value", "row", me.Row, "value", me.Value)
	}
	logger.Info("Engagement normalized",
		log.OperationKey, log.OperationNormalize,
		log.PhaseKey, log.PhaseCleaning,
		log.RowsKey, rep.Rows,
		log.MissingKey, rep.MissingAfter,
		"unmapped", len(rep.Unmapped),
	)
	return out, rep, nil
}

// Scores returns the score column of a normalized table as Levels with a
// missing mask.
func Scores(t *dataset.Table) ([]Level, []bool, error) {
	ints, missing, err := t.Ints(dataset.ScoreColumn)
	if err != nil {
		return nil, nil, err
	}
	levels := make([]Level, len(ints))
	for i, v := range ints {
		if missing[i] {
			continue
		}
		levels[i] = Level(v)
		if !levels[i].Valid() {
			return nil, nil, scigoErrors.NewValidationError(dataset.ScoreColumn, "score out of range", v)
		}
	}
	return levels, missing, nil
}
