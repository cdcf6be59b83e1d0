package dataset

import (
	"io"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	scigoErrors "github.com/ezoic/adengage/pkg/errors"
	"github.com/ezoic/adengage/pkg/log"
)

// DefaultPath is the dataset file read when no path is configured.
const DefaultPath = "Ecommerce_Consumer_Behavior_Analysis_Data.csv"

// MissingTokens are the cell values loaded as missing. "None" is intentionally
// absent: it is a valid engagement category, not a blank.
var MissingTokens = []string{"", "NA", "N/A", "n/a", "NaN", "nan", "NULL", "null", "#N/A", "<NA>", "<nil>"}

type loadConfig struct {
	delimiter    rune
	extraMissing []string
	required     []string
}

// LoadOption configures Load and Read.
type LoadOption func(*loadConfig)

// WithDelimiter sets the field delimiter (default ',').
func WithDelimiter(d rune) LoadOption {
	return func(c *loadConfig) {
		c.delimiter = d
	}
}

// WithMissingTokens adds values that load as missing.
func WithMissingTokens(tokens ...string) LoadOption {
	return func(c *loadConfig) {
		c.extraMissing = append(c.extraMissing, tokens...)
	}
}

// WithRequiredColumns replaces the columns that must be present.
func WithRequiredColumns(names ...string) LoadOption {
	return func(c *loadConfig) {
		c.required = names
	}
}

func newLoadConfig(opts []LoadOption) *loadConfig {
	cfg := &loadConfig{
		delimiter: ',',
		required:  []string{DeviceColumn, EngagementColumn},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *loadConfig) gotaOptions() []dataframe.LoadOption {
	missing := append(append([]string{}, MissingTokens...), c.extraMissing...)
	return []dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithDelimiter(c.delimiter),
		dataframe.NaNValues(missing),
		dataframe.WithTypes(map[string]series.Type{
			DeviceColumn:     series.String,
			EngagementColumn: series.String,
		}),
	}
}

// Load reads a delimited file into a Table. Any failure is returned as a *errors.LoadError.
func Load(path string, opts ...LoadOption) (_ *Table, err error) {
	defer scigoErrors.Recover(&err, "dataset.Load")
	logger := log.GetLoggerWithName("dataset")
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, scigoErrors.NewLoadError(path, err)
	}
	defer func() { _ = f.Close() }()

	t, err := read(f, newLoadConfig(opts))
	if err != nil {
		return nil, scigoErrors.NewLoadError(path, err)
	}

	logger.Info("Dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.PhaseKey, log.PhaseIngest,
		log.PathKey, path,
		log.RowsKey, t.Nrow(),
		log.ColumnsKey, t.Ncol(),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return t, nil
}

// Read parses delimited data from r. Errors are returned as a *errors.LoadError
// with an empty path.
func Read(r io.Reader, opts ...LoadOption) (_ *Table, err error) {
	defer scigoErrors.Recover(&err, "dataset.Read")
	t, err := read(r, newLoadConfig(opts))
	if err != nil {
		return nil, scigoErrors.NewLoadError("", err)
	}
	return t, nil
}

// FromRecords builds a Table from a header row followed by data rows, applying
// the same missing-value and typing rules as Load.
func FromRecords(records [][]string, opts ...LoadOption) (*Table, error) {
	cfg := newLoadConfig(opts)
	if len(records) < 2 {
		return nil, scigoErrors.NewLoadError("", scigoErrors.ErrEmptyData)
	}
	df := dataframe.LoadRecords(records, cfg.gotaOptions()...)
	return finish(df, cfg)
}

func read(r io.Reader, cfg *loadConfig) (*Table, error) {
	df := dataframe.ReadCSV(r, cfg.gotaOptions()...)
	return finish(df, cfg)
}

func finish(df dataframe.DataFrame, cfg *loadConfig) (*Table, error) {
	if df.Err != nil {
		return nil, scigoErrors.Wrap(df.Err, "parse delimited data")
	}
	if df.Nrow() == 0 {
		return nil, scigoErrors.ErrEmptyData
	}
	t := &Table{df: df}
	if err := t.RequireColumns(cfg.required...); err != nil {
		return nil, err
	}
	return t, nil
}
