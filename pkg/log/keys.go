package log

// Structured field keys.
const (
	NameKey       = "logger"
	ComponentKey  = "component"
	ModelNameKey  = "model"
	OperationKey  = "operation"
	PhaseKey      = "phase"
	SamplesKey    = "samples"
	FeaturesKey   = "features"
	PredsKey      = "predictions"
	DurationMsKey = "duration_ms"
	PathKey       = "path"
	RowsKey       = "rows"
	ColumnsKey    = "columns"
	MissingKey    = "missing"
	GroupsKey     = "groups"
	DeviceKey     = "device"
	StepKey       = "step"
	RunIDKey      = "run_id"
	SeedKey       = "seed"
	AccuracyKey   = "accuracy"
	IterationsKey = "iterations"
	ErrorKey      = "error"
)

// Operation values.
const (
	OperationLoad      = "load"
	OperationNormalize = "normalize"
	OperationFilter    = "filter"
	OperationAggregate = "aggregate"
	OperationRender    = "render"
	OperationPrepare   = "prepare"
	OperationSplit     = "split"
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationEvaluate  = "evaluate"
)

// Phase values.
const (
	PhaseIngest     = "ingest"
	PhaseCleaning   = "cleaning"
	PhaseAnalysis   = "analysis"
	PhaseTraining   = "training"
	PhaseInference  = "inference"
	PhaseEvaluation = "evaluation"
)
