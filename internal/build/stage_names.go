package build

// StageName is a strongly-typed identifier for a build stage. All canonical
// stages are declared as constants here for compile-time safety.
type StageName string

// Canonical stage names, in execution order.
const (
	StageResetOutput       StageName = "reset_output"
	StageLoadConfig        StageName = "load_config"
	StageCopyStatic        StageName = "copy_static"
	StageConvertContent    StageName = "convert_content"
	StageAggregateListings StageName = "aggregate_listings"
	StageRenderPages       StageName = "render_pages"
	StageWriteExtras       StageName = "write_extras"
)

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// defaultStages is the full pipeline run by Pipeline.Run.
func defaultStages() []StageDef {
	return []StageDef{
		{StageResetOutput, stageResetOutput},
		{StageLoadConfig, stageLoadConfig},
		{StageCopyStatic, stageCopyStatic},
		{StageConvertContent, stageConvertContent},
		{StageAggregateListings, stageAggregateListings},
		{StageRenderPages, stageRenderPages},
		{StageWriteExtras, stageWriteExtras},
	}
}
