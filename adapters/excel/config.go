package excel

// SourceConfig points a FileSource at its two input tables
type SourceConfig struct {
	SchoolFile string `json:"school_file"`
	FrplFile   string `json:"frpl_file"`
	SheetName  string `json:"sheet_name"` // xlsx only; falls back to the first sheet
}
