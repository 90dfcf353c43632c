package filterorders

// Raw utterance CSV columns.
const (
	ColumnSpeaker   = "발화자"
	ColumnQA        = "QA여부"
	ColumnUtterance = "발화문"
)

const (
	SpeakerCustomer = "c"
	QAQuestion      = "q"
)

type Input struct{}

type Output struct {
	Sources    []string `json:"sources"`
	TotalRows  int      `json:"totalRows"`
	KeptRows   int      `json:"keptRows"`
	OutputFile string   `json:"outputFile"`
}
