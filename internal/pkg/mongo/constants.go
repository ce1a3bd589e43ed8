package mongo

const store = "videoStore"

const (
	transcriptTable = "transcripts"
)

var indexData = []IndexData{
	newIndexData(transcriptTable, "ID", true),
	newIndexData(transcriptTable, "status", false),
}
