package stream

import "encoding/json"
import "os"

import "github.com/sirgallo/flow/pkg/record"


//=========================================== Exporters


/*
	a bulk sink receives batches of exported records, e.g. an indexing or
	analytics backend
*/

type BulkSink interface {
	Bulk(batch []*ExportedRecord) error
}

type ExportedRecord struct {
	Position int64          `json:"position"`
	Record   *record.Record `json:"record"`
}

/*
	Bulk Exporter
		buffers exported records and flushes to the sink once the batch size is
		reached. a failed flush keeps the batch buffered so the next export
		retries it, records are never dropped on sink failure
*/

type BulkExporter struct {
	sink     BulkSink
	bulkSize int

	buffer []*ExportedRecord
}

func NewBulkExporter(sink BulkSink, bulkSize int) *BulkExporter {
	return &BulkExporter{
		sink: sink,
		bulkSize: bulkSize,
		buffer: make([]*ExportedRecord, 0, bulkSize),
	}
}

func (exporter *BulkExporter) Export(position int64, rec *record.Record) error {
	exporter.buffer = append(exporter.buffer, &ExportedRecord{ Position: position, Record: rec })

	if len(exporter.buffer) < exporter.bulkSize { return nil }
	return exporter.Flush()
}

func (exporter *BulkExporter) Flush() error {
	if len(exporter.buffer) == 0 { return nil }

	flushErr := exporter.sink.Bulk(exporter.buffer)
	if flushErr != nil { return flushErr }

	exporter.buffer = exporter.buffer[:0]
	return nil
}

func (exporter *BulkExporter) Buffered() int {
	return len(exporter.buffer)
}

/*
	File Sink
		append only json lines sink, one exported record per line. positions are
		part of each line so a consumer can resume from where it left off
*/

type FileSink struct {
	file *os.File
}

func NewFileSink(path string) (*FileSink, error) {
	file, openErr := os.OpenFile(path, os.O_APPEND | os.O_CREATE | os.O_WRONLY, 0644)
	if openErr != nil { return nil, openErr }

	return &FileSink{ file: file }, nil
}

func (sink *FileSink) Bulk(batch []*ExportedRecord) error {
	for _, exported := range batch {
		line, encErr := json.Marshal(exported)
		if encErr != nil { return encErr }

		_, writeErr := sink.file.Write(append(line, '\n'))
		if writeErr != nil { return writeErr }
	}

	return sink.file.Sync()
}

func (sink *FileSink) Close() error {
	return sink.file.Close()
}
