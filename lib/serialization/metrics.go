package serialization

import (
	"github.com/VictoriaMetrics/metrics"
)

var (
	serializeTotal    = metrics.NewCounter(`vgraph_serialize_total`)
	serializeErrors   = metrics.NewCounter(`vgraph_serialize_errors_total`)
	deserializeTotal  = metrics.NewCounter(`vgraph_deserialize_total`)
	deserializeErrors = metrics.NewCounter(`vgraph_deserialize_errors_total`)
	bytesWritten      = metrics.NewCounter(`vgraph_bytes_written_total`)
	bytesRead         = metrics.NewCounter(`vgraph_bytes_read_total`)
	arenaElements     = metrics.NewHistogram(`vgraph_arena_elements`)
)
