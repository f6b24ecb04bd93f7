package importer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

const (
	outcomeCreated = "created"
	outcomeSkipped = "skipped"
	outcomeFailed  = "failed"
)

var tracer = otel.Tracer("github.com/inkpress/database/importer")

var entitiesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "inkpress_import_entities_total",
		Help: "WXR entities processed by the importer, by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)

var attachmentBytesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "inkpress_import_attachment_bytes_total",
		Help: "Bytes written to the attachments directory.",
	},
)
