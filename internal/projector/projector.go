// Package projector remaps extracted input rows into output-schema-shaped
// rows by applying the compiled column mappings in configuration order.
package projector

import (
	"rehub/dealsub/internal/logging"
	"rehub/dealsub/internal/models"
	"rehub/dealsub/internal/transform"
)

// ZoneColumn is the output column populated from the zone selection string
// instead of an input column.
const ZoneColumn = "Ad Zone Id"

// Stats summarizes the mapping configuration for the rendered summaries.
type Stats struct {
	// Direct counts mappings that draw from an input column.
	Direct int
	// Derived counts mappings without an input column.
	Derived int
	// Transformations counts mappings carrying a non-identity rule.
	Transformations int
}

// Projector projects extracted rows into the output schema.
type Projector struct {
	schema   []string
	inSchema map[string]struct{}
	mappings []models.ColumnMapping
	logger   logging.Logger
}

// New builds a projector for one schema and one mapping sheet.
func New(schema []string, mappings []models.ColumnMapping, logger logging.Logger) *Projector {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	inSchema := make(map[string]struct{}, len(schema))
	for _, col := range schema {
		inSchema[col] = struct{}{}
	}
	return &Projector{
		schema:   schema,
		inSchema: inSchema,
		mappings: mappings,
		logger:   logger,
	}
}

// Project builds one output row per extracted row. Every schema column is
// present, defaulting to the empty string. Mappings apply in configuration
// order, so a later mapping targeting the same output column overwrites an
// earlier one. A mapping whose input column is absent from a row leaves the
// default in place; a mapping targeting a column outside the schema is
// dropped silently. The zone column is always assigned the zone selection,
// overriding any rule configured for it.
func (p *Projector) Project(rows []models.ExtractedRow, zone string) []models.OutputRow {
	output := make([]models.OutputRow, 0, len(rows))

	for _, in := range rows {
		out := make(models.OutputRow, len(p.schema))
		for _, col := range p.schema {
			out[col] = ""
		}

		for _, m := range p.mappings {
			if m.OutputColumn == ZoneColumn {
				out[ZoneColumn] = zone
				continue
			}
			if !m.IsDirect() {
				continue
			}
			value, ok := in[m.InputColumn]
			if !ok {
				continue
			}
			if _, ok := p.inSchema[m.OutputColumn]; !ok {
				continue
			}
			out[m.OutputColumn] = m.Rule.Apply(value)
		}

		output = append(output, out)
	}

	p.logger.Info("Projected rows into output schema",
		logging.Field{Key: logging.FieldCount, Value: len(output)})
	return output
}

// Stats reports how the configured mappings break down.
func (p *Projector) Stats() Stats {
	var s Stats
	for _, m := range p.mappings {
		if m.IsDirect() {
			s.Direct++
		} else {
			s.Derived++
		}
		if m.Rule.Kind != transform.KindNone {
			s.Transformations++
		}
	}
	return s
}
