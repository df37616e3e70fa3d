package bom

import (
	"io"
	"runtime/debug"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/google/uuid"
)

// PropertyLocation is a BOM level property naming the host:port or file the
// certificates were read from.
const PropertyLocation = "sslshow:location"

// Builder collects certificate components and BOM level properties for a
// single sslshow run.
type Builder struct {
	components []cdx.Component
	properties []cdx.Property
	now        func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

func (b *Builder) AppendComponents(components ...cdx.Component) *Builder {
	b.components = append(b.components, components...)
	return b
}

func (b *Builder) AppendProperties(properties ...cdx.Property) *Builder {
	b.properties = append(b.properties, properties...)
	return b
}

// BOM returns a CycloneDX 1.6 document describing sslshow as the producing
// tool. Every call gets a fresh serial number.
func (b *Builder) BOM() cdx.BOM {
	// the schema rejects null arrays
	components := append([]cdx.Component{}, b.components...)
	properties := append([]cdx.Property{}, b.properties...)

	bom := cdx.NewBOM()
	bom.JSONSchema = "https://cyclonedx.org/schema/bom-1.6.schema.json"
	bom.SpecVersion = cdx.SpecVersion1_6
	bom.SerialNumber = uuid.New().URN()
	bom.Metadata = &cdx.Metadata{
		Timestamp:  b.now().UTC().Format(time.RFC3339),
		Lifecycles: &[]cdx.Lifecycle{{Phase: cdx.LifecyclePhaseOperations}},
		// a nil tool component fails the JSON encoder
		Component: &cdx.Component{
			Type:    cdx.ComponentTypeApplication,
			Name:    "sslshow",
			Version: toolVersion(),
		},
	}
	bom.Components = &components
	bom.Properties = &properties
	return *bom
}

// AsJSON writes the indented JSON form of the BOM to w.
func (b *Builder) AsJSON(w io.Writer) error {
	bom := b.BOM()
	return cdx.NewBOMEncoder(w, cdx.BOMFileFormatJSON).SetPretty(true).Encode(&bom)
}

func toolVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.Main.Version
	}
	return "unknown"
}
