package putfile

import "github.com/banshee-data/putxform/internal/replicate"

// Member dataset names inside a field group.
const (
	DataName        = "data"
	VecSizeName     = "vec_size"
	IsStatName      = "is_stat"
	IntervalSetName = "Interval Set"
)

// FieldSpec is one row of a known-field table.
type FieldSpec struct {
	Name     string
	Kind     replicate.Kind
	Required bool
}

// DefaultFields is the field table for a primary put file.
var DefaultFields = []FieldSpec{
	{Name: "position", Kind: replicate.Vector, Required: true},
	{Name: "velocity", Kind: replicate.Vector, Required: true},
	{Name: "temperature", Kind: replicate.Scalar, Required: true},
	{Name: "tke", Kind: replicate.Scalar},
	{Name: "mixture_fractions", Kind: replicate.Scalar},
}

// DefaultCompanionFields is the reduced field table for the companion file.
var DefaultCompanionFields = []FieldSpec{
	{Name: "position", Kind: replicate.Vector, Required: true},
	{Name: "eddy_viscosity", Kind: replicate.Scalar},
}

// DefaultPassThrough lists groups copied verbatim into every output.
var DefaultPassThrough = []string{
	"ambient_pressure",
	"species_names",
	"turbulence_model",
}

// PassThroughMembers are the field members copied without change.
var PassThroughMembers = []string{VecSizeName, IsStatName}
