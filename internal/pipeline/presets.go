package pipeline

// Preset is a full option bundle, normative per spec §6 ("Values are
// listed in the reference preset table").
type Preset struct {
	NumColors      int
	ColorTolerance float64
	PathTolerance  float64
	Smoothness     int
	MinPathLength  int
	Mode           string // "spline" or "polygon"
	BinaryMode     bool
	BlurSigma      float64
	Morphology     bool
	ContourMethod  string // "marching", "vtracer", "hybrid"
	DilatePixels   int
	LogoLike       bool
	AngleThreshold float64 // degrees, corner detector

	NearestUpscale   bool   // nearest-neighbor upscale instead of bilinear
	SkipDenoise      bool   // pixel preset preserves checkerboards verbatim
	NoiseFloorMode   string // "pixel", "logo", "default"
	FragDropEligible bool   // logo/lineart fragmented-layer drop
	SkipGlobalFilter bool   // pixel preset skips the global small-layer filter
	GapFill          bool   // emit a same-color 1px round-join stroke per path
}

// Presets is the normative reference preset table (spec §6).
var Presets = map[string]Preset{
	"lineart": {
		NumColors:        2,
		ColorTolerance:   25,
		PathTolerance:    1.0,
		Smoothness:       1,
		MinPathLength:    4,
		Mode:             "spline",
		BinaryMode:       true,
		BlurSigma:        0.6,
		Morphology:       true,
		ContourMethod:    "marching",
		LogoLike:         false,
		AngleThreshold:   140,
		NoiseFloorMode:   "default",
		FragDropEligible: true,
		GapFill:          true,
	},
	"logo": {
		NumColors:        8,
		ColorTolerance:   30,
		PathTolerance:    1.2,
		Smoothness:       2,
		MinPathLength:    4,
		Mode:             "spline",
		BinaryMode:       false,
		BlurSigma:        0.5,
		Morphology:       false,
		ContourMethod:    "marching",
		LogoLike:         true,
		AngleThreshold:   130,
		NoiseFloorMode:   "logo",
		FragDropEligible: true,
		GapFill:          true,
	},
	"illustration": {
		NumColors:      16,
		ColorTolerance: 25,
		PathTolerance:  1.0,
		Smoothness:     2,
		MinPathLength:  6,
		Mode:           "spline",
		BinaryMode:     false,
		BlurSigma:      0.7,
		Morphology:     false,
		ContourMethod:  "marching",
		LogoLike:       false,
		AngleThreshold: 130,
		NoiseFloorMode: "default",
		GapFill:        true,
	},
	"photo": {
		NumColors:      24,
		ColorTolerance: 20,
		PathTolerance:  1.5,
		Smoothness:     3,
		MinPathLength:  8,
		Mode:           "spline",
		BinaryMode:     false,
		BlurSigma:      1.2,
		Morphology:     false,
		ContourMethod:  "marching",
		LogoLike:       false,
		AngleThreshold: 130,
		NoiseFloorMode: "default",
		GapFill:        true,
	},
	"pixel": {
		NumColors:        32,
		ColorTolerance:   15,
		PathTolerance:    0.75,
		Smoothness:       0,
		MinPathLength:    1,
		Mode:             "polygon",
		BinaryMode:       false,
		BlurSigma:        0,
		Morphology:       false,
		ContourMethod:    "marching",
		LogoLike:         false,
		AngleThreshold:   130,
		NearestUpscale:   true,
		SkipDenoise:      true,
		NoiseFloorMode:   "pixel",
		SkipGlobalFilter: true,
		GapFill:          false,
	},
	"simple": {
		NumColors:        6,
		ColorTolerance:   30,
		PathTolerance:    1.0,
		Smoothness:       1,
		MinPathLength:    4,
		Mode:             "spline",
		BinaryMode:       false,
		BlurSigma:        0.4,
		Morphology:       false,
		ContourMethod:    "marching",
		LogoLike:         true,
		AngleThreshold:   135,
		NoiseFloorMode:   "default",
		FragDropEligible: false,
		GapFill:          true,
	},
}
