// Package hwaccel resolves a functionally-verified encoder capability and
// supplies CPU or GPU-resident filter variants behind one contract.
package hwaccel

// FilterSet names the geometric filter variants the graph compiler requests.
// The compiler never knows whether the CPU or GPU variant was chosen.
type FilterSet struct {
	Scale   string
	Overlay string
	Crop    string
}

var softwareFilters = FilterSet{Scale: "scale", Overlay: "overlay", Crop: "crop"}

// Profile is one resolved, verified encoder capability.
type Profile struct {
	Name      string
	Codec     string
	HEVCCodec string
	// EncoderFlags are substituted wholesale for the software codec flags
	// when the profile is active.
	EncoderFlags []string
	Filters      FilterSet
}

// Software reports whether this is the CPU fallback profile.
func (p Profile) Software() bool {
	return p.Name == SoftwareProfile.Name
}

// SoftwareProfile always exists as the last fallback.
var SoftwareProfile = Profile{
	Name:    "software",
	Codec:   "libx264",
	Filters: softwareFilters,
}

// candidates are tried in fixed priority order. A candidate must be listed
// by the engine AND pass a short smoke encode before being accepted.
var candidates = []Profile{
	{
		Name:      "nvenc",
		Codec:     "h264_nvenc",
		HEVCCodec: "hevc_nvenc",
		EncoderFlags: []string{
			"-c:v", "h264_nvenc",
			"-preset", "p5",
			"-rc", "vbr",
			"-cq", "23",
		},
		Filters: FilterSet{Scale: "scale_cuda", Overlay: "overlay_cuda", Crop: "crop"},
	},
	{
		Name:      "qsv",
		Codec:     "h264_qsv",
		HEVCCodec: "hevc_qsv",
		EncoderFlags: []string{
			"-c:v", "h264_qsv",
			"-preset", "medium",
			"-global_quality", "23",
		},
		Filters: FilterSet{Scale: "scale_qsv", Overlay: "overlay_qsv", Crop: "crop"},
	},
	{
		Name:      "amf",
		Codec:     "h264_amf",
		HEVCCodec: "hevc_amf",
		EncoderFlags: []string{
			"-c:v", "h264_amf",
			"-quality", "balanced",
		},
		Filters: softwareFilters,
	},
	{
		Name:      "videotoolbox",
		Codec:     "h264_videotoolbox",
		HEVCCodec: "hevc_videotoolbox",
		EncoderFlags: []string{
			"-c:v", "h264_videotoolbox",
			"-b:v", "8M",
		},
		Filters: softwareFilters,
	},
	{
		Name:      "vaapi",
		Codec:     "h264_vaapi",
		HEVCCodec: "hevc_vaapi",
		EncoderFlags: []string{
			"-c:v", "h264_vaapi",
			"-qp", "23",
		},
		Filters: FilterSet{Scale: "scale_vaapi", Overlay: "overlay_vaapi", Crop: "crop"},
	},
	SoftwareProfile,
}

// ProfileByName returns the candidate with the given name, falling back to
// software for unknown names.
func ProfileByName(name string) Profile {
	for _, c := range candidates {
		if c.Name == name {
			return c
		}
	}
	return SoftwareProfile
}
