package image

// RejectReason is the machine-readable cause of a failed upload validation.
type RejectReason string

const (
	RejectNone                  RejectReason = ""
	RejectNoFile                RejectReason = "no_file"
	RejectEmptyFilename         RejectReason = "empty_filename"
	RejectUnsupportedExtension  RejectReason = "unsupported_extension"
	RejectUnrecognizedFormat    RejectReason = "unrecognized_format"
	RejectFileTooLarge          RejectReason = "file_too_large"
)

// ValidationResult reports the outcome of upload validation.
type ValidationResult struct {
	IsValid  bool
	Format   string
	FileSize int64
	Reason   RejectReason
	Error    error
}

// Detection is a single detected object with its confidence score.
type Detection struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// QualityReport carries advisory quality metrics computed during enhancement.
type QualityReport struct {
	Brightness float64  `json:"brightness"`
	Contrast   float64  `json:"contrast"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Flags      []string `json:"flags"`
}

// ColorInfo is one dominant color cluster.
type ColorInfo struct {
	Hex     string  `json:"hex"`
	Percent float64 `json:"percentage"`
}
