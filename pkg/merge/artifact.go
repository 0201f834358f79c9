package merge

import (
	"strings"

	"docustream/pkg/lane"
	"docustream/pkg/queue"
)

// Artifact is the terminal product of a run. Ownership transfers to the
// caller on return; the pipeline keeps no reference.
type Artifact struct {
	Bytes    []byte
	MIMEType string
	Filename string
}

// defaultOutputName is used when the caller supplies no output name.
const defaultOutputName = "consolidated"

// newArtifact attaches MIME type and a suggested filename to merged bytes.
func newArtifact(data []byte, output lane.OutputFormat, name string) Artifact {
	base := defaultOutputName
	if strings.TrimSpace(name) != "" {
		base = queue.SanitizeFilename(name)
	}
	ext := "." + output.String()
	if !strings.HasSuffix(strings.ToLower(base), ext) {
		base += ext
	}
	return Artifact{
		Bytes:    data,
		MIMEType: output.MIMEType(),
		Filename: base,
	}
}
