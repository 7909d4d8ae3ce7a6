// internal/attachment/attachment.go
//
// Conversion between files on disk and the inline attachments a report
// stores. Pure utility; the report itself never touches the filesystem.

package attachment

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/tomasfradley-collab/Basic-8D-problem-solving/internal/report"
)

// FromFile reads the file at path and converts it to an inline attachment.
// The mime type comes from the extension when known, otherwise from content
// sniffing.
func FromFile(path string) (report.FileAttachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return report.FileAttachment{}, fmt.Errorf("attachment: read %s: %w", path, err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return report.FileAttachment{
		Name:     filepath.Base(path),
		MimeType: mimeType,
		Content:  base64.StdEncoding.EncodeToString(data),
	}, nil
}

// Decode returns the attachment's raw bytes.
func Decode(f report.FileAttachment) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(f.Content)
	if err != nil {
		return nil, fmt.Errorf("attachment: decode %s: %w", f.Name, err)
	}
	return data, nil
}
