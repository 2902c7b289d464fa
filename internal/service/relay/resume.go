package relay

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/hawkstone-global/hawkstone_backend/pkg/email"
)

var errNotDataURL = errors.New("resume data is not a data URL")

// decodeResume turns the browser's FileReader data URL
// ("data:application/pdf;base64,JVBERi0...") into an attachment.
// Size and content type are not checked.
func decodeResume(fileName, fileType, dataURL string) (email.Attachment, error) {
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok {
		return email.Attachment{}, errNotDataURL
	}

	payload = strings.Join(strings.Fields(payload), "")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return email.Attachment{}, err
	}

	contentType := strings.TrimSpace(fileType)
	if contentType == "" {
		mediaType := strings.TrimPrefix(header, "data:")
		mediaType, _, _ = strings.Cut(mediaType, ";")
		contentType = mediaType
	}

	return email.Attachment{
		Filename:    fileName,
		ContentType: contentType,
		Data:        data,
	}, nil
}
