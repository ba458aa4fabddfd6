package web

import (
	"errors"
	"mime"
	"strings"
)

// defaultContentType is assumed when a response declares no Content-Type.
const defaultContentType = "text/html"

// validateContentType accepts the HTML family and the XML family
// (text/xml, application/xml and any */*+xml). The rejection quotes the
// header as the server sent it.
func validateContentType(declared string) error {
	essence, ok := mediaTypeEssence(declared)
	if !ok || !(isHTML(essence) || isXML(essence)) {
		return unsupportedContentType(strings.TrimSpace(declared))
	}
	return nil
}

// mediaTypeEssence returns the lower cased type/subtype of a Content-Type
// value. When the value does not parse it is returned trimmed with ok false.
func mediaTypeEssence(declared string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil && !errors.Is(err, mime.ErrInvalidMediaParameter) {
		return strings.TrimSpace(declared), false
	}
	if !strings.Contains(mediaType, "/") {
		return mediaType, false
	}
	return mediaType, true
}

func isHTML(essence string) bool {
	return essence == "text/html"
}

func isXML(essence string) bool {
	if essence == "text/xml" || essence == "application/xml" {
		return true
	}
	_, subtype, _ := strings.Cut(essence, "/")
	return strings.HasSuffix(subtype, "+xml")
}
