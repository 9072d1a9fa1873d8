package intake

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"
)

// extractTextFromMessage pulls the plain-text content out of an email.
// Multipart messages are walked recursively, collecting text/plain parts
// and decoding their transfer encoding. Non-text parts (HTML alternatives,
// attachments) are skipped.
func extractTextFromMessage(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return readPartBody(msg.Body, msg.Header.Get("Content-Transfer-Encoding"))
	}

	boundary, ok := params["boundary"]
	if !ok {
		return readPartBody(msg.Body, msg.Header.Get("Content-Transfer-Encoding"))
	}

	var textContent bytes.Buffer
	if err := collectTextParts(msg.Body, boundary, &textContent, 0); err != nil && textContent.Len() == 0 {
		return "", err
	}

	if textContent.Len() > 0 {
		return textContent.String(), nil
	}
	return "[No text content found in multipart message]", nil
}

// collectTextParts walks a multipart body, appending decoded text/plain
// parts to out. Nesting is bounded to avoid pathological messages.
func collectTextParts(body io.Reader, boundary string, out *bytes.Buffer, depth int) error {
	if depth > 5 {
		return nil
	}

	mr := multipart.NewReader(body, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		partType, partParams, perr := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if perr != nil {
			partType = "text/plain"
		}

		switch {
		case strings.HasPrefix(partType, "multipart/"):
			if nested, ok := partParams["boundary"]; ok {
				if err := collectTextParts(part, nested, out, depth+1); err != nil {
					continue
				}
			}
		case partType == "text/plain":
			text, rerr := readPartBody(part, part.Header.Get("Content-Transfer-Encoding"))
			if rerr != nil {
				continue
			}
			out.WriteString(text)
			out.WriteString("\n")
		}
		// Other parts (text/html, attachments) are ignored.
	}
}

// readPartBody reads a body reader and decodes its transfer encoding.
func readPartBody(r io.Reader, encoding string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
