package httpapi

import (
	"bytes"
	"mime/multipart"
	"testing"
)

// newMultipartBody builds a multipart form body with the given fields and
// files and returns the content type to send with it.
func newMultipartBody(t *testing.T, buf *bytes.Buffer, fields map[string]string, files map[string][]byte) string {
	t.Helper()

	mw := multipart.NewWriter(buf)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			t.Fatalf("writing field %s: %v", name, err)
		}
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile(name, name+".bin")
		if err != nil {
			t.Fatalf("creating file %s: %v", name, err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("writing file %s: %v", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	return mw.FormDataContentType()
}
