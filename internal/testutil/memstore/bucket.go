package memstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"recipe-share/domain"
)

const bucketURL = "https://bucket.test/"

// Bucket is an in-memory object store with the same contract as the S3
// client: uploads are checked against the allowed content types.
type Bucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewBucket() *Bucket {
	return &Bucket{objects: map[string][]byte{}}
}

func (b *Bucket) UploadFile(_ context.Context, fileName string, file *multipart.FileHeader, folder string, allowedTypes ...string) (string, error) {
	contentType := file.Header.Get("Content-Type")
	if len(allowedTypes) > 0 && !slices.Contains(allowedTypes, contentType) {
		return "", domain.ErrInvalidImageFormat
	}

	var data []byte
	if src, err := file.Open(); err == nil {
		data, _ = io.ReadAll(src)
		src.Close()
	}

	objectKey := fmt.Sprintf("%s/%s%s", folder, fileName, strings.ToLower(filepath.Ext(file.Filename)))
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[objectKey] = data
	return objectKey, nil
}

func (b *Bucket) DeleteFile(_ context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, objectKey)
	return nil
}

func (b *Bucket) GetPublicLink(objectKey string) string {
	return bucketURL + objectKey
}

// Keys lists the stored object keys in sorted order.
func (b *Bucket) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// FileHeader builds a multipart upload the way an HTTP form delivers it.
func FileHeader(name, contentType string, data []byte) (*multipart.FileHeader, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, name))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(int64(len(data)) + 1024)
	if err != nil {
		return nil, err
	}
	return form.File["image"][0], nil
}
