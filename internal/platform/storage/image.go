package storage

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"

	"github.com/quoteroom/quoteroom/internal/platform/httpx"
)

// MaxImageSize is the upload limit for logos and product images.
const MaxImageSize = 2 << 20

var imageExt = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
}

// Image is a validated upload ready to be stored.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// ReadImage loads an uploaded file and checks its size and sniffed content type.
func ReadImage(fh *multipart.FileHeader) (Image, error) {
	if fh.Size > MaxImageSize {
		return Image{}, fmt.Errorf("%w: %s exceeds the 2 MiB limit", httpx.ErrValidation, fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return Image{}, fmt.Errorf("storage: open upload: %w", err)
	}
	defer f.Close()

	return DecodeImage(f, fh.Filename)
}

// DecodeImage validates image bytes read from r.
func DecodeImage(r io.Reader, name string) (Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return Image{}, fmt.Errorf("storage: read upload: %w", err)
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: %s is empty", httpx.ErrValidation, name)
	}
	if len(data) > MaxImageSize {
		return Image{}, fmt.Errorf("%w: %s exceeds the 2 MiB limit", httpx.ErrValidation, name)
	}

	mt := mimetype.Detect(data)
	for ct, ext := range imageExt {
		if mt.Is(ct) {
			return Image{Data: data, ContentType: ct, Ext: ext}, nil
		}
	}
	return Image{}, fmt.Errorf("%w: %s has unsupported type %s", httpx.ErrValidation, name, mt.String())
}

// FormImage returns the optional image in field. A missing field yields nil.
func FormImage(form *multipart.Form, field string) (*Image, error) {
	if form == nil || len(form.File[field]) == 0 {
		return nil, nil
	}
	img, err := ReadImage(form.File[field][0])
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// FormImages returns every image uploaded under field.
func FormImages(form *multipart.Form, field string) ([]Image, error) {
	if form == nil {
		return nil, nil
	}
	out := make([]Image, 0, len(form.File[field]))
	for _, fh := range form.File[field] {
		img, err := ReadImage(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}
