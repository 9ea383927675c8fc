package utils

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateImageFile(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  string
	}{
		{
			name:     "valid png",
			filename: "dog.png",
			size:     1024,
		},
		{
			name:     "valid jpg",
			filename: "dog.jpg",
			size:     1024,
		},
		{
			name:     "valid jpeg uppercase extension",
			filename: "dog.JPEG",
			size:     1024,
		},
		{
			name:     "file too large",
			filename: "dog.png",
			size:     MaxFileSize + 1,
			wantErr:  "FILE_TOO_LARGE",
		},
		{
			name:     "invalid format",
			filename: "dog.gif",
			size:     1024,
			wantErr:  "INVALID_FILE_FORMAT",
		},
		{
			name:     "no extension",
			filename: "dog",
			size:     1024,
			wantErr:  "INVALID_FILE_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := &multipart.FileHeader{
				Filename: tt.filename,
				Size:     tt.size,
			}

			err := ValidateImageFile(header)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			var uploadErr *FileUploadError
			assert.ErrorAs(t, err, &uploadErr)
			assert.Equal(t, tt.wantErr, uploadErr.Code)
		})
	}
}
