package upload

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	apperrors "github.com/kbukum/streamscribe/errors"
	"github.com/kbukum/streamscribe/util"
	"github.com/kbukum/streamscribe/validation"
)

// Multipart field names.
const (
	FieldFile       = "file"
	FieldOutputName = "output_filename"
)

// AudioExt is the only accepted upload extension, compared case-insensitively.
const AudioExt = ".mp3"

// Client-facing messages. They are part of the HTTP contract.
const (
	MsgNoFile        = "No file provided"
	MsgNoSelection   = "No file selected"
	MsgUnsupported   = "Only MP3 files are supported"
	MsgInvalidOutput = "Invalid output filename"
	MsgMalformed     = "Malformed multipart body"
	MsgAccepted      = "Upload successful, transcription started"
)

// Form holds the optional text fields of an upload.
type Form struct {
	OutputName string `json:"output_filename" validate:"omitempty,max=255,safename"`
}

// Response is the body of a successful upload.
type Response struct {
	FileID  string `json:"file_id"`
	Message string `json:"message"`
}

// parseForm applies the upload rules in order and returns the audio part
// and the requested output name ("" when none).
func parseForm(form *multipart.Form) (*multipart.FileHeader, string, error) {
	files := form.File[FieldFile]
	if len(files) == 0 {
		// A part sent with an empty filename is parsed as a plain value.
		if _, ok := form.Value[FieldFile]; ok {
			return nil, "", apperrors.Validation(MsgNoSelection)
		}
		return nil, "", apperrors.Validation(MsgNoFile)
	}
	fh := files[0]
	if fh.Filename == "" {
		return nil, "", apperrors.Validation(MsgNoSelection)
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), AudioExt) {
		return nil, "", apperrors.Validation(MsgUnsupported)
	}

	var f Form
	if v := form.Value[FieldOutputName]; len(v) > 0 {
		f.OutputName = util.SanitizeString(v[0])
	}
	if err := validation.Validate(f); err != nil {
		return nil, "", apperrors.Validation(MsgInvalidOutput).
			WithDetail("fields", validation.FieldErrors(err))
	}
	return fh, f.OutputName, nil
}
