// Package storage guarda los PDF de reposos en un bucket compatible con S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrDisabled se devuelve cuando no hay bucket configurado.
var ErrDisabled = errors.New("storage not configured")

// ObjectStore sube objetos y devuelve su URL pública.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (url string, err error)
	Delete(ctx context.Context, key string) error
}

const recipesPrefix = "recipes/"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename deja solo caracteres seguros para una clave de objeto.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "archivo.pdf"
	}
	if len(name) > 100 {
		ext := path.Ext(name)
		if len(ext) > 10 {
			ext = ""
		}
		name = name[:100-len(ext)] + ext
	}
	return name
}

// UploadKey es la clave de un archivo subido por el usuario.
func UploadKey(filename string) string {
	return recipesPrefix + uuid.NewString() + "_" + SanitizeFilename(filename)
}

// GeneratedKey es la clave de un reposo generado para un paciente.
func GeneratedKey(patientID string, n int) string {
	return fmt.Sprintf("%sreposo_%s_%d.pdf", recipesPrefix, SanitizeFilename(patientID), n)
}

// Disabled responde ErrDisabled en todas las operaciones.
type Disabled struct{}

func (Disabled) Put(context.Context, string, string, []byte) (string, error) { return "", ErrDisabled }
func (Disabled) Delete(context.Context, string) error                         { return ErrDisabled }
