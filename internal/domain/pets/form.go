package pets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	defaultMaxUploadBytes = 16 << 20
	multipartMemory       = 8 << 20
)

// petForm son los valores crudos del request. Admite multipart/form-data (con
// imágenes en el campo "images"), x-www-form-urlencoded y JSON sin imágenes.
type petForm struct {
	Name        string
	Age         string
	Description string
	Weight      string
	Color       string
	Available   string
	Images      []Upload
}

var errBadBody = errors.New("invalid request body")

func readPetForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (petForm, error) {
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		return readJSONForm(r)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return petForm{}, fmt.Errorf("%w: %v", errBadBody, err)
		}
	default:
		if err := r.ParseForm(); err != nil {
			return petForm{}, fmt.Errorf("%w: %v", errBadBody, err)
		}
	}

	f := petForm{
		Name:        r.FormValue("name"),
		Age:         r.FormValue("age"),
		Description: r.FormValue("description"),
		Weight:      r.FormValue("weight"),
		Color:       r.FormValue("color"),
		Available:   r.FormValue("available"),
	}

	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["images"] {
			up, err := readUpload(fh)
			if err != nil {
				return petForm{}, fmt.Errorf("%w: %v", errBadBody, err)
			}
			f.Images = append(f.Images, up)
		}
	}
	return f, nil
}

func readUpload(fh *multipart.FileHeader) (Upload, error) {
	file, err := fh.Open()
	if err != nil {
		return Upload{}, err
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return Upload{}, err
	}
	return Upload{Filename: fh.Filename, Data: data}, nil
}

// discardForm borra los temporales que ParseMultipartForm deja en disco.
func discardForm(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

func readJSONForm(r *http.Request) (petForm, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return petForm{}, fmt.Errorf("%w: %v", errBadBody, err)
	}
	return petForm{
		Name:        rawString(raw["name"]),
		Age:         rawString(raw["age"]),
		Description: rawString(raw["description"]),
		Weight:      rawString(raw["weight"]),
		Color:       rawString(raw["color"]),
		Available:   rawString(raw["available"]),
	}, nil
}

// rawString acepta "2" y 2 por igual; null o ausente queda vacío.
func rawString(v json.RawMessage) string {
	if len(v) == 0 || string(v) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(v))
}

// fields valida los valores crudos en el mismo orden que Fields.Validate y los convierte.
func (f petForm) fields() (Fields, error) {
	err := firstInvalid(
		check("name", strings.TrimSpace(f.Name), validation.Required.Error(msgNameRequired)),
		check("age", strings.TrimSpace(f.Age),
			validation.Required.Error(msgAgeRequired),
			validation.By(nonNegativeInt),
		),
		check("weight", strings.TrimSpace(f.Weight),
			validation.Required.Error(msgWeightRequired),
			validation.By(nonNegativeNumber),
		),
		check("color", strings.TrimSpace(f.Color), validation.Required.Error(msgColorRequired)),
	)
	if err != nil {
		return Fields{}, err
	}

	age, _ := strconv.Atoi(strings.TrimSpace(f.Age))
	weight, _ := strconv.ParseFloat(strings.TrimSpace(f.Weight), 64)
	return Fields{
		Name:        f.Name,
		Age:         &age,
		Description: f.Description,
		Weight:      &weight,
		Color:       f.Color,
	}, nil
}

func (f petForm) createInput() (CreateInput, error) {
	fields, err := f.fields()
	if err != nil {
		return CreateInput{}, err
	}
	return CreateInput{Fields: fields, Images: f.Images}, nil
}

func (f petForm) updateInput() (UpdateInput, error) {
	fields, err := f.fields()
	if err != nil {
		return UpdateInput{}, err
	}
	err = firstInvalid(
		check("available", strings.TrimSpace(f.Available),
			validation.Required.Error(msgStatusRequired),
			validation.By(boolean),
		),
	)
	if err != nil {
		return UpdateInput{}, err
	}
	available, _ := strconv.ParseBool(strings.TrimSpace(f.Available))
	return UpdateInput{Fields: fields, Available: &available, Images: f.Images}, nil
}
