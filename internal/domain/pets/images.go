package pets

import (
	"context"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Solo jpg y png.
var allowedImageTypes = []struct {
	mime string
	ext  string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
}

type preparedUpload struct {
	data        []byte
	contentType string
	ext         string
}

func prepareUploads(in []Upload) ([]preparedUpload, error) {
	out := make([]preparedUpload, 0, len(in))
	for _, u := range in {
		if len(u.Data) == 0 {
			return nil, invalid("images", msgImageType)
		}
		mt := mimetype.Detect(u.Data)
		matched := false
		for _, allowed := range allowedImageTypes {
			if mt.Is(allowed.mime) {
				out = append(out, preparedUpload{data: u.Data, contentType: allowed.mime, ext: allowed.ext})
				matched = true
				break
			}
		}
		if !matched {
			return nil, invalid("images", msgImageType)
		}
	}
	return out, nil
}

// storeImages guarda todas las subidas o ninguna: ante un error borra las ya guardadas.
func (s *Service) storeImages(ctx context.Context, petID string, uploads []preparedUpload) ([]string, error) {
	refs := make([]string, 0, len(uploads))
	for _, u := range uploads {
		key := path.Join("pets", petID, uuid.NewString()+u.ext)
		ref, err := s.images.Save(ctx, key, u.data, u.contentType)
		if err != nil {
			s.discardImages(ctx, refs)
			return nil, dependency("store image", err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// discardImages es best-effort; un fallo solo se loguea.
func (s *Service) discardImages(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if err := s.images.Delete(context.WithoutCancel(ctx), ref); err != nil {
			s.log.Warn("failed to discard image", map[string]any{
				"ref":   ref,
				"error": err.Error(),
			})
		}
	}
}
