package mutation

import (
	"net/url"
	"strings"

	"github.com/five82/stockroom/internal/catalog"
)

// FieldError is a single rejected form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors collects every field that failed validation. It is
// returned before any request is made.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "invalid product: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Kind() catalog.ErrorKind { return catalog.KindValidation }

// Field returns the message for field, or "" when it passed.
func (v ValidationErrors) Field(field string) string {
	for _, fe := range v {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

func (v *ValidationErrors) add(field, msg string) {
	*v = append(*v, FieldError{Field: field, Message: msg})
}

// Normalize trims the title, description and image URLs and drops blank
// image entries. The input's slice is not modified.
func Normalize(in catalog.ProductInput) catalog.ProductInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	images := make([]string, 0, len(in.Images))
	for _, raw := range in.Images {
		if img := strings.TrimSpace(raw); img != "" {
			images = append(images, img)
		}
	}
	in.Images = images
	return in
}

// Validate checks a product input before it is sent to the API.
func Validate(in catalog.ProductInput) error {
	var errs ValidationErrors
	if strings.TrimSpace(in.Title) == "" {
		errs.add("title", "required")
	}
	if in.Price.IsNegative() {
		errs.add("price", "must not be negative")
	}
	if in.CategoryID <= 0 {
		errs.add("category", "must be a positive id")
	}
	validateImages(&errs, in.Images)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateImages(errs *ValidationErrors, images []string) {
	if len(images) == 0 {
		errs.add("images", "at least one image URL is required")
		return
	}
	for _, raw := range images {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			errs.add("images", "not an absolute http(s) URL: "+raw)
			return
		}
	}
}
