package mutation

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/five82/stockroom/internal/catalog"
)

// Draft is the raw text of the product form.
type Draft struct {
	Title       string
	Price       string
	Description string
	CategoryID  string
	Images      string // comma or newline separated
}

// DraftFrom pre-fills the edit form from an existing product.
func DraftFrom(p catalog.Product) Draft {
	d := Draft{
		Title:       p.Title,
		Price:       p.Price.String(),
		Description: p.Description,
		Images:      strings.Join(p.Images, ", "),
	}
	if id := p.CategoryID(); id > 0 {
		d.CategoryID = strconv.FormatInt(id, 10)
	}
	return d
}

// Input parses and validates the draft. Parse failures and validation
// failures are reported together as ValidationErrors.
func (d Draft) Input() (catalog.ProductInput, error) {
	var errs ValidationErrors
	in := catalog.ProductInput{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Images:      SplitImages(d.Images),
	}

	price, err := decimal.NewFromString(strings.TrimSpace(d.Price))
	if err != nil {
		errs.add("price", "not a number")
	} else {
		in.Price = price
	}

	catID, err := strconv.ParseInt(strings.TrimSpace(d.CategoryID), 10, 64)
	if err != nil {
		errs.add("category", "not a number")
	} else {
		in.CategoryID = catID
	}

	if verr := Validate(in); verr != nil {
		for _, fe := range verr.(ValidationErrors) {
			if errs.Field(fe.Field) == "" {
				errs = append(errs, fe)
			}
		}
	}
	if len(errs) > 0 {
		return in, errs
	}
	return in, nil
}

// SplitImages splits a comma or newline separated list and drops blanks.
func SplitImages(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
