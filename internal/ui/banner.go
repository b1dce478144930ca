package ui

import (
	"errors"

	"github.com/five82/stockroom/internal/catalog"
	"github.com/five82/stockroom/internal/mutation"
)

type bannerLevel int

const (
	bannerInfo bannerLevel = iota
	bannerSuccess
	bannerWarning
	bannerError
)

// banner is the one-line notice shown under the command bar.
type banner struct {
	text  string
	level bannerLevel
}

func (b banner) empty() bool { return b.text == "" }

func infoBanner(text string) banner    { return banner{text: text, level: bannerInfo} }
func successBanner(text string) banner { return banner{text: text, level: bannerSuccess} }
func warnBanner(text string) banner    { return banner{text: text, level: bannerWarning} }
func errorBanner(text string) banner   { return banner{text: text, level: bannerError} }

// describeError turns a coordinator or client error into a short message.
func describeError(err error) string {
	if err == nil {
		return ""
	}

	var reconcile *mutation.ReconcileError
	if errors.As(err, &reconcile) {
		return "saved, but refreshing the list failed: " + describeError(reconcile.Err)
	}
	var verrs mutation.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.Error()
	}
	if errors.Is(err, mutation.ErrBusy) {
		return "another change is still being saved"
	}
	var apiErr *catalog.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return "server returned " + apiErr.StatusText() + ": " + apiErr.Message
		}
		return "server returned " + apiErr.StatusText()
	}

	switch catalog.Classify(err) {
	case catalog.KindNetwork:
		return "catalog API unreachable"
	case catalog.KindNotFound:
		return "product no longer exists"
	}
	return err.Error()
}
