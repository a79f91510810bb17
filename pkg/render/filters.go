package render

import (
	"strconv"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

var (
	richTextPolicyOnce sync.Once
	richTextPolicy     *bluemonday.Policy
)

// bindingFilters are the pongo2 filters referenced by compiled layouts.
func bindingFilters() map[string]any {
	return map[string]any{
		"checked":  pongo2.FilterFunction(filterChecked),
		"selected": pongo2.FilterFunction(filterSelected),
		"richtext": pongo2.FilterFunction(filterRichText),
	}
}

func filterChecked(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if truthy(in) {
		return pongo2.AsSafeValue(" checked"), nil
	}
	return pongo2.AsSafeValue(""), nil
}

func filterSelected(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() || param == nil {
		return pongo2.AsSafeValue(""), nil
	}
	if in.String() == param.String() {
		return pongo2.AsSafeValue(" selected"), nil
	}
	return pongo2.AsSafeValue(""), nil
}

func filterRichText(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() {
		return pongo2.AsSafeValue(""), nil
	}
	return pongo2.AsSafeValue(SanitizeRichText(in.String())), nil
}

// SanitizeRichText strips markup from HTML-formatted field values that is not
// safe to embed in a rendered layout.
func SanitizeRichText(raw string) string {
	richTextPolicyOnce.Do(func() {
		richTextPolicy = bluemonday.UGCPolicy()
	})
	return richTextPolicy.Sanitize(raw)
}

func truthy(in *pongo2.Value) bool {
	if in.IsNil() {
		return false
	}
	if in.IsString() {
		b, err := strconv.ParseBool(strings.TrimSpace(in.String()))
		return err == nil && b
	}
	return in.IsTrue()
}
