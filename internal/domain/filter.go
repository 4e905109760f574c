package domain

import (
	"path"
	"regexp"
	"strings"
)

const (
	PrefixRule = "prefix"
	SuffixRule = "suffix"
)

var variantPattern = regexp.MustCompile(`_\d+x\d+px_\d+w$`)

// FilterRule restricts which object keys are considered, by prefix or by
// suffix of the key.
type FilterRule struct {
	Name  string
	Value string
}

func (f FilterRule) FilterKey(key string) bool {
	if f.Name == PrefixRule {
		return strings.HasPrefix(key, f.Value)
	}

	if f.Name == SuffixRule {
		return strings.HasSuffix(key, f.Value)
	}

	msg := "expected FilterRule Name to be either " + PrefixRule + " or " + SuffixRule + ", but was " + f.Name
	panic(msg)
}

// IsVariant reports whether the file name or object key refers to a crop
// that this tool generated, so it is never used as a crop source again.
// Legacy _thumb crops are recognized as well.
func IsVariant(name string) bool {
	_, isVariant := SourceStem(name)
	return isVariant
}

// SourceStem strips the variant suffix from a file name or object key and
// returns the stem of the source it was cropped from, along with whether
// the name was a variant at all.
func SourceStem(name string) (string, bool) {
	stem := stemOf(name)

	if loc := variantPattern.FindStringIndex(stem); loc != nil {
		return stem[:loc[0]], true
	}

	if strings.HasSuffix(stem, "_thumb") {
		return strings.TrimSuffix(stem, "_thumb"), true
	}

	return stem, false
}

// IsJPEG reports whether the file name has a JPEG extension. Other formats
// are left untouched by the pipeline.
func IsJPEG(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".jpg" || ext == ".jpeg"
}

func stemOf(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}

// KeyFilter decides which listed objects are crop sources. Unless Overwrite
// is set, any name containing an underscore is skipped, since underscores
// mark generated files and re-cropping them multiplies the suffix.
type KeyFilter struct {
	Prefix    string
	Overwrite bool
	Rules     []FilterRule
}

// FilterKeys keeps only keys that should be downloaded and cropped. It has
// the rxgo predicate shape so a key listing can be piped through
// Observable.Filter.
func (f KeyFilter) FilterKeys(i interface{}) bool {
	key := i.(string)

	if key == "" || strings.HasSuffix(key, "/") {
		return false
	}

	if !IsJPEG(key) || IsVariant(key) {
		return false
	}

	if !f.Overwrite && strings.Contains(stemOf(key), "_") {
		return false
	}

	for _, rule := range f.Rules {
		if !rule.FilterKey(key) {
			return false
		}
	}

	return true
}
