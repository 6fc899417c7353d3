package features

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/go-enry/go-enry/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"
	"github.com/ziadkadry99/greencode/internal/logging"
	"github.com/ziadkadry99/greencode/internal/walker"
)

// Registry maps languages to extractors and caches vectors by content.
type Registry struct {
	extractors map[string]Extractor
	cache      *lru.Cache[string, FeatureVector]
}

// NewRegistry returns a Registry with the built-in extractors. cacheSize
// bounds the content-addressed vector cache; 0 disables it.
func NewRegistry(cacheSize int) *Registry {
	r := &Registry{
		extractors: map[string]Extractor{
			"Python":     pythonExtractor,
			"JavaScript": javascriptExtractor,
			"TypeScript": javascriptExtractor,
			"Vue":        javascriptExtractor,
			"Svelte":     javascriptExtractor,
			"Java":       javaExtractor,
			"Go":         goExtractor{},
		},
	}
	if cacheSize > 0 {
		cache, err := lru.New[string, FeatureVector](cacheSize)
		if err == nil {
			r.cache = cache
		}
	}
	return r
}

// Register installs or replaces the extractor for a language.
func (r *Registry) Register(lang string, ex Extractor) {
	r.extractors[lang] = ex
}

// For returns the extractor for lang, or the generic extractor configured
// with lang's comment syntax.
func (r *Registry) For(lang string) Extractor {
	if ex, ok := r.extractors[lang]; ok {
		return ex
	}
	return genericExtractor.withStyle(lang)
}

// ExtractSource runs the language extractor over src. If it errors or
// panics the generic extractor is used instead; if that fails too the
// result is a zeroed vector carrying the error.
func (r *Registry) ExtractSource(path, lang string, src []byte) FeatureVector {
	ex := r.For(lang)
	v, ok := logging.Attempt("extract:"+ex.Name(), FeatureVector{}, func() (FeatureVector, error) {
		return ex.Extract(path, src)
	})
	if !ok && ex.Name() != genericExtractor.name {
		generic := genericExtractor.withStyle(lang)
		v, ok = logging.Attempt("extract:generic", FeatureVector{}, func() (FeatureVector, error) {
			return generic.Extract(path, src)
		})
	}
	if !ok {
		return zeroVector(path, lang, "feature extraction failed")
	}
	v.Path = path
	v.Language = lang
	return v
}

// ExtractFile reads and analyses one walked file. Unreadable and binary
// files produce a zeroed vector with Error set.
func (r *Registry) ExtractFile(f walker.FileInfo) FeatureVector {
	src, err := os.ReadFile(f.Path)
	if err != nil {
		log.WithError(err).WithField("path", f.RelPath).Debug("unreadable file")
		return zeroVector(f.RelPath, f.Language, fmt.Sprintf("read failed: %v", err))
	}
	if enry.IsBinary(src) {
		return zeroVector(f.RelPath, f.Language, "binary content")
	}

	key := cacheKey(f.Language, src)
	if r.cache != nil {
		if v, ok := r.cache.Get(key); ok {
			return withPath(v, f.RelPath)
		}
	}

	v := r.ExtractSource(f.RelPath, f.Language, src)
	if r.cache != nil && v.Error == "" {
		r.cache.Add(key, v)
	}
	return v
}

// CacheLen reports how many vectors are cached.
func (r *Registry) CacheLen() int {
	if r.cache == nil {
		return 0
	}
	return r.cache.Len()
}

func cacheKey(lang string, src []byte) string {
	sum := sha256.Sum256(src)
	return lang + ":" + hex.EncodeToString(sum[:])
}

// withPath copies a cached vector for another file with the same content.
func withPath(v FeatureVector, path string) FeatureVector {
	counts := make(map[string]int, len(v.Features))
	for k, n := range v.Features {
		counts[k] = n
	}
	v.Features = counts
	v.Path = path
	return v
}
