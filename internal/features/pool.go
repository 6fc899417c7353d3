package features

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/iter"
	"github.com/ziadkadry99/greencode/internal/walker"
)

// ExtractAll extracts every file with up to workers goroutines (0 means one
// per CPU, 1 runs inline). Results keep the order of files. onDone, if set,
// is called once per finished file and must be safe for concurrent use.
func (r *Registry) ExtractAll(ctx context.Context, files []walker.FileInfo, workers int, onDone func()) ([]FeatureVector, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	extract := func(f *walker.FileInfo) FeatureVector {
		if ctx.Err() != nil {
			return zeroVector(f.RelPath, f.Language, "cancelled")
		}
		v := r.ExtractFile(*f)
		if onDone != nil {
			onDone()
		}
		return v
	}

	var vectors []FeatureVector
	if workers == 1 {
		vectors = make([]FeatureVector, len(files))
		for i := range files {
			vectors[i] = extract(&files[i])
		}
	} else {
		mapper := iter.Mapper[walker.FileInfo, FeatureVector]{MaxGoroutines: workers}
		vectors = mapper.Map(files, extract)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return vectors, nil
}
