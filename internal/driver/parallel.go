package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"movec/internal/diag"
	"movec/internal/observ"
	"movec/internal/pipeline"
	"movec/internal/source"
)

// Options configure a directory run.
type Options struct {
	MaxDiagnostics int
	Jobs           int // 0 = GOMAXPROCS
	Cache          *DiskCache
	Progress       pipeline.ProgressSink
}

// listUnitFiles возвращает отсортированный список всех *.mvu файлов в директории.
func listUnitFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".mvu") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckDir checks every *.mvu file under dir. Passes run concurrently -
// one goroutine per unit, each with its own interner, binding table, and
// bag, so no mutable state is shared between passes.
func CheckDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []*UnitResult, error) {
	files, err := listUnitFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(dir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	progress := pipeline.ProgressSink(pipeline.NopSink{})
	if opts.Progress != nil {
		progress = opts.Progress
	}

	// Предзагружаем все файлы: FileSet не потокобезопасен.
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))
	for _, path := range files {
		progress.OnEvent(pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusQueued})
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			// Пустой виртуальный файл, чтобы спаны диагностики резолвились.
			fileID = fileSet.AddVirtual(path, nil)
		}
		fileIDs[path] = fileID
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Индексы уникальны для каждой горутины, мьютекс не нужен.
	results := make([]*UnitResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			started := time.Now()
			progress.OnEvent(pipeline.Event{File: path, Stage: pipeline.StageCheck, Status: pipeline.StatusWorking})

			if loadErr, hadError := loadErrors[path]; hadError {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.Diagnostic{
					Severity: diag.SevError,
					Code:     diag.IOLoadFileError,
					Message:  "failed to load file: " + loadErr.Error(),
					Primary:  source.Span{File: fileIDs[path]},
				})
				results[i] = &UnitResult{Path: path, FileID: fileIDs[path], Bag: bag, Err: loadErr}
				progress.OnEvent(pipeline.Event{File: path, Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: loadErr, Elapsed: time.Since(started)})
				return nil
			}

			fileID := fileIDs[path]
			results[i] = checkOne(fileSet, fileID, path, opts)

			status := pipeline.StatusDone
			var evErr error
			if results[i].Err != nil || results[i].Bag.HasErrors() {
				status = pipeline.StatusError
				evErr = results[i].Err
			}
			progress.OnEvent(pipeline.Event{File: path, Stage: pipeline.StageCheck, Status: status, Err: evErr, Elapsed: time.Since(started)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// checkOne runs one unit through the cache when enabled, otherwise through
// the checker directly.
func checkOne(fileSet *source.FileSet, fileID source.FileID, path string, opts Options) *UnitResult {
	file := fileSet.Get(fileID)

	if opts.Cache != nil {
		if cached, ok := opts.Cache.Lookup(file.Hash, fileID); ok {
			bag := diag.NewBag(opts.MaxDiagnostics)
			replayResult(cached, bag)
			return &UnitResult{
				Path:   path,
				FileID: fileID,
				Bag:    bag,
				Result: cached,
				Cached: true,
			}
		}
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	timer := observ.NewTimer()
	res := checkLoaded(fileSet, fileID, bag, timer)
	res.Path = path

	if opts.Cache != nil && res.Result != nil {
		// Ошибки записи кэша не фатальны для прохода.
		_ = opts.Cache.Store(file.Hash, res.Result)
	}
	return res
}
