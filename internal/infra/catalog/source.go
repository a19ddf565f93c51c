package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"gopkg.in/yaml.v3"
)

type CatalogError error

var (
	ErrNoSource  CatalogError = errors.New("catalog source not configured")
	ErrEmptyData CatalogError = errors.New("catalog source returned no data")
)

// Source 主要資料來源
type Source interface {
	Listings(ctx context.Context) ([]model.Listing, error)
	Categories(ctx context.Context) ([]model.Category, error)
	Locations(ctx context.Context) (model.Locations, error)
}

/*
FileSource 讀取靜態目錄，每個檔案可用 .json 或 .yaml
	<dir>/listings.json
	<dir>/categories.json
	<dir>/locations/countries.json
	<dir>/locations/states.json
	<dir>/locations/cities.json
同名 .json 存在時優先
*/
type FileSource struct {
	dir string
}

var _ Source = (*FileSource)(nil)

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func readJSONFile[T any](ctx context.Context, path string) (T, error) {
	var v T
	if err := ctx.Err(); err != nil {
		return v, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return v, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return v, nil
}

func readYAMLFile[T any](ctx context.Context, path string) (T, error) {
	var v T
	if err := ctx.Err(); err != nil {
		return v, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return v, fmt.Errorf("failed to read %s: %w", path, err)
	}
	// 先轉成 JSON，欄位名稱沿用 json tag
	var raw any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return v, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	j, err := json.Marshal(raw)
	if err != nil {
		return v, fmt.Errorf("failed to convert %s: %w", path, err)
	}
	if err := json.Unmarshal(j, &v); err != nil {
		return v, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return v, nil
}

// readCatalogFile base 不含副檔名，兩種都不存在時回報 .json 的錯誤
func readCatalogFile[T any](ctx context.Context, base string) (T, error) {
	jsonPath := base + ".json"
	if _, err := os.Stat(jsonPath); err == nil || !errors.Is(err, fs.ErrNotExist) {
		return readJSONFile[T](ctx, jsonPath)
	}
	yamlPath := base + ".yaml"
	if _, err := os.Stat(yamlPath); err != nil {
		return readJSONFile[T](ctx, jsonPath)
	}
	return readYAMLFile[T](ctx, yamlPath)
}

func (f *FileSource) Listings(ctx context.Context) ([]model.Listing, error) {
	return readCatalogFile[[]model.Listing](ctx, filepath.Join(f.dir, "listings"))
}

func (f *FileSource) Categories(ctx context.Context) ([]model.Category, error) {
	return readCatalogFile[[]model.Category](ctx, filepath.Join(f.dir, "categories"))
}

func (f *FileSource) Locations(ctx context.Context) (model.Locations, error) {
	var locations model.Locations
	var err error
	dir := filepath.Join(f.dir, "locations")
	if locations.Countries, err = readCatalogFile[[]model.Country](ctx, filepath.Join(dir, "countries")); err != nil {
		return model.Locations{}, err
	}
	if locations.States, err = readCatalogFile[[]model.State](ctx, filepath.Join(dir, "states")); err != nil {
		return model.Locations{}, err
	}
	if locations.Cities, err = readCatalogFile[[]model.City](ctx, filepath.Join(dir, "cities")); err != nil {
		return model.Locations{}, err
	}
	return locations, nil
}
