package refdata

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.json
var bundled embed.FS

// 文档注释：文件型数据源
// 背景：默认使用随二进制打包的数据；运维可通过 REFDATA_DIR 指向目录替换整套数据。
// 约束：约定文件名 landmarks / carriers / diversions，按 .json、.json.zst、.yaml、.yml 的顺序查找第一个存在的文件。
type fileSource struct {
	fsys fs.FS
	dir  string
}

// Embedded 随二进制打包的数据集
func Embedded() Source { return fileSource{fsys: bundled, dir: "data"} }

// Dir 从目录读取数据集
func Dir(p string) Source { return fileSource{fsys: os.DirFS(p), dir: "."} }

var extensions = []string{".json", ".json.zst", ".yaml", ".yml"}

func (f fileSource) Landmarks(context.Context) ([]Landmark, error) {
	return readDataset[Landmark](f.fsys, f.dir, "landmarks")
}

func (f fileSource) Carriers(context.Context) ([]Carrier, error) {
	return readDataset[Carrier](f.fsys, f.dir, "carriers")
}

func (f fileSource) Diversions(context.Context) ([]DiversionStation, error) {
	return readDataset[DiversionStation](f.fsys, f.dir, "diversions")
}

func readDataset[T any](fsys fs.FS, dir, base string) ([]T, error) {
	for _, ext := range extensions {
		p := path.Join(dir, base+ext)
		b, err := fs.ReadFile(fsys, p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return decode[T](p, b)
	}
	return nil, fmt.Errorf("%s: %w", base, fs.ErrNotExist)
}

func decode[T any](name string, b []byte) ([]T, error) {
	var out []T
	switch {
	case strings.HasSuffix(name, ".json.zst"):
		raw, err := unzstd(b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return decode[T](strings.TrimSuffix(name, ".zst"), raw)
	case strings.HasSuffix(name, ".json"):
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return out, nil
}

func unzstd(b []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(b, nil)
}
