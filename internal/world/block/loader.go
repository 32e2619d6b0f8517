package block

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownBlock возвращается, если в файле описаний встретилось неизвестное имя блока
var ErrUnknownBlock = errors.New("неизвестный блок")

// textureFile описывает формат YAML-файла с переопределением тайлов атласа.
//
//	blocks:
//	  - name: grass
//	    top: 0
//	    side: 1
//	    bottom: 2
type textureFile struct {
	Blocks []textureEntry `yaml:"blocks"`
}

type textureEntry struct {
	Name   string `yaml:"name"`
	Top    *int   `yaml:"top"`
	Side   *int   `yaml:"side"`
	Bottom *int   `yaml:"bottom"`
}

// LoadDefinitions читает YAML-файл и переопределяет индексы тайлов у
// уже зарегистрированных блоков. Возвращает количество обновлённых блоков.
// atlasSize используется для проверки границ (0 отключает проверку).
func LoadDefinitions(path string, atlasSize int) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return ParseDefinitions(data, atlasSize)
}

// ParseDefinitions применяет описания из YAML-данных
func ParseDefinitions(data []byte, atlasSize int) (int, error) {
	var file textureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("ошибка разбора описаний блоков: %w", err)
	}

	// Сначала валидируем всё, чтобы не применить файл частично
	updated := make([]Definition, 0, len(file.Blocks))
	for _, entry := range file.Blocks {
		def, ok := ByName(entry.Name)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownBlock, entry.Name)
		}
		if entry.Top != nil {
			def.Top = *entry.Top
		}
		if entry.Side != nil {
			def.Side = *entry.Side
		}
		if entry.Bottom != nil {
			def.Bottom = *entry.Bottom
		}
		for _, idx := range []int{def.Top, def.Side, def.Bottom} {
			if idx < 0 || (atlasSize > 0 && idx >= atlasSize) {
				return 0, fmt.Errorf("блок %q: индекс тайла %d вне атласа размера %d", entry.Name, idx, atlasSize)
			}
		}
		updated = append(updated, def)
	}

	for _, def := range updated {
		Register(def)
	}
	return len(updated), nil
}
