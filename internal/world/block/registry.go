package block

import (
	"sort"
	"sync"
)

// BlockID представляет идентификатор варианта блока
type BlockID uint8

// Константы ID блоков
const (
	AirBlockID   BlockID = iota // 0
	GrassBlockID                // 1
	StoneBlockID                // 2
	DirtBlockID                 // 3
)

// Definition описывает вариант блока: индексы тайлов атласа для каждой
// грани и прозрачность. Значения неизменяемы после регистрации в рантайме.
type Definition struct {
	ID          BlockID
	Name        string
	Top         int // Тайл верхней грани
	Side        int // Тайл четырёх боковых граней
	Bottom      int // Тайл нижней грани
	Transparent bool
}

var (
	registryMu sync.RWMutex
	registry   = make(map[BlockID]Definition)
)

// Register добавляет (или заменяет) описание блока в регистре
func Register(def Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[def.ID] = def
}

// Get возвращает описание для указанного ID
func Get(id BlockID) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	def, exists := registry[id]
	return def, exists
}

// IsValidBlockID проверяет, является ли ID допустимым идентификатором блока
func IsValidBlockID(id BlockID) bool {
	_, exists := Get(id)
	return exists
}

// ByName ищет описание блока по имени
func ByName(name string) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, def := range registry {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

// All возвращает все зарегистрированные описания, отсортированные по ID
func All() []Definition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	defs := make([]Definition, 0, len(registry))
	for _, def := range registry {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	return defs
}

// RegisterDefaults регистрирует базовые блоки. Индексы соответствуют
// стандартному атласу из 4 тайлов: трава, бок травы, земля, камень.
func RegisterDefaults() {
	// Тайлы воздуха никогда не читаются: прозрачные блоки отсекаются раньше
	Register(Definition{ID: AirBlockID, Name: "air", Top: 1, Side: 1, Bottom: 1, Transparent: true})
	Register(Definition{ID: GrassBlockID, Name: "grass", Top: 0, Side: 1, Bottom: 2})
	Register(Definition{ID: StoneBlockID, Name: "stone", Top: 3, Side: 3, Bottom: 3})
	Register(Definition{ID: DirtBlockID, Name: "dirt", Top: 2, Side: 2, Bottom: 2})
}

func init() {
	RegisterDefaults()
}
