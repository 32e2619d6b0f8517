package block

// Block является значением-вариантом блока. Не имеет идентичности: одинаковые
// варианты в разных позициях разделяют одно и то же значение.
type Block struct {
	ID BlockID
}

// Предопределённые значения базовых блоков
var (
	Air   = Block{ID: AirBlockID}
	Grass = Block{ID: GrassBlockID}
	Stone = Block{ID: StoneBlockID}
	Dirt  = Block{ID: DirtBlockID}
)

// Definition возвращает описание варианта. Неизвестный ID трактуется
// как прозрачный блок без граней.
func (b Block) Definition() Definition {
	def, ok := Get(b.ID)
	if !ok {
		return Definition{ID: b.ID, Name: "unknown", Top: 1, Side: 1, Bottom: 1, Transparent: true}
	}
	return def
}

// Top возвращает тайл верхней грани
func (b Block) Top() int { return b.Definition().Top }

// Side возвращает тайл боковых граней
func (b Block) Side() int { return b.Definition().Side }

// Bottom возвращает тайл нижней грани
func (b Block) Bottom() int { return b.Definition().Bottom }

// IsAir возвращает true для прозрачных блоков
func (b Block) IsAir() bool { return b.Definition().Transparent }

// Name возвращает имя варианта
func (b Block) Name() string { return b.Definition().Name }
