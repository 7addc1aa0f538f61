package block

// BlockID представляет идентификатор блока. В чанке хранится ровно один байт на воксель,
// поэтому номера фиксированы и менять их нельзя: старые сохранения испортятся.
type BlockID uint8

// Константы ID блоков
const (
	AirBlockID           BlockID = iota // 0
	GrassBlockID                        // 1
	DirtBlockID                         // 2
	StoneBlockID                        // 3
	WoodBlockID                         // 4
	LeavesBlockID                       // 5
	WaterBlockID                        // 6
	SandBlockID                         // 7
	BirchWoodBlockID                    // 8
	BirchLeavesBlockID                  // 9
	SpruceWoodBlockID                   // 10
	SpruceLeavesBlockID                 // 11
	BedrockBlockID                      // 12
	CoalOreBlockID                      // 13
	IronOreBlockID                      // 14
	GoldOreBlockID                      // 15
	DiamondOreBlockID                   // 16
	RedstoneOreBlockID                  // 17
	LapisOreBlockID                     // 18
	CopperOreBlockID                    // 19
	PlanksBlockID                       // 20
	CraftingTableBlockID                // 21
	StickBlockID                        // 22
	TorchBlockID                        // 23
	MossBlockID                         // 24
	BushTinyBlockID                     // 25
	BushDenseBlockID                    // 26
	BushFloweringBlockID                // 27

	// Count количество зарегистрированных типов
	Count = int(BushFloweringBlockID) + 1
)

// Tool инструмент, которым блок добывается быстрее
type Tool uint8

const (
	ToolNone Tool = iota
	ToolShovel
	ToolPickaxe
	ToolAxe
)

func (t Tool) String() string {
	switch t {
	case ToolShovel:
		return "SHOVEL"
	case ToolPickaxe:
		return "PICKAXE"
	case ToolAxe:
		return "AXE"
	default:
		return "NONE"
	}
}

// Textures индексы тайлов атласа для граней
type Textures struct {
	Top    int
	Side   int
	Bottom int
}

// Properties свойства типа блока
type Properties struct {
	Name         string
	Hardness     float64 // делитель времени добычи; < 0 = не ломается
	Tool         Tool
	Textures     Textures
	Color        string
	Transparent  bool
	Liquid       bool
	LightEmitter bool
}

var registry [256]*Properties

// Register добавляет свойства блока в регистр
func Register(id BlockID, props Properties) {
	p := props
	registry[id] = &p
}

// Get возвращает свойства для указанного ID
func Get(id BlockID) (Properties, bool) {
	p := registry[id]
	if p == nil {
		return Properties{Name: "UNKNOWN"}, false
	}
	return *p, true
}

// IsValidBlockID проверяет, является ли ID допустимым идентификатором блока
func IsValidBlockID(id BlockID) bool {
	return registry[id] != nil
}

// IsTransparent сквозь блок видно соседние грани. Неизвестные ID считаются непрозрачными.
func IsTransparent(id BlockID) bool {
	p := registry[id]
	return p != nil && p.Transparent
}

// IsLiquid блок является жидкостью
func IsLiquid(id BlockID) bool {
	p := registry[id]
	return p != nil && p.Liquid
}

// IsLightEmitter блок рисуется отдельной моделью, а не кубом
func IsLightEmitter(id BlockID) bool {
	p := registry[id]
	return p != nil && p.LightEmitter
}

// Breakable блок можно сломать (неотрицательная твёрдость)
func Breakable(id BlockID) bool {
	p := registry[id]
	return p != nil && p.Hardness >= 0
}

// PreferredTool инструмент для добычи блока
func PreferredTool(id BlockID) Tool {
	if p := registry[id]; p != nil {
		return p.Tool
	}
	return ToolNone
}

// TexturesOf индексы тайлов; для неизвестных ID все грани берут тайл 0
func TexturesOf(id BlockID) Textures {
	if p := registry[id]; p != nil {
		return p.Textures
	}
	return Textures{}
}

func (id BlockID) String() string {
	if p := registry[id]; p != nil {
		return p.Name
	}
	return "UNKNOWN"
}
