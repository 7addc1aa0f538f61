package block

func tex(all int) Textures { return Textures{Top: all, Side: all, Bottom: all} }

func init() {
	Register(AirBlockID, Properties{Name: "AIR", Color: "#000000", Transparent: true})
	Register(GrassBlockID, Properties{Name: "GRASS", Hardness: 0.6, Tool: ToolShovel, Textures: Textures{Top: 0, Side: 8, Bottom: 16}, Color: "#55a02e"})
	Register(DirtBlockID, Properties{Name: "DIRT", Hardness: 0.5, Tool: ToolShovel, Textures: tex(16), Color: "#79553a"})
	Register(StoneBlockID, Properties{Name: "STONE", Hardness: 1.5, Tool: ToolPickaxe, Textures: tex(24), Color: "#808080"})
	Register(WoodBlockID, Properties{Name: "WOOD", Hardness: 2.0, Tool: ToolAxe, Textures: Textures{Top: 32, Side: 33, Bottom: 32}, Color: "#6a4a3a"})
	Register(LeavesBlockID, Properties{Name: "LEAVES", Hardness: 0.2, Textures: tex(34), Color: "#2d5a27", Transparent: true})
	Register(WaterBlockID, Properties{Name: "WATER", Hardness: -1, Textures: tex(35), Color: "#1e90ff", Transparent: true, Liquid: true})
	Register(SandBlockID, Properties{Name: "SAND", Hardness: 0.5, Tool: ToolShovel, Textures: tex(36), Color: "#d9c28e"})
	Register(BirchWoodBlockID, Properties{Name: "BIRCH_WOOD", Hardness: 2.0, Tool: ToolAxe, Textures: Textures{Top: 37, Side: 38, Bottom: 37}, Color: "#d7d1c1"})
	Register(BirchLeavesBlockID, Properties{Name: "BIRCH_LEAVES", Hardness: 0.2, Textures: tex(42), Color: "#6ba04a", Transparent: true})
	Register(SpruceWoodBlockID, Properties{Name: "SPRUCE_WOOD", Hardness: 2.0, Tool: ToolAxe, Textures: Textures{Top: 43, Side: 44, Bottom: 43}, Color: "#4a3222"})
	Register(SpruceLeavesBlockID, Properties{Name: "SPRUCE_LEAVES", Hardness: 0.2, Textures: tex(48), Color: "#1c3d20", Transparent: true})
	Register(BedrockBlockID, Properties{Name: "BEDROCK", Hardness: -1, Textures: tex(50), Color: "#222222"})

	// Руды
	Register(CoalOreBlockID, Properties{Name: "COAL_ORE", Hardness: 3.0, Tool: ToolPickaxe, Textures: tex(54), Color: "#333333"})
	Register(IronOreBlockID, Properties{Name: "IRON_ORE", Hardness: 3.0, Tool: ToolPickaxe, Textures: tex(55), Color: "#d8af93"})
	Register(GoldOreBlockID, Properties{Name: "GOLD_ORE", Hardness: 3.0, Tool: ToolPickaxe, Textures: tex(56), Color: "#fce166"})
	Register(DiamondOreBlockID, Properties{Name: "DIAMOND_ORE", Hardness: 3.0, Tool: ToolPickaxe, Textures: tex(57), Color: "#5decf5"})
	Register(RedstoneOreBlockID, Properties{Name: "REDSTONE_ORE", Hardness: 3.0, Tool: ToolPickaxe, Textures: tex(58), Color: "#ff0000"})
	Register(LapisOreBlockID, Properties{Name: "LAPIS_ORE", Hardness: 3.0, Tool: ToolPickaxe, Textures: tex(59), Color: "#102ad1"})
	Register(CopperOreBlockID, Properties{Name: "COPPER_ORE", Hardness: 3.0, Tool: ToolPickaxe, Textures: tex(60), Color: "#e77c56"})

	// Крафт
	Register(PlanksBlockID, Properties{Name: "PLANKS", Hardness: 2.0, Tool: ToolAxe, Textures: tex(61), Color: "#a1887f"})
	Register(CraftingTableBlockID, Properties{Name: "CRAFTING_TABLE", Hardness: 2.5, Tool: ToolAxe, Textures: Textures{Top: 62, Side: 63, Bottom: 61}, Color: "#795548"})
	Register(StickBlockID, Properties{Name: "STICK", Textures: tex(64), Color: "#4e342e"})
	Register(TorchBlockID, Properties{Name: "TORCH", Textures: tex(65), Color: "#ffa500", Transparent: true, LightEmitter: true})

	// Растительность
	Register(MossBlockID, Properties{Name: "MOSS", Hardness: 0.1, Textures: tex(66), Color: "#4b6329"})
	Register(BushTinyBlockID, Properties{Name: "BUSH_TINY", Hardness: 0.1, Textures: tex(67), Color: "#55a02e", Transparent: true})
	Register(BushDenseBlockID, Properties{Name: "BUSH_DENSE", Hardness: 0.2, Textures: tex(68), Color: "#2d5a27", Transparent: true})
	Register(BushFloweringBlockID, Properties{Name: "BUSH_FLOWERING", Hardness: 0.2, Textures: tex(69), Color: "#6ba04a", Transparent: true})
}
