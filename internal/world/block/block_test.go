package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllIDsRegistered(t *testing.T) {
	for id := 0; id < Count; id++ {
		assert.True(t, IsValidBlockID(BlockID(id)), "блок %d не зарегистрирован", id)
	}
	assert.False(t, IsValidBlockID(BlockID(Count)))
	assert.Equal(t, 28, Count)
}

func TestTransparentSet(t *testing.T) {
	transparent := map[BlockID]bool{
		AirBlockID: true, WaterBlockID: true, LeavesBlockID: true, BirchLeavesBlockID: true,
		SpruceLeavesBlockID: true, TorchBlockID: true, BushTinyBlockID: true,
		BushDenseBlockID: true, BushFloweringBlockID: true,
	}
	for id := 0; id < 256; id++ {
		assert.Equal(t, transparent[BlockID(id)], IsTransparent(BlockID(id)), "прозрачность %d", id)
	}
}

func TestSpecialFlags(t *testing.T) {
	assert.True(t, IsLiquid(WaterBlockID))
	assert.False(t, IsLiquid(AirBlockID))
	assert.True(t, IsLightEmitter(TorchBlockID))
	assert.False(t, IsLightEmitter(StoneBlockID))

	assert.False(t, Breakable(BedrockBlockID))
	assert.False(t, Breakable(WaterBlockID))
	assert.True(t, Breakable(StoneBlockID))
	assert.False(t, Breakable(BlockID(200)), "неизвестный блок не ломается")
}

func TestTexturesAndTools(t *testing.T) {
	assert.Equal(t, Textures{Top: 0, Side: 8, Bottom: 16}, TexturesOf(GrassBlockID))
	assert.Equal(t, Textures{Top: 62, Side: 63, Bottom: 61}, TexturesOf(CraftingTableBlockID))
	assert.Equal(t, Textures{}, TexturesOf(BlockID(99)))

	assert.Equal(t, ToolPickaxe, PreferredTool(DiamondOreBlockID))
	assert.Equal(t, ToolAxe, PreferredTool(SpruceWoodBlockID))
	assert.Equal(t, "SHOVEL", PreferredTool(SandBlockID).String())
	assert.Equal(t, "BEDROCK", BedrockBlockID.String())
}
