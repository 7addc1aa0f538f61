package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/annel0/voxel-terrain/internal/engine"
	"github.com/annel0/voxel-terrain/internal/vec"
	"github.com/annel0/voxel-terrain/internal/world/block"
)

// BlockInfo блок в мировых координатах
type BlockInfo struct {
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Z         int    `json:"z"`
	ID        uint8  `json:"id"`
	Name      string `json:"name"`
	Breakable bool   `json:"breakable"`
	Tool      string `json:"tool"`
}

// SetBlockRequest тело PUT /blocks
type SetBlockRequest struct {
	ID *int `json:"id" binding:"required"`
}

// ChunkInfo сводка по загруженному чанку
type ChunkInfo struct {
	Key         string `json:"key"`
	Dirty       bool   `json:"dirty"`
	Provisional bool   `json:"provisional"`
	Opaque      int    `json:"opaque_quads"`
	Transparent int    `json:"transparent_quads"`
	Liquid      int    `json:"liquid_quads"`
	Vertices    int    `json:"vertices"`
	Emitters    int    `json:"emitters"`
}

func parseInts(c *gin.Context, names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		v, err := strconv.Atoi(c.Param(name))
		if err != nil {
			return nil, fmt.Errorf("параметр %s: %w", name, err)
		}
		out[i] = v
	}
	return out, nil
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, GenericResponse{Success: false, Message: err.Error()})
}

func blockInfo(x, y, z int, id block.BlockID) BlockInfo {
	return BlockInfo{
		X: x, Y: y, Z: z,
		ID:        uint8(id),
		Name:      id.String(),
		Breakable: block.Breakable(id),
		Tool:      block.PreferredTool(id).String(),
	}
}

// handleGetBlock GET /api/v1/blocks/:x/:y/:z
func (rs *RestServer) handleGetBlock(c *gin.Context) {
	p, err := parseInts(c, "x", "y", "z")
	if err != nil {
		badRequest(c, err)
		return
	}

	var id block.BlockID
	if err := rs.do(c, func(e *engine.Engine) error {
		id = e.GetBlock(p[0], p[1], p[2])
		return nil
	}); err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Блок", Data: blockInfo(p[0], p[1], p[2], id)})
}

// handleSetBlock PUT /api/v1/blocks/:x/:y/:z
func (rs *RestServer) handleSetBlock(c *gin.Context) {
	p, err := parseInts(c, "x", "y", "z")
	if err != nil {
		badRequest(c, err)
		return
	}
	var req SetBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if *req.ID < 0 || *req.ID > 255 || !block.IsValidBlockID(block.BlockID(*req.ID)) {
		badRequest(c, fmt.Errorf("неизвестный блок %d", *req.ID))
		return
	}

	var applied bool
	var result block.BlockID
	if err := rs.do(c, func(e *engine.Engine) error {
		applied = e.SetBlock(p[0], p[1], p[2], block.BlockID(*req.ID))
		result = e.GetBlock(p[0], p[1], p[2])
		return nil
	}); err != nil {
		rs.fail(c, err)
		return
	}

	if !applied {
		c.JSON(http.StatusConflict, GenericResponse{
			Success: false,
			Message: "Блок не изменён: вне мира, чанк не загружен или блок неразрушим",
			Data:    blockInfo(p[0], p[1], p[2], result),
		})
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Блок изменён", Data: blockInfo(p[0], p[1], p[2], result)})
}

// handleGetChunk GET /api/v1/chunks/:cx/:cz
func (rs *RestServer) handleGetChunk(c *gin.Context) {
	p, err := parseInts(c, "cx", "cz")
	if err != nil {
		badRequest(c, err)
		return
	}
	coords := vec.Vec2{X: p[0], Y: p[1]}

	var info *ChunkInfo
	if err := rs.do(c, func(e *engine.Engine) error {
		m := e.Mesh(coords)
		if m == nil {
			return nil
		}
		info = &ChunkInfo{
			Key:         coords.Key(),
			Dirty:       e.Store().IsDirty(coords),
			Provisional: m.Provisional,
			Opaque:      m.Opaque.QuadCount(),
			Transparent: m.Transparent.QuadCount(),
			Liquid:      m.Liquid.QuadCount(),
			Vertices:    m.Opaque.VertexCount() + m.Transparent.VertexCount() + m.Liquid.VertexCount(),
			Emitters:    len(m.Emitters),
		}
		return nil
	}); err != nil {
		rs.fail(c, err)
		return
	}

	if info == nil {
		c.JSON(http.StatusNotFound, GenericResponse{Success: false, Message: "Чанк не загружен"})
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Чанк", Data: info})
}

// handleRequestChunk POST /api/v1/chunks/:cx/:cz/request
func (rs *RestServer) handleRequestChunk(c *gin.Context) {
	p, err := parseInts(c, "cx", "cz")
	if err != nil {
		badRequest(c, err)
		return
	}
	coords := vec.Vec2{X: p[0], Y: p[1]}

	var accepted bool
	if err := rs.do(c, func(e *engine.Engine) error {
		accepted = e.Request(coords)
		return nil
	}); err != nil {
		rs.fail(c, err)
		return
	}

	if !accepted {
		c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Чанк уже загружен или генерируется"})
		return
	}
	c.JSON(http.StatusAccepted, GenericResponse{Success: true, Message: "Чанк запрошен"})
}

// handleSave POST /api/v1/world/save
func (rs *RestServer) handleSave(c *gin.Context) {
	var n int
	if err := rs.do(c, func(e *engine.Engine) (err error) {
		n, err = e.Save(c.Request.Context())
		return err
	}); err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Мир сохранён", Data: gin.H{"chunks": n}})
}

// handleReset DELETE /api/v1/world
func (rs *RestServer) handleReset(c *gin.Context) {
	if err := rs.do(c, func(e *engine.Engine) error {
		return e.Reset(c.Request.Context())
	}); err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Мир сброшен"})
}

// handleExport GET /api/v1/world/export - снимок изменённых чанков
func (rs *RestServer) handleExport(c *gin.Context) {
	var snapshot map[string]string
	if err := rs.do(c, func(e *engine.Engine) error {
		snapshot = e.Export()
		return nil
	}); err != nil {
		rs.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// handleImport POST /api/v1/world/import - снимок в формате export
func (rs *RestServer) handleImport(c *gin.Context) {
	var snapshot map[string]string
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		badRequest(c, err)
		return
	}

	var n int
	var importErr error
	if err := rs.do(c, func(e *engine.Engine) error {
		n, importErr = e.Import(snapshot)
		return nil
	}); err != nil {
		rs.fail(c, err)
		return
	}
	if importErr != nil {
		badRequest(c, importErr)
		return
	}
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: "Снимок загружен", Data: gin.H{"chunks": n}})
}
