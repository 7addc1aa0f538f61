package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics Prometheus-метрики движка. Обновляются только из горутины-потребителя.
type Metrics struct {
	ChunksLoaded     prometheus.Gauge
	ChunksDirty      prometheus.Gauge
	ChunksGenerated  prometheus.Counter
	GenerationTime   prometheus.Histogram
	StaleResults     prometheus.Counter
	BlockEdits       prometheus.Counter
	FluidSteps       prometheus.Counter
	FluidCells       prometheus.Counter
	MeshCacheEntries prometheus.Gauge
	MeshRefined      prometheus.Counter
	Saves            prometheus.Counter
	SaveErrors       prometheus.Counter
}

// NewMetrics создаёт метрики и регистрирует их в reg (nil - не регистрировать)
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChunksLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxel", Subsystem: "world",
			Name: "chunks_loaded",
			Help: "Количество загруженных чанков.",
		}),
		ChunksDirty: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxel", Subsystem: "world",
			Name: "chunks_dirty",
			Help: "Количество изменённых чанков, попадающих в сохранение.",
		}),
		ChunksGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel", Subsystem: "pipeline",
			Name: "chunks_installed_total",
			Help: "Чанки, установленные из конвейера генерации.",
		}),
		GenerationTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxel", Subsystem: "pipeline",
			Name:    "generation_seconds",
			Help:    "Время генерации чанка с предварительным мешем.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		StaleResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel", Subsystem: "pipeline",
			Name: "stale_results_total",
			Help: "Результаты генерации, отброшенные потребителем.",
		}),
		BlockEdits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel", Subsystem: "world",
			Name: "block_edits_total",
			Help: "Успешные правки блоков.",
		}),
		FluidSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel", Subsystem: "fluid",
			Name: "steps_total",
			Help: "Шаги симуляции жидкости, изменившие мир.",
		}),
		FluidCells: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel", Subsystem: "fluid",
			Name: "cells_filled_total",
			Help: "Клетки, заполненные жидкостью.",
		}),
		MeshCacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxel", Subsystem: "mesh",
			Name: "cache_entries",
			Help: "Меши в кэше.",
		}),
		MeshRefined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel", Subsystem: "mesh",
			Name: "refined_total",
			Help: "Предварительные меши, перестроенные полным построителем.",
		}),
		Saves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel", Subsystem: "storage",
			Name: "saves_total",
			Help: "Успешные сохранения мира.",
		}),
		SaveErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel", Subsystem: "storage",
			Name: "save_errors_total",
			Help: "Ошибки сохранения мира.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.ChunksLoaded, m.ChunksDirty, m.ChunksGenerated, m.GenerationTime,
			m.StaleResults, m.BlockEdits, m.FluidSteps, m.FluidCells,
			m.MeshCacheEntries, m.MeshRefined, m.Saves, m.SaveErrors,
		)
	}
	return m
}
